package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"toolrental-backend/internal/security"
)

// AuthMiddleware requires a clerk access token on the wrapped routes. With a
// nil token manager every request passes through unauthenticated.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if tokens == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if len(header) <= 7 || !strings.EqualFold(header[:7], "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
				return
			}
			claims, err := tokens.ValidateToken(header[7:])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token: " + err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(security.WithClerk(r.Context(), claims)))
		})
	}
}
