package security

import "context"

type clerkKey struct{}

// WithClerk stores validated claims on the request context
func WithClerk(ctx context.Context, claims *ClerkClaims) context.Context {
	return context.WithValue(ctx, clerkKey{}, claims)
}

// ClerkFromContext returns the claims set by the auth middleware, if any
func ClerkFromContext(ctx context.Context) (*ClerkClaims, bool) {
	claims, ok := ctx.Value(clerkKey{}).(*ClerkClaims)
	return claims, ok && claims != nil
}

// ClerkID returns the authenticated clerk or "anonymous"
func ClerkID(ctx context.Context) string {
	if claims, ok := ClerkFromContext(ctx); ok {
		return claims.ClerkID
	}
	return "anonymous"
}
