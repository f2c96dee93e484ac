package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"toolrental-backend/internal/config"
	"toolrental-backend/internal/security"
)

const clerkIDKey = "clerk-id"

type AuthInterceptor struct {
	tokenManager security.TokenManager
}

// NewAuthInterceptor returns an interceptor that validates clerk tokens. A nil
// token manager disables authentication.
func NewAuthInterceptor(tm security.TokenManager) *AuthInterceptor {
	return &AuthInterceptor{tokenManager: tm}
}

// Unary returns a server interceptor function to authenticate unary RPCs
func (i *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		// Never trust a clerk id sent by the client
		ctx = stripClerkID(ctx)

		if i.tokenManager == nil || config.GetSecurityLevel(info.FullMethod) == config.SecurityPublic {
			return handler(ctx, req)
		}

		token, err := i.extractToken(ctx)
		if err != nil {
			return nil, err
		}

		claims, err := i.tokenManager.ValidateToken(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}
		if claims.Type != security.TokenTypeAccess {
			return nil, status.Error(codes.PermissionDenied, "access token required")
		}

		md, _ := metadata.FromIncomingContext(ctx)
		md = md.Copy()
		md.Set(clerkIDKey, claims.ClerkID)
		newCtx := metadata.NewIncomingContext(security.WithClerk(ctx, claims), md)

		return handler(newCtx, req)
	}
}

func (i *AuthInterceptor) extractToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "metadata is not provided")
	}

	authHeader := md["authorization"]
	if len(authHeader) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization token is not provided")
	}

	token := authHeader[0]
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}

	return token, nil
}

func stripClerkID(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return metadata.NewIncomingContext(ctx, metadata.MD{})
	}
	if len(md.Get(clerkIDKey)) == 0 {
		return ctx
	}
	md = md.Copy()
	md.Delete(clerkIDKey)
	return metadata.NewIncomingContext(ctx, md)
}
