package grpc

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// ClerkIDMetadataKey is set by the auth interceptor after token validation
const ClerkIDMetadataKey = "clerk-id"

// GetClerkIDFromContext returns the clerk set by the auth interceptor
func GetClerkIDFromContext(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	ids := md.Get(ClerkIDMetadataKey)
	if len(ids) == 0 || ids[0] == "" {
		return "", false
	}
	return ids[0], true
}
