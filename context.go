package goRoles

import (
	"context"

	"github.com/MrEthical07/goRoles/middleware"
)

// WithRequestID pins the correlation id sent with every request made
// using ctx. Without it each request gets a fresh UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return middleware.WithRequestID(ctx, id)
}

// RequestIDFromContext returns the id set by [WithRequestID].
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return middleware.RequestIDFromContext(ctx)
}
