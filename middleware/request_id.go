package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the header used when none is configured.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

// WithRequestID pins the correlation id used for requests made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

// RequestIDFromContext returns the id set by [WithRequestID].
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDContextKey{}).(string)
	return id, ok && id != ""
}

// RequestID sets header on every request. The id comes from the request
// context when present, otherwise a random UUID is generated.
func RequestID(header string) Middleware {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(header) != "" {
				return next.RoundTrip(req)
			}
			id, ok := RequestIDFromContext(req.Context())
			if !ok {
				id = uuid.NewString()
			}
			req = req.Clone(req.Context())
			req.Header.Set(header, id)
			return next.RoundTrip(req)
		})
	}
}
