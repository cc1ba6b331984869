package middleware

import (
	"net/http"
	"slices"
	"strings"

	"golang.org/x/time/rate"
)

// Middleware decorates a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to [http.RoundTripper].
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Chain wraps base with mws. The first middleware is the outermost and sees
// the request first. A nil base means [http.DefaultTransport].
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		rt = mws[i](rt)
	}
	return rt
}

// UserAgent sets the User-Agent header when the request does not carry one.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if ua == "" || req.Header.Get("User-Agent") != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("User-Agent", ua)
			return next.RoundTrip(req)
		})
	}
}

// TokenSource returns the credential to present, or "" when there is none.
type TokenSource func() string

// Bearer attaches "Authorization: Bearer <token>" to requests whose host
// equals host. Requests that already carry an Authorization header are
// left alone, as are requests when source returns "".
func Bearer(source TokenSource, host string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if source == nil || req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}
			if host != "" && !strings.EqualFold(req.URL.Host, host) {
				return next.RoundTrip(req)
			}
			token := source()
			if token == "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}

// RateLimit blocks each request until limiter admits it or the request
// context ends. A nil limiter disables pacing.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if limiter == nil {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(req)
		})
	}
}

// OnStatus calls fn after a response with one of codes is received. The
// response is returned to the caller unchanged.
func OnStatus(codes []int, fn func(req *http.Request, resp *http.Response)) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if fn == nil || len(codes) == 0 {
			return next
		}
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil {
				return resp, err
			}
			if slices.Contains(codes, resp.StatusCode) {
				fn(req, resp)
			}
			return resp, nil
		})
	}
}
