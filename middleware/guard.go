package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrEthical07/goRoles/jwt"
)

// TokenVerifier validates a bearer credential. [*jwt.Manager] satisfies it.
type TokenVerifier interface {
	Parse(token string) (*jwt.RoleClaims, error)
}

type claimsContextKey struct{}

// ClaimsFromContext returns the claims injected by [RequireBearer].
func ClaimsFromContext(ctx context.Context) (*jwt.RoleClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*jwt.RoleClaims)
	return claims, ok
}

// RequireBearer rejects requests without a valid bearer token with 401.
func RequireBearer(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				writeUnauthorized(w)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeUnauthorized(w)
				return
			}

			claims, err := verifier.Parse(token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
