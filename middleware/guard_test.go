package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrEthical07/goRoles/jwt"
)

func newVerifier(t *testing.T) *jwt.Manager {
	t.Helper()
	m, err := jwt.NewManager(jwt.Config{
		TTL:           time.Minute,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    []byte("guard-test-secret-guard-test-secret"),
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestRequireBearer(t *testing.T) {
	m := newVerifier(t)
	token, _, err := m.Issue("7", "Admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotID string
	h := RequireBearer(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims in context")
		}
		gotID = claims.ID
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"lowercase scheme", "bearer " + token, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/roles", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	if gotID != "7" {
		t.Fatalf("expected claims id 7, got %q", gotID)
	}
}

func TestRequireBearerNilVerifier(t *testing.T) {
	h := RequireBearer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
