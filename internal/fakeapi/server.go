package fakeapi

import (
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MrEthical07/goRoles/internal/rate"
	"github.com/MrEthical07/goRoles/jwt"
	"github.com/MrEthical07/goRoles/middleware"
	"github.com/MrEthical07/goRoles/password"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const refreshCookie = "refreshToken"

// Options configures a [Server].
type Options struct {
	ResourcePath string        // default "/roles"
	Secret       []byte        // HS256 signing key; random when empty
	TokenTTL     time.Duration // credential lifetime, default 15m
	RefreshTTL   time.Duration // refresh cookie lifetime, default 7d
	ResetTTL     time.Duration // reset token lifetime, default 24h
	Hasher       *password.Hasher
	Limiter      *rate.Limiter // optional login throttle
	AccessLog    io.Writer     // optional combined access log
	Logger       *slog.Logger
}

type fault struct {
	status  int
	message string
}

// Server is an in-memory implementation of the role API.
type Server struct {
	opts    Options
	tokens  *jwt.Manager
	hasher  *password.Hasher
	handler http.Handler

	mu       sync.Mutex
	accounts map[string]*account
	byEmail  map[string]string
	refresh  map[[32]byte]*refreshEntry
	verify   map[[32]byte]string
	resets   map[[32]byte]resetEntry
	outbox   map[string]string
	faults   map[string]fault
	gates    map[string]chan struct{}
	calls    map[string]int
	headers  map[string]http.Header
}

// New builds a Server.
func New(opts Options) (*Server, error) {
	if opts.ResourcePath == "" {
		opts.ResourcePath = "/roles"
	}
	if !strings.HasPrefix(opts.ResourcePath, "/") {
		return nil, errors.New("resource path must start with '/'")
	}
	opts.ResourcePath = strings.TrimRight(opts.ResourcePath, "/")
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if opts.ResetTTL <= 0 {
		opts.ResetTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(opts.Secret) == 0 {
		opts.Secret = make([]byte, 32)
		if _, err := rand.Read(opts.Secret); err != nil {
			return nil, err
		}
	}

	hasher := opts.Hasher
	if hasher == nil {
		h, err := password.NewHasher(password.FastConfig())
		if err != nil {
			return nil, err
		}
		hasher = h
	}

	tokens, err := jwt.NewManager(jwt.Config{
		TTL:           opts.TokenTTL,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    opts.Secret,
		Issuer:        "fakeapi",
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		tokens:   tokens,
		hasher:   hasher,
		accounts: map[string]*account{},
		byEmail:  map[string]string{},
		refresh:  map[[32]byte]*refreshEntry{},
		verify:   map[[32]byte]string{},
		resets:   map[[32]byte]resetEntry{},
		outbox:   map[string]string{},
		faults:   map[string]fault{},
		gates:    map[string]chan struct{}{},
		calls:    map[string]int{},
		headers:  map[string]http.Header{},
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Tokens exposes the credential issuer, for tests that need custom lifetimes.
func (s *Server) Tokens() *jwt.Manager {
	return s.tokens
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(s.opts.ResourcePath).Subrouter()

	api.HandleFunc("/authenticate", s.authenticate).Methods(http.MethodPost)
	api.HandleFunc("/refresh-token", s.refreshToken).Methods(http.MethodPost)
	api.HandleFunc("/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/verify-email", s.verifyEmail).Methods(http.MethodPost)
	api.HandleFunc("/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/validate-reset-token", s.validateResetToken).Methods(http.MethodPost)
	api.HandleFunc("/reset-password", s.resetPassword).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.RequireBearer(s.tokens), s.requireAccount)
	authed.HandleFunc("/revoke-token", s.revokeToken).Methods(http.MethodPost)
	authed.HandleFunc("", s.list).Methods(http.MethodGet)
	authed.HandleFunc("/", s.list).Methods(http.MethodGet)
	authed.HandleFunc("", s.create).Methods(http.MethodPost)
	authed.HandleFunc("/", s.create).Methods(http.MethodPost)
	authed.HandleFunc("/{id}", s.get).Methods(http.MethodGet)
	authed.HandleFunc("/{id}", s.update).Methods(http.MethodPut)
	authed.HandleFunc("/{id}", s.remove).Methods(http.MethodDelete)

	var h http.Handler = s.instrument(r)
	h = handlers.ContentTypeHandler(h, "application/json")
	if s.opts.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(s.opts.AccessLog, h)
	}
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
}

// instrument counts calls, records headers and applies injected faults and gates.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := s.key(r.Method, r.URL.Path)

		s.mu.Lock()
		s.calls[key]++
		s.headers[key] = r.Header.Clone()
		f, faulted := s.faults[key]
		if faulted {
			delete(s.faults, key)
		}
		gate := s.gates[key]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if faulted {
			writeMessage(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) key(method, path string) string {
	suffix := strings.TrimPrefix(path, s.opts.ResourcePath)
	if suffix == "" {
		suffix = "/"
	}
	return method + " " + suffix
}

// Fail makes the next request to method and path (relative to the resource
// path, "/" for the collection) answer status with message.
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+path] = fault{status: status, message: message}
}

// Gate holds requests to method and path until the returned release
// function is called.
func (s *Server) Gate(method, path string) (release func()) {
	ch := make(chan struct{})
	key := method + " " + path

	s.mu.Lock()
	s.gates[key] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, key)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls counts requests to method and path.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// LastHeaders returns the headers of the latest request to method and path.
func (s *Server) LastHeaders(method, path string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[method+" "+path].Clone()
}

// Outbox returns the last verification or reset token "mailed" to email.
func (s *Server) Outbox(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.outbox[normalizeEmail(email)]
	return token, ok
}

// Account returns the stored view of id.
func (s *Server) Account(id string) (RoleView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return RoleView{}, false
	}
	return a.view(), true
}

// ActiveRefreshTokens counts unrevoked, unexpired refresh tokens of id.
func (s *Server) ActiveRefreshTokens(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	n := 0
	for _, e := range s.refresh {
		if e.accountID == id && !e.revoked && now.Before(e.expires) {
			n++
		}
	}
	return n
}

// Seed creates an account directly.
func (s *Server) Seed(seed Seed) (RoleView, error) {
	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return RoleView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(seed.Email)
	if email == "" {
		return RoleView{}, errors.New("seed email required")
	}
	if _, exists := s.byEmail[email]; exists {
		return RoleView{}, errors.New("seed email already registered")
	}
	role := seed.Role
	if role == "" {
		role = RoleUser
	}

	a := s.newAccountLocked(email, hash, role)
	a.title, a.firstName, a.lastName = seed.Title, seed.FirstName, seed.LastName
	if seed.Verified {
		a.verified = a.created
	}
	return a.view(), nil
}

func (s *Server) newAccountLocked(email, hash, role string) *account {
	now := time.Now()
	a := &account{
		id:           uuid.NewString(),
		email:        email,
		role:         role,
		passwordHash: hash,
		created:      now,
	}
	s.accounts[a.id] = a
	s.byEmail[email] = a.id
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
