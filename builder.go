package goRoles

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	internalaudit "github.com/MrEthical07/goRoles/internal/audit"
	"github.com/MrEthical07/goRoles/middleware"
	"github.com/MrEthical07/goRoles/refresh"
	"github.com/MrEthical07/goRoles/session"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// Builder assembles a [Client].
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	httpClient *http.Client
	navigator  Navigator
	persister  session.Persister
	auditSink  AuditSink
	logger     *slog.Logger
	clock      refresh.Clock

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets Config.API.BaseURL.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient supplies the HTTP client. Its Transport is wrapped by the
// middleware chain and a cookie jar is installed when it has none. The
// caller's client is copied, not mutated.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithNavigator sets the post-logout navigation target.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithPersister enables session persistence across process restarts.
func (b *Builder) WithPersister(p session.Persister) *Builder {
	b.persister = p
	return b
}

// WithAuditSink sets the audit sink. Audit still needs Config.Audit.Enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the structured logger. The default discards output.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock replaces the clock driving the refresh timer.
func (b *Builder) WithClock(clock refresh.Clock) *Builder {
	b.clock = clock
	return b
}

// WithMetricsEnabled toggles Config.Metrics.Enabled.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles Config.Metrics.EnableLatencyHistograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Client.
//
// Build may return an error when the configuration is invalid or the
// builder was already used.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	resource, err := url.Parse(cfg.resourceURL())
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := b.clock
	if clock == nil {
		clock = refresh.SystemClock{}
	}
	navigator := b.navigator
	if navigator == nil {
		navigator = noopNavigator{}
	}

	c := &Client{
		config:    cfg,
		baseURL:   resource.String(),
		resource:  resource,
		store:     session.NewStore[Role](),
		persister: b.persister,
		navigator: navigator,
		logger:    logger,
		clock:     clock,
		metrics:   NewMetrics(cfg.Metrics),
	}
	c.scheduler = refresh.NewScheduler(clock, cfg.Refresh.Lead)
	c.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	// -------- HTTP CLIENT --------
	httpClient := &http.Client{}
	if b.httpClient != nil {
		copied := *b.httpClient
		httpClient = &copied
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = cfg.API.Timeout
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	var limiter *rate.Limiter
	if cfg.Transport.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Transport.RateLimit), cfg.Transport.Burst)
	}

	mws := []middleware.Middleware{
		middleware.RequestID(cfg.Transport.RequestIDHeader),
		middleware.UserAgent(cfg.API.UserAgent),
		middleware.Bearer(c.currentToken, resource.Host),
		middleware.RateLimit(limiter),
	}
	if cfg.Session.LogoutOnUnauthorized {
		mws = append(mws, middleware.OnStatus(
			[]int{http.StatusUnauthorized, http.StatusForbidden},
			c.onUnauthorized,
		))
	}
	httpClient.Transport = middleware.Chain(httpClient.Transport, mws...)

	c.http = httpClient
	c.jar = httpClient.Jar

	b.built = true

	return c, nil
}
