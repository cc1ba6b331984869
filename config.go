package goRoles

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines the client configuration.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API        APIConfig
	Session    SessionConfig
	Refresh    RefreshConfig
	Transport  TransportConfig
	Navigation NavigationConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the role API.
type APIConfig struct {
	BaseURL      string // scheme://host[:port][/prefix]
	ResourcePath string // appended to BaseURL, default "/roles"
	Timeout      time.Duration
	UserAgent    string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the session identity lifecycle.
type SessionConfig struct {
	RedisPrefix          string
	Profile              string
	PersistTTL           time.Duration
	RevokeTimeout        time.Duration
	LogoutOnUnauthorized bool
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig controls the single-slot refresh timer.
type RefreshConfig struct {
	Enabled bool
	Lead    time.Duration // how long before expiry the refresh fires
	Timeout time.Duration // bound on a timer-triggered refresh exchange
}

/*
====================================
TRANSPORT CONFIG
====================================
*/

// TransportConfig controls the outgoing request chain.
type TransportConfig struct {
	RequestIDHeader string
	RateLimit       float64 // requests per second, 0 disables pacing
	Burst           int
	MaxResponseSize int64
}

/*
====================================
NAVIGATION CONFIG
====================================
*/

// NavigationConfig names the routes used for post-logout navigation.
type NavigationConfig struct {
	LoginRoute string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used by [New].
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:      "http://localhost:4000",
			ResourcePath: "/roles",
			Timeout:      30 * time.Second,
			UserAgent:    "goRoles",
		},
		Session: SessionConfig{
			RedisPrefix:          "rs",
			Profile:              "default",
			PersistTTL:           7 * 24 * time.Hour,
			RevokeTimeout:        10 * time.Second,
			LogoutOnUnauthorized: false,
		},
		Refresh: RefreshConfig{
			Enabled: true,
			Lead:    time.Minute,
			Timeout: 30 * time.Second,
		},
		Transport: TransportConfig{
			RequestIDHeader: "X-Request-ID",
			RateLimit:       0,
			Burst:           1,
			MaxResponseSize: 4 << 20,
		},
		Navigation: NavigationConfig{
			LoginRoute: "/role/login",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)
	out.API.ResourcePath = strings.TrimSpace(cfg.API.ResourcePath)
	out.Session.Profile = strings.TrimSpace(cfg.Session.Profile)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid field of c.
func (c *Config) Validate() error {
	// API
	if c.API.BaseURL == "" {
		return errors.New("API BaseURL must be set")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.New("API BaseURL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API BaseURL scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("API BaseURL must include a host")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return errors.New("API BaseURL must not carry a query or fragment")
	}
	if c.API.ResourcePath != "" && !strings.HasPrefix(c.API.ResourcePath, "/") {
		return errors.New("API ResourcePath must start with '/'")
	}
	if c.API.Timeout < 0 {
		return errors.New("API Timeout must be >= 0")
	}

	// Session
	if c.Session.PersistTTL < 0 {
		return errors.New("Session PersistTTL must be >= 0")
	}
	if c.Session.RevokeTimeout <= 0 {
		return errors.New("Session RevokeTimeout must be > 0")
	}

	// Refresh
	if c.Refresh.Enabled {
		if c.Refresh.Lead < 0 {
			return errors.New("Refresh Lead must be >= 0")
		}
		if c.Refresh.Timeout <= 0 {
			return errors.New("Refresh Timeout must be > 0")
		}
	}

	// Transport
	if c.Transport.RateLimit < 0 {
		return errors.New("Transport RateLimit must be >= 0")
	}
	if c.Transport.RateLimit > 0 && c.Transport.Burst < 1 {
		return errors.New("Transport Burst must be >= 1 when RateLimit is set")
	}
	if c.Transport.MaxResponseSize <= 0 {
		return errors.New("Transport MaxResponseSize must be > 0")
	}

	// Navigation
	if strings.TrimSpace(c.Navigation.LoginRoute) == "" {
		return errors.New("Navigation LoginRoute must be set")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}

	return nil
}

func (c *Config) resourceURL() string {
	base := strings.TrimRight(c.API.BaseURL, "/")
	path := strings.Trim(c.API.ResourcePath, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}
