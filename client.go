package goRoles

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	internalaudit "github.com/MrEthical07/goRoles/internal/audit"
	"github.com/MrEthical07/goRoles/refresh"
	"github.com/MrEthical07/goRoles/session"
	"golang.org/x/sync/singleflight"
)

// Client talks to the role API and owns the session identity. It is safe
// for concurrent use after [Builder.Build].
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config   Config
	baseURL  string
	resource *url.URL

	http *http.Client
	jar  http.CookieJar

	store     *session.Store[Role]
	scheduler *refresh.Scheduler
	persister session.Persister
	navigator Navigator

	audit   *internalaudit.Dispatcher
	metrics *Metrics
	logger  *slog.Logger
	clock   refresh.Clock

	refreshGroup singleflight.Group

	// sessionMu orders identity publication against endSession. epoch is
	// bumped by every ended session.
	sessionMu sync.Mutex
	epoch     uint64

	taskMu    sync.Mutex
	tasks     sync.WaitGroup
	closed    bool
	closeOnce sync.Once
}

// Current returns the signed-in identity, if any.
func (c *Client) Current() (Role, bool) {
	if c == nil {
		return Role{}, false
	}
	return c.store.Value()
}

// Session returns the current snapshot including its version.
func (c *Client) Session() SessionSnapshot {
	if c == nil {
		return SessionSnapshot{}
	}
	return c.store.Snapshot()
}

// Subscribe returns a subscription that immediately receives the current
// snapshot and then every later change. Call Close on it when done.
// A nil Client returns nil.
func (c *Client) Subscribe() *Subscription {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Subscribe()
}

// NextRefresh reports when the pending refresh fires.
func (c *Client) NextRefresh() (time.Time, bool) {
	if c == nil {
		return time.Time{}, false
	}
	t := c.scheduler.Next()
	if t == nil {
		return time.Time{}, false
	}
	return t.FireAt(), true
}

// Config returns a copy of the active configuration.
func (c *Client) Config() Config {
	return cloneConfig(c.config)
}

// MetricsSnapshot returns a copy of the client counters.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return NewMetrics(MetricsConfig{}).Snapshot()
	}
	return c.metrics.Snapshot()
}

// AuditDropped reports audit events lost to backpressure.
func (c *Client) AuditDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.audit.Dropped()
}

// Close disarms the refresh timer, waits for background revocations and
// timer-triggered refreshes, then flushes the audit dispatcher. The
// session identity is left untouched. Close is idempotent.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		c.taskMu.Lock()
		c.closed = true
		c.taskMu.Unlock()

		c.scheduler.Disarm()
		c.tasks.Wait()
		c.audit.Close()
	})
}

func (c *Client) ready() error {
	if c == nil || c.http == nil {
		return ErrClientNotReady
	}
	c.taskMu.Lock()
	defer c.taskMu.Unlock()
	if c.closed {
		return ErrClientNotReady
	}
	return nil
}

// startTask registers a background goroutine with Close. It reports false
// once Close has begun.
func (c *Client) startTask() bool {
	c.taskMu.Lock()
	defer c.taskMu.Unlock()
	if c.closed {
		return false
	}
	c.tasks.Add(1)
	return true
}

func (c *Client) sessionEpoch() uint64 {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	return c.epoch
}

func (c *Client) currentToken() string {
	role, ok := c.store.Value()
	if !ok {
		return ""
	}
	return role.JWTToken
}
