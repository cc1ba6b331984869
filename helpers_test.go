package goRoles

import (
	"context"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goRoles/internal/fakeapi"
	"github.com/MrEthical07/goRoles/refresh"
)

type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// newManualClock starts at wall time because credentials carry real expiries.
func newManualClock() *manualClock {
	return &manualClock{now: time.Now()}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) refresh.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(_ context.Context, route string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	return nil
}

func (n *recordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type testEnv struct {
	api    *fakeapi.Server
	ts     *httptest.Server
	client *Client
	clock  *manualClock
	nav    *recordingNavigator
}

func newTestEnv(t *testing.T, configure func(*Builder)) *testEnv {
	t.Helper()
	return newTestEnvWithAPI(t, fakeapi.Options{TokenTTL: 2 * time.Minute}, configure)
}

func newTestEnvWithAPI(t *testing.T, opts fakeapi.Options, configure func(*Builder)) *testEnv {
	t.Helper()

	api, err := fakeapi.New(opts)
	if err != nil {
		t.Fatalf("fake api: %v", err)
	}
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{api: api, ts: ts, clock: newManualClock(), nav: &recordingNavigator{}}
	env.client = env.build(t, configure)
	return env
}

// build returns another client against the same API.
func (e *testEnv) build(t *testing.T, configure func(*Builder)) *Client {
	t.Helper()

	b := New().
		WithBaseURL(e.ts.URL).
		WithClock(e.clock).
		WithNavigator(e.nav)
	if configure != nil {
		configure(b)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func (e *testEnv) seedUser(t *testing.T, email, password string) fakeapi.RoleView {
	t.Helper()
	return e.seed(t, email, password, fakeapi.RoleUser)
}

func (e *testEnv) seedAdmin(t *testing.T, email, password string) fakeapi.RoleView {
	t.Helper()
	return e.seed(t, email, password, fakeapi.RoleAdmin)
}

func (e *testEnv) seed(t *testing.T, email, password, role string) fakeapi.RoleView {
	t.Helper()
	view, err := e.api.Seed(fakeapi.Seed{
		FirstName: "Test",
		LastName:  "Account",
		Email:     email,
		Password:  password,
		Role:      role,
		Verified:  true,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return view
}

func (e *testEnv) login(t *testing.T, email, password string) Role {
	t.Helper()
	role, err := e.client.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return role
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
