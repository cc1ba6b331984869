package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	events  []Event
}

func (s *blockingSink) Emit(_ context.Context, e Event) {
	<-s.release
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), Event{EventType: "x"})
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("nil dispatcher must report zero counters")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), Event{EventType: "login_success"})
	}
	if d.Dropped() == 0 {
		t.Fatal("expected drops with a blocked sink and buffer of one")
	}

	close(sink.release)
	d.Close()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if got := uint64(len(sink.events)) + d.Dropped(); got != 10 {
		t.Fatalf("delivered+dropped = %d, want 10", got)
	}
}

func TestDispatcherCloseFlushes(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "refresh_success"})
	}
	d.Close()
	d.Close()

	if n := len(sink.Events()); n != 5 {
		t.Fatalf("expected 5 flushed events, got %d", n)
	}
	if d.Delivered() != 5 {
		t.Fatalf("expected delivered=5, got %d", d.Delivered())
	}

	d.Emit(context.Background(), Event{EventType: "after_close"})
	if n := len(sink.Events()); n != 5 {
		t.Fatalf("emit after close must be ignored, got %d events", n)
	}
}

func TestBlockingEmitHonorsContext(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer func() {
		close(sink.release)
		d.Close()
	}()

	d.Emit(context.Background(), Event{EventType: "a"})
	d.Emit(context.Background(), Event{EventType: "b"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	d.Emit(ctx, Event{EventType: "c"})

	if d.Dropped() != 1 {
		t.Fatalf("expected the timed out event to count as dropped, got %d", d.Dropped())
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Event{EventType: "logout", RoleID: "42", Success: true})
	sink.Emit(context.Background(), Event{EventType: "revoke_failure", Error: "boom"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var e Event
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.EventType != "logout" || e.RoleID != "42" || !e.Success {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestSlogSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewSlogSink(logger)

	sink.Emit(context.Background(), Event{EventType: "login_success", Success: true, RoleID: "1"})
	sink.Emit(context.Background(), Event{EventType: "login_failure", Error: "unauthorized", Metadata: map[string]string{"status": "401"}})

	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "event_type=login_success") {
		t.Fatalf("expected info record, got:\n%s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "meta.status=401") {
		t.Fatalf("expected warn record with metadata, got:\n%s", out)
	}
}
