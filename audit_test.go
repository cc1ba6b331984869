package goRoles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func (s *countingSink) Count() int64 {
	return s.count.Load()
}

func withAudit(sink AuditSink) func(*Builder) {
	return func(b *Builder) {
		b.config.Audit.Enabled = true
		b.config.Audit.BufferSize = 16
		b.WithAuditSink(sink)
	}
}

func nextEvent(t *testing.T, sink *ChannelSink, eventType string) AuditEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %s audit event", eventType)
		}
	}
}

func TestAuditDisabledNoSinkCalls(t *testing.T) {
	sink := &countingSink{}
	env := newTestEnv(t, func(b *Builder) { b.WithAuditSink(sink) })
	env.seedUser(t, "user@example.com", "secret1")

	_, _ = env.client.Login(context.Background(), "user@example.com", "wrong-password")
	env.client.Close()

	if sink.Count() != 0 {
		t.Fatalf("expected no audit sink calls when disabled, got %d", sink.Count())
	}
}

func TestAuditLoginFailureCarriesStatusNotSecrets(t *testing.T) {
	sink := NewChannelSink(16)
	env := newTestEnv(t, withAudit(sink))
	env.seedUser(t, "user@example.com", "secret1")

	ctx := WithRequestID(context.Background(), "req-login")
	_, _ = env.client.Login(ctx, "user@example.com", "super-secret-password")

	ev := nextEvent(t, sink, auditLoginFailure)
	if ev.Success {
		t.Fatal("expected unsuccessful event")
	}
	if ev.RequestID != "req-login" {
		t.Fatalf("expected request id req-login, got %q", ev.RequestID)
	}
	if ev.Metadata["status"] != "400" || ev.Metadata["email"] != "user@example.com" {
		t.Fatalf("unexpected metadata: %v", ev.Metadata)
	}
	if strings.Contains(ev.Error, "super-secret-password") {
		t.Fatal("sensitive password leaked in error")
	}
	for _, v := range ev.Metadata {
		if v == "super-secret-password" {
			t.Fatal("sensitive password leaked in metadata")
		}
	}
}

func TestAuditRecordsSessionLifecycle(t *testing.T) {
	sink := NewChannelSink(32)
	env := newTestEnv(t, withAudit(sink))
	seeded := env.seedUser(t, "user@example.com", "secret1")
	env.login(t, "user@example.com", "secret1")

	if ev := nextEvent(t, sink, auditLoginSuccess); ev.RoleID != seeded.ID || !ev.Success {
		t.Fatalf("unexpected login event: %+v", ev)
	}

	env.api.Fail(http.MethodPost, "/revoke-token", http.StatusBadGateway, "upstream")
	env.client.Logout(context.Background())

	if ev := nextEvent(t, sink, auditLogout); ev.RoleID != seeded.ID {
		t.Fatalf("unexpected logout event: %+v", ev)
	}
	if ev := nextEvent(t, sink, auditRevokeFailure); ev.Metadata["status"] != "502" {
		t.Fatalf("unexpected revoke failure event: %+v", ev)
	}
}

func TestAuditForcedLogoutMetadata(t *testing.T) {
	sink := NewChannelSink(32)
	env := newTestEnv(t, func(b *Builder) {
		withAudit(sink)(b)
		b.config.Session.LogoutOnUnauthorized = true
	})
	seeded := env.seedUser(t, "user@example.com", "secret1")
	env.login(t, "user@example.com", "secret1")

	env.api.Fail(http.MethodGet, "/"+seeded.ID, http.StatusForbidden, "Forbidden")
	_, _ = env.client.GetByID(context.Background(), seeded.ID)

	ev := nextEvent(t, sink, auditForcedLogout)
	if ev.Metadata["status"] != "403" || !strings.HasSuffix(ev.Metadata["path"], "/"+seeded.ID) {
		t.Fatalf("unexpected forced logout metadata: %v", ev.Metadata)
	}
}

func TestAuditJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	env := newTestEnv(t, withAudit(NewJSONWriterSink(&buf)))
	env.seedUser(t, "user@example.com", "secret1")
	env.login(t, "user@example.com", "secret1")
	env.client.Close()

	line, _, _ := strings.Cut(buf.String(), "\n")
	var ev AuditEvent
	if err := json.Unmarshal([]byte(line), &ev); err != nil {
		t.Fatalf("decode audit line %q: %v", line, err)
	}
	if ev.EventType != auditLoginSuccess {
		t.Fatalf("expected %s first, got %s", auditLoginSuccess, ev.EventType)
	}
}
