package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newPersisterTest(t *testing.T) (*RedisPersister, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := NewRedisPersister(rdb, "rs", "alice")
	return p, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestRedisPersisterRoundTrip(t *testing.T) {
	p, mr, done := newPersisterTest(t)
	defer done()
	ctx := context.Background()

	rec := Record{
		Identity: json.RawMessage(`{"id":"1","email":"a@example.com"}`),
		Cookies:  []CookieRecord{{Name: "refreshToken", Value: "abc", Path: "/"}},
		SavedAt:  time.Now().Unix(),
	}
	if err := p.Save(ctx, rec, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("rs:session:alice") {
		t.Fatal("expected key rs:session:alice")
	}
	if ttl := mr.TTL("rs:session:alice"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}

	got, ok, err := p.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got.Identity) != string(rec.Identity) {
		t.Fatalf("identity mismatch: %s", got.Identity)
	}
	if len(got.Cookies) != 1 || got.Cookies[0].Value != "abc" {
		t.Fatalf("cookies mismatch: %+v", got.Cookies)
	}
}

func TestRedisPersisterLoadMissing(t *testing.T) {
	p, _, done := newPersisterTest(t)
	defer done()

	_, ok, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("expected no record")
	}
}

func TestRedisPersisterDeleteIdempotent(t *testing.T) {
	p, mr, done := newPersisterTest(t)
	defer done()
	ctx := context.Background()

	if err := p.Save(ctx, Record{Identity: json.RawMessage(`{"id":"1"}`)}, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := p.Delete(ctx); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := p.Delete(ctx); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if mr.Exists(p.Key()) {
		t.Fatal("expected key removed")
	}
}

func TestRedisPersisterCorruptRecord(t *testing.T) {
	p, mr, done := newPersisterTest(t)
	defer done()

	if err := mr.Set(p.Key(), "\x09garbage"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := p.Load(context.Background()); !errors.Is(err, ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}

	if err := mr.Set(p.Key(), "\x01{not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := p.Load(context.Background()); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestRedisPersisterUnavailable(t *testing.T) {
	p, mr, done := newPersisterTest(t)
	defer done()
	mr.Close()

	err := p.Save(context.Background(), Record{Identity: json.RawMessage(`{}`)}, time.Minute)
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}

func TestHTTPCookiesSkipsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rec := Record{Cookies: CookiesFromHTTP([]*http.Cookie{
		{Name: "live", Value: "1", Expires: now.Add(time.Hour)},
		{Name: "dead", Value: "2", Expires: now.Add(-time.Hour)},
		{Name: "session", Value: "3"},
		nil,
	})}

	got := rec.HTTPCookies(now)
	if len(got) != 2 || got[0].Name != "live" || got[1].Name != "session" {
		t.Fatalf("unexpected cookies %+v", got)
	}
}
