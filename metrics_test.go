package goRoles

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMetricsCounting(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		incs    int
		want    uint64
	}{
		{"disabled", false, 3, 0},
		{"enabled", true, 3, 3},
		{"untouched", true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMetrics(MetricsConfig{Enabled: tt.enabled})
			for i := 0; i < tt.incs; i++ {
				m.Inc(MetricCurrentRoleMerged)
			}
			if got := m.Value(MetricCurrentRoleMerged); got != tt.want {
				t.Fatalf("Value = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMetricsConcurrentRefreshCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 16
	const rounds = 2500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(leader bool) {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				if leader {
					m.Inc(MetricRefreshSuccess)
				} else {
					m.Inc(MetricRefreshCoalesced)
				}
			}
		}(w == 0)
	}
	wg.Wait()

	if got := m.Value(MetricRefreshSuccess); got != rounds {
		t.Fatalf("refresh success = %d, want %d", got, rounds)
	}
	if got, want := m.Value(MetricRefreshCoalesced), uint64((workers-1)*rounds); got != want {
		t.Fatalf("refresh coalesced = %d, want %d", got, want)
	}
}

func TestMetricsHistogramBucketCorrectness(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})

	observations := []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		25 * time.Millisecond,
		50 * time.Millisecond,
		100 * time.Millisecond,
		250 * time.Millisecond,
		500 * time.Millisecond,
		700 * time.Millisecond,
	}

	for _, d := range observations {
		m.Observe(MetricRequestLatency, d)
	}

	snap := m.Snapshot()
	buckets := snap.Histograms[MetricRequestLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}

	for i, v := range buckets {
		if v != 1 {
			t.Fatalf("bucket %d expected 1, got %d", i, v)
		}
	}
}

func TestMetricsSnapshotConsistency(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Enabled:                 true,
		EnableLatencyHistograms: true,
	})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginFailure)
	m.Inc(MetricLoginFailure)
	m.Observe(MetricRequestLatency, 2*time.Millisecond)

	snap := m.Snapshot()

	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("expected MetricLoginSuccess=1 got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 2 {
		t.Fatalf("expected MetricLoginFailure=2 got %d", snap.Counters[MetricLoginFailure])
	}
	if _, ok := snap.Counters[MetricRequestLatency]; ok {
		t.Fatal("latency histogram must not appear as a counter")
	}
	if len(snap.Histograms[MetricRequestLatency]) != 8 {
		t.Fatalf("expected histogram length 8")
	}
	if snap.Histograms[MetricRequestLatency][0] != 1 {
		t.Fatalf("expected first histogram bucket=1 got %d", snap.Histograms[MetricRequestLatency][0])
	}
}

func TestClientRecordsRequestMetrics(t *testing.T) {
	env := newTestEnv(t, func(b *Builder) {
		b.WithMetricsEnabled(true).WithLatencyHistograms(true)
	})
	env.seedUser(t, "user@example.com", "secret1")

	if _, err := env.client.Login(context.Background(), "user@example.com", "secret1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := env.client.Login(context.Background(), "user@example.com", "wrong-password"); err == nil {
		t.Fatal("expected login failure")
	}

	snap := env.client.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 || snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("unexpected login counters: %+v", snap.Counters)
	}
	if snap.Counters[MetricRefreshScheduled] != 1 {
		t.Fatalf("expected one armed refresh, got %d", snap.Counters[MetricRefreshScheduled])
	}

	var observed uint64
	for _, v := range snap.Histograms[MetricRequestLatency] {
		observed += v
	}
	if observed != 2 {
		t.Fatalf("expected 2 latency observations, got %d", observed)
	}
}
