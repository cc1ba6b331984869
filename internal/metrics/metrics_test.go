package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestDisabledMetricsRecordNothing(t *testing.T) {
	m := New(Config{Enabled: false, EnableLatency: true})
	m.Inc(MetricLoginSuccess)
	m.Observe(MetricRequestLatency, time.Millisecond)

	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics must not count")
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.Inc(MetricLogout)
	m.Observe(MetricRequestLatency, time.Second)
	if m.Enabled() || m.LatencyEnabled() || m.Value(MetricLogout) != 0 {
		t.Fatal("nil metrics must be inert")
	}
}

func TestConcurrentIncrements(t *testing.T) {
	m := New(Config{Enabled: true})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(MetricDirectoryRequest)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricDirectoryRequest); got != 16000 {
		t.Fatalf("expected 16000, got %d", got)
	}
	if got := m.Snapshot().Counters[MetricDirectoryRequest]; got != 16000 {
		t.Fatalf("snapshot mismatch: %d", got)
	}
}

func TestLatencyBuckets(t *testing.T) {
	m := New(Config{Enabled: true, EnableLatency: true})
	m.Observe(MetricRequestLatency, 3*time.Millisecond)
	m.Observe(MetricRequestLatency, 40*time.Millisecond)
	m.Observe(MetricRequestLatency, 2*time.Second)
	m.Observe(MetricLoginSuccess, time.Millisecond)

	buckets := m.Snapshot().Histograms[MetricRequestLatency]
	if len(buckets) != HistBucketCount {
		t.Fatalf("expected %d buckets, got %d", HistBucketCount, len(buckets))
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("unexpected bucket layout %v", buckets)
	}
}

func TestBucketIndexBoundaries(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{0, 0},
		{5 * time.Millisecond, 0},
		{6 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{100 * time.Millisecond, 4},
		{500 * time.Millisecond, 6},
		{501 * time.Millisecond, 7},
	}
	for _, tc := range cases {
		if got := BucketIndex(tc.d); got != tc.want {
			t.Fatalf("BucketIndex(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}
