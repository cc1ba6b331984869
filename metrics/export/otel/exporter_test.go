package otel

import (
	"context"
	"sync"
	"testing"

	goRoles "github.com/MrEthical07/goRoles"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goRoles.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goRoles.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goRoles.MetricsSnapshot{
		Counters:   make(map[goRoles.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goRoles.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func (f *fakeSource) AuditDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func newMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func findSum(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && len(sum.DataPoints) > 0 {
				return sum.DataPoints[0].Value, true
			}
			if gauge, ok := m.Data.(metricdata.Gauge[int64]); ok && len(gauge.DataPoints) > 0 {
				return gauge.DataPoints[0].Value, true
			}
		}
	}
	return 0, false
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newMeter()
	meter := provider.Meter("goroles-test")

	src := &fakeSource{
		snapshot: goRoles.MetricsSnapshot{
			Counters: map[goRoles.MetricID]uint64{
				goRoles.MetricLoginSuccess: 3,
			},
			Histograms: map[goRoles.MetricID][]uint64{
				goRoles.MetricRequestLatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if v, ok := findSum(rm, "goroles_login_success_total"); !ok || v != 3 {
		t.Fatalf("expected login counter 3, got %d (found=%v)", v, ok)
	}
	if v, ok := findSum(rm, "goroles_request_latency_seconds_count"); !ok || v != 8 {
		t.Fatalf("expected latency count 8, got %d (found=%v)", v, ok)
	}
	if v, ok := findSum(rm, "goroles_audit_dropped_total"); !ok || v != 1 {
		t.Fatalf("expected audit dropped 1, got %d (found=%v)", v, ok)
	}
}

func TestExporterRejectsNilInputs(t *testing.T) {
	_, provider := newMeter()
	meter := provider.Meter("goroles-test")

	if _, err := NewOTelExporterFromSource(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := NewOTelExporter(meter, nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource for nil client, got %v", err)
	}
	if _, err := NewOTelExporterFromSource(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newMeter()
	meter := provider.Meter("goroles-test")

	src := &fakeSource{
		snapshot: goRoles.MetricsSnapshot{
			Counters: map[goRoles.MetricID]uint64{
				goRoles.MetricLoginSuccess: 1,
			},
			Histograms: map[goRoles.MetricID][]uint64{
				goRoles.MetricRequestLatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewOTelExporterFromSource(meter, src)
	if err != nil {
		t.Fatalf("NewOTelExporterFromSource failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goRoles.MetricLoginSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
