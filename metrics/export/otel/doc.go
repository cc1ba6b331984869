// Package otel publishes goRoles client metrics through OpenTelemetry.
//
// [NewOTelExporter] registers one Int64ObservableCounter per client counter
// and one Int64ObservableGauge per latency bucket. A single callback reads
// [goRoles.Client.MetricsSnapshot] on each collection.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate client state.
package otel
