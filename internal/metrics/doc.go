// Package metrics keeps the client's operational counters and the request
// latency histogram.
//
// Every [MetricID] owns one padded atomic slot, so Inc and Observe never
// allocate or take a lock. The latency histogram has 8 fixed upper bounds
// from 5ms to +Inf; [BucketIndex] maps a duration onto them.
//
// Exporters under metrics/export read [Snapshot] values and never touch the
// slots directly.
//
// # What this package must NOT do
//
//   - Perform I/O or network calls.
//   - Import goRoles or any sibling package.
//   - Expose global metric registries.
package metrics
