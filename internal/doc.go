// Package internal contains helper utilities that are private to goRoles,
// currently opaque token generation for the development role API.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - metrics: lock-free counters and latency histograms
//   - rate: Redis-backed fixed-window login throttling
//   - fakeapi: in-process role API used by tests, examples and rolectl
//
// # What this package must NOT do
//
//   - Export types that appear in the public goRoles API.
//   - Be imported by any package outside the goRoles module.
package internal
