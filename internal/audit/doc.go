// Package audit implements async event dispatching for session and directory operations.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, slog, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with timestamp, type, role id, request id and metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; the Client does.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import goRoles or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
