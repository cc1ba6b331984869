// Package refresh implements the single-slot renewal timer that fires shortly
// before a credential token expires.
//
// # Scheduling model
//
// [Scheduler.Arm] returns a [Ticket] and cancels any ticket armed before it, so
// at most one renewal is pending at a time. A ticket that fires after it was
// replaced or cancelled never runs its action.
//
// # Architecture boundaries
//
// This package owns timing only. Decoding the expiry from a token lives in the
// jwt package; the renewal itself is supplied by the caller as a func.
//
// # What this package must NOT do
//
//   - Perform I/O or decode tokens.
//   - Import goRoles, jwt, or session.
//   - Retry a failed action.
package refresh
