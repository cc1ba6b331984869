// Package fakeapi is an in-process implementation of the role API used by
// tests, the console example and rolectl's --demo mode.
//
// # Behaviour
//
//   - Credentials are HS256 tokens issued by [jwt.Manager].
//   - Refresh tokens are opaque, stored hashed and rotated on every use. They
//     travel in the "refreshToken" cookie.
//   - The first registered account becomes Admin. Listing and creating roles
//     need Admin; reading, updating and deleting need Admin or the account
//     itself.
//   - Failures answer {"message": ...}. Invalid tokens answer 400.
//
// # Test hooks
//
// [Server.Fail] injects a one-shot failure, [Server.Gate] holds requests
// until released, and [Server.Outbox] returns the last token "mailed" to an
// address.
//
// # What this package must NOT do
//
//   - Import goRoles (the client tests import this package).
//   - Persist anything outside process memory, except login throttling
//     counters when a [rate.Limiter] is supplied.
package fakeapi
