// Package goRoles provides a client for a remote role management API with a
// managed session lifecycle: authentication, a single published session
// identity, proactive credential refresh and CRUD against the role directory.
//
// The package is designed for concurrent use: Client methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goRoles is the public surface. It exposes [Client], [Builder], [Config] and value
// types ([Role], [RoleParams], [MetricsSnapshot]). The session identity lives in a
// [session.Store], the refresh timer in a [refresh.Scheduler], outgoing request
// plumbing in package middleware. Audit dispatch and counters live under internal/.
//
// # Session lifecycle
//
//   - Login and RefreshToken publish the returned identity and arm the refresh
//     timer one minute (Config.Refresh.Lead) before the credential expires.
//   - Logout revokes in the background, then disarms, clears and navigates.
//   - Update merges into the identity when it targets the signed-in role.
//   - Delete of the signed-in role always ends with the logout sequence.
//
// # What this package must NOT do
//
//   - Retry failed requests.
//   - Validate form input; the API owns business rules.
//   - Import any sub-package that re-imports goRoles (no import cycles).
package goRoles
