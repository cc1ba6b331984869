// Package views composes the role administration feature: a list view and
// an add/edit view, the forms capability they rely on and the route table
// that reaches them.
//
// # Composition
//
// [NewRoleModule] returns a [Module] declaring [ListComponent] and
// [AddEditComponent] and importing [Forms] plus the caller's [RouteTable].
// [Module.Open] resolves a path, checks the route's permission through a
// [Guard] and builds the component for it.
//
// # What this package must NOT do
//
//   - Render anything or validate form input.
//   - Hold session state. The identity is read from the client on demand.
package views
