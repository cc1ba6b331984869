// Package permission maps role names onto permission bitmasks for view
// guards.
//
// # Model
//
// A [Registry] assigns each permission name a bit of a [Mask64]. A
// [RoleManager] stores one mask per role name. The top bit is the root
// permission: a role registered with [RoleManager.RegisterRootRole] is
// allowed everything.
//
// # What this package must NOT do
//
//   - Access Redis, the network, or the session store.
//   - Import goRoles or views.
package permission
