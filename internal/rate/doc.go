// Package rate provides the Redis-backed login throttle used by the development
// role API.
//
// # Window semantics
//
// Fixed-window counters: INCR + EXPIRE on first hit. Key layout:
//   - <prefix>:email:<email>  failed logins per email
//   - <prefix>:ip:<ip>        failed logins per client IP
//
// # What this package must NOT do
//
//   - Be imported outside the goRoles module.
//   - Throttle successful requests.
package rate
