// Package middleware provides the HTTP plumbing shared by the role directory
// client and the servers it talks to.
//
// # Client round-trippers
//
//   - [RequestID]: stamps every outgoing request with a correlation id.
//   - [UserAgent]: sets a fixed User-Agent.
//   - [Bearer]: attaches the current credential for requests to the API host.
//   - [RateLimit]: paces outgoing requests with a token bucket.
//   - [OnStatus]: invokes a callback when a response carries one of the given
//     status codes (used for logout on 401/403).
//
// Compose them with [Chain].
//
// # Server guards
//
//   - [RequireBearer]: verifies the Authorization header with a [TokenVerifier]
//     and injects the claims into the request context.
//
// # What this package must NOT do
//
//   - Import goRoles (the client imports this package).
//   - Retry requests.
//   - Mutate session state directly; callbacks belong to the caller.
package middleware
