// Package jwt decodes the expiry embedded in role credential tokens and, for
// in-process test servers, issues and verifies them with configured signing
// keys.
//
// # Architecture boundaries
//
// [ParseExpiry] reads the token payload without verifying its signature: the
// client never holds the server's keys and only needs the exp claim to decide
// when to renew. [Manager] verifies signatures and is used by servers.
//
// # What this package must NOT do
//
//   - Access the network, Redis or the session store.
//   - Import goRoles, session or refresh.
package jwt
