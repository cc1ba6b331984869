// Package session holds the current role identity for a client process and
// optionally persists it to Redis so a session outlives the process.
//
// # Store semantics
//
// [Store] keeps one value (or its absence) and multicasts every replacement to
// subscribers. A new subscriber receives the current snapshot immediately. A
// subscriber that falls behind only ever sees the latest snapshot; the
// publisher never blocks.
//
// # Persistence
//
// [RedisPersister] saves a versioned [Record] envelope (schema byte + JSON)
// with a TTL. The envelope is append-only: new versions add fields but never
// reinterpret old ones.
//
// # What this package must NOT do
//
//   - Import goRoles, jwt, or refresh (no upward imports).
//   - Interpret the identity it stores.
package session
