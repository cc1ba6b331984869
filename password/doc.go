// Package password implements Argon2id password hashing for the development
// role API.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Hasher.NeedsRehash] reports hashes produced with weaker parameters so a
// server can re-hash on the next successful authentication.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive hashes.
//   - Import any other goRoles package.
//   - Log plaintext passwords.
package password
