// Package password is the one-way credential verification oracle used by
// goGate. Stored hashes are opaque to the rest of the module: they enter
// through [Verify] and are never decoded, logged, or compared as plaintext.
//
// # Supported encodings
//
// bcrypt ($2a$/$2b$/$2y$ prefixes) and argon2id in PHC string format.
// Anything else — including corrupted or truncated hashes — verifies as
// false. A malformed stored hash must never turn into an error path that a
// caller could mistake for a bypass.
//
// # What this package must NOT do
//
//   - Return the plaintext secret or any derived material to callers.
//   - Perform I/O.
//   - Import any other goGate package.
package password
