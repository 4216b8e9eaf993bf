// Package password implements password hashing and verification with bcrypt.
//
// # Output format
//
// Hashes are standard bcrypt strings ($2a$/$2b$ prefix, cost embedded in the
// hash). The cost is configured once on the [Hasher]; stored hashes produced at
// a different cost still verify because bcrypt self-describes its parameters.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// reuse rules) is enforced by the calling collaborator before the plaintext
// reaches the engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords.
package password
