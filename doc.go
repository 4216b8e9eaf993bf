// Package authcore is the authentication core of the platform: it
// authenticates users, drives TOTP MFA enrollment, issues 7-day bearer
// tokens, throttles repeated failed logins, and keeps the Redis cache
// consistent with the authoritative user store.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, Profile, Stats, etc.). Focused concerns live
// in sub-packages: cache (capability-typed Redis layer and cache-aside
// accessor), token (JWT issue/verify), password (bcrypt), audit (async event
// dispatch), logging (structured logger interface), postgres (UserStore
// implementation).
//
// Transport, request validation, UI rendering, and email delivery are
// external collaborators. They call Engine methods and map the returned
// result types and sentinel errors onto their own status codes.
//
// # Availability contract
//
// The cache is acceleration, never a correctness requirement: every cache
// outage degrades to store-only reads and writes, logged but not surfaced.
// Login throttling fails open for the same reason — a cache outage must not
// become a denial-of-service vector. Only the durable store is fatal for a
// request.
//
// # What this package must NOT do
//
//   - Expose Redis clients, SQL handles, or encoding details in its public API.
//   - Log plaintext secrets, password hashes, or MFA codes.
//   - Treat the session:<id> cache mirror as the source of truth for token
//     validity (tokens are stateless; see Engine.VerifyToken).
package authcore
