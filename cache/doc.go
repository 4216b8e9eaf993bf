// Package cache provides the ephemeral TTL key-value layer used to accelerate
// session, profile, and dashboard reads, plus the fixed-window counters behind
// login throttling.
//
// # Availability model
//
// The cache is optional acceleration, never a correctness requirement. The
// [Cache] interface has two variants selected once at construction:
// [Redis], backed by a go-redis client, and [Unavailable], a no-op. The Redis
// variant swallows every backend error — a failed GET is a miss, a failed SET
// or DEL is silently dropped, a failed INCR reports zero — so callers are never
// forced to branch on availability. Degradation is logged and counted through
// the [Observer], not surfaced.
//
// # Key namespace
//
// The key layout in keys.go is a public contract shared with other
// collaborators (a stats aggregator and a notification dispatcher read the
// same prefixes). Changing a prefix is a breaking change.
//
// # What this package must NOT do
//
//   - Be authoritative for any record. The durable store always wins.
//   - Return backend errors to callers.
//   - Import any other authcore package except logging.
package cache
