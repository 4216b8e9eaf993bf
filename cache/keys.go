package cache

// Key prefixes below are shared with external collaborators; treat them as a
// wire contract.

// KeyStats is the cache key for the aggregate dashboard snapshot.
const KeyStats = "dashboard:stats"

// UserKey returns the cache key for a user's full (public-safe) snapshot.
func UserKey(id string) string {
	return "user:" + id
}

// ProfileKey returns the cache key for a user's profile snapshot.
func ProfileKey(id string) string {
	return "user:profile:" + id
}

// LoginAttemptsKey returns the failed-login counter key for an identifier.
func LoginAttemptsKey(identifier string) string {
	return "login:attempts:" + identifier
}

// SessionKey returns the cache key mirroring an issued token for a user.
func SessionKey(id string) string {
	return "session:" + id
}

// ChartsKey returns the cache key for dashboard chart data of a period.
func ChartsKey(period string) string {
	return "dashboard:charts:" + period
}
