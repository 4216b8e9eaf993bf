package authcore

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by authcore APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint8

const (
	// MetricRequestTotal is an exported constant or variable used by the authentication engine.
	MetricRequestTotal MetricID = iota
	// MetricErrorTotal is an exported constant or variable used by the authentication engine.
	MetricErrorTotal
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess
	// MetricLoginFailure is an exported constant or variable used by the authentication engine.
	MetricLoginFailure
	// MetricLoginLockedOut is an exported constant or variable used by the authentication engine.
	MetricLoginLockedOut
	// MetricLoginMFARequired is an exported constant or variable used by the authentication engine.
	MetricLoginMFARequired
	// MetricRegisterSuccess is an exported constant or variable used by the authentication engine.
	MetricRegisterSuccess
	// MetricMFAEnrolled is an exported constant or variable used by the authentication engine.
	MetricMFAEnrolled
	// MetricMFAConfirmed is an exported constant or variable used by the authentication engine.
	MetricMFAConfirmed
	// MetricTokenIssued is an exported constant or variable used by the authentication engine.
	MetricTokenIssued
	// MetricCacheHit is an exported constant or variable used by the authentication engine.
	MetricCacheHit
	// MetricCacheMiss is an exported constant or variable used by the authentication engine.
	MetricCacheMiss
	// MetricCacheError is an exported constant or variable used by the authentication engine.
	MetricCacheError
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Collector is the explicitly owned metrics collector: created once at Build,
// injected wherever needed, never a package-level global. It feeds the
// dashboard success rate and the cache observability counters.
type Collector struct {
	counters  [metricIDCount]paddedCounter
	startedAt time.Time
}

// NewCollector describes the newcollector operation and its observable behavior.
//
// NewCollector does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCollector() *Collector {
	return &Collector{startedAt: time.Now()}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Collector) Inc(id MetricID) {
	if c == nil || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&c.counters[id].value, 1)
}

// Get describes the get operation and its observable behavior.
//
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Collector) Get(id MetricID) uint64 {
	if c == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&c.counters[id].value)
}

// Snapshot returns a point-in-time copy of every counter.
func (c *Collector) Snapshot() map[MetricID]uint64 {
	out := make(map[MetricID]uint64, metricIDCount)
	if c == nil {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out[id] = atomic.LoadUint64(&c.counters[id].value)
	}
	return out
}

// Reset zeroes every counter and restarts the uptime clock.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	for id := range c.counters {
		atomic.StoreUint64(&c.counters[id].value, 0)
	}
	c.startedAt = time.Now()
}

// SuccessRate derives the request success percentage. With no traffic it
// reports 100, matching the dashboard contract.
func (c *Collector) SuccessRate() float64 {
	requests := c.Get(MetricRequestTotal)
	if requests == 0 {
		return 100
	}
	errors := c.Get(MetricErrorTotal)
	if errors > requests {
		errors = requests
	}
	return float64(requests-errors) / float64(requests) * 100
}

// Uptime reports time since the collector was created or last Reset.
func (c *Collector) Uptime() time.Duration {
	if c == nil {
		return 0
	}
	return time.Since(c.startedAt)
}

// CacheHit implements cache.Observer.
func (c *Collector) CacheHit() { c.Inc(MetricCacheHit) }

// CacheMiss implements cache.Observer.
func (c *Collector) CacheMiss() { c.Inc(MetricCacheMiss) }

// CacheError implements cache.Observer.
func (c *Collector) CacheError() { c.Inc(MetricCacheError) }
