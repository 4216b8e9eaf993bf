package authcore

import (
	"context"
	"errors"

	"github.com/enterprise-platform/authcore/audit"
	"github.com/enterprise-platform/authcore/cache"
	"github.com/enterprise-platform/authcore/logging"
	"github.com/enterprise-platform/authcore/password"
	"github.com/enterprise-platform/authcore/token"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by authcore APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	store  UserStore
	log    logging.Logger
	sink   audit.Sink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis supplies the cache backend. Leaving it nil builds an engine with
// the Unavailable cache variant: correct, just slower and without throttling.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(store UserStore) *Builder {
	b.store = store
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(log logging.Logger) *Builder {
	b.log = log
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.sink = sink
	return b
}

// Build wires the engine. The cache variant is selected exactly once here —
// available when the Redis probe succeeds, no-op otherwise — so no call site
// ever branches on cache availability again.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("user store required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	log := b.log
	if log == nil {
		log = logging.Default()
	}

	hasher, err := password.NewHasher(b.config.Password.Cost)
	if err != nil {
		return nil, err
	}

	issuer, err := token.NewIssuer(token.Config{
		SigningSecret: b.config.Token.SigningSecret,
		TTL:           b.config.Token.TTL,
		Issuer:        b.config.Token.Issuer,
	})
	if err != nil {
		return nil, err
	}

	metrics := NewCollector()
	c := cache.Select(context.Background(), b.redis, log, metrics)

	e := &Engine{
		config:   b.config,
		store:    b.store,
		cache:    c,
		throttle: newLoginThrottle(c, b.config.Throttle),
		hasher:   hasher,
		issuer:   issuer,
		totp:     newTOTPManager(b.config.MFA),
		metrics:  metrics,
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.sink),
		log: log,
	}

	b.built = true
	return e, nil
}
