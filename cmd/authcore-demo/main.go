// Command authcore-demo wires the engine against a real Redis and PostgreSQL
// (or miniredis and an in-memory store when no addresses are given) and walks
// through the register, MFA enrollment, and login flows.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/enterprise-platform/authcore"
	"github.com/enterprise-platform/authcore/logging"
	"github.com/enterprise-platform/authcore/postgres"
)

func main() {
	var (
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		postgresDSN = flag.String("postgres-dsn", "", "postgres DSN; if empty, POSTGRES_DSN env or an in-memory store is used")
		secret      = flag.String("signing-secret", "demo-signing-secret-change-me", "JWT signing secret")
	)
	flag.Parse()

	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	client, cleanup, err := redisClient(*redisAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	store, storeCleanup, err := userStore(ctx, *postgresDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: %v\n", err)
		os.Exit(1)
	}
	defer storeCleanup()

	cfg := authcore.DefaultConfig()
	cfg.Token.SigningSecret = []byte(*secret)
	cfg.Password.Cost = 10 // demo runs fast; production keeps the default

	engine, err := authcore.New().
		WithConfig(cfg).
		WithRedis(client).
		WithStore(store).
		WithLogger(log).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	res, err := engine.Register(ctx, authcore.RegisterRequest{
		Username: "demo",
		Email:    "demo@example.com",
		Name:     "Demo User",
		Password: "correct horse battery staple",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "register: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("registered %s, token %s...\n", res.User.Username, res.Token[:24])

	prov, err := engine.EnrollMFA(ctx, res.User.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enroll: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("mfa provisioning uri: %s\n", prov.URI)

	login, err := engine.Login(ctx, "demo", "correct horse battery staple", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("login ok, mfa required: %v\n", login.MFARequired)

	uid, err := engine.VerifyToken(login.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("token verified, uid %s\n", uid)

	stats, err := engine.Stats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("stats: %d users, success rate %.1f%%\n", stats.TotalUsers, stats.SuccessRate)

	snap := engine.Metrics().Snapshot()
	fmt.Printf("metrics: requests=%d logins=%d cache hits=%d misses=%d\n",
		snap[authcore.MetricRequestTotal], snap[authcore.MetricLoginSuccess],
		snap[authcore.MetricCacheHit], snap[authcore.MetricCacheMiss])
}

func redisClient(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		fmt.Printf("using miniredis at %s\n", mr.Addr())
		return client, func() { _ = client.Close(); mr.Close() }, nil
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	fmt.Printf("using redis at %s\n", addr)
	return client, func() { _ = client.Close() }, nil
}

func userStore(ctx context.Context, dsn string) (authcore.UserStore, func(), error) {
	if dsn == "" {
		dsn = os.Getenv("POSTGRES_DSN")
	}
	if dsn == "" {
		fmt.Println("using in-memory user store")
		return newMemoryStore(), func() {}, nil
	}
	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := store.RunMigrations(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	fmt.Println("using postgres store")
	return store, func() { _ = store.Close() }, nil
}

// memoryStore is a minimal map-backed UserStore so the demo runs without
// PostgreSQL.
type memoryStore struct {
	mu    sync.Mutex
	users map[string]authcore.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]authcore.User)}
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*authcore.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, authcore.ErrUserNotFound
	}
	return &u, nil
}

func (s *memoryStore) GetByIdentifier(ctx context.Context, identifier string) (*authcore.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			u := u
			return &u, nil
		}
	}
	return nil, authcore.ErrUserNotFound
}

func (s *memoryStore) Create(ctx context.Context, u *authcore.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return authcore.ErrDuplicateIdentity
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memoryStore) Update(ctx context.Context, u *authcore.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return authcore.ErrUserNotFound
	}
	s.users[u.ID] = *u
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return authcore.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memoryStore) List(ctx context.Context, q authcore.ListUsersQuery) ([]authcore.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []authcore.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *memoryStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *memoryStore) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if u.IsActive && u.LastLogin != nil && !u.LastLogin.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) CountCreatedBefore(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if u.CreatedAt.Before(before) {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.users {
		if !u.CreatedAt.Before(from) && u.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
