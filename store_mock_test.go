package authcore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/enterprise-platform/authcore/password"
)

// mockUserStore is the map-backed UserStore used across engine tests.
type mockUserStore struct {
	mu    sync.Mutex
	users map[string]User

	failAll bool
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[string]User)}
}

type storeDownError struct{}

func (storeDownError) Error() string { return "store down" }

func (s *mockUserStore) GetByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, storeDownError{}
	}
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *mockUserStore) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return nil, storeDownError{}
	}
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *mockUserStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return storeDownError{}
	}
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicateIdentity
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *mockUserStore) Update(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return storeDownError{}
	}
	if _, ok := s.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	for id, existing := range s.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicateIdentity
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *mockUserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *mockUserStore) List(ctx context.Context, q ListUsersQuery) ([]User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (s *mockUserStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), nil
}

func (s *mockUserStore) CountActiveSince(ctx context.Context, since time.Time) (int, error) {
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

func (s *mockUserStore) CountCreatedBefore(ctx context.Context, before time.Time) (int, error) {
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

func (s *mockUserStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
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

// get returns a copy of the stored record for assertions.
func (s *mockUserStore) get(t *testing.T, id string) User {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		t.Fatalf("user %s not in store", id)
	}
	return u
}

// put stores a record directly, bypassing uniqueness checks.
func (s *mockUserStore) put(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func engineTestConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.SigningSecret = []byte("engine-test-signing-secret")
	cfg.Password.Cost = 4 // bcrypt.MinCost keeps the suite fast
	return cfg
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hasher, err := password.NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	return hash
}

// seedUser inserts an active user with the given credentials and returns it.
func seedUser(t *testing.T, store *mockUserStore, id, username, plain string) User {
	t.Helper()
	now := time.Now().Add(-time.Hour)
	u := User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		Name:         "Test " + username,
		PasswordHash: hashPassword(t, plain),
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	store.put(u)
	return u
}

// newTestEngine builds an engine over miniredis and a mock store. The returned
// cleanup closes the engine, the client, and the server.
func newTestEngine(t *testing.T, cfg Config, store *mockUserStore) (*Engine, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithStore(store).
		Build()
	if err != nil {
		client.Close()
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return engine, mr, func() {
		engine.Close()
		client.Close()
		mr.Close()
	}
}

// newCachelessEngine builds an engine with no Redis at all, exercising the
// unavailable cache variant.
func newCachelessEngine(t *testing.T, cfg Config, store *mockUserStore) (*Engine, func()) {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine, func() { engine.Close() }
}
