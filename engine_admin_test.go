package authcore

import (
	"context"
	"errors"
	"testing"

	"github.com/enterprise-platform/authcore/cache"
)

func TestListUsersPaginationDefaults(t *testing.T) {
	store := newMockUserStore()
	seedUser(t, store, "u1", "alice", "correct-password-123")
	seedUser(t, store, "u2", "bob", "another-password-456")

	engine, _, done := newTestEngine(t, engineTestConfig(), store)
	defer done()

	res, err := engine.ListUsers(context.Background(), ListUsersQuery{})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if res.Total != 2 || res.Page != 1 || res.TotalPages != 1 {
		t.Fatalf("unexpected pagination %+v", res)
	}
	if len(res.Users) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(res.Users))
	}
}

func TestAdminUpdateUserRoleAndStatus(t *testing.T) {
	store := newMockUserStore()
	seedUser(t, store, "u1", "alice", "correct-password-123")

	engine, _, done := newTestEngine(t, engineTestConfig(), store)
	defer done()

	admin := RoleAdmin
	inactive := false
	u, err := engine.UpdateUser(context.Background(), "u1", AdminUpdate{
		Role:     &admin,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if u.Role != RoleAdmin || u.IsActive {
		t.Fatalf("expected demoted admin, got %+v", u)
	}

	stored := store.get(t, "u1")
	if stored.Role != RoleAdmin || stored.IsActive {
		t.Fatal("update not persisted")
	}
}

func TestAdminDeactivationTakesEffectImmediately(t *testing.T) {
	store := newMockUserStore()
	seedUser(t, store, "u1", "alice", "correct-password-123")

	engine, _, done := newTestEngine(t, engineTestConfig(), store)
	defer done()
	ctx := context.Background()

	// Warm the snapshot so a stale cache would mask the deactivation.
	if _, err := engine.GetUser(ctx, "u1"); err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}

	inactive := false
	if _, err := engine.UpdateUser(ctx, "u1", AdminUpdate{IsActive: &inactive}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	_, err := engine.Login(ctx, "alice", "correct-password-123", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deactivated account must not log in, got %v", err)
	}

	u, err := engine.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.IsActive {
		t.Fatal("stale active snapshot served after deactivation")
	}
}

func TestDeleteUserDropsAllCacheEntries(t *testing.T) {
	store := newMockUserStore()
	seedUser(t, store, "u1", "alice", "correct-password-123")

	engine, mr, done := newTestEngine(t, engineTestConfig(), store)
	defer done()
	ctx := context.Background()

	if _, err := engine.Login(ctx, "alice", "correct-password-123", ""); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := engine.GetProfile(ctx, "u1"); err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}

	if err := engine.DeleteUser(ctx, "u1"); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}

	for _, key := range []string{cache.UserKey("u1"), cache.ProfileKey("u1"), cache.SessionKey("u1")} {
		if mr.Exists(key) {
			t.Fatalf("expected %s to be dropped", key)
		}
	}
	if _, err := engine.GetUser(ctx, "u1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
}

func TestDeleteUserUnknown(t *testing.T) {
	store := newMockUserStore()

	engine, _, done := newTestEngine(t, engineTestConfig(), store)
	defer done()

	err := engine.DeleteUser(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
