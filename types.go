package authcore

import (
	"context"
	"time"
)

// Role defines a public type used by authcore APIs.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role string

const (
	// RoleUser is an exported constant or variable used by the authentication engine.
	RoleUser Role = "user"
	// RoleAdmin is an exported constant or variable used by the authentication engine.
	RoleAdmin Role = "admin"
)

// User is the authoritative account record owned by the durable store.
// PasswordHash and MFASecret are excluded from JSON so cached snapshots and
// API payloads can never leak them; only the store round-trips those fields.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	MFASecret    string     `json:"-"`
	MFAEnabled   bool       `json:"mfaEnabled"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// MFAState reports where a user is in the enrollment state machine:
// no secret, secret generated but unconfirmed, or confirmed.
type MFAState string

const (
	// MFAStateNone is an exported constant or variable used by the authentication engine.
	MFAStateNone MFAState = "none"
	// MFAStatePending is an exported constant or variable used by the authentication engine.
	MFAStatePending MFAState = "pending"
	// MFAStateEnabled is an exported constant or variable used by the authentication engine.
	MFAStateEnabled MFAState = "enabled"
)

// MFAState derives the enrollment state from the stored secret and flag.
func (u *User) MFAState() MFAState {
	switch {
	case u.MFAEnabled:
		return MFAStateEnabled
	case u.MFASecret != "":
		return MFAStatePending
	default:
		return MFAStateNone
	}
}

// Profile is the public-safe snapshot of a user record, cached under
// user:profile:<id>.
type Profile struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	IsActive   bool       `json:"isActive"`
	MFAEnabled bool       `json:"mfaEnabled"`
	LastLogin  *time.Time `json:"lastLogin"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Profile projects the record into its public-safe snapshot.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		IsActive:   u.IsActive,
		MFAEnabled: u.MFAEnabled,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}

// UserStore is the interface the durable store must implement. The engine
// owns no persistence engine of its own; postgres.Store is the shipped
// implementation, and tests use an in-memory one.
//
// Create and Update must enforce username/email uniqueness and surface
// conflicts as [ErrDuplicateIdentity]; missing records surface as
// [ErrUserNotFound].
type UserStore interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByIdentifier matches either username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q ListUsersQuery) ([]User, int, error)

	Count(ctx context.Context) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
	CountCreatedBefore(ctx context.Context, before time.Time) (int, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

// LoginResult is returned by [Engine.Login] and [Engine.Register]. Either
// MFARequired is true and the caller must prompt for a second factor, or
// Token and User are populated.
type LoginResult struct {
	Token       string
	User        *User
	MFARequired bool
}

// RegisterRequest is the input for [Engine.Register]. Syntactic validation
// (lengths, email shape) happens in the calling collaborator; the engine
// defends only against store-level conflicts.
type RegisterRequest struct {
	Username string
	Email    string
	Name     string
	Password string
}

// MFAProvision holds the base32 shared secret and otpauth:// URI returned by
// [Engine.EnrollMFA]. The URI is rendered as a QR code by the caller.
type MFAProvision struct {
	Secret string
	URI    string
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value unchanged.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// AdminUpdate carries the fields an admin may mutate on any account.
type AdminUpdate struct {
	Name     *string
	Email    *string
	Role     *Role
	IsActive *bool
}

// ListUsersQuery filters and paginates the admin user listing.
type ListUsersQuery struct {
	Search   string
	Role     Role
	IsActive *bool
	Page     int
	Limit    int
}

// ListUsersResult is returned by [Engine.ListUsers].
type ListUsersResult struct {
	Users      []Profile `json:"users"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// Stats is the aggregate dashboard snapshot cached under dashboard:stats.
type Stats struct {
	TotalUsers    int       `json:"totalUsers"`
	ActiveUsers   int       `json:"activeUsers"`
	UserGrowth    float64   `json:"userGrowth"`
	ActiveGrowth  int       `json:"activeGrowth"`
	SuccessRate   float64   `json:"successRate"`
	UptimeSeconds float64   `json:"systemUptime"`
	UptimeDays    int       `json:"uptimeDays"`
	ServerTime    time.Time `json:"serverTime"`
}

// Charts is the hourly signup series cached under dashboard:charts:<period>.
type Charts struct {
	Labels   []string `json:"labels"`
	NewUsers []int    `json:"newUsers"`
}
