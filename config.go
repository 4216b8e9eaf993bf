package authcore

import (
	"errors"
	"time"
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token    TokenConfig
	Throttle ThrottleConfig
	MFA      MFAConfig
	Password PasswordConfig
	CacheTTL CacheTTLConfig
	Audit    AuditConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authcore APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	SigningSecret []byte
	TTL           time.Duration
	Issuer        string
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig defines a public type used by authcore APIs.
//
// ThrottleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

/*
====================================
MFA CONFIG
====================================
*/

// MFAConfig defines a public type used by authcore APIs.
//
// MFAConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MFAConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Algorithm string // "SHA1" (default), "SHA256", "SHA512"
	// Skew is the accepted clock-skew tolerance in time steps on either side.
	Skew int
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by authcore APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Cost int
}

/*
====================================
CACHE TTL CONFIG
====================================
*/

// CacheTTLConfig carries the per-namespace entry lifetimes. The values are a
// shared contract with the collaborators reading the same keys; shrink with
// care and never extend Session past the token TTL.
type CacheTTLConfig struct {
	User    time.Duration
	Profile time.Duration
	Session time.Duration
	Stats   time.Duration
	Charts  time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authcore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns the production defaults: 7-day tokens, 5 attempts per
// 15-minute fixed window, 6-digit 30-second TOTP with ±2 step skew, bcrypt
// cost 12, and the documented cache lifetimes.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:    7 * 24 * time.Hour,
			Issuer: "enterprise-platform",
		},
		Throttle: ThrottleConfig{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
		MFA: MFAConfig{
			Issuer:    "Enterprise Platform",
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      2,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		CacheTTL: CacheTTLConfig{
			User:    time.Hour,
			Profile: 30 * time.Minute,
			Session: 7 * 24 * time.Hour,
			Stats:   5 * time.Minute,
			Charts:  10 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.Token.SigningSecret) == 0 {
		return errors.New("token signing secret required")
	}
	if cfg.Token.TTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if cfg.Throttle.MaxAttempts <= 0 || cfg.Throttle.Window <= 0 {
		return errors.New("throttle attempts and window must be positive")
	}
	if cfg.MFA.Digits < 6 || cfg.MFA.Digits > 8 {
		return errors.New("mfa digits must be between 6 and 8")
	}
	if cfg.MFA.Period <= 0 {
		return errors.New("mfa period must be positive")
	}
	if cfg.MFA.Skew < 0 {
		return errors.New("mfa skew must not be negative")
	}
	if cfg.CacheTTL.User <= 0 || cfg.CacheTTL.Profile <= 0 || cfg.CacheTTL.Session <= 0 ||
		cfg.CacheTTL.Stats <= 0 || cfg.CacheTTL.Charts <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	return nil
}
