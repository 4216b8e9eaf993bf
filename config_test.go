package authcore

import (
	"testing"
	"time"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Token.TTL != 7*24*time.Hour {
		t.Fatalf("expected 7-day token TTL, got %v", cfg.Token.TTL)
	}
	if cfg.Throttle.MaxAttempts != 5 || cfg.Throttle.Window != 15*time.Minute {
		t.Fatalf("expected 5 attempts per 15m, got %+v", cfg.Throttle)
	}
	if cfg.MFA.Digits != 6 || cfg.MFA.Period != 30 || cfg.MFA.Skew != 2 {
		t.Fatalf("unexpected mfa defaults %+v", cfg.MFA)
	}
	if cfg.Password.Cost != 12 {
		t.Fatalf("expected bcrypt cost 12, got %d", cfg.Password.Cost)
	}
	if cfg.CacheTTL.User != time.Hour || cfg.CacheTTL.Profile != 30*time.Minute ||
		cfg.CacheTTL.Session != 7*24*time.Hour || cfg.CacheTTL.Stats != 5*time.Minute ||
		cfg.CacheTTL.Charts != 10*time.Minute {
		t.Fatalf("unexpected cache lifetimes %+v", cfg.CacheTTL)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.Token.SigningSecret = []byte("secret")
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing signing secret", func(c *Config) { c.Token.SigningSecret = nil }},
		{"zero token ttl", func(c *Config) { c.Token.TTL = 0 }},
		{"zero attempts", func(c *Config) { c.Throttle.MaxAttempts = 0 }},
		{"zero window", func(c *Config) { c.Throttle.Window = 0 }},
		{"mfa digits too few", func(c *Config) { c.MFA.Digits = 4 }},
		{"mfa digits too many", func(c *Config) { c.MFA.Digits = 9 }},
		{"negative skew", func(c *Config) { c.MFA.Skew = -1 }},
		{"zero user ttl", func(c *Config) { c.CacheTTL.User = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := validateConfig(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := validateConfig(base()); err != nil {
		t.Fatalf("defaults with a secret must validate: %v", err)
	}
}

func TestBuilderRequiresStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.SigningSecret = []byte("secret")

	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("expected build failure without a store")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	store := newMockUserStore()
	cfg := engineTestConfig()

	b := New().WithConfig(cfg).WithStore(store)
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}
