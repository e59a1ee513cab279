package config

import (
	"testing"
	"time"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"auth": map[string]any{
			"siteUrl": "",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "AUTH_SITEURL", want: "auth.siteUrl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestAuthConfigNormalizedDefaults(t *testing.T) {
	cfg := (*AuthConfig)(nil).Normalized()

	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("AccessTokenTTL = %v, want 15m", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("RefreshTokenTTL = %v, want 168h", cfg.RefreshTokenTTL)
	}
	if cfg.CallbackRetryAttempts != 3 {
		t.Fatalf("CallbackRetryAttempts = %d, want 3", cfg.CallbackRetryAttempts)
	}
	if cfg.CallbackRetryInterval != 2*time.Second {
		t.Fatalf("CallbackRetryInterval = %v, want 2s", cfg.CallbackRetryInterval)
	}
	if cfg.RedirectDelay != time.Second {
		t.Fatalf("RedirectDelay = %v, want 1s", cfg.RedirectDelay)
	}
}

func TestAuthConfigResolveSiteURL(t *testing.T) {
	t.Run("explicit override wins", func(t *testing.T) {
		cfg := &AuthConfig{SiteURL: "https://crm.example.com/"}
		if got := cfg.ResolveSiteURL(); got != "https://crm.example.com" {
			t.Fatalf("ResolveSiteURL() = %q", got)
		}
	})

	t.Run("platform hostname fallback", func(t *testing.T) {
		t.Setenv("PLATFORM_HOSTNAME", "crm-prod.fly.dev")
		cfg := &AuthConfig{}
		if got := cfg.ResolveSiteURL(); got != "https://crm-prod.fly.dev" {
			t.Fatalf("ResolveSiteURL() = %q", got)
		}
	})

	t.Run("localhost default", func(t *testing.T) {
		t.Setenv("PLATFORM_HOSTNAME", "")
		cfg := &AuthConfig{}
		if got := cfg.ResolveSiteURL(); got != "http://localhost:8080" {
			t.Fatalf("ResolveSiteURL() = %q", got)
		}
	})
}
