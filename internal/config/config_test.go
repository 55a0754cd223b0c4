package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderAnthropic {
		t.Errorf("expected default provider %q, got %q", ProviderAnthropic, cfg.Provider)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("expected default rate limit 100, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.Session.TimeoutDuration() != 30*time.Minute {
		t.Errorf("expected default session timeout 30m, got %s", cfg.Session.TimeoutDuration())
	}
	if cfg.Session.MaxHistory != 20 {
		t.Errorf("expected default max history 20, got %d", cfg.Session.MaxHistory)
	}
	if cfg.Cache.TTLDuration() != time.Hour {
		t.Errorf("expected default cache ttl 1h, got %s", cfg.Cache.TTLDuration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.shopbot.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Server.Port = 9090
	original.RateLimit.MaxRequests = 50
	original.Session.Timeout = 600
	original.Cache.TTL = 120

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.RateLimit.MaxRequests != original.RateLimit.MaxRequests {
		t.Errorf("rate limit: got %d, want %d", loaded.RateLimit.MaxRequests, original.RateLimit.MaxRequests)
	}
	if loaded.Session.Timeout != original.Session.Timeout {
		t.Errorf("session timeout: got %d, want %d", loaded.Session.Timeout, original.Session.Timeout)
	}
	if loaded.Cache.TTL != original.Cache.TTL {
		t.Errorf("cache ttl: got %d, want %d", loaded.Cache.TTL, original.Cache.TTL)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of missing file should not error: %v", err)
	}
	if cfg.Provider != ProviderAnthropic {
		t.Errorf("expected defaults, got provider %q", cfg.Provider)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("SHOPBOT_PROVIDER", "openai")
	os.Setenv("SHOPBOT_SESSION_TIMEOUT", "900")
	os.Setenv("SHOPBOT_MAX_TOKENS", "2048")
	os.Setenv("SHOPBOT_RATE_LIMIT_MAX_REQUESTS", "7")
	defer os.Unsetenv("SHOPBOT_PROVIDER")
	defer os.Unsetenv("SHOPBOT_SESSION_TIMEOUT")
	defer os.Unsetenv("SHOPBOT_MAX_TOKENS")
	defer os.Unsetenv("SHOPBOT_RATE_LIMIT_MAX_REQUESTS")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("env override ignored: provider %q", cfg.Provider)
	}
	if cfg.Session.Timeout != 900 {
		t.Errorf("env override ignored: session.timeout %d", cfg.Session.Timeout)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("env override ignored: max_tokens %d", cfg.MaxTokens)
	}
	if cfg.RateLimit.MaxRequests != 7 {
		t.Errorf("env override ignored: rate_limit.max_requests %d", cfg.RateLimit.MaxRequests)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "llama-farm" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.MaxRequests = 0 }},
		{"zero session timeout", func(c *Config) { c.Session.Timeout = 0 }},
		{"zero max history", func(c *Config) { c.Session.MaxHistory = 0 }},
		{"zero cache ttl", func(c *Config) { c.Cache.TTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(ProviderAnthropic); got != "ANTHROPIC_API_KEY" {
		t.Errorf("got %q", got)
	}
	if got := APIKeyEnvVar(ProviderOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("got %q", got)
	}
	if got := APIKeyEnvVar("other"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
