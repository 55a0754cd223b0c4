package config

import "time"

// DefaultConfig returns the baseline configuration, before any YAML or
// environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderAnthropic,
		Model:          "claude-sonnet-4-20250514",
		MaxTokens:      4096,
		Temperature:    0.7,
		AITimeout:      30,
		EmbeddingModel: "text-embedding-3-small",
		DataDir:        "data",
		Server: ServerConfig{
			Port: 8080,
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			MaxRequests: 100,
			Window:      60,
		},
		Session: SessionConfig{
			Timeout:       1800, // 30 minutes
			MaxHistory:    20,   // 10 exchanges, user and assistant each counted
			SweepInterval: 300,  // 5 minutes
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     3600, // 1 hour
		},
		Search: SearchConfig{
			MaxResults: 20,
		},
	}
}

// Duration helpers so callers don't juggle second counts.

func (c RateLimitConfig) WindowDuration() time.Duration { return time.Duration(c.Window) * time.Second }

func (c SessionConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c SessionConfig) SweepIntervalDuration() time.Duration {
	return time.Duration(c.SweepInterval) * time.Second
}

func (c CacheConfig) TTLDuration() time.Duration { return time.Duration(c.TTL) * time.Second }

func (c Config) AITimeoutDuration() time.Duration { return time.Duration(c.AITimeout) * time.Second }
