package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
)

// Config is the top-level shopbot configuration, corresponding to .shopbot.yml.
type Config struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	MaxTokens   int          `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature float64      `yaml:"temperature" koanf:"temperature"`
	// AITimeout bounds each call to the AI backend, in seconds.
	AITimeout      int             `yaml:"ai_timeout" koanf:"ai_timeout"`
	EmbeddingModel string          `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir        string          `yaml:"data_dir" koanf:"data_dir"`
	Server         ServerConfig    `yaml:"server" koanf:"server"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" koanf:"rate_limit"`
	Session        SessionConfig   `yaml:"session" koanf:"session"`
	Cache          CacheConfig     `yaml:"cache" koanf:"cache"`
	Search         SearchConfig    `yaml:"search" koanf:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// RateLimitConfig holds sliding-window limiter settings.
type RateLimitConfig struct {
	Enabled     bool `yaml:"enabled" koanf:"enabled"`
	MaxRequests int  `yaml:"max_requests" koanf:"max_requests"`
	// Window is the trailing window length in seconds.
	Window int `yaml:"window" koanf:"window"`
}

// SessionConfig holds conversation session settings.
type SessionConfig struct {
	// Timeout is the idle timeout in seconds after which a session is gone.
	Timeout int `yaml:"timeout" koanf:"timeout"`
	// MaxHistory caps the turns kept per session, oldest dropped first.
	MaxHistory int `yaml:"max_history" koanf:"max_history"`
	// SweepInterval is the period of the background cleanup, in seconds.
	SweepInterval int `yaml:"sweep_interval" koanf:"sweep_interval"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
	// TTL is the default entry lifetime in seconds.
	TTL int `yaml:"ttl" koanf:"ttl"`
}

// SearchConfig holds catalog search settings.
type SearchConfig struct {
	MaxResults int `yaml:"max_results" koanf:"max_results"`
}
