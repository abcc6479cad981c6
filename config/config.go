package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerConfig  ServerConfig  `json:"server"`
	SessionConfig SessionConfig `json:"session"`
	MarketConfig  MarketConfig  `json:"market"`
	RedisConfig   RedisConfig   `json:"redis"`
	LoggingConfig LoggingConfig `json:"logging"`
	MockConfig    MockConfig    `json:"mock"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int    `json:"port"`
	Host            string `json:"host"`
	ProductionMode  bool   `json:"production_mode"`
	AllowedOrigins  string `json:"allowed_origins"`
	ReadTimeout     int    `json:"read_timeout"`     // Seconds
	WriteTimeout    int    `json:"write_timeout"`    // Seconds
	ShutdownTimeout int    `json:"shutdown_timeout"` // Seconds
}

// SessionConfig holds session controller configuration
type SessionConfig struct {
	TokenSecret      string        `json:"token_secret"`
	TokenDuration    time.Duration `json:"token_duration"`
	ObserveInterval  time.Duration `json:"observe_interval"`  // Credential store poll fallback
	SimulatedLatency time.Duration `json:"simulated_latency"` // Artificial delay on login/activation/registration
}

// MarketConfig holds exchange ticker feed configuration
type MarketConfig struct {
	BaseURL       string        `json:"base_url"`
	QuoteCurrency string        `json:"quote_currency"` // Pairs are filtered by this suffix
	PollInterval  time.Duration `json:"poll_interval"`  // Refresh interval while a market page is mounted
	Timeout       time.Duration `json:"timeout"`
	Debug         bool          `json:"debug"`
}

// RedisConfig holds the optional Redis credential store backend
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Output     string `json:"output"`      // stdout, stderr, or file path
	JSONFormat bool   `json:"json_format"` // Output as JSON (console writer otherwise)
}

// MockConfig controls the deterministic demo data provider
type MockConfig struct {
	Seed int64 `json:"seed"`
}

func Load() (*Config, error) {
	// First try to load base config from file
	cfg, err := loadFromFile("config.json")
	if err != nil {
		// If no config file, start with empty config
		cfg = &Config{}
	}

	// Apply environment variable overrides (these take precedence)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	// Server config
	cfg.ServerConfig.Port = getEnvIntOrDefault("WEB_PORT", 8080)
	cfg.ServerConfig.Host = getEnvOrDefault("WEB_HOST", "0.0.0.0")
	cfg.ServerConfig.ProductionMode = getEnvOrDefault("PRODUCTION_MODE", "false") == "true"
	cfg.ServerConfig.AllowedOrigins = getEnvOrDefault("SERVER_ALLOWED_ORIGINS", "http://localhost:5173")
	cfg.ServerConfig.ReadTimeout = getEnvIntOrDefault("SERVER_READ_TIMEOUT", 30)
	cfg.ServerConfig.WriteTimeout = getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 30)
	cfg.ServerConfig.ShutdownTimeout = getEnvIntOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10)

	// Session config
	cfg.SessionConfig.TokenSecret = getEnvOrDefault("SESSION_TOKEN_SECRET", "strade-demo-secret")
	cfg.SessionConfig.TokenDuration = getEnvDurationOrDefault("SESSION_TOKEN_DURATION", 24*time.Hour)
	cfg.SessionConfig.ObserveInterval = getEnvDurationOrDefault("SESSION_OBSERVE_INTERVAL", 500*time.Millisecond)
	cfg.SessionConfig.SimulatedLatency = getEnvDurationOrDefault("SESSION_SIMULATED_LATENCY", 1*time.Second)

	// Market config
	cfg.MarketConfig.BaseURL = getEnvOrDefault("MARKET_BASE_URL", cfg.MarketConfig.BaseURL)
	if cfg.MarketConfig.BaseURL == "" {
		cfg.MarketConfig.BaseURL = "https://api.binance.com"
	}
	cfg.MarketConfig.QuoteCurrency = getEnvOrDefault("MARKET_QUOTE_CURRENCY", "USDT")
	cfg.MarketConfig.PollInterval = getEnvDurationOrDefault("MARKET_POLL_INTERVAL", 30*time.Second)
	cfg.MarketConfig.Timeout = getEnvDurationOrDefault("MARKET_TIMEOUT", 10*time.Second)
	cfg.MarketConfig.Debug = getEnvOrDefault("MARKET_DEBUG", "false") == "true"

	// Redis config
	cfg.RedisConfig.Enabled = getEnvOrDefault("REDIS_ENABLED", "false") == "true"
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", 0)
	cfg.RedisConfig.PoolSize = getEnvIntOrDefault("REDIS_POOL_SIZE", 10)

	// Logging config
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.LoggingConfig.Output = getEnvOrDefault("LOG_OUTPUT", "stdout")
	cfg.LoggingConfig.JSONFormat = getEnvOrDefault("LOG_JSON", "true") == "true"

	// Mock data config
	cfg.MockConfig.Seed = int64(getEnvIntOrDefault("MOCK_SEED", 2025))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
