// Package config loads the server configuration from a YAML or TOML file
// (chosen by extension) after applying defaults, then validates it.
// Secrets are never stored in the file: auth.token_key_env names the
// environment variable that holds the JWT signing key, and a .env file in
// the working directory is loaded first if present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr           = ":8080"
	DefaultRateRPS        = 5
	DefaultRateBurst      = 10
	DefaultResultsCap     = 256
	DefaultResultsTTL     = time.Hour
	DefaultUploadMaxBytes = 10 << 20
	DefaultTokenKeyEnv    = "TOKEN_KEY"
)

type Config struct {
	Addr      string          `yaml:"addr" toml:"addr"`
	LogLevel  string          `yaml:"log_level" toml:"log_level"`
	StaticDir string          `yaml:"static_dir" toml:"static_dir"`
	TLS       TLSConfig       `yaml:"tls" toml:"tls"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Results   ResultsConfig   `yaml:"results" toml:"results"`
	Upload    UploadConfig    `yaml:"upload" toml:"upload"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
}

// TLSConfig enables HTTPS when both files are set.
type TLSConfig struct {
	CertFile string `yaml:"cert_file" toml:"cert_file"`
	KeyFile  string `yaml:"key_file" toml:"key_file"`
}

func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// RateLimitConfig is the per-client token bucket on /api.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" toml:"rps"`
	Burst int     `yaml:"burst" toml:"burst"`
}

// ResultsConfig bounds the processed tables kept for download.
type ResultsConfig struct {
	Capacity int           `yaml:"capacity" toml:"capacity"`
	TTL      time.Duration `yaml:"ttl" toml:"ttl"`
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes" toml:"max_bytes"`
}

type AuthConfig struct {
	// TokenKeyEnv names the variable holding the HS256 key. An empty key
	// leaves the API open.
	TokenKeyEnv string `yaml:"token_key_env" toml:"token_key_env"`
}

func (a AuthConfig) Key() []byte {
	if a.TokenKeyEnv == "" {
		return nil
	}
	return []byte(os.Getenv(a.TokenKeyEnv))
}

// Level maps log_level onto slog levels, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Load reads the config at path. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse toml: %w", err)
			}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse yaml: %w", err)
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Addr:      DefaultAddr,
		LogLevel:  "info",
		RateLimit: RateLimitConfig{RPS: DefaultRateRPS, Burst: DefaultRateBurst},
		Results:   ResultsConfig{Capacity: DefaultResultsCap, TTL: DefaultResultsTTL},
		Upload:    UploadConfig{MaxBytes: DefaultUploadMaxBytes},
		Auth:      AuthConfig{TokenKeyEnv: DefaultTokenKeyEnv},
	}
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		return fmt.Errorf("tls.cert_file and tls.key_file must be set together")
	}
	if cfg.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate_limit.rps %v must be positive", cfg.RateLimit.RPS)
	}
	if cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst %d must be at least 1", cfg.RateLimit.Burst)
	}
	if cfg.Results.Capacity <= 0 {
		return fmt.Errorf("results.capacity %d must be positive", cfg.Results.Capacity)
	}
	if cfg.Results.TTL <= 0 {
		return fmt.Errorf("results.ttl must be positive")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes %d must be positive", cfg.Upload.MaxBytes)
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("log_level %q unknown: want debug|info|warn|error", cfg.LogLevel)
	}
	return nil
}
