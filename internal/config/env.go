package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the settings of the HTTP server, read from the environment.
type ServerConfig struct {
	Addr           string        `env:"RESUME_BUILDER_ADDR"             envDefault:":8080"`
	APIKey         string        `env:"GEMINI_API_KEY"`
	Model          string        `env:"RESUME_BUILDER_MODEL"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	SessionTTL     time.Duration `env:"RESUME_BUILDER_SESSION_TTL"      envDefault:"2h"`
	MaxUploadBytes int64         `env:"RESUME_BUILDER_MAX_UPLOAD_BYTES" envDefault:"10485760"`
	RateLimit      float64       `env:"RESUME_BUILDER_RATE_LIMIT"       envDefault:"5"`
	RateBurst      int           `env:"RESUME_BUILDER_RATE_BURST"       envDefault:"10"`
	RateWhitelist  []string      `env:"RESUME_BUILDER_RATE_WHITELIST"   envSeparator:","`
	ChromePath     string        `env:"CHROME_PATH"`
	UseBrowser     bool          `env:"RESUME_BUILDER_USE_BROWSER"`

	StorageDir  string `env:"RESUME_BUILDER_STORAGE_DIR"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Prefix    string `env:"S3_PREFIX"                        envDefault:"exports"`
}

// FromEnv loads server configuration from environment variables.
func FromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that the environment parser cannot.
func (c ServerConfig) Validate() error {
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("config error: rate limit and burst must be non-negative")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config error: max upload size must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config error: session TTL must be positive")
	}
	if c.StorageDir != "" && c.S3Bucket != "" {
		return fmt.Errorf("config error: RESUME_BUILDER_STORAGE_DIR and S3_BUCKET are mutually exclusive")
	}
	return nil
}

// ApplyFile fills settings missing from the environment with values from a config file.
func (c ServerConfig) ApplyFile(file *Config) ServerConfig {
	if file == nil {
		return c
	}
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.APIKey, file.APIKey)
	fill(&c.Model, file.Model)
	fill(&c.DatabaseURL, file.DatabaseURL)
	fill(&c.ChromePath, file.ChromePath)
	fill(&c.StorageDir, file.StorageDir)
	fill(&c.S3Bucket, file.S3Bucket)
	fill(&c.S3Region, file.S3Region)
	fill(&c.S3Endpoint, file.S3Endpoint)
	if file.S3Prefix != "" {
		c.S3Prefix = file.S3Prefix
	}
	c.UseBrowser = c.UseBrowser || file.UseBrowser
	return c
}
