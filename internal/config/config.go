package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Claude vision analysis. The API key is optional: without it only
	// demo-mode conversions work, and clients may still supply a key
	// per request.
	AnthropicAPIKey string
	AnthropicModel  string

	// Upload limits
	MaxUploadBytes int64

	// Generated document storage
	OutputDir string
	OutputTTL time.Duration

	// Slide layout: "16:9" or "4:3"
	SlideLayout string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		OutputDir: envOr("OUTPUT_DIR", os.TempDir()),
		OutputTTL: envDuration("OUTPUT_TTL", 1*time.Hour),

		SlideLayout: envOr("SLIDE_LAYOUT", "16:9"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.OutputTTL <= 0 {
		cfg.OutputTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.SlideLayout != "16:9" && c.SlideLayout != "4:3" {
		return fmt.Errorf("SLIDE_LAYOUT must be \"16:9\" or \"4:3\", got %q", c.SlideLayout)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
