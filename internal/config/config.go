package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	OllamaURL string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	ModelName string `env:"MODEL_NAME" envDefault:"llama3.1:8b"`

	// RedisAddr enables Redis-backed session storage when set
	// (e.g. "localhost:6379"). Empty means file storage only.
	RedisAddr string `env:"REDIS_ADDR"`

	RulesPath      string `env:"RULES_PATH" envDefault:"data/rules/smugglers_cove.json"`
	SaveDir        string `env:"SAVE_DIR" envDefault:"saves"`
	TranscriptPath string `env:"TRANSCRIPT_PATH" envDefault:"transcripts/transcript.jsonl"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level string to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
