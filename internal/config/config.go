package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-backed configuration. A .env file, when
// present, is loaded before parsing (see cmd root).
type Config struct {
	Port              string        `env:"PORT"                envDefault:"8888"`
	Provider          string        `env:"LCSH_PROVIDER"       envDefault:"gemini"`
	Model             string        `env:"LCSH_MODEL"`
	Temperature       float64       `env:"LCSH_TEMPERATURE"    envDefault:"0.2"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY"`
	AuthorityBaseURL  string        `env:"AUTHORITY_BASE_URL"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT"  envDefault:"90s"`
	LookupConcurrency int           `env:"LOOKUP_CONCURRENCY"  envDefault:"4"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// Credential returns the configured API key for the given provider. Ollama
// runs locally and needs none.
func (c Config) Credential(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	}
	return ""
}
