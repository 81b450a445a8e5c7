// ABOUTME: Server configuration loaded from the environment.
// ABOUTME: A .env file is honored when present; flags may override later.

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port   string `env:"HABITAT_PORT" envDefault:"9000"`
	DBPath string `env:"HABITAT_DB" envDefault:"habitat.db"`

	// Dispatch hardening: per-hook and per-health-probe deadlines.
	HookTimeout   time.Duration `env:"HABITAT_HOOK_TIMEOUT" envDefault:"5s"`
	HealthTimeout time.Duration `env:"HABITAT_HEALTH_TIMEOUT" envDefault:"3s"`

	// Optional AI-powered seed data generation.
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-5-mini"`
}

// Load reads configuration from the environment, first loading a local
// .env file if one exists.
func Load() (Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()
	return env.ParseAs[Config]()
}
