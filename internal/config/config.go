package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"geo-quiz-service/internal/app"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"PORT"`
		AllowedOrigins []string `yaml:"allowedOrigins" env:"ALLOWED_ORIGINS" envSeparator:","`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Data struct {
		GeoJSON      string `yaml:"geojson" env:"DATA_GEOJSON"`
		CountriesURL string `yaml:"countriesURL" env:"DATA_COUNTRIES_URL"`
		Pool         string `yaml:"pool" env:"DATA_POOL"`
		TTL          string `yaml:"ttl" env:"DATA_TTL"`
		Timeout      string `yaml:"timeout" env:"DATA_TIMEOUT"`
		Refresh      string `yaml:"refresh" env:"DATA_REFRESH"`
	} `yaml:"data"`
	Quiz struct {
		RoundSeconds   int      `yaml:"roundSeconds" env:"QUIZ_ROUND_SECONDS"`
		BonusSeconds   int      `yaml:"bonusSeconds" env:"QUIZ_BONUS_SECONDS"`
		PenaltySeconds int      `yaml:"penaltySeconds" env:"QUIZ_PENALTY_SECONDS"`
		Reward         int      `yaml:"reward" env:"QUIZ_REWARD"`
		Tick           string   `yaml:"tick" env:"QUIZ_TICK"`
		Templates      []string `yaml:"templates" env:"QUIZ_TEMPLATES" envSeparator:"|"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path and overlays environment variables.
// A missing file is not an error, so env-only deployments work.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Rules converts the quiz section, keeping defaults for unset values.
func (c Config) Rules() app.Rules {
	rules := app.DefaultRules()
	if c.Quiz.RoundSeconds > 0 {
		rules.RoundSeconds = c.Quiz.RoundSeconds
	}
	if c.Quiz.BonusSeconds > 0 {
		rules.BonusSeconds = c.Quiz.BonusSeconds
	}
	if c.Quiz.PenaltySeconds > 0 {
		rules.PenaltySeconds = c.Quiz.PenaltySeconds
	}
	if c.Quiz.Reward > 0 {
		rules.Reward = c.Quiz.Reward
	}
	return rules
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
