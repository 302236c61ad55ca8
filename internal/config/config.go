// Package config loads process-wide configuration from the environment,
// with optional .env file support. Configuration is read once at startup
// and passed explicitly into the components that need it; nothing else in
// the repository reads environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"kayakomcp/internal/kayako"
)

// Defaults mirroring the upstream service limits.
const (
	DefaultCharacterLimit = 25000
	DefaultListLimit      = 20
	MaxListLimit          = 100
)

// ErrMissingCredentials marks an incomplete credential triple. It is a
// configuration error, distinct from the runtime taxonomy.
var ErrMissingCredentials = errors.New("missing kayako credentials")

// Config is the validated process configuration.
type Config struct {
	API    APIConfig
	Limits LimitsConfig
	Debug  bool
}

// APIConfig holds upstream access settings. Immutable for the process
// lifetime and never persisted.
type APIConfig struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	Timeout   time.Duration
}

// LimitsConfig bounds response shaping.
type LimitsConfig struct {
	CharacterLimit int // budget for human-readable output
	DefaultLimit   int // default page size for listing tools
	MaxLimit       int // hard cap on caller-requested page size
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in when present; real environment
// variables win.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL:   os.Getenv("KAYAKO_API_URL"),
			APIKey:    os.Getenv("KAYAKO_API_KEY"),
			SecretKey: os.Getenv("KAYAKO_SECRET_KEY"),
			Timeout:   kayako.DefaultTimeout,
		},
		Limits: LimitsConfig{
			CharacterLimit: DefaultCharacterLimit,
			DefaultLimit:   DefaultListLimit,
			MaxLimit:       MaxListLimit,
		},
		Debug: boolEnv("KAYAKO_DEBUG"),
	}

	if raw := os.Getenv("KAYAKO_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid KAYAKO_TIMEOUT_SECONDS %q", raw)
		}
		cfg.API.Timeout = time.Duration(secs) * time.Second
	}
	if raw := os.Getenv("KAYAKO_CHARACTER_LIMIT"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("invalid KAYAKO_CHARACTER_LIMIT %q", raw)
		}
		cfg.Limits.CharacterLimit = limit
	}

	return cfg, nil
}

// Validate checks the credential triple. The server still starts when
// this fails; tool calls surface the configuration problem instead.
func (c *Config) Validate() error {
	var missing []string
	if c.API.BaseURL == "" {
		missing = append(missing, "KAYAKO_API_URL")
	}
	if c.API.APIKey == "" {
		missing = append(missing, "KAYAKO_API_KEY")
	}
	if c.API.SecretKey == "" {
		missing = append(missing, "KAYAKO_SECRET_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return nil
}

// ClientConfig adapts the API section for the transport client.
func (c *Config) ClientConfig() kayako.ClientConfig {
	return kayako.ClientConfig{
		BaseURL:   c.API.BaseURL,
		APIKey:    c.API.APIKey,
		SecretKey: c.API.SecretKey,
		Timeout:   c.API.Timeout,
	}
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
