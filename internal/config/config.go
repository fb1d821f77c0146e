package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment represents the development environment.
	EnvDevelopment = "development"

	// Prefix is prepended to every environment variable name, e.g. KNOBS_LAYOUT.
	Prefix = "KNOBS"
)

// Config holds all application configuration.
type Config struct {
	Env string `envconfig:"ENV" default:"development"`

	// Page settings
	Layout string `envconfig:"LAYOUT" default:"knobs.yaml"`

	// Audio settings
	Sound      string  `envconfig:"SOUND"`
	OutputRate int     `envconfig:"OUTPUT_RATE" default:"44100"`
	MaxRate    float64 `envconfig:"MAX_RATE" default:"4"`

	// Remote control settings. The remote is off while RemoteAddr is empty.
	RemoteAddr  string `envconfig:"REMOTE_ADDR"`
	RemoteToken string `envconfig:"REMOTE_TOKEN"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE" default:"knobs.log"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	var config Config
	if err := envconfig.Process(Prefix, &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate returns an error if the config can't be used.
func (c *Config) Validate() error {
	if c.OutputRate <= 0 {
		return errors.New("output rate must be positive")
	}

	if c.MaxRate <= 0 {
		return errors.New("max rate must be positive")
	}

	if c.CSPMode != "strict" && c.CSPMode != "relaxed" {
		return fmt.Errorf("invalid CSP mode %q: must be 'strict' or 'relaxed'", c.CSPMode)
	}

	return nil
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		return "default-src 'self'; " +
			"style-src 'self'; " +
			"script-src 'self'; " +
			"connect-src 'self'; " +
			"img-src 'self' data:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"connect-src 'self' ws: wss:; " +
		"img-src 'self' data:"
}
