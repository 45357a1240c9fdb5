// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

// DefaultPassphrase is used to derive the secret obfuscation key when
// SOCIALHUB_SECRET_PASSPHRASE is unset.
const DefaultPassphrase = "social-hub-secret"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr        string
	DBPath            string
	SecretPassphrase  string
	ValidationTimeout time.Duration
	RedirectURI       string
}

// UsesDefaultPassphrase reports whether the built-in passphrase is in effect.
// The composition root warns about it at startup.
func (c *Config) UsesDefaultPassphrase() bool {
	return c.SecretPassphrase == DefaultPassphrase
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: SOCIALHUB_LISTEN_ADDR (127.0.0.1:8080),
// SOCIALHUB_DB_PATH (socialhub.db), SOCIALHUB_SECRET_PASSPHRASE (built-in),
// SOCIALHUB_VALIDATION_TIMEOUT (15s), and SOCIALHUB_REDIRECT_URI
// (http://127.0.0.1:8080/api-callback).
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("SOCIALHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "socialhub.db"
	if v, ok := os.LookupEnv("SOCIALHUB_DB_PATH"); ok {
		dbPath = v
	}

	passphrase := DefaultPassphrase
	if v, ok := os.LookupEnv("SOCIALHUB_SECRET_PASSPHRASE"); ok {
		if v == "" {
			return nil, fmt.Errorf("SOCIALHUB_SECRET_PASSPHRASE must not be empty")
		}
		passphrase = v
	}

	timeout := 15 * time.Second
	if v, ok := os.LookupEnv("SOCIALHUB_VALIDATION_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SOCIALHUB_VALIDATION_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("SOCIALHUB_VALIDATION_TIMEOUT must be positive, got %s", parsed)
		}
		timeout = parsed
	}

	redirectURI := "http://127.0.0.1:8080/api-callback"
	if v, ok := os.LookupEnv("SOCIALHUB_REDIRECT_URI"); ok {
		redirectURI = v
	}

	return &Config{
		ListenAddr:        listenAddr,
		DBPath:            dbPath,
		SecretPassphrase:  passphrase,
		ValidationTimeout: timeout,
		RedirectURI:       redirectURI,
	}, nil
}
