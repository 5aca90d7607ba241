// Copyright (c) 2026 Programando o Futuro. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// JWTSecretKey signs access tokens (HMAC-SHA256).
	JWTSecretKey string `env:"JWT_SECRET_KEY,required"`

	// JWTExpirationSecs is the access-token lifetime. Short (15 minutes) so a
	// leaked token has a bounded blast radius.
	JWTExpirationSecs int `env:"JWT_EXPIRATION_SECS" envDefault:"900"`

	// SessionExpirationSecs is the session/refresh-token lifetime (30 days).
	SessionExpirationSecs int `env:"SESSION_EXPIRATION_SECS" envDefault:"2592000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// JWTExpiration returns the access-token lifetime as a [time.Duration].
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWTExpirationSecs) * time.Second
}

// SessionExpiration returns the session lifetime as a [time.Duration].
func (c *Config) SessionExpiration() time.Duration {
	return time.Duration(c.SessionExpirationSecs) * time.Second
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
//
// Production mode hardens cookie attributes (Secure, SameSite=Strict).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
