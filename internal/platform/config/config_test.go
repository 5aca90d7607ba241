// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/config"
)

/*
TestLoad_Defaults verifies that omitted variables fall back to documented defaults.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 900, cfg.JWTExpirationSecs)
	assert.Equal(t, 2592000, cfg.SessionExpirationSecs)

	assert.Equal(t, 15*time.Minute, cfg.JWTExpiration())
	assert.Equal(t, 30*24*time.Hour, cfg.SessionExpiration())

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

/*
TestLoad_Overrides verifies that explicit variables win over defaults.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_EXPIRATION_SECS", "60")
	t.Setenv("SESSION_EXPIRATION_SECS", "3600")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Minute, cfg.JWTExpiration())
	assert.Equal(t, time.Hour, cfg.SessionExpiration())
}

/*
TestLoad_MissingRequired verifies that required variables are enforced.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/test")

	// t.Setenv registers the restore; the unset makes the variable truly absent.
	t.Setenv("JWT_SECRET_KEY", "placeholder")
	require.NoError(t, os.Unsetenv("JWT_SECRET_KEY"))

	_, err := config.Load()
	assert.Error(t, err)
}
