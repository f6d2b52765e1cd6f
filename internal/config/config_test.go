package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "petcare.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.IsProdLike())
}

func TestFromEnvParsesOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example, ,https://admin.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://clinic.example", "https://admin.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_TTL", "-1h")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRejectsDefaultSecretInProd(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}
