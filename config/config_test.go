package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.False(t, cfg.App.AllowAdminRegistration)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.True(t, cfg.Policy.EnforceDoctorOwnership)
	assert.False(t, cfg.Policy.EnforceDoctorAvailability)
	assert.Equal(t, 7*24*time.Hour, cfg.Policy.DeletionRequestTTL)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ALLOW_ADMIN_REGISTRATION", "true")
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("POLICY_ENFORCE_DOCTOR_OWNERSHIP", "false")
	t.Setenv("DELETION_REQUEST_TTL", "24h")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.App.AllowAdminRegistration)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.False(t, cfg.Policy.EnforceDoctorOwnership)
	assert.Equal(t, 24*time.Hour, cfg.Policy.DeletionRequestTTL)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
}

func TestLoadConfigFallsBackOnBadDuration(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_REFRESH_EXPIRY", "a week")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
}
