package config_test

import (
	"testing"
	"time"

	"futurebound/config"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_TTL", "OTP_TTL", "SALT_ROUND", "RECONCILE_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg := config.FromEnv()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 10, cfg.SaltRound)
	assert.Equal(t, "0 2 * * *", cfg.ReconcileSchedule)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("SALT_ROUND", "12")

	cfg := config.FromEnv()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 12, cfg.SaltRound)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SALT_ROUND", "many")
	t.Setenv("OTP_TTL", "ten minutes")

	cfg := config.FromEnv()
	assert.Equal(t, 10, cfg.SaltRound)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
}
