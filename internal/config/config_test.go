package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_USER", "booking")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "booking_test")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SLOT_DURATION_MIN", "")

	cfg := Load()
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "booking", cfg.DBUser)
	assert.Equal(t, "booking_test", cfg.DBName)
	assert.Equal(t, 60, cfg.SlotDurationMin, "slot duration defaults to an hour")
}

func TestLoadSlotDurationOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SLOT_DURATION_MIN", "90")

	cfg := Load()
	assert.Equal(t, 90, cfg.SlotDurationMin)
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PREFIX", "")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "availability", cfg.Prefix)
	assert.Equal(t, "30s", cfg.TTL.String())
}
