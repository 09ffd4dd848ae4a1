package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STRING_VAL", "hello")
	assert.Equal(t, "hello", GetEnv("TEST_STRING_VAL", "fallback"))
	assert.Equal(t, "fallback", GetEnv("TEST_STRING_MISSING", "fallback"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT_VAL", "42")
	assert.Equal(t, 42, GetEnvAsInt("TEST_INT_VAL", 7))

	t.Setenv("TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, GetEnvAsInt("TEST_INT_BAD", 7))

	assert.Equal(t, 7, GetEnvAsInt("TEST_INT_MISSING", 7))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL_VAL", "true")
	assert.True(t, GetEnvAsBool("TEST_BOOL_VAL", false))

	t.Setenv("TEST_BOOL_BAD", "yep")
	assert.True(t, GetEnvAsBool("TEST_BOOL_BAD", true))
}

func TestTrackingDefaults(t *testing.T) {
	configs := loadConfigFromEnv()

	assert.Equal(t, 10000, configs.Tracking.SampleIntervalMs)
	assert.Equal(t, 30000, configs.Tracking.PingIntervalMs)
	assert.Equal(t, 3000, configs.Tracking.ReconnectDelayMs)
	assert.Equal(t, 10, configs.Tracking.MaxReconnectRetries)
	assert.Equal(t, 3, configs.Tracking.SOSMaxSyncAttempts)
}

func TestTrackingOverrides(t *testing.T) {
	t.Setenv("TRACKING_SAMPLE_INTERVAL_MS", "5000")
	t.Setenv("TRACKING_MAX_RECONNECT_RETRIES", "4")

	configs := loadConfigFromEnv()

	assert.Equal(t, 5000, configs.Tracking.SampleIntervalMs)
	assert.Equal(t, 4, configs.Tracking.MaxReconnectRetries)
}
