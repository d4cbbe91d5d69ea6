package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig("kucoin")

	assert.Equal(t, "kucoin", config.Venue)
	assert.False(t, config.Sandbox)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, 4, config.RetryAttempts)
	assert.Equal(t, 4*time.Second, config.RetryDelay)
	assert.Equal(t, 180, config.RateLimitRequests)
	assert.Equal(t, time.Minute, config.RateLimitPeriod)

	require.NoError(t, config.Validate())
}

func TestConfig_Validate_MissingVenue(t *testing.T) {
	config := DefaultConfig("kucoin")
	config.Venue = ""

	assert.Error(t, config.Validate())
}

func TestConfig_Validate_ZeroTimeout(t *testing.T) {
	config := DefaultConfig("kucoin")
	config.Timeout = 0

	assert.Error(t, config.Validate())
}

func TestConfig_Validate_BadLogLevel(t *testing.T) {
	config := DefaultConfig("kucoin")
	config.LogLevel = "loud"

	assert.Error(t, config.Validate())
}

func TestConfig_WithRetry(t *testing.T) {
	config := DefaultConfig("kucoin").WithRetry(1, 0)

	assert.Equal(t, 1, config.RetryAttempts)
	assert.Equal(t, time.Duration(0), config.RetryDelay)
	require.NoError(t, config.Validate())
}

func TestConfig_Chaining(t *testing.T) {
	creds := &Credentials{APIKey: "k", SecretKey: "s", Passphrase: "p"}
	config := DefaultConfig("kucoin").
		WithCredentials(creds).
		WithSandbox(true).
		WithTimeout(5 * time.Second).
		WithRateLimit(60, time.Minute)

	assert.Equal(t, creds, config.Credentials)
	assert.True(t, config.Sandbox)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, 60, config.RateLimitRequests)
}
