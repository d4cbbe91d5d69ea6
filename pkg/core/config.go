package core

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Credentials holds API authentication credentials for a venue.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key"`
	// SecretKey is the private API key used for signing requests.
	SecretKey string `json:"secret_key"`
	// Passphrase is an additional credential required by some venues.
	Passphrase string `json:"passphrase,omitempty"`
}

// Config contains all configuration options for a connector instance.
//
// RetryAttempts and RetryDelay drive the too-many-requests retry loop and
// are plain fields so tests can tighten them; they are never read from
// process-wide state.
type Config struct {
	Venue       string       `json:"venue" validate:"required"`
	Sandbox     bool         `json:"sandbox"`
	Credentials *Credentials `json:"credentials,omitempty"`

	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`
	// RetryAttempts is how many times a rate-limited request is retried.
	RetryAttempts int `json:"retry_attempts" validate:"min=0"`
	// RetryDelay is the fixed sleep between rate-limited attempts.
	RetryDelay time.Duration `json:"retry_delay" validate:"min=0"`

	RateLimitRequests int           `json:"rate_limit_requests" validate:"min=1"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" validate:"min=1ms"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold" validate:"min=0"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold" validate:"min=0"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout" validate:"min=0"`

	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with sensible defaults for the
// specified venue: 10s timeout, 4 rate-limit retries 4s apart, 180 requests
// per minute, circuit breaker off.
func DefaultConfig(venue string) *Config {
	return &Config{
		Venue:   venue,
		Sandbox: false,
		Timeout: 10 * time.Second,

		RetryAttempts: 4,
		RetryDelay:    4 * time.Second,

		RateLimitRequests: 180,
		RateLimitPeriod:   time.Minute,

		LogLevel: "info",
	}
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithSandbox enables or disables sandbox mode and returns the config for chaining.
func (c *Config) WithSandbox(sandbox bool) *Config {
	c.Sandbox = sandbox
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRetry sets the rate-limit retry policy and returns the config for chaining.
func (c *Config) WithRetry(attempts int, delay time.Duration) *Config {
	c.RetryAttempts = attempts
	c.RetryDelay = delay
	return c
}

// WithRateLimit sets the client-side rate limit and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}
