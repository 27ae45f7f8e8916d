package httpclient

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config defines the traced HTTP client configuration.
type Config struct {
	// BaseURL is prepended to relative request URLs such as "/api/items".
	BaseURL string `yaml:"base_url" envconfig:"HTTP_CLIENT_BASE_URL"`

	// Timeout bounds a single request including reading the body. A request
	// that hits it fails through the regular error path, so its span is
	// still finalized.
	Timeout time.Duration `yaml:"timeout" envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`

	// RetryCount is the number of transport-level retries. 0 keeps one
	// Request equal to one network call.
	RetryCount   int           `yaml:"retry_count" envconfig:"HTTP_CLIENT_RETRY_COUNT" default:"0"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min" envconfig:"HTTP_CLIENT_RETRY_WAIT_MIN" default:"1s"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max" envconfig:"HTTP_CLIENT_RETRY_WAIT_MAX" default:"30s"`

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"HTTP_CLIENT_REQUESTS_PER_SECOND" default:"0"`
	Burst             int     `yaml:"burst" envconfig:"HTTP_CLIENT_BURST" default:"1"`

	UserAgent string `yaml:"user_agent" envconfig:"HTTP_CLIENT_USER_AGENT" default:"spantrace-http/1.0"`
}

// NewConfig loads the client configuration from the environment.
func NewConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("httpclient: load config: %w", err)
	}
	return cfg, nil
}
