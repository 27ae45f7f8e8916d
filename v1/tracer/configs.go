package tracer

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config defines the tracer configuration.
type Config struct {
	// ServiceName is exported as the service.name resource attribute
	// (the dataset name in Honeycomb).
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME" default:"spantrace"`

	// AppEnv is exported as deployment.environment and environment.
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV" default:"development"`

	// EnableExport turns on the OTLP/HTTP batch exporter. When false spans are
	// still created and propagated but never leave the process.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT" default:"false"`

	// ExportEndpoint is the full OTLP/HTTP traces URL, e.g.
	// https://api.honeycomb.io/v1/traces. Empty means the standard
	// OTEL_EXPORTER_OTLP_* variables decide.
	ExportEndpoint string `yaml:"export_endpoint" envconfig:"TRACER_EXPORT_ENDPOINT"`

	// ExportHeaders are sent with every export request, e.g.
	// x-honeycomb-team:<api key>.
	ExportHeaders map[string]string `yaml:"export_headers" envconfig:"TRACER_EXPORT_HEADERS"`
}

// NewConfig loads the tracer configuration from the environment.
func NewConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("tracer: load config: %w", err)
	}
	return cfg, nil
}
