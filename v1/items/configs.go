package items

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends selectable with ITEMS_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// ClientConfig configures the search client.
type ClientConfig struct {
	// Path of the items endpoint, relative to the HTTP client's base URL.
	Path string `yaml:"path" envconfig:"ITEMS_PATH" default:"/api/items"`

	// LuckyTerm is the term searched by Lucky.
	LuckyTerm string `yaml:"lucky_term" envconfig:"ITEMS_LUCKY_TERM" default:"bicycle"`
}

// ServerConfig configures the items service.
type ServerConfig struct {
	Address           string        `yaml:"address" envconfig:"ITEMS_SERVER_ADDRESS" default:":8000"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" envconfig:"ITEMS_SERVER_READ_HEADER_TIMEOUT" default:"10s"`
	GinMode           string        `yaml:"gin_mode" envconfig:"GIN_MODE" default:"release"`
	Store             string        `yaml:"store" envconfig:"ITEMS_STORE" default:"memory"`
	Postgres          PostgresConfig
}

// PostgresConfig configures PostgresStore.
type PostgresConfig struct {
	Host            string        `yaml:"host" envconfig:"ITEMS_POSTGRES_HOST" default:"localhost"`
	Port            string        `yaml:"port" envconfig:"ITEMS_POSTGRES_PORT" default:"5432"`
	User            string        `yaml:"user" envconfig:"ITEMS_POSTGRES_USER" default:"postgres"`
	Password        string        `yaml:"password" envconfig:"ITEMS_POSTGRES_PASSWORD"`
	DbName          string        `yaml:"db_name" envconfig:"ITEMS_POSTGRES_DB" default:"items"`
	SSLMode         string        `yaml:"ssl_mode" envconfig:"ITEMS_POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"ITEMS_POSTGRES_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"ITEMS_POSTGRES_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"ITEMS_POSTGRES_CONN_MAX_LIFETIME" default:"30m"`
	Seed            bool          `yaml:"seed" envconfig:"ITEMS_POSTGRES_SEED" default:"true"`
}

// NewClientConfig loads the search client configuration from the environment.
func NewClientConfig() (ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("items: load client config: %w", err)
	}
	return cfg, nil
}

// NewServerConfig loads the items service configuration from the environment.
func NewServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("items: load server config: %w", err)
	}
	return cfg, nil
}
