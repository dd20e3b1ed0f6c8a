package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the optional YAML file read before the environment.
const ConfigPathEnv = "TOKENGATE_CONFIG"

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Ledger drivers. With LedgerNone the admin process can only read status and
// flip the pause switch. LedgerMemory keeps balances for the life of the
// process only.
const (
	LedgerNone   = "none"
	LedgerMemory = "memory"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName        string        `yaml:"service_name" env:"SERVICE_NAME"`
	StoreDriver        string        `yaml:"store_driver" env:"STORE_DRIVER"`
	PostgresDSN        string        `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	SQLitePath         string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
	LedgerDriver       string        `yaml:"ledger_driver" env:"LEDGER_DRIVER"`
	KafkaBrokers       []string      `yaml:"kafka_brokers" env:"KAFKA_BROKERS" envSeparator:","`
	OutboxBatchSize    int           `yaml:"outbox_batch_size" env:"OUTBOX_BATCH_SIZE"`
	OutboxPollInterval time.Duration `yaml:"outbox_poll_interval" env:"OUTBOX_POLL_INTERVAL"`
	OTelEnabled        bool          `yaml:"otel_enabled" env:"OTEL_ENABLED"`
	OTelEndpoint       string        `yaml:"otel_endpoint" env:"OTEL_ENDPOINT"`
	MetricsNamespace   string        `yaml:"metrics_namespace" env:"METRICS_NAMESPACE"`
}

func Default() Config {
	return Config{
		ServiceName:        "tokengate",
		StoreDriver:        StoreMemory,
		LedgerDriver:       LedgerNone,
		KafkaBrokers:       []string{"localhost:9092"},
		OutboxBatchSize:    100,
		OutboxPollInterval: 5 * time.Second,
		MetricsNamespace:   "tokengate",
	}
}

// Load starts from Default, applies the YAML file named by TOKENGATE_CONFIG
// when set, then applies environment variables.
func Load() (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(ConfigPathEnv)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) normalize() {
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	if c.StoreDriver == "" {
		c.StoreDriver = StoreMemory
	}
	c.LedgerDriver = strings.ToLower(strings.TrimSpace(c.LedgerDriver))
	if c.LedgerDriver == "" {
		c.LedgerDriver = LedgerNone
	}
	var brokers []string
	for _, value := range c.KafkaBrokers {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	c.KafkaBrokers = brokers
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	switch c.LedgerDriver {
	case LedgerNone, LedgerMemory:
	default:
		return fmt.Errorf("unsupported ledger driver %q", c.LedgerDriver)
	}
	if c.OutboxBatchSize <= 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	if c.OutboxPollInterval <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.OTelEnabled && strings.TrimSpace(c.OTelEndpoint) == "" {
		return errors.New("OTEL_ENDPOINT is required when tracing is enabled")
	}
	return nil
}
