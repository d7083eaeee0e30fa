// Package config loads the hub's own runtime configuration (YAML) and
// validates admin-supplied observation configuration documents (JSON,
// schema-checked)
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/databroker/datahub/internal/adapters/opcua"
)

// Config is the hub process's own startup configuration.
type Config struct {
	Metrics MetricsConfig `yaml:"metrics"`
	Backup  BackupConfig  `yaml:"backup"`
	Barrier BarrierConfig `yaml:"barrier"`
	OPCUA   *opcua.Config `yaml:"opcua,omitempty"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type BackupConfig struct {
	Dir                string `yaml:"dir"`
	PostgresConnString string `yaml:"postgres_conn_string"`
	PostgresTable      string `yaml:"postgres_table"`
}

type BarrierConfig struct {
	// BatchSize hints how many pending pushes a single update barrier is
	// expected to collect. It is loaded and defaulted here; the hub does
	// not read it.
	BatchSize int `yaml:"batch_size"`
}

// Load reads and validates the hub's YAML configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = "./data/backup"
	}
	if c.Backup.PostgresTable == "" {
		c.Backup.PostgresTable = "observation_backup"
	}
	if c.Barrier.BatchSize == 0 {
		c.Barrier.BatchSize = 256
	}
	if c.OPCUA != nil {
		c.OPCUA.ApplyDefaults()
	}
}

func (c *Config) validate() error {
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	if c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir is required")
	}
	if c.OPCUA != nil {
		if err := c.OPCUA.Validate(); err != nil {
			return fmt.Errorf("opcua config: %w", err)
		}
	}
	return nil
}
