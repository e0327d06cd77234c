package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/netops-tools/subnet-inventory/internal/netcalc"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Inventory InventoryConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
}

// StoreConfig holds record store configuration.
// Driver "file" persists to a flat file at DSN; "sqlite3" and "postgres"
// use the SQL store, with DSN interpreted by the respective driver.
type StoreConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/inventory.db"`
}

// InventoryConfig holds inventory rule configuration.
type InventoryConfig struct {
	// ReservedRanges is a comma-separated list of CIDR blocks that can
	// never be added to the inventory.
	ReservedRanges string `env:"RESERVED_RANGES" envDefault:"192.168.14.128/25"`
}

// AuthConfig holds API authentication configuration.
type AuthConfig struct {
	BootstrapAPIKey string `env:"BOOTSTRAP_API_KEY"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Store); err != nil {
		return nil, fmt.Errorf("parsing store config: %w", err)
	}
	if err := env.Parse(&cfg.Inventory); err != nil {
		return nil, fmt.Errorf("parsing inventory config: %w", err)
	}
	if err := env.Parse(&cfg.Auth); err != nil {
		return nil, fmt.Errorf("parsing auth config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReservedNetworks parses the configured reserved ranges.
func (c *InventoryConfig) ReservedNetworks() ([]netcalc.Network, error) {
	var networks []netcalc.Network
	for _, part := range strings.Split(c.ReservedRanges, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		network, err := netcalc.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("reserved range %q: %w", part, err)
		}
		networks = append(networks, network)
	}
	return networks, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "file", "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be file, sqlite3, or postgres, got %q", c.Store.Driver)
	}

	if c.Store.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if _, err := c.Inventory.ReservedNetworks(); err != nil {
		return err
	}

	return nil
}
