package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Source    DBConfig     `mapstructure:"source"`
	Warehouse DBConfig     `mapstructure:"warehouse"`
	Ingest    IngestConfig `mapstructure:"ingest"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type IngestConfig struct {
	CustomersFile string `mapstructure:"customers_file"`
	ProductsFile  string `mapstructure:"products_file"`
	OrdersFile    string `mapstructure:"orders_file"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.retaildwh/")
	v.AddConfigPath("/etc/retaildwh/")

	// Enable environment variable override with RETAILDWH_ prefix
	v.SetEnvPrefix("RETAILDWH")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
