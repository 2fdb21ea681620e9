// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"cloudwright/internal/logging"
)

// Config is the main application configuration.
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog contains embedded pricing catalog configuration
	Catalog CatalogConfig `json:"catalog"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`

	// AWS contains AWS-specific configuration
	AWS AWSConfig `json:"aws,omitempty"`

	// Azure contains Azure-specific configuration
	Azure AzureConfig `json:"azure,omitempty"`

	// GCP contains GCP-specific configuration
	GCP GCPConfig `json:"gcp,omitempty"`
}

// CatalogConfig contains service-catalog settings.
type CatalogConfig struct {
	// DatabasePath is the path to the embedded SQLite catalog.
	DatabasePath string `json:"database_path" envconfig:"CLOUDWRIGHT_CATALOG_PATH"`

	// RefreshOnStart is loaded and saved with the configuration; no
	// command reads it, so startup never refreshes the catalog.
	RefreshOnStart bool `json:"refresh_on_start" envconfig:"CLOUDWRIGHT_CATALOG_REFRESH_ON_START"`

	// AdapterTimeoutSeconds is loaded and saved with the configuration;
	// the pricing adapters do not read it and use pricing.HTTPTimeout.
	AdapterTimeoutSeconds int `json:"adapter_timeout_seconds" envconfig:"CLOUDWRIGHT_ADAPTER_TIMEOUT_SECONDS"`
}

// OutputConfig contains output-related settings.
type OutputConfig struct {
	// DefaultFormat names an output format (yaml, json). No command
	// reads it.
	DefaultFormat string `json:"default_format" envconfig:"CLOUDWRIGHT_OUTPUT_FORMAT"`

	// ShowScore is loaded and saved with the configuration; no command
	// reads it.
	ShowScore bool `json:"show_score" envconfig:"CLOUDWRIGHT_OUTPUT_SHOW_SCORE"`
}

// AWSConfig contains AWS-specific settings.
type AWSConfig struct {
	DefaultRegion string `json:"default_region" envconfig:"CLOUDWRIGHT_AWS_REGION"`
}

// AzureConfig contains Azure-specific settings.
type AzureConfig struct {
	DefaultRegion string `json:"default_region" envconfig:"CLOUDWRIGHT_AZURE_REGION"`
}

// GCPConfig contains GCP-specific settings.
type GCPConfig struct {
	DefaultRegion string `json:"default_region" envconfig:"CLOUDWRIGHT_GCP_REGION"`

	// APIKey authenticates Cloud Billing Catalog API calls. Without it
	// the GCP adapter degrades to an empty pricing result rather than
	// erroring.
	APIKey string `json:"-" envconfig:"GCP_API_KEY"`
}

// Default returns a default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".cloudwright", "catalog.db")

	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			DatabasePath:          dbPath,
			RefreshOnStart:        false,
			AdapterTimeoutSeconds: 30,
		},
		Output: OutputConfig{
			DefaultFormat: "yaml",
			ShowScore:     true,
		},
		Logging: logging.DefaultConfig(),
		AWS:     AWSConfig{DefaultRegion: "us-east-1"},
		Azure:   AzureConfig{DefaultRegion: "eastus"},
		GCP:     GCPConfig{DefaultRegion: "us-central1"},
	}
}

// Load reads configuration from path, falling back to Default if the
// file doesn't exist, then applies CLOUDWRIGHT_*/GCP_API_KEY
// environment overrides on top.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := json.Unmarshal(data, config); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", config); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes configuration to path as indented JSON.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance.
var globalConfig = Default()

// Get returns the global configuration.
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration.
func Set(config *Config) {
	globalConfig = config
}
