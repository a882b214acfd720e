package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	PostgREST PostgRESTConfig `yaml:"postgrest"`
	Database  DatabaseConfig  `yaml:"database"`
	UI        UIConfig        `yaml:"ui"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
	App       AppConfig       `yaml:"app"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PostgRESTConfig holds the upstream PostgREST API configuration
type PostgRESTConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	JobsView       string        `yaml:"jobs_view"`
	AvailableViews []string      `yaml:"available_views"`
	DetailTimeout  time.Duration `yaml:"detail_timeout"`
}

// DatabaseConfig holds the direct PostgreSQL connection used by the
// discovery tool. The board service itself never opens a SQL connection.
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// UIConfig holds the board tunables: display caps, debounce, thresholds
// and batch sizes. These are inputs to the core logic, not part of its
// contract.
type UIConfig struct {
	MaxVisibleJobs        int           `yaml:"max_visible_jobs"`
	SearchDebounce        time.Duration `yaml:"search_debounce"`
	LargeDatasetThreshold int           `yaml:"large_dataset_threshold"`
	ExportBatchSize       int           `yaml:"export_batch_size"`
	MaxExportSize         int           `yaml:"max_export_size"`
}

// SessionConfig holds best-effort session snapshot settings
type SessionConfig struct {
	Path             string        `yaml:"path"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
	MaxAge           time.Duration `yaml:"max_age"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"`
	Output           string `yaml:"output"`
	EnableCaller     bool   `yaml:"enable_caller"`
	EnableStackTrace bool   `yaml:"enable_stack_trace"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// ValidateBoardConfig checks the configuration the board service needs
func (c *Config) ValidateBoardConfig() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.PostgREST.BaseURL == "" {
		return fmt.Errorf("postgrest base_url is required")
	}

	if c.PostgREST.JobsView == "" {
		return fmt.Errorf("postgrest jobs_view is required")
	}

	if c.UI.MaxVisibleJobs <= 0 {
		return fmt.Errorf("ui max_visible_jobs must be greater than 0")
	}

	if c.UI.LargeDatasetThreshold <= 0 {
		return fmt.Errorf("ui large_dataset_threshold must be greater than 0")
	}

	if c.UI.ExportBatchSize <= 0 {
		return fmt.Errorf("ui export_batch_size must be greater than 0")
	}

	if c.UI.SearchDebounce < 0 {
		return fmt.Errorf("ui search_debounce must not be negative")
	}

	return nil
}

// ValidateDiscoveryConfig checks the configuration the discovery tool needs
func (c *Config) ValidateDiscoveryConfig() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < MinPort || c.Database.Port > MaxPort {
		return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.PostgREST.BaseURL == "" {
		return fmt.Errorf("postgrest base_url is required")
	}

	return nil
}
