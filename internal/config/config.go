package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"

	"github.com/andy/oficina/internal/domain"
)

// PathEnv overrides the default config location
const PathEnv = "OFICINA_CONFIG"

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Remote identity service; empty base_url means the local account table
	Identity IdentityConfig `yaml:"identity"`

	// Discount policy applied to every budget
	Budget BudgetConfig `yaml:"budget"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type IdentityConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

type BudgetConfig struct {
	DiscountThreshold float64 `yaml:"discount_threshold"` // Subtotal from which the discount applies
	DiscountRate      float64 `yaml:"discount_rate"`      // Rate as decimal (0.05 = 5%)
}

type LogConfig struct {
	Level string `yaml:"level"` // loggo spec, e.g. "<root>=INFO;oficina.identity=DEBUG"
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // Prometheus textfile written on exit; empty disables it
}

// DefaultConfigPath returns $OFICINA_CONFIG or ~/.config/oficina/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "oficina", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "oficina", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, ".config", "oficina", "oficina.db"),
		},
		Identity: IdentityConfig{
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    5 * time.Second,
		},
		Log: LogConfig{
			Level: "<root>=WARNING",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Annotatef(err, "parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate returns an error if a setting is out of range
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.NewNotValid(nil, "database.path is required")
	}
	if c.Budget.DiscountRate < 0 || c.Budget.DiscountRate > 1 {
		return errors.NotValidf("budget.discount_rate %v", c.Budget.DiscountRate)
	}
	if c.Budget.DiscountThreshold < 0 {
		return errors.NotValidf("budget.discount_threshold %v", c.Budget.DiscountThreshold)
	}
	if c.Identity.ConnectTimeout <= 0 {
		return errors.NotValidf("identity.connect_timeout %v", c.Identity.ConnectTimeout)
	}
	if c.Identity.ReadTimeout <= 0 {
		return errors.NotValidf("identity.read_timeout %v", c.Identity.ReadTimeout)
	}
	return nil
}

// Policy builds the discount policy described by the budget settings
func (b BudgetConfig) Policy() domain.DiscountPolicy {
	if b.DiscountRate == 0 {
		return domain.NoDiscount
	}
	return domain.ThresholdDiscount(b.DiscountThreshold, b.DiscountRate)
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the directories for the database and the metrics textfile
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(filepath.Dir(c.Database.Path), 0755); err != nil {
		return err
	}

	if c.Metrics.Textfile != "" {
		if err := os.MkdirAll(filepath.Dir(c.Metrics.Textfile), 0755); err != nil {
			return err
		}
	}

	return nil
}
