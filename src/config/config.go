package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"price-movers/src/helpers"
	"price-movers/src/models"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override secrets in the YAML file.
const (
	EnvAlphaVantageKey = "ALPHAVANTAGE_API_KEY"
	EnvAlpacaKey       = "ALPACA_API_KEY"
	EnvAlpacaSecret    = "ALPACA_SECRET_KEY"
	EnvDatabaseDSN     = "PRICE_MOVERS_DB_DSN"
	EnvLogLevel        = "PRICE_MOVERS_LOG_LEVEL"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig loads a YAML file over the defaults, applies .env and
// environment overrides, then validates.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("failed to read config file '%s'", configPath), err)
	}

	loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env"), ".env")
	return Parse(data)
}

// -----------------------------------------------------------------------------

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() (*Config, error) {
	loadDotEnv(".env")
	return Parse(nil)
}

// -----------------------------------------------------------------------------

// Parse builds a validated config from YAML bytes (nil means defaults only).
func Parse(data []byte) (*Config, error) {
	var modelConfig models.MConfig
	if err := defaults.Set(&modelConfig); err != nil {
		return nil, helpers.NewConfigurationError("failed to apply defaults", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &modelConfig); err != nil {
			return nil, helpers.NewConfigurationError("failed to parse config from YAML", err)
		}
	}

	if len(modelConfig.DataSource.Sources) == 0 {
		modelConfig.DataSource.Sources = []models.MSourceConfig{{Name: "yahoo", Type: "yahoo"}}
	}

	config := &Config{MConfig: &modelConfig}
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// -----------------------------------------------------------------------------

// loadDotEnv loads the first .env file found. Existing variables win.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// ApplyEnv fills credentials that the YAML left empty from the environment.
func (c *Config) ApplyEnv() {
	for i := range c.DataSource.Sources {
		src := &c.DataSource.Sources[i]
		switch src.Type {
		case "alphavantage":
			if src.APIKey == "" {
				src.APIKey = os.Getenv(EnvAlphaVantageKey)
			}
		case "alpaca":
			if src.APIKey == "" {
				src.APIKey = os.Getenv(EnvAlpacaKey)
			}
			if src.APISecret == "" {
				src.APISecret = os.Getenv(EnvAlpacaSecret)
			}
		}
	}

	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" && c.Storage.DBConnectionString == "" {
		c.Storage.DBConnectionString = dsn
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
}

// -----------------------------------------------------------------------------

var validate = validator.New()

// Validate checks field constraints, then rules spanning several sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c.MConfig); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			first := vErrs[0]
			return helpers.NewConfigurationError(
				fmt.Sprintf("config validation failed: %s (rule %s, value %v)", first.Namespace(), first.Tag(), first.Value()), err)
		}
		return helpers.NewConfigurationError("config validation failed", err)
	}

	seen := make(map[string]struct{}, len(c.DataSource.Sources))
	for _, src := range c.DataSource.Sources {
		if _, dup := seen[src.Name]; dup {
			return helpers.NewConfigurationError(fmt.Sprintf("duplicate source name '%s'", src.Name), nil)
		}
		seen[src.Name] = struct{}{}

		if src.Type == "csv" && src.Path == "" {
			return helpers.NewConfigurationError(fmt.Sprintf("csv source '%s' needs a path", src.Name), nil)
		}
	}

	if slices.Contains(c.Output.Sinks, "postgres") && c.Storage.DBConnectionString == "" {
		return helpers.NewConfigurationError("postgres sink needs storage.db_connection_string or "+EnvDatabaseDSN, nil)
	}
	if slices.Contains(c.Output.Sinks, "sqlite") && c.Storage.DBPath == "" {
		return helpers.NewConfigurationError("sqlite sink needs storage.db_path", nil)
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
