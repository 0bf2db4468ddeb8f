package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnsupportedDatabase = errors.New("unsupported database type")

type DatabaseConfig struct {
	Type        string   `yaml:"type"`
	Driver      string   `yaml:"driver"`
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	Database    string   `yaml:"database"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	SSLMode     string   `yaml:"sslmode"`
	URI         string   `yaml:"uri,omitempty"`
	Schemas     []string `yaml:"schemas,omitempty"`
	MultiSchema *bool    `yaml:"multi_schema,omitempty"`
}

type ExportConfig struct {
	Directory  string `yaml:"directory,omitempty"`
	FileName   string `yaml:"file_name,omitempty"`
	Style      string `yaml:"style,omitempty"`
	SystemName string `yaml:"system_name,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Export   ExportConfig   `yaml:"export,omitempty"`
	Logging  LogConfig      `yaml:"logging,omitempty"`
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills the fields a profile may omit.
func (c *Config) ApplyDefaults() {
	c.Database.Type = normalizeDatabaseType(c.Database.Type)
	c.Database.Driver = normalizeDriver(c.Database.Driver)

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MultiSchema == nil {
		multi := true
		c.Database.MultiSchema = &multi
	}
	if strings.TrimSpace(c.Export.Style) == "" {
		c.Export.Style = "simple"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Database.Type != "postgres" {
		return fmt.Errorf("%w: %s", ErrUnsupportedDatabase, c.Database.Type)
	}
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("unsupported driver: %s", c.Database.Driver)
	}
	return nil
}

// SupportsMultiSchema reports whether index lookups must be scoped by schema.
func (c *Config) SupportsMultiSchema() bool {
	return c.Database.MultiSchema == nil || *c.Database.MultiSchema
}

func (c *Config) GetConnectionString() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func normalizeDatabaseType(dbType string) string {
	dbType = strings.ToLower(strings.TrimSpace(dbType))
	switch dbType {
	case "", "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return dbType
	}
}

func normalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case "", "postgres", "pq", "lib/pq":
		return "postgres"
	case "pgx", "pgx/v5":
		return "pgx"
	default:
		return driver
	}
}
