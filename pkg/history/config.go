package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseType defines the supported database backends.
type DatabaseType string

const (
	// DatabaseTypeSQLite uses a local SQLite file (default).
	DatabaseTypeSQLite DatabaseType = "sqlite"

	// DatabaseTypePostgres uses PostgreSQL, for teams sharing one history.
	DatabaseTypePostgres DatabaseType = "postgres"
)

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the database file, or ":memory:".
	// Default: $XDG_STATE_HOME/blockpurge/history.db
	Path string `mapstructure:"path" json:"path" yaml:"path"`
}

// PostgresConfig contains PostgreSQL-specific configuration.
type PostgresConfig struct {
	Host         string `mapstructure:"host" json:"host" yaml:"host"`
	Port         int    `mapstructure:"port" json:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
	Database     string `mapstructure:"database" json:"database" yaml:"database"`
	User         string `mapstructure:"user" json:"user" yaml:"user"`
	Password     string `mapstructure:"password" json:"password,omitempty" yaml:"password,omitempty"`
	SSLMode      string `mapstructure:"sslmode" json:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full" yaml:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" json:"max_open_conns" yaml:"max_open_conns"`
}

// DSN returns the PostgreSQL connection string.
func (c *PostgresConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host, c.Port, c.User, c.Password, c.Database)
	if c.SSLMode != "" {
		dsn += fmt.Sprintf(" sslmode=%s", c.SSLMode)
	}
	return dsn
}

// Config contains run history configuration.
type Config struct {
	// Enabled turns recording on.
	// Default: true
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	Type     DatabaseType   `mapstructure:"type" json:"type" validate:"omitempty,oneof=sqlite postgres" yaml:"type"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite" json:"sqlite" yaml:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres" json:"postgres" yaml:"postgres"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = DatabaseTypeSQLite
	}

	if c.Type == DatabaseTypeSQLite && c.SQLite.Path == "" {
		c.SQLite.Path = DefaultSQLitePath()
	}

	if c.Type == DatabaseTypePostgres {
		if c.Postgres.Port == 0 {
			c.Postgres.Port = 5432
		}
		if c.Postgres.SSLMode == "" {
			c.Postgres.SSLMode = "disable"
		}
		if c.Postgres.MaxOpenConns == 0 {
			c.Postgres.MaxOpenConns = 4
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Type {
	case DatabaseTypeSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case DatabaseTypePostgres:
		if c.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required")
		}
		if c.Postgres.Database == "" {
			return fmt.Errorf("postgres database is required")
		}
		if c.Postgres.User == "" {
			return fmt.Errorf("postgres user is required")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Type)
	}
	return nil
}

// DefaultSQLitePath returns $XDG_STATE_HOME/blockpurge/history.db, falling
// back to ~/.local/state.
func DefaultSQLitePath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, _ := os.UserHomeDir()
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "blockpurge", "history.db")
}
