package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/marmos91/blockpurge/pkg/drawing/acad"
	"github.com/marmos91/blockpurge/pkg/history"
	"github.com/marmos91/blockpurge/pkg/metrics"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override (BLOCKPURGE_LOGGING_LEVEL).
const EnvPrefix = "BLOCKPURGE"

// Config represents the blockpurge configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (BLOCKPURGE_*), including a .env file in the
//     working directory
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" json:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry" yaml:"telemetry"`

	// Metrics controls Prometheus metric collection and export at exit
	Metrics metrics.Config `mapstructure:"metrics" json:"metrics" yaml:"metrics"`

	// History configures the run history database
	History history.Config `mapstructure:"history" json:"history" yaml:"history"`

	// Session selects and configures the drawing backend
	Session SessionConfig `mapstructure:"session" json:"session" yaml:"session"`

	// Scan controls the scan command
	Scan ScanConfig `mapstructure:"scan" json:"scan" yaml:"scan"`

	// Purge controls the interactive purge workflow
	Purge PurgeConfig `mapstructure:"purge" json:"purge" yaml:"purge"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" json:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" json:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" json:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is enabled
	// Default: false
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port)
	// Default: "localhost:4317"
	Endpoint string `mapstructure:"endpoint" json:"endpoint" validate:"required_if=Enabled true" yaml:"endpoint"`

	// Insecure disables TLS to the collector
	// Default: true
	Insecure bool `mapstructure:"insecure" json:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0)
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
}

// SessionConfig selects the drawing backend.
type SessionConfig struct {
	// Backend is "snapshot" (a YAML/JSON drawing export) or "autocad"
	// (a running AutoCAD instance, Windows only).
	// Default: "snapshot"
	Backend string `mapstructure:"backend" json:"backend" validate:"required,oneof=snapshot autocad" yaml:"backend"`

	// Snapshot configures the snapshot backend
	Snapshot SnapshotConfig `mapstructure:"snapshot" json:"snapshot" yaml:"snapshot"`

	// AutoCAD configures the COM automation backend
	AutoCAD acad.Config `mapstructure:"autocad" json:"autocad" yaml:"autocad"`
}

// SnapshotConfig configures the snapshot backend.
type SnapshotConfig struct {
	// Path is the drawing export to open. Overridden by --drawing.
	Path string `mapstructure:"path" json:"path" yaml:"path"`

	// WriteBack saves the post-purge drawing over Path.
	// Default: true
	WriteBack bool `mapstructure:"write_back" json:"write_back" yaml:"write_back"`
}

// ScanConfig controls the scan command.
type ScanConfig struct {
	// WatchDebounce is how long scan --watch waits for the snapshot file to
	// settle before re-analyzing. Accepts Go durations ("250ms", "2s").
	// Default: 500ms
	WatchDebounce time.Duration `mapstructure:"watch_debounce" json:"watch_debounce" validate:"gte=0s" yaml:"watch_debounce"`
}

// PurgeConfig controls the purge command.
type PurgeConfig struct {
	// Confirm asks before deleting. --force skips the prompt.
	// Default: true
	Confirm bool `mapstructure:"confirm" json:"confirm" yaml:"confirm"`
}

// Load loads configuration from file, environment, and defaults.
//
// A missing configuration file is not an error: defaults and environment
// overrides still apply.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setupViper(v, configPath)
	setDefaults(v)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to path as YAML with mode 0600, since
// database passwords may live in it.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// loadDotEnv exports the variables of a .env file that are not already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: BLOCKPURGE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// setDefaults registers every key with viper. AutomaticEnv only resolves
// keys viper already knows, so a key missing here cannot be set from the
// environment alone.
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)

	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("telemetry.sample_rate", d.Telemetry.SampleRate)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
	v.SetDefault("metrics.push_url", d.Metrics.PushURL)
	v.SetDefault("metrics.job", d.Metrics.Job)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.type", d.History.Type)
	v.SetDefault("history.sqlite.path", d.History.SQLite.Path)
	v.SetDefault("history.postgres.host", "")
	v.SetDefault("history.postgres.port", 0)
	v.SetDefault("history.postgres.database", "")
	v.SetDefault("history.postgres.user", "")
	v.SetDefault("history.postgres.password", "")
	v.SetDefault("history.postgres.sslmode", "")
	v.SetDefault("history.postgres.max_open_conns", 0)

	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.snapshot.path", d.Session.Snapshot.Path)
	v.SetDefault("session.snapshot.write_back", d.Session.Snapshot.WriteBack)
	v.SetDefault("session.autocad.prog_id", d.Session.AutoCAD.ProgID)
	v.SetDefault("session.autocad.purge_command", d.Session.AutoCAD.PurgeCommand)
	v.SetDefault("session.autocad.launch", d.Session.AutoCAD.Launch)

	v.SetDefault("scan.watch_debounce", d.Scan.WatchDebounce)

	v.SetDefault("purge.confirm", d.Purge.Confirm)
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook returns a mapstructure decode hook that converts strings
// to time.Duration ("30s", "5m", "1h").
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns $XDG_CONFIG_HOME/blockpurge, ~/.config/blockpurge, or
// "." when no home directory is available.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "blockpurge")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "blockpurge")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}
