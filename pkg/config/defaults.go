package config

import (
	"strings"

	"github.com/marmos91/blockpurge/pkg/drawing/backend"
	"github.com/marmos91/blockpurge/pkg/drawing/snapshot"
	"github.com/marmos91/blockpurge/pkg/history"
	"github.com/marmos91/blockpurge/pkg/metrics"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
// Zero values are replaced; explicit values are preserved. Booleans whose
// default is true are seeded through viper instead (see setDefaults).
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	cfg.History.ApplyDefaults()
	applySessionDefaults(&cfg.Session)
	applyScanDefaults(&cfg.Scan)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	// stdout carries tables and JSON reports
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
}

func applyMetricsDefaults(cfg *metrics.Config) {
	if cfg.Job == "" {
		cfg.Job = "blockpurge"
	}
}

func applySessionDefaults(cfg *SessionConfig) {
	if cfg.Backend == "" {
		cfg.Backend = backend.Snapshot
	}
	cfg.AutoCAD.ApplyDefaults()
}

func applyScanDefaults(cfg *ScanConfig) {
	if cfg.WatchDebounce == 0 {
		cfg.WatchDebounce = snapshot.DefaultDebounce
	}
}

// GetDefaultConfig returns a Config with all default values applied.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
		History: history.Config{
			Enabled: true,
			Type:    history.DatabaseTypeSQLite,
		},
		Session: SessionConfig{
			Snapshot: SnapshotConfig{WriteBack: true},
		},
		Purge: PurgeConfig{
			Confirm: true,
		},
	}

	ApplyDefaults(cfg)
	return cfg
}
