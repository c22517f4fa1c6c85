package config

import (
	"path/filepath"
	"testing"

	"github.com/marmos91/blockpurge/pkg/drawing/acad"
	"github.com/marmos91/blockpurge/pkg/history"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Session(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Session.Backend != "snapshot" {
		t.Errorf("Expected default backend 'snapshot', got %q", cfg.Session.Backend)
	}
	if cfg.Session.AutoCAD.ProgID != acad.DefaultProgID {
		t.Errorf("Expected default ProgID %q, got %q", acad.DefaultProgID, cfg.Session.AutoCAD.ProgID)
	}
	if cfg.Session.AutoCAD.PurgeCommand != acad.DefaultPurgeCommand {
		t.Errorf("Expected default purge command, got %q", cfg.Session.AutoCAD.PurgeCommand)
	}
}

func TestApplyDefaults_History(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.History.Type != history.DatabaseTypeSQLite {
		t.Errorf("Expected default history type sqlite, got %q", cfg.History.Type)
	}
	if filepath.Base(cfg.History.SQLite.Path) != "history.db" {
		t.Errorf("Expected history.db default path, got %q", cfg.History.SQLite.Path)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "json",
			Output: "/var/log/blockpurge.log",
		},
		Telemetry: TelemetryConfig{
			Endpoint:   "collector:4317",
			SampleRate: 0.25,
		},
		Session: SessionConfig{
			Backend: "autocad",
			AutoCAD: acad.Config{ProgID: "AutoCAD.Application.24"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/blockpurge.log" {
		t.Errorf("Expected explicit output preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Telemetry.Endpoint != "collector:4317" || cfg.Telemetry.SampleRate != 0.25 {
		t.Errorf("Expected explicit telemetry preserved, got %+v", cfg.Telemetry)
	}
	if cfg.Session.Backend != "autocad" {
		t.Errorf("Expected explicit backend preserved, got %q", cfg.Session.Backend)
	}
	if cfg.Session.AutoCAD.ProgID != "AutoCAD.Application.24" {
		t.Errorf("Expected explicit ProgID preserved, got %q", cfg.Session.AutoCAD.ProgID)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("Default config should be valid, got: %v", err)
	}
}

func TestGetDefaultConfig_TrueBooleans(t *testing.T) {
	cfg := GetDefaultConfig()

	if !cfg.Purge.Confirm {
		t.Error("Expected purge.confirm to default to true")
	}
	if !cfg.History.Enabled {
		t.Error("Expected history.enabled to default to true")
	}
	if !cfg.Session.Snapshot.WriteBack {
		t.Error("Expected session.snapshot.write_back to default to true")
	}
	if !cfg.Telemetry.Insecure {
		t.Error("Expected telemetry.insecure to default to true")
	}
	if cfg.Telemetry.Enabled || cfg.Metrics.Enabled {
		t.Error("Expected telemetry and metrics to be opt-in")
	}
}
