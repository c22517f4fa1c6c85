package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Session.Backend = "dxf"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unknown backend")
	}
	if !strings.Contains(err.Error(), "Backend") {
		t.Errorf("Expected error naming Backend, got: %v", err)
	}
}

func TestValidate_PurgeCommandNeedsPlaceholder(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Session.AutoCAD.PurgeCommand = "._PURGE\nA\n*\nN\n"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for purge command without {name}")
	}
	if !strings.Contains(err.Error(), "contains") {
		t.Errorf("Expected 'contains' validation error, got: %v", err)
	}
}

func TestValidate_PushURL(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Metrics.PushURL = "not a url"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for malformed push URL")
	}

	cfg.Metrics.PushURL = "http://pushgateway:9091"
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid push URL to pass, got: %v", err)
	}
}

func TestValidate_TelemetryEnabledWithoutEndpoint(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for telemetry enabled without endpoint")
	}
	if !strings.Contains(err.Error(), "Endpoint") {
		t.Errorf("Expected error about telemetry endpoint, got: %v", err)
	}
}

func TestValidate_TelemetrySampleRate(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.SampleRate = 1.5

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for sample rate out of range")
	}
}

func TestValidate_History(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.History.Type = "postgres"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for postgres history without host")
	}
	if !strings.Contains(err.Error(), "history") {
		t.Errorf("Expected error about history, got: %v", err)
	}

	cfg.History.Enabled = false
	if err := Validate(cfg); err != nil {
		t.Errorf("Disabled history should not be validated, got: %v", err)
	}
}

func TestValidate_LogLevelNormalization(t *testing.T) {
	for _, level := range []string{"info", "INFO", "debug", "DEBUG", "warn", "WARN", "error", "ERROR"} {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = level

		if err := Validate(cfg); err != nil {
			t.Errorf("Validation failed for level %q: %v", level, err)
		}
		if cfg.Logging.Level != level {
			t.Errorf("Expected level to remain %q after validation, got %q", level, cfg.Logging.Level)
		}
	}

	cfg := &Config{Logging: LoggingConfig{Level: "info"}}
	ApplyDefaults(cfg)
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected ApplyDefaults to normalize 'info' to 'INFO', got %q", cfg.Logging.Level)
	}
}
