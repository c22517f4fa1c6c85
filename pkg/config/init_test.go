package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInitConfig_Success(t *testing.T) {
	// XDG_CONFIG_HOME rather than HOME: os.UserHomeDir reads USERPROFILE on Windows.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath, err := InitConfig(false)
	if err != nil {
		t.Fatalf("InitConfig failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	for _, section := range []string{
		"# blockpurge configuration file",
		"logging:",
		"telemetry:",
		"metrics:",
		"history:",
		"session:",
		"purge:",
	} {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing section: %s", section)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("Generated config is not valid YAML: %v", err)
	}
}

func TestInitConfig_AlreadyExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := InitConfig(false); err != nil {
		t.Fatalf("First InitConfig failed: %v", err)
	}

	_, err := InitConfig(false)
	if err == nil {
		t.Fatal("Expected error when config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if _, err := InitConfig(true); err != nil {
		t.Fatalf("InitConfig with force failed: %v", err)
	}
}

func TestInitConfigToPath_Permissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom", "config.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Config file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("Config file is empty")
	}
	// Windows does not honor POSIX permission bits.
	if perm := info.Mode().Perm(); runtime.GOOS != "windows" && perm != 0600 {
		t.Errorf("Expected mode 0600, got %o", perm)
	}
}

func TestGeneratedConfigIsLoadable(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	if err := InitConfigToPath(configPath, false); err != nil {
		t.Fatalf("InitConfigToPath failed: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected INFO log level in generated config, got %q", cfg.Logging.Level)
	}
	if cfg.Session.Backend != "snapshot" {
		t.Errorf("Expected snapshot backend in generated config, got %q", cfg.Session.Backend)
	}
	if !cfg.Purge.Confirm {
		t.Error("Expected purge.confirm true in generated config")
	}
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON failed: %v", err)
	}

	for _, key := range []string{`"session"`, `"purge_command"`, `"write_back"`, `"sqlite"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Schema missing property %s", key)
		}
	}
}
