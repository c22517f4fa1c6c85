package acad

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, DefaultProgID, cfg.ProgID)
	assert.Equal(t, DefaultPurgeCommand, cfg.PurgeCommand)

	cfg = Config{ProgID: "AutoCAD.Application.24", PurgeCommand: "-PURGE B {name} N\n"}
	cfg.ApplyDefaults()
	assert.Equal(t, "AutoCAD.Application.24", cfg.ProgID)
	assert.Equal(t, "-PURGE B {name} N\n", cfg.PurgeCommand)
}

func TestConfig_Command(t *testing.T) {
	tests := []struct {
		name    string
		command string
		block   string
		want    string
	}{
		{"Default", "", "OLD_LOGO", "._PURGE\nB\nOLD_LOGO\nN\nY\n"},
		{"Custom", "-PURGE B {name} N ", "DOOR", "-PURGE B DOOR N "},
		{"RepeatedPlaceholder", "{name}|{name}", "X", "X|X"},
		{"NameWithSpaces", "", "TITLE BLOCK A1", "._PURGE\nB\nTITLE BLOCK A1\nN\nY\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{PurgeCommand: tt.command}
			assert.Equal(t, tt.want, cfg.Command(tt.block))
		})
	}
}

func TestOpen_UnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("COM automation is available on Windows")
	}

	s, err := Open(t.Context(), Config{})
	require.Error(t, err)
	assert.Nil(t, s)
	assert.True(t, drawingerrors.IsSessionUnavailable(err))
}
