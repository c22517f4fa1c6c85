// Package acad connects to a running AutoCAD instance through COM automation.
//
// The session attaches to the application registered under Config.ProgID,
// works on its active document, and purges a definition by sending the
// native PURGE command line. Only Windows builds can reach AutoCAD; on every
// other platform Open returns a SessionUnavailable error.
package acad

import (
	"errors"
	"strings"
)

const (
	// DefaultProgID is the COM class AutoCAD registers itself under.
	DefaultProgID = "AutoCAD.Application"

	// DefaultPurgeCommand purges one named block without prompting for
	// nested items and confirms the deletion.
	DefaultPurgeCommand = "._PURGE\nB\n{name}\nN\nY\n"

	// NamePlaceholder is replaced with the block name in PurgeCommand.
	NamePlaceholder = "{name}"
)

var errUnsupportedPlatform = errors.New("AutoCAD automation requires Windows")

// Config configures the AutoCAD session.
type Config struct {
	// ProgID is the COM class to attach to.
	// Default: "AutoCAD.Application"
	ProgID string `mapstructure:"prog_id" json:"prog_id" yaml:"prog_id"`

	// PurgeCommand is the command line sent to purge one block. Every
	// occurrence of {name} is replaced with the block name.
	// Default: "._PURGE\nB\n{name}\nN\nY\n"
	PurgeCommand string `mapstructure:"purge_command" json:"purge_command" validate:"omitempty,contains={name}" yaml:"purge_command"`

	// Launch starts a new application instance when none is running.
	// Default: false
	Launch bool `mapstructure:"launch" json:"launch" yaml:"launch"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.ProgID == "" {
		c.ProgID = DefaultProgID
	}
	if c.PurgeCommand == "" {
		c.PurgeCommand = DefaultPurgeCommand
	}
}

// Command returns the purge command line for name.
func (c Config) Command(name string) string {
	cmd := c.PurgeCommand
	if cmd == "" {
		cmd = DefaultPurgeCommand
	}
	return strings.ReplaceAll(cmd, NamePlaceholder, name)
}
