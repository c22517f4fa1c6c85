// Package cmdutil provides shared utilities for blockpurge commands.
package cmdutil

import (
	"fmt"
	"io"
	"strings"

	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/marmos91/blockpurge/pkg/config"
	"github.com/marmos91/blockpurge/pkg/purge"
)

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	ConfigFile string
	Output     string
	NoColor    bool
	Verbose    bool
	Backend    string
	Drawing    string
}

// StateError is returned by commands whose run ended in a failing state
// (scan-failed, all-failed). Reported is set when the command already
// printed the state to the user.
type StateError struct {
	State    purge.State
	Reported bool
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s (%s)", e.State.Message(), e.State)
}

// ExitForState returns a *StateError when s should fail the process.
func ExitForState(s purge.State, reported bool) error {
	if !s.Failed() {
		return nil
	}
	return &StateError{State: s, Reported: reported}
}

// LoadConfig loads the configuration and applies flag overrides.
func (f *GlobalFlags) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := f.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *GlobalFlags) apply(cfg *config.Config) error {
	if f.Backend != "" {
		cfg.Session.Backend = strings.ToLower(f.Backend)
	}
	if f.Drawing != "" {
		cfg.Session.Snapshot.Path = f.Drawing
	}
	if f.Verbose {
		cfg.Logging.Level = "DEBUG"
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// Printer returns a printer for w honoring --output and --no-color.
func (f *GlobalFlags) Printer(w io.Writer) (*output.Printer, error) {
	format, err := output.ParseFormat(f.Output)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(w, format, !f.NoColor), nil
}

// PrintOutput prints data in the printer's format. In table format it prints
// emptyMsg when isEmpty is set, otherwise the table.
func PrintOutput(p *output.Printer, data any, isEmpty bool, emptyMsg string, table output.TableRenderer) error {
	if p.Structured() {
		return p.Print(data)
	}
	if isEmpty {
		p.Println(emptyMsg)
		return nil
	}
	return output.PrintTable(p.Writer(), table)
}

// EmptyOr returns the value if not empty, otherwise returns the fallback.
func EmptyOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
