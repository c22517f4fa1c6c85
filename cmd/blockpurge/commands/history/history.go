// Package history implements the run history commands.
package history

import (
	"errors"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/pkg/history"
	"github.com/spf13/cobra"
)

// NewCmd returns the parent command for run history.
func NewCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past purge runs",
		Long: `Inspect the runs recorded in the local history database.

Every scan and purge is recorded, purges with their per-block outcomes,
unless history.enabled is false.

Examples:
  # Latest runs
  blockpurge history list

  # One run, by ID or unique ID prefix
  blockpurge history show 3f2a9c`,
	}

	cmd.AddCommand(newListCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	return cmd
}

// openStore opens the configured history store.
func openStore(flags *cmdutil.GlobalFlags) (*history.Store, error) {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, errors.New("run history is disabled (history.enabled=false)")
	}
	return history.New(&cfg.History)
}
