// Package commands implements the blockpurge CLI.
package commands

import (
	"context"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	configcmd "github.com/marmos91/blockpurge/cmd/blockpurge/commands/config"
	historycmd "github.com/marmos91/blockpurge/cmd/blockpurge/commands/history"
	"github.com/marmos91/blockpurge/pkg/config"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Execute builds the command tree and runs it with ctx, which is cancelled
// on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd returns a fresh command tree. Every call has its own flag
// state, so tests can run commands repeatedly.
func NewRootCmd() *cobra.Command {
	flags := &cmdutil.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "blockpurge",
		Short: "Find and purge unused block definitions in CAD drawings",
		Long: `blockpurge lists the block definitions of a drawing, finds the ones no
model-space entity references, and deletes them one at a time, verifying each
deletion and reporting per-block outcomes.

The drawing comes from a backend: "snapshot" reads a YAML/JSON export of the
drawing, "autocad" drives a running AutoCAD instance (Windows only).

Use "blockpurge [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "config file (default: "+config.GetDefaultConfigPath()+")")
	pf.StringVarP(&flags.Output, "output", "o", "table", "Output format (table|json|yaml)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flags.Backend, "backend", "", "Drawing backend (snapshot|autocad), overrides session.backend")
	pf.StringVarP(&flags.Drawing, "drawing", "d", "", "Drawing export for the snapshot backend, overrides session.snapshot.path")

	rootCmd.AddCommand(newBlocksCmd(flags))
	rootCmd.AddCommand(newScanCmd(flags))
	rootCmd.AddCommand(newPurgeCmd(flags))
	rootCmd.AddCommand(historycmd.NewCmd(flags))
	rootCmd.AddCommand(configcmd.NewCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}
