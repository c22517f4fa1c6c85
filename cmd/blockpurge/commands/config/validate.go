package config

import (
	"fmt"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/pkg/config"
	"github.com/marmos91/blockpurge/pkg/drawing/backend"
	"github.com/spf13/cobra"
)

func newValidateCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the blockpurge configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  blockpurge config validate

  # Validate specific config file
  blockpurge config validate --config ./blockpurge.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.LoadConfig()
			if err != nil {
				return err
			}

			displayPath := cmdutil.EmptyOr(flags.ConfigFile, config.GetDefaultConfigPath())

			var warnings []string
			if cfg.Session.Backend == backend.Snapshot && cfg.Session.Snapshot.Path == "" {
				warnings = append(warnings, "session.snapshot.path not set - pass --drawing on every run")
			}
			if !cfg.Purge.Confirm {
				warnings = append(warnings, "purge.confirm is false - purges run without a prompt")
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
			_, _ = fmt.Fprintln(out, "Validation: OK")

			if len(warnings) > 0 {
				_, _ = fmt.Fprintln(out, "\nWarnings:")
				for _, w := range warnings {
					_, _ = fmt.Fprintf(out, "  - %s\n", w)
				}
			}

			_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
			_, _ = fmt.Fprintf(out, "  Backend:         %s\n", cfg.Session.Backend)
			_, _ = fmt.Fprintf(out, "  History:         %s\n", historySummary(cfg))
			_, _ = fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func historySummary(cfg *config.Config) string {
	if !cfg.History.Enabled {
		return "disabled"
	}
	return string(cfg.History.Type)
}
