package config

import (
	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/spf13/cobra"
)

const redacted = "********"

func newShowCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, BLOCKPURGE_*
environment variables and flags have been applied. YAML unless -o json.
The database password is redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.LoadConfig()
			if err != nil {
				return err
			}

			if cfg.History.Postgres.Password != "" {
				cfg.History.Postgres.Password = redacted
			}

			format, err := output.ParseFormat(flags.Output)
			if err != nil {
				return err
			}
			if format == output.FormatJSON {
				return output.PrintJSON(cmd.OutOrStdout(), cfg)
			}
			return output.PrintYAML(cmd.OutOrStdout(), cfg)
		},
	}
}
