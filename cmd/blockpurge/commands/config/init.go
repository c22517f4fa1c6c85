package config

import (
	"fmt"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/pkg/config"
	"github.com/spf13/cobra"
)

func newInitCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with every setting at its default.

The file goes to --config when given, otherwise to the default location
(` + config.GetDefaultConfigPath() + `).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.ConfigFile
			if path == "" {
				p, err := config.InitConfig(force)
				if err != nil {
					return err
				}
				path = p
			} else if err := config.InitConfigToPath(path, force); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
