// Package config implements configuration management commands.
package config

import (
	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/spf13/cobra"
)

// NewCmd returns the parent command for configuration management.
func NewCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long: `Manage the blockpurge configuration file.

Examples:
  # Write a default config file
  blockpurge config init

  # Check a config file
  blockpurge config validate --config ./blockpurge.yaml

  # Print the effective configuration
  blockpurge config show

  # JSON schema for editor completion
  blockpurge config schema --file blockpurge.schema.json`,
	}

	cmd.AddCommand(newInitCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newSchemaCmd())
	return cmd
}
