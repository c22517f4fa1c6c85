package config

import (
	"fmt"
	"os"

	"github.com/marmos91/blockpurge/pkg/config"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate JSON schema for configuration",
		Long: `Generate a JSON schema for the blockpurge configuration file.

The schema can be used for:
  - IDE autocompletion (VS Code, IntelliJ, etc.)
  - Configuration file validation

Examples:
  # Print schema to stdout
  blockpurge config schema

  # Save schema to file
  blockpurge config schema --file blockpurge.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaJSON, err := config.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			if file != "" {
				if err := os.WriteFile(file, schemaJSON, 0644); err != nil {
					return fmt.Errorf("failed to write schema file: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", file)
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(schemaJSON))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output file (default: stdout)")
	return cmd
}
