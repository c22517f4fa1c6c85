package commands

import (
	"fmt"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/spf13/cobra"
)

func newBlocksCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List the block definitions of a drawing",
		Long: `List every block definition in the drawing with its flags and the number
of model-space references. REFERENCES shows "?" when the model-space scan
failed.

Examples:
  # List blocks of a drawing export
  blockpurge blocks --drawing site-plan.yaml

  # As JSON
  blockpurge blocks --drawing site-plan.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, flags, "blocks")
			if err != nil {
				return err
			}
			defer s.close()

			a, err := s.analyze()
			if err != nil {
				return err
			}
			s.finish(a.State)
			if a.CatalogErr != nil {
				return fmt.Errorf("failed to list blocks: %w", a.CatalogErr)
			}

			if err := cmdutil.PrintOutput(s.p, a, len(a.Catalog) == 0, "No block definitions found.", catalogView{analysis: a}); err != nil {
				return err
			}
			if a.ScanErr != nil {
				s.p.Warning(fmt.Sprintf("Model-space scan failed: %v", a.ScanErr))
			}
			return nil
		},
	}
}
