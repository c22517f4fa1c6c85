package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the blockpurge version, build information, and system details.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, Version)
				return
			}

			_, _ = fmt.Fprintf(out, "blockpurge %s\n", Version)
			_, _ = fmt.Fprintf(out, "  Commit:     %s\n", Commit)
			_, _ = fmt.Fprintf(out, "  Built:      %s\n", Date)
			_, _ = fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			_, _ = fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Show only version number")
	return cmd
}
