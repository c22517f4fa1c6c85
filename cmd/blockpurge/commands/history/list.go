package history

import (
	"strconv"
	"time"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/timeutil"
	"github.com/marmos91/blockpurge/pkg/history"
	"github.com/spf13/cobra"
)

// RunList is a list of runs for table rendering.
type RunList struct {
	runs []*history.Run
	now  time.Time
}

// Headers implements TableRenderer.
func (rl RunList) Headers() []string {
	return []string{"ID", "DRAWING", "STATE", "CANDIDATES", "DELETED", "FAILED", "STARTED", "DURATION"}
}

// Rows implements TableRenderer.
func (rl RunList) Rows() [][]string {
	rows := make([][]string, 0, len(rl.runs))
	for _, r := range rl.runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.Drawing,
			r.State,
			strconv.Itoa(r.Candidates),
			strconv.Itoa(r.Deleted),
			strconv.Itoa(r.Failed),
			timeutil.FormatAge(r.StartedAt, rl.now),
			timeutil.FormatDuration(r.Duration()),
		})
	}
	return rows
}

// shortID abbreviates a run ID; show accepts any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func newListCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent runs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.Printer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			store, err := openStore(flags)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return cmdutil.PrintOutput(p, runs, len(runs) == 0, "No runs recorded.", RunList{runs: runs, now: time.Now()})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of runs to show")
	return cmd
}
