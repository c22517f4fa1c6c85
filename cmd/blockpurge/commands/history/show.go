package history

import (
	"strconv"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/marmos91/blockpurge/internal/cli/timeutil"
	"github.com/marmos91/blockpurge/pkg/history"
	"github.com/spf13/cobra"
)

// OutcomeList renders the outcomes of one run.
type OutcomeList []history.RunOutcome

// Headers implements TableRenderer.
func (ol OutcomeList) Headers() []string {
	return []string{"#", "NAME", "RESULT", "REASON", "DETAIL"}
}

// Rows implements TableRenderer.
func (ol OutcomeList) Rows() [][]string {
	rows := make([][]string, 0, len(ol))
	for _, o := range ol {
		result := "deleted"
		if !o.Succeeded {
			result = "failed"
		}
		rows = append(rows, []string{
			strconv.Itoa(o.Position),
			o.Name,
			result,
			cmdutil.EmptyOr(o.Reason, "-"),
			cmdutil.EmptyOr(o.Detail, "-"),
		})
	}
	return rows
}

func newShowCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one run with its per-block outcomes",
		Args:  cobra.ExactArgs(1),
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

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if p.Structured() {
				return p.Print(run)
			}
			return printRun(p, run)
		},
	}
}

func printRun(p *output.Printer, run *history.Run) error {
	pairs := [][2]string{
		{"ID", run.ID},
		{"Drawing", run.Drawing},
		{"Backend", run.Backend},
		{"State", run.State},
		{"Candidates", strconv.Itoa(run.Candidates)},
		{"Deleted", strconv.Itoa(run.Deleted)},
		{"Failed", strconv.Itoa(run.Failed)},
		{"Started", timeutil.FormatTime(run.StartedAt)},
		{"Duration", timeutil.FormatDuration(run.Duration())},
	}
	if run.Error != "" {
		pairs = append(pairs, [2]string{"Error", run.Error})
	}
	if err := output.SimpleTable(p.Writer(), pairs); err != nil {
		return err
	}

	if len(run.Outcomes) == 0 {
		return nil
	}
	p.Println()
	return output.PrintTable(p.Writer(), OutcomeList(run.Outcomes))
}
