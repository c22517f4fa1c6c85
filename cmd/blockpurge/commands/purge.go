package commands

import (
	"fmt"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/prompt"
	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/pkg/drawing/backend"
	"github.com/marmos91/blockpurge/pkg/purge"
	"github.com/spf13/cobra"
)

// purgeResult is the structured output of purge.
type purgeResult struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Drawing    string        `json:"drawing" yaml:"drawing"`
	State      purge.State   `json:"state" yaml:"state"`
	Message    string        `json:"message" yaml:"message"`
	Candidates []string      `json:"candidates" yaml:"candidates"`
	Skipped    []string      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Report     *purge.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Saved      bool          `json:"saved" yaml:"saved"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

type purgeFlags struct {
	force  bool
	dryRun bool
	choose bool
}

func newPurgeCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	var pf purgeFlags

	cmd := &cobra.Command{
		Use:   "purge [NAMES...]",
		Short: "Delete block definitions with no model-space references",
		Long: `Scan the drawing, list the inactive block definitions and delete them
one at a time. Every deletion is verified by looking the block up again;
failures are reported per block and never stop the batch.

Pass block NAMES to restrict the purge to those blocks. Names that are not
inactive are skipped with a warning.

The snapshot backend writes the purged drawing back to the export file when
session.snapshot.write_back is set (the default).

Examples:
  # Review and confirm
  blockpurge purge --drawing site-plan.yaml

  # Only two blocks, no prompt
  blockpurge purge --drawing site-plan.yaml OLD_LOGO TAG --force

  # Pick interactively
  blockpurge purge --drawing site-plan.yaml --select

  # Show what would be deleted
  blockpurge purge --drawing site-plan.yaml --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurge(cmd, flags, pf, args)
		},
	}

	cmd.Flags().BoolVarP(&pf.force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&pf.dryRun, "dry-run", false, "List the candidates without deleting")
	cmd.Flags().BoolVar(&pf.choose, "select", false, "Choose the blocks to delete interactively")
	cmd.MarkFlagsMutuallyExclusive("force", "dry-run")
	return cmd
}

func runPurge(cmd *cobra.Command, flags *cmdutil.GlobalFlags, pf purgeFlags, names []string) error {
	s, err := openSession(cmd, flags, "purge")
	if err != nil {
		return err
	}
	defer s.close()

	a, err := s.analyze()
	if err != nil {
		return err
	}

	res := purgeResult{
		RunID:      s.rt.RunID,
		Drawing:    a.Drawing,
		Candidates: a.Inactive,
	}

	// end records the run and prints the closing message for state.
	end := func(state purge.State, report *purge.Report) error {
		s.finish(state)
		res.State = state
		res.Message = state.Message()
		res.Report = report
		if err := a.Err(); err != nil {
			res.Error = err.Error()
		}
		s.rt.RecordRun(s.ctx, a, report, state, s.started)

		if s.p.Structured() {
			if err := s.p.Print(res); err != nil {
				return err
			}
		} else {
			if err := a.Err(); err != nil {
				s.p.Error(err.Error())
			}
			stateLine(s.p, state)
		}
		return cmdutil.ExitForState(state, true)
	}

	if a.State != purge.StatePending {
		return end(a.State, nil)
	}

	if len(names) > 0 {
		selected, skipped := a.Select(names)
		for _, n := range skipped {
			s.p.Warning(fmt.Sprintf("Skipping %s: not an inactive block", n))
			logger.WarnCtx(s.ctx, "Requested block is not inactive", logger.Block(n))
		}
		res.Candidates, res.Skipped = selected, skipped
		if len(selected) == 0 {
			return end(purge.StateNothingInactive, nil)
		}
	}

	if pf.choose {
		chosen, err := chooseBlocks(res.Candidates)
		if err != nil {
			if prompt.IsAborted(err) {
				s.p.Println("\nAborted.")
				return end(purge.StateDeclined, nil)
			}
			return err
		}
		res.Candidates = chosen
		if len(chosen) == 0 {
			s.p.Println("No blocks selected.")
			return end(purge.StateDeclined, nil)
		}
	}

	if !s.p.Structured() {
		if err := s.p.Print(newCandidateView(a, res.Candidates)); err != nil {
			return err
		}
	}

	if pf.dryRun {
		return end(purge.StateDryRun, nil)
	}

	if s.rt.Config.Purge.Confirm {
		if s.p.Structured() && !pf.force {
			return fmt.Errorf("structured output needs --force or purge.confirm=false")
		}
		if !pf.force {
			s.p.Println()
		}
		ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Delete %d block definition(s)", len(res.Candidates)), pf.force)
		if err != nil && !prompt.IsAborted(err) {
			return err
		}
		if !ok {
			return end(purge.StateDeclined, nil)
		}
	}

	s.p.Println()
	report := purge.Purge(s.ctx, s.drawing, res.Candidates, s.rt.PurgeOptions(purge.WithProgress(func(p purge.Progress) {
		if p.Outcome == nil {
			s.p.Step("Purging block", p.Position, p.Total, p.Name)
			return
		}
		s.p.Done(p.Outcome.Succeeded, string(p.Outcome.Reason))
	}))...)

	if !s.p.Structured() && len(report.Failed) > 0 {
		s.p.Println()
		if err := s.p.Print(reportView{report: report}); err != nil {
			return err
		}
	}
	if !s.p.Structured() {
		s.p.Println()
		s.p.Printf("Deleted %d of %d block definition(s).\n", report.DeletedCount, len(res.Candidates))
	}

	res.Saved = saveDrawing(s, report)
	return end(report.State(), report)
}

// chooseBlocks lets the operator narrow candidates; all start selected.
func chooseBlocks(candidates []string) ([]string, error) {
	options := make([]prompt.SelectOption, 0, len(candidates))
	for _, n := range candidates {
		options = append(options, prompt.SelectOption{Label: n, Value: n})
	}
	return prompt.MultiSelect("Blocks to delete", options, candidates...)
}

// saveDrawing writes the purged drawing back when the backend supports it
// and something was deleted. A failed save is reported but does not change
// the run state: the deletions already happened in the session.
func saveDrawing(s *session, report *purge.Report) bool {
	if report.DeletedCount == 0 || !s.rt.Config.Session.Snapshot.WriteBack {
		return false
	}
	saver, ok := s.drawing.(backend.Saver)
	if !ok {
		return false
	}
	if err := saver.Save(); err != nil {
		s.p.Error(fmt.Sprintf("Failed to write the drawing back: %v", err))
		logger.ErrorCtx(s.ctx, "Failed to save drawing", logger.Err(err))
		return false
	}
	logger.InfoCtx(s.ctx, "Drawing saved", logger.Count(report.DeletedCount))
	return true
}
