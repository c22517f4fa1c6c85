package commands

import (
	"fmt"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/pkg/drawing/backend"
	"github.com/marmos91/blockpurge/pkg/drawing/snapshot"
	"github.com/marmos91/blockpurge/pkg/purge"
	"github.com/spf13/cobra"
)

// scanResult is the structured output of scan.
type scanResult struct {
	RunID    string      `json:"run_id" yaml:"run_id"`
	Drawing  string      `json:"drawing" yaml:"drawing"`
	State    purge.State `json:"state" yaml:"state"`
	Message  string      `json:"message" yaml:"message"`
	Inactive []string    `json:"inactive" yaml:"inactive"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
}

func newScanResult(runID string, a *purge.Analysis) scanResult {
	r := scanResult{
		RunID:    runID,
		Drawing:  a.Drawing,
		State:    a.State,
		Message:  a.State.Message(),
		Inactive: a.Inactive,
	}
	if err := a.Err(); err != nil {
		r.Error = err.Error()
	}
	return r
}

func newScanCmd(flags *cmdutil.GlobalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find block definitions with no model-space references",
		Long: `Scan the drawing and list the inactive block definitions: blocks that are
not layouts or external references and have no reference in model space.
Nothing is deleted.

With --watch (snapshot backend only) the scan re-runs every time the
drawing export changes, until interrupted.

Examples:
  blockpurge scan --drawing site-plan.yaml
  blockpurge scan --drawing site-plan.yaml --watch -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				state, err := runScan(cmd, flags)
				if err != nil {
					return err
				}
				return cmdutil.ExitForState(state, true)
			}

			cfg, err := flags.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.Session.Backend != backend.Snapshot {
				return fmt.Errorf("--watch requires the %s backend", backend.Snapshot)
			}

			if _, err := runScan(cmd, flags); err != nil {
				return err
			}
			return snapshot.Watch(cmd.Context(), cfg.Session.Snapshot.Path, cfg.Scan.WatchDebounce, func() error {
				if _, err := runScan(cmd, flags); err != nil {
					// A half-written export is expected while watching.
					logger.Warn("Scan failed", logger.Err(err))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-scan whenever the drawing export changes")
	return cmd
}

// runScan performs one scan and prints it. In watch mode each scan is a
// separate run with its own run ID.
func runScan(cmd *cobra.Command, flags *cmdutil.GlobalFlags) (purge.State, error) {
	s, err := openSession(cmd, flags, "scan")
	if err != nil {
		return "", err
	}
	defer s.close()

	a, err := s.analyze()
	if err != nil {
		return "", err
	}
	s.finish(a.State)
	if a.State.Failed() {
		logger.WarnCtx(s.ctx, "Scan failed", logger.Err(a.Err()))
	}
	s.rt.RecordRun(s.ctx, a, nil, a.State, s.started)

	switch s.p.Format() {
	case output.FormatJSON:
		// One line per scan keeps --watch output streamable.
		return a.State, output.PrintJSONLine(s.p.Writer(), newScanResult(s.rt.RunID, a))
	case output.FormatYAML:
		return a.State, s.p.Print(newScanResult(s.rt.RunID, a))
	}

	if len(a.Inactive) > 0 {
		if err := output.PrintTable(s.p.Writer(), newCandidateView(a, a.Inactive)); err != nil {
			return "", err
		}
		s.p.Println()
	}
	if err := a.Err(); err != nil {
		s.p.Error(err.Error())
	}
	stateLine(s.p, a.State)
	return a.State, nil
}
