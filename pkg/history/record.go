package history

import (
	"time"

	"github.com/marmos91/blockpurge/pkg/purge"
)

// NewRun builds a Run from the results of one workflow invocation.
// report may be nil when nothing was purged (scan-failed, declined, dry-run).
func NewRun(a *purge.Analysis, report *purge.Report, state purge.State, backend string, startedAt time.Time) *Run {
	run := &Run{
		Backend:    backend,
		State:      string(state),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}

	if a != nil {
		run.Drawing = a.Drawing
		run.Candidates = len(a.Inactive)
		if err := a.Err(); err != nil {
			run.Error = err.Error()
		}
	}

	if report != nil {
		run.Deleted = report.DeletedCount
		run.Failed = len(report.Failed)
		run.Outcomes = make([]RunOutcome, 0, len(report.Outcomes))
		for i, o := range report.Outcomes {
			run.Outcomes = append(run.Outcomes, RunOutcome{
				Position:  i + 1,
				Name:      o.Name,
				Succeeded: o.Succeeded,
				Reason:    string(o.Reason),
				Detail:    o.Detail,
			})
		}
	}

	return run
}
