package purge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/internal/telemetry"
	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// Outcome details.
const (
	DetailNotDeletable      = "not deletable (layout or external reference)"
	DetailStillExists       = "purge verification failed: block still exists"
	detailVerifyLookupError = "purge verification failed"
)

// Purge deletes names one at a time, in order, and verifies each deletion.
//
// For every name the block is re-fetched, refused when it is a layout or
// external reference, purged, and looked up again: only a not-found lookup
// counts as success. A failure of any kind, including a panic inside the
// session, becomes a failed Outcome for that name and the batch continues.
// Nothing is rolled back. ctx is used for tracing and logging only; a
// cancelled ctx does not stop the batch.
func Purge(ctx context.Context, s drawing.Session, names []string, opts ...Option) *Report {
	o := buildOptions(opts)
	start := time.Now()
	ctx = logger.StageContext(ctx, StageExecute)
	ctx, span := telemetry.StartStageSpan(ctx, StageExecute, telemetry.Count(len(names)))
	defer span.End()

	report := newReport(len(names))
	for i, name := range names {
		p := Progress{Position: i + 1, Total: len(names), Name: name}
		logger.DebugCtx(ctx, "Purging block",
			logger.Block(name), logger.Position(p.Position), logger.Total(p.Total))
		if o.progress != nil {
			o.progress(p)
		}

		outcome := purgeOne(ctx, s, name, i+1)
		report.add(outcome)
		o.metrics.RecordOutcome(outcome)

		if o.progress != nil {
			p.Outcome = &outcome
			o.progress(p)
		}
	}

	o.metrics.ObserveStage(StageExecute, time.Since(start))
	telemetry.SetAttributes(ctx,
		telemetry.Deleted(report.DeletedCount),
		telemetry.Failed(len(report.Failed)),
		telemetry.State(string(report.State())))
	logger.InfoCtx(ctx, "Purge finished",
		"deleted", report.DeletedCount,
		"failed", len(report.Failed),
		logger.State(string(report.State())),
		logger.Elapsed(start))
	return report
}

// step names the part of an attempt that was running when a panic hit.
type step int

const (
	stepLookup step = iota
	stepPurge
	stepVerify
)

func (s step) String() string {
	switch s {
	case stepLookup:
		return "lookup"
	case stepPurge:
		return "purge command"
	default:
		return "verification"
	}
}

// panicReason maps the step that panicked to an outcome reason. A purge
// command that panics may or may not have deleted the block, and the
// deletion was never confirmed, so it counts as a failed verification.
func panicReason(s step) Reason {
	if s == stepLookup {
		return ReasonLookupError
	}
	return ReasonVerificationFailed
}

func purgeOne(ctx context.Context, s drawing.Session, name string, position int) (out Outcome) {
	ctx, span := telemetry.StartBlockSpan(ctx, name, position)
	defer span.End()

	current := stepLookup
	defer func() {
		if r := recover(); r != nil {
			reason := panicReason(current)
			out = failure(name, reason, fmt.Sprintf("panic in %s: %v", current, r))
			logger.ErrorCtx(ctx, "Panic during purge attempt",
				logger.Block(name), logger.Reason(string(reason)), "step", current.String(), "panic", r)
		}
		finish(ctx, out)
	}()

	// 1. Re-fetch: the catalog snapshot may be stale.
	rec, err := s.LookupBlock(ctx, name)
	if err != nil {
		return failure(name, reasonFor(err, ReasonLookupError), err.Error())
	}

	// 2. Safety check on the live definition.
	if rec.IsLayout || rec.IsXRef {
		return failure(name, ReasonNotDeletable, DetailNotDeletable)
	}

	// 3. Native purge. A command error is not final: the block may be gone
	// anyway, so verification still decides.
	current = stepPurge
	cmdErr := s.PurgeBlock(ctx, name)
	if drawingerrors.IsSessionUnavailable(cmdErr) {
		return failure(name, ReasonSessionUnavailable, cmdErr.Error())
	}

	// 4. Verify.
	current = stepVerify
	_, err = s.LookupBlock(ctx, name)
	switch {
	case drawingerrors.IsNotFound(err):
		if cmdErr != nil {
			telemetry.AddEvent(ctx, "purge.command_error_ignored", telemetry.Detail(cmdErr.Error()))
			logger.WarnCtx(ctx, "Purge command reported an error but the block is gone",
				logger.Block(name), logger.Err(cmdErr))
		}
		return Outcome{Name: name, Succeeded: true}
	case err == nil:
		detail := DetailStillExists
		if cmdErr != nil {
			detail = fmt.Sprintf("%s (%v)", DetailStillExists, cmdErr)
		}
		return failure(name, ReasonVerificationFailed, detail)
	default:
		return failure(name, reasonFor(err, ReasonVerificationFailed),
			fmt.Sprintf("%s: %v", detailVerifyLookupError, errors.Join(err, cmdErr)))
	}
}

func failure(name string, reason Reason, detail string) Outcome {
	return Outcome{Name: name, Reason: reason, Detail: detail}
}

func finish(ctx context.Context, out Outcome) {
	telemetry.SetAttributes(ctx, telemetry.Succeeded(out.Succeeded))
	if out.Succeeded {
		logger.InfoCtx(ctx, "Block purged", logger.Block(out.Name))
		return
	}
	telemetry.SetAttributes(ctx, telemetry.Reason(string(out.Reason)))
	telemetry.RecordError(ctx, errors.New(out.Detail))
	logger.WarnCtx(ctx, "Block not purged",
		logger.Block(out.Name), logger.Reason(string(out.Reason)), logger.Detail(out.Detail))
}
