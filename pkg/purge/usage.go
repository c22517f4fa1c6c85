package purge

import (
	"context"
	"time"

	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/internal/telemetry"
	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// UsageTally maps a block definition name to the number of model-space
// references to it.
type UsageTally map[string]int

// Uses returns the reference count for name.
func (u UsageTally) Uses(name string) int {
	return u[name]
}

// Used reports whether name appears in the tally.
func (u UsageTally) Used(name string) bool {
	_, ok := u[name]
	return ok
}

// ScanUsage tallies block references in model space by effective name.
// Only block-reference entities count; dynamic blocks are keyed by their
// definition, not their anonymous representation.
//
// When the enumeration fails, ScanUsage returns an empty non-nil tally and
// the error. An empty tally with an error means usage is unknown.
func ScanUsage(ctx context.Context, s drawing.Session, opts ...Option) (UsageTally, error) {
	o := buildOptions(opts)
	start := time.Now()
	ctx = logger.StageContext(ctx, StageScan)
	ctx, span := telemetry.StartStageSpan(ctx, StageScan)
	defer span.End()
	defer func() { o.metrics.ObserveStage(StageScan, time.Since(start)) }()

	var entities []drawing.Entity
	err := guard(func() (err error) {
		entities, err = s.ModelSpace(ctx)
		return err
	})
	if err != nil {
		err = asEnumerationError("model space", err)
		telemetry.RecordError(ctx, err)
		logger.WarnCtx(ctx, "Model space enumeration failed", logger.Err(err),
			logger.ErrorCode(drawingerrors.CodeOf(err).String()))
		return UsageTally{}, err
	}

	tally := make(UsageTally)
	refs := 0
	for _, e := range entities {
		if !e.IsBlockReference() {
			continue
		}
		name := e.EffectiveName
		if name == "" {
			name = e.Name
		}
		tally[name]++
		refs++
	}

	telemetry.SetAttributes(ctx, telemetry.Count(refs))
	logger.DebugCtx(ctx, "Model space scanned",
		logger.Count(len(entities)), "references", refs, "distinct", len(tally), logger.Elapsed(start))
	return tally, nil
}
