package purge

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/internal/telemetry"
	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// Analysis is the result of the catalog, scan and resolve stages.
type Analysis struct {
	Drawing  string            `json:"drawing" yaml:"drawing"`
	Catalog  []BlockDescriptor `json:"catalog" yaml:"catalog"`
	Usage    UsageTally        `json:"usage" yaml:"usage"`
	Inactive []string          `json:"inactive" yaml:"inactive"`
	State    State             `json:"state" yaml:"state"`

	// CatalogErr and ScanErr hold the stage failures behind StateScanFailed.
	CatalogErr error `json:"-" yaml:"-"`
	ScanErr    error `json:"-" yaml:"-"`
}

// Err returns the stage failures, if any.
func (a *Analysis) Err() error {
	return errors.Join(a.CatalogErr, a.ScanErr)
}

// IsInactive reports whether name is a candidate.
func (a *Analysis) IsInactive(name string) bool {
	return slices.Contains(a.Inactive, name)
}

// Select narrows the candidates to names, keeping candidate order. Names
// that are not candidates are returned separately.
func (a *Analysis) Select(names []string) (selected, skipped []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
		if !a.IsInactive(n) {
			skipped = append(skipped, n)
		}
	}
	selected = []string{}
	for _, n := range a.Inactive {
		if want[n] {
			selected = append(selected, n)
		}
	}
	return selected, skipped
}

// Analyze lists the catalog, scans usage and resolves the inactive set.
//
// An unreachable session is fatal: Analyze returns nil and the error. A
// failed catalog or usage scan is not: the returned Analysis has
// StateScanFailed, the failure in CatalogErr or ScanErr, and no candidates.
// Candidates are never resolved against unknown usage.
func Analyze(ctx context.Context, s drawing.Session, opts ...Option) (*Analysis, error) {
	o := buildOptions(opts)
	start := time.Now()

	a := &Analysis{
		Drawing:  s.Document(),
		Catalog:  []BlockDescriptor{},
		Usage:    UsageTally{},
		Inactive: []string{},
	}

	catalog, err := ListBlocks(ctx, s, opts...)
	if drawingerrors.IsSessionUnavailable(err) {
		return nil, err
	}
	if err != nil {
		a.CatalogErr = err
		a.State = StateScanFailed
		return a, nil
	}
	a.Catalog = catalog

	usage, err := ScanUsage(ctx, s, opts...)
	if drawingerrors.IsSessionUnavailable(err) {
		return nil, err
	}
	if err != nil {
		a.ScanErr = err
		a.State = StateScanFailed
		return a, nil
	}
	a.Usage = usage

	resolveStart := time.Now()
	rctx := logger.StageContext(ctx, StageResolve)
	rctx, span := telemetry.StartStageSpan(rctx, StageResolve)
	a.Inactive = ResolveInactive(catalog, usage)
	telemetry.SetAttributes(rctx, telemetry.Count(len(a.Inactive)))
	span.End()
	o.metrics.ObserveStage(StageResolve, time.Since(resolveStart))
	o.metrics.SetInactiveBlocks(len(a.Inactive))

	if len(a.Inactive) == 0 {
		a.State = StateNothingInactive
	} else {
		a.State = StatePending
	}

	logger.InfoCtx(ctx, "Analysis finished",
		"blocks", len(catalog),
		"inactive", len(a.Inactive),
		logger.State(string(a.State)),
		logger.Elapsed(start))
	return a, nil
}
