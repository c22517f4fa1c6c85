package purge

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/internal/telemetry"
	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// BlockDescriptor classifies one block definition.
type BlockDescriptor struct {
	Name                string `json:"name" yaml:"name"`
	IsLayout            bool   `json:"is_layout" yaml:"is_layout"`
	IsExternalReference bool   `json:"is_external_reference" yaml:"is_external_reference"`
	HasAttributes       bool   `json:"has_attributes" yaml:"has_attributes"`
}

// Deletable reports whether the definition may ever be purged.
func (d BlockDescriptor) Deletable() bool {
	return !d.IsLayout && !d.IsExternalReference
}

// ListBlocks enumerates every block definition in session order.
//
// A failed attribute read leaves HasAttributes false and is only logged.
// When the enumeration itself fails, ListBlocks returns an empty non-nil
// slice and an EnumerationFailed (or SessionUnavailable) error.
func ListBlocks(ctx context.Context, s drawing.Session, opts ...Option) ([]BlockDescriptor, error) {
	o := buildOptions(opts)
	start := time.Now()
	ctx = logger.StageContext(ctx, StageCatalog)
	ctx, span := telemetry.StartStageSpan(ctx, StageCatalog)
	defer span.End()
	defer func() { o.metrics.ObserveStage(StageCatalog, time.Since(start)) }()

	var records []drawing.BlockRecord
	err := guard(func() (err error) {
		records, err = s.Blocks(ctx)
		return err
	})
	if err != nil {
		err = asEnumerationError("blocks", err)
		telemetry.RecordError(ctx, err)
		logger.WarnCtx(ctx, "Block enumeration failed", logger.Err(err),
			logger.ErrorCode(drawingerrors.CodeOf(err).String()))
		return []BlockDescriptor{}, err
	}

	catalog := make([]BlockDescriptor, 0, len(records))
	for _, r := range records {
		if r.AttributeErr != nil {
			logger.DebugCtx(ctx, "Attribute read failed", logger.Block(r.Name), logger.Err(r.AttributeErr),
				logger.ErrorCode(drawingerrors.CodeOf(r.AttributeErr).String()))
		}
		catalog = append(catalog, BlockDescriptor{
			Name:                r.Name,
			IsLayout:            r.IsLayout,
			IsExternalReference: r.IsXRef,
			HasAttributes:       r.AttributeErr == nil && r.AttributeCount > 0,
		})
	}

	o.metrics.SetCatalogBlocks(len(catalog))
	telemetry.SetAttributes(ctx, telemetry.Count(len(catalog)))
	logger.DebugCtx(ctx, "Catalog listed", logger.Count(len(catalog)), logger.Elapsed(start))
	return catalog, nil
}

// asEnumerationError keeps SessionUnavailable and EnumerationFailed errors
// as they are and wraps anything else as an enumeration failure of target.
func asEnumerationError(target string, err error) error {
	switch drawingerrors.CodeOf(err) {
	case drawingerrors.ErrSessionUnavailable, drawingerrors.ErrEnumerationFailed:
		return err
	default:
		return drawingerrors.NewEnumerationError(target, err)
	}
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
