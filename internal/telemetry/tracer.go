package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanCatalog = "purge.catalog"
	SpanScan    = "purge.scan"
	SpanResolve = "purge.resolve"
	SpanExecute = "purge.execute"
	SpanBlock   = "purge.block"
)

// Attribute keys for purge runs.
const (
	// ========================================================================
	// Run
	// ========================================================================
	AttrRunID   = "blockpurge.run_id"
	AttrDrawing = "blockpurge.drawing"
	AttrBackend = "blockpurge.backend"
	AttrState   = "blockpurge.state"

	// ========================================================================
	// Stage results
	// ========================================================================
	AttrCount    = "blockpurge.count"
	AttrDeleted  = "blockpurge.deleted"
	AttrFailed   = "blockpurge.failed"
	AttrPosition = "blockpurge.position"

	// ========================================================================
	// Block
	// ========================================================================
	AttrBlock     = "blockpurge.block"
	AttrSucceeded = "blockpurge.succeeded"
	AttrReason    = "blockpurge.reason"
	AttrDetail    = "blockpurge.detail"
)

func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// Drawing returns an attribute for the drawing (document) name
func Drawing(name string) attribute.KeyValue {
	return attribute.String(AttrDrawing, name)
}

func Backend(name string) attribute.KeyValue {
	return attribute.String(AttrBackend, name)
}

func State(s string) attribute.KeyValue {
	return attribute.String(AttrState, s)
}

// Count returns an attribute for the number of items a stage produced
func Count(n int) attribute.KeyValue {
	return attribute.Int(AttrCount, n)
}

func Deleted(n int) attribute.KeyValue {
	return attribute.Int(AttrDeleted, n)
}

func Failed(n int) attribute.KeyValue {
	return attribute.Int(AttrFailed, n)
}

// Position returns an attribute for the 1-based position within a batch
func Position(i int) attribute.KeyValue {
	return attribute.Int(AttrPosition, i)
}

func Block(name string) attribute.KeyValue {
	return attribute.String(AttrBlock, name)
}

func Succeeded(ok bool) attribute.KeyValue {
	return attribute.Bool(AttrSucceeded, ok)
}

// Reason returns an attribute for a failure reason tag
func Reason(tag string) attribute.KeyValue {
	return attribute.String(AttrReason, tag)
}

func Detail(d string) attribute.KeyValue {
	return attribute.String(AttrDetail, d)
}

// StartStageSpan starts the span for one pipeline stage ("catalog", "scan",
// "resolve", "execute").
func StartStageSpan(ctx context.Context, stage string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "purge."+stage, trace.WithAttributes(attrs...))
}

// StartBlockSpan starts the span for one deletion attempt.
func StartBlockSpan(ctx context.Context, name string, position int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanBlock, trace.WithAttributes(Block(name), Position(position)))
}
