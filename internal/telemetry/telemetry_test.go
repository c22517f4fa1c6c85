package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans installs an in-memory span recorder for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	UseTracerProvider(tp)
	t.Cleanup(func() {
		Reset()
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "blockpurge", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())
}

func TestNoOpWithoutInit(t *testing.T) {
	Reset()
	ctx := context.Background()

	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	span.End()

	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
		RecordError(ctx, nil)
		RecordError(ctx, errors.New("test error"))
		SetAttributes(ctx, Block("A"))
	})
	assert.Equal(t, "", TraceID(ctx))
	assert.Equal(t, "", SpanID(ctx))
}

func TestStageAndBlockSpans(t *testing.T) {
	rec := recordSpans(t)
	assert.True(t, IsEnabled())

	ctx, stage := StartStageSpan(context.Background(), "execute", Count(2))
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))

	blockCtx, block := StartBlockSpan(ctx, "OLD_LOGO", 1)
	SetAttributes(blockCtx, Succeeded(false), Reason("verification-failed"))
	RecordError(blockCtx, errors.New("block still exists"))
	block.End()
	stage.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, SpanBlock, spans[0].Name())
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, "OLD_LOGO", attrs[AttrBlock].AsString())
	assert.Equal(t, int64(1), attrs[AttrPosition].AsInt64())
	assert.Equal(t, "verification-failed", attrs[AttrReason].AsString())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())

	assert.Equal(t, SpanExecute, spans[1].Name())
	assert.Equal(t, int64(2), attrMap(spans[1].Attributes())[AttrCount].AsInt64())
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		attr attribute.KeyValue
		key  string
	}{
		{RunID("r"), AttrRunID},
		{Drawing("d"), AttrDrawing},
		{Backend("b"), AttrBackend},
		{State("completed"), AttrState},
		{Deleted(1), AttrDeleted},
		{Failed(1), AttrFailed},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, string(tt.attr.Key))
		})
	}
}
