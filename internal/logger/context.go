package logger

import "context"

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds run-scoped logging context. The *Ctx logging functions
// prepend its non-empty fields to every record.
type LogContext struct {
	TraceID string // OpenTelemetry trace ID
	SpanID  string // OpenTelemetry span ID
	RunID   string // Purge run identifier
	Drawing string // Drawing (document) name
	Backend string // Session backend: snapshot, autocad
	Stage   string // Pipeline stage: catalog, scan, resolve, purge
}

// WithContext returns a new context carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from ctx, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a LogContext for one run over drawing.
func NewLogContext(runID, drawing string) *LogContext {
	return &LogContext{
		RunID:   runID,
		Drawing: drawing,
	}
}

// Clone creates a copy of the LogContext.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithStage returns a copy with the stage set.
func (lc *LogContext) WithStage(stage string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Stage = stage
	}
	return clone
}

// WithBackend returns a copy with the backend set.
func (lc *LogContext) WithBackend(backend string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Backend = backend
	}
	return clone
}

// WithTrace returns a copy with trace info set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// StageContext returns ctx with its LogContext (if any) switched to stage.
// Without a LogContext, ctx is returned unchanged.
func StageContext(ctx context.Context, stage string) context.Context {
	lc := FromContext(ctx)
	if lc == nil {
		return ctx
	}
	return WithContext(ctx, lc.WithStage(stage))
}
