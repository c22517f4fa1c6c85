package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/blockpurge/internal/logger"
	"github.com/marmos91/blockpurge/internal/telemetry"
	"github.com/marmos91/blockpurge/pkg/config"
	"github.com/marmos91/blockpurge/pkg/drawing"
	"github.com/marmos91/blockpurge/pkg/drawing/backend"
	"github.com/marmos91/blockpurge/pkg/history"
	"github.com/marmos91/blockpurge/pkg/metrics"
	"github.com/marmos91/blockpurge/pkg/purge"
	"go.opentelemetry.io/otel/trace"
)

// Runtime carries what one CLI run needs: configuration, the run ID that
// ties logs, spans, metrics and history together, and the purge metrics.
type Runtime struct {
	Config  *config.Config
	RunID   string
	Version string
	Metrics *purge.Metrics

	shutdownTracing func(context.Context) error
}

// Start loads the configuration and brings up logging, tracing and metrics.
// The caller must call Close.
func Start(ctx context.Context, flags *GlobalFlags, version string) (*Runtime, error) {
	cfg, err := flags.LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if flags.NoColor {
		logger.SetColor(false)
	}

	tcfg := telemetry.DefaultConfig()
	tcfg.Enabled = cfg.Telemetry.Enabled
	tcfg.Endpoint = cfg.Telemetry.Endpoint
	tcfg.Insecure = cfg.Telemetry.Insecure
	tcfg.SampleRate = cfg.Telemetry.SampleRate
	tcfg.ServiceVersion = version
	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	if telemetry.IsEnabled() {
		logger.Debug("Tracing enabled", "endpoint", tcfg.Endpoint, "sample_rate", tcfg.SampleRate)
	}

	rt := &Runtime{
		Config:          cfg,
		RunID:           uuid.New().String(),
		Version:         version,
		shutdownTracing: shutdown,
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	rt.Metrics = purge.NewMetrics(metrics.Registerer())

	return rt, nil
}

// Begin opens the root span of the run for command and attaches the log
// context, so stage spans and log lines of the run share a trace.
func (rt *Runtime) Begin(ctx context.Context, command, drawingName string) (context.Context, trace.Span) {
	ctx, span := telemetry.StartSpan(ctx, "blockpurge."+command,
		trace.WithAttributes(
			telemetry.RunID(rt.RunID),
			telemetry.Drawing(drawingName),
			telemetry.Backend(rt.Config.Session.Backend),
		))

	lc := logger.NewLogContext(rt.RunID, drawingName).WithBackend(rt.Config.Session.Backend)
	if traceID := telemetry.TraceID(ctx); traceID != "" {
		lc = lc.WithTrace(traceID, telemetry.SpanID(ctx))
	}
	return logger.WithContext(ctx, lc), span
}

// PurgeOptions returns the options every purge call of this run uses.
func (rt *Runtime) PurgeOptions(extra ...purge.Option) []purge.Option {
	return append([]purge.Option{purge.WithMetrics(rt.Metrics)}, extra...)
}

// OpenSession opens the configured drawing backend.
func (rt *Runtime) OpenSession(ctx context.Context) (drawing.Session, error) {
	s, err := backend.Open(ctx, backend.Options{
		Backend:      rt.Config.Session.Backend,
		SnapshotPath: rt.Config.Session.Snapshot.Path,
		AutoCAD:      rt.Config.Session.AutoCAD,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s session: %w", rt.Config.Session.Backend, err)
	}
	return s, nil
}

// RecordRun stores the run in history when enabled. Failures are logged,
// never returned: history is an audit aid, not part of the purge.
func (rt *Runtime) RecordRun(ctx context.Context, a *purge.Analysis, report *purge.Report, state purge.State, startedAt time.Time) string {
	if !rt.Config.History.Enabled {
		return ""
	}

	store, err := history.New(&rt.Config.History)
	if err != nil {
		logger.Warn("Run history unavailable",
			logger.Drawing(a.Drawing), logger.Backend(rt.Config.Session.Backend), logger.Err(err))
		return ""
	}
	defer func() { _ = store.Close() }()

	run := history.NewRun(a, report, state, rt.Config.Session.Backend, startedAt)
	run.ID = rt.RunID
	id, err := store.RecordRun(ctx, run)
	if err != nil {
		logger.Warn("Failed to record run",
			logger.RunID(rt.RunID), logger.Drawing(a.Drawing), logger.Backend(rt.Config.Session.Backend), logger.Err(err))
		return ""
	}
	logger.DebugCtx(ctx, "Run recorded", logger.RunID(id))
	return id
}

// Close flushes metrics and traces. Errors are logged.
func (rt *Runtime) Close(ctx context.Context) {
	groupings := map[string]string{"backend": rt.Config.Session.Backend}
	if err := metrics.Flush(ctx, rt.Config.Metrics, groupings); err != nil {
		logger.Warn("Failed to flush metrics", logger.Err(err))
	}
	if rt.shutdownTracing != nil {
		if err := rt.shutdownTracing(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Failed to flush traces", logger.Err(err))
		}
	}
}
