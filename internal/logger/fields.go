package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently so runs can be correlated across log lines.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID
	KeySpanID  = "span_id"  // OpenTelemetry span ID

	// ========================================================================
	// Run
	// ========================================================================
	KeyRunID   = "run_id"  // Purge run identifier
	KeyDrawing = "drawing" // Drawing (document) name
	KeyBackend = "backend" // Session backend
	KeyStage   = "stage"   // Pipeline stage
	KeyState   = "state"   // Run state: completed, partial, scan-failed, ...

	// ========================================================================
	// Blocks
	// ========================================================================
	KeyBlock    = "block"    // Block definition name
	KeyReason   = "reason"   // Failure reason tag
	KeyDetail   = "detail"   // Free-text failure detail
	KeyCount    = "count"    // Item count for a stage
	KeyPosition = "position" // 1-based position within a batch
	KeyTotal    = "total"    // Batch size

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Drawing error code
	KeyPath       = "path"        // File path (snapshot, config, history db)
)

// ============================================================================
// Field constructors
// ============================================================================

func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

func Drawing(name string) slog.Attr {
	return slog.String(KeyDrawing, name)
}

func Backend(name string) slog.Attr {
	return slog.String(KeyBackend, name)
}

func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// Block returns a slog.Attr for a block definition name
func Block(name string) slog.Attr {
	return slog.String(KeyBlock, name)
}

// Reason returns a slog.Attr for a failure reason tag
func Reason(tag string) slog.Attr {
	return slog.String(KeyReason, tag)
}

func Detail(d string) slog.Attr {
	return slog.String(KeyDetail, d)
}

func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Position returns a slog.Attr for the 1-based position within a batch
func Position(i int) slog.Attr {
	return slog.Int(KeyPosition, i)
}

func Total(n int) slog.Attr {
	return slog.Int(KeyTotal, n)
}

// DurationMs returns a slog.Attr for a duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Elapsed returns a duration_ms attr measured from start
func Elapsed(start time.Time) slog.Attr {
	return DurationMs(Duration(start))
}

// Err returns a slog.Attr for an error; nil errors produce an empty attr,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

func ErrorCode(code string) slog.Attr {
	return slog.String(KeyErrorCode, code)
}

func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}
