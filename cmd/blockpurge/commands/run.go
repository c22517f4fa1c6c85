package commands

import (
	"context"
	"time"

	"github.com/marmos91/blockpurge/cmd/blockpurge/cmdutil"
	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/marmos91/blockpurge/internal/telemetry"
	"github.com/marmos91/blockpurge/pkg/drawing"
	"github.com/marmos91/blockpurge/pkg/purge"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

// session is one command invocation against an open drawing.
type session struct {
	rt      *cmdutil.Runtime
	p       *output.Printer
	ctx     context.Context
	span    trace.Span
	drawing drawing.Session
	started time.Time
}

// openSession starts the runtime, opens the configured backend and begins
// the root span of command. The caller must call close.
func openSession(cmd *cobra.Command, flags *cmdutil.GlobalFlags, command string) (*session, error) {
	p, err := flags.Printer(cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	started := time.Now()
	rt, err := cmdutil.Start(cmd.Context(), flags, Version)
	if err != nil {
		return nil, err
	}

	d, err := rt.OpenSession(cmd.Context())
	if err != nil {
		rt.Close(cmd.Context())
		return nil, err
	}

	ctx, span := rt.Begin(cmd.Context(), command, d.Document())
	return &session{rt: rt, p: p, ctx: ctx, span: span, drawing: d, started: started}, nil
}

// analyze runs the catalog, scan and resolve stages.
func (s *session) analyze() (*purge.Analysis, error) {
	a, err := purge.Analyze(s.ctx, s.drawing, s.rt.PurgeOptions()...)
	if err != nil {
		telemetry.RecordError(s.ctx, err)
		return nil, err
	}
	return a, nil
}

// finish tags the root span with the final state.
func (s *session) finish(state purge.State) {
	s.span.SetAttributes(telemetry.State(string(state)))
}

func (s *session) close() {
	s.span.End()
	_ = s.drawing.Close()
	s.rt.Close(s.ctx)
}
