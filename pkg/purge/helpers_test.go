package purge

import (
	"context"

	"github.com/marmos91/blockpurge/pkg/drawing"
	"github.com/marmos91/blockpurge/pkg/drawing/memory"
)

// scenarioDrawing is the four-block drawing used across the pipeline tests:
// A is referenced twice, B is a layout, C is an xref and D is unused.
func scenarioDrawing() memory.Drawing {
	return memory.Drawing{
		Name: "scenario.dwg",
		Blocks: []memory.Block{
			{Name: "A"},
			{Name: "B", Layout: true},
			{Name: "C", XRef: true},
			{Name: "D"},
		},
		ModelSpace: []drawing.Entity{
			{Type: drawing.EntityBlockReference, Name: "A", EffectiveName: "A"},
			{Type: "AcDbLine"},
			{Type: drawing.EntityBlockReference, Name: "*U4", EffectiveName: "A"},
		},
	}
}

// unusedDrawing holds n unreferenced blocks named U1..Un.
func unusedDrawing(names ...string) memory.Drawing {
	d := memory.Drawing{Name: "unused.dwg"}
	for _, n := range names {
		d.Blocks = append(d.Blocks, memory.Block{Name: n})
	}
	return d
}

// overrideSession wraps a memory session and lets a test replace
// individual calls.
type overrideSession struct {
	*memory.Session
	blocks     func() ([]drawing.BlockRecord, error)
	modelSpace func() ([]drawing.Entity, error)
	purge      func(ctx context.Context, name string) error
}

func (s *overrideSession) Blocks(ctx context.Context) ([]drawing.BlockRecord, error) {
	if s.blocks != nil {
		return s.blocks()
	}
	return s.Session.Blocks(ctx)
}

func (s *overrideSession) ModelSpace(ctx context.Context) ([]drawing.Entity, error) {
	if s.modelSpace != nil {
		return s.modelSpace()
	}
	return s.Session.ModelSpace(ctx)
}

func (s *overrideSession) PurgeBlock(ctx context.Context, name string) error {
	if s.purge != nil {
		return s.purge(ctx, name)
	}
	return s.Session.PurgeBlock(ctx, name)
}
