// Package backend opens a drawing.Session by backend name.
package backend

import (
	"context"
	"fmt"
	"slices"

	"github.com/marmos91/blockpurge/pkg/drawing"
	"github.com/marmos91/blockpurge/pkg/drawing/acad"
	"github.com/marmos91/blockpurge/pkg/drawing/snapshot"
)

// Backend names accepted by Open.
const (
	Snapshot = "snapshot"
	AutoCAD  = "autocad"
)

// Names lists every registered backend.
func Names() []string {
	return []string{Snapshot, AutoCAD}
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of Names().
	Backend string

	// SnapshotPath is the export file for the snapshot backend.
	SnapshotPath string

	// AutoCAD configures the autocad backend.
	AutoCAD acad.Config
}

// Open opens a session on the selected backend.
func Open(ctx context.Context, opts Options) (drawing.Session, error) {
	switch opts.Backend {
	case Snapshot:
		if opts.SnapshotPath == "" {
			return nil, fmt.Errorf("snapshot backend requires a drawing path")
		}
		s, err := snapshot.Load(opts.SnapshotPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case AutoCAD:
		return acad.Open(ctx, opts.AutoCAD)
	default:
		return nil, fmt.Errorf("unknown backend %q (want one of %v)", opts.Backend, Names())
	}
}

// Valid reports whether name is a registered backend.
func Valid(name string) bool {
	return slices.Contains(Names(), name)
}

// Saver is implemented by sessions that can persist their state after a
// purge (the snapshot backend).
type Saver interface {
	Save() error
}
