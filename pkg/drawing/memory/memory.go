// Package memory provides an in-memory drawing.Session.
//
// It models the parts of a drawing database the purge pipeline touches:
// the block table (with nested references between definitions), model
// space, and paper space. PurgeBlock follows CAD purge semantics: a
// definition is removed only when it is not a layout or external reference
// and nothing references it from any space or from another definition.
//
// Faults can be injected per call for tests.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// Block is a block definition stored in the drawing.
type Block struct {
	Name       string   `json:"name" yaml:"name"`
	Layout     bool     `json:"layout,omitempty" yaml:"layout,omitempty"`
	XRef       bool     `json:"xref,omitempty" yaml:"xref,omitempty"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Contains lists block names referenced from inside this definition.
	Contains []string `json:"contains,omitempty" yaml:"contains,omitempty"`
}

// Drawing is the full content of an in-memory drawing.
type Drawing struct {
	Name       string           `json:"name" yaml:"name"`
	Blocks     []Block          `json:"blocks" yaml:"blocks"`
	ModelSpace []drawing.Entity `json:"model_space,omitempty" yaml:"model_space,omitempty"`
	PaperSpace []drawing.Entity `json:"paper_space,omitempty" yaml:"paper_space,omitempty"`
}

// Faults configures injected failures. Zero value injects nothing.
type Faults struct {
	// Unavailable makes every call return a SessionUnavailable error.
	Unavailable bool

	// BlocksErr fails block-table enumeration.
	BlocksErr error

	// ModelSpaceErr fails model-space enumeration.
	ModelSpaceErr error

	// AttributeErr fails the attribute read of the named blocks.
	AttributeErr map[string]error

	// LookupHook runs before every LookupBlock. call is the 1-based count of
	// lookups for that name so far. A non-nil return fails the lookup; the
	// hook may also panic.
	LookupHook func(name string, call int) error

	// PurgeErr fails the purge command for the named blocks.
	PurgeErr map[string]error

	// RejectPurge makes the purge command silently do nothing.
	RejectPurge map[string]bool
}

var errSessionClosed = errors.New("session closed")

// Session is an in-memory drawing.Session.
type Session struct {
	mu          sync.Mutex
	drawing     Drawing
	faults      Faults
	lookupCalls map[string]int
	purgeCalls  []string
	closed      bool
}

var _ drawing.Session = (*Session)(nil)

// New creates a session over a deep copy of d.
func New(d Drawing) *Session {
	return &Session{
		drawing:     cloneDrawing(d),
		lookupCalls: make(map[string]int),
	}
}

// WithFaults installs fault injection and returns the session.
func (s *Session) WithFaults(f Faults) *Session {
	s.mu.Lock()
	s.faults = f
	s.mu.Unlock()
	return s
}

// Document implements drawing.Session.
func (s *Session) Document() string {
	return s.drawing.Name
}

// Blocks implements drawing.Session.
func (s *Session) Blocks(_ context.Context) ([]drawing.BlockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if s.faults.BlocksErr != nil {
		return nil, drawingerrors.NewEnumerationError("blocks", s.faults.BlocksErr)
	}

	records := make([]drawing.BlockRecord, 0, len(s.drawing.Blocks))
	for _, b := range s.drawing.Blocks {
		records = append(records, s.record(b))
	}
	return records, nil
}

// ModelSpace implements drawing.Session.
func (s *Session) ModelSpace(_ context.Context) ([]drawing.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAvailable(); err != nil {
		return nil, err
	}
	if s.faults.ModelSpaceErr != nil {
		return nil, drawingerrors.NewEnumerationError("model space", s.faults.ModelSpaceErr)
	}
	return slices.Clone(s.drawing.ModelSpace), nil
}

// LookupBlock implements drawing.Session.
func (s *Session) LookupBlock(_ context.Context, name string) (drawing.BlockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAvailable(); err != nil {
		return drawing.BlockRecord{}, err
	}

	s.lookupCalls[name]++
	if hook := s.faults.LookupHook; hook != nil {
		if err := hook(name, s.lookupCalls[name]); err != nil {
			return drawing.BlockRecord{}, err
		}
	}

	idx := s.indexOf(name)
	if idx < 0 {
		return drawing.BlockRecord{}, drawingerrors.NewNotFoundError(name)
	}
	return s.record(s.drawing.Blocks[idx]), nil
}

// PurgeBlock implements drawing.Session.
func (s *Session) PurgeBlock(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAvailable(); err != nil {
		return err
	}

	s.purgeCalls = append(s.purgeCalls, name)

	if err, ok := s.faults.PurgeErr[name]; ok {
		return drawingerrors.NewCommandError(name, err)
	}
	if s.faults.RejectPurge[name] {
		return nil
	}

	idx := s.indexOf(name)
	if idx < 0 {
		return nil
	}
	b := s.drawing.Blocks[idx]
	if b.Layout || b.XRef || s.referenced(name) {
		return nil
	}

	s.drawing.Blocks = slices.Delete(s.drawing.Blocks, idx, idx+1)
	return nil
}

// Close implements drawing.Session.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Snapshot returns a deep copy of the current drawing state.
func (s *Session) Snapshot() Drawing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDrawing(s.drawing)
}

// PurgeCalls returns the block names PurgeBlock was called with, in order.
func (s *Session) PurgeCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.purgeCalls)
}

func (s *Session) checkAvailable() error {
	if s.closed {
		return drawingerrors.NewSessionUnavailableError(errSessionClosed)
	}
	if s.faults.Unavailable {
		return drawingerrors.NewSessionUnavailableError(nil)
	}
	return nil
}

func (s *Session) record(b Block) drawing.BlockRecord {
	rec := drawing.BlockRecord{
		Name:           b.Name,
		IsLayout:       b.Layout,
		IsXRef:         b.XRef,
		AttributeCount: len(b.Attributes),
	}
	if err, ok := s.faults.AttributeErr[b.Name]; ok {
		rec.AttributeCount = 0
		rec.AttributeErr = err
	}
	return rec
}

func (s *Session) indexOf(name string) int {
	return slices.IndexFunc(s.drawing.Blocks, func(b Block) bool {
		return b.Name == name
	})
}

// referenced reports whether any space or other definition references name.
func (s *Session) referenced(name string) bool {
	for _, space := range [][]drawing.Entity{s.drawing.ModelSpace, s.drawing.PaperSpace} {
		for _, e := range space {
			if e.IsBlockReference() && referencedName(e) == name {
				return true
			}
		}
	}
	for _, b := range s.drawing.Blocks {
		if b.Name != name && slices.Contains(b.Contains, name) {
			return true
		}
	}
	return false
}

func referencedName(e drawing.Entity) string {
	if e.EffectiveName != "" {
		return e.EffectiveName
	}
	return e.Name
}

func cloneDrawing(d Drawing) Drawing {
	out := Drawing{
		Name:       d.Name,
		Blocks:     make([]Block, 0, len(d.Blocks)),
		ModelSpace: slices.Clone(d.ModelSpace),
		PaperSpace: slices.Clone(d.PaperSpace),
	}
	for _, b := range d.Blocks {
		b.Attributes = slices.Clone(b.Attributes)
		b.Contains = slices.Clone(b.Contains)
		out.Blocks = append(out.Blocks, b)
	}
	return out
}
