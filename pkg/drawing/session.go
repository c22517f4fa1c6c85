// Package drawing defines the contract between blockpurge and a CAD drawing.
//
// A Session exposes exactly what the purge pipeline needs from the CAD
// application: the block-definition table, the model-space entities, a
// by-name lookup, and the native purge command. Backends live in
// subpackages (memory, snapshot, acad).
//
// Sessions are not safe for concurrent use. All calls into one Session must
// come from a single goroutine, one at a time.
package drawing

import "context"

// EntityBlockReference is the object name CAD applications report for a
// block-reference instance in a drawing space.
const EntityBlockReference = "AcDbBlockReference"

// BlockRecord is a block definition as reported by the session.
type BlockRecord struct {
	// Name is the definition name, unique within the block table.
	Name string `json:"name" yaml:"name"`

	// IsLayout is true for layout (model/paper space) blocks.
	IsLayout bool `json:"is_layout" yaml:"is_layout"`

	// IsXRef is true for external-reference blocks.
	IsXRef bool `json:"is_xref" yaml:"is_xref"`

	// AttributeCount is the number of attributes read for the block.
	AttributeCount int `json:"attribute_count" yaml:"attribute_count"`

	// AttributeErr is set when reading the attribute list failed.
	// Enumeration as a whole still succeeds.
	AttributeErr error `json:"-" yaml:"-"`
}

// Entity is an object in model space.
type Entity struct {
	// Type is the object name (e.g. "AcDbLine", "AcDbBlockReference").
	Type string `json:"type" yaml:"type"`

	// Name is the raw referenced block name. For dynamic blocks this is the
	// anonymous representation ("*U12"), not the definition name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// EffectiveName is the referenced definition after resolving dynamic or
	// anonymous block indirection. Only set for block references.
	EffectiveName string `json:"effective_name,omitempty" yaml:"effective_name,omitempty"`
}

// IsBlockReference reports whether the entity is a block-reference instance.
func (e Entity) IsBlockReference() bool {
	return e.Type == EntityBlockReference
}

// Session is a live handle on one open drawing.
//
// Errors returned by a Session should be *errors.Error values from
// pkg/drawing/errors so the pipeline can classify them; any other error is
// treated as an enumeration or lookup failure.
type Session interface {
	// Document returns the drawing name (e.g. "site-plan.dwg").
	Document() string

	// Blocks enumerates every block definition in table order.
	Blocks(ctx context.Context) ([]BlockRecord, error)

	// ModelSpace enumerates every entity in model space.
	ModelSpace(ctx context.Context) ([]Entity, error)

	// LookupBlock re-queries one block definition by name.
	// Returns an ErrNotFound error when no such definition exists.
	LookupBlock(ctx context.Context, name string) (BlockRecord, error)

	// PurgeBlock issues the native purge command for one definition.
	// A nil error does not mean the definition is gone; callers verify
	// with LookupBlock.
	PurgeBlock(ctx context.Context, name string) error

	// Close releases the session.
	Close() error
}
