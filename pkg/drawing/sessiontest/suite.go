// Package sessiontest provides a conformance suite for drawing.Session
// implementations that can be seeded from a memory.Drawing fixture.
package sessiontest

import (
	"testing"

	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
	"github.com/marmos91/blockpurge/pkg/drawing/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SessionFactory creates a fresh Session holding the given drawing.
// The factory receives *testing.T so it can use t.TempDir() and t.Cleanup().
type SessionFactory func(t *testing.T, d memory.Drawing) drawing.Session

// Fixture returns the drawing every suite test starts from.
//
//   - *Model_Space and *Paper_Space are layout blocks
//   - SITE is an external reference
//   - DOOR is referenced from model space through a dynamic block (*U12)
//   - WINDOW is referenced only from paper space
//   - BOLT is referenced only from inside FRAME's definition
//   - FRAME, TAG and OLD_LOGO are unreferenced
func Fixture() memory.Drawing {
	return memory.Drawing{
		Name: "fixture.dwg",
		Blocks: []memory.Block{
			{Name: "*Model_Space", Layout: true},
			{Name: "*Paper_Space", Layout: true},
			{Name: "SITE", XRef: true},
			{Name: "DOOR", Attributes: []string{"WIDTH", "FIRE_RATING"}},
			{Name: "WINDOW"},
			{Name: "BOLT"},
			{Name: "FRAME", Contains: []string{"BOLT"}},
			{Name: "TAG", Attributes: []string{"ID"}},
			{Name: "OLD_LOGO"},
		},
		ModelSpace: []drawing.Entity{
			{Type: "AcDbLine"},
			{Type: drawing.EntityBlockReference, Name: "*U12", EffectiveName: "DOOR"},
			{Type: drawing.EntityBlockReference, Name: "DOOR", EffectiveName: "DOOR"},
			{Type: "AcDbCircle"},
		},
		PaperSpace: []drawing.Entity{
			{Type: drawing.EntityBlockReference, Name: "WINDOW", EffectiveName: "WINDOW"},
		},
	}
}

// RunConformanceSuite runs every conformance test against factory.
func RunConformanceSuite(t *testing.T, factory SessionFactory) {
	t.Helper()

	t.Run("Enumeration", func(t *testing.T) {
		runEnumerationTests(t, factory)
	})

	t.Run("Lookup", func(t *testing.T) {
		runLookupTests(t, factory)
	})

	t.Run("Purge", func(t *testing.T) {
		runPurgeTests(t, factory)
	})
}

func runEnumerationTests(t *testing.T, factory SessionFactory) {
	t.Run("BlocksInTableOrder", func(t *testing.T) {
		s := factory(t, Fixture())
		blocks, err := s.Blocks(t.Context())
		require.NoError(t, err)

		names := make([]string, 0, len(blocks))
		for _, b := range blocks {
			names = append(names, b.Name)
		}
		assert.Equal(t, []string{
			"*Model_Space", "*Paper_Space", "SITE", "DOOR", "WINDOW",
			"BOLT", "FRAME", "TAG", "OLD_LOGO",
		}, names)
	})

	t.Run("BlockFlags", func(t *testing.T) {
		s := factory(t, Fixture())
		blocks, err := s.Blocks(t.Context())
		require.NoError(t, err)

		byName := make(map[string]drawing.BlockRecord, len(blocks))
		for _, b := range blocks {
			byName[b.Name] = b
		}
		assert.True(t, byName["*Model_Space"].IsLayout)
		assert.True(t, byName["SITE"].IsXRef)
		assert.Equal(t, 2, byName["DOOR"].AttributeCount)
		assert.Equal(t, 0, byName["OLD_LOGO"].AttributeCount)
	})

	t.Run("ModelSpaceEntities", func(t *testing.T) {
		s := factory(t, Fixture())
		entities, err := s.ModelSpace(t.Context())
		require.NoError(t, err)
		require.Len(t, entities, 4)
		assert.False(t, entities[0].IsBlockReference())
		assert.True(t, entities[1].IsBlockReference())
		assert.Equal(t, "DOOR", entities[1].EffectiveName)
		assert.Equal(t, "*U12", entities[1].Name)
	})

	t.Run("DocumentName", func(t *testing.T) {
		s := factory(t, Fixture())
		assert.Equal(t, "fixture.dwg", s.Document())
	})
}

func runLookupTests(t *testing.T, factory SessionFactory) {
	t.Run("Found", func(t *testing.T) {
		s := factory(t, Fixture())
		rec, err := s.LookupBlock(t.Context(), "SITE")
		require.NoError(t, err)
		assert.Equal(t, "SITE", rec.Name)
		assert.True(t, rec.IsXRef)
	})

	t.Run("NotFound", func(t *testing.T) {
		s := factory(t, Fixture())
		_, err := s.LookupBlock(t.Context(), "NO_SUCH_BLOCK")
		require.Error(t, err)
		assert.True(t, drawingerrors.IsNotFound(err))
	})
}

func runPurgeTests(t *testing.T, factory SessionFactory) {
	tests := []struct {
		name    string
		block   string
		removed bool
	}{
		{"UnreferencedIsRemoved", "OLD_LOGO", true},
		{"UnreferencedWithAttributesIsRemoved", "TAG", true},
		{"ModelSpaceReferenceKeeps", "DOOR", false},
		{"PaperSpaceReferenceKeeps", "WINDOW", false},
		{"NestedReferenceKeeps", "BOLT", false},
		{"LayoutKeeps", "*Paper_Space", false},
		{"XRefKeeps", "SITE", false},
		{"ContainerOfNestedIsRemoved", "FRAME", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := factory(t, Fixture())
			ctx := t.Context()

			require.NoError(t, s.PurgeBlock(ctx, tt.block))

			_, err := s.LookupBlock(ctx, tt.block)
			if tt.removed {
				assert.True(t, drawingerrors.IsNotFound(err), "expected %s to be purged, got %v", tt.block, err)
			} else {
				assert.NoError(t, err, "expected %s to survive purge", tt.block)
			}
		})
	}

	t.Run("MissingNameIsNoop", func(t *testing.T) {
		s := factory(t, Fixture())
		assert.NoError(t, s.PurgeBlock(t.Context(), "NO_SUCH_BLOCK"))

		blocks, err := s.Blocks(t.Context())
		require.NoError(t, err)
		assert.Len(t, blocks, len(Fixture().Blocks))
	})

	t.Run("NestedBecomesPurgeableAfterContainerIsGone", func(t *testing.T) {
		s := factory(t, Fixture())
		ctx := t.Context()

		require.NoError(t, s.PurgeBlock(ctx, "FRAME"))
		require.NoError(t, s.PurgeBlock(ctx, "BOLT"))

		_, err := s.LookupBlock(ctx, "BOLT")
		assert.True(t, drawingerrors.IsNotFound(err))
	})
}
