package purge

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/blockpurge/pkg/drawing/memory"
	"github.com/marmos91/blockpurge/pkg/drawing/sessiontest"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage(StageCatalog, time.Second)
		m.SetCatalogBlocks(1)
		m.SetInactiveBlocks(1)
		m.RecordOutcome(Outcome{Name: "A"})
	})
}

func TestMetrics_UnregisteredIsUsable(t *testing.T) {
	m := NewMetrics(nil)
	m.SetCatalogBlocks(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.catalogBlocks))
}

func TestMetrics_Names(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	_, err := Analyze(t.Context(), memory.New(sessiontest.Fixture()), WithMetrics(m))
	require.NoError(t, err)
	m.RecordOutcome(Outcome{Name: "A", Succeeded: true})

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"blockpurge_purge_attempts_total",
		"blockpurge_catalog_blocks",
		"blockpurge_inactive_blocks",
		"blockpurge_stage_duration_seconds",
	}, names)

	assert.Equal(t, 9.0, testutil.ToFloat64(m.catalogBlocks))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.inactiveBlocks))
	assert.Equal(t, 3, testutil.CollectAndCount(m.stageDuration), "catalog, scan and resolve")
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
