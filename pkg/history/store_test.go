package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/blockpurge/pkg/drawing/memory"
	"github.com/marmos91/blockpurge/pkg/drawing/sessiontest"
	"github.com/marmos91/blockpurge/pkg/purge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRun(drawing string, startedAt time.Time) *Run {
	return &Run{
		Drawing:    drawing,
		Backend:    "snapshot",
		State:      string(purge.StatePartial),
		Candidates: 2,
		Deleted:    1,
		Failed:     1,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(2 * time.Second),
		Outcomes: []RunOutcome{
			{Position: 2, Name: "TAG", Reason: string(purge.ReasonVerificationFailed), Detail: "block still exists"},
			{Position: 1, Name: "OLD_LOGO", Succeeded: true},
		},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	id, err := s.RecordRun(ctx, sampleRun("site.dwg", time.Now()))
	require.NoError(t, err)
	require.Len(t, id, 36)

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "site.dwg", run.Drawing)
	assert.Equal(t, string(purge.StatePartial), run.State)
	assert.Equal(t, 2*time.Second, run.Duration())

	require.Len(t, run.Outcomes, 2)
	assert.Equal(t, "OLD_LOGO", run.Outcomes[0].Name, "outcomes come back in attempt order")
	assert.True(t, run.Outcomes[0].Succeeded)
	assert.Equal(t, "TAG", run.Outcomes[1].Name)
	assert.Equal(t, id, run.Outcomes[1].RunID)
}

func TestGetRun(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	first := sampleRun("a.dwg", time.Now())
	first.ID = "aaaa1111-0000-0000-0000-000000000000"
	_, err := s.RecordRun(ctx, first)
	require.NoError(t, err)

	second := sampleRun("b.dwg", time.Now())
	second.ID = "aaaa2222-0000-0000-0000-000000000000"
	_, err = s.RecordRun(ctx, second)
	require.NoError(t, err)

	t.Run("ByPrefix", func(t *testing.T) {
		run, err := s.GetRun(ctx, "aaaa2")
		require.NoError(t, err)
		assert.Equal(t, "b.dwg", run.Drawing)
		assert.Len(t, run.Outcomes, 2)
	})

	t.Run("AmbiguousPrefix", func(t *testing.T) {
		_, err := s.GetRun(ctx, "aaaa")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := s.GetRun(ctx, "ffff")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := s.GetRun(ctx, "  ")
		assert.ErrorIs(t, err, ErrRunNotFound)
	})
}

func TestRecordRun_Duplicate(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	run := sampleRun("a.dwg", time.Now())
	run.ID = "11111111-2222-3333-4444-555555555555"
	_, err := s.RecordRun(ctx, run)
	require.NoError(t, err)

	again := sampleRun("a.dwg", time.Now())
	again.ID = run.ID
	_, err = s.RecordRun(ctx, again)
	assert.ErrorIs(t, err, ErrDuplicateRun)
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first.dwg", "second.dwg", "third.dwg"} {
		_, err := s.RecordRun(ctx, sampleRun(name, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	t.Run("NewestFirst", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "third.dwg", runs[0].Drawing)
		assert.Equal(t, "first.dwg", runs[2].Drawing)
		assert.Empty(t, runs[0].Outcomes)
	})

	t.Run("Limit", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "second.dwg", runs[1].Drawing)
	})
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(t.Context(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestNew_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := New(&Config{SQLite: SQLiteConfig{Path: path}})
	require.NoError(t, err)
	ctx := t.Context()
	require.NoError(t, s.Healthcheck(ctx))

	id, err := s.RecordRun(ctx, sampleRun("a.dwg", time.Now()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := New(&Config{SQLite: SQLiteConfig{Path: path}})
	require.NoError(t, err)
	defer reopened.Close()

	run, err := reopened.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Len(t, run.Outcomes, 2)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&Config{Type: "mysql"})
	assert.Error(t, err)

	_, err = New(&Config{Type: DatabaseTypePostgres})
	assert.Error(t, err)
}

func TestNewRun(t *testing.T) {
	session := memory.New(sessiontest.Fixture())
	ctx := t.Context()

	analysis, err := purge.Analyze(ctx, session)
	require.NoError(t, err)
	report := purge.Purge(ctx, session, analysis.Inactive)

	started := time.Now().Add(-time.Second)
	run := NewRun(analysis, report, report.State(), "snapshot", started)

	assert.Equal(t, "fixture.dwg", run.Drawing)
	assert.Equal(t, "snapshot", run.Backend)
	assert.Equal(t, len(analysis.Inactive), run.Candidates)
	assert.Equal(t, report.DeletedCount, run.Deleted)
	assert.Equal(t, len(report.Failed), run.Failed)
	assert.Empty(t, run.Error)
	require.Len(t, run.Outcomes, len(report.Outcomes))
	for i, o := range run.Outcomes {
		assert.Equal(t, i+1, o.Position)
		assert.Equal(t, report.Outcomes[i].Name, o.Name)
	}
	assert.True(t, run.FinishedAt.After(started))
}

func TestNewRun_WithoutReport(t *testing.T) {
	analysis := &purge.Analysis{Drawing: "a.dwg", Inactive: []string{"X", "Y"}}

	run := NewRun(analysis, nil, purge.StateDeclined, "autocad", time.Now())
	assert.Equal(t, string(purge.StateDeclined), run.State)
	assert.Equal(t, 2, run.Candidates)
	assert.Zero(t, run.Deleted)
	assert.Nil(t, run.Outcomes)
}

func TestConfig(t *testing.T) {
	t.Run("SQLiteDefaultPath", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/tmp/state")
		c := &Config{}
		c.ApplyDefaults()
		assert.Equal(t, DatabaseTypeSQLite, c.Type)
		assert.Equal(t, filepath.Join("/tmp/state", "blockpurge", "history.db"), c.SQLite.Path)
		assert.NoError(t, c.Validate())
	})

	t.Run("PostgresDefaults", func(t *testing.T) {
		c := &Config{Type: DatabaseTypePostgres, Postgres: PostgresConfig{
			Host: "db", Database: "blockpurge", User: "cad", Password: "secret",
		}}
		c.ApplyDefaults()
		assert.Equal(t, 5432, c.Postgres.Port)
		assert.Equal(t, "disable", c.Postgres.SSLMode)
		assert.NoError(t, c.Validate())
		assert.Equal(t, "host=db port=5432 user=cad password=secret dbname=blockpurge sslmode=disable", c.Postgres.DSN())
	})
}
