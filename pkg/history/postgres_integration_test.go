//go:build integration

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres starts a throwaway PostgreSQL container and returns a config
// pointing at it. PostgreSQL logs "ready to accept connections" twice during
// startup, so the wait strategy needs the second occurrence.
func startPostgres(t *testing.T) *Config {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("blockpurge_test"),
		postgres.WithUsername("blockpurge_test"),
		postgres.WithPassword("blockpurge_test"),
		testcontainers.WithWaitStrategyAndDeadline(5*time.Minute,
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return &Config{
		Type: DatabaseTypePostgres,
		Postgres: PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			Database: "blockpurge_test",
			User:     "blockpurge_test",
			Password: "blockpurge_test",
			SSLMode:  "disable",
		},
	}
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	s, err := New(startPostgres(t))
	require.NoError(t, err)
	defer s.Close()
	ctx := t.Context()

	require.NoError(t, s.Healthcheck(ctx))

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)
	var ids []string
	for i, name := range []string{"a.dwg", "b.dwg"} {
		id, err := s.RecordRun(ctx, sampleRun(name, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.dwg", runs[0].Drawing)

	run, err := s.GetRun(ctx, ids[0][:8])
	require.NoError(t, err)
	assert.Equal(t, "a.dwg", run.Drawing)
	require.Len(t, run.Outcomes, 2)
	assert.Equal(t, "OLD_LOGO", run.Outcomes[0].Name)

	dup := sampleRun("a.dwg", base)
	dup.ID = ids[0]
	_, err = s.RecordRun(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateRun)
}
