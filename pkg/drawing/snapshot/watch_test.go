package snapshot_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/blockpurge/pkg/drawing/sessiontest"
	"github.com/marmos91/blockpurge/pkg/drawing/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_CallsOnChange(t *testing.T) {
	path := writeExport(t, "plan.yaml", sessiontest.Fixture())
	other := filepath.Join(filepath.Dir(path), "other.yaml")

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	calls := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- snapshot.Watch(ctx, path, 20*time.Millisecond, func() error {
			calls <- struct{}{}
			return nil
		})
	}()

	// Keep touching the files until the watcher is up and fires for ours.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(other, []byte("ignored"), 0o644)
		_ = os.WriteFile(path, []byte("name: plan.dwg\n"), 0o644)
		return len(calls) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after cancel")
	}
}

func TestWatch_StopsOnCallbackError(t *testing.T) {
	path := writeExport(t, "plan.yaml", sessiontest.Fixture())
	stop := errors.New("stop")

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- snapshot.Watch(ctx, path, 10*time.Millisecond, func() error { return stop })
	}()

	var err error
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("name: plan.dwg\n"), 0o644)
		select {
		case err = <-done:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)
	assert.ErrorIs(t, err, stop)
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := snapshot.Watch(t.Context(), filepath.Join(t.TempDir(), "nope", "plan.yaml"), 0, func() error { return nil })
	assert.Error(t, err)
}
