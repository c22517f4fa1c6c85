package cmdutil

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/marmos91/blockpurge/internal/cli/output"
	"github.com/marmos91/blockpurge/pkg/purge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitForState(t *testing.T) {
	for _, s := range purge.States() {
		err := ExitForState(s, true)
		if !s.Failed() {
			assert.NoError(t, err, s)
			continue
		}

		var stateErr *StateError
		require.ErrorAs(t, err, &stateErr)
		assert.Equal(t, s, stateErr.State)
		assert.True(t, stateErr.Reported)
		assert.Contains(t, err.Error(), string(s))
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	flags := &GlobalFlags{
		ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"),
		Backend:    "AutoCAD",
		Drawing:    "plan.yaml",
		Verbose:    true,
	}
	cfg, err := flags.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "autocad", cfg.Session.Backend)
	assert.Equal(t, "plan.yaml", cfg.Session.Snapshot.Path)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)

	flags.Backend = "bricscad"
	_, err = flags.LoadConfig()
	assert.ErrorContains(t, err, "invalid flags")
}

func TestPrinter(t *testing.T) {
	flags := &GlobalFlags{Output: "yaml", NoColor: true}
	p, err := flags.Printer(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, output.FormatYAML, p.Format())
	assert.False(t, p.ColorEnabled())

	flags.Output = "xml"
	_, err = flags.Printer(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestPrintOutput(t *testing.T) {
	table := output.NewTableData("name")
	table.AddRow("TAG")

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		p := output.NewPrinter(&buf, output.FormatTable, false)
		require.NoError(t, PrintOutput(p, nil, true, "Nothing here.", table))
		assert.Equal(t, "Nothing here.\n", buf.String())
	})

	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		p := output.NewPrinter(&buf, output.FormatTable, false)
		require.NoError(t, PrintOutput(p, nil, false, "", table))
		assert.Contains(t, buf.String(), "NAME")
		assert.Contains(t, buf.String(), "TAG")
	})

	t.Run("JSONIgnoresEmptyMessage", func(t *testing.T) {
		var buf bytes.Buffer
		p := output.NewPrinter(&buf, output.FormatJSON, false)
		require.NoError(t, PrintOutput(p, []string{}, true, "Nothing here.", table))
		assert.JSONEq(t, "[]", buf.String())
	})
}

func TestEmptyOr(t *testing.T) {
	assert.Equal(t, "-", EmptyOr("", "-"))
	assert.Equal(t, "x", EmptyOr("x", "-"))
}
