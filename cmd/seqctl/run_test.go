package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/librescoot/sequential"
	"github.com/librescoot/sequential/binding"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const definition = "../../testdata/onboarding.toml"

func execute(t *testing.T, stdin string, args ...string) ([]result, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())

	var results []result
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r result
		require.NoError(t, dec.Decode(&r))
		results = append(results, r)
	}
	return results, err
}

func TestRunScript(t *testing.T) {
	results, err := execute(t, "", "run", definition, "next", "next", "goto", "3", "prev", "state")
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.True(t, results[0].OK)
	assert.Equal(t, 1, results[0].State.CurrentPanel)

	assert.False(t, results[1].OK, "billing is disabled")
	assert.Equal(t, 1, results[1].State.CurrentPanel)

	assert.True(t, results[2].OK)
	assert.True(t, results[2].State.IsLast)
	assert.Equal(t, 100.0, results[2].State.Progress)

	assert.False(t, results[3].OK, "cannot enter billing going back")
	assert.Equal(t, "state", results[4].Command)
	assert.Equal(t, sequential.PanelID("done"), results[4].State.PanelID)
}

func TestRunReader(t *testing.T) {
	stdin := "# onboarding\n\npanels\ngoto x\nfly\nnext\nquit\nnext\n"
	results, err := execute(t, stdin, "run", definition)
	require.NoError(t, err)
	require.Len(t, results, 4)

	require.Len(t, results[0].Panels, 4)
	assert.Equal(t, sequential.PanelID("billing"), results[0].Panels[2].ID)
	assert.True(t, results[0].Panels[2].Disabled)

	assert.Contains(t, results[1].Error, "invalid index")
	assert.Contains(t, results[2].Error, "unknown command")
	assert.True(t, results[3].OK)
	assert.Equal(t, 1, results[3].State.CurrentPanel)
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "", "run")
	assert.Error(t, err)

	_, err = execute(t, "", "run", "missing.toml", "next")
	assert.Error(t, err)

	_, err = execute(t, "", "run", definition, "jump")
	assert.Error(t, err)

	_, err = execute(t, "", "--config", "missing-seqctl.toml", "run", definition)
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "seqctl.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[log]\nlevel = \"debug\"\nformat = \"json\"\n"), 0o644))

	results, err := execute(t, "", "--config", cfg, "run", definition, "state")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestWatchDefinition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wizard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("panels:\n  - id: a\n  - id: b\n  - id: c\n"), 0o644))

	def, err := sequential.LoadDefinition(path)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := def.Build(sequential.WithLogger(logger))
	require.NoError(t, err)
	b := binding.New(m, binding.WithLogger(logger))
	defer b.Close()

	require.True(t, b.GoTo(context.Background(), 2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := watchDefinition(ctx, path, b, logger)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("panels:\n  - id: a\n"), 0o644))

	require.Eventually(t, func() bool {
		return b.State().TotalPanels == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, b.State().CurrentPanel)
}
