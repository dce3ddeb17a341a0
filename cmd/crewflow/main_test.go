package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/crewflow"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writePreset(t *testing.T, name string) string {
	t.Helper()
	snap, err := crewflow.Preset(name)
	require.NoError(t, err)
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name+".json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestGenerateFromFile(t *testing.T) {
	path := writePreset(t, "simple-task")

	out, err := execute(t, "", "generate", path)
	require.NoError(t, err)

	snap, _ := crewflow.Preset("simple-task")
	assert.Equal(t, crewflow.Generate(snap), out)
	assert.Contains(t, out, "result = crew.kickoff()")
}

func TestGenerateFromStdin(t *testing.T) {
	in := `{"nodes":[{"id":"a1","type":"agent","data":{"role":"R","goal":"G","backstory":"B","tools":"x, y"}}],"edges":[]}`

	out, err := execute(t, in, "generate", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `tools=["x", "y"]`)
	assert.NotContains(t, out, "Crew(")
}

func TestGenerateJSONFormat(t *testing.T) {
	in := `{"nodes":[{"id":"c1","type":"crew","position":{"x":1,"y":2},"data":{"name":"C"}}]}`

	out, err := execute(t, in, "--format", "json", "generate", "-")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []any{}, got["edges"])
	node := got["nodes"].([]any)[0].(map[string]any)
	assert.NotContains(t, node, "position")
	assert.Equal(t, "crew", node["type"])
}

func TestGenerateMalformed(t *testing.T) {
	_, err := execute(t, `[]`, "generate", "-")
	require.Error(t, err)
	assert.ErrorIs(t, err, crewflow.ErrMalformedSnapshot)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestGenerateMissingFile(t *testing.T) {
	_, err := execute(t, "", "generate", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, exitCommandError, exitCode(err))
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := execute(t, "", "validate", writePreset(t, "research-team"))
		require.NoError(t, err)
		assert.Contains(t, out, "5 nodes, 4 edges")
	})

	t.Run("dangling edge", func(t *testing.T) {
		in := `{"nodes":[],"edges":[{"id":"e","source":"x","target":"y"}]}`
		out, err := execute(t, in, "validate", "-")
		require.Error(t, err)
		assert.Equal(t, exitFailure, exitCode(err))
		assert.Contains(t, out, "✗")
		assert.Contains(t, out, "unknown source")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, `{"nodes": 3}`, "--format", "json", "validate", "-")
		require.Error(t, err)

		var result validationResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.False(t, result.Valid)
		assert.NotEmpty(t, result.Error)
	})
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "", "presets")
	require.NoError(t, err)
	assert.Equal(t, "research-team\nsimple-task\n", out)

	out, err = execute(t, "", "presets", "simple-task")
	require.NoError(t, err)
	snap, err := crewflow.DecodeSnapshot([]byte(out))
	require.NoError(t, err)
	assert.Len(t, snap.Nodes, 3)

	_, err = execute(t, "", "presets", "nope")
	assert.ErrorIs(t, err, crewflow.ErrUnknownPreset)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "", "--format", "yaml", "presets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crewflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9000\"\nlog:\n  level: warn\n"), 0o644))

	opts := &rootOptions{ConfigPath: path, LogLevel: "debug"}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Store.Driver)
}

func TestLoadConfigRejectsBadLogLevel(t *testing.T) {
	_, err := (&rootOptions{LogLevel: "loud"}).loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg, err := (&rootOptions{}).loadConfig()
	require.NoError(t, err)
	cfg.Store.Driver = "sqlite"
	cfg.Store.DSN = filepath.Join(t.TempDir(), "flows.db")

	store, release, err := openStore(t.Context(), cfg.Store)
	require.NoError(t, err)
	defer release()

	snap, _ := crewflow.Preset("simple-task")
	require.NoError(t, store.SaveFlow(t.Context(), "f1", snap))
	got, err := store.GetFlow(t.Context(), "f1")
	require.NoError(t, err)
	assert.Len(t, got.Edges, 2)
}
