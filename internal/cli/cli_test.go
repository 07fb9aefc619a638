package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/vecbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config with a local storage backend under a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vecbridge.yaml")
	yml := fmt.Sprintf("log:\n  level: error\nstorage:\n  backend: local\n  path: %s\n", filepath.Join(dir, "data"))
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	return path
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCommand(&RootOptions{extra: []vecbridge.Option{vecbridge.WithLogger(vecbridge.NoopLogger())}})
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "vecbridge", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"create", "list", "info", "delete", "upsert", "search", "health"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "", levelFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidGlobalFlags(t *testing.T) {
	_, err := run(t, "", "list", "--format", "yaml")
	require.ErrorContains(t, err, "invalid format")

	_, err = run(t, "", "list", "--log-level", "loud")
	require.ErrorContains(t, err, "invalid log level")
}

func TestCollectionWorkflow(t *testing.T) {
	cfg := writeConfig(t)

	out, err := run(t, "", "--config", cfg, "create", "docs", "--size", "2", "--distance", "euclid")
	require.NoError(t, err)
	assert.Contains(t, out, "created collection docs")

	_, err = run(t, "", "--config", cfg, "create", "docs", "--size", "2")
	require.ErrorContains(t, err, "already exists")

	points := `[
		{"id": 1, "vector": {"": [0, 0]}, "payload": {"color": "red"}},
		{"id": 2, "vector": {"": [1, 0]}, "payload": {"color": "blue"}},
		{"id": 3, "vector": {"": [5, 5]}}
	]`
	out, err = run(t, points, "--config", cfg, "upsert", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "upserted 3 points")

	out, err = run(t, "", "--config", cfg, "list")
	require.NoError(t, err)
	assert.Equal(t, "docs\n", out)

	out, err = run(t, "", "--config", cfg, "info", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "3 points")

	out, err = run(t, "", "--config", cfg, "--format", "json", "search", "docs", "--vector", "0.1,0", "--limit", "2", "--with-payload")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   []struct {
			ID      uint64         `json:"id"`
			Payload map[string]any `json:"payload"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, uint64(1), resp.Data[0].ID)
	assert.Equal(t, "red", resp.Data[0].Payload["color"])
	assert.Equal(t, uint64(2), resp.Data[1].ID)

	out, err = run(t, "", "--config", cfg, "delete", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted collection docs")

	out, err = run(t, "", "--config", cfg, "delete", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "does not exist")

	_, err = run(t, "", "--config", cfg, "info", "docs")
	require.ErrorContains(t, err, "not found")
}

func TestUpsertFromFile(t *testing.T) {
	cfg := writeConfig(t)
	file := filepath.Join(t.TempDir(), "points.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id": "7", "vector": {"": [1, 1]}}]`), 0o600))

	_, err := run(t, "", "--config", cfg, "create", "docs", "--size", "2")
	require.NoError(t, err)

	out, err := run(t, "", "--config", cfg, "upsert", "docs", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "upserted 1 points")

	_, err = run(t, "not json", "--config", cfg, "upsert", "docs")
	require.ErrorContains(t, err, "invalid points JSON")
}

func TestSearchInvalidVector(t *testing.T) {
	_, err := run(t, "", "search", "docs", "--vector", "1,x")
	require.ErrorContains(t, err, "invalid vector component")
}

func TestHealth(t *testing.T) {
	out, err := run(t, "", "health")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	out, err = run(t, "", "--format", "json", "health")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"state":"accepting"}}`, out)
}

func TestStartupFailure(t *testing.T) {
	_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	require.ErrorIs(t, err, vecbridge.ErrStartup)
}
