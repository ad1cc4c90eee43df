package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CageChen/dirscope/internal/cli"
)

func TestCensusCommandJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "a"), []byte("abc"), 0o644))

	cfgFile := filepath.Join(t.TempDir(), "dirscope.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("port: 8080\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"census", dir, "--config", cfgFile, "-o", "json"})
	require.NoError(t, cmd.Execute())

	var r cli.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, dir, r.Directory)
	assert.Equal(t, uint64(1), r.Files)
	assert.Equal(t, uint64(2), r.Directories)
}

func TestCensusCommandRejectsOutput(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"census", t.TempDir(), "-o", "xml"})
	assert.Error(t, cmd.Execute())
}

func TestConfigInitCommand(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "dirscope.yaml")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--config", cfgFile})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), cfgFile)

	data, err := os.ReadFile(cfgFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port: 8080")

	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--config", cfgFile})
	assert.Error(t, cmd.Execute())
}
