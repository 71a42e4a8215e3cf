package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-excel/reader_errors"
)

func writeInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("Name,Qty\nwidget,3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("Name,Qty\ngadget,4\n"), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCommand(viper.New())
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Stdout(t *testing.T) {
	dir := writeInput(t)

	out, err := execute(t, "--path", filepath.Join(dir, "*.csv"), "--header", "-n", "2", "--log-level", "off")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.ElementsMatch(t, []string{
		`{"name":"widget","qty":"3"}`,
		`{"name":"gadget","qty":"4"}`,
	}, lines)
}

func TestRootCommand_ConfigFileWithOverrides(t *testing.T) {
	dir := writeInput(t)
	configPath := filepath.Join(t.TempDir(), "reader.hcl")
	require.NoError(t, os.WriteFile(configPath, []byte(`
path      = "`+filepath.Join(dir, "a.csv")+`"
skip_rows = 1
`), 0o644))

	// the config skips the header line as data; the flag swaps to header mode
	out, err := execute(t, "--config", configPath, "--log-level", "off")
	require.NoError(t, err)
	assert.Equal(t, `{"column_1":"widget","column_2":"3"}`+"\n", out)

	out, err = execute(t, "--config", configPath, "--header", "--skip-rows", "0", "--log-level", "off")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"widget","qty":"3"}`+"\n", out)
}

func TestRootCommand_OutputDir(t *testing.T) {
	dir := writeInput(t)
	outDir := t.TempDir()

	out, err := execute(t, "--path", dir, "-n", "2", "--output-dir", outDir, "--log-level", "off")
	require.NoError(t, err)
	assert.Empty(t, out)

	written, err := filepath.Glob(filepath.Join(outDir, "*.jsonl"))
	require.NoError(t, err)
	assert.Len(t, written, 2)
}

func TestRootCommand_Errors(t *testing.T) {
	_, err := execute(t, "--log-level", "off")
	assert.True(t, reader_errors.IsCode(err, reader_errors.RequiredValue), "got %v", err)

	_, err = execute(t, "--path", filepath.Join(t.TempDir(), "missing", "*.xlsx"), "--log-level", "off")
	assert.True(t, reader_errors.IsCode(err, reader_errors.InvalidSourcePath), "got %v", err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xlsx"), []byte("nope"), 0o644))
	_, err = execute(t, "--path", dir, "--log-level", "off")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files could not be read")
}
