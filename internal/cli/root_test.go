package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestGenerate_DefaultCommand(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := run(t, "-o", dir, "--backends", "python", "--log-level", "warn")
	require.NoError(t, err)

	assert.Equal(t, 20, strings.Count(stdout, "shellwrappers += "))
	_, err = os.Stat(filepath.Join(dir, "test", "python", "Basic.py"))
	assert.NoError(t, err)
}

func TestGenerate_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "bindgen.json")
	data, err := json.Marshal(map[string]any{
		"output_dir":    filepath.Join(dir, "ignored"),
		"backends":      []string{"ruby"},
		"fragment_file": "",
		"log_format":    "json",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o600))

	stdout, stderr, err := run(t, "generate", "--config", cfgPath, "-o", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `"run_id"`)

	_, err = os.Stat(filepath.Join(dir, "test", "ruby", "Basic.rb"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ignored"))
	assert.True(t, os.IsNotExist(err))
}

func TestList(t *testing.T) {
	stdout, _, err := run(t, "list", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "DataTypeMapFloatFloat")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "-o", dir, "--fragment", "", "--log-level", "error")
	require.NoError(t, err)

	stdout, _, err := run(t, "check", "-o", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "120 files ok\n", stdout)
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "-o", t.TempDir(), "--backends", "perl")
	assert.ErrorIs(t, err, common.ErrUnknownBackend)

	_, _, err = run(t, "--log-format", "xml")
	assert.Error(t, err)

	_, _, err = run(t, "list", "extra")
	assert.Error(t, err)

	_, _, err = run(t, "-c", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
