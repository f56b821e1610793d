package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFile(t *testing.T) (*File, string) {
	t.Helper()
	dir := t.TempDir()
	return NewFile(Options{OutputDir: dir}, "python", "py"), dir
}

func TestFile_ClosedRejectsOperations(t *testing.T) {
	f, _ := newTestFile(t)

	assert.Equal(t, Closed, f.State())
	assert.Empty(t, f.Test())
	assert.ErrorIs(t, f.Require("get"), common.ErrContractViolation)
	assert.ErrorIs(t, f.Close("footer"), common.ErrContractViolation)
	assert.NoError(t, f.Abort())
	assert.Empty(t, f.Files())
}

func TestFile_OpenWriteClose(t *testing.T) {
	f, dir := newTestFile(t)

	require.NoError(t, f.Open("Basic"))
	assert.Equal(t, Open, f.State())
	assert.Equal(t, "Basic", f.Test())
	assert.NoError(t, f.Require("put"))
	assert.ErrorIs(t, f.Open("Other"), common.ErrContractViolation)
	assert.Equal(t, "Basic", f.Test(), "failed open leaves the current test alone")

	assert.Equal(t, 0, f.NextID())
	assert.Equal(t, 1, f.NextID())
	f.Write("body\n")
	require.NoError(t, f.Close("end\n"))

	assert.Equal(t, Closed, f.State())
	assert.Empty(t, f.Test())

	rel := filepath.Join("test", "python", "Basic.py")
	assert.Equal(t, []string{rel}, f.Files())

	data, err := os.ReadFile(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, "body\nend\n", string(data))

	info, err := os.Stat(filepath.Join(dir, rel))
	require.NoError(t, err)
	assert.Equal(t, common.ExecutableMode, info.Mode().Perm())
}

func TestFile_IDsRestartPerProgram(t *testing.T) {
	f, _ := newTestFile(t)

	require.NoError(t, f.Open("A"))
	f.NextID()
	f.NextID()
	require.NoError(t, f.Close(""))

	require.NoError(t, f.Open("B"))
	assert.Equal(t, 0, f.NextID())
	require.NoError(t, f.Close(""))

	assert.Equal(t, []string{
		filepath.Join("test", "python", "A.py"),
		filepath.Join("test", "python", "B.py"),
	}, f.Files())
}

func TestFile_AbortReleasesWithoutRecording(t *testing.T) {
	f, dir := newTestFile(t)

	require.NoError(t, f.Open("Broken"))
	f.Write("partial")
	require.NoError(t, f.Abort())

	assert.Equal(t, Closed, f.State())
	assert.Empty(t, f.Files())
	assert.NoError(t, f.Abort(), "abort on a closed file is a no-op")

	data, err := os.ReadFile(filepath.Join(dir, "test", "python", "Broken.py"))
	require.NoError(t, err)
	assert.Empty(t, string(data), "buffered text is dropped")

	require.NoError(t, f.Open("Broken"), "the file can be opened again after abort")
	require.NoError(t, f.Close(""))
}

func TestFile_OpenFailureStaysClosed(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, nil, 0o600))

	f := NewFile(Options{OutputDir: root}, "ruby", "rb")
	err := f.Open("T")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrContractViolation)
	assert.Equal(t, Closed, f.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "closed", Closed.String())
}

func TestOptions_SrcDir(t *testing.T) {
	assert.Equal(t, `"${HYPERDEX_SRCDIR}"`, Options{SrcDirVar: "HYPERDEX_SRCDIR"}.SrcDir())
}
