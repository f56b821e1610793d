package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmitter(t *testing.T) (*Emitter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewEmitter(Config{
		OutputDir:  dir,
		SrcDirVar:  "HYPERDEX_SRCDIR",
		RunnerPath: "test/runner.py",
		Daemons:    1,
	}), dir
}

func TestEmitter_Emit(t *testing.T) {
	tests := []struct {
		name     string
		launcher Launcher
		wantPath string
		want     string
	}{
		{
			name: "python",
			launcher: Launcher{
				Backend: "python",
				Test:    "Basic",
				Command: `python "${HYPERDEX_SRCDIR}"/test/python/Basic.py`,
				Space:   "space kv key k attribute v",
			},
			wantPath: "test/sh/bindings.python.Basic.sh",
			want: `#!/bin/sh

python "${HYPERDEX_SRCDIR}"/test/runner.py --space="space kv key k attribute v" --daemons=1 -- \
    python "${HYPERDEX_SRCDIR}"/test/python/Basic.py {HOST} {PORT}
`,
		},
		{
			name: "java with compile step",
			launcher: Launcher{
				Backend:    "java",
				Test:       "Basic",
				Command:    "java -ea Basic",
				PreCommand: "javac Basic.java",
				Space:      "space kv key k attribute v",
			},
			wantPath: "test/sh/bindings.java.Basic.sh",
			want: `#!/bin/sh
javac Basic.java

python "${HYPERDEX_SRCDIR}"/test/runner.py --space="space kv key k attribute v" --daemons=1 -- \
    java -ea Basic {HOST} {PORT}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, dir := newEmitter(t)
			rel, err := e.Emit(tt.launcher)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, rel)

			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, string(data)))

			if runtime.GOOS != "windows" {
				fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o755), fi.Mode().Perm())
			}
		})
	}
}

func TestEmitter_RunnerSettings(t *testing.T) {
	dir := t.TempDir()
	e := NewEmitter(Config{OutputDir: dir, SrcDirVar: "SRC", RunnerPath: "tools/run.py", Daemons: 4})
	rel, err := e.Emit(Launcher{Backend: "ruby", Test: "T", Command: "ruby t.rb", Space: `space "x"`})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Contains(t, string(data), `python "${SRC}"/tools/run.py --space="space \"x\"" --daemons=4 -- \`)
}

func TestEmitter_Fragment(t *testing.T) {
	e, _ := newEmitter(t)
	for _, b := range []string{"python", "ruby"} {
		_, err := e.Emit(Launcher{Backend: b, Test: "Basic", Command: b, Space: "space kv key k"})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, e.WriteFragment(&buf))
	assert.Equal(t, "shellwrappers += test/sh/bindings.python.Basic.sh\nshellwrappers += test/sh/bindings.ruby.Basic.sh\n", buf.String())
	assert.Len(t, e.Paths(), 2)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `a\$b\"c\\d`, shellQuote(`a$b"c\d`))
}
