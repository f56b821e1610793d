package python

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/space"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	return New(backend.Options{OutputDir: dir, SrcDirVar: "HYPERDEX_SRCDIR"}), dir
}

func mustSchema(t *testing.T, decl string) *space.Schema {
	t.Helper()
	s, err := space.Parse(decl)
	require.NoError(t, err)
	return s
}

func readProgram(t *testing.T, dir, test string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "test", "python", test+".py"))
	require.NoError(t, err)
	return string(data)
}

func TestBackend_BasicScenario(t *testing.T) {
	b, dir := newBackend(t)
	k := value.Bytes("k")

	require.NoError(t, b.OpenTest("Basic", mustSchema(t, "space kv key k attribute v")))
	require.NoError(t, b.Get(k, nil, false))
	for _, v := range []string{"v1", "v2", "v3"} {
		require.NoError(t, b.Put(k, value.Record{"v": value.Bytes(v)}, true))
		require.NoError(t, b.Get(k, value.Record{"v": value.Bytes(v)}, true))
	}
	require.NoError(t, b.Delete(k, true))
	require.NoError(t, b.Get(k, nil, false))
	require.NoError(t, b.CloseTest())

	want := `#!/usr/bin/env python
import sys
import hyperdex.client
c = hyperdex.client.Client(sys.argv[1], int(sys.argv[2]))
assert c.get('kv', 'k') is None
assert c.put('kv', 'k', {'v': 'v1'}) == True
assert c.get('kv', 'k') == {'v': 'v1'}
assert c.put('kv', 'k', {'v': 'v2'}) == True
assert c.get('kv', 'k') == {'v': 'v2'}
assert c.put('kv', 'k', {'v': 'v3'}) == True
assert c.get('kv', 'k') == {'v': 'v3'}
assert c.delete('kv', 'k') == True
assert c.get('kv', 'k') is None
`
	assert.Equal(t, want, readProgram(t, dir, "Basic"))
	assert.Equal(t, []string{filepath.Join("test", "python", "Basic.py")}, b.Files())

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(filepath.Join(dir, "test", "python", "Basic.py"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), fi.Mode().Perm())
	}
}

func TestEncoder_Literals(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want string
	}{
		{"null", value.Null{}, "None"},
		{"true", value.Bool(true), "True"},
		{"max int", value.Int(math.MaxInt64), "9223372036854775807"},
		{"min int", value.Int(math.MinInt64), "-9223372036854775808"},
		{"float", value.Float(3.14), "3.14"},
		{"whole float", value.Float(1), "1.0"},
		{"printable", value.Bytes("xxx"), "'xxx'"},
		{"quotes", value.Bytes(`it's \ ok`), `'it\'s \\ ok'`},
		{"deadbeef", value.Bytes("\xde\xad\xbe\xef"), `'\xde\xad\xbe\xef'`},
		{"control", value.Bytes("a\nb\x00"), `'a\nb\x00'`},
		{"empty list", value.NewList(), "[]"},
		{"list keeps order", value.NewList(value.Bytes("C"), value.Bytes("A")), "['C', 'A']"},
		{"empty set", value.NewSet(), "set([])"},
		{"set sorted", value.NewSet(value.Int(3), value.Int(1), value.Int(2)), "set([1, 2, 3])"},
		{"empty map", value.NewMap(), "{}"},
		{"map sorted", value.NewMap(
			value.Pair(value.Float(3.14), value.Bytes("X")),
			value.Pair(value.Float(0.25), value.Bytes("Y")),
		), "{0.25: 'Y', 3.14: 'X'}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encoder{}.literal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncoder_RejectsNonFiniteFloat(t *testing.T) {
	_, err := encoder{}.literal(value.NewList(value.Float(math.Inf(1))))
	assert.ErrorIs(t, err, common.ErrUnsupportedValue)
}

func TestEncoder_RejectsNil(t *testing.T) {
	_, err := encoder{}.literal(value.NewMap(value.Pair(value.Bytes("a"), nil)))
	assert.ErrorIs(t, err, common.ErrUnsupportedValue)
}

func TestBackend_ContractViolations(t *testing.T) {
	b, _ := newBackend(t)
	k := value.Bytes("k")
	schema := mustSchema(t, "space kv key k attribute v")

	assert.ErrorIs(t, b.Get(k, nil, false), common.ErrContractViolation)
	assert.ErrorIs(t, b.Put(k, value.Record{}, true), common.ErrContractViolation)
	assert.ErrorIs(t, b.Delete(k, true), common.ErrContractViolation)
	assert.ErrorIs(t, b.CloseTest(), common.ErrContractViolation)

	require.NoError(t, b.OpenTest("First", schema))
	assert.ErrorIs(t, b.OpenTest("Second", schema), common.ErrContractViolation)
	assert.Equal(t, backend.Open, b.State())
	require.NoError(t, b.CloseTest())
	assert.Equal(t, backend.Closed, b.State())
}

func TestBackend_FailedEncodingWritesNothing(t *testing.T) {
	b, dir := newBackend(t)
	require.NoError(t, b.OpenTest("T", mustSchema(t, "space kv key k attributes float v")))
	err := b.Put(value.Bytes("k"), value.Record{"v": value.Float(math.NaN())}, true)
	require.ErrorIs(t, err, common.ErrUnsupportedValue)
	require.NoError(t, b.CloseTest())

	assert.Equal(t, header, readProgram(t, dir, "T"))
}

func TestBackend_AbortReleasesFile(t *testing.T) {
	b, dir := newBackend(t)
	require.NoError(t, b.OpenTest("T", mustSchema(t, "space kv key k attribute v")))
	require.NoError(t, b.Abort())
	assert.Equal(t, backend.Closed, b.State())
	assert.Empty(t, b.Files())
	assert.NoError(t, b.Abort(), "abort on closed backend is a no-op")

	_, err := os.Stat(filepath.Join(dir, "test", "python", "T.py"))
	assert.NoError(t, err)
}

func TestBackend_Invocation(t *testing.T) {
	b, _ := newBackend(t)
	inv := b.Invocation("Basic")
	assert.Equal(t, `python "${HYPERDEX_SRCDIR}"/test/python/Basic.py`, inv.Command)
	assert.Empty(t, inv.PreCommand)
}
