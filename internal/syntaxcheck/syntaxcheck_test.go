package syntaxcheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		src     string
		wantErr bool
	}{
		{"python ok", "python", "import sys\nassert c.get('kv', 'k') == {'v': set([1, 2])}\n", false},
		{"python broken", "python", "assert c.get('kv', 'k' == {\n", true},
		{"ruby ok", "ruby", "require 'set'\nassert { c.get(\"kv\", \"k\") == {:v => (Set.new [1])} }\n", false},
		{"ruby broken", "ruby", "assert { c.get(\"kv\" }\n", true},
		{"java ok", "java", "public class A\n{\n    public static void main(String[] args)\n    {\n        byte[] b = {(byte) 0xde};\n        assert(b != null);\n    }\n}\n", false},
		{"java broken", "java", "public class A { void f() { int x = ; } }\n", true},
		{"sh ok", "sh", "#!/bin/sh\n\npython \"${SRC}\"/test/runner.py --space=\"space kv\" -- \\\n    ruby a.rb {HOST} {PORT}\n", false},
		{"sh without shebang", "sh", "echo hi\n", true},
		{"unknown language", "cobol", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(context.Background(), tt.lang, []byte(tt.src))
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrSyntaxCheck)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheck_ReportsPosition(t *testing.T) {
	err := Check(context.Background(), "python", []byte("x = 1\ny = (\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2:")
}

func TestCheckTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "test", "python"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test", "python", "Good.py"), []byte("assert True\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test", "python", "Bad.py"), []byte("assert (\n"), 0o644))

	assert.NoError(t, CheckTree(context.Background(), dir, []string{"test/python/Good.py"}))

	err := CheckTree(context.Background(), dir, []string{"test/python/Good.py", "test/python/Bad.py"})
	require.ErrorIs(t, err, common.ErrSyntaxCheck)
	assert.Contains(t, err.Error(), "Bad.py")
	assert.NotContains(t, err.Error(), "Good.py")
}

func TestLanguageOf(t *testing.T) {
	lang, ok := LanguageOf("test/java/Basic.java")
	assert.True(t, ok)
	assert.Equal(t, "java", lang)

	_, ok = LanguageOf("README.md")
	assert.False(t, ok)
}
