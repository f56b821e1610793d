// Package syntaxcheck parses generated programs and launchers with
// tree-sitter grammars and reports the first syntax errors found.
package syntaxcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
)

// maxReported bounds the problems listed per file.
const maxReported = 5

var languages = map[string]func() *sitter.Language{
	"python": python.GetLanguage,
	"ruby":   ruby.GetLanguage,
	"java":   java.GetLanguage,
	"sh":     bash.GetLanguage,
}

var extensions = map[string]string{
	".py":   "python",
	".rb":   "ruby",
	".java": "java",
	".sh":   "sh",
}

// Languages lists the names accepted by Check.
func Languages() []string {
	return []string{"python", "ruby", "java", "sh"}
}

// LanguageOf maps a file name to a language by extension.
func LanguageOf(path string) (string, bool) {
	lang, ok := extensions[filepath.Ext(path)]
	return lang, ok
}

// Check parses src as lang. Shell sources must also start with a #!/bin/sh
// line.
func Check(ctx context.Context, lang string, src []byte) error {
	get, ok := languages[lang]
	if !ok {
		return fmt.Errorf("%w: no grammar for %q", common.ErrSyntaxCheck, lang)
	}
	if lang == "sh" && !bytes.HasPrefix(src, []byte("#!/bin/sh\n")) {
		return fmt.Errorf("%w: sh: missing #!/bin/sh line", common.ErrSyntaxCheck)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(get())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrSyntaxCheck, lang, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	problems := collect(root, src)
	return fmt.Errorf("%w: %s: %s", common.ErrSyntaxCheck, lang, strings.Join(problems, "; "))
}

// CheckFile checks one file, choosing the grammar by extension.
func CheckFile(ctx context.Context, path string) error {
	lang, ok := LanguageOf(path)
	if !ok {
		return fmt.Errorf("%w: %s: unknown file type", common.ErrSyntaxCheck, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Check(ctx, lang, src); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// CheckTree checks files, given relative to root, and joins every failure.
func CheckTree(ctx context.Context, root string, files []string) error {
	var errs []error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := CheckFile(ctx, filepath.Join(root, filepath.FromSlash(f))); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// collect walks the tree depth-first and describes ERROR and MISSING nodes.
func collect(root *sitter.Node, src []byte) []string {
	var out []string
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil || len(out) >= maxReported || !n.HasError() && !n.IsMissing() {
			return
		}
		p := n.StartPoint()
		switch {
		case n.IsMissing():
			out = append(out, fmt.Sprintf("%d:%d: missing %s", p.Row+1, p.Column+1, n.Type()))
			return
		case n.Type() == "ERROR":
			out = append(out, fmt.Sprintf("%d:%d: unexpected %q", p.Row+1, p.Column+1, snippet(n.Content(src))))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	if len(out) == 0 {
		out = append(out, "parse error")
	}
	return out
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40] + "..."
	}
	return s
}
