// Package harness writes the shell launchers that run each generated
// program under the cluster test runner, and the build-system fragment that
// lists them.
package harness

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/dmitrijs2005/kvbindgen/internal/filex"
)

//go:embed templates/*
var fsTemplates embed.FS

var launcherTmpl = template.Must(template.New("launcher.sh.tmpl").
	Funcs(template.FuncMap{"shq": shellQuote}).
	ParseFS(fsTemplates, "templates/launcher.sh.tmpl"))

// Config controls the runner call written into every launcher.
type Config struct {
	OutputDir  string
	SrcDirVar  string
	RunnerPath string
	Daemons    int
}

// Launcher describes one (backend, test-case) pair.
type Launcher struct {
	Backend    string
	Test       string
	Command    string
	PreCommand string
	Space      string
}

type launcherData struct {
	Launcher
	SrcDir  string
	Runner  string
	Daemons int
}

// Emitter writes launchers and remembers their paths.
type Emitter struct {
	cfg   Config
	paths []string
}

func NewEmitter(cfg Config) *Emitter {
	return &Emitter{cfg: cfg}
}

// Emit writes test/sh/bindings.<backend>.<test>.sh with mode 0755 and
// returns its path relative to the output directory.
func (e *Emitter) Emit(l Launcher) (string, error) {
	var buf bytes.Buffer
	data := launcherData{
		Launcher: l,
		SrcDir:   `"${` + e.cfg.SrcDirVar + `}"`,
		Runner:   strings.TrimPrefix(filepath.ToSlash(e.cfg.RunnerPath), "/"),
		Daemons:  e.cfg.Daemons,
	}
	if err := launcherTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render launcher %s/%s: %w", l.Backend, l.Test, err)
	}

	dir, err := filex.EnsureDir(e.cfg.OutputDir, "test", "sh")
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("bindings.%s.%s.sh", l.Backend, l.Test)
	if err := filex.WriteExecutable(filepath.Join(dir, name), buf.Bytes()); err != nil {
		return "", err
	}

	rel := filepath.ToSlash(filepath.Join("test", "sh", name))
	e.paths = append(e.paths, rel)
	return rel, nil
}

// Paths lists emitted launchers in emission order.
func (e *Emitter) Paths() []string {
	return append([]string(nil), e.paths...)
}

// WriteFragment writes one "shellwrappers += path" line per launcher.
func (e *Emitter) WriteFragment(w io.Writer) error {
	for _, p := range e.paths {
		if _, err := fmt.Fprintf(w, "shellwrappers += %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

// shellQuote escapes s for use inside double quotes.
func shellQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return r.Replace(s)
}
