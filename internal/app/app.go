// Package app wires configuration, logging, backends, the harness and the
// orchestrator into the generate, list and check actions.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/config"
	"github.com/dmitrijs2005/kvbindgen/internal/harness"
	"github.com/dmitrijs2005/kvbindgen/internal/logging"
	"github.com/dmitrijs2005/kvbindgen/internal/manifest"
	"github.com/dmitrijs2005/kvbindgen/internal/orchestrator"
	"github.com/dmitrijs2005/kvbindgen/internal/suite"
	"github.com/dmitrijs2005/kvbindgen/internal/syntaxcheck"
)

type App struct {
	config *config.Config
	logger logging.Logger
	stdout io.Writer
	runID  string
}

// Report summarizes a generate run.
type Report struct {
	RunID    string
	Tests    int
	Backends []string
	Files    []string
	Manifest string
}

func NewApp(c *config.Config, logger logging.Logger, stdout io.Writer) (*App, error) {
	if _, err := NewBackends(c.Backends, backend.Options{}); err != nil {
		return nil, err
	}
	if c.Daemons < 1 {
		return nil, fmt.Errorf("daemons must be positive, got %d", c.Daemons)
	}
	runID := uuid.NewString()
	return &App{
		config: c,
		logger: logger.With("run_id", runID),
		stdout: stdout,
		runID:  runID,
	}, nil
}

func (a *App) cases() ([]suite.TestCase, error) {
	if a.config.ScriptFile == "" {
		return suite.Builtin(), nil
	}
	return suite.LoadFile(a.config.ScriptFile)
}

// Generate writes every program and launcher for the configured test-cases.
// On failure, open files are released and the error is returned; the
// fragment and manifest are only written for a complete run.
func (a *App) Generate(ctx context.Context) (*Report, error) {
	cases, err := a.cases()
	if err != nil {
		return nil, err
	}

	opts := backend.Options{OutputDir: a.config.OutputDir, SrcDirVar: a.config.SrcDirVar}
	backends, err := NewBackends(a.config.Backends, opts)
	if err != nil {
		return nil, err
	}
	h := harness.NewEmitter(harness.Config{
		OutputDir:  a.config.OutputDir,
		SrcDirVar:  a.config.SrcDirVar,
		RunnerPath: a.config.RunnerPath,
		Daemons:    a.config.Daemons,
	})
	orch := orchestrator.New(backends, h, a.logger)
	defer func() {
		if err := orch.Abort(); err != nil {
			a.logger.Warn(ctx, "abort failed", "error", err)
		}
	}()

	a.logger.Info(ctx, "generating", "tests", len(cases), "backends", a.config.Backends, "output_dir", a.config.OutputDir)

	if err := suite.Run(ctx, orch, cases); err != nil {
		a.logger.Error(ctx, "generation failed", "error", err)
		return nil, err
	}

	report := &Report{
		RunID:    a.runID,
		Tests:    len(cases),
		Backends: a.config.Backends,
		Files:    orch.Files(),
	}

	if err := a.writeFragment(h); err != nil {
		return nil, err
	}

	if a.config.Verify {
		if err := syntaxcheck.CheckTree(ctx, a.config.OutputDir, report.Files); err != nil {
			a.logger.Error(ctx, "verification failed", "error", err)
			return nil, err
		}
		a.logger.Info(ctx, "verified", "files", len(report.Files))
	}

	if a.config.ManifestFile != "" {
		m, err := manifest.Build(a.config.OutputDir, report.Files)
		if err != nil {
			return nil, err
		}
		if err := m.WriteFile(a.config.ManifestFile); err != nil {
			return nil, err
		}
		report.Manifest = a.config.ManifestFile
	}

	a.logger.Info(ctx, "generated", "tests", report.Tests, "files", len(report.Files))
	return report, nil
}

func (a *App) writeFragment(h *harness.Emitter) error {
	switch a.config.FragmentFile {
	case "":
		return nil
	case "-":
		return h.WriteFragment(a.stdout)
	}
	f, err := os.Create(a.config.FragmentFile)
	if err != nil {
		return fmt.Errorf("fragment: %w", err)
	}
	if err := h.WriteFragment(f); err != nil {
		f.Close()
		return fmt.Errorf("fragment: %w", err)
	}
	return f.Close()
}

// List prints every configured test-case with its space and operation
// counts.
func (a *App) List(ctx context.Context, w io.Writer) error {
	cases, err := a.cases()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TEST\tGET\tPUT\tDEL\tSPACE")
	for _, tc := range cases {
		c := tc.Counts()
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", tc.Name, c["get"], c["put"], c["del"], tc.Space)
	}
	a.logger.Debug(ctx, "listed", "tests", len(cases))
	return tw.Flush()
}

// Check syntax-checks every program and launcher already present under the
// output directory, and compares them with the manifest when one is
// configured. It returns the number of files checked.
func (a *App) Check(ctx context.Context) (int, error) {
	files, err := a.existingFiles()
	if err != nil {
		return 0, err
	}
	if err := syntaxcheck.CheckTree(ctx, a.config.OutputDir, files); err != nil {
		return 0, err
	}
	if a.config.ManifestFile != "" {
		m, err := manifest.Load(a.config.ManifestFile)
		if err != nil {
			return 0, err
		}
		if err := manifest.Verify(a.config.OutputDir, m); err != nil {
			return 0, err
		}
	}
	a.logger.Info(ctx, "checked", "files", len(files))
	return len(files), nil
}

func (a *App) existingFiles() ([]string, error) {
	dirs := append(append([]string(nil), a.config.Backends...), "sh")
	var files []string
	for _, d := range dirs {
		root := filepath.Join(a.config.OutputDir, "test", d)
		err := filepath.WalkDir(root, func(path string, e fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if e.IsDir() {
				return nil
			}
			if _, ok := syntaxcheck.LanguageOf(path); !ok {
				return nil
			}
			rel, err := filepath.Rel(a.config.OutputDir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
