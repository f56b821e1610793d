package backend

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/filex"
)

// File owns the output program of one backend and its lifecycle state.
// Concrete backends embed a *File and write whole statement groups through
// Write, so a failed encoding never leaves half a statement on disk.
type File struct {
	lang string
	ext  string
	root string

	state State
	test  string
	rel   string
	f     *os.File
	w     *bufio.Writer
	ids   int

	written []string
}

// NewFile prepares lifecycle handling for programs with extension ext
// written under opts.OutputDir/test/lang.
func NewFile(opts Options, lang, ext string) *File {
	return &File{lang: lang, ext: ext, root: opts.OutputDir}
}

// State reports the lifecycle state.
func (f *File) State() State { return f.state }

// Test returns the name of the open test, or "" when closed.
func (f *File) Test() string { return f.test }

// Files lists programs written so far, relative to the output directory.
func (f *File) Files() []string { return append([]string(nil), f.written...) }

// Open creates test/<lang>/<test>.<ext>, truncating an existing file, and
// moves to the Open state. The identifier counter restarts at zero.
func (f *File) Open(test string) error {
	if f.state != Closed {
		return fmt.Errorf("%w: %s: open %q while %q is still open", common.ErrContractViolation, f.lang, test, f.test)
	}

	dir, err := filex.EnsureDir(f.root, "test", f.lang)
	if err != nil {
		return fmt.Errorf("%s: %w", f.lang, err)
	}

	rel := filepath.Join("test", f.lang, test+"."+f.ext)
	file, err := os.Create(filepath.Join(dir, test+"."+f.ext))
	if err != nil {
		return fmt.Errorf("%s: create program: %w", f.lang, err)
	}

	f.f = file
	f.w = bufio.NewWriter(file)
	f.state = Open
	f.test = test
	f.rel = rel
	f.ids = 0
	return nil
}

// Require returns a contract violation unless the file is open.
func (f *File) Require(op string) error {
	if f.state != Open {
		return fmt.Errorf("%w: %s: %s called while closed", common.ErrContractViolation, f.lang, op)
	}
	return nil
}

// NextID returns a fresh identifier number for the current program.
func (f *File) NextID() int {
	id := f.ids
	f.ids++
	return id
}

// Write appends text to the program. Write errors are sticky and reported
// by Close.
func (f *File) Write(text string) {
	_, _ = f.w.WriteString(text)
}

// Close writes footer, flushes, closes and marks the program executable.
// The file is released even when an earlier step fails.
func (f *File) Close(footer string) error {
	if err := f.Require("close"); err != nil {
		return err
	}

	f.Write(footer)
	flushErr := f.w.Flush()
	closeErr := f.f.Close()
	path := f.f.Name()
	f.reset()

	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%s: write program: %w", f.lang, err)
	}
	if err := filex.MakeExecutable(path); err != nil {
		return fmt.Errorf("%s: %w", f.lang, err)
	}

	f.written = append(f.written, f.rel)
	return nil
}

// Abort releases the file without writing the footer.
func (f *File) Abort() error {
	if f.state != Open {
		return nil
	}
	err := f.f.Close()
	f.reset()
	return err
}

func (f *File) reset() {
	f.state = Closed
	f.test = ""
	f.f = nil
	f.w = nil
}
