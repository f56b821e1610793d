package backend

import (
	"github.com/dmitrijs2005/kvbindgen/internal/space"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// State is the lifecycle state of a backend.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Backend emits one source program per test-case for a single target
// language.
//
// A backend is Closed until OpenTest, stays Open while operations are
// emitted, and returns to Closed on CloseTest or Abort. Calling an operation
// in the wrong state returns an error wrapping common.ErrContractViolation.
type Backend interface {
	// Name is the short language name used in paths ("python", "ruby", ...).
	Name() string

	// State reports the current lifecycle state.
	State() State

	// OpenTest creates the program file for test and writes the boilerplate
	// that connects a client to the host and port given on the command line.
	OpenTest(test string, schema *space.Schema) error

	// Get emits a read of key followed by an assertion. When exists is false
	// the key must be absent; otherwise the object must equal expected.
	Get(key value.Value, expected value.Record, exists bool) error

	// Put emits a write of attrs followed by an assertion on its result.
	Put(key value.Value, attrs value.Record, ok bool) error

	// Delete emits a delete of key followed by an assertion on its result.
	Delete(key value.Value, ok bool) error

	// CloseTest writes the closing boilerplate, releases the file and marks
	// it executable.
	CloseTest() error

	// Abort releases an open file without finishing it. It is a no-op when
	// the backend is closed.
	Abort() error

	// Invocation describes how a launcher runs the program for test.
	Invocation(test string) Invocation

	// Files lists every program written so far, relative to the output
	// directory, in creation order.
	Files() []string
}

// Invocation is the command a launcher uses to run a generated program.
// PreCommand, when set, runs first (e.g. a compile step).
type Invocation struct {
	Command    string
	PreCommand string
}

// Options configure every backend.
type Options struct {
	// OutputDir is the root of the generated tree. Programs are written to
	// OutputDir/test/<lang>/.
	OutputDir string

	// SrcDirVar names the environment variable launchers use to locate the
	// source tree at run time.
	SrcDirVar string
}

// SrcDir returns the quoted shell expansion of the source dir variable.
func (o Options) SrcDir() string {
	return `"${` + o.SrcDirVar + `}"`
}
