// Package orchestrator drives every registered backend through the same
// sequence of test-cases and operations.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/harness"
	"github.com/dmitrijs2005/kvbindgen/internal/logging"
	"github.com/dmitrijs2005/kvbindgen/internal/space"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Test names become file names and Java class names.
var testName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Orchestrator broadcasts operations to a fixed, ordered list of backends.
// Operations are validated against the open test's schema before any
// backend sees them. The first error poisons the orchestrator: every later
// call returns it until Abort.
type Orchestrator struct {
	backends []backend.Backend
	harness  *harness.Emitter
	log      logging.Logger

	seen   map[string]struct{}
	test   string
	schema *space.Schema
	ops    int
	err    error
}

func New(backends []backend.Backend, h *harness.Emitter, log logging.Logger) *Orchestrator {
	return &Orchestrator{
		backends: backends,
		harness:  h,
		log:      log,
		seen:     make(map[string]struct{}),
	}
}

// Backends returns the registered backends in broadcast order.
func (o *Orchestrator) Backends() []backend.Backend {
	return append([]backend.Backend(nil), o.backends...)
}

// Err returns the error that poisoned the orchestrator, if any.
func (o *Orchestrator) Err() error { return o.err }

// Test starts test-case name on every backend and writes its launchers.
// If a backend fails to open, the backends opened before it are aborted.
func (o *Orchestrator) Test(ctx context.Context, name, decl string) error {
	if o.err != nil {
		return o.err
	}
	if o.schema != nil {
		return o.fail(fmt.Errorf("%w: test %q started while %q is open", common.ErrContractViolation, name, o.test))
	}
	if !testName.MatchString(name) {
		return o.fail(fmt.Errorf("%w: %q", common.ErrInvalidName, name))
	}
	if _, dup := o.seen[name]; dup {
		return o.fail(fmt.Errorf("%w: duplicate test %q", common.ErrContractViolation, name))
	}

	schema, err := space.Parse(decl)
	if err != nil {
		return o.fail(fmt.Errorf("test %s: %w", name, err))
	}

	for i, b := range o.backends {
		if err := b.OpenTest(name, schema); err != nil {
			for _, opened := range o.backends[:i] {
				_ = opened.Abort()
			}
			return o.fail(fmt.Errorf("test %s: %w", name, err))
		}
	}

	o.seen[name] = struct{}{}
	o.test = name
	o.schema = schema
	o.ops = 0

	for _, b := range o.backends {
		inv := b.Invocation(name)
		path, err := o.harness.Emit(harness.Launcher{
			Backend:    b.Name(),
			Test:       name,
			Command:    inv.Command,
			PreCommand: inv.PreCommand,
			Space:      schema.Declaration,
		})
		if err != nil {
			return o.fail(fmt.Errorf("test %s: %w", name, err))
		}
		o.log.Debug(ctx, "launcher written", "test", name, "backend", b.Name(), "path", path)
	}

	o.log.Info(ctx, "test opened", "test", name, "space", schema.Name, "backends", len(o.backends))
	return nil
}

// Get checks that key holds expected, or is absent when exists is false.
func (o *Orchestrator) Get(ctx context.Context, key value.Value, expected value.Record, exists bool) error {
	if err := o.begin("get"); err != nil {
		return err
	}
	if err := o.schema.CheckKey(key); err != nil {
		return o.fail(o.wrap("get", err))
	}
	if exists {
		if err := o.schema.CheckRecord(expected); err != nil {
			return o.fail(o.wrap("get", err))
		}
	}
	return o.broadcast(ctx, "get", func(b backend.Backend) error {
		return b.Get(key, expected, exists)
	})
}

// Put writes attrs under key and checks the result against ok.
func (o *Orchestrator) Put(ctx context.Context, key value.Value, attrs value.Record, ok bool) error {
	if err := o.begin("put"); err != nil {
		return err
	}
	if err := o.schema.CheckKey(key); err != nil {
		return o.fail(o.wrap("put", err))
	}
	if err := o.schema.CheckRecord(attrs); err != nil {
		return o.fail(o.wrap("put", err))
	}
	return o.broadcast(ctx, "put", func(b backend.Backend) error {
		return b.Put(key, attrs, ok)
	})
}

// Delete removes key and checks the result against ok.
func (o *Orchestrator) Delete(ctx context.Context, key value.Value, ok bool) error {
	if err := o.begin("delete"); err != nil {
		return err
	}
	if err := o.schema.CheckKey(key); err != nil {
		return o.fail(o.wrap("delete", err))
	}
	return o.broadcast(ctx, "delete", func(b backend.Backend) error {
		return b.Delete(key, ok)
	})
}

// Finish closes the open test on every backend. Every backend is attempted;
// failures are joined.
func (o *Orchestrator) Finish(ctx context.Context) error {
	if err := o.begin("finish"); err != nil {
		return err
	}
	var errs []error
	for _, b := range o.backends {
		if err := b.CloseTest(); err != nil {
			errs = append(errs, err)
		}
	}
	name, ops := o.test, o.ops
	o.test = ""
	o.schema = nil
	if err := errors.Join(errs...); err != nil {
		return o.fail(fmt.Errorf("test %s: %w", name, err))
	}
	o.log.Info(ctx, "test closed", "test", name, "operations", ops)
	return nil
}

// Abort releases every open backend file without finishing it.
func (o *Orchestrator) Abort() error {
	var errs []error
	for _, b := range o.backends {
		if err := b.Abort(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	o.test = ""
	o.schema = nil
	return errors.Join(errs...)
}

// Files lists every generated program and launcher, relative to the output
// directory.
func (o *Orchestrator) Files() []string {
	var files []string
	for _, b := range o.backends {
		files = append(files, b.Files()...)
	}
	return append(files, o.harness.Paths()...)
}

func (o *Orchestrator) begin(op string) error {
	if o.err != nil {
		return o.err
	}
	if o.schema == nil {
		return o.fail(fmt.Errorf("%w: %s outside a test", common.ErrContractViolation, op))
	}
	return nil
}

func (o *Orchestrator) broadcast(ctx context.Context, op string, fn func(backend.Backend) error) error {
	for _, b := range o.backends {
		if err := fn(b); err != nil {
			return o.fail(o.wrap(op, err))
		}
	}
	o.ops++
	o.log.Debug(ctx, "operation emitted", "test", o.test, "op", op, "index", o.ops)
	return nil
}

func (o *Orchestrator) wrap(op string, err error) error {
	return fmt.Errorf("test %s: %s #%d: %w", o.test, op, o.ops+1, err)
}

func (o *Orchestrator) fail(err error) error {
	o.err = err
	return err
}
