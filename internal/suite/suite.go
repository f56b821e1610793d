// Package suite holds abstract test-cases and runs them against a Script,
// usually the orchestrator.
package suite

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Script receives test-cases one operation at a time.
type Script interface {
	Test(ctx context.Context, name, decl string) error
	Get(ctx context.Context, key value.Value, expected value.Record, exists bool) error
	Put(ctx context.Context, key value.Value, attrs value.Record, ok bool) error
	Delete(ctx context.Context, key value.Value, ok bool) error
	Finish(ctx context.Context) error
}

// TestCase is a named sequence of operations against one space.
type TestCase struct {
	Name  string
	Space string
	Ops   []Operation
}

// Operation is one step of a test-case.
type Operation interface {
	// Kind is "get", "put" or "del".
	Kind() string
	Apply(ctx context.Context, s Script) error
}

// Get reads Key. When Exists is false the key must be absent; otherwise
// the object must equal Expected.
type Get struct {
	Key      value.Value
	Expected value.Record
	Exists   bool
}

func (Get) Kind() string { return "get" }

func (g Get) Apply(ctx context.Context, s Script) error {
	return s.Get(ctx, g.Key, g.Expected, g.Exists)
}

// Put writes Attrs under Key; OK is the expected result.
type Put struct {
	Key   value.Value
	Attrs value.Record
	OK    bool
}

func (Put) Kind() string { return "put" }

func (p Put) Apply(ctx context.Context, s Script) error {
	return s.Put(ctx, p.Key, p.Attrs, p.OK)
}

// Delete removes Key; OK is the expected result.
type Delete struct {
	Key value.Value
	OK  bool
}

func (Delete) Kind() string { return "del" }

func (d Delete) Apply(ctx context.Context, s Script) error {
	return s.Delete(ctx, d.Key, d.OK)
}

// Absent is a Get expecting key not to exist.
func Absent(key value.Value) Get { return Get{Key: key} }

// Expect is a Get expecting key to hold r.
func Expect(key value.Value, r value.Record) Get {
	return Get{Key: key, Expected: r, Exists: true}
}

// Counts returns the number of operations of each kind.
func (tc TestCase) Counts() map[string]int {
	counts := map[string]int{"get": 0, "put": 0, "del": 0}
	for _, op := range tc.Ops {
		counts[op.Kind()]++
	}
	return counts
}

// Run feeds cases to s in order. Cancellation is checked between
// test-cases; a case that has started always runs to completion or error.
func Run(ctx context.Context, s Script, cases []TestCase) error {
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Test(ctx, tc.Name, tc.Space); err != nil {
			return err
		}
		for i, op := range tc.Ops {
			if err := op.Apply(ctx, s); err != nil {
				return fmt.Errorf("%s op %d (%s): %w", tc.Name, i+1, op.Kind(), err)
			}
		}
		if err := s.Finish(ctx); err != nil {
			return err
		}
	}
	return nil
}
