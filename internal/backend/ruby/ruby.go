// Package ruby emits Ruby test programs for the HyperDex::Client binding.
// Each assertion is a block passed to a small assert helper that raises on
// failure, so a failing check exits non-zero.
package ruby

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/space"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Lang is the backend name used in paths and launchers.
const Lang = "ruby"

const header = `#!/usr/bin/env ruby
require 'set'
require 'hyperdex'

def assert &block
    raise RuntimeError unless yield
end

c = HyperDex::Client::Client.new(ARGV[0], ARGV[1].to_i)
`

type Backend struct {
	*backend.File
	opts  backend.Options
	space string
}

var _ backend.Backend = (*Backend)(nil)

func New(opts backend.Options) *Backend {
	return &Backend{File: backend.NewFile(opts, Lang, "rb"), opts: opts}
}

func (b *Backend) Name() string { return Lang }

func (b *Backend) encoder(aux *strings.Builder) encoder {
	return encoder{aux: aux, ids: b.NextID}
}

func (b *Backend) OpenTest(test string, schema *space.Schema) error {
	if err := b.Open(test); err != nil {
		return err
	}
	var aux strings.Builder
	sp, err := b.encoder(&aux).literal(value.Bytes(schema.Name))
	if err != nil || aux.Len() > 0 {
		_ = b.Abort()
		return backend.Unsupported(Lang, value.Bytes(schema.Name), "space name must be printable")
	}
	b.space = sp
	b.Write(header)
	return nil
}

func (b *Backend) Get(key value.Value, expected value.Record, exists bool) error {
	if err := b.Require("get"); err != nil {
		return err
	}
	var g strings.Builder
	enc := b.encoder(&g)
	k, err := enc.literal(key)
	if err != nil {
		return err
	}
	want := "nil"
	if exists {
		if want, err = enc.record(expected, true); err != nil {
			return err
		}
	}
	fmt.Fprintf(&g, "assert { c.get(%s, %s) == %s }\n", b.space, k, want)
	b.Write(g.String())
	return nil
}

func (b *Backend) Put(key value.Value, attrs value.Record, ok bool) error {
	if err := b.Require("put"); err != nil {
		return err
	}
	var g strings.Builder
	enc := b.encoder(&g)
	k, err := enc.literal(key)
	if err != nil {
		return err
	}
	r, err := enc.record(attrs, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(&g, "assert { c.put(%s, %s, %s) == %t }\n", b.space, k, r, ok)
	b.Write(g.String())
	return nil
}

func (b *Backend) Delete(key value.Value, ok bool) error {
	if err := b.Require("delete"); err != nil {
		return err
	}
	var g strings.Builder
	k, err := b.encoder(&g).literal(key)
	if err != nil {
		return err
	}
	fmt.Fprintf(&g, "assert { c.del(%s, %s) == %t }\n", b.space, k, ok)
	b.Write(g.String())
	return nil
}

func (b *Backend) CloseTest() error {
	return b.Close("")
}

func (b *Backend) Invocation(test string) backend.Invocation {
	path := strings.Join([]string{b.opts.SrcDir(), "test", Lang, test + ".rb"}, "/")
	return backend.Invocation{Command: "ruby " + path}
}
