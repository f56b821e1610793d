// Package python emits Python 2 test programs that drive the hyperdex.client
// binding with plain assert statements.
package python

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/space"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Lang is the backend name used in paths and launchers.
const Lang = "python"

const header = `#!/usr/bin/env python
import sys
import hyperdex.client
c = hyperdex.client.Client(sys.argv[1], int(sys.argv[2]))
`

type Backend struct {
	*backend.File
	opts  backend.Options
	enc   encoder
	space string
}

var _ backend.Backend = (*Backend)(nil)

func New(opts backend.Options) *Backend {
	return &Backend{File: backend.NewFile(opts, Lang, "py"), opts: opts}
}

func (b *Backend) Name() string { return Lang }

func (b *Backend) OpenTest(test string, schema *space.Schema) error {
	if err := b.Open(test); err != nil {
		return err
	}
	sp, err := b.enc.literal(value.Bytes(schema.Name))
	if err != nil {
		_ = b.Abort()
		return err
	}
	b.space = sp
	b.Write(header)
	return nil
}

func (b *Backend) Get(key value.Value, expected value.Record, exists bool) error {
	if err := b.Require("get"); err != nil {
		return err
	}
	k, err := b.enc.literal(key)
	if err != nil {
		return err
	}
	if !exists {
		b.Write(fmt.Sprintf("assert c.get(%s, %s) is None\n", b.space, k))
		return nil
	}
	want, err := b.enc.record(expected)
	if err != nil {
		return err
	}
	b.Write(fmt.Sprintf("assert c.get(%s, %s) == %s\n", b.space, k, want))
	return nil
}

func (b *Backend) Put(key value.Value, attrs value.Record, ok bool) error {
	if err := b.Require("put"); err != nil {
		return err
	}
	k, err := b.enc.literal(key)
	if err != nil {
		return err
	}
	r, err := b.enc.record(attrs)
	if err != nil {
		return err
	}
	res, _ := b.enc.VisitBool(value.Bool(ok))
	b.Write(fmt.Sprintf("assert c.put(%s, %s, %s) == %s\n", b.space, k, r, res))
	return nil
}

func (b *Backend) Delete(key value.Value, ok bool) error {
	if err := b.Require("delete"); err != nil {
		return err
	}
	k, err := b.enc.literal(key)
	if err != nil {
		return err
	}
	res, _ := b.enc.VisitBool(value.Bool(ok))
	b.Write(fmt.Sprintf("assert c.delete(%s, %s) == %s\n", b.space, k, res))
	return nil
}

func (b *Backend) CloseTest() error {
	return b.Close("")
}

func (b *Backend) Invocation(test string) backend.Invocation {
	path := strings.Join([]string{b.opts.SrcDir(), "test", Lang, test + ".py"}, "/")
	return backend.Invocation{Command: "python " + path}
}
