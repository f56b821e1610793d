// Package java emits one Java class per test-case for the
// org.hyperdex.client binding. Checks use the assert statement, so the
// launcher runs the JVM with assertions enabled.
package java

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/space"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Lang is the backend name used in paths and launchers.
const Lang = "java"

const headerFormat = `import java.util.*;

import org.hyperdex.client.Client;
import org.hyperdex.client.ByteString;
import org.hyperdex.client.HyperDexClientException;

public class %s
{
    public static void main(String[] args) throws HyperDexClientException
    {
        Client c = new Client(args[0], Integer.parseInt(args[1]));
`

const footer = `    }
}
`

type Backend struct {
	*backend.File
	opts  backend.Options
	space string
}

var _ backend.Backend = (*Backend)(nil)

func New(opts backend.Options) *Backend {
	return &Backend{File: backend.NewFile(opts, Lang, "java"), opts: opts}
}

func (b *Backend) Name() string { return Lang }

func (b *Backend) encoder(aux *strings.Builder) encoder {
	return encoder{aux: aux, ids: b.NextID}
}

// OpenTest names the public class after test, so test must be a valid Java
// identifier; the orchestrator enforces that.
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
	b.Write(fmt.Sprintf(headerFormat, test))
	return nil
}

func (b *Backend) Get(key value.Value, expected value.Record, exists bool) error {
	if err := b.Require("get"); err != nil {
		return err
	}
	n := b.NextID()
	var g strings.Builder
	enc := b.encoder(&g)
	k, err := enc.literal(key)
	if err != nil {
		return err
	}
	enc.stmt("Map<String, Object> get%d = c.get(%s, %s);", n, b.space, k)
	if !exists {
		enc.stmt("assert(get%d == null);", n)
		b.Write(g.String())
		return nil
	}
	enc.stmt("assert(get%d != null);", n)
	if err := enc.record(fmt.Sprintf("expected%d", n), expected); err != nil {
		return err
	}
	enc.stmt("assert(get%d.equals(expected%d));", n, n)
	b.Write(g.String())
	return nil
}

func (b *Backend) Put(key value.Value, attrs value.Record, ok bool) error {
	if err := b.Require("put"); err != nil {
		return err
	}
	n := b.NextID()
	var g strings.Builder
	enc := b.encoder(&g)
	if err := enc.record(fmt.Sprintf("attrs%d", n), attrs); err != nil {
		return err
	}
	k, err := enc.literal(key)
	if err != nil {
		return err
	}
	enc.stmt("Object obj%d = c.put(%s, %s, attrs%d);", n, b.space, k, n)
	result(enc, n, ok)
	b.Write(g.String())
	return nil
}

func (b *Backend) Delete(key value.Value, ok bool) error {
	if err := b.Require("delete"); err != nil {
		return err
	}
	n := b.NextID()
	var g strings.Builder
	enc := b.encoder(&g)
	k, err := enc.literal(key)
	if err != nil {
		return err
	}
	enc.stmt("Object obj%d = c.del(%s, %s);", n, b.space, k)
	result(enc, n, ok)
	b.Write(g.String())
	return nil
}

func result(enc encoder, n int, ok bool) {
	enc.stmt("assert(obj%d != null);", n)
	enc.stmt("Boolean bool%d = (Boolean)obj%d;", n, n)
	enc.stmt("assert(bool%d == %t);", n, ok)
}

func (b *Backend) CloseTest() error {
	return b.Close(footer)
}

func (b *Backend) Invocation(test string) backend.Invocation {
	src := b.opts.SrcDir()
	return backend.Invocation{
		PreCommand: fmt.Sprintf("javac -cp %[1]s/bindings/java %[1]s/test/java/%[2]s.java", src, test),
		Command:    fmt.Sprintf("java -ea -Djava.library.path=%[1]s/.libs -cp %[1]s/bindings/java:%[1]s/test/java %[2]s", src, test),
	}
}
