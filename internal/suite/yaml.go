package suite

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// LoadFile reads test-cases from a YAML script file.
func LoadFile(path string) ([]TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	cases, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Load reads test-cases from YAML. The document is a sequence of cases:
//
//	# script.yaml
//	- test: Name
//	  space: space kv key k attribute v
//	  ops:
//	    - get: {key: k}
//	    - put: {key: k, attrs: {v: v1}, ok: true}
//	    - get: {key: k, expect: {v: v1}}
//	    - del: {key: k}
//
// Values follow the node tag: !!str and !!binary are bytes, !!int, !!float,
// !!bool and !!null map to the matching scalar, sequences are lists, !!set
// mappings are sets and other mappings are maps. A get without expect (or
// with expect: null) asserts absence; ok defaults to true.
func Load(r io.Reader) ([]TestCase, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidScript, err)
	}

	root := resolve(&doc)
	if root.Kind == yaml.DocumentNode {
		root = resolve(root.Content[0])
	}
	if root.Kind != yaml.SequenceNode {
		return nil, invalid(root, "top level must be a sequence of test-cases")
	}

	cases := make([]TestCase, 0, len(root.Content))
	for _, n := range root.Content {
		tc, err := testCase(resolve(n))
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

func testCase(n *yaml.Node) (TestCase, error) {
	fields, err := mapping(n, "test", "space", "ops")
	if err != nil {
		return TestCase{}, err
	}

	var tc TestCase
	if tc.Name, err = str(fields, n, "test"); err != nil {
		return TestCase{}, err
	}
	if tc.Space, err = str(fields, n, "space"); err != nil {
		return TestCase{}, err
	}

	ops, ok := fields["ops"]
	if !ok {
		return tc, nil
	}
	if ops.Kind != yaml.SequenceNode {
		return TestCase{}, invalid(ops, "ops must be a sequence")
	}
	for _, opNode := range ops.Content {
		op, err := operation(resolve(opNode))
		if err != nil {
			return TestCase{}, fmt.Errorf("test %s: %w", tc.Name, err)
		}
		tc.Ops = append(tc.Ops, op)
	}
	return tc, nil
}

func operation(n *yaml.Node) (Operation, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, invalid(n, "operation must be a single-key mapping (get, put or del)")
	}
	kind, body := n.Content[0].Value, resolve(n.Content[1])

	switch kind {
	case "get":
		fields, err := mapping(body, "key", "expect")
		if err != nil {
			return nil, err
		}
		k, err := keyValue(fields, body)
		if err != nil {
			return nil, err
		}
		exp, ok := fields["expect"]
		if !ok || exp.ShortTag() == "!!null" {
			return Absent(k), nil
		}
		rec, err := record(exp)
		if err != nil {
			return nil, err
		}
		return Expect(k, rec), nil

	case "put":
		fields, err := mapping(body, "key", "attrs", "ok")
		if err != nil {
			return nil, err
		}
		k, err := keyValue(fields, body)
		if err != nil {
			return nil, err
		}
		attrs := value.Record{}
		if a, ok := fields["attrs"]; ok {
			if attrs, err = record(a); err != nil {
				return nil, err
			}
		}
		okv, err := boolean(fields, "ok")
		if err != nil {
			return nil, err
		}
		return Put{Key: k, Attrs: attrs, OK: okv}, nil

	case "del", "delete":
		fields, err := mapping(body, "key", "ok")
		if err != nil {
			return nil, err
		}
		k, err := keyValue(fields, body)
		if err != nil {
			return nil, err
		}
		okv, err := boolean(fields, "ok")
		if err != nil {
			return nil, err
		}
		return Delete{Key: k, OK: okv}, nil
	}
	return nil, invalid(n, fmt.Sprintf("unknown operation %q", kind))
}

// Value converts a YAML node to a value by its resolved tag.
func Value(n *yaml.Node) (value.Value, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		items, err := values(n.Content)
		if err != nil {
			return nil, err
		}
		return value.NewList(items...), nil
	case yaml.MappingNode:
		if n.ShortTag() == "!!set" {
			elems := make([]*yaml.Node, 0, len(n.Content)/2)
			for i := 0; i < len(n.Content); i += 2 {
				elems = append(elems, n.Content[i])
			}
			items, err := values(elems)
			if err != nil {
				return nil, err
			}
			return value.NewSet(items...), nil
		}
		entries := make([]value.Entry, 0, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			k, err := Value(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := Value(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.Pair(k, v))
		}
		return value.NewMap(entries...), nil
	}
	return nil, invalid(n, "unsupported node")
}

func scalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, invalid(n, err.Error())
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, invalid(n, err.Error())
		}
		return value.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, invalid(n, err.Error())
		}
		return value.Float(f), nil
	case "!!str", "!!binary":
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, invalid(n, err.Error())
		}
		return value.Bytes(s), nil
	}
	return nil, invalid(n, fmt.Sprintf("unsupported tag %s", n.ShortTag()))
}

func values(nodes []*yaml.Node) ([]value.Value, error) {
	out := make([]value.Value, 0, len(nodes))
	for _, n := range nodes {
		v, err := Value(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func record(n *yaml.Node) (value.Record, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, invalid(n, "attributes must be a mapping")
	}
	r := make(value.Record, len(n.Content)/2)
	for i := 0; i < len(n.Content); i += 2 {
		name := resolve(n.Content[i])
		if name.Kind != yaml.ScalarNode {
			return nil, invalid(name, "attribute name must be a scalar")
		}
		v, err := Value(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		r[name.Value] = v
	}
	return r, nil
}

// mapping indexes the fields of a mapping node, rejecting unknown keys.
func mapping(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, invalid(n, "expected a mapping")
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i < len(n.Content); i += 2 {
		name := n.Content[i].Value
		known := false
		for _, a := range allowed {
			known = known || a == name
		}
		if !known {
			return nil, invalid(n.Content[i], fmt.Sprintf("unknown field %q", name))
		}
		fields[name] = resolve(n.Content[i+1])
	}
	return fields, nil
}

func str(fields map[string]*yaml.Node, parent *yaml.Node, name string) (string, error) {
	n, ok := fields[name]
	if !ok {
		return "", invalid(parent, fmt.Sprintf("missing %s", name))
	}
	if n.Kind != yaml.ScalarNode {
		return "", invalid(n, fmt.Sprintf("%s must be a string", name))
	}
	return n.Value, nil
}

func keyValue(fields map[string]*yaml.Node, parent *yaml.Node) (value.Value, error) {
	n, ok := fields["key"]
	if !ok {
		return nil, invalid(parent, "missing key")
	}
	return Value(n)
}

func boolean(fields map[string]*yaml.Node, name string) (bool, error) {
	n, ok := fields[name]
	if !ok {
		return true, nil
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, invalid(n, err.Error())
	}
	return b, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func invalid(n *yaml.Node, msg string) error {
	return fmt.Errorf("%w: line %d column %d: %s", common.ErrInvalidScript, n.Line, n.Column, msg)
}
