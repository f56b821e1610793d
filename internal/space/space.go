// Package space parses key-value space declarations such as
//
//	space kv key k attributes int v, list(string) tags, map(string, float) scores
//
// and checks keys and attribute values against the declared types.
//
// Attributes without an explicit type are strings. Optional trailing
// clauses (subspace, create N partitions, tolerate N failures) are parsed
// and validated but do not influence value checks.
package space

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Primitive is a scalar attribute type.
type Primitive int

const (
	String Primitive = iota
	Int
	Float
)

func (p Primitive) String() string {
	switch p {
	case Int:
		return "int"
	case Float:
		return "float"
	}
	return "string"
}

// Container distinguishes scalar attributes from collections.
type Container int

const (
	Scalar Container = iota
	List
	Set
	Map
)

// Type is the declared type of an attribute or key.
type Type struct {
	Container Container

	// Elem is the scalar type, the element type of a list or set, or the
	// value type of a map.
	Elem Primitive

	// Key is the key type of a map.
	Key Primitive
}

func (t Type) String() string {
	switch t.Container {
	case List:
		return "list(" + t.Elem.String() + ")"
	case Set:
		return "set(" + t.Elem.String() + ")"
	case Map:
		return "map(" + t.Key.String() + ", " + t.Elem.String() + ")"
	}
	return t.Elem.String()
}

// Attribute is a named, typed field of a stored object.
type Attribute struct {
	Name string
	Type Type
}

// Schema is a parsed space declaration.
type Schema struct {
	Name       string
	Key        Attribute
	Attributes []Attribute
	Subspaces  [][]string
	Partitions int
	Failures   int

	// Declaration is the source text the schema was parsed from, with runs
	// of whitespace collapsed to single spaces.
	Declaration string
}

// Parse parses and validates a space declaration.
func Parse(decl string) (*Schema, error) {
	ast, err := declParser.ParseString("", decl)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", common.ErrInvalidSpace, decl, err)
	}

	s := &Schema{
		Name:        ast.Name,
		Key:         ast.Key.attribute(),
		Declaration: strings.Join(strings.Fields(decl), " "),
	}

	seen := map[string]bool{s.Key.Name: true}
	if s.Key.Type.Container != Scalar {
		return nil, fmt.Errorf("%w: key %q must be a scalar, got %s", common.ErrInvalidSpace, s.Key.Name, s.Key.Type)
	}
	for _, f := range ast.Attributes {
		a := f.attribute()
		if seen[a.Name] {
			return nil, fmt.Errorf("%w: duplicate attribute %q at %s", common.ErrInvalidSpace, a.Name, f.Pos)
		}
		seen[a.Name] = true
		s.Attributes = append(s.Attributes, a)
	}

	for _, sub := range ast.Subspaces {
		for _, n := range sub.Names {
			if !seen[n] {
				return nil, fmt.Errorf("%w: subspace references unknown attribute %q at %s", common.ErrInvalidSpace, n, sub.Pos)
			}
		}
		s.Subspaces = append(s.Subspaces, sub.Names)
	}

	s.Partitions = 1
	if ast.Partitions != nil {
		if *ast.Partitions < 1 {
			return nil, fmt.Errorf("%w: partitions must be positive", common.ErrInvalidSpace)
		}
		s.Partitions = *ast.Partitions
	}
	if ast.Failures != nil {
		s.Failures = *ast.Failures
	}

	return s, nil
}

func (f *field) attribute() Attribute {
	a := Attribute{Name: f.Name, Type: Type{Container: Scalar, Elem: String}}
	if f.Type == nil {
		return a
	}
	switch {
	case f.Type.List != nil:
		a.Type = Type{Container: List, Elem: f.Type.List.primitive()}
	case f.Type.Set != nil:
		a.Type = Type{Container: Set, Elem: f.Type.Set.primitive()}
	case f.Type.Map != nil:
		a.Type = Type{Container: Map, Key: f.Type.Map.Key.primitive(), Elem: f.Type.Map.Value.primitive()}
	case f.Type.Prim != nil:
		a.Type = Type{Container: Scalar, Elem: f.Type.Prim.primitive()}
	}
	return a
}

func (p *primitive) primitive() Primitive {
	switch p.Name {
	case "int", "int64":
		return Int
	case "float":
		return Float
	}
	return String
}

// Attribute returns the attribute called name, if declared.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// CheckKey verifies that v is a scalar of the key's declared type.
func (s *Schema) CheckKey(v value.Value) error {
	if v == nil || !value.Scalar(v) {
		return fmt.Errorf("%w: key of space %s must be bytes, int or float, got %s",
			common.ErrUnsupportedValue, s.Name, value.Describe(v))
	}
	if err := Conforms(s.Key.Type, v); err != nil {
		return fmt.Errorf("key %s: %w", s.Key.Name, err)
	}
	return nil
}

// CheckRecord verifies that every attribute in r is declared and holds a
// value of the declared type.
func (s *Schema) CheckRecord(r value.Record) error {
	for _, name := range r.Names() {
		a, ok := s.Attribute(name)
		if !ok {
			return fmt.Errorf("%w: space %s has no attribute %q", common.ErrInvalidSpace, s.Name, name)
		}
		if err := Conforms(a.Type, r[name]); err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
	}
	return nil
}

// Conforms checks that v is a valid value for type t.
func Conforms(t Type, v value.Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil value for %s", common.ErrUnsupportedValue, t)
	}
	switch t.Container {
	case Scalar:
		return conformsPrimitive(t.Elem, v)
	case List:
		l, ok := v.(value.List)
		if !ok {
			return mismatch(t, v)
		}
		for _, it := range l.Items() {
			if err := conformsPrimitive(t.Elem, it); err != nil {
				return err
			}
		}
	case Set:
		s, ok := v.(value.Set)
		if !ok {
			return mismatch(t, v)
		}
		for _, it := range s.Items() {
			if err := conformsPrimitive(t.Elem, it); err != nil {
				return err
			}
		}
	case Map:
		m, ok := v.(value.Map)
		if !ok {
			return mismatch(t, v)
		}
		for _, e := range m.Entries() {
			if err := conformsPrimitive(t.Key, e.Key); err != nil {
				return err
			}
			if err := conformsPrimitive(t.Elem, e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func conformsPrimitive(p Primitive, v value.Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil element for %s", common.ErrUnsupportedValue, p)
	}
	want := value.KindBytes
	switch p {
	case Int:
		want = value.KindInt
	case Float:
		want = value.KindFloat
	}
	if v.Kind() != want {
		return mismatch(Type{Container: Scalar, Elem: p}, v)
	}
	return nil
}

func mismatch(t Type, v value.Value) error {
	return fmt.Errorf("%w: %s is not a valid %s", common.ErrUnsupportedValue, value.Describe(v), t)
}
