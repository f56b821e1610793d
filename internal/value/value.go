// Package value defines the canonical in-memory representation of every
// value a test script can store or expect: null, booleans, 64-bit integers,
// floats, byte strings, lists, sets and maps.
//
// Values are immutable once constructed. Sets and maps keep their contents
// in canonical order (see Compare), so iterating them is deterministic.
//
// Backends dispatch on the variant through Visitor. Adding a variant adds a
// method to Visitor, which breaks compilation of every encoder until it
// handles the new case.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a value variant. The numeric order of kinds is the rank
// used by Compare for values of different kinds; Int and Float share a rank.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindList
	KindSet
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is implemented by every variant of the model.
type Value interface {
	Kind() Kind
	// Accept dispatches to the Visitor method matching the variant.
	Accept(v Visitor) (string, error)
	// String returns a readable rendering for logs and error messages.
	String() string
}

// Visitor handles each variant of Value. Encoders implement it and return
// the source expression for the visited value.
type Visitor interface {
	VisitNull() (string, error)
	VisitBool(b Bool) (string, error)
	VisitInt(i Int) (string, error)
	VisitFloat(f Float) (string, error)
	VisitBytes(b Bytes) (string, error)
	VisitList(l List) (string, error)
	VisitSet(s Set) (string, error)
	VisitMap(m Map) (string, error)
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind                       { return KindNull }
func (Null) Accept(v Visitor) (string, error) { return v.VisitNull() }
func (Null) String() string                   { return "null" }

type Bool bool

func (Bool) Kind() Kind                         { return KindBool }
func (b Bool) Accept(v Visitor) (string, error) { return v.VisitBool(b) }
func (b Bool) String() string                   { return strconv.FormatBool(bool(b)) }

// Int is a signed 64-bit integer.
type Int int64

func (Int) Kind() Kind                         { return KindInt }
func (i Int) Accept(v Visitor) (string, error) { return v.VisitInt(i) }
func (i Int) String() string                   { return strconv.FormatInt(int64(i), 10) }

// Float is an IEEE 754 double.
type Float float64

func (Float) Kind() Kind                         { return KindFloat }
func (f Float) Accept(v Visitor) (string, error) { return v.VisitFloat(f) }
func (f Float) String() string                   { return FormatFloat(float64(f)) }

// Bytes is an arbitrary byte sequence. It is not required to be valid UTF-8
// or printable; every byte value 0-255 is allowed.
type Bytes string

func (Bytes) Kind() Kind                         { return KindBytes }
func (b Bytes) Accept(v Visitor) (string, error) { return v.VisitBytes(b) }
func (b Bytes) String() string                   { return strconv.Quote(string(b)) }

// List is an ordered sequence that allows duplicates.
type List struct {
	items []Value
}

// NewList returns a list holding items in the given order.
func NewList(items ...Value) List {
	return List{items: append([]Value(nil), items...)}
}

func (List) Kind() Kind                         { return KindList }
func (l List) Accept(v Visitor) (string, error) { return v.VisitList(l) }
func (l List) String() string                   { return "[" + join(l.items) + "]" }

// Len returns the number of elements.
func (l List) Len() int { return len(l.items) }

// Items returns a copy of the elements in their original order.
func (l List) Items() []Value { return append([]Value(nil), l.items...) }

// Set is a collection of unique values. Its elements are kept in canonical
// order regardless of construction order.
type Set struct {
	items []Value
}

// NewSet builds a set from items, dropping structurally equal duplicates.
func NewSet(items ...Value) Set {
	sorted := sortValues(items)
	out := make([]Value, 0, len(sorted))
	for _, it := range sorted {
		if len(out) > 0 && Equal(out[len(out)-1], it) {
			continue
		}
		out = append(out, it)
	}
	return Set{items: out}
}

func (Set) Kind() Kind                         { return KindSet }
func (s Set) Accept(v Visitor) (string, error) { return v.VisitSet(s) }
func (s Set) String() string                   { return "{" + join(s.items) + "}" }

// Len returns the number of elements.
func (s Set) Len() int { return len(s.items) }

// Items returns a copy of the elements in canonical order.
func (s Set) Items() []Value { return append([]Value(nil), s.items...) }

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map associates unique keys with values. Entries are kept in canonical key
// order regardless of construction order.
type Map struct {
	entries []Entry
}

// NewMap builds a map from entries. When a key repeats, the last entry wins.
func NewMap(entries ...Entry) Map {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		replaced := false
		for i := range out {
			if Equal(out[i].Key, e.Key) {
				out[i].Value = e.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return Map{entries: out}
}

// Pair is a shorthand for building an Entry.
func Pair(k, v Value) Entry { return Entry{Key: k, Value: v} }

func (Map) Kind() Kind                         { return KindMap }
func (m Map) Accept(v Visitor) (string, error) { return v.VisitMap(m) }

func (m Map) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = str(e.Key) + ": " + str(e.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Len returns the number of entries.
func (m Map) Len() int { return len(m.entries) }

// Entries returns a copy of the entries in canonical key order.
func (m Map) Entries() []Entry { return append([]Entry(nil), m.entries...) }

func join(items []Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = str(it)
	}
	return strings.Join(parts, ", ")
}

func str(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Scalar reports whether v may be used as a key: bytes, int or float.
func Scalar(v Value) bool {
	if v == nil {
		return false
	}
	switch v.Kind() {
	case KindBytes, KindInt, KindFloat:
		return true
	}
	return false
}

// Describe renders v with its kind, e.g. `list [1, 2]`. It is meant for
// error messages.
func Describe(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s", v.Kind(), v.String())
}
