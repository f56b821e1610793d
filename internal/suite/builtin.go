package suite

import (
	"math"

	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

var key = value.Bytes("k")

func put(attrs value.Record) Put { return Put{Key: key, Attrs: attrs, OK: true} }

func attr(x value.Value) value.Record { return value.Record{"v": x} }

// roundTrip stores empty, full, then empty again, reading back after each
// write. An attribute never written reads back as empty.
func roundTrip(name, decl string, empty, full value.Value) TestCase {
	return TestCase{
		Name:  name,
		Space: decl,
		Ops: []Operation{
			put(value.Record{}),
			Expect(key, attr(empty)),
			put(attr(full)),
			Expect(key, attr(full)),
			put(attr(empty)),
			Expect(key, attr(empty)),
		},
	}
}

func strs(ss ...string) []value.Value {
	out := make([]value.Value, len(ss))
	for i, s := range ss {
		out[i] = value.Bytes(s)
	}
	return out
}

func ints(is ...int64) []value.Value {
	out := make([]value.Value, len(is))
	for i, n := range is {
		out[i] = value.Int(n)
	}
	return out
}

func floats(fs ...float64) []value.Value {
	out := make([]value.Value, len(fs))
	for i, f := range fs {
		out[i] = value.Float(f)
	}
	return out
}

func pairs(keys, vals []value.Value) value.Map {
	entries := make([]value.Entry, len(keys))
	for i := range keys {
		entries[i] = value.Pair(keys[i], vals[i])
	}
	return value.NewMap(entries...)
}

// Builtin returns the standard binding test-cases.
func Builtin() []TestCase {
	basic := TestCase{
		Name:  "Basic",
		Space: "space kv key k attribute v",
		Ops:   []Operation{Absent(key)},
	}
	for _, s := range []string{"v1", "v2", "v3"} {
		basic.Ops = append(basic.Ops, put(attr(value.Bytes(s))), Expect(key, attr(value.Bytes(s))))
	}
	basic.Ops = append(basic.Ops, Delete{Key: key, OK: true}, Absent(key))

	multi := TestCase{
		Name:  "MultiAttribute",
		Space: "space kv key k attributes v1, v2",
		Ops: []Operation{
			Absent(key),
			put(value.Record{"v1": value.Bytes("ABC")}),
			Expect(key, value.Record{"v1": value.Bytes("ABC"), "v2": value.Bytes("")}),
			put(value.Record{"v2": value.Bytes("123")}),
			Expect(key, value.Record{"v1": value.Bytes("ABC"), "v2": value.Bytes("123")}),
		},
	}

	str := TestCase{
		Name:  "DataTypeString",
		Space: "space kv key k attributes v",
		Ops: []Operation{
			put(value.Record{}),
			Expect(key, attr(value.Bytes(""))),
			put(attr(value.Bytes("xxx"))),
			Expect(key, attr(value.Bytes("xxx"))),
			put(attr(value.Bytes("\xde\xad\xbe\xef"))),
			Expect(key, attr(value.Bytes("\xde\xad\xbe\xef"))),
		},
	}

	integer := TestCase{
		Name:  "DataTypeInt",
		Space: "space kv key k attributes int v",
		Ops:   []Operation{put(value.Record{}), Expect(key, attr(value.Int(0)))},
	}
	for _, n := range []int64{1, -1, 0, math.MaxInt64, math.MinInt64} {
		integer.Ops = append(integer.Ops, put(attr(value.Int(n))), Expect(key, attr(value.Int(n))))
	}

	float := TestCase{
		Name:  "DataTypeFloat",
		Space: "space kv key k attributes float v",
		Ops: []Operation{
			put(value.Record{}),
			Expect(key, attr(value.Float(0))),
			put(attr(value.Float(3.14))),
			Expect(key, attr(value.Float(3.14))),
		},
	}

	cases := []TestCase{basic, multi, str, integer, float}

	elems := []struct {
		name string
		decl string
		vals []value.Value
	}{
		{"String", "string", strs("A", "B", "C")},
		{"Int", "int", ints(1, 2, 3)},
		{"Float", "float", floats(3.14, 0.25, 1.0)},
	}
	for _, e := range elems {
		cases = append(cases, roundTrip("DataTypeList"+e.name,
			"space kv key k attributes list("+e.decl+") v", value.NewList(), value.NewList(e.vals...)))
	}
	for _, e := range elems {
		cases = append(cases, roundTrip("DataTypeSet"+e.name,
			"space kv key k attributes set("+e.decl+") v", value.NewSet(), value.NewSet(e.vals...)))
	}

	mapVals := map[string][]value.Value{
		"String": strs("X", "Y", "Z"),
		"Int":    ints(1, 2, 3),
		"Float":  floats(3.14, 0.25, 1.0),
	}
	// Same-typed maps use values distinct from their keys.
	special := map[string][]value.Value{
		"Int":   ints(7, 8, 9),
		"Float": floats(1.0, 2.0, 3.0),
	}
	for _, k := range elems {
		for _, e := range elems {
			vals := mapVals[e.name]
			if s, ok := special[k.name]; ok && k.name == e.name {
				vals = s
			}
			cases = append(cases, roundTrip("DataTypeMap"+k.name+e.name,
				"space kv key k attributes map("+k.decl+", "+e.decl+") v",
				value.NewMap(), pairs(k.vals, vals)))
		}
	}

	return cases
}
