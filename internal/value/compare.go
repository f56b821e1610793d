package value

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// rank groups kinds for ordering; ints and floats compare numerically.
func rank(k Kind) int {
	switch k {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindBytes:
		return 3
	case KindList:
		return 4
	case KindSet:
		return 5
	default:
		return 6
	}
}

// Compare imposes the canonical total order on values. It returns -1, 0 or
// +1. Compare(a, b) == 0 exactly when a and b are structurally equal.
//
// Values of different kinds order by kind rank. Ints and floats compare by
// exact numeric value; when numerically equal the int sorts first. Bytes
// compare lexicographically by unsigned byte value. Lists, sets and maps
// compare element-wise, then by length. A nil Value sorts before everything.
func Compare(a, b Value) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	ra, rb := rank(a.Kind()), rank(b.Kind())
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch x := a.(type) {
	case Null:
		return 0
	case Bool:
		y := b.(Bool)
		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		default:
			return 1
		}
	case Int:
		switch y := b.(type) {
		case Int:
			return cmp.Compare(x, y)
		case Float:
			if c := compareIntFloat(int64(x), float64(y)); c != 0 {
				return c
			}
			return -1
		}
	case Float:
		switch y := b.(type) {
		case Float:
			return cmp.Compare(float64(x), float64(y))
		case Int:
			if c := compareIntFloat(int64(y), float64(x)); c != 0 {
				return -c
			}
			return 1
		}
	case Bytes:
		return strings.Compare(string(x), string(b.(Bytes)))
	case List:
		return compareSeq(x.items, b.(List).items)
	case Set:
		return compareSeq(x.items, b.(Set).items)
	case Map:
		y := b.(Map)
		n := min(len(x.entries), len(y.entries))
		for i := 0; i < n; i++ {
			if c := Compare(x.entries[i].Key, y.entries[i].Key); c != 0 {
				return c
			}
			if c := Compare(x.entries[i].Value, y.entries[i].Value); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(x.entries), len(y.entries))
	}
	return 0
}

// Equal reports structural equality. Int(1) and Float(1) are not equal.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// compareIntFloat compares i with f exactly, without rounding i to a float.
// NaN sorts below every integer.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f < math.MinInt64:
		return 1
	case f >= math.MaxInt64:
		// float64(MaxInt64) rounds up to 2^63.
		return -1
	}
	t := math.Trunc(f)
	ti := int64(t)
	if ti != i {
		return cmp.Compare(i, ti)
	}
	switch {
	case f > t:
		return -1
	case f < t:
		return 1
	}
	return 0
}

func compareSeq(a, b []Value) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func sortValues(items []Value) []Value {
	out := append([]Value(nil), items...)
	slices.SortStableFunc(out, Compare)
	return out
}

func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return Compare(a.Key, b.Key)
	})
}
