package value

import (
	"slices"
	"strings"
)

// Record maps attribute names to values. It is the shape of a stored object
// as seen by put and get.
type Record map[string]Value

// Names returns the attribute names in canonical (byte-wise) order.
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Equal reports whether r and o hold the same names with structurally equal
// values.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for n, v := range r {
		w, ok := o[n]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

func (r Record) String() string {
	names := r.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": " + str(r[n])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
