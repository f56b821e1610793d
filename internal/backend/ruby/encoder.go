package ruby

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

var symbolName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// encoder renders values as Ruby literals. Byte strings that are not plain
// ASCII are built with Array#pack into a fresh local so that the result is
// a binary string; the statement is written to aux.
type encoder struct {
	aux *strings.Builder
	ids func() int
}

func (e encoder) literal(v value.Value) (string, error) {
	if v == nil {
		return "", backend.Unsupported(Lang, v, "missing value")
	}
	return v.Accept(e)
}

func (encoder) VisitNull() (string, error) { return "nil", nil }

func (encoder) VisitBool(b value.Bool) (string, error) {
	return strconv.FormatBool(bool(b)), nil
}

// Ruby integers are arbitrary precision.
func (encoder) VisitInt(i value.Int) (string, error) {
	return strconv.FormatInt(int64(i), 10), nil
}

func (encoder) VisitFloat(f value.Float) (string, error) {
	if !value.Finite(f) {
		return "", backend.Unsupported(Lang, f, "non-finite float has no literal")
	}
	return value.FormatFloat(float64(f)), nil
}

func (e encoder) VisitBytes(b value.Bytes) (string, error) {
	if body, ok := quote(b); ok {
		decoded, err := backend.Unescape(body)
		if err := backend.VerifyBytes(Lang, b, decoded, err); err != nil {
			return "", err
		}
		return `"` + body + `"`, nil
	}

	elems := backend.HexBytes(b, false)
	decoded, err := backend.ParseByteList(elems, false)
	if err := backend.VerifyBytes(Lang, b, string(decoded), err); err != nil {
		return "", err
	}
	id := fmt.Sprintf("bytes%d", e.ids())
	fmt.Fprintf(e.aux, "%s = [%s].pack('C*')\n", id, elems)
	return id, nil
}

func (e encoder) VisitList(l value.List) (string, error) {
	items, err := e.join(l.Items())
	if err != nil {
		return "", err
	}
	return "[" + items + "]", nil
}

func (e encoder) VisitSet(s value.Set) (string, error) {
	items, err := e.join(s.Items())
	if err != nil {
		return "", err
	}
	return "(Set.new [" + items + "])", nil
}

func (e encoder) VisitMap(m value.Map) (string, error) {
	entries := m.Entries()
	parts := make([]string, len(entries))
	for i, en := range entries {
		k, err := e.literal(en.Key)
		if err != nil {
			return "", err
		}
		v, err := e.literal(en.Value)
		if err != nil {
			return "", err
		}
		parts[i] = k + " => " + v
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// record renders an attribute hash. With symbols set, names become symbols
// as returned by the binding's get; otherwise they are strings as accepted
// by put.
func (e encoder) record(r value.Record, symbols bool) (string, error) {
	names := r.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		var k string
		switch {
		case symbols && symbolName.MatchString(n):
			k = ":" + n
		default:
			s, err := e.literal(value.Bytes(n))
			if err != nil {
				return "", err
			}
			k = s
			if symbols {
				k = ":" + s
			}
		}
		v, err := e.literal(r[n])
		if err != nil {
			return "", err
		}
		parts[i] = k + " => " + v
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (e encoder) join(items []value.Value) (string, error) {
	parts := make([]string, len(items))
	for i, it := range items {
		s, err := e.literal(it)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// quote escapes b for a double-quoted literal. It reports false when b holds
// bytes outside printable ASCII and the common whitespace escapes; a
// double-quoted literal with \x escapes would carry the source encoding
// instead of being binary.
func quote(b value.Bytes) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '"' || c == '\\' || c == '#':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case backend.Printable(c):
			sb.WriteByte(c)
		default:
			return "", false
		}
	}
	return sb.String(), true
}
