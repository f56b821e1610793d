package python

import (
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// encoder renders values as Python 2 literals. Python has native syntax for
// every variant, so no auxiliary statements are ever needed.
type encoder struct{}

func (e encoder) literal(v value.Value) (string, error) {
	if v == nil {
		return "", backend.Unsupported(Lang, v, "missing value")
	}
	return v.Accept(e)
}

func (encoder) VisitNull() (string, error) { return "None", nil }

func (encoder) VisitBool(b value.Bool) (string, error) {
	if b {
		return "True", nil
	}
	return "False", nil
}

// Python ints are arbitrary precision, so no suffix is needed at the
// int64 extremes.
func (encoder) VisitInt(i value.Int) (string, error) {
	return strconv.FormatInt(int64(i), 10), nil
}

func (encoder) VisitFloat(f value.Float) (string, error) {
	if !value.Finite(f) {
		return "", backend.Unsupported(Lang, f, "non-finite float has no literal")
	}
	return value.FormatFloat(float64(f)), nil
}

// VisitBytes emits a str literal. Every byte is expressible: printable ASCII
// as itself, the rest as \xNN.
func (encoder) VisitBytes(b value.Bytes) (string, error) {
	body := quote(b)
	decoded, err := backend.Unescape(body)
	if err := backend.VerifyBytes(Lang, b, decoded, err); err != nil {
		return "", err
	}
	return "'" + body + "'", nil
}

func (e encoder) VisitList(l value.List) (string, error) {
	items, err := e.join(l.Items())
	if err != nil {
		return "", err
	}
	return "[" + items + "]", nil
}

// VisitSet uses set([...]) because {} is an empty dict.
func (e encoder) VisitSet(s value.Set) (string, error) {
	items, err := e.join(s.Items())
	if err != nil {
		return "", err
	}
	return "set([" + items + "])", nil
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
		parts[i] = k + ": " + v
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// record renders attribute names and values as a dict literal.
func (e encoder) record(r value.Record) (string, error) {
	names := r.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		k, err := e.literal(value.Bytes(n))
		if err != nil {
			return "", err
		}
		v, err := e.literal(r[n])
		if err != nil {
			return "", err
		}
		parts[i] = k + ": " + v
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

func quote(b value.Bytes) string {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '\\' || c == '\'':
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
			sb.WriteString(`\x`)
			sb.WriteString(hex2(c))
		}
	}
	return sb.String()
}

func hex2(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}
