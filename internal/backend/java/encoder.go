package java

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/backend"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

const indent = "        "

// encoder renders values as Java expressions. Java has no collection
// literals, so lists, sets, maps and binary byte strings are built by
// statements written to aux, and the expression is the fresh local.
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

func (e encoder) stmt(format string, args ...any) {
	e.aux.WriteString(indent)
	fmt.Fprintf(e.aux, format, args...)
	e.aux.WriteByte('\n')
}

func (encoder) VisitNull() (string, error) { return "null", nil }

func (encoder) VisitBool(b value.Bool) (string, error) {
	return strconv.FormatBool(bool(b)), nil
}

// VisitInt appends L outside the int range; an unsuffixed literal there is
// a compile error.
func (encoder) VisitInt(i value.Int) (string, error) {
	s := strconv.FormatInt(int64(i), 10)
	if !value.FitsInt32(i) {
		s += "L"
	}
	return s, nil
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

	elems := backend.HexBytes(b, true)
	decoded, err := backend.ParseByteList(elems, true)
	if err := backend.VerifyBytes(Lang, b, string(decoded), err); err != nil {
		return "", err
	}
	id := fmt.Sprintf("bytes%d", e.ids())
	e.stmt("byte[] %s = {%s};", id, elems)
	return "new ByteString(" + id + ")", nil
}

func (e encoder) VisitList(l value.List) (string, error) {
	id := fmt.Sprintf("list%d", e.ids())
	e.stmt("List<Object> %s = new ArrayList<Object>();", id)
	return id, e.add(id, l.Items())
}

func (e encoder) VisitSet(s value.Set) (string, error) {
	id := fmt.Sprintf("set%d", e.ids())
	e.stmt("Set<Object> %s = new HashSet<Object>();", id)
	return id, e.add(id, s.Items())
}

func (e encoder) VisitMap(m value.Map) (string, error) {
	id := fmt.Sprintf("map%d", e.ids())
	e.stmt("Map<Object, Object> %s = new HashMap<Object, Object>();", id)
	for _, en := range m.Entries() {
		if err := e.put(id, en.Key, en.Value); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (e encoder) add(id string, items []value.Value) error {
	for _, it := range items {
		s, err := e.literal(it)
		if err != nil {
			return err
		}
		e.stmt("%s.add(%s);", id, s)
	}
	return nil
}

func (e encoder) put(id string, k, v value.Value) error {
	ks, err := e.literal(k)
	if err != nil {
		return err
	}
	vs, err := e.literal(v)
	if err != nil {
		return err
	}
	e.stmt("%s.put(%s, %s);", id, ks, vs)
	return nil
}

// record fills a Map<String, Object> named id from r in name order.
func (e encoder) record(id string, r value.Record) error {
	e.stmt("Map<String, Object> %s = new HashMap<String, Object>();", id)
	for _, n := range r.Names() {
		if err := e.put(id, value.Bytes(n), r[n]); err != nil {
			return err
		}
	}
	return nil
}

// quote escapes b for a string literal, or reports false when b needs a
// byte array. Java strings are UTF-16, so only ASCII survives the
// String-to-bytes conversion the binding performs.
func quote(b value.Bytes) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '"' || c == '\\':
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
