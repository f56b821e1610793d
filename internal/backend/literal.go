package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
)

// Printable reports whether c is printable ASCII.
func Printable(c byte) bool {
	return c >= 0x20 && c < 0x7f
}

// Unescape decodes the body of a C-style quoted literal (without the
// surrounding quotes). It understands \\ \' \" \# \n \r \t and \xNN.
func Unescape(body string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape")
		}
		switch body[i] {
		case '\\', '\'', '"', '#':
			b.WriteByte(body[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'x':
			if i+2 >= len(body) {
				return "", fmt.Errorf("short \\x escape")
			}
			n, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape: %w", err)
			}
			b.WriteByte(byte(n))
			i += 2
		default:
			return "", fmt.Errorf("unknown escape \\%c", body[i])
		}
	}
	return b.String(), nil
}

// ParseByteList decodes a comma separated list of hex byte literals such
// as "0x41, (byte) 0xde". When signed is true the target byte type is
// signed, so values above 0x7f must carry the "(byte) " narrowing cast;
// when false the cast is not allowed.
func ParseByteList(list string, signed bool) ([]byte, error) {
	if strings.TrimSpace(list) == "" {
		return []byte{}, nil
	}
	parts := strings.Split(list, ",")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		cast := strings.HasPrefix(p, "(byte) ")
		p = strings.TrimPrefix(p, "(byte) ")
		if !strings.HasPrefix(p, "0x") {
			return nil, fmt.Errorf("element %q is not a hex literal", p)
		}
		n, err := strconv.ParseUint(p[2:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", p, err)
		}
		switch {
		case cast && !signed:
			return nil, fmt.Errorf("element %q: cast on unsigned byte type", p)
		case signed && n > 0x7f && !cast:
			return nil, fmt.Errorf("element %q overflows a signed byte without a cast", p)
		}
		out = append(out, byte(n))
	}
	return out, nil
}

// VerifyBytes compares the bytes a literal decodes to with the bytes it was
// generated from. decoded is the result of Unescape or ParseByteList.
func VerifyBytes(lang string, want value.Bytes, decoded string, decodeErr error) error {
	if decodeErr != nil {
		return fmt.Errorf("%w: %s: %s: %v", common.ErrByteFidelity, lang, want, decodeErr)
	}
	if decoded != string(want) {
		return fmt.Errorf("%w: %s: %s encoded as %q", common.ErrByteFidelity, lang, want, decoded)
	}
	return nil
}

// HexBytes renders b as hex literals for a byte array initializer. For a
// signed byte type, values above 0x7f get a "(byte) " cast.
func HexBytes(b value.Bytes, signed bool) string {
	parts := make([]string, len(b))
	for i := 0; i < len(b); i++ {
		prefix := ""
		if signed && b[i] > 0x7f {
			prefix = "(byte) "
		}
		parts[i] = prefix + "0x" + strconv.FormatUint(uint64(b[i]), 16)
	}
	return strings.Join(parts, ", ")
}

// Unsupported builds an error for a value a backend cannot express.
func Unsupported(lang string, v value.Value, why string) error {
	return fmt.Errorf("%w: %s: %s: %s", common.ErrUnsupportedValue, lang, value.Describe(v), why)
}
