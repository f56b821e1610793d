package backend

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/kvbindgen/internal/common"
	"github.com/dmitrijs2005/kvbindgen/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintable(t *testing.T) {
	assert.True(t, Printable(' '))
	assert.True(t, Printable('~'))
	assert.False(t, Printable(0x1f))
	assert.False(t, Printable(0x7f))
	assert.False(t, Printable(0xde))
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{name: "plain", body: "abc", want: "abc"},
		{name: "quotes and hash", body: `\"\'\#\\`, want: `"'#\`},
		{name: "control", body: `\n\r\t`, want: "\n\r\t"},
		{name: "hex", body: `\x41\xde\x00`, want: "A\xde\x00"},
		{name: "empty", body: "", want: ""},
		{name: "dangling", body: `abc\`, wantErr: "dangling escape"},
		{name: "short hex", body: `\x4`, wantErr: "short \\x escape"},
		{name: "bare hex", body: `\x`, wantErr: "short \\x escape"},
		{name: "bad hex", body: `\xzz`, wantErr: "bad \\x escape"},
		{name: "unknown", body: `\q`, wantErr: "unknown escape \\q"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unescape(tt.body)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseByteList(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		signed  bool
		want    []byte
		wantErr string
	}{
		{name: "empty", list: "", want: []byte{}},
		{name: "blank", list: "   ", signed: true, want: []byte{}},
		{name: "unsigned", list: "0x41, 0xde, 0x0", want: []byte{0x41, 0xde, 0x00}},
		{name: "signed with cast", list: "0x7f, (byte) 0x80, (byte) 0xff", signed: true, want: []byte{0x7f, 0x80, 0xff}},
		{name: "signed small with cast", list: "(byte) 0x1", signed: true, want: []byte{0x01}},
		{name: "signed overflow", list: "0x41, 0xde", signed: true, wantErr: "overflows a signed byte"},
		{name: "cast on unsigned", list: "(byte) 0xde", wantErr: "cast on unsigned byte type"},
		{name: "not hex", list: "65", wantErr: "is not a hex literal"},
		{name: "too wide", list: "0x100", wantErr: `element "0x100"`},
		{name: "bad digits", list: "0xzz", wantErr: `element "0xzz"`},
		{name: "empty element", list: "0x1,", wantErr: "is not a hex literal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseByteList(tt.list, tt.signed)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHexBytes_RoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	for _, signed := range []bool{false, true} {
		got, err := ParseByteList(HexBytes(value.Bytes(all), signed), signed)
		require.NoError(t, err)
		assert.Equal(t, all, got, "signed=%t", signed)
	}

	assert.Equal(t, "0x0, 0x7f, (byte) 0x80", HexBytes(value.Bytes("\x00\x7f\x80"), true))
	assert.Equal(t, "0xde, 0xad", HexBytes(value.Bytes("\xde\xad"), false))
	assert.Equal(t, "", HexBytes(value.Bytes(""), true))
}

func TestVerifyBytes(t *testing.T) {
	want := value.Bytes("\xde\xad\xbe\xef")

	require.NoError(t, VerifyBytes("ruby", want, "\xde\xad\xbe\xef", nil))

	err := VerifyBytes("ruby", want, "\xde\xad\xbe", nil)
	require.ErrorIs(t, err, common.ErrByteFidelity)
	assert.Contains(t, err.Error(), "ruby")

	decodeErr := errors.New("dangling escape")
	err = VerifyBytes("java", want, "", decodeErr)
	require.ErrorIs(t, err, common.ErrByteFidelity)
	assert.Contains(t, err.Error(), "dangling escape")
}

func TestVerifyBytes_DecodersCatchCorruptLiterals(t *testing.T) {
	want := value.Bytes("A\xde")

	decoded, err := ParseByteList("0x41, 0xde", true)
	assert.ErrorIs(t, VerifyBytes("java", want, string(decoded), err), common.ErrByteFidelity)

	s, err := Unescape(`A\xdf`)
	assert.ErrorIs(t, VerifyBytes("python", want, s, err), common.ErrByteFidelity)
}

func TestUnsupported(t *testing.T) {
	err := Unsupported("java", value.NewList(value.Int(1)), "no literal")
	require.ErrorIs(t, err, common.ErrUnsupportedValue)
	assert.Equal(t, "unsupported value: java: list [1]: no literal", err.Error())

	assert.Contains(t, Unsupported("python", nil, "missing value").Error(), "<nil>")
}
