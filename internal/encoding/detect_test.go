package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/encoding"
)

const interchange = "ISA*00*          *00*          *ZZ*SENDER*ZZ*RECEIVER*250930*1200*^*00501*000000001*0*P*:\nN1*IN*ASSURANCE MÉDICALE\nIEA*1*000000001\n"

func TestNewUTF8Reader(t *testing.T) {
	type args struct {
		input []byte
	}

	type testCase struct {
		name         string
		args         args
		wantCharsets []string
	}

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(interchange))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(interchange))
	require.NoError(t, err)

	utf16be, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(interchange))
	require.NoError(t, err)

	tests := []testCase{
		{name: "UTF8Passthrough", args: args{input: []byte(interchange)}, wantCharsets: []string{encoding.CharsetUTF8}},
		{name: "UTF8BOM", args: args{input: append([]byte{0xEF, 0xBB, 0xBF}, interchange...)}, wantCharsets: []string{encoding.CharsetUTF8}},
		{name: "Windows1252", args: args{input: latin1}, wantCharsets: []string{encoding.CharsetWindows1252, encoding.CharsetISO88599}},
		{name: "UTF16LE", args: args{input: utf16le}, wantCharsets: []string{encoding.CharsetUTF16LE}},
		{name: "UTF16BE", args: args{input: utf16be}, wantCharsets: []string{encoding.CharsetUTF16BE}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.args.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)

			assert.Equal(t, interchange, string(got))
			assert.Contains(t, tt.wantCharsets, charset)
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, encoding.CharsetUTF8, charset)
}

func TestNewUTF8Reader_MultiByteRuneAtPeekBoundary(t *testing.T) {
	input := strings.Repeat("A", 4095) + "É" + "\n"

	r, charset, err := encoding.NewUTF8Reader(strings.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
	assert.Equal(t, encoding.CharsetUTF8, charset)
}

func TestReadText(t *testing.T) {
	t.Run("WithinLimit", func(t *testing.T) {
		text, charset, err := encoding.ReadText(strings.NewReader(interchange), int64(len(interchange)))
		require.NoError(t, err)
		assert.Equal(t, interchange, text)
		assert.Equal(t, encoding.CharsetUTF8, charset)
	})

	t.Run("OverLimit", func(t *testing.T) {
		_, _, err := encoding.ReadText(strings.NewReader(interchange), 10)
		assert.ErrorIs(t, err, encoding.ErrTooLarge)
	})

	t.Run("NoLimit", func(t *testing.T) {
		text, _, err := encoding.ReadText(strings.NewReader(interchange), 0)
		require.NoError(t, err)
		assert.Equal(t, interchange, text)
	})
}
