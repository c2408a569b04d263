package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/black12-ag/reconcile/internal/encoding"
)

func readAll(t *testing.T, in []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(in))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Description\n2024-03-10,Überweisung für Café\n"
	assert.Equal(t, input, readAll(t, []byte(input)))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Amount\n")...)
	assert.Equal(t, "Date,Amount\n", readAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// "Hi" in UTF-16 little endian with BOM.
	input := []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00}
	assert.Equal(t, "Hi", readAll(t, input))
}

func TestNewUTF8Reader_UTF16BE(t *testing.T) {
	input := []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'}
	assert.Equal(t, "Hi", readAll(t, input))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// 0xE9 is "é" in ISO-8859-1 / Windows-1252.
	input := []byte("Caf\xe9 M\xfcnchen")
	got := readAll(t, input)

	assert.True(t, strings.Contains(got, "é"), "got %q", got)
	assert.True(t, strings.Contains(got, "ü"), "got %q", got)
}

func TestNewUTF8Reader_EmptyInput(t *testing.T) {
	assert.Equal(t, "", readAll(t, nil))
}
