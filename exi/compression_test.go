package exi

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompression_RoundTripsThroughFlate(t *testing.T) {
	var buf bytes.Buffer

	cw, err := newCompressingWriter(&buf)
	require.NoError(t, err)

	payload := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly, repeatedly")
	_, err = cw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, cw.Close())

	cr := newDecompressingReader(bytes.NewReader(buf.Bytes()))
	defer cr.Close()

	got := make([]byte, len(payload))
	n := 0
	for n < len(got) {
		m, err := cr.Read(got[n:])
		n += m
		if err != nil {
			break
		}
	}

	require.Equal(t, payload, got)
}

func TestCompression_ShrinksRepetitiveInput(t *testing.T) {
	var buf bytes.Buffer
	cw, err := newCompressingWriter(&buf)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("EXI"), 4096)
	_, err = cw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, cw.Close())

	require.Less(t, buf.Len(), len(payload))
}

func TestNewDecompressedByteReader_WrapsUnderlyingStream(t *testing.T) {
	var buf bytes.Buffer
	cw, err := newCompressingWriter(&buf)
	require.NoError(t, err)
	_, err = cw.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, cw.Close())

	r := newDecompressedByteReader(bufio.NewReader(&buf))
	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(1), b)
}
