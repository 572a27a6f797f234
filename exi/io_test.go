package exi

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitWriterReader_RoundTripBits(t *testing.T) {
	var buf bytes.Buffer
	w := NewBitWriter(*bufio.NewWriter(&buf))

	require.NoError(t, w.WriteBits(0x05, 3))
	require.NoError(t, w.WriteBits(0x1A, 6))
	require.NoError(t, w.WriteBits(0xFF, 8))
	require.NoError(t, w.Flush())

	r := NewBitReader(bufio.NewReader(&buf))

	v1, err := r.ReadBits(3)
	require.NoError(t, err)
	require.Equal(t, 0x05, v1)

	v2, err := r.ReadBits(6)
	require.NoError(t, err)
	require.Equal(t, 0x1A, v2)

	v3, err := r.ReadBits(8)
	require.NoError(t, err)
	require.Equal(t, 0xFF, v3)
}

func TestBitWriterReader_ByteAlignment(t *testing.T) {
	var buf bytes.Buffer
	w := NewBitWriter(*bufio.NewWriter(&buf))

	require.NoError(t, w.WriteBit1())
	require.False(t, w.IsByteAligned())
	require.NoError(t, w.Align())
	require.True(t, w.IsByteAligned())
	require.NoError(t, w.Flush())

	require.Equal(t, []byte{0x80}, buf.Bytes())
}

func TestBitReader_BitPosTracksConsumedBits(t *testing.T) {
	var buf bytes.Buffer
	w := NewBitWriter(*bufio.NewWriter(&buf))
	require.NoError(t, w.WriteBits(0x3, 2))
	require.NoError(t, w.Flush())

	r := NewBitReader(bufio.NewReader(&buf))
	require.EqualValues(t, 0, r.BitPos())

	_, err := r.ReadBits(2)
	require.NoError(t, err)
	require.EqualValues(t, 2, r.BitPos())
}

func TestBitReader_ReadBitsRejectsNonPositiveCount(t *testing.T) {
	r := NewBitReader(bufio.NewReader(bytes.NewReader(nil)))

	_, err := r.ReadBits(0)
	require.Error(t, err)

	var exiErr *Error
	require.ErrorAs(t, err, &exiErr)
	require.Equal(t, ErrInvalidConfig, exiErr.Kind)
}

func TestBitReader_PrematureEndOfStreamIsOOB(t *testing.T) {
	r := NewBitReader(bufio.NewReader(bytes.NewReader(nil)))

	_, err := r.ReadBits(8)
	require.Error(t, err)

	var exiErr *Error
	require.ErrorAs(t, err, &exiErr)
	require.Equal(t, ErrOOB, exiErr.Kind)
}
