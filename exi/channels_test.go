package exi

import (
	"bufio"
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func newChannelPair(t *testing.T, bitPacked bool) (EncoderChannel, func() DecoderChannel) {
	t.Helper()

	var buf bytes.Buffer
	var enc EncoderChannel
	if bitPacked {
		enc = NewBitEncoderChannel(*bufio.NewWriter(&buf))
	} else {
		enc = NewByteEncoderChannel(*bufio.NewWriter(&buf))
	}
	return enc, func() DecoderChannel {
		require.NoError(t, enc.Flush())
		if bitPacked {
			return NewBitDecoderChannel(bufio.NewReader(bytes.NewReader(buf.Bytes())))
		}
		return NewByteDecoderChannel(bufio.NewReader(bytes.NewReader(buf.Bytes())))
	}
}

func TestChannel_UnsignedIntegerRoundTrip(t *testing.T) {
	for _, bitPacked := range []bool{true, false} {
		enc, decode := newChannelPair(t, bitPacked)

		values := []int{0, 1, 127, 128, 16383, 16384, 1 << 20, 1<<31 - 1}
		for _, v := range values {
			require.NoError(t, enc.EncodeUnsignedInteger(v))
		}

		dec := decode()
		for _, want := range values {
			got, err := dec.DecodeUnsignedInteger()
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestChannel_IntegerValueWidthsRoundTrip(t *testing.T) {
	big1, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.True(t, ok)

	values := []*IntegerValue{
		IntegerValueOf32(0),
		IntegerValueOf32(-1),
		IntegerValueOf32(42),
		IntegerValueOf64(1 << 40),
		IntegerValueOf64(-(1 << 40)),
		IntegerValueOfBig(*big1),
	}

	enc, decode := newChannelPair(t, true)
	for _, v := range values {
		require.NoError(t, enc.EncodeIntegerValue(v))
	}

	dec := decode()
	for _, want := range values {
		got, err := dec.DecodeIntegerValue()
		require.NoError(t, err)
		require.True(t, want.Equals(got), "want %v got %v", want, got)
	}
}

func TestChannel_NBitUnsignedIntegerByteMode(t *testing.T) {
	enc, decode := newChannelPair(t, false)

	require.NoError(t, enc.EncodeNBitUnsignedInteger(0x5, 3))
	require.NoError(t, enc.EncodeNBitUnsignedInteger(0x1234, 16))
	require.NoError(t, enc.EncodeNBitUnsignedInteger(0xABCDE, 20))

	dec := decode()
	v, err := dec.DecodeNBitUnsignedInteger(3)
	require.NoError(t, err)
	require.Equal(t, 0x5, v)
	v, err = dec.DecodeNBitUnsignedInteger(16)
	require.NoError(t, err)
	require.Equal(t, 0x1234, v)
	v, err = dec.DecodeNBitUnsignedInteger(20)
	require.NoError(t, err)
	require.Equal(t, 0xABCDE, v)
}

// A dateTime without fractional seconds must encode the presence flag
// as 0 so the decoder does not consume a phantom fractional field.
func TestChannel_DateTimeRoundTripWithoutFractionalSecs(t *testing.T) {
	val := NewDateTimeValue(DateTimeDateTime, 2024,
		3*DateTimeValue_MonthMultiplicator+15,
		(10*DateTimeValue_SecondsInMinute+30)*DateTimeValue_SecondsInMinute+45,
		0, true, 120)

	enc, decode := newChannelPair(t, true)
	require.NoError(t, enc.EncodeDateTime(val))

	got, err := decode().DecodeDateTimeValue(DateTimeDateTime)
	require.NoError(t, err)
	require.True(t, val.Equals(got))
}

func TestChannel_DateTimeRoundTripWithFractionalSecs(t *testing.T) {
	val := NewDateTimeValue(DateTimeTime, 0,
		0,
		(23*DateTimeValue_SecondsInMinute+59)*DateTimeValue_SecondsInMinute+59,
		531, false, 0)

	enc, decode := newChannelPair(t, true)
	require.NoError(t, enc.EncodeDateTime(val))

	got, err := decode().DecodeDateTimeValue(DateTimeTime)
	require.NoError(t, err)
	require.True(t, val.Equals(got))
}

func TestChannel_DecimalRoundTrip(t *testing.T) {
	enc, decode := newChannelPair(t, true)

	// 12.340 -> integral 12, fractional digits "043" reversed
	require.NoError(t, enc.EncodeDecimal(true, IntegerValueOf32(12), IntegerValueOf32(43)))

	got, err := decode().DecodeDecimalValue()
	require.NoError(t, err)
	s, err := got.ToString()
	require.NoError(t, err)
	require.Equal(t, "-12.34", s)
}

func TestChannel_StringRoundTrip(t *testing.T) {
	enc, decode := newChannelPair(t, true)
	require.NoError(t, enc.EncodeString("α β ✓"))

	got, err := decode().DecodeString()
	require.NoError(t, err)
	require.Equal(t, "α β ✓", string(got))
}

// The fixed-width UInt primitive spans at most 8 seven-bit groups: the
// 8th group 0x7F yields 2^56-1, a continuation bit there is malformed.
func TestChannel_UnsignedIntegerGroupBound(t *testing.T) {
	full := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}
	dec := NewBitDecoderChannel(bufio.NewReader(bytes.NewReader(full)))
	got, err := dec.DecodeUnsignedInteger()
	require.NoError(t, err)
	require.Equal(t, 1<<56-1, got)

	overlong := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	dec = NewBitDecoderChannel(bufio.NewReader(bytes.NewReader(overlong)))
	_, err = dec.DecodeUnsignedInteger()
	require.Error(t, err)
	var exiErr *Error
	require.ErrorAs(t, err, &exiErr)
	require.Equal(t, ErrInvalidEXIInput, exiErr.Kind)
}

func TestChannel_StringRejectsOutOfRangeCodePoint(t *testing.T) {
	// length 1 followed by code point 2^21 (one past the Unicode range)
	raw := []byte{0x01, 0x80, 0x80, 0x80, 0x01}
	dec := NewBitDecoderChannel(bufio.NewReader(bytes.NewReader(raw)))
	_, err := dec.DecodeString()
	require.Error(t, err)
	var exiErr *Error
	require.ErrorAs(t, err, &exiErr)
	require.Equal(t, ErrInvalidEXIInput, exiErr.Kind)
}
