package exi

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEXIHeader_RoundTripMinimalHeader(t *testing.T) {
	factory := NewDefaultEXIFactory()

	var buf bytes.Buffer
	writeChannel := NewBitEncoderChannel(*bufio.NewWriter(&buf))
	require.NoError(t, NewEXIHeaderEncoder().Write(writeChannel, factory))
	require.NoError(t, writeChannel.Flush())

	readChannel := NewBitDecoderChannel(bufio.NewReader(&buf))
	decodedFactory, err := NewEXIHeaderDecoder().Parse(readChannel, NewDefaultEXIFactory())
	require.NoError(t, err)
	require.Equal(t, factory.GetCodingMode(), decodedFactory.GetCodingMode())
}

func TestEXIHeader_RoundTripWithCookie(t *testing.T) {
	factory := NewDefaultEXIFactory()
	require.NoError(t, factory.GetEncodingOptions().SetOption(OptionIncludeCookie))

	var buf bytes.Buffer
	writeChannel := NewBitEncoderChannel(*bufio.NewWriter(&buf))
	require.NoError(t, NewEXIHeaderEncoder().Write(writeChannel, factory))
	require.NoError(t, writeChannel.Flush())

	readChannel := NewBitDecoderChannel(bufio.NewReader(&buf))
	_, err := NewEXIHeaderDecoder().Parse(readChannel, NewDefaultEXIFactory())
	require.NoError(t, err)
}

func TestEXIHeader_RejectsBadCookie(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("$XXX")

	readChannel := NewBitDecoderChannel(bufio.NewReader(&buf))
	_, err := NewEXIHeaderDecoder().Parse(readChannel, NewDefaultEXIFactory())
	require.Error(t, err)

	var exiErr *Error
	require.ErrorAs(t, err, &exiErr)
	require.Equal(t, ErrHeaderSig, exiErr.Kind)
}
