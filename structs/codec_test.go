package structs

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-exi/exicore/exi"
)

type testAddress struct {
	City string `xml:"city"`
	Zip  string `xml:"zip"`
}

type testPerson struct {
	Name    string      `xml:"name"`
	Age     int         `xml:"age"`
	Address testAddress `xml:"address"`
	Tags    []string    `xml:"tag"`
}

func TestStructCodec_RoundTrip(t *testing.T) {
	factory := exi.NewDefaultEXIFactory()

	enc, err := NewStructEncoder(factory)
	require.NoError(t, err)

	src := testPerson{
		Name: "Ada",
		Age:  36,
		Address: testAddress{
			City: "London",
			Zip:  "NW1",
		},
		Tags: []string{"math", "engines"},
	}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, enc.EncodeStruct(w, &src, "person", ""))
	require.NoError(t, w.Flush())
	require.NotEmpty(t, buf.Bytes())

	dec, err := NewStructDecoder(exi.NewDefaultEXIFactory())
	require.NoError(t, err)

	var got testPerson
	require.NoError(t, dec.DecodeStruct(bufio.NewReader(bytes.NewReader(buf.Bytes())), &got))

	require.Equal(t, src.Name, got.Name)
	require.Equal(t, src.Age, got.Age)
	require.Equal(t, src.Address.City, got.Address.City)
	require.Equal(t, src.Address.Zip, got.Address.Zip)
}
