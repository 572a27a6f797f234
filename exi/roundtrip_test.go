package exi_test

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-exi/exicore/exi"
	"github.com/go-exi/exicore/sax"
)

func encodeToEXI(t *testing.T, factory exi.EXIFactory, source string) []byte {
	t.Helper()

	encoder, err := sax.NewSAXEncoder(factory)
	require.NoError(t, err)

	var out bytes.Buffer
	writer := bufio.NewWriter(&out)
	require.NoError(t, encoder.SetWriter(writer))
	require.NoError(t, encoder.Encode(bufio.NewReader(strings.NewReader(source)), nil))
	require.NoError(t, writer.Flush())

	return out.Bytes()
}

func decodeFromEXI(t *testing.T, factory exi.EXIFactory, encoded []byte) string {
	t.Helper()

	decoder, err := sax.NewSAXDecoder(factory)
	require.NoError(t, err)

	var out bytes.Buffer
	xmlWriter := xml.NewEncoder(&out)
	_, err = decoder.Parse(bufio.NewReader(bytes.NewReader(encoded)), xmlWriter)
	require.NoError(t, err)
	require.NoError(t, xmlWriter.Flush())

	return out.String()
}

// TestRoundTrip_MinimumDocument drives the encoder/decoder pair through the
// smallest possible document: a single empty root element.
func TestRoundTrip_MinimumDocument(t *testing.T) {
	encoded := encodeToEXI(t, exi.NewDefaultEXIFactory(), `<root></root>`)
	require.NotEmpty(t, encoded)

	decoded := decodeFromEXI(t, exi.NewDefaultEXIFactory(), encoded)
	require.Contains(t, decoded, "<root>")
	require.Contains(t, decoded, "</root>")
}

// TestRoundTrip_AttributeValueHit exercises the global value partition:
// the same attribute value appears on two sibling elements, so the second
// occurrence must be recovered via a value-table hit rather than a literal
// string, and both must decode back to the same characters.
func TestRoundTrip_AttributeValueHit(t *testing.T) {
	factory := exi.NewDefaultEXIFactory()
	source := `<root><a id="repeated-value"></a><b id="repeated-value"></b></root>`

	encoded := encodeToEXI(t, factory, source)
	require.NotEmpty(t, encoded)

	decoded := decodeFromEXI(t, factory, encoded)
	require.Equal(t, 2, strings.Count(decoded, `id="repeated-value"`))
}

// TestRoundTrip_UnicodeCharacters exercises multi-byte character content
// through the string value channel.
func TestRoundTrip_UnicodeCharacters(t *testing.T) {
	factory := exi.NewDefaultEXIFactory()
	source := `<root>héllo wörld 日本語</root>`

	encoded := encodeToEXI(t, factory, source)
	decoded := decodeFromEXI(t, factory, encoded)
	require.Contains(t, decoded, "héllo wörld 日本語")
}

// TestRoundTrip_NestedElementsAndSiblings exercises start/end element
// nesting depth and sibling event sequencing through the grammar machine.
func TestRoundTrip_NestedElementsAndSiblings(t *testing.T) {
	factory := exi.NewDefaultEXIFactory()
	source := `<root><child1><grandchild>text</grandchild></child1><child2></child2></root>`

	encoded := encodeToEXI(t, factory, source)
	decoded := decodeFromEXI(t, factory, encoded)

	require.Contains(t, decoded, "<child1>")
	require.Contains(t, decoded, "<grandchild>")
	require.Contains(t, decoded, "text")
	require.Contains(t, decoded, "<child2>")
}
