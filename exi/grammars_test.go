package exi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The schema-less grammar context must seed exactly the three built-in
// URI partitions with their mandated IDs, prefixes, and local names.
func TestSchemaLessGrammarContext_Seeding(t *testing.T) {
	gctx := NewSchemaLessGrammars().GetGrammarContext()
	require.Equal(t, 3, gctx.GetNumberOfGrammarUriContexts())

	empty := gctx.GetGrammarUriContextByID(0)
	require.Equal(t, 0, empty.GetNamespaceUriID())
	require.Equal(t, "", empty.GetNamespaceUri())
	require.Equal(t, 1, empty.GetNumberOfPrefixes())

	xml := gctx.GetGrammarUriContextByID(1)
	require.Equal(t, 1, xml.GetNamespaceUriID())
	require.Equal(t, XML_NS_URI, xml.GetNamespaceUri())
	require.Equal(t, 4, xml.GetNumberOfQNames())
	require.NotNil(t, xml.GetQNameContextByLocalName("space"))

	xsi := gctx.GetGrammarUriContextByID(2)
	require.Equal(t, 2, xsi.GetNamespaceUriID())
	require.Equal(t, XMLSchemaInstanceNS_URI, xsi.GetNamespaceUri())
	require.Equal(t, 2, xsi.GetNumberOfQNames())

	// the xsi qnames themselves must report URI ID 2, or URI hits
	// against the runtime table desynchronize
	nilCtx := xsi.GetQNameContextByLocalName("nil")
	require.NotNil(t, nilCtx)
	require.Equal(t, 2, nilCtx.GetNamespaceUriID())
	typeCtx := xsi.GetQNameContextByLocalName("type")
	require.NotNil(t, typeCtx)
	require.Equal(t, 2, typeCtx.GetNamespaceUriID())
}

func TestSchemaLessGrammars_SchemaID(t *testing.T) {
	slg := NewSchemaLessGrammars()
	require.Nil(t, slg.GetSchemaID())
	require.NoError(t, slg.SetSchemaID(nil))
	require.Error(t, slg.SetSchemaID(ptrTo("some-id")))
}

// Runtime URI contexts continue the static numbering: the first URI
// learned from the document gets ID 3.
func TestBodyCoder_LearnsURIsPastBuiltIns(t *testing.T) {
	bc, err := newBodyCoderBase(NewDefaultEXIFactory())
	require.NoError(t, err)

	require.Nil(t, bc.GetURI("http://example.org/ns"))
	uc := bc.addUri("http://example.org/ns")
	require.Equal(t, 3, uc.GetNamespaceUriID())
	require.Same(t, uc, bc.GetURI("http://example.org/ns"))
}
