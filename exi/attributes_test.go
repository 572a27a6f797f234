package exi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newCanonicalAttributeList(t *testing.T) *AttributeListImpl {
	t.Helper()
	factory := NewDefaultEXIFactory()
	require.NoError(t, factory.GetEncodingOptions().SetOption(OptionCanonicalExi))
	return NewAttributeListImpl(factory)
}

// Canonical streams emit attributes sorted by local name, then URI,
// regardless of arrival order.
func TestAttributeList_CanonicalAttributeOrder(t *testing.T) {
	al := newCanonicalAttributeList(t)

	al.AddAttribute(ptrTo("urn:b"), "zeta", nil, "1")
	al.AddAttribute(ptrTo("urn:a"), "alpha", nil, "2")
	al.AddAttribute(ptrTo("urn:b"), "alpha", nil, "3")
	al.AddAttribute(ptrTo("urn:a"), "mid", nil, "4")

	require.Equal(t, 4, al.GetNumberOfAttributes())

	var got []string
	for i := 0; i < al.GetNumberOfAttributes(); i++ {
		got = append(got, *al.GetAttributeURI(i)+"|"+*al.GetAttributeLocalName(i))
	}
	require.Equal(t, []string{"urn:a|alpha", "urn:b|alpha", "urn:a|mid", "urn:b|zeta"}, got)
}

func TestAttributeList_CanonicalNamespaceOrder(t *testing.T) {
	al := newCanonicalAttributeList(t)

	al.AddNamespaceDeclaration("urn:p", ptrTo("p"))
	al.AddNamespaceDeclaration("urn:default", nil)
	al.AddNamespaceDeclaration("urn:a", ptrTo("a"))

	require.Equal(t, 3, al.GetNumberOfNamespaceDeclarations())
	// nil prefix (the default declaration) sorts first
	require.Nil(t, al.GetNamespaceDeclaration(0).Prefix)
	require.Equal(t, "a", *al.GetNamespaceDeclaration(1).Prefix)
	require.Equal(t, "p", *al.GetNamespaceDeclaration(2).Prefix)
}

func TestAttributeList_XsiAttributesSetAside(t *testing.T) {
	al := NewAttributeListImpl(NewDefaultEXIFactory())

	al.AddAttribute(ptrTo(XMLSchemaInstanceNS_URI), XSIType, ptrTo("xsi"), "ex:T")
	al.AddAttribute(ptrTo(XMLSchemaInstanceNS_URI), XSINil, ptrTo("xsi"), "true")
	al.AddAttribute(nil, "plain", nil, "v")

	require.True(t, al.HasXsiType())
	require.Equal(t, "ex:T", *al.GetXsiTypeRaw())
	require.True(t, al.HasXsiNil())
	require.Equal(t, "true", *al.GetXsiNil())
	require.Equal(t, 1, al.GetNumberOfAttributes())
}

// SelfContained requires pre-compression alignment (spec §4.4): any
// other coding mode must be rejected before a coder is built.
func TestFactory_SelfContainedRequiresPreCompression(t *testing.T) {
	factory := NewDefaultEXIFactory()
	require.NoError(t, factory.GetFidelityOptions().SetFidelity(FeatureSC, true))

	_, err := factory.CreateEXIBodyEncoder()
	require.Error(t, err)
	var exiErr *Error
	require.ErrorAs(t, err, &exiErr)
	require.Equal(t, ErrMismatch, exiErr.Kind)

	factory.SetCodingMode(CodingModePreCompression)
	_, err = factory.CreateEXIBodyEncoder()
	require.NoError(t, err)
}
