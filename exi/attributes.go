package exi

import (
	"slices"
	"sort"
	"strings"
)

// AttributeList accumulates the attributes of one start tag and hands
// them to the encoder pre-sorted the way EXI requires: namespace
// declarations first, then xsi:type and xsi:nil, then the remaining
// attributes: ordered by (local name, URI) for schema-informed or
// canonical streams, in arrival order otherwise.
type AttributeList interface {
	Clear()

	AddNamespaceDeclaration(uri string, prefix *string)
	GetNumberOfNamespaceDeclarations() int
	GetNamespaceDeclaration(index int) *NamespaceDeclarationContainer

	// AddAttribute registers any attribute other than a namespace
	// declaration; xsi:type and xsi:nil are recognized and set aside.
	AddAttribute(uri *string, localName string, prefix *string, value string)
	AddAttributeByQName(at QName, value string)

	HasXsiType() bool
	GetXsiTypeRaw() *string
	GetXsiTypePrefix() *string

	HasXsiNil() bool
	GetXsiNil() *string
	GetXsiNilPrefix() *string

	GetNumberOfAttributes() int
	GetAttributeURI(index int) *string
	GetAttributeLocalName(index int) *string
	GetAttributeValue(index int) *string
	GetAttributePrefix(index int) *string
}

// XMLNS_PrefixStart is where the declared prefix begins inside an
// "xmlns:p" attribute name.
const XMLNS_PrefixStart = len(XML_NS_Attribute) + 1

// attrEntry is one pending attribute of the current start tag.
type attrEntry struct {
	uri    string
	lname  string
	prefix string
	value  string
}

// sortsAfter reports whether a belongs strictly after the (lname, uri)
// key in the canonical attribute order.
func (a attrEntry) sortsAfter(lname, uri string) bool {
	if c := strings.Compare(a.lname, lname); c != 0 {
		return c > 0
	}
	return strings.Compare(a.uri, uri) > 0
}

// AttributeListImpl keeps the pending attributes in one slice, held in
// (local name, URI) order when the grammar or canonical form demands
// it. Insertion finds the slot by binary search; ties keep arrival
// order.
type AttributeListImpl struct {
	AttributeList

	isSchemaInformed       bool
	isCanonical            bool
	preserveSchemaLocation bool
	preservePrefixes       bool

	hasXsiType    bool
	xsiTypeRaw    *string
	xsiTypePrefix *string

	hasXsiNil    bool
	xsiNil       *string
	xsiNilPrefix *string

	attrs   []attrEntry
	nsDecls []NamespaceDeclarationContainer
}

func NewAttributeListImpl(factory EXIFactory) *AttributeListImpl {
	return &AttributeListImpl{
		isSchemaInformed:       factory.GetGrammars().IsSchemaInformed(),
		isCanonical:            factory.GetEncodingOptions().IsOptionEnabled(OptionCanonicalExi),
		preserveSchemaLocation: factory.GetEncodingOptions().IsOptionEnabled(OptionIncludeXsiSchemaLocation),
		preservePrefixes:       factory.GetFidelityOptions().IsFidelityEnabled(FeaturePrefix),
	}
}

func (al *AttributeListImpl) Clear() {
	al.hasXsiType = false
	al.hasXsiNil = false
	al.xsiTypeRaw = nil
	al.attrs = al.attrs[:0]
	al.nsDecls = al.nsDecls[:0]
}

func (al *AttributeListImpl) HasXsiType() bool {
	return al.hasXsiType
}

func (al *AttributeListImpl) GetXsiTypeRaw() *string {
	return al.xsiTypeRaw
}

func (al *AttributeListImpl) GetXsiTypePrefix() *string {
	return al.xsiTypePrefix
}

func (al *AttributeListImpl) HasXsiNil() bool {
	return al.hasXsiNil
}

func (al *AttributeListImpl) GetXsiNil() *string {
	return al.xsiNil
}

func (al *AttributeListImpl) GetXsiNilPrefix() *string {
	return al.xsiNilPrefix
}

func (al *AttributeListImpl) GetNumberOfAttributes() int {
	return len(al.attrs)
}

func (al *AttributeListImpl) GetAttributeURI(index int) *string {
	return &al.attrs[index].uri
}

func (al *AttributeListImpl) GetAttributeLocalName(index int) *string {
	return &al.attrs[index].lname
}

func (al *AttributeListImpl) GetAttributeValue(index int) *string {
	return &al.attrs[index].value
}

func (al *AttributeListImpl) GetAttributePrefix(index int) *string {
	return &al.attrs[index].prefix
}

func (al *AttributeListImpl) setXsiType(rawType *string, xsiPrefix *string) {
	al.hasXsiType = true
	al.xsiTypeRaw = rawType
	al.xsiTypePrefix = xsiPrefix
}

func (al *AttributeListImpl) setXsiNil(rawNil, xsiPrefix *string) {
	al.hasXsiNil = true
	al.xsiNil = rawNil
	al.xsiNilPrefix = xsiPrefix
}

func (al *AttributeListImpl) AddNamespaceDeclaration(uri string, pfx *string) {
	decl := NewNamespaceDeclarationContainer(uri, pfx)
	if !al.isCanonical {
		al.nsDecls = append(al.nsDecls, decl)
		return
	}

	// Canonical EXI sorts namespace declarations lexicographically by
	// prefix; a nil prefix is the default declaration and sorts first.
	key := ""
	if pfx != nil {
		key = *pfx
	}
	at := sort.Search(len(al.nsDecls), func(i int) bool {
		existing := ""
		if al.nsDecls[i].Prefix != nil {
			existing = *al.nsDecls[i].Prefix
		}
		return existing > key
	})
	al.nsDecls = slices.Insert(al.nsDecls, at, decl)
}

func (al *AttributeListImpl) GetNumberOfNamespaceDeclarations() int {
	return len(al.nsDecls)
}

func (al *AttributeListImpl) GetNamespaceDeclaration(index int) *NamespaceDeclarationContainer {
	if index < 0 || index >= len(al.nsDecls) {
		panic("index out of bounds")
	}
	return &al.nsDecls[index]
}

func (al *AttributeListImpl) AddAttribute(uri *string, lname string, pfx *string, val string) {
	if uri == nil {
		uri = ptrTo(XMLNullNS_URI)
	}
	if pfx == nil {
		pfx = ptrTo(XMLDefaultNSPrefix)
	}

	if *uri == XMLSchemaInstanceNS_URI {
		switch {
		case lname == XSIType:
			// prefix-to-uri resolution happens at encode time
			al.setXsiType(&val, pfx)
			return
		case lname == XSINil:
			al.setXsiNil(&val, pfx)
			return
		case (lname == XSISchemaLocation || lname == XSINoNamespaceSchemaLocation) && !al.preserveSchemaLocation:
			// pruned
			return
		}
	}
	al.insertAttribute(attrEntry{uri: *uri, lname: lname, prefix: *pfx, value: val})
}

func (al *AttributeListImpl) AddAttributeByQName(at QName, val string) {
	al.AddAttribute(&at.Space, at.Local, at.Prefix, val)
}

func (al *AttributeListImpl) insertAttribute(entry attrEntry) {
	if !al.isSchemaInformed && !al.isCanonical {
		// schema-less, non-canonical: arrival order is fine
		al.attrs = append(al.attrs, entry)
		return
	}

	// schema-informed and canonical streams emit attributes sorted by
	// local name, then URI
	at := sort.Search(len(al.attrs), func(i int) bool {
		return al.attrs[i].sortsAfter(entry.lname, entry.uri)
	})
	al.attrs = slices.Insert(al.attrs, at, entry)
}
