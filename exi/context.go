package exi

import (
	"slices"
	"strconv"
)

type QNameContextMapKey struct {
	NamespaceUriID int
	LocalNameID    int
}

func NewQNameContextMapKey(qcx *QNameContext) QNameContextMapKey {
	return QNameContextMapKey{
		NamespaceUriID: qcx.GetNamespaceUriID(),
		LocalNameID:    qcx.GetLocalNameID(),
	}
}

type QNameContext struct {
	namespaceUriId         int
	localNameId            int
	qName                  QName
	defaultQNameAsString   string
	defaultPrefix          string
	grammarGlobalElement   *StartElement
	grammarGlobalAttribute *Attribute
	typeGrammar            SchemaInformedFirstStartTagGrammar
	mapKey                 QNameContextMapKey
}

func NewQNameContext(uriID int, localNameId int, qName QName) *QNameContext {
	var basePfx string
	var defaultQNameAsString string

	switch uriID {
	case 0:
		basePfx = ""
		defaultQNameAsString = qName.Local
	case 1:
		basePfx = "xml"
		defaultQNameAsString = "xml:" + qName.Local
	case 2:
		basePfx = "xsi"
		defaultQNameAsString = "xsi:" + qName.Local
	default:
		basePfx = "ns" + strconv.FormatInt(int64(uriID), 10)
		defaultQNameAsString = basePfx + ":" + qName.Local
	}

	return &QNameContext{
		namespaceUriId:       uriID,
		localNameId:          localNameId,
		qName:                qName,
		defaultPrefix:        basePfx,
		defaultQNameAsString: defaultQNameAsString,
		mapKey: QNameContextMapKey{
			NamespaceUriID: uriID,
			LocalNameID:    localNameId,
		},
	}
}

func (qc *QNameContext) GetMapKey() QNameContextMapKey {
	return qc.mapKey
}

func (qc *QNameContext) GetQName() QName {
	return qc.qName
}

func (qc *QNameContext) GetDefaultQNameAsString() string {
	return qc.defaultQNameAsString
}

func (qc *QNameContext) GetDefaultPrefix() string {
	return qc.defaultPrefix
}

func (qc *QNameContext) GetLocalNameID() int {
	return qc.localNameId
}

func (qc *QNameContext) GetLocalName() string {
	return qc.qName.Local
}

func (qc *QNameContext) SetGlobalStartElement(grammarGlobalElement *StartElement) {
	qc.grammarGlobalElement = grammarGlobalElement
}

func (qc *QNameContext) GetGlobalStartElement() *StartElement {
	return qc.grammarGlobalElement
}

func (qc *QNameContext) SetGlobalAttribute(grammarGlobalAttribute *Attribute) {
	qc.grammarGlobalAttribute = grammarGlobalAttribute
}

func (qc *QNameContext) GetGlobalAttribute() *Attribute {
	return qc.grammarGlobalAttribute
}

func (qc *QNameContext) SetTypeGrammar(typeGrammar SchemaInformedFirstStartTagGrammar) {
	qc.typeGrammar = typeGrammar
}

func (qc *QNameContext) GetTypeGrammar() SchemaInformedFirstStartTagGrammar {
	return qc.typeGrammar
}

func (qc *QNameContext) GetNamespaceUriID() int {
	return qc.namespaceUriId
}

func (qc *QNameContext) GetNamespaceUri() string {
	return qc.qName.Space
}

func (qc *QNameContext) Equals(other *QNameContext) bool {
	if other == nil {
		return false
	}
	return qc.localNameId == other.localNameId && qc.namespaceUriId == other.namespaceUriId
}

// GrammarContext is the static naming universe of a grammar set: one
// GrammarUriContext per schema namespace, each holding its QNames.
type GrammarContext struct {
	grammarUriContexts    []*GrammarUriContext
	numberOfQNameContexts int
}

func NewGrammarContext(grammarUriContexts []*GrammarUriContext, numberOfQNameContexts int) *GrammarContext {
	return &GrammarContext{
		grammarUriContexts:    grammarUriContexts,
		numberOfQNameContexts: numberOfQNameContexts,
	}
}

func (c *GrammarContext) GetNumberOfGrammarUriContexts() int {
	return len(c.grammarUriContexts)
}

func (c *GrammarContext) GetGrammarUriContextByID(id int) *GrammarUriContext {
	return c.grammarUriContexts[id]
}

func (c *GrammarContext) GetGrammarUriContext(namespaceUri string) *GrammarUriContext {
	for _, uc := range c.grammarUriContexts {
		if uc.namespaceUri == namespaceUri {
			return uc
		}
	}
	return nil
}

func (c *GrammarContext) GetNumberOfGrammarQNameContexts() int {
	return c.numberOfQNameContexts
}

// GrammarUriContext is one namespace of the static grammar context,
// carrying its compiled QNames and seeded prefixes.
type GrammarUriContext struct {
	namespaceUriId  int
	namespaceUri    string
	grammarQNames   []*QNameContext
	grammarPrefixes []string
	defaultPrefix   string
}

func (c *GrammarUriContext) GetNamespaceUriID() int {
	return c.namespaceUriId
}

func (c *GrammarUriContext) GetNamespaceUri() string {
	return c.namespaceUri
}

func NewGrammarUriContext(uriID int, namespaceUri string, qnames2 []*QNameContext, grammarPrefixes []string) *GrammarUriContext {
	var basePfx string

	switch uriID {
	case 0:
		basePfx = ""
	case 1:
		basePfx = "xml"
	case 2:
		basePfx = "xsi"
	default:
		basePfx = "ns" + strconv.FormatInt(int64(uriID), 10)
	}

	return &GrammarUriContext{
		namespaceUriId:  uriID,
		namespaceUri:    namespaceUri,
		grammarQNames:   qnames2,
		grammarPrefixes: grammarPrefixes,
		defaultPrefix:   basePfx,
	}
}

func NewGrammarUriContextWithEmptyPrefixes(uriID int, namespaceUri string, qnames2 []*QNameContext) *GrammarUriContext {
	return NewGrammarUriContext(uriID, namespaceUri, qnames2, []string{})
}

func (c *GrammarUriContext) GetDefaultPrefix() string {
	return c.defaultPrefix
}

func (c *GrammarUriContext) GetNumberOfQNames() int {
	return len(c.grammarQNames)
}

func (c *GrammarUriContext) GetQNameContextByLocalNameID(localNameId int) *QNameContext {
	if localNameId < len(c.grammarQNames) {
		return c.grammarQNames[localNameId]
	}
	return nil
}

func (c *GrammarUriContext) GetQNameContextByLocalName(lname string) *QNameContext {
	idx := slices.IndexFunc(c.grammarQNames, func(qc *QNameContext) bool {
		return qc.qName.Local == lname
	})
	if idx < 0 {
		return nil
	}
	return c.grammarQNames[idx]
}

func (c *GrammarUriContext) GetNumberOfPrefixes() int {
	return len(c.grammarPrefixes)
}

func (c *GrammarUriContext) GetPrefix(prefixId int) *string {
	if prefixId < len(c.grammarPrefixes) {
		return &c.grammarPrefixes[prefixId]
	}
	return nil
}

func (c *GrammarUriContext) GetPrefixID(prefix string) int {
	for idx, p := range c.grammarPrefixes {
		if p == prefix {
			return idx
		}
	}
	return NotFound
}

// ElementContext is one frame of the coder's element stack: the open
// element's name, the grammar state within it, and the namespace and
// xml:space context it established.
type ElementContext struct {
	prefix             *string
	sqname             string
	gr                 Grammar
	nsDeclarations     []NamespaceDeclarationContainer
	isXMLSpacePreserve *bool
	qnc                *QNameContext
}

func NewElementContext(qcx *QNameContext, gr Grammar) *ElementContext {
	return &ElementContext{
		gr:             gr,
		nsDeclarations: []NamespaceDeclarationContainer{},
		qnc:            qcx,
	}
}

func (c *ElementContext) GetQNameAsString(preservePrefix bool) string {
	if c.sqname == "" {
		if preservePrefix {
			c.sqname = qualifiedName(c.qnc.GetLocalName(), c.prefix)
		} else {
			c.sqname = c.qnc.GetDefaultQNameAsString()
		}
	}
	return c.sqname
}

func (c *ElementContext) SetPrefix(prefix *string) {
	c.prefix = prefix
}

func (c *ElementContext) GetPrefix() *string {
	return c.prefix
}

func (c *ElementContext) SetXMLSpacePreserve(isXMLSpacePreserve *bool) {
	c.isXMLSpacePreserve = isXMLSpacePreserve
}

func (c *ElementContext) IsXMLSpacePreserve() *bool {
	return c.isXMLSpacePreserve
}

// RuntimeUriContext overlays one namespace's grammar-derived names
// with the local names and prefixes learned while coding: lookups fall
// through to the static context first, IDs continue past its sizes.
type RuntimeUriContext struct {
	namespaceUriID int
	namespaceURI   string
	guc            *GrammarUriContext

	qnames   []*QNameContext
	prefixes []string
}

func NewRuntimeUriContext(namespaceUriID int, uri string) *RuntimeUriContext {
	return NewRuntimeUriContextWithContext(nil, namespaceUriID, uri)
}

func NewRuntimeUriContextWithContext(ctx *GrammarUriContext, namespaceUriID int, uri string) *RuntimeUriContext {
	return &RuntimeUriContext{
		namespaceUriID: namespaceUriID,
		namespaceURI:   uri,
		guc:            ctx,
		qnames:         []*QNameContext{},
		prefixes:       []string{},
	}
}

func RuntimeUriContextFromContext(ctx *GrammarUriContext) *RuntimeUriContext {
	return NewRuntimeUriContextWithContext(ctx, ctx.GetNamespaceUriID(), ctx.GetNamespaceUri())
}

func (c *RuntimeUriContext) clear(preservePrefix bool) {
	if c.guc == nil {
		c.namespaceURI = ""
	}

	// Note: re-use existing lists for subsequent runs
	if len(c.qnames) > 0 {
		c.qnames = []*QNameContext{}
	}
	if preservePrefix && len(c.prefixes) > 0 {
		c.prefixes = []string{}
	}
}

func (c *RuntimeUriContext) GetQNameContextByLocalName(lname string) *QNameContext {
	var qcx *QNameContext = nil
	if c.guc != nil {
		qcx = c.guc.GetQNameContextByLocalName(lname)
	}
	if qcx == nil {
		if len(c.qnames) != 0 {
			for i := len(c.qnames) - 1; i >= 0; i-- {
				qcx = c.qnames[i]
				if qcx.GetLocalName() == lname {
					return qcx
				}
			}
			qcx = nil // none found
		}
	}

	return qcx
}

func (c *RuntimeUriContext) GetQNameContextByLocalNameID(localNameID int) *QNameContext {
	var qcx *QNameContext = nil
	sub := 0
	if c.guc != nil {
		qcx = c.guc.GetQNameContextByLocalNameID(localNameID)
		sub = c.guc.GetNumberOfQNames()
	}
	if qcx == nil {
		if len(c.qnames) != 0 {
			localNameID -= sub
			if localNameID < 0 || localNameID >= len(c.qnames) {
				panic("index out of bounds")
			}
			qcx = c.qnames[localNameID]
		}
	}

	return qcx
}

func (c *RuntimeUriContext) GetNumberOfQNames() int {
	n := 0
	if c.guc != nil {
		n = c.guc.GetNumberOfQNames()
	}
	n += len(c.qnames)
	return n
}

func (c *RuntimeUriContext) AddQNameContext(lname string) *QNameContext {
	localNameID := c.GetNumberOfQNames()
	qName := QName{Space: c.namespaceURI, Local: lname}
	qcx := NewQNameContext(c.namespaceUriID, localNameID, qName)
	c.qnames = append(c.qnames, qcx)

	return qcx
}

func (c *RuntimeUriContext) GetNumberOfPrefixes() int {
	n := len(c.prefixes)
	if c.guc != nil {
		n += c.guc.GetNumberOfPrefixes()
	}
	return n
}

func (c *RuntimeUriContext) addPrefix(prefix string) {
	c.prefixes = append(c.prefixes, prefix)
}

func (c *RuntimeUriContext) getPrefixID(prefix string) int {
	id := NotFound
	base := 0
	if c.guc != nil {
		id = c.guc.GetPrefixID(prefix)
		base = c.guc.GetNumberOfPrefixes()
	}
	if id != NotFound {
		return id
	}
	for i, p := range c.prefixes {
		if p == prefix {
			return base + i
		}
	}
	return NotFound
}

func (c *RuntimeUriContext) GetPrefix(prefixID int) *string {
	var prefix *string
	base := 0
	if c.guc != nil {
		prefix = c.guc.GetPrefix(prefixID)
		base = c.guc.GetNumberOfPrefixes()
	}
	if prefix != nil {
		return prefix
	}
	prefixID -= base
	if prefixID < 0 || prefixID >= len(c.prefixes) {
		panic("index out of bounds")
	}
	return &c.prefixes[prefixID]
}

func (c *RuntimeUriContext) SetNamespaceUri(uri string) {
	c.namespaceURI = uri
}

func (c *RuntimeUriContext) GetNamespaceUri() string {
	return c.namespaceURI
}

func (c *RuntimeUriContext) GetNamespaceUriID() int {
	return c.namespaceUriID
}

