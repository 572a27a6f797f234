package exi

import (
	"sync"
)

// Grammars bundles the document and fragment grammars of one coding
// setup together with the grammar context naming every schema QName.
type Grammars interface {
	IsSchemaInformed() bool
	GetSchemaID() *string
	SetSchemaID(schemaID *string) error
	IsBuiltInXMLSchemaTypesOnly() bool
	GetDocumentGrammar() Grammar
	GetFragmentGrammar() Grammar
	GetGrammarContext() *GrammarContext
}

type AbstractGrammars struct {
	Grammars
	documentGrammar  Grammar
	fragmentGrammar  Grammar
	grammarContext   *GrammarContext
	isSchemaInformed bool
}

func NewAbstractGrammars(isSchemaInformed bool, gctx *GrammarContext) *AbstractGrammars {
	return &AbstractGrammars{
		grammarContext:   gctx,
		isSchemaInformed: isSchemaInformed,
	}
}

func (ag *AbstractGrammars) GetGrammarContext() *GrammarContext {
	return ag.grammarContext
}

func (ag *AbstractGrammars) IsSchemaInformed() bool {
	return ag.isSchemaInformed
}

func (ag *AbstractGrammars) GetDocumentGrammar() Grammar {
	return ag.documentGrammar
}

// SchemaInformedGrammars carries grammars compiled from an XSD, keyed
// by the schemaId announced in the header.
type SchemaInformedGrammars struct {
	*AbstractGrammars
	builtInXMLSchemaTypesOnly bool
	schemaID                  *string
	elementFragmentGrammar    SchemaInformedGrammar
}

func NewSchemaInformedGrammars(
	gctx *GrammarContext,
	document *Document,
	fragment *Fragment,
	elementFragmentGrammar SchemaInformedGrammar,
) *SchemaInformedGrammars {
	return &SchemaInformedGrammars{
		AbstractGrammars: &AbstractGrammars{
			documentGrammar:  document,
			fragmentGrammar:  fragment,
			grammarContext:   gctx,
			isSchemaInformed: true,
		},
		schemaID:               ptrTo(EmptyString),
		elementFragmentGrammar: elementFragmentGrammar,
	}
}

func (sig *SchemaInformedGrammars) SetBuiltInXMLSchemaTypesOnly(builtInXMLSchemaTypesOnly bool) {
	sig.builtInXMLSchemaTypesOnly = builtInXMLSchemaTypesOnly
	sig.schemaID = ptrTo(EmptyString)
}

func (sig *SchemaInformedGrammars) GetSchemaID() *string {
	return sig.schemaID
}

func (sig *SchemaInformedGrammars) SetSchemaID(schemaID *string) error {
	if sig.builtInXMLSchemaTypesOnly {
		if schemaID == nil || *schemaID != EmptyString {
			return NewError(ErrInvalidConfig, "XML-schema-types-only grammars use the empty schemaId")
		}
	} else if schemaID == nil || *schemaID == EmptyString {
		return NewError(ErrInvalidConfig, "schema-informed grammars need a non-empty schemaId")
	}
	sig.schemaID = schemaID
	return nil
}

func (sig *SchemaInformedGrammars) IsBuiltInXMLSchemaTypesOnly() bool {
	return sig.builtInXMLSchemaTypesOnly
}

func (sig *SchemaInformedGrammars) GetFragmentGrammar() Grammar {
	return sig.fragmentGrammar
}

func (sig *SchemaInformedGrammars) GetSchemaInformedElementFragmentGrammar() SchemaInformedGrammar {
	return sig.elementFragmentGrammar
}

// The schema-less grammar context is immutable after construction and
// shared by every SchemaLessGrammars instance.
var (
	schemaLessGrammarContext *GrammarContext
	schemaLessInit           sync.Once
)

type SchemaLessGrammars struct {
	*AbstractGrammars
}

// initSchemaLessGrammarContext seeds the three built-in URI partitions
// of a schema-less stream: "", the xml namespace, and xsi (EXI §7.2).
func initSchemaLessGrammarContext() {
	contexts := [3]*GrammarUriContext{}
	qNameID := 0

	contexts[0] = NewGrammarUriContext(0, EmptyString, []*QNameContext{}, PrefixesEmpty)

	xmlNames := make([]*QNameContext, len(LocalNamesXML))
	for i := range xmlNames {
		xmlNames[i] = NewQNameContext(1, i, QName{Space: XML_NS_URI, Local: LocalNamesXML[i]})
		qNameID++
	}
	contexts[1] = NewGrammarUriContext(1, XML_NS_URI, xmlNames, PrefixesXML)

	xsiNames := make([]*QNameContext, len(LocalNamesXSI))
	for i := range xsiNames {
		xsiNames[i] = NewQNameContext(2, i, QName{Space: XMLSchemaInstanceNS_URI, Local: LocalNamesXSI[i]})
		qNameID++
	}
	contexts[2] = NewGrammarUriContext(2, XMLSchemaInstanceNS_URI, xsiNames, PrefixesXSI)

	schemaLessGrammarContext = NewGrammarContext(contexts[:], qNameID)
}

func NewSchemaLessGrammars() *SchemaLessGrammars {
	schemaLessInit.Do(initSchemaLessGrammarContext)
	ag := NewAbstractGrammars(false, schemaLessGrammarContext)
	slg := &SchemaLessGrammars{AbstractGrammars: ag}
	slg.Grammars = ag

	docEnd := NewDocEndWithLabel("DocEnd")
	docEnd.AddTerminalProduction(NewEndDocument())
	docContent := NewBuiltInDocContentWithLabel(docEnd, "DocContent")
	slg.documentGrammar = NewDocumentWithLabel("Document")
	slg.documentGrammar.AddProduction(NewStartDocument(), docContent)

	return slg
}

func (slg *SchemaLessGrammars) GetSchemaID() *string {
	return nil
}

func (slg *SchemaLessGrammars) IsBuiltInXMLSchemaTypesOnly() bool {
	return false
}

func (slg *SchemaLessGrammars) SetSchemaID(schemaID *string) error {
	if schemaID != nil {
		return NewError(ErrInvalidConfig, "schema-less grammars carry no schemaId")
	}
	return nil
}

// GetFragmentGrammar builds a fresh instance every call: the fragment
// content grammar evolves while coding, so it cannot be shared.
func (slg *SchemaLessGrammars) GetFragmentGrammar() Grammar {
	content := NewBuiltInFragmentContent()
	slg.fragmentGrammar = NewFragmentWithLabel("Fragment")
	slg.fragmentGrammar.AddProduction(NewStartDocument(), content)
	return slg.fragmentGrammar
}
