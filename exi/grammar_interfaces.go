package exi

// GrammarType discriminates every concrete grammar state so the event
// code layers can be sized without reflection on the grammar value.
type GrammarType int

const (
	// document-level states
	GrammarTypeDocument GrammarType = iota
	GrammarTypeFragment
	GrammarTypeDocEnd
	// schema-informed document and fragment content
	GrammarTypeSchemaInformedDocContent
	GrammarTypeSchemaInformedFragmentContent
	// schema-informed element and type states
	GrammarTypeSchemaInformedFirstStartTagContent
	GrammarTypeSchemaInformedStartTagContent
	GrammarTypeSchemaInformedElementContent
	// built-in (schema-less) document and fragment content
	GrammarTypeBuiltInDocContent
	GrammarTypeBuiltInFragmentContent
	// built-in element states
	GrammarTypeBuiltInStartTagContent
	GrammarTypeBuiltInElementContent
)

var (
	endRule SchemaInformedGrammar = &SchemaInformedElement{
		AbstractSchemaInformedContent: &AbstractSchemaInformedContent{
			AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammarWithLabel(ptrTo("<END>")),
		},
	}
	startElementGeneric Event = NewStartElementGeneric()
	endElement          Event = NewEndElement()
)

// Grammar is one state of the event-term machine: it knows which event
// terms are admissible, their event codes, and (for built-in grammars)
// how to learn new productions as the document reveals them.
type Grammar interface {
	IsSchemaInformed() bool
	HasEndElement() bool
	GetGrammarType() GrammarType
	GetNumberOfEvents() int
	AddProduction(event Event, grammar Grammar) error
	LearnStartElement(se *StartElement)
	LearnEndElement()
	LearnAttribute(at *Attribute) error
	LearnCharacters()
	StopLearning()
	LearningStopped() int
	GetElementContentGrammar() Grammar
	GetProduction(eventType EventType) Production
	GetStartElementProduction(namespaceUri, localName string) Production
	GetStartElementNSProduction(namespaceUri string) Production
	GetAttributeProduction(namespaceUri, localName string) Production
	GetAttributeNSProduction(namespaceUri string) Production
	GetProductionByEventCode(eventCode int) Production
}

// SchemaInformedGrammar adds the bookkeeping only schema-derived states
// need: terminal productions, declared-attribute counts, and labels for
// diagnostics.
type SchemaInformedGrammar interface {
	Grammar
	AddTerminalProduction(event Event)
	GetNumberOfDeclaredAttributes() int
	GetLeastAttributeEventCode() int

	SetLabel(label string)
	GetLabel() string

	// Duplicate returns a shallow copy of this state's production
	// bookkeeping: the copy shares its Production values with the original.
	Duplicate() SchemaInformedGrammar
}

type BuiltInGrammar interface{}

// SchemaInformedStartTagGrammar is a start-tag state whose successor
// element-content state can be rebound.
type SchemaInformedStartTagGrammar interface {
	SchemaInformedGrammar
	SetElementContentGrammar(elementContent2 Grammar)
}

// SchemaInformedFirstStartTagGrammar is the state entered on the very
// first start tag of an element, where xsi:type and xsi:nil deviations
// are permitted.
type SchemaInformedFirstStartTagGrammar interface {
	SchemaInformedStartTagGrammar
	SetTypeCastable(hasNamedSubtypes bool)
	IsTypeCastable() bool
	SetNillable(nillable bool)
	IsNillable() bool
	SetTypeEmpty(typeEmpty SchemaInformedFirstStartTagGrammar)
	GetTypeEmpty() (SchemaInformedFirstStartTagGrammar, error)
}
