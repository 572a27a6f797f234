package exi

import (
	"fmt"
	"sync"
)

// The document-level schema-informed grammars. Each type is a thin
// wrapper whose only job is to answer its GrammarType; the production
// machinery lives in AbstractSchemaInformedGrammar.

type DocEnd struct {
	*AbstractSchemaInformedGrammar
}

func NewDocEnd() *DocEnd {
	return &DocEnd{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammar()}
}

func NewDocEndWithLabel(name string) *DocEnd {
	return &DocEnd{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammarWithLabel(&name)}
}

func (de *DocEnd) GetGrammarType() GrammarType {
	return GrammarTypeDocEnd
}

type Document struct {
	*AbstractSchemaInformedGrammar
}

func NewDocument() *Document {
	return &Document{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammar()}
}

func NewDocumentWithLabel(name string) *Document {
	return &Document{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammarWithLabel(&name)}
}

func (doc *Document) GetGrammarType() GrammarType {
	return GrammarTypeDocument
}

type Fragment struct {
	*AbstractSchemaInformedGrammar
}

func NewFragment() *Fragment {
	return &Fragment{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammar()}
}

func NewFragmentWithLabel(name string) *Fragment {
	return &Fragment{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammarWithLabel(&name)}
}

func (fr *Fragment) GetGrammarType() GrammarType {
	return GrammarTypeFragment
}

type SchemaInformedDocContent struct {
	*AbstractSchemaInformedGrammar
}

func NewSchemaInformedDocContent() *SchemaInformedDocContent {
	return &SchemaInformedDocContent{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammar()}
}

func NewSchemaInformedDocContentWithLabel(name string) *SchemaInformedDocContent {
	return &SchemaInformedDocContent{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammarWithLabel(&name)}
}

func (c *SchemaInformedDocContent) GetGrammarType() GrammarType {
	return GrammarTypeSchemaInformedDocContent
}

// Shared empty element-content grammar used when synthesizing the
// typeEmpty variant of a start tag; built once.
var (
	sistElementContent2Empty SchemaInformedGrammar = NewSchemaInformedElement()
	sistInit                 sync.Once
)

// SchemaInformedStartTag must be built through its constructors so the
// shared empty-content grammar gets its EE production installed.
type SchemaInformedStartTag struct {
	*AbstractSchemaInformedContent
	elementContent2 Grammar
	sifst           SchemaInformedStartTagGrammar
}

func NewSchemaInformedStartTag() *SchemaInformedStartTag {
	sistInit.Do(func() {
		sistElementContent2Empty.AddTerminalProduction(endElement)
	})
	return &SchemaInformedStartTag{
		AbstractSchemaInformedContent: NewAbstractSchemaInformedContent(),
	}
}

func NewSchemaInformedStartTagWithEC2(content SchemaInformedGrammar) *SchemaInformedStartTag {
	st := NewSchemaInformedStartTag()
	st.elementContent2 = content
	return st
}

func (t *SchemaInformedStartTag) GetGrammarType() GrammarType {
	return GrammarTypeSchemaInformedStartTagContent
}

func (t *SchemaInformedStartTag) SetElementContentGrammar(content Grammar) {
	t.elementContent2 = content
}

func (t *SchemaInformedStartTag) Clone() *SchemaInformedStartTag {
	clone := *t
	content := *t.AbstractSchemaInformedContent
	grammar := *content.AbstractSchemaInformedGrammar
	grammar.containers = append([]Production(nil), grammar.containers...)
	content.AbstractSchemaInformedGrammar = &grammar
	clone.AbstractSchemaInformedContent = &content
	// productions that looped back to the original must loop back to
	// the clone instead
	for idx, prod := range clone.containers {
		if prod.GetNextGrammar() == t {
			clone.containers[idx] = NewSchemaInformedProduction(&clone, prod.GetEvent(), idx)
		}
	}
	return &clone
}

// GetTypeEmptyInterval synthesizes (once) the grammar accepting only
// this start tag's attributes followed by an immediate EE, as required
// for xsi:nil="true" content.
func (t *SchemaInformedStartTag) GetTypeEmptyInterval() (SchemaInformedStartTagGrammar, error) {
	if t.sifst != nil {
		return t.sifst, nil
	}

	switch t.GetGrammarType() {
	case GrammarTypeSchemaInformedFirstStartTagContent:
		t.sifst = NewSchemaInformedFirstStartTag()
	case GrammarTypeSchemaInformedStartTagContent:
		t.sifst = NewSchemaInformedStartTag()
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("unexpected grammar type %d for typeEmpty", t.GetGrammarType()))
	}
	t.sifst.SetElementContentGrammar(sistElementContent2Empty)

	for i := 0; i < t.GetNumberOfEvents(); i++ {
		prod := t.GetProductionByEventCode(i)
		ev := prod.GetEvent()
		ng := prod.GetNextGrammar()

		switch ev.GetEventType() {
		case EventTypeAttribute, EventTypeAttributeNS, EventTypeAttributeGeneric:
			if ng == t {
				t.sifst.AddProduction(ev, t.sifst)
			} else if ng.GetGrammarType() == GrammarTypeSchemaInformedFirstStartTagContent {
				empty, err := ng.(*SchemaInformedFirstStartTag).GetTypeEmptyInterval()
				if err != nil {
					return nil, err
				}
				t.sifst.AddProduction(ev, empty)
			} else if ng.GetGrammarType() == GrammarTypeSchemaInformedStartTagContent {
				empty, err := ng.(*SchemaInformedStartTag).GetTypeEmptyInterval()
				if err != nil {
					return nil, err
				}
				t.sifst.AddProduction(ev, empty)
			} else {
				return nil, NewError(ErrUnexpected, fmt.Sprintf("unexpected grammar type %d for typeEmpty", ng.GetGrammarType()))
			}
		default:
			if !t.sifst.HasEndElement() {
				t.sifst.AddTerminalProduction(endElement)
			}
		}
	}

	return t.sifst, nil
}

const sifstUseRuntimeEmptyType = true

// SchemaInformedFirstStartTag is the state for an element's first start
// tag, which additionally admits xsi:type and xsi:nil.
type SchemaInformedFirstStartTag struct {
	*SchemaInformedStartTag
	isTypeCastable bool
	isNillable     bool
	typeEmpty      SchemaInformedFirstStartTagGrammar
	typeName       *QName
}

func NewSchemaInformedFirstStartTag() *SchemaInformedFirstStartTag {
	return &SchemaInformedFirstStartTag{
		SchemaInformedStartTag: NewSchemaInformedStartTag(),
	}
}

func NewSchemaInformedFirstStartTagWithEC2(content SchemaInformedGrammar) *SchemaInformedFirstStartTag {
	return &SchemaInformedFirstStartTag{
		SchemaInformedStartTag: NewSchemaInformedStartTagWithEC2(content),
	}
}

func NewSchemaInformedFirstStartTagWithStartTag(startTag SchemaInformedFirstStartTagGrammar) *SchemaInformedFirstStartTag {
	sig := startTag.GetElementContentGrammar().(SchemaInformedGrammar)
	ft := NewSchemaInformedFirstStartTagWithEC2(sig)

	// copy the top-level productions, redirecting self-references
	for i := 0; i < startTag.GetNumberOfEvents(); i++ {
		prod := startTag.GetProductionByEventCode(i)
		next := prod.GetNextGrammar()
		if next == startTag {
			next = ft
		}
		ft.AddProduction(prod.GetEvent(), next)
	}

	return ft
}

func (t *SchemaInformedFirstStartTag) GetGrammarType() GrammarType {
	return GrammarTypeSchemaInformedFirstStartTagContent
}

func (t *SchemaInformedFirstStartTag) SetTypeCastable(isTypeCastable bool) {
	t.isTypeCastable = isTypeCastable
}

func (t *SchemaInformedFirstStartTag) IsTypeCastable() bool {
	return t.isTypeCastable
}

func (t *SchemaInformedFirstStartTag) SetNillable(isNillable bool) {
	t.isNillable = isNillable
}

func (t *SchemaInformedFirstStartTag) IsNillable() bool {
	return t.isNillable
}

func (t *SchemaInformedFirstStartTag) SetTypeEmpty(typeEmpty SchemaInformedFirstStartTagGrammar) {
	t.typeEmpty = typeEmpty
}

func (t *SchemaInformedFirstStartTag) GetTypeEmpty() (SchemaInformedFirstStartTagGrammar, error) {
	if !sifstUseRuntimeEmptyType {
		return t.typeEmpty, nil
	}
	empty, err := t.GetTypeEmptyInterval()
	if err != nil {
		return nil, err
	}
	return empty.(SchemaInformedFirstStartTagGrammar), nil
}

type SchemaInformedFragmentContent struct {
	*AbstractSchemaInformedGrammar
}

func NewSchemaInformedFragmentContent() *SchemaInformedFragmentContent {
	return &SchemaInformedFragmentContent{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammar()}
}

func NewSchemaInformedFragmentContentWithLabel(name string) *SchemaInformedFragmentContent {
	return &SchemaInformedFragmentContent{AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammarWithLabel(&name)}
}

func (c *SchemaInformedFragmentContent) GetGrammarType() GrammarType {
	return GrammarTypeSchemaInformedFragmentContent
}
