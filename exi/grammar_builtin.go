package exi

import (
	"slices"
)

type AbstractBuiltInGrammar struct {
	BuiltInGrammar
	*AbstractGrammar
	containers []Production
	ec1Length  int
}

func NewBuiltInGrammar() *AbstractBuiltInGrammar {
	return &AbstractBuiltInGrammar{
		AbstractGrammar: NewAbstractGrammar(),
		containers:      []Production{},
		ec1Length:       0,
	}
}

func (bg *AbstractBuiltInGrammar) HasEndElement() bool {
	return false
}

func (bg *AbstractBuiltInGrammar) StopLearning() {
	if bg.stopLearningContainerSize == NotFound {
		bg.stopLearningContainerSize = len(bg.containers)
	}
}

func (bg *AbstractBuiltInGrammar) IsSchemaInformed() bool {
	return false
}

func (bg *AbstractBuiltInGrammar) GetTypeEmpty() Grammar {
	return bg
}

func (bg *AbstractBuiltInGrammar) GetNumberOfEvents() int {
	return len(bg.containers)
}

func (bg *AbstractBuiltInGrammar) AddTerminalProduction(ev Event) {
	if !(ev.IsEventType(EventTypeEndElement) || ev.IsEventType(EventTypeEndDocument)) {
		panic("not a terminal production")
	}
	bg.AddProduction(ev, endRule)
}

func (bg *AbstractBuiltInGrammar) AddProduction(event Event, gr Grammar) error {
	bg.containers = append(bg.containers, NewSchemaLessProduction(bg, gr, event, bg.GetNumberOfEvents()))
	bg.ec1Length = codingLength(len(bg.containers) + 1)
	return nil
}

func (bg *AbstractBuiltInGrammar) Contains(event Event) bool {
	idx := slices.IndexFunc(bg.containers, func(prod Production) bool {
		return prod.GetEvent().Equals(event)
	})

	return idx != NotFound
}

func (bg *AbstractBuiltInGrammar) GetProduction(et EventType) Production {
	for _, ei := range bg.containers {
		if ei.GetEvent().IsEventType(et) {
			if !bg.isExiProfileGhostNode(ei) {
				return ei
			}
		}
	}

	return nil
}

func (bg *AbstractBuiltInGrammar) isExiProfileGhostNode(ei Production) bool {
	if bg.stopLearningContainerSize == NotFound {
		return false
	} else {
		return ei.GetEventCode() < (bg.GetNumberOfEvents() - bg.stopLearningContainerSize)
	}
}

func (bg *AbstractBuiltInGrammar) GetStartElementProduction(namespaceUri, lname string) Production {
	for _, ei := range bg.containers {
		if ei.GetEvent().IsEventType(EventTypeStartElement) {
			seEI := ei.GetEvent().(*StartElement)
			if bg.checkQualifiedName(seEI.GetQName(), namespaceUri, lname) {
				if !bg.isExiProfileGhostNode(ei) {
					return ei
				}
			}
		}
	}

	return nil
}

func (bg *AbstractBuiltInGrammar) GetStartElementNSProduction(namespaceUri string) Production {
	return nil
}

func (bg *AbstractBuiltInGrammar) GetAttributeProduction(namespaceUri, lname string) Production {
	for _, ei := range bg.containers {
		if ei.GetEvent().IsEventType(EventTypeAttribute) {
			atEI := ei.GetEvent().(*Attribute)
			if bg.checkQualifiedName(atEI.GetQName(), namespaceUri, lname) {
				if !bg.isExiProfileGhostNode(ei) {
					return ei
				}
			}
		}
	}

	return nil
}

func (bg *AbstractBuiltInGrammar) GetAttributeNSProduction(namespaceUri string) Production {
	return nil
}

func (bg *AbstractBuiltInGrammar) GetProductionByEventCode(eventCode int) Production {
	return bg.containers[bg.GetNumberOfEvents()-1-eventCode]
}

var (
	optionsStartTag     map[*FidelityOptions][]EventType = map[*FidelityOptions][]EventType{}
	optionsChildContent map[*FidelityOptions][]EventType = map[*FidelityOptions][]EventType{}
)

func BuiltInContentGet2ndLevelEventsStartTagItems(fopts *FidelityOptions) []EventType {
	_, exists := optionsStartTag[fopts]
	if !exists {
		events := []EventType{EventTypeEndElementUndeclared, EventTypeAttributeGenericUndeclared}
		if fopts.IsFidelityEnabled(FeaturePrefix) {
			events = append(events, EventTypeNamespaceDeclaration)
		}
		if fopts.IsFidelityEnabled(FeatureSC) {
			events = append(events, EventTypeSelfContained)
		}

		optionsStartTag[fopts] = events
	}

	return optionsStartTag[fopts]
}

func BuiltInContentGet2ndLevelEventsChildContentItems(fopts *FidelityOptions) []EventType {
	_, exists := optionsChildContent[fopts]
	if !exists {
		events := []EventType{EventTypeStartElementGenericUndeclared, EventTypeCharactersGenericUndeclared}
		if fopts.IsFidelityEnabled(FeatureDTD) {
			events = append(events, EventTypeEntityReference)
		}

		optionsChildContent[fopts] = events
	}

	return optionsChildContent[fopts]
}

// AbstractBuiltInContent adds one-shot CH learning: only the first
// character event inside an element grows the grammar.
type AbstractBuiltInContent struct {
	*AbstractBuiltInGrammar
	learnedCH bool
}

func NewAbstractBuiltInContent() *AbstractBuiltInContent {
	return &AbstractBuiltInContent{
		AbstractBuiltInGrammar: NewBuiltInGrammar(),
	}
}

func (c *AbstractBuiltInContent) LearnCharacters() {
	if !c.learnedCH {
		c.AddProduction(NewCharacters(BuiltInGetDefaultDatatype()), c.GetElementContentGrammar())
		c.learnedCH = true
	}
}

// BuiltInDocContent is the schema-less DocContent state: exactly one
// generic SE production leading into the document body.
type BuiltInDocContent struct {
	*AbstractBuiltInGrammar
	docEnd Grammar
}

func NewBuiltInDocContent(docEnd Grammar) *BuiltInDocContent {
	c := &BuiltInDocContent{
		AbstractBuiltInGrammar: NewBuiltInGrammar(),
		docEnd:                 docEnd,
	}
	c.AddProduction(startElementGeneric, docEnd)

	return c
}

func NewBuiltInDocContentWithLabel(docEnd Grammar, label string) *BuiltInDocContent {
	c := &BuiltInDocContent{
		AbstractBuiltInGrammar: NewBuiltInGrammar(),
		docEnd:                 docEnd,
	}
	c.SetLabel(label)
	c.AddProduction(startElementGeneric, docEnd)

	return c
}

func (c *BuiltInDocContent) GetGrammarType() GrammarType {
	return GrammarTypeBuiltInDocContent
}

func (c *BuiltInDocContent) AddProduction(event Event, gr Grammar) error {
	if !event.IsEventType(EventTypeStartElementGeneric) || c.GetNumberOfEvents() > 0 {
		return NewError(ErrMismatch, "mis-use of BuiltInDocContent grammar")
	}
	c.AbstractBuiltInGrammar.AddProduction(event, gr)

	return nil
}

type BuiltInElement struct {
	*AbstractBuiltInContent
}

func NewBuiltInElement() *BuiltInElement {
	e := &BuiltInElement{
		AbstractBuiltInContent: NewAbstractBuiltInContent(),
	}
	e.AddProduction(endElement, endRule)

	return e
}

func (be *BuiltInElement) HasEndElement() bool {
	return true
}

func (be *BuiltInElement) GetGrammarType() GrammarType {
	return GrammarTypeBuiltInElementContent
}

func (be *BuiltInElement) LearnStartElement(se *StartElement) {
	be.AddProduction(se, be)
}

func (be *BuiltInElement) LearnAttribute(at *Attribute) error {
	return NewError(ErrMismatch, "element content rule cannot learn AT events")
}

type BuiltInFragmentContent struct {
	*AbstractBuiltInGrammar
}

func NewBuiltInFragmentContent() *BuiltInFragmentContent {
	c := &BuiltInFragmentContent{
		AbstractBuiltInGrammar: NewBuiltInGrammar(),
	}
	c.AddTerminalProduction(NewEndDocument())
	c.AddProduction(startElementGeneric, c)

	return c
}

func (c *BuiltInFragmentContent) GetGrammarType() GrammarType {
	return GrammarTypeBuiltInFragmentContent
}

func (c *BuiltInFragmentContent) LearnStartElement(se *StartElement) {
	if !c.Contains(se) {
		c.AddProduction(se, c)
	}
}

// BuiltInStartTag is the evolving per-element start-tag state of the
// schema-less grammar; it learns SE, EE, AT, and CH productions as the
// document reveals them.
type BuiltInStartTag struct {
	*AbstractBuiltInContent
	elementContent *BuiltInElement
	learnedEE      bool
	learnedXsiType bool
}

func NewBuiltInStartTag() *BuiltInStartTag {
	return &BuiltInStartTag{
		AbstractBuiltInContent: NewAbstractBuiltInContent(),
		elementContent:         NewBuiltInElement(),
	}
}

func (bt *BuiltInStartTag) HasEndElement() bool {
	return bt.learnedEE
}

func (bt *BuiltInStartTag) GetGrammarType() GrammarType {
	return GrammarTypeBuiltInStartTagContent
}

func (bt *BuiltInStartTag) GetElementContentGrammar() Grammar {
	return bt.elementContent
}

func (bt *BuiltInStartTag) LearnStartElement(se *StartElement) {
	bt.AddProduction(se, bt.GetElementContentGrammar())
}

func (bt *BuiltInStartTag) LearnEndElement() {
	if !bt.learnedEE {
		bt.AddTerminalProduction(endElement)
		bt.learnedEE = true
	}
}

func (bt *BuiltInStartTag) LearnAttribute(at *Attribute) error {
	qcx := at.GetQNameContext()
	if qcx.GetNamespaceUriID() == 2 && qcx.GetLocalNameID() == 1 {
		if !bt.learnedXsiType {
			bt.AddProduction(at, bt)
			bt.learnedXsiType = true
		}
	} else {
		bt.AddProduction(at, bt)
	}

	return nil
}
