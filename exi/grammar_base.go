package exi

import (
	"fmt"
	"log"
	"slices"
	"strings"
)

// AbstractGrammar carries the label and learning bookkeeping common to
// every grammar state; the no-op Learn* methods here make learning an
// opt-in for the built-in grammars only.
type AbstractGrammar struct {
	Grammar
	label                     *string
	stopLearningContainerSize int
}

func NewAbstractGrammar() *AbstractGrammar {
	return &AbstractGrammar{
		stopLearningContainerSize: NotFound,
	}
}

func NewAbstractGrammarWithLabel(label *string) *AbstractGrammar {
	return &AbstractGrammar{
		label:                     label,
		stopLearningContainerSize: NotFound,
	}
}

func (g *AbstractGrammar) LearnStartElement(se *StartElement) {}

func (g *AbstractGrammar) LearnEndElement() {}

func (g *AbstractGrammar) LearnAttribute(at *Attribute) error {
	return nil
}

func (g *AbstractGrammar) LearnCharacters() {}

func (g *AbstractGrammar) StopLearning() {}

func (g *AbstractGrammar) LearningStopped() int {
	return g.stopLearningContainerSize
}

func (g *AbstractGrammar) SetLabel(label string) {
	g.label = &label
}

func (g *AbstractGrammar) GetLabel() string {
	if g.label != nil && *g.label != "" {
		return *g.label
	}
	return "AbstractGrammar"
}

func (g *AbstractGrammar) GetEventCode(et EventType, events []EventType) int {
	return slices.Index(events, et)
}

func (g *AbstractGrammar) GetElementContentGrammar() Grammar {
	return g
}

func (g *AbstractGrammar) checkQualifiedName(c QName, namespaceUri, lname string) bool {
	return c.Local == lname && c.Space == namespaceUri
}

// AbstractSchemaInformedGrammar keeps its productions sorted in the
// canonical event order and pre-computes the code lengths and
// attribute statistics event-code assignment needs.
type AbstractSchemaInformedGrammar struct {
	*AbstractGrammar
	containers                 []Production
	codeLengthA                int
	codeLengthB                int
	hasEndElement              bool
	leastAttributeEventCode    int
	numberOfDeclaredAttributes int
}

func NewAbstractSchemaInformedGrammar() *AbstractSchemaInformedGrammar {
	return NewAbstractSchemaInformedGrammarWithLabel(nil)
}

func NewAbstractSchemaInformedGrammarWithLabel(label *string) *AbstractSchemaInformedGrammar {
	return &AbstractSchemaInformedGrammar{
		AbstractGrammar:         NewAbstractGrammarWithLabel(label),
		containers:              []Production{},
		leastAttributeEventCode: NotFound,
	}
}

func (g *AbstractSchemaInformedGrammar) HasEndElement() bool {
	return g.hasEndElement
}

func (g *AbstractSchemaInformedGrammar) isTerminalRule() bool {
	return false
}

func (g *AbstractSchemaInformedGrammar) IsSchemaInformed() bool {
	return true
}

func (g *AbstractSchemaInformedGrammar) GetNumberOfDeclaredAttributes() int {
	return g.numberOfDeclaredAttributes
}

func (g *AbstractSchemaInformedGrammar) GetLeastAttributeEventCode() int {
	return g.leastAttributeEventCode
}

func (g *AbstractSchemaInformedGrammar) GetNumberOfEvents() int {
	return len(g.containers)
}

// AddTerminalProduction closes a state with EE or ED: the production
// leads into the shared terminal grammar. It lives on the concrete
// grammar bases (not AbstractGrammar) so AddProduction resolves
// statically instead of through the embedded interface.
func (g *AbstractSchemaInformedGrammar) AddTerminalProduction(ev Event) {
	if !(ev.IsEventType(EventTypeEndElement) || ev.IsEventType(EventTypeEndDocument)) {
		panic("not a terminal production")
	}
	g.AddProduction(ev, endRule)
}

func (g *AbstractSchemaInformedGrammar) AddProduction(ev Event, gr Grammar) error {
	if g.isTerminalRule() {
		return NewError(ErrMismatch, "EndGrammar can not have events attached")
	}

	if (ev.IsEventType(EventTypeEndElement) ||
		ev.IsEventType(EventTypeAttributeGeneric) ||
		ev.IsEventType(EventTypeStartElementGeneric)) && g.GetProduction(ev.GetEventType()) != nil {
		log.Printf("Event %d is already preset", ev.GetEventType())
	} else {
		if ev.IsEventType(EventTypeEndElement) {
			g.hasEndElement = true
		}

		for _, prod := range g.containers {
			if prod.GetEvent().Equals(ev) {
				if prod.GetNextGrammar() != gr {
					return NewError(ErrMismatch, fmt.Sprintf("same event %d with indistinguishable 'next' grammar", ev.GetEventType()))
				}
			}
		}
	}

	return g.updateSortedEvents(ev, gr)
}

// insertionSlot finds where ev belongs in the canonical event order
// (http://www.w3.org/TR/exi/#eventCodeAssignment): ascending event
// type; attributes ordered by qname, AT(uri:*) by uri, and elements
// kept in schema order behind their peers.
func (g *AbstractSchemaInformedGrammar) insertionSlot(ev Event) (int, error) {
	for i, prod := range g.containers {
		existing := prod.GetEvent()
		diff := existing.GetEventType() - ev.GetEventType()
		if diff < 0 {
			continue
		}
		if diff > 0 {
			return i, nil
		}

		switch ev.GetEventType() {
		case EventTypeAttribute:
			cmp := AttributeCompareFunc(existing.(*Attribute), ev.(*Attribute))
			if cmp > 0 {
				return i, nil
			}
			if cmp == 0 {
				return -1, NewError(ErrMismatch, "twice the same attribute name when sorting")
			}
		case EventTypeAttributeNS:
			cmp := strings.Compare(existing.(*AttributeNS).GetNamespaceUri(), ev.(*AttributeNS).GetNamespaceUri())
			if cmp > 0 {
				return i, nil
			}
			if cmp == 0 {
				return -1, NewError(ErrMismatch, "twice the same attribute uri in AT(*uri) when sorting")
			}
		case EventTypeStartElement, EventTypeStartElementNS:
			// schema order: a new element production goes after its peers
		default:
			return -1, NewError(ErrUnexpected, "no valid event type for sorting")
		}
	}
	return len(g.containers), nil
}

// updateSortedEvents splices the new production into its canonical
// slot and renumbers: event codes are simply ordinal positions, so the
// whole production list is rebuilt with fresh codes.
func (g *AbstractSchemaInformedGrammar) updateSortedEvents(newEvent Event, newGrammar Grammar) error {
	slot, err := g.insertionSlot(newEvent)
	if err != nil {
		return err
	}

	rebuilt := make([]Production, 0, len(g.containers)+1)
	for _, prod := range g.containers[:slot] {
		rebuilt = append(rebuilt, NewSchemaInformedProduction(prod.GetNextGrammar(), prod.GetEvent(), len(rebuilt)))
	}
	rebuilt = append(rebuilt, NewSchemaInformedProduction(newGrammar, newEvent, len(rebuilt)))
	for _, prod := range g.containers[slot:] {
		rebuilt = append(rebuilt, NewSchemaInformedProduction(prod.GetNextGrammar(), prod.GetEvent(), len(rebuilt)))
	}
	g.containers = rebuilt

	// two pre-computed first-level code lengths: with and without the
	// extra slot for 2nd-level codes
	g.codeLengthA = codingLength(len(rebuilt))
	g.codeLengthB = codingLength(len(rebuilt) + 1)

	g.leastAttributeEventCode = NotFound
	g.numberOfDeclaredAttributes = 0
	for code, prod := range rebuilt {
		if prod.GetEvent().IsEventType(EventTypeAttribute) {
			if g.leastAttributeEventCode == NotFound {
				g.leastAttributeEventCode = code
			}
			g.numberOfDeclaredAttributes++
		}
	}

	return nil
}

func (g *AbstractSchemaInformedGrammar) JoinGrammars(rule Grammar) {
	for i := 0; i < rule.GetNumberOfEvents(); i++ {
		prod := rule.GetProductionByEventCode(i)
		g.AddProduction(prod.GetEvent(), prod.GetNextGrammar())
	}
}

func (g *AbstractSchemaInformedGrammar) Duplicate() SchemaInformedGrammar {
	o := *g
	return &o
}

func (g *AbstractSchemaInformedGrammar) GetProduction(et EventType) Production {
	for _, prod := range g.containers {
		if prod.GetEvent().IsEventType(et) {
			return prod
		}
	}

	return nil
}

func (g *AbstractSchemaInformedGrammar) GetStartElementProduction(namespaceUri, lname string) Production {
	for _, prod := range g.containers {
		if prod.GetEvent().IsEventType(EventTypeStartElement) {
			seEI := prod.GetEvent().(*StartElement)
			if g.checkQualifiedName(seEI.qname, namespaceUri, lname) {
				return prod
			}
		}
	}

	return nil
}

func (g *AbstractSchemaInformedGrammar) GetStartElementNSProduction(namespaceUri string) Production {
	for _, prod := range g.containers {
		if prod.GetEvent().IsEventType(EventTypeStartElementNS) {
			seEI := prod.GetEvent().(*StartElementNS)
			if seEI.GetNamespaceUri() == namespaceUri {
				return prod
			}
		}
	}

	return nil
}

func (g *AbstractSchemaInformedGrammar) GetAttributeProduction(namespaceUri, lname string) Production {
	for _, prod := range g.containers {
		if prod.GetEvent().IsEventType(EventTypeAttribute) {
			atEI := prod.GetEvent().(*Attribute)
			if g.checkQualifiedName(atEI.qname, namespaceUri, lname) {
				return prod
			}
		}
	}

	return nil
}

func (g *AbstractSchemaInformedGrammar) GetAttributeNSProduction(namespaceUri string) Production {
	for _, prod := range g.containers {
		if prod.GetEvent().IsEventType(EventTypeAttributeNS) {
			atEI := prod.GetEvent().(*AttributeNS)
			if atEI.GetNamespaceUri() == namespaceUri {
				return prod
			}
		}
	}

	return nil
}

func (g *AbstractSchemaInformedGrammar) GetProductionByEventCode(code int) Production {
	return g.containers[code]
}

type AbstractSchemaInformedContent struct {
	*AbstractSchemaInformedGrammar
}

func NewAbstractSchemaInformedContent() *AbstractSchemaInformedContent {
	return &AbstractSchemaInformedContent{
		AbstractSchemaInformedGrammar: NewAbstractSchemaInformedGrammar(),
	}
}

type SchemaInformedElement struct {
	*AbstractSchemaInformedContent
}

func NewSchemaInformedElement() *SchemaInformedElement {
	asic := NewAbstractSchemaInformedContent()
	se := &SchemaInformedElement{
		AbstractSchemaInformedContent: asic,
	}
	asic.Grammar = se

	return se
}

func (sie *SchemaInformedElement) GetGrammarType() GrammarType {
	return GrammarTypeSchemaInformedElementContent
}

