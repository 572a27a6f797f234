package exi

// EventType enumerates every event term a grammar production can
// match, ordered so that comparing types also yields the canonical
// attribute ordering of EXI §8.
type EventType int

const (
	EventTypeStartDocument EventType = iota
	// xsi-special and ordinary attribute terms
	EventTypeAttributeXsiType
	EventTypeAttributeXsiNil
	EventTypeAttribute
	EventTypeAttributeNS
	EventTypeAttributeGeneric
	EventTypeAttributeInvalidValue
	EventTypeAttributeAnyInvalidValue
	EventTypeAttributeGenericUndeclared
	// start-element terms
	EventTypeStartElement
	EventTypeStartElementNS
	EventTypeStartElementGeneric
	EventTypeStartElementGenericUndeclared
	// end-element terms
	EventTypeEndElement
	EventTypeEndElementUndeclared
	// character terms
	EventTypeCharacters
	EventTypeCharactersGeneric
	EventTypeCharactersGenericUndeclared
	EventTypeEndDocument
	// fidelity-gated terms
	EventTypeDocType
	EventTypeNamespaceDeclaration
	EventTypeSelfContained
	EventTypeEntityReference
	EventTypeComment
	EventTypeProcessingInstruction
)

// Event is one grammar event term; concrete terms add their payload
// (qname, datatype, namespace).
type Event interface {
	GetEventType() EventType
	IsEventType(eventType EventType) bool
	Equals(other Event) bool
}

// DatatypeEvent is an event term carrying a typed value (AT, CH).
type DatatypeEvent interface {
	Event
	GetDatatype() Datatype
}

type AbstractEvent struct {
	Event
	eventType EventType
}

func (e *AbstractEvent) GetEventType() EventType {
	return e.eventType
}

func (e *AbstractEvent) IsEventType(et EventType) bool {
	return e.eventType == et
}

func (e *AbstractEvent) Equals(other Event) bool {
	if other == nil {
		return false
	}
	return e.eventType == other.GetEventType()
}

type AbstractDatatypeEvent struct {
	*AbstractEvent
	datatype Datatype
}

func (e *AbstractDatatypeEvent) GetDatatype() Datatype {
	return e.datatype
}

// Back-compat with earlier naming used in ported code
func (e *AbstractDatatypeEvent) GetDataType() Datatype {
	return e.datatype
}

type Attribute struct {
	*AbstractDatatypeEvent
	qname        QName
	qnameContext *QNameContext
}

func NewAttribute(qcx *QNameContext) *Attribute {
	return NewAttributeWithDatatype(qcx, BuiltInGetDefaultDatatype())
}

func NewAttributeWithDatatype(qcx *QNameContext, dt Datatype) *Attribute {
	base := &AbstractEvent{
		eventType: EventTypeAttribute,
	}
	ev := &Attribute{
		AbstractDatatypeEvent: &AbstractDatatypeEvent{
			AbstractEvent: base,
			datatype:      dt,
		},
		qnameContext: qcx,
		qname:        qcx.GetQName(),
	}
	base.Event = ev
	return ev
}

func (ev *Attribute) GetQNameContext() *QNameContext {
	return ev.qnameContext
}

func (ev *Attribute) GetQName() QName {
	return ev.qname
}

func (ev *Attribute) Equals(other Event) bool {
	otherA, ok := other.(*Attribute)
	if ok {
		if ev.qname.Local == otherA.qname.Local && ev.qname.Space == otherA.qname.Space {
			return true
		}
	}
	return false
}

type AttributeGeneric struct {
	*AbstractEvent
}

func NewAttributeGeneric() *AttributeGeneric {
	base := &AbstractEvent{
		eventType: EventTypeAttributeGeneric,
	}
	ev := &AttributeGeneric{
		AbstractEvent: base,
	}
	base.Event = ev

	return ev
}

type AttributeNS struct {
	*AbstractEvent
	namespaceUri   string
	namespaceUriID int
}

func NewAttributeNS(namespaceUriID int, uri string) *AttributeNS {
	base := &AbstractEvent{
		eventType: EventTypeAttributeNS,
	}
	ev := &AttributeNS{
		AbstractEvent:  base,
		namespaceUriID: namespaceUriID,
		namespaceUri:   uri,
	}
	base.Event = ev
	return ev
}

func (ev *AttributeNS) GetNamespaceUri() string {
	return ev.namespaceUri
}

func (ev *AttributeNS) GetNamespaceUriID() int {
	return ev.namespaceUriID
}

type Characters struct {
	*AbstractDatatypeEvent
}

func NewCharacters(dt Datatype) *Characters {
	base := &AbstractEvent{
		eventType: EventTypeCharacters,
	}
	ev := &Characters{
		AbstractDatatypeEvent: &AbstractDatatypeEvent{
			AbstractEvent: base,
			datatype:      dt,
		},
	}
	base.Event = ev

	return ev
}

type CharactersGeneric struct {
	*AbstractDatatypeEvent
}

func NewCharactersGeneric() *CharactersGeneric {
	base := &AbstractEvent{
		eventType: EventTypeCharactersGeneric,
	}
	ev := &CharactersGeneric{
		AbstractDatatypeEvent: &AbstractDatatypeEvent{
			AbstractEvent: base,
			datatype:      BuiltInGetDefaultDatatype(),
		},
	}
	base.Event = ev
	return ev
}

type Comment struct {
	*AbstractEvent
}

func NewComment() *Comment {
	base := &AbstractEvent{
		eventType: EventTypeComment,
	}
	ev := &Comment{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type DocType struct {
	*AbstractEvent
}

func NewDocType() *DocType {
	base := &AbstractEvent{
		eventType: EventTypeDocType,
	}
	ev := &DocType{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type EndDocument struct {
	*AbstractEvent
}

func NewEndDocument() *EndDocument {
	base := &AbstractEvent{
		eventType: EventTypeEndDocument,
	}
	ev := &EndDocument{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type EndElement struct {
	*AbstractEvent
}

func NewEndElement() *EndElement {
	base := &AbstractEvent{
		eventType: EventTypeEndElement,
	}
	ev := &EndElement{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type EntityReference struct {
	*AbstractEvent
}

func NewEntityReference() *EntityReference {
	base := &AbstractEvent{
		eventType: EventTypeEntityReference,
	}
	ev := &EntityReference{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type NamespaceDeclaration struct {
	*AbstractEvent
}

func NewNamespaceDeclaration() *NamespaceDeclaration {
	base := &AbstractEvent{
		eventType: EventTypeNamespaceDeclaration,
	}
	ev := &NamespaceDeclaration{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type ProcessingInstruction struct {
	*AbstractEvent
}

func NewProcessingInstruction() *ProcessingInstruction {
	base := &AbstractEvent{
		eventType: EventTypeProcessingInstruction,
	}
	ev := &ProcessingInstruction{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type SelfContained struct {
	*AbstractEvent
}

func NewSelfContained() *SelfContained {
	base := &AbstractEvent{
		eventType: EventTypeSelfContained,
	}
	ev := &SelfContained{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type StartDocument struct {
	*AbstractEvent
}

func NewStartDocument() *StartDocument {
	base := &AbstractEvent{
		eventType: EventTypeStartDocument,
	}
	ev := &StartDocument{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type StartElement struct {
	*AbstractEvent
	qname        QName
	qnameContext *QNameContext
	grammar      Grammar
}

func NewStartElement(qcx *QNameContext) *StartElement {
	base := &AbstractEvent{
		eventType: EventTypeStartElement,
	}
	ev := &StartElement{
		AbstractEvent: base,
		qnameContext:  qcx,
		qname:         qcx.qName,
	}
	base.Event = ev
	return ev
}

func NewStartElementWithGrammar(qcx *QNameContext, gr Grammar) *StartElement {
	se := NewStartElement(qcx)
	se.grammar = gr
	return se
}

func (e *StartElement) GetQNameContext() *QNameContext {
	return e.qnameContext
}

func (e *StartElement) GetQName() QName {
	return e.qname
}

func (e *StartElement) SetGrammar(gr Grammar) {
	e.grammar = gr
}

func (e *StartElement) GetGrammar() Grammar {
	return e.grammar
}

func (e *StartElement) Equals(other Event) bool {
	if other == nil {
		return false
	}
	otherA, ok := other.(*StartElement)
	if ok {
		if e.qnameContext.Equals(otherA.qnameContext) {
			return true
		}
	}
	return false
}

type StartElementGeneric struct {
	*AbstractEvent
}

func NewStartElementGeneric() *StartElementGeneric {
	base := &AbstractEvent{
		eventType: EventTypeStartElementGeneric,
	}
	ev := &StartElementGeneric{
		AbstractEvent: base,
	}
	base.Event = ev
	return ev
}

type StartElementNS struct {
	*AbstractEvent
	namespaceUri   string
	namespaceUriID int
}

func NewStartElementNS(namespaceUriID int, uri string) *StartElementNS {
	base := &AbstractEvent{
		eventType: EventTypeStartElementNS,
	}
	ev := &StartElementNS{
		AbstractEvent:  base,
		namespaceUriID: namespaceUriID,
		namespaceUri:   uri,
	}
	base.Event = ev
	return ev
}

func (e *StartElementNS) GetNamespaceUri() string {
	return e.namespaceUri
}

func (e *StartElementNS) GetNamespaceUriID() int {
	return e.namespaceUriID
}
