package exi

import (
	"bufio"
)

// ProfileDisablingMechanism names how an encoder disables further
// grammar learning for an element once an EXI profile bound is hit.
type ProfileDisablingMechanism int

const (
	// ProfileDisablingMechanismNone leaves learning enabled.
	ProfileDisablingMechanismNone ProfileDisablingMechanism = iota
	// ProfileDisablingMechanismXsiType inserts an xsi:type attribute.
	// Preferred, but only possible directly after SE since it swaps the
	// current grammar.
	ProfileDisablingMechanismXsiType
	// ProfileDisablingMechanismGhostProduction inserts a production that
	// can never match.
	ProfileDisablingMechanismGhostProduction
)

// EXIBodyDecoder walks an EXI body event by event. Next reports the
// upcoming event term; the matching Decode method must then be called
// to consume its payload before asking for the next term.
type EXIBodyDecoder interface {
	// SetInputStream rebinds the decoder to reader and resets all state.
	SetInputStream(reader *bufio.Reader) error

	// SetInputChannel rebinds the decoder to channel and resets all state.
	SetInputChannel(channel DecoderChannel) error

	// UpdateInputStream swaps the input without resetting state.
	UpdateInputStream(reader *bufio.Reader) error

	// UpdateInputChannel swaps the channel without resetting state.
	UpdateInputChannel(channel DecoderChannel) error

	// Next reports the next event term, or ok==false at end of stream.
	Next() (EventType, bool, error)

	DecodeStartDocument() error

	DecodeEndDocument() error

	// DecodeStartElement consumes SE and resolves its qualified name.
	DecodeStartElement() (*QNameContext, error)

	// GetElementPrefix reports the current element's prefix, if any.
	GetElementPrefix() *string

	// GetElementQNameAsString renders the current element name as
	// prefix:local, or bare local when unprefixed.
	GetElementQNameAsString() string

	// DecodeStartSelfContainedFragment consumes an SC event.
	DecodeStartSelfContainedFragment() error

	// DecodeEndElement consumes EE and reports the closed element.
	DecodeEndElement() (*QNameContext, error)

	DecodeAttributeXsiNil() (*QNameContext, error)

	DecodeAttributeXsiType() (*QNameContext, error)

	// DecodeAttribute consumes AT and resolves its qualified name; the
	// value is available through GetAttributeValue afterwards.
	DecodeAttribute() (*QNameContext, error)

	GetAttributePrefix() *string

	// GetAttributeQNameAsString renders the last attribute name as
	// prefix:local, or bare local when unprefixed.
	GetAttributeQNameAsString() string

	GetAttributeValue() Value

	// DecodeNamespaceDeclaration consumes NS, yielding URI and prefix.
	DecodeNamespaceDeclaration() (*NamespaceDeclarationContainer, error)

	// GetDeclaredPrefixDeclarations lists the prefix bindings of the
	// current element.
	GetDeclaredPrefixDeclarations() []NamespaceDeclarationContainer

	DecodeCharacters() (Value, error)

	// DecodeDocType consumes DT (name, publicID, systemID, text).
	DecodeDocType() (*DocTypeContainer, error)

	DecodeEntityReference() ([]rune, error)

	DecodeComment() ([]rune, error)

	DecodeProcessingInstruction() (ProcessingInstructionContainer, error)
}

// EXIBodyEncoder is the mirror image of EXIBodyDecoder: the host pushes
// XML events and the encoder translates each into its event code and
// payload under the active grammar.
type EXIBodyEncoder interface {
	SetOutputStream(writer bufio.Writer) error

	SetOutputChannel(channel EncoderChannel) error

	// Flush spills any buffered partial octet to the output.
	Flush() error

	SetErrorHandler(handler ErrorHandler)

	EncodeStartDocument() error

	EncodeEndDocument() error

	// EncodeStartElement emits SE for {uri}localName. prefix may be nil
	// unless Preserve.Prefixes demands one.
	EncodeStartElement(uri, localName string, prefix *string) error
	EncodeStartElementByQName(se QName) error

	EncodeEndElement() error

	// EncodeAttributeList emits namespace declarations, xsi:type and
	// xsi:nil, then the remaining attributes, in the order EXI requires.
	EncodeAttributeList(attributes AttributeList) error

	EncodeAttribute(uri, localName string, prefix *string, value Value) error

	EncodeAttributeByQName(at QName, value Value) error

	// EncodeNamespaceDeclaration emits a discrete NS event.
	EncodeNamespaceDeclaration(uri string, prefix *string) error

	EncodeAttributeXsiNil(nilValue Value, prefix *string) error

	EncodeAttributeXsiType(typeValue Value, prefix *string) error

	EncodeCharacters(chars Value) error

	// EncodeDocType emits DT with its four information items.
	EncodeDocType(name, publicID, systemID, text string) error

	EncodeEntityReference(name string) error

	EncodeComment(ch []rune, start, length int) error

	EncodeProcessingInstruction(target, data string) error
}

// EXIStreamDecoder couples header parsing with body decoding: either
// consume the header from the stream, or skip it when options arrived
// out of band.
type EXIStreamDecoder interface {
	GetBodyOnlyDecoder(reader *bufio.Reader) (EXIBodyDecoder, error)
	DecodeHeader(reader *bufio.Reader) (EXIBodyDecoder, error)
}

// EXIStreamEncoder writes the header and hands back the body encoder
// positioned directly behind it.
type EXIStreamEncoder interface {
	EncodeHeader(writer bufio.Writer) (EXIBodyEncoder, error)
}
