package exi

import (
	"bufio"
	"fmt"
)

type streamDecoder struct {
	EXIStreamDecoder
	exiHeader        *EXIHeaderDecoder
	exiBody          EXIBodyDecoder
	noOptionsFactory EXIFactory
}

func newStreamDecoder(noOptionsFactory EXIFactory) (*streamDecoder, error) {
	exiBody, err := noOptionsFactory.CreateEXIBodyDecoder()
	if err != nil {
		return nil, err
	}
	return &streamDecoder{
		exiHeader:        NewEXIHeaderDecoder(),
		exiBody:          exiBody,
		noOptionsFactory: noOptionsFactory,
	}, nil
}

func (sd *streamDecoder) GetBodyOnlyDecoder(r2 *bufio.Reader) (EXIBodyDecoder, error) {
	if err := sd.exiBody.SetInputStream(r2); err != nil {
		return nil, err
	}
	return sd.exiBody, nil
}

func (sd *streamDecoder) DecodeHeader(r2 *bufio.Reader) (EXIBodyDecoder, error) {
	headerChannel := NewBitDecoderChannel(r2)
	factory, err := sd.exiHeader.Parse(headerChannel, sd.noOptionsFactory)
	if err != nil {
		return nil, err
	}

	// update body decoder if EXI options tell to do so
	if factory != sd.noOptionsFactory {
		sd.exiBody, err = factory.CreateEXIBodyDecoder()
		if err != nil {
			return nil, err
		}
	}
	if factory.GetCodingMode() == CodingModeBitPacked {
		if err := sd.exiBody.SetInputChannel(headerChannel); err != nil {
			return nil, err
		}
	} else {
		if err := sd.exiBody.SetInputStream(r2); err != nil {
			return nil, err
		}
	}

	return sd.exiBody, nil
}

type streamEncoder struct {
	exiHeader  *EXIHeaderEncoder
	exiBody    EXIBodyEncoder
	exiFactory EXIFactory
}

func newStreamEncoder(factory EXIFactory) (*streamEncoder, error) {
	exiBody, err := factory.CreateEXIBodyEncoder()
	if err != nil {
		return nil, err
	}
	return &streamEncoder{
		exiHeader:  NewEXIHeaderEncoder(),
		exiBody:    exiBody,
		exiFactory: factory,
	}, nil
}

// EncodeHeader writes the EXI header to writer and wires the body
// encoder's output to match the configured coding mode, mirroring
// streamDecoder.DecodeHeader on the encode side.
func (se *streamEncoder) EncodeHeader(w2 bufio.Writer) (EXIBodyEncoder, error) {
	headerChannel := NewBitEncoderChannel(w2)
	if err := se.exiHeader.Write(headerChannel, se.exiFactory); err != nil {
		return nil, err
	}

	if se.exiFactory.GetCodingMode() == CodingModeBitPacked {
		if err := se.exiBody.SetOutputChannel(headerChannel); err != nil {
			return nil, err
		}
	} else {
		if err := se.exiBody.SetOutputStream(w2); err != nil {
			return nil, err
		}
	}

	return se.exiBody, nil
}

type inOrderDecoder struct {
	*bodyDecoderBase
}

func newInOrderDecoder(factory EXIFactory) (*inOrderDecoder, error) {
	abd, err := newBodyDecoderBase(factory)
	if err != nil {
		return nil, err
	}

	return &inOrderDecoder{
		bodyDecoderBase: abd,
	}, nil
}

func (dec *inOrderDecoder) SetInputStream(r2 *bufio.Reader) error {
	if err := dec.UpdateInputStream(r2); err != nil {
		return err
	}
	return dec.InitForEachRun()
}

func (dec *inOrderDecoder) SetInputChannel(ch DecoderChannel) error {
	if err := dec.UpdateInputChannel(ch); err != nil {
		return err
	}
	return dec.InitForEachRun()
}

func (dec *inOrderDecoder) UpdateInputStream(r2 *bufio.Reader) error {
	codingMode := dec.exiFactory.GetCodingMode()

	switch codingMode {
	case CodingModeBitPacked:
		// create new bit-aligned channel
		if err := dec.UpdateInputChannel(NewBitDecoderChannel(r2)); err != nil {
			return err
		}
	case CodingModeBytePacked, CodingModePreCompression:
		// byte-aligned, uncompressed
		if err := dec.UpdateInputChannel(NewByteDecoderChannel(r2)); err != nil {
			return err
		}
	case CodingModeCompression:
		if err := dec.UpdateInputChannel(NewByteDecoderChannel(newDecompressedByteReader(r2))); err != nil {
			return err
		}
	default:
		return NewError(ErrInvalidConfig, fmt.Sprintf("unexpected coding mode: %d", codingMode))
	}

	return nil
}

func (dec *inOrderDecoder) UpdateInputChannel(ch DecoderChannel) error {
	dec.channel = ch
	return nil
}

func (dec *inOrderDecoder) GetChannel() DecoderChannel {
	return dec.channel
}

func (dec *inOrderDecoder) InitForEachRun() error {
	if err := dec.bodyDecoderBase.InitForEachRun(); err != nil {
		return err
	}

	dec.nextEvent = nil
	dec.nextEventType = EventTypeStartDocument

	return nil
}

func (dec *inOrderDecoder) Next() (EventType, bool, error) {
	if dec.nextEventType == EventTypeEndDocument {
		return -1, false, nil
	} else {
		ec, err := dec.decodeEventCode()
		if err != nil {
			return -1, false, err
		}
		return ec, true, nil
	}
}

func (dec *inOrderDecoder) DecodeStartDocument() error {
	return dec.decodeStartDocumentStructure()
}

func (dec *inOrderDecoder) DecodeEndDocument() error {
	return dec.decodeEndDocumentStructure()
}

func (dec *inOrderDecoder) DecodeStartElement() (*QNameContext, error) {
	switch dec.nextEventType {
	case EventTypeStartElement:
		return dec.decodeStartElementStructure()
	case EventTypeStartElementNS:
		return dec.decodeStartElementNSStructure()
	case EventTypeStartElementGeneric:
		return dec.decodeStartElementGenericStructure()
	case EventTypeStartElementGenericUndeclared:
		return dec.decodeStartElementGenericUndeclaredStructure()
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("invalid decode state: %d", dec.nextEventType))
	}
}

func (dec *inOrderDecoder) GetElementPrefix() *string {
	return dec.getElementContext().GetPrefix()
}

func (dec *inOrderDecoder) GetElementQNameAsString() string {
	return dec.getElementContext().GetQNameAsString(dec.preservePrefix)
}

func (dec *inOrderDecoder) DecodeEndElement() (*QNameContext, error) {
	var ec *ElementContext
	var err error
	switch dec.nextEventType {
	case EventTypeEndElement:
		ec, err = dec.decodeEndElementStructure()
		if err != nil {
			return nil, err
		}
	case EventTypeEndElementUndeclared:
		ec, err = dec.decodeEndElementUndeclaredStructure()
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("invalid decode state: %d", dec.nextEventType))
	}

	return ec.qnc, nil
}

func (dec *inOrderDecoder) DecodeAttributeXsiNil() (*QNameContext, error) {
	if dec.nextEventType != EventTypeAttributeXsiNil {
		return nil, fmt.Errorf("next event type != Attribute xsi:nil")
	}
	if err := dec.decodeAttributeXsiNilStructure(); err != nil {
		return nil, err
	}

	return dec.attributeQNameContext, nil
}

func (dec *inOrderDecoder) DecodeAttributeXsiType() (*QNameContext, error) {
	if dec.nextEventType != EventTypeAttributeXsiType {
		return nil, fmt.Errorf("next event type != Attribute xsi:type")
	}
	if err := dec.decodeAttributeXsiTypeStructure(); err != nil {
		return nil, err
	}

	return dec.attributeQNameContext, nil

}

func (dec *inOrderDecoder) readAttributeContentWithDatatype(dt Datatype) error {
	val, err := dec.typeDecoder.ReadValue(dt, dec.attributeQNameContext, dec.channel, dec.stringDecoder)
	if err != nil {
		return err
	}
	dec.attributeValue = val
	return nil
}

func (dec *inOrderDecoder) readAttributeContent() error {
	if dec.attributeQNameContext.GetNamespaceUriID() == dec.getXsiTypeContext().GetNamespaceUriID() {
		localNameID := dec.attributeQNameContext.GetLocalNameID()
		if localNameID == dec.getXsiTypeContext().GetLocalNameID() {
			if err := dec.decodeAttributeXsiTypeStructure(); err != nil {
				return err
			}
		} else if localNameID == dec.getXsiNilContext().GetLocalNameID() && dec.getCurrentGrammar().IsSchemaInformed() {
			if err := dec.decodeAttributeXsiNilStructure(); err != nil {
				return err
			}
		} else {
			if err := dec.readAttributeContentWithDatatype(BuiltInGetDefaultDatatype()); err != nil {
				return err
			}
		}
	} else {
		// Attribute globalAT;
		dt := BuiltInGetDefaultDatatype()

		if dec.getCurrentGrammar().IsSchemaInformed() && dec.attributeQNameContext.GetGlobalAttribute() != nil {
			dt = dec.attributeQNameContext.GetGlobalAttribute().GetDataType()
		}

		if err := dec.readAttributeContentWithDatatype(dt); err != nil {
			return err
		}
	}

	return nil
}

func (dec *inOrderDecoder) DecodeAttribute() (*QNameContext, error) {
	switch dec.nextEventType {
	case EventTypeAttribute:
		dt, err := dec.decodeAttributeStructure()
		if err != nil {
			return nil, err
		}
		if dec.attributeQNameContext.Equals(dec.getXsiTypeContext()) {
			if err := dec.decodeAttributeXsiTypeStructure(); err != nil {
				return nil, err
			}
		} else {
			if err := dec.readAttributeContentWithDatatype(dt); err != nil {
				return nil, err
			}
		}
	case EventTypeAttributeNS:
		if err := dec.decodeAttributeNSStructure(); err != nil {
			return nil, err
		}
		if err := dec.readAttributeContent(); err != nil {
			return nil, err
		}
	case EventTypeAttributeGeneric:
		if err := dec.decodeAttributeGenericStructure(); err != nil {
			return nil, err
		}
		if err := dec.readAttributeContent(); err != nil {
			return nil, err
		}
	case EventTypeAttributeGenericUndeclared:
		if err := dec.decodeAttributeGenericUndeclaredStructure(); err != nil {
			return nil, err
		}
		if err := dec.readAttributeContent(); err != nil {
			return nil, err
		}
	case EventTypeAttributeInvalidValue:
		if _, err := dec.decodeAttributeStructure(); err != nil {
			return nil, err
		}
		// Note: attribute content datatype is not the right one (invalid)
		if err := dec.readAttributeContentWithDatatype(BuiltInGetDefaultDatatype()); err != nil {
			return nil, err
		}
	case EventTypeAttributeAnyInvalidValue:
		if err := dec.decodeAttributeAnyInvalidValueStructure(); err != nil {
			return nil, err
		}
		if err := dec.readAttributeContentWithDatatype(BuiltInGetDefaultDatatype()); err != nil {
			return nil, err
		}
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("invalid decode state: %d", dec.nextEventType))
	}

	return dec.attributeQNameContext, nil
}

func (dec *inOrderDecoder) DecodeNamespaceDeclaration() (*NamespaceDeclarationContainer, error) {
	return dec.decodeNamespaceDeclarationStructure()
}

func (dec *inOrderDecoder) GetDeclaredPrefixDeclarations() []NamespaceDeclarationContainer {
	return dec.getElementContext().nsDeclarations
}

func (dec *inOrderDecoder) DecodeCharacters() (Value, error) {
	var dt Datatype
	var err error

	switch dec.nextEventType {
	case EventTypeCharacters:
		dt, err = dec.decodeCharactersStructure()
		if err != nil {
			return nil, err
		}
	case EventTypeCharactersGeneric:
		err = dec.decodeCharactersGenericStructure()
		if err != nil {
			return nil, err
		}
		dt = BuiltInGetDefaultDatatype()
	case EventTypeCharactersGenericUndeclared:
		err = dec.decodeCharactersGenericUndeclaredStructure()
		if err != nil {
			return nil, err
		}
		dt = BuiltInGetDefaultDatatype()
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("invalid decode state: %d", dec.nextEventType))
	}

	return dec.typeDecoder.ReadValue(dt, dec.getElementContext().qnc, dec.channel, dec.stringDecoder)
}

func (dec *inOrderDecoder) DecodeDocType() (*DocTypeContainer, error) {
	return dec.decodeDocTypeStructure()
}

func (dec *inOrderDecoder) DecodeEntityReference() ([]rune, error) {
	return dec.decodeEntityReferenceStructure()
}

func (dec *inOrderDecoder) DecodeComment() ([]rune, error) {
	return dec.decodeCommentStructure()
}

func (dec *inOrderDecoder) DecodeProcessingInstruction() (ProcessingInstructionContainer, error) {
	return dec.decodeProcessingInstructionStructure()
}

type inOrderEncoder struct {
	*bodyEncoderBase
	compressor  *compressingWriter
	outerWriter *bufio.Writer
}

func newInOrderEncoder(factory EXIFactory) (*inOrderEncoder, error) {
	abe, err := newBodyEncoderBase(factory)
	if err != nil {
		return nil, err
	}
	return &inOrderEncoder{
		bodyEncoderBase: abe,
	}, nil
}

func (enc *inOrderEncoder) SetOutputStream(w2 bufio.Writer) error {
	codingMode := enc.exiFactory.GetCodingMode()

	switch codingMode {
	case CodingModeBitPacked:
		// create new bit-aligned channel
		enc.SetOutputChannel(NewBitEncoderChannel(w2))
	case CodingModeBytePacked, CodingModePreCompression:
		// byte-aligned, uncompressed: PreCompression leaves the actual
		// compression to an external general-purpose compressor
		enc.SetOutputChannel(NewByteEncoderChannel(w2))
	case CodingModeCompression:
		enc.outerWriter = &w2
		cw, err := newCompressingWriter(enc.outerWriter)
		if err != nil {
			return err
		}
		enc.compressor = cw
		enc.SetOutputChannel(NewByteEncoderChannel(*bufio.NewWriter(cw)))
	default:
		return NewError(ErrInvalidConfig, fmt.Sprintf("unexpected coding mode: %d", codingMode))
	}

	return nil
}

func (enc *inOrderEncoder) SetOutputChannel(ch EncoderChannel) error {
	enc.channel = ch
	return nil
}

func (enc *inOrderEncoder) Flush() error {
	if err := enc.bodyEncoderBase.Flush(); err != nil {
		return err
	}
	if enc.compressor != nil {
		if err := enc.compressor.Close(); err != nil {
			return err
		}
		if err := enc.outerWriter.Flush(); err != nil {
			return WrapError(ErrFull, err)
		}
	}
	return nil
}

func (enc *inOrderEncoder) WriteValue(qcx *QNameContext) error {
	return enc.typeEncoder.WriteValue(qcx, enc.channel, enc.stringEncoder)
}

type inOrderDecoderSC struct {
	*inOrderDecoder
	scDecoder *inOrderDecoderSC
}

func newInOrderDecoderSC(factory EXIFactory) (*inOrderDecoderSC, error) {
	ebdio, err := newInOrderDecoder(factory)
	if err != nil {
		return nil, err
	}
	if !ebdio.fidelityOptions.IsFidelityEnabled(FeatureSC) {
		return nil, NewError(ErrInvalidConfig, "self-contained feature is not enabled")
	}
	return &inOrderDecoderSC{
		inOrderDecoder: ebdio,
		scDecoder:             nil,
	}, nil
}

func (dec *inOrderDecoderSC) InitForEachRun() error {
	if err := dec.inOrderDecoder.InitForEachRun(); err != nil {
		return err
	}
	// clear possibly remaining decoder
	dec.scDecoder = nil
	return nil
}

func (dec *inOrderDecoderSC) SkipSCElement(skip int64) error {
	// Note: Bytes to be skipped need to be known
	if dec.nextEventType != EventTypeSelfContained {
		return NewError(ErrUnexpected, "decoder state is not a self-contained element")
	}
	if err := dec.channel.Align(); err != nil {
		return err
	}
	for range skip {
		if _, err := dec.channel.Decode(); err != nil {
			return err
		}
	}
	dec.popElement()
	return nil
}

func (dec *inOrderDecoderSC) Next() (EventType, bool, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.Next()
	} else {
		et, exists, err := dec.scDecoder.Next()
		if err != nil {
			return -1, false, err
		}
		if !exists {
			return -1, false, NewError(ErrUnexpected, "no further events available")
		}
		if et == EventTypeEndDocument {
			if err := dec.scDecoder.DecodeEndDocument(); err != nil {
				return -1, false, err
			}
			// Skip to the next byte-aligned boundary in the stream if it is
			// not already at such a boundary
			if err := dec.channel.Align(); err != nil {
				return -1, false, err
			}
			// indicate that SC portion is over
			dec.scDecoder = nil
			dec.popElement()

			et, exists, err = dec.inOrderDecoder.Next()
			if err != nil {
				return -1, false, err
			}
		}

		return et, exists, nil
	}
}

func (dec *inOrderDecoderSC) DecodeStartDocument() error {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeStartDocument()
	} else {
		return dec.scDecoder.DecodeStartDocument()
	}
}

func (dec *inOrderDecoderSC) DecodeEndDocument() error {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeEndDocument()
	} else {
		return NewError(ErrInvalidEXIInput, "self-contained element not closed properly")
	}
}

func (dec *inOrderDecoderSC) DecodeStartElement() (*QNameContext, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeStartElement()
	} else {
		return dec.scDecoder.DecodeStartElement()
	}
}

func (dec *inOrderDecoderSC) DecodeStartSelfContainedFragment() error {
	if dec.scDecoder == nil {
		// SC Factory & Decoder
		scEXIFactory := dec.exiFactory.Clone()
		scEXIFactory.SetFragment(true)
		decoder, err := scEXIFactory.CreateEXIBodyDecoder()
		if err != nil {
			return err
		}
		dec.scDecoder = decoder.(*inOrderDecoderSC)
		dec.scDecoder.channel = dec.channel
		dec.scDecoder.SetErrorHandler(dec.errorHandler)
		if err := dec.scDecoder.InitForEachRun(); err != nil {
			return err
		}

		// Skip to the next byte-aligned boundary in the stream if it is not
		// already at such a boundary
		if err := dec.channel.Align(); err != nil {
			return err
		}

		// Evaluate the sequence of events (SD, SE(qname), content, ED)
		// according to the Fragment grammar
		if err := dec.scDecoder.DecodeStartDocument(); err != nil {
			return err
		}
		et, exists, err := dec.Next()
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("no next event")
		}
		switch et {
		case EventTypeStartElement, EventTypeStartElementNS, EventTypeStartElementGeneric, EventTypeStartElementGenericUndeclared:
			if _, err := dec.scDecoder.DecodeStartElement(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported EventType %d in SelfContained element", et)
		}
	} else {
		if err := dec.scDecoder.DecodeStartSelfContainedFragment(); err != nil {
			return err
		}
	}

	return nil
}

func (dec *inOrderDecoderSC) DecodeEndElement() (*QNameContext, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeEndElement()
	} else {
		return dec.scDecoder.DecodeEndElement()
	}
}

func (dec *inOrderDecoderSC) GetElementPrefix() *string {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.GetElementPrefix()
	} else {
		return dec.scDecoder.GetElementPrefix()
	}
}

func (dec *inOrderDecoderSC) GetElementQNameAsString() string {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.GetElementQNameAsString()
	} else {
		return dec.scDecoder.GetElementQNameAsString()
	}
}

func (dec *inOrderDecoderSC) DecodeAttributeXsiNil() (*QNameContext, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeAttributeXsiNil()
	} else {
		return dec.scDecoder.DecodeAttributeXsiNil()
	}
}

func (dec *inOrderDecoderSC) DecodeAttributeXsiType() (*QNameContext, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeAttributeXsiType()
	} else {
		return dec.scDecoder.DecodeAttributeXsiType()
	}
}

func (dec *inOrderDecoderSC) DecodeAttribute() (*QNameContext, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeAttribute()
	} else {
		return dec.scDecoder.DecodeAttribute()
	}
}

func (dec *inOrderDecoderSC) GetAttributePrefix() *string {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.GetAttributePrefix()
	} else {
		return dec.scDecoder.GetAttributePrefix()
	}
}

func (dec *inOrderDecoderSC) GetAttributeQNameAsString() string {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.GetAttributeQNameAsString()
	} else {
		return dec.scDecoder.GetAttributeQNameAsString()
	}
}

func (dec *inOrderDecoderSC) GetAttributeValue() Value {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.GetAttributeValue()
	} else {
		return dec.scDecoder.GetAttributeValue()
	}
}

func (dec *inOrderDecoderSC) GetDeclaredPrefixDeclarations() []NamespaceDeclarationContainer {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.GetDeclaredPrefixDeclarations()
	} else {
		return dec.scDecoder.GetDeclaredPrefixDeclarations()
	}
}

func (dec *inOrderDecoderSC) DecodeNamespaceDeclaration() (*NamespaceDeclarationContainer, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeNamespaceDeclaration()
	} else {
		return dec.scDecoder.DecodeNamespaceDeclaration()
	}
}

func (dec *inOrderDecoderSC) DecodeCharacters() (Value, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeCharacters()
	} else {
		return dec.scDecoder.DecodeCharacters()
	}
}

func (dec *inOrderDecoderSC) DecodeDocType() (*DocTypeContainer, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeDocType()
	} else {
		return dec.scDecoder.DecodeDocType()
	}
}

func (dec *inOrderDecoderSC) DecodeEntityReference() ([]rune, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeEntityReference()
	} else {
		return dec.scDecoder.DecodeEntityReference()
	}
}

func (dec *inOrderDecoderSC) DecodeComment() ([]rune, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeComment()
	} else {
		return dec.scDecoder.DecodeComment()
	}
}

func (dec *inOrderDecoderSC) DecodeProcessingInstruction() (ProcessingInstructionContainer, error) {
	if dec.scDecoder == nil {
		return dec.inOrderDecoder.DecodeProcessingInstruction()
	} else {
		return dec.scDecoder.DecodeProcessingInstruction()
	}
}

type inOrderEncoderSC struct {
	*inOrderEncoder
	scEncoder *inOrderEncoderSC
}

func newInOrderEncoderSC(factory EXIFactory) (*inOrderEncoderSC, error) {
	ebeio, err := newInOrderEncoder(factory)
	if err != nil {
		return nil, err
	}
	return &inOrderEncoderSC{
		inOrderEncoder: ebeio,
		scEncoder:             nil,
	}, nil
}

func (enc *inOrderEncoderSC) InitForEachRun() error {
	if err := enc.inOrderEncoder.InitForEachRun(); err != nil {
		return err
	}
	enc.scEncoder = nil
	return nil
}

func (enc *inOrderEncoderSC) SetErrorHandler(errorHandler ErrorHandler) {
	if enc.scEncoder == nil {
		enc.inOrderEncoder.SetErrorHandler(errorHandler)
	} else {
		enc.scEncoder.SetErrorHandler(errorHandler)
	}
}

func (enc *inOrderEncoderSC) EncodeStartDocument() error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeStartDocument()
	} else {
		return enc.scEncoder.EncodeStartDocument()
	}
}

func (enc *inOrderEncoderSC) EncodeEndDocument() error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeEndDocument()
	} else {
		return enc.scEncoder.EncodeEndDocument()
	}
}

func (enc *inOrderEncoderSC) encodeEndSC() error {
	// end SC fragment
	if err := enc.scEncoder.EncodeEndDocument(); err != nil {
		return err
	}
	// Skip to the next byte-aligned boundary in the stream if it is
	// not already at such a boundary
	if err := enc.channel.Align(); err != nil {
		return err
	}
	// indicate that SC portion is over
	enc.scEncoder = nil
	enc.inOrderEncoder.popElement()

	// NOTE: NO outer EE
	// Spec says
	// "Evaluate the sequence of events (SD, SE(qname), content, ED) .."
	// enc.g., "sc" is self-Contained element
	// Sequence: <sc>foo</sc>
	// --> SE(sc) --> SC --> SD --> SE(sc) --> CH --> EE --> ED
	// content == SE(sc) --> CH --> EE

	return nil
}

func (enc *inOrderEncoderSC) EncodeStartElement(uri, lname string, prefix *string) error {
	if enc.scEncoder == nil {
		if err := enc.inOrderEncoder.EncodeStartElement(uri, lname, prefix); err != nil {
			return err
		}
		qname := enc.getElementContext().qnc.GetQName()

		// start SC fragment?
		if enc.exiFactory.IsSelfContainedElement(qname) {
			ec2 := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeSelfContained, enc.getCurrentGrammar())
			if err := enc.encode2ndLevelEventCode(ec2); err != nil {
				return err
			}

			// Skip to the next byte-aligned boundary in the stream if it is
			// not already at such a boundary
			if err := enc.channel.Align(); err != nil {
				return err
			}

			// infor
			if enc.exiFactory.GetSelfContainedHandler() != nil {
				if err := enc.exiFactory.GetSelfContainedHandler().ScElement(&uri, &lname, enc.channel); err != nil {
					return err
				}
			}

			// start SC element
			if err := enc.encodeStartSC(uri, lname, prefix); err != nil {
				return err
			}
		}
	} else {
		if err := enc.scEncoder.EncodeStartElement(uri, lname, prefix); err != nil {
			return err
		}
	}

	return nil
}

func (enc *inOrderEncoderSC) encodeStartSC(uri, lname string, prefix *string) error {
	// SC Factory & Encoder
	scEXIFactory := enc.exiFactory.Clone()
	scEXIFactory.SetFragment(true)
	encoder, err := scEXIFactory.CreateEXIBodyEncoder()
	if err != nil {
		return err
	}
	enc.scEncoder = encoder.(*inOrderEncoderSC)
	enc.scEncoder.channel = enc.channel
	enc.scEncoder.SetErrorHandler(enc.errorHandler)

	// Evaluate the sequence of events (SD, SE(qname), content, ED)
	// according to the Fragment grammar
	if err := enc.scEncoder.EncodeStartDocument(); err != nil {
		return err
	}
	// NO SC again
	if err := enc.scEncoder.encodeStartElementNoSC(uri, lname, prefix); err != nil {
		return err
	}
	// from now on events are forwarded to the scEncoder
	if enc.preservePrefix {
		// encode NS inner declaration for SE
		if err := enc.scEncoder.EncodeNamespaceDeclaration(uri, prefix); err != nil {
			return err
		}
	}

	return nil
}

func (enc *inOrderEncoderSC) encodeStartElementNoSC(uri, lname string, prefix *string) error {
	return enc.inOrderEncoder.EncodeStartElement(uri, lname, prefix)
}

func (enc *inOrderEncoderSC) EncodeEndElement() error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeEndElement()
	} else {
		// fetch qname before EE
		qname := enc.scEncoder.getElementContext().qnc.GetQName()
		// EE
		if err := enc.scEncoder.EncodeEndElement(); err != nil {
			return err
		}

		if enc.getElementContext().qnc.GetQName() == qname &&
			enc.scEncoder.getCurrentGrammar().GetProduction(EventTypeEndDocument) != nil {
			return enc.encodeEndSC()
		}
	}

	return nil
}

func (enc *inOrderEncoderSC) EncodeAttribute(uri, lname string, prefix *string, val Value) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeAttribute(uri, lname, prefix, val)
	} else {
		return enc.scEncoder.EncodeAttribute(uri, lname, prefix, val)
	}
}

func (enc *inOrderEncoderSC) EncodeAttributeByQName(at QName, val Value) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeAttributeByQName(at, val)
	} else {
		return enc.scEncoder.EncodeAttributeByQName(at, val)
	}
}

func (enc *inOrderEncoderSC) EncodeNamespaceDeclaration(uri string, prefix *string) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeNamespaceDeclaration(uri, prefix)
	} else {
		return enc.scEncoder.EncodeNamespaceDeclaration(uri, prefix)
	}
}

func (enc *inOrderEncoderSC) EncodeAttributeXsiNil(nilValue Value, prefix *string) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeAttributeXsiNil(nilValue, prefix)
	} else {
		return enc.scEncoder.EncodeAttributeXsiNil(nilValue, prefix)
	}
}

func (enc *inOrderEncoderSC) EncodeAttributeXsiType(val Value, prefix *string) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeAttributeXsiType(val, prefix)
	} else {
		return enc.scEncoder.EncodeAttributeXsiType(val, prefix)
	}
}

func (enc *inOrderEncoderSC) EncodeCharacters(chars Value) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeCharacters(chars)
	} else {
		return enc.scEncoder.EncodeCharacters(chars)
	}
}

func (enc *inOrderEncoderSC) EncodeDocType(name, publicID, systemID, text string) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeDocType(name, publicID, systemID, text)
	} else {
		return enc.scEncoder.EncodeDocType(name, publicID, systemID, text)
	}
}

func (enc *inOrderEncoderSC) EncodeEntityReference(name string) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeEntityReference(name)
	} else {
		return enc.scEncoder.EncodeEntityReference(name)
	}
}

func (enc *inOrderEncoderSC) EncodeComment(runes []rune, start, length int) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeComment(runes, start, length)
	} else {
		return enc.scEncoder.EncodeComment(runes, start, length)
	}
}

func (enc *inOrderEncoderSC) EncodeProcessingInstruction(target, data string) error {
	if enc.scEncoder == nil {
		return enc.inOrderEncoder.EncodeProcessingInstruction(target, data)
	} else {
		return enc.scEncoder.EncodeProcessingInstruction(target, data)
	}
}
