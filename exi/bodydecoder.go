package exi

import (
	"fmt"
)

type bodyDecoderBase struct {
	*bodyCoderBase
	nextEvent             Event // next event
	nextGrammar           Grammar
	nextEventType         EventType
	channel               DecoderChannel // decoder stream
	numberOfUriContexts   int            // namespaces/prefixes
	typeDecoder           TypeDecoder    // type decoder
	stringDecoder         StringDecoder  // string decoder
	attributeQNameContext *QNameContext
	attributePrefix       *string
	attributeValue        Value
}

func newBodyDecoderBase(factory EXIFactory) (*bodyDecoderBase, error) {
	bc, err := newBodyCoderBase(factory)
	if err != nil {
		return nil, err
	}
	decoder, err := factory.CreateTypeDecoder()
	if err != nil {
		return nil, err
	}

	return &bodyDecoderBase{
		bodyCoderBase:  bc,
		nextEvent:             nil,
		nextGrammar:           nil,
		nextEventType:         -1,
		channel:               nil,
		numberOfUriContexts:   bc.grammar.GetGrammarContext().GetNumberOfGrammarUriContexts(),
		typeDecoder:           decoder,
		stringDecoder:         factory.CreateStringDecoder(),
		attributeQNameContext: nil,
		attributePrefix:       nil,
		attributeValue:        nil,
	}, nil
}

func (dec *bodyDecoderBase) pushElement(updContextGrammar Grammar, se *StartElement) {
	dec.bodyCoderBase.pushElement(updContextGrammar, se)

	if !dec.preservePrefix && dec.elementContextStackIndex == 1 {
		// Note: can be done several times due to multiple root elements in fragments.
		gc := dec.grammar.GetGrammarContext()
		for i := 2; i < gc.GetNumberOfGrammarUriContexts(); i++ {
			guc := gc.GetGrammarUriContextByID(i)
			prefix := guc.GetDefaultPrefix()
			dec.declarePrefix(&prefix, guc.GetNamespaceUri())
		}
	}
}

func (dec *bodyDecoderBase) InitForEachRun() error {
	if err := dec.bodyCoderBase.InitForEachRun(); err != nil {
		return err
	}

	dec.stringDecoder.Clear()
	if dec.exiFactory.GetSharedStrings() != nil {
		dec.stringDecoder.SetSharedStrings(*dec.exiFactory.GetSharedStrings())
	}

	return nil
}

func (dec *bodyDecoderBase) decodeQName(ch DecoderChannel) (*QNameContext, error) {
	// decode uri & local-name
	uc, err := dec.decodeURI(ch)
	if err != nil {
		return nil, err
	}
	return dec.decodeLocalName(uc, ch)
}

func (dec *bodyDecoderBase) decodeURI(ch DecoderChannel) (*RuntimeUriContext, error) {
	uriBits := codingLength(dec.GetNumberOfURIs() + 1)
	uriID, err := ch.DecodeNBitUnsignedInteger(uriBits)
	if err != nil {
		return nil, err
	}

	var uc *RuntimeUriContext
	if uriID == 0 {
		// ==> zero (0) as an n-nit unsigned integer
		// followed by uri encoded as string
		uriRunes, err := ch.DecodeString()
		if err != nil {
			return nil, err
		}
		uc = dec.addUri(string(uriRunes))
	} else {
		// ==> value(i+1) is encoded as n-bit unsigned integer
		uriID--
		uc = dec.GetURIByNamespaceID(uriID)
	}

	return uc, nil
}

func (dec *bodyDecoderBase) decodeLocalName(uc *RuntimeUriContext, ch DecoderChannel) (*QNameContext, error) {
	length, err := ch.DecodeUnsignedInteger()
	if err != nil {
		return nil, err
	}

	var qcx *QNameContext
	if length > 0 {
		// string value was not found in local partition
		// ==> string literal is encoded as a String
		// with the length of the string incremented by one
		runes, err := ch.DecodeStringOnly(length - 1)
		if err != nil {
			return nil, err
		}
		// After encoding the string value, it is added to the string table
		// partition and assigned the next available compact identifier.
		qcx = uc.AddQNameContext(string(runes))
	} else {
		// string value found in local partition
		// ==> string value is represented as zero (0) encoded as an
		// Unsigned Integer followed by an the compact identifier of the
		// string value as an n-bit unsigned integer n is log2 m and m is
		// the number of entries in the string table partition.
		n := codingLength(uc.GetNumberOfQNames())
		localNameID, err := ch.DecodeNBitUnsignedInteger(n)
		if err != nil {
			return nil, err
		}
		qcx = uc.GetQNameContextByLocalNameID(localNameID)
	}

	return qcx, nil
}

func (dec *bodyDecoderBase) decodeQNamePrefix(uc *RuntimeUriContext, ch DecoderChannel) (*string, error) {
	var prefix *string = nil

	if uc.namespaceUriID == 0 {
		prefix = ptrTo(XMLNullNS_URI)
	} else {
		numberOfPrefixes := uc.GetNumberOfPrefixes()
		if numberOfPrefixes > 0 {
			id := 0
			if numberOfPrefixes > 1 {
				tmp, err := ch.DecodeNBitUnsignedInteger(codingLength(numberOfPrefixes))
				if err != nil {
					return nil, err
				}
				id = tmp
			}

			prefix = uc.GetPrefix(id)
		} else {
			// no previous NS mapping in charge
			// Note: should only happen for SE events where NS appears afterwards.
		}
	}

	return prefix, nil
}

func (dec *bodyDecoderBase) decodeNamespacePrefix(uc *RuntimeUriContext, ch DecoderChannel) (*string, error) {
	var prefix *string

	nPfx := codingLength(uc.GetNumberOfPrefixes() + 1)
	pfxID, err := ch.DecodeNBitUnsignedInteger(nPfx)
	if err != nil {
		return nil, err
	}

	if pfxID == 0 {
		// ==> zero (0) as an n-nit unsigned integer
		// followed by pfx encoded as string
		runes, err := ch.DecodeString()
		if err != nil {
			return nil, err
		}
		prefix = ptrTo(string(runes))

		uc.addPrefix(string(runes))
	} else {
		// ==> value(i+1) is encoded as n-bit unsigned integer
		prefix = uc.GetPrefix(pfxID - 1)
	}

	return prefix, nil
}

func (dec *bodyDecoderBase) decodeEventCode() (EventType, error) {
	cg := dec.getCurrentGrammar()
	codeLength := dec.fidelityOptions.Get1stLevelEventCodeLength(cg)
	ec, err := dec.channel.DecodeNBitUnsignedInteger(codeLength)
	if err != nil {
		return -1, err
	}

	if ec < 0 {
		return -1, NewError(ErrInvalidEXIInput, fmt.Sprintf("invalid 1st-level event code: %d", ec))
	}

	if ec < cg.GetNumberOfEvents() {
		prod := cg.GetProductionByEventCode(ec)
		dec.nextEvent = prod.GetEvent()
		dec.nextGrammar = prod.GetNextGrammar()
		dec.nextEventType = dec.nextEvent.GetEventType()
	} else {
		// 2nd level ?
		ec2, err := dec.decode2ndLevelEventCode()
		if err != nil {
			return -1, err
		}

		if ec2 == NotFound {
			ec3, err := dec.decode3rdLevelEventCode()
			if err != nil {
				return -1, err
			}
			dec.nextEventType = dec.fidelityOptions.Get3rdLevelEventType(ec3)

			dec.nextEvent = nil
			dec.nextGrammar = nil
		} else {
			dec.nextEventType = dec.fidelityOptions.Get2ndLevelEventType(ec2, cg)

			if dec.nextEventType == EventTypeAttributeInvalidValue {
				if err := dec.updateInvalidValueAttribute(ec); err != nil {
					return -1, err
				}
			} else {
				dec.nextEvent = nil
				dec.nextGrammar = nil
			}
		}
	}

	return dec.nextEventType, nil
}

func (dec *bodyDecoderBase) GetAttributePrefix() *string {
	return dec.attributePrefix
}

func (dec *bodyDecoderBase) GetAttributeQNameAsString() string {
	if dec.preservePrefix {
		return qualifiedName(dec.attributeQNameContext.GetLocalName(), dec.attributePrefix)
	} else {
		return dec.attributeQNameContext.GetDefaultQNameAsString()
	}
}

func (dec *bodyDecoderBase) GetAttributeValue() Value {
	return dec.attributeValue
}

func (dec *bodyDecoderBase) updateInvalidValueAttribute(ec int) error {
	sir := dec.getCurrentGrammar().(SchemaInformedGrammar)

	ec3AT, err := dec.channel.DecodeNBitUnsignedInteger(codingLength(sir.GetNumberOfDeclaredAttributes() + 1))
	if err != nil {
		return err
	}

	if ec3AT < sir.GetNumberOfDeclaredAttributes() {
		// deviated attribute
		ec = ec3AT + sir.GetLeastAttributeEventCode()
		prod := sir.GetProductionByEventCode(ec)

		dec.nextEvent = prod.GetEvent()
		dec.nextGrammar = prod.GetNextGrammar()
	} else if ec3AT == sir.GetNumberOfDeclaredAttributes() {
		// ANY deviated attribute (no qname present)
		dec.nextEventType = EventTypeAttributeAnyInvalidValue
	} else {
		return NewError(ErrInvalidEXIInput, "malformed deviated attribute")
	}

	return nil
}

func (dec *bodyDecoderBase) decode2ndLevelEventCode() (int, error) {
	cg := dec.getCurrentGrammar()
	ch2 := dec.fidelityOptions.Get2ndLevelCharacteristics(cg)

	level2, err := dec.channel.DecodeNBitUnsignedInteger(codingLength(ch2))
	if err != nil {
		return -1, err
	}

	ch3 := dec.fidelityOptions.Get3rdLevelCharacteristics()

	if ch3 > 0 {
		if level2 < ch2-1 {
			return level2, nil
		} else {
			return NotFound, nil
		}
	} else {
		if level2 < ch2 {
			return level2, nil
		} else {
			return NotFound, nil
		}
	}
}

func (dec *bodyDecoderBase) decode3rdLevelEventCode() (int, error) {
	ch3 := dec.fidelityOptions.Get3rdLevelCharacteristics()
	return dec.channel.DecodeNBitUnsignedInteger(codingLength(ch3))
}

func (dec *bodyDecoderBase) decodeStartDocumentStructure() error {
	dec.updateCurrentRule(dec.getCurrentGrammar().GetProductionByEventCode(0).GetNextGrammar())
	return nil
}

func (dec *bodyDecoderBase) decodeEndDocumentStructure() error {
	if dec.limitGrammarLearning {
		if dec.maxBuiltInElementGrammars != -1 {
			evolvedGrs := 0

			for _, se := range dec.runtimeGlobalElements {
				stg := se.GetGrammar()
				if stg.GetGrammarType() != GrammarTypeBuiltInStartTagContent {
					return NewError(ErrUnexpected, fmt.Sprintf("invalid start element grammar type: %d", stg.GetGrammarType()))
				}
				ecg := stg.GetElementContentGrammar()
				if ecg.GetGrammarType() != GrammarTypeBuiltInElementContent {
					return NewError(ErrUnexpected, fmt.Sprintf("invalid built-in element content grammar type: %d", ecg.GetGrammarType()))
				}

				if ecg.GetNumberOfEvents() != 1 {
					// BuiltIn Element Content grammar has EE per default
					evolvedGrs++
				} else {
					if stg.GetNumberOfEvents() > 1 {
						evolvedGrs++
					} else if stg.GetNumberOfEvents() == 1 {
						// check for AT(xsi:type)
						if !dec.isBuiltInStartTagGrammarWithAtXsiTypeOnly(stg) {
							evolvedGrs++
						}
					}
				}
			}

			if evolvedGrs > dec.maxBuiltInElementGrammars {
				return NewError(ErrInvalidEXIInput, fmt.Sprintf("stream exceeds maxBuiltInElementGrammars: limit %d, got %d", dec.maxBuiltInElementGrammars, evolvedGrs))
			}
		}
	}

	return nil
}

func (dec *bodyDecoderBase) decodeStartElementStructure() (*QNameContext, error) {
	if dec.nextEventType != EventTypeStartElement {
		return nil, NewError(ErrUnexpected, fmt.Sprintf("decoder state is not start element: %d", dec.nextEventType))
	}
	se := dec.nextEvent.(*StartElement)
	dec.pushElement(dec.nextGrammar, se)
	qcx := se.GetQNameContext()
	if err := dec.handleElementPrefix(qcx); err != nil {
		return nil, err
	}

	return qcx, nil
}

func (dec *bodyDecoderBase) decodeStartElementNSStructure() (*QNameContext, error) {
	if dec.nextEventType != EventTypeStartElementNS {
		return nil, NewError(ErrUnexpected, fmt.Sprintf("decoder state is not start element NS: %d", dec.nextEventType))
	}

	seNS := dec.nextEvent.(*StartElementNS)

	// decode local-name
	uc := dec.GetURIByNamespaceID(seNS.GetNamespaceUriID())
	qcx, err := dec.decodeLocalName(uc, dec.channel)
	if err != nil {
		return nil, err
	}

	nextSE := dec.getGlobalStartElement(qcx)

	dec.pushElement(dec.nextGrammar, nextSE)
	if err := dec.handleElementPrefix(qcx); err != nil {
		return nil, err
	}

	return qcx, nil
}

func (dec *bodyDecoderBase) decodeStartElementGenericStructure() (*QNameContext, error) {
	if dec.nextEventType != EventTypeStartElementGeneric {
		return nil, NewError(ErrUnexpected, fmt.Sprintf("decoder state is not start element generic: %d", dec.nextEventType))
	}

	qcx, err := dec.decodeQName(dec.channel)
	if err != nil {
		return nil, err
	}

	nextSE := dec.getGlobalStartElement(qcx)

	// learn start-element, necessary for FragmentContent grammar
	dec.getCurrentGrammar().LearnStartElement(nextSE)
	dec.pushElement(dec.nextGrammar.GetElementContentGrammar(), nextSE)

	if err := dec.handleElementPrefix(qcx); err != nil {
		return nil, err
	}

	return qcx, nil
}

func (dec *bodyDecoderBase) decodeStartElementGenericUndeclaredStructure() (*QNameContext, error) {
	if dec.nextEventType != EventTypeStartElementGenericUndeclared {
		return nil, NewError(ErrUnexpected, fmt.Sprintf("decoder state is not start element generic undeclared: %d", dec.nextEventType))
	}

	qcx, err := dec.decodeQName(dec.channel)
	if err != nil {
		return nil, err
	}

	nextSE := dec.getGlobalStartElement(qcx)

	// learn start-element ?
	cg := dec.getCurrentGrammar()
	cg.LearnStartElement(nextSE)

	dec.pushElement(dec.nextGrammar.GetElementContentGrammar(), nextSE)

	if err := dec.handleElementPrefix(qcx); err != nil {
		return nil, err
	}

	return qcx, nil
}

func (dec *bodyDecoderBase) decodeEndElementStructure() (*ElementContext, error) {
	return dec.popElement(), nil
}

func (dec *bodyDecoderBase) decodeEndElementUndeclaredStructure() (*ElementContext, error) {
	dec.getCurrentGrammar().LearnEndElement()
	return dec.popElement(), nil
}

// Handles and xsi:nil attributes
func (dec *bodyDecoderBase) decodeAttributeXsiNilStructure() error {
	dec.attributeQNameContext = dec.getXsiNilContext()
	if err := dec.handleAttributePrefix(dec.attributeQNameContext); err != nil {
		return err
	}

	if dec.preserveLexicalValues {
		value, err := dec.typeDecoder.ReadValue(dec.booleanDatatype, dec.getXsiNilContext(), dec.channel, dec.stringDecoder)
		if err != nil {
			return err
		}
		dec.attributeValue = value
	} else {
		// as boolean
		value, err := dec.channel.DecodeBooleanValue()
		if err != nil {
			return err
		}
		dec.attributeValue = value
	}

	xsiNil := false

	bv, ok := dec.attributeValue.(*BooleanValue)
	if ok {
		xsiNil = bv.ToBoolean()
	} else {
		// lexical-value mode delivers the raw string form
		bv, ok = dec.attributeValue.(*BooleanValue)
		if ok {
			xsiNil = bv.ToBoolean()
		} else {
			s, err := dec.attributeValue.ToString()
			if err != nil {
				return err
			}
			bv = BooleanValueParse(s)
			if bv != nil {
				xsiNil = bv.ToBoolean()
			}
		}
	}

	cg := dec.getCurrentGrammar()
	if xsiNil && cg.IsSchemaInformed() {
		// jump to typeEmpty
		te, err := cg.(SchemaInformedFirstStartTagGrammar).GetTypeEmpty()
		if err != nil {
			return err
		}
		dec.updateCurrentRule(te)
	}

	return nil
}

// Handles and xsi:type attributes
func (dec *bodyDecoderBase) decodeAttributeXsiTypeStructure() error {
	dec.attributeQNameContext = dec.getXsiTypeContext()
	if err := dec.handleAttributePrefix(dec.attributeQNameContext); err != nil {
		return err
	}

	var qcx *QNameContext = nil

	// read xsi:type content
	if dec.preserveLexicalValues {
		// assert(preservePrefix); // Note: requirement
		tmp, err := dec.typeDecoder.ReadValue(BuiltInGetDefaultDatatype(), dec.getXsiTypeContext(), dec.channel, dec.stringDecoder)
		if err != nil {
			return err
		}
		dec.attributeValue = tmp

		sType, err := dec.attributeValue.ToString()
		if err != nil {
			return err
		}

		qncTypePrefix := prefixPart(sType)

		// URI
		qnameURI := dec.getURI(&qncTypePrefix)
		uc := dec.GetURI(*qnameURI)
		if uc != nil {
			qnameLocalName := localPart(sType)
			qcx = uc.GetQNameContextByLocalName(qnameLocalName)
		}
	} else {
		tmp, err := dec.decodeQName(dec.channel)
		if err != nil {
			return err
		}
		qcx = tmp

		var qncTypePrefix *string
		if dec.preservePrefix {
			tmp, err := dec.decodeQNamePrefix(dec.GetURIByNamespaceID(qcx.GetNamespaceUriID()), dec.channel)
			if err != nil {
				return err
			}
			qncTypePrefix = tmp
		} else {
			dec.checkDefaultPrefixNamespaceDeclaration(qcx)
			qncTypePrefix = ptrTo(qcx.GetDefaultPrefix())
		}
		dec.attributeValue = NewQNameValue(qcx.GetNamespaceUri(), qcx.GetLocalName(), qncTypePrefix)
	}

	if qcx != nil && qcx.GetTypeGrammar() != nil {
		dec.updateCurrentRule(qcx.GetTypeGrammar())
	}

	return nil
}

func (dec *bodyDecoderBase) handleElementPrefix(qcx *QNameContext) error {
	var pfx *string

	if dec.preservePrefix {
		tmp, err := dec.decodeQNamePrefix(dec.GetURIByNamespaceID(qcx.GetNamespaceUriID()), dec.channel)
		if err != nil {
			return err
		}
		pfx = tmp
		// Note: IF elementPrefix is still null it will be determined by a
		// subsequently following NS event
	} else {
		// element prefix
		dec.checkDefaultPrefixNamespaceDeclaration(qcx)
		pfx = ptrTo(qcx.GetDefaultPrefix())
	}

	dec.getElementContext().SetPrefix(pfx)

	return nil
}

func (dec *bodyDecoderBase) handleAttributePrefix(qcx *QNameContext) error {
	if dec.preservePrefix {
		tmp, err := dec.decodeQNamePrefix(dec.GetURIByNamespaceID(qcx.GetNamespaceUriID()), dec.channel)
		if err != nil {
			return err
		}
		dec.attributePrefix = tmp
	} else {
		dec.checkDefaultPrefixNamespaceDeclaration(qcx)
		dec.attributePrefix = ptrTo(qcx.GetDefaultPrefix())
	}
	return nil
}

func (dec *bodyDecoderBase) checkDefaultPrefixNamespaceDeclaration(qcx *QNameContext) {
	if dec.preservePrefix {
		panic("preserve prefix is not permitted")
	}

	if qcx.GetNamespaceUriID() < dec.numberOfUriContexts {
		// schema-known grammar uris/prefixes have been declared in root element
	} else {
		uri := qcx.GetNamespaceUri()
		pfx := dec.getPrefix(uri)

		if pfx == nil {
			pfx = ptrTo(qcx.GetDefaultPrefix())
			dec.declarePrefix(pfx, uri)
		}
	}
}

func (dec *bodyDecoderBase) decodeAttributeStructure() (Datatype, error) {
	at := dec.nextEvent.(*Attribute)

	// qname
	dec.attributeQNameContext = at.GetQNameContext()
	if err := dec.handleAttributePrefix(dec.attributeQNameContext); err != nil {
		return nil, err
	}

	dec.updateCurrentRule(dec.nextGrammar)

	return at.datatype, nil
}

func (dec *bodyDecoderBase) decodeAttributeNSStructure() error {
	atNS := dec.nextEvent.(*AttributeNS)
	uc := dec.GetURIByNamespaceID(atNS.GetNamespaceUriID())

	tmp, err := dec.decodeLocalName(uc, dec.channel)
	if err != nil {
		return err
	}
	dec.attributeQNameContext = tmp

	if err := dec.handleAttributePrefix(dec.attributeQNameContext); err != nil {
		return err
	}

	dec.updateCurrentRule(dec.nextGrammar)

	return nil
}

func (dec *bodyDecoderBase) decodeAttributeAnyInvalidValueStructure() error {
	return dec.decodeAttributeGenericStructureOnly()
}

func (dec *bodyDecoderBase) decodeAttributeGenericStructure() error {
	// decode structure
	if err := dec.decodeAttributeGenericStructureOnly(); err != nil {
		return err
	}

	dec.updateCurrentRule(dec.nextGrammar)

	return nil
}

func (dec *bodyDecoderBase) decodeAttributeGenericUndeclaredStructure() error {
	if err := dec.decodeAttributeGenericStructureOnly(); err != nil {
		return err
	}
	if err := dec.getCurrentGrammar().LearnAttribute(NewAttribute(dec.attributeQNameContext)); err != nil {
		return err
	}
	return nil
}

func (dec *bodyDecoderBase) decodeAttributeGenericStructureOnly() error {
	// decode uri & local-name
	tmp, err := dec.decodeQName(dec.channel)
	if err != nil {
		return err
	}
	dec.attributeQNameContext = tmp

	if err := dec.handleAttributePrefix(dec.attributeQNameContext); err != nil {
		return err
	}

	return nil
}

func (dec *bodyDecoderBase) decodeCharactersStructure() (Datatype, error) {
	if dec.nextEventType != EventTypeCharacters {
		return nil, NewError(ErrUnexpected, fmt.Sprintf("decoder state is not characters: %d", dec.nextEventType))
	}

	dec.updateCurrentRule(dec.nextGrammar)
	return dec.nextEvent.(*Characters).GetDataType(), nil
}

func (dec *bodyDecoderBase) decodeCharactersGenericStructure() error {
	if dec.nextEventType != EventTypeCharactersGeneric {
		return NewError(ErrUnexpected, fmt.Sprintf("decoder state is not characters generic: %d", dec.nextEventType))
	}

	dec.updateCurrentRule(dec.nextGrammar)
	return nil
}

func (dec *bodyDecoderBase) decodeCharactersGenericUndeclaredStructure() error {
	if dec.nextEventType != EventTypeCharactersGenericUndeclared {
		return NewError(ErrUnexpected, fmt.Sprintf("decoder state is not characters generic undeclared: %d", dec.nextEventType))
	}

	// learn character event ?
	cg := dec.getCurrentGrammar()
	cg.LearnCharacters()

	dec.updateCurrentRule(cg.GetElementContentGrammar())
	return nil
}

func (dec *bodyDecoderBase) decodeNamespaceDeclarationStructure() (*NamespaceDeclarationContainer, error) {
	uc, err := dec.decodeURI(dec.channel)
	if err != nil {
		return nil, err
	}
	nsPrefix, err := dec.decodeNamespacePrefix(uc, dec.channel)
	if err != nil {
		return nil, err
	}

	localElementNS, err := dec.channel.DecodeBoolean()
	if err != nil {
		return nil, err
	}
	if localElementNS {
		dec.getElementContext().SetPrefix(nsPrefix)
	}

	// NS
	nsDecl := NewNamespaceDeclarationContainer(uc.GetNamespaceUri(), nsPrefix)
	dec.declarePrefixWithNamespaceDeclaraion(nsDecl)

	return &nsDecl, nil
}

func (dec *bodyDecoderBase) decodeEntityReferenceStructure() ([]rune, error) {
	// decode name AS string
	runes, err := dec.channel.DecodeString()
	if err != nil {
		return []rune{}, err
	}

	dec.updateCurrentRule(dec.getCurrentGrammar().GetElementContentGrammar())

	return runes, nil
}

func (dec *bodyDecoderBase) decodeCommentStructure() ([]rune, error) {
	runes, err := dec.channel.DecodeString()
	if err != nil {
		return []rune{}, err
	}

	dec.updateCurrentRule(dec.getCurrentGrammar().GetElementContentGrammar())

	return runes, nil
}

func (dec *bodyDecoderBase) decodeProcessingInstructionStructure() (ProcessingInstructionContainer, error) {
	// target & data
	runes, err := dec.channel.DecodeString()
	if err != nil {
		return ProcessingInstructionContainer{}, err
	}
	target := string(runes)

	runes, err = dec.channel.DecodeString()
	if err != nil {
		return ProcessingInstructionContainer{}, err
	}
	data := string(runes)

	dec.updateCurrentRule(dec.getCurrentGrammar().GetElementContentGrammar())

	return ProcessingInstructionContainer{
		Target: target,
		Data:   data,
	}, nil
}

func (dec *bodyDecoderBase) decodeDocTypeStructure() (*DocTypeContainer, error) {
	name, err := dec.channel.DecodeString()
	if err != nil {
		return nil, err
	}
	publicID, err := dec.channel.DecodeString()
	if err != nil {
		return nil, err
	}
	systemID, err := dec.channel.DecodeString()
	if err != nil {
		return nil, err
	}
	text, err := dec.channel.DecodeString()
	if err != nil {
		return nil, err
	}

	return &DocTypeContainer{
		Name:     name,
		PublicID: publicID,
		SystemID: systemID,
		Text:     text,
	}, nil
}

func (dec *bodyDecoderBase) DecodeStartSelfContainedFragment() error {
	return fmt.Errorf("exi self contained")
}

