package exi

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	MisuseOfPreservePrefixes string = "A prefix with value null cannot be used in Preserve.Prefixes mode. Report prefix or set your XML reader to do so. e.g., SAX xmlReader.setFeature(\"http://xml.org/sax/features/namespaces\", true); and xmlReader.setFeature(\"http://xml.org/sax/features/namespace-prefixes\", false)"
)

type bodyEncoderBase struct {
	*bodyCoderBase
	sePrefix           *string // prefix of previous start element (relevant for preserving prefixes)
	seUri              *string // URI of previous start element (relevant for preserving prefixes)
	channel            EncoderChannel
	typeEncoder        TypeEncoder
	stringEncoder      StringEncoder
	encodingOptions    EncodingOptions
	bChars             []Value // buffers character values before flushing them out
	isXMLSpacePreserve bool
	lastEvent          EventType
	cbuffer            []rune // character buffer for CH trimming, replacing, collapsing
}

func newBodyEncoderBase(factory EXIFactory) (*bodyEncoderBase, error) {
	aec, err := newBodyCoderBase(factory)
	if err != nil {
		return nil, err
	}
	typeEncoder, err := factory.CreateTypeEncoder()
	if err != nil {
		return nil, err
	}

	return &bodyEncoderBase{
		bodyCoderBase: aec,
		sePrefix:             nil,
		seUri:                nil,
		channel:              nil,
		typeEncoder:          typeEncoder,
		stringEncoder:        factory.CreateStringEncoder(),
		encodingOptions:      *factory.GetEncodingOptions(),
		bChars:               []Value{},
		isXMLSpacePreserve:   false,
		lastEvent:            -1,
		cbuffer:              []rune{},
	}, nil
}

func (enc *bodyEncoderBase) InitForEachRun() error {
	if err := enc.bodyCoderBase.InitForEachRun(); err != nil {
		return err
	}

	enc.learnedProductions = 0
	enc.stringEncoder.Clear()
	if enc.exiFactory.GetSharedStrings() != nil {
		if err := enc.stringEncoder.SetSharedStrings(*enc.exiFactory.GetSharedStrings()); err != nil {
			return err
		}
	}
	enc.bChars = []Value{}
	enc.isXMLSpacePreserve = false

	return nil
}

func (enc *bodyEncoderBase) encodeQName(namespaceURI, lname string, ch EncoderChannel) (*QNameContext, error) {
	uc, err := enc.encodeURI(namespaceURI, ch)
	if err != nil {
		return nil, err
	}

	return enc.encodeLocalName(lname, uc, ch)
}

func (enc *bodyEncoderBase) encodeURI(namespaceURI string, ch EncoderChannel) (*RuntimeUriContext, error) {
	uriBits := codingLength(enc.GetNumberOfURIs() + 1)
	uc := enc.GetURI(namespaceURI)

	if uc == nil {
		// uri string value was not found
		// ==> zero (0) as an n-nit unsigned integer
		// followed by uri encoded as string
		if err := ch.EncodeNBitUnsignedInteger(0, uriBits); err != nil {
			return nil, err
		}
		if err := ch.EncodeString(namespaceURI); err != nil {
			return nil, err
		}
		// after encoding string value is added to table
		uc = enc.addUri(namespaceURI)
	} else {
		// ==> value(i+1) is encoded as n-bit unsigned integer
		if err := ch.EncodeNBitUnsignedInteger(uc.GetNamespaceUriID()+1, uriBits); err != nil {
			return nil, err
		}
	}

	return uc, nil
}

func (enc *bodyEncoderBase) encodeQNamePrefix(qc *QNameContext, prefix *string, ch EncoderChannel) error {
	if prefix == nil {
		enc.emitWarning(MisuseOfPreservePrefixes)
	}

	namespaceUriID := qc.GetNamespaceUriID()

	if namespaceUriID == 0 {
		// XMLConstants.NULL_NS_URI
		// default namespace --> DEFAULT_NS_PREFIX
	} else {
		uc := enc.GetURIByNamespaceID(namespaceUriID)
		numberOfPrefixes := uc.GetNumberOfPrefixes()

		switch numberOfPrefixes {
		case 0:
			// If there are no prefixes specified for the
			// URI of the QName by preceding NS events in the EXI stream,
			// the prefix is undefined. An undefined prefix is represented
			// using zero bits (i.e., omitted).
			// --> requires following NS
		case 1:
			// If there is only one prefix, the prefix is implicit
		default:
			pfxID := uc.getPrefixID(*prefix)
			if pfxID == NotFound {
				// choose *one* prefix which gets modified by
				// local-element-ns anyway ?
				pfxID = 0
			}

			// overlapping URIs
			return ch.EncodeNBitUnsignedInteger(pfxID, codingLength(numberOfPrefixes))
		}
	}

	return nil
}

func (enc *bodyEncoderBase) encodeLocalName(lname string, uc *RuntimeUriContext, ch EncoderChannel) (*QNameContext, error) {
	// look for localNameID
	qc := uc.GetQNameContextByLocalName(lname)

	if qc == nil {
		// string value was not found in local partition
		// ==> string literal is encoded as a String
		// with the length of the string incremented by one
		if err := ch.EncodeUnsignedInteger(len(lname) + 1); err != nil {
			return nil, err
		}
		if err := ch.EncodeStringOnly(lname); err != nil {
			return nil, err
		}
		// After encoding the string value, it is added to the string
		// table partition and assigned the next available compact
		// identifier.
		qc = uc.AddQNameContext(lname)
	} else {
		// string value found in local partition
		// ==> string value is represented as zero (0) encoded as an
		// Unsigned Integer followed by an the compact identifier of the
		// string value as an n-bit unsigned integer n is log2 m and m is
		// the number of entries in the string table partition
		if err := ch.EncodeUnsignedInteger(0); err != nil {
			return nil, err
		}
		n := codingLength(uc.GetNumberOfQNames())
		if err := ch.EncodeNBitUnsignedInteger(qc.GetLocalNameID(), n); err != nil {
			return nil, err
		}
	}

	return qc, nil
}

func (enc *bodyEncoderBase) encodeNamespacePrefix(uc *RuntimeUriContext, prefix *string, ch EncoderChannel) error {
	nPfx := codingLength(uc.GetNumberOfPrefixes() + 1)
	pfxID := uc.getPrefixID(*prefix)

	if pfxID == NotFound {
		// ==> zero (0) as an n-bit unsigned integer
		// followed by pfx encoded as string
		if err := ch.EncodeNBitUnsignedInteger(0, nPfx); err != nil {
			return err
		}
		if err := ch.EncodeStringOnly(*prefix); err != nil {
			return err
		}
		// after encoding string value is added to table
		uc.addPrefix(*prefix)
	} else {
		// ==> value(i+1) is encoded as n-bit unsigned integer
		if err := ch.EncodeNBitUnsignedInteger(pfxID+1, nPfx); err != nil {
			return err
		}
	}

	return nil
}

func (enc *bodyEncoderBase) Flush() error {
	return enc.channel.Flush()
}

func (enc *bodyEncoderBase) writeString(text string) error {
	return enc.channel.EncodeString(text)
}

func (enc *bodyEncoderBase) isTypeValid(dt Datatype, value Value) (bool, error) {
	return enc.typeEncoder.IsValid(dt, value)
}

func (enc *bodyEncoderBase) writeValue(qc *QNameContext) error {
	panic("abstract")
}

func (enc *bodyEncoderBase) encode1stLevelEventCode(pos int) error {
	codeLength := enc.fidelityOptions.Get1stLevelEventCodeLength(enc.getCurrentGrammar())
	if codeLength > 0 {
		return enc.channel.EncodeNBitUnsignedInteger(pos, codeLength)
	}
	return nil
}

func (enc *bodyEncoderBase) encode2ndLevelEventCode(pos int) error {
	cg := enc.getCurrentGrammar()
	if err := enc.channel.EncodeNBitUnsignedInteger(cg.GetNumberOfEvents(), enc.fidelityOptions.Get1stLevelEventCodeLength(cg)); err != nil {
		return err
	}

	ch2 := enc.fidelityOptions.Get2ndLevelCharacteristics(cg)
	if pos >= ch2 {
		return NewError(ErrUnexpected, "2nd-level event code out of range")
	}

	return enc.channel.EncodeNBitUnsignedInteger(pos, codingLength(ch2))
}

func (enc *bodyEncoderBase) encode3rdLevelEventCode(pos int) error {
	cg := enc.getCurrentGrammar()
	if err := enc.channel.EncodeNBitUnsignedInteger(cg.GetNumberOfEvents(), enc.fidelityOptions.Get1stLevelEventCodeLength(cg)); err != nil {
		return err
	}

	ch2 := enc.fidelityOptions.Get2ndLevelCharacteristics(cg)
	ec2 := 0
	if ch2 > 0 {
		ec2 = ch2 - 1
	}
	if err := enc.channel.EncodeNBitUnsignedInteger(ec2, codingLength(ch2)); err != nil {
		return err
	}

	ch3 := enc.fidelityOptions.Get3rdLevelCharacteristics()
	if pos >= ch3 {
		return NewError(ErrUnexpected, "3rd-level event code out of range")
	}

	return enc.channel.EncodeNBitUnsignedInteger(pos, codingLength(ch3))
}

func (enc *bodyEncoderBase) EncodeStartDocument() error {
	if enc.channel == nil {
		return NewError(ErrInvalidConfig, "no output stream set for encoding, call SetOutputStream first")
	}
	if err := enc.InitForEachRun(); err != nil {
		return err
	}

	prod := enc.getCurrentGrammar().GetProduction(EventTypeStartDocument)

	// Note: no EventCode needs to be written since there is only
	if prod == nil {
		return NewError(ErrMismatch, "grammar has no start-document production")
	}

	enc.updateCurrentRule(prod.GetNextGrammar())
	enc.lastEvent = EventTypeStartDocument

	return nil
}

func (enc *bodyEncoderBase) EncodeEndDocument() error {
	if err := enc.checkPendingCharacters(EventTypeEndDocument); err != nil {
		return err
	}

	prod := enc.getCurrentGrammar().GetProduction(EventTypeEndDocument)

	if prod != nil {
		if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
			return err
		}
	} else {
		return NewError(ErrMismatch, "grammar has no end-document production")
	}

	enc.lastEvent = EventTypeEndDocument

	return nil
}

func (enc *bodyEncoderBase) EncodeStartElementByQName(se QName) error {
	return enc.EncodeStartElement(se.Space, se.Local, se.Prefix)
}

func (enc *bodyEncoderBase) EncodeStartElement(uri, lname string, prefix *string) error {
	if err := enc.checkPendingCharacters(EventTypeStartElement); err != nil {
		return err
	}

	enc.sePrefix = prefix
	enc.seUri = &uri

	var prod Production
	var updContextRule Grammar
	var nextSE *StartElement

	cg := enc.getCurrentGrammar()

	prod = cg.GetStartElementProduction(uri, lname)
	if prod != nil {
		if !prod.GetEvent().IsEventType(EventTypeStartElement) {
			return NewError(ErrUnexpected, "production is not a start-element event")
		}

		if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
			return err
		}
		// nextSE ...
		nextSE = prod.GetEvent().(*StartElement)
		// qname implicit by SE(qname) event, prefix only missing
		if enc.preservePrefix {
			if err := enc.encodeQNamePrefix(nextSE.GetQNameContext(), prefix, enc.channel); err != nil {
				return err
			}
		}
		updContextRule = prod.GetNextGrammar()
	} else {
		prod = cg.GetStartElementNSProduction(uri)
		if prod != nil {
			if !prod.GetEvent().IsEventType(EventTypeStartElementNS) {
				return NewError(ErrUnexpected, "production is not a start-element NS event")
			}

			if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
				return err
			}

			seNS := prod.GetEvent().(*StartElementNS)
			uc := enc.GetURIByNamespaceID(seNS.GetNamespaceUriID())

			// encode local-name (and prefix)
			qc, err := enc.encodeLocalName(lname, uc, enc.channel)
			if err != nil {
				return err
			}

			if enc.preservePrefix {
				if err := enc.encodeQNamePrefix(qc, prefix, enc.channel); err != nil {
					return err
				}
			}

			updContextRule = prod.GetNextGrammar()
			nextSE = enc.getGlobalStartElement(qc)
		} else {
			// try SE(*), generic SE on first level
			prod = cg.GetProduction(EventTypeStartElementGeneric)
			if prod != nil {
				if !prod.GetEvent().IsEventType(EventTypeStartElementGeneric) {
					return NewError(ErrUnexpected, "production is not a generic start-element event")
				}

				if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
					return err
				}

				updContextRule = prod.GetNextGrammar()
			} else {
				// Undeclared SE(*) can be found on 2nd level
				ecSEUndeclared := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeStartElementGenericUndeclared, cg)

				if ecSEUndeclared == NotFound {
					// Note: should never happen except in strict mode
					return NewError(ErrMismatch, fmt.Sprintf("start element {%s}%s not allowed here", uri, lname))
				}

				// limit grammar learning ?
				switch enc.limitGrammars() {
				case ProfileDisablingMechanismXsiType:
					if err := enc.insertXsiTypeAnyType(); err != nil {
						return err
					}
					cg = enc.getCurrentGrammar()
					prod = cg.GetProduction(EventTypeStartElementGeneric)
					if prod == nil {
						return NewError(ErrUnexpected, "no production after grammar learning")
					}
					if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
						return err
					}
					updContextRule = prod.GetNextGrammar()
				case ProfileDisablingMechanismGhostProduction:
					fallthrough
				default:
					if err := enc.encode2ndLevelEventCode(ecSEUndeclared); err != nil {
						return err
					}
					updContextRule = cg.GetElementContentGrammar()
				}
			}

			// encode entire qualified name
			qc, err := enc.encodeQName(uri, lname, enc.channel)
			if err != nil {
				return err
			}
			if enc.preservePrefix {
				if err := enc.encodeQNamePrefix(qc, prefix, enc.channel); err != nil {
					return err
				}
			}

			nextSE = enc.getGlobalStartElement(qc)

			// learning for built-in grammar (here and not as part of
			// SE_Undecl(*) because of FragmentContent!)
			cg.LearnStartElement(nextSE)
			enc.productionLearningCounting(cg)
		}
	}

	enc.pushElement(updContextRule, nextSE)
	enc.lastEvent = EventTypeStartElement

	return nil
}

func (enc *bodyEncoderBase) productionLearningCounting(g Grammar) {
	if enc.limitGrammarLearning {
		// Note: no counting for schema-informed grammars and
		// BuiltInFragmentGrammar
		if enc.maxBuiltInProductions >= 0 && !g.IsSchemaInformed() && g.GetGrammarType() != GrammarTypeBuiltInFragmentContent {
			enc.learnedProductions++
		}
	}
}

func (enc *bodyEncoderBase) limitGrammars() ProfileDisablingMechanism {
	retVal := ProfileDisablingMechanismNone
	cg := enc.getCurrentGrammar()

	if enc.limitGrammarLearning && enc.grammar.IsSchemaInformed() && !cg.IsSchemaInformed() {
		// number of built-in grammars reached
		if enc.maxBuiltInElementGrammars != -1 {
			csize := len(enc.runtimeGlobalElements)
			if csize > enc.maxBuiltInElementGrammars {
				if cg.GetNumberOfEvents() == 0 {
					// new grammar that hits bound
					retVal = ProfileDisablingMechanismXsiType
				} else if enc.isBuiltInStartTagGrammarWithAtXsiTypeOnly(cg) {
					// previous type cast
					retVal = ProfileDisablingMechanismXsiType
				}
			}
		}

		// number of productions reached?
		if enc.maxBuiltInProductions != -1 && retVal == ProfileDisablingMechanismNone && enc.learnedProductions >= enc.maxBuiltInProductions {
			// bound reached
			if enc.lastEvent == EventTypeStartElement || enc.lastEvent == EventTypeNamespaceDeclaration {
				// First mean possible: Insert xsi:type
				retVal = ProfileDisablingMechanismXsiType
			} else {
				// Only 2nd mean possible: use ghost productions
				retVal = ProfileDisablingMechanismGhostProduction
				cg.StopLearning()
			}
		}
	}

	return retVal
}

func (enc *bodyEncoderBase) insertXsiTypeAnyType() error {
	var pfx *string = nil
	if enc.preservePrefix {
		// XMLConstants.W3C_XML_SCHEMA_NS_URI ==
		// "http://www.w3.org/2001/XMLSchema"
		pfx = enc.getPrefix(XMLSchemaNS_URI)
		if pfx == nil {
			// no prefixes for XSD have been declared so far.
			pfx = ptrTo("xsdP")
			if err := enc.EncodeNamespaceDeclaration(XMLSchemaNS_URI, pfx); err != nil {
				return err
			}
		}
	}
	qnv := NewQNameValue(XMLSchemaNS_URI, "anyType", pfx)

	// needed to avoid grammar learning
	return enc.encodeAttributeXsiTypeWithForce2ndLP(qnv, pfx, true)
}

func (enc *bodyEncoderBase) EncodeNamespaceDeclaration(uri string, prefix *string) error {
	enc.declarePrefix(prefix, uri)

	if enc.preservePrefix {
		// event code
		cg := enc.getCurrentGrammar()
		ec2 := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeNamespaceDeclaration, cg)

		if enc.fidelityOptions.Get2ndLevelEventType(ec2, cg) != EventTypeNamespaceDeclaration {
			return NewError(ErrUnexpected, "2nd-level event code is not a namespace declaration")
		}
		if err := enc.encode2ndLevelEventCode(ec2); err != nil {
			return err
		}

		euc, err := enc.encodeURI(uri, enc.channel)
		if err != nil {
			return err
		}
		if err := enc.encodeNamespacePrefix(euc, prefix, enc.channel); err != nil {
			return err
		}

		// local-element-ns
		if enc.sePrefix == nil {
			// the prefix was not properly reported
			enc.emitWarning(MisuseOfPreservePrefixes)
			// try to fix that issue by checking URI
			if err := enc.channel.EncodeBoolean(enc.seUri != nil && *enc.seUri == uri); err != nil {
				return err
			}
		} else {
			if err := enc.channel.EncodeBoolean(*prefix == *enc.sePrefix); err != nil {
				return err
			}
		}

		enc.lastEvent = EventTypeNamespaceDeclaration
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeEndElement() error {
	if err := enc.checkPendingCharacters(EventTypeEndElement); err != nil {
		return err
	}

	cg := enc.getCurrentGrammar()
	prod := cg.GetProduction(EventTypeEndElement)

	if prod != nil {
		// encode EventCode (common case)
		if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
			return err
		}
	} else {
		// Undeclared EE can be found on 2nd level
		ecEEUndeclared := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeEndElementUndeclared, cg)

		if ecEEUndeclared == NotFound {
			// Should only happen in STRICT mode
			// Special case: SAX does not inform about empty ("") CH events

			if err := enc.encodeCharactersForce(EmptyStringValue); err != nil {
				return err
			}
			cg = enc.getCurrentGrammar()
			prod = cg.GetProduction(EventTypeEndElement)
			if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
				return err
			}

		} else {
			// limit grammar learning ?
			switch enc.limitGrammars() {
			case ProfileDisablingMechanismXsiType:
				if err := enc.insertXsiTypeAnyType(); err != nil {
					return err
				}
				cg = enc.getCurrentGrammar()
				prod = cg.GetProduction(EventTypeEndElement)
				if prod == nil {
					return NewError(ErrUnexpected, "no end-element production available")
				}
				if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
					return err
				}
			case ProfileDisablingMechanismGhostProduction:
				fallthrough
			default:
				if err := enc.encode2ndLevelEventCode(ecEEUndeclared); err != nil {
					return err
				}
				// learn end-element event ?
				cg.LearnEndElement()
				enc.productionLearningCounting(cg)
			}
		}
	}

	ec := enc.popElement()

	// make sure to adapt xml:space behavior
	if ec.IsXMLSpacePreserve() != nil {
		// check in the hierarchy whether there is xml:space present OR
		// "default"
		isOtherPreserve := false
		for i := enc.elementContextStackIndex; i >= 0; i-- {
			isP := enc.elementContextStack[i].IsXMLSpacePreserve()
			if isP != nil {
				isOtherPreserve = *isP
				break
			}
		}
		enc.isXMLSpacePreserve = isOtherPreserve
	}

	enc.lastEvent = EventTypeEndElement

	return nil
}

func (enc *bodyEncoderBase) EncodeAttributeList(attributes AttributeList) error {
	for i := range attributes.GetNumberOfNamespaceDeclarations() {
		ns := attributes.GetNamespaceDeclaration(i)
		if err := enc.EncodeNamespaceDeclaration(ns.NamespaceURI, ns.Prefix); err != nil {
			return err
		}
	}

	if attributes.HasXsiType() {
		if err := enc.EncodeAttributeXsiType(NewStringValueFromString(*attributes.GetXsiTypeRaw()), attributes.GetXsiTypePrefix()); err != nil {
			return err
		}
	}

	if attributes.HasXsiNil() {
		if err := enc.EncodeAttributeXsiNil(NewStringValueFromString(*attributes.GetXsiNil()), attributes.GetXsiNilPrefix()); err != nil {
			return err
		}
	}

	for i := range attributes.GetNumberOfAttributes() {
		if err := enc.EncodeAttribute(*attributes.GetAttributeURI(i), *attributes.GetAttributeLocalName(i),
			attributes.GetAttributePrefix(i), NewStringValueFromString(*attributes.GetAttributeValue(i))); err != nil {
			return err
		}
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeAttributeXsiType(kind Value, pfx *string) error {
	force2ndLevelProduction := false
	if enc.limitGrammars() == ProfileDisablingMechanismXsiType {
		force2ndLevelProduction = true
	}
	return enc.encodeAttributeXsiTypeWithForce2ndLP(kind, pfx, force2ndLevelProduction)
}

func (enc *bodyEncoderBase) encodeAttributeXsiTypeWithForce2ndLP(kind Value, pfx *string, force2ndLevelProduction bool) error {
	/*
	 * The value of each AT (xsi:type) event is represented as a QName.
	 */
	var qnamePrefix *string
	var qnameURI *string
	var qnameLocalName string

	qv, ok := kind.(*QNameValue)
	if ok {
		qnameURI = ptrTo(qv.GetNamespaceURI())
		qnamePrefix = qv.GetPrefix()
		qnameLocalName = qv.GetLocalName()
	} else {
		sType, err := kind.ToString()
		if err != nil {
			return err
		}
		qnamePrefix = ptrTo(prefixPart(sType))
		// String
		qnameURI = enc.getURI(qnamePrefix)

		/*
		 * If there is no namespace in scope for the specified qname prefix,
		 * the QName uri is set to empty ("") and the QName localName is set
		 * to the full lexical value of the QName, including the prefix.
		 */
		if qnameURI == nil {
			/* uri in scope for prefix */
			qnameURI = ptrTo(XMLNullNS_URI)
			qnameLocalName = sType
		} else {
			qnameLocalName = localPart(sType)
		}
	}

	cg := enc.getCurrentGrammar()
	ec2 := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeAttributeXsiType, cg)

	if ec2 != NotFound {
		if enc.fidelityOptions.Get2ndLevelEventType(ec2, cg) != EventTypeAttributeXsiType {
			return NewError(ErrUnexpected, "2nd-level event code is not xsi:type")
		}

		// encode event-code, AT(xsi:type)
		if err := enc.encode2ndLevelEventCode(ec2); err != nil {
			return err
		}
		if enc.preservePrefix {
			if err := enc.encodeQNamePrefix(enc.getXsiTypeContext(), pfx, enc.channel); err != nil {
				return err
			}
		}
	} else {
		// Note: cannot be encoded as any other attribute due to the
		// different channels in compression mode

		// try first (learned) xsi:type attribute
		var prod Production
		if force2ndLevelProduction {
			// only 2nd level of interest
			prod = nil
		} else {
			prod = cg.GetAttributeProduction(XMLSchemaInstanceNS_URI, XSIType)
		}

		if prod != nil {
			if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
				return err
			}
		} else {
			// try generic attribute
			if !force2ndLevelProduction {
				prod = cg.GetProduction(EventTypeAttributeGeneric)
			}

			if prod != nil {
				if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
					return err
				}
			} else {
				ec2 = enc.fidelityOptions.Get2ndLevelEventCode(EventTypeAttributeGenericUndeclared, cg)

				if ec2 != NotFound {
					if err := enc.encode2ndLevelEventCode(ec2); err != nil {
						return err
					}
					qncType := enc.getXsiTypeContext()

					if enc.limitGrammarLearning {
						// 3.2 Grammar Learning Disabling Parameters
						// - In particular, the AT(xsi:type) productions that would be inserted in grammars
						// that would be instantiated after the maximumNumberOfBuiltInElementGrammars
						// threshold are not counted.
						if len(enc.runtimeGlobalElements) > enc.maxBuiltInElementGrammars && cg.GetNumberOfEvents() == 0 {
							// can't evolve anymore
							cg.StopLearning()
						} else {
							enc.productionLearningCounting(cg)
						}
					}
					if err := cg.LearnAttribute(NewAttribute(qncType)); err != nil {
						return err
					}
				} else {
					return NewError(ErrMismatch, "xsi:type cast not encodable in this grammar")
				}
			}

			// xsi:type as qname
			qncType := enc.getXsiTypeContext()
			if _, err := enc.encodeQName(qncType.GetNamespaceUri(), qncType.GetLocalName(), enc.channel); err != nil {
				return err
			}

			if enc.preservePrefix {
				if err := enc.encodeQNamePrefix(qncType, pfx, enc.channel); err != nil {
					return err
				}
			}
		}
	}

	// write xsi:type value "content" as qname
	var qncType *QNameContext
	if enc.preserveLexicalValues {
		// Note: IF xsi:type values are encoded as String, prefixes need to
		// be preserved as well!
		if len(*qnamePrefix) > 0 && !enc.preservePrefix {
			return NewError(ErrMismatch, "xsi:type with preserved lexical values requires preserved prefixes")
		}

		if _, err := enc.typeEncoder.IsValid(BuiltInGetDefaultDatatype(), kind); err != nil {
			return err
		}
		if err := enc.typeEncoder.WriteValue(enc.getXsiTypeContext(), enc.channel, enc.stringEncoder); err != nil {
			return err
		}

		ruc := enc.GetURI(*qnameURI)
		if ruc != nil {
			qncType = ruc.GetQNameContextByLocalName(qnameLocalName)
		} else {
			qncType = nil
		}
	} else {
		qnc, err := enc.encodeQName(*qnameURI, qnameLocalName, enc.channel)
		if err != nil {
			return err
		}
		qncType = qnc

		if enc.preservePrefix {
			if err := enc.encodeQNamePrefix(qncType, qnamePrefix, enc.channel); err != nil {
				return err
			}
		}
	}

	if qncType != nil && qncType.GetTypeGrammar() != nil {
		// update grammar according to given xsi:type
		enc.updateCurrentRule(qncType.GetTypeGrammar())
	}

	enc.lastEvent = EventTypeAttributeXsiType

	return nil
}

func (enc *bodyEncoderBase) EncodeAttributeXsiNil(nilValue Value, pfx *string) error {
	cg := enc.getCurrentGrammar()
	if cg.IsSchemaInformed() {
		siCurrentRule := cg.(SchemaInformedGrammar)

		validNil := false
		validNilValue := false

		nv, ok := nilValue.(*BooleanValue)
		if ok {
			validNil = true
			validNilValue = nv.ToBoolean()
		} else {
			nilValueS, err := nilValue.ToString()
			if err != nil {
				return err
			}
			nv = BooleanValueParse(nilValueS)
			if nv != nil {
				validNil = true
				validNilValue = nv.ToBoolean()
			}
		}

		if validNil {
			// Note: in some cases we can simply skip the xsi:nil event
			if !enc.preserveLexicalValues && !validNilValue && !enc.encodingOptions.IsOptionEnabled(OptionIncludeInsignificanXsiNil) {
				return nil
			}

			// schema-valid boolean
			ec2 := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeAttributeXsiNil, siCurrentRule)
			if ec2 != NotFound {
				// encode event-code only
				if err := enc.encode2ndLevelEventCode(ec2); err != nil {
					return err
				}
				if enc.preservePrefix {
					if err := enc.encodeQNamePrefix(enc.getXsiNilContext(), pfx, enc.channel); err != nil {
						return err
					}
				}

				// encode nil value "content" as Boolean
				if enc.preserveLexicalValues {
					if _, err := enc.typeEncoder.IsValid(enc.booleanDatatype, nilValue); err != nil {
						return err
					}
					if err := enc.typeEncoder.WriteValue(enc.getXsiNilContext(), enc.channel, enc.stringEncoder); err != nil {
						return err
					}
				} else {
					if err := enc.channel.EncodeBoolean(validNilValue); err != nil {
						return err
					}
				}

				if validNilValue { // jump to typeEmpty
					gr, err := siCurrentRule.(SchemaInformedFirstStartTagGrammar).GetTypeEmpty()
					if err != nil {
						return err
					}
					enc.updateCurrentRule(gr)
				}
			} else {
				prod := cg.GetProduction(EventTypeAttributeGeneric)
				if prod != nil {
					if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
						return err
					}
					// qname & prefix
					euc, err := enc.encodeURI(XMLSchemaInstanceNS_URI, enc.channel)
					if err != nil {
						return err
					}
					if _, err := enc.encodeLocalName(XSINil, euc, enc.channel); err != nil {
						return err
					}
					if enc.preservePrefix {
						if err := enc.encodeQNamePrefix(enc.getXsiNilContext(), pfx, enc.channel); err != nil {
							return err
						}
					}

					// encode nil value "content" as Boolean
					if enc.preserveLexicalValues {
						if _, err := enc.typeEncoder.IsValid(enc.booleanDatatype, nilValue); err != nil {
							return err
						}
						if err := enc.typeEncoder.WriteValue(enc.getXsiNilContext(), enc.channel, enc.stringEncoder); err != nil {
							return err
						}
					} else {
						if err := enc.channel.EncodeBoolean(validNilValue); err != nil {
							return err
						}
					}

					if validNilValue { // jump to typeEmpty
						gr, err := siCurrentRule.(SchemaInformedFirstStartTagGrammar).GetTypeEmpty()
						if err != nil {
							return err
						}
						enc.updateCurrentRule(gr)
					}
				} else {
					return NewError(ErrMismatch, "xsi:nil attribute not allowed by the current grammar")
				}
			}
		} else {
			// If the value is not a schema-valid Boolean, the
			// AT (xsi:nil) event is represented by
			// the AT (*) [untyped value] terminal
			sig := cg.(SchemaInformedGrammar)
			if err := enc.encodeSchemaInvalidAttributeEventCode(sig.GetNumberOfDeclaredAttributes()); err != nil {
				return err
			}
			euc, err := enc.encodeURI(XMLSchemaInstanceNS_URI, enc.channel)
			if err != nil {
				return err
			}
			if _, err := enc.encodeLocalName(XSINil, euc, enc.channel); err != nil {
				return err
			}
			if enc.preservePrefix {
				if err := enc.encodeQNamePrefix(enc.getXsiNilContext(), pfx, enc.channel); err != nil {
					return err
				}
			}

			dt := BuiltInGetDefaultDatatype()
			if _, err := enc.isTypeValid(dt, nilValue); err != nil {
				return err
			}
			if err := enc.writeValue(enc.getXsiNilContext()); err != nil {
				return err
			}
		}
	} else {
		// encode as any other attribute
		if err := enc.EncodeAttribute(XMLSchemaInstanceNS_URI, XSINil, pfx, nilValue); err != nil {
			return err
		}
	}

	enc.lastEvent = EventTypeAttributeXsiNil

	return nil
}

func (enc *bodyEncoderBase) encodeSchemaInvalidAttributeEventCode(eventCode3 int) error {
	cg := enc.getCurrentGrammar()
	// schema-invalid AT
	ec2ATDeviated := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeAttributeInvalidValue, cg)
	if err := enc.encode2ndLevelEventCode(ec2ATDeviated); err != nil {
		return err
	}
	// AT specialty: calculate 3rd level attribute event-code
	// int eventCode3 = ei.getEventCode() - currentRule.getLeastAttributeEventCode();
	sig := cg.(SchemaInformedGrammar)
	if err := enc.channel.EncodeNBitUnsignedInteger(eventCode3, codingLength(sig.GetNumberOfDeclaredAttributes()+1)); err != nil {
		return err
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeAttributeByQName(at QName, value Value) error {
	return enc.EncodeAttribute(at.Space, at.Local, at.Prefix, value)
}

func (enc *bodyEncoderBase) EncodeAttribute(uri, lname string, prefix *string, value Value) error {
	var prod Production
	var qc *QNameContext
	var next Grammar

	cg := enc.getCurrentGrammar()
	prod = cg.GetAttributeProduction(uri, lname)
	if prod != nil {
		// declared AT(uri:lname)
		at := prod.GetEvent().(*Attribute)
		qc = at.GetQNameContext()

		valid, err := enc.isTypeValid(at.GetDataType(), value)
		if err != nil {
			return err
		}
		if valid {
			if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
				return err
			}
		} else {
			sig := cg.(SchemaInformedGrammar)
			eventCode3 := prod.GetEventCode() - sig.GetLeastAttributeEventCode()
			if err := enc.encodeSchemaInvalidAttributeEventCode(eventCode3); err != nil {
				return err
			}
			if _, err := enc.isTypeValid(BuiltInGetDefaultDatatype(), value); err != nil {
				return err
			}
			next = prod.GetNextGrammar()
		}
	} else {
		switch enc.limitGrammars() {
		case ProfileDisablingMechanismXsiType:
			if err := enc.insertXsiTypeAnyType(); err != nil {
				return err
			}
			cg = enc.getCurrentGrammar()
		case ProfileDisablingMechanismGhostProduction:
			fallthrough
		default:
		}

		prod = cg.GetAttributeNSProduction(uri)
		if prod == nil {
			prod = cg.GetProduction(EventTypeAttributeGeneric)
			if prod == nil {
				// Undeclared AT(*) can be found on 2nd level
			}
		}

		globalAT, err := enc.getGlobalAttribute(uri, lname)
		if err != nil {
			return err
		}
		if cg.IsSchemaInformed() && globalAT != nil {
			/*
			 * In a schema-informed grammar, all productions of the form
			 * LeftHandSide : AT (*) are evaluated as follows:
			 *
			 * Let qname be the qname of the attribute matched by AT (*) If
			 * a global attribute definition exists for qname, let
			 * global-type be the datatype of the global attribute.
			 */
			valid, err := enc.isTypeValid(globalAT.GetDataType(), value)
			if err != nil {
				return err
			}
			if valid {
				/*
				 * If the attribute value can be represented using the
				 * datatype representation associated with global-type, it
				 * SHOULD be represented using the datatype representation
				 * associated with global-type (see 7. Representing Event
				 * Content).
				 */
				if prod == nil {
					if err := enc.encodeAttributeEventCodeUndeclared(cg, lname); err != nil {
						return err
					}
				} else {
					if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
						return err
					}
				}
			} else {
				/*
				 * If the attribute value is not represented using the
				 * datatype representation associated with global-type,
				 * represent the attribute event using the AT (*) [untyped
				 * value] terminal (see 8.5.4.4 Undeclared Productions).
				 */
				/*
				 * AT (*) [untyped value] Element i, j n.(m+1).(x) x
				 * represents the number of attributes declared in the
				 * schema for this context
				 */
				sig := cg.(SchemaInformedGrammar)
				if err := enc.encodeSchemaInvalidAttributeEventCode(sig.GetNumberOfDeclaredAttributes()); err != nil {
					return err
				}
				if _, err := enc.isTypeValid(BuiltInGetDefaultDatatype(), value); err != nil {
					return err
				}
			}

			if prod == nil || prod.GetEvent().IsEventType(EventTypeAttributeGeneric) {
				// (un)declared AT(*)
				qc, err = enc.encodeQName(uri, lname, enc.channel)
				if err != nil {
					return err
				}
				if prod == nil {
					next = cg
				} else {
					next = prod.GetNextGrammar()
				}
			} else {
				// declared AT(uri:*)
				atNS := prod.GetEvent().(*AttributeNS)
				// localname only
				uc := enc.GetURIByNamespaceID(atNS.GetNamespaceUriID())
				qc, err = enc.encodeLocalName(lname, uc, enc.channel)
				if err != nil {
					return err
				}
				next = prod.GetNextGrammar()
			}
		} else {
			// no schema-informed grammar --> default datatype in any case
			// NO global attribute --> default datatype
			if _, err := enc.isTypeValid(BuiltInGetDefaultDatatype(), value); err != nil {
				return err
			}

			var err error

			if prod == nil {
				// Undeclared AT(*), 2nd level
				qc, err = enc.encodeUndeclaredAT(cg, uri, lname)
				if err != nil {
					return err
				}
				next = cg
			} else {
				// Declared AT(uri:*) or AT(*) on 1st level
				qc, err = enc.encodeDeclaredAT(prod, uri, lname)
				if err != nil {
					return err
				}
				next = prod.GetNextGrammar()
			}
		}
	}

	if qc == nil {
		return NewError(ErrUnexpected, "attribute has no qname context")
	}

	if enc.preservePrefix {
		if err := enc.encodeQNamePrefix(qc, prefix, enc.channel); err != nil {
			return err
		}
	}

	// so far: event-code has been written & datatype is settled
	// the actual value is still missing
	if err := enc.writeValue(qc); err != nil {
		return err
	}

	if next == nil {
		return NewError(ErrUnexpected, "attribute production has no next grammar")
	}
	enc.updateCurrentRule(next)

	if value.GetValueType() == ValueTypeString && XML_NS_URI == uri {
		ec := enc.getElementContext()
		valueS, err := value.ToString()
		if err != nil {
			return err
		}
		if valueS == "preserve" {
			enc.isXMLSpacePreserve = true
			ec.SetXMLSpacePreserve(ptrTo(true))
		} else if valueS == "default" {
			enc.isXMLSpacePreserve = false
			ec.SetXMLSpacePreserve(ptrTo(false))
		}
	}

	enc.lastEvent = EventTypeAttribute

	return nil
}

func (enc *bodyEncoderBase) encodeAttributeEventCodeUndeclared(cg Grammar, lname string) error {
	ecATUndeclared := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeAttributeGenericUndeclared, cg)

	if ecATUndeclared == NotFound {
		if !enc.fidelityOptions.isStrict {
			return NewError(ErrUnexpected, "undeclared xsi attribute outside strict mode")
		}
		return NewError(ErrMismatch, fmt.Sprintf("attribute %q not allowed by the current grammar", lname))
	}

	if err := enc.encode2ndLevelEventCode(ecATUndeclared); err != nil {
		return err
	}

	return nil
}

func (enc *bodyEncoderBase) encodeDeclaredAT(prod Production, uri, lname string) (*QNameContext, error) {
	if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
		return nil, err
	}

	var qc *QNameContext
	var err error
	if prod.GetEvent().IsEventType(EventTypeAttributeNS) {
		// declared AT(uri:*)
		atNS := prod.GetEvent().(*AttributeNS)
		// localname only
		uc := enc.GetURIByNamespaceID(atNS.GetNamespaceUriID())
		qc, err = enc.encodeLocalName(lname, uc, enc.channel)
		if err != nil {
			return nil, err
		}
	} else {
		// declared AT(*)
		qc, err = enc.encodeQName(uri, lname, enc.channel)
		if err != nil {
			return nil, err
		}
	}

	return qc, nil
}

func (enc *bodyEncoderBase) encodeUndeclaredAT(cg Grammar, uri, lname string) (*QNameContext, error) {
	if err := enc.encodeAttributeEventCodeUndeclared(cg, lname); err != nil {
		return nil, err
	}

	qc, err := enc.encodeQName(uri, lname, enc.channel)
	if err != nil {
		return nil, err
	}

	if err := cg.LearnAttribute(NewAttribute(qc)); err != nil {
		return nil, err
	}
	enc.productionLearningCounting(cg)

	return qc, nil
}

func (enc *bodyEncoderBase) getGlobalAttribute(uri, lname string) (*Attribute, error) {
	uc := enc.GetURI(uri)
	if uc != nil {
		return enc.getGlobalAttributeWithRuntimeUriContext(uc, lname)
	}

	return nil, nil
}

func (enc *bodyEncoderBase) getGlobalAttributeWithRuntimeUriContext(uc *RuntimeUriContext, lname string) (*Attribute, error) {
	if uc == nil {
		return nil, NewError(ErrUnexpected, "namespace URI missing from runtime table")
	}
	qc := uc.GetQNameContextByLocalName(lname)
	if qc != nil {
		return qc.GetGlobalAttribute(), nil
	}

	return nil, nil
}

// returns false if no CH datatype is available or schema-less
func (enc *bodyEncoderBase) getDatatypeWhiteSpace() (WhiteSpace, bool) {
	cg := enc.getCurrentGrammar()
	if cg.IsSchemaInformed() && cg.GetNumberOfEvents() > 0 {
		prod := cg.GetProduction(0)
		if prod.GetEvent().GetEventType() == EventTypeCharacters {
			ch := prod.GetEvent().(*Characters)
			return ch.GetDataType().GetWhiteSpace(), true
		}
	}

	return -1, false
}

func (enc *bodyEncoderBase) replace(runes []rune, len int) {
	// All occurrences of #x9 (tab), #xA (line feed) and #xD (carriage
	// return) are replaced with #x20 (space)
	for i := range len {
		if runes[i] == '\t' || runes[i] == '\n' || runes[i] == '\r' {
			runes[i] = ' '
		}
	}
}

func (enc *bodyEncoderBase) shiftLeft(runes []rune, pos, len int) {
	copy(runes[pos:], runes[pos+1:pos+len])
}

func (enc *bodyEncoderBase) collapse(runes []rune, len int) int {
	// After the processing implied by replace, contiguous sequences of
	// #x20's are collapsed to a single #x20, and leading and trailing
	// #x20's are removed.
	enc.replace(runes, len)

	trimmed := len

	// contiguous sequences of #x20's are collapsed to a single #x20
	if trimmed > 1 {
		i := 0
		for i < (trimmed - 1) {
			thisRune := runes[i]
			nextRune := runes[i+1]

			if thisRune == ' ' && nextRune == ' ' {
				// eliminate one space
				enc.shiftLeft(runes, i, trimmed-1)
				trimmed--
			} else {
				i++
			}
		}
	}

	// leading and trailing #x20's are removed
	trimmed = enc.trimSpaces(runes, trimmed)
	return trimmed
}

func (enc *bodyEncoderBase) trimSpaces(runes []rune, len int) int {
	// leading and trailing #x20's are removed
	newLen := len

	for newLen > 0 && runes[0] == ' ' {
		// eliminate one leading space
		enc.shiftLeft(runes, 0, newLen)
		newLen--
	}

	i := newLen - 1
	for i >= 0 && runes[i] == ' ' {
		// eliminate one trailing space
		newLen--
		i--
	}

	return newLen
}

func (enc *bodyEncoderBase) isSolelyWS(runes []rune, len int) bool {
	for _, r := range runes[:len] {
		if !unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

func (enc *bodyEncoderBase) trimWS(runes []rune, len int) int {
	// leading and trailing whitespaces are removed
	trimmed := len

	for trimmed > 0 && unicode.IsSpace(runes[0]) {
		// eliminate one leading space
		enc.shiftLeft(runes, 0, trimmed)
		trimmed--
	}

	i := trimmed - 1
	for i >= 0 && unicode.IsSpace(runes[i]) {
		// eliminate one trailing space
		trimmed--
		i--
	}

	return trimmed
}

func (enc *bodyEncoderBase) modeValuesToCBuffer() (int, error) {
	length := 0
	for i := range len(enc.bChars) {
		clen, err := enc.bChars[i].GetCharactersLength()
		if err != nil {
			return -1, err
		}
		length += clen
	}
	if len(enc.cbuffer) < length {
		enc.cbuffer = make([]rune, length)
	}
	pos := 0
	for i := range len(enc.bChars) {
		v := enc.bChars[i]
		if err := v.FillCharactersBuffer(enc.cbuffer, pos); err != nil {
			return -1, err
		}
		clen, err := v.GetCharactersLength()
		if err != nil {
			return -1, err
		}
		pos += clen
	}
	if length != pos {
		return -1, NewError(ErrUnexpected, "character buffer length mismatch")
	}

	return length, nil
}

func (enc *bodyEncoderBase) checkPendingCharacters(nextEvent EventType) error {
	numberOfValues := len(enc.bChars)
	if numberOfValues > 0 {
		if numberOfValues == 1 && enc.bChars[0].GetValueType() != ValueTypeString {
			// typed data uses its own whitespace rules
			return enc.encodeCharactersForce(enc.bChars[0])
		} else {
			// else: string or multiple typed values
			ws, ok := enc.getDatatypeWhiteSpace()
			// Don't we want to prune insignificant whitespace characters
			wsEQ := ok && ws == WhiteSpacePreserve
			if !(enc.preserveLexicalValues || enc.isXMLSpacePreserve || wsEQ) {
				cbufLen, err := enc.modeValuesToCBuffer()
				if err != nil {
					return err
				}
				if ok && ws == WhiteSpaceReplace {
					// All occurrences of #x9 (tab), #xA (line feed) and #xD
					// (carriage return) are replaced with #x20 (space)
					enc.replace(enc.cbuffer, cbufLen)
				} else if ok && ws == WhiteSpaceCollapse {
					// After the processing implied by replace, contiguous
					// sequences of #x20's are collapsed to a single #x20,
					// and leading and trailing #x20's are removed.
					enc.replace(enc.cbuffer, cbufLen)
					cbufLen = enc.collapse(enc.cbuffer, cbufLen)
				} else {
					// schema-less, no datatype
					// https://lists.w3.org/Archives/Public/public-exi/2015Oct/0008.html
					// If it is schema-less:
					// - Simple data (data between s+e) are all preserved.
					// - For complex data (data between s+s, e+s, e+e), it
					// is same as schema-informed case.
					if (enc.lastEvent == EventTypeStartElement || enc.lastEvent == EventTypeAttribute || enc.lastEvent == EventTypeAttributeXsiNil ||
						enc.lastEvent == EventTypeAttributeXsiType || enc.lastEvent == EventTypeNamespaceDeclaration) &&
						(nextEvent == EventTypeEndElement || nextEvent == EventTypeComment || nextEvent == EventTypeProcessingInstruction ||
							nextEvent == EventTypeDocType) {
						// simple data --> preserve
					} else {
						// For complex data (data between s+s, e+s, e+e),
						// whitespaces nodes (i.e.
						// strings that consist solely of whitespaces) are
						// removed
						if enc.isSolelyWS(enc.cbuffer, cbufLen) {
							cbufLen = 0
						}
					}
				}

				if cbufLen == 0 {
					// --> omit empty string
				} else {
					sv := NewStringValueFromString(string(enc.cbuffer[:cbufLen]))
					if err := enc.encodeCharactersForce(sv); err != nil {
						return err
					}
				}
			} else {
				// preserve data as is
				if numberOfValues == 1 {
					if err := enc.encodeCharactersForce(enc.bChars[0]); err != nil {
						return err
					}
				} else {
					// collapse all events to a single one (not very
					// efficient in most of the cases)
					length, err := enc.modeValuesToCBuffer()
					if err != nil {
						return err
					}
					sv := NewStringValueFromString(string(enc.cbuffer[:length]))
					if err := enc.encodeCharactersForce(sv); err != nil {
						return err
					}
				}
			}
		}
		enc.bChars = []Value{}
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeCharacters(chars Value) error {
	enc.bChars = append(enc.bChars, chars)
	return nil
}

func (enc *bodyEncoderBase) encodeCharactersForce(chars Value) error {
	cg := enc.getCurrentGrammar()
	prod := cg.GetProduction(EventTypeCharacters)

	// valid value and valid event-code ?
	var valid bool
	var err error
	if prod != nil {
		valid, err = enc.isTypeValid((prod.GetEvent().(DatatypeEvent)).GetDatatype(), chars)
	}
	if err != nil {
		return err
	}
	if prod != nil && valid {
		// right characters event found & data type-valid
		// --> encode EventCode, schema-valid content plus grammar moves
		// on
		if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
			return err
		}
		if err := enc.writeValue(enc.getElementContext().qnc); err != nil {
			return err
		}
		enc.updateCurrentRule(prod.GetNextGrammar())
	} else {
		// generic CH (on first level)
		prod = cg.GetProduction(EventTypeCharactersGeneric)

		if prod != nil {
			// encode EventCode
			if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
				return err
			}
			// encode schema-invalid content as string
			if _, err := enc.isTypeValid(BuiltInGetDefaultDatatype(), chars); err != nil {
				return err
			}
			if err := enc.writeValue(enc.getElementContext().qnc); err != nil {
				return err
			}
			enc.updateCurrentRule(prod.GetNextGrammar())
		} else {
			// Undeclared CH can be found on 2nd level
			ecCHUndeclared := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeCharactersGenericUndeclared, cg)

			if ecCHUndeclared == NotFound {
				if enc.exiFactory.IsFragment() {
					// characters in "outer" fragment element
					enc.emitWarning("skip ch")
				} else if !enc.isXMLSpacePreserve && enc.fidelityOptions.IsStrict() {
					charsS, err := chars.ToString()
					if err != nil {
						return err
					}
					if len(strings.TrimSpace(charsS)) == 0 {
						enc.emitWarning("skip ch: " + charsS)
					}
				} else {
					return NewError(ErrMismatch, "character content not allowed by the current grammar")
				}
			} else {
				var updContextRule Grammar

				switch enc.limitGrammars() {
				case ProfileDisablingMechanismXsiType:
					if err := enc.insertXsiTypeAnyType(); err != nil {
						return err
					}
					cg = enc.getCurrentGrammar()
					prod = cg.GetProduction(EventTypeCharactersGeneric)
					if prod == nil {
						return NewError(ErrUnexpected, "no production after grammar learning")
					}
					if err := enc.encode1stLevelEventCode(prod.GetEventCode()); err != nil {
						return err
					}
					updContextRule = prod.GetNextGrammar()
				case ProfileDisablingMechanismGhostProduction:
					fallthrough
				default:
					if err := enc.encode2ndLevelEventCode(ecCHUndeclared); err != nil {
						return err
					}
					// learn characters event ?
					cg.LearnCharacters()
					enc.productionLearningCounting(cg)
					updContextRule = cg.GetElementContentGrammar()
				}

				// content as string
				if _, err := enc.isTypeValid(BuiltInGetDefaultDatatype(), chars); err != nil {
					return err
				}
				if err := enc.writeValue(enc.getElementContext().qnc); err != nil {
					return err
				}
				enc.updateCurrentRule(updContextRule)
			}
		}
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeDocType(name, publicID, systemID, text string) error {
	if enc.fidelityOptions.IsFidelityEnabled(FeatureDTD) {
		if err := enc.checkPendingCharacters(EventTypeDocType); err != nil {
			return err
		}

		// DOCTYPE can be found on 2nd level
		ec2 := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeDocType, enc.getCurrentGrammar())
		if err := enc.encode2ndLevelEventCode(ec2); err != nil {
			return err
		}

		// name, public, system, text AS string
		if err := enc.writeString(name); err != nil {
			return err
		}
		if err := enc.writeString(publicID); err != nil {
			return err
		}
		if err := enc.writeString(systemID); err != nil {
			return err
		}
		if err := enc.writeString(text); err != nil {
			return err
		}
	}

	return nil
}

func (enc *bodyEncoderBase) doLimitGrammarLearningForErCmPi() error {
	switch enc.limitGrammars() {
	case ProfileDisablingMechanismXsiType:
		if err := enc.insertXsiTypeAnyType(); err != nil {
			return err
		}
	default:
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeEntityReference(name string) error {
	if enc.fidelityOptions.IsFidelityEnabled(FeatureDTD) {
		if err := enc.checkPendingCharacters(EventTypeEntityReference); err != nil {
			return err
		}

		// grammar learning restricting (if necessary)
		if err := enc.doLimitGrammarLearningForErCmPi(); err != nil {
			return err
		}

		// EntityReference can be found on 2nd level
		cg := enc.getCurrentGrammar()
		ec2 := enc.fidelityOptions.Get2ndLevelEventCode(EventTypeEntityReference, cg)
		if err := enc.encode2ndLevelEventCode(ec2); err != nil {
			return err
		}

		// name as string
		if err := enc.writeString(name); err != nil {
			return err
		}

		enc.updateCurrentRule(cg.GetElementContentGrammar())
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeComment(ch []rune, start, length int) error {
	if enc.fidelityOptions.IsFidelityEnabled(FeatureComment) {
		if err := enc.checkPendingCharacters(EventTypeComment); err != nil {
			return err
		}

		// grammar learning restricting (if necessary)
		if err := enc.doLimitGrammarLearningForErCmPi(); err != nil {
			return err
		}

		// comments can be found on 3rd level
		cg := enc.getCurrentGrammar()
		ec3 := enc.fidelityOptions.Get3rdLevelEventCode(EventTypeComment)
		if err := enc.encode3rdLevelEventCode(ec3); err != nil {
			return err
		}

		// encode CM content
		if err := enc.writeString(string(ch[start : start+length])); err != nil {
			return err
		}

		enc.updateCurrentRule(cg.GetElementContentGrammar())
	}

	return nil
}

func (enc *bodyEncoderBase) EncodeProcessingInstruction(target, data string) error {
	if enc.fidelityOptions.IsFidelityEnabled(FeaturePI) {
		if err := enc.checkPendingCharacters(EventTypeProcessingInstruction); err != nil {
			return err
		}

		// grammar learning restricting (if necessary)
		if err := enc.doLimitGrammarLearningForErCmPi(); err != nil {
			return err
		}

		// processing instructions can be found on 3rd level
		cg := enc.getCurrentGrammar()
		ec3 := enc.fidelityOptions.Get3rdLevelEventCode(EventTypeProcessingInstruction)
		if err := enc.encode3rdLevelEventCode(ec3); err != nil {
			return err
		}

		// encode PI content
		if err := enc.writeString(target); err != nil {
			return err
		}
		if err := enc.writeString(data); err != nil {
			return err
		}

		enc.updateCurrentRule(cg.GetElementContentGrammar())
	}

	return nil
}

