package exi

import "fmt"

type EXIHeaderDecoder struct {
	*AbstractEXIHeader
	lastSE                *QNameContext
	dtrSection            bool
	dtrMapTypes           []QName
	dtrMapRepresentations []QName
}

func NewEXIHeaderDecoder() *EXIHeaderDecoder {
	return &EXIHeaderDecoder{
		AbstractEXIHeader: &AbstractEXIHeader{
			headerFactory: nil,
		},
		dtrSection:            false,
		dtrMapTypes:           []QName{},
		dtrMapRepresentations: []QName{},
	}
}

func (hd *EXIHeaderDecoder) clear() {
	hd.lastSE = nil
	hd.dtrSection = false
	hd.dtrMapTypes = []QName{}
	hd.dtrMapRepresentations = []QName{}
}

func (hd *EXIHeaderDecoder) Parse(hdrCh *exiDecoderChannel, noOptionsFactory EXIFactory) (EXIFactory, error) {
	ch, err := hdrCh.LookAhead()
	if err != nil {
		return nil, err
	}
	if rune(ch) == '$' {
		h0, err := hdrCh.Decode()
		if err != nil {
			return nil, err
		}
		h1, err := hdrCh.Decode()
		if err != nil {
			return nil, err
		}
		h2, err := hdrCh.Decode()
		if err != nil {
			return nil, err
		}
		h3, err := hdrCh.Decode()
		if err != nil {
			return nil, err
		}
		if rune(h0) != '$' || rune(h1) != 'E' || rune(h2) != 'X' || rune(h3) != 'I' {
			return nil, NewError(ErrHeaderSig, "no valid EXI Cookie ($EXI)")
		}
	}

	// An EXI header starts with Distinguishing Bits part, which is a
	// two bit field 1 0
	dbits, err := hdrCh.DecodeNBitUnsignedInteger(EXIHeader_NumberOfDistinguishingBits)
	if err != nil {
		return nil, err
	}
	if dbits != EXIHeader_DistinguishingBitsValue {
		return nil, NewError(ErrHeaderBits, "no valid EXI document according to distinguishing bits")
	}

	// Presence Bit for EXI Options
	presenceOptions, err := hdrCh.DecodeBoolean()
	if err != nil {
		return nil, err
	}

	// EXI Format Version (1 4+)

	// The first bit of the version field indicates whether the version
	// is a preview or final version of the EXI format.
	// A val of 0 indicates this is a final version and a val of 1
	// indicates this is a preview version.
	previewVersion, err := hdrCh.DecodeBoolean()
	if err != nil {
		return nil, err
	}
	if previewVersion {
		return nil, NewError(ErrHeaderVer, "preview versions of EXI are not accepted")
	}

	// one or more 4-bit unsigned integers represent the version number
	// 1. Read next 4 bits as an unsigned integer val.
	// 2. Add the val that was just read to the version number.
	// 3. If the val is 15, go to step 1, otherwise (i.e. the val
	// being in the range of 0-14), use the current val of the version
	// number as the EXI version number.
	val := -1
	version := 0

	for {
		val, err = hdrCh.DecodeNBitUnsignedInteger(EXIHeader_NumberOfFormatVersionBits)
		if err != nil {
			return nil, err
		}
		version += val

		if !(val == EXIHeader_FormatVersionContinueValue) {
			break
		}
	}

	if version != 0 {
		return nil, NewError(ErrHeaderVer, fmt.Sprintf("unsupported EXI version: %d", version+1))
	}

	// [EXI Options] ?
	var factory EXIFactory
	if presenceOptions {
		// use default options and re-set if needed
		factory, err = hd.ReadEXIOptions(hdrCh, noOptionsFactory)
		if err != nil {
			return nil, err
		}
	} else {
		factory = noOptionsFactory
	}

	// other than bit-packed has [Padding Bits]
	mode := factory.GetCodingMode()
	if mode != CodingModeBitPacked {
		if err := hdrCh.Align(); err != nil {
			return nil, err
		}
	}

	return factory, nil
}

func (hd *EXIHeaderDecoder) ReadEXIOptions(hdrCh *exiDecoderChannel, noOptionsFactory EXIFactory) (EXIFactory, error) {
	factory, err := hd.GetHeaderFactory()
	if err != nil {
		return nil, err
	}
	ebd, err := factory.CreateEXIBodyDecoder()
	if err != nil {
		return nil, err
	}
	decoder := ebd.(*inOrderDecoder)

	// schemaId = null;
	// schemaIdSet = false;

	// // clone factory
	// EXIFactory optsFactory = noOptionsFactory.clone();
	optsFactory := NewDefaultEXIFactory()
	// re-use important settings
	optsFactory.SetSchemaIDResolver(noOptionsFactory.GetSchemaIDResolver())
	optsFactory.SetDecodingOptions(noOptionsFactory.GetDecodingOptions())
	// re-use schema knowledge
	optsFactory.SetGrammars(noOptionsFactory.GetGrammars())

	// // STRICT is special, there is no NON STRICT flag --> per default set
	// to
	// // non strict
	// if (optsFactory.getFidelityOptions().isStrict()) {
	// optsFactory.getFidelityOptions().setFidelity(
	// FidelityOptions.FEATURE_STRICT, false);
	// }

	hd.clear()

	eventType, exists, err := decoder.Next()
	if err != nil {
		return nil, err
	}
	for exists {
		switch eventType {
		case EventTypeStartDocument:
			if err := decoder.DecodeStartDocument(); err != nil {
				return nil, err
			}
		case EventTypeEndDocument:
			if err := decoder.DecodeEndDocument(); err != nil {
				return nil, err
			}
		case EventTypeAttributeXsiNil:
			if _, err := decoder.DecodeAttributeXsiNil(); err != nil {
				return nil, err
			}
			if err := hd.handleXsiNil(decoder.GetAttributeValue(), optsFactory); err != nil {
				return nil, err
			}
		case EventTypeAttributeXsiType:
			if _, err := decoder.DecodeAttributeXsiType(); err != nil {
				return nil, err
			}
		case EventTypeAttribute, EventTypeAttributeNS, EventTypeAttributeGeneric,
			EventTypeAttributeGenericUndeclared, EventTypeAttributeInvalidValue, EventTypeAttributeAnyInvalidValue:
			if _, err := decoder.DecodeAttribute(); err != nil {
				return nil, err
			}
		case EventTypeNamespaceDeclaration:
			if _, err := decoder.DecodeNamespaceDeclaration(); err != nil {
				return nil, err
			}
		case EventTypeStartElement, EventTypeStartElementNS, EventTypeStartElementGeneric, EventTypeStartElementGenericUndeclared:
			se, err := decoder.DecodeStartElement()
			if err != nil {
				return nil, err
			}
			if err := hd.handleStartElement(se, optsFactory); err != nil {
				return nil, err
			}
		case EventTypeEndElement, EventTypeEndElementUndeclared:
			ee, err := decoder.DecodeEndElement()
			if err != nil {
				return nil, err
			}
			if err := hd.handleEndElement(ee, optsFactory); err != nil {
				return nil, err
			}
		case EventTypeCharacters, EventTypeCharactersGeneric, EventTypeCharactersGenericUndeclared:
			ch, err := decoder.DecodeCharacters()
			if err != nil {
				return nil, err
			}
			if err := hd.handleCharacters(ch, optsFactory); err != nil {
				return nil, err
			}
		default:
			return nil, NewError(ErrHeader, fmt.Sprintf("unexpected EXI event in header: %d", eventType))
		}

		eventType, exists, err = decoder.Next()
		if err != nil {
			return nil, err
		}
	}

	if len(hd.dtrMapTypes) == len(hd.dtrMapRepresentations) && len(hd.dtrMapTypes) > 0 {
		dtrMapTypesA := make([]QName, len(hd.dtrMapTypes))
		copy(dtrMapTypesA, hd.dtrMapTypes)
		dtrMapRepresentationsA := make([]QName, len(hd.dtrMapRepresentations))
		copy(dtrMapRepresentationsA, hd.dtrMapRepresentations)
		optsFactory.SetDatatypeRepresentationMap(&dtrMapTypesA, &dtrMapRepresentationsA)
	}

	return optsFactory, nil
}

func (hd *EXIHeaderDecoder) handleStartElement(se *QNameContext, factory EXIFactory) error {
	if hd.dtrSection {
		if len(hd.dtrMapTypes) == len(hd.dtrMapRepresentations) {
			hd.dtrMapTypes = append(hd.dtrMapTypes, se.qName)
		} else {
			hd.dtrMapRepresentations = append(hd.dtrMapRepresentations, se.qName)
		}
	} else if se.GetNamespaceUri() == W3C_EXI_NS_URI {
		lname := se.GetLocalName()

		switch lname {
		case EXIHeader_Byte:
			factory.SetCodingMode(CodingModeBytePacked)
		case EXIHeader_PreCompress:
			factory.SetCodingMode(CodingModePreCompression)
		case EXIHeader_SelfContained:
			if err := factory.GetFidelityOptions().SetFidelity(FeatureSC, true); err != nil {
				return err
			}
		case EXIHeader_DatatypeRepresentationMap:
			hd.dtrSection = true
		case EXIHeader_Dtd:
			if err := factory.GetFidelityOptions().SetFidelity(FeatureDTD, true); err != nil {
				return err
			}
		case EXIHeader_Prefixes:
			if err := factory.GetFidelityOptions().SetFidelity(FeaturePrefix, true); err != nil {
				return err
			}
		case EXIHeader_LexicalValues:
			if err := factory.GetFidelityOptions().SetFidelity(FeatureLexicalValue, true); err != nil {
				return err
			}
		case EXIHeader_Comments:
			if err := factory.GetFidelityOptions().SetFidelity(FeatureComment, true); err != nil {
				return err
			}
		case EXIHeader_Pis:
			if err := factory.GetFidelityOptions().SetFidelity(FeaturePI, true); err != nil {
				return err
			}
		case EXIHeader_Compression:
			factory.SetCodingMode(CodingModeCompression)
		case EXIHeader_Fragment:
			factory.SetFragment(true)
		case EXIHeader_Strict:
			if err := factory.GetFidelityOptions().SetFidelity(FeatureStrict, true); err != nil {
				return err
			}
		case EXIHeader_Profile:
			// profile parameters are not used yet
		}
	}

	hd.lastSE = se
	return nil
}

func (hd *EXIHeaderDecoder) handleEndElement(ee *QNameContext, _ EXIFactory) error {
	if ee.GetNamespaceUri() == W3C_EXI_NS_URI {
		lname := ee.GetLocalName()

		if lname == EXIHeader_DatatypeRepresentationMap {
			hd.dtrSection = false
		}
	}

	return nil
}

func (hd *EXIHeaderDecoder) handleCharacters(value Value, factory EXIFactory) error {
	lname := hd.lastSE.GetLocalName()

	switch lname {
	case EXIHeader_ValueMaxLength:
		val, ok := value.(*IntegerValue)
		if ok {
			factory.SetValueMaxLength(val.Value32())
		} else {
			return NewError(ErrHeaderOutOfBand, fmt.Sprintf("failure while processing header element: %s", lname))
		}
	case EXIHeader_ValuePartitionCapacity:
		val, ok := value.(*IntegerValue)
		if ok {
			if val.GetIntegerValueType() == IntegerValue32 {
				factory.SetValuePartitionCapacity(val.Value32())
			} else {
				return NewError(ErrInvalidConfig, "valuePartitionCapacity other than int not supported")
			}
		} else {
			return NewError(ErrHeaderOutOfBand, fmt.Sprintf("failure while processing header element: %s", lname))
		}
	case EXIHeader_BlockSize:
		val, ok := value.(*IntegerValue)
		if ok {
			if val.GetIntegerValueType() == IntegerValue32 {
				factory.SetBlockSize(val.Value32())
			} else {
				return NewError(ErrInvalidConfig, "blockSize other than int not supported")
			}
		} else {
			return NewError(ErrHeaderOutOfBand, fmt.Sprintf("failure while processing header element: %s", lname))
		}
	case EXIHeader_SchemaID:
		if factory.GetDecodingOptions().IsOptionEnabled(OptionIgnoreSchemaID) {
			// ignoring
		} else {
			schemaID, err := value.ToString()
			if err != nil {
				return err
			}

			sir := factory.GetSchemaIDResolver()
			if sir != nil {
				grammars, err := sir.ResolveSchemaID(schemaID)
				if err != nil {
					return err
				}
				factory.SetGrammars(grammars)
			} else {
				return NewError(ErrInvalidConfig, fmt.Sprintf("exi header provides schema ID %q but no SchemaIDResolver set", schemaID))
			}
		}
	case EXIHeader_Profile:
		if value.GetValueType() == ValueTypeDecimal {
			val := value.(*DecimalValue)
			factory.SetLocalValuePartitions(val.IsNegative())
			if val.GetIntegral().GetIntegerValueType() != IntegerValue32 {
				return NewError(ErrInvalidConfig, "profile decimal's integral part is not int")
			}
			factory.SetMaximumNumberOfBuiltInElementGrammars(val.GetIntegral().Value32() - 1)
			if val.GetRevFractional().GetIntegerValueType() != IntegerValue32 {
				return NewError(ErrInvalidConfig, "profile decimal's reverse fractional part is not int")
			}
			factory.SetMaximumNumberOfBuiltInProductions(val.GetRevFractional().Value32() - 1)
		}
	}

	return nil
}

func (hd *EXIHeaderDecoder) handleXsiNil(value Value, factory EXIFactory) error {
	lname := hd.lastSE.GetLocalName()

	if lname == EXIHeader_SchemaID {
		val, ok := value.(*BooleanValue)
		if ok {
			if val.ToBoolean() {
				// schema-less, default
				factory.SetGrammars(NewSchemaLessGrammars())
			}
		} else {
			return NewError(ErrHeaderOutOfBand, fmt.Sprintf("failure while processing header element: %s", lname))
		}
	}

	return nil
}
