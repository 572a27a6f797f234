package exi

type EXIHeaderEncoder struct {
	*AbstractEXIHeader
}

func NewEXIHeaderEncoder() *EXIHeaderEncoder {
	return &EXIHeaderEncoder{
		AbstractEXIHeader: &AbstractEXIHeader{
			headerFactory: nil,
		},
	}
}

func (he *EXIHeaderEncoder) Write(hdrCh *exiEncoderChannel, factory EXIFactory) error {
	headerOptions := factory.GetEncodingOptions()
	mode := factory.GetCodingMode()

	if headerOptions.IsOptionEnabled(OptionIncludeCookie) {
		// four byte field consists of four characters " $ " , " E ",
		// " X " and " I " in that order.
		if err := hdrCh.Encode('$'); err != nil {
			return err
		}
		if err := hdrCh.Encode('E'); err != nil {
			return err
		}
		if err := hdrCh.Encode('X'); err != nil {
			return err
		}
		if err := hdrCh.Encode('I'); err != nil {
			return err
		}
	}

	// Distinguishing Bits 10
	if err := hdrCh.EncodeNBitUnsignedInteger(2, 2); err != nil {
		return err
	}

	// Presence Bit for EXI Options 0
	includeOptions := headerOptions.IsOptionEnabled(OptionIncludeOptions)
	if err := hdrCh.EncodeBoolean(includeOptions); err != nil {
		return err
	}

	// EXI Format Version 0-0000
	if err := hdrCh.EncodeBoolean(false); err != nil { // preview
		return err
	}
	if err := hdrCh.EncodeNBitUnsignedInteger(0, 4); err != nil {
		return err
	}

	// EXI Header options and so forth
	if includeOptions {
		if err := he.WriteEXIOptions(factory, hdrCh); err != nil {
			return err
		}
	}

	// other than bit-packed requires [Padding Bits]
	if mode != CodingModeBitPacked {
		if err := hdrCh.Align(); err != nil {
			return err
		}
		if err := hdrCh.Flush(); err != nil {
			return err
		}
	}

	return nil
}

func (he *EXIHeaderEncoder) WriteEXIOptions(f EXIFactory, encoderChannel EncoderChannel) error {
	factory, err := he.GetHeaderFactory()
	if err != nil {
		return err
	}
	enc, err := factory.CreateEXIBodyEncoder()
	if err != nil {
		return err
	}

	bodyEnc := enc.(*inOrderEncoder)
	if err := bodyEnc.SetOutputChannel(encoderChannel); err != nil {
		return err
	}

	if err := bodyEnc.EncodeStartDocument(); err != nil {
		return err
	}
	if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Header, nil); err != nil {
		return err
	}

	if he.isLessCommon(f) {
		if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_LessCommon, nil); err != nil {
			return err
		}

		if he.isUncommon(f) {
			if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Uncommon, nil); err != nil {
				return err
			}

			if he.isUserDefinedMetaData(f) {
				if f.GetEncodingOptions().IsOptionEnabled(OptionIncludeProfileValues) {
					// EXI profile options
					if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Profile, nil); err != nil {
						return err
					}

					// The three profile parameters travel inside one
					// xsd:decimal: localValuePartitions as the sign,
					// maximumNumberOfBuiltInElementGrammars (+1, 0 meaning
					// unbounded) as the integral part, and
					// maximumNumberOfBuiltInProductions (+1, 0 meaning
					// unbounded) as the reversed fractional part.
					negative := f.IsLocalValuePartitions()
					integral := IntegerValueOf32(f.GetMaximumNumberOfBuiltInElementGrammars() + 1)
					revFractional := IntegerValueOf32(f.GetMaximumNumberOfBuiltInProductions() + 1)

					qnv := NewQNameValue(XMLSchemaNS_URI, "decimal", nil)
					if err := bodyEnc.EncodeAttributeXsiType(qnv, nil); err != nil {
						return err
					}

					dv := NewDecimalValue(negative, integral, revFractional)
					if err := bodyEnc.encodeCharactersForce(dv); err != nil {
						return err
					}

					if err := bodyEnc.EncodeEndElement(); err != nil {
						return err
					}
				}
			}

			if he.isAlignment(f) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Alignment, nil); err != nil {
					return err
				}

				if he.isByte(f) {
					if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Byte, nil); err != nil {
						return err
					}
					if err := bodyEnc.EncodeEndElement(); err != nil {
						return err
					}
				}

				if he.isPreCompress(f) {
					if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_PreCompress, nil); err != nil {
						return err
					}
					if err := bodyEnc.EncodeEndElement(); err != nil {
						return err
					}
				}
			}

			if he.isSelfContained(f) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_SelfContained, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}

			if he.isValueMaxLength(f) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_ValueMaxLength, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeCharacters(IntegerValueOf32(f.GetValueMaxLength())); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}

			if he.isValuePartitionCapacity(f) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_ValuePartitionCapacity, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeCharacters(IntegerValueOf32(f.GetValuePartitionCapacity())); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}

			if he.isDatatypeRepresentationMap(f) {
				types := f.GetDatatypeRepresentationMapTypes()
				representations := f.GetDatatypeRepresentationMapRepresentations()

				if len(*types) != len(*representations) {
					return NewError(ErrMismatch, "datatype representation map types size != representations size")
				}

				// sequence "schema datatype" + datatype representation
				for i := range len(*types) {
					if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_DatatypeRepresentationMap, nil); err != nil {
						return err
					}

					kind := (*types)[i]
					if err := bodyEnc.EncodeStartElement(kind.Space, kind.Local, nil); err != nil {
						return err
					}
					if err := bodyEnc.EncodeEndElement(); err != nil {
						return err
					}

					representation := (*representations)[i]
					if err := bodyEnc.EncodeStartElement(representation.Space, representation.Local, nil); err != nil {
						return err
					}
					if err := bodyEnc.EncodeEndElement(); err != nil {
						return err
					}

					// datatypeRepresentationMap
					if err := bodyEnc.EncodeEndElement(); err != nil {
						return err
					}
				}
			}

			// uncommon
			if err := bodyEnc.EncodeEndElement(); err != nil {
				return err
			}
		}

		if he.isPreserve(f) {
			if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Preserve, nil); err != nil {
				return err
			}

			fo := f.GetFidelityOptions()

			if fo.IsFidelityEnabled(FeatureDTD) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Dtd, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}
			if fo.IsFidelityEnabled(FeaturePrefix) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Prefixes, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}
			if fo.IsFidelityEnabled(FeatureLexicalValue) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_LexicalValues, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}
			if fo.IsFidelityEnabled(FeatureComment) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Comments, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}
			if fo.IsFidelityEnabled(FeaturePI) {
				if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Pis, nil); err != nil {
					return err
				}
				if err := bodyEnc.EncodeEndElement(); err != nil {
					return err
				}
			}

			// preserve
			if err := bodyEnc.EncodeEndElement(); err != nil {
				return err
			}
		}

		if he.isBlockSize(f) {
			if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_BlockSize, nil); err != nil {
				return err
			}
			if err := bodyEnc.EncodeCharacters(IntegerValueOf32(f.GetBlockSize())); err != nil {
				return err
			}
			if err := bodyEnc.EncodeEndElement(); err != nil {
				return err
			}
		}

		// less common
		if err := bodyEnc.EncodeEndElement(); err != nil {
			return err
		}
	}

	if he.isCommon(f) {
		if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Common, nil); err != nil {
			return err
		}

		if he.isCompression(f) {
			if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Compression, nil); err != nil {
				return err
			}
			if err := bodyEnc.EncodeEndElement(); err != nil {
				return err
			}
		}

		if he.isFragment(f) {
			if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Fragment, nil); err != nil {
				return err
			}
			if err := bodyEnc.EncodeEndElement(); err != nil {
				return err
			}
		}

		if he.isSchemaID(f) {
			if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_SchemaID, nil); err != nil {
				return err
			}

			g := f.GetGrammars()

			// When the value of the "schemaID" element is empty, no user
			// defined schema information is used for processing the EXI
			// body; however, the built-in XML schema types are available
			// for use in the EXI body.
			if g.IsBuiltInXMLSchemaTypesOnly() {
				if g.GetSchemaID() != nil && *g.GetSchemaID() != "" {
					return NewError(ErrInvalidConfig, "schemaID must be empty when only built-in XML Schema types are used")
				}
				if err := bodyEnc.EncodeCharacters(EmptyStringValue); err != nil {
					return err
				}
			} else {
				if g.IsSchemaInformed() {
					// schema-informed
					// An example schemaID scheme is the use of URI that is
					// apt for globally identifying schema resources on the
					// Web.

					// HeaderOptions ho = f.getHeaderOptions();
					// Object schemaId = ho.getOptionValue(HeaderOptions.INCLUDE_SCHEMA_ID);
					schemaID := g.GetSchemaID()
					if schemaID == nil || *schemaID == "" {
						return NewError(ErrInvalidConfig, "schemaID must be set for schema-informed grammars")
					}

					if err := bodyEnc.EncodeCharacters(NewStringValueFromString(*schemaID)); err != nil {
						return err
					}
				} else {
					// schema-less
					// When the "schemaID" element in the EXI options
					// document
					// contains the xsi:nil attribute with its value set to
					// true, no
					// schema information is used for processing the EXI
					// body.
					if err := bodyEnc.EncodeAttributeXsiNil(BooleanValueTrue, nil); err != nil {
						return err
					}
				}
			}

			if err := bodyEnc.EncodeEndElement(); err != nil {
				return err
			}
		}

		// common
		if err := bodyEnc.EncodeEndElement(); err != nil {
			return err
		}
	}

	if he.isStrict(f) {
		if err := bodyEnc.EncodeStartElement(W3C_EXI_NS_URI, EXIHeader_Strict, nil); err != nil {
			return err
		}
		if err := bodyEnc.EncodeEndElement(); err != nil {
			return err
		}
	}

	// header
	if err := bodyEnc.EncodeEndElement(); err != nil {
		return err
	}
	if err := bodyEnc.EncodeEndDocument(); err != nil {
		return err
	}

	return nil
}

func (he *EXIHeaderEncoder) isLessCommon(factory EXIFactory) bool {
	return he.isUncommon(factory) || he.isPreserve(factory) || he.isBlockSize(factory)
}

func (he *EXIHeaderEncoder) isUncommon(factory EXIFactory) bool {
	// user defined meta-data, alignment, selfContained, valueMaxLength,
	// valuePartitionCapacity, datatypeRepresentationMap
	return he.isUserDefinedMetaData(factory) || he.isAlignment(factory) || he.isSelfContained(factory) ||
		he.isValueMaxLength(factory) || he.isValuePartitionCapacity(factory) || he.isDatatypeRepresentationMap(factory)
}

func (he *EXIHeaderEncoder) isUserDefinedMetaData(factory EXIFactory) bool {
	return factory.IsGrammarLearningDisabled() || !factory.IsLocalValuePartitions()
}

func (he *EXIHeaderEncoder) isAlignment(factory EXIFactory) bool {
	return he.isByte(factory) || he.isPreCompress(factory)
}

func (he *EXIHeaderEncoder) isByte(factory EXIFactory) bool {
	return factory.GetCodingMode() == CodingModeBytePacked
}

func (he *EXIHeaderEncoder) isPreCompress(factory EXIFactory) bool {
	return factory.GetCodingMode() == CodingModePreCompression
}

func (he *EXIHeaderEncoder) isSelfContained(factory EXIFactory) bool {
	return factory.GetFidelityOptions().IsFidelityEnabled(FeatureSC)
}

func (he *EXIHeaderEncoder) isValueMaxLength(factory EXIFactory) bool {
	return factory.GetValueMaxLength() != DefaultValueMaxLength
}

func (he *EXIHeaderEncoder) isValuePartitionCapacity(factory EXIFactory) bool {
	return factory.GetValuePartitionCapacity() >= 0
}

func (he *EXIHeaderEncoder) isDatatypeRepresentationMap(factory EXIFactory) bool {
	// Canonical EXI: When the value of the Preserve.lexicalValues fidelity
	// option is true the element datatypeRepresentationMap MUST be omitted
	return !factory.GetFidelityOptions().IsFidelityEnabled(FeatureLexicalValue) &&
		factory.GetDatatypeRepresentationMapTypes() != nil &&
		len(*factory.GetDatatypeRepresentationMapTypes()) > 0
}

func (he *EXIHeaderEncoder) isPreserve(factory EXIFactory) bool {
	fo := factory.GetFidelityOptions()
	return fo.IsFidelityEnabled(FeatureDTD) ||
		fo.IsFidelityEnabled(FeaturePrefix) ||
		fo.IsFidelityEnabled(FeatureLexicalValue) ||
		fo.IsFidelityEnabled(FeatureComment) ||
		fo.IsFidelityEnabled(FeaturePI)
}

func (he *EXIHeaderEncoder) isBlockSize(factory EXIFactory) bool {
	return factory.GetBlockSize() != DefaultBlockSize &&
		(factory.GetCodingMode() == CodingModeCompression || factory.GetCodingMode() == CodingModePreCompression)
}

func (he *EXIHeaderEncoder) isCommon(factory EXIFactory) bool {
	return he.isCompression(factory) || he.isFragment(factory) || he.isSchemaID(factory)
}

func (he *EXIHeaderEncoder) isCompression(factory EXIFactory) bool {
	return factory.GetCodingMode() == CodingModeCompression
}

func (he *EXIHeaderEncoder) isFragment(factory EXIFactory) bool {
	return factory.IsFragment()
}

func (he *EXIHeaderEncoder) isSchemaID(factory EXIFactory) bool {
	return factory.GetEncodingOptions().IsOptionEnabled(OptionIncludeSchemaID)
}

func (he *EXIHeaderEncoder) isStrict(factory EXIFactory) bool {
	return factory.GetFidelityOptions().IsStrict()
}
