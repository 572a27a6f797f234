package exi

import (
	"fmt"
)

type typeCoderBase struct {
	TypeCoder
	dtrMapTypes                  *[]QName
	dtrMapRepresentations        *[]QName
	dtrMapRepresentationDatatype *map[QName]Datatype
	dtrMap                       map[QName]Datatype
	dtrMapInUse                  bool
}

func newTypeCoderBase(
	dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*typeCoderBase, error) {
	c := &typeCoderBase{
		dtrMapTypes:                  dtrMapTypes,
		dtrMapRepresentations:        dtrMapRepresentations,
		dtrMapRepresentationDatatype: dtrMapRepresentationDatatype,
		dtrMap:                       map[QName]Datatype{},
		dtrMapInUse:                  (dtrMapTypes != nil),
	}
	if dtrMapTypes != nil {
		if err := c.initDtrMaps(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (tc *typeCoderBase) initDtrMaps() error {
	if !tc.dtrMapInUse {
		return NewError(ErrInvalidConfig, "DTR map is not used")
	}
	var err error

	tc.dtrMap[XsdBase64Binary], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Base64Binary)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdHexBinary], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_HexBinary)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdBoolean], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Boolean)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdDateTime], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_DateTime)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdTime], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Time)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdDate], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Date)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdGYearMonth], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_GYearMonth)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdGYear], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_GYear)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdGMonthDay], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_GMonthDay)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdGDay], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_GDay)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdGMonth], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_GMonth)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdDecimal], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Decimal)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdFloat], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Double)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdDouble], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Double)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdInteger], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_Integer)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdString], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_String)
	if err != nil {
		return err
	}
	tc.dtrMap[XsdAnySimpleType], err = tc.getDatatypeRepresentation(W3C_EXI_NS_URI, W3C_EXI_LN_String)
	if err != nil {
		return err
	}

	for i := 0; i < len(*tc.dtrMapTypes); i++ {
		dtrMapRepr := (*tc.dtrMapRepresentations)[i]
		representation, err := tc.getDatatypeRepresentation(dtrMapRepr.Space, dtrMapRepr.Local)
		if err != nil {
			return err
		}
		kind := (*tc.dtrMapTypes)[i]
		tc.dtrMap[kind] = representation
	}

	return nil
}

func (tc *typeCoderBase) getDatatypeRepresentation(uri string, localPart string) (Datatype, error) {
	if !tc.dtrMapInUse {
		return nil, NewError(ErrInvalidConfig, "DTR map is not used")
	}

	var dt Datatype = nil

	// find dt for given representation
	if uri == W3C_EXI_NS_URI {
		// EXI built-in datatypes
		// see http://www.w3.org/TR/exi/#builtInEXITypes
		switch localPart {
		case XsdBase64Binary.Local:
			dt = NewBinaryBase64Datatype(nil)
		case XsdHexBinary.Local:
			dt = NewBinaryHexDatatype(nil)
		case XsdBoolean.Local:
			dt = NewBooleanDatatype(nil)
		case XsdDateTime.Local:
			dt = NewDatetimeDatatype(DateTimeDateTime, nil)
		case XsdTime.Local:
			dt = NewDatetimeDatatype(DateTimeTime, nil)
		case XsdDate.Local:
			dt = NewDatetimeDatatype(DateTimeDate, nil)
		case XsdGYearMonth.Local:
			dt = NewDatetimeDatatype(DateTimeGYearMonth, nil)
		case XsdGYear.Local:
			dt = NewDatetimeDatatype(DateTimeGYear, nil)
		case XsdGMonthDay.Local:
			dt = NewDatetimeDatatype(DateTimeGMonthDay, nil)
		case XsdGDay.Local:
			dt = NewDatetimeDatatype(DateTimeGDay, nil)
		case XsdGMonth.Local:
			dt = NewDatetimeDatatype(DateTimeGMonth, nil)
		case XsdDecimal.Local:
			dt = NewDecimalDatatype(nil)
		case XsdDouble.Local:
			dt = NewFloatDatatype(nil)
		case XsdInteger.Local:
			dt = NewIntegerDatatype(nil)
		case XsdString.Local:
			dt = NewStringDatatype(nil)
		case XsdExtendedString.Local:
			dt = NewExtendedStringDatatype(nil)
		default:
			return nil, NewError(ErrInvalidConfig, fmt.Sprintf("unsupported datatype representation: {%s}%s", uri, localPart))
		}
	} else {
		qn := QName{Space: uri, Local: localPart}
		if tc.dtrMapRepresentationDatatype != nil {
			dt = (*tc.dtrMapRepresentationDatatype)[qn]
		}
		if dt == nil {
			return nil, NewError(ErrInvalidConfig, "no datatype instance")
		}
	}

	return dt, nil
}

func (tc *typeCoderBase) getDtrDatatype(datatype Datatype) (Datatype, error) {
	if !tc.dtrMapInUse {
		return nil, NewError(ErrInvalidConfig, "DTR map is not used")
	}

	var dtrDatatype Datatype = nil
	var err error
	if datatype.Equals(BuiltInGetDefaultDatatype()) {
		// e.g., untyped values are encoded always as String
		dtrDatatype = datatype
	} else {
		schemaType := datatype.GetSchemaType().GetQName()

		// unions
		if datatype.GetBuiltInType() == BuiltInTypeString && (datatype.(*StringDatatype)).IsDerivedByUnion() {
			if mapHasKey(tc.dtrMap, schemaType) {
				dtrDatatype = tc.dtrMap[schemaType]
			} else {
				baseDatatype := datatype.GetBaseDatatype()
				schemaBaseType := baseDatatype.GetSchemaType().GetQName()

				if baseDatatype.GetBuiltInType() == BuiltInTypeString && (baseDatatype.(*StringDatatype)).IsDerivedByUnion() && mapHasKey(tc.dtrMap, schemaBaseType) {
					dtrDatatype = tc.dtrMap[schemaBaseType]
				} else {
					dtrDatatype = datatype
				}
			}
		}

		// lists
		if dtrDatatype == nil && datatype.GetBuiltInType() == BuiltInTypeList {
			ldt := datatype.(*ListDatatype)

			if mapHasKey(tc.dtrMap, schemaType) {
				dtrDatatype = tc.dtrMap[schemaType]
			} else if mapHasKey(tc.dtrMap, ldt.GetListDatatype().GetSchemaType().GetQName()) {
				dt := tc.dtrMap[ldt.GetListDatatype().GetSchemaType().GetQName()]
				dtrDatatype, err = NewListDatatypeChecked(dt, datatype.GetSchemaType())
				if err != nil {
					return nil, err
				}
			} else {
				baseDatatype := datatype.GetBaseDatatype()
				schemaBaseType := baseDatatype.GetSchemaType().GetQName()

				if baseDatatype.GetBuiltInType() == BuiltInTypeList && mapHasKey(tc.dtrMap, schemaBaseType) {
					dtrDatatype = tc.dtrMap[schemaBaseType]
				} else {
					dtrDatatype = datatype
				}
			}
		}

		// enums
		if dtrDatatype == nil && datatype.GetBuiltInType() == BuiltInTypeEnumeration {
			if mapHasKey(tc.dtrMap, schemaType) {
				dtrDatatype = tc.dtrMap[schemaType]
			} else {
				baseDatatype := datatype.GetBaseDatatype()
				schemaBaseType := baseDatatype.GetSchemaType().GetQName()

				if baseDatatype.GetBuiltInType() == BuiltInTypeEnumeration && mapHasKey(tc.dtrMap, schemaBaseType) {
					dtrDatatype = tc.dtrMap[schemaBaseType]
				} else {
					dtrDatatype = datatype
				}
			}
		}

		if dtrDatatype == nil {
			dtrDatatype = tc.dtrMap[schemaType]

			if dtrDatatype == nil {
				dtrDatatype, err = tc.updateDtrDatatype(datatype)
				if err != nil {
					return nil, err
				}
			}
		}

		if dtrDatatype.GetDatatypeID() == DataTypeID_EXI_EString && datatype.GetGrammarEnumeration() != nil {
			// add grammar strings et cetera
			esdt := dtrDatatype.(*ExtendedStringDatatype)
			esdt.SetGrammarStrings(datatype.GetGrammarEnumeration())
		}
	}

	return dtrDatatype, nil
}

func (tc *typeCoderBase) updateDtrDatatype(dt Datatype) (Datatype, error) {
	baseDatatype := dt.GetBaseDatatype()
	simpleBaseType := baseDatatype.GetSchemaType()
	var err error

	dtrDatatype := tc.dtrMap[simpleBaseType.GetQName()]
	if dtrDatatype == nil {
		dtrDatatype, err = tc.updateDtrDatatype(baseDatatype)
		if err != nil {
			return nil, err
		}
	}

	// special integer handling
	if (dtrDatatype.GetBuiltInType() == BuiltInTypeInteger || dtrDatatype.GetBuiltInType() == BuiltInTypeUnsignedInteger) &&
		(dt.GetBuiltInType() == BuiltInTypeNBitUnsignedInteger || dt.GetBuiltInType() == BuiltInTypeUnsignedInteger) {
		dtrDatatype = dt
	}

	tc.dtrMap[dt.GetSchemaType().GetQName()] = dtrDatatype

	return dtrDatatype, nil
}
type typeEncoderBase struct {
	*typeCoderBase
}

func newTypeEncoderBase(dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*typeEncoderBase, error) {
	super, err := newTypeCoderBase(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype)
	if err != nil {
		return nil, err
	}

	return &typeEncoderBase{
		typeCoderBase: super,
	}, nil
}

func (e *typeEncoderBase) writeRCSValue(rcsDT *RestrictedCharacterSetDatatype, qcx *QNameContext,
	ch EncoderChannel, encoder StringEncoder, lastValidValue string) error {

	hit, err := encoder.IsStringHit(lastValidValue)
	if err != nil {
		return err
	}

	if hit {
		err = encoder.WriteValue(qcx, ch, lastValidValue)
		if err != nil {
			return err
		}
	} else {
		// NO local or global value hit
		// string-table miss ==> restricted character
		// string literal is encoded as a String with the length
		// incremented by two.
		runes := []rune(lastValidValue)
		runesL := len(runes)

		err = ch.EncodeUnsignedInteger(runesL + 2)
		if err != nil {
			return err
		}

		rcs := rcsDT.GetRestrictedCharacterSet()

		// If length L is greater than zero the string S is added
		if runesL > 0 {
			numberOfBits := rcs.GetCodingLength()

			for i := 0; i < runesL; i++ {
				codePoint := runes[i]
				code := rcs.GetCode(int(codePoint))

				if code == NotFound {
					// indicate deviation
					err = ch.EncodeNBitUnsignedInteger(rcs.GetSize(), numberOfBits)
					if err != nil {
						return err
					}
					err = ch.EncodeUnsignedInteger(int(codePoint))
					if err != nil {
						return err
					}
				} else {
					err = ch.EncodeNBitUnsignedInteger(code, numberOfBits)
					if err != nil {
						return err
					}
				}
			}

			// After encoding the string value, it is added to both the
			// associated "local" value string table partition and the
			// global value string table partition.
			encoder.AddValue(qcx, lastValidValue)
		}
	}

	return nil
}

type typeDecoderBase struct {
	*typeCoderBase
}

func newTypeDecoderBase(dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*typeDecoderBase, error) {
	super, err := newTypeCoderBase(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype)
	if err != nil {
		return nil, err
	}

	return &typeDecoderBase{
		typeCoderBase: super,
	}, nil
}

func (d *typeDecoderBase) readRCSValue(rcsDT *RestrictedCharacterSetDatatype, qcx *QNameContext, ch DecoderChannel, decoder StringDecoder) (Value, error) {
	rcs := rcsDT.GetRestrictedCharacterSet()

	var val *StringValue
	var err error

	i, err := ch.DecodeUnsignedInteger()
	if err != nil {
		return nil, err
	}

	switch i {
	case 0:
		val, err = decoder.ReadValueLocalHit(qcx, ch)
		if err != nil {
			return nil, err
		}
	case 1:
		// found in global val partition
		val, err = decoder.ReadValueGlobalHit(ch)
		if err != nil {
			return nil, err
		}
	default:
		// not found in global val (and local val) partition
		// ==> restricted character string literal is encoded as a String
		// with the length incremented by two.
		l := i - 2

		// If length L is greater than zero the string S is added
		if l > 0 {
			numberOfBits := rcs.GetCodingLength()
			size := rcs.GetSize()

			cValue := make([]rune, l)
			val = NewStringValueFromSlice(cValue)

			for k := 0; k < l; k++ {
				code, err := ch.DecodeNBitUnsignedInteger(numberOfBits)
				if err != nil {
					return nil, err
				}
				var codePoint int
				if code == size {
					// deviation
					codePoint, err = ch.DecodeUnsignedInteger()
					if err != nil {
						return nil, err
					}
				} else {
					codePoint, err = rcs.GetCodePoint(code)
					if err != nil {
						return nil, err
					}
				}

				cValue[k] = rune(codePoint)
			}

			// After encoding the string val, it is added to both the
			// associated "local" val string table partition and the
			// global val string table partition.
			decoder.AddValue(qcx, val)
		} else {
			val = EmptyStringValue
		}
	}

	return val, nil
}
