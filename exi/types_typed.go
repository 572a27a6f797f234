package exi

import (
	"strings"
	"unicode/utf8"
)

type typedValueEncoder struct {
	*typeEncoderBase
	lastDataType       Datatype
	doNormalize        bool
	lastBytes          *[]byte
	lastBool           *BooleanValue
	lastBooleanID      int
	lastBoolean        bool
	lastDecimal        *DecimalValue
	lastFloat          *FloatValue
	lastNBitInteger    *IntegerValue
	lastUnsignedIntger *IntegerValue
	lastInteger        *IntegerValue
	lastDateTime       *DateTimeValue
	lastString         *string
	lastEnumIndex      int
	lastListValues     *ListValue
}

func newTypedValueEncoder(dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*typedValueEncoder, error) {
	return newTypedValueEncoderNormalized(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype, false)
}

func newTypedValueEncoderNormalized(dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
	doNormalize bool,
) (*typedValueEncoder, error) {
	super, err := newTypeEncoderBase(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype)
	if err != nil {
		return nil, err
	}

	return &typedValueEncoder{
		typeEncoderBase: super,
		lastDataType:        nil,
		doNormalize:         doNormalize,
		lastBytes:           nil,
		lastBool:            nil,
		lastBooleanID:       -1,
		lastDecimal:         nil,
		lastFloat:           nil,
		lastNBitInteger:     nil,
		lastUnsignedIntger:  nil,
		lastInteger:         nil,
		lastDateTime:        nil,
		lastString:          nil,
		lastEnumIndex:       -1,
		lastListValues:      nil,
	}, nil
}

func (te *typedValueEncoder) IsValid(datatype Datatype, val Value) (bool, error) {
	var err error
	if te.dtrMapInUse && datatype.GetBuiltInType() != BuiltInTypeExtendedString {
		te.lastDataType, err = te.getDtrDatatype(datatype)
		if err != nil {
			return false, err
		}
	} else {
		te.lastDataType = datatype
	}

	switch te.lastDataType.GetBuiltInType() {
	case BuiltInTypeBinaryBase64, BuiltInTypeBinaryHex:
		abv, ok := val.(*AbstractBinaryValue)
		if ok {
			te.lastBytes = ptrTo(abv.ToBytes())
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeBoolean:
		b, ok := val.(*BooleanValue)
		if ok {
			te.lastBool = b
			return true, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeBooleanFacet:
		b, ok := val.(*BooleanValue)
		if ok {
			te.lastBool = b
			te.lastBoolean = b.ToBoolean()
			te.lastBooleanID = 0
			if te.lastBoolean {
				te.lastBooleanID = 2
			}
			return true, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeDecimal:
		d, ok := val.(*DecimalValue)
		if ok {
			te.lastDecimal = d
			return true, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeFloat:
		f, ok := val.(*FloatValue)
		if ok {
			te.lastFloat = f
			return true, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeNBitUnsignedInteger:
		nbitDT := te.lastDataType.(*NBitUnsignedIntegerDatatype)
		nbit, ok := val.(*IntegerValue)
		if ok {
			te.lastNBitInteger = nbit
			return te.lastNBitInteger.Cmp(nbitDT.GetLowerBound()) >= 0 && te.lastNBitInteger.Cmp(nbitDT.GetUpperBound()) <= 0, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeUnsignedInteger:
		i, ok := val.(*IntegerValue)
		if ok {
			te.lastUnsignedIntger = i
			return te.lastUnsignedIntger.IsPositive(), nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeInteger:
		i, ok := val.(*IntegerValue)
		if ok {
			te.lastInteger = i
			return true, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeDateTime:
		dt, ok := val.(*DateTimeValue)
		if ok {
			te.lastDateTime = dt
			return true, nil
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeString, BuiltInTypeRcsString, BuiltInTypeExtendedString:
		// Note: no validity check needed for RCS strings since any char-sequence
		// can be encoded due to fallback mechanism.
		s, err := val.ToString()
		if err != nil {
			return false, err
		}
		te.lastString = &s
		return true, nil
	case BuiltInTypeEnumeration:
		enumDT := te.lastDataType.(*EnumerationDatatype)
		idx := 0

		for idx < enumDT.GetEnumerationSize() {
			if enumDT.GetEnumValue(idx).Equals(val) {
				te.lastEnumIndex = idx
				return true, nil
			}
			idx++
		}

		return false, nil
	case BuiltInTypeList:
		lv, ok := val.(*ListValue)
		if ok {
			listDT := te.lastDataType.(*ListDatatype)
			if listDT.GetListDatatype().GetBuiltInType() == lv.GetListDatatype().GetBuiltInType() {
				te.lastListValues = lv
				return true, nil
			}
		} else {
			s, err := val.ToString()
			if err != nil {
				return false, err
			}
			return te.isValidString(s)
		}
	case BuiltInTypeQName:
		/* not allowed datatype */
		return false, nil
	}

	return false, nil
}

func (te *typedValueEncoder) isValidString(val string) (bool, error) {
	var err error

	switch te.lastDataType.GetBuiltInType() {
	case BuiltInTypeBinaryBase64:
		val = strings.TrimSpace(val)
		bvb := BinaryBase64ValueParse(val)
		if bvb == nil {
			return false, nil
		} else {
			te.lastBytes = ptrTo(bvb.ToBytes())
			return true, nil
		}
	case BuiltInTypeBinaryHex:
		val = strings.TrimSpace(val)
		bhv := BinaryHexValueParse(val)
		if bhv == nil {
			return false, nil
		} else {
			te.lastBytes = ptrTo(bhv.ToBytes())
			return true, nil
		}
	case BuiltInTypeBoolean:
		te.lastBool = BooleanValueParse(val)
		return (te.lastBool != nil), nil
	case BuiltInTypeBooleanFacet:
		val = strings.TrimSpace(val)
		retValue := true

		switch val {
		case XSDBooleanFalse:
			te.lastBooleanID = 0
			te.lastBoolean = false
		case XSDBoolean0:
			te.lastBooleanID = 1
			te.lastBoolean = false
		case XSDBooleanTrue:
			te.lastBooleanID = 2
			te.lastBoolean = true
		case XSDBoolean1:
			te.lastBooleanID = 3
			te.lastBoolean = true
		default:
			retValue = false
		}

		return retValue, nil
	case BuiltInTypeDecimal:
		te.lastDecimal, err = DecimalValueParseString(val)
		if err != nil {
			return false, err
		}
		return (te.lastDecimal != nil), nil
	case BuiltInTypeFloat:
		te.lastFloat, err = FloatValueParseString(val)
		if err != nil {
			return false, err
		}
		return (te.lastFloat != nil), nil
	case BuiltInTypeNBitUnsignedInteger:
		te.lastNBitInteger, err = IntegerValueParse(val)
		if err != nil {
			return false, err
		}
		if te.lastNBitInteger == nil {
			return false, nil
		} else {
			nbitDT := te.lastDataType.(*NBitUnsignedIntegerDatatype)
			return te.lastNBitInteger.Cmp(nbitDT.GetLowerBound()) >= 0 && te.lastNBitInteger.Cmp(nbitDT.GetUpperBound()) <= 0, nil
		}
	case BuiltInTypeUnsignedInteger:
		te.lastUnsignedIntger, err = IntegerValueParse(val)
		if err != nil {
			return false, err
		}
		if te.lastUnsignedIntger != nil {
			return te.lastUnsignedIntger.IsPositive(), nil
		} else {
			return false, nil
		}
	case BuiltInTypeInteger:
		te.lastInteger, err = IntegerValueParse(val)
		if err != nil {
			return false, err
		}
		return (te.lastInteger != nil), nil
	case BuiltInTypeDateTime:
		datetimeDT := te.lastDataType.(*DatetimeDatatype)
		te.lastDateTime, err = DateTimeParse(val, datetimeDT.GetDatetimeType())
		if err != nil {
			return false, err
		}
		return (te.lastDateTime != nil), nil
	case BuiltInTypeList:
		listDT := te.lastDataType.(*ListDatatype)
		te.lastListValues, err = ListValueParse(val, listDT.GetListDatatype())
		if err != nil {
			return false, err
		}
		return (te.lastListValues != nil), nil
	default:
		return false, nil
	}
}

func (te *typedValueEncoder) normalize(datatype Datatype) error {
	switch datatype.GetBuiltInType() {
	case BuiltInTypeDateTime:
		// See https://www.w3.org/TR/2004/REC-xmlschema-2-20041028/#dateTime-canonical-representation
		if te.lastDateTime != nil {
			te.lastDateTime = te.lastDateTime.Normalize()
		}
	case BuiltInTypeList:
		if te.lastListValues != nil {
			dt := te.lastListValues.GetListDatatype()
			for _, v := range te.lastListValues.ToValues() {
				_, err := te.IsValid(dt, v)
				if err != nil {
					return err
				}
				err = te.normalize(dt)
				if err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (te *typedValueEncoder) WriteValue(qcx *QNameContext, ch EncoderChannel, encoder StringEncoder) error {
	if te.doNormalize {
		if err := te.normalize(te.lastDataType); err != nil {
			return err
		}
	}

	switch te.lastDataType.GetBuiltInType() {
	case BuiltInTypeBinaryBase64, BuiltInTypeBinaryHex:
		if err := ch.EncodeBinary(*te.lastBytes); err != nil {
			return err
		}
	case BuiltInTypeBoolean:
		if err := ch.EncodeBoolean(te.lastBool.ToBoolean()); err != nil {
			return err
		}
	case BuiltInTypeBooleanFacet:
		if err := ch.EncodeNBitUnsignedInteger(te.lastBooleanID, 2); err != nil {
			return err
		}
	case BuiltInTypeDecimal:
		if err := ch.EncodeDecimal(te.lastDecimal.IsNegative(), te.lastDecimal.GetIntegral(), te.lastDecimal.GetRevFractional()); err != nil {
			return err
		}
	case BuiltInTypeFloat:
		if err := ch.EncodeFloat(te.lastFloat); err != nil {
			return err
		}
	case BuiltInTypeNBitUnsignedInteger:
		nbitDT := te.lastDataType.(*NBitUnsignedIntegerDatatype)
		iv := te.lastNBitInteger.Sub(nbitDT.GetLowerBound())
		if err := ch.EncodeNBitUnsignedInteger(iv.Value32(), nbitDT.GetNumberOfBits()); err != nil {
			return err
		}
	case BuiltInTypeUnsignedInteger:
		if err := ch.EncodeUnsignedIntegerValue(te.lastUnsignedIntger); err != nil {
			return err
		}
	case BuiltInTypeInteger:
		if err := ch.EncodeIntegerValue(te.lastInteger); err != nil {
			return err
		}
	case BuiltInTypeDateTime:
		if err := ch.EncodeDateTime(te.lastDateTime); err != nil {
			return err
		}
	case BuiltInTypeString:
		if err := encoder.WriteValue(qcx, ch, *te.lastString); err != nil {
			return err
		}
	case BuiltInTypeRcsString:
		rcsDT := te.lastDataType.(*RestrictedCharacterSetDatatype)
		if err := te.writeRCSValue(rcsDT, qcx, ch, encoder, *te.lastString); err != nil {
			return err
		}
	case BuiltInTypeExtendedString:
		esDT := te.lastDataType.(*ExtendedStringDatatype)
		if err := te.writeExtendedValue(esDT, qcx, ch, encoder, *te.lastString); err != nil {
			return err
		}
	case BuiltInTypeEnumeration:
		enumDT := te.lastDataType.(*EnumerationDatatype)
		if err := ch.EncodeNBitUnsignedInteger(te.lastEnumIndex, enumDT.GetCodingLength()); err != nil {
			return err
		}
	case BuiltInTypeList:
		listDT := te.lastDataType.(*ListDatatype)
		listDatatype := listDT.GetListDatatype()

		// length prefixed sequence of values
		values := te.lastListValues.ToValues()
		if err := ch.EncodeUnsignedInteger(len(values)); err != nil {
			return err
		}

		// iterate over all tokens
		for i := 0; i < len(values); i++ {
			v := values[i]
			valid, err := te.IsValid(listDatatype, v)
			if err != nil {
				return err
			}
			if !valid {
				return NewError(ErrInvalidEXIInput, "list value is not valid")
			}

			if err := te.WriteValue(qcx, ch, encoder); err != nil {
				return err
			}
		}
	case BuiltInTypeQName:
		return NewError(ErrMismatch, "QName is not allowed as EXI datatype")
	default:
		return NewError(ErrMismatch, "EXI datatype not supported")
	}

	return nil
}

func (te *typedValueEncoder) getEnumIndex(grammarStrings EnumDatatype, sv *StringValue) int {
	for i := 0; i < grammarStrings.GetEnumerationSize(); i++ {
		v := grammarStrings.GetEnumValue(i)
		if sv.Equals(v) {
			return i
		}
	}
	return -1
}

func (te *typedValueEncoder) writeExtendedValue(esDT *ExtendedStringDatatype, qcx *QNameContext, ch EncoderChannel, encoder StringEncoder, val string) error {
	grammarStrings := esDT.GetGrammarStrings()

	vc := encoder.GetValueContainer(val)
	if vc != nil {
		// hit
		if encoder.IsLocalValuePartitions() && qcx.Equals(vc.Context) {
			/*
			 * local val hit ==> is represented as zero (0) encoded as an
			 * Unsigned Integer followed by the compact identifier of the
			 * string val in the "local" val partition
			 */
			if err := ch.EncodeUnsignedInteger(0); err != nil {
				return err
			}
			numberBitsLocal := codingLength(encoder.GetNumberOfStringValues(qcx))
			if err := ch.EncodeNBitUnsignedInteger(vc.LocalValueID, numberBitsLocal); err != nil {
				return err
			}
		} else {
			/*
			 * global val hit ==> val is represented as one (1) encoded
			 * as an Unsigned Integer followed by the compact identifier of
			 * the String val in the global val partition.
			 */
			if err := ch.EncodeUnsignedInteger(1); err != nil {
				return err
			}

			// global val size
			numberBitsGlobal := codingLength(encoder.GetValueContainerSize())
			if err := ch.EncodeNBitUnsignedInteger(vc.GlobalValueID, numberBitsGlobal); err != nil {
				return err
			}
		}
	} else {
		/*
		 * miss [not found in local nor in global val partition] ==>
		 * string literal is encoded as a String with the length incremented
		 * by 6.
		 */

		// --> check grammar strings
		encoded := false
		if grammarStrings != nil {
			gindex := te.getEnumIndex(grammarStrings, NewStringValueFromString(val))

			if gindex >= 0 {
				if err := ch.EncodeUnsignedInteger(2); err != nil {
					return err
				}
				if err := ch.EncodeNBitUnsignedInteger(gindex, grammarStrings.GetCodingLength()); err != nil {
					return err
				}

				encoded = true
			}
		}

		if !encoded {
			// shared/split/undefined extended-string forms are not
			// implemented; fall through to the miss encoding

			l := utf8.RuneCountInString(val)

			if err := ch.EncodeUnsignedInteger(l + 6); err != nil {
				return err
			}

			/*
			 * If length L is greater than zero the string S is added
			 */
			if l > 0 {
				if err := ch.EncodeStringOnly(val); err != nil {
					return err
				}
				// After encoding the string val, it is added to both the
				// associated "local" val string table partition and the
				// global val string table partition.
				encoder.AddValue(qcx, val)
			}
		}
	}

	return nil
}

type typedValueDecoder struct {
	*typeDecoderBase
}

func newTypedValueDecoder(
	dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*typedValueDecoder, error) {
	decoder, err := newTypeDecoderBase(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype)
	if err != nil {
		return nil, err
	}
	return &typedValueDecoder{
		typeDecoderBase: decoder,
	}, nil
}

func (td *typedValueDecoder) ReadValue(dt Datatype, qcx *QNameContext, ch DecoderChannel, decoder StringDecoder) (Value, error) {
	var err error
	if td.dtrMapInUse {
		dt, err = td.getDtrDatatype(dt)
		if err != nil {
			return nil, err
		}
	}

	switch dt.GetBuiltInType() {
	case BuiltInTypeBinaryBase64:
		data, err := ch.DecodeBinary()
		if err != nil {
			return nil, err
		}
		return NewBinaryBase64Value(data), nil
	case BuiltInTypeBinaryHex:
		data, err := ch.DecodeBinary()
		if err != nil {
			return nil, err
		}
		return NewBinaryHexValue(data), nil
	case BuiltInTypeBoolean:
		val, err := ch.DecodeBooleanValue()
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeBooleanFacet:
		booleanID, err := ch.DecodeNBitUnsignedInteger(2)
		if err != nil {
			return nil, err
		}
		val, err := GetBooleanValueForID(booleanID)
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeDecimal:
		val, err := ch.DecodeDecimalValue()
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeFloat:
		val, err := ch.DecodeFloatValue()
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeNBitUnsignedInteger:
		nbitDT := dt.(*NBitUnsignedIntegerDatatype)
		val, err := ch.DecodeNBitUnsignedIntegerValue(nbitDT.GetNumberOfBits())
		if err != nil {
			return nil, err
		}
		return val.Add(nbitDT.GetLowerBound()), nil
	case BuiltInTypeUnsignedInteger:
		val, err := ch.DecodeUnsignedIntegerValue()
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeInteger:
		val, err := ch.DecodeIntegerValue()
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeDateTime:
		dtDT := dt.(*DatetimeDatatype)
		val, err := ch.DecodeDateTimeValue(dtDT.GetDatetimeType())
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeString:
		val, err := decoder.ReadValue(qcx, ch)
		if err != nil {
			return nil, err
		}
		return val, nil
	case BuiltInTypeRcsString:
		rcsDT := dt.(*RestrictedCharacterSetDatatype)
		return td.readRCSValue(rcsDT, qcx, ch, decoder)
	case BuiltInTypeExtendedString:
		esDT := dt.(*ExtendedStringDatatype)
		return td.readExtendedString(esDT, qcx, ch, decoder)
	case BuiltInTypeEnumeration:
		enumDT := dt.(*EnumerationDatatype)
		idx, err := ch.DecodeNBitUnsignedInteger(enumDT.GetCodingLength())
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= enumDT.GetEnumerationSize() {
			return nil, NewError(ErrInvalidEXIInput, "index out of bounds")
		}
		return enumDT.GetEnumValue(idx), nil
	case BuiltInTypeList:
		listDT := dt.(*ListDatatype)
		listItemDT := listDT.GetListDatatype()

		len, err := ch.DecodeUnsignedInteger()
		if err != nil {
			return nil, err
		}
		values := make([]Value, len)

		for i := 0; i < len; i++ {
			values[i], err = td.ReadValue(listItemDT, qcx, ch, decoder)
			if err != nil {
				return nil, err
			}
		}
		return NewListValue(values, listItemDT), nil
	case BuiltInTypeQName:
		/* not allowed dt */
		return nil, NewError(ErrMismatch, "QName is not an allowed as EXI datatype")
	}

	return nil, nil
}

func (td *typedValueDecoder) readExtendedString(esDT *ExtendedStringDatatype, qcx *QNameContext, channel DecoderChannel, decoder StringDecoder) (*StringValue, error) {
	var val *StringValue = nil

	grammarStrings := esDT.GetGrammarStrings()

	i, err := channel.DecodeUnsignedInteger()
	if err != nil {
		return nil, err
	}

	switch i {
	case 0:
		if decoder.IsLocalValuePartitions() {
			val, err = decoder.ReadValueLocalHit(qcx, channel)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, NewError(ErrInvalidEXIInput, "EXI stream contains local-value hit even though profile options indicate otherwise")
		}
	case 1:
		// found in global val partition
		val, err = decoder.ReadValueGlobalHit(channel)
		if err != nil {
			return nil, err
		}
	case 2:
		// grammar string (enum)
		idx, err := channel.DecodeNBitUnsignedInteger(grammarStrings.GetCodingLength())
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= grammarStrings.GetEnumerationSize() {
			return nil, NewError(ErrInvalidEXIInput, "index out of bounds")
		}
		v := grammarStrings.GetEnumValue(idx)

		sv, ok := v.(*StringValue)
		if ok {
			val = sv
		} else {
			s, err := v.ToString()
			if err != nil {
				return nil, err
			}
			val = NewStringValueFromString(s)
		}
	case 3:
		// shared string
		return nil, NewError(ErrUnimplemented, "ExtendedString, no support for <shared string>")
	case 4:
		// split string
		return nil, NewError(ErrUnimplemented, "ExtendedString, no support for <split string>")
	case 5:
		// undefined
		return nil, NewError(ErrUnimplemented, "ExtendedString, no support for <undefined>")
	default:
		// not found in global val (and local val) partition
		// ==> string literal is encoded as a String with the length
		// incremented by 6.
		len := i - 6

		// If length 'len' is greater than zero the string S is added.
		if len > 0 {
			ch, err := channel.DecodeStringOnly(len)
			if err != nil {
				return nil, err
			}
			val = NewStringValueFromSlice(ch)
			// After encoding the string val, it is added to both the
			// associated "local" val string table partition and the
			// global val string table partition.
			// AddValue(context, val)
			decoder.AddValue(qcx, val)
		} else {
			val = EmptyStringValue
		}
	}

	if val == nil {
		return nil, NewError(ErrUnexpected, "unexpected decoder state: value == nil")
	}
	return val, nil
}
