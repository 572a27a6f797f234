package exi

import (
	"fmt"
)

type lexicalValueDecoder struct {
	*typeDecoderBase
	rcsBase64Binary *RestrictedCharacterSetDatatype
	rcsHexBinary    *RestrictedCharacterSetDatatype
	rcsBoolean      *RestrictedCharacterSetDatatype
	rcsDateTime     *RestrictedCharacterSetDatatype
	rcsDecimal      *RestrictedCharacterSetDatatype
	rcsDouble       *RestrictedCharacterSetDatatype
	rcsInteger      *RestrictedCharacterSetDatatype
	rcsString       *RestrictedCharacterSetDatatype
}

func newLexicalValueDecoder(
	dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*lexicalValueDecoder, error) {
	decoder, err := newTypeDecoderBase(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype)
	if err != nil {
		return nil, err
	}
	return &lexicalValueDecoder{
		typeDecoderBase: decoder,
		rcsBase64Binary:     NewRestrictedCharacterSetDatatype(NewXSDBase64CharacterSet(), nil),
		rcsHexBinary:        NewRestrictedCharacterSetDatatype(NewXSDHexBinaryCharacterSet(), nil),
		rcsBoolean:          NewRestrictedCharacterSetDatatype(NewXSDBooleanCharacterSet(), nil),
		rcsDateTime:         NewRestrictedCharacterSetDatatype(NewXSDDateTimeCharacterSet(), nil),
		rcsDecimal:          NewRestrictedCharacterSetDatatype(NewXSDDecimalCharacterSet(), nil),
		rcsDouble:           NewRestrictedCharacterSetDatatype(NewXSDDoubleCharacterSet(), nil),
		rcsInteger:          NewRestrictedCharacterSetDatatype(NewXSDIntegerCharacterSet(), nil),
		rcsString:           NewRestrictedCharacterSetDatatype(NewXSDStringCharacterSet(), nil),
	}, nil
}

func (ldec *lexicalValueDecoder) ReadValue(dt Datatype, qcx *QNameContext, ch DecoderChannel, decoder StringDecoder) (Value, error) {
	var err error
	if ldec.dtrMapInUse {
		dt, err = ldec.getDtrDatatype(dt)
		if err != nil {
			return nil, err
		}
	}

	switch dt.GetDatatypeID() {
	case DataTypeID_EXI_Base64Binary:
		return ldec.readRCSValue(ldec.rcsBase64Binary, qcx, ch, decoder)
	case DataTypeID_EXI_HexBinary:
		return ldec.readRCSValue(ldec.rcsHexBinary, qcx, ch, decoder)
	case DataTypeID_EXI_Boolean:
		return ldec.readRCSValue(ldec.rcsBoolean, qcx, ch, decoder)
	case DataTypeID_EXI_DateTime,
		DataTypeID_EXI_Time,
		DataTypeID_EXI_Date,
		DataTypeID_EXI_GYearMonth,
		DataTypeID_EXI_GYear,
		DataTypeID_EXI_GMonthDay,
		DataTypeID_EXI_GDay,
		DataTypeID_EXI_GMonth:
		return ldec.readRCSValue(ldec.rcsDateTime, qcx, ch, decoder)
	case DataTypeID_EXI_Decimal:
		return ldec.readRCSValue(ldec.rcsDecimal, qcx, ch, decoder)
	case DataTypeID_EXI_Double:
		return ldec.readRCSValue(ldec.rcsDouble, qcx, ch, decoder)
	case DataTypeID_EXI_Integer:
		return ldec.readRCSValue(ldec.rcsInteger, qcx, ch, decoder)
	case DataTypeID_EXI_String:
		// exi:string no restricted character set
		return decoder.ReadValue(qcx, ch)
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("unsupported datatype ID: %d", dt.GetDatatypeID()))
	}
}

type lexicalValueEncoder struct {
	*typeEncoderBase
	rcsBase64Binary *RestrictedCharacterSetDatatype
	rcsHexBinary    *RestrictedCharacterSetDatatype
	rcsBoolean      *RestrictedCharacterSetDatatype
	rcsDateTime     *RestrictedCharacterSetDatatype
	rcsDecimal      *RestrictedCharacterSetDatatype
	rcsDouble       *RestrictedCharacterSetDatatype
	rcsInteger      *RestrictedCharacterSetDatatype
	rcsString       *RestrictedCharacterSetDatatype
	lastValue       Value
	lastDatatype    Datatype
}

func newLexicalValueEncoder(
	dtrMapTypes *[]QName,
	dtrMapRepresentations *[]QName,
	dtrMapRepresentationDatatype *map[QName]Datatype,
) (*lexicalValueEncoder, error) {
	encoder, err := newTypeEncoderBase(dtrMapTypes, dtrMapRepresentations, dtrMapRepresentationDatatype)
	if err != nil {
		return nil, err
	}
	return &lexicalValueEncoder{
		typeEncoderBase: encoder,
		rcsBase64Binary:     NewRestrictedCharacterSetDatatype(NewXSDBase64CharacterSet(), nil),
		rcsHexBinary:        NewRestrictedCharacterSetDatatype(NewXSDHexBinaryCharacterSet(), nil),
		rcsBoolean:          NewRestrictedCharacterSetDatatype(NewXSDBooleanCharacterSet(), nil),
		rcsDateTime:         NewRestrictedCharacterSetDatatype(NewXSDDateTimeCharacterSet(), nil),
		rcsDecimal:          NewRestrictedCharacterSetDatatype(NewXSDDecimalCharacterSet(), nil),
		rcsDouble:           NewRestrictedCharacterSetDatatype(NewXSDDoubleCharacterSet(), nil),
		rcsInteger:          NewRestrictedCharacterSetDatatype(NewXSDIntegerCharacterSet(), nil),
		rcsString:           NewRestrictedCharacterSetDatatype(NewXSDStringCharacterSet(), nil),
		lastValue:           nil,
		lastDatatype:        nil,
	}, nil
}

func (le *lexicalValueEncoder) IsValid(dt Datatype, val Value) (bool, error) {
	var err error
	if le.dtrMapInUse {
		le.lastDatatype, err = le.getDtrDatatype(dt)
		if err != nil {
			return false, err
		}
	} else {
		le.lastDatatype = dt
	}
	le.lastValue = val
	return true, nil
}

func (le *lexicalValueEncoder) WriteValue(qcx *QNameContext, ch EncoderChannel, encoder StringEncoder) error {
	lvs, err := le.lastValue.ToString()
	if err != nil {
		return err
	}

	var rcs *RestrictedCharacterSetDatatype

	switch le.lastDatatype.GetDatatypeID() {
	case DataTypeID_EXI_Base64Binary:
		rcs = le.rcsBase64Binary
	case DataTypeID_EXI_HexBinary:
		rcs = le.rcsHexBinary
	case DataTypeID_EXI_Boolean:
		rcs = le.rcsBoolean
	case DataTypeID_EXI_DateTime,
		DataTypeID_EXI_Time,
		DataTypeID_EXI_Date,
		DataTypeID_EXI_GYearMonth,
		DataTypeID_EXI_GYear,
		DataTypeID_EXI_GMonthDay,
		DataTypeID_EXI_GDay,
		DataTypeID_EXI_GMonth:
		rcs = le.rcsDateTime
	case DataTypeID_EXI_Decimal:
		rcs = le.rcsDecimal
	case DataTypeID_EXI_Double:
		rcs = le.rcsDouble
	case DataTypeID_EXI_Integer:
		rcs = le.rcsInteger
	case DataTypeID_EXI_String:
		// exi:string no restricted character set
		return encoder.WriteValue(qcx, ch, lvs)
	default:
		return NewError(ErrUnexpected, fmt.Sprintf("unsupported datatype ID: %d", le.lastDatatype.GetDatatypeID()))
	}

	if _, err := le.IsValid(rcs, le.lastValue); err != nil {
		return err
	}
	if err := le.writeRCSValue(rcs, qcx, ch, encoder, lvs); err != nil {
		return err
	}

	return nil
}
