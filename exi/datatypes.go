package exi

import (
	"fmt"
)

// DatatypeID names the EXI datatype representations usable in a
// datatype representation map.
type DatatypeID int

// WhiteSpace is the XSD whiteSpace facet applied before coding a value.
type WhiteSpace int

const (
	DataTypeID_EXI_Base64Binary DatatypeID = iota
	DataTypeID_EXI_HexBinary
	DataTypeID_EXI_Boolean
	DataTypeID_EXI_DateTime
	DataTypeID_EXI_Time
	DataTypeID_EXI_Date
	DataTypeID_EXI_GYearMonth
	DataTypeID_EXI_GYear
	DataTypeID_EXI_GMonthDay
	DataTypeID_EXI_GDay
	DataTypeID_EXI_GMonth
	DataTypeID_EXI_Decimal
	DataTypeID_EXI_Double
	DataTypeID_EXI_Integer
	DataTypeID_EXI_String
	DataTypeID_EXI_EString

	WhiteSpacePreserve WhiteSpace = iota
	WhiteSpaceReplace
	WhiteSpaceCollapse
)

// Datatype describes how one schema type's values are represented on
// the wire: its built-in EXI type, its schema type name, and the
// whiteSpace handling its lexical space requires.
type Datatype interface {
	GetBuiltInType() BuiltInType
	GetSchemaType() *QNameContext
	GetBaseDatatype() Datatype
	SetBaseDatatype(datatype Datatype)
	SetGrammarEnumeration(enum EnumDatatype)
	GetGrammarEnumeration() EnumDatatype
	GetWhiteSpace() WhiteSpace
	GetDatatypeID() DatatypeID
	Equals(o Datatype) bool
}

// EnumDatatype is a Datatype restricted to an enumerated value set,
// coded as an n-bit index.
type EnumDatatype interface {
	Datatype
	GetCodingLength() int
	GetEnumerationSize() int
	GetEnumValue(i int) Value
}

type AbstractDatatype struct {
	Datatype
	builtInType        BuiltInType
	schemaType         *QNameContext
	baseDatatype       Datatype
	grammarEnumeration EnumDatatype
	whiteSpace         WhiteSpace
}

func NewAbstractDatatype(builtInType BuiltInType, xsdType *QNameContext) *AbstractDatatype {
	return &AbstractDatatype{
		builtInType: builtInType,
		schemaType:  xsdType,
		whiteSpace:  WhiteSpaceCollapse,
	}
}

func NewAbstractDatatypeWithWhiteSpace(builtInType BuiltInType, xsdType *QNameContext, whiteSpace WhiteSpace) *AbstractDatatype {
	return &AbstractDatatype{
		builtInType: builtInType,
		schemaType:  xsdType,
		whiteSpace:  whiteSpace,
	}
}

func (ad *AbstractDatatype) GetBuiltInType() BuiltInType {
	return ad.builtInType
}

func (ad *AbstractDatatype) GetSchemaType() *QNameContext {
	return ad.schemaType
}

func (ad *AbstractDatatype) GetBaseDatatype() Datatype {
	return ad.baseDatatype
}

func (ad *AbstractDatatype) SetBaseDatatype(dt Datatype) {
	ad.baseDatatype = dt
}

func (ad *AbstractDatatype) SetGrammarEnumeration(enum EnumDatatype) {
	ad.grammarEnumeration = enum
}

func (ad *AbstractDatatype) GetGrammarEnumeration() EnumDatatype {
	return ad.grammarEnumeration
}

func (ad *AbstractDatatype) GetWhiteSpace() WhiteSpace {
	return ad.whiteSpace
}

func (ad *AbstractDatatype) Equals(o Datatype) bool {
	if ad.builtInType != o.GetBuiltInType() {
		return false
	}
	if ad.schemaType == nil {
		return o.GetSchemaType() == nil
	}
	return ad.schemaType.Equals(o.GetSchemaType())
}

type AbstractBinaryDatatype struct {
	*AbstractDatatype
}

func NewAbstractBinaryDatatype(binaryType BuiltInType, xsdType *QNameContext) *AbstractBinaryDatatype {
	return &AbstractBinaryDatatype{
		AbstractDatatype: NewAbstractDatatype(binaryType, xsdType),
	}
}

type BinaryBase64Datatype struct {
	*AbstractBinaryDatatype
}

func NewBinaryBase64Datatype(xsdType *QNameContext) *BinaryBase64Datatype {
	return &BinaryBase64Datatype{
		AbstractBinaryDatatype: NewAbstractBinaryDatatype(BuiltInTypeBinaryBase64, xsdType),
	}
}

func (dt *BinaryBase64Datatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Base64Binary
}

type BinaryHexDatatype struct {
	*AbstractBinaryDatatype
}

func NewBinaryHexDatatype(xsdType *QNameContext) *BinaryHexDatatype {
	return &BinaryHexDatatype{
		AbstractBinaryDatatype: NewAbstractBinaryDatatype(BuiltInTypeBinaryHex, xsdType),
	}
}

func (dt *BinaryHexDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_HexBinary
}

type BooleanDatatype struct {
	*AbstractDatatype
}

func NewBooleanDatatype(xsdType *QNameContext) *BooleanDatatype {
	return &BooleanDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeBoolean, xsdType),
	}
}

func (dt *BooleanDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Boolean
}

type BooleanFacetDatatype struct {
	*AbstractDatatype
}

func NewBooleanFacetDatatype(xsdType *QNameContext) *BooleanFacetDatatype {
	return &BooleanFacetDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeBooleanFacet, xsdType),
	}
}

func (dt *BooleanFacetDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Boolean
}

type DatetimeDatatype struct {
	*AbstractDatatype
	dateType          DateTimeType
	lastValidDateTime *DateTimeValue
}

func NewDatetimeDatatype(dateType DateTimeType, xsdType *QNameContext) *DatetimeDatatype {
	return &DatetimeDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeDateTime, xsdType),
		dateType:         dateType,
	}
}

func (dt *DatetimeDatatype) GetDatatypeID() DatatypeID {
	switch dt.dateType {
	case DateTimeDateTime:
		return DataTypeID_EXI_DateTime
	case DateTimeTime:
		return DataTypeID_EXI_Time
	case DateTimeDate:
		return DataTypeID_EXI_Date
	case DateTimeGYearMonth, DateTimeGMonthDay:
		return DataTypeID_EXI_GMonthDay
	case DateTimeGYear:
		return DataTypeID_EXI_GYear
	case DateTimeGDay:
		return DataTypeID_EXI_GDay
	case DateTimeGMonth:
		return DataTypeID_EXI_GMonth
	default:
		panic(fmt.Sprintf("unsupported date time type: %d", dt.dateType))
	}
}

func (dt *DatetimeDatatype) GetDatetimeType() DateTimeType {
	return dt.dateType
}

func (dt *DatetimeDatatype) isValidString(value string) bool {
	d, err := DateTimeParse(value, dt.dateType)
	if err != nil {
		return false
	}
	dt.lastValidDateTime = d
	return true
}

func (dt *DatetimeDatatype) IsValid(value Value) (bool, error) {
	if dateTime, ok := value.(*DateTimeValue); ok {
		dt.lastValidDateTime = dateTime
		return true, nil
	}
	s, err := value.ToString()
	if err != nil {
		return false, err
	}
	return dt.isValidString(s), nil
}

type DecimalDatatype struct {
	*AbstractDatatype
}

func NewDecimalDatatype(xsdType *QNameContext) *DecimalDatatype {
	return &DecimalDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeDecimal, xsdType),
	}
}

func (dt *DecimalDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Decimal
}

type EnumerationDatatype struct {
	*AbstractDatatype
	dtEnumValues Datatype
	codingLength int
	enumValues   []Value
}

func NewEnumerationDatatype(enumValues []Value, dtEnumValues Datatype, xsdType *QNameContext) *EnumerationDatatype {
	bit := dtEnumValues.GetBuiltInType()
	if bit == BuiltInTypeQName || bit == BuiltInTypeEnumeration {
		panic("enumeration type values can't be of type Enumeration or QName")
	}
	return &EnumerationDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeEnumeration, xsdType),
		dtEnumValues:     dtEnumValues,
		enumValues:       enumValues,
		codingLength:     codingLength(len(enumValues)),
	}
}

func NewEnumerationDatatypeChecked(enumValues []Value, dtEnumValues Datatype, xsdType *QNameContext) (*EnumerationDatatype, error) {
	bit := dtEnumValues.GetBuiltInType()
	if bit == BuiltInTypeQName || bit == BuiltInTypeEnumeration {
		return nil, NewError(ErrMismatch, "enumeration type values can't be of type Enumeration or QName")
	}
	return &EnumerationDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeEnumeration, xsdType),
		dtEnumValues:     dtEnumValues,
		enumValues:       enumValues,
		codingLength:     codingLength(len(enumValues)),
	}, nil
}

func (dt *EnumerationDatatype) GetEnumValueDatatype() Datatype {
	return dt.dtEnumValues
}

func (dt *EnumerationDatatype) GetDatatypeID() DatatypeID {
	return dt.dtEnumValues.GetDatatypeID()
}

func (dt *EnumerationDatatype) GetEnumerationSize() int {
	return len(dt.enumValues)
}

func (dt *EnumerationDatatype) GetCodingLength() int {
	return dt.codingLength
}

func (dt *EnumerationDatatype) GetEnumValue(idx int) Value {
	if idx >= 0 && idx < len(dt.enumValues) {
		return dt.enumValues[idx]
	}
	return nil
}

type ExtendedStringDatatype struct {
	*AbstractDatatype
	lastValue      *string
	sharedStrings  []string
	grammarStrings EnumDatatype
}

func NewExtendedStringDatatype(xsdType *QNameContext) *ExtendedStringDatatype {
	return &ExtendedStringDatatype{
		AbstractDatatype: NewAbstractDatatypeWithWhiteSpace(BuiltInTypeExtendedString, xsdType, WhiteSpacePreserve),
		sharedStrings:    []string{},
	}
}

func NewExtendedStringDatatypeWithWhiteSpace(xsdType *QNameContext, whiteSpace WhiteSpace) *ExtendedStringDatatype {
	return &ExtendedStringDatatype{
		AbstractDatatype: NewAbstractDatatypeWithWhiteSpace(BuiltInTypeExtendedString, xsdType, whiteSpace),
		sharedStrings:    []string{},
	}
}

func (dt *ExtendedStringDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_EString
}

func (dt *ExtendedStringDatatype) SetSharedStrings(sharedStrings []string) {
	dt.sharedStrings = sharedStrings
}

func (dt *ExtendedStringDatatype) SetGrammarStrings(grammarStrings EnumDatatype) {
	dt.grammarStrings = grammarStrings
}

func (dt *ExtendedStringDatatype) GetGrammarStrings() EnumDatatype {
	return dt.grammarStrings
}

type FloatDatatype struct {
	*AbstractDatatype
}

func NewFloatDatatype(xsdType *QNameContext) *FloatDatatype {
	return &FloatDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeFloat, xsdType),
	}
}

func (dt *FloatDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Double
}

type IntegerDatatype struct {
	*AbstractDatatype
}

func NewIntegerDatatype(xsdType *QNameContext) *IntegerDatatype {
	return &IntegerDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeInteger, xsdType),
	}
}

func (dt *IntegerDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Integer
}

type ListDatatype struct {
	*AbstractDatatype
	listDatatype Datatype
}

func NewListDatatype(listDatatype Datatype, xsdType *QNameContext) *ListDatatype {
	if listDatatype.GetBuiltInType() == BuiltInTypeList {
		panic("list type values can't be of type List")
	}
	return &ListDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeList, xsdType),
		listDatatype:     listDatatype,
	}
}

func NewListDatatypeChecked(listDatatype Datatype, xsdType *QNameContext) (*ListDatatype, error) {
	if listDatatype.GetBuiltInType() == BuiltInTypeList {
		return nil, NewError(ErrMismatch, "list type values can't be of type List")
	}
	return &ListDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeList, xsdType),
		listDatatype:     listDatatype,
	}, nil
}

func (dt *ListDatatype) GetDatatypeID() DatatypeID {
	return dt.listDatatype.GetDatatypeID()
}

func (dt *ListDatatype) GetListDatatype() Datatype {
	return dt.listDatatype
}

type NBitUnsignedIntegerDatatype struct {
	*AbstractDatatype
	lowerBound         *IntegerValue
	upperBound         *IntegerValue
	numberOfBits4Range int
}

func NewNBitUnsignedIntegerDatatype(lowerBound *IntegerValue, upperBound *IntegerValue, xsdType *QNameContext) *NBitUnsignedIntegerDatatype {
	diff := upperBound.Sub(lowerBound)

	return &NBitUnsignedIntegerDatatype{
		AbstractDatatype:   NewAbstractDatatype(BuiltInTypeNBitUnsignedInteger, xsdType),
		lowerBound:         lowerBound,
		upperBound:         upperBound,
		numberOfBits4Range: codingLength(diff.Value32() + 1),
	}
}

func (dt *NBitUnsignedIntegerDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Integer
}

func (dt *NBitUnsignedIntegerDatatype) GetLowerBound() *IntegerValue {
	return dt.lowerBound
}

func (dt *NBitUnsignedIntegerDatatype) GetUpperBound() *IntegerValue {
	return dt.upperBound
}

func (dt *NBitUnsignedIntegerDatatype) GetNumberOfBits() int {
	return dt.numberOfBits4Range
}

type RestrictedCharacterSetDatatype struct {
	*AbstractDatatype
	rcs RestrictedCharacterSet
}

func NewRestrictedCharacterSetDatatype(rcs RestrictedCharacterSet, xsdType *QNameContext) *RestrictedCharacterSetDatatype {
	return &RestrictedCharacterSetDatatype{
		AbstractDatatype: NewAbstractDatatypeWithWhiteSpace(BuiltInTypeRcsString, xsdType, WhiteSpacePreserve),
		rcs:              rcs,
	}
}

func NewRestrictedCharacterSetDatatypeWithWhiteSpace(rcs RestrictedCharacterSet, xsdType *QNameContext, whiteSpace WhiteSpace) *RestrictedCharacterSetDatatype {
	return &RestrictedCharacterSetDatatype{
		AbstractDatatype: NewAbstractDatatypeWithWhiteSpace(BuiltInTypeRcsString, xsdType, whiteSpace),
		rcs:              rcs,
	}
}

func (dt *RestrictedCharacterSetDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_String
}

func (dt *RestrictedCharacterSetDatatype) GetRestrictedCharacterSet() RestrictedCharacterSet {
	return dt.rcs
}

type StringDatatype struct {
	*AbstractDatatype
	isDerivedByUnion bool
}

func NewStringDatatypeWithDerive(xsdType *QNameContext, isDerivedByUnion bool) *StringDatatype {
	return &StringDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeString, xsdType),
		isDerivedByUnion: isDerivedByUnion,
	}
}

func NewStringDatatypeWithWhiteSpace(xsdType *QNameContext, whiteSpace WhiteSpace) *StringDatatype {
	dt := NewStringDatatypeWithDerive(xsdType, false)
	dt.whiteSpace = whiteSpace
	return dt
}

func NewStringDatatype(xsdType *QNameContext) *StringDatatype {
	return NewStringDatatypeWithWhiteSpace(xsdType, WhiteSpacePreserve)
}

func (ad *StringDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_String
}

func (ad *StringDatatype) IsDerivedByUnion() bool {
	return ad.isDerivedByUnion
}

type UnsignedIntegerDatatype struct {
	*AbstractDatatype
}

func NewUnsignedIntegerDatatype(xsdType *QNameContext) *UnsignedIntegerDatatype {
	return &UnsignedIntegerDatatype{
		AbstractDatatype: NewAbstractDatatype(BuiltInTypeUnsignedInteger, xsdType),
	}
}

func (dt *UnsignedIntegerDatatype) GetDatatypeID() DatatypeID {
	return DataTypeID_EXI_Integer
}
