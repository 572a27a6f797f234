package exi

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
)

// ValueType tags every concrete Value implementation.
type ValueType int

const (
	ValueTypeBinaryBase64 ValueType = iota
	ValueTypeBinaryHex
	ValueTypeBoolean
	ValueTypeDecimal
	ValueTypeFloat
	ValueTypeInteger
	ValueTypeDateTime
	ValueTypeString
	ValueTypeList
	ValueTypeQName
)

// Value is a typed EXI content item. Implementations render themselves
// to characters lazily; GetCharactersLength is cached after the first
// computation.
type Value interface {
	GetValueType() ValueType
	GetCharacters() ([]rune, error)
	FillCharactersBuffer(buffer []rune, offset int) error
	GetCharactersLength() (int, error)
	ToString() (string, error)
	BufferToString(buffer []rune, offset int) (string, error)
	Equals(o Value) bool
}

// AbstractValue supplies the character-rendering plumbing shared by all
// value kinds; sLen caches the rendered length (-1 until computed).
type AbstractValue struct {
	Value
	sLen      int
	valueType ValueType
}

func NewAbstractValue(valueType ValueType) *AbstractValue {
	return &AbstractValue{
		sLen:      -1,
		valueType: valueType,
	}
}

func (av *AbstractValue) GetValueType() ValueType {
	return av.valueType
}

func (av *AbstractValue) GetCharacters() ([]rune, error) {
	n, err := av.GetCharactersLength()
	if err != nil {
		return []rune{}, err
	}
	out := make([]rune, n)
	if err := av.FillCharactersBuffer(out, 0); err != nil {
		return []rune{}, err
	}
	return out, nil
}

func (av *AbstractValue) ToString() (string, error) {
	chars, err := av.GetCharacters()
	if err != nil {
		return "", err
	}
	return string(chars), nil
}

func (av *AbstractValue) BufferToString(dst []rune, at int) (string, error) {
	if err := av.FillCharactersBuffer(dst, at); err != nil {
		return "", err
	}
	n, err := av.GetCharactersLength()
	if err != nil {
		return "", err
	}
	return string(dst[at : at+n]), nil
}

// AbstractBinaryValue holds the raw octets behind the two binary value
// kinds.
type AbstractBinaryValue struct {
	*AbstractValue
	bytes []byte
}

func NewAbstractBinaryValue(valueType ValueType, data []byte) *AbstractBinaryValue {
	return &AbstractBinaryValue{
		AbstractValue: NewAbstractValue(valueType),
		bytes:         data,
	}
}

func (abv *AbstractBinaryValue) ToBytes() []byte {
	return abv.bytes
}

func (abv *AbstractBinaryValue) equals(other []byte) bool {
	return bytes.Equal(abv.bytes, other)
}

// BinaryBase64Value is an xsd:base64Binary content item.
type BinaryBase64Value struct {
	*AbstractBinaryValue
	fewerThan24bits int
	numberTriplets  int
	numberQuartet   int
}

func NewBinaryBase64Value(data []byte) *BinaryBase64Value {
	abv := NewAbstractBinaryValue(ValueTypeBinaryBase64, data)
	b64 := &BinaryBase64Value{
		AbstractBinaryValue: abv,
	}
	abv.Value = b64
	return b64
}

func BinaryBase64ValueParse(val string) *BinaryBase64Value {
	data, err := base64.StdEncoding.DecodeString(val)
	if err != nil {
		return nil
	}
	return NewBinaryBase64Value(data)
}

func (b64 *BinaryBase64Value) GetCharactersLength() (int, error) {
	if b64.sLen == -1 {
		// base64 renders each started 24-bit group as 4 characters
		dataBits := len(b64.bytes) * 8
		if dataBits == 0 {
			b64.sLen = 0
		} else {
			b64.fewerThan24bits = dataBits % 24
			b64.numberTriplets = dataBits / 24
			b64.numberQuartet = b64.numberTriplets
			if b64.fewerThan24bits != 0 {
				b64.numberQuartet++
			}
			b64.sLen = b64.numberQuartet * 4
		}
	}
	return b64.sLen, nil
}

func (b64 *BinaryBase64Value) FillCharactersBuffer(dst []rune, at int) error {
	b64.GetCharactersLength()
	copy(dst[at:], []rune(base64.StdEncoding.EncodeToString(b64.bytes)))
	return nil
}

func (b64 *BinaryBase64Value) Equals(o Value) bool {
	if o == nil {
		return false
	}
	if other, ok := o.(*BinaryBase64Value); ok {
		return b64.equals(other.bytes)
	}
	s, err := o.ToString()
	if err != nil {
		return false
	}
	parsed := BinaryBase64ValueParse(s)
	return parsed != nil && b64.equals(parsed.bytes)
}

// BinaryHexValue is an xsd:hexBinary content item.
type BinaryHexValue struct {
	*AbstractBinaryValue
	lengthData int
}

func NewBinaryHexValue(data []byte) *BinaryHexValue {
	abv := NewAbstractBinaryValue(ValueTypeBinaryHex, data)
	bh := &BinaryHexValue{
		AbstractBinaryValue: abv,
		lengthData:          -1,
	}
	abv.Value = bh
	return bh
}

func BinaryHexValueParse(val string) *BinaryHexValue {
	data, err := hex.DecodeString(val)
	if err != nil {
		return nil
	}
	return NewBinaryHexValue(data)
}

func (bh *BinaryHexValue) GetCharactersLength() (int, error) {
	if bh.sLen == -1 {
		bh.lengthData = len(bh.bytes)
		bh.sLen = bh.lengthData * 2
	}
	return bh.sLen, nil
}

func (bh *BinaryHexValue) FillCharactersBuffer(dst []rune, at int) error {
	bh.GetCharactersLength()
	copy(dst[at:], []rune(hex.EncodeToString(bh.bytes)))
	return nil
}

func (bh *BinaryHexValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	if other, ok := o.(*BinaryHexValue); ok {
		return bh.equals(other.bytes)
	}
	s, err := o.ToString()
	if err != nil {
		return false
	}
	parsed := BinaryHexValueParse(s)
	return parsed != nil && bh.equals(parsed.bytes)
}
