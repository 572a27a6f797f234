package exi

import (
	"fmt"
	"strings"
)

// The four lexical spellings of xsd:boolean are interned: two canonical
// values plus the four pattern-facet variants keyed by their 2-bit ID.
var (
	BooleanValueFalse = newBooleanValue(false)
	BooleanValueTrue  = newBooleanValue(true)
	BooleanValue0     = newBooleanValueForID(0)
	BooleanValue1     = newBooleanValueForID(1)
	BooleanValue2     = newBooleanValueForID(2)
	BooleanValue3     = newBooleanValueForID(3)
)

type BooleanValue struct {
	*AbstractValue
	b          bool
	characters []rune
	sValue     string
}

func newBooleanValue(b bool) *BooleanValue {
	bv := &BooleanValue{
		AbstractValue: NewAbstractValue(ValueTypeBoolean),
		b:             b,
		characters:    DecodedBooleanFalseArray,
		sValue:        DecodedBooleanFalse,
	}
	if b {
		bv.characters = DecodedBooleanTrueArray
		bv.sValue = DecodedBooleanTrue
	}
	return bv
}

func newBooleanValueForID(boolID int) *BooleanValue {
	bv := &BooleanValue{AbstractValue: NewAbstractValue(ValueTypeBoolean)}
	switch boolID {
	case 0:
		bv.characters, bv.sValue, bv.b = XSDBooleanFalseArray, XSDBooleanFalse, false
	case 1:
		bv.characters, bv.sValue, bv.b = XSDBoolean0Array, XSDBoolean0, false
	case 2:
		bv.characters, bv.sValue, bv.b = XSDBooleanTrueArray, XSDBooleanTrue, true
	case 3:
		bv.characters, bv.sValue, bv.b = XSDBoolean1Array, XSDBoolean1, true
	default:
		panic(fmt.Sprintf("unknown boolID: %d", boolID))
	}
	return bv
}

func GetBooleanValue(b bool) *BooleanValue {
	if b {
		return BooleanValueTrue
	}
	return BooleanValueFalse
}

func GetBooleanValueForID(boolID int) (*BooleanValue, error) {
	switch boolID {
	case 0:
		return BooleanValue0, nil
	case 1:
		return BooleanValue1, nil
	case 2:
		return BooleanValue2, nil
	case 3:
		return BooleanValue3, nil
	default:
		return nil, NewError(ErrInvalidEXIInput, fmt.Sprintf("boolean pattern facet ID out of range: %d", boolID))
	}
}

// BooleanValueParse accepts the four xsd:boolean lexical forms and
// returns nil for anything else.
func BooleanValueParse(val string) *BooleanValue {
	switch strings.TrimSpace(val) {
	case XSDBoolean0, XSDBooleanFalse:
		return BooleanValueFalse
	case XSDBoolean1, XSDBooleanTrue:
		return BooleanValueTrue
	default:
		return nil
	}
}

func (bv *BooleanValue) ToBoolean() bool {
	return bv.b
}

func (bv *BooleanValue) GetCharacters() ([]rune, error) {
	return bv.characters, nil
}

func (bv *BooleanValue) FillCharactersBuffer(buffer []rune, offset int) error {
	if offset+len(bv.characters) > len(buffer) {
		return NewError(ErrOOB, "buffer index out of bounds")
	}
	copy(buffer[offset:], bv.characters)
	return nil
}

func (bv *BooleanValue) GetCharactersLength() (int, error) {
	return len(bv.characters), nil
}

func (bv *BooleanValue) ToString() (string, error) {
	return bv.sValue, nil
}

func (bv *BooleanValue) BufferToString(buffer []rune, offset int) (string, error) {
	return bv.sValue, nil
}

func (bv *BooleanValue) Equals(o Value) bool {
	other, ok := o.(*BooleanValue)
	return ok && bv.b == other.b
}
