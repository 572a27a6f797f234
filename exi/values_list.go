package exi

import (
	"strings"
)

type ListValue struct {
	*AbstractValue
	values         []Value
	listDatatype   Datatype
	numberOfValues int
}

func NewListValue(values []Value, listDatatype Datatype) *ListValue {
	av := NewAbstractValue(ValueTypeList)
	lv := &ListValue{
		AbstractValue:  av,
		values:         values,
		listDatatype:   listDatatype,
		numberOfValues: len(values),
	}
	av.Value = lv
	return lv
}

func ListValueParse(val string, listDatatype Datatype) (*ListValue, error) {
	tokens := strings.Fields(val)
	values := make([]Value, len(tokens))
	index := 0

	for _, token := range tokens {
		next := NewStringValueFromString(token)
		encoder, err := newTypedValueEncoder(nil, nil, nil)
		if err != nil {
			return nil, err
		}

		valid, err := encoder.IsValid(listDatatype, next)
		if err != nil {
			return nil, err
		}

		if valid {
			values[index] = next
			index++
		} else {
			return nil, nil
		}
	}

	return NewListValue(values, listDatatype), nil
}

func (lv *ListValue) GetNumberOfValues() int {
	return lv.numberOfValues
}

func (lv *ListValue) ToValues() []Value {
	return lv.values
}

func (lv *ListValue) GetListDatatype() Datatype {
	return lv.listDatatype
}

func (lv *ListValue) GetCharactersLength() (int, error) {
	if lv.sLen == -1 {
		lv.sLen = 0
		if len(lv.values) > 0 {
			lv.sLen = len(lv.values) - 1
		}

		vlen := len(lv.values)
		for i := 0; i < vlen; i++ {
			ilen, err := lv.values[i].GetCharactersLength()
			if err != nil {
				return -1, err
			}
			lv.sLen += ilen
		}
	}

	return lv.sLen, nil
}

func (lv *ListValue) FillCharactersBuffer(buffer []rune, offset int) error {
	if len(lv.values) > 0 {
		// fill buffer (except last item)

		var iVal Value
		vlenMinus1 := len(lv.values) - 1

		for i := 0; i < vlenMinus1; i++ {
			iVal = lv.values[i]

			if err := iVal.FillCharactersBuffer(buffer, offset); err != nil {
				return err
			}
			ilen, err := iVal.GetCharactersLength()
			if err != nil {
				return err
			}

			offset += ilen
			buffer[offset] = XSDListDelimChar
			offset++
		}

		// last item (no delimiter)
		iVal = lv.values[vlenMinus1]
		if err := iVal.FillCharactersBuffer(buffer, offset); err != nil {
			return err
		}
	}

	return nil
}

func (lv *ListValue) equals(o *ListValue) bool {
	if o == nil {
		return false
	}

	// datatype
	if lv.listDatatype.GetBuiltInType() != o.listDatatype.GetBuiltInType() {
		return false
	}

	if len(lv.values) != len(o.values) {
		return false
	}
	for i := range lv.values {
		if !lv.values[i].Equals(o.values[i]) {
			return false
		}
	}
	return true
}

func (v *ListValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	if other, ok := o.(*ListValue); ok {
		return v.equals(other)
	}
	s, err := o.ToString()
	if err != nil {
		return false
	}
	parsed, err := ListValueParse(s, v.listDatatype)
	if err != nil || parsed == nil {
		return false
	}
	return v.equals(parsed)
}

