package exi

type StringValue struct {
	*AbstractValue
	characters *[]rune
	sValue     *string
}

func NewStringValueFromSlice(ch []rune) *StringValue {
	return &StringValue{
		AbstractValue: NewAbstractValue(ValueTypeString),
		characters:    &ch,
		sValue:        nil,
	}
}

func NewStringValueFromString(s string) *StringValue {
	return &StringValue{
		AbstractValue: NewAbstractValue(ValueTypeString),
		characters:    nil,
		sValue:        &s,
	}
}

func (sv *StringValue) checkCharacters() {
	if sv.characters == nil {
		sv.characters = ptrTo([]rune(*sv.sValue))
	}
}

func (sv *StringValue) GetCharactersLength() (int, error) {
	sv.checkCharacters()
	return len(*sv.characters), nil
}

func (sv *StringValue) GetCharacters() ([]rune, error) {
	sv.checkCharacters()
	return *sv.characters, nil
}

func (sv *StringValue) FillCharactersBuffer(buffer []rune, offset int) error {
	if offset+len(*sv.characters) > len(buffer) {
		return NewError(ErrOOB, "buffer index out of bounds")
	}

	sv.checkCharacters()
	copy(buffer[offset:], *sv.characters)
	return nil
}

func (sv *StringValue) ToString() (string, error) {
	if sv.sValue == nil {
		sv.sValue = ptrTo(string(*sv.characters))
	}
	return *sv.sValue, nil
}

func (sv *StringValue) BufferToString(buffer []rune, offset int) (string, error) {
	return sv.ToString()
}

func (sv *StringValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	if sv == o {
		return true
	} else {
		vs, err := sv.ToString()
		if err != nil {
			return false
		}

		os, err := o.ToString()
		if err != nil {
			return false
		}

		return vs == os
	}
}
