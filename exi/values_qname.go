package exi

type QNameValue struct {
	*AbstractValue
	namespaceURI string
	localName    string
	prefix       *string
	characters   *[]rune
	sValue       string
}

func NewQNameValue(uri, lname string, prefix *string) *QNameValue {
	var sValue string
	if prefix == nil || len(*prefix) == 0 {
		sValue = lname
	} else {
		sValue = *prefix + ":" + lname
	}

	return &QNameValue{
		AbstractValue: NewAbstractValue(ValueTypeQName),
		namespaceURI: uri,
		localName:    lname,
		prefix:        prefix,
		characters:    nil,
		sValue:        sValue,
	}
}

func (qv *QNameValue) GetNamespaceURI() string {
	return qv.namespaceURI
}

func (qv *QNameValue) GetLocalName() string {
	return qv.localName
}

func (qv *QNameValue) GetPrefix() *string {
	return qv.prefix
}

func (qv *QNameValue) GetCharactersLength() (int, error) {
	return len(qv.sValue), nil
}

func (qv *QNameValue) FillCharactersBuffer(buffer []rune, offset int) error {
	if qv.characters == nil {
		qv.characters = ptrTo([]rune(qv.sValue))
		copy(buffer[offset:], *qv.characters)
	}

	return nil
}

func (qv *QNameValue) ToString() (string, error) {
	return qv.sValue, nil
}

func (qv *QNameValue) BufferToString(buffer []rune, offset int) (string, error) {
	return qv.sValue, nil
}

func (qv *QNameValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	oi, ok := o.(*QNameValue)
	if ok {
		return qv.namespaceURI == oi.namespaceURI && qv.localName == oi.localName
	} else {
		return false
	}
}

