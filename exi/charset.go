package exi

import (
	"maps"
	"slices"
)

// RestrictedCharacterSet maps between UCS code points and their
// ordinal codes within a restricted set.
type RestrictedCharacterSet interface {
	GetCodePoint(code int) (int, error)
	GetCode(codePoint int) int
	GetSize() int
	GetCodingLength() int
}

// AbstractRestrictedCharacterSet stores the set sorted by code point;
// a member is coded as its ordinal, a non-member as N followed by its
// code point as an Unsigned Integer.
type AbstractRestrictedCharacterSet struct {
	RestrictedCharacterSet
	codeSet       map[int]int
	codePointList []int
	size          int
	codingLength  int
}

func newAbstractRestrictedCharacterSet() *AbstractRestrictedCharacterSet {
	return &AbstractRestrictedCharacterSet{
		codeSet:       map[int]int{},
		codePointList: []int{},
	}
}

func (rcs *AbstractRestrictedCharacterSet) GetCodePoint(code int) (int, error) {
	if code < 0 || code >= len(rcs.codePointList) {
		return -1, NewError(ErrOOB, "restricted character set code out of range")
	}
	return rcs.codePointList[code], nil
}

func (rcs *AbstractRestrictedCharacterSet) GetCode(codePoint int) int {
	if code, exists := rcs.codeSet[codePoint]; exists {
		return code
	}
	return NotFound
}

func (rcs *AbstractRestrictedCharacterSet) GetSize() int {
	return rcs.size
}

func (rcs *AbstractRestrictedCharacterSet) GetCodingLength() int {
	return rcs.codingLength
}

func (rcs *AbstractRestrictedCharacterSet) addValue(codePoint int) {
	if _, exists := rcs.codeSet[codePoint]; exists {
		return
	}
	rcs.codeSet[codePoint] = len(rcs.codePointList)
	rcs.codePointList = append(rcs.codePointList, codePoint)
	rcs.size = len(rcs.codePointList)
	rcs.codingLength = codingLength(rcs.size + 1)
}

// addRange adds every code point in [lo, hi], inclusive, in ascending order.
func (rcs *AbstractRestrictedCharacterSet) addRange(lo, hi rune) {
	for r := lo; r <= hi; r++ {
		rcs.addValue(int(r))
	}
}

// addRunes adds each rune given, in order.
func (rcs *AbstractRestrictedCharacterSet) addRunes(runes ...rune) {
	for _, r := range runes {
		rcs.addValue(int(r))
	}
}

const (
	xsdWhitespaceTab   = '\t'
	xsdWhitespaceNL    = '\n'
	xsdWhitespaceCR    = '\r'
	xsdWhitespaceSpace = ' '
)

// addXSDWhitespace adds the four whitespace code points every XSD
// restricted character set production below opens with: #x9, #xA, #xD,
// #x20.
func (rcs *AbstractRestrictedCharacterSet) addXSDWhitespace() {
	rcs.addRunes(xsdWhitespaceTab, xsdWhitespaceNL, xsdWhitespaceCR, xsdWhitespaceSpace)
}

type CodePointCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewCodePointCharacterSet(codePoints map[int]struct{}) *CodePointCharacterSet {
	cs := &CodePointCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	sortedCodePoints := slices.Collect(maps.Keys(codePoints))
	slices.Sort(sortedCodePoints)

	for _, codePoint := range sortedCodePoints {
		cs.addValue(codePoint)
	}

	return cs
}

/*
	XSDBase64CharacterSet implementation

	xsd:base64Binary { #x9, #xA, #xD, #x20, +, /, [0-9], =, [A-Z], [a-z] }
*/

type XSDBase64CharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDBase64CharacterSet() *XSDBase64CharacterSet {
	cs := &XSDBase64CharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRunes('+', '/')
	cs.addRange('0', '9')
	cs.addRunes('=')
	cs.addRange('A', 'Z')
	cs.addRange('a', 'z')

	return cs
}

/*
	XSDBooleanCharacterSet implementation

	xsd:boolean { #x9, #xA, #xD, #x20, 0, 1, a, e, f, l, r, s, t, u }
*/

type XSDBooleanCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDBooleanCharacterSet() *XSDBooleanCharacterSet {
	cs := &XSDBooleanCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRunes('0', '1', 'a', 'e', 'f', 'l', 'r', 's', 't', 'u')

	return cs
}

/*
	XSDDateTimeCharacterSet implementation

	xsd:dateTime { #x9, #xA, #xD, #x20, +, -, ., [0-9], :, T, Z }
*/

type XSDDateTimeCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDDateTimeCharacterSet() *XSDDateTimeCharacterSet {
	cs := &XSDDateTimeCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRunes('+', '-', '.')
	cs.addRange('0', '9')
	cs.addRunes(':', 'T', 'Z')

	return cs
}

/*
	XSDDecimalCharacterSet implementation

	xsd:decimal { #x9, #xA, #xD, #x20, +, -, ., [0-9] }
*/

type XSDDecimalCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDDecimalCharacterSet() *XSDDecimalCharacterSet {
	cs := &XSDDecimalCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRunes('+', '-', '.')
	cs.addRange('0', '9')

	return cs
}

/*
	XSDDoubleCharacterSet implementation

	xsd:double { #x9, #xA, #xD, #x20, +, -, ., [0-9], E, F, I, N, a, e }
*/

type XSDDoubleCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDDoubleCharacterSet() *XSDDoubleCharacterSet {
	cs := &XSDDoubleCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRunes('+', '-', '.')
	cs.addRange('0', '9')
	cs.addRunes('E', 'F', 'I', 'N', 'a', 'e')

	return cs
}

/*
	XSDHexBinaryCharacterSet implementation

	xsd:hexBinary { #x9, #xA, #xD, #x20, [0-9], [A-F], [a-f] }
*/

type XSDHexBinaryCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDHexBinaryCharacterSet() *XSDHexBinaryCharacterSet {
	cs := &XSDHexBinaryCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRange('0', '9')
	cs.addRange('A', 'F')
	cs.addRange('a', 'f')

	return cs
}

/*
	XSDIntegerCharacterSet implementation

	xsd:integer { #x9, #xA, #xD, #x20, +, -, [0-9] }
*/

type XSDIntegerCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDIntegerCharacterSet() *XSDIntegerCharacterSet {
	cs := &XSDIntegerCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}

	cs.addXSDWhitespace()
	cs.addRunes('+', '-')
	cs.addRange('0', '9')

	return cs
}

type XSDStringCharacterSet struct {
	*AbstractRestrictedCharacterSet
}

func NewXSDStringCharacterSet() *XSDStringCharacterSet {
	return &XSDStringCharacterSet{
		AbstractRestrictedCharacterSet: newAbstractRestrictedCharacterSet(),
	}
}
