package exi

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloatValue_EqualsAcrossRepresentations(t *testing.T) {
	a, err := FloatValueParseString("12.34")
	require.NoError(t, err)
	b, err := FloatValueParseString("12.340")
	require.NoError(t, err)
	require.True(t, a.Equals(b))

	c, err := FloatValueParseString("1.5E2")
	require.NoError(t, err)
	d, err := FloatValueParseString("150")
	require.NoError(t, err)
	require.True(t, c.Equals(d))

	e, err := FloatValueParseString("1.5")
	require.NoError(t, err)
	require.False(t, c.Equals(e))
}

func TestFloatValue_SpecialValues(t *testing.T) {
	inf, err := FloatValueParseString("INF")
	require.NoError(t, err)
	s, err := inf.ToString()
	require.NoError(t, err)
	require.Equal(t, "INF", s)

	nan, err := FloatValueParseString("NaN")
	require.NoError(t, err)
	s, err = nan.ToString()
	require.NoError(t, err)
	require.Equal(t, "NaN", s)
}

func TestBooleanValue_FillExactBuffer(t *testing.T) {
	bv := BooleanValueParse("true")
	require.NotNil(t, bv)

	n, err := bv.GetCharactersLength()
	require.NoError(t, err)

	buf := make([]rune, n)
	require.NoError(t, bv.FillCharactersBuffer(buf, 0))
	require.Equal(t, "true", string(buf))

	require.Error(t, bv.FillCharactersBuffer(make([]rune, n-1), 0))
}

func TestEnumerationDatatype_LastValueReachable(t *testing.T) {
	vals := []Value{
		NewStringValueFromString("red"),
		NewStringValueFromString("green"),
		NewStringValueFromString("blue"),
	}
	ed := NewEnumerationDatatype(vals, NewStringDatatype(nil), nil)

	require.Equal(t, 3, ed.GetEnumerationSize())
	require.Equal(t, 2, ed.GetCodingLength())
	for i, want := range vals {
		require.Equal(t, want, ed.GetEnumValue(i))
	}
	require.Nil(t, ed.GetEnumValue(3))
	require.Nil(t, ed.GetEnumValue(-1))
}

func TestIntegerValue_NarrowestRepresentation(t *testing.T) {
	require.Equal(t, IntegerValueType(IntegerValue32), IntegerValueOf64(7).GetIntegerValueType())
	require.Equal(t, IntegerValueType(IntegerValue64), IntegerValueOf64(1<<40).GetIntegerValueType())

	small := big.NewInt(99)
	require.Equal(t, IntegerValueType(IntegerValue32), IntegerValueOfBig(*small).GetIntegerValueType())

	wide, ok := new(big.Int).SetString("98765432109876543210987654321", 10)
	require.True(t, ok)
	require.Equal(t, IntegerValueType(IntegerValueBig), IntegerValueOfBig(*wide).GetIntegerValueType())
}
