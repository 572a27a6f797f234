package exi

import (
	"fmt"
	"math/big"
	"strings"
	"github.com/cockroachdb/apd/v3"
	Text "github.com/linkdotnet/golang-stringbuilder"
)

var (
	BigDecimalOne = new(apd.Decimal).SetInt64(1)
)

// reverseString flips character order, used to parse/render the
// reverse-digit fractional part of a Decimal value.
func reverseString(s string) string {
	return Text.NewStringBuilderFromString(s).Reverse().ToString()
}

// apdToBigInt converts an apd.Decimal holding a whole number into a
// big.Int, rejecting anything with a nonzero fractional part.
func apdToBigInt(d *apd.Decimal) (*big.Int, error) {
	var integ, frac apd.Decimal
	d.Modf(&integ, &frac)
	if !frac.IsZero() {
		return nil, NewError(ErrInvalidEXIInput, fmt.Sprintf("%s: has fractional part", d.String()))
	}

	r, ok := new(big.Int).SetString(d.Text('f'), 10)
	if !ok {
		return nil, NewError(ErrInvalidEXIInput, fmt.Sprintf("%s is not an integer", d.String()))
	}

	return r, nil
}

// DecimalValue mirrors the wire form of an EXI Decimal: sign, integral
// part, and the fractional part with its digits reversed so leading
// zeros survive integer coding.
type DecimalValue struct {
	*AbstractValue
	negative      bool
	integral      *IntegerValue
	revFractional *IntegerValue
	bval          *apd.Decimal
}

func NewDecimalValue(negative bool, integral, revFractional *IntegerValue) *DecimalValue {
	// "-0.0" carries no sign on the wire
	if negative && ZeroIntegerValue.Equals(integral) && ZeroIntegerValue.Equals(revFractional) {
		negative = false
	}
	av := NewAbstractValue(ValueTypeDecimal)
	dv := &DecimalValue{
		AbstractValue: av,
		negative:      negative,
		integral:      integral,
		revFractional: revFractional,
	}
	av.Value = dv
	return dv
}

// DecimalValueParseBig splits an apd.Decimal into the wire components:
// sign, integral part, and reversed fractional digits.
func DecimalValueParseBig(decimal *apd.Decimal) (*DecimalValue, error) {
	negative := decimal.Sign() == -1
	if negative {
		decimal = decimal.Neg(decimal)
	}

	ctx := apd.BaseContext

	fractional := &apd.Decimal{}
	_, err := ctx.Rem(fractional, decimal, BigDecimalOne)
	if err != nil {
		return nil, err
	}
	fracS := fractional.String()
	revFractional, err := IntegerValueParse(reverseString(fracS[2:]))
	if err != nil {
		return nil, err
	}

	// integral part
	integral := &apd.Decimal{}
	_, err = ctx.Sub(integral, decimal, fractional)
	if err != nil {
		return nil, err
	}

	bint, err := apdToBigInt(integral)
	if err != nil {
		return nil, err
	}

	return NewDecimalValue(negative, IntegerValueOfBig(*bint), revFractional), nil
}

func DecimalValueParseString(decimal string) (*DecimalValue, error) {
	sNegative := false
	var sIntegral, sRevFractional *IntegerValue
	var err error
	decimal = strings.TrimSpace(decimal)

	if len(decimal) < 1 {
		return nil, NewError(ErrOOB, "buffer index out of bounds")
	}
	switch decimal[0] {
	case '-':
		sNegative = true
		decimal = decimal[1:]
	case '+':
		decimal = decimal[1:]
	}

	decPoint := strings.Index(decimal, ".")

	switch decPoint {
	case -1:
		// no decimal point at all
		sIntegral, err = IntegerValueParse(decimal)
		if err != nil {
			return nil, err
		}
		sRevFractional = ZeroIntegerValue
	case 0:
		if decPoint+1 >= len(decimal) {
			return nil, NewError(ErrOOB, "buffer index out of bounds")
		}
		// e.g. ".234"
		sIntegral = ZeroIntegerValue
		sRevFractional, err = IntegerValueParse(reverseString(decimal[decPoint+1:]))
		if err != nil {
			return nil, err
		}
	default:
		if decPoint+1 >= len(decimal) {
			return nil, NewError(ErrOOB, "buffer index out of bounds")
		}
		sIntegral, err = IntegerValueParse(decimal[:decPoint])
		if err != nil {
			return nil, err
		}
		sRevFractional, err = IntegerValueParse(reverseString(decimal[decPoint+1:]))
		if err != nil {
			return nil, err
		}
	}

	if sIntegral == nil || sRevFractional == nil {
		return nil, nil
	} else {
		return NewDecimalValue(sNegative, sIntegral, sRevFractional), nil
	}
}

func (dv *DecimalValue) IsNegative() bool {
	return dv.negative
}

func (dv *DecimalValue) GetIntegral() *IntegerValue {
	return dv.integral
}

func (dv *DecimalValue) GetRevFractional() *IntegerValue {
	return dv.revFractional
}

func (dv *DecimalValue) ToBigDecimal() (*apd.Decimal, error) {
	if dv.bval == nil {
		len, err := dv.GetCharactersLength()
		if err != nil {
			return nil, err
		}
		characters := make([]rune, len)
		err = dv.FillCharactersBuffer(characters, 0)
		if err != nil {
			return nil, err
		}
		dv.bval, _, err = apd.NewFromString(string(characters))
		if err != nil {
			return nil, err
		}
	}

	return dv.bval, nil
}

func (dv *DecimalValue) GetCharactersLength() (int, error) {
	if dv.sLen == -1 {
		// +12.34
		iLen, err := dv.integral.GetCharactersLength()
		if err != nil {
			return -1, err
		}
		revLen, err := dv.revFractional.GetCharactersLength()
		if err != nil {
			return -1, err
		}

		dv.sLen = iLen + 1 + revLen
		if dv.negative {
			dv.sLen++
		}
	}

	return dv.sLen, nil
}

func (dv *DecimalValue) FillCharactersBuffer(buffer []rune, offset int) error {
	// negative
	if dv.negative {
		buffer[offset] = '-'
		offset++
	}

	// integral
	err := dv.integral.FillCharactersBuffer(buffer, offset)
	if err != nil {
		return err
	}
	len, err := dv.integral.GetCharactersLength()
	if err != nil {
		return err
	}
	offset += len

	// dot
	buffer[offset] = '.'
	offset++

	// fractional: reverse digit order preserves leading zeros (EXI decimal
	// encoding), regardless of which IntegerValueType backs it.
	out := Text.NewStringBuilderFromString(dv.revFractional.decimalString())
	copy(buffer[offset:], []rune(out.Reverse().ToString()))

	return nil
}

func (dv *DecimalValue) equals(o *DecimalValue) bool {
	if o == nil {
		return false
	}
	return dv.negative == o.negative &&
		dv.integral.equals(o.integral) &&
		dv.revFractional.equals(o.revFractional)
}

func (v *DecimalValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	dv, ok := o.(*DecimalValue)
	if !ok {
		return false
	}
	return v.equals(dv)
}

