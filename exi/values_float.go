package exi

import (
	"fmt"
	"math"
	"strings"
)

// The exponent sentinel -(2^14) marks the three special values; the
// mantissa then distinguishes INF (1), -INF (-1), and NaN (0).
var (
	FloatValueSpecialValues = IntegerValueOf32(FloatSpecialValues)
	FloatNegativeInfinity   = IntegerValueOf32(-1)
	FloatPositiveInfinity   = IntegerValueOf32(1)
	FloatNaN                = ZeroIntegerValue
)

// FloatValue is an EXI Float: mantissa and base-10 exponent, held in
// the canonical form of http://www.w3.org/TR/exi-c14n/#dt-float.
type FloatValue struct {
	*AbstractValue
	mantissa     *IntegerValue
	exponent     *IntegerValue
	slenMantissa int
	f            *float64
}

// NewFloatValue canonicalizes on construction: a zero mantissa forces a
// zero exponent (unless special), nonzero mantissas lose their trailing
// zeros (12300E0 becomes 123E2), and a special exponent with a mantissa
// other than +/-1 is normalized to NaN.
func NewFloatValue(mantissa, exponent *IntegerValue) *FloatValue {
	if ZeroIntegerValue.Equals(mantissa) {
		if !FloatValueSpecialValues.Equals(exponent) {
			exponent = ZeroIntegerValue
		}
	} else {
		lm := mantissa.Value64()
		le := exponent.Value64()
		modified := false
		for lm%10 == 0 {
			lm /= 10
			le++
			modified = true
		}
		if modified {
			mantissa = IntegerValueOf64(lm)
			exponent = IntegerValueOf64(le)
		}
	}

	if FloatValueSpecialValues.Equals(exponent) &&
		!FloatNegativeInfinity.Equals(mantissa) &&
		!FloatPositiveInfinity.Equals(mantissa) {
		mantissa = FloatNaN
	}

	av := NewAbstractValue(ValueTypeFloat)
	fv := &FloatValue{
		AbstractValue: av,
		mantissa:      mantissa,
		exponent:      exponent,
		slenMantissa:  -1,
	}
	av.Value = fv
	return fv
}

func NewFloatValueFrom64(mantissa, exponent int64) *FloatValue {
	return NewFloatValue(IntegerValueOf64(mantissa), IntegerValueOf64(exponent))
}

func FloatValueParseString(val string) (*FloatValue, error) {
	var sMantissa, sExponent int64
	val = strings.TrimSpace(val)

	if len(val) == 0 {
		return nil, NewError(ErrInvalidEXIInput, "empty string")
	} else if val == FloatInfinity {
		sMantissa = int64(FloatMantissaInfinity)
		sExponent = int64(FloatSpecialValues)
	} else if val == FloatMinusInfinity {
		sMantissa = int64(FloatMantissaMinusInfinity)
		sExponent = int64(FloatSpecialValues)
	} else if val == FloatNotANumber {
		sMantissa = int64(FloatMantissaNotANumber)
		sExponent = int64(FloatSpecialValues)
	} else {
		indexE := strings.Index(val, "E")
		if indexE == -1 {
			indexE = strings.Index(val, "e")
		}

		var c rune
		cbuf := []rune(val)

		c = cbuf[0]
		negative := (c == '-')

		lenMantissa := indexE
		if indexE == -1 {
			lenMantissa = len(cbuf)
		}
		startMantissa := 0
		if negative || c == '+' {
			startMantissa = 1
		}

		decPoint := false
		decimalDigits := 0
		sMantissa = 0
		sExponent = 0

		if lenMantissa == 0 {
			return nil, NewError(ErrInvalidEXIInput, "mantissa length is zero")
		}
		if indexE == len(cbuf)-1 {
			return nil, NewError(ErrInvalidEXIInput, "empty exponent")
		}

		for i := startMantissa; i < lenMantissa; i++ {
			c = cbuf[i]

			switch c {
			case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				sMantissa = 10*sMantissa + int64(c-'0')
				if decPoint {
					decimalDigits++
				}
			case '.':
				if decPoint {
					return nil, NewError(ErrInvalidEXIInput, "multiple decimal points")
				}
				decPoint = true
			default:
				return nil, NewError(ErrInvalidEXIInput, fmt.Sprintf("unexpected character in mantissa: %c", c))
			}
		}

		if sMantissa < 0 {
			if negative {
				if sMantissa != math.MinInt64 {
					return nil, NewError(ErrInvalidEXIInput, "mantissa overflow")
				}
			} else {
				return nil, NewError(ErrInvalidEXIInput, "mantissa overflow")
			}
		}

		if negative {
			sMantissa = (-1) * sMantissa
		}

		negativeExp := false
		if indexE != -1 {
			for i := indexE + 1; i < len(cbuf); i++ {
				c = cbuf[i]

				switch c {
				case '0':
					sExponent = 10 * sExponent
				case '1', '2', '3', '4', '5', '6', '7', '8', '9':
					sExponent = 10*sExponent + int64(c-'0')
				case '-':
					if negativeExp {
						return nil, NewError(ErrInvalidEXIInput, "multiple exponent sign")
					}
					negativeExp = true
				case '+':
					// skip
				default:
					return nil, NewError(ErrInvalidEXIInput, fmt.Sprintf("unexpected character in exponent: %c", c))
				}
			}
		}

		if negativeExp {
			sExponent = (-1) * sExponent
		}
		sExponent -= int64(decimalDigits)

		if sMantissa < FloatMantissaMinRange || sMantissa > FloatMantissaMaxRange ||
			sExponent < FloatExponentMinRange || sExponent > FloatExponentMaxRange {
			return nil, NewError(ErrInvalidEXIInput, "out of range")
		}
	}

	return NewFloatValueFrom64(sMantissa, sExponent), nil
}

func FloatValueParseFloat32(val float32) *FloatValue {
	var sMantissa, sExponent int

	if math.IsInf(float64(val), 0) || math.IsNaN(float64(val)) {
		// exponent val is -(2^14),
		// . the mantissa val 1 represents INF,
		// . the mantissa val -1 represents -INF
		// . any other mantissa val represents NaN
		if math.IsNaN(float64(val)) {
			sMantissa = FloatMantissaNotANumber
		} else if val < 0 {
			sMantissa = FloatMantissaMinusInfinity
		} else {
			sMantissa = FloatMantissaInfinity
		}
		// exponent (special val)
		sExponent = FloatSpecialValues // e == -(2^14)
	} else {
		// floating-point according to the IEEE 754 floating-point
		// "single format" bit layout.
		sExponent = 0

		for val-float32(math.Trunc(float64(val))) != 0.0 {
			val *= 10
			sExponent--
		}
		sMantissa = int(math.Trunc(float64(val)))
	}

	return NewFloatValueFrom64(int64(sMantissa), int64(sExponent))
}

func FloatValueParseFloat64(val float64) *FloatValue {
	var sMantissa, sExponent int64

	if math.IsInf(val, 0) || math.IsNaN(val) {
		// exponent val is -(2^14),
		// . the mantissa val 1 represents INF,
		// . the mantissa val -1 represents -INF
		// . any other mantissa val represents NaN
		if math.IsNaN(val) {
			sMantissa = int64(FloatMantissaNotANumber)
		} else if val < 0 {
			sMantissa = int64(FloatMantissaMinusInfinity)
		} else {
			sMantissa = int64(FloatMantissaInfinity)
		}
		// exponent (special val)
		sExponent = int64(FloatSpecialValues) // e == -(2^14)
	} else {
		// floating-point according to the IEEE 754 floating-point
		// "double format" bit layout.
		sExponent = 0

		for val-math.Trunc(val) != 0.0 {
			val *= 10
			sExponent--
		}
		sMantissa = int64(math.Trunc(val))
	}

	return NewFloatValueFrom64(sMantissa, sExponent)
}

func (fv *FloatValue) GetMantissa() *IntegerValue {
	return fv.mantissa
}

func (fv *FloatValue) GetExponent() *IntegerValue {
	return fv.exponent
}

func (fv *FloatValue) ToFloat32() float32 {
	if fv.f == nil {
		fv.ToFloat64()
	}

	return float32(*fv.f)
}

func (fv *FloatValue) ToFloat64() float64 {
	if fv.f == nil {
		if fv.exponent.Equals(FloatValueSpecialValues) {
			if fv.mantissa.Equals(FloatNegativeInfinity) {
				fv.f = ptrTo(math.Inf(-1))
			} else if fv.mantissa.Equals(FloatPositiveInfinity) {
				fv.f = ptrTo(math.Inf(+1))
			} else {
				fv.f = ptrTo(math.NaN())
			}
		} else {
			// f = mantissa * (double) (Math.pow(10, exponent));
			lMantissa := fv.mantissa.Value64()
			lExponent := fv.exponent.Value64()

			fv.f = ptrTo(float64(lMantissa) * math.Pow(10, float64(lExponent)))
		}
	}

	return *fv.f
}

func (fv *FloatValue) GetCharactersLength() (int, error) {
	if fv.sLen == -1 {
		if fv.exponent.Equals(FloatValueSpecialValues) {
			if fv.mantissa.Equals(FloatNegativeInfinity) {
				fv.sLen = len(FloatMinusInfinityCharArray)
			} else if fv.mantissa.Equals(FloatPositiveInfinity) {
				fv.sLen = len(FloatInfinityCharArray)
			} else {
				if !fv.mantissa.Equals(FloatNaN) {
					return -1, NewError(ErrUnexpected, "special float with non-special mantissa")
				}
				fv.sLen = len(FloatNotANumberCharArray)
			}
		} else {
			// iMantissa + "E" + iExponent
			slenMantissa, err := fv.mantissa.GetCharactersLength()
			if err != nil {
				return -1, err
			}
			slenExponent, err := fv.exponent.GetCharactersLength()
			if err != nil {
				return -1, err
			}

			fv.slenMantissa = slenMantissa
			fv.sLen = slenMantissa + 1 + slenExponent
		}
	}

	return fv.sLen, nil
}

func (fv *FloatValue) FillCharactersBuffer(buffer []rune, offset int) error {
	if _, err := fv.GetCharactersLength(); err != nil {
		return err
	}

	if fv.exponent.Equals(FloatValueSpecialValues) {
		var a2copy []rune
		if fv.mantissa.Equals(FloatNegativeInfinity) {
			a2copy = FloatMinusInfinityCharArray
		} else if fv.mantissa.Equals(FloatPositiveInfinity) {
			a2copy = FloatInfinityCharArray
		} else {
			if !fv.mantissa.Equals(FloatNaN) {
				return NewError(ErrInvalidEXIInput, "NaN")
			}
			a2copy = FloatNotANumberCharArray
		}
		copy(buffer[offset:], a2copy)
	} else {
		if err := fv.mantissa.FillCharactersBuffer(buffer, offset); err != nil {
			return err
		}
		offset += +fv.slenMantissa
		buffer[offset] = 'E'
		offset++
		if err := fv.exponent.FillCharactersBuffer(buffer, offset); err != nil {
			return err
		}
	}

	return nil
}

func (fv *FloatValue) ToString() (string, error) {
	if fv.exponent.Equals(FloatValueSpecialValues) {
		if fv.mantissa.Equals(FloatNegativeInfinity) {
			return FloatMinusInfinity, nil
		} else if fv.mantissa.Equals(FloatPositiveInfinity) {
			return FloatInfinity, nil
		} else {
			if !fv.mantissa.Equals(FloatNaN) {
				return "", NewError(ErrInvalidEXIInput, "NaN")
			}
			return FloatNotANumber, nil
		}
	} else {
		len, err := fv.GetCharactersLength()
		if err != nil {
			return "", err
		}
		buffer := make([]rune, len)
		err = fv.FillCharactersBuffer(buffer, 0)
		if err != nil {
			return "", err
		}
		return string(buffer), nil
	}
}

func (fv *FloatValue) BufferToString(buffer []rune, offset int) (string, error) {
	if fv.exponent.Equals(FloatValueSpecialValues) {
		if fv.mantissa.Equals(FloatNegativeInfinity) {
			return FloatMinusInfinity, nil
		} else if fv.mantissa.Equals(FloatPositiveInfinity) {
			return FloatInfinity, nil
		} else {
			if !fv.mantissa.Equals(FloatNaN) {
				return "", NewError(ErrInvalidEXIInput, "NaN")
			}
			return FloatNotANumber, nil
		}
	} else {
		return fv.AbstractValue.BufferToString(buffer, offset)
	}
}

func (fv *FloatValue) multiply(a, b int64) (int64, error) {
	result := a * b
	if a != 0 && b != result/a {
		return -1, NewError(ErrInvalidEXIInput, "overflow")
	}
	return result, nil
}

func (fv *FloatValue) equals(o *FloatValue) bool {
	// e.g. 10E-1 vs. 1000E-3
	if fv.mantissa == o.mantissa && fv.exponent == o.exponent {
		return true
	} else {
		if fv.mantissa.Equals(o.mantissa) && fv.exponent.Equals(o.exponent) {
			return true
		} else {
			tExponent := fv.exponent.Value64()
			oExponent := o.exponent.Value64()
			tMantissa := fv.mantissa.Value64()
			oMantissa := o.mantissa.Value64()

			if tExponent > oExponent {
				// e.g. 234E2 vs. 2340E1
				diff := tExponent - oExponent
				for i := int64(0); i < diff; i++ {
					// tMantissa *= 10
					m, err := fv.multiply(tMantissa, 10)
					if err != nil {
						return false
					}
					tMantissa = m
				}
			} else {
				// e.g. 30E0 vs. 3E1
				diff := oExponent - tExponent
				for i := int64(0); i < diff; i++ {
					// oMantissa *= 10
					m, err := fv.multiply(oMantissa, 10)
					if err != nil {
						return false
					}
					oMantissa = m
				}
			}

			return tMantissa == oMantissa
		}
	}
}

func (fv *FloatValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	val, ok := o.(*FloatValue)
	if !ok {
		return false
	}
	return fv.equals(val)
}

