package exi

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	ZeroIntegerValue = NewIntegerValue32(0)
	MinValue32       = big.NewInt(int64(math.MinInt32))
	MaxValue32       = big.NewInt(int64(math.MaxInt32))
	MinValue64       = big.NewInt(math.MinInt64)
	MaxValue64       = big.NewInt(math.MaxInt64)
)

// IntegerValueType tags which of the three widths an IntegerValue
// holds; values are promoted to the narrowest width that fits.
type IntegerValueType int

const (
	IntegerValue32 = iota
	IntegerValue64
	IntegerValueBig
)

// IntegerValue is an EXI Integer in one of three representations:
// int for values fitting 32 bits, int64, or big.Int beyond that.
type IntegerValue struct {
	*AbstractValue
	ival     int
	lval     int64
	iValType IntegerValueType
	bval     *big.Int
}

func NewIntegerValue32(ival int) *IntegerValue {
	av := NewAbstractValue(ValueTypeInteger)
	iv := &IntegerValue{
		AbstractValue: av,
		ival:          ival,
		iValType:      IntegerValue32,
	}
	av.Value = iv
	return iv
}

func NewIntegerValue64(lval int64) *IntegerValue {
	av := NewAbstractValue(ValueTypeInteger)
	iv := &IntegerValue{
		AbstractValue: av,
		iValType:      IntegerValue64,
		lval:          lval,
	}
	av.Value = iv
	return iv
}

func NewIntegerValueBig(bval big.Int) *IntegerValue {
	av := NewAbstractValue(ValueTypeInteger)
	iv := &IntegerValue{
		AbstractValue: av,
		iValType:      IntegerValueBig,
		bval:          &bval,
	}
	av.Value = iv
	return iv
}

func integerValueGetAdjustedValue(val string) string {
	val = strings.TrimSpace(val)
	if len(val) > 0 && val[0] == '+' {
		val = val[1:]
	}
	return val
}

func IntegerValueParse(val string) (*IntegerValue, error) {
	val = integerValueGetAdjustedValue(val)
	l := len(val)

	if l > 0 {
		if val[0] == '-' {
			if l < 11 {
				i, err := strconv.ParseInt(val, 10, 32)
				if err != nil {
					return nil, err
				}
				return NewIntegerValue32(int(i)), nil
			} else if l < 20 {
				l, err := strconv.ParseInt(val, 10, 64)
				if err != nil {
					return nil, err
				}
				return NewIntegerValue64(l), nil
			} else {
				b := new(big.Int)
				b, ok := b.SetString(val, 10)
				if !ok {
					return nil, NewError(ErrInvalidEXIInput, "not a number")
				}
				return NewIntegerValueBig(*b), nil
			}
		} else {
			if l < 10 {
				i, err := strconv.ParseInt(val, 10, 32)
				if err != nil {
					return nil, err
				}
				return NewIntegerValue32(int(i)), nil
			} else if l < 19 {
				l, err := strconv.ParseInt(val, 10, 64)
				if err != nil {
					return nil, err
				}
				return NewIntegerValue64(l), nil
			} else {
				b := new(big.Int)
				b, ok := b.SetString(val, 10)
				if !ok {
					return nil, NewError(ErrInvalidEXIInput, "not a number")
				}
				return NewIntegerValueBig(*b), nil
			}
		}
	} else {
		return nil, NewError(ErrInvalidEXIInput, "not a number")
	}
}

func IntegerValueOf32(ival int) *IntegerValue {
	return NewIntegerValue32(ival)
}

// IntegerValueOf64 demotes to the 32-bit representation when the value
// fits.
func IntegerValueOf64(lval int64) *IntegerValue {
	if lval < math.MinInt32 || lval > math.MaxInt32 {
		return NewIntegerValue64(lval)
	}
	return NewIntegerValue32(int(lval))
}

// IntegerValueOfBig demotes to the narrowest representation that holds
// the value.
func IntegerValueOfBig(bval big.Int) *IntegerValue {
	if bval.Cmp(MinValue32) >= 0 && bval.Cmp(MaxValue32) <= 0 {
		return NewIntegerValue32(int(bval.Int64()))
	}
	if bval.Cmp(MinValue64) >= 0 && bval.Cmp(MaxValue64) <= 0 {
		return NewIntegerValue64(bval.Int64())
	}
	return NewIntegerValueBig(bval)
}

func (iv *IntegerValue) GetIntegerValueType() IntegerValueType {
	return iv.iValType
}

// decimalString renders the value through strconv; math/big covers the
// arbitrary-precision representation.
func (iv *IntegerValue) decimalString() string {
	switch iv.iValType {
	case IntegerValue32:
		return strconv.Itoa(iv.ival)
	case IntegerValue64:
		return strconv.FormatInt(iv.lval, 10)
	case IntegerValueBig:
		return iv.bval.String()
	default:
		return ""
	}
}

func (iv *IntegerValue) GetCharactersLength() (int, error) {
	if iv.sLen == -1 {
		iv.sLen = len(iv.decimalString())
	}

	return iv.sLen, nil
}

func (iv *IntegerValue) FillCharactersBuffer(buffer []rune, offset int) error {
	sval := iv.decimalString()

	if len(buffer) < offset+len(sval) {
		return NewError(ErrInvalidConfig, "buffer size is smaller than characters length")
	}

	copy(buffer[offset:], []rune(sval))

	return nil
}

func (iv *IntegerValue) Value32() int {
	switch iv.iValType {
	case IntegerValue32:
		return iv.ival
	case IntegerValue64:
		return int(iv.lval)
	case IntegerValueBig:
		return int(iv.bval.Int64())
	}
	panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
}

func (iv *IntegerValue) Value64() int64 {
	switch iv.iValType {
	case IntegerValue32:
		return int64(iv.ival)
	case IntegerValue64:
		return iv.lval
	case IntegerValueBig:
		return iv.bval.Int64()
	}
	panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
}

func (iv *IntegerValue) ValueBig() *big.Int {
	switch iv.iValType {
	case IntegerValue32:
		return big.NewInt(int64(iv.ival))
	case IntegerValue64:
		return big.NewInt(iv.lval)
	case IntegerValueBig:
		return iv.bval
	}
	panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
}

func (iv *IntegerValue) IsPositive() bool {
	switch iv.iValType {
	case IntegerValue32:
		return iv.ival >= 0
	case IntegerValue64:
		return iv.lval >= 0
	case IntegerValueBig:
		return iv.bval.Sign() >= 0
	}
	panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
}

func (iv *IntegerValue) Add(o *IntegerValue) *IntegerValue {
	if o.equals(ZeroIntegerValue) {
		return iv
	}

	switch iv.iValType {
	case IntegerValue32:
		switch o.iValType {
		case IntegerValue32:
			return NewIntegerValue32(iv.ival + o.ival)
		case IntegerValue64:
			return IntegerValueOf64(int64(iv.ival) + o.lval)
		case IntegerValueBig:
			parsed := big.NewInt(int64(iv.ival))
			parsed = parsed.Add(parsed, o.bval)
			return IntegerValueOfBig(*parsed)
		default:
			return nil
		}
	case IntegerValue64:
		switch o.iValType {
		case IntegerValue32:
			return NewIntegerValue64(iv.lval + int64(o.ival))
		case IntegerValue64:
			return IntegerValueOf64(iv.lval + o.lval)
		case IntegerValueBig:
			parsed := big.NewInt(iv.lval)
			parsed = parsed.Add(parsed, o.bval)
			return IntegerValueOfBig(*parsed)
		default:
			return nil
		}
	case IntegerValueBig:
		switch o.iValType {
		case IntegerValue32:
			parsed := big.NewInt(int64(o.ival))
			parsed = parsed.Add(iv.bval, parsed)
			return NewIntegerValueBig(*parsed)
		case IntegerValue64:
			parsed := big.NewInt(o.lval)
			parsed = parsed.Add(iv.bval, parsed)
			return IntegerValueOfBig(*parsed)
		case IntegerValueBig:
			tmp := *iv.bval
			parsed := tmp.Add(iv.bval, o.bval)
			return IntegerValueOfBig(*parsed)
		default:
			return nil
		}
	default:
		panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
	}
}

func (iv *IntegerValue) Sub(o *IntegerValue) *IntegerValue {
	if o.equals(ZeroIntegerValue) {
		return iv
	}

	switch iv.iValType {
	case IntegerValue32:
		switch o.iValType {
		case IntegerValue32:
			return NewIntegerValue32(iv.ival - o.ival)
		case IntegerValue64:
			return IntegerValueOf64(int64(iv.ival) - o.lval)
		case IntegerValueBig:
			parsed := big.NewInt(int64(iv.ival))
			parsed = parsed.Sub(parsed, o.bval)
			return IntegerValueOfBig(*parsed)
		default:
			return nil
		}
	case IntegerValue64:
		switch o.iValType {
		case IntegerValue32:
			return NewIntegerValue64(iv.lval - int64(o.ival))
		case IntegerValue64:
			return IntegerValueOf64(iv.lval - o.lval)
		case IntegerValueBig:
			parsed := big.NewInt(iv.lval)
			parsed = parsed.Sub(parsed, o.bval)
			return IntegerValueOfBig(*parsed)
		default:
			return nil
		}
	case IntegerValueBig:
		switch o.iValType {
		case IntegerValue32:
			parsed := big.NewInt(int64(o.ival))
			parsed = parsed.Sub(iv.bval, parsed)
			return NewIntegerValueBig(*parsed)
		case IntegerValue64:
			parsed := big.NewInt(o.lval)
			parsed = parsed.Sub(iv.bval, parsed)
			return IntegerValueOfBig(*parsed)
		case IntegerValueBig:
			tmp := *iv.bval
			parsed := tmp.Sub(iv.bval, o.bval)
			return IntegerValueOfBig(*parsed)
		default:
			return nil
		}
	default:
		panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
	}
}

func (v *IntegerValue) Equals(o Value) bool {
	if o == nil {
		return false
	}
	parsed, ok := o.(*IntegerValue)
	if !ok {
		return false
	}
	iv, err := IntegerValueParse(parsed.String())
	if err != nil {
		return false
	}
	return v.equals(iv)
}

func (iv *IntegerValue) equals(o *IntegerValue) bool {
	if o == nil || iv.iValType != o.iValType {
		return false
	}

	switch iv.iValType {
	case IntegerValue32:
		return iv.ival == o.ival
	case IntegerValue64:
		return iv.lval == o.lval
	case IntegerValueBig:
		return iv.bval.Cmp(o.bval) == 0
	}

	return false
}

func (iv *IntegerValue) String() string {
	switch iv.iValType {
	case IntegerValue32:
		return strconv.FormatInt(int64(iv.ival), 10)
	case IntegerValue64:
		return strconv.FormatInt(iv.lval, 10)
	case IntegerValueBig:
		return iv.bval.String()
	}
	panic(fmt.Sprintf("unexpected integer value: %d", iv.iValType))
}

/*
 * Returns a negative integer, zero, or a positive integer as this
 * object is less than, equal to, or greater than the specified object.
 */
func (iv *IntegerValue) Cmp(o *IntegerValue) int {
	switch iv.iValType {
	case IntegerValue32:
		switch o.iValType {
		case IntegerValue32:
			if iv.ival == o.ival {
				return 0
			} else if iv.ival < o.ival {
				return -1
			} else {
				return 1
			}
		case IntegerValue64, IntegerValueBig:
			return iv.ValueBig().Cmp(o.ValueBig())
		default:
			return -2
		}
	case IntegerValue64:
		switch o.iValType {
		case IntegerValue32:
			return iv.ValueBig().Cmp(o.ValueBig())
		case IntegerValue64:
			if iv.lval == o.lval {
				return 0
			} else if iv.lval < o.lval {
				return -1
			} else {
				return 1
			}
		case IntegerValueBig:
			return iv.ValueBig().Cmp(o.ValueBig())
		default:
			return -2
		}
	case IntegerValueBig:
		switch o.iValType {
		case IntegerValue32, IntegerValue64:
			return iv.ValueBig().Cmp(o.ValueBig())
		case IntegerValueBig:
			return iv.bval.Cmp(o.bval)
		default:
			return -2
		}
	default:
		return -2
	}
}

