package exi

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
)

// MaxOctetsForLong bounds the 7-bit groups a 64-bit unsigned
// integer can span: a ninth continuation group signals a value that
// needs arbitrary precision.
const MaxOctetsForLong = 9

// maxUnsignedIntegerGroups caps the fixed-width UInt primitive at 8
// groups (56 payload bits); a continuation past that is malformed
// input, not a wider value.
const maxUnsignedIntegerGroups = 8

// DecoderChannel reads the EXI datatype representations of §7.1 from an
// underlying bit- or byte-aligned stream. Each Decode* method consumes
// exactly the octets/bits the wire format assigns to that datatype.
type DecoderChannel interface {
	// Decode consumes one octet.
	Decode() (int, error)

	// Align skips to the next octet boundary; a no-op when the channel
	// is already aligned (and always in byte mode).
	Align() error

	// Skip discards n octets.
	Skip(n int64) error

	// DecodeNBitUnsignedInteger reads an unsigned integer of fixed bit
	// width n (whole octets in byte mode).
	DecodeNBitUnsignedInteger(n int) (int, error)
	DecodeNBitUnsignedIntegerValue(n int) (*IntegerValue, error)

	// DecodeBoolean reads one bit (one octet in byte mode): 0 is false,
	// 1 is true.
	DecodeBoolean() (bool, error)
	DecodeBooleanValue() (*BooleanValue, error)

	// DecodeBinary reads a length-prefixed octet sequence.
	DecodeBinary() ([]byte, error)

	// DecodeString reads a length-prefixed sequence of code points, each
	// an Unsigned Integer.
	DecodeString() ([]rune, error)

	// DecodeStringOnly reads length code points when the prefix has
	// already been consumed (partition-hit string forms).
	DecodeStringOnly(length int) ([]rune, error)

	// DecodeUnsignedInteger reads a 7-bits-per-octet, continuation-bit
	// terminated non-negative integer.
	DecodeUnsignedInteger() (int, error)
	DecodeUnsignedIntegerValue() (*IntegerValue, error)

	// DecodeIntegerValue reads a sign bit followed by an Unsigned
	// Integer holding, for negative values, magnitude-1.
	DecodeIntegerValue() (*IntegerValue, error)

	// DecodeDecimalValue reads sign, integral part, and the fractional
	// part with reversed digits (leading zeros survive the reversal).
	DecodeDecimalValue() (*DecimalValue, error)

	// DecodeFloatValue reads mantissa and base-10 exponent, each an
	// Integer.
	DecodeFloatValue() (*FloatValue, error)

	// DecodeDateTimeValue reads the component sequence the given
	// date-time kind prescribes.
	DecodeDateTimeValue(kind DateTimeType) (*DateTimeValue, error)

	// LookAhead returns the next octet of the stream without consuming it.
	// Only meaningful while the header's bit-packed channel is still active.
	LookAhead() (int, error)
}

// EncoderChannel is the write-side dual of DecoderChannel: every
// Encode* method emits the exact §7.1 wire form its decoder counterpart
// consumes.
type EncoderChannel interface {
	Flush() error

	// GetLength reports the number of octets written so far.
	GetLength() int

	// Align pads to the next octet boundary; a no-op when already
	// aligned (and always in byte mode).
	Align() error
	Encode(b int) error
	EncodeBytes(b []byte, offset, length int) error
	EncodeNBitUnsignedInteger(b, n int) error

	// EncodeBoolean writes one bit (one octet in byte mode).
	EncodeBoolean(b bool) error

	// EncodeBinary writes a length-prefixed octet sequence.
	EncodeBinary(b []byte) error

	// EncodeString writes a length prefix followed by the code points.
	EncodeString(s string) error

	// EncodeStringOnly writes the code points alone, for the forms whose
	// length field carries the partition-miss offset.
	EncodeStringOnly(s string) error

	// EncodeUnsignedInteger writes the 7-bits-per-octet continuation
	// form of a non-negative integer.
	EncodeUnsignedInteger(n int) error
	EncodeUnsignedIntegerValue(iv *IntegerValue) error

	// EncodeInteger writes a sign bit, then the magnitude (minus one
	// when negative) as an Unsigned Integer.
	EncodeInteger(n int) error
	EncodeIntegerValue(iv *IntegerValue) error

	// EncodeDecimal writes sign, integral part, and reversed-digit
	// fractional part.
	EncodeDecimal(negative bool, integral, reverseFraction *IntegerValue) error

	// EncodeFloat writes mantissa then base-10 exponent.
	EncodeFloat(fv *FloatValue) error

	// EncodeDateTime writes the component sequence of the value's
	// date-time kind.
	EncodeDateTime(cal *DateTimeValue) error
}

// exiDecoderChannel is the sole DecoderChannel implementation. Which alignment
// mode is active is a run-time tag rather than a separate type: the datatype
// codec below (UInt, string, decimal, float, date-time) is identical in both
// modes and only the primitive octet/bit access differs, so it is expressed
// here as a two-variant switch on bitReader rather than as two parallel type
// hierarchies glued together by an embedded interface.
type exiDecoderChannel struct {
	bitReader  *BitReader    // set when this channel is bit-packed
	byteReader *bufio.Reader // set when this channel is byte-aligned

	// scratch for the 7-bit groups of a multi-octet unsigned integer
	maskedOctets []int
}

func newExiDecoderChannel() *exiDecoderChannel {
	return &exiDecoderChannel{
		maskedOctets: make([]int, MaxOctetsForLong),
	}
}

func NewBitDecoderChannel(reader *bufio.Reader) *exiDecoderChannel {
	c := newExiDecoderChannel()
	c.bitReader = NewBitReader(reader)
	return c
}

func NewByteDecoderChannel(reader *bufio.Reader) *exiDecoderChannel {
	c := newExiDecoderChannel()
	c.byteReader = reader
	return c
}

func (dc *exiDecoderChannel) isBitPacked() bool {
	return dc.bitReader != nil
}

func (dc *exiDecoderChannel) Decode() (int, error) {
	if dc.isBitPacked() {
		return dc.bitReader.Read()
	}

	b, err := dc.byteReader.ReadByte()
	if err == io.EOF {
		return -1, NewError(ErrOOB, "premature EOS found while reading data")
	}
	if err != nil {
		return -1, err
	}
	return int(b), nil
}

func (dc *exiDecoderChannel) Align() error {
	if dc.isBitPacked() {
		return dc.bitReader.Align()
	}
	return nil
}

func (dc *exiDecoderChannel) LookAhead() (int, error) {
	if dc.isBitPacked() {
		return dc.bitReader.LookAhead()
	}

	peeked, err := dc.byteReader.Peek(1)
	if err == io.EOF {
		return -1, NewError(ErrOOB, "premature EOS found while reading data")
	}
	if err != nil {
		return -1, err
	}
	return int(peeked[0]), nil
}

func (dc *exiDecoderChannel) Skip(n int64) error {
	if dc.isBitPacked() {
		return dc.bitReader.Skip(n)
	}

	for n != 0 {
		skipped, err := dc.byteReader.Discard(int(n))
		if err != nil {
			return err
		}
		n -= int64(skipped)
	}
	return nil
}

func (dc *exiDecoderChannel) DecodeNBitUnsignedInteger(n int) (int, error) {
	if n < 0 {
		return -1, NewError(ErrInvalidConfig, "length of NBit unsigned integer must have positive value")
	}

	if dc.isBitPacked() {
		if n == 0 {
			return 0, nil
		}
		return dc.bitReader.ReadBits(n)
	}

	bitsRead := 0
	result := 0

	for bitsRead < n {
		b, err := dc.Decode()
		if err != nil {
			return -1, err
		}
		result += b << bitsRead
		bitsRead += 8
	}

	return result, nil
}

func (dc *exiDecoderChannel) DecodeNBitUnsignedIntegerValue(n int) (*IntegerValue, error) {
	i, err := dc.DecodeNBitUnsignedInteger(n)
	if err != nil {
		return nil, err
	}
	return IntegerValueOf32(i), nil
}

func (dc *exiDecoderChannel) DecodeBoolean() (bool, error) {
	if dc.isBitPacked() {
		value, err := dc.bitReader.ReadBit()
		if err != nil {
			return false, err
		}
		return value == 1, nil
	}

	b, err := dc.Decode()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (dc *exiDecoderChannel) DecodeBooleanValue() (*BooleanValue, error) {
	b, err := dc.DecodeBoolean()
	if err != nil {
		return nil, err
	}
	if b {
		return BooleanValueTrue, nil
	}
	return BooleanValueFalse, nil
}

func (dc *exiDecoderChannel) DecodeBinary() ([]byte, error) {
	length, err := dc.DecodeUnsignedInteger()
	if err != nil {
		return []byte{}, err
	}
	result := make([]byte, length)

	if dc.isBitPacked() {
		if err := dc.bitReader.ReadToBuffer(result, 0, length); err != nil {
			return []byte{}, err
		}
		return result, nil
	}

	readBytes := 0
	for readBytes < length {
		read, err := dc.byteReader.Read(result[readBytes:length])
		if err == io.EOF {
			return []byte{}, NewError(ErrOOB, "premature EOS found while reading data")
		}
		if err != nil {
			return []byte{}, err
		}
		readBytes += read
	}

	return result, nil
}

func (dc *exiDecoderChannel) DecodeString() ([]rune, error) {
	len, err := dc.DecodeUnsignedInteger()
	if err != nil {
		return []rune{}, err
	}
	return dc.DecodeStringOnly(len)
}

func (dc *exiDecoderChannel) DecodeStringOnly(length int) ([]rune, error) {
	ca := make([]rune, length)

	for i := 0; i < length; i++ {
		codePoint, err := dc.DecodeUnsignedInteger()
		if err != nil {
			return []rune{}, err
		}
		if codePoint < 0 || codePoint >= 1<<21 {
			return []rune{}, NewError(ErrInvalidEXIInput, fmt.Sprintf("code point out of range: %d", codePoint))
		}
		ca[i] = rune(codePoint)
	}

	return ca, nil
}

func (dc *exiDecoderChannel) DecodeUnsignedInteger() (int, error) {
	result, err := dc.Decode()
	if err != nil {
		return -1, err
	}
	if result < 128 {
		// single-octet fast path
		return result, nil
	}

	// at most 8 groups of 7 bits; a continuation bit on the 8th group
	// marks a malformed stream
	result &= 127
	for group, shift := 2, 7; ; group, shift = group+1, shift+7 {
		b, err := dc.Decode()
		if err != nil {
			return -1, err
		}
		result += (b & 127) << shift
		if b < 128 {
			return result, nil
		}
		if group == maxUnsignedIntegerGroups {
			return -1, NewError(ErrInvalidEXIInput, "unsigned integer exceeds 8 groups")
		}
	}
}

func (dc *exiDecoderChannel) decodeInteger() (int, error) {
	neg, err := dc.DecodeBoolean()
	if err != nil {
		return -1, err
	}
	i, err := dc.DecodeUnsignedInteger()
	if err != nil {
		return -1, err
	}
	if neg {
		// the magnitude field carries |value|-1
		return -(i + 1), nil
	}
	return i, nil
}

func (dc *exiDecoderChannel) DecodeIntegerValue() (*IntegerValue, error) {
	b, err := dc.DecodeBoolean()
	if err != nil {
		return nil, err
	}
	return dc.decodeUnsignedIntegerValue(b)
}

func (dc *exiDecoderChannel) DecodeUnsignedIntegerValue() (*IntegerValue, error) {
	return dc.decodeUnsignedIntegerValue(false)
}

func (dc *exiDecoderChannel) decodeUnsignedIntegerValue(negative bool) (*IntegerValue, error) {
	var b int
	var err error

	for i := 0; i < MaxOctetsForLong; i++ {
		b, err = dc.Decode()
		if err != nil {
			return nil, err
		}
		if b >= 128 {
			// continuation bit set, more groups follow
			dc.maskedOctets[i] = b & 127
			continue
		}

		// last group: pick the narrowest value width that holds i+1
		// 7-bit groups (4 groups fit int32, 9 fit int64)
		switch i {
		case 0:
			if negative {
				return IntegerValueOf32(-(b + 1)), nil
			}
			return IntegerValueOf32(b), nil
		case 1, 2, 3:
			dc.maskedOctets[i] = b
			iResult := 0
			for k := i; k >= 0; k-- {
				iResult = (iResult << 7) | dc.maskedOctets[k]
			}
			if negative {
				return IntegerValueOf32(-(iResult + 1)), nil
			}
			return IntegerValueOf32(iResult), nil
		default:
			dc.maskedOctets[i] = b
			lResult := int64(0)
			for k := i; k >= 0; k-- {
				lResult = (lResult << 7) | int64(dc.maskedOctets[k])
			}
			if negative {
				return IntegerValueOf64(-(lResult + 1)), nil
			}
			return IntegerValueOf64(lResult), nil
		}
	}

	// ten or more groups: overflowed int64, accumulate into a big.Int,
	// starting with the groups already buffered
	bResult := big.NewInt(0)
	multiplier := big.NewInt(1)
	for i := 0; i < MaxOctetsForLong; i++ {
		bResult = bResult.Add(bResult, new(big.Int).Mul(multiplier, big.NewInt(int64(dc.maskedOctets[i]))))
		multiplier = multiplier.Lsh(multiplier, 7)
	}
	for {
		b, err = dc.Decode()
		if err != nil {
			return nil, err
		}
		bResult = bResult.Add(bResult, new(big.Int).Mul(multiplier, big.NewInt(int64(b&127))))
		multiplier = multiplier.Lsh(multiplier, 7)
		if b < 128 {
			break
		}
	}

	if negative {
		bResult = bResult.Add(bResult, big.NewInt(1)).Neg(bResult)
	}
	return IntegerValueOfBig(*bResult), nil
}

func (dc *exiDecoderChannel) DecodeDecimalValue() (*DecimalValue, error) {
	negative, err := dc.DecodeBoolean()
	if err != nil {
		return nil, err
	}

	integral, err := dc.decodeUnsignedIntegerValue(false)
	if err != nil {
		return nil, err
	}
	revFractional, err := dc.decodeUnsignedIntegerValue(false)
	if err != nil {
		return nil, err
	}

	return NewDecimalValue(negative, integral, revFractional), nil
}

func (dc *exiDecoderChannel) DecodeFloatValue() (*FloatValue, error) {
	mantissa, err := dc.DecodeIntegerValue()
	if err != nil {
		return nil, err
	}
	exponent, err := dc.DecodeIntegerValue()
	if err != nil {
		return nil, err
	}

	return NewFloatValue(mantissa, exponent), nil
}

func (dc *exiDecoderChannel) DecodeDateTimeValue(kind DateTimeType) (*DateTimeValue, error) {
	year, monthDay, time, fractionalSecs := 0, 0, 0, 0
	var err error

	switch kind {
	case DateTimeGYear:
		year, err = dc.decodeInteger()
		if err != nil {
			return nil, err
		}
		year += DateTimeValue_YearOffset
	case DateTimeGYearMonth, DateTimeDate:
		year, err = dc.decodeInteger()
		if err != nil {
			return nil, err
		}
		year += DateTimeValue_YearOffset

		monthDay, err = dc.DecodeNBitUnsignedInteger(DateTimeValue_NumberBitsMonthDay)
		if err != nil {
			return nil, err
		}
	case DateTimeDateTime:
		year, err = dc.decodeInteger()
		if err != nil {
			return nil, err
		}
		year += DateTimeValue_YearOffset

		monthDay, err = dc.DecodeNBitUnsignedInteger(DateTimeValue_NumberBitsMonthDay)
		if err != nil {
			return nil, err
		}

		fallthrough // a dateTime continues with the time components
	case DateTimeTime:
		time, err = dc.DecodeNBitUnsignedInteger(DateTimeValue_NumberBitsTime)
		if err != nil {
			return nil, err
		}
		presenceFractionalSecs, err := dc.DecodeBoolean()
		if err != nil {
			return nil, err
		}

		if presenceFractionalSecs {
			fractionalSecs, err = dc.DecodeUnsignedInteger()
			if err != nil {
				return nil, err
			}
		} else {
			fractionalSecs = 0
		}
	case DateTimeGMonth, DateTimeGMonthDay, DateTimeGDay:
		monthDay, err = dc.DecodeNBitUnsignedInteger(DateTimeValue_NumberBitsMonthDay)
		if err != nil {
			return nil, err
		}
	default:
		return nil, NewError(ErrUnexpected, fmt.Sprintf("unsupported date time type: %d", kind))
	}

	presenceTimezone, err := dc.DecodeBoolean()
	if err != nil {
		return nil, err
	}

	var timezone int
	if presenceTimezone {
		timezone, err = dc.DecodeNBitUnsignedInteger(DateTimeValue_NumberBitsTimeZone)
		if err != nil {
			return nil, err
		}
		timezone -= DateTimeValue_TimeZoneOffsetInMinutes
	} else {
		timezone = 0
	}

	return NewDateTimeValue(kind, year, monthDay, time, fractionalSecs, presenceTimezone, timezone), nil
}

// exiEncoderChannel is the sole EncoderChannel implementation, mirroring
// exiDecoderChannel: one variant field distinguishes bit-packed from
// byte-aligned output beneath a shared datatype codec.
type exiEncoderChannel struct {
	bitWriter  *BitWriter    // set when this channel is bit-packed
	byteWriter bufio.Writer  // set when this channel is byte-aligned
	byteMode   bool          // true selects byteWriter over bitWriter
	byteLen    int
}

func NewBitEncoderChannel(writer bufio.Writer) *exiEncoderChannel {
	return &exiEncoderChannel{
		bitWriter: NewBitWriter(writer),
	}
}

func NewByteEncoderChannel(writer bufio.Writer) *exiEncoderChannel {
	return &exiEncoderChannel{
		byteWriter: writer,
		byteMode:   true,
	}
}

func (ec *exiEncoderChannel) GetWriter() *bufio.Writer {
	if ec.byteMode {
		return &ec.byteWriter
	}
	return ec.bitWriter.GetUnderlyingWriter()
}

func (ec *exiEncoderChannel) GetLength() int {
	if ec.byteMode {
		return ec.byteLen
	}
	return ec.bitWriter.GetLength()
}

func (ec *exiEncoderChannel) Flush() error {
	if ec.byteMode {
		return ec.byteWriter.Flush()
	}
	return ec.bitWriter.Flush()
}

func (ec *exiEncoderChannel) Align() error {
	if ec.byteMode {
		return nil
	}
	return ec.bitWriter.Align()
}

func (ec *exiEncoderChannel) Encode(b int) error {
	if ec.byteMode {
		if err := ec.byteWriter.WriteByte(byte(b & 0xFF)); err != nil {
			return err
		}
		ec.byteLen++
		return nil
	}
	return ec.bitWriter.WriteBits(b, 8)
}

func (ec *exiEncoderChannel) EncodeBytes(b []byte, offset, length int) error {
	if ec.byteMode {
		if _, err := ec.byteWriter.Write(b[offset : offset+length]); err != nil {
			return err
		}
		ec.byteLen += length
		return nil
	}

	for i := offset; i < (offset + length); i++ {
		if err := ec.bitWriter.WriteBits(int(b[i]), 8); err != nil {
			return err
		}
	}
	return nil
}

// EncodeNBitUnsignedInteger writes the n least significant bits of b,
// MSB first, in bit-packed mode; in byte mode it widens to ceil(n/8)
// little-endian octets.
func (ec *exiEncoderChannel) EncodeNBitUnsignedInteger(b, n int) error {
	if b < 0 || n < 0 {
		return NewError(ErrInvalidEXIInput, "encode negative value as unsigned integer is invalid")
	}

	if !ec.byteMode {
		return ec.bitWriter.WriteBits(b, n)
	}

	if n == 0 {
		return nil
	}
	if n > 32 {
		return NewError(ErrInvalidConfig, "currently no more than 4 Bytes allowed for NBitUnsignedInteger")
	}
	for shift := 0; shift < n; shift += 8 {
		if err := ec.Encode((b >> shift) & 0xFF); err != nil {
			return err
		}
	}
	return nil
}

func (ec *exiEncoderChannel) EncodeBoolean(b bool) error {
	if !ec.byteMode {
		if b {
			return ec.bitWriter.WriteBit1()
		}
		return ec.bitWriter.WriteBit0()
	}

	i := 0
	if b {
		i = 1
	}
	return ec.Encode(i)
}

func (ec *exiEncoderChannel) EncodeBinary(b []byte) error {
	if err := ec.EncodeUnsignedInteger(len(b)); err != nil {
		return err
	}
	return ec.EncodeBytes(b, 0, len(b))
}

func (ec *exiEncoderChannel) EncodeString(s string) error {
	ch := []rune(s)
	if err := ec.EncodeUnsignedInteger(len(ch)); err != nil {
		return err
	}
	return ec.EncodeStringOnly(s)
}

func (ec *exiEncoderChannel) EncodeStringOnly(s string) error {
	ch := []rune(s)
	length := len(ch)

	for i := range length {
		if err := ec.EncodeUnsignedInteger(int(ch[i])); err != nil {
			return err
		}
	}

	return nil
}

func (ec *exiEncoderChannel) EncodeInteger(n int) error {
	if n < 0 {
		if err := ec.EncodeBoolean(true); err != nil {
			return err
		}
		// magnitude field carries |value|-1
		return ec.EncodeUnsignedInteger((-n) - 1)
	}
	if err := ec.EncodeBoolean(false); err != nil {
		return err
	}
	return ec.EncodeUnsignedInteger(n)
}

func (ec *exiEncoderChannel) encodeLong(l int64) error {
	if l < 0 {
		if err := ec.EncodeBoolean(true); err != nil {
			return err
		}
		return ec.encodeUnsignedLong((-l) - 1)
	}

	if err := ec.EncodeBoolean(false); err != nil {
		return err
	}
	return ec.encodeUnsignedLong(l)
}

func (ec *exiEncoderChannel) encodeBigInteger(bi *big.Int) error {
	if bi.Sign() < 0 {
		if err := ec.EncodeBoolean(true); err != nil {
			return err
		}
		mag := new(big.Int).Neg(bi)
		return ec.encodeUnsignedBigInteger(mag.Sub(mag, big.NewInt(1)))
	}

	if err := ec.EncodeBoolean(false); err != nil {
		return err
	}
	return ec.encodeUnsignedBigInteger(bi)
}

func (ec *exiEncoderChannel) EncodeIntegerValue(ival *IntegerValue) error {
	switch ival.GetIntegerValueType() {
	case IntegerValue32:
		return ec.EncodeInteger(ival.Value32())
	case IntegerValue64:
		return ec.encodeLong(ival.Value64())
	case IntegerValueBig:
		return ec.encodeBigInteger(ival.ValueBig())
	default:
		return NewError(ErrUnexpected, fmt.Sprintf("unexpected EXI integer value type: %d", ival.GetIntegerValueType()))
	}
}

func (ec *exiEncoderChannel) EncodeUnsignedInteger(n int) error {
	if n < 0 {
		return NewError(ErrInvalidEXIInput, "integer value must have positive value")
	}

	// one 7-bit group per octet, continuation bit on all but the last
	for blocks := numberOf7BitBlocks(uint64(n)); blocks > 1; blocks-- {
		if err := ec.Encode(128 | n); err != nil {
			return err
		}
		n = int(uint64(n) >> 7)
	}
	return ec.Encode(n)
}

func (ec *exiEncoderChannel) encodeUnsignedLong(l int64) error {
	if l < 0 {
		return NewError(ErrInvalidEXIInput, "int64 value must have positive value")
	}

	lastEncode := int(l)
	l = int64(uint64(l) >> 7)

	for l != 0 {
		if err := ec.Encode(lastEncode | 128); err != nil {
			return err
		}
		lastEncode = int(l)
		l = int64(uint64(l) >> 7)
	}

	return ec.Encode(lastEncode)
}

func (ec *exiEncoderChannel) encodeUnsignedBigInteger(bi *big.Int) error {
	if bi.Sign() < 0 {
		return NewError(ErrInvalidEXIInput, "big.Int value must have positive value")
	}

	ngroups := (bi.BitLen() + 6) / 7
	biCopy := new(big.Int).Set(bi)
	for ; ngroups > 1; ngroups-- {
		if err := ec.Encode(int(biCopy.Int64()&0x7F) | 128); err != nil {
			return err
		}
		biCopy.Rsh(biCopy, 7)
	}
	return ec.Encode(int(biCopy.Int64() & 0x7F))
}

func (ec *exiEncoderChannel) EncodeUnsignedIntegerValue(ival *IntegerValue) error {
	switch ival.GetIntegerValueType() {
	case IntegerValue32:
		return ec.EncodeUnsignedInteger(ival.Value32())
	case IntegerValue64:
		return ec.encodeUnsignedLong(ival.Value64())
	case IntegerValueBig:
		return ec.encodeUnsignedBigInteger(ival.ValueBig())
	default:
		return NewError(ErrUnexpected, fmt.Sprintf("unexpected EXI integer value type: %d", ival.GetIntegerValueType()))
	}
}

func (ec *exiEncoderChannel) EncodeDecimal(negative bool, integral, reverseFraction *IntegerValue) error {
	if err := ec.EncodeBoolean(negative); err != nil {
		return err
	}
	if err := ec.EncodeUnsignedIntegerValue(integral); err != nil {
		return err
	}
	return ec.EncodeUnsignedIntegerValue(reverseFraction)
}

func (ec *exiEncoderChannel) EncodeFloat(fv *FloatValue) error {
	if err := ec.EncodeIntegerValue(fv.GetMantissa()); err != nil {
		return err
	}
	return ec.EncodeIntegerValue(fv.GetExponent())
}

func (ec *exiEncoderChannel) EncodeDateTime(datetime *DateTimeValue) error {
	switch datetime.kind {
	case DateTimeGYear:
		if err := ec.EncodeInteger(datetime.year - DateTimeValue_YearOffset); err != nil {
			return err
		}
	case DateTimeGYearMonth, DateTimeDate:
		if err := ec.EncodeInteger(datetime.year - DateTimeValue_YearOffset); err != nil {
			return err
		}
		if err := ec.EncodeNBitUnsignedInteger(datetime.monthDay, DateTimeValue_NumberBitsMonthDay); err != nil {
			return err
		}
	case DateTimeDateTime:
		if err := ec.EncodeInteger(datetime.year - DateTimeValue_YearOffset); err != nil {
			return err
		}
		if err := ec.EncodeNBitUnsignedInteger(datetime.monthDay, DateTimeValue_NumberBitsMonthDay); err != nil {
			return err
		}
		fallthrough // a dateTime continues with the time components
	case DateTimeTime:
		if err := ec.EncodeNBitUnsignedInteger(datetime.time, DateTimeValue_NumberBitsTime); err != nil {
			return err
		}
		if datetime.presenceFractionalSecs {
			if err := ec.EncodeBoolean(true); err != nil {
				return err
			}
			if err := ec.EncodeUnsignedInteger(datetime.fractionalSecs); err != nil {
				return err
			}
		} else if err := ec.EncodeBoolean(false); err != nil {
			return err
		}
	case DateTimeGMonth, DateTimeGMonthDay, DateTimeGDay:
		if err := ec.EncodeNBitUnsignedInteger(datetime.monthDay, DateTimeValue_NumberBitsMonthDay); err != nil {
			return err
		}
	default:
		return NewError(ErrUnexpected, fmt.Sprintf("unexpected EXI date time type: %d", datetime.kind))
	}

	if datetime.presenceTimezone {
		if err := ec.EncodeBoolean(true); err != nil {
			return err
		}
		return ec.EncodeNBitUnsignedInteger(datetime.timezone+DateTimeValue_TimeZoneOffsetInMinutes, DateTimeValue_NumberBitsTimeZone)
	}
	return ec.EncodeBoolean(false)
}
