package exi

import (
	"fmt"
	"maps"
	"slices"
	"unicode/utf8"
)

const DefaultInitialQNameLists = 60

var EmptyStringValue = NewStringValueFromString(EmptyString)

// StringCoder is the part of the value string table shared by both
// directions: partition sizes, reset, and pre-agreed shared strings.
type StringCoder interface {
	GetNumberOfStringValues(qnc *QNameContext) int
	Clear()
	SetSharedStrings(sharedStrings []string) error
	IsLocalValuePartitions() bool
}

// StringDecoder resolves value-content compact IDs against the global
// and per-QName local partitions while growing both on misses.
type StringDecoder interface {
	StringCoder
	AddValue(qnc *QNameContext, value *StringValue) error
	ReadValue(qnc *QNameContext, channel DecoderChannel) (*StringValue, error)
	ReadValueLocalHit(qnc *QNameContext, channel DecoderChannel) (*StringValue, error)
	ReadValueGlobalHit(channel DecoderChannel) (*StringValue, error)
}

// StringEncoder is the encode-side dual of StringDecoder.
type StringEncoder interface {
	StringCoder
	AddValue(qnc *QNameContext, value string) error
	WriteValue(qnc *QNameContext, channel EncoderChannel, value string) error
	IsStringHit(value string) (bool, error)
	GetValueContainer(value string) *ValueContainer
	GetValueContainerSize() int
}

// ValueContainer couples one interned value string with its position in
// both partitions: the IDs are assigned together at insertion (EXI
// §7.3.3), so they travel together.
type ValueContainer struct {
	Value         string
	Context       *QNameContext
	LocalValueID  int
	GlobalValueID int
}

func NewValueContainer(val string, qcx *QNameContext, localValueID, globalValueID int) ValueContainer {
	return ValueContainer{
		Value:         val,
		Context:       qcx,
		LocalValueID:  localValueID,
		GlobalValueID: globalValueID,
	}
}

type LocalIDMap struct {
	LocalID int
	Context *QNameContext
}

func NewLocalIDMap(lid int, qcx *QNameContext) LocalIDMap {
	return LocalIDMap{
		LocalID: lid,
		Context: qcx,
	}
}

type AbstractStringCoder struct {
	StringCoder
	localValuePartitions bool
	localValues          map[QNameContextMapKey][]*StringValue
}

func NewAbstractStringCoder(localValuePartitions bool, initialQNameLists int) *AbstractStringCoder {
	return &AbstractStringCoder{
		localValuePartitions: localValuePartitions,
		localValues:          make(map[QNameContextMapKey][]*StringValue, initialQNameLists),
	}
}

func (c *AbstractStringCoder) GetNumberOfStringValues(qcx *QNameContext) int {
	if qcx == nil {
		// shared strings live in the global partition only
		return 0
	}
	return len(c.localValues[qcx.GetMapKey()])
}

func (c *AbstractStringCoder) Clear() {
	if c.localValuePartitions {
		// free strings only, not destroy lists itself
		for key := range maps.Keys(c.localValues) {
			c.localValues[key] = []*StringValue{}
		}
	}
}

func (c *AbstractStringCoder) IsLocalValuePartitions() bool {
	return c.localValuePartitions
}

func (c *AbstractStringCoder) addLocalValue(qcx *QNameContext, val *StringValue) {
	if !c.localValuePartitions || qcx == nil {
		return
	}
	key := qcx.GetMapKey()
	c.localValues[key] = append(c.localValues[key], val)
}

// StringDecoderImpl grows the global and per-QName local partitions on
// every decoded miss, per EXI §7.3.3. The self field carries the
// outermost StringDecoder so partition growth triggered from ReadValue
// respects a bounded wrapper's limits.
type StringDecoderImpl struct {
	*AbstractStringCoder
	globalValues []*StringValue
	self         StringDecoder
}

func NewStringDecoderImpl(localValuePartitions bool) *StringDecoderImpl {
	return NewStringDecoderImplWithInitialQNameLists(localValuePartitions, DefaultInitialQNameLists)
}

func NewStringDecoderImplWithInitialQNameLists(localValuePartitions bool, initialQNameLists int) *StringDecoderImpl {
	de := &StringDecoderImpl{
		AbstractStringCoder: NewAbstractStringCoder(localValuePartitions, initialQNameLists),
		globalValues:        []*StringValue{},
	}
	de.self = de
	return de
}

// AddValue appends val to the global partition and, when the value
// belongs to a QName, to that QName's local partition; the assigned
// IDs are the partitions' sizes before the append.
func (de *StringDecoderImpl) AddValue(qcx *QNameContext, val *StringValue) error {
	de.globalValues = append(de.globalValues, val)
	if qcx != nil {
		de.addLocalValue(qcx, val)
	}
	return nil
}

func (de *StringDecoderImpl) ReadValue(qcx *QNameContext, ch DecoderChannel) (*StringValue, error) {
	var val *StringValue = nil
	var err error

	i, err := ch.DecodeUnsignedInteger()
	if err != nil {
		return nil, err
	}

	switch i {
	case 0:
		if de.localValuePartitions {
			val, err = de.ReadValueLocalHit(qcx, ch)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, NewError(ErrInvalidEXIInput, "local-value hit in a stream whose profile disables local value partitions")
		}
	case 1:
		// found in global val partition
		val, err = de.ReadValueGlobalHit(ch)
		if err != nil {
			return nil, err
		}
	default:
		// not found in global val (and local val) partition
		// ==> string literal is encoded as a String with the length
		// incremented by two.
		len := i - 2

		/*
		 * If length L is greater than zero the string S is added
		 */
		if len > 0 {
			runes, err := ch.DecodeStringOnly(len)
			if err != nil {
				return nil, err
			}
			val = NewStringValueFromSlice(runes)
			// After encoding the string val, it is added to both the
			// associated "local" val string table partition and the
			// global val string table partition.
			if err := de.self.AddValue(qcx, val); err != nil {
				return nil, err
			}
		} else {
			val = EmptyStringValue
		}
	}

	if val == nil {
		return nil, NewError(ErrUnexpected, "nil string value")
	}
	return val, nil
}

func (de *StringDecoderImpl) ReadValueLocalHit(qcx *QNameContext, ch DecoderChannel) (*StringValue, error) {
	if !de.localValuePartitions {
		return nil, NewError(ErrInvalidConfig, "local value partitions are not used")
	}

	n := codingLength(de.GetNumberOfStringValues(qcx))
	lid, err := ch.DecodeNBitUnsignedInteger(n)
	if err != nil {
		return nil, err
	}
	lvs := de.localValues[qcx.GetMapKey()]
	if lid >= len(lvs) {
		return nil, NewError(ErrInvalidEXIInput, "local value ID out of bounds")
	}

	return lvs[lid], nil
}

func (de *StringDecoderImpl) ReadValueGlobalHit(ch DecoderChannel) (*StringValue, error) {
	numberBitsGlobal := codingLength(len(de.globalValues))
	gid, err := ch.DecodeNBitUnsignedInteger(numberBitsGlobal)
	if err != nil {
		return nil, err
	}
	return de.globalValues[gid], nil
}

func (de *StringDecoderImpl) Clear() {
	de.AbstractStringCoder.Clear()
	de.globalValues = []*StringValue{}
}

func (de *StringDecoderImpl) SetSharedStrings(sharedStrings []string) error {
	for _, s := range sharedStrings {
		if err := de.self.AddValue(nil, NewStringValueFromString(s)); err != nil {
			return err
		}
	}
	return nil
}

// StringEncoderImpl mirrors StringDecoderImpl on the encode side; the
// self field again routes partition growth from WriteValue through a
// bounded wrapper when one is in use.
type StringEncoderImpl struct {
	*AbstractStringCoder
	stringValues map[string]ValueContainer
	self         StringEncoder
}

func NewStringEncoderImpl(localValuePartitions bool) *StringEncoderImpl {
	return NewStringEncoderImplWithInitialQNameLists(localValuePartitions, DefaultInitialQNameLists)
}

func NewStringEncoderImplWithInitialQNameLists(localValuePartitions bool, initialQNameLists int) *StringEncoderImpl {
	en := &StringEncoderImpl{
		AbstractStringCoder: NewAbstractStringCoder(localValuePartitions, initialQNameLists),
		stringValues:        map[string]ValueContainer{},
	}
	en.self = en
	return en
}

func (en *StringEncoderImpl) AddValue(qcx *QNameContext, val string) error {
	if _, exists := en.stringValues[val]; exists {
		panic("attempt to add dupplicate global string value")
	}

	// global context
	en.stringValues[val] = NewValueContainer(val, qcx, en.GetNumberOfStringValues(qcx), len(en.stringValues))
	en.addLocalValue(qcx, NewStringValueFromString(val))

	return nil
}

func (en *StringEncoderImpl) WriteValue(qcx *QNameContext, ch EncoderChannel, val string) error {
	vc, ok := en.stringValues[val]

	if ok {
		// hit
		if en.localValuePartitions && qcx.Equals(vc.Context) {
			/*
			 * local val hit ==> is represented as zero (0) encoded as an
			 * Unsigned Integer followed by the compact identifier of the
			 * string val in the "local" val partition
			 */
			if err := ch.EncodeUnsignedInteger(0); err != nil {
				return err
			}
			numberBitsLocal := codingLength(en.GetNumberOfStringValues(qcx))
			return ch.EncodeNBitUnsignedInteger(vc.LocalValueID, numberBitsLocal)
		} else {
			/*
			 * global val hit ==> val is represented as one (1) encoded
			 * as an Unsigned Integer followed by the compact identifier of
			 * the String val in the global val partition.
			 */
			if err := ch.EncodeUnsignedInteger(1); err != nil {
				return err
			}
			numberBitsGlobal := codingLength(len(en.stringValues))
			return ch.EncodeNBitUnsignedInteger(vc.GlobalValueID, numberBitsGlobal)
		}
	} else {
		/*
		 * miss [not found in local nor in global val partition] ==>
		 * string literal is encoded as a String with the length incremented
		 * by two.
		 */
		runes := []rune(val)
		len := len(runes)

		if err := ch.EncodeUnsignedInteger(len + 2); err != nil {
			return err
		}
		/*
		 * If length L is greater than zero the string S is added
		 */
		if len > 0 {
			if err := ch.EncodeStringOnly(val); err != nil {
				return err
			}
			// After encoding the string val, it is added to both the
			// associated "local" val string table partition and the
			// global val string table partition.
			if err := en.self.AddValue(qcx, val); err != nil {
				return err
			}
		}
	}

	return nil
}

func (en *StringEncoderImpl) IsStringHit(val string) (bool, error) {
	_, exists := en.stringValues[val]
	return exists, nil
}

func (en *StringEncoderImpl) GetValueContainer(val string) *ValueContainer {
	vc, ok := en.stringValues[val]
	if ok {
		return &vc
	} else {
		return nil
	}
}

func (en *StringEncoderImpl) GetValueContainerSize() int {
	return len(en.stringValues)
}

func (en *StringEncoderImpl) Clear() {
	en.AbstractStringCoder.Clear()
	en.stringValues = map[string]ValueContainer{}
}

func (en *StringEncoderImpl) SetSharedStrings(sharedStrings []string) error {
	for _, s := range sharedStrings {
		if err := en.self.AddValue(nil, s); err != nil {
			return err
		}
	}

	return nil
}

// BoundedStringDecoderImpl enforces valueMaxLength and
// valuePartitionCapacity on the decode side: over-long values are never
// added, and once the capacity is reached new values overwrite the
// oldest global slot, undoing the evicted value's local entry through
// localIDMapping.
type BoundedStringDecoderImpl struct {
	*StringDecoderImpl
	valueMaxLength         int
	valuePartitionCapacity int
	globalID               int
	localIDMapping         []LocalIDMap
}

func NewBoundedStringDecoderImpl(localValuePartitions bool, valueMaxLength, valuePartitionCapacity int) *BoundedStringDecoderImpl {
	lmapSize := 0
	if valuePartitionCapacity > 0 && localValuePartitions {
		lmapSize = valuePartitionCapacity
	}

	de := &BoundedStringDecoderImpl{
		StringDecoderImpl:      NewStringDecoderImpl(localValuePartitions),
		valueMaxLength:         valueMaxLength,
		valuePartitionCapacity: valuePartitionCapacity,
		globalID:               -1,
		localIDMapping:         make([]LocalIDMap, lmapSize),
	}
	de.self = de
	return de
}

func (sd *BoundedStringDecoderImpl) AddValue(qcx *QNameContext, val *StringValue) error {
	clen, err := val.GetCharactersLength()
	if err != nil {
		return err
	}

	if sd.valueMaxLength < 0 || clen <= sd.valueMaxLength {
		// next: check "valuePartitionCapacity"
		if sd.valuePartitionCapacity < 0 {
			// no "valuePartitionCapacity" restriction
			return sd.StringDecoderImpl.AddValue(qcx, val)
		} else {
			// If valuePartitionCapacity is not zero the string S is added
			if sd.valuePartitionCapacity == 0 {
			} else {
				/*
				 * When S is added to the global val partition and there was
				 * already a string V in the global val partition associated
				 * with the compact identifier globalID, the string S replaces
				 * the string V in the global table, and the string V is removed
				 * from its associated local val partition by rendering its
				 * compact identifier permanently unassigned.
				 */
				if slices.Contains(sd.globalValues, val) {
					return NewError(ErrUnexpected, "duplicate global string value")
				}

				/*
				 * When the string val is added to the global val partition,
				 * the val of globalID is incremented by one (1). If the
				 * resulting val of globalID is equal to
				 * valuePartitionCapacity, its val is reset to zero (0)
				 */
				sd.globalID++
				if sd.globalID == sd.valuePartitionCapacity {
					sd.globalID = 0
				}

				if len(sd.globalValues) > sd.globalID {
					// capacity reached: overwrite the oldest slot
					if sd.localValuePartitions {
						old := sd.localIDMapping[sd.globalID]
						if old.Context != nil {
							sd.localValues[old.Context.GetMapKey()][old.LocalID] = nil
						}
					}
					sd.globalValues[sd.globalID] = val
				} else {
					if slices.Contains(sd.globalValues, val) {
						return NewError(ErrUnexpected, "duplicate global string value")
					}
					sd.globalValues = append(sd.globalValues, val)
				}

				if sd.localValuePartitions {
					// update local ID mapping
					sd.localIDMapping[sd.globalID] = NewLocalIDMap(sd.GetNumberOfStringValues(qcx), qcx)
					// local val
					sd.addLocalValue(qcx, val)
				}
			}
		}
	}

	return nil
}

func (sd *BoundedStringDecoderImpl) Clear() {
	sd.StringDecoderImpl.Clear()
	sd.globalID = -1
}

type BoundedStringEncoderImpl struct {
	*StringEncoderImpl
	valueMaxLength         int
	valuePartitionCapacity int
	globalID               int
	globalIDMapping        []ValueContainer
	hashIndex              *valueHashIndex
}

func NewBoundedStringEncoderImpl(localValuePartitions bool, valueMaxLength, valuePartitionCapacity int) *BoundedStringEncoderImpl {
	en := &BoundedStringEncoderImpl{
		StringEncoderImpl:      NewStringEncoderImpl(localValuePartitions),
		valueMaxLength:         valueMaxLength,
		valuePartitionCapacity: valuePartitionCapacity,
		globalID:               -1,
		globalIDMapping:        make([]ValueContainer, max(0, valuePartitionCapacity)),
	}
	en.self = en
	return en
}

func (se *BoundedStringEncoderImpl) AddValue(qcx *QNameContext, val string) error {
	if se.valueMaxLength < 0 || utf8.RuneCountInString(val) <= se.valueMaxLength {
		// next: check "valuePartitionCapacity"
		if se.valuePartitionCapacity < 0 {
			// no "valuePartitionCapacity" restriction
			if err := se.StringEncoderImpl.AddValue(qcx, val); err != nil {
				return err
			}
		} else {
			// If valuePartitionCapacity is not zero the string S is added
			if se.valuePartitionCapacity == 0 {
			} else {
				/*
				 * When S is added to the global val partition and there was
				 * already a string V in the global val partition associated
				 * with the compact identifier globalID, the string S replaces
				 * the string V in the global table, and the string V is removed
				 * from its associated local val partition by rendering its
				 * compact identifier permanently unassigned.
				 */
				if se.valueHit(val) {
					return NewError(ErrUnexpected, "duplicate global string value")
				}

				se.globalID++
				if se.globalID == se.valuePartitionCapacity {
					se.globalID = 0
				}

				vc := NewValueContainer(val, qcx, se.GetNumberOfStringValues(qcx), se.globalID)

				if len(se.stringValues) == se.valuePartitionCapacity {
					// full --> remove old val
					vcFree := se.globalIDMapping[se.globalID]

					// free local
					if err := se.freeStringValue(vcFree.Context, vcFree.LocalValueID); err != nil {
						return err
					}

					// remove global
					delete(se.stringValues, vcFree.Value)
					if se.hashIndex != nil {
						se.hashIndex.remove(vcFree.Value)
					}
				}

				// add global
				se.stringValues[val] = vc
				if se.hashIndex != nil {
					se.hashIndex.add(val)
				}

				// add local
				se.addLocalValue(qcx, NewStringValueFromString(val))
				se.globalIDMapping[se.globalID] = vc
			}
		}
	}

	return nil
}

// valueHit reports whether value is already present in the global value
// partition. Once the partition grows past valueHashThreshold it first
// consults an xxhash-backed index so a value whose hash was never seen
// skips the map's own string hashing and equality check entirely.
func (se *BoundedStringEncoderImpl) valueHit(val string) bool {
	if len(se.stringValues) < valueHashThreshold {
		_, exists := se.stringValues[val]
		return exists
	}
	if se.hashIndex == nil {
		se.hashIndex = newValueHashIndex()
		for v := range se.stringValues {
			se.hashIndex.add(v)
		}
	}
	if !se.hashIndex.mightContain(val) {
		return false
	}
	_, exists := se.stringValues[val]
	return exists
}

func (se *BoundedStringEncoderImpl) freeStringValue(qcx *QNameContext, localValueID int) error {
	if se.localValuePartitions {
		lvs, ok := se.localValues[qcx.GetMapKey()]
		if !ok {
			return fmt.Errorf("local value missing: %+v", qcx.GetMapKey())
		}
		if localValueID >= len(lvs) {
			return NewError(ErrUnexpected, "local value ID exceeds the local partition size")
		}
		sv := lvs[localValueID]
		if sv == nil {
			return NewError(ErrUnexpected, "local value is nil")
		}
		lvs[localValueID] = nil
	}

	return nil
}

func (se *BoundedStringEncoderImpl) Clear() {
	se.StringEncoderImpl.Clear()
	se.globalID = -1
}
