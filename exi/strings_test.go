package exi

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestQNameContext(local string) *QNameContext {
	return NewQNameContext(0, 0, QName{Local: local})
}

func TestBoundedStringEncoder_AddAndDetectDuplicates(t *testing.T) {
	se := NewBoundedStringEncoderImpl(true, -1, 16)
	qnc := newTestQNameContext("item")

	require.NoError(t, se.AddValue(qnc, "hello"))
	require.Equal(t, 1, se.GetValueContainerSize())

	err := se.AddValue(qnc, "hello")
	require.Error(t, err)
}

func TestBoundedStringEncoder_ValueMaxLengthSkipsLongValues(t *testing.T) {
	se := NewBoundedStringEncoderImpl(true, 3, 16)
	qnc := newTestQNameContext("item")

	require.NoError(t, se.AddValue(qnc, "toolong"))
	require.Equal(t, 0, se.GetValueContainerSize())
}

func TestBoundedStringEncoder_PartitionCapacityEvictsOldestEntry(t *testing.T) {
	se := NewBoundedStringEncoderImpl(true, -1, 2)
	qnc := newTestQNameContext("item")

	require.NoError(t, se.AddValue(qnc, "a"))
	require.NoError(t, se.AddValue(qnc, "b"))
	require.NoError(t, se.AddValue(qnc, "c"))

	require.Equal(t, 2, se.GetValueContainerSize())
	require.Nil(t, se.GetValueContainer("a"))
	require.NotNil(t, se.GetValueContainer("c"))
}

func TestBoundedStringEncoder_ValueHitUsesHashIndexPastThreshold(t *testing.T) {
	se := NewBoundedStringEncoderImpl(true, -1, 1000)
	qnc := newTestQNameContext("item")

	for i := 0; i < valueHashThreshold+5; i++ {
		require.NoError(t, se.AddValue(qnc, string(rune('a'+i%26))+string(rune(i))))
	}

	require.NotNil(t, se.hashIndex)

	for value := range se.stringValues {
		require.True(t, se.hashIndex.mightContain(value))
	}
	require.False(t, se.hashIndex.mightContain("definitely-not-present-value"))
}

// Decoded misses must grow both partitions so later hits resolve.
func TestStringDecoder_MissGrowsPartitions(t *testing.T) {
	de := NewStringDecoderImpl(true)
	qcx := newTestQNameContext("a")

	require.NoError(t, de.AddValue(qcx, NewStringValueFromString("first")))
	require.NoError(t, de.AddValue(qcx, NewStringValueFromString("second")))
	require.Equal(t, 2, de.GetNumberOfStringValues(qcx))

	// shared strings enter only the global partition
	require.NoError(t, de.AddValue(nil, NewStringValueFromString("shared")))
	require.Equal(t, 2, de.GetNumberOfStringValues(qcx))
}

// The bounded decoder's limits must hold even when growth is triggered
// from the generic ReadValue miss path, which runs in the embedded base
// and reaches the bounded override only through the self field.
func TestBoundedStringDecoder_MaxLengthHoldsThroughReadValue(t *testing.T) {
	de := NewBoundedStringDecoderImpl(true, 3, -1)
	qcx := newTestQNameContext("a")

	// miss for "toolong": length+2, then the code points
	raw := []byte{9, 't', 'o', 'o', 'l', 'o', 'n', 'g', 4, 'o', 'k'}
	ch := NewBitDecoderChannel(bufio.NewReader(bytes.NewReader(raw)))

	val, err := de.ReadValue(qcx, ch)
	require.NoError(t, err)
	s, err := val.ToString()
	require.NoError(t, err)
	require.Equal(t, "toolong", s)
	// over valueMaxLength: emitted as a miss but never admitted
	require.Equal(t, 0, de.GetNumberOfStringValues(qcx))

	val, err = de.ReadValue(qcx, ch)
	require.NoError(t, err)
	s, err = val.ToString()
	require.NoError(t, err)
	require.Equal(t, "ok", s)
	require.Equal(t, 1, de.GetNumberOfStringValues(qcx))
}
