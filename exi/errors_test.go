package exi

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_MessageFormatting(t *testing.T) {
	withoutPos := NewError(ErrMismatch, "boom")
	require.Equal(t, "exi: Mismatch: boom", withoutPos.Error())

	withPos := NewErrorAt(ErrHeaderSig, "bad cookie", 42)
	require.Equal(t, "exi: HeaderSig at bit 42: bad cookie", withPos.Error())
}

func TestError_WrapPreservesCauseForUnwrap(t *testing.T) {
	wrapped := WrapError(ErrOOB, io.ErrUnexpectedEOF)
	require.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestError_WrapNilReturnsNil(t *testing.T) {
	require.Nil(t, WrapError(ErrOOB, nil))
}

func TestError_IsComparesByKind(t *testing.T) {
	a := NewError(ErrOOB, "a")
	b := NewError(ErrOOB, "b")
	c := NewError(ErrFull, "c")

	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, c))
}

func TestError_WithPosCopiesWithoutMutatingOriginal(t *testing.T) {
	original := NewError(ErrDone, "done")
	stamped := original.WithPos(7)

	require.EqualValues(t, -1, original.Pos)
	require.EqualValues(t, 7, stamped.Pos)
	require.Equal(t, original.Kind, stamped.Kind)
}
