package exi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueHashIndex_AddMightContainRemove(t *testing.T) {
	idx := newValueHashIndex()

	require.False(t, idx.mightContain("a"))

	idx.add("a")
	require.True(t, idx.mightContain("a"))

	idx.remove("a")
	require.False(t, idx.mightContain("a"))
}

func TestValueHashIndex_DuplicateAddsNeedMatchingRemoves(t *testing.T) {
	idx := newValueHashIndex()

	idx.add("dup")
	idx.add("dup")

	idx.remove("dup")
	require.True(t, idx.mightContain("dup"), "one remove should not evict a value added twice")

	idx.remove("dup")
	require.False(t, idx.mightContain("dup"))
}
