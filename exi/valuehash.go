package exi

import "github.com/cespare/xxhash/v2"

// valueHashThreshold is the global value partition size above which
// BoundedStringEncoderImpl starts consulting its xxhash-backed index
// before doing a full string-keyed map lookup.
const valueHashThreshold = 64

// valueHashIndex is a fast existence pre-check for the global value
// partition. It never replaces the authoritative map[string]ValueContainer
// lookup (hash collisions are possible), only skips it when a value's
// hash was never seen, which is the common case once a partition holds
// enough long values that hashing the candidate once is cheaper than the
// map's own per-lookup string hashing plus the eventual equality check.
type valueHashIndex struct {
	seen map[uint64]int
}

func newValueHashIndex() *valueHashIndex {
	return &valueHashIndex{seen: map[uint64]int{}}
}

func (vh *valueHashIndex) mightContain(value string) bool {
	_, ok := vh.seen[xxhash.Sum64String(value)]
	return ok
}

func (vh *valueHashIndex) add(value string) {
	vh.seen[xxhash.Sum64String(value)]++
}

func (vh *valueHashIndex) remove(value string) {
	k := xxhash.Sum64String(value)
	if vh.seen[k] <= 1 {
		delete(vh.seen, k)
	} else {
		vh.seen[k]--
	}
}
