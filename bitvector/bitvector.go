// Package bitvector implements C1: a packed, immutable bit sequence with
// constant-time Access/Rank/Select over both bit values, backed by
// github.com/hillbig/rsdic (the same rank/select dictionary the teacher
// repo's trie/shzft package already depends on for its descriptor bitmap).
package bitvector

import (
	"succinct/internal/assertx"
	"succinct/ordtree"

	"github.com/hillbig/rsdic"
)

// Vector is an immutable bit sequence with O(1) access/rank/select.
//
// rsdic.Rank(pos, bit) counts occurrences in [0, pos) — exclusive of pos.
// Vector normalizes that once, here, to the inclusive convention §4.1 of
// the specification fixes: rank_b(i) = #{j : 0 <= j <= i, B[j] = b}. Every
// caller above this package only ever sees the inclusive convention.
type Vector struct {
	rs *rsdic.RSDic
	n  uint64
}

// New builds a Vector from bits in order.
func New(bits []bool) *Vector {
	rs := rsdic.New()
	for _, b := range bits {
		rs.PushBack(b)
	}
	return &Vector{rs: rs, n: uint64(len(bits))}
}

// Builder accumulates bits one at a time, for callers that produce a
// sequence incrementally (e.g. a DFS or BFS traversal) rather than from an
// already-materialized slice.
type Builder struct {
	rs *rsdic.RSDic
	n  uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{rs: rsdic.New()}
}

// Push appends one bit.
func (b *Builder) Push(bit bool) {
	b.rs.PushBack(bit)
	b.n++
}

// Len returns the number of bits pushed so far.
func (b *Builder) Len() uint64 {
	return b.n
}

// Build finalizes the Builder into an immutable Vector. The Builder must
// not be used afterwards.
func (b *Builder) Build() *Vector {
	assertx.BugOn(b.rs == nil, "bitvector: Build called on a zero-value Builder")
	return &Vector{rs: b.rs, n: b.n}
}

// Len returns the number of bits in the sequence.
func (v *Vector) Len() uint64 {
	return v.n
}

// At returns the bit at i. Panics if i is out of range — callers that need
// a recoverable error should check Len first (as Access does).
func (v *Vector) At(i uint64) bool {
	return v.rs.Bit(i)
}

// Access returns the bit at i, or ErrOutOfRange if i >= Len().
func (v *Vector) Access(i uint64) (bool, error) {
	if i >= v.n {
		return false, ordtree.ErrOutOfRange
	}
	return v.rs.Bit(i), nil
}

// Rank returns the number of bits equal to bit in B[0..=i], or an error if
// i >= Len().
func (v *Vector) Rank(i uint64, bit bool) (uint64, error) {
	if i >= v.n {
		return 0, ordtree.ErrOutOfRange
	}
	return v.rs.Rank(i+1, bit), nil
}

// Select returns the position of the k-th occurrence of bit, for 1-based
// k. It returns ErrNotFound if fewer than k bits of that value exist.
//
// rsdic.Select(j, bit) is 0-based (j=0 is the first occurrence), so this
// normalizes with a -1 the same way Rank normalizes with a +1.
func (v *Vector) Select(k uint64, bit bool) (uint64, error) {
	if k == 0 {
		return 0, ordtree.ErrNotFound
	}
	total := v.rs.Rank(v.n, bit)
	if k > total {
		return 0, ordtree.ErrNotFound
	}
	return v.rs.Select(k-1, bit), nil
}

// Bits materializes the sequence as a []bool, e.g. for building the RMM
// tree or for serialization.
func (v *Vector) Bits() []bool {
	out := make([]bool, v.n)
	for i := uint64(0); i < v.n; i++ {
		out[i] = v.rs.Bit(i)
	}
	return out
}

// ByteSize estimates the resident size in bytes of the rank/select index.
func (v *Vector) ByteSize() int {
	if v == nil || v.rs == nil {
		return 0
	}
	return v.rs.AllocSize()
}
