// Package rmm implements C2: the Range-Min-Max tree over a balanced
// parenthesis bit sequence — the heart of BP's constant-time find-close,
// enclose and excess queries (specification §4.2).
//
// No library in the retrieved reference corpus implements this structure;
// it is this system's own dense core (the specification calls it "the
// single densest subcomponent"), built directly from the algorithm
// description, structured as the flat array-backed segment tree
// original_source/src/common/min_max.rs uses, fixing that file's known
// bugs in enclose/bwd_search against the specification text.
package rmm

import (
	"math/bits"

	"succinct/internal/assertx"
	"succinct/ordtree"
)

// DefaultBlockSize is the block width used when callers don't pick one.
const DefaultBlockSize = 1024

// node is one element of the segment tree: the excess/min/max summary of
// the contiguous range of bits it covers.
type node struct {
	excess    int64
	minExcess int64
	maxExcess int64
	nMin      uint64
	nBits     uint64
}

// Tree is a Range-Min-Max tree built once over a bit sequence and queried
// many times. It keeps the []bool slice passed to Build rather than
// re-copying it; callers that need the bits to stay immutable should not
// mutate the slice afterwards.
type Tree struct {
	bits      []bool
	blockSize uint64
	heap      []node
	firstLeaf uint64
}

// Build constructs a Tree over bits, partitioned into blocks of blockSize
// bits (§4.2 step 1-3). blockSize must be >= 1.
func Build(bits []bool, blockSize uint64) *Tree {
	if blockSize == 0 {
		blockSize = DefaultBlockSize
	}
	n := uint64(len(bits))

	numBlocks := n / blockSize
	if n%blockSize != 0 {
		numBlocks++
	}
	if numBlocks == 0 {
		numBlocks = 1
	}
	maxBlocks := nextPow2(numBlocks)
	heapSize := maxBlocks*2 - 1
	heap := make([]node, heapSize)
	firstLeaf := heapSize / 2

	for b := uint64(0); b < numBlocks; b++ {
		start := b * blockSize
		end := start + blockSize
		if end > n {
			end = n
		}
		heap[firstLeaf+b] = buildLeaf(bits, start, end)
	}
	// Leaves beyond numBlocks stay zero-valued sentinels (nBits == 0).

	for i := int64(firstLeaf) - 1; i >= 0; i-- {
		heap[i] = combine(heap[2*i+1], heap[2*i+2])
	}
	assertx.BugOn(heap[0].nBits != n, "rmm: root covers %d bits, want %d", heap[0].nBits, n)

	return &Tree{bits: bits, blockSize: blockSize, heap: heap, firstLeaf: firstLeaf}
}

func buildLeaf(bits []bool, start, end uint64) node {
	if start >= end {
		return node{}
	}
	var excess, minExcess, maxExcess int64
	var nMin uint64
	for k := start; k < end; k++ {
		if bits[k] {
			excess++
		} else {
			excess--
		}
		switch {
		case k == start:
			minExcess, maxExcess = excess, excess
			nMin = 1
		case excess < minExcess:
			minExcess = excess
			nMin = 1
		case excess == minExcess:
			nMin++
		}
		if excess > maxExcess {
			maxExcess = excess
		}
	}
	return node{excess: excess, minExcess: minExcess, maxExcess: maxExcess, nMin: nMin, nBits: end - start}
}

// combine implements the composition law of §4.2.
func combine(l, r node) node {
	if r.nBits == 0 {
		return l
	}
	rMin := l.excess + r.minExcess
	var minExcess int64
	var nMin uint64
	switch {
	case l.minExcess < rMin:
		minExcess, nMin = l.minExcess, l.nMin
	case rMin < l.minExcess:
		minExcess, nMin = rMin, r.nMin
	default:
		minExcess, nMin = l.minExcess, l.nMin+r.nMin
	}
	maxExcess := l.maxExcess
	if rMax := l.excess + r.maxExcess; rMax > maxExcess {
		maxExcess = rMax
	}
	return node{
		excess:    l.excess + r.excess,
		minExcess: minExcess,
		maxExcess: maxExcess,
		nMin:      nMin,
		nBits:     l.nBits + r.nBits,
	}
}

func nextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	return 1 << uint(bits.Len64(x-1))
}

func (t *Tree) numBits() uint64 {
	return uint64(len(t.bits))
}

// Excess returns E(i), the running count of opens minus closes in B[0..=i].
func (t *Tree) Excess(i uint64) (int64, error) {
	if i >= t.numBits() {
		return 0, ordtree.ErrOutOfRange
	}
	return t.excess(i), nil
}

func (t *Tree) excess(i uint64) int64 {
	blockNum := i / t.blockSize
	nodeIdx := t.firstLeaf + blockNum
	var preExcess int64
	for nodeIdx != 0 {
		parent := (nodeIdx - 1) / 2
		if nodeIdx%2 == 0 { // right child
			preExcess += t.heap[2*parent+1].excess
		}
		nodeIdx = parent
	}
	var blockExcess int64
	blockStart := blockNum * t.blockSize
	for k := blockStart; k <= i; k++ {
		if t.bits[k] {
			blockExcess++
		} else {
			blockExcess--
		}
	}
	return preExcess + blockExcess
}

// FwdSearch returns the smallest j > i with E(j) == E(i)+d (§4.2).
func (t *Tree) FwdSearch(i uint64, d int64) (uint64, error) {
	n := t.numBits()
	if i >= n {
		return 0, ordtree.ErrOutOfRange
	}
	ei := t.excess(i)
	target := ei + d

	blockNum := i / t.blockSize
	blockStart := blockNum * t.blockSize
	blockEnd := blockStart + t.blockSize
	if blockEnd > n {
		blockEnd = n
	}

	cur := ei
	for j := i + 1; j < blockEnd; j++ {
		if t.bits[j] {
			cur++
		} else {
			cur--
		}
		if cur == target {
			return j, nil
		}
	}
	if blockEnd >= n {
		return 0, ordtree.ErrNotFound
	}

	base := cur // E(blockEnd-1): begin-1 of the next sibling to examine
	nodeIdx := t.firstLeaf + blockNum
	var landing uint64
	found := false
	for nodeIdx != 0 {
		parent := (nodeIdx - 1) / 2
		if nodeIdx%2 == 1 { // left child: examine right sibling
			sib := t.heap[2*parent+2]
			if sib.nBits > 0 {
				remaining := target - base
				if remaining >= sib.minExcess && remaining <= sib.maxExcess {
					landing = 2*parent + 2
					found = true
					break
				}
				base += sib.excess
			}
		}
		nodeIdx = parent
	}
	if !found {
		return 0, ordtree.ErrNotFound
	}

	nodeIdx = landing
	for nodeIdx < t.firstLeaf {
		left := 2*nodeIdx + 1
		right := 2*nodeIdx + 2
		lf := t.heap[left]
		remaining := target - base
		if remaining >= lf.minExcess && remaining <= lf.maxExcess {
			nodeIdx = left
		} else {
			base += lf.excess
			nodeIdx = right
		}
	}

	leafBlockNum := nodeIdx - t.firstLeaf
	start := leafBlockNum * t.blockSize
	end := start + t.heap[nodeIdx].nBits
	cur = base
	for p := start; p < end; p++ {
		if t.bits[p] {
			cur++
		} else {
			cur--
		}
		if cur == target {
			return p, nil
		}
	}
	return 0, ordtree.ErrNotFound
}

// BwdSearch returns the largest j < i with E(j) == E(i)+d (§4.2).
func (t *Tree) BwdSearch(i uint64, d int64) (uint64, error) {
	n := t.numBits()
	if i >= n {
		return 0, ordtree.ErrOutOfRange
	}
	ei := t.excess(i)
	target := ei + d

	blockNum := i / t.blockSize
	blockStart := blockNum * t.blockSize

	cur := ei
	for p := i; p > blockStart; p-- {
		if t.bits[p] {
			cur--
		} else {
			cur++
		}
		j := p - 1
		if cur == target {
			return j, nil
		}
	}
	if blockNum == 0 {
		return 0, ordtree.ErrNotFound
	}

	// cur == E(blockStart); derive E(blockStart-1).
	var acc int64
	if t.bits[blockStart] {
		acc = cur - 1
	} else {
		acc = cur + 1
	}

	nodeIdx := t.firstLeaf + blockNum
	var landing uint64
	var landingBase int64
	found := false
	for nodeIdx != 0 {
		parent := (nodeIdx - 1) / 2
		if nodeIdx%2 == 0 { // right child: examine left sibling
			sib := t.heap[2*parent+1]
			if sib.nBits > 0 {
				remaining := (target - acc) + sib.excess
				if remaining >= sib.minExcess && remaining <= sib.maxExcess {
					landing = 2*parent + 1
					landingBase = acc - sib.excess
					found = true
					break
				}
				acc -= sib.excess
			}
		}
		nodeIdx = parent
	}
	if !found {
		return 0, ordtree.ErrNotFound
	}

	nodeIdx = landing
	base := landingBase
	for nodeIdx < t.firstLeaf {
		left := 2*nodeIdx + 1
		right := 2*nodeIdx + 2
		lf := t.heap[left]
		rf := t.heap[right]
		if rf.nBits > 0 {
			rightBase := base + lf.excess
			remaining := target - rightBase
			if remaining >= rf.minExcess && remaining <= rf.maxExcess {
				base = rightBase
				nodeIdx = right
				continue
			}
		}
		nodeIdx = left
	}

	leafBlockNum := nodeIdx - t.firstLeaf
	start := leafBlockNum * t.blockSize
	end := start + t.heap[nodeIdx].nBits
	cur = base
	var match uint64
	matched := false
	for p := start; p < end; p++ {
		if t.bits[p] {
			cur++
		} else {
			cur--
		}
		if cur == target {
			match = p
			matched = true
		}
	}
	if !matched {
		return 0, ordtree.ErrNotFound
	}
	return match, nil
}

// FindClose returns the position of the close matching the open at i.
// Defined only when B[i] is an open bit. E includes position i, so the
// matching close is the first j > i with E(j) == E(i)-1.
func (t *Tree) FindClose(i uint64) (uint64, error) {
	return t.FwdSearch(i, -1)
}

// Enclose returns the nearest preceding open enclosing i — the parent's
// open, when i is itself an open position. That open sits just after the
// last j < i with E(j) == E(i)-2; when no such j exists and E(i) == 2, the
// target is E(-1) == 0 and the parent is position 0.
func (t *Tree) Enclose(i uint64) (uint64, error) {
	if i >= t.numBits() {
		return 0, ordtree.ErrOutOfRange
	}
	ei := t.excess(i)
	if ei < 2 {
		return 0, ordtree.ErrNotFound
	}
	j, err := t.BwdSearch(i, -2)
	if err == nil {
		return j + 1, nil
	}
	if err == ordtree.ErrNotFound && ei == 2 {
		return 0, nil
	}
	return 0, err
}
