// Package loudstree implements C3b: the LOUDS (Level-Order Unary Degree
// Sequence) ordinal-tree façade, grounded line-by-line on
// original_source/src/louds_tree.rs — including its offset arithmetic,
// re-derived here against this module's own bitvector (C1) rank/select
// conventions rather than copied from the crate's bio::RankSelect calls.
//
// A node handle is the bit position where that node's own run of
// child-announcing 1-bits begins. The sequence is prefixed with a single
// artificial bit announcing the real root as the "super-root"'s one child;
// the root itself always has handle 1.
package loudstree

import (
	"fmt"
	"io"
	"strings"

	"succinct/bitvector"
	"succinct/memreport"
	"succinct/ordtree"
)

// LOUDSTree satisfies ordtree.SuccinctTree, so generic tests/benchmarks can
// be parameterized over either façade.
var _ ordtree.SuccinctTree[string] = (*LOUDSTree[string])(nil)

// LOUDSTree is an ordinal tree encoded as a level-order unary degree
// sequence.
type LOUDSTree[L comparable] struct {
	bits   *bitvector.Vector
	labels []L // in level order, root first
}

// FromBitVec builds a LOUDSTree directly from a bit sequence and its
// level-order label list.
func FromBitVec[L comparable](bits []bool, labels []L) (*LOUDSTree[L], error) {
	if !isValidLOUDS(bits) {
		return nil, ordtree.ErrInvalidEncoding
	}
	bv := bitvector.New(bits)
	return &LOUDSTree[L]{bits: bv, labels: append([]L(nil), labels...)}, nil
}

// FromReferenceTree walks ref level by level (BFS), emitting one run of
// child-count 1s followed by a 0 per node, prefixed by the artificial
// super-root bit.
func FromReferenceTree[L comparable](ref ordtree.ReferenceTree[L]) (*LOUDSTree[L], error) {
	root, ok := ref.Root()
	if !ok {
		return nil, ordtree.ErrEmptyTree
	}
	builder := bitvector.NewBuilder()
	builder.Push(true)

	queue := []ordtree.ReferenceNode[L]{root}
	var labels []L
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		labels = append(labels, n.Label())
		children := n.Children()
		for range children {
			builder.Push(true)
		}
		builder.Push(false)
		queue = append(queue, children...)
	}

	return &LOUDSTree[L]{bits: builder.Build(), labels: labels}, nil
}

func isValidLOUDS(bits []bool) bool {
	n := len(bits)
	if n == 0 || !bits[0] {
		return false
	}
	totalOnes := 0
	for _, b := range bits {
		if b {
			totalOnes++
		}
	}
	pos := 1
	groups := 0
	for pos < n && groups < totalOnes {
		for pos < n && bits[pos] {
			pos++
		}
		if pos >= n {
			return false
		}
		pos++ // consume the terminating 0
		groups++
	}
	return pos == n && groups == totalOnes
}

func (t *LOUDSTree[L]) rank1(i uint64) (uint64, error) { return t.bits.Rank(i, true) }

func (t *LOUDSTree[L]) rank0(i uint64) (uint64, error) {
	r1, err := t.bits.Rank(i, true)
	if err != nil {
		return 0, err
	}
	return i + 1 - r1, nil
}

func (t *LOUDSTree[L]) select1(k uint64) (uint64, error) { return t.bits.Select(k, true) }
func (t *LOUDSTree[L]) select0(k uint64) (uint64, error) { return t.bits.Select(k, false) }

// prev0 returns the position of the nearest 0-bit at or before index, or 0
// (a boundary sentinel meaning "no real zero precedes this position yet",
// which lands arithmetic built on top of it at the root's own handle).
func (t *LOUDSTree[L]) prev0(index uint64) (uint64, error) {
	r0, err := t.rank0(index)
	if err != nil {
		return 0, err
	}
	if r0 == 0 {
		return 0, nil
	}
	return t.select0(r0)
}

func (t *LOUDSTree[L]) next0(index uint64) (uint64, error) {
	r0, err := t.rank0(index)
	if err != nil {
		return 0, err
	}
	return t.select0(r0 + 1)
}

func (t *LOUDSTree[L]) isValidHandle(index uint64) bool {
	n := t.bits.Len()
	if index >= n || index == 0 {
		return false
	}
	if !t.bits.At(index) && t.bits.At(index-1) {
		return false
	}
	return true
}

// IsLeaf reports whether index has no children.
func (t *LOUDSTree[L]) IsLeaf(index uint64) (bool, error) {
	if !t.isValidHandle(index) {
		return false, ordtree.ErrOutOfRange
	}
	return !t.bits.At(index), nil
}

// Parent returns index's parent, or ErrRootNode at the root (handle 1).
func (t *LOUDSTree[L]) Parent(index uint64) (uint64, error) {
	if !t.isValidHandle(index) {
		return 0, ordtree.ErrOutOfRange
	}
	if index == 1 {
		return 0, ordtree.ErrRootNode
	}
	r0, err := t.rank0(index - 1)
	if err != nil {
		return 0, err
	}
	p, err := t.select1(r0 + 1)
	if err != nil {
		return 0, ordtree.ErrOutOfRange
	}
	prev, err := t.prev0(p)
	if err != nil {
		return 0, err
	}
	return prev + 1, nil
}

// Child returns index's n-th child (1-based).
func (t *LOUDSTree[L]) Child(index, n uint64) (uint64, error) {
	r1, err := t.rank1(index)
	if err != nil {
		return 0, err
	}
	k := r1 + n - 2
	pos, err := t.select0(k)
	if err != nil {
		return 0, ordtree.ErrOutOfRange
	}
	return pos + 1, nil
}

// FirstChild returns index's first child, or ErrNotAParent if index is a
// leaf.
func (t *LOUDSTree[L]) FirstChild(index uint64) (uint64, error) {
	leaf, err := t.IsLeaf(index)
	if err != nil {
		return 0, err
	}
	if leaf {
		return 0, ordtree.ErrNotAParent
	}
	return t.Child(index, 1)
}

// Degree returns the number of children of index.
func (t *LOUDSTree[L]) Degree(index uint64) (uint64, error) {
	leaf, err := t.IsLeaf(index)
	if err != nil {
		return 0, err
	}
	if leaf {
		return 0, nil
	}
	next, err := t.next0(index)
	if err != nil {
		return 0, ordtree.ErrOutOfRange
	}
	return next - index, nil
}

// ChildRank returns index's 0-based rank among its parent's children (the
// first child has rank 0), or 0 for the root.
//
// Child(p, n) = select0(rank1(p)+n-2)+1, so h-1 = select0(rank1(p)+n-2) is
// always itself a 0-bit, and rank0 inverts select0 exactly there:
// rank0(h-1) = rank1(p)+n-2. Solving for the 0-based rank n-1 gives
// rank0(h-1) - rank1(p) + 1, with no dependency on where p's own run sits
// relative to its other children's subtrees.
func (t *LOUDSTree[L]) ChildRank(index uint64) (uint64, error) {
	if index <= 1 {
		return 0, nil
	}
	parent, err := t.Parent(index)
	if err != nil {
		return 0, err
	}
	r0, err := t.rank0(index - 1)
	if err != nil {
		return 0, err
	}
	r1p, err := t.rank1(parent)
	if err != nil {
		return 0, err
	}
	return uint64(int64(r0) - int64(r1p) + 1), nil
}

// NextSibling returns the next sibling following index, or ErrNoSibling.
func (t *LOUDSTree[L]) NextSibling(index uint64) (uint64, error) {
	parentA, err := t.Parent(index)
	if err != nil {
		return 0, err
	}
	r0, err := t.rank0(index - 1)
	if err != nil {
		return 0, err
	}
	pos, err := t.select0(r0 + 1)
	if err != nil {
		return 0, ordtree.ErrNoSibling
	}
	sibling := pos + 1
	parentB, err := t.Parent(sibling)
	if err != nil || parentA != parentB {
		return 0, ordtree.ErrNoSibling
	}
	return sibling, nil
}

// ChildLabel returns the label of node index.
func (t *LOUDSTree[L]) ChildLabel(index uint64) (L, error) {
	var zero L
	if !t.isValidHandle(index) {
		return zero, ordtree.ErrOutOfRange
	}
	var parent uint64
	if index != 1 {
		p, err := t.Parent(index)
		if err != nil {
			return zero, err
		}
		parent = p
	}
	var childRank uint64
	if index == 1 {
		childRank = 0
	} else {
		deg, err := t.Degree(parent)
		if err != nil {
			return zero, err
		}
		if deg == 1 {
			childRank = 0
		} else {
			cr, err := t.ChildRank(index)
			if err != nil {
				return zero, err
			}
			childRank = cr
		}
	}
	parentRank, err := t.rank1(parent)
	if err != nil {
		return zero, err
	}
	idx := parentRank + childRank - 1
	if idx >= uint64(len(t.labels)) {
		return zero, ordtree.ErrNoLabel
	}
	return t.labels[idx], nil
}

// LabeledChild returns the child of index carrying the given label, or
// ErrNoSuchChild.
func (t *LOUDSTree[L]) LabeledChild(index uint64, label L) (uint64, error) {
	degree, err := t.Degree(index)
	if err != nil {
		return 0, err
	}
	for i := uint64(1); i <= degree; i++ {
		child, err := t.Child(index, i)
		if err != nil {
			return 0, ordtree.ErrNoSuchChild
		}
		labelIdx, err := t.rank0(child)
		if err != nil {
			return 0, err
		}
		leaf, err := t.IsLeaf(child)
		if err != nil {
			return 0, err
		}
		if leaf {
			labelIdx--
		}
		if labelIdx >= uint64(len(t.labels)) {
			continue
		}
		if t.labels[labelIdx] == label {
			return child, nil
		}
	}
	return 0, ordtree.ErrNoSuchChild
}

// NumNodes returns the total number of nodes in the tree.
func (t *LOUDSTree[L]) NumNodes() uint64 {
	return t.bits.Len() / 2
}

// ByteSize returns the tree's total resident size in bytes.
func (t *LOUDSTree[L]) ByteSize() int {
	return t.bits.ByteSize() + len(t.labels)*ordtree.LabelSizeHint[L]()
}

// MemDetailed returns a breakdown of the tree's resident size.
func (t *LOUDSTree[L]) MemDetailed() memreport.Report {
	return memreport.Report{
		Name:       "loudstree.LOUDSTree",
		TotalBytes: t.ByteSize(),
		Children: []memreport.Report{
			{Name: "bitvector", TotalBytes: t.bits.ByteSize()},
			{Name: "labels", TotalBytes: len(t.labels) * ordtree.LabelSizeHint[L]()},
		},
	}
}

// String renders the bit sequence as a string of 1s and 0s.
func (t *LOUDSTree[L]) String() string {
	var sb strings.Builder
	for _, b := range t.bits.Bits() {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Save writes the tree in the private on-disk format described by the
// specification, using codec to encode each label in level order.
func (t *LOUDSTree[L]) Save(w io.Writer, codec ordtree.LabelCodec[L]) error {
	bits := t.bits.Bits()
	return ordtree.SaveFramed(w, ordtree.MagicLOUDS, bits, uint64(len(t.labels)), func(w io.Writer) error {
		for _, l := range t.labels {
			if err := codec.Encode(w, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads a tree previously written by Save.
func Load[L comparable](r io.Reader, codec ordtree.LabelCodec[L]) (*LOUDSTree[L], error) {
	bits, labelCount, body, err := ordtree.LoadFramed(r, ordtree.MagicLOUDS)
	if err != nil {
		return nil, err
	}
	labels := make([]L, labelCount)
	for i := range labels {
		l, err := codec.Decode(body)
		if err != nil {
			return nil, fmt.Errorf("succinct: decoding label %d: %w", i, err)
		}
		labels[i] = l
	}
	return FromBitVec(bits, labels)
}
