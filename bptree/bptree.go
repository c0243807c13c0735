// Package bptree implements C3a: the balanced-parenthesis ordinal-tree
// façade, grounded line-by-line on original_source/src/bp_tree.rs — the
// reference crate's BPTree — with its navigation rebuilt on top of this
// module's own bitvector (C1) and rmm (C2) layers instead of the crate's
// bit-vector.
package bptree

import (
	"fmt"
	"io"
	"strings"

	"succinct/bitvector"
	"succinct/memreport"
	"succinct/ordtree"
	"succinct/rmm"
)

// BPTree satisfies ordtree.SuccinctTree, so generic tests/benchmarks can be
// parameterized over either façade.
var _ ordtree.SuccinctTree[string] = (*BPTree[string])(nil)

// BPTree is an ordinal tree encoded as a balanced-parenthesis bit sequence.
// A node handle is the bit position of its opening parenthesis.
type BPTree[L comparable] struct {
	bits   *bitvector.Vector
	rm     *rmm.Tree
	labels []L // indexed by preorder rank - 1
}

// FromBitVec builds a BPTree directly from a bit sequence and its preorder
// label list. It validates the excess invariant (§3) before accepting the
// sequence.
func FromBitVec[L comparable](bits []bool, labels []L, blockSize uint64) (*BPTree[L], error) {
	if !ordtree.IsValidExcess(boolSlice(bits)) {
		return nil, ordtree.ErrInvalidEncoding
	}
	numNodes := uint64(len(bits)) / 2
	if uint64(len(labels)) != numNodes {
		return nil, ordtree.ErrInvalidEncoding
	}
	bv := bitvector.New(bits)
	rm := rmm.Build(bits, blockSize)
	return &BPTree[L]{bits: bv, rm: rm, labels: append([]L(nil), labels...)}, nil
}

// FromReferenceTree walks ref in preorder, emitting an open before
// descending into a node's children and a close after, mirroring
// bp_tree.rs's from_id_tree.
func FromReferenceTree[L comparable](ref ordtree.ReferenceTree[L], blockSize uint64) (*BPTree[L], error) {
	root, ok := ref.Root()
	if !ok {
		return nil, ordtree.ErrEmptyTree
	}
	builder := bitvector.NewBuilder()
	var labels []L
	var visit func(n ordtree.ReferenceNode[L])
	visit = func(n ordtree.ReferenceNode[L]) {
		builder.Push(true)
		labels = append(labels, n.Label())
		for _, c := range n.Children() {
			visit(c)
		}
		builder.Push(false)
	}
	visit(root)
	bv := builder.Build()
	rm := rmm.Build(bv.Bits(), blockSize)
	return &BPTree[L]{bits: bv, rm: rm, labels: labels}, nil
}

func (t *BPTree[L]) isNode(x uint64) error {
	if x >= t.bits.Len() {
		return ordtree.ErrOutOfRange
	}
	if !t.bits.At(x) {
		return ordtree.ErrOutOfRange
	}
	return nil
}

// IsLeaf reports whether x has no children.
func (t *BPTree[L]) IsLeaf(x uint64) (bool, error) {
	if err := t.isNode(x); err != nil {
		return false, err
	}
	return !t.bits.At(x + 1), nil
}

// Parent returns x's parent, or ErrNoParent at the root.
func (t *BPTree[L]) Parent(x uint64) (uint64, error) {
	if err := t.isNode(x); err != nil {
		return 0, err
	}
	if x == 0 {
		return 0, ordtree.ErrNoParent
	}
	return t.rm.Enclose(x)
}

// FirstChild returns x's first child, or ErrNotAParent if x is a leaf.
func (t *BPTree[L]) FirstChild(x uint64) (uint64, error) {
	leaf, err := t.IsLeaf(x)
	if err != nil {
		return 0, err
	}
	if leaf {
		return 0, ordtree.ErrNotAParent
	}
	return x + 1, nil
}

// NextSibling returns the next sibling following x, or ErrNoSibling if x is
// the last child of its parent.
func (t *BPTree[L]) NextSibling(x uint64) (uint64, error) {
	if err := t.isNode(x); err != nil {
		return 0, err
	}
	close, err := t.rm.FindClose(x)
	if err != nil {
		return 0, err
	}
	y := close + 1
	if y >= t.bits.Len() || !t.bits.At(y) {
		return 0, ordtree.ErrNoSibling
	}
	return y, nil
}

// PreRank returns x's 1-based preorder rank: the number of nodes at or
// before x in a preorder traversal.
func (t *BPTree[L]) PreRank(x uint64) (uint64, error) {
	if err := t.isNode(x); err != nil {
		return 0, err
	}
	return t.bits.Rank(x, true)
}

// PreSelect returns the node handle of the k-th node in preorder, 1-based.
func (t *BPTree[L]) PreSelect(k uint64) (uint64, error) {
	return t.bits.Select(k, true)
}

// ChildLabel returns the label of node x.
func (t *BPTree[L]) ChildLabel(x uint64) (L, error) {
	var zero L
	rank, err := t.PreRank(x)
	if err != nil {
		return zero, err
	}
	idx := rank - 1
	if idx >= uint64(len(t.labels)) {
		return zero, ordtree.ErrNoLabel
	}
	return t.labels[idx], nil
}

// LabeledChild returns the child of x carrying the given label, or
// ErrNoSuchChild.
func (t *BPTree[L]) LabeledChild(x uint64, label L) (uint64, error) {
	c, err := t.FirstChild(x)
	if err != nil {
		return 0, ordtree.ErrNoSuchChild
	}
	for {
		l, err := t.ChildLabel(c)
		if err == nil && l == label {
			return c, nil
		}
		c, err = t.NextSibling(c)
		if err != nil {
			return 0, ordtree.ErrNoSuchChild
		}
	}
}

// Ancestor reports whether x is an ancestor of y (or x == y).
func (t *BPTree[L]) Ancestor(x, y uint64) (bool, error) {
	if err := t.isNode(x); err != nil {
		return false, err
	}
	if err := t.isNode(y); err != nil {
		return false, err
	}
	close, err := t.rm.FindClose(x)
	if err != nil {
		return false, err
	}
	return x <= y && y <= close, nil
}

// Depth returns x's excess, the root's depth being 1 (matching the excess
// invariant directly, per §4.3.1).
func (t *BPTree[L]) Depth(x uint64) (uint64, error) {
	if err := t.isNode(x); err != nil {
		return 0, err
	}
	e, err := t.rm.Excess(x)
	if err != nil {
		return 0, err
	}
	return uint64(e), nil
}

// SubtreeSize returns the number of nodes in x's subtree, including x.
func (t *BPTree[L]) SubtreeSize(x uint64) (uint64, error) {
	close, err := t.rm.FindClose(x)
	if err != nil {
		return 0, err
	}
	return (close - x + 1) / 2, nil
}

// NumNodes returns the total number of nodes in the tree.
func (t *BPTree[L]) NumNodes() uint64 {
	return t.bits.Len() / 2
}

// ByteSize returns the resident size in bytes of the rank/select index plus
// the label table (estimated with ordtree.LabelSizeHint). The RMM tree is
// not counted.
func (t *BPTree[L]) ByteSize() int {
	return t.bits.ByteSize() + len(t.labels)*ordtree.LabelSizeHint[L]()
}

// MemDetailed returns a breakdown of the tree's resident size between its
// rank/select index and its label table.
func (t *BPTree[L]) MemDetailed() memreport.Report {
	return memreport.Report{
		Name:       "bptree.BPTree",
		TotalBytes: t.ByteSize(),
		Children: []memreport.Report{
			{Name: "bitvector", TotalBytes: t.bits.ByteSize()},
			{Name: "labels", TotalBytes: len(t.labels) * ordtree.LabelSizeHint[L]()},
		},
	}
}

// String renders the bit sequence as a parenthesis string, e.g. "(()())".
func (t *BPTree[L]) String() string {
	var sb strings.Builder
	bits := t.bits.Bits()
	for _, b := range bits {
		if b {
			sb.WriteByte('(')
		} else {
			sb.WriteByte(')')
		}
	}
	return sb.String()
}

// Save writes the tree in the private on-disk format described by the
// specification, using codec to encode each label in preorder.
func (t *BPTree[L]) Save(w io.Writer, codec ordtree.LabelCodec[L]) error {
	bits := t.bits.Bits()
	return ordtree.SaveFramed(w, ordtree.MagicBP, bits, uint64(len(t.labels)), func(w io.Writer) error {
		for _, l := range t.labels {
			if err := codec.Encode(w, l); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads a tree previously written by Save.
func Load[L comparable](r io.Reader, codec ordtree.LabelCodec[L], blockSize uint64) (*BPTree[L], error) {
	bits, labelCount, body, err := ordtree.LoadFramed(r, ordtree.MagicBP)
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
	return FromBitVec(bits, labels, blockSize)
}

type boolSlice []bool

func (b boolSlice) Len() uint64      { return uint64(len(b)) }
func (b boolSlice) At(i uint64) bool { return b[i] }
