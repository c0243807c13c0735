// Package ordtree holds the collaborator interfaces and error taxonomy shared
// by the bptree and loudstree façades.
package ordtree

import "errors"

// Errors returned by navigation, construction and persistence operations.
// Callers distinguish failure modes with errors.Is, never by string match.
var (
	// ErrOutOfRange is returned when a handle is >= len(B), or in LOUDS when
	// it names a zero bit that does not start a node.
	ErrOutOfRange = errors.New("succinct: index does not reference a node")

	// ErrNotAParent is returned by FirstChild on a leaf.
	ErrNotAParent = errors.New("succinct: node is a leaf")

	// ErrNoParent is returned by Parent on the BP root.
	ErrNoParent = errors.New("succinct: node has no parent")

	// ErrRootNode is returned by Parent on the LOUDS root.
	ErrRootNode = errors.New("succinct: index is the root")

	// ErrNoSibling is returned by NextSibling when the candidate belongs to
	// a different parent, or none exists.
	ErrNoSibling = errors.New("succinct: node has no next sibling")

	// ErrNoLabel is returned when a node has no recorded label.
	ErrNoLabel = errors.New("succinct: node has no label")

	// ErrNoSuchChild is returned by LabeledChild when no child matches.
	ErrNoSuchChild = errors.New("succinct: no child with that label")

	// ErrInvalidEncoding is returned when a bit sequence fails the excess
	// invariant (§3).
	ErrInvalidEncoding = errors.New("succinct: bit sequence is not a valid balanced-parenthesis encoding")

	// ErrEmptyTree is returned when constructing from a reference tree with
	// no root.
	ErrEmptyTree = errors.New("succinct: reference tree has no root")

	// ErrNotFound is surfaced from the RMM tree when FindClose/Enclose/
	// FwdSearch/BwdSearch have no answer.
	ErrNotFound = errors.New("succinct: no matching position")

	// ErrDeserialize is returned by Load when the payload checksum does not
	// match, or the framing is otherwise corrupt.
	ErrDeserialize = errors.New("succinct: corrupt or incompatible serialized tree")
)
