// Package livedom is the portable core of a native-rendering client for
// a server-driven UI framework: a mutable Document tree and a
// structural diff/merge engine. See SPEC_FULL.md for the full contract;
// this file holds the error taxonomy from §7.
package livedom

import (
	"fmt"

	"github.com/livefir/livedom/internal/domparser"
)

// ParseError reports a markup syntax violation. It carries the source
// location and a human-readable reason, matching spec §7.
type ParseError = domparser.Error

// DocumentErrorKind distinguishes the DocumentError variants of spec §7.
type DocumentErrorKind int

const (
	// InvalidNode: a NodeRef does not refer to a live node.
	InvalidNode DocumentErrorKind = iota
	// IllegalMutation: the requested mutation would violate a Document invariant.
	IllegalMutation
	// IndexOutOfBounds: an InsertChild index fell outside [0, len].
	IndexOutOfBounds
)

func (k DocumentErrorKind) String() string {
	switch k {
	case InvalidNode:
		return "InvalidNode"
	case IllegalMutation:
		return "IllegalMutation"
	case IndexOutOfBounds:
		return "IndexOutOfBounds"
	default:
		return "Unknown"
	}
}

// DocumentError reports a violation of the Document's public contract:
// InvalidNode, IllegalMutation, or IndexOutOfBounds. Per spec §7 these
// indicate programmer errors and are never silently swallowed.
type DocumentError struct {
	Kind    DocumentErrorKind
	Message string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document: %s: %s", e.Kind, e.Message)
}

func invalidNode(ref NodeRef) error {
	return &DocumentError{Kind: InvalidNode, Message: fmt.Sprintf("node %d is not live", ref)}
}

func illegalMutation(reason string) error {
	return &DocumentError{Kind: IllegalMutation, Message: reason}
}

func indexOutOfBounds(index, length int) error {
	return &DocumentError{Kind: IndexOutOfBounds, Message: fmt.Sprintf("index %d out of bounds for length %d", index, length)}
}

// MergeErrorKind distinguishes the MergeError variants of spec §7.
type MergeErrorKind int

const (
	// ShapeMismatch: the two documents' roots are not comparable, an
	// internal invariant violation that should never occur through the
	// public API.
	ShapeMismatch MergeErrorKind = iota
	// HandlerFailed: the change handler returned an error during
	// delivery; the tree itself was fully updated.
	HandlerFailed
	// InvalidState: a change handler was replaced while a merge was in
	// flight.
	InvalidState
)

func (k MergeErrorKind) String() string {
	switch k {
	case ShapeMismatch:
		return "ShapeMismatch"
	case HandlerFailed:
		return "HandlerFailed"
	case InvalidState:
		return "InvalidState"
	default:
		return "Unknown"
	}
}

// MergeError reports a failure of Document.Merge. When Kind is
// HandlerFailed, Unwrap returns the handler's own error and the tree has
// already been fully edited; events were only partially delivered.
type MergeError struct {
	Kind    MergeErrorKind
	Message string
	Cause   error
}

func (e *MergeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("merge: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("merge: %s: %s", e.Kind, e.Message)
}

func (e *MergeError) Unwrap() error { return e.Cause }
