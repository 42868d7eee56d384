// Package domdiff implements the structural diff/merge described in
// spec §4.4: it walks two arenas in lock step, matching children by
// position, and produces/applies the minimal edit script needed to make
// the destination arena structurally equal to the source. The shape of
// the algorithm (collect edits for a subtree, then apply
// removals/additions/replaces/changes in a fixed order) follows the
// teacher's internal/diff package, which likewise classifies a change
// before applying it (see internal/diff/comparator.go, generator.go).
package domdiff

import (
	"sort"

	"github.com/livefir/livedom/internal/arena"
)

// EventKind tags one emitted change.
type EventKind int

const (
	Add EventKind = iota
	Remove
	Replace
	Change
)

func (k EventKind) String() string {
	switch k {
	case Add:
		return "Add"
	case Remove:
		return "Remove"
	case Replace:
		return "Replace"
	case Change:
		return "Change"
	default:
		return "Unknown"
	}
}

// RemovedSnapshot captures enough of a destroyed node to describe it to a
// handler after it is gone, per spec §4.4 ("still resolvable to
// kind/tag via a short-lived pre-destroy snapshot").
type RemovedSnapshot struct {
	Kind      arena.Kind
	Namespace string
	Tag       string
	Text      string
}

// Event is one edit delivered to the change handler.
type Event struct {
	Kind     EventKind
	Node     arena.NodeRef
	Parent   arena.NodeRef
	HasParent bool
	Removed  *RemovedSnapshot
}

// Merge edits dst in place so that the subtree at dstRoot becomes
// structurally equal to the subtree at srcRoot (read from src), per the
// positional matching rule of spec §4.4. It returns the full list of
// edits in the order they were applied.
//
// dst and src may be the same arena (used by the no-op-merge invariant
// test, merge(D, D)); callers pass distinct arenas in the common case of
// merging a freshly parsed reference Document into a live one.
func Merge(dst *arena.Arena, dstRoot arena.NodeRef, src *arena.Arena, srcRoot arena.NodeRef) ([]Event, error) {
	dstNode, ok := dst.Get(dstRoot)
	if !ok {
		return nil, ErrShapeMismatch
	}
	srcNode, ok := src.Get(srcRoot)
	if !ok {
		return nil, ErrShapeMismatch
	}
	if dstNode.Kind != arena.KindRoot || srcNode.Kind != arena.KindRoot {
		return nil, ErrShapeMismatch
	}

	var events []Event
	if err := diffNode(dst, dstRoot, src, srcRoot, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ErrShapeMismatch is returned when the two documents' roots are not
// both Root nodes, an internal invariant violation that should never
// occur through the public API.
var ErrShapeMismatch = shapeMismatchError{}

type shapeMismatchError struct{}

func (shapeMismatchError) Error() string { return "domdiff: root shape mismatch" }

// diffNode assumes dstRef and srcRef are already matched (same Kind, and
// for elements the same tag/namespace). It updates dstRef's own
// attributes/text in place, then reconciles children.
func diffNode(dst *arena.Arena, dstRef arena.NodeRef, src *arena.Arena, srcRef arena.NodeRef, events *[]Event) error {
	dn, ok := dst.Get(dstRef)
	if !ok {
		return ErrShapeMismatch
	}
	sn, ok := src.Get(srcRef)
	if !ok {
		return ErrShapeMismatch
	}

	switch dn.Kind {
	case arena.KindLeaf:
		if dn.Text != sn.Text {
			dn.Text = sn.Text
			*events = append(*events, changeEvent(dst, dstRef))
		}
	case arena.KindElement, arena.KindRoot:
		if dn.Kind == arena.KindElement {
			if applyAttrDelta(dn, sn) {
				*events = append(*events, changeEvent(dst, dstRef))
			}
		}
		if err := diffChildren(dst, dstRef, src, srcRef, events); err != nil {
			return err
		}
	}
	return nil
}

func changeEvent(dst *arena.Arena, ref arena.NodeRef) Event {
	n, _ := dst.Get(ref)
	return Event{Kind: Change, Node: ref, Parent: n.Parent, HasParent: n.HasParent}
}

// applyAttrDelta mutates dn's attribute list in place to match sn's
// attribute set, reports whether anything changed. Matches spec §4.2's
// set_attribute/remove_attribute semantics: inserts append in the
// incoming (src) order and preserve that position on future updates;
// updates never reorder; removals leave remaining order untouched.
func applyAttrDelta(dn, sn *arena.Node) bool {
	changed := false

	dstIdx := make(map[arena.AttrName]int, len(dn.Attrs))
	for i, a := range dn.Attrs {
		dstIdx[a.Name] = i
	}
	srcSet := make(map[arena.AttrName]bool, len(sn.Attrs))

	for _, sa := range sn.Attrs {
		srcSet[sa.Name] = true
		if i, ok := dstIdx[sa.Name]; ok {
			if !sameValue(dn.Attrs[i].Value, sa.Value) {
				dn.Attrs[i].Value = sa.Value
				changed = true
			}
		} else {
			dn.Attrs = append(dn.Attrs, arena.Attribute{Name: sa.Name, Value: sa.Value})
			dstIdx[sa.Name] = len(dn.Attrs) - 1
			changed = true
		}
	}

	if len(srcSet) != len(dn.Attrs) || hasRemoval(dn.Attrs, srcSet) {
		kept := dn.Attrs[:0]
		for _, a := range dn.Attrs {
			if srcSet[a.Name] {
				kept = append(kept, a)
			} else {
				changed = true
			}
		}
		dn.Attrs = kept
	}
	return changed
}

func hasRemoval(attrs []arena.Attribute, srcSet map[arena.AttrName]bool) bool {
	for _, a := range attrs {
		if !srcSet[a.Name] {
			return true
		}
	}
	return false
}

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// diffChildren reconciles dstParent's children against srcParent's
// children by position. Because pairing is positional, a mismatch in
// length produces a contiguous tail of Removes (dst longer) or a
// contiguous tail of Adds (src longer), never both at the same level —
// see spec §4.4 and DESIGN.md for why positional pairing collapses to
// this shape.
func diffChildren(dst *arena.Arena, dstParent arena.NodeRef, src *arena.Arena, srcParent arena.NodeRef, events *[]Event) error {
	dn, _ := dst.Get(dstParent)
	sn, _ := src.Get(srcParent)
	dstChildren := append([]arena.NodeRef(nil), dn.Children...)
	srcChildren := append([]arena.NodeRef(nil), sn.Children...)

	shared := len(dstChildren)
	if len(srcChildren) < shared {
		shared = len(srcChildren)
	}

	type recursePair struct {
		dstRef, srcRef arena.NodeRef
		childIndex     int
	}
	var toReplace []int
	var toRecurse []recursePair

	newChildren := append([]arena.NodeRef(nil), dstChildren[:shared]...)

	for i := 0; i < shared; i++ {
		dr := dstChildren[i]
		sr := srcChildren[i]
		if sameShape(dst, dr, src, sr) {
			toRecurse = append(toRecurse, recursePair{dr, sr, i})
		} else {
			toReplace = append(toReplace, i)
		}
	}

	// Edit ordering follows spec §4.4: removals, then additions, then
	// replaces, then (recursed) changes.

	// Removals: descending index order over the dst-only tail.
	if len(dstChildren) > shared {
		for i := len(dstChildren) - 1; i >= shared; i-- {
			ref := dstChildren[i]
			snap := snapshotOf(dst, ref)
			*events = append(*events, Event{Kind: Remove, Node: ref, Parent: dstParent, HasParent: true, Removed: &snap})
			destroySubtree(dst, ref)
		}
	}

	// Additions: ascending index order over the src-only tail.
	if len(srcChildren) > shared {
		for i := shared; i < len(srcChildren); i++ {
			newRef := cloneInto(dst, src, srcChildren[i])
			newChildren = append(newChildren, newRef)
			nn, _ := dst.Get(newRef)
			nn.Parent = dstParent
			nn.HasParent = true
			*events = append(*events, Event{Kind: Add, Node: newRef, Parent: dstParent, HasParent: true})
		}
	}

	// Replaces: index-stable (same slot, no shift).
	for _, i := range toReplace {
		oldRef := dstChildren[i]
		newRef := cloneInto(dst, src, srcChildren[i])
		replaceEvent := prepareReplace(dst, dstParent, newRef)
		destroySubtree(dst, oldRef)
		newChildren[i] = newRef
		*events = append(*events, replaceEvent)
	}

	dn, _ = dst.Get(dstParent) // re-resolve: cloneInto may have grown dst's slice
	dn.Children = newChildren

	// Recurse into matched pairs last, in document order, after this
	// level's shape settles.
	sort.Slice(toRecurse, func(i, j int) bool { return toRecurse[i].childIndex < toRecurse[j].childIndex })
	for _, p := range toRecurse {
		if err := diffNode(dst, p.dstRef, src, p.srcRef, events); err != nil {
			return err
		}
	}
	return nil
}

func prepareReplace(dst *arena.Arena, parent, newRef arena.NodeRef) Event {
	nn, _ := dst.Get(newRef)
	nn.Parent = parent
	nn.HasParent = true
	return Event{Kind: Replace, Node: newRef, Parent: parent, HasParent: true}
}

func snapshotOf(dst *arena.Arena, ref arena.NodeRef) RemovedSnapshot {
	n, _ := dst.Get(ref)
	return RemovedSnapshot{Kind: n.Kind, Namespace: n.Namespace, Tag: n.Tag, Text: n.Text}
}

func sameShape(dst *arena.Arena, dr arena.NodeRef, src *arena.Arena, sr arena.NodeRef) bool {
	dn, _ := dst.Get(dr)
	sn, _ := src.Get(sr)
	if dn.Kind != sn.Kind {
		return false
	}
	if dn.Kind == arena.KindElement {
		return dn.Tag == sn.Tag && dn.Namespace == sn.Namespace
	}
	return true
}

// DestroySubtree frees ref and, recursively, all of its descendants. It
// is exported so Document's own Remove/Replace operations can share the
// same destruction logic as merge.
func DestroySubtree(a *arena.Arena, ref arena.NodeRef) {
	destroySubtree(a, ref)
}

// destroySubtree frees ref and, recursively, all of its descendants.
func destroySubtree(a *arena.Arena, ref arena.NodeRef) {
	n, ok := a.Get(ref)
	if !ok {
		return
	}
	for _, c := range n.Children {
		destroySubtree(a, c)
	}
	a.Free(ref)
}

// cloneInto deep-copies the subtree rooted at srcRef (from src) into
// dst, allocating fresh NodeRefs. The Root kind is never cloned this way
// (only Element/Leaf subtrees are spliced during merge).
func cloneInto(dst *arena.Arena, src *arena.Arena, srcRef arena.NodeRef) arena.NodeRef {
	sn, _ := src.Get(srcRef)
	attrs := append([]arena.Attribute(nil), sn.Attrs...)
	for i, a := range attrs {
		attrs[i].Name = arena.AttrName{Namespace: dst.Intern(a.Name.Namespace), Name: dst.Intern(a.Name.Name)}
	}
	n := arena.Node{
		Kind:      sn.Kind,
		Namespace: dst.Intern(sn.Namespace),
		Tag:       dst.Intern(sn.Tag),
		Text:      sn.Text,
		Attrs:     attrs,
	}
	newRef := dst.Alloc(n)
	children := make([]arena.NodeRef, 0, len(sn.Children))
	for _, c := range sn.Children {
		childRef := cloneInto(dst, src, c)
		cn, _ := dst.Get(childRef)
		cn.Parent = newRef
		cn.HasParent = true
		children = append(children, childRef)
	}
	nn, _ := dst.Get(newRef)
	nn.Children = children
	return newRef
}
