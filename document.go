package livedom

import (
	"github.com/livefir/livedom/internal/arena"
	"github.com/livefir/livedom/internal/domdiff"
	"github.com/livefir/livedom/internal/domparser"
)

// Document is a mutable, arena-allocated element tree with stable node
// identifiers. It is not safe for concurrent use; callers serialize
// access themselves (spec §5).
type Document struct {
	arena   *arena.Arena
	handler ChangeHandler
	merging bool
}

// Empty returns a Document containing only a Root node.
func Empty() *Document {
	return &Document{arena: arena.New()}
}

// Parse tokenizes markup into a fresh Document, per spec §4.3. No
// partial Document is ever returned on error.
func Parse(markup string) (*Document, error) {
	a, _, err := domparser.Parse(markup)
	if err != nil {
		return nil, err
	}
	return &Document{arena: a}, nil
}

// Root always returns the fixed Root handle.
func (d *Document) Root() NodeRef { return RootRef }

// Get returns a snapshot of the node at ref, or InvalidNode if ref does
// not refer to a live node.
func (d *Document) Get(ref NodeRef) (Node, error) {
	n, ok := d.arena.Get(ref)
	if !ok {
		return Node{}, invalidNode(ref)
	}
	return snapshotNode(n), nil
}

// Children returns a snapshot of ref's ordered child list.
func (d *Document) Children(ref NodeRef) ([]NodeRef, error) {
	n, ok := d.arena.Get(ref)
	if !ok {
		return nil, invalidNode(ref)
	}
	return append([]NodeRef(nil), n.Children...), nil
}

// Parent returns ref's parent, or ok=false if ref is the Root.
func (d *Document) Parent(ref NodeRef) (parent NodeRef, ok bool, err error) {
	n, live := d.arena.Get(ref)
	if !live {
		return 0, false, invalidNode(ref)
	}
	return n.Parent, n.HasParent, nil
}

// Attributes returns a snapshot of an element's attributes, in
// insertion order.
func (d *Document) Attributes(ref NodeRef) ([]Attribute, error) {
	n, ok := d.arena.Get(ref)
	if !ok {
		return nil, invalidNode(ref)
	}
	if n.Kind != arena.KindElement {
		return nil, illegalMutation("attributes are only defined on Element nodes")
	}
	return append([]Attribute(nil), n.Attrs...), nil
}

// GetAttribute looks up a single attribute by name.
func (d *Document) GetAttribute(ref NodeRef, name AttrName) (value *string, ok bool, err error) {
	n, live := d.arena.Get(ref)
	if !live {
		return nil, false, invalidNode(ref)
	}
	if n.Kind != arena.KindElement {
		return nil, false, illegalMutation("attributes are only defined on Element nodes")
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true, nil
		}
	}
	return nil, false, nil
}

// SetAttribute inserts or updates an attribute. Insertion order is
// preserved on insert; updates never reorder (spec §4.2).
func (d *Document) SetAttribute(ref NodeRef, name AttrName, value *string) error {
	n, ok := d.arena.Get(ref)
	if !ok {
		return invalidNode(ref)
	}
	if n.Kind != arena.KindElement {
		return illegalMutation("attributes are only defined on Element nodes")
	}
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return nil
		}
	}
	n.Attrs = append(n.Attrs, Attribute{Name: name, Value: value})
	return nil
}

// RemoveAttribute removes an attribute if present; a no-op otherwise.
func (d *Document) RemoveAttribute(ref NodeRef, name AttrName) error {
	n, ok := d.arena.Get(ref)
	if !ok {
		return invalidNode(ref)
	}
	if n.Kind != arena.KindElement {
		return illegalMutation("attributes are only defined on Element nodes")
	}
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return nil
		}
	}
	return nil
}

// InsertChild splices spec (and its descendants) into parent at index,
// which must be in [0, len(children)]. Returns the fresh NodeRef of
// spec's own root.
func (d *Document) InsertChild(parent NodeRef, index int, spec NodeSpec) (NodeRef, error) {
	pn, ok := d.arena.Get(parent)
	if !ok {
		return 0, invalidNode(parent)
	}
	if pn.Kind == arena.KindLeaf {
		return 0, illegalMutation("a Leaf node cannot have children")
	}
	if index < 0 || index > len(pn.Children) {
		return 0, indexOutOfBounds(index, len(pn.Children))
	}
	ref := allocSpec(d.arena, spec, parent)
	pn, _ = d.arena.Get(parent) // re-resolve: allocSpec may have grown the arena
	children := make([]NodeRef, 0, len(pn.Children)+1)
	children = append(children, pn.Children[:index]...)
	children = append(children, ref)
	children = append(children, pn.Children[index:]...)
	pn.Children = children
	return ref, nil
}

// Remove destroys the subtree rooted at ref. The Root cannot be removed.
func (d *Document) Remove(ref NodeRef) error {
	n, ok := d.arena.Get(ref)
	if !ok {
		return invalidNode(ref)
	}
	if n.Kind == arena.KindRoot {
		return illegalMutation("the Root node cannot be removed")
	}
	if !n.HasParent {
		return illegalMutation("node has no parent")
	}
	parent, _ := d.arena.Get(n.Parent)
	idx := indexOf(parent.Children, ref)
	if idx < 0 {
		return illegalMutation("node is not listed among its parent's children")
	}
	parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	domdiff.DestroySubtree(d.arena, ref)
	return nil
}

// Replace substitutes the subtree rooted at ref with a fresh subtree
// built from spec, and returns the new subtree's root NodeRef. ref is
// destroyed. The Root cannot be replaced.
func (d *Document) Replace(ref NodeRef, spec NodeSpec) (NodeRef, error) {
	n, ok := d.arena.Get(ref)
	if !ok {
		return 0, invalidNode(ref)
	}
	if n.Kind == arena.KindRoot {
		return 0, illegalMutation("the Root node cannot be replaced")
	}
	if !n.HasParent {
		return 0, illegalMutation("node has no parent")
	}
	parent := n.Parent
	pn, _ := d.arena.Get(parent)
	idx := indexOf(pn.Children, ref)
	if idx < 0 {
		return 0, illegalMutation("node is not listed among its parent's children")
	}
	newRef := allocSpec(d.arena, spec, parent)
	pn, _ = d.arena.Get(parent) // re-resolve after allocSpec
	pn.Children[idx] = newRef
	domdiff.DestroySubtree(d.arena, ref)
	return newRef, nil
}

// SetChangeHandler installs h as the single current change handler,
// detaching any prior handler. Replacing the handler mid-merge is
// rejected with InvalidState per spec §4.7.
func (d *Document) SetChangeHandler(h ChangeHandler) error {
	if d.merging {
		return &MergeError{Kind: InvalidState, Message: "cannot replace the change handler during a merge"}
	}
	d.handler = h
	return nil
}

// Merge computes and applies the edit script that makes d structurally
// equal to other (per spec §4.4), delivering one ChangeEvent per edit to
// the installed handler, synchronously, in edit order. The Document is
// always fully updated when Merge returns, even if it returns a
// HandlerFailed error: events are delivered after the corresponding
// edit has already been applied, never before, and a failing handler
// only means later events in the same merge may have been lost, not
// that earlier edits are rolled back (spec §7).
func (d *Document) Merge(other *Document) error {
	d.merging = true
	defer func() { d.merging = false }()

	events, err := domdiff.Merge(d.arena, RootRef, other.arena, RootRef)
	if err != nil {
		return &MergeError{Kind: ShapeMismatch, Message: err.Error()}
	}

	if d.handler == nil {
		return nil
	}
	for _, e := range events {
		if herr := d.handler.OnDocumentChange(toChangeEvent(e)); herr != nil {
			return &MergeError{Kind: HandlerFailed, Message: "change handler returned an error", Cause: herr}
		}
	}
	return nil
}

func indexOf(refs []NodeRef, target NodeRef) int {
	for i, r := range refs {
		if r == target {
			return i
		}
	}
	return -1
}

