package livedom

import "github.com/livefir/livedom/internal/arena"

// Traversal is a depth-first, pre-order iterator over a node's
// descendants, per spec §4.5. The starting node's child list is copied
// when the Traversal is constructed; each descendant's child list is read
// when Next visits that descendant. Mutating the Document while iterating
// is forbidden. A node destroyed while still queued surfaces InvalidNode
// when Next reaches it; other mutations are not detected, and children
// added under a not-yet-visited node are visited.
type Traversal struct {
	doc   *Document
	stack []arena.NodeRef
}

// Traverse starts a fresh depth-first traversal of ref's descendants
// (ref itself is not included). Call it again to restart.
func (d *Document) Traverse(ref NodeRef) (*Traversal, error) {
	n, ok := d.arena.Get(ref)
	if !ok {
		return nil, invalidNode(ref)
	}
	stack := make([]arena.NodeRef, len(n.Children))
	for i, c := range n.Children {
		stack[len(n.Children)-1-i] = c
	}
	return &Traversal{doc: d, stack: stack}, nil
}

// Next returns the next node in pre-order, or ok=false once the
// traversal is exhausted.
func (t *Traversal) Next() (ref NodeRef, node Node, ok bool, err error) {
	if len(t.stack) == 0 {
		return 0, Node{}, false, nil
	}
	ref = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]

	n, live := t.doc.arena.Get(ref)
	if !live {
		return 0, Node{}, false, invalidNode(ref)
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		t.stack = append(t.stack, n.Children[i])
	}
	return ref, snapshotNode(n), true, nil
}
