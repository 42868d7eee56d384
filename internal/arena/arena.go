// Package arena is the dense node store behind a Document. It hands out
// small integer NodeRef handles and keeps nodes, their attributes, and
// their child lists in flat slices so diff/merge can compare, hash, and
// walk them cheaply.
package arena

import "github.com/livefir/livedom/internal/intern"

// NodeRef is a stable 32-bit handle for a node within one Arena. Ref 0 is
// always the Root. A NodeRef is never reassigned to a different node
// within the lifetime of the Arena that produced it: destroyed slots are
// retired, not recycled, so a caller holding a stale NodeRef can never be
// handed back an unrelated live node by accident.
type NodeRef uint32

// RootRef is the fixed handle of the Root node of every Document.
const RootRef NodeRef = 0

// Kind tags the three node variants the Document exposes.
type Kind uint8

const (
	KindRoot Kind = iota
	KindElement
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindElement:
		return "element"
	case KindLeaf:
		return "leaf"
	default:
		return "invalid"
	}
}

// AttrName identifies an attribute by optional namespace and name.
type AttrName struct {
	Namespace string
	Name      string
}

// Less implements the total AttributeName order from spec §3: namespaces
// compare first (absent < present, then lexically), then names lexically.
func (a AttrName) Less(b AttrName) bool {
	if a.Namespace != b.Namespace {
		if a.Namespace == "" {
			return true
		}
		if b.Namespace == "" {
			return false
		}
		return a.Namespace < b.Namespace
	}
	return a.Name < b.Name
}

// Attribute is one (namespace?, name, value?) triple. Value is nil when
// the attribute carries no value, distinct from an empty string value.
type Attribute struct {
	Name  AttrName
	Value *string
}

// Node is the payload of one arena slot. Only the fields relevant to the
// node's Kind are meaningful; callers reach this through the Document,
// never directly.
type Node struct {
	Kind      Kind
	Namespace string // Element only
	Tag       string // Element only
	Text      string // Leaf only
	Attrs     []Attribute
	Children  []NodeRef
	Parent    NodeRef
	HasParent bool
	alive     bool
}

// Arena is dense storage for one Document's worth of nodes. It is not
// safe for concurrent use.
type Arena struct {
	Interner *intern.Table
	nodes    []Node
}

// New returns an Arena pre-populated with a fresh Root node at RootRef.
func New() *Arena {
	a := &Arena{Interner: intern.New()}
	a.nodes = append(a.nodes, Node{Kind: KindRoot, alive: true})
	return a
}

// Alloc appends a new node and returns its fresh NodeRef. O(1) amortized.
func (a *Arena) Alloc(n Node) NodeRef {
	n.alive = true
	a.nodes = append(a.nodes, n)
	return NodeRef(len(a.nodes) - 1)
}

// Get returns the node at ref, and whether it is live. Callers must not
// retain the returned pointer across a mutation: Alloc appends to the
// backing slice and may move it, and Free clears the slot, so always
// re-resolve via the Document after a mutating call.
func (a *Arena) Get(ref NodeRef) (*Node, bool) {
	i := int(ref)
	if i < 0 || i >= len(a.nodes) || !a.nodes[i].alive {
		return nil, false
	}
	return &a.nodes[i], true
}

// Intern canonicalizes s through the arena's string table, so repeated
// tag, namespace, and attribute names share one backing string instead
// of each occurrence holding its own copy. The empty string is returned
// as-is without consuming a table slot.
func (a *Arena) Intern(s string) string {
	if s == "" {
		return ""
	}
	return a.Interner.Lookup(a.Interner.Intern(s))
}

// Free retires a slot. The NodeRef is never reused.
func (a *Arena) Free(ref NodeRef) {
	i := int(ref)
	if i < 0 || i >= len(a.nodes) {
		return
	}
	a.nodes[i] = Node{}
}

// Len reports the number of slots ever allocated (including freed ones).
func (a *Arena) Len() int {
	return len(a.nodes)
}
