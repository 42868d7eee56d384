package livedom

import "github.com/livefir/livedom/internal/arena"

// NodeRef is an opaque handle to a node within a Document. Ref 0 always
// denotes the Root. NodeRefs stay valid across mutations that do not
// destroy the node they refer to.
type NodeRef = arena.NodeRef

// RootRef is the fixed handle of a Document's Root node.
const RootRef = arena.RootRef

// Kind tags the three node variants a Document can hold.
type Kind = arena.Kind

const (
	KindRoot    = arena.KindRoot
	KindElement = arena.KindElement
	KindLeaf    = arena.KindLeaf
)

// AttrName identifies an attribute by optional namespace and name.
type AttrName = arena.AttrName

// Attribute is one (namespace?, name, value?) triple, with Value nil
// when the attribute carries no value.
type Attribute = arena.Attribute

// Node is a read-only snapshot of one node's shape, returned by
// Document.Get. It borrows nothing from the Document: mutate the
// Document and re-fetch rather than trusting a stale Node value.
type Node struct {
	Kind      Kind
	Namespace string
	Tag       string
	Text      string
	Attrs     []Attribute
	Children  []NodeRef
}

func snapshotNode(n *arena.Node) Node {
	return Node{
		Kind:      n.Kind,
		Namespace: n.Namespace,
		Tag:       n.Tag,
		Text:      n.Text,
		Attrs:     append([]Attribute(nil), n.Attrs...),
		Children:  append([]NodeRef(nil), n.Children...),
	}
}

// NodeSpec describes a subtree to splice into a Document via InsertChild
// or Replace: either an Element (Tag set, Children populated) or a Leaf
// (Text set). It has no identity of its own; Document methods allocate
// fresh NodeRefs for every node in the spec when they apply it.
type NodeSpec struct {
	Kind      Kind
	Namespace string
	Tag       string
	Text      string
	Attrs     []Attribute
	Children  []NodeSpec
}

// Leaf builds a NodeSpec for a text leaf.
func Leaf(text string) NodeSpec {
	return NodeSpec{Kind: KindLeaf, Text: text}
}

// Element builds a NodeSpec for an element with the given tag and
// children, attributes set separately via WithAttr.
func Element(tag string, children ...NodeSpec) NodeSpec {
	return NodeSpec{Kind: KindElement, Tag: tag, Children: children}
}

// WithAttr returns a copy of spec with name=value appended to its
// attribute list (or updated in place if name is already present).
func (spec NodeSpec) WithAttr(name AttrName, value *string) NodeSpec {
	for i, a := range spec.Attrs {
		if a.Name == name {
			spec.Attrs[i].Value = value
			return spec
		}
	}
	spec.Attrs = append(append([]Attribute(nil), spec.Attrs...), Attribute{Name: name, Value: value})
	return spec
}

func allocSpec(a *arena.Arena, spec NodeSpec, parent arena.NodeRef) arena.NodeRef {
	attrs := append([]Attribute(nil), spec.Attrs...)
	for i, at := range attrs {
		attrs[i].Name = arena.AttrName{Namespace: a.Intern(at.Name.Namespace), Name: a.Intern(at.Name.Name)}
	}
	n := arena.Node{
		Kind:      spec.Kind,
		Namespace: a.Intern(spec.Namespace),
		Tag:       a.Intern(spec.Tag),
		Text:      spec.Text,
		Attrs:     attrs,
		Parent:    parent,
		HasParent: true,
	}
	ref := a.Alloc(n)
	children := make([]arena.NodeRef, 0, len(spec.Children))
	for _, c := range spec.Children {
		children = append(children, allocSpec(a, c, ref))
	}
	node, _ := a.Get(ref)
	node.Children = children
	return ref
}
