// Package fragment decodes the server's compact "rendered fragment"
// wire format (spec §4.6): template statics, dynamic holes, nested
// fragments, and "comprehension" lists sharing a template pool. It is
// public, not internal, because a host may hold and render a Fragment
// without ever touching a Document — the same split the teacher draws
// between its statics/dynamics tree representation (tree.go's TreeNode,
// internal/diff/tree.go's Update) and its HTML-level concerns.
package fragment

// Value is one hole's content: either a literal string or a nested
// Fragment (including a comprehension row-slot that resolves its
// statics from a shared template pool).
type Value struct {
	IsFragment bool
	Literal    string
	Frag       *Fragment
}

// String builds a literal Value.
func String(s string) Value { return Value{Literal: s} }

// Nested builds a Value wrapping a nested Fragment.
func Nested(f *Fragment) Value { return Value{IsFragment: true, Frag: f} }

// Fragment is the decoded form of one rendered-fragment JSON object.
// Any field may be absent (its Has* flag false); merge (spec §4.6)
// depends on telling "absent" apart from "present but empty" — an empty
// Rows slice with HasRows=true means "the comprehension has zero rows
// now", while HasRows=false means "this delta didn't touch the rows at
// all".
type Fragment struct {
	HasStatics bool
	Statics    []string // "s" as an inline array

	// TemplateID is set instead of Statics when this fragment is a
	// comprehension row-slot referencing the enclosing fragment's "p"
	// pool via {"s": <id>, ...}.
	TemplateID *int

	Dynamic map[int]Value // hole index -> value

	HasTemplates bool
	Templates    map[int][]string // "p"

	HasRows bool
	Rows    [][]Value // "d"

	HasReply bool
	Reply    int // "r"
}

func newFragment() *Fragment {
	return &Fragment{Dynamic: make(map[int]Value)}
}

// HoleCount reports the number of holes implied by this fragment's own
// inline Statics, or -1 if it has none.
func (f *Fragment) HoleCount() int {
	if !f.HasStatics {
		return -1
	}
	return len(f.Statics) - 1
}
