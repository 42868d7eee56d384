// Package intern provides a small string interner used by the arena to
// give attribute and tag names stable, cheaply-comparable ids.
package intern

// SymbolID is a stable handle for an interned string. Equal strings always
// map to the same SymbolID for the lifetime of the Table that produced it.
type SymbolID uint32

// Table interns strings, handing out dense SymbolIDs starting at 0.
// A Table is not safe for concurrent use; callers serialize access the
// same way they serialize access to the Document that owns it.
type Table struct {
	ids     map[string]SymbolID
	strings []string
}

// New returns an empty interning table.
func New() *Table {
	return &Table{ids: make(map[string]SymbolID)}
}

// Intern returns the SymbolID for s, allocating a new one if s has not been
// seen before. Idempotent: interning the same string twice returns the same id.
func (t *Table) Intern(s string) SymbolID {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := SymbolID(len(t.strings))
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// Lookup resolves a SymbolID back to its string. Panics if id was never
// produced by this Table, which would indicate a programmer error (a
// SymbolID from a different Table).
func (t *Table) Lookup(id SymbolID) string {
	return t.strings[id]
}

// Len reports how many distinct strings have been interned.
func (t *Table) Len() int {
	return len(t.strings)
}
