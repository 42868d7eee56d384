package livedom

import (
	"strings"

	"github.com/livefir/livedom/internal/arena"
	"golang.org/x/net/html"
)

const indentUnit = "    "

// Render produces normalized markup per spec §6: 4-space indentation,
// self-closing when childless, attribute values double-quoted with
// inner double quotes backslash-escaped, value-less attributes rendered
// bare, namespaced names as ns:name, leaf text HTML-escaped. An Element
// that follows a tag starts on its own line; leaf text is written
// inline, never on a line of its own, and an Element next to leaf text
// stays on that text's line. Render is a
// pure function of the Document's logical state: the same Document
// always renders to the same bytes.
//
// Indentation is only ever inserted between two tags, never glued onto
// a Leaf's own text: a text run is bounded by the nearest tags on
// either side, so any whitespace Render wrote immediately before or
// after a leaf's content would be re-read back as part of that leaf on
// the next Parse, corrupting it. Whitespace added between Element
// siblings is instead a standalone leaf that Parse elides as
// insignificant (see elideInsignificantWhitespace), which is what
// keeps parse(render(doc)) structurally equal to doc (spec §8
// round-trip law).
func (d *Document) Render() string {
	var b strings.Builder
	n, _ := d.arena.Get(RootRef)
	lastWasElement := renderChildren(&b, d.arena, n.Children, 0, false)
	if lastWasElement {
		b.WriteByte('\n')
	}
	return b.String()
}

// renderChildren writes refs at depth. afterTag reports whether the
// position immediately before the first child is already a tag
// boundary (true for an element's own children, since its opening tag
// was just written; false for the Document's top-level children,
// which have no enclosing tag). It returns whether the last child
// written was an Element, so the caller knows whether trailing
// whitespace may safely precede its own closing tag (or, at the top
// level, end the rendered output).
func renderChildren(b *strings.Builder, a *arena.Arena, refs []arena.NodeRef, depth int, afterTag bool) bool {
	lastWasElement := afterTag
	for _, ref := range refs {
		n, ok := a.Get(ref)
		if !ok {
			continue
		}
		if n.Kind == arena.KindLeaf {
			b.WriteString(html.EscapeString(n.Text))
			lastWasElement = false
			continue
		}
		if lastWasElement {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(indentUnit, depth))
		}
		renderElement(b, a, n, depth)
		lastWasElement = true
	}
	return lastWasElement
}

func renderElement(b *strings.Builder, a *arena.Arena, n *arena.Node, depth int) {
	b.WriteByte('<')
	b.WriteString(qualifiedName(n.Namespace, n.Tag))
	for _, attr := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(renderAttr(attr))
	}
	if len(n.Children) == 0 {
		b.WriteString(" />")
		return
	}
	b.WriteByte('>')
	lastWasElement := renderChildren(b, a, n.Children, depth+1, true)
	if lastWasElement {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(indentUnit, depth))
	}
	b.WriteString("</")
	b.WriteString(qualifiedName(n.Namespace, n.Tag))
	b.WriteByte('>')
}

func qualifiedName(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + ":" + name
}

func renderAttr(attr Attribute) string {
	name := qualifiedName(attr.Name.Namespace, attr.Name.Name)
	if attr.Value == nil {
		return name
	}
	return name + `="` + escapeAttrValue(*attr.Value) + `"`
}

func escapeAttrValue(v string) string {
	if !strings.ContainsRune(v, '"') {
		return v
	}
	return strings.ReplaceAll(v, `"`, `\"`)
}
