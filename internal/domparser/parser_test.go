package domparser

import (
	"testing"

	"github.com/livefir/livedom/internal/arena"
)

func mustParse(t *testing.T, markup string) (*arena.Arena, arena.NodeRef) {
	t.Helper()
	a, root, err := Parse(markup)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", markup, err)
	}
	return a, root
}

func TestParseSimpleElement(t *testing.T) {
	a, root := mustParse(t, `<div class="a">hi</div>`)
	rootNode, _ := a.Get(root)
	if len(rootNode.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(rootNode.Children))
	}
	div, _ := a.Get(rootNode.Children[0])
	if div.Kind != arena.KindElement || div.Tag != "div" {
		t.Fatalf("child = %+v, want an element <div>", div)
	}
	if len(div.Attrs) != 1 || div.Attrs[0].Name.Name != "class" || *div.Attrs[0].Value != "a" {
		t.Fatalf("div.Attrs = %+v, want one class=\"a\" attribute", div.Attrs)
	}
	if len(div.Children) != 1 {
		t.Fatalf("div has %d children, want 1", len(div.Children))
	}
	leaf, _ := a.Get(div.Children[0])
	if leaf.Kind != arena.KindLeaf || leaf.Text != "hi" {
		t.Fatalf("leaf = %+v, want Text=\"hi\"", leaf)
	}
}

func TestParseSelfClosingElement(t *testing.T) {
	a, root := mustParse(t, `<br/>`)
	rootNode, _ := a.Get(root)
	if len(rootNode.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(rootNode.Children))
	}
	br, _ := a.Get(rootNode.Children[0])
	if br.Tag != "br" || len(br.Children) != 0 {
		t.Fatalf("br = %+v, want a childless element", br)
	}
}

func TestParseValuelessAttribute(t *testing.T) {
	a, root := mustParse(t, `<input disabled>`)
	rootNode, _ := a.Get(root)
	input, _ := a.Get(rootNode.Children[0])
	if len(input.Attrs) != 1 || input.Attrs[0].Value != nil {
		t.Fatalf("input.Attrs = %+v, want one value-less attribute", input.Attrs)
	}
}

func TestParseNamespacedName(t *testing.T) {
	a, root := mustParse(t, `<svg xlink:href="x"></svg>`)
	rootNode, _ := a.Get(root)
	svg, _ := a.Get(rootNode.Children[0])
	if svg.Attrs[0].Name.Namespace != "xlink" || svg.Attrs[0].Name.Name != "href" {
		t.Fatalf("attribute name = %+v, want xlink:href", svg.Attrs[0].Name)
	}
}

func TestParseDuplicateAttributeLastWins(t *testing.T) {
	a, root := mustParse(t, `<a href="one" href="two"></a>`)
	rootNode, _ := a.Get(root)
	el, _ := a.Get(rootNode.Children[0])
	if len(el.Attrs) != 1 {
		t.Fatalf("Attrs = %+v, want exactly one entry for a duplicate name", el.Attrs)
	}
	if *el.Attrs[0].Value != "two" {
		t.Fatalf("Attrs[0].Value = %q, want \"two\" (last occurrence wins)", *el.Attrs[0].Value)
	}
}

func TestParsePreservesWhitespaceOnlyLeaf(t *testing.T) {
	a, root := mustParse(t, "<p>   </p>")
	rootNode, _ := a.Get(root)
	p, _ := a.Get(rootNode.Children[0])
	if len(p.Children) != 1 {
		t.Fatalf("p has %d children, want 1 whitespace leaf", len(p.Children))
	}
	leaf, _ := a.Get(p.Children[0])
	if leaf.Text != "   " {
		t.Fatalf("leaf.Text = %q, want preserved whitespace", leaf.Text)
	}
}

func TestParseElidesWhitespaceBetweenElementSiblings(t *testing.T) {
	a, root := mustParse(t, "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>")
	rootNode, _ := a.Get(root)
	ul, _ := a.Get(rootNode.Children[0])
	if len(ul.Children) != 2 {
		t.Fatalf("ul has %d children, want 2 (indentation whitespace must be elided)", len(ul.Children))
	}
	li1, _ := a.Get(ul.Children[0])
	li2, _ := a.Get(ul.Children[1])
	if li1.Tag != "li" || li2.Tag != "li" {
		t.Fatalf("ul.Children = %+v, %+v, want two <li> elements with no whitespace leaves between them", li1, li2)
	}
}

func TestParseKeepsMeaningfulTextBesideAnElement(t *testing.T) {
	a, root := mustParse(t, "<div>text<span>x</span></div>")
	rootNode, _ := a.Get(root)
	div, _ := a.Get(rootNode.Children[0])
	if len(div.Children) != 2 {
		t.Fatalf("div has %d children, want 2 (a non-whitespace leaf plus <span>)", len(div.Children))
	}
	leaf, _ := a.Get(div.Children[0])
	if leaf.Kind != arena.KindLeaf || leaf.Text != "text" {
		t.Fatalf("div.Children[0] = %+v, want Leaf(\"text\")", leaf)
	}
	span, _ := a.Get(div.Children[1])
	if span.Tag != "span" {
		t.Fatalf("div.Children[1] = %+v, want <span>", span)
	}
}

func TestParseUnescapesEntities(t *testing.T) {
	a, root := mustParse(t, `<p>a &amp; b &lt; c</p>`)
	rootNode, _ := a.Get(root)
	p, _ := a.Get(rootNode.Children[0])
	leaf, _ := a.Get(p.Children[0])
	if leaf.Text != "a & b < c" {
		t.Fatalf("leaf.Text = %q, want unescaped entities", leaf.Text)
	}
}

func TestParseMismatchedCloseTagIsError(t *testing.T) {
	_, _, err := Parse(`<div><span></div></span>`)
	if err == nil {
		t.Fatalf("expected a parse error for a mismatched close tag")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *domparser.Error", err)
	}
	if perr.Reason == "" {
		t.Fatalf("Error.Reason is empty")
	}
}

func TestParseUnterminatedElementIsError(t *testing.T) {
	_, _, err := Parse(`<div><span>`)
	if err == nil {
		t.Fatalf("expected a parse error for an unterminated element")
	}
}

func TestParseUnexpectedCloseTagIsError(t *testing.T) {
	_, _, err := Parse(`</div>`)
	if err == nil {
		t.Fatalf("expected a parse error for a close tag with no matching open")
	}
}

func TestParseInternsRepeatedTagNames(t *testing.T) {
	a, root := mustParse(t, `<ul><li>a</li><li>b</li></ul>`)
	rootNode, _ := a.Get(root)
	ul, _ := a.Get(rootNode.Children[0])
	if len(ul.Children) != 2 {
		t.Fatalf("ul has %d children, want 2", len(ul.Children))
	}
	li1, _ := a.Get(ul.Children[0])
	li2, _ := a.Get(ul.Children[1])
	if li1.Tag != "li" || li2.Tag != "li" {
		t.Fatalf("li tags = %q, %q, want both \"li\"", li1.Tag, li2.Tag)
	}
	if a.Interner.Len() != 2 {
		t.Fatalf("Interner.Len() = %d, want 2 (\"ul\" and \"li\" each interned once)", a.Interner.Len())
	}
}
