// Package domparser hand-tokenizes the HTML-ish markup accepted by the
// core. It is deliberately not an HTML5 parser: tag and attribute names
// are preserved verbatim, there is no void-element list, and every
// element must be explicitly closed or self-closed. This mirrors the
// teacher's own hand-rolled template/tag scanners (full_tree_parser.go,
// tree_ast.go), which likewise avoid golang.org/x/net/html for
// structural parsing and only reach for it to escape/unescape entities.
package domparser

import (
	"fmt"
	"strings"

	"github.com/livefir/livedom/internal/arena"
)

// Error is a ParseError: a markup syntax violation with its source
// location and reason.
type Error struct {
	Line   int
	Column int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Reason)
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokOpenTag
	tokCloseTag
	tokSelfCloseTag
)

type attrTok struct {
	ns, name string
	value    *string
}

type token struct {
	kind  tokenKind
	line  int
	col   int
	ns    string
	tag   string
	attrs []attrTok
	text  string
}

// scanner walks the input rune-by-rune, tracking line/column for
// diagnostics.
type scanner struct {
	src        []rune
	pos        int
	line, col  int
}

func newScanner(s string) *scanner {
	return &scanner{src: []rune(s), line: 1, col: 1}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off int) rune {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) advance() rune {
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func isNameStart(r rune) bool {
	return r != 0 && !isSpace(r) && r != '<' && r != '>' && r != '/' && r != '=' && r != '"' && r != '\''
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.advance()
	}
}

// next produces the next token: a run of text, or a tag token.
func (s *scanner) next() (token, error) {
	if s.peek() == '<' {
		return s.scanTag()
	}
	return s.scanText(), nil
}

func (s *scanner) scanText() token {
	line, col := s.line, s.col
	var b strings.Builder
	for !s.eof() && s.peek() != '<' {
		b.WriteRune(s.advance())
	}
	return token{kind: tokText, line: line, col: col, text: b.String()}
}

func (s *scanner) scanName() string {
	var b strings.Builder
	for isNameStart(s.peek()) {
		b.WriteRune(s.advance())
	}
	return b.String()
}

func splitNamespace(full string) (ns, name string) {
	if i := strings.IndexByte(full, ':'); i > 0 {
		return full[:i], full[i+1:]
	}
	return "", full
}

func (s *scanner) scanTag() (token, error) {
	line, col := s.line, s.col
	s.advance() // consume '<'

	if s.peek() == '/' {
		s.advance()
		s.skipSpace()
		full := s.scanName()
		if full == "" {
			return token{}, &Error{Line: line, Column: col, Reason: "expected tag name after </"}
		}
		s.skipSpace()
		if s.peek() != '>' {
			return token{}, &Error{Line: s.line, Column: s.col, Reason: "unterminated close tag"}
		}
		s.advance()
		ns, name := splitNamespace(full)
		return token{kind: tokCloseTag, line: line, col: col, ns: ns, tag: name}, nil
	}

	full := s.scanName()
	if full == "" {
		return token{}, &Error{Line: line, Column: col, Reason: "expected tag name after <"}
	}
	ns, name := splitNamespace(full)
	tok := token{kind: tokOpenTag, line: line, col: col, ns: ns, tag: name}

	for {
		s.skipSpace()
		if s.eof() {
			return token{}, &Error{Line: s.line, Column: s.col, Reason: "unterminated tag: missing >"}
		}
		if s.peek() == '/' && s.peekAt(1) == '>' {
			s.advance()
			s.advance()
			tok.kind = tokSelfCloseTag
			return tok, nil
		}
		if s.peek() == '>' {
			s.advance()
			return tok, nil
		}
		attr, err := s.scanAttr()
		if err != nil {
			return token{}, err
		}
		tok.attrs = append(tok.attrs, attr)
	}
}

func (s *scanner) scanAttr() (attrTok, error) {
	line, col := s.line, s.col
	full := s.scanName()
	if full == "" {
		return attrTok{}, &Error{Line: line, Column: col, Reason: "malformed attribute syntax"}
	}
	ns, name := splitNamespace(full)
	a := attrTok{ns: ns, name: name}

	s.skipSpace()
	if s.peek() != '=' {
		return a, nil // value-less attribute
	}
	s.advance() // '='
	s.skipSpace()

	switch s.peek() {
	case '"', '\'':
		quote := s.advance()
		var b strings.Builder
		for {
			if s.eof() {
				return attrTok{}, &Error{Line: s.line, Column: s.col, Reason: "unterminated attribute value"}
			}
			r := s.advance()
			if r == quote {
				break
			}
			b.WriteRune(r)
		}
		v := b.String()
		a.value = &v
	default:
		var b strings.Builder
		for !s.eof() && isNameStart(s.peek()) {
			b.WriteRune(s.advance())
		}
		if b.Len() == 0 {
			return attrTok{}, &Error{Line: s.line, Column: s.col, Reason: "malformed attribute syntax"}
		}
		v := b.String()
		a.value = &v
	}
	return a, nil
}

// Parse tokenizes and builds markup into a fresh Arena, returning the
// arena and its (fixed) root ref.
func Parse(markup string) (*arena.Arena, arena.NodeRef, error) {
	a := arena.New()
	sc := newScanner(markup)

	type frame struct {
		ref arena.NodeRef
		ns  string
		tag string
	}
	stack := []frame{{ref: arena.RootRef}}

	for !sc.eof() {
		tok, err := sc.next()
		if err != nil {
			return nil, 0, err
		}
		top := &stack[len(stack)-1]

		switch tok.kind {
		case tokText:
			if tok.text == "" {
				continue
			}
			leaf := a.Alloc(arena.Node{Kind: arena.KindLeaf, Text: UnescapeText(tok.text), Parent: top.ref, HasParent: true})
			appendChild(a, top.ref, leaf)

		case tokOpenTag:
			attrs := convertAttrs(a, tok.attrs)
			el := a.Alloc(arena.Node{
				Kind: arena.KindElement, Namespace: a.Intern(tok.ns), Tag: a.Intern(tok.tag),
				Attrs: attrs, Parent: top.ref, HasParent: true,
			})
			appendChild(a, top.ref, el)
			stack = append(stack, frame{ref: el, ns: tok.ns, tag: tok.tag})

		case tokSelfCloseTag:
			attrs := convertAttrs(a, tok.attrs)
			el := a.Alloc(arena.Node{
				Kind: arena.KindElement, Namespace: a.Intern(tok.ns), Tag: a.Intern(tok.tag),
				Attrs: attrs, Parent: top.ref, HasParent: true,
			})
			appendChild(a, top.ref, el)

		case tokCloseTag:
			if len(stack) == 1 {
				return nil, 0, &Error{Line: tok.line, Column: tok.col, Reason: fmt.Sprintf("unexpected close tag </%s>: no open element", tok.tag)}
			}
			if top.tag != tok.tag || top.ns != tok.ns {
				return nil, 0, &Error{Line: tok.line, Column: tok.col, Reason: fmt.Sprintf("mismatched close tag: expected </%s>, got </%s>", top.tag, tok.tag)}
			}
			elideInsignificantWhitespace(a, top.ref)
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) != 1 {
		top := stack[len(stack)-1]
		return nil, 0, &Error{Line: sc.line, Column: sc.col, Reason: fmt.Sprintf("unterminated element <%s>", top.tag)}
	}
	elideInsignificantWhitespace(a, arena.RootRef)
	return a, arena.RootRef, nil
}

// elideInsignificantWhitespace drops a Leaf child of ref whose text is
// whitespace-only, but only when ref has more than one child: such a
// leaf is separator formatting between sibling tags (exactly what
// Render inserts between Element siblings) rather than meaningful
// content, and keeping it would make parse(render(doc)) observe leaves
// the original doc never had. A whitespace-only Leaf that is an
// element's *sole* child is its meaningful content and is always kept
// (see TestParsePreservesWhitespaceOnlyLeaf).
func elideInsignificantWhitespace(a *arena.Arena, ref arena.NodeRef) {
	n, ok := a.Get(ref)
	if !ok || len(n.Children) <= 1 {
		return
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		cn, _ := a.Get(c)
		if cn.Kind == arena.KindLeaf && strings.TrimSpace(cn.Text) == "" {
			a.Free(c)
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
}

func convertAttrs(a *arena.Arena, toks []attrTok) []arena.Attribute {
	if len(toks) == 0 {
		return nil
	}
	out := make([]arena.Attribute, 0, len(toks))
	seen := make(map[arena.AttrName]int, len(toks))
	for _, t := range toks {
		name := arena.AttrName{Namespace: a.Intern(t.ns), Name: a.Intern(t.name)}
		if idx, ok := seen[name]; ok {
			out[idx].Value = t.value
			continue
		}
		seen[name] = len(out)
		out = append(out, arena.Attribute{Name: name, Value: t.value})
	}
	return out
}

func appendChild(a *arena.Arena, parent, child arena.NodeRef) {
	n, _ := a.Get(parent)
	n.Children = append(n.Children, child)
}
