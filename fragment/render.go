package fragment

import (
	"fmt"
	"strings"

	"github.com/livefir/livedom/internal/corelog"
)

// Render produces the markup for f by interleaving its statics with the
// rendered forms of its holes (or, for a comprehension, each row in
// turn), per spec §4.6. Nested fragments recurse; a comprehension row
// slot resolves its statics from the nearest enclosing "p" pool.
func Render(f *Fragment, opts DecodeOptions) (string, error) {
	var b strings.Builder
	if err := render(&b, f, nil, "$", opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

func render(b *strings.Builder, f *Fragment, inherited map[int][]string, path string, opts DecodeOptions) error {
	statics, err := resolveStatics(f, inherited, path)
	if err != nil {
		return err
	}

	pool := inherited
	if f.HasTemplates {
		pool = f.Templates
	}

	if f.HasRows {
		return renderRows(b, f, statics, pool, path, opts)
	}

	holes := len(statics) - 1
	b.WriteString(statics[0])
	for i := 0; i < holes; i++ {
		val, ok := f.Dynamic[i]
		if !ok {
			return &Error{Kind: RenderBeforeBound, Path: fmt.Sprintf("%s.%d", path, i), Message: "hole was never bound"}
		}
		if err := renderValue(b, val, pool, fmt.Sprintf("%s.%d", path, i), opts); err != nil {
			return err
		}
		b.WriteString(statics[i+1])
	}
	return nil
}

func renderRows(b *strings.Builder, f *Fragment, statics []string, pool map[int][]string, path string, opts DecodeOptions) error {
	holes := len(statics) - 1
	for ri, row := range f.Rows {
		if len(row) != holes {
			return schemaErr(fmt.Sprintf("%s.d[%d]", path, ri), "row arity does not match statics hole count at render time")
		}
		b.WriteString(statics[0])
		for i := 0; i < holes; i++ {
			if err := renderValue(b, row[i], pool, fmt.Sprintf("%s.d[%d][%d]", path, ri, i), opts); err != nil {
				return err
			}
			b.WriteString(statics[i+1])
		}
	}
	return nil
}

func renderValue(b *strings.Builder, v Value, pool map[int][]string, path string, opts DecodeOptions) error {
	if !v.IsFragment {
		b.WriteString(v.Literal)
		return nil
	}
	return render(b, v.Frag, pool, path, opts)
}

func resolveStatics(f *Fragment, inherited map[int][]string, path string) ([]string, error) {
	if f.HasStatics {
		return f.Statics, nil
	}
	if f.TemplateID != nil {
		if inherited == nil {
			return nil, &Error{Kind: UnknownTemplate, Path: path, Message: fmt.Sprintf("template id %d has no enclosing pool", *f.TemplateID)}
		}
		s, ok := inherited[*f.TemplateID]
		if !ok {
			corelog.Printf("fragment: render at %s referenced unknown template id %d", path, *f.TemplateID)
			return nil, &Error{Kind: UnknownTemplate, Path: path, Message: fmt.Sprintf("template id %d is not defined", *f.TemplateID)}
		}
		return s, nil
	}
	return nil, &Error{Kind: RenderBeforeBound, Path: path, Message: "fragment has never received statics"}
}
