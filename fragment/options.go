package fragment

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/livefir/livedom/internal/corelog"
)

var validate = validator.New()

// DecodeOptions controls how CheckUnusedTemplates treats a Fragment tree
// once it has been merged against a held template pool. The zero value is
// the tolerant default: a row or hole referencing a template id absent
// from every reachable pool is logged and otherwise accepted. A "p" entry
// that no row or hole references is never reported, in either mode.
// Render ignores these options: it always fails with UnknownTemplate on a
// template id it cannot resolve.
type DecodeOptions struct {
	// StrictTemplates makes CheckUnusedTemplates return an UnknownTemplate
	// Error for a TemplateID that no pool reachable from the root defines,
	// instead of logging it and returning nil.
	StrictTemplates bool `yaml:"strict_templates" validate:"-"`
}

// DefaultDecodeOptions returns the package's tolerant default.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{StrictTemplates: false}
}

// LoadDecodeOptions reads DecodeOptions from a YAML file, following the
// same read-or-default shape as the teacher's own config loader: a
// missing file yields DefaultDecodeOptions rather than an error.
func LoadDecodeOptions(path string) (DecodeOptions, error) {
	opts := DefaultDecodeOptions()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return opts, fmt.Errorf("fragment: failed to read decode options file: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("fragment: failed to parse decode options file: %w", err)
	}
	if err := validate.Struct(opts); err != nil {
		return opts, fmt.Errorf("fragment: invalid decode options: %w", err)
	}
	return opts, nil
}

// CheckUnusedTemplates walks f looking for a TemplateID that no reachable
// "p" pool (f's own, or one inherited from an ancestor) defines. Under
// the default tolerant mode it only logs via corelog and returns nil;
// with opts.StrictTemplates it returns an UnknownTemplate Error for the
// first such reference found.
func CheckUnusedTemplates(f *Fragment, opts DecodeOptions) error {
	return checkTemplates(f, nil, "$", opts)
}

func checkTemplates(f *Fragment, inherited map[int][]string, path string, opts DecodeOptions) error {
	if f == nil {
		return nil
	}

	pool := inherited
	if f.HasTemplates {
		pool = f.Templates
	}

	if f.TemplateID != nil {
		if _, ok := pool[*f.TemplateID]; !ok {
			msg := fmt.Sprintf("fragment: %s references template id %d with no reachable pool entry", path, *f.TemplateID)
			if opts.StrictTemplates {
				return &Error{Kind: UnknownTemplate, Path: path, Message: msg}
			}
			corelog.Printf("%s", msg)
		}
	}

	for i, v := range f.Dynamic {
		if v.IsFragment {
			if err := checkTemplates(v.Frag, pool, fmt.Sprintf("%s.%d", path, i), opts); err != nil {
				return err
			}
		}
	}
	for ri, row := range f.Rows {
		for hi, v := range row {
			if v.IsFragment {
				if err := checkTemplates(v.Frag, pool, fmt.Sprintf("%s.d[%d][%d]", path, ri, hi), opts); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
