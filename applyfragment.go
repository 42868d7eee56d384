package livedom

import (
	"github.com/livefir/livedom/fragment"
)

// ApplyFragment renders f to markup (spec §4.6) and merges the result
// into d (spec §4.4), dispatching ChangeEvents to d's installed handler
// exactly as Merge does. It is the glue between the two otherwise
// independent public packages: a host decodes and holds Fragments on
// its own schedule, and only calls into livedom when it is ready to
// reconcile a Document against one.
func ApplyFragment(d *Document, f *fragment.Fragment, opts fragment.DecodeOptions) error {
	markup, err := fragment.Render(f, opts)
	if err != nil {
		return err
	}
	next, err := Parse(markup)
	if err != nil {
		return err
	}
	return d.Merge(next)
}
