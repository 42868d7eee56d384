package domdiff

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/livefir/livedom/internal/arena"
)

// TestPropertyAttributeDeltaIsMinimalAndSingleEvent is the
// property-style table test for spec §8's attribute-delta minimality
// law: merging two single-element arenas that differ only in
// attributes produces at most one Change event, and leaves dst's final
// attribute set exactly equal to src's, over gofakeit-generated random
// attribute sets rather than one fixed example.
func TestPropertyAttributeDeltaIsMinimalAndSingleEvent(t *testing.T) {
	gofakeit.Seed(6)
	for trial := 0; trial < 25; trial++ {
		t.Run(fmt.Sprintf("trial-%d", trial), func(t *testing.T) {
			keys := randomAttrKeys()

			dstAttrs, dstVals := randomAttrsFor(keys)
			srcAttrs, srcVals := randomAttrsFor(keys)

			dst := singleElementArena("div", dstAttrs)
			src := singleElementArena("div", srcAttrs)

			events, err := Merge(dst, arena.RootRef, src, arena.RootRef)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}

			changed := fmt.Sprint(dstVals) != fmt.Sprint(srcVals)
			if changed && len(events) != 1 {
				t.Fatalf("events = %v, want exactly one Change for a differing attribute set", kindsOf(events))
			}
			if !changed && len(events) != 0 {
				t.Fatalf("events = %v, want none for an identical attribute set", kindsOf(events))
			}
			if len(events) > 0 && events[0].Kind != Change {
				t.Fatalf("events[0].Kind = %v, want Change", events[0].Kind)
			}

			dstRoot, _ := dst.Get(arena.RootRef)
			el, _ := dst.Get(dstRoot.Children[0])
			got := map[string]string{}
			for _, a := range el.Attrs {
				if a.Value != nil {
					got[a.Name.Name] = *a.Value
				} else {
					got[a.Name.Name] = ""
				}
			}
			if fmt.Sprint(got) != fmt.Sprint(srcVals) {
				t.Fatalf("final attrs = %v, want exactly src's set %v", got, srcVals)
			}
		})
	}
}

func randomAttrKeys() []string {
	n := gofakeit.Number(1, 4)
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s%d", gofakeit.Word(), i)
	}
	return keys
}

// randomAttrsFor returns a random subset of keys as arena attributes
// (so some keys are absent, simulating insert/remove), plus the
// resulting name->value map for comparison.
func randomAttrsFor(keys []string) ([]arena.Attribute, map[string]string) {
	var attrs []arena.Attribute
	vals := map[string]string{}
	for _, k := range keys {
		if !gofakeit.Bool() {
			continue
		}
		v := gofakeit.Word()
		attrs = append(attrs, arena.Attribute{Name: arena.AttrName{Name: k}, Value: &v})
		vals[k] = v
	}
	return attrs, vals
}

func singleElementArena(tag string, attrs []arena.Attribute) *arena.Arena {
	a := arena.New()
	el := a.Alloc(arena.Node{Kind: arena.KindElement, Tag: a.Intern(tag), Attrs: attrs, Parent: arena.RootRef, HasParent: true})
	root, _ := a.Get(arena.RootRef)
	root.Children = append(root.Children, el)
	return a
}
