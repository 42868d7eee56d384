package fragment

import "testing"

func TestMergeOntoNilHeldStartsFresh(t *testing.T) {
	incoming := &Fragment{HasStatics: true, Statics: []string{"<p>", "</p>"}, Dynamic: map[int]Value{0: String("x")}}
	held := Merge(nil, incoming)
	if held == nil || !held.HasStatics || held.Dynamic[0].Literal != "x" {
		t.Fatalf("Merge(nil, incoming) = %+v, want a fresh fragment equal to incoming", held)
	}
}

func TestMergeRetainsUntouchedHeldFields(t *testing.T) {
	held := &Fragment{HasStatics: true, Statics: []string{"<p>", "</p>"}, Dynamic: map[int]Value{0: String("old")}}
	incoming := &Fragment{Dynamic: map[int]Value{0: String("new")}}

	Merge(held, incoming)

	if !held.HasStatics || len(held.Statics) != 2 {
		t.Fatalf("held.Statics = %+v, want retained since incoming never touched \"s\"", held.Statics)
	}
	if held.Dynamic[0].Literal != "new" {
		t.Fatalf("held.Dynamic[0] = %+v, want updated to \"new\"", held.Dynamic[0])
	}
}

func TestMergeStaticsWholesaleReplaceClearsTemplateID(t *testing.T) {
	id := 3
	held := &Fragment{TemplateID: &id, Dynamic: map[int]Value{}}
	incoming := &Fragment{HasStatics: true, Statics: []string{"<b>", "</b>"}, Dynamic: map[int]Value{}}

	Merge(held, incoming)

	if held.TemplateID != nil {
		t.Fatalf("TemplateID = %v, want cleared after a Statics replace", held.TemplateID)
	}
	if !held.HasStatics {
		t.Fatalf("HasStatics = false, want true after a Statics replace")
	}
}

func TestMergeTemplateIDWholesaleReplaceClearsStatics(t *testing.T) {
	held := &Fragment{HasStatics: true, Statics: []string{"<b>", "</b>"}, Dynamic: map[int]Value{}}
	id := 1
	incoming := &Fragment{TemplateID: &id, Dynamic: map[int]Value{}}

	Merge(held, incoming)

	if held.HasStatics {
		t.Fatalf("HasStatics = true, want cleared after a TemplateID replace")
	}
	if held.TemplateID == nil || *held.TemplateID != 1 {
		t.Fatalf("TemplateID = %v, want 1", held.TemplateID)
	}
}

func TestMergeTemplatesShallowMergeByKey(t *testing.T) {
	held := &Fragment{HasTemplates: true, Templates: map[int][]string{0: {"<a>"}}, Dynamic: map[int]Value{}}
	incoming := &Fragment{HasTemplates: true, Templates: map[int][]string{1: {"<b>"}}, Dynamic: map[int]Value{}}

	Merge(held, incoming)

	if len(held.Templates) != 2 {
		t.Fatalf("Templates = %+v, want both pool entries 0 and 1 present", held.Templates)
	}
}

func TestMergeEmptyRowsExplicitlyClearsRows(t *testing.T) {
	held := &Fragment{HasRows: true, Rows: [][]Value{{String("a")}}, Dynamic: map[int]Value{}}
	incoming := &Fragment{HasRows: true, Rows: [][]Value{}, Dynamic: map[int]Value{}}

	Merge(held, incoming)

	if !held.HasRows || len(held.Rows) != 0 {
		t.Fatalf("Rows = %+v (HasRows=%v), want explicitly emptied", held.Rows, held.HasRows)
	}
}

func TestMergeAbsentRowsLeavesHeldRowsUntouched(t *testing.T) {
	held := &Fragment{HasRows: true, Rows: [][]Value{{String("a")}}, Dynamic: map[int]Value{}}
	incoming := &Fragment{Dynamic: map[int]Value{}}

	Merge(held, incoming)

	if len(held.Rows) != 1 {
		t.Fatalf("Rows = %+v, want retained when incoming never mentions \"d\"", held.Rows)
	}
}

func TestMergeNestedFragmentHoleMergesRecursively(t *testing.T) {
	held := &Fragment{
		HasStatics: true, Statics: []string{"<div>", "</div>"},
		Dynamic: map[int]Value{0: Nested(&Fragment{HasStatics: true, Statics: []string{"<b>", "</b>"}, Dynamic: map[int]Value{0: String("old")}})},
	}
	incoming := &Fragment{
		Dynamic: map[int]Value{0: Nested(&Fragment{Dynamic: map[int]Value{0: String("new")}})},
	}

	Merge(held, incoming)

	nested := held.Dynamic[0]
	if !nested.IsFragment {
		t.Fatalf("Dynamic[0] = %+v, want still a nested fragment", nested)
	}
	if !nested.Frag.HasStatics {
		t.Fatalf("nested.HasStatics = false, want retained since incoming's nested delta never touched \"s\"")
	}
	if nested.Frag.Dynamic[0].Literal != "new" {
		t.Fatalf("nested.Dynamic[0] = %+v, want \"new\"", nested.Frag.Dynamic[0])
	}
}

func TestMergeReplyReplacesWhenPresent(t *testing.T) {
	held := &Fragment{HasReply: true, Reply: 1, Dynamic: map[int]Value{}}
	incoming := &Fragment{HasReply: true, Reply: 2, Dynamic: map[int]Value{}}

	Merge(held, incoming)

	if held.Reply != 2 {
		t.Fatalf("Reply = %d, want 2", held.Reply)
	}
}

func TestMergeIsIdempotentWhenIncomingIsEmpty(t *testing.T) {
	held := &Fragment{HasStatics: true, Statics: []string{"<p>", "</p>"}, Dynamic: map[int]Value{0: String("x")}}
	before := *held

	Merge(held, &Fragment{Dynamic: map[int]Value{}})

	if held.HasStatics != before.HasStatics || held.Dynamic[0].Literal != before.Dynamic[0].Literal {
		t.Fatalf("merging an empty delta changed held: got %+v, want unchanged from %+v", held, before)
	}
}
