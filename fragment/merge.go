package fragment

// Merge overlays incoming onto held (which may be nil, meaning "no
// fragment held yet") per spec §4.6: every key present in incoming
// replaces the corresponding slot in held, except the "p" template pool,
// which merges entry by entry; keys present only in held are retained
// unchanged. Fragment-valued holes that are fragments on
// both sides merge recursively; any other combination is a wholesale
// replace. Merge mutates and returns held.
func Merge(held *Fragment, incoming *Fragment) *Fragment {
	if held == nil {
		held = newFragment()
	}
	if incoming == nil {
		return held
	}

	if incoming.HasStatics {
		held.Statics = incoming.Statics
		held.HasStatics = true
		held.TemplateID = nil
	}
	if incoming.TemplateID != nil {
		id := *incoming.TemplateID
		held.TemplateID = &id
		held.HasStatics = false
	}
	if incoming.HasTemplates {
		if held.Templates == nil {
			held.Templates = make(map[int][]string, len(incoming.Templates))
		}
		for k, v := range incoming.Templates {
			held.Templates[k] = v
		}
		held.HasTemplates = true
	}
	if incoming.HasRows {
		held.Rows = incoming.Rows
		held.HasRows = true
	}
	if incoming.HasReply {
		held.Reply = incoming.Reply
		held.HasReply = true
	}

	if held.Dynamic == nil {
		held.Dynamic = make(map[int]Value, len(incoming.Dynamic))
	}
	for k, gv := range incoming.Dynamic {
		fv, exists := held.Dynamic[k]
		if exists && fv.IsFragment && gv.IsFragment {
			held.Dynamic[k] = Nested(Merge(fv.Frag, gv.Frag))
		} else {
			held.Dynamic[k] = gv
		}
	}
	return held
}
