package livedom

import "github.com/livefir/livedom/internal/domdiff"

// ChangeKind mirrors domdiff.EventKind at the public boundary.
type ChangeKind int

const (
	Add ChangeKind = iota
	Remove
	Replace
	Change
)

func (k ChangeKind) String() string {
	switch k {
	case Add:
		return "Add"
	case Remove:
		return "Remove"
	case Replace:
		return "Replace"
	case Change:
		return "Change"
	default:
		return "Unknown"
	}
}

// RemovedSnapshot is handed alongside a Remove event so a handler can
// still read the kind/tag of a node that no longer exists, per spec §6.
type RemovedSnapshot struct {
	Kind      Kind
	Namespace string
	Tag       string
	Text      string
}

// ChangeEvent is the record delivered to a ChangeHandler for one edit
// applied during a merge, per spec §6.
type ChangeEvent struct {
	Kind      ChangeKind
	Node      NodeRef
	Parent    NodeRef
	HasParent bool
	Removed   *RemovedSnapshot
}

// ChannelStatus is an opaque status value forwarded by the external
// transport layer through ChangeHandler.OnChannelStatus. The core never
// inspects or produces one itself (see spec §6); it only defines the
// method so a single handler value can satisfy both contracts.
type ChannelStatus string

// ChannelDecision is the handler's verdict on a channel status change.
type ChannelDecision int

const (
	ContinueListening ChannelDecision = iota
	ExitOk
)

// ChangeHandler is the single object a Document holds to learn about
// edits. OnDocumentChange is invoked synchronously, once per edit, in
// edit order, during Document.Merge. OnChannelStatus is exposed for the
// external transport collaborator described in spec §1/§6; the core
// itself never calls it.
type ChangeHandler interface {
	OnDocumentChange(ChangeEvent) error
	OnChannelStatus(status ChannelStatus) ChannelDecision
}

func toChangeEvent(e domdiff.Event) ChangeEvent {
	ev := ChangeEvent{
		Kind:      ChangeKind(e.Kind),
		Node:      e.Node,
		Parent:    e.Parent,
		HasParent: e.HasParent,
	}
	if e.Removed != nil {
		ev.Removed = &RemovedSnapshot{
			Kind:      e.Removed.Kind,
			Namespace: e.Removed.Namespace,
			Tag:       e.Removed.Tag,
			Text:      e.Removed.Text,
		}
	}
	return ev
}
