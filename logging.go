package livedom

import (
	"log"

	"github.com/livefir/livedom/internal/corelog"
)

// SetLogger installs l as the process-wide logging sink for diagnostic
// messages the core itself never needs for correctness (it returns
// typed errors for everything that matters) but that are occasionally
// useful while integrating a host: e.g. a tolerated unknown template id
// reported by fragment.CheckUnusedTemplates (see
// fragment.DecodeOptions.StrictTemplates).
// Passing nil restores the discarding default. This is the module's
// only process-wide mutable state; everything else lives per-Document.
func SetLogger(l *log.Logger) {
	corelog.Set(l)
}
