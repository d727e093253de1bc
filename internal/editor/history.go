package editor

// ImageRef identifies the current raster of one image context. The
// bytes themselves live behind the asset service.
type ImageRef struct {
	URL     string `json:"url"`
	AssetID string `json:"asset_id,omitempty"`
}

// History is the per-context undo stack of prior image references. An
// entry is pushed synchronously before a mutating edit dispatches; a
// failed edit removes its speculative push again, so the stack only
// ever reflects predecessors of successful edits.
type History struct {
	entries []ImageRef
}

// Push appends a prior image reference.
func (h *History) Push(ref ImageRef) {
	h.entries = append(h.entries, ref)
}

// Pop removes and returns the most recent entry. Popping an empty stack
// is a no-op.
func (h *History) Pop() (ImageRef, bool) {
	if len(h.entries) == 0 {
		return ImageRef{}, false
	}
	ref := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return ref, true
}

// RollbackLastPush discards the most recent entry without restoring it,
// compensating a failed edit's speculative push. Safe to call when
// nothing was pushed this cycle.
func (h *History) RollbackLastPush() {
	if len(h.entries) == 0 {
		return
	}
	h.entries = h.entries[:len(h.entries)-1]
}

// Len reports the stack depth.
func (h *History) Len() int {
	return len(h.entries)
}
