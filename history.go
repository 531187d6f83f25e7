package wand

// History is a linear undo/redo stack over committed masks. Adding past
// the current pointer discards the forward branch, the usual linear
// undo semantics. The zero pointer state ("before first") is restored by
// Clear, which is also how resolution changes invalidate history: masks
// are expressed at a specific resolution and do not survive a zoom.
type History struct {
	entries []*Mask
	current int // index of the current entry, -1 before first
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{current: -1}
}

// Add commits a mask as the new current entry, discarding any entries
// beyond the pointer. Rejects a nil mask and reports failure.
func (h *History) Add(m *Mask) bool {
	if m == nil {
		return false
	}
	h.entries = append(h.entries[:h.current+1], m)
	h.current++
	return true
}

// Undo moves the pointer back by one and returns the mask there.
// Returns (nil, false) when there is nothing to undo.
func (h *History) Undo() (*Mask, bool) {
	if h.current <= 0 {
		return nil, false
	}
	h.current--
	return h.entries[h.current], true
}

// Redo moves the pointer forward by one and returns the mask there.
// Returns (nil, false) when there is nothing to redo.
func (h *History) Redo() (*Mask, bool) {
	if h.current+1 >= len(h.entries) {
		return nil, false
	}
	h.current++
	return h.entries[h.current], true
}

// Current returns the mask at the pointer, or nil before the first add.
func (h *History) Current() *Mask {
	if h.current < 0 {
		return nil
	}
	return h.entries[h.current]
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

// Clear empties the stack and resets the pointer to before-first.
func (h *History) Clear() {
	h.entries = nil
	h.current = -1
}
