package selection

import (
	"github.com/google/uuid"

	"banner-editor/internal/geom"
)

// MinCommitSize is the threshold below which a released drag is
// discarded instead of committed. A drag must exceed it in both
// dimensions to produce a rect.
const MinCommitSize = 10

// DraftID is the placeholder id rendered for the in-progress rect.
const DraftID = "temp"

// Selection is an ordered list of committed rects plus at most one
// in-progress draft. The draft is held directly in the struct and
// mutated synchronously by Begin/UpdateDraft, so CommitDraft always
// observes the last pointer-move frame; it is never parked in any
// deferred rendering state.
type Selection struct {
	rects    []geom.Rect
	anchor   geom.Point
	draft    *geom.Rect
	maxRects int
}

// New returns an empty selection. maxRects caps the committed list;
// zero means unlimited.
func New(maxRects int) *Selection {
	return &Selection{maxRects: maxRects}
}

// BeginDraft records the drag anchor and clears any existing draft.
func (s *Selection) BeginDraft(start geom.Point) {
	s.anchor = start
	s.draft = &geom.Rect{ID: DraftID, X: start.X, Y: start.Y}
}

// UpdateDraft recomputes the draft from the anchor and the current
// pointer position, clamped to the image bounds. Called on every
// pointer-move frame; no-op when no drag is active.
func (s *Selection) UpdateDraft(current geom.Point, bounds geom.Size) {
	if s.draft == nil {
		return
	}
	r := geom.FromCorners(s.anchor, current, bounds)
	r.ID = DraftID
	*s.draft = r
}

// Draft returns the in-progress rect, if any.
func (s *Selection) Draft() (geom.Rect, bool) {
	if s.draft == nil {
		return geom.Rect{}, false
	}
	return *s.draft, true
}

// CommitDraft appends the draft to the committed list with a fresh id
// when it passes the minimum-size threshold, and clears it either way.
// Undersized drafts are discarded silently.
func (s *Selection) CommitDraft() (geom.Rect, bool) {
	if s.draft == nil {
		return geom.Rect{}, false
	}
	r := *s.draft
	s.draft = nil
	if r.Width <= MinCommitSize || r.Height <= MinCommitSize {
		return geom.Rect{}, false
	}
	if s.maxRects > 0 && len(s.rects) >= s.maxRects {
		return geom.Rect{}, false
	}
	r.ID = uuid.NewString()
	s.rects = append(s.rects, r)
	return r, true
}

// Remove deletes a committed rect by id.
func (s *Selection) Remove(id string) bool {
	for i, r := range s.rects {
		if r.ID == id {
			s.rects = append(s.rects[:i], s.rects[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the committed list. The draft is untouched.
func (s *Selection) Clear() {
	s.rects = nil
}

// Rects returns a copy of the committed rects in insertion order.
func (s *Selection) Rects() []geom.Rect {
	out := make([]geom.Rect, len(s.rects))
	copy(out, s.rects)
	return out
}

// Len reports the number of committed rects.
func (s *Selection) Len() int {
	return len(s.rects)
}

// Masks converts the committed rects to normalized masks in insertion
// order, which is also the order sent to the edit service.
func (s *Selection) Masks(image geom.Size) []geom.NormalizedRect {
	masks := make([]geom.NormalizedRect, 0, len(s.rects))
	for _, r := range s.rects {
		masks = append(masks, r.Normalize(image))
	}
	return masks
}
