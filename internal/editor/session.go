package editor

import (
	"sync"

	"github.com/google/uuid"

	"banner-editor/internal/domain"
	"banner-editor/internal/geom"
	"banner-editor/internal/region"
	"banner-editor/internal/selection"
)

// Context names one independent image context of an editing session.
type Context string

const (
	ContextDesktop Context = "desktop"
	ContextMobile  Context = "mobile"
)

// ViewportState is the full interaction state of one image context:
// the current raster, its transform, the selection set, the clickable
// regions and the undo stack. Desktop and mobile contexts never share
// any of it.
type ViewportState struct {
	Image     ImageRef
	ImageSize geom.Size
	Container geom.Size
	Viewport  geom.Viewport
	Selection *selection.Selection
	History   History
	Regions   []region.Region

	drag *regionDrag
}

type regionDrag struct {
	hit  region.Hit
	last geom.Point
}

// Session is one editing session over a banner image, optionally with a
// second independent mobile context (dual mode). All methods are safe
// for concurrent handlers; pointer-path operations are pure arithmetic
// under the lock and never suspend.
type Session struct {
	ID string

	mu       sync.Mutex
	contexts map[Context]*ViewportState
	dualMode bool
	editing  bool
	closed   bool

	maxSelections int
}

// NewSession opens a session for the desktop image, fitted and centered
// in its container. maxSelections caps committed rects per context
// (zero for unlimited).
func NewSession(image ImageRef, imageSize, container geom.Size, maxSelections int) *Session {
	s := &Session{
		ID:            uuid.NewString(),
		contexts:      make(map[Context]*ViewportState),
		maxSelections: maxSelections,
	}
	s.contexts[ContextDesktop] = newViewportState(image, imageSize, container, maxSelections)
	return s
}

func newViewportState(image ImageRef, imageSize, container geom.Size, maxSelections int) *ViewportState {
	return &ViewportState{
		Image:     image,
		ImageSize: imageSize,
		Container: container,
		Viewport:  geom.FitToContainer(imageSize, container),
		Selection: selection.New(maxSelections),
	}
}

// EnableMobile activates dual mode with an independent mobile context.
func (s *Session) EnableMobile(image ImageRef, imageSize, container geom.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[ContextMobile] = newViewportState(image, imageSize, container, s.maxSelections)
	s.dualMode = true
}

// DualMode reports whether the mobile context is active.
func (s *Session) DualMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dualMode
}

// Close marks the session closed. In-flight edit results observed after
// close are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) state(ctx Context) (*ViewportState, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	vs, ok := s.contexts[ctx]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return vs, nil
}

// BeginSelection starts a draft rect at the device-space point.
func (s *Session) BeginSelection(ctx Context, device geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	vs.Selection.BeginDraft(vs.Viewport.ToImage(device))
	return nil
}

// UpdateSelection tracks a pointer-move frame of an active drag.
func (s *Session) UpdateSelection(ctx Context, device geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	vs.Selection.UpdateDraft(vs.Viewport.ToImage(device), vs.ImageSize)
	return nil
}

// EndSelection commits the draft on pointer-up. Undersized drags are
// dropped silently.
func (s *Session) EndSelection(ctx Context) (geom.Rect, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return geom.Rect{}, false, err
	}
	r, ok := vs.Selection.CommitDraft()
	return r, ok, nil
}

// RemoveSelection deletes one committed rect by id.
func (s *Session) RemoveSelection(ctx Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	if !vs.Selection.Remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

// ClearSelections empties the committed rects of one context.
func (s *Session) ClearSelections(ctx Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	vs.Selection.Clear()
	return nil
}

// Zoom steps the context viewport in or out, anchored at the container
// center.
func (s *Session) Zoom(ctx Context, in bool) (geom.Viewport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return geom.Viewport{}, err
	}
	if in {
		vs.Viewport = vs.Viewport.ZoomIn(vs.Container)
	} else {
		vs.Viewport = vs.Viewport.ZoomOut(vs.Container)
	}
	return vs.Viewport, nil
}

// Undo restores the previous image of the context and clears its
// selection, since selections are relative to the replaced image. An
// empty history is a no-op. Undo is rejected while an edit is in
// flight: the in-flight edit's speculative push sits on the stack and
// must not be popped as if it were a settled predecessor.
func (s *Session) Undo(ctx Context) (ImageRef, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return ImageRef{}, false, err
	}
	if s.editing {
		return ImageRef{}, false, domain.ErrEditInFlight
	}
	prev, ok := vs.History.Pop()
	if !ok {
		return vs.Image, false, nil
	}
	vs.Image = prev
	vs.Selection.Clear()
	return prev, true, nil
}

// AdoptImage replaces the context image with an externally produced
// result (for example an adopted variation), pushing the prior image so
// the adoption is undoable. Rejected while an edit is in flight so the
// adoption's push cannot be consumed by a failing edit's rollback.
func (s *Session) AdoptImage(ctx Context, ref ImageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	if s.editing {
		return domain.ErrEditInFlight
	}
	vs.History.Push(vs.Image)
	vs.Image = ref
	vs.Selection.Clear()
	return nil
}

// SetRegions replaces the clickable-region list of a context. Each
// region is clamped to the image bounds and given an id if it has none.
func (s *Session) SetRegions(ctx Context, regions []region.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	for i := range regions {
		regions[i].Rect = regions[i].Rect.ClampTo(vs.ImageSize)
		if regions[i].ID == "" {
			regions[i].ID = uuid.NewString()
		}
	}
	vs.Regions = regions
	vs.drag = nil
	return nil
}

// Regions returns a copy of the context's region list.
func (s *Session) Regions(ctx Context) ([]region.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]region.Region, len(vs.Regions))
	copy(out, vs.Regions)
	return out, nil
}

// HitRegion tests a pointer-down point against the region list and
// captures the hit for a following drag. A miss clears any capture.
func (s *Session) HitRegion(ctx Context, device geom.Point) (region.Hit, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return region.Hit{}, false, err
	}
	p := vs.Viewport.ToImage(device)
	hit, ok := region.HitTest(p, vs.Regions, vs.Viewport.Scale)
	if !ok {
		vs.drag = nil
		return region.Hit{}, false, nil
	}
	vs.drag = &regionDrag{hit: hit, last: p}
	return hit, true, nil
}

// DragRegion applies one pointer-move frame to the captured region.
// Without a capture it is a no-op.
func (s *Session) DragRegion(ctx Context, device geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	if vs.drag == nil {
		return nil
	}
	p := vs.Viewport.ToImage(device)
	for i := range vs.Regions {
		if vs.Regions[i].ID == vs.drag.hit.RegionID {
			region.ApplyDrag(&vs.Regions[i], vs.drag.hit.Handle, vs.drag.last, p, vs.ImageSize)
			break
		}
	}
	vs.drag.last = p
	return nil
}

// EndRegionDrag releases the drag capture. The region was mutated in
// place, so there is no commit step.
func (s *Session) EndRegionDrag(ctx Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := s.state(ctx)
	if err != nil {
		return err
	}
	vs.drag = nil
	return nil
}

// ContextView is the JSON-facing snapshot of one image context.
type ContextView struct {
	Image        ImageRef        `json:"image"`
	ImageSize    geom.Size       `json:"image_size"`
	Viewport     geom.Viewport   `json:"viewport"`
	Selections   []geom.Rect     `json:"selections"`
	Draft        *geom.Rect      `json:"draft,omitempty"`
	Regions      []region.Region `json:"regions,omitempty"`
	HistoryDepth int             `json:"history_depth"`
}

// Snapshot returns a consistent view of every context for rendering.
func (s *Session) Snapshot() map[Context]ContextView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Context]ContextView, len(s.contexts))
	for name, vs := range s.contexts {
		view := ContextView{
			Image:        vs.Image,
			ImageSize:    vs.ImageSize,
			Viewport:     vs.Viewport,
			Selections:   vs.Selection.Rects(),
			Regions:      append([]region.Region(nil), vs.Regions...),
			HistoryDepth: vs.History.Len(),
		}
		if draft, ok := vs.Selection.Draft(); ok {
			view.Draft = &draft
		}
		out[name] = view
	}
	return out
}
