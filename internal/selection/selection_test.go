package selection

import (
	"testing"

	"banner-editor/internal/geom"
)

var bounds = geom.Size{Width: 1200, Height: 800}

func TestCommitDraft(t *testing.T) {
	s := New(0)
	s.BeginDraft(geom.Point{X: 50, Y: 50})
	s.UpdateDraft(geom.Point{X: 150, Y: 150}, bounds)

	r, ok := s.CommitDraft()
	if !ok {
		t.Fatalf("expected commit to succeed")
	}
	if r.ID == "" || r.ID == DraftID {
		t.Fatalf("committed rect must get a fresh id, got %q", r.ID)
	}
	if r.X != 50 || r.Y != 50 || r.Width != 100 || r.Height != 100 {
		t.Fatalf("unexpected rect: %+v", r)
	}
	if s.Len() != 1 {
		t.Fatalf("committed count = %d, want 1", s.Len())
	}
	if _, ok := s.Draft(); ok {
		t.Fatalf("draft must be cleared after commit")
	}
}

func TestMinimumSizeDiscard(t *testing.T) {
	s := New(0)

	// Never exceeds 10px in either dimension: discarded.
	s.BeginDraft(geom.Point{X: 100, Y: 100})
	s.UpdateDraft(geom.Point{X: 110, Y: 110}, bounds)
	if _, ok := s.CommitDraft(); ok {
		t.Fatalf("10x10 drag must be discarded")
	}
	if s.Len() != 0 {
		t.Fatalf("discarded drag must not commit, got %d rects", s.Len())
	}

	// Exactly 11x11: committed.
	s.BeginDraft(geom.Point{X: 100, Y: 100})
	s.UpdateDraft(geom.Point{X: 111, Y: 111}, bounds)
	if _, ok := s.CommitDraft(); !ok {
		t.Fatalf("11x11 drag must commit")
	}
}

func TestDraftClampedToBounds(t *testing.T) {
	s := New(0)
	s.BeginDraft(geom.Point{X: -20, Y: 700})
	s.UpdateDraft(geom.Point{X: 60, Y: 900}, bounds)
	r, ok := s.CommitDraft()
	if !ok {
		t.Fatalf("expected commit")
	}
	if r.X != 0 || r.Y != 700 || r.Width != 60 || r.Height != 100 {
		t.Fatalf("unexpected clamped rect: %+v", r)
	}
}

func TestDraftTracksLastMoveFrame(t *testing.T) {
	s := New(0)
	s.BeginDraft(geom.Point{X: 0, Y: 0})
	// High-frequency pointer moves; commit must see the very last frame.
	for x := 1.0; x <= 300; x++ {
		s.UpdateDraft(geom.Point{X: x, Y: x}, bounds)
	}
	r, ok := s.CommitDraft()
	if !ok || r.Width != 300 || r.Height != 300 {
		t.Fatalf("commit must observe the final frame, got %+v ok=%v", r, ok)
	}
}

func TestUpdateDraftNeverTouchesCommitted(t *testing.T) {
	s := New(0)
	s.BeginDraft(geom.Point{X: 0, Y: 0})
	s.UpdateDraft(geom.Point{X: 100, Y: 100}, bounds)
	s.CommitDraft()
	before := s.Rects()

	s.BeginDraft(geom.Point{X: 200, Y: 200})
	s.UpdateDraft(geom.Point{X: 400, Y: 400}, bounds)
	after := s.Rects()
	if len(before) != len(after) || before[0] != after[0] {
		t.Fatalf("active draft mutated committed rects: %+v vs %+v", before, after)
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := New(0)
	for i := 0; i < 3; i++ {
		s.BeginDraft(geom.Point{X: float64(i * 100), Y: 0})
		s.UpdateDraft(geom.Point{X: float64(i*100 + 50), Y: 50}, bounds)
		s.CommitDraft()
	}
	rects := s.Rects()
	if !s.Remove(rects[1].ID) {
		t.Fatalf("remove by id failed")
	}
	if s.Len() != 2 {
		t.Fatalf("len after remove = %d, want 2", s.Len())
	}
	if s.Remove("missing") {
		t.Fatalf("removing an unknown id must report false")
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("clear must empty the committed list")
	}
}

func TestMaxRectsCap(t *testing.T) {
	s := New(2)
	for i := 0; i < 3; i++ {
		s.BeginDraft(geom.Point{X: float64(i * 100), Y: 0})
		s.UpdateDraft(geom.Point{X: float64(i*100 + 50), Y: 50}, bounds)
		s.CommitDraft()
	}
	if s.Len() != 2 {
		t.Fatalf("cap not enforced, len = %d", s.Len())
	}
}

func TestMaskOrderFollowsInsertion(t *testing.T) {
	s := New(0)
	s.BeginDraft(geom.Point{X: 50, Y: 50})
	s.UpdateDraft(geom.Point{X: 150, Y: 150}, bounds)
	s.CommitDraft()
	s.BeginDraft(geom.Point{X: -20, Y: 700})
	s.UpdateDraft(geom.Point{X: 60, Y: 900}, bounds)
	s.CommitDraft()

	masks := s.Masks(bounds)
	if len(masks) != 2 {
		t.Fatalf("mask count = %d, want 2", len(masks))
	}
	approx := func(got, want float64) bool { d := got - want; return d < 1e-4 && d > -1e-4 }
	if !approx(masks[0].X, 0.0417) || !approx(masks[0].Y, 0.0625) || !approx(masks[0].Width, 0.0833) || !approx(masks[0].Height, 0.125) {
		t.Fatalf("first mask mismatch: %+v", masks[0])
	}
	if !approx(masks[1].X, 0) || !approx(masks[1].Y, 0.875) || !approx(masks[1].Width, 0.05) || !approx(masks[1].Height, 0.125) {
		t.Fatalf("second mask mismatch: %+v", masks[1])
	}
}
