package region

import "banner-editor/internal/geom"

// Handle identifies which part of a region a drag has captured.
type Handle string

const (
	HandleMove Handle = "move"
	HandleNW   Handle = "nw"
	HandleNE   Handle = "ne"
	HandleSW   Handle = "sw"
	HandleSE   Handle = "se"
)

// Hit is the result of a pointer-down test against the region list.
type Hit struct {
	RegionID string `json:"region_id"`
	Handle   Handle `json:"handle"`
}

// HitTest checks the pointer-down point against the regions in reverse
// insertion order so the most recently added region wins on overlap.
// Corner handles take priority over body containment.
func HitTest(p geom.Point, regions []Region, scale float64) (Hit, bool) {
	half := handleSize(scale) / 2
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		corners := []struct {
			handle Handle
			at     geom.Point
		}{
			{HandleNW, geom.Point{X: r.X, Y: r.Y}},
			{HandleNE, geom.Point{X: r.X + r.Width, Y: r.Y}},
			{HandleSW, geom.Point{X: r.X, Y: r.Y + r.Height}},
			{HandleSE, geom.Point{X: r.X + r.Width, Y: r.Y + r.Height}},
		}
		for _, c := range corners {
			if p.X >= c.at.X-half && p.X <= c.at.X+half && p.Y >= c.at.Y-half && p.Y <= c.at.Y+half {
				return Hit{RegionID: r.ID, Handle: c.handle}, true
			}
		}
		if r.Contains(p) {
			return Hit{RegionID: r.ID, Handle: HandleMove}, true
		}
	}
	return Hit{}, false
}

// ApplyDrag mutates the region in place for one pointer-move frame.
// Moves translate by the pointer delta and stay fully inside the image;
// resizes pin the edges opposite the handle and clamp the growing side
// to the image bounds with a 20x20 minimum.
func ApplyDrag(r *Region, handle Handle, prev, cur geom.Point, bounds geom.Size) {
	switch handle {
	case HandleMove:
		r.X = clampF(r.X+cur.X-prev.X, 0, bounds.Width-r.Width)
		r.Y = clampF(r.Y+cur.Y-prev.Y, 0, bounds.Height-r.Height)
	case HandleNW:
		right, bottom := r.X+r.Width, r.Y+r.Height
		x := clampF(cur.X, 0, right-MinRegionSize)
		y := clampF(cur.Y, 0, bottom-MinRegionSize)
		r.X, r.Y, r.Width, r.Height = x, y, right-x, bottom-y
	case HandleNE:
		left, bottom := r.X, r.Y+r.Height
		right := clampF(cur.X, left+MinRegionSize, bounds.Width)
		y := clampF(cur.Y, 0, bottom-MinRegionSize)
		r.Y, r.Width, r.Height = y, right-left, bottom-y
	case HandleSW:
		right, top := r.X+r.Width, r.Y
		x := clampF(cur.X, 0, right-MinRegionSize)
		bottom := clampF(cur.Y, top+MinRegionSize, bounds.Height)
		r.X, r.Width, r.Height = x, right-x, bottom-top
	case HandleSE:
		left, top := r.X, r.Y
		right := clampF(cur.X, left+MinRegionSize, bounds.Width)
		bottom := clampF(cur.Y, top+MinRegionSize, bounds.Height)
		r.Width, r.Height = right-left, bottom-top
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
