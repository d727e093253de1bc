package geom

// Point is a position in image-pixel space unless stated otherwise.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size holds pixel dimensions of an image or container.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in image-pixel space. Every mutation
// keeps it inside the owning image's bounds.
type Rect struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizedRect is a rectangle with all fields divided by the image
// dimensions, each in [0,1]. This is the wire format for masks.
type NormalizedRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FromCorners builds a rect spanning two arbitrary points, both clamped to
// the given bounds first so the result never extends outside the image.
func FromCorners(a, b Point, bounds Size) Rect {
	a = a.ClampTo(bounds)
	b = b.ClampTo(bounds)
	x0, x1 := a.X, b.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// ClampTo constrains the point to [0, bounds.Width] x [0, bounds.Height].
func (p Point) ClampTo(bounds Size) Point {
	return Point{
		X: clamp(p.X, 0, bounds.Width),
		Y: clamp(p.Y, 0, bounds.Height),
	}
}

// ClampTo constrains the rect so that 0 <= x, 0 <= y, x+w <= bounds.Width
// and y+h <= bounds.Height.
func (r Rect) ClampTo(bounds Size) Rect {
	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.X > bounds.Width {
		r.X = bounds.Width
	}
	if r.Y > bounds.Height {
		r.Y = bounds.Height
	}
	if r.X+r.Width > bounds.Width {
		r.Width = bounds.Width - r.X
	}
	if r.Y+r.Height > bounds.Height {
		r.Height = bounds.Height - r.Y
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Normalize divides the rect by the image dimensions.
func (r Rect) Normalize(image Size) NormalizedRect {
	if image.Width <= 0 || image.Height <= 0 {
		return NormalizedRect{}
	}
	return NormalizedRect{
		X:      r.X / image.Width,
		Y:      r.Y / image.Height,
		Width:  r.Width / image.Width,
		Height: r.Height / image.Height,
	}
}

// Denormalize converts a normalized rect back to pixel space.
func (n NormalizedRect) Denormalize(image Size) Rect {
	return Rect{
		X:      n.X * image.Width,
		Y:      n.Y * image.Height,
		Width:  n.Width * image.Width,
		Height: n.Height * image.Height,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
