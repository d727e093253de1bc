package geom

const (
	zoomStep = 1.2
	minScale = 0.2
	maxScale = 3.0
)

// Viewport describes the affine transform from image-pixel space to
// device/canvas space: device = Offset + pixel * Scale.
type Viewport struct {
	Scale  float64 `json:"scale"`
	Offset Point   `json:"offset"`
}

// ToImage maps a device-space point into image-pixel space.
func (v Viewport) ToImage(device Point) Point {
	return Point{
		X: (device.X - v.Offset.X) / v.Scale,
		Y: (device.Y - v.Offset.Y) / v.Scale,
	}
}

// ToDevice maps an image-pixel point into device space.
func (v Viewport) ToDevice(image Point) Point {
	return Point{
		X: v.Offset.X + image.X*v.Scale,
		Y: v.Offset.Y + image.Y*v.Scale,
	}
}

// ZoomIn steps the scale up by the fixed zoom factor, anchored at the
// container center. Panning is a separate tool, so the anchor is never
// the pointer.
func (v Viewport) ZoomIn(container Size) Viewport {
	return v.zoomTo(v.Scale*zoomStep, container)
}

// ZoomOut steps the scale down by the fixed zoom factor.
func (v Viewport) ZoomOut(container Size) Viewport {
	return v.zoomTo(v.Scale/zoomStep, container)
}

func (v Viewport) zoomTo(scale float64, container Size) Viewport {
	scale = clamp(scale, minScale, maxScale)
	center := Point{X: container.Width / 2, Y: container.Height / 2}
	anchor := v.ToImage(center)
	return Viewport{
		Scale: scale,
		Offset: Point{
			X: center.X - anchor.X*scale,
			Y: center.Y - anchor.Y*scale,
		},
	}
}

// FitToContainer computes the initial viewport for an image: contain-fit
// capped at 1.0 so small images are not upscaled, centered in the
// container.
func FitToContainer(image, container Size) Viewport {
	if image.Width <= 0 || image.Height <= 0 {
		return Viewport{Scale: 1}
	}
	scale := container.Width / image.Width
	if s := container.Height / image.Height; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return Viewport{
		Scale: scale,
		Offset: Point{
			X: (container.Width - image.Width*scale) / 2,
			Y: (container.Height - image.Height*scale) / 2,
		},
	}
}
