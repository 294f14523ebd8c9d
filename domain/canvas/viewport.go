package canvas

// Zoom bounds. The scale is clamped so a runaway wheel event can never
// zoom the canvas out of a usable range.
const (
	MinScale     = 0.5
	MaxScale     = 3.0
	DefaultScale = 1.0
	ZoomStepSize = 0.1
)

// Viewport is the client's window onto the abstract canvas: a pixel
// offset plus a zoom scale. All methods keep the scale inside
// [MinScale, MaxScale].
type Viewport struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`
}

// NewViewport creates a viewport at the origin with the default zoom
func NewViewport() Viewport {
	return Viewport{Scale: DefaultScale}
}

// Pan shifts the viewport by a pixel delta
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// ZoomBy multiplies the scale by factor, clamped to the zoom bounds
func (v Viewport) ZoomBy(factor float64) Viewport {
	v.Scale = clampScale(v.Scale * factor)
	return v
}

// ZoomIn increases the scale by one step
func (v Viewport) ZoomIn() Viewport {
	v.Scale = clampScale(v.Scale + ZoomStepSize)
	return v
}

// ZoomOut decreases the scale by one step
func (v Viewport) ZoomOut() Viewport {
	v.Scale = clampScale(v.Scale - ZoomStepSize)
	return v
}

// Reset returns the viewport to the origin at the default zoom
func (v Viewport) Reset() Viewport {
	return NewViewport()
}

// FitToView computes a viewport that shows every given point inside a
// viewportW x viewportH pixel window with the given pixel padding on
// each side. Points are in percent of the abstract canvas. With no
// points the default viewport is returned.
func FitToView(points []Point, viewportW, viewportH, padding float64) Viewport {
	if len(points) == 0 || viewportW <= 0 || viewportH <= 0 {
		return NewViewport()
	}

	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Percent to abstract canvas pixels.
	minPX := minX / 100 * CanvasWidth
	maxPX := maxX / 100 * CanvasWidth
	minPY := minY / 100 * CanvasHeight
	maxPY := maxY / 100 * CanvasHeight

	boxW := maxPX - minPX
	boxH := maxPY - minPY

	availW := viewportW - 2*padding
	availH := viewportH - 2*padding
	if availW <= 0 {
		availW = viewportW
	}
	if availH <= 0 {
		availH = viewportH
	}

	scale := DefaultScale
	if boxW > 0 || boxH > 0 {
		scaleX := MaxScale
		scaleY := MaxScale
		if boxW > 0 {
			scaleX = availW / boxW
		}
		if boxH > 0 {
			scaleY = availH / boxH
		}
		scale = scaleX
		if scaleY < scale {
			scale = scaleY
		}
	}
	scale = clampScale(scale)

	// Center the bounding box in the window.
	centerPX := (minPX + maxPX) / 2
	centerPY := (minPY + maxPY) / 2

	return Viewport{
		OffsetX: viewportW/2 - centerPX*scale,
		OffsetY: viewportH/2 - centerPY*scale,
		Scale:   scale,
	}
}

// ToScreen projects a canvas point (percent) into window pixels
func (v Viewport) ToScreen(p Point) (float64, float64) {
	return p.X/100*CanvasWidth*v.Scale + v.OffsetX,
		p.Y/100*CanvasHeight*v.Scale + v.OffsetY
}

// DragDelta converts a pixel drag into a percent delta on the abstract
// canvas, accounting for the current zoom.
func (v Viewport) DragDelta(dxPixels, dyPixels float64) (float64, float64) {
	return dxPixels / v.Scale / CanvasWidth * 100,
		dyPixels / v.Scale / CanvasHeight * 100
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
