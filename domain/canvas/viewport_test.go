package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewport_ZoomClamped(t *testing.T) {
	v := NewViewport()

	for i := 0; i < 100; i++ {
		v = v.ZoomIn()
	}
	assert.Equal(t, MaxScale, v.Scale)

	for i := 0; i < 100; i++ {
		v = v.ZoomOut()
	}
	assert.Equal(t, MinScale, v.Scale)

	v = v.ZoomBy(1000)
	assert.Equal(t, MaxScale, v.Scale)
	v = v.ZoomBy(0.0001)
	assert.Equal(t, MinScale, v.Scale)
}

func TestViewport_PanAndReset(t *testing.T) {
	v := NewViewport().Pan(120, -45).ZoomIn()
	assert.Equal(t, 120.0, v.OffsetX)
	assert.Equal(t, -45.0, v.OffsetY)

	v = v.Reset()
	assert.Equal(t, NewViewport(), v)
}

func TestFitToView_AllPointsVisible(t *testing.T) {
	points := []Point{
		{X: 10, Y: 25},
		{X: 50, Y: 25},
		{X: 90, Y: 25},
	}
	const w, h, pad = 1200.0, 800.0, 40.0

	v := FitToView(points, w, h, pad)

	assert.GreaterOrEqual(t, v.Scale, MinScale)
	assert.LessOrEqual(t, v.Scale, MaxScale)
	for _, p := range points {
		sx, sy := v.ToScreen(p)
		assert.GreaterOrEqual(t, sx, 0.0)
		assert.LessOrEqual(t, sx, w)
		assert.GreaterOrEqual(t, sy, 0.0)
		assert.LessOrEqual(t, sy, h)
	}
}

func TestFitToView_SinglePointCentered(t *testing.T) {
	v := FitToView([]Point{{X: 50, Y: 50}}, 1000, 600, 20)

	sx, sy := v.ToScreen(Point{X: 50, Y: 50})
	assert.InDelta(t, 500.0, sx, 0.001)
	assert.InDelta(t, 300.0, sy, 0.001)
}

func TestFitToView_NoPoints(t *testing.T) {
	assert.Equal(t, NewViewport(), FitToView(nil, 800, 600, 20))
}

func TestViewport_DragDelta(t *testing.T) {
	v := NewViewport()
	dx, dy := v.DragDelta(CanvasWidth, CanvasHeight)
	assert.InDelta(t, 100.0, dx, 0.001)
	assert.InDelta(t, 100.0, dy, 0.001)

	// Zoomed in, the same pixel drag moves the node less far.
	v = Viewport{Scale: 2.0}
	dx, dy = v.DragDelta(CanvasWidth, CanvasHeight)
	assert.InDelta(t, 50.0, dx, 0.001)
	assert.InDelta(t, 50.0, dy, 0.001)
}
