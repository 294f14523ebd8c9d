package valueobjects

// Position is a value object holding a node position in percentage
// space: both axes range over [0,100] of a fixed abstract canvas size,
// independent of viewport pixels.
type Position struct {
	x float64
	y float64
}

// NewPosition creates a position, clamping both axes to [0,100]
func NewPosition(x, y float64) Position {
	return Position{x: clampPercent(x), y: clampPercent(y)}
}

// X returns the horizontal percentage
func (p Position) X() float64 {
	return p.x
}

// Y returns the vertical percentage
func (p Position) Y() float64 {
	return p.y
}

// Translate returns a new position shifted by the given percentage
// deltas, clamped to the canvas bounds.
func (p Position) Translate(dx, dy float64) Position {
	return NewPosition(p.x+dx, p.y+dy)
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.x == other.x && p.y == other.y
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
