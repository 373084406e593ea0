// Package geom provides the axis-aligned box type used to position
// extracted words and table columns in page coordinates.
package geom

// Box is an axis-aligned rectangle in page coordinate units (points).
// X grows rightward, Y grows downward. Immutable once constructed.
type Box struct {
	X1, X2 float64
	Y1, Y2 float64
}

// NewBox creates a Box from left/right/top/bottom edges.
func NewBox(x1, x2, y1, y2 float64) Box {
	return Box{X1: x1, X2: x2, Y1: y1, Y2: y2}
}

// MidX returns the horizontal midpoint.
func (b Box) MidX() float64 {
	return (b.X1 + b.X2) / 2
}

// Left returns the left edge shifted right by shift points.
func (b Box) Left(shift float64) float64 {
	return b.X1 + shift
}

// Right returns the right edge shifted right by shift points.
// Negative shifts move left.
func (b Box) Right(shift float64) float64 {
	return b.X2 + shift
}

// Top returns the top edge.
func (b Box) Top() float64 {
	return b.Y1
}

// Bottom returns the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y2
}

// Width returns the horizontal extent.
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent.
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// IntersectsX reports whether the horizontal span [x1, x2] overlaps the
// box's own horizontal span. Vertical position is ignored; callers have
// already selected the right band.
func (b Box) IntersectsX(x1, x2 float64) bool {
	return x1 < b.X2 && x2 > b.X1
}
