package game

// Point is an integer grid coordinate. Y grows downward; negative Y is above
// the visible grid.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Translate moves the point by a delta.
func (p *Point) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Size is an integer width and height.
type Size struct {
	Width, Height int
}

// Rotate returns the size with width and height swapped.
func (s Size) Rotate() Size {
	return Size{Width: s.Height, Height: s.Width}
}
