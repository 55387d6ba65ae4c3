package world

// Point is a cell coordinate or a unit direction. Y grows upward.
type Point struct {
	X, Y int
}

// Unit directions.
var (
	Zero  = Point{0, 0}
	Left  = Point{-1, 0}
	Right = Point{+1, 0}
	Up    = Point{0, +1}
	Down  = Point{0, -1}
)

// orthogonal lists the four neighbour directions in the order tiles inspect them.
var orthogonal = [4]Point{Left, Right, Down, Up}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Neg returns the opposite direction.
func (p Point) Neg() Point {
	return Point{-p.X, -p.Y}
}

// IsZero reports whether p is the origin.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}
