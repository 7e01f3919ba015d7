package sim

import "fmt"

// Point is a cell coordinate on the grid. X grows to the right (towards the
// exits), Y grows downwards.
type Point struct{ X, Y int }

// Pt is a convenience constructor for Point.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns the point shifted by a direction.
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a unit step in the Moore neighbourhood.
type Direction struct{ DX, DY int }

// Diagonal reports whether the step moves along both axes.
func (d Direction) Diagonal() bool {
	return d.DX != 0 && d.DY != 0
}

// Cost returns the path cost of taking this step.
func (d Direction) Cost() float64 {
	if d.Diagonal() {
		return DiagonalCost
	}
	return AxisCost
}

// Step costs of the Moore neighbourhood.
const (
	AxisCost     = 1.0
	DiagonalCost = 1.414
)

// Moore neighbourhood in scan priority order: cardinal directions first
// (N, E, S, W), then diagonals (NE, SE, SW, NW). Every neighbour scan in the
// engine walks this slice, so ties resolve towards cardinal moves.
var (
	North     = Direction{0, -1}
	East      = Direction{1, 0}
	South     = Direction{0, 1}
	West      = Direction{-1, 0}
	NorthEast = Direction{1, -1}
	SouthEast = Direction{1, 1}
	SouthWest = Direction{-1, 1}
	NorthWest = Direction{-1, -1}

	MooreNeighbourhood = [8]Direction{North, East, South, West, NorthEast, SouthEast, SouthWest, NorthWest}
)
