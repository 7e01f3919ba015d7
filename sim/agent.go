package sim

// Agent is one pedestrian. ID has no behavioural meaning; it only labels the
// agent in logs and decision traces.
type Agent struct {
	ID    int
	Pos   Point
	Phase float64 // in [0, 1), fixed at creation; desynchronizes movement attempts
}

// Walkability answers whether a policy may propose stepping onto (x, y).
type Walkability interface {
	IsWalkable(x, y int) bool
}

// ownCell extends a grid's walkability with the agent's current cell, so an
// agent is never considered blocked by its own occupancy marker.
type ownCell struct {
	grid GridView
	self Point
}

func (w ownCell) IsWalkable(x, y int) bool {
	return (x == w.self.X && y == w.self.Y) || w.grid.IsWalkable(x, y)
}
