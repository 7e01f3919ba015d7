// Package trace provides decision-trace recording for evacuation runs.
// This package has no dependencies on sim/; it stores plain data types.
package trace

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Contestant is one agent competing for a contested cell.
type Contestant struct {
	AgentID  int
	From     Cell
	Distance float64 // floor-field distance at From when the tick started
}

// ConflictRecord captures one contested cell and how it was arbitrated.
type ConflictRecord struct {
	Tick        int
	Target      Cell
	Contestants []Contestant // in processing order
	WinnerID    int
}

// EvacuationRecord captures an agent stepping onto an exit.
type EvacuationRecord struct {
	Tick    int
	AgentID int
	Exit    Cell
}
