package sim

import "math"

// Field construction constants.
const (
	// NearWallDiscount is subtracted from a candidate distance when the
	// candidate cell touches a wall and the candidate is still below
	// NearWallRange. It is a heuristic bias towards wall-hugging paths near
	// the exits, not a metric: gradients may look locally non-monotonic.
	NearWallDiscount = 0.3
	NearWallRange    = 10.0
)

// DistanceField is the read surface movement policies need from a floor field.
type DistanceField interface {
	DistanceAt(x, y int) float64
}

// FloorField holds, for every cell, the accumulated path cost to the nearest
// exit. Unreached cells hold +Inf.
type FloorField struct {
	width  int
	height int
	dist   []float64
}

var _ DistanceField = (*FloorField)(nil)

// BuildField computes the static floor field of g.
func BuildField(g *Grid) *FloorField {
	return BuildFieldWithExclusions(g, nil)
}

// BuildFieldWithExclusions computes the floor field of g treating every cell
// in occupied as a temporary obstacle. The computation always restarts from
// the zero-distance exit seeds; no previous field is reused.
//
// An excluded cell still receives a distance from its neighbours, but the
// search never expands through it. An agent standing on an excluded cell
// therefore keeps a finite distance to compare its neighbours against, while
// paths for everyone else route around it.
//
// Excluded cells are therefore not "unreachable" in the DistanceAt sense:
// only cells cut off from every exit by walls or by excluded cells read
// +Inf. GradientPolicy stays put on a +Inf cell, and during a refreshed
// tick every agent stands on an excluded cell.
func BuildFieldWithExclusions(g *Grid, occupied []Point) *FloorField {
	f := &FloorField{
		width:  g.width,
		height: g.height,
		dist:   make([]float64, len(g.cells)),
	}
	for i := range f.dist {
		f.dist[i] = math.Inf(1)
	}

	var blocked []bool
	if len(occupied) > 0 {
		blocked = make([]bool, len(g.cells))
		for _, p := range occupied {
			if g.inBounds(p.X, p.Y) {
				blocked[g.index(p.X, p.Y)] = true
			}
		}
	}

	type entry struct {
		idx  int
		dist float64
	}
	queue := make([]entry, 0, len(g.cells))
	for i, c := range g.cells {
		if c == CellExit {
			f.dist[i] = 0
			queue = append(queue, entry{idx: i})
		}
	}

	// FIFO label-correcting relaxation. A cell may be enqueued more than once
	// when a cheaper route reaches it later; stale entries are skipped.
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if cur.dist > f.dist[cur.idx] {
			continue
		}
		x, y := cur.idx%g.width, cur.idx/g.width
		for _, d := range MooreNeighbourhood {
			nx, ny := x+d.DX, y+d.DY
			if !g.inBounds(nx, ny) {
				continue
			}
			ni := g.index(nx, ny)
			if g.cells[ni] == CellWall {
				continue
			}
			cand := cur.dist + d.Cost()
			if cand < NearWallRange && g.nearWall(nx, ny) {
				cand -= NearWallDiscount
			}
			if cand >= f.dist[ni] {
				continue
			}
			f.dist[ni] = cand
			if blocked != nil && blocked[ni] {
				continue
			}
			queue = append(queue, entry{idx: ni, dist: cand})
		}
	}
	return f
}

// Width returns the number of columns.
func (f *FloorField) Width() int { return f.width }

// Height returns the number of rows.
func (f *FloorField) Height() int { return f.height }

// DistanceAt returns the field value at (x, y), or +Inf when the cell is
// unreached or out of bounds.
func (f *FloorField) DistanceAt(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return math.Inf(1)
	}
	return f.dist[y*f.width+x]
}

// Reachable reports whether (x, y) has a finite distance.
func (f *FloorField) Reachable(x, y int) bool {
	return !math.IsInf(f.DistanceAt(x, y), 1)
}

// BestDirection returns the neighbour direction with the strictly lowest
// distance below the current cell. Neighbours are scanned in
// MooreNeighbourhood order, so ties resolve to the earlier direction.
// ok is false when the current cell is unreachable or no neighbour improves.
func (f *FloorField) BestDirection(x, y int) (dir Direction, ok bool) {
	best := f.DistanceAt(x, y)
	if math.IsInf(best, 1) {
		return Direction{}, false
	}
	for _, d := range MooreNeighbourhood {
		if nd := f.DistanceAt(x+d.DX, y+d.DY); nd < best {
			best = nd
			dir = d
			ok = true
		}
	}
	return dir, ok
}

// MaxFinite returns the largest finite distance in the field, or 0 when no
// cell is reachable.
func (f *FloorField) MaxFinite() float64 {
	maxDist := 0.0
	for _, d := range f.dist {
		if !math.IsInf(d, 1) && d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}
