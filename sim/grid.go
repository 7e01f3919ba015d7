// Implements the obstacle grid: the authoritative map of walls, exits and
// agent occupancy that every other component reads from.

package sim

import (
	"fmt"
	"strings"
)

// Cell is the kind of a single grid square.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellWall
	CellExit
	CellOccupied // an agent stands here; transient, re-marked every tick
)

func (c Cell) String() string {
	switch c {
	case CellEmpty:
		return "empty"
	case CellWall:
		return "wall"
	case CellExit:
		return "exit"
	case CellOccupied:
		return "occupied"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// glyph is the character used by Grid.String.
func (c Cell) glyph() byte {
	switch c {
	case CellWall:
		return '#'
	case CellExit:
		return 'E'
	case CellOccupied:
		return 'o'
	default:
		return '.'
	}
}

// GridView is the read-only surface handed to renderers and other callers
// that must not mutate occupancy between ticks.
type GridView interface {
	Width() int
	Height() int
	Get(x, y int) (Cell, bool)
	IsWalkable(x, y int) bool
	IsExit(x, y int) bool
	String() string // ASCII dump, one row per line
}

// Grid is a fixed-size, row-major array of cells. It is never resized after
// construction.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

var _ GridView = (*Grid)(nil)

// NewGrid allocates a width x height grid, walls the border, stamps the
// obstacle layout and punches the layout's exits into the right-hand wall.
// The result is a pure function of its arguments.
func NewGrid(width, height int, layout Layout) *Grid {
	g := newWalledGrid(width, height)
	layout.apply(g)
	return g
}

// newWalledGrid returns an empty room with a solid border and no exits.
func newWalledGrid(width, height int) *Grid {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("NewGrid: negative dimensions %dx%d", width, height))
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	for x := 0; x < width; x++ {
		g.Set(x, 0, CellWall)
		g.Set(x, height-1, CellWall)
	}
	for y := 0; y < height; y++ {
		g.Set(0, y, CellWall)
		g.Set(width-1, y, CellWall)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) index(x, y int) int {
	return y*g.width + x
}

// Get returns the cell kind at (x, y); ok is false when the coordinate lies
// outside the grid.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.inBounds(x, y) {
		return CellEmpty, false
	}
	return g.cells[g.index(x, y)], true
}

// Set writes a cell kind. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.inBounds(x, y) {
		return
	}
	g.cells[g.index(x, y)] = c
}

// IsEmpty reports whether (x, y) is an in-bounds empty cell.
func (g *Grid) IsEmpty(x, y int) bool {
	c, ok := g.Get(x, y)
	return ok && c == CellEmpty
}

// IsExit reports whether (x, y) is an in-bounds exit cell.
func (g *Grid) IsExit(x, y int) bool {
	c, ok := g.Get(x, y)
	return ok && c == CellExit
}

// IsWall reports whether (x, y) is an in-bounds wall cell.
func (g *Grid) IsWall(x, y int) bool {
	c, ok := g.Get(x, y)
	return ok && c == CellWall
}

// IsWalkable reports whether an agent may step onto (x, y): the cell is
// empty or an exit.
func (g *Grid) IsWalkable(x, y int) bool {
	c, ok := g.Get(x, y)
	return ok && (c == CellEmpty || c == CellExit)
}

// nearWall reports whether any Moore neighbour of (x, y) is a wall.
func (g *Grid) nearWall(x, y int) bool {
	for _, d := range MooreNeighbourhood {
		if g.IsWall(x+d.DX, y+d.DY) {
			return true
		}
	}
	return false
}

// Exits lists every exit cell in row-major order.
func (g *Grid) Exits() []Point {
	var exits []Point
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[g.index(x, y)] == CellExit {
				exits = append(exits, Pt(x, y))
			}
		}
	}
	return exits
}

// Count returns how many cells currently hold the given kind.
func (g *Grid) Count(kind Cell) int {
	n := 0
	for _, c := range g.cells {
		if c == kind {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// String renders the grid as ASCII, one row per line.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			sb.WriteByte(g.cells[g.index(x, y)].glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
