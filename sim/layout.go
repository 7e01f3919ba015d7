package sim

import (
	"fmt"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Layout selects one of the built-in obstacle arrangements. Every layout is
// a pure function of the grid dimensions.
type Layout int

const (
	LayoutEmpty            Layout = iota // empty room
	LayoutPillar                         // single 3x3 pillar in front of the exit
	LayoutRooms                          // two rooms joined by doorways
	LayoutBottleneck                     // large block right in front of the exit
	LayoutScattered                      // several obstacles of varied size
	LayoutMaze                           // corridor walls with offset gaps
	LayoutOneExit                        // empty room, single-cell exit
	LayoutTwoExitsAdjacent               // two exits close together on the right wall
	LayoutTwoExitsFar                    // two exits far apart on the right wall
	LayoutRubble                         // noise-generated debris field
)

// DefaultLayout is used when no layout is configured.
const DefaultLayout = LayoutPillar

var layoutNames = map[Layout]string{
	LayoutEmpty:            "empty",
	LayoutPillar:           "pillar",
	LayoutRooms:            "rooms",
	LayoutBottleneck:       "bottleneck",
	LayoutScattered:        "scattered",
	LayoutMaze:             "maze",
	LayoutOneExit:          "one-exit",
	LayoutTwoExitsAdjacent: "two-exits-adjacent",
	LayoutTwoExitsFar:      "two-exits-far",
	LayoutRubble:           "rubble",
}

func (l Layout) String() string {
	if name, ok := layoutNames[l]; ok {
		return name
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// ParseLayout maps a layout name to its Layout. Empty string yields
// DefaultLayout (for CLI flag default compatibility).
func ParseLayout(name string) (Layout, error) {
	if name == "" {
		return DefaultLayout, nil
	}
	for l, n := range layoutNames {
		if n == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown layout %q; valid layouts: %v", name, LayoutNames())
}

// IsValidLayout reports whether name is a recognized layout name.
func IsValidLayout(name string) bool {
	_, err := ParseLayout(name)
	return err == nil
}

// LayoutNames returns all layout names in enumeration order.
func LayoutNames() []string {
	layouts := Layouts()
	names := make([]string, len(layouts))
	for i, l := range layouts {
		names[i] = l.String()
	}
	return names
}

// Layouts returns every layout in enumeration order.
func Layouts() []Layout {
	all := make([]Layout, 0, len(layoutNames))
	for l := range layoutNames {
		all = append(all, l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// apply stamps obstacles then exits onto a freshly walled grid.
func (l Layout) apply(g *Grid) {
	switch l {
	case LayoutEmpty:
		addCentralExit(g)
	case LayoutPillar:
		stampSquare(g, g.width*5/6, g.height/2, 1)
		addCentralExit(g)
	case LayoutRooms:
		stampRooms(g)
		addCentralExit(g)
	case LayoutBottleneck:
		stampBottleneck(g)
		addCentralExit(g)
	case LayoutScattered:
		stampScattered(g)
		addCentralExit(g)
	case LayoutMaze:
		stampMaze(g)
		addCentralExit(g)
	case LayoutOneExit:
		g.Set(g.width-1, g.height/2, CellExit)
	case LayoutTwoExitsAdjacent:
		c := g.height / 2
		addExitSpan(g, c-3, 2)
		addExitSpan(g, c+1, 2)
	case LayoutTwoExitsFar:
		q := g.height / 4
		addExitSpan(g, q-1, 2)
		addExitSpan(g, 3*q-1, 2)
	case LayoutRubble:
		addCentralExit(g)
		stampRubble(g)
	default:
		panic(fmt.Sprintf("unhandled layout %d", int(l)))
	}
}

// addCentralExit opens a three-cell exit centred on the right wall.
func addCentralExit(g *Grid) {
	addExitSpan(g, g.height/2-1, 3)
}

// addExitSpan opens n consecutive exit cells on the right wall from row y0.
func addExitSpan(g *Grid, y0, n int) {
	for y := y0; y < y0+n; y++ {
		g.Set(g.width-1, y, CellExit)
	}
}

// stampSquare walls the (2r+1)x(2r+1) square centred on (cx, cy).
func stampSquare(g *Grid, cx, cy, r int) {
	stampRect(g, cx-r, cy-r, cx+r, cy+r, CellWall)
}

// stampRect fills the inclusive rectangle with kind, clipped to the grid.
func stampRect(g *Grid, x0, y0, x1, y1 int, kind Cell) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.Set(x, y, kind)
		}
	}
}

// carve empties a cell but never opens the border.
func carve(g *Grid, x, y int) {
	if x <= 0 || y <= 0 || x >= g.width-1 || y >= g.height-1 {
		return
	}
	g.Set(x, y, CellEmpty)
}

func stampRooms(g *Grid) {
	midX := g.width / 2
	midY := g.height / 2

	for y := 0; y < g.height-1; y++ {
		g.Set(midX, y, CellWall)
	}
	for dy := -2; dy <= 2; dy++ {
		carve(g, midX, g.height/3+dy)
		carve(g, midX, 2*g.height/3+dy)
	}

	stampSquare(g, midX/2, midY/2, 1)
	stampSquare(g, midX/2, midY+midY/2, 1)
}

func stampBottleneck(g *Grid) {
	exitY := g.height / 2
	ox := g.width - 8

	stampRect(g, ox-3, exitY-5, ox+3, exitY+5, CellWall)

	// Side passages above and below the block.
	for offset := 6; offset < 9; offset++ {
		for dx := 0; dx < 4; dx++ {
			carve(g, ox+dx, exitY-offset)
			carve(g, ox+dx, exitY+offset)
		}
	}
}

func stampScattered(g *Grid) {
	w, h := g.width, g.height
	obstacles := []struct{ x, y, r int }{
		{w / 5, h / 4, 2},
		{w / 5, 3 * h / 4, 2},
		{2 * w / 5, h / 2, 3},
		{3 * w / 5, h / 3, 1},
		{3 * w / 5, 2 * h / 3, 2},
		{4 * w / 5, h / 2, 1},
	}
	for _, o := range obstacles {
		stampSquare(g, o.x, o.y, o.r)
	}
}

func stampMaze(g *Grid) {
	for y := 8; y < g.height-8; y++ {
		if y%8 != 0 {
			continue
		}
		for x := 8; x < g.width-8; x++ {
			if x%12 != 6 {
				g.Set(x, y, CellWall)
			}
		}
	}
	for x := 8; x < g.width-8; x++ {
		if x%12 != 0 {
			continue
		}
		for y := 8; y < g.height-8; y++ {
			if y%8 != 4 {
				g.Set(x, y, CellWall)
			}
		}
	}
}

// Rubble generation parameters.
const (
	rubbleFrequency = 0.15
	rubbleThreshold = 0.62
	rubbleExitLane  = 3 // interior columns kept clear in front of the exit
)

// stampRubble scatters noise-shaped debris. The noise seed is derived from
// the grid dimensions so the layout stays a pure function of width/height.
// Pockets that end up sealed off from every exit are filled in, so any
// remaining empty cell can be evacuated.
func stampRubble(g *Grid) {
	seed := int64(g.width)*73856093 ^ int64(g.height)*19349663
	noise := opensimplex.NewNormalized(seed)

	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1-rubbleExitLane; x++ {
			if noise.Eval2(float64(x)*rubbleFrequency, float64(y)*rubbleFrequency) > rubbleThreshold {
				g.Set(x, y, CellWall)
			}
		}
	}

	field := BuildField(g)
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			if g.IsEmpty(x, y) && !field.Reachable(x, y) {
				g.Set(x, y, CellWall)
			}
		}
	}
}
