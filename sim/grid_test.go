package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_EmptyLayout_BorderAndExits(t *testing.T) {
	// GIVEN an empty 10x8 room
	g := NewGrid(10, 8, LayoutEmpty)

	// THEN the border is wall except the three exit cells on the right
	assert.Equal(t, 10, g.Width())
	assert.Equal(t, 8, g.Height())
	assert.Equal(t, []Point{Pt(9, 3), Pt(9, 4), Pt(9, 5)}, g.Exits())
	for x := 0; x < 10; x++ {
		assert.True(t, g.IsWall(x, 0), "top border (%d,0)", x)
		assert.True(t, g.IsWall(x, 7), "bottom border (%d,7)", x)
	}
	assert.True(t, g.IsWall(0, 4))
	assert.True(t, g.IsWall(9, 2))

	// THEN the interior is entirely empty
	assert.Equal(t, 8*6, g.Count(CellEmpty))
}

func TestGrid_Get_OutOfBounds(t *testing.T) {
	g := NewGrid(5, 5, LayoutEmpty)

	for _, p := range []Point{{-1, 0}, {0, -1}, {5, 0}, {0, 5}} {
		_, ok := g.Get(p.X, p.Y)
		assert.False(t, ok, "Get%v must report out of bounds", p)
		assert.False(t, g.IsWalkable(p.X, p.Y))
		assert.False(t, g.IsExit(p.X, p.Y))
	}
	c, ok := g.Get(2, 2)
	assert.True(t, ok)
	assert.Equal(t, CellEmpty, c)
}

func TestGrid_Set_OutOfBoundsIsNoOp(t *testing.T) {
	g := NewGrid(5, 5, LayoutEmpty)
	before := g.String()

	assert.NotPanics(t, func() {
		g.Set(-1, 2, CellWall)
		g.Set(2, 99, CellWall)
	})
	assert.Equal(t, before, g.String())
}

func TestGrid_IsWalkable_EmptyOrExitOnly(t *testing.T) {
	g := NewGrid(6, 6, LayoutEmpty)
	g.Set(2, 2, CellOccupied)

	assert.True(t, g.IsWalkable(1, 1), "empty")
	assert.True(t, g.IsWalkable(5, 3), "exit")
	assert.False(t, g.IsWalkable(0, 0), "wall")
	assert.False(t, g.IsWalkable(2, 2), "occupied")
	assert.True(t, g.IsExit(5, 3))
	assert.False(t, g.IsExit(1, 1))
}

func TestGrid_Clone_IsIndependent(t *testing.T) {
	g := NewGrid(6, 6, LayoutEmpty)
	c := g.Clone()

	c.Set(2, 2, CellWall)

	assert.True(t, g.IsEmpty(2, 2))
	assert.True(t, c.IsWall(2, 2))
}

func TestGrid_String_Glyphs(t *testing.T) {
	g := NewGrid(4, 3, LayoutOneExit)
	g.Set(1, 1, CellOccupied)

	rows := strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "####", rows[0])
	assert.Equal(t, "#o.E", rows[1])
	assert.Equal(t, "####", rows[2])
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "empty", CellEmpty.String())
	assert.Equal(t, "wall", CellWall.String())
	assert.Equal(t, "exit", CellExit.String())
	assert.Equal(t, "occupied", CellOccupied.String())
	assert.Equal(t, "cell(9)", Cell(9).String())
}

func TestNewGrid_NegativeDimensionsPanics(t *testing.T) {
	assert.Panics(t, func() { NewGrid(-1, 5, LayoutEmpty) })
}
