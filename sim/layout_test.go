package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout_RoundTrip(t *testing.T) {
	for _, l := range Layouts() {
		got, err := ParseLayout(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
		assert.True(t, IsValidLayout(l.String()))
	}
}

func TestParseLayout_EmptyDefaultsToPillar(t *testing.T) {
	l, err := ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutPillar, l)
}

func TestParseLayout_Unknown(t *testing.T) {
	_, err := ParseLayout("atrium")
	assert.Error(t, err)
	assert.False(t, IsValidLayout("atrium"))
	assert.Equal(t, "layout(42)", Layout(42).String())
}

func TestLayouts_EnumerationOrder(t *testing.T) {
	names := LayoutNames()
	require.Len(t, names, 10)
	assert.Equal(t, "empty", names[0])
	assert.Equal(t, "rubble", names[len(names)-1])
}

func TestLayouts_BorderIsWallOrRightExit(t *testing.T) {
	// GIVEN every layout on the reference room
	for _, l := range Layouts() {
		t.Run(l.String(), func(t *testing.T) {
			g := NewGrid(60, 40, l)

			// THEN the border holds only walls and exits, and exits are on the right wall
			for y := 0; y < 40; y++ {
				for x := 0; x < 60; x++ {
					border := x == 0 || y == 0 || x == 59 || y == 39
					c, _ := g.Get(x, y)
					if border {
						assert.Contains(t, []Cell{CellWall, CellExit}, c, "border cell (%d,%d)", x, y)
					}
					if c == CellExit {
						assert.Equal(t, 59, x, "exit off the right wall at (%d,%d)", x, y)
					}
				}
			}
			assert.NotEmpty(t, g.Exits())
		})
	}
}

func TestLayouts_ExitCounts(t *testing.T) {
	tests := []struct {
		layout Layout
		exits  []Point
	}{
		{LayoutEmpty, []Point{{59, 19}, {59, 20}, {59, 21}}},
		{LayoutPillar, []Point{{59, 19}, {59, 20}, {59, 21}}},
		{LayoutOneExit, []Point{{59, 20}}},
		{LayoutTwoExitsAdjacent, []Point{{59, 17}, {59, 18}, {59, 21}, {59, 22}}},
		{LayoutTwoExitsFar, []Point{{59, 9}, {59, 10}, {59, 29}, {59, 30}}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			assert.Equal(t, tt.exits, NewGrid(60, 40, tt.layout).Exits())
		})
	}
}

func TestLayouts_Deterministic(t *testing.T) {
	for _, l := range Layouts() {
		assert.Equal(t, NewGrid(60, 40, l).String(), NewGrid(60, 40, l).String(), l.String())
	}
}

func TestLayouts_EveryEmptyCellReachesAnExit(t *testing.T) {
	for _, l := range Layouts() {
		t.Run(l.String(), func(t *testing.T) {
			g := NewGrid(60, 40, l)
			f := BuildField(g)
			for y := 0; y < 40; y++ {
				for x := 0; x < 60; x++ {
					if g.IsEmpty(x, y) {
						assert.True(t, f.Reachable(x, y), "(%d,%d) sealed off", x, y)
					}
				}
			}
		})
	}
}

func TestLayoutPillar_BlockInFrontOfExit(t *testing.T) {
	g := NewGrid(60, 40, LayoutPillar)

	// 3x3 pillar centred at (50, 20)
	for y := 19; y <= 21; y++ {
		for x := 49; x <= 51; x++ {
			assert.True(t, g.IsWall(x, y), "(%d,%d)", x, y)
		}
	}
	assert.Equal(t, 58*38-9, g.Count(CellEmpty))
}

func TestLayoutRooms_DividerWithDoorways(t *testing.T) {
	g := NewGrid(60, 40, LayoutRooms)

	for y := 1; y < 39; y++ {
		door := (y >= 11 && y <= 15) || (y >= 24 && y <= 28)
		if door {
			assert.True(t, g.IsEmpty(30, y), "doorway at y=%d", y)
		} else {
			assert.True(t, g.IsWall(30, y), "divider at y=%d", y)
		}
	}
	assert.True(t, g.IsWall(15, 10), "upper pillar")
	assert.True(t, g.IsWall(15, 30), "lower pillar")
}

func TestLayoutBottleneck_CarvingKeepsBorder(t *testing.T) {
	// GIVEN a short room where the side passages would reach the border
	g := NewGrid(30, 12, LayoutBottleneck)

	// THEN the border stays closed apart from the exits
	for x := 0; x < 30; x++ {
		assert.True(t, g.IsWall(x, 0))
		assert.True(t, g.IsWall(x, 11))
	}
	// AND the block sits in front of the exit
	assert.True(t, g.IsWall(22, 6))
}

func TestLayoutRubble_KeepsExitLaneClear(t *testing.T) {
	g := NewGrid(60, 40, LayoutRubble)

	for y := 1; y < 39; y++ {
		for x := 59 - rubbleExitLane; x < 59; x++ {
			assert.False(t, g.IsWall(x, y), "exit lane blocked at (%d,%d)", x, y)
		}
	}
	assert.Less(t, g.Count(CellEmpty), 58*38, "rubble must place some debris")
}
