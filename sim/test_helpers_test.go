package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testConfig returns a config with idle skipping disabled so every agent
// attempts a move on every tick.
func testConfig(width, height int, layout Layout, numAgents int, seed int64) SimConfig {
	cfg := DefaultSimConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.Layout = layout
	cfg.NumAgents = numAgents
	cfg.Seed = seed
	cfg.IdleSkipProbability = 0
	return cfg
}

// simulatorWithAgents builds an empty simulator and places agents at the
// given cells, in order, with IDs 0..n-1.
func simulatorWithAgents(t *testing.T, cfg SimConfig, positions ...Point) *Simulator {
	t.Helper()
	cfg.NumAgents = 0
	s, err := NewSimulator(cfg)
	require.NoError(t, err)
	for i, p := range positions {
		require.True(t, s.grid.IsEmpty(p.X, p.Y), "cell %v must be empty", p)
		s.grid.Set(p.X, p.Y, CellOccupied)
		s.agents = append(s.agents, Agent{ID: i, Pos: p, Phase: 0})
	}
	s.metrics = NewMetrics(len(positions))
	return s
}

// requireConsistentOccupancy asserts that no two agents share a cell and
// that the grid's occupied markers are exactly the agent positions.
func requireConsistentOccupancy(t *testing.T, s *Simulator) {
	t.Helper()
	seen := make(map[Point]bool, len(s.agents))
	for _, a := range s.agents {
		require.False(t, seen[a.Pos], "tick %d: two agents on %v", s.tick, a.Pos)
		seen[a.Pos] = true
		c, ok := s.grid.Get(a.Pos.X, a.Pos.Y)
		require.True(t, ok)
		require.Equal(t, CellOccupied, c, "tick %d: agent cell %v not marked", s.tick, a.Pos)
	}
	require.Equal(t, len(s.agents), s.grid.Count(CellOccupied), "tick %d: stray occupied markers", s.tick)
}
