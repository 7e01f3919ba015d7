package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/evac-sim/evac-sim/sim/trace"
)

// ErrInsufficientCapacity is returned when the requested population does not
// fit into the empty cells left after the layout is stamped.
var ErrInsufficientCapacity = errors.New("insufficient empty cells for agents")

// MinGridSize is the smallest width or height that leaves an interior.
const MinGridSize = 3

// GridConfig groups room geometry and population.
type GridConfig struct {
	Width     int    // columns, including the border (>= 3)
	Height    int    // rows, including the border (>= 3)
	Layout    Layout // obstacle arrangement
	NumAgents int    // initial population (>= 0)
}

// PolicyConfig groups movement policy selection and its parameters.
type PolicyConfig struct {
	Movement    string  // "deterministic" (default) or "probabilistic"
	Sensitivity float64 // k for the probabilistic policy (>= 0)
	Tolerance   float64 // near-minimum band of the deterministic policy (>= 0)
	Jitter      float64 // tie-break noise amplitude of the deterministic policy (>= 0)
}

// DynamicsConfig groups per-tick crowd behaviour.
type DynamicsConfig struct {
	// IdleSkipProbability is the chance that an agent failing the activity
	// test sits the tick out.
	IdleSkipProbability float64
	// FieldRefresh rebuilds the floor field at the start of every tick with
	// the agents' cells as temporary obstacles.
	FieldRefresh bool
}

// SimConfig is everything needed to build a Simulator.
type SimConfig struct {
	GridConfig
	PolicyConfig
	DynamicsConfig
	Seed       int64
	MaxTicks   int // tick cap for Run; 0 = DefaultMaxTicks
	TraceLevel trace.TraceLevel
}

// Defaults mirror the reference room: 60x40 cells, 200 agents, k = 2.0.
const (
	DefaultWidth               = 60
	DefaultHeight              = 40
	DefaultNumAgents           = 200
	DefaultSensitivity         = 2.0
	DefaultTolerance           = 0.5
	DefaultJitter              = 0.3
	DefaultIdleSkipProbability = 0.3
)

// DefaultSimConfig returns the reference configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		GridConfig: GridConfig{
			Width:     DefaultWidth,
			Height:    DefaultHeight,
			Layout:    DefaultLayout,
			NumAgents: DefaultNumAgents,
		},
		PolicyConfig: PolicyConfig{
			Movement:    PolicyDeterministic,
			Sensitivity: DefaultSensitivity,
			Tolerance:   DefaultTolerance,
			Jitter:      DefaultJitter,
		},
		DynamicsConfig: DynamicsConfig{
			IdleSkipProbability: DefaultIdleSkipProbability,
		},
		TraceLevel: trace.TraceLevelNone,
	}
}

// Validate checks parameter ranges and names. Capacity is checked later, in
// NewSimulator, because it depends on the stamped layout.
func (c SimConfig) Validate() error {
	if c.Width < MinGridSize || c.Height < MinGridSize {
		return fmt.Errorf("grid must be at least %dx%d, got %dx%d", MinGridSize, MinGridSize, c.Width, c.Height)
	}
	if _, ok := layoutNames[c.Layout]; !ok {
		return fmt.Errorf("unknown layout %d", int(c.Layout))
	}
	if c.NumAgents < 0 {
		return fmt.Errorf("num agents must be non-negative, got %d", c.NumAgents)
	}
	if !IsValidMovementPolicy(c.Movement) {
		return fmt.Errorf("unknown movement policy %q; valid policies: %v", c.Movement, ValidMovementPolicyNames())
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"sensitivity", c.Sensitivity},
		{"tolerance", c.Tolerance},
		{"jitter", c.Jitter},
	} {
		if !IsFinite(p.v) || p.v < 0 {
			return fmt.Errorf("%s must be a finite non-negative number, got %f", p.name, p.v)
		}
	}
	if !IsFinite(c.IdleSkipProbability) || c.IdleSkipProbability < 0 || c.IdleSkipProbability > 1 {
		return fmt.Errorf("idle skip probability must be in [0, 1], got %f", c.IdleSkipProbability)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max ticks must be non-negative, got %d", c.MaxTicks)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
