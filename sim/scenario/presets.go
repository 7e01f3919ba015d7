package scenario

import (
	"fmt"
	"sort"

	"github.com/evac-sim/evac-sim/sim"
)

// Built-in scenario presets. Each returns a valid Spec ready for ToSimConfig.

// ScenarioReference is the reference room: 60x40 with a pillar in front of
// the exit, 200 agents following the gradient.
func ScenarioReference(seed int64) *Spec {
	return FromSimConfig("reference", withSeed(sim.DefaultSimConfig(), seed))
}

// ScenarioClassroom is a small room cluttered with desks.
func ScenarioClassroom(seed int64) *Spec {
	cfg := withSeed(sim.DefaultSimConfig(), seed)
	cfg.Width, cfg.Height = 30, 20
	cfg.Layout = sim.LayoutScattered
	cfg.NumAgents = 60
	return FromSimConfig("classroom", cfg)
}

// ScenarioCorridor is a long narrow corridor draining through a single
// cell, with the floor field reacting to the queue.
func ScenarioCorridor(seed int64) *Spec {
	cfg := withSeed(sim.DefaultSimConfig(), seed)
	cfg.Width, cfg.Height = 80, 9
	cfg.Layout = sim.LayoutOneExit
	cfg.NumAgents = 80
	cfg.FieldRefresh = true
	return FromSimConfig("corridor", cfg)
}

// ScenarioTwoDoorHall is a crowded hall with two distant exits and
// probabilistic movement.
func ScenarioTwoDoorHall(seed int64) *Spec {
	cfg := withSeed(sim.DefaultSimConfig(), seed)
	cfg.Layout = sim.LayoutTwoExitsFar
	cfg.NumAgents = 250
	cfg.Movement = sim.PolicyProbabilistic
	cfg.Sensitivity = 3.0
	return FromSimConfig("two-door-hall", cfg)
}

// ScenarioPanic models a disoriented crowd: low sensitivity, nobody idles.
func ScenarioPanic(seed int64) *Spec {
	cfg := withSeed(sim.DefaultSimConfig(), seed)
	cfg.Layout = sim.LayoutRooms
	cfg.Movement = sim.PolicyProbabilistic
	cfg.Sensitivity = 0.5
	cfg.IdleSkipProbability = 0
	return FromSimConfig("panic", cfg)
}

func withSeed(cfg sim.SimConfig, seed int64) sim.SimConfig {
	cfg.Seed = seed
	return cfg
}

var presets = map[string]func(seed int64) *Spec{
	"reference":     ScenarioReference,
	"classroom":     ScenarioClassroom,
	"corridor":      ScenarioCorridor,
	"two-door-hall": ScenarioTwoDoorHall,
	"panic":         ScenarioPanic,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the named preset with the given seed.
func Preset(name string, seed int64) (*Spec, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; valid: %v", name, PresetNames())
	}
	return build(seed), nil
}
