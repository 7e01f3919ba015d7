package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	sim "github.com/evac-sim/evac-sim/sim"
	"github.com/evac-sim/evac-sim/sim/scenario"
	"github.com/evac-sim/evac-sim/sim/trace"
)

// simFlags holds the flags shared by commands that build a simulator.
// A scenario file or preset supplies the base configuration; only flags the
// user actually set override it.
type simFlags struct {
	scenarioPath string
	preset       string

	width     int
	height    int
	numAgents int
	layout    string

	policy      string
	sensitivity float64
	tolerance   float64
	jitter      float64

	idleSkip     float64
	fieldRefresh bool

	seed       int64
	maxTicks   int
	traceLevel string
}

func addSimFlags(cmd *cobra.Command, f *simFlags) {
	cmd.Flags().StringVar(&f.scenarioPath, "scenario", "", "Path to a YAML or JSON scenario file")
	cmd.Flags().StringVar(&f.preset, "preset", "", fmt.Sprintf("Built-in scenario %v", scenario.PresetNames()))

	cmd.Flags().IntVar(&f.width, "width", sim.DefaultWidth, "Room width in cells, including walls")
	cmd.Flags().IntVar(&f.height, "height", sim.DefaultHeight, "Room height in cells, including walls")
	cmd.Flags().IntVar(&f.numAgents, "agents", sim.DefaultNumAgents, "Initial number of agents")
	cmd.Flags().StringVar(&f.layout, "layout", sim.DefaultLayout.String(), fmt.Sprintf("Room layout %v", sim.LayoutNames()))

	cmd.Flags().StringVar(&f.policy, "policy", sim.PolicyDeterministic, fmt.Sprintf("Movement policy %v", sim.ValidMovementPolicyNames()))
	cmd.Flags().Float64Var(&f.sensitivity, "sensitivity", sim.DefaultSensitivity, "Field sensitivity k of the probabilistic policy")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", sim.DefaultTolerance, "Near-minimum band of the deterministic policy")
	cmd.Flags().Float64Var(&f.jitter, "jitter", sim.DefaultJitter, "Tie-break noise amplitude of the deterministic policy")

	cmd.Flags().Float64Var(&f.idleSkip, "idle-skip", sim.DefaultIdleSkipProbability, "Probability that an inactive agent sits a tick out")
	cmd.Flags().BoolVar(&f.fieldRefresh, "field-refresh", false, "Rebuild the floor field every tick around occupied cells")

	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Seed for placement, phases and movement")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", sim.DefaultMaxTicks, "Tick cap for the run")
	cmd.Flags().StringVar(&f.traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
}

// base loads the scenario the flags start from: a file, a preset, or the
// reference room.
func (f *simFlags) base() (*scenario.Spec, error) {
	switch {
	case f.scenarioPath != "" && f.preset != "":
		return nil, fmt.Errorf("--scenario and --preset are mutually exclusive")
	case f.scenarioPath != "":
		return scenario.Load(f.scenarioPath)
	case f.preset != "":
		return scenario.Preset(f.preset, f.seed)
	default:
		return scenario.ScenarioReference(f.seed), nil
	}
}

// resolve builds the SimConfig for cmd and returns it with the scenario name.
func (f *simFlags) resolve(cmd *cobra.Command) (sim.SimConfig, string, error) {
	spec, err := f.base()
	if err != nil {
		return sim.SimConfig{}, "", err
	}
	cfg, err := spec.ToSimConfig()
	if err != nil {
		return sim.SimConfig{}, "", fmt.Errorf("scenario %q: %w", spec.Name, err)
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Height = f.height
	}
	if flags.Changed("agents") {
		cfg.NumAgents = f.numAgents
	}
	if flags.Changed("layout") {
		layout, err := sim.ParseLayout(f.layout)
		if err != nil {
			return sim.SimConfig{}, "", err
		}
		cfg.Layout = layout
	}
	if flags.Changed("policy") {
		cfg.Movement = f.policy
	}
	if flags.Changed("sensitivity") {
		cfg.Sensitivity = f.sensitivity
	}
	if flags.Changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if flags.Changed("jitter") {
		cfg.Jitter = f.jitter
	}
	if flags.Changed("idle-skip") {
		cfg.IdleSkipProbability = f.idleSkip
	}
	if flags.Changed("field-refresh") {
		cfg.FieldRefresh = f.fieldRefresh
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = f.maxTicks
	}
	if flags.Changed("trace") {
		cfg.TraceLevel = trace.TraceLevel(f.traceLevel)
	}

	if err := cfg.Validate(); err != nil {
		return sim.SimConfig{}, "", err
	}
	name := spec.Name
	if name == "" && f.scenarioPath != "" {
		name = strings.TrimSuffix(filepath.Base(f.scenarioPath), filepath.Ext(f.scenarioPath))
	}
	return cfg, name, nil
}
