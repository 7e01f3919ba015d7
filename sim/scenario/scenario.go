// Package scenario loads evacuation scenarios from YAML or JSON files and
// turns them into sim.SimConfig values.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/evac-sim/evac-sim/sim"
	"github.com/evac-sim/evac-sim/sim/trace"
)

//go:embed scenario.schema.json
var schemaJSON string

// Spec is the top-level scenario file. Zero or nil fields fall back to
// sim.DefaultSimConfig().
type Spec struct {
	Version  string       `yaml:"version,omitempty" json:"version,omitempty"`
	Name     string       `yaml:"name,omitempty" json:"name,omitempty"`
	Seed     int64        `yaml:"seed" json:"seed"`
	MaxTicks int          `yaml:"max_ticks,omitempty" json:"max_ticks,omitempty"`
	Trace    string       `yaml:"trace,omitempty" json:"trace,omitempty"`
	Room     RoomSpec     `yaml:"room" json:"room"`
	Crowd    CrowdSpec    `yaml:"crowd" json:"crowd"`
	Movement MovementSpec `yaml:"movement" json:"movement"`
	Dynamics DynamicsSpec `yaml:"dynamics,omitempty" json:"dynamics,omitempty"`
}

// RoomSpec describes the geometry.
type RoomSpec struct {
	Width  int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height int    `yaml:"height,omitempty" json:"height,omitempty"`
	Layout string `yaml:"layout,omitempty" json:"layout,omitempty"`
}

// CrowdSpec describes the initial population.
type CrowdSpec struct {
	Agents *int `yaml:"agents,omitempty" json:"agents,omitempty"` // nil = default; 0 is a valid empty room
}

// MovementSpec selects the movement policy and its parameters.
type MovementSpec struct {
	Policy      string   `yaml:"policy,omitempty" json:"policy,omitempty"`
	Sensitivity *float64 `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
	Tolerance   *float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	Jitter      *float64 `yaml:"jitter,omitempty" json:"jitter,omitempty"`
}

// DynamicsSpec configures per-tick crowd behaviour.
type DynamicsSpec struct {
	IdleSkipProbability *float64 `yaml:"idle_skip_probability,omitempty" json:"idle_skip_probability,omitempty"`
	FieldRefresh        bool     `yaml:"field_refresh,omitempty" json:"field_refresh,omitempty"`
}

// Load reads a scenario file. Files ending in .json are validated against
// the embedded JSON Schema; anything else is parsed as strict YAML.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML scenario, rejecting unknown fields.
func ParseYAML(data []byte) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

// ParseJSON validates a JSON scenario against the schema, then decodes it.
func ParseJSON(data []byte) (*Spec, error) {
	sch, err := jsonschema.CompileString("scenario.schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compiling scenario schema: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding scenario json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

// Validate checks names and parameter ranges.
func (s *Spec) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return fmt.Errorf("unsupported scenario version %q", s.Version)
	}
	if s.Room.Width < 0 || s.Room.Height < 0 {
		return fmt.Errorf("room dimensions must be non-negative, got %dx%d", s.Room.Width, s.Room.Height)
	}
	if s.Room.Layout != "" && !sim.IsValidLayout(s.Room.Layout) {
		return fmt.Errorf("unknown layout %q; valid: %s", s.Room.Layout, strings.Join(sim.LayoutNames(), ", "))
	}
	if s.Crowd.Agents != nil && *s.Crowd.Agents < 0 {
		return fmt.Errorf("crowd.agents must be non-negative, got %d", *s.Crowd.Agents)
	}
	if !sim.IsValidMovementPolicy(s.Movement.Policy) {
		return fmt.Errorf("unknown movement policy %q; valid: %s", s.Movement.Policy, strings.Join(sim.ValidMovementPolicyNames(), ", "))
	}
	if err := nonNegative("movement.sensitivity", s.Movement.Sensitivity); err != nil {
		return err
	}
	if err := nonNegative("movement.tolerance", s.Movement.Tolerance); err != nil {
		return err
	}
	if err := nonNegative("movement.jitter", s.Movement.Jitter); err != nil {
		return err
	}
	if p := s.Dynamics.IdleSkipProbability; p != nil && (!sim.IsFinite(*p) || *p < 0 || *p > 1) {
		return fmt.Errorf("dynamics.idle_skip_probability must be in [0, 1], got %f", *p)
	}
	if s.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must be non-negative, got %d", s.MaxTicks)
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, decisions", s.Trace)
	}
	return nil
}

func nonNegative(field string, v *float64) error {
	if v != nil && (!sim.IsFinite(*v) || *v < 0) {
		return fmt.Errorf("%s must be a finite non-negative number, got %f", field, *v)
	}
	return nil
}

// ToSimConfig validates the scenario and overlays it on the default config.
func (s *Spec) ToSimConfig() (sim.SimConfig, error) {
	if err := s.Validate(); err != nil {
		return sim.SimConfig{}, err
	}
	cfg := sim.DefaultSimConfig()
	cfg.Seed = s.Seed
	cfg.MaxTicks = s.MaxTicks
	if s.Trace != "" {
		cfg.TraceLevel = trace.TraceLevel(s.Trace)
	}
	if s.Room.Width > 0 {
		cfg.Width = s.Room.Width
	}
	if s.Room.Height > 0 {
		cfg.Height = s.Room.Height
	}
	if s.Room.Layout != "" {
		layout, err := sim.ParseLayout(s.Room.Layout)
		if err != nil {
			return sim.SimConfig{}, err
		}
		cfg.Layout = layout
	}
	if s.Crowd.Agents != nil {
		cfg.NumAgents = *s.Crowd.Agents
	}
	if s.Movement.Policy != "" {
		cfg.Movement = s.Movement.Policy
	}
	if s.Movement.Sensitivity != nil {
		cfg.Sensitivity = *s.Movement.Sensitivity
	}
	if s.Movement.Tolerance != nil {
		cfg.Tolerance = *s.Movement.Tolerance
	}
	if s.Movement.Jitter != nil {
		cfg.Jitter = *s.Movement.Jitter
	}
	if s.Dynamics.IdleSkipProbability != nil {
		cfg.IdleSkipProbability = *s.Dynamics.IdleSkipProbability
	}
	cfg.FieldRefresh = s.Dynamics.FieldRefresh
	if err := cfg.Validate(); err != nil {
		return sim.SimConfig{}, err
	}
	return cfg, nil
}

// FromSimConfig renders a config as a fully-populated spec.
func FromSimConfig(name string, cfg sim.SimConfig) *Spec {
	agents := cfg.NumAgents
	sensitivity, tolerance, jitter := cfg.Sensitivity, cfg.Tolerance, cfg.Jitter
	skip := cfg.IdleSkipProbability
	return &Spec{
		Version:  "1",
		Name:     name,
		Seed:     cfg.Seed,
		MaxTicks: cfg.MaxTicks,
		Trace:    string(cfg.TraceLevel),
		Room:     RoomSpec{Width: cfg.Width, Height: cfg.Height, Layout: cfg.Layout.String()},
		Crowd:    CrowdSpec{Agents: &agents},
		Movement: MovementSpec{
			Policy:      cfg.Movement,
			Sensitivity: &sensitivity,
			Tolerance:   &tolerance,
			Jitter:      &jitter,
		},
		Dynamics: DynamicsSpec{IdleSkipProbability: &skip, FieldRefresh: cfg.FieldRefresh},
	}
}

// YAML encodes the scenario in the format ParseYAML reads.
func (s *Spec) YAML() ([]byte, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return out, nil
}
