// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/evac-sim/evac-sim/sim/trace"
)

// Activity signal constants. An agent attempts to move on a tick when
// sin(sin(tick*ActivityRate) + phase*2π) exceeds ActivityThreshold.
const (
	ActivityRate      = 0.1
	ActivityThreshold = -0.3
)

// DefaultMaxTicks caps Run when neither the caller nor the config sets a limit.
const DefaultMaxTicks = 10000

// Simulator owns the grid, the floor field and the crowd, and advances them
// one tick at a time. It is single-threaded: callers may read its state only
// between calls to Step.
type Simulator struct {
	cfg SimConfig

	grid   *Grid
	static *FloorField // field of the empty room, built once
	field  *FloorField // field used this tick; equals static unless FieldRefresh
	agents []Agent

	policy  MovementPolicy
	rng     *PartitionedRNG
	tick    int
	metrics *Metrics
	trace   *trace.SimulationTrace
}

// NewSimulator validates cfg, builds the room and places the crowd.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	s := &Simulator{cfg: cfg}
	if err := s.init(); err != nil {
		return nil, err
	}
	logrus.Infof("Simulator ready: %dx%d %s, %d agents, policy=%s, seed=%d",
		cfg.Width, cfg.Height, cfg.Layout, len(s.agents), s.policyName(), cfg.Seed)
	return s, nil
}

// New is a convenience constructor using the default policy and dynamics.
func New(width, height, numAgents int, sensitivity float64, layout Layout, seed int64) (*Simulator, error) {
	cfg := DefaultSimConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.NumAgents = numAgents
	cfg.Sensitivity = sensitivity
	cfg.Layout = layout
	cfg.Seed = seed
	return NewSimulator(cfg)
}

func (s *Simulator) init() error {
	cfg := s.cfg
	grid := NewGrid(cfg.Width, cfg.Height, cfg.Layout)
	if free := grid.Count(CellEmpty); cfg.NumAgents > free {
		return fmt.Errorf("%w: %d agents requested, %d empty cells in %dx%d %s room",
			ErrInsufficientCapacity, cfg.NumAgents, free, cfg.Width, cfg.Height, cfg.Layout)
	}

	s.grid = grid
	s.static = BuildField(grid)
	s.field = s.static
	s.rng = NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	s.policy = NewMovementPolicy(cfg.Movement, cfg.PolicyConfig)
	s.tick = 0
	s.metrics = NewMetrics(cfg.NumAgents)
	s.trace = nil
	if (trace.TraceConfig{Level: cfg.TraceLevel}).Enabled() {
		s.trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel})
	}
	s.placeAgents()
	return nil
}

// placeAgents rejection-samples the crowd into empty interior cells. The
// capacity check in init guarantees termination.
func (s *Simulator) placeAgents() {
	placement := s.rng.ForSubsystem(SubsystemPlacement)
	phases := s.rng.ForSubsystem(SubsystemPhase)
	w, h := s.grid.Width(), s.grid.Height()

	s.agents = make([]Agent, 0, s.cfg.NumAgents)
	for len(s.agents) < s.cfg.NumAgents {
		x := 1 + placement.Intn(w-2)
		y := 1 + placement.Intn(h-2)
		if !s.grid.IsEmpty(x, y) {
			continue
		}
		s.grid.Set(x, y, CellOccupied)
		s.agents = append(s.agents, Agent{
			ID:    len(s.agents),
			Pos:   Pt(x, y),
			Phase: phases.Float64(),
		})
	}
}

// Reset rebuilds the room and the crowd from the configuration the
// simulator was built with, so the same seed yields the same initial crowd.
func (s *Simulator) Reset() error {
	if err := s.init(); err != nil {
		return err
	}
	logrus.Infof("Simulator reset: %d agents", len(s.agents))
	return nil
}

// Step advances the simulation by one tick. It is a no-op once the room is
// empty, and the tick counter does not advance in that case.
func (s *Simulator) Step() {
	if len(s.agents) == 0 {
		return
	}
	s.tick++

	if s.cfg.FieldRefresh {
		s.field = BuildFieldWithExclusions(s.grid, s.positions())
	}

	order := s.rng.ForSubsystem(SubsystemOrder).Perm(len(s.agents))
	intents, wants := s.collectIntents(order)

	// Contenders per target, in processing order.
	contenders := make(map[Point][]int)
	for _, i := range order {
		if wants[i] {
			contenders[intents[i]] = append(contenders[intents[i]], i)
		}
	}
	winners := s.arbitrate(order, intents, wants, contenders)

	for _, a := range s.agents {
		s.grid.Set(a.Pos.X, a.Pos.Y, CellEmpty)
	}

	var evacuated []int
	moved := 0
	for _, i := range order {
		if !wants[i] {
			continue
		}
		target := intents[i]
		if winners[target] != i {
			continue
		}
		s.agents[i].Pos = target
		moved++
		if s.grid.IsExit(target.X, target.Y) {
			evacuated = append(evacuated, i)
			s.metrics.EvacuationTicks = append(s.metrics.EvacuationTicks, s.tick)
			if s.trace != nil {
				s.trace.RecordEvacuation(trace.EvacuationRecord{
					Tick:    s.tick,
					AgentID: s.agents[i].ID,
					Exit:    trace.Cell{X: target.X, Y: target.Y},
				})
			}
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(evacuated)))
	for _, i := range evacuated {
		s.agents = slices.Delete(s.agents, i, i+1)
	}

	for _, a := range s.agents {
		s.grid.Set(a.Pos.X, a.Pos.Y, CellOccupied)
	}

	s.metrics.Moves += moved
	s.metrics.Evacuated += len(evacuated)
	s.metrics.AgentHistory = append(s.metrics.AgentHistory, len(s.agents))

	logrus.Debugf("[tick %05d] moved=%d evacuated=%d remaining=%d",
		s.tick, moved, len(evacuated), len(s.agents))
	if len(s.agents) == 0 {
		logrus.Infof("[tick %05d] Evacuation complete", s.tick)
	}
}

// collectIntents polls every agent in processing order. wants[i] is false
// when agent i skipped the tick or its policy proposed nothing.
func (s *Simulator) collectIntents(order []int) (intents []Point, wants []bool) {
	activity := s.rng.ForSubsystem(SubsystemActivity)
	policyRNG := s.rng.ForSubsystem(SubsystemPolicy)
	w, h := s.grid.Width(), s.grid.Height()
	timeFactor := math.Sin(float64(s.tick) * ActivityRate)

	intents = make([]Point, len(s.agents))
	wants = make([]bool, len(s.agents))
	for _, i := range order {
		a := s.agents[i]
		active := math.Sin(timeFactor+a.Phase*2*math.Pi) > ActivityThreshold
		if !active && activity.Float64() < s.cfg.IdleSkipProbability {
			s.metrics.IdleSkips++
			continue
		}
		next, ok := s.policy.Choose(a.Pos, s.field, w, h, ownCell{grid: s.grid, self: a.Pos}, policyRNG)
		if !ok {
			s.metrics.Stalls++
			continue
		}
		intents[i], wants[i] = next, true
	}
	return intents, wants
}

// arbitrate picks one winner per target. An uncontested target goes to its
// only claimant. A contested target goes to the contestant whose current
// cell has the smallest field distance; ties go to the earliest contestant
// in processing order.
func (s *Simulator) arbitrate(order []int, intents []Point, wants []bool, contenders map[Point][]int) map[Point]int {
	winners := make(map[Point]int, len(contenders))
	for _, i := range order {
		if !wants[i] {
			continue
		}
		target := intents[i]
		if _, done := winners[target]; done {
			continue
		}
		group := contenders[target]
		if len(group) == 1 {
			winners[target] = i
			continue
		}

		best := group[0]
		bestDist := s.distanceOf(best)
		for _, c := range group[1:] {
			if d := s.distanceOf(c); d < bestDist {
				best, bestDist = c, d
			}
		}
		winners[target] = best
		s.metrics.Conflicts++
		s.metrics.Blocked += len(group) - 1

		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.Tracef("[tick %05d] conflict at %v: %d contestants, agent %d wins",
				s.tick, target, len(group), s.agents[best].ID)
		}
		if s.trace != nil {
			rec := trace.ConflictRecord{
				Tick:        s.tick,
				Target:      trace.Cell{X: target.X, Y: target.Y},
				Contestants: make([]trace.Contestant, 0, len(group)),
				WinnerID:    s.agents[best].ID,
			}
			for _, c := range group {
				a := s.agents[c]
				rec.Contestants = append(rec.Contestants, trace.Contestant{
					AgentID:  a.ID,
					From:     trace.Cell{X: a.Pos.X, Y: a.Pos.Y},
					Distance: s.distanceOf(c),
				})
			}
			s.trace.RecordConflict(rec)
		}
	}
	return winners
}

func (s *Simulator) distanceOf(i int) float64 {
	p := s.agents[i].Pos
	return s.field.DistanceAt(p.X, p.Y)
}

func (s *Simulator) positions() []Point {
	ps := make([]Point, len(s.agents))
	for i, a := range s.agents {
		ps[i] = a.Pos
	}
	return ps
}

// Run steps until the room is empty or maxTicks ticks have elapsed, and
// returns the tick count. maxTicks <= 0 falls back to the configured
// MaxTicks, then to DefaultMaxTicks.
func (s *Simulator) Run(maxTicks int) int {
	if maxTicks <= 0 {
		maxTicks = s.cfg.MaxTicks
	}
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	for !s.Finished() && s.tick < maxTicks {
		s.Step()
	}
	if !s.Finished() {
		logrus.Warnf("[tick %05d] Tick limit reached with %d agents still inside", s.tick, len(s.agents))
	}
	return s.tick
}

// AgentCount returns the number of agents still inside.
func (s *Simulator) AgentCount() int { return len(s.agents) }

// TickCount returns the number of ticks executed.
func (s *Simulator) TickCount() int { return s.tick }

// Finished reports whether every agent has evacuated.
func (s *Simulator) Finished() bool { return len(s.agents) == 0 }

// Grid returns a read-only view of the room for drawing.
func (s *Simulator) Grid() GridView { return s.grid }

// Field returns the floor field used by the most recent tick.
func (s *Simulator) Field() *FloorField { return s.field }

// StaticField returns the floor field of the room without agents.
func (s *Simulator) StaticField() *FloorField { return s.static }

// Agents returns a copy of the current crowd.
func (s *Simulator) Agents() []Agent {
	return slices.Clone(s.agents)
}

// Metrics returns the live run statistics.
func (s *Simulator) Metrics() *Metrics { return s.metrics }

// Trace returns the decision trace, or nil when tracing is off.
func (s *Simulator) Trace() *trace.SimulationTrace { return s.trace }

// Config returns the configuration the simulator was built from.
func (s *Simulator) Config() SimConfig { return s.cfg }

func (s *Simulator) policyName() string {
	if s.cfg.Movement == "" {
		return PolicyDeterministic
	}
	return s.cfg.Movement
}
