package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// MovementPolicy proposes an agent's next cell. Implementations are stateless
// between calls: the result depends only on the arguments and the draws taken
// from rng. ok is false when the agent should stay put this tick.
//
// The current cell is never returned as a target.
type MovementPolicy interface {
	Choose(pos Point, field DistanceField, width, height int, walk Walkability, rng *rand.Rand) (next Point, ok bool)
}

// GradientPolicy follows the steepest descent of the floor field. Neighbours
// whose distance lies within Tolerance of the best neighbour are all
// candidates; a small random jitter of amplitude Jitter breaks near-ties.
type GradientPolicy struct {
	Tolerance float64
	Jitter    float64
}

func (p *GradientPolicy) Choose(pos Point, field DistanceField, width, height int, walk Walkability, rng *rand.Rand) (Point, bool) {
	current := field.DistanceAt(pos.X, pos.Y)
	if math.IsInf(current, 1) {
		return Point{}, false
	}

	var (
		neighbours [8]Point
		dists      [8]float64
		n          int
		minDist    = math.Inf(1)
	)
	for _, d := range MooreNeighbourhood {
		q := pos.Add(d)
		if !inside(q, width, height) || !walk.IsWalkable(q.X, q.Y) {
			continue
		}
		nd := field.DistanceAt(q.X, q.Y)
		if math.IsInf(nd, 1) {
			continue
		}
		neighbours[n], dists[n] = q, nd
		n++
		if nd < minDist {
			minDist = nd
		}
	}
	if n == 0 || minDist >= current {
		return Point{}, false
	}

	// The band always holds the minimum, whatever the tolerance.
	noise := rng.Float64() * p.Jitter
	best := -1
	bestScore := math.Inf(1)
	for i := 0; i < n; i++ {
		if dists[i]-minDist > p.Tolerance {
			continue
		}
		score := dists[i] + noise*(rng.Float64()-0.5)
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		best = firstAt(dists[:n], minDist)
	}
	return neighbours[best], true
}

// firstAt returns the index of the first entry equal to v, or 0.
func firstAt(dists []float64, v float64) int {
	for i, d := range dists {
		if d == v {
			return i
		}
	}
	return 0
}

// BoltzmannPolicy samples a neighbour with probability proportional to
// exp(-Sensitivity * d). Higher sensitivity approaches pure gradient descent;
// zero sensitivity is a uniform random walk over reachable neighbours.
type BoltzmannPolicy struct {
	Sensitivity float64
}

func (p *BoltzmannPolicy) Choose(pos Point, field DistanceField, width, height int, walk Walkability, rng *rand.Rand) (Point, bool) {
	var (
		moves   [8]Point
		dists   [8]float64
		n       int
		minDist = math.Inf(1)
	)
	for _, d := range MooreNeighbourhood {
		q := pos.Add(d)
		if !inside(q, width, height) || !walk.IsWalkable(q.X, q.Y) {
			continue
		}
		nd := field.DistanceAt(q.X, q.Y)
		if math.IsInf(nd, 1) {
			continue
		}
		moves[n], dists[n] = q, nd
		n++
		if nd < minDist {
			minDist = nd
		}
	}
	if n == 0 {
		return Point{}, false
	}

	// Weights are shifted by the minimum so the largest is exactly 1; the
	// distribution is unchanged after normalisation.
	var weights [8]float64
	total := 0.0
	for i := 0; i < n; i++ {
		if dists[i] == minDist {
			weights[i] = 1
		} else {
			weights[i] = math.Exp(-p.Sensitivity * (dists[i] - minDist))
		}
		total += weights[i]
	}
	roll := rng.Float64() * total
	for i := 0; i < n; i++ {
		roll -= weights[i]
		if roll <= 0 {
			return moves[i], true
		}
	}
	return moves[firstAt(dists[:n], minDist)], true
}

func inside(p Point, width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < width && p.Y < height
}

// Movement policy names.
const (
	PolicyDeterministic = "deterministic"
	PolicyProbabilistic = "probabilistic"
)

// validMovementPolicies is shared by IsValidMovementPolicy and NewMovementPolicy.
var validMovementPolicies = map[string]bool{
	"":                  true,
	PolicyDeterministic: true,
	PolicyProbabilistic: true,
}

// IsValidMovementPolicy returns true if name is a recognized movement policy.
func IsValidMovementPolicy(name string) bool { return validMovementPolicies[name] }

// ValidMovementPolicyNames returns the non-empty policy names.
func ValidMovementPolicyNames() []string {
	return []string{PolicyDeterministic, PolicyProbabilistic}
}

// NewMovementPolicy creates a MovementPolicy by name.
// Empty string defaults to the deterministic policy (for CLI flag default compatibility).
// Panics on unrecognized names.
func NewMovementPolicy(name string, cfg PolicyConfig) MovementPolicy {
	if !IsValidMovementPolicy(name) {
		panic(fmt.Sprintf("unknown movement policy %q", name))
	}
	switch name {
	case "", PolicyDeterministic:
		return &GradientPolicy{Tolerance: cfg.Tolerance, Jitter: cfg.Jitter}
	case PolicyProbabilistic:
		return &BoltzmannPolicy{Sensitivity: cfg.Sensitivity}
	default:
		panic(fmt.Sprintf("unhandled movement policy %q", name))
	}
}
