package sim

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Metrics aggregates statistics about an evacuation run
// for final reporting and for the result archive.
type Metrics struct {
	InitialAgents int // population at construction
	Evacuated     int // agents removed through an exit
	Moves         int // granted moves, including the final step onto an exit
	Stalls        int // agents whose policy proposed nothing
	IdleSkips     int // inactive agents that sat the tick out
	Conflicts     int // contested target cells
	Blocked       int // contestants that lost arbitration

	// AgentHistory[t] is the population remaining after tick t+1.
	AgentHistory []int
	// EvacuationTicks lists, in order, the tick of every evacuation.
	EvacuationTicks []int
}

// NewMetrics creates a Metrics for an initial population.
func NewMetrics(initialAgents int) *Metrics {
	return &Metrics{
		InitialAgents:   initialAgents,
		AgentHistory:    make([]int, 0),
		EvacuationTicks: make([]int, 0),
	}
}

// FlowRate is the mean number of evacuations per tick over the run.
func (m *Metrics) FlowRate() float64 {
	if len(m.AgentHistory) == 0 {
		return 0
	}
	return float64(m.Evacuated) / float64(len(m.AgentHistory))
}

// EvacuationFraction is the share of the initial population that got out.
func (m *Metrics) EvacuationFraction() float64 {
	if m.InitialAgents == 0 {
		return 1
	}
	return float64(m.Evacuated) / float64(m.InitialAgents)
}

// Print writes the end-of-run report.
func (m *Metrics) Print(w io.Writer, ticks int) {
	fmt.Fprintln(w, "=== Evacuation Metrics ===")
	fmt.Fprintf(w, "Ticks                : %s\n", humanize.Comma(int64(ticks)))
	fmt.Fprintf(w, "Initial Agents       : %s\n", humanize.Comma(int64(m.InitialAgents)))
	fmt.Fprintf(w, "Evacuated            : %s (%.1f%%)\n", humanize.Comma(int64(m.Evacuated)), 100*m.EvacuationFraction())
	fmt.Fprintf(w, "Moves                : %s\n", humanize.Comma(int64(m.Moves)))
	fmt.Fprintf(w, "Stalls               : %s\n", humanize.Comma(int64(m.Stalls)))
	fmt.Fprintf(w, "Idle Skips           : %s\n", humanize.Comma(int64(m.IdleSkips)))
	fmt.Fprintf(w, "Conflicts            : %s (%s blocked)\n", humanize.Comma(int64(m.Conflicts)), humanize.Comma(int64(m.Blocked)))
	if ticks > 0 {
		fmt.Fprintf(w, "Flow Rate            : %.3f agents/tick\n", m.FlowRate())
	}
}
