package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalConflicts     int
	MeanContestants    float64
	MaxContestants     int
	TotalEvacuations   int
	LastEvacuationTick int
	ExitDistribution   map[Cell]int // exit cell → evacuations through it
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ExitDistribution: make(map[Cell]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalConflicts = len(st.Conflicts)
	if len(st.Conflicts) > 0 {
		total := 0
		for _, c := range st.Conflicts {
			n := len(c.Contestants)
			total += n
			if n > summary.MaxContestants {
				summary.MaxContestants = n
			}
		}
		summary.MeanContestants = float64(total) / float64(len(st.Conflicts))
	}

	summary.TotalEvacuations = len(st.Evacuations)
	for _, e := range st.Evacuations {
		summary.ExitDistribution[e.Exit]++
		if e.Tick > summary.LastEvacuationTick {
			summary.LastEvacuationTick = e.Tick
		}
	}

	return summary
}
