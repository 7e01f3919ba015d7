package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every contested cell and every evacuation.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects decision records during an evacuation run.
type SimulationTrace struct {
	Config      TraceConfig
	Conflicts   []ConflictRecord
	Evacuations []EvacuationRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Conflicts:   make([]ConflictRecord, 0),
		Evacuations: make([]EvacuationRecord, 0),
	}
}

// RecordConflict appends a conflict arbitration record.
func (st *SimulationTrace) RecordConflict(record ConflictRecord) {
	st.Conflicts = append(st.Conflicts, record)
}

// RecordEvacuation appends an evacuation record.
func (st *SimulationTrace) RecordEvacuation(record EvacuationRecord) {
	st.Evacuations = append(st.Evacuations, record)
}
