package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Print_HumanizedCounts(t *testing.T) {
	// GIVEN metrics of a large run
	m := NewMetrics(12345)
	m.Evacuated = 12000
	m.Moves = 987654
	m.Conflicts = 4321
	m.Blocked = 5000
	m.AgentHistory = make([]int, 600)

	// WHEN printed
	var buf bytes.Buffer
	m.Print(&buf, 600)
	out := buf.String()

	// THEN counts carry thousands separators
	assert.Contains(t, out, "=== Evacuation Metrics ===")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "987,654")
	assert.Contains(t, out, "4,321 (5,000 blocked)")
	assert.Contains(t, out, "20.000 agents/tick")
}

func TestMetrics_FlowRateAndFraction(t *testing.T) {
	m := NewMetrics(10)
	assert.Equal(t, 0.0, m.FlowRate(), "no ticks yet")

	m.Evacuated = 5
	m.AgentHistory = []int{9, 7, 5, 5, 5}

	assert.Equal(t, 1.0, m.FlowRate())
	assert.Equal(t, 0.5, m.EvacuationFraction())
	assert.Equal(t, 1.0, NewMetrics(0).EvacuationFraction())
}
