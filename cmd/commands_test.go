package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/evac-sim/evac-sim/sim"
	"github.com/evac-sim/evac-sim/sim/scenario"
	"github.com/evac-sim/evac-sim/sim/store"
	"github.com/evac-sim/evac-sim/sim/trace"
)

// captureOut redirects command reports into a buffer for the test.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := out
	out = &buf
	t.Cleanup(func() { out = old })
	return &buf
}

func TestDescribeLayouts_OneLinePerLayout(t *testing.T) {
	// GIVEN every layout at the default size
	var buf bytes.Buffer

	// WHEN described without drawing
	describeLayouts(&buf, sim.Layouts(), sim.DefaultWidth, sim.DefaultHeight, false)

	// THEN each layout gets exactly one line naming it
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(sim.Layouts()))
	for i, l := range sim.Layouts() {
		assert.True(t, strings.HasPrefix(lines[i], l.String()), "line %d: %q", i, lines[i])
		assert.Contains(t, lines[i], "exits=")
	}
}

func TestDescribeLayouts_DrawIncludesGrid(t *testing.T) {
	// GIVEN a single small room
	var buf bytes.Buffer

	// WHEN drawn
	describeLayouts(&buf, []sim.Layout{sim.LayoutOneExit}, 7, 5, true)

	// THEN the ASCII room follows the summary
	g := sim.NewGrid(7, 5, sim.LayoutOneExit)
	assert.Contains(t, buf.String(), g.String())
	assert.Contains(t, buf.String(), "exits=1 ")
}

func TestArchiveRun_ThenListAndShow(t *testing.T) {
	// GIVEN a finished small run archived to a fresh database
	cfg := smallSweepConfig()
	s, err := sim.NewSimulator(cfg)
	require.NoError(t, err)
	s.Run(0)
	path := filepath.Join(t.TempDir(), "runs.db")

	id, err := archiveRun(path, "unit", s)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// WHEN the archive is listed and the run shown
	db, err := store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.ListRuns(0)
	require.NoError(t, err)
	rec, err := db.GetRun(id)
	require.NoError(t, err)

	var list, show bytes.Buffer
	printRuns(&list, runs, len(runs))
	printRun(&show, rec)

	// THEN both reports carry the run's identity and outcome
	assert.Contains(t, list.String(), "1 of 1 archived runs")
	assert.Contains(t, list.String(), id)
	assert.Contains(t, list.String(), "finished")
	assert.Contains(t, show.String(), "Scenario    : unit, seed 100")
	assert.Contains(t, show.String(), "Half out at : tick")
}

func TestHalfEvacuatedTick(t *testing.T) {
	assert.Equal(t, 3, halfEvacuatedTick(10, []int{9, 7, 5, 2, 0}))
	assert.Equal(t, 1, halfEvacuatedTick(2, []int{1, 0}))
	assert.Equal(t, 0, halfEvacuatedTick(10, []int{9, 8}))
	assert.Equal(t, 0, halfEvacuatedTick(10, nil))
}

func TestPrintTraceSummary_ListsExitsInOrder(t *testing.T) {
	// GIVEN a summary with evacuations through two exits
	ts := &trace.TraceSummary{
		TotalConflicts: 2, MeanContestants: 2.5, MaxContestants: 3,
		TotalEvacuations: 5, LastEvacuationTick: 40,
		ExitDistribution: map[trace.Cell]int{{X: 59, Y: 21}: 2, {X: 59, Y: 19}: 3},
	}

	// WHEN printed
	var buf bytes.Buffer
	printTraceSummary(&buf, ts)

	// THEN exits appear sorted by position with their counts
	s := buf.String()
	assert.Contains(t, s, "max 3 contestants")
	first := strings.Index(s, "(59,19)")
	second := strings.Index(s, "(59,21)")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
}

func TestScenarioDump_RoundTripsThroughCheck(t *testing.T) {
	// GIVEN every preset dumped to a YAML file
	dir := t.TempDir()
	var paths []string
	for _, name := range scenario.PresetNames() {
		spec, err := scenario.Preset(name, 3)
		require.NoError(t, err)
		data, err := spec.YAML()
		require.NoError(t, err)
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, data, 0o644))
		paths = append(paths, path)
	}
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("room:\n  layout: spiral\n"), 0o644))
	buf := captureOut(t)

	// WHEN the files are checked
	failed := checkScenarios(append(paths, bad))

	// THEN every dump passes and only the bad file fails
	assert.Equal(t, []string{bad}, failed)
	assert.Equal(t, len(paths), strings.Count(buf.String(), "ok   "))
	assert.Contains(t, buf.String(), "FAIL "+bad)
}
