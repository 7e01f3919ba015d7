// Package testutil provides shared test infrastructure for the evacuation
// simulator: golden floor fields and float assertion helpers used across
// sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Unreachable marks a cell with no finite distance in golden data, since
// JSON has no encoding for +Inf.
const Unreachable = -1

// GoldenFields represents the structure of testdata/golden_fields.json.
type GoldenFields struct {
	Cases []GoldenFieldCase `json:"cases"`
}

// GoldenFieldCase is the expected floor field of one room.
type GoldenFieldCase struct {
	Layout    string      `json:"layout"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Distances [][]float64 `json:"distances"` // [y][x]; Unreachable for walls and sealed cells
}

// Want returns the expected distance at (x, y) with Unreachable mapped to +Inf.
func (c GoldenFieldCase) Want(x, y int) float64 {
	d := c.Distances[y][x]
	if d == Unreachable {
		return math.Inf(1)
	}
	return d
}

// LoadGoldenFields loads the golden floor fields from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenFields(t *testing.T) *GoldenFields {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_fields.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden fields: %v", err)
	}

	var golden GoldenFields
	if err := json.Unmarshal(data, &golden); err != nil {
		t.Fatalf("Failed to parse golden fields: %v", err)
	}
	for _, c := range golden.Cases {
		if len(c.Distances) != c.Height {
			t.Fatalf("golden %s %dx%d: %d rows", c.Layout, c.Width, c.Height, len(c.Distances))
		}
		for y, row := range c.Distances {
			if len(row) != c.Width {
				t.Fatalf("golden %s %dx%d: row %d has %d cells", c.Layout, c.Width, c.Height, y, len(row))
			}
		}
	}
	return &golden
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
// Two infinities of the same sign are equal.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	if math.IsInf(want, 0) || math.IsInf(got, 0) {
		t.Errorf("%s: got %v, want %v", name, got, want)
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
