package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evac-sim/evac-sim/sim/internal/testutil"
)

// TestBuildField_GoldenFields pins every cell of the floor field for a few
// small rooms, near-wall discount and diagonal costs included.
func TestBuildField_GoldenFields(t *testing.T) {
	golden := testutil.LoadGoldenFields(t)
	require.NotEmpty(t, golden.Cases)

	for _, tc := range golden.Cases {
		t.Run(fmt.Sprintf("%s_%dx%d", tc.Layout, tc.Width, tc.Height), func(t *testing.T) {
			// GIVEN the golden room
			layout, err := ParseLayout(tc.Layout)
			require.NoError(t, err)
			g := NewGrid(tc.Width, tc.Height, layout)

			// WHEN its field is built
			f := BuildField(g)

			// THEN every cell matches
			for y := 0; y < tc.Height; y++ {
				for x := 0; x < tc.Width; x++ {
					testutil.AssertFloat64Equal(t, fmt.Sprintf("d(%d,%d)", x, y),
						tc.Want(x, y), f.DistanceAt(x, y), 1e-12)
				}
			}
		})
	}
}
