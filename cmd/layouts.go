package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/evac-sim/evac-sim/sim"
)

var (
	layoutsWidth  int  // Width of the previewed rooms
	layoutsHeight int  // Height of the previewed rooms
	layoutsDraw   bool // Print each room, not just its statistics
)

// layoutsCmd lists every layout with cell counts, optionally drawing them
var layoutsCmd = &cobra.Command{
	Use:   "layouts [name...]",
	Short: "List room layouts and preview them as ASCII",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		layouts := sim.Layouts()
		if len(args) > 0 {
			layouts = layouts[:0:0]
			for _, name := range args {
				l, err := sim.ParseLayout(name)
				if err != nil {
					logrus.Fatalf("%v", err)
				}
				layouts = append(layouts, l)
			}
		}
		if layoutsWidth < sim.MinGridSize || layoutsHeight < sim.MinGridSize {
			logrus.Fatalf("Preview room must be at least %dx%d", sim.MinGridSize, sim.MinGridSize)
		}
		describeLayouts(out, layouts, layoutsWidth, layoutsHeight, layoutsDraw)
	},
}

// describeLayouts writes one summary line per layout: free cells, walls,
// exits and the longest finite escape distance.
func describeLayouts(w io.Writer, layouts []sim.Layout, width, height int, draw bool) {
	for _, l := range layouts {
		g := sim.NewGrid(width, height, l)
		field := sim.BuildField(g)
		fmt.Fprintf(w, "%-20s empty=%-5d walls=%-5d exits=%-2d farthest=%.1f\n",
			l, g.Count(sim.CellEmpty), g.Count(sim.CellWall), len(g.Exits()), field.MaxFinite())
		if draw {
			fmt.Fprintln(w, g)
		}
	}
}

func init() {
	layoutsCmd.Flags().IntVar(&layoutsWidth, "width", sim.DefaultWidth, "Preview width")
	layoutsCmd.Flags().IntVar(&layoutsHeight, "height", sim.DefaultHeight, "Preview height")
	layoutsCmd.Flags().BoolVar(&layoutsDraw, "draw", false, "Draw each room")
}
