package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	sim "github.com/evac-sim/evac-sim/sim"
)

var (
	sweepFlags         simFlags  // Base scenario for every sweep point
	sweepSensitivities []float64 // Sensitivities to sweep
	sweepSeeds         int       // Replicates per sensitivity
	sweepWorkers       int       // Concurrent simulations
)

// sweepPoint is the outcome of one (sensitivity, seed) simulation.
type sweepPoint struct {
	Sensitivity float64
	Seed        int64
	Ticks       int
	Evacuated   int
	Conflicts   int
	Finished    bool
}

// sweepRow aggregates the replicates of one sensitivity. Tick statistics
// cover finished runs only.
type sweepRow struct {
	Sensitivity float64
	Runs        int
	Finished    int
	MeanTicks   float64
	StdDevTicks float64
	MedianTicks float64
	P90Ticks    float64
	Conflicts   float64 // mean per run
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a scenario across sensitivities and seeds and report evacuation times",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		base, name, err := sweepFlags.resolve(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if base.Movement != sim.PolicyProbabilistic {
			logrus.Warnf("Sweeping sensitivity with the %q policy; only %q reads it",
				base.Movement, sim.PolicyProbabilistic)
		}

		points, err := runSweep(cmd.Context(), base, sweepSensitivities, sweepSeeds, sweepWorkers)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		fmt.Fprintf(out, "=== Sweep: %s, %d seeds from %d ===\n", name, sweepSeeds, base.Seed)
		printSweep(out, summarizeSweep(points))
	},
}

// runSweep simulates every sensitivity with seeds base.Seed, base.Seed+1, ...
// on up to workers goroutines. Results are ordered by sensitivity, then seed,
// regardless of completion order.
func runSweep(ctx context.Context, base sim.SimConfig, sensitivities []float64, seeds, workers int) ([]sweepPoint, error) {
	if len(sensitivities) == 0 {
		return nil, fmt.Errorf("no sensitivities to sweep")
	}
	if seeds < 1 {
		return nil, fmt.Errorf("seeds must be at least 1, got %d", seeds)
	}
	if workers < 1 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	points := make([]sweepPoint, len(sensitivities)*seeds)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for ki, k := range sensitivities {
		for si := 0; si < seeds; si++ {
			idx := ki*seeds + si
			cfg := base
			cfg.Sensitivity = k
			cfg.Seed = base.Seed + int64(si)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := sim.NewSimulator(cfg)
				if err != nil {
					return fmt.Errorf("k=%g seed=%d: %w", cfg.Sensitivity, cfg.Seed, err)
				}
				ticks := s.Run(cfg.MaxTicks)
				points[idx] = sweepPoint{
					Sensitivity: cfg.Sensitivity,
					Seed:        cfg.Seed,
					Ticks:       ticks,
					Evacuated:   s.Metrics().Evacuated,
					Conflicts:   s.Metrics().Conflicts,
					Finished:    s.Finished(),
				}
				logrus.Debugf("sweep k=%g seed=%d: %d ticks, finished=%v", cfg.Sensitivity, cfg.Seed, ticks, s.Finished())
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// summarizeSweep groups points by sensitivity, keeping first-seen order.
func summarizeSweep(points []sweepPoint) []sweepRow {
	var (
		order  []float64
		groups = make(map[float64][]sweepPoint)
	)
	for _, p := range points {
		if _, seen := groups[p.Sensitivity]; !seen {
			order = append(order, p.Sensitivity)
		}
		groups[p.Sensitivity] = append(groups[p.Sensitivity], p)
	}

	rows := make([]sweepRow, 0, len(order))
	for _, k := range order {
		group := groups[k]
		row := sweepRow{Sensitivity: k, Runs: len(group)}
		ticks := make([]float64, 0, len(group))
		conflicts := make([]float64, 0, len(group))
		for _, p := range group {
			conflicts = append(conflicts, float64(p.Conflicts))
			if p.Finished {
				ticks = append(ticks, float64(p.Ticks))
			}
		}
		row.Finished = len(ticks)
		row.Conflicts = stat.Mean(conflicts, nil)
		row.MeanTicks, row.StdDevTicks, row.MedianTicks, row.P90Ticks = tickStats(ticks)
		rows = append(rows, row)
	}
	return rows
}

// tickStats returns mean, sample standard deviation, median and 90th
// percentile. Empty input yields NaN everywhere; a single sample has zero
// spread.
func tickStats(ticks []float64) (mean, stddev, median, p90 float64) {
	if len(ticks) == 0 {
		nan := math.NaN()
		return nan, nan, nan, nan
	}
	sorted := append([]float64(nil), ticks...)
	sort.Float64s(sorted)
	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		stddev = stat.StdDev(sorted, nil)
	}
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, stddev, median, p90
}

func printSweep(w io.Writer, rows []sweepRow) {
	fmt.Fprintf(w, "%8s %6s %9s %10s %9s %9s %9s %10s\n",
		"k", "runs", "finished", "mean", "stddev", "median", "p90", "conflicts")
	for _, r := range rows {
		fmt.Fprintf(w, "%8.3f %6d %9d %10s %9s %9s %9s %10.1f\n",
			r.Sensitivity, r.Runs, r.Finished,
			ticksCell(r.MeanTicks), ticksCell(r.StdDevTicks), ticksCell(r.MedianTicks), ticksCell(r.P90Ticks),
			r.Conflicts)
	}
}

func ticksCell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return humanize.CommafWithDigits(v, 1)
}

func init() {
	addSimFlags(sweepCmd, &sweepFlags)
	sweepCmd.Flags().Float64SliceVar(&sweepSensitivities, "sensitivities", []float64{0.5, 1, 2, 4}, "Comma-separated sensitivities to sweep")
	sweepCmd.Flags().IntVar(&sweepSeeds, "seeds", 5, "Replicates per sensitivity, seeded from --seed upward")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "Simulations run concurrently")
}
