package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/evac-sim/evac-sim/sim"
	"github.com/evac-sim/evac-sim/sim/store"
	"github.com/evac-sim/evac-sim/sim/trace"
)

var (
	logLevel  string   // Log verbosity level
	runFlags  simFlags // Room, crowd and policy flags for `run`
	dbPath    string   // SQLite archive to append the run to
	printGrid bool     // Dump the room before and after the run
)

// out receives command reports; tests swap it for a buffer.
var out io.Writer = os.Stdout

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "evac-sim",
	Short: "Floor-field cellular automaton for crowd evacuation",
}

// runCmd executes one evacuation using parameters from a scenario and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one evacuation simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg, name, err := runFlags.resolve(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Cannot build simulator: %v", err)
		}
		if printGrid {
			fmt.Fprint(out, s.Grid().String())
		}

		startTime := time.Now()
		ticks := s.Run(cfg.MaxTicks)
		logrus.Infof("Simulation of %q finished in %s", name, time.Since(startTime))

		if printGrid {
			fmt.Fprint(out, s.Grid().String())
		}
		s.Metrics().Print(out, ticks)
		if s.Trace() != nil {
			printTraceSummary(out, trace.Summarize(s.Trace()))
		}

		if dbPath != "" {
			id, err := archiveRun(dbPath, name, s)
			if err != nil {
				logrus.Fatalf("Cannot archive run: %v", err)
			}
			fmt.Fprintf(out, "Archived as %s\n", id)
		}
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// archiveRun appends the finished run to the SQLite archive at path and
// returns its run ID.
func archiveRun(path, name string, s *sim.Simulator) (string, error) {
	db, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer db.Close()
	rec := store.RecordFromSimulator(name, s)
	if err := db.SaveRun(&rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Conflicts            : %d (mean %.2f, max %d contestants)\n",
		ts.TotalConflicts, ts.MeanContestants, ts.MaxContestants)
	fmt.Fprintf(w, "Evacuations          : %d (last at tick %d)\n", ts.TotalEvacuations, ts.LastEvacuationTick)
	for _, exit := range sortedExits(ts.ExitDistribution) {
		fmt.Fprintf(w, "  via exit (%d,%d)     : %d\n", exit.X, exit.Y, ts.ExitDistribution[exit])
	}
}

func sortedExits(dist map[trace.Cell]int) []trace.Cell {
	exits := make([]trace.Cell, 0, len(dist))
	for c := range dist {
		exits = append(exits, c)
	}
	sort.Slice(exits, func(i, j int) bool {
		if exits[i].X != exits[j].X {
			return exits[i].X < exits[j].X
		}
		return exits[i].Y < exits[j].Y
	})
	return exits
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addSimFlags(runCmd, &runFlags)
	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to archive the run in (empty disables archiving)")
	runCmd.Flags().BoolVar(&printGrid, "print-grid", false, "Print the room before and after the run")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(scenarioCmd)
}
