package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/evac-sim/evac-sim/sim/store"
)

var (
	runsDB    string // SQLite archive to read
	runsLimit int    // Max runs listed
)

// runsCmd lists archived runs, or shows one run when given its ID
var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "Inspect the run archive written by `run --db`",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		db, err := store.Open(runsDB)
		if err != nil {
			logrus.Fatalf("Cannot open archive: %v", err)
		}
		defer db.Close()

		if len(args) == 1 {
			rec, err := db.GetRun(args[0])
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			printRun(out, rec)
			return
		}

		runs, err := db.ListRuns(runsLimit)
		if err != nil {
			logrus.Fatalf("Cannot list runs: %v", err)
		}
		total, err := db.CountRuns()
		if err != nil {
			logrus.Fatalf("Cannot count runs: %v", err)
		}
		printRuns(out, runs, total)
	},
}

func printRuns(w io.Writer, runs []store.RunRecord, total int) {
	fmt.Fprintf(w, "%d of %s archived runs\n", len(runs), humanize.Comma(int64(total)))
	for _, r := range runs {
		status := "finished"
		if !r.Finished {
			status = "capped"
		}
		fmt.Fprintf(w, "%s  %-12s %-18s %-13s k=%-5g seed=%-6d %s/%s agents in %s ticks (%s)  %s\n",
			r.ID, r.Scenario, r.Layout, r.Policy, r.Sensitivity, r.Seed,
			humanize.Comma(int64(r.Evacuated)), humanize.Comma(int64(r.Agents)),
			humanize.Comma(int64(r.Ticks)), status, humanize.Time(r.CreatedAt()))
	}
}

func printRun(w io.Writer, r *store.RunRecord) {
	fmt.Fprintf(w, "Run         : %s\n", r.ID)
	fmt.Fprintf(w, "Archived    : %s (%s)\n", r.CreatedAt().Format("2006-01-02 15:04:05"), humanize.Time(r.CreatedAt()))
	fmt.Fprintf(w, "Scenario    : %s, seed %d\n", r.Scenario, r.Seed)
	fmt.Fprintf(w, "Room        : %dx%d %s\n", r.Width, r.Height, r.Layout)
	fmt.Fprintf(w, "Policy      : %s (k=%g)\n", r.Policy, r.Sensitivity)
	fmt.Fprintf(w, "Evacuated   : %s of %s in %s ticks\n",
		humanize.Comma(int64(r.Evacuated)), humanize.Comma(int64(r.Agents)), humanize.Comma(int64(r.Ticks)))
	fmt.Fprintf(w, "Conflicts   : %s\n", humanize.Comma(int64(r.Conflicts)))
	if len(r.History) > 0 {
		fmt.Fprintf(w, "Half out at : tick %d\n", halfEvacuatedTick(r.Agents, r.History))
	}
}

// halfEvacuatedTick returns the first tick after which at most half the
// initial crowd remains, or 0 if that never happened.
func halfEvacuatedTick(initial int, history []int) int {
	for i, remaining := range history {
		if 2*remaining <= initial {
			return i + 1
		}
	}
	return 0
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "evac-runs.db", "SQLite archive written by `run --db`")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list (0 lists all)")
}
