package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tifrotate/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recent batch runs, or the outcomes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Paths.LedgerPath); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(out, "No runs recorded (enable [ledger] in the config to keep history)")
				return nil
			}

			store, err := ledger.Open(cfg.Paths.LedgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				id, err := store.ResolveRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				outcomes, err := store.Outcomes(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderOutcomes(outcomes))
				return nil
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list")
	return cmd
}

func renderRuns(runs []ledger.Run, now time.Time) string {
	g := newGrid(col("Run"), col("Manifest"), col("Started"), numCol("Jobs"), numCol("Failed"), numCol("Duration"))
	var jobsTotal, failedTotal int
	for _, r := range runs {
		duration := "running"
		if r.Finished() {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		jobsTotal += r.Total
		failedTotal += r.Failed
		g.add(
			shortID(r.ID),
			r.Manifest,
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			counts.Sprintf("%d", r.Total),
			counts.Sprintf("%d", r.Failed),
			duration,
		)
	}
	if len(runs) > 1 {
		g.setFooter(counts.Sprintf("%d runs", len(runs)), "", "", counts.Sprintf("%d", jobsTotal), counts.Sprintf("%d", failedTotal))
	}
	return g.render()
}

func renderOutcomes(outcomes []ledger.Outcome) string {
	g := newGrid(col("File"), col("Rotation"), col("Result"), numCol("Took"), col("Error"))
	for _, o := range outcomes {
		result := "ok"
		if !o.OK {
			result = "failed"
		}
		g.add(o.Path, o.Rotation, result, strconv.FormatInt(o.Duration.Milliseconds(), 10)+"ms", o.Message)
	}
	return g.render()
}
