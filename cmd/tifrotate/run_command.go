package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tifrotate/internal/batch"
	"tifrotate/internal/progress"
)

func runBatch(cmd *cobra.Command, ctx *commandContext, manifestPath string) error {
	cfg, err := ctx.applyRunFlags(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := ctx.logger()
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closer.Close()

	reporter := progress.New(cmd.OutOrStdout(), logger)
	runner := batch.New(cfg,
		batch.WithLogger(logger),
		batch.WithReporter(reporter),
	)
	summary, err := runner.Run(cmd.Context(), manifestPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary(summary))
	if summary.Failed() > 0 {
		fmt.Fprintln(out, renderFailures(summary.Failures))
	}
	return nil
}
