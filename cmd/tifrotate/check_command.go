package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tifrotate/internal/deps"
	"tifrotate/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [manifest.csv]",
		Short: "Verify the rotation tool, configuration, and writable paths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Configuration") {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Workers", statusInfo, fmt.Sprintf("%d", cfg.WorkerCount()), colorize))
			fmt.Fprintln(out, renderStatusLine("Dry run", statusInfo, yesNo(cfg.Rotation.DryRun), colorize))
			ledgerKind, ledgerText := statusInfo, "disabled"
			if cfg.Ledger.Enabled {
				ledgerKind, ledgerText = statusOK, cfg.Paths.LedgerPath
			}
			fmt.Fprintln(out, renderStatusLine("Ledger", ledgerKind, ledgerText, colorize))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Paths") {
				fmt.Fprintln(out, line)
			}
			var manifestPath string
			if len(args) == 1 {
				manifestPath = args[0]
			}
			paths := preflight.RunAll(cfg, manifestPath)
			for _, r := range paths {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Dependencies") {
				fmt.Fprintln(out, line)
			}
			statuses := preflight.CheckSystemDeps(cfg)
			if len(statuses) == 0 {
				fmt.Fprintln(out, renderStatusLine("ImageMagick", statusInfo, "not needed for dry runs", colorize))
			}
			for _, line := range dependencyLines(statuses, colorize) {
				fmt.Fprintln(out, line)
			}

			missing := deps.Missing(statuses)
			failed := preflight.Failed(paths)
			switch {
			case len(missing) > 0:
				return errors.New("rotation tool unavailable")
			case len(failed) > 0:
				return fmt.Errorf("%s is not usable", failed[0].Name)
			}
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses))
	for _, s := range statuses {
		switch {
		case s.Available:
			lines = append(lines, renderStatusLine(s.Name, statusOK, fmt.Sprintf("Ready (command: %s)", s.Resolved), colorize))
		case s.Optional:
			lines = append(lines, renderStatusLine(s.Name, statusWarn, s.Detail, colorize))
		default:
			lines = append(lines, renderStatusLine(s.Name, statusError, s.Detail, colorize))
		}
	}
	return lines
}
