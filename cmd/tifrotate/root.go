package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags
	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:   "tifrotate <manifest.csv>",
		Short: "Rotate scanned TIFF files in place from a CSV manifest",
		Long: "tifrotate reads a CSV manifest with Folder, Filenumber and Rotation columns\n" +
			"and rotates each <Folder><Filenumber>.TIF in place with ImageMagick.\n" +
			"Rows whose Rotation mentions \"Split\" are skipped.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, ctx, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.tool, "tool", "", "Rotation binary (overrides rotation.binary)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "Concurrent rotations (default: CPU count)")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Log the commands without running them")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
