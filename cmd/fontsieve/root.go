package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var opts runOptions

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "fontsieve",
		Short: "Subset fonts to Unicode ranges and write web fonts",
		Long: `fontsieve reads every font in the input directory, keeps only the glyphs
needed for the requested subsets and writes one WOFF2 (or WOFF) file per
input into the output directory.

Examples:
  fontsieve --subsets latin,latin-ext
  fontsieve -s cyrillic --backend external --flavor woff
  fontsieve --inspect --input-dir ./fonts`,
		Args:          cobra.NoArgs,
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
			if opts.inspect {
				return runInspect(cmd, ctx, opts)
			}
			return runSubset(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.subsets, "subsets", "s", "", "Comma-separated subset names (defaults to subset.subsets from the config)")
	flags.StringVar(&opts.backend, "backend", "", "Subsetting backend (inprocess or external)")
	flags.StringVarP(&opts.flavor, "flavor", "f", "", "Output flavor (woff or woff2)")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "Number of files processed concurrently")
	flags.StringVar(&opts.inputDir, "input-dir", "", "Directory containing input fonts")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Directory receiving subsetted fonts")
	flags.BoolVarP(&opts.inspect, "inspect", "i", false, "Print font metadata instead of subsetting")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record this run in the history database")
	rootCmd.MarkFlagsMutuallyExclusive("inspect", "subsets")
	rootCmd.MarkFlagsMutuallyExclusive("inspect", "backend")
	rootCmd.MarkFlagsMutuallyExclusive("inspect", "flavor")

	rootCmd.AddCommand(newSubsetsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
