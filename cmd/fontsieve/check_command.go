package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fontsieve/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, the subsetting tool and configured subsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cfg)
			for _, result := range results {
				fmt.Fprintln(out, renderStatusLine(result.Name, checkStatus(result), result.Detail, colorize))
			}
			if preflight.Failed(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}

func checkStatus(result preflight.Result) statusKind {
	switch {
	case !result.Passed:
		return statusError
	case result.Warning:
		return statusWarn
	case result.Informational:
		return statusInfo
	default:
		return statusOK
	}
}
