package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fontsieve/internal/config"
	"fontsieve/internal/inspect"
)

func runInspect(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	err = cfg.ApplyOverrides(config.Overrides{
		InputDir:  opts.inputDir,
		OutputDir: opts.outputDir,
		Workers:   opts.workers,
	})
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(inputs) == 0 {
		fmt.Fprintf(out, "No font files found in %s\n", cfg.Paths.InputDir)
		return nil
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inspector := inspect.New(inspect.WithWorkers(cfg.Subset.Workers), inspect.WithLogger(logger))
	reports := inspector.Inspect(runCtx, inputs)

	failed := 0
	for _, report := range reports {
		if report.Err != nil {
			failed++
		}
		if err := inspect.Write(out, report); err != nil {
			return err
		}
	}
	if err := runCtx.Err(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be inspected", failed, len(reports))
	}
	return nil
}
