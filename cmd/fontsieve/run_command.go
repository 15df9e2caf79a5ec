package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fontsieve/internal/backend"
	"fontsieve/internal/batch"
	"fontsieve/internal/catalog"
	"fontsieve/internal/config"
	"fontsieve/internal/discovery"
	"fontsieve/internal/faults"
	"fontsieve/internal/history"
	"fontsieve/internal/logging"
	"fontsieve/internal/runlock"
	"fontsieve/internal/unirange"
)

type runOptions struct {
	subsets   string
	backend   string
	flavor    string
	workers   int
	inputDir  string
	outputDir string
	inspect   bool
	noHistory bool
}

func (o runOptions) overrides() config.Overrides {
	return config.Overrides{
		InputDir:  o.inputDir,
		OutputDir: o.outputDir,
		Backend:   o.backend,
		Flavor:    o.flavor,
		Subsets:   []string{o.subsets},
		Workers:   o.workers,
	}
}

func runSubset(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(opts.overrides()); err != nil {
		return err
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}

	names := cfg.Subset.Subsets
	if len(names) == 0 {
		return faults.Wrap(faults.ErrConfiguration, "cli", "subsets", "no subsets requested; pass --subsets or set subset.subsets", nil)
	}
	cat := catalog.New(cfg.Catalog.Custom)
	if unknown := cat.Unknown(names); len(unknown) > 0 {
		logging.WarnWithContext(logger, "unknown subset names ignored", "unknown_subsets",
			logging.String("subsets", strings.Join(unknown, ", ")),
			logging.String(logging.FieldErrorHint, "run `fontsieve subsets list` for the available names"),
		)
	}
	tokens := cat.Resolve(names)
	if len(tokens) == 0 {
		return faults.Wrap(faults.ErrConfiguration, "cli", "subsets", fmt.Sprintf("none of the requested subsets are known: %s", strings.Join(names, ", ")), nil)
	}
	selection, err := unirange.Parse(tokens)
	if err != nil {
		return err
	}

	kind, err := backend.ParseKind(cfg.Subset.Backend)
	if err != nil {
		return err
	}
	flavor, err := backend.ParseFlavor(cfg.Subset.Flavor)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock, err := runlock.Acquire(cfg.Paths.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release output lock failed", logging.Error(err))
		}
	}()

	inputs, err := collectInputs(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(inputs) == 0 {
		fmt.Fprintf(out, "No font files found in %s\n", cfg.Paths.InputDir)
		return nil
	}

	b, err := backend.New(kind, cfg, logger)
	if err != nil {
		return err
	}

	runID := history.NewRunID()
	runCtx = logging.WithRunID(runCtx, runID)
	runLogger := logger.With(logging.String(logging.FieldRunID, runID))
	runLogger.Info("subsetting fonts",
		logging.Int("files", len(inputs)),
		logging.String(logging.FieldBackend, string(kind)),
		logging.String("flavor", string(flavor)),
		logging.String("subsets", strings.Join(names, ",")),
		logging.Int("codepoints", selection.Len()),
		logging.String(logging.FieldOutput, cfg.Paths.OutputDir),
	)

	orch := batch.New(b,
		batch.WithWorkers(cfg.Subset.Workers),
		batch.WithOutputDir(cfg.Paths.OutputDir),
		batch.WithFlavor(flavor),
		batch.WithLogger(runLogger),
		batch.WithReporter(newReporter(cmd, runLogger)),
	)
	started := time.Now()
	summary, runErr := orch.Run(runCtx, inputs, tokens)

	writeSummary(out, summary)

	if cfg.History.Enabled && !opts.noHistory {
		run := history.Run{
			ID:         runID,
			StartedAt:  started,
			Backend:    string(kind),
			Flavor:     string(flavor),
			Subsets:    names,
			Codepoints: selection.Len(),
			InputDir:   cfg.Paths.InputDir,
			OutputDir:  cfg.Paths.OutputDir,
		}
		if err := recordRun(context.WithoutCancel(runCtx), cfg, run, summary, runErr); err != nil {
			logging.WarnWithContext(runLogger, "run history not recorded", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.state_dir permissions or pass --no-history"),
			)
		}
	}

	return runErr
}

func collectInputs(cfg *config.Config) ([]discovery.Input, error) {
	scanned, err := discovery.Scan(cfg.Paths.InputDir, cfg.Discovery.Extensions)
	if err != nil {
		return nil, err
	}
	system, err := discovery.ResolveSystem(cfg.Discovery.SystemFonts)
	if err != nil {
		return nil, err
	}
	return discovery.Merge(scanned, system)
}

func newReporter(cmd *cobra.Command, logger *slog.Logger) batch.Reporter {
	if file, ok := cmd.ErrOrStderr().(*os.File); ok {
		return batch.NewReporter(file, logger)
	}
	return batch.NewLogReporter(logger)
}

func recordRun(ctx context.Context, cfg *config.Config, run history.Run, summary batch.Summary, runErr error) error {
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	run, files := history.FromSummary(run, summary, runErr)
	return store.Record(ctx, run, files)
}

func writeSummary(out io.Writer, summary batch.Summary) {
	if len(summary.Results) > 0 {
		rows := make([][]string, 0, len(summary.Results))
		for _, res := range summary.Results {
			rows = append(rows, []string{
				res.Input.Name,
				res.Outcome.String(),
				sizeCell(res),
				savedCell(res),
				noteCell(res),
			})
		}
		spec := tableSpec{
			headers: []string{"File", "Outcome", "Size", "Saved", "Note"},
			rows:    rows,
			aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		}
		if summary.Written > 0 {
			spec.footer = []string{
				"Total",
				fmt.Sprintf("%d written", summary.Written),
				humanize.Bytes(uint64(summary.BytesOut)),
				savedPercent(summary.BytesIn, summary.BytesOut),
				"",
			}
		}
		fmt.Fprintln(out, spec.render())
	}

	line := fmt.Sprintf("Written %d, skipped %d, failed %d", summary.Written, summary.Skipped, summary.Failed)
	if summary.NotStarted > 0 {
		line += fmt.Sprintf(", not started %d", summary.NotStarted)
	}
	line += fmt.Sprintf(" of %d files", summary.Total)
	if summary.Written > 0 {
		line += fmt.Sprintf(" (%s -> %s)", humanize.Bytes(uint64(summary.BytesIn)), humanize.Bytes(uint64(summary.BytesOut)))
	}
	if summary.Duration > 0 {
		line += fmt.Sprintf(" in %s", summary.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(out, line)
}

func sizeCell(res backend.Result) string {
	if res.Outcome != backend.OutcomeWritten {
		return "-"
	}
	return humanize.Bytes(uint64(res.Bytes))
}

func savedCell(res backend.Result) string {
	if res.Outcome != backend.OutcomeWritten || res.InputBytes <= 0 {
		return "-"
	}
	return savedPercent(res.InputBytes, res.Bytes)
}

func savedPercent(in, out int64) string {
	if in <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(in-out)/float64(in))
}

func noteCell(res backend.Result) string {
	if res.Outcome == backend.OutcomeWritten {
		return filepath.Base(res.OutputPath)
	}
	if res.Reason != "" {
		return res.Reason
	}
	if res.Err != nil && !errors.Is(res.Err, context.Canceled) {
		return res.Err.Error()
	}
	return ""
}
