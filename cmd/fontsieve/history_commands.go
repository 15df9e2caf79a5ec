package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fontsieve/internal/history"
)

const shortIDLength = 8

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent subsetting runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						humanize.Time(run.StartedAt),
						string(run.Status),
						run.Backend + "/" + run.Flavor,
						strings.Join(run.Subsets, ","),
						fmt.Sprintf("%d/%d", run.Written, run.Total),
						humanize.Bytes(uint64(run.BytesOut)),
						run.Duration().Round(time.Millisecond).String(),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Started", "Status", "Backend", "Subsets", "Written", "Output", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its per-file results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, files, err := store.Get(cmd.Context(), args[0])
				switch {
				case errors.Is(err, history.ErrNotFound):
					return fmt.Errorf("no run matches %q", args[0])
				case err != nil:
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:        %s\n", run.ID)
				fmt.Fprintf(out, "Status:     %s\n", run.Status)
				fmt.Fprintf(out, "Started:    %s (%s)\n", run.StartedAt.Local().Format(time.DateTime), humanize.Time(run.StartedAt))
				fmt.Fprintf(out, "Duration:   %s\n", run.Duration().Round(time.Millisecond))
				fmt.Fprintf(out, "Backend:    %s (%s)\n", run.Backend, run.Flavor)
				fmt.Fprintf(out, "Subsets:    %s (%s codepoints)\n", strings.Join(run.Subsets, ", "), humanize.Comma(int64(run.Codepoints)))
				fmt.Fprintf(out, "Input dir:  %s\n", run.InputDir)
				fmt.Fprintf(out, "Output dir: %s\n", run.OutputDir)
				fmt.Fprintf(out, "Files:      %d written, %d skipped, %d failed, %d not started\n",
					run.Written, run.Skipped, run.Failed, run.NotStarted)
				fmt.Fprintf(out, "Bytes:      %s -> %s\n", humanize.Bytes(uint64(run.BytesIn)), humanize.Bytes(uint64(run.BytesOut)))
				if run.Error != "" {
					fmt.Fprintf(out, "Error:      %s\n", run.Error)
				}
				if len(files) == 0 {
					return nil
				}

				rows := make([][]string, 0, len(files))
				for _, file := range files {
					note := file.Reason
					if file.Outcome == "written" {
						note = filepath.Base(file.OutputPath)
					}
					rows = append(rows, []string{
						filepath.Base(file.InputPath),
						file.Outcome,
						humanize.Bytes(uint64(file.OutputBytes)),
						strconv.Itoa(file.Attempts),
						file.Duration.Round(time.Millisecond).String(),
						note,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Outcome", "Size", "Attempts", "Duration", "Note"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			return ctx.withHistory(func(store *history.Store) error {
				deleted, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs\n", deleted)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age cutoff for deletion")
	return cmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
