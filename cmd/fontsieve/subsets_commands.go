package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/runenames"

	"fontsieve/internal/catalog"
	"fontsieve/internal/unirange"
)

func newSubsetsCommand(ctx *commandContext) *cobra.Command {
	subsetsCmd := &cobra.Command{
		Use:   "subsets",
		Short: "Browse the subset catalog",
	}

	subsetsCmd.AddCommand(newSubsetsListCommand(ctx))
	subsetsCmd.AddCommand(newSubsetsShowCommand(ctx))

	return subsetsCmd
}

func (c *commandContext) catalog() (*catalog.Catalog, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.New(cfg.Catalog.Custom), nil
}

func newSubsetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available subsets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			names := cat.Names()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				tokens, _ := cat.Lookup(name)
				count := "invalid"
				if sel, err := unirange.Parse(tokens); err == nil {
					count = strconv.Itoa(sel.Len())
				}
				rows = append(rows, []string{
					name,
					strings.Join(cat.Aliases(name), ", "),
					strconv.Itoa(len(tokens)),
					count,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Aliases", "Ranges", "Codepoints"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newSubsetsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the ranges of a subset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.catalog()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			tokens, ok := cat.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown subset %q (run `fontsieve subsets list`)", name)
			}
			sel, err := unirange.Parse(tokens)
			if err != nil {
				return fmt.Errorf("subset %q: %w", name, err)
			}

			intervals := sel.Intervals()
			rows := make([][]string, 0, len(intervals))
			for _, iv := range intervals {
				rows = append(rows, []string{
					iv.Token(),
					strconv.Itoa(iv.Len()),
					runeLabel(iv.Lo),
					runeLabel(iv.Hi),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subset: %s\n", name)
			if aliases := cat.Aliases(name); len(aliases) > 0 {
				fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
			}
			fmt.Fprintf(out, "Codepoints: %d\n", sel.Len())
			fmt.Fprintln(out, renderTable(
				[]string{"Range", "Count", "First", "Last"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func runeLabel(r rune) string {
	name := runenames.Name(r)
	if name == "" || strings.HasPrefix(name, "<") {
		return fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("U+%04X %s", r, name)
}
