package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/procport/procport/cliout"
	"github.com/procport/procport/procs"
)

func newPsCommand() *cobra.Command {
	var (
		flagCategory string
		flagSort     string
		flagTop      int
		flagSave     string
	)

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List processes with resource usage and category",
		Example: `  procport ps
  procport ps --category Services
  procport ps --sort mem --top 5 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := procs.Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			if flagCategory != "" {
				cat, err := parseCategory(flagCategory)
				if err != nil {
					return err
				}
				records = procs.FilterCategory(records, cat)
			}

			switch flagSort {
			case "cpu":
				procs.SortByCPU(records)
			case "mem":
				procs.SortByMemory(records)
			case "":
			default:
				return fmt.Errorf("invalid sort %q (valid options: cpu, mem)", flagSort)
			}
			records = procs.Top(records, flagTop)

			if err := cliout.Print(records, func() {
				if flagCategory != "" {
					cliout.Header(fmt.Sprintf("Category: %s", flagCategory))
					printRecords(records)
					return
				}
				printGrouped(records)
			}); err != nil {
				return err
			}

			if cmd.Flags().Changed("save") {
				saveResult(saveLabel(flagSave, "process_list"), records)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagCategory, "category", "", "Only show one category (System, User, Services, Background, Other)")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Sort order: cpu or mem")
	cmd.Flags().IntVar(&flagTop, "top", 0, "Limit to the first N results")
	cmd.Flags().StringVar(&flagSave, "save", "", "Save results to the results directory under this label")
	cmd.Flags().Lookup("save").NoOptDefVal = "process_list"
	return cmd
}

func newSearchCommand() *cobra.Command {
	var flagSave string

	cmd := &cobra.Command{
		Use:   "search <fragment>",
		Short: "Search processes by name or command-line fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := procs.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			matched := procs.Search(records, args[0])

			if err := cliout.Print(matched, func() {
				cliout.Header(fmt.Sprintf("Search results for %q", args[0]))
				printRecords(matched)
			}); err != nil {
				return err
			}

			if cmd.Flags().Changed("save") {
				saveResult(saveLabel(flagSave, "search_"+args[0]), matched)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagSave, "save", "", "Save results to the results directory under this label")
	cmd.Flags().Lookup("save").NoOptDefVal = "search"
	return cmd
}

// printGrouped lists records bucketed by category, in menu order.
func printGrouped(records []procs.Record) {
	for _, cat := range procs.Categories() {
		cliout.Header(string(cat))
		printRecords(procs.FilterCategory(records, cat))
	}
	if idle := procs.FilterCategory(records, procs.CategorySystemIdle); len(idle) > 0 {
		cliout.Header(string(procs.CategorySystemIdle))
		printRecords(idle)
	}
}

// parseCategory matches a category name case-insensitively.
func parseCategory(s string) (procs.Category, error) {
	for _, cat := range append(procs.Categories(), procs.CategorySystemIdle) {
		if strings.EqualFold(string(cat), s) {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// saveLabel picks the user's label or the default.
func saveLabel(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
