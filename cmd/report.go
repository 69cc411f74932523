package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/learnflow/internal/model"
	"github.com/Tiliavir/learnflow/internal/timecalc"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show study time per ISO week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekTotal is the study time of one ISO week.
type weekTotal struct {
	Week     string
	Minutes  int
	Sessions int
}

// weeklyTotals aggregates entries by ISO week of their creation time,
// oldest week first. Entries without a parseable timestamp are reported
// under "undated".
func weeklyTotals(entries []model.Progress) []weekTotal {
	totals := map[string]*weekTotal{}
	var order []string
	for _, p := range entries {
		label := "undated"
		if t, err := timecalc.ParseTimestamp(p.CreatedAt); err == nil {
			label = timecalc.ISOWeekLabel(t)
		}
		wt, seen := totals[label]
		if !seen {
			wt = &weekTotal{Week: label}
			totals[label] = wt
			order = append(order, label)
		}
		wt.Minutes += p.Duration
		wt.Sessions++
	}
	sort.Strings(order)

	out := make([]weekTotal, 0, len(order))
	for _, label := range order {
		out = append(out, *totals[label])
	}
	return out
}

func runReport(cmd *cobra.Command, args []string) error {
	_, entries := loadProgress(cmd)
	printReport(os.Stdout, weeklyTotals(entries), reportFormat)
	return nil
}

func printReport(w io.Writer, weeks []weekTotal, format string) {
	grandTotal := 0
	for _, wt := range weeks {
		grandTotal += wt.Minutes
	}

	switch format {
	case "csv":
		fmt.Fprintln(w, "week,sessions,duration_minutes")
		for _, wt := range weeks {
			fmt.Fprintf(w, "%s,%d,%d\n", wt.Week, wt.Sessions, wt.Minutes)
		}
	case "json":
		fmt.Fprintln(w, "{")
		fmt.Fprintln(w, "  \"weeks\": [")
		for i, wt := range weeks {
			comma := ","
			if i == len(weeks)-1 {
				comma = ""
			}
			fmt.Fprintf(w, "    {\"week\": %q, \"sessions\": %d, \"duration_minutes\": %d}%s\n",
				wt.Week, wt.Sessions, wt.Minutes, comma)
		}
		fmt.Fprintln(w, "  ],")
		fmt.Fprintf(w, "  \"total_minutes\": %d\n", grandTotal)
		fmt.Fprintln(w, "}")
	default: // md
		fmt.Fprintln(w, "Week        Sessions  Time")
		fmt.Fprintln(w, "--------------------------------")
		for _, wt := range weeks {
			fmt.Fprintf(w, "%-12s%8d  %s\n", wt.Week, wt.Sessions, timecalc.FormatMinutes(wt.Minutes))
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s  %s\n", "Total", timecalc.FormatMinutes(grandTotal))
	}
}
