package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/learnflow/internal/model"
	"github.com/Tiliavir/learnflow/internal/timecalc"
)

var (
	progressGoal     int64
	progressDuration int
	progressNotes    string
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Log and review study sessions",
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study sessions of a goal",
	Args:  cobra.NoArgs,
	RunE:  runProgressList,
}

var progressLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a study session",
	Args:  cobra.NoArgs,
	RunE:  runProgressLog,
}

func init() {
	for _, c := range []*cobra.Command{progressListCmd, progressLogCmd, reportCmd, exportCmd} {
		c.Flags().Int64Var(&progressGoal, "goal", 0, "Goal id (default: the selected goal)")
	}
	progressLogCmd.Flags().IntVar(&progressDuration, "duration", 0, "Duration in minutes")
	progressLogCmd.Flags().StringVar(&progressNotes, "notes", "", "What you worked on")
	_ = progressLogCmd.MarkFlagRequired("duration")

	progressCmd.AddCommand(progressListCmd, progressLogCmd, reportCmd, exportCmd)
}

// loadProgress fetches the progress of the requested or selected goal.
func loadProgress(cmd *cobra.Command) (*app, []model.Progress) {
	a := newApp()
	a.requireLogin()
	id := a.goalIDOrSelected(progressGoal)
	if err := a.store.FetchGoalProgress(cmd.Context(), id); err != nil {
		exitOn(err)
	}
	return a, a.store.Snapshot().Goals.Progress
}

func runProgressList(cmd *cobra.Command, args []string) error {
	a, entries := loadProgress(cmd)
	printProgress(os.Stdout, entries)
	if len(entries) > 0 {
		fmt.Printf("Total: %s\n", timecalc.FormatMinutes(a.store.TotalProgressMinutes()))
	}
	return nil
}

// printProgress groups entries by day and prints them.
func printProgress(w io.Writer, entries []model.Progress) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No progress logged.")
		return
	}

	var currentDay string
	for _, p := range entries {
		day := "undated"
		clock := "--:--"
		if t, err := timecalc.ParseTimestamp(p.CreatedAt); err == nil {
			day = t.Local().Format("2006-01-02")
			clock = t.Local().Format("15:04")
		}
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		notes := ""
		if p.Notes != "" {
			notes = "  " + p.Notes
		}
		fmt.Fprintf(w, "%s  %s%s\n", clock, timecalc.FormatMinutes(p.Duration), notes)
	}
}

func runProgressLog(cmd *cobra.Command, args []string) error {
	a := newApp()
	a.requireLogin()
	id := a.goalIDOrSelected(progressGoal)
	in := model.ProgressInput{Notes: progressNotes, Duration: progressDuration}
	if err := a.store.LogProgress(cmd.Context(), id, in); err != nil {
		exitOn(err)
	}
	fmt.Printf("Logged %s on goal %d.\n", timecalc.FormatMinutes(progressDuration), id)
	return nil
}
