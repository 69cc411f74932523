package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/learnflow/internal/model"
	"github.com/Tiliavir/learnflow/internal/store"
)

var (
	goalsActive     bool
	goalTitle       string
	goalDescription string
	goalTarget      string
	goalStatus      string
	goalProgress    int
	goalClearSelect bool
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Manage learning goals",
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals (the selected goal is marked with *)",
	Args:  cobra.NoArgs,
	RunE:  runGoalsList,
}

var goalsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a goal",
	Args:  cobra.NoArgs,
	RunE:  runGoalsCreate,
}

var goalsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsUpdate,
}

var goalsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runGoalsDelete,
}

var goalsSelectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Select the goal used by progress commands",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoalsSelect,
}

func init() {
	goalsListCmd.Flags().BoolVar(&goalsActive, "active", false, "Only show goals that are not completed or archived")

	goalsCreateCmd.Flags().StringVar(&goalTitle, "title", "", "Goal title")
	goalsCreateCmd.Flags().StringVar(&goalDescription, "description", "", "Goal description")
	goalsCreateCmd.Flags().StringVar(&goalTarget, "target", "", "Target date (YYYY-MM-DD)")
	_ = goalsCreateCmd.MarkFlagRequired("title")
	_ = goalsCreateCmd.MarkFlagRequired("target")

	goalsUpdateCmd.Flags().StringVar(&goalTitle, "title", "", "New title")
	goalsUpdateCmd.Flags().StringVar(&goalDescription, "description", "", "New description")
	goalsUpdateCmd.Flags().StringVar(&goalTarget, "target", "", "New target date (YYYY-MM-DD)")
	goalsUpdateCmd.Flags().StringVar(&goalStatus, "status", "", "New status: ACTIVE, IN_PROGRESS, COMPLETED, ARCHIVED")
	goalsUpdateCmd.Flags().IntVar(&goalProgress, "progress", 0, "Completion percentage (0-100)")

	goalsSelectCmd.Flags().BoolVar(&goalClearSelect, "clear", false, "Clear the selection")

	goalsCmd.AddCommand(goalsListCmd, goalsCreateCmd, goalsUpdateCmd, goalsDeleteCmd, goalsSelectCmd)
}

func runGoalsList(cmd *cobra.Command, args []string) error {
	a := newApp()
	a.requireLogin()
	if err := a.store.FetchGoals(cmd.Context()); err != nil {
		exitOn(err)
	}
	a.restoreSelection()

	goals := a.store.Snapshot().Goals.Goals
	if goalsActive {
		goals = a.store.ActiveGoals()
	}
	printGoals(os.Stdout, goals, a.store.Snapshot().Goals.SelectedGoal)
	return nil
}

// printGoals writes one line per goal.
func printGoals(w io.Writer, goals []model.Goal, selected *model.Goal) {
	if len(goals) == 0 {
		fmt.Fprintln(w, "No goals found.")
		return
	}
	for _, g := range goals {
		mark := " "
		if selected != nil && selected.ID == g.ID {
			mark = "*"
		}
		progress := ""
		if g.Progress != nil {
			progress = fmt.Sprintf("  %d%%", *g.Progress)
		}
		target := ""
		if g.TargetDate != "" {
			if t, err := model.ParseTargetDate(g.TargetDate); err == nil {
				target = "  due " + t.Format("2006-01-02")
			}
		}
		fmt.Fprintf(w, "%s %4d  %-12s %s%s%s\n", mark, g.ID, g.Status, g.Title, target, progress)
	}
}

func runGoalsCreate(cmd *cobra.Command, args []string) error {
	a := newApp()
	a.requireLogin()
	in := model.GoalInput{Title: goalTitle, Description: goalDescription, TargetDate: goalTarget}
	if err := a.store.CreateGoal(cmd.Context(), in); err != nil {
		exitOn(err)
	}
	goals := a.store.Snapshot().Goals.Goals
	g := goals[len(goals)-1]
	fmt.Printf("Created goal %d: %s\n", g.ID, g.Title)
	return nil
}

func runGoalsUpdate(cmd *cobra.Command, args []string) error {
	id := parseID(args[0])

	var patch model.GoalPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		patch.Title = &goalTitle
	}
	if flags.Changed("description") {
		patch.Description = &goalDescription
	}
	if flags.Changed("target") {
		patch.TargetDate = &goalTarget
	}
	if flags.Changed("status") {
		s := model.GoalStatus(goalStatus)
		patch.Status = &s
	}
	if flags.Changed("progress") {
		patch.Progress = &goalProgress
	}
	if patch == (model.GoalPatch{}) {
		fmt.Fprintln(os.Stderr, "nothing to update: pass at least one of --title, --description, --target, --status, --progress")
		os.Exit(1)
	}

	a := newApp()
	a.requireLogin()
	if err := a.store.UpdateGoal(cmd.Context(), id, patch); err != nil {
		exitOn(err)
	}
	fmt.Printf("Updated goal %d.\n", id)
	return nil
}

func runGoalsDelete(cmd *cobra.Command, args []string) error {
	id := parseID(args[0])
	a := newApp()
	a.requireLogin()
	if err := a.store.FetchGoals(cmd.Context()); err != nil {
		exitOn(err)
	}
	a.restoreSelection()

	if err := a.store.DeleteGoal(cmd.Context(), id); err != nil {
		exitOn(err)
	}
	if err := a.store.SaveSelection(a.statePath); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	fmt.Printf("Deleted goal %d.\n", id)
	return nil
}

func runGoalsSelect(cmd *cobra.Command, args []string) error {
	a := newApp()
	switch {
	case goalClearSelect:
		a.store.SetSelectedGoal(nil)
	case len(args) == 1:
		a.requireLogin()
		id := parseID(args[0])
		if err := a.store.FetchGoals(cmd.Context()); err != nil {
			exitOn(err)
		}
		if !a.store.SelectGoalByID(id) {
			fmt.Fprintf(os.Stderr, "goal %d not found\n", id)
			os.Exit(1)
		}
	default:
		return showSelection(a)
	}

	if err := a.store.SaveSelection(a.statePath); err != nil {
		exitOn(err)
	}
	if g := a.store.Snapshot().Goals.SelectedGoal; g != nil {
		fmt.Printf("Selected goal %d: %s\n", g.ID, g.Title)
	} else {
		fmt.Println("Selection cleared.")
	}
	return nil
}

func showSelection(a *app) error {
	id, err := store.LoadSelection(a.statePath)
	if err != nil {
		exitOn(err)
	}
	if id == 0 {
		fmt.Println("No goal selected.")
		return nil
	}
	fmt.Printf("Selected goal: %d\n", id)
	return nil
}
