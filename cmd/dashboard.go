package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/learnflow/internal/model"
	"github.com/Tiliavir/learnflow/internal/timecalc"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show goal and resource counts",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a := newApp()
	a.requireLogin()

	// The three loads touch different slices and run concurrently; a 401 on
	// any of them shares the gateway's single refresh.
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return a.store.GetCurrentUser(ctx) })
	g.Go(func() error { return a.store.FetchGoals(ctx) })
	g.Go(func() error { return a.store.FetchRecommendations(ctx) })
	if err := g.Wait(); err != nil {
		exitOn(err)
	}
	a.restoreSelection()

	st := a.store.Snapshot()
	if st.Auth.User != nil {
		fmt.Printf("Welcome back, %s\n\n", st.Auth.User.Name)
	}
	stats := a.store.Stats()
	fmt.Printf("  Active goals:     %d\n", stats.ActiveGoals)
	fmt.Printf("  Completed goals:  %d\n", stats.CompletedGoals)
	fmt.Printf("  Resources:        %d\n", stats.Resources)

	if sel := st.Goals.SelectedGoal; sel != nil {
		if err := a.store.FetchGoalProgress(cmd.Context(), sel.ID); err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
			return nil
		}
		fmt.Printf("\nSelected: %s (%s logged)\n", sel.Title,
			timecalc.FormatMinutes(a.store.TotalProgressMinutes()))
		if t, err := model.ParseTargetDate(sel.TargetDate); err == nil {
			switch days := timecalc.DaysUntil(time.Now(), t); {
			case days > 0:
				fmt.Printf("Due in %d days\n", days)
			case days == 0:
				fmt.Println("Due today")
			default:
				fmt.Printf("Overdue by %d days\n", -days)
			}
		}
	}

	if active := a.store.ActiveGoals(); len(active) > 0 {
		fmt.Println("\nActive goals:")
		printGoals(os.Stdout, active, st.Goals.SelectedGoal)
	}
	return nil
}
