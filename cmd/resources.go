package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/learnflow/internal/model"
)

var (
	resourcesSearch string
	resourcesType   string
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Browse recommended learning resources",
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recommendations",
	Args:  cobra.NoArgs,
	RunE:  runResourcesList,
}

var resourcesOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Show a recommendation's link and record the view",
	Args:  cobra.ExactArgs(1),
	RunE:  runResourcesOpen,
}

func init() {
	resourcesListCmd.Flags().StringVar(&resourcesSearch, "search", "", "Only show resources whose title or reason contains this text")
	resourcesListCmd.Flags().StringVar(&resourcesType, "type", "", "Only show resources of this type")

	resourcesCmd.AddCommand(resourcesListCmd, resourcesOpenCmd)
}

func runResourcesList(cmd *cobra.Command, args []string) error {
	a := newApp()
	a.requireLogin()
	if err := a.store.FetchRecommendations(cmd.Context()); err != nil {
		exitOn(err)
	}

	recs := a.store.FilterRecommendations(resourcesSearch, resourcesType)
	printRecommendations(os.Stdout, recs)
	if types := a.store.RecommendationTypes(); len(types) > 0 {
		fmt.Printf("\nTypes: %s\n", strings.Join(types, ", "))
	}
	return nil
}

func printRecommendations(w io.Writer, recs []model.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No resources found.")
		return
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%4d  %-14s %s\n", r.ID, r.Type, r.Title)
		if r.Reason != "" {
			fmt.Fprintf(w, "      %s\n", r.Reason)
		}
	}
}

func runResourcesOpen(cmd *cobra.Command, args []string) error {
	id := parseID(args[0])
	a := newApp()
	a.requireLogin()
	if err := a.store.FetchRecommendations(cmd.Context()); err != nil {
		exitOn(err)
	}

	for _, r := range a.store.Snapshot().Resources.Recommendations {
		if r.ID != id {
			continue
		}
		a.store.TrackInteraction(cmd.Context(), r.ID, model.InteractionView)
		fmt.Println(r.Title)
		fmt.Println(r.URL)
		return nil
	}
	fmt.Fprintf(os.Stderr, "resource %d not found\n", id)
	os.Exit(1)
	return nil
}
