package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "learnflow",
	Short: "LearnFlow – track learning goals from the command line",
	Long: `learnflow is a command-line client for the LearnFlow API.
Credentials and client state are stored in ~/.learnflow/; settings are read
from ~/.learnflow/config.yaml, .env and LEARNFLOW_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and token refreshes to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(mockServerCmd)
}
