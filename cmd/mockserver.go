package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/learnflow/internal/logging"
	"github.com/Tiliavir/learnflow/internal/mockapi"
)

var (
	mockAddr      string
	mockAccessTTL time.Duration
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run an in-memory LearnFlow API for local testing",
	Long: `mock-server serves the LearnFlow API under /api/v1 from memory.
Short --access-ttl values make it easy to watch the client refresh tokens.`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	mockServerCmd.Flags().StringVar(&mockAddr, "addr", "localhost:5000", "Listen address")
	mockServerCmd.Flags().DurationVar(&mockAccessTTL, "access-ttl", 15*time.Minute, "Lifetime of issued access tokens")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	level := "info"
	if verbose {
		level = "debug"
	}
	logging.Configure(logging.Options{Level: level, Output: cmd.ErrOrStderr()})
	log := logging.NewLogger("mock-server")

	srv := &http.Server{
		Addr:              mockAddr,
		Handler:           mockapi.New(mockapi.WithAccessTTL(mockAccessTTL)).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.WithField("addr", mockAddr).Info("Mock API listening")
	fmt.Printf("Mock API on http://%s/api/v1 (Ctrl+C to stop)\n", mockAddr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock server: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
