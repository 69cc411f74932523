package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/Tiliavir/learnflow/internal/api"
	"github.com/Tiliavir/learnflow/internal/apierr"
	"github.com/Tiliavir/learnflow/internal/config"
	"github.com/Tiliavir/learnflow/internal/credentials"
	"github.com/Tiliavir/learnflow/internal/gateway"
	"github.com/Tiliavir/learnflow/internal/logging"
	"github.com/Tiliavir/learnflow/internal/store"
)

// app is what every networked command works with.
type app struct {
	cfg       config.Config
	gw        *gateway.Gateway
	store     *store.Store
	statePath string
}

// newApp loads configuration and wires gateway, client and store. Failures
// are fatal.
func newApp() *app {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logging.Configure(logging.Options{Level: level, Format: cfg.Log.Format})

	credPath, err := credentials.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	statePath, err := store.StatePath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	gw, err := gateway.New(cfg.API.BaseURL,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		gateway.WithCredentials(credentials.NewFile(credPath)),
		gateway.WithRefreshPath(cfg.API.RefreshPath),
		gateway.WithLogger(logging.NewLogger("gateway").WithField("base_url", cfg.API.BaseURL)),
		gateway.WithSessionExpiredHook(func(error) {
			fmt.Fprintln(os.Stderr, "Session expired, run `learnflow login`")
		}),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	return &app{
		cfg:       cfg,
		gw:        gw,
		store:     store.New(api.NewClient(gw), store.WithLogger(logging.NewLogger("store"))),
		statePath: statePath,
	}
}

// exitOn prints err and exits. Session expiry has already been reported by
// the gateway hook.
func exitOn(err error) {
	if apierr.Is(err, apierr.KindSessionExpired) {
		os.Exit(3)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// requireLogin exits when no credentials are stored.
func (a *app) requireLogin() {
	if !a.gw.HasSession() {
		fmt.Fprintln(os.Stderr, "Not logged in, run `learnflow login`")
		os.Exit(3)
	}
}

// restoreSelection selects the goal saved by an earlier run, if it is still
// in the loaded collection.
func (a *app) restoreSelection() {
	id, err := store.LoadSelection(a.statePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		return
	}
	if id != 0 {
		a.store.SelectGoalByID(id)
	}
}

// goalIDOrSelected returns id when set, otherwise the goal saved by
// `learnflow goals select`.
func (a *app) goalIDOrSelected(id int64) int64 {
	if id != 0 {
		return id
	}
	saved, err := store.LoadSelection(a.statePath)
	if err != nil {
		exitOn(err)
	}
	if saved == 0 {
		fmt.Fprintln(os.Stderr, "no goal given: pass --goal or run `learnflow goals select <id>`")
		os.Exit(1)
	}
	return saved
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "invalid id %q\n", s)
		os.Exit(1)
	}
	return id
}
