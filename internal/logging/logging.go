package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Options configures the loggers created by NewLogger. Zero values select
// the defaults.
type Options struct {
	Level  string
	Format string // "text" or "json"
	// Output overrides the automatic stderr/discard decision.
	Output io.Writer
}

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	base      = newBase(Options{})
)

// Configure replaces the shared logger settings. Loggers handed out earlier
// keep working and pick up the new level, formatter and output.
func Configure(opts Options) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	apply(base, opts)
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}
	entry := base.WithField("component", component)
	loggers[component] = entry
	return entry
}

func newBase(opts Options) *logrus.Logger {
	logger := logrus.New()
	apply(logger, opts)
	return logger
}

func apply(logger *logrus.Logger, opts Options) {
	levelStr := "info"
	if env := os.Getenv("LEARNFLOW_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if opts.Level != "" {
		levelStr = opts.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if opts.Output != nil {
		logger.SetOutput(opts.Output)
		return
	}

	// Structured logs go to stderr when debugging or when stderr is not a
	// terminal; interactive use only sees command output.
	isDebug := logger.GetLevel() >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if isDebug || !isInteractive {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(io.Discard)
	}
}
