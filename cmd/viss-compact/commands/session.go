// Package commands implements the viss-compact CLI commands.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/viss-compact/viss-go/pkg/catalog"
	"github.com/viss-compact/viss-go/pkg/compact"
	"github.com/viss-compact/viss-go/pkg/log"
)

// Options are the flags shared by the codec commands. Non-empty fields
// override the configuration file.
type Options struct {
	Config   string
	Keywords string
	Paths    string
	EventLog string
	LogLevel string
}

// Session is a configured codec together with its loggers.
type Session struct {
	// ID tags every event this session captures.
	ID string

	Codec          *compact.Codec
	Logger         *slog.Logger
	Events         log.Logger
	MaxMessageSize uint32

	file *log.FileLogger
}

// OpenSession loads the configuration and catalogs named by opts.
// Operational logs are written to stderr.
func OpenSession(opts Options, stderr io.Writer) (*Session, error) {
	cfg := catalog.DefaultConfig()
	if opts.Config != "" {
		var err error
		if cfg, err = catalog.LoadConfig(opts.Config); err != nil {
			return nil, err
		}
	}
	if opts.Keywords != "" {
		cfg.Keywords = opts.Keywords
	}
	if opts.Paths != "" {
		cfg.Paths = opts.Paths
	}
	if opts.EventLog != "" {
		cfg.EventLog = opts.EventLog
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	logger := newSlogLogger(stderr, cfg.Logging.Format, level)

	dict, paths, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s := &Session{
		ID:             uuid.NewString(),
		Logger:         logger,
		MaxMessageSize: cfg.MaxMessageSize,
	}

	events := []log.Logger{log.NewSlogAdapter(logger)}
	if cfg.EventLog != "" {
		s.file, err = log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		events = append(events, s.file)
	}
	s.Events = log.NewMultiLogger(events...)
	s.Codec = compact.New(dict, paths, compact.WithLogger(s.Events, s.ID))

	logger.Debug("session opened",
		slog.String("session", s.ID),
		slog.Int("keywords", dict.Len()),
		slog.Int("paths", paths.Len()),
		slog.String("event_log", cfg.EventLog),
	)
	return s, nil
}

func newSlogLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Close flushes and closes the event log, if any.
func (s *Session) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
