package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger. Messages are logged at
// Debug level and errors at Warn level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns an adapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as one structured record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
	}
	level := slog.LevelDebug
	msg := "codec"

	switch {
	case event.Frame != nil:
		msg = "frame"
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Message != nil:
		attrs = append(attrs,
			slog.Int("compact_size", event.Message.CompactSize),
			slog.Int("json_size", event.Message.JSONSize),
			slog.Float64("ratio", event.Message.Ratio()),
		)
		if event.Message.Action != "" {
			attrs = append(attrs, slog.String("action", event.Message.Action))
		}
		if event.Message.Path != "" {
			attrs = append(attrs, slog.String("path", event.Message.Path))
		}
		if event.Message.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Message.Duration))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		msg = "codec error"
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Kind != "" {
			attrs = append(attrs, slog.String("kind", event.Error.Kind))
		}
		if event.Error.Offset >= 0 {
			attrs = append(attrs, slog.Int("offset", event.Error.Offset))
		}
	}

	a.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
