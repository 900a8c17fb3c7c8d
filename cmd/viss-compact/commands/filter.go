package commands

import (
	"fmt"
	"time"

	"github.com/viss-compact/viss-go/pkg/log"
)

// FilterFlags are the event filter flags as given on the command line.
type FilterFlags struct {
	Session   string
	Layer     string
	Direction string
	Category  string
	Kind      string
	Action    string
	Path      string
	Since     string
	Until     string
}

// Filter parses the flags into a log.Filter.
func (f FilterFlags) Filter() (log.Filter, error) {
	filter := log.Filter{SessionID: f.Session, Kind: f.Kind, Action: f.Action, Path: f.Path}

	if f.Layer != "" {
		l, err := log.ParseLayer(f.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Layer = &l
	}
	if f.Direction != "" {
		d, err := log.ParseDirection(f.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}
	if f.Category != "" {
		c, err := log.ParseCategory(f.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	if f.Since != "" {
		t, err := time.Parse(time.RFC3339, f.Since)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid -since time: %w", err)
		}
		filter.TimeStart = &t
	}
	if f.Until != "" {
		t, err := time.Parse(time.RFC3339, f.Until)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid -until time: %w", err)
		}
		filter.TimeEnd = &t
	}
	return filter, nil
}

// RunFilter copies the events of a capture file that match filter into a
// new capture file and returns how many were written.
func RunFilter(path string, filter log.Filter, output string) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	writer, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}

	err = reader.ForEach(func(event log.Event) error {
		writer.Log(event)
		return nil
	})
	if err != nil {
		writer.Close()
		return writer.Count(), fmt.Errorf("failed to read event: %w", err)
	}
	return writer.Count(), writer.Close()
}
