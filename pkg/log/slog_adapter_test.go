package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logOne(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestSlogAdapterFrameEvent(t *testing.T) {
	entry := logOne(t, Event{
		Timestamp: time.Now(),
		SessionID: "s-1",
		Direction: DirectionIn,
		Layer:     LayerTransport,
		Frame:     &FrameEvent{Size: 256},
	})

	assert.Equal(t, "frame", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "s-1", entry["session"])
	assert.Equal(t, "TRANSPORT", entry["layer"])
	assert.Equal(t, float64(256), entry["frame_size"])
}

func TestSlogAdapterMessageEvent(t *testing.T) {
	entry := logOne(t, Event{
		Timestamp: time.Now(),
		Direction: DirectionOut,
		Layer:     LayerCodec,
		Message: &MessageEvent{
			CompactSize: 25,
			JSONSize:    100,
			Action:      "set",
			Path:        "Vehicle.Speed",
		},
	})

	assert.Equal(t, "codec", entry["msg"])
	assert.Equal(t, "OUT", entry["direction"])
	assert.Equal(t, float64(400), entry["ratio"])
	assert.Equal(t, "set", entry["action"])
	assert.Equal(t, "Vehicle.Speed", entry["path"])
	assert.NotContains(t, entry, "duration")
}

func TestSlogAdapterErrorEvent(t *testing.T) {
	entry := logOne(t, Event{
		Timestamp: time.Now(),
		Layer:     LayerCodec,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Layer:   LayerCodec,
			Message: "boom",
			Kind:    "MALFORMED_VALUE",
			Offset:  -1,
		},
	})

	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "MALFORMED_VALUE", entry["kind"])
	assert.NotContains(t, entry, "offset")
}
