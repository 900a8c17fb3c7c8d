package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		SessionID: "session",
		Direction: DirectionIn,
		Layer:     LayerTransport,
		Category:  CategoryMessage,
	}
	logger.Log(event)

	event.Frame = &FrameEvent{Size: 3, Data: []byte{1, 2, 3}}
	logger.Log(event)

	event.Frame = nil
	event.Message = &MessageEvent{CompactSize: 1, JSONSize: 2}
	logger.Log(event)

	event.Message = nil
	event.Error = &ErrorEventData{Message: "failed", Offset: -1}
	logger.Log(event)
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

// recorder collects events.
type recorder struct {
	events []Event
}

func (r *recorder) Log(event Event) {
	r.events = append(r.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	first, second := &recorder{}, &recorder{}
	multi := NewMultiLogger(first, nil, second)

	if multi.Len() != 2 {
		t.Errorf("Len() = %d, want 2", multi.Len())
	}

	multi.Log(Event{SessionID: "s-1"})
	multi.Log(Event{SessionID: "s-2"})

	for i, r := range []*recorder{first, second} {
		if len(r.events) != 2 {
			t.Errorf("logger %d: got %d events, want 2", i, len(r.events))
			continue
		}
		if r.events[1].SessionID != "s-2" {
			t.Errorf("logger %d: SessionID = %q, want %q", i, r.events[1].SessionID, "s-2")
		}
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	NewMultiLogger().Log(Event{})
}
