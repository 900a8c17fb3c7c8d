package log

import (
	"bytes"
	"testing"
	"time"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerTransport, "TRANSPORT"},
		{LayerCodec, "CODEC"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.layer.String(); got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryMessage, "MESSAGE"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestParseNames(t *testing.T) {
	if d, err := ParseDirection("OUT"); err != nil || d != DirectionOut {
		t.Errorf("ParseDirection(OUT) = %v, %v", d, err)
	}
	if l, err := ParseLayer("Codec"); err != nil || l != LayerCodec {
		t.Errorf("ParseLayer(Codec) = %v, %v", l, err)
	}
	if c, err := ParseCategory("error"); err != nil || c != CategoryError {
		t.Errorf("ParseCategory(error) = %v, %v", c, err)
	}

	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(sideways) should fail")
	}
	if _, err := ParseLayer("wire"); err == nil {
		t.Error("ParseLayer(wire) should fail")
	}
	if _, err := ParseCategory("state"); err == nil {
		t.Error("ParseCategory(state) should fail")
	}
}

func TestNewFrameEventTruncates(t *testing.T) {
	small := NewFrameEvent([]byte{1, 2, 3})
	if small.Size != 3 || small.Truncated || !bytes.Equal(small.Data, []byte{1, 2, 3}) {
		t.Errorf("small frame = %+v", small)
	}

	payload := bytes.Repeat([]byte{0xAB}, MaxFrameData+10)
	large := NewFrameEvent(payload)
	if large.Size != MaxFrameData+10 {
		t.Errorf("Size = %d, want %d", large.Size, MaxFrameData+10)
	}
	if !large.Truncated {
		t.Error("large frame should be truncated")
	}
	if len(large.Data) != MaxFrameData {
		t.Errorf("len(Data) = %d, want %d", len(large.Data), MaxFrameData)
	}

	// The event must not alias the caller's buffer.
	payload[0] = 0
	if large.Data[0] != 0xAB {
		t.Error("frame data aliases the payload")
	}
}

func TestMessageEventRatio(t *testing.T) {
	tests := []struct {
		name string
		msg  MessageEvent
		want float64
	}{
		{"halved", MessageEvent{CompactSize: 50, JSONSize: 100}, 200},
		{"equal", MessageEvent{CompactSize: 10, JSONSize: 10}, 100},
		{"empty", MessageEvent{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Ratio(); got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		SessionID: "abc12345-def6-7890-abcd-ef1234567890",
		Direction: DirectionIn,
		Layer:     LayerCodec,
		Category:  CategoryMessage,
		Message: &MessageEvent{
			CompactSize: 12,
			JSONSize:    64,
			Action:      "get",
			Path:        "Vehicle.Speed",
			Duration:    1500 * time.Nanosecond,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, ts)
	}
	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID: got %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Layer != LayerCodec || decoded.Direction != DirectionIn {
		t.Errorf("Layer/Direction: got %v/%v", decoded.Layer, decoded.Direction)
	}
	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	if *decoded.Message != *original.Message {
		t.Errorf("Message: got %+v, want %+v", *decoded.Message, *original.Message)
	}
	if decoded.Frame != nil || decoded.Error != nil {
		t.Error("unexpected payloads after round trip")
	}
}

func TestErrorEventKeepsZeroOffset(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Layer:     LayerCodec,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Layer:   LayerCodec,
			Message: "compact: decode at offset 0: unknown keyword",
			Kind:    "UNKNOWN_KEYWORD",
			Offset:  0,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if *decoded.Error != *original.Error {
		t.Errorf("Error: got %+v, want %+v", *decoded.Error, *original.Error)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xFF, 0x00}); err == nil {
		t.Error("DecodeEvent should fail on invalid CBOR")
	}
}
