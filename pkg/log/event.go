package log

import (
	"fmt"
	"strings"
	"time"
)

// Event is one captured codec or transport event. Exactly one of Frame,
// Message or Error is set. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp is when the event occurred, with nanosecond precision.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID groups the events of one codec user, typically a UUID.
	SessionID string `cbor:"2,keyasint"`

	Direction Direction `cbor:"3,keyasint"`
	Layer     Layer     `cbor:"4,keyasint"`
	Category  Category  `cbor:"5,keyasint"`

	Frame   *FrameEvent     `cbor:"10,keyasint,omitempty"`
	Message *MessageEvent   `cbor:"11,keyasint,omitempty"`
	Error   *ErrorEventData `cbor:"12,keyasint,omitempty"`
}

// Direction indicates which way data moved through the codec.
type Direction uint8

const (
	// DirectionIn is compact bytes towards JSON: a decode or frame read.
	DirectionIn Direction = 0
	// DirectionOut is JSON towards compact bytes: an encode or frame write.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// ParseDirection parses a direction name, case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return DirectionIn, nil
	case "out":
		return DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerTransport is the length-prefixed framing layer.
	LayerTransport Layer = 0
	// LayerCodec is the compact message codec.
	LayerCodec Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerCodec:
		return "CODEC"
	default:
		return "UNKNOWN"
	}
}

// ParseLayer parses a layer name, case-insensitively.
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return LayerTransport, nil
	case "codec":
		return LayerCodec, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport or codec)", s)
	}
}

// Category classifies the event.
type Category uint8

const (
	// CategoryMessage is a successfully handled frame or message.
	CategoryMessage Category = 0
	// CategoryError is a failure at any layer.
	CategoryError Category = 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory parses a category name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return CategoryMessage, nil
	case "error":
		return CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message or error)", s)
	}
}

// MaxFrameData is the number of frame bytes kept in a FrameEvent.
const MaxFrameData = 256

// FrameEvent records a length-prefixed frame.
type FrameEvent struct {
	// Size is the payload length, excluding the prefix.
	Size int `cbor:"1,keyasint"`

	// Data holds up to MaxFrameData payload bytes.
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated is set when Data is shorter than Size.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent returns a FrameEvent for payload, keeping at most
// MaxFrameData bytes.
func NewFrameEvent(payload []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(payload)}
	data := payload
	if len(data) > MaxFrameData {
		data = data[:MaxFrameData]
		fe.Truncated = true
	}
	fe.Data = append([]byte(nil), data...)
	return fe
}

// MessageEvent records one decode or encode.
type MessageEvent struct {
	CompactSize int `cbor:"1,keyasint"`
	JSONSize    int `cbor:"2,keyasint"`

	// Action is the first request type seen in the message.
	Action string `cbor:"3,keyasint,omitempty"`

	// Path is the first leaf path seen in the message.
	Path string `cbor:"4,keyasint,omitempty"`

	Duration time.Duration `cbor:"5,keyasint,omitempty"`
}

// Ratio returns the JSON size as a percentage of the compact size. It is
// zero when the compact size is zero.
func (m *MessageEvent) Ratio() float64 {
	if m.CompactSize == 0 {
		return 0
	}
	return float64(m.JSONSize) * 100 / float64(m.CompactSize)
}

// ErrorEventData records a failure.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Kind is the codec error kind, such as PATH_NOT_FOUND.
	Kind string `cbor:"3,keyasint,omitempty"`

	// Offset is the input byte offset of the failure, or -1 if unknown.
	Offset int `cbor:"4,keyasint"`
}
