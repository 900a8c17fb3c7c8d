// Package transport carries compact messages over byte streams.
//
// A compact message is self-delimiting only when the whole buffer is
// known, so streams and capture files wrap each message in a frame:
//
//	┌──────────────────────┬──────────────────────────┐
//	│ length (4B, BE u32)  │ compact message (length) │
//	└──────────────────────┴──────────────────────────┘
//
// FrameWriter and FrameReader handle framing alone. MessageWriter and
// MessageReader combine framing with a compact.Codec, so callers send
// and receive JSON text while the stream carries compact bytes.
//
// Both layers report to an optional log.Logger: frames as
// LayerTransport events, messages as LayerCodec events through the
// codec's own logger.
package transport
