// Package log captures codec events for VISS compact messaging.
//
// Every Decode and Encode performed by a compact.Codec, and every frame
// read or written by the transport framer, can be reported to a Logger as
// an Event. Event capture is separate from operational logging (slog): it
// produces a machine-readable trace that the viss-compact view, filter and
// stats commands can replay later.
//
// # Basic Usage
//
//	// Console output via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Binary capture file
//	fileLogger, _ := log.NewFileLogger("session.clog")
//
//	// Both
//	both := log.NewMultiLogger(logger, fileLogger)
//
//	codec := compact.New(dict, paths, compact.WithLogger(both, sessionID))
//
// # Event Types
//
// Events are captured at two layers:
//   - Transport: length-prefixed frames (FrameEvent)
//   - Codec: decoded or encoded messages (MessageEvent)
//
// Failures at either layer are reported as ErrorEventData. Direction IN
// means compact bytes towards JSON (decode, frame read); OUT means JSON
// towards compact bytes (encode, frame write).
//
// # File Format
//
// Capture files are a sequence of CBOR-encoded events with integer map
// keys, conventionally named with a .clog extension.
package log
