package transport

import (
	"io"

	"github.com/viss-compact/viss-go/pkg/compact"
)

// MessageWriter encodes JSON messages and writes each as one frame.
type MessageWriter struct {
	frames *FrameWriter
	codec  *compact.Codec
}

// NewMessageWriter returns a writer encoding with codec.
func NewMessageWriter(frames *FrameWriter, codec *compact.Codec) *MessageWriter {
	return &MessageWriter{frames: frames, codec: codec}
}

// WriteMessage encodes msg and writes the compact form. It returns the
// compact size.
func (mw *MessageWriter) WriteMessage(msg []byte) (int, error) {
	packed, err := mw.codec.Encode(msg)
	if err != nil {
		return 0, err
	}
	if err := mw.frames.WriteFrame(packed); err != nil {
		return 0, err
	}
	return len(packed), nil
}

// MessageReader reads frames and decodes each into JSON.
type MessageReader struct {
	frames *FrameReader
	codec  *compact.Codec
}

// NewMessageReader returns a reader decoding with codec.
func NewMessageReader(frames *FrameReader, codec *compact.Codec) *MessageReader {
	return &MessageReader{frames: frames, codec: codec}
}

// ReadMessage returns the next decoded message. It returns io.EOF at a
// clean end of stream. A frame that fails to decode is consumed, so the
// caller may continue with the next one.
func (mr *MessageReader) ReadMessage() ([]byte, error) {
	frame, err := mr.frames.ReadFrame()
	if err != nil {
		return nil, err
	}
	return mr.codec.Decode(frame)
}

// ReadAll decodes messages until the end of the stream. It stops at the
// first error.
func (mr *MessageReader) ReadAll() ([][]byte, error) {
	var msgs [][]byte
	for {
		msg, err := mr.ReadMessage()
		if err == io.EOF {
			return msgs, nil
		}
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
	}
}
