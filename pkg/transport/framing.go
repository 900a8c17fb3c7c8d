package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/viss-compact/viss-go/pkg/log"
)

const (
	// LengthPrefixSize is the size of the frame length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize bounds a single compact message (64 KB).
	DefaultMaxMessageSize = 65536
)

// Framing errors.
var (
	// ErrMessageTooLarge indicates a frame longer than the configured maximum.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageEmpty indicates a zero-length frame.
	ErrMessageEmpty = errors.New("message is empty")

	// ErrFrameTruncated indicates the stream ended inside a frame.
	ErrFrameTruncated = errors.New("frame truncated")
)

// Transport error kinds reported in log.ErrorEventData.Kind.
const (
	KindMessageTooLarge = "MESSAGE_TOO_LARGE"
	KindMessageEmpty    = "MESSAGE_EMPTY"
	KindFrameTruncated  = "FRAME_TRUNCATED"
	KindIO              = "IO"
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrMessageTooLarge):
		return KindMessageTooLarge
	case errors.Is(err, ErrMessageEmpty):
		return KindMessageEmpty
	case errors.Is(err, ErrFrameTruncated):
		return KindFrameTruncated
	default:
		return KindIO
	}
}

// frameLog reports frame events for one side of a stream.
type frameLog struct {
	logger    log.Logger
	sessionID string
}

func (fl *frameLog) frame(dir log.Direction, payload []byte) {
	if fl.logger == nil {
		return
	}
	fl.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: fl.sessionID,
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Frame:     log.NewFrameEvent(payload),
	})
}

func (fl *frameLog) failure(dir log.Direction, offset int64, err error) {
	if fl.logger == nil {
		return
	}
	fl.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: fl.sessionID,
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Kind:    errorKind(err),
			Offset:  int(offset),
		},
	})
}

// FrameWriter writes length-prefixed frames. It is safe for concurrent use.
type FrameWriter struct {
	mu      sync.Mutex
	w       io.Writer
	maxSize uint32
	log     frameLog
}

// NewFrameWriter returns a writer with DefaultMaxMessageSize.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return NewFrameWriterWithMaxSize(w, DefaultMaxMessageSize)
}

// NewFrameWriterWithMaxSize returns a writer refusing payloads over maxSize.
func NewFrameWriterWithMaxSize(w io.Writer, maxSize uint32) *FrameWriter {
	return &FrameWriter{w: w, maxSize: maxSize}
}

// SetLogger reports written frames to logger. Pass nil to disable.
func (fw *FrameWriter) SetLogger(logger log.Logger, sessionID string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.log = frameLog{logger: logger, sessionID: sessionID}
}

// WriteFrame writes payload with its length prefix in a single write.
func (fw *FrameWriter) WriteFrame(payload []byte) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if err := checkSize(len(payload), fw.maxSize); err != nil {
		fw.log.failure(log.DirectionOut, -1, err)
		return err
	}

	frame := make([]byte, LengthPrefixSize, FrameSize(len(payload)))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)

	if _, err := fw.w.Write(frame); err != nil {
		err = fmt.Errorf("write frame: %w", err)
		fw.log.failure(log.DirectionOut, -1, err)
		return err
	}
	fw.log.frame(log.DirectionOut, payload)
	return nil
}

func checkSize(n int, maxSize uint32) error {
	if n == 0 {
		return ErrMessageEmpty
	}
	if uint64(n) > uint64(maxSize) {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, n, maxSize)
	}
	return nil
}

// FrameReader reads length-prefixed frames. It is not safe for
// concurrent use.
type FrameReader struct {
	r       io.Reader
	maxSize uint32
	prefix  [LengthPrefixSize]byte
	offset  int64
	log     frameLog
}

// NewFrameReader returns a reader with DefaultMaxMessageSize.
func NewFrameReader(r io.Reader) *FrameReader {
	return NewFrameReaderWithMaxSize(r, DefaultMaxMessageSize)
}

// NewFrameReaderWithMaxSize returns a reader refusing frames over maxSize.
func NewFrameReaderWithMaxSize(r io.Reader, maxSize uint32) *FrameReader {
	return &FrameReader{r: r, maxSize: maxSize}
}

// SetLogger reports read frames to logger. Pass nil to disable.
func (fr *FrameReader) SetLogger(logger log.Logger, sessionID string) {
	fr.log = frameLog{logger: logger, sessionID: sessionID}
}

// SetMaxMessageSize changes the frame size limit.
func (fr *FrameReader) SetMaxMessageSize(size uint32) {
	fr.maxSize = size
}

// Offset returns the stream offset of the next frame.
func (fr *FrameReader) Offset() int64 {
	return fr.offset
}

// ReadFrame returns the next frame payload. It returns io.EOF only when
// the stream ends cleanly between frames.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	start := fr.offset

	if _, err := io.ReadFull(fr.r, fr.prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fr.fail(start, err)
	}
	fr.offset += LengthPrefixSize

	length := binary.BigEndian.Uint32(fr.prefix[:])
	if err := checkSize(int(length), fr.maxSize); err != nil {
		return nil, fr.fail(start, err)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fr.fail(start, err)
	}

	fr.offset += int64(length)
	fr.log.frame(log.DirectionIn, payload)
	return payload, nil
}

func (fr *FrameReader) fail(offset int64, err error) error {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = ErrFrameTruncated
	case errors.Is(err, ErrMessageEmpty), errors.Is(err, ErrMessageTooLarge):
	default:
		err = fmt.Errorf("read frame: %w", err)
	}
	fr.log.failure(log.DirectionIn, offset, err)
	return err
}

// Framer reads and writes frames on one stream.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer returns a framer with DefaultMaxMessageSize.
func NewFramer(rw io.ReadWriter) *Framer {
	return NewFramerWithMaxSize(rw, DefaultMaxMessageSize)
}

// NewFramerWithMaxSize returns a framer with the given size limit in both
// directions.
func NewFramerWithMaxSize(rw io.ReadWriter, maxSize uint32) *Framer {
	return &Framer{
		FrameReader: NewFrameReaderWithMaxSize(rw, maxSize),
		FrameWriter: NewFrameWriterWithMaxSize(rw, maxSize),
	}
}

// SetLogger configures logging in both directions.
func (f *Framer) SetLogger(logger log.Logger, sessionID string) {
	f.FrameReader.SetLogger(logger, sessionID)
	f.FrameWriter.SetLogger(logger, sessionID)
}

// FrameSize returns the encoded size of a frame carrying payloadSize bytes.
func FrameSize(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}
