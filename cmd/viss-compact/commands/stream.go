package commands

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/viss-compact/viss-go/pkg/compact"
	"github.com/viss-compact/viss-go/pkg/log"
	"github.com/viss-compact/viss-go/pkg/transport"
)

// StreamFormat is how compact messages are laid out on stdin or stdout.
type StreamFormat int

const (
	// FormatHex is one hex-encoded message per line.
	FormatHex StreamFormat = iota
	// FormatRaw is a single unframed message.
	FormatRaw
	// FormatFramed is a sequence of length-prefixed frames.
	FormatFramed
)

// ParseStreamFormat parses hex, raw or framed.
func ParseStreamFormat(s string) (StreamFormat, error) {
	switch strings.ToLower(s) {
	case "hex":
		return FormatHex, nil
	case "raw":
		return FormatRaw, nil
	case "framed":
		return FormatFramed, nil
	default:
		return 0, fmt.Errorf("invalid format: %s (must be hex, raw, or framed)", s)
	}
}

// maxLineSize bounds a single JSON or hex input line.
const maxLineSize = 1 << 20

// Summary counts the messages a command processed.
type Summary struct {
	Messages     int
	Failed       int
	JSONBytes    int
	CompactBytes int
}

// Ratio returns the JSON size as a percentage of the compact size.
func (s Summary) Ratio() float64 {
	m := log.MessageEvent{CompactSize: s.CompactBytes, JSONSize: s.JSONBytes}
	return m.Ratio()
}

func (s Summary) String() string {
	return fmt.Sprintf("%d messages (%d failed), %d JSON bytes -> %d compact bytes, compression %.0f%%",
		s.Messages, s.Failed, s.JSONBytes, s.CompactBytes, s.Ratio())
}

// ErrMessagesFailed is returned when some messages could not be processed.
var ErrMessagesFailed = errors.New("messages failed")

func (s Summary) err() error {
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrMessagesFailed, s.Failed, s.Messages)
	}
	return nil
}

// RunEncode encodes JSON messages, one per line, from in and writes them
// to out in format. Failed lines are logged and skipped.
func RunEncode(s *Session, in io.Reader, out io.Writer, format StreamFormat) (Summary, error) {
	var sum Summary
	var written int
	frames := transport.NewFrameWriterWithMaxSize(out, s.MaxMessageSize)
	frames.SetLogger(s.Events, s.ID)
	messages := transport.NewMessageWriter(frames, s.Codec)

	failed := func(err error) {
		sum.Failed++
		s.Logger.Warn("encode failed", slog.Int("message", sum.Messages), slog.Any("error", err))
	}

	err := scanLines(in, func(line []byte) error {
		sum.Messages++
		if format == FormatFramed {
			n, err := messages.WriteMessage(line)
			if skippable(err) {
				failed(err)
				return nil
			}
			if err != nil {
				return err
			}
			sum.JSONBytes += len(line)
			sum.CompactBytes += n
			return nil
		}

		packed, err := s.Codec.Encode(line)
		if err == nil && len(packed) == 0 {
			err = transport.ErrMessageEmpty
		}
		if err != nil {
			failed(err)
			return nil
		}
		sum.JSONBytes += len(line)
		sum.CompactBytes += len(packed)

		if format == FormatRaw {
			if written > 0 {
				return errors.New("raw format holds a single message; use framed")
			}
			written++
			_, err = out.Write(packed)
			return err
		}
		_, err = fmt.Fprintln(out, hex.EncodeToString(packed))
		return err
	})
	if err != nil {
		return sum, err
	}
	return sum, sum.err()
}

// skippable reports whether err affects only the current message.
func skippable(err error) bool {
	var codecErr *compact.Error
	return errors.As(err, &codecErr) ||
		errors.Is(err, transport.ErrMessageEmpty) ||
		errors.Is(err, transport.ErrMessageTooLarge)
}

// RunDecode decodes compact messages from in, laid out in format, and
// writes one JSON message per line to out.
func RunDecode(s *Session, in io.Reader, out io.Writer, format StreamFormat) (Summary, error) {
	var sum Summary
	emit := func(packed []byte) error {
		sum.Messages++
		msg, err := s.Codec.Decode(packed)
		if err != nil {
			sum.Failed++
			s.Logger.Warn("decode failed",
				slog.Int("message", sum.Messages),
				slog.String("kind", compact.ErrorKind(err)),
				slog.Any("error", err),
			)
			return nil
		}
		sum.CompactBytes += len(packed)
		sum.JSONBytes += len(msg)
		_, err = fmt.Fprintf(out, "%s\n", msg)
		return err
	}

	var err error
	switch format {
	case FormatHex:
		err = scanLines(in, func(line []byte) error {
			packed, err := hex.DecodeString(string(line))
			if err != nil {
				return fmt.Errorf("line %d: %w", sum.Messages+1, err)
			}
			return emit(packed)
		})
	case FormatRaw:
		var packed []byte
		if packed, err = io.ReadAll(in); err == nil {
			err = emit(packed)
		}
	case FormatFramed:
		frames := transport.NewFrameReaderWithMaxSize(in, s.MaxMessageSize)
		frames.SetLogger(s.Events, s.ID)
		for {
			packed, ferr := frames.ReadFrame()
			if ferr == io.EOF {
				break
			}
			if ferr != nil {
				err = ferr
				break
			}
			if err = emit(packed); err != nil {
				break
			}
		}
	}
	if err != nil {
		return sum, err
	}
	return sum, sum.err()
}

// scanLines calls fn for each non-blank line of r.
func scanLines(r io.Reader, fn func(line []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}
