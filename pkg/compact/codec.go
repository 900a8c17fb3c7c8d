package compact

import (
	"time"

	"github.com/viss-compact/viss-go/pkg/log"
)

// Codec encodes and decodes compact messages against a fixed keyword
// dictionary and leaf path table. A Codec is immutable and safe for
// concurrent use.
type Codec struct {
	dict  *Dictionary
	paths *PathTable
	now   func() time.Time

	logger    log.Logger
	sessionID string
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock sets the clock used to resolve timestamp decades.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithLogger reports every decode and encode to logger, tagged with
// sessionID. The logger must be safe for concurrent use.
func WithLogger(logger log.Logger, sessionID string) Option {
	return func(c *Codec) {
		c.logger = logger
		c.sessionID = sessionID
	}
}

// New creates a codec. A nil dict selects DefaultDictionary; a nil paths
// is an empty table.
func New(dict *Dictionary, paths *PathTable, opts ...Option) *Codec {
	if dict == nil {
		dict = DefaultDictionary()
	}
	c := &Codec{
		dict:   dict,
		paths:  paths,
		now:    time.Now,
		logger: log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NoopLogger{}
	}
	return c
}

// Dictionary returns the codec's keyword dictionary.
func (c *Codec) Dictionary() *Dictionary {
	return c.dict
}

// Paths returns the codec's leaf path table.
func (c *Codec) Paths() *PathTable {
	return c.paths
}

// Decode expands a compact message into JSON object text. On failure no
// output is returned and the error is an *Error.
func (c *Codec) Decode(data []byte) ([]byte, error) {
	start := time.Now()
	now := c.now()
	d := decoder{dict: c.dict, paths: c.paths, now: now, in: data}
	out, err := d.decode()

	c.report(now, log.DirectionIn, err, &log.MessageEvent{
		CompactSize: len(data),
		JSONSize:    len(out),
		Action:      d.action,
		Path:        d.path,
		Duration:    time.Since(start),
	})
	return out, err
}

// Encode compresses one JSON object into a compact message. On failure no
// output is returned and the error is an *Error.
func (c *Codec) Encode(msg []byte) ([]byte, error) {
	start := time.Now()
	now := c.now()
	e := encoder{dict: c.dict, paths: c.paths, now: now}
	out, err := e.encode(msg)

	c.report(now, log.DirectionOut, err, &log.MessageEvent{
		CompactSize: len(out),
		JSONSize:    len(msg),
		Action:      e.action,
		Path:        e.path,
		Duration:    time.Since(start),
	})
	return out, err
}

func (c *Codec) report(ts time.Time, dir log.Direction, err error, msg *log.MessageEvent) {
	if _, noop := c.logger.(log.NoopLogger); noop {
		return
	}
	event := log.Event{
		Timestamp: ts,
		SessionID: c.sessionID,
		Direction: dir,
		Layer:     log.LayerCodec,
		Category:  log.CategoryMessage,
		Message:   msg,
	}
	if err != nil {
		event.Category = log.CategoryError
		event.Message = nil
		event.Error = &log.ErrorEventData{
			Layer:   log.LayerCodec,
			Message: err.Error(),
			Kind:    ErrorKind(err),
			Offset:  errorOffset(err),
		}
	}
	c.logger.Log(event)
}

// Decode expands a compact message using the given catalogs.
func Decode(data []byte, keywords *Dictionary, paths *PathTable) ([]byte, error) {
	return New(keywords, paths).Decode(data)
}

// Encode compresses a JSON object using the given catalogs.
func Encode(msg []byte, keywords *Dictionary, paths *PathTable) ([]byte, error) {
	return New(keywords, paths).Encode(msg)
}
