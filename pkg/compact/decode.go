package compact

import (
	"fmt"
	"time"
)

// decoder holds the state of one decode pass. The input is scanned once,
// left to right, and the result is built in out.
type decoder struct {
	dict  *Dictionary
	paths *PathTable
	now   time.Time

	in  []byte
	pos int
	out []byte

	// Literal string state, so separators are never inserted inside
	// passthrough text.
	inString bool
	escaped  bool

	// Open literal brackets and braces, innermost last. When the input
	// supplies its own outer braces, closed is set once they balance.
	open   []byte
	braced bool
	closed bool

	// First action value and path seen, for event logging.
	action string
	path   string
}

func (d *decoder) decode() ([]byte, error) {
	d.out = make([]byte, 0, 2*len(d.in)+2)
	wrap := len(d.in) == 0 || d.in[0] != '{'
	d.braced = !wrap
	if wrap {
		d.out = append(d.out, '{')
	}

	for d.pos < len(d.in) {
		start := d.pos
		if err := d.next(); err != nil {
			return nil, &Error{Op: OpDecode, Offset: start, Err: err}
		}
	}
	if d.inString {
		return nil, &Error{Op: OpDecode, Offset: len(d.in), Err: fmt.Errorf("%w: unterminated literal string", ErrTruncatedMessage)}
	}
	if len(d.open) > 0 {
		return nil, &Error{Op: OpDecode, Offset: len(d.in), Err: fmt.Errorf("%w: unclosed literal brackets %q", ErrTruncatedMessage, d.open)}
	}

	if wrap {
		d.out = append(d.out, '}')
	}
	return d.out, nil
}

// next consumes one literal byte or one coded token.
func (d *decoder) next() error {
	b := d.in[d.pos]
	if d.closed && !isSpace(b) {
		return fmt.Errorf("%w: trailing data after message", ErrMalformedValue)
	}
	if b < ControlBase {
		if err := d.literal(b); err != nil {
			return err
		}
		d.pos++
		return nil
	}
	if d.inString {
		return fmt.Errorf("%w: control byte 0x%02x inside literal string", ErrMalformedValue, b)
	}

	kw, err := d.dict.Lookup(b - ControlBase)
	if err != nil {
		return err
	}
	d.pos++
	rest := d.in[d.pos:]

	switch kw.Kind {
	case KindPath:
		index, err := readPathIndex(rest)
		if err != nil {
			return err
		}
		path, err := d.paths.Lookup(index)
		if err != nil {
			return err
		}
		d.pos += pathIndexSize
		d.member(kw.Name, path)
		if d.path == "" {
			d.path = path
		}

	case KindTimestamp:
		ts, err := DecodeTimestamp(rest, d.now)
		if err != nil {
			return err
		}
		d.pos += TimestampSize
		d.member(kw.Name, ts)

	case KindRequestType:
		d.quoted(kw.Name)
		if d.action == "" {
			d.action = kw.Name
		}

	case KindValue, KindUnknown:
		v, n, err := ReadValue(kw, rest)
		if err != nil {
			return err
		}
		d.pos += n
		d.quoted(v.Text())

	default:
		d.separate('"')
		d.out = append(d.out, '"')
		d.out = append(d.out, kw.Name...)
		d.out = append(d.out, '"', ':')
	}
	return nil
}

// literal copies a passthrough byte, tracking literal string boundaries
// and bracket nesting.
func (d *decoder) literal(c byte) error {
	if d.inString {
		d.out = append(d.out, c)
		switch {
		case d.escaped:
			d.escaped = false
		case c == '\\':
			d.escaped = true
		case c == '"':
			d.inString = false
		}
		return nil
	}

	switch c {
	case '{', '[':
		d.open = append(d.open, c)
	case '}', ']':
		want := byte('{')
		if c == ']' {
			want = '['
		}
		if n := len(d.open); n == 0 || d.open[n-1] != want {
			return fmt.Errorf("%w: unmatched %q", ErrMalformedValue, c)
		}
		d.open = d.open[:len(d.open)-1]
		d.closed = d.braced && len(d.open) == 0
	}

	d.separate(c)
	d.out = append(d.out, c)
	if c == '"' {
		d.inString = true
	}
	return nil
}

// member emits a compound "name":"value" token.
func (d *decoder) member(name, value string) {
	d.separate('"')
	d.out = append(d.out, '"')
	d.out = append(d.out, name...)
	d.out = append(d.out, '"', ':', '"')
	d.out = append(d.out, value...)
	d.out = append(d.out, '"')
}

// quoted emits a bare "value" token.
func (d *decoder) quoted(s string) {
	d.separate('"')
	d.out = append(d.out, '"')
	d.out = append(d.out, s...)
	d.out = append(d.out, '"')
}

// separate inserts a comma when a token starting with first follows a
// token that ended a value.
func (d *decoder) separate(first byte) {
	if d.inString || len(d.out) == 0 {
		return
	}
	if startsValue(first) && endsValue(d.out[len(d.out)-1]) {
		d.out = append(d.out, ',')
	}
}

func startsValue(c byte) bool {
	return c == '"' || c == '{' || c == '['
}

// endsValue reports whether c can be the last byte of a JSON value:
// a closing quote, bracket or brace, or the tail of a bare literal.
func endsValue(c byte) bool {
	switch {
	case c == '"', c == '}', c == ']':
		return true
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	default:
		return false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
