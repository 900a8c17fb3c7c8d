package compact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// encoder holds the state of one encode pass over a JSON object.
type encoder struct {
	dict  *Dictionary
	paths *PathTable
	now   time.Time

	dec *json.Decoder
	out []byte

	action string
	path   string
}

func (e *encoder) encode(msg []byte) ([]byte, error) {
	e.dec = json.NewDecoder(bytes.NewReader(msg))
	e.dec.UseNumber()
	e.out = make([]byte, 0, len(msg))

	tok, err := e.dec.Token()
	if err != nil {
		return nil, e.fail(fmt.Errorf("%w: %v", ErrMalformedValue, err))
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, e.fail(fmt.Errorf("%w: message is not a JSON object", ErrMalformedValue))
	}

	// The outer braces are implied; only the members are written.
	if err := e.members(); err != nil {
		return nil, e.fail(err)
	}
	if _, err := e.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, e.fail(fmt.Errorf("%w: trailing data after message", ErrMalformedValue))
	}
	return e.out, nil
}

func (e *encoder) fail(err error) error {
	return &Error{Op: OpEncode, Offset: int(e.dec.InputOffset()), Err: err}
}

// token reads the next JSON token, reporting syntax errors as
// ErrMalformedValue.
func (e *encoder) token() (json.Token, error) {
	tok, err := e.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}
	return tok, nil
}

// members encodes object members up to and including the closing brace,
// which is consumed but not written. Commas between members are always
// restored by the decoder, so none are written.
func (e *encoder) members() error {
	for e.dec.More() {
		tok, err := e.token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: object key is not a string", ErrMalformedValue)
		}
		if err := e.member(key); err != nil {
			return err
		}
	}
	_, err := e.token()
	return err
}

func (e *encoder) member(key string) error {
	tok, err := e.token()
	if err != nil {
		return err
	}

	kw, ok := e.dict.Keyword(key)
	if !ok {
		if err := e.text(key); err != nil {
			return err
		}
		e.out = append(e.out, ':')
		return e.value(tok)
	}

	s, isString := tok.(string)
	switch kw.Kind {
	case KindPath:
		if index, found := e.paths.Index(s); isString && found {
			e.out = append(e.out, kw.ControlByte())
			e.out = appendPathIndex(e.out, index)
			if e.path == "" {
				e.path = NormalizePath(s)
			}
			return nil
		}
	case KindTimestamp:
		if t, packable := packableTimestamp(s, e.now); isString && packable {
			packed := EncodeTimestamp(t)
			e.out = append(e.out, kw.ControlByte())
			e.out = append(e.out, packed[:]...)
			return nil
		}
	case KindField:
		e.out = append(e.out, kw.ControlByte())
		return e.value(tok)
	}

	// Keywords that cannot name a field, and path or timestamp members
	// that cannot be packed, are written as literal text.
	if err := e.text(key); err != nil {
		return err
	}
	e.out = append(e.out, ':')
	return e.value(tok)
}

func (e *encoder) value(tok json.Token) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			e.out = append(e.out, '{')
			if err := e.members(); err != nil {
				return err
			}
			e.out = append(e.out, '}')
			return nil
		case '[':
			return e.array()
		default:
			return fmt.Errorf("%w: unexpected %q", ErrMalformedValue, v)
		}
	case string:
		return e.stringValue(v)
	case json.Number:
		e.out = append(e.out, v...)
	case bool:
		if v {
			e.out = append(e.out, "true"...)
		} else {
			e.out = append(e.out, "false"...)
		}
	case nil:
		e.out = append(e.out, "null"...)
	default:
		return fmt.Errorf("%w: unexpected token %T", ErrMalformedValue, tok)
	}
	return nil
}

// array encodes an array after its opening bracket. The decoder restores
// commas before quoted, object and array elements; before bare literals
// the comma is kept so adjacent numbers stay apart.
func (e *encoder) array() error {
	e.out = append(e.out, '[')
	for first := true; e.dec.More(); first = false {
		tok, err := e.token()
		if err != nil {
			return err
		}
		if !first && bareLiteral(tok) {
			e.out = append(e.out, ',')
		}
		if err := e.value(tok); err != nil {
			return err
		}
	}
	if _, err := e.token(); err != nil {
		return err
	}
	e.out = append(e.out, ']')
	return nil
}

func bareLiteral(tok json.Token) bool {
	switch tok.(type) {
	case json.Number, bool, nil:
		return true
	default:
		return false
	}
}

func (e *encoder) stringValue(s string) error {
	if kw, ok := e.dict.Keyword(s); ok && kw.Kind == KindRequestType {
		e.out = append(e.out, kw.ControlByte())
		if e.action == "" {
			e.action = s
		}
		return nil
	}

	if kw, v, ok := e.dict.classify(s); ok {
		e.out = append(e.out, kw.ControlByte())
		var err error
		e.out, err = AppendValue(e.out, kw, v)
		return err
	}

	if kw, ok := e.dict.unknownKeyword(); ok {
		e.out = append(e.out, kw.ControlByte())
		var err error
		e.out, err = AppendValue(e.out, kw, RawValue(escapeString(s)))
		return err
	}
	return e.literalString(s)
}

// text writes a string that the decoder must reproduce exactly, such as an
// uncoded key. ASCII text is copied as a literal; anything else needs the
// raw string form.
func (e *encoder) text(s string) error {
	content := escapeString(s)
	if isASCII(content) {
		e.out = append(e.out, '"')
		e.out = append(e.out, content...)
		e.out = append(e.out, '"')
		return nil
	}
	kw, ok := e.dict.unknownKeyword()
	if !ok {
		return fmt.Errorf("%w: non-ASCII text %q needs an unknown keyword", ErrMalformedValue, s)
	}
	e.out = append(e.out, kw.ControlByte())
	var err error
	e.out, err = AppendValue(e.out, kw, RawValue(content))
	return err
}

func (e *encoder) literalString(s string) error {
	content := escapeString(s)
	if !isASCII(content) {
		return fmt.Errorf("%w: non-ASCII text %q needs an unknown keyword", ErrMalformedValue, s)
	}
	e.out = append(e.out, '"')
	e.out = append(e.out, content...)
	e.out = append(e.out, '"')
	return nil
}

// escapeString returns s as JSON string content without quotes, leaving
// HTML characters unescaped.
func escapeString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	b := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return string(b[1 : len(b)-1])
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= ControlBase {
			return false
		}
	}
	return true
}
