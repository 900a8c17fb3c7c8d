package compact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// Value is a typed value carried after a KindValue or KindUnknown keyword.
type Value struct {
	Format ValueFormat

	// Uint is the integer magnitude. Negative selects the n-prefixed
	// keyword and a leading minus sign in Text; the wire never carries a
	// two's-complement value.
	Uint     uint32
	Negative bool

	Bool  bool
	Float float32

	// Raw is JSON string content without the surrounding quotes.
	Raw string
}

// IntegerValue returns an integer value with the given magnitude.
func IntegerValue(magnitude uint32, negative bool) Value {
	return Value{Format: FormatInteger, Uint: magnitude, Negative: negative}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{Format: FormatBool, Bool: b}
}

// FloatValue returns a single-precision float value.
func FloatValue(f float32) Value {
	return Value{Format: FormatFloat, Float: f}
}

// RawValue returns a raw string value. s must be valid JSON string content.
func RawValue(s string) Value {
	return Value{Format: FormatRaw, Raw: s}
}

// Text returns the textual form used in decoded messages.
func (v Value) Text() string {
	switch v.Format {
	case FormatInteger:
		s := strconv.FormatUint(uint64(v.Uint), 10)
		if v.Negative {
			return "-" + s
		}
		return s
	case FormatBool:
		return strconv.FormatBool(v.Bool)
	case FormatFloat:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	case FormatRaw:
		return v.Raw
	default:
		return ""
	}
}

// ReadValue decodes the value bytes at the start of b for keyword kw and
// returns the value and the number of bytes consumed.
func ReadValue(kw Keyword, b []byte) (Value, int, error) {
	if kw.Format != FormatRaw && len(b) < kw.Width {
		return Value{}, 0, fmt.Errorf("%w: %s needs %d bytes, %d remain", ErrTruncatedMessage, kw.Name, kw.Width, len(b))
	}

	switch kw.Format {
	case FormatInteger:
		var u uint32
		for _, c := range b[:kw.Width] {
			u = u<<8 | uint32(c)
		}
		return IntegerValue(u, kw.Negative), kw.Width, nil

	case FormatBool:
		return BoolValue(b[0] != 0), 1, nil

	case FormatFloat:
		f := math.Float32frombits(binary.LittleEndian.Uint32(b))
		if !finite(f) {
			return Value{}, 0, fmt.Errorf("%w: %s is not a finite number", ErrMalformedValue, kw.Name)
		}
		return FloatValue(f), 4, nil

	case FormatRaw:
		end := bytes.IndexByte(b, 0)
		if end < 0 {
			return Value{}, 0, fmt.Errorf("%w: raw string has no terminator", ErrTruncatedMessage)
		}
		if err := checkRaw(b[:end]); err != nil {
			return Value{}, 0, err
		}
		return RawValue(string(b[:end])), end + 1, nil

	default:
		return Value{}, 0, fmt.Errorf("%w: keyword %q carries no value", ErrMalformedValue, kw.Name)
	}
}

// AppendValue appends the value bytes of v for keyword kw to dst. The
// control byte is not written.
func AppendValue(dst []byte, kw Keyword, v Value) ([]byte, error) {
	if v.Format != kw.Format {
		return dst, fmt.Errorf("%w: %s value for keyword %q", ErrMalformedValue, v.Format, kw.Name)
	}

	switch kw.Format {
	case FormatInteger:
		if v.Negative != kw.Negative {
			return dst, fmt.Errorf("%w: sign does not match keyword %q", ErrMalformedValue, kw.Name)
		}
		if kw.Width < 4 && v.Uint >= 1<<(8*kw.Width) {
			return dst, fmt.Errorf("%w: %d does not fit %s", ErrMalformedValue, v.Uint, kw.Name)
		}
		for shift := 8 * (kw.Width - 1); shift >= 0; shift -= 8 {
			dst = append(dst, byte(v.Uint>>shift))
		}
		return dst, nil

	case FormatBool:
		if v.Bool {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil

	case FormatFloat:
		if !finite(v.Float) {
			return dst, fmt.Errorf("%w: %s is not a finite number", ErrMalformedValue, kw.Name)
		}
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Float)), nil

	case FormatRaw:
		if err := checkRaw([]byte(v.Raw)); err != nil {
			return dst, err
		}
		dst = append(dst, v.Raw...)
		return append(dst, 0), nil

	default:
		return dst, fmt.Errorf("%w: keyword %q carries no value", ErrMalformedValue, kw.Name)
	}
}

// classify picks the most compact typed representation of a string value
// whose text survives the round trip unchanged.
func (d *Dictionary) classify(text string) (Keyword, Value, bool) {
	if text == "true" || text == "false" {
		if kw, ok := d.boolKeyword(); ok {
			return kw, BoolValue(text == "true"), true
		}
	}

	magnitude, negative := text, false
	if len(text) > 0 && text[0] == '-' {
		magnitude, negative = text[1:], true
	}
	if u, err := strconv.ParseUint(magnitude, 10, 32); err == nil && strconv.FormatUint(u, 10) == magnitude {
		if kw, ok := d.integerKeyword(integerWidth(uint32(u)), negative); ok {
			return kw, IntegerValue(uint32(u), negative), true
		}
	}

	if f, err := strconv.ParseFloat(text, 32); err == nil {
		v := FloatValue(float32(f))
		if finite(v.Float) && v.Text() == text {
			if kw, ok := d.floatKeyword(); ok {
				return kw, v, true
			}
		}
	}
	return Keyword{}, Value{}, false
}

func integerWidth(u uint32) int {
	switch {
	case u < 1<<8:
		return 1
	case u < 1<<16:
		return 2
	case u < 1<<24:
		return 3
	default:
		return 4
	}
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// checkRaw verifies b can be placed between quotes as JSON string content.
func checkRaw(b []byte) error {
	if !utf8.Valid(b) {
		return fmt.Errorf("%w: raw string is not valid UTF-8", ErrMalformedValue)
	}
	for i := 0; i < len(b); i++ {
		switch c := b[i]; {
		case c == '\\':
			i++
			if i == len(b) {
				return fmt.Errorf("%w: raw string ends in an escape", ErrMalformedValue)
			}
			switch b[i] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				if i+4 >= len(b) || !isHex4(b[i+1:i+5]) {
					return fmt.Errorf("%w: raw string has a bad \\u escape", ErrMalformedValue)
				}
				i += 4
			default:
				return fmt.Errorf("%w: raw string has invalid escape \\%c", ErrMalformedValue, b[i])
			}
		case c == '"':
			return fmt.Errorf("%w: raw string contains an unescaped quote", ErrMalformedValue)
		case c < 0x20:
			return fmt.Errorf("%w: raw string contains control byte 0x%02x", ErrMalformedValue, c)
		}
	}
	return nil
}

func isHex4(b []byte) bool {
	for _, c := range b {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
