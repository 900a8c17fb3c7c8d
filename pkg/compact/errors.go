package compact

import (
	"errors"
	"fmt"
)

// Codec errors. Decode and Encode failures wrap one of these in an *Error.
var (
	// ErrUnknownKeyword indicates a control code outside the dictionary.
	ErrUnknownKeyword = errors.New("unknown keyword")

	// ErrPathNotFound indicates a path index outside the leaf path table.
	ErrPathNotFound = errors.New("path not found")

	// ErrTruncatedMessage indicates a field needs more bytes than remain.
	ErrTruncatedMessage = errors.New("truncated message")

	// ErrMalformedValue indicates value bytes or text that cannot be
	// interpreted as the declared type.
	ErrMalformedValue = errors.New("malformed value")
)

// Operations reported in Error.Op.
const (
	OpDecode = "decode"
	OpEncode = "encode"
)

// Error describes a failed decode or encode.
type Error struct {
	// Op is OpDecode or OpEncode.
	Op string

	// Offset is the input byte offset of the token that failed.
	Offset int

	// Err is the underlying cause, one of the package sentinels.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("compact: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorKind returns a short name for the sentinel behind err, for logging.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownKeyword):
		return "UNKNOWN_KEYWORD"
	case errors.Is(err, ErrPathNotFound):
		return "PATH_NOT_FOUND"
	case errors.Is(err, ErrTruncatedMessage):
		return "TRUNCATED_MESSAGE"
	case errors.Is(err, ErrMalformedValue):
		return "MALFORMED_VALUE"
	default:
		return "OTHER"
	}
}

// errorOffset extracts the offset from an *Error, or -1.
func errorOffset(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Offset
	}
	return -1
}
