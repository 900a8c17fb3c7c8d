// Package compact implements the compact binary encoding of VISS messages.
//
// A compact message is a JSON object in which field names, action values,
// leaf paths, timestamps and typed values are replaced by single control
// bytes (values 128..255) followed by packed binary data. Bytes below 128
// are literal ASCII and are copied through unchanged, so JSON punctuation
// and uncoded text can be interleaved freely with coded tokens.
//
// # Control Bytes
//
// A control byte b selects keyword b-128 in a Dictionary. What follows a
// control byte depends on the keyword's Kind:
//
//	KindField        nothing; renders "<keyword>":
//	KindPath         [index(2), big-endian]; renders "path":"<leaf path>"
//	KindTimestamp    [packed(4)]; renders "timestamp":"YYYY-MM-DDThh:mm:ssZ"
//	KindRequestType  nothing; renders "<keyword>" as a value
//	KindValue        [value(1..4)]; renders the value as quoted text
//	KindUnknown      [raw bytes][0x00]; renders the raw bytes as quoted text
//
// # Typed Values
//
// Integers are stored as a big-endian magnitude of 1, 2, 3 or 4 bytes. The
// n-prefixed keywords (nuint8, nuint16, ...) carry the same magnitude but
// render with a leading minus sign. Booleans are one byte, zero for false.
// Floats are IEEE-754 single precision in little-endian byte order.
//
// # Timestamps
//
// Timestamps are packed into 32 bits:
//
//	byte 0: --YYYYMM   year within decade (4 bits), month high bits (2)
//	byte 1: MMDDDDDh   month low bits (2), day (5), hour high bit (1)
//	byte 2: hhhhmmmm   hour low bits (4), minute high bits (4)
//	byte 3: mmssssss   minute low bits (2), second (6)
//
// Only the last digit of the year is stored. The decoder resolves it
// against the decade of its clock, so a timestamp encoded in 2029 and
// decoded in 2030 reads as 2039. This is a property of the format.
//
// # Separators
//
// Encoded messages carry no outer braces and almost no commas. The decoder
// inserts a comma wherever a token that starts a value follows a token that
// ends one, and wraps the result in braces unless the buffer begins with a
// literal '{'.
//
// # Thread Safety
//
// Dictionary, PathTable and Codec are immutable after construction and safe
// for concurrent use.
package compact
