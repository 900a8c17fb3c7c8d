package compact

import (
	"fmt"
	"time"
)

// TimestampSize is the packed timestamp length in bytes.
const TimestampSize = 4

// TimestampLayout is the only timestamp text form the packed encoding
// represents.
const TimestampLayout = "2006-01-02T15:04:05Z"

// DecadeBase returns the first year of the decade containing now.
func DecadeBase(now time.Time) int {
	return now.UTC().Year() / 10 * 10
}

// DecodeTimestamp unpacks the first TimestampSize bytes of b. The year is
// resolved within the decade of now. Field values are rendered as stored,
// without calendar validation.
func DecodeTimestamp(b []byte, now time.Time) (string, error) {
	if len(b) < TimestampSize {
		return "", fmt.Errorf("%w: timestamp needs %d bytes, %d remain", ErrTruncatedMessage, TimestampSize, len(b))
	}
	b1, b2, b3, b4 := int(b[0]), int(b[1]), int(b[2]), int(b[3])

	year := DecadeBase(now) + ((b1 >> 2) & 0x0F)
	month := (b1&0x03)<<2 | b2>>6
	day := (b2 >> 1) & 0x1F
	hour := (b2&0x01)<<4 | b3>>4
	minute := (b3&0x0F)<<2 | b4>>6
	second := b4 & 0x3F

	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ", year, month, day, hour, minute, second), nil
}

// EncodeTimestamp packs t (in UTC) into TimestampSize bytes. Only the last
// digit of the year is kept.
func EncodeTimestamp(t time.Time) [TimestampSize]byte {
	t = t.UTC()
	year := byte(t.Year() % 10)
	month := byte(t.Month())
	day := byte(t.Day())
	hour := byte(t.Hour())
	minute := byte(t.Minute())
	second := byte(t.Second())

	return [TimestampSize]byte{
		year<<2 | month>>2,
		(month&0x03)<<6 | day<<1 | hour>>4,
		(hour&0x0F)<<4 | minute>>2,
		(minute&0x03)<<6 | second,
	}
}

// packableTimestamp parses s and reports whether packing it loses nothing
// when decoded with a clock in the same decade as now.
func packableTimestamp(s string, now time.Time) (time.Time, bool) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	// time.Parse accepts fractional seconds the layout does not mention.
	if t.Format(TimestampLayout) != s {
		return time.Time{}, false
	}
	if DecadeBase(t) != DecadeBase(now) {
		return time.Time{}, false
	}
	return t, true
}
