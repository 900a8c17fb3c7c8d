package compact

import (
	"errors"
	"fmt"
)

// ControlBase is the lowest control byte value. Control byte b selects
// keyword code b-ControlBase.
const ControlBase = 128

// MaxKeywords is the largest dictionary a single control byte can address.
const MaxKeywords = 256 - ControlBase

// Dictionary construction errors.
var (
	ErrTooManyKeywords  = errors.New("too many keywords")
	ErrEmptyKeyword     = errors.New("empty keyword")
	ErrDuplicateKeyword = errors.New("duplicate keyword")
)

// Kind tells how a keyword is rendered and what follows its control byte.
type Kind uint8

const (
	// KindField is a field name; renders "<keyword>": and the value follows
	// as separate tokens.
	KindField Kind = iota

	// KindPath is the path field; a 2-byte leaf path index follows.
	KindPath

	// KindTimestamp is the timestamp field; 4 packed bytes follow.
	KindTimestamp

	// KindRequestType is an action value such as get or subscribe.
	KindRequestType

	// KindValue is a typed value tag; 1 to 4 value bytes follow.
	KindValue

	// KindUnknown tags a raw, zero-terminated string value.
	KindUnknown
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindField:
		return "FIELD"
	case KindPath:
		return "PATH"
	case KindTimestamp:
		return "TIMESTAMP"
	case KindRequestType:
		return "REQUEST_TYPE"
	case KindValue:
		return "VALUE"
	case KindUnknown:
		return "UNKNOWN"
	default:
		return "INVALID"
	}
}

// ValueFormat is the binary representation of a KindValue keyword.
type ValueFormat uint8

const (
	FormatNone ValueFormat = iota
	FormatInteger
	FormatBool
	FormatFloat
	FormatRaw
)

// String returns the format name.
func (f ValueFormat) String() string {
	switch f {
	case FormatInteger:
		return "INTEGER"
	case FormatBool:
		return "BOOL"
	case FormatFloat:
		return "FLOAT"
	case FormatRaw:
		return "RAW"
	default:
		return "NONE"
	}
}

// Keyword is a resolved dictionary entry.
type Keyword struct {
	// Code is the dictionary index; the control byte is Code+ControlBase.
	Code byte

	// Name is the keyword text.
	Name string

	Kind Kind

	// Format, Width and Negative describe KindValue and KindUnknown keywords.
	// Width is the fixed number of value bytes, zero for raw strings.
	Format   ValueFormat
	Width    int
	Negative bool
}

// ControlByte returns the byte that encodes this keyword.
func (k Keyword) ControlByte() byte {
	return k.Code + ControlBase
}

// referenceKeywords is the reference VISS catalog.
var referenceKeywords = []string{
	"action", "requestId", "value", "timestamp", "path", "subscriptionId",
	"filter", "authorization",
	"get", "set", "subscribe", "unsubscribe", "subscription",
	"nuint8", "uint8", "nuint16", "uint16", "nuint24", "uint24",
	"nuint32", "uint32", "bool", "float",
	"unknown",
}

// keywordTraits maps keyword names with special behavior to their traits.
// Names not listed resolve to KindField.
var keywordTraits = map[string]Keyword{
	"path":         {Kind: KindPath, Width: pathIndexSize},
	"timestamp":    {Kind: KindTimestamp, Width: TimestampSize},
	"ts":           {Kind: KindTimestamp, Width: TimestampSize},
	"get":          {Kind: KindRequestType},
	"set":          {Kind: KindRequestType},
	"subscribe":    {Kind: KindRequestType},
	"unsubscribe":  {Kind: KindRequestType},
	"subscription": {Kind: KindRequestType},
	"nuint8":       {Kind: KindValue, Format: FormatInteger, Width: 1, Negative: true},
	"uint8":        {Kind: KindValue, Format: FormatInteger, Width: 1},
	"nuint16":      {Kind: KindValue, Format: FormatInteger, Width: 2, Negative: true},
	"uint16":       {Kind: KindValue, Format: FormatInteger, Width: 2},
	"nuint24":      {Kind: KindValue, Format: FormatInteger, Width: 3, Negative: true},
	"uint24":       {Kind: KindValue, Format: FormatInteger, Width: 3},
	"nuint32":      {Kind: KindValue, Format: FormatInteger, Width: 4, Negative: true},
	"uint32":       {Kind: KindValue, Format: FormatInteger, Width: 4},
	"bool":         {Kind: KindValue, Format: FormatBool, Width: 1},
	"float":        {Kind: KindValue, Format: FormatFloat, Width: 4},
	"unknown":      {Kind: KindUnknown, Format: FormatRaw},
}

// ReferenceKeywords returns a copy of the reference 24-keyword catalog.
func ReferenceKeywords() []string {
	out := make([]string, len(referenceKeywords))
	copy(out, referenceKeywords)
	return out
}

var defaultDictionary = mustDictionary(referenceKeywords)

// DefaultDictionary returns the shared dictionary built from
// ReferenceKeywords.
func DefaultDictionary() *Dictionary {
	return defaultDictionary
}

func mustDictionary(names []string) *Dictionary {
	d, err := NewDictionary(names)
	if err != nil {
		panic(fmt.Sprintf("failed to build keyword dictionary: %v", err))
	}
	return d
}

// noCode marks an absent keyword in the encoder lookup tables.
const noCode = -1

// Dictionary is an immutable ordered keyword catalog.
type Dictionary struct {
	keywords []Keyword
	byName   map[string]byte

	// Encoder lookup tables, resolved once at construction.
	integers [2][5]int // [negative][width]
	boolean  int
	float    int
	unknown  int
}

// NewDictionary builds a dictionary where names[i] has code i.
func NewDictionary(names []string) (*Dictionary, error) {
	if len(names) > MaxKeywords {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyKeywords, len(names), MaxKeywords)
	}

	d := &Dictionary{
		keywords: make([]Keyword, len(names)),
		byName:   make(map[string]byte, len(names)),
		boolean:  noCode,
		float:    noCode,
		unknown:  noCode,
	}
	for sign := range d.integers {
		for width := range d.integers[sign] {
			d.integers[sign][width] = noCode
		}
	}

	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w at code %d", ErrEmptyKeyword, i)
		}
		if prev, dup := d.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q at codes %d and %d", ErrDuplicateKeyword, name, prev, i)
		}

		kw := keywordTraits[name]
		kw.Code = byte(i)
		kw.Name = name
		d.keywords[i] = kw
		d.byName[name] = byte(i)

		switch kw.Format {
		case FormatInteger:
			sign := 0
			if kw.Negative {
				sign = 1
			}
			d.integers[sign][kw.Width] = i
		case FormatBool:
			d.boolean = i
		case FormatFloat:
			d.float = i
		case FormatRaw:
			d.unknown = i
		}
	}
	return d, nil
}

// Len returns the number of keywords.
func (d *Dictionary) Len() int {
	return len(d.keywords)
}

// Lookup returns the keyword for code.
func (d *Dictionary) Lookup(code byte) (Keyword, error) {
	if int(code) >= len(d.keywords) {
		return Keyword{}, fmt.Errorf("%w: code %d, dictionary has %d", ErrUnknownKeyword, code, len(d.keywords))
	}
	return d.keywords[code], nil
}

// Keyword returns the keyword named name.
func (d *Dictionary) Keyword(name string) (Keyword, bool) {
	code, ok := d.byName[name]
	if !ok {
		return Keyword{}, false
	}
	return d.keywords[code], true
}

// Code returns the code of the keyword named name.
func (d *Dictionary) Code(name string) (byte, bool) {
	kw, ok := d.Keyword(name)
	return kw.Code, ok
}

// Names returns the keyword names in code order.
func (d *Dictionary) Names() []string {
	out := make([]string, len(d.keywords))
	for i, kw := range d.keywords {
		out[i] = kw.Name
	}
	return out
}

// integerKeyword returns the smallest integer keyword of at least width
// bytes with the given sign.
func (d *Dictionary) integerKeyword(width int, negative bool) (Keyword, bool) {
	sign := 0
	if negative {
		sign = 1
	}
	for w := width; w <= 4; w++ {
		if code := d.integers[sign][w]; code != noCode {
			return d.keywords[code], true
		}
	}
	return Keyword{}, false
}

func (d *Dictionary) boolKeyword() (Keyword, bool) { return d.byCode(d.boolean) }
func (d *Dictionary) floatKeyword() (Keyword, bool) { return d.byCode(d.float) }
func (d *Dictionary) unknownKeyword() (Keyword, bool) { return d.byCode(d.unknown) }

func (d *Dictionary) byCode(code int) (Keyword, bool) {
	if code == noCode {
		return Keyword{}, false
	}
	return d.keywords[code], true
}
