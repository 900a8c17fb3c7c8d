package compact

import (
	"errors"
	"fmt"
	"strings"
)

// pathIndexSize is the number of index bytes after a path control byte.
const pathIndexSize = 2

// MaxPaths is the largest table a 16-bit index can address.
const MaxPaths = 1 << 16

// Path table construction errors.
var (
	ErrTooManyPaths  = errors.New("too many leaf paths")
	ErrEmptyPath     = errors.New("empty leaf path")
	ErrDuplicatePath = errors.New("duplicate leaf path")
)

// PathTable is an immutable ordered table of fully-qualified leaf paths.
// A path's position in the table is its wire index.
type PathTable struct {
	paths []string
	index map[string]uint16
}

// NewPathTable builds a table where paths[i] has index i.
func NewPathTable(paths []string) (*PathTable, error) {
	if len(paths) > MaxPaths {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPaths, len(paths), MaxPaths)
	}

	t := &PathTable{
		paths: make([]string, len(paths)),
		index: make(map[string]uint16, len(paths)),
	}
	for i, p := range paths {
		if p == "" {
			return nil, fmt.Errorf("%w at index %d", ErrEmptyPath, i)
		}
		if prev, dup := t.index[p]; dup {
			return nil, fmt.Errorf("%w: %q at indexes %d and %d", ErrDuplicatePath, p, prev, i)
		}
		t.paths[i] = p
		t.index[p] = uint16(i)
	}
	return t, nil
}

// Len returns the number of paths. A nil table is empty.
func (t *PathTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.paths)
}

// Lookup returns the path at index.
func (t *PathTable) Lookup(index uint16) (string, error) {
	if int(index) >= t.Len() {
		return "", fmt.Errorf("%w: index %d, table has %d", ErrPathNotFound, index, t.Len())
	}
	return t.paths[index], nil
}

// Index returns the wire index of path. Slash separators are accepted and
// treated as dots.
func (t *PathTable) Index(path string) (uint16, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[NormalizePath(path)]
	return i, ok
}

// Paths returns the table contents in index order.
func (t *PathTable) Paths() []string {
	out := make([]string, t.Len())
	if t != nil {
		copy(out, t.paths)
	}
	return out
}

// NormalizePath converts a slash-separated path to dot notation.
func NormalizePath(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", ".")
}

// readPathIndex reads the big-endian index following a path control byte.
func readPathIndex(b []byte) (uint16, error) {
	if len(b) < pathIndexSize {
		return 0, fmt.Errorf("%w: path index needs %d bytes, %d remain", ErrTruncatedMessage, pathIndexSize, len(b))
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func appendPathIndex(dst []byte, index uint16) []byte {
	return append(dst, byte(index>>8), byte(index))
}
