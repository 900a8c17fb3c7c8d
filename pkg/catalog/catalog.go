// Package catalog loads the keyword dictionaries and leaf path tables a
// compact codec is built from, together with the codec's YAML
// configuration.
//
// Keyword files are JSON or YAML and may hold a bare list of names or an
// object with a "keywords" or "codes" list:
//
//	{"keywords": ["action", "requestId", "value", ...]}
//
// Path files may additionally be plain text with one path per line. The
// object form uses a "LeafPaths" list.
package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viss-compact/viss-go/pkg/compact"
)

// Format is a catalog file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatText
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a format by file extension. Unrecognized
// extensions are treated as text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Object keys holding the name lists.
var (
	keywordListKeys = []string{"keywords", "codes"}
	pathListKeys    = []string{"LeafPaths", "leafPaths", "paths"}
)

// ParseKeywords parses a keyword list and builds a dictionary from it.
func ParseKeywords(data []byte, format Format) (*compact.Dictionary, error) {
	if format == FormatText {
		return nil, errors.New("keyword catalogs must be JSON or YAML")
	}
	names, err := parseList(data, format, keywordListKeys)
	if err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	dict, err := compact.NewDictionary(names)
	if err != nil {
		return nil, fmt.Errorf("build dictionary: %w", err)
	}
	return dict, nil
}

// LoadKeywords reads a keyword catalog file.
func LoadKeywords(path string) (*compact.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword file: %w", err)
	}
	return ParseKeywords(data, FormatFromPath(path))
}

// ParsePaths parses a leaf path list and builds a table from it.
func ParsePaths(data []byte, format Format) (*compact.PathTable, error) {
	var paths []string
	var err error
	if format == FormatText {
		paths = parseLines(data)
	} else {
		paths, err = parseList(data, format, pathListKeys)
		if err != nil {
			return nil, fmt.Errorf("parse paths: %w", err)
		}
	}
	table, err := compact.NewPathTable(paths)
	if err != nil {
		return nil, fmt.Errorf("build path table: %w", err)
	}
	return table, nil
}

// LoadPaths reads a leaf path file.
func LoadPaths(path string) (*compact.PathTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read path file: %w", err)
	}
	return ParsePaths(data, FormatFromPath(path))
}

func parseList(data []byte, format Format, keys []string) ([]string, error) {
	var doc any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}

	if obj, ok := doc.(map[string]any); ok {
		for _, key := range keys {
			if list, found := obj[key]; found {
				return stringList(list)
			}
		}
		return nil, fmt.Errorf("no %s list found", strings.Join(keys, " or "))
	}
	return stringList(doc)
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d is %T, want string", i, item)
		}
		out[i] = strings.TrimSpace(s)
	}
	return out, nil
}

// parseLines splits text into trimmed lines, skipping blanks and #
// comments.
func parseLines(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
