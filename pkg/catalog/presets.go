package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/viss-compact/viss-go/pkg/compact"
)

//go:embed data/leafpaths.yaml
var sampleLeafPaths []byte

var (
	sampleOnce  sync.Once
	sampleTable *compact.PathTable
	sampleErr   error
)

// SamplePaths returns the embedded demonstration leaf path table.
func SamplePaths() (*compact.PathTable, error) {
	sampleOnce.Do(func() {
		sampleTable, sampleErr = ParsePaths(sampleLeafPaths, FormatYAML)
	})
	return sampleTable, sampleErr
}

// serverKeywords is the larger catalog used by VISS servers, which adds
// the data and dp fields of notification payloads.
var serverKeywords = []string{
	"action", "requestId", "value", "ts", "path", "subscriptionId", "data", "dp",
	"filter", "authorization",
	"get", "set", "subscribe", "unsubscribe", "subscription",
	"nuint8", "uint8", "nuint16", "uint16", "nuint24", "uint24",
	"nuint32", "uint32", "bool", "float",
	"unknown",
}

// Named keyword presets accepted in Config.Keywords.
const (
	PresetReference = "reference"
	PresetServer    = "server"
)

// Preset returns the dictionary for a named preset.
func Preset(name string) (*compact.Dictionary, error) {
	switch name {
	case PresetReference, "":
		return compact.DefaultDictionary(), nil
	case PresetServer:
		return compact.NewDictionary(serverKeywords)
	default:
		return nil, fmt.Errorf("unknown keyword preset %q", name)
	}
}
