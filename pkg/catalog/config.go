package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viss-compact/viss-go/pkg/compact"
)

// PathsSample selects the embedded sample table in Config.Paths.
const PathsSample = "sample"

// Config is the codec configuration.
type Config struct {
	// Keywords is a preset name (reference, server) or a catalog file.
	Keywords string `yaml:"keywords"`

	// Paths is "sample", a leaf path file, or empty for no table.
	Paths string `yaml:"paths"`

	// EventLog is an optional capture file for codec events.
	EventLog string `yaml:"event_log"`

	// MaxMessageSize bounds framed messages.
	MaxMessageSize uint32 `yaml:"max_message_size"`

	Logging Logging `yaml:"logging"`
}

// Logging configures operational logging.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the reference keywords with the sample paths.
func DefaultConfig() *Config {
	return &Config{
		Keywords:       PresetReference,
		Paths:          PathsSample,
		MaxMessageSize: 65536,
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML configuration file. Unset fields keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Catalog loads the configured dictionary and path table.
func (c *Config) Catalog() (*compact.Dictionary, *compact.PathTable, error) {
	dict, err := c.dictionary()
	if err != nil {
		return nil, nil, err
	}
	paths, err := c.pathTable()
	if err != nil {
		return nil, nil, err
	}
	return dict, paths, nil
}

func (c *Config) dictionary() (*compact.Dictionary, error) {
	switch c.Keywords {
	case "", PresetReference, PresetServer:
		return Preset(c.Keywords)
	default:
		return LoadKeywords(c.Keywords)
	}
}

func (c *Config) pathTable() (*compact.PathTable, error) {
	switch c.Paths {
	case "":
		return nil, nil
	case PathsSample:
		return SamplePaths()
	default:
		return LoadPaths(c.Paths)
	}
}

// SlogLevel parses Logging.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Logging.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return level, nil
}
