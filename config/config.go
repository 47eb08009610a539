package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/dhamidi/blueprint/format"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "BLUEPRINT_CONFIG"

// FileNames are the config files looked up in a directory, in order.
var FileNames = []string{"blueprint.toml", "blueprint.yaml", "blueprint.yml"}

// Config holds the settings shared by every bp command.
type Config struct {
	Parse  ParseConfig  `toml:"parse" yaml:"parse"`
	Output OutputConfig `toml:"output" yaml:"output"`
	Log    LogConfig    `toml:"log" yaml:"log"`

	path string
}

type ParseConfig struct {
	// Policy is "strict" or "lenient".
	Policy string `toml:"policy" yaml:"policy"`
	Trace  bool   `toml:"trace" yaml:"trace"`
}

type OutputConfig struct {
	Format    string `toml:"format" yaml:"format"`
	Positions bool   `toml:"positions" yaml:"positions"`
	Color     bool   `toml:"color" yaml:"color"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

// Format is the syntax of a config file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

func Default() *Config {
	return &Config{
		Parse:  ParseConfig{Policy: parser.PolicyStrict.String()},
		Output: OutputConfig{Format: format.FormatTree, Color: true},
	}
}

// Load reads the config file at path. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(content, detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes content in the given format on top of the defaults.
func Parse(content []byte, f Format) (*Config, error) {
	cfg := Default()
	switch f {
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(content)).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", f)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover loads the file named by $BLUEPRINT_CONFIG, or else the first of
// FileNames found in dir. Without either it returns the defaults.
func Discover(dir string) (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatTOML
}

// Validate reports settings that no command could act on.
func (c *Config) Validate() error {
	if _, err := parser.ParsePolicy(c.Parse.Policy); err != nil {
		return fmt.Errorf("parse.policy: %w", err)
	}
	if !slices.Contains(format.Formats, c.Output.Format) {
		return fmt.Errorf("output.format: unknown format %q (expected one of %s)",
			c.Output.Format, strings.Join(format.Formats, ", "))
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity: must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// ParserOptions converts the parse settings into parser options.
func (c *Config) ParserOptions() []parser.Option {
	policy, _ := parser.ParsePolicy(c.Parse.Policy)
	opts := []parser.Option{parser.WithPolicy(policy)}
	if c.Parse.Trace {
		opts = append(opts, parser.WithTrace())
	}
	return opts
}
