package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files looked up in the working directory, in order.
var FileNames = []string{"vuemeta.config.json", "vuemeta.config.yaml", "vuemeta.config.yml"}

// Config represents the vuemeta configuration.
type Config struct {
	// Root relativizes declaration paths in the output. Defaults to the
	// directory containing the config file, or the working directory.
	Root string `json:"root,omitzero" yaml:"root,omitempty"`
	// TSConfig is the project's tsconfig. Empty means tsconfig.json under
	// Root when it exists.
	TSConfig string `json:"tsconfig,omitzero" yaml:"tsconfig,omitempty"`
	// Include and Exclude are doublestar globs relative to Root.
	Include []string `json:"include,omitzero" yaml:"include,omitempty" validate:"dive,required"`
	Exclude []string `json:"exclude,omitzero" yaml:"exclude,omitempty" validate:"dive,required"`
	// OutDir mirrors outputs under a directory instead of writing them next
	// to their inputs.
	OutDir string    `json:"outDir,omitzero" yaml:"outDir,omitempty"`
	Jobs   int       `json:"jobs,omitzero" yaml:"jobs,omitempty" validate:"gte=1,lte=64"`
	Cache  bool      `json:"cache" yaml:"cache"`
	Log    LogConfig `json:"log" yaml:"log"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `json:"level,omitzero" yaml:"level,omitempty" validate:"oneof=debug info warn error"`
	Format string `json:"format,omitzero" yaml:"format,omitempty" validate:"oneof=text json"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Jobs:  1,
		Cache: true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses a vuemeta config file. JSON and YAML are supported,
// chosen by extension. Relative paths in the file are resolved against the
// file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	config := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &config, json.RejectUnknownMembers(true))
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&config)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %q: %w", path, err)
	}

	config.resolvePaths(filepath.Dir(path))
	return &config, nil
}

// Discover returns the first config file from FileNames present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (c *Config) resolvePaths(base string) {
	if c.Root == "" {
		c.Root = base
	} else if !filepath.IsAbs(c.Root) {
		c.Root = filepath.Join(base, c.Root)
	}
	if c.TSConfig != "" && !filepath.IsAbs(c.TSConfig) {
		c.TSConfig = filepath.Join(base, c.TSConfig)
	}
	if c.OutDir != "" && !filepath.IsAbs(c.OutDir) {
		c.OutDir = filepath.Join(base, c.OutDir)
	}
}
