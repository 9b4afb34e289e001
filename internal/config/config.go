// Package config loads organizer settings from a TOML file.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"photo-organizer/internal/fsx"
)

// DefaultExtensions are the photo extensions accepted when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".jpe"}

// Config represents the organizer configuration.
type Config struct {
	Extensions   []string  `toml:"extensions"`
	Recurse      bool      `toml:"recurse"`
	DryRun       bool      `toml:"dry_run"`
	Collision    string    `toml:"collision"` // "suffix" (default) or "skip"
	Manifest     bool      `toml:"manifest"`
	ManifestPath string    `toml:"manifest_path,omitempty"` // defaults to <dest>/_Manifest/photo_manifest.csv
	Cleanup      bool      `toml:"cleanup"`
	Log          LogConfig `toml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // auto, console or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extensions: append([]string(nil), DefaultExtensions...),
		Recurse:    true,
		Collision:  string(fsx.CollisionSuffix),
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Read decodes a Config from r on top of the defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config file at path. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SetExtensions replaces the accepted extensions, normalizing them.
func (c *Config) SetExtensions(exts []string) {
	c.Extensions = exts
	c.normalize()
}

// normalize lower-cases extensions, adds a leading dot and drops duplicates.
func (c *Config) normalize() {
	seen := make(map[string]bool, len(c.Extensions))
	out := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	c.Extensions = out
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions: at least one extension is required")
	}
	if _, err := fsx.ParseCollisionPolicy(c.Collision); err != nil {
		return err
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level: unsupported value %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "auto", "console", "json":
	default:
		return fmt.Errorf("log format: unsupported value %q", c.Log.Format)
	}
	return nil
}
