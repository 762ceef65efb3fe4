// Package config loads the mtimesort command's settings from TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

// Duration is a time.Duration written as a string ("750ms", "2s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the top-level TOML structure.
type Config struct {
	Collation Collation `toml:"collation"`
	Cache     Cache     `toml:"cache"`
	LogLevel  string    `toml:"log_level"` // debug, info, warn, error
}

// Collation controls the name order used when no modification time is known.
type Collation struct {
	Language   string `toml:"language"` // BCP 47 tag
	Numeric    bool   `toml:"numeric"`
	IgnoreCase bool   `toml:"ignore_case"`
}

// Cache controls the attribute cache.
type Cache struct {
	Shards       int      `toml:"shards"`
	QueryTimeout Duration `toml:"query_timeout"`
}

const defaultConfigTOML = `# mtimesort settings

log_level = "info"

[collation]
language = "und"
numeric = true
ignore_case = true

[cache]
shards = 16
query_timeout = "2s"
`

// Default returns the built-in settings.
func Default() Config {
	var cfg Config
	if _, err := toml.Decode(defaultConfigTOML, &cfg); err != nil {
		panic(fmt.Sprintf("config: bad defaults: %v", err))
	}
	return cfg
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "mtimesort", "config.toml"), nil
}

/*
Load reads path over the defaults.

A missing file is not an error: the defaults are returned as they are.
Keys absent from the file keep their default values.
*/
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	return Parse(string(data), cfg)
}

// Parse decodes TOML text over base and validates the result.
func Parse(text string, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return base, fmt.Errorf("decoding config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, err := c.Tag(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Cache.Shards < 1 {
		return fmt.Errorf("cache.shards must be at least 1, got %d", c.Cache.Shards)
	}
	if c.Cache.QueryTimeout.Duration <= 0 {
		return fmt.Errorf("cache.query_timeout must be positive, got %s", c.Cache.QueryTimeout.Duration)
	}
	return nil
}

// Tag parses the collation language.
func (c Config) Tag() (language.Tag, error) {
	tag, err := language.Parse(c.Collation.Language)
	if err != nil {
		return language.Und, fmt.Errorf("collation.language %q: %w", c.Collation.Language, err)
	}
	return tag, nil
}

// Level parses the log level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
