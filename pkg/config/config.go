// Package config loads the optional treeideals configuration file.
//
// The file lives at $XDG_CONFIG_HOME/treeideals/config.toml (or
// ~/.config/treeideals/config.toml) and may set any subset of the fields
// below. Missing fields keep their defaults, a missing file is not an
// error, and command line flags override both.
//
//	engine = "pop-jump-push-par"
//	mode = "labels"
//	reps = 5
//	workers = 8
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_ideals = 10000
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/treeideals/pkg/errors"
)

// Config holds every configurable default.
type Config struct {
	Engine  string `toml:"engine"`
	Mode    string `toml:"mode"`
	Reps    int    `toml:"reps"`
	Workers int    `toml:"workers"`
	Order   string `toml:"order"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the report cache.
type CacheConfig struct {
	// Backend is "file", "redis" or "none".
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	TTL           Duration `toml:"ttl"`
}

// ServerConfig configures `treeideals serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
	// MaxIdeals caps how many ideals one listing request returns.
	MaxIdeals int `toml:"max_ideals"`
	// MaxReps caps the repetitions of one benchmark request.
	MaxReps int `toml:"max_reps"`
}

// Duration is a time.Duration that decodes from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Engine:  "koda-ruskey",
		Mode:    "labels",
		Reps:    5,
		Workers: runtime.NumCPU(),
		Order:   "input",
		Cache: CacheConfig{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			Prefix:    "treeideals:",
			TTL:       Duration{7 * 24 * time.Hour},
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			MaxIdeals: 10_000,
			MaxReps:   20,
		},
	}
}

// DefaultPath returns the configuration file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "treeideals", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "treeideals", "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	switch c.Order {
	case "input", "largest", "smallest":
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "order %q (want input, largest or smallest)", c.Order)
	}
	if c.Reps < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "reps must be at least 1, got %d", c.Reps)
	}
	if c.Workers < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "workers must be at least 1, got %d", c.Workers)
	}
	if c.Server.MaxIdeals < 1 || c.Server.MaxReps < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "server limits must be positive")
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
