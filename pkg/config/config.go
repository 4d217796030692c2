// Package config loads udgraph's TOML configuration file.
//
// The file is optional. Every setting has a default, values from the file
// override the defaults, and command-line flags override the file:
//
//	[collapse]
//	separator = ">"
//	keep_empty_ids = false
//
//	[pipeline]
//	workers = 0          # 0 = number of CPUs
//	fix_cycles = false
//	collapse_empty = false
//
//	[cache]
//	backend = "file"     # none | file | redis
//	dir = ""             # default: user cache dir
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/udgraph/pkg/cache"
	"github.com/matzehuels/udgraph/pkg/depgraph/transform"
	uerr "github.com/matzehuels/udgraph/pkg/errors"
)

// Config is the full configuration.
type Config struct {
	Collapse Collapse `toml:"collapse"`
	Pipeline Pipeline `toml:"pipeline"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// Collapse configures empty node collapsing.
type Collapse struct {
	Separator    string `toml:"separator"`
	KeepEmptyIDs bool   `toml:"keep_empty_ids"`
}

// Pipeline configures sentence processing.
type Pipeline struct {
	Workers       int  `toml:"workers"`
	FixCycles     bool `toml:"fix_cycles"`
	CollapseEmpty bool `toml:"collapse_empty"`
}

// Cache configures the result cache.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
}

// Server configures the HTTP service.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Collapse: Collapse{Separator: transform.DefaultSeparator},
		Pipeline: Pipeline{},
		Cache: Cache{
			Backend:   cache.BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       cache.TTLOutput.String(),
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/udgraph/config.toml (or the
// platform's user config directory).
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "udgraph", "config.toml"), nil
}

// Load reads the configuration at path on top of the defaults. An empty path
// means DefaultPath(); a missing default file is not an error, a missing
// explicit file is. The second return value lists keys in the file that
// udgraph does not know.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil, uerr.Wrap(uerr.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, nil, uerr.Wrap(uerr.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	cfg.Path = path

	var unknown []string
	for _, k := range md.Undecoded() {
		unknown = append(unknown, k.String())
	}
	sort.Strings(unknown)

	if err := cfg.Validate(); err != nil {
		return cfg, unknown, err
	}
	return cfg, unknown, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := uerr.ValidateSeparator(c.Collapse.Separator); err != nil {
		return err
	}
	if err := uerr.ValidateWorkers(c.Pipeline.Workers); err != nil {
		return err
	}
	if err := uerr.ValidateChoice(uerr.ErrCodeInvalidConfig, "cache backend", c.Cache.Backend,
		cache.BackendNone, cache.BackendFile, cache.BackendRedis); err != nil {
		return err
	}
	if c.Cache.Backend == cache.BackendRedis && strings.TrimSpace(c.Cache.RedisAddr) == "" {
		return uerr.New(uerr.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses Cache.TTL. An empty value means no expiry.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, uerr.New(uerr.ErrCodeInvalidConfig, "invalid cache.ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// Workers returns the configured worker count, or the number of CPUs.
func (c *Config) Workers() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	return runtime.NumCPU()
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
	}
}

// CollapseOptions converts the collapse section for the transform package.
func (c *Config) CollapseOptions() transform.CollapseOptions {
	return transform.CollapseOptions{
		Separator:    c.Collapse.Separator,
		KeepEmptyIDs: c.Collapse.KeepEmptyIDs,
	}
}
