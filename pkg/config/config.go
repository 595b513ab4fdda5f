// Package config loads the paneforge project configuration.
//
// A project is described by a TOML file (conventionally paneforge.toml) that
// names the page template, one or more layout specs, the assets linked into
// the compiled document, and optional cache/serve settings:
//
//	template = "templates/page.html"
//	layouts  = ["layouts/main.json", "layouts/compact.json"]
//	stylesheets = ["assets/panes.css"]
//	scripts     = ["assets/resize.js"]
//	output   = "dist/index.html"
//
//	[substitutions]
//	PROJECT = "demo"
//
//	[cache]
//	backend = "file" # file | redis | mongo | none
//
//	[serve]
//	addr = ":8080"
//
// Relative paths are resolved against the directory containing the file.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/paneforge/paneforge/pkg/errors"
)

// DefaultFilename is the conventional project file name.
const DefaultFilename = "paneforge.toml"

// Config is the decoded project configuration.
type Config struct {
	// Template is the path to the HTML page template containing the five
	// substitution placeholders.
	Template string `toml:"template"`

	// Layouts lists the JSON layout spec files. The build command compiles
	// the first by default and offers a picker when several are configured.
	Layouts []string `toml:"layouts"`

	// Stylesheets and Scripts are linked into the compiled document.
	Stylesheets []string `toml:"stylesheets"`
	Scripts     []string `toml:"scripts"`

	// Output is the optional path the compiled document is written to.
	Output string `toml:"output"`

	// Substitutions adds project-specific placeholder values on top of the
	// builtin table (URI, BACKSLASH).
	Substitutions map[string]string `toml:"substitutions"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`

	// dir is the directory the config was loaded from, for path resolution.
	dir string
}

// CacheConfig selects and configures the document cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"` // file (default) | redis | mongo | none

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `toml:"addr"` // defaults to ":8080"
}

// Load reads and validates a project file.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	cfg.dir = filepath.Dir(path)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Template == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "template is required")
	}
	if len(c.Layouts) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one layout is required")
	}
	switch c.Cache.Backend {
	case "", "file", "redis", "mongo", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis, mongo, or none)", c.Cache.Backend)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = "file"
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = ":8080"
	}
}

// Resolve turns a path from the config file into one relative to the process
// working directory. Absolute paths pass through unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}

// ResolveAll applies Resolve to each path.
func (c *Config) ResolveAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = c.Resolve(p)
	}
	return out
}
