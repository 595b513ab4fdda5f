// Package cli implements the paneforge command-line interface.
//
// This package provides commands for compiling JSON split-layouts into
// self-contained HTML documents, inspecting and visualizing layout trees,
// previewing compiled documents over HTTP, and managing the document cache.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Compile a layout spec and page template into an HTML document
//   - inspect: Print an indented dump of the parsed layout tree
//   - graph: Export the layout tree as Graphviz DOT or SVG
//   - serve: Preview the compiled document over HTTP
//   - cache: Manage the compiled-document cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/paneforge/paneforge/pkg/buildinfo"
	"github.com/paneforge/paneforge/pkg/cache"
	"github.com/paneforge/paneforge/pkg/config"
	"github.com/paneforge/paneforge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "paneforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Paneforge compiles split-layouts into resizable HTML pages",
		Long:         `Paneforge is a CLI tool that compiles a declarative JSON split-layout and a set of source snippets into a single self-contained HTML document with resizable panes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects the cache backend from configuration. Remote backends
// that fail to connect degrade to the file cache with a warning rather than
// failing the build.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	backend := "file"
	if cfg != nil {
		backend = cfg.Cache.Backend
	}

	switch backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, falling back to file cache", "err", err)
			return c.fileCache()
		}
		return store, nil
	case "mongo":
		store, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.Cache.MongoURI,
			Database:   cfg.Cache.MongoDatabase,
			Collection: cfg.Cache.MongoCollection,
		})
		if err != nil {
			c.Logger.Warn("mongo cache unavailable, falling back to file cache", "err", err)
			return c.fileCache()
		}
		return store, nil
	default:
		return c.fileCache()
	}
}

// fileCache creates the default file cache, degrading to a null cache when no
// cache directory can be resolved.
func (c *CLI) fileCache() (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/paneforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// buildOptions assembles pipeline options from the project config and the
// chosen layout file.
func (c *CLI) buildOptions(cfg *config.Config, layoutPath string) pipeline.Options {
	return pipeline.Options{
		Template:      cfg.Resolve(cfg.Template),
		Layout:        layoutPath,
		Stylesheets:   cfg.Stylesheets,
		Scripts:       cfg.Scripts,
		Output:        cfg.Resolve(cfg.Output),
		Substitutions: cfg.Substitutions,
		Logger:        c.Logger,
	}
}
