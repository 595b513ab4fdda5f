// Package pipeline provides the document compilation pipeline for paneforge.
//
// This package implements the complete read → parse → percolate → emit →
// substitute pipeline that both the CLI and the preview server use. By
// centralizing this logic we ensure consistent behavior across entry points.
//
// # Architecture
//
// A build runs in two stages:
//
//  1. Parse: decode the JSON layout spec into a split tree and percolate
//     size/style declarations upward.
//  2. Render: emit pane markup, CSS, and the size map, then substitute them
//     into the page template together with the configured assets.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Build(ctx, pipeline.Options{
//	    Template: "templates/page.html",
//	    Layout:   "layouts/main.json",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Document)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/paneforge/paneforge/pkg/cache"
	"github.com/paneforge/paneforge/pkg/errors"
)

// Options contains all configuration for one document build.
// This struct supports JSON serialization for tooling.
type Options struct {
	// Template is the path to the HTML page template.
	Template string `json:"template"`

	// Layout is the path to the JSON layout spec.
	Layout string `json:"layout"`

	// Stylesheets and Scripts are linked into the compiled document.
	Stylesheets []string `json:"stylesheets,omitempty"`
	Scripts     []string `json:"scripts,omitempty"`

	// Output is an optional path the compiled document is written to.
	// Write failures are logged, not fatal: the in-memory document is
	// still returned.
	Output string `json:"output,omitempty"`

	// Substitutions extends the builtin placeholder table.
	Substitutions map[string]string `json:"substitutions,omitempty"`

	// Refresh bypasses the document cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if o.Template == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "template path is required")
	}
	if o.Layout == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "layout path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// keyOpts returns the cache key options derived from the build options.
func (o *Options) keyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Stylesheets:   o.Stylesheets,
		Scripts:       o.Scripts,
		Substitutions: o.Substitutions,
	}
}

// Result contains the outputs of one build.
type Result struct {
	// ID uniquely identifies this build.
	ID string

	// Document is the compiled HTML document.
	Document string

	// Panes is the number of resizable panes emitted.
	Panes int

	// SizeMap is the pane-id to fraction object literal injected into the
	// document, kept for diagnostics.
	SizeMap string

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks whether the document came from cache.
	CacheInfo CacheInfo
}

// Stats contains build timing information.
type Stats struct {
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	DocumentHit bool
}
