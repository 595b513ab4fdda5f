package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/paneforge/paneforge/pkg/cache"
	"github.com/paneforge/paneforge/pkg/errors"
	"github.com/paneforge/paneforge/pkg/layout"
	"github.com/paneforge/paneforge/pkg/render"
)

// Runner encapsulates document builds with caching.
//
// The Runner holds no per-build state: every Build call creates its own
// render context, so multiple goroutines can safely share one Runner. The
// preview server relies on this for concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer gets the default keyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedDocument is the payload stored in the document cache.
type cachedDocument struct {
	Document string `json:"document"`
	Panes    int    `json:"panes"`
	SizeMap  string `json:"size_map"`
}

// Build compiles the layout into the final document.
//
// Read and parse failures abort the build with a typed error; callers that
// must always produce HTML can fall back to [ErrorPage]. A failure writing
// Output is logged and swallowed: the in-memory document is still returned.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{ID: uuid.NewString()}

	template, err := readInput(opts.Template, "template")
	if err != nil {
		return nil, err
	}
	layoutData, err := readInput(opts.Layout, "layout")
	if err != nil {
		return nil, err
	}

	cacheKey := r.Keyer.DocumentKey(cache.Hash(template), cache.Hash(layoutData), opts.keyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedDocument
			if err := json.Unmarshal(data, &cached); err == nil {
				result.Document = cached.Document
				result.Panes = cached.Panes
				result.SizeMap = cached.SizeMap
				result.CacheInfo.DocumentHit = true
				opts.Logger.Debug("document served from cache", "build", result.ID)
				r.writeOutput(opts, result.Document)
				return result, nil
			}
		}
	}

	// Stage 1: Parse
	parseStart := time.Now()
	root, err := parseTree(layoutData)
	if err != nil {
		return nil, err
	}
	root.Percolate()
	result.Stats.ParseTime = time.Since(parseStart)

	opts.Logger.Debug("layout tree parsed",
		"panes", root.PaneCount(),
		"duration", result.Stats.ParseTime)
	opts.Logger.Debugf("layout tree:\n%s", root.String())

	// Stage 2: Render
	renderStart := time.Now()
	vars := render.BaseVars(opts.Layout).Merge(opts.Substitutions)
	emitted := render.NewEmitter(vars, opts.Logger).Emit(root)

	document, err := render.Substitute(string(template), emitted, render.Assets{
		Stylesheets: opts.Stylesheets,
		Scripts:     opts.Scripts,
	})
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.Document = document
	result.Panes = emitted.Panes()
	result.SizeMap = emitted.SizeMap()

	opts.Logger.Info("document compiled",
		"panes", result.Panes,
		"bytes", len(document),
		"duration", result.Stats.ParseTime+result.Stats.RenderTime)

	if data, err := json.Marshal(cachedDocument{
		Document: result.Document,
		Panes:    result.Panes,
		SizeMap:  result.SizeMap,
	}); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
	}

	r.writeOutput(opts, document)
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// parseTree decodes the layout JSON and builds the split tree.
func parseTree(data []byte) (*layout.Node, error) {
	var spec any
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout spec is not valid JSON")
	}
	return layout.Parse(spec)
}

// readInput reads an input file, mapping the failure to a typed error.
func readInput(path, kind string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s file %s", kind, path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIORead, err, "read %s %s", kind, path)
	}
	return data, nil
}

// writeOutput persists the compiled document when an output path is set.
// Failures are logged, not returned: the caller already has the document.
func (r *Runner) writeOutput(opts Options, document string) {
	if opts.Output == "" {
		return
	}
	if err := os.WriteFile(opts.Output, []byte(document), 0644); err != nil {
		opts.Logger.Error("write compiled document", "path", opts.Output, "err", err)
		return
	}
	opts.Logger.Debug("wrote compiled document", "path", opts.Output)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
