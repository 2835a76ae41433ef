package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDocument = "document"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → assemble → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stages 1 and 2: Load and assemble
	assembleStart := time.Now()
	doc, rows, hit, err := r.documentWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats = Stats{
		Rows:         rows,
		NodeCount:    doc.Stats.Nodes,
		EdgeCount:    doc.Stats.Edges,
		FrameCount:   doc.Stats.Frames,
		TotalFlow:    doc.Stats.TotalFlow,
		AssembleTime: time.Since(assembleStart),
	}
	result.CacheInfo.DocumentHit = hit

	r.Logger.Info("assembled diagram",
		"nodes", doc.Stats.Nodes,
		"edges", doc.Stats.Edges,
		"frames", doc.Stats.Frames,
		"cached", hit,
		"duration", result.Stats.AssembleTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, docHash, renderHit, err := r.renderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.DocumentHash = docHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DocumentWithCacheInfo loads and assembles the document with caching and
// returns cache hit info.
func (r *Runner) DocumentWithCacheInfo(ctx context.Context, opts Options) (graph.Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForAssemble(); err != nil {
		return graph.Document{}, false, err
	}
	doc, _, hit, err := r.documentWithCacheInfo(ctx, opts)
	return doc, hit, err
}

// Document is a convenience wrapper that calls DocumentWithCacheInfo and discards the cache hit info.
func (r *Runner) Document(ctx context.Context, opts Options) (graph.Document, error) {
	doc, _, err := r.DocumentWithCacheInfo(ctx, opts)
	return doc, err
}

func (r *Runner) documentWithCacheInfo(ctx context.Context, opts Options) (graph.Document, int, bool, error) {
	hooks := observability.Pipeline()

	hooks.OnLoadStart(ctx, opts.Input)
	loadStart := time.Now()
	in, err := ReadInput(opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Input, 0, time.Since(loadStart), err)
		return graph.Document{}, 0, false, fmt.Errorf("load: %w", err)
	}

	cacheKey := r.Keyer.DocumentKey(in.Hash, opts.DocumentKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := graph.UnmarshalDocument(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeDocument)
				hooks.OnLoadComplete(ctx, opts.Input, 0, time.Since(loadStart), nil)
				return doc, 0, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeDocument)
	}

	t, err := in.Table()
	rows := 0
	if err == nil {
		rows = t.Len()
	}
	hooks.OnLoadComplete(ctx, opts.Input, rows, time.Since(loadStart), err)
	if err != nil {
		return graph.Document{}, 0, false, fmt.Errorf("load: %w", err)
	}
	r.Logger.Debug("loaded table", "input", opts.Input, "rows", t.Len(), "columns", t.Columns())

	hooks.OnAssembleStart(ctx, t.Len())
	assembleStart := time.Now()
	doc, err := AssembleDocument(t, opts)
	hooks.OnAssembleComplete(ctx, doc.Stats.Nodes, doc.Stats.Frames, time.Since(assembleStart), err)
	if err != nil {
		return graph.Document{}, t.Len(), false, fmt.Errorf("assemble: %w", err)
	}

	if data, err := graph.EncodeDocument(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeDocument, len(data))
		}
	}

	return doc, t.Len(), false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, doc, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, doc graph.Document, opts Options) (map[string][]byte, string, bool, error) {
	docData, err := graph.EncodeDocument(doc)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			break
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, docHash, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, docHash, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}

	return rendered, docHash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
