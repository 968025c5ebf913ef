package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/holopanel/pkg/cache"
	"github.com/matzehuels/holopanel/pkg/document"
	"github.com/matzehuels/holopanel/pkg/observability"
	"github.com/matzehuels/holopanel/pkg/render"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses [cache.NewDefaultKeyer].
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

// Execute builds the document and renders every requested format.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, opts.Name)
	doc, h, err := r.build(ctx, opts)
	observability.Pipeline().OnBuildComplete(ctx, opts.Name, nodeCount(h), time.Since(buildStart), err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	defer h.Close()

	result := &Result{
		Document: doc,
		DocHash:  cache.Hash(opts.Document),
		Snapshot: render.Capture(h.Scene),
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = h.Scene.Len()
	result.Stats.Primitives = len(h.Recorder.Live())
	r.Logger.Info("built panel",
		"document", opts.Name,
		"nodes", result.Stats.NodeCount,
		"primitives", result.Stats.Primitives,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, info, err := r.renderCached(ctx, h, result.DocHash, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", info.Hits,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// BuildHeadless decodes and lays out a document without rendering
// artifacts. The caller owns the returned scene.
func (r *Runner) BuildHeadless(ctx context.Context, opts Options) (*Headless, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	_, h, err := r.build(ctx, opts)
	return h, err
}

func (r *Runner) build(ctx context.Context, opts Options) (*document.Document, *Headless, error) {
	doc, err := document.Decode(bytes.NewReader(opts.Document))
	if err != nil {
		return nil, nil, err
	}
	h, err := Build(ctx, doc, opts.Config, opts.Logger, opts.Actions)
	if err != nil {
		return nil, nil, err
	}
	if opts.Pointer != nil {
		if err := h.Point(*opts.Pointer); err != nil {
			h.Close()
			return nil, nil, err
		}
	}
	return doc, h, nil
}

func (r *Runner) renderCached(ctx context.Context, h *Headless, docHash string, opts Options) (map[string][]byte, CacheInfo, error) {
	cfgHash := opts.configHash()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(docHash, cfgHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, format)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, format)
		}
		missing = append(missing, format)
	}
	info := CacheInfo{Hits: len(artifacts), RenderHit: len(missing) == 0}
	if len(missing) == 0 {
		return artifacts, info, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, h, sub)
	if err != nil {
		return nil, info, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(docHash, cfgHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, format, len(data))
	}
	return artifacts, info, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func nodeCount(h *Headless) int {
	if h == nil {
		return 0
	}
	return h.Scene.Len()
}
