package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sheetpack/pkg/cache"
	"github.com/matzehuels/sheetpack/pkg/layout"
	"github.com/matzehuels/sheetpack/pkg/observability"
	"github.com/matzehuels/sheetpack/pkg/packer"
	"github.com/matzehuels/sheetpack/pkg/render/sink"
	"github.com/matzehuels/sheetpack/pkg/sheet"
	"github.com/matzehuels/sheetpack/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Execute runs the complete load → pack → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	var set *source.Set
	loadStart := time.Now()
	if opts.Loader != nil {
		origin := sourceName(opts.Loader)
		observability.Pipeline().OnLoadStart(ctx, origin)

		loaded, err := opts.Loader.Load(ctx)
		observability.Pipeline().OnLoadComplete(ctx, origin,
			lenOrZero(loaded), skipsOrZero(loaded), time.Since(loadStart), err)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		set = loaded
		result.Dims = set.Dims
		result.Skipped = set.Skipped
	} else {
		result.Dims = opts.Dims
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ImageCount = len(result.Dims)
	result.Stats.SkippedCount = len(result.Skipped)

	r.Logger.Info("loaded images",
		"count", result.Stats.ImageCount,
		"skipped", result.Stats.SkippedCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Pack
	packStart := time.Now()
	observability.Pipeline().OnPackStart(ctx, len(result.Dims))
	doc, planHit, err := r.PlanWithCacheInfo(ctx, result.Dims, opts)
	observability.Pipeline().OnPackComplete(ctx, len(result.Dims), len(doc.Pages),
		time.Since(packStart), err)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Document = doc
	result.Stats.PackTime = time.Since(packStart)
	result.Stats.PageCount = len(doc.Pages)
	result.CacheInfo.PlanHit = planHit

	// Compute document hash for cache keys and API responses
	if docData, err := sheet.MarshalDocument(doc); err == nil {
		result.DocHash = cache.Hash(docData)
	}

	r.Logger.Info("packed images",
		"pages", len(doc.Pages),
		"placements", doc.PlacementCount(),
		"duration", result.Stats.PackTime)

	if len(doc.Pages) == 0 {
		r.Logger.Warn("nothing to render: no images were packed")
		return result, nil
	}

	// Stage 3: Render. The opener must stay a nil interface when no
	// images were loaded; a typed-nil *source.Set would slip past the
	// sinks' nil checks.
	var opener sink.ImageOpener
	if set != nil {
		opener = set
	}
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, previews, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opener, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Previews = previews
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlanWithCacheInfo packs dims into a document with caching and returns
// cache hit info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, dims []sheet.Dim, opts Options) (sheet.Document, bool, error) {
	if err := opts.ValidateForPack(); err != nil {
		return sheet.Document{}, false, err
	}
	r.applyLogger(&opts)

	rects, err := sheet.Normalize(dims)
	if err != nil {
		return sheet.Document{}, false, err
	}

	// Compute cache key from the normalized input
	dimsData, err := json.Marshal(dims)
	if err != nil {
		return sheet.Document{}, false, fmt.Errorf("serialize dims for cache key: %w", err)
	}
	cacheKey := r.Keyer.PlanKey(cache.Hash(dimsData), opts.PlanKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "plan")
			cached, err := sheet.UnmarshalDocument(data)
			if err == nil {
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else {
			observability.Cache().OnCacheMiss(ctx, "plan")
		}
	}

	// Pack
	packerOpts, err := opts.PackerOptions()
	if err != nil {
		return sheet.Document{}, false, err
	}
	p, err := packer.New(packerOpts)
	if err != nil {
		return sheet.Document{}, false, err
	}
	doc := layout.Compose(p.Pack(rects), layout.Options{Center: opts.Center})
	doc.ID = uuid.NewString()

	if err := doc.Validate(rects); err != nil {
		return sheet.Document{}, false, fmt.Errorf("plan failed validation: %w", err)
	}

	// Cache the result
	if data, err := sheet.MarshalDocument(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan); err == nil {
			observability.Cache().OnCacheSet(ctx, "plan", len(data))
		}
	}

	return doc, false, nil // Cache miss
}

// Plan is a convenience wrapper that calls PlanWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Plan(ctx context.Context, dims []sheet.Dim, opts Options) (sheet.Document, error) {
	doc, _, err := r.PlanWithCacheInfo(ctx, dims, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. The opener supplies image pixels for the pdf and png formats;
// with a nil opener, pdf is rejected and png falls back to wireframes.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc sheet.Document, opener sink.ImageOpener, opts Options) (map[string][]byte, [][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	docData, err := sheet.MarshalDocument(doc)
	if err != nil {
		return nil, nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	docHash := cache.Hash(docData)

	// Try to get all formats from cache. Image-backed outputs are keyed on
	// the document hash only because the document already pins the image
	// set: any pixel change changes a dimension or a ref.
	artifacts := make(map[string][]byte)
	var previews [][]byte
	allCached := !opts.Refresh

	if allCached {
		for _, format := range opts.Formats {
			if format == FormatPNG {
				pages, ok := r.cachedPreviews(ctx, docHash, len(doc.Pages), opts)
				if !ok {
					allCached = false
					break
				}
				previews = pages
				continue
			}
			cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
	}
	if allCached {
		return artifacts, previews, true, nil // All artifacts from cache
	}

	// Render all formats
	artifacts = make(map[string][]byte)
	previews = nil
	for _, format := range opts.Formats {
		switch format {
		case FormatPDF:
			data, err := sink.RenderPDF(doc, opener, sink.WithJPEGQuality(opts.JPEGQuality))
			if err != nil {
				return nil, nil, false, err
			}
			artifacts[FormatPDF] = data
		case FormatPNG:
			pages, err := sink.RenderPNG(doc, opener, sink.WithScale(opts.PNGScale))
			if err != nil {
				return nil, nil, false, err
			}
			previews = pages
		case FormatJSON:
			data, err := sink.RenderJSON(doc)
			if err != nil {
				return nil, nil, false, err
			}
			artifacts[FormatJSON] = data
		}
	}

	// Cache each artifact
	for format, data := range artifacts {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	for i, page := range previews {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(previewFormat(i)))
		if err := r.Cache.Set(ctx, cacheKey, page, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(page))
		}
	}

	return artifacts, previews, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc sheet.Document, opener sink.ImageOpener, opts Options) (map[string][]byte, [][]byte, error) {
	artifacts, previews, _, err := r.RenderWithCacheInfo(ctx, doc, opener, opts)
	return artifacts, previews, err
}

// cachedPreviews loads all per-page PNG previews, or reports a miss if
// any page is absent.
func (r *Runner) cachedPreviews(ctx context.Context, docHash string, pages int, opts Options) ([][]byte, bool) {
	out := make([][]byte, 0, pages)
	for i := 0; i < pages; i++ {
		cacheKey := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(previewFormat(i)))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		out = append(out, data)
	}
	return out, true
}

// previewFormat is the per-page artifact key format for PNG previews.
func previewFormat(page int) string {
	return fmt.Sprintf("%s:%d", FormatPNG, page)
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

func sourceName(l source.Loader) string {
	if s, ok := l.(fmt.Stringer); ok {
		return s.String()
	}
	return "inline"
}

func lenOrZero(s *source.Set) int {
	if s == nil {
		return 0
	}
	return s.Len()
}

func skipsOrZero(s *source.Set) int {
	if s == nil {
		return 0
	}
	return len(s.Skipped)
}
