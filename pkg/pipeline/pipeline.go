// Package pipeline provides the core packing pipeline for Sheetpack.
//
// This package implements the complete load → pack → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode images from a source and measure their dimensions
//  2. Pack: partition rectangles onto pages and compute the placement plan
//  3. Render: generate output in various formats (PDF, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Loader:  &local.Loader{Dir: "./images"},
//	    Paper:   "a4",
//	    Formats: []string{"pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf := result.Artifacts["pdf"]
//
// Run individual stages:
//
//	// Pack only (dims already known)
//	doc, err := runner.Plan(ctx, dims, opts)
//
//	// Render an existing document
//	artifacts, err := runner.Render(ctx, doc, set, opts)
package pipeline

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sheetpack/pkg/cache"
	"github.com/matzehuels/sheetpack/pkg/geom"
	"github.com/matzehuels/sheetpack/pkg/packer"
	"github.com/matzehuels/sheetpack/pkg/sheet"
	"github.com/matzehuels/sheetpack/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPaper is the page size used when none is configured.
	DefaultPaper = "a4"

	// DefaultUnit is the unit custom page dimensions are given in.
	DefaultUnit = "pt"

	// DefaultJPEGQuality is the quality for JPEG re-encoding of embedded
	// images. Matches sink.DefaultJPEGQuality.
	DefaultJPEGQuality = 85

	// DefaultBackground is the color transparent pixels are composited onto.
	DefaultBackground = "#ffffff"

	// DefaultPNGScale is the raster scale for PNG previews.
	DefaultPNGScale = 1.0
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the packing pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Loader takes precedence; Dims supports callers that
	// already know their image dimensions (the API, plan-from-JSON).
	Dims []sheet.Dim `json:"images,omitempty"`

	// Pack options
	Paper        string  `json:"paper,omitempty"`  // named size or "WxH"
	Unit         string  `json:"unit,omitempty"`   // unit for custom "WxH" papers
	Margin       float64 `json:"margin,omitempty"` // points, all four sides
	ScaleFloor   float64 `json:"scale_floor,omitempty"`
	AllowUpscale bool    `json:"allow_upscale,omitempty"`
	Center       bool    `json:"center,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	JPEGQuality int      `json:"jpeg_quality,omitempty"`
	Background  string   `json:"background,omitempty"` // "white", "black", or "#rrggbb"
	PNGScale    float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Loader source.Loader `json:"-"`
	Logger *log.Logger   `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs and API responses.
	RunID string

	// Dims are the measured input dimensions, in load order.
	Dims []sheet.Dim

	// Skipped lists inputs excluded during loading, with reasons.
	Skipped []source.Skip

	// Document is the computed placement plan.
	Document sheet.Document

	// DocHash is the content hash of the document.
	DocHash string

	// Artifacts contains rendered outputs keyed by format. The PDF and
	// JSON formats produce one artifact each; PNG pages land in Previews.
	Artifacts map[string][]byte

	// Previews holds one PNG per page when the png format is requested.
	Previews [][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ImageCount   int
	SkippedCount int
	PageCount    int
	LoadTime     time.Duration
	PackTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the packed document came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Loader == nil && len(o.Dims) == 0 {
		return fmt.Errorf("an input directory or an image list is required")
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetPackDefaults sets default values for packing.
func (o *Options) SetPackDefaults() {
	if o.Paper == "" {
		o.Paper = DefaultPaper
	}
	if o.Unit == "" {
		o.Unit = DefaultUnit
	}
	if o.ScaleFloor == 0 {
		o.ScaleFloor = packer.DefaultScaleFloor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPack validates and sets defaults for packing.
func (o *Options) ValidateForPack() error {
	o.SetPackDefaults()
	if _, err := o.PageSize(); err != nil {
		return err
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality %d out of range 1-100", o.JPEGQuality)
	}
	if _, err := ParseBackground(o.Background); err != nil {
		return err
	}
	return nil
}

// PageSize resolves the configured paper name into point dimensions.
func (o *Options) PageSize() (geom.Size, error) {
	unit, err := geom.ParseUnit(o.Unit)
	if err != nil {
		return geom.Size{}, err
	}
	return geom.ParsePaper(o.Paper, unit)
}

// PackerOptions builds the packer configuration from these options.
func (o *Options) PackerOptions() (packer.Options, error) {
	page, err := o.PageSize()
	if err != nil {
		return packer.Options{}, err
	}
	return packer.Options{
		Page:         page,
		Margin:       o.Margin,
		ScaleFloor:   o.ScaleFloor,
		AllowUpscale: o.AllowUpscale,
	}, nil
}

// PlanKeyOpts returns cache key options for the packing stage.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	page, _ := o.PageSize()
	return cache.PlanKeyOpts{
		PageW:        page.W,
		PageH:        page.H,
		Margin:       o.Margin,
		ScaleFloor:   o.ScaleFloor,
		AllowUpscale: o.AllowUpscale,
		Center:       o.Center,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		JPEGQuality: o.JPEGQuality,
		Background:  o.Background,
	}
}

// ParseBackground resolves a background color name or "#rrggbb" hex
// string into a color.
func ParseBackground(s string) (color.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "white":
		return color.White, nil
	case "black":
		return color.Black, nil
	}

	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid background %q: want white, black, or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid background %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
