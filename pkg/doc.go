// Package pkg provides the core libraries for Sheetpack image packing.
//
// # Overview
//
// Sheetpack packs collections of images onto as few PDF pages as
// possible, keeping each image at its natural size unless a page cannot
// hold it. The pkg directory is organized into five main areas:
//
//  1. [packer] - The packing algorithm (page partitioning, region fitting)
//  2. [sheet] - Domain types (rectangles, placements, documents)
//  3. [source] - Image loading and preprocessing
//  4. [render] - Output sinks (PDF, PNG, JSON)
//  5. [pipeline] - Orchestration (load → pack → render) with caching
//
// # Architecture
//
// The typical data flow through Sheetpack:
//
//	Image directory / dimension list
//	         ↓
//	    [source] package (decode, flatten, crop)
//	         ↓
//	    [sheet] package (normalize dimensions into rectangles)
//	         ↓
//	    [packer] package (partition onto pages, assign regions and scales)
//	         ↓
//	    [layout] package (absolute page coordinates, margins, centering)
//	         ↓
//	    [render/sink] package (PDF, PNG, JSON output)
//
// # Quick Start
//
// Pack a directory of images into a PDF:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/sheetpack/pkg/pipeline"
//	    "github.com/matzehuels/sheetpack/pkg/source/local"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Loader:  &local.Loader{Dir: "./photos"},
//	    Paper:   "a4",
//	    Formats: []string{"pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("photos.pdf", result.Artifacts["pdf"], 0o644)
//
// # Supporting Packages
//
//   - [geom] - Sizes, rectangles, units, and paper formats
//   - [cache] - Plan and artifact caching (file, Redis, null backends)
//   - [errors] - Structured errors with machine-readable codes
//   - [observability] - Hook interfaces for metrics and tracing
//   - [buildinfo] - Version information injected at build time
//
// [packer]: github.com/matzehuels/sheetpack/pkg/packer
// [sheet]: github.com/matzehuels/sheetpack/pkg/sheet
// [source]: github.com/matzehuels/sheetpack/pkg/source
// [render/sink]: github.com/matzehuels/sheetpack/pkg/render/sink
// [pipeline]: github.com/matzehuels/sheetpack/pkg/pipeline
// [layout]: github.com/matzehuels/sheetpack/pkg/layout
// [geom]: github.com/matzehuels/sheetpack/pkg/geom
// [cache]: github.com/matzehuels/sheetpack/pkg/cache
// [errors]: github.com/matzehuels/sheetpack/pkg/errors
// [observability]: github.com/matzehuels/sheetpack/pkg/observability
// [buildinfo]: github.com/matzehuels/sheetpack/pkg/buildinfo
package pkg
