// Package sink provides output format renderers for packed documents.
//
// # Overview
//
// A "sink" transforms a computed [sheet.Document] into a final output
// format. This package provides renderers for:
//
//   - PDF: the primary print-ready output
//   - PNG: one raster preview per page
//   - JSON: document data export for external tools
//
// # PDF Output
//
// [RenderPDF] produces a multi-page PDF where every placement draws its
// source image at the planned position and size. Images are re-encoded
// as JPEG before embedding, which keeps large photo collections small;
// the quality is tunable:
//
//	pdf, err := sink.RenderPDF(doc, set,
//	    sink.WithJPEGQuality(90),
//	)
//
// The opener argument supplies decoded pixels by ref; [source.Set]
// implements it.
//
// # PNG Output
//
// [RenderPNG] rasterizes each page to a PNG preview. With a nil opener
// it draws outlined boxes with refs instead of pixels, which is useful
// for inspecting a plan without loading any images:
//
//	pages, err := sink.RenderPNG(doc, nil, sink.WithScale(0.5))
//
// # JSON Output
//
// [RenderJSON] exports the document as indented JSON, enabling:
//
//   - Caching computed plans for fast re-rendering
//   - The plan/render command split (plan once, render many)
//   - Integration with external tools
//
// # Adding New Formats
//
// To add a new output format:
//
//  1. Create a renderer function: func RenderFoo(d sheet.Document, opts ...FooOption) ([]byte, error)
//  2. Define option types for configuration
//  3. Walk d.Pages and each page's Placements for positions and sizes
//  4. Register in internal/cli/render.go for CLI support
//
// [sheet.Document]: github.com/matzehuels/sheetpack/pkg/sheet.Document
// [source.Set]: github.com/matzehuels/sheetpack/pkg/source.Set
package sink
