// Package source defines the image loading boundary of the pipeline.
//
// A [Loader] turns some image origin (a directory, an upload, a test
// fixture) into a [Set]: decoded, background-composited, bounding-box
// cropped rasters plus their dimensions. All image-byte I/O happens
// here, before rectangles ever reach the packer. Files that cannot be
// decoded are reported as skipped with a DECODE_ERROR rather than
// silently dropped; the run continues without them.
package source

import (
	"context"
	"image"

	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// Loader produces an image set.
type Loader interface {
	Load(ctx context.Context) (*Set, error)
}

// Skip records a file that was excluded from the run and why.
type Skip struct {
	Ref string
	Err error
}

// Set is the loaded, preprocessed image collection. Dims preserve the
// loader's deterministic ordering and feed the rectangle normalizer;
// the decoded pixels are retained for the PDF and preview sinks.
type Set struct {
	Dims    []sheet.Dim
	Skipped []Skip

	images map[string]image.Image
}

// NewSet builds a set from decoded images in the given order.
func NewSet() *Set {
	return &Set{images: make(map[string]image.Image)}
}

// Add appends a decoded image under ref.
func (s *Set) Add(ref string, img image.Image) {
	b := img.Bounds()
	s.Dims = append(s.Dims, sheet.Dim{
		Ref:    ref,
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
	})
	s.images[ref] = img
}

// AddSkip records a file excluded from the run.
func (s *Set) AddSkip(ref string, err error) {
	s.Skipped = append(s.Skipped, Skip{Ref: ref, Err: err})
}

// Image returns the decoded pixels for ref. It satisfies the render
// sinks' image opener interface.
func (s *Set) Image(ref string) (image.Image, error) {
	img, ok := s.images[ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no image loaded for %q", ref)
	}
	return img, nil
}

// Len returns the number of loaded images.
func (s *Set) Len() int { return len(s.Dims) }
