// Package sheet defines the data model shared by the packing pipeline:
// normalized source rectangles, per-page placements, and the multi-page
// document produced by the layout engine.
//
// # Data Flow
//
// Source images are reduced to [Dim] values (a reference plus pixel
// dimensions) by the loading collaborator. [Normalize] converts them to
// immutable [Rectangle] values, rejecting corrupt dimensions. The packer
// and emitter then produce a [Document]: an ordered list of [PagePlan]
// values, each holding the absolute [Placement] of every image on that
// page. Documents are self-contained and can be serialized to JSON for
// caching, the HTTP API, or the render command.
package sheet

import (
	"math"

	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/geom"
)

// Dim is a raw (reference, width, height) triple as reported by the
// image loading collaborator. Dimensions are in consistent units,
// typically pixels of the cropped source image.
type Dim struct {
	Ref    string  `json:"ref"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rectangle is the normalized representation of a source image: its
// reference and intrinsic dimensions. Rectangles are immutable once
// created and are discarded after placement.
type Rectangle struct {
	Ref string
	geom.Size
}

// Normalize converts raw dimensions into rectangles, preserving input
// order. It fails with an ErrCodeInvalidDimension error if any width or
// height is non-positive or non-finite, since that signals corrupt
// upstream data and aborts the whole run.
func Normalize(dims []Dim) ([]Rectangle, error) {
	rects := make([]Rectangle, 0, len(dims))
	for i, d := range dims {
		if err := checkDimension(d.Width); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDimension, err,
				"image %d (%s): width %g", i, d.Ref, d.Width)
		}
		if err := checkDimension(d.Height); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDimension, err,
				"image %d (%s): height %g", i, d.Ref, d.Height)
		}
		rects = append(rects, Rectangle{
			Ref:  d.Ref,
			Size: geom.Size{W: d.Width, H: d.Height},
		})
	}
	return rects, nil
}

func checkDimension(v float64) error {
	switch {
	case math.IsNaN(v):
		return errors.New(errors.ErrCodeInvalidDimension, "dimension is NaN")
	case math.IsInf(v, 0):
		return errors.New(errors.ErrCodeInvalidDimension, "dimension is infinite")
	case v <= 0:
		return errors.New(errors.ErrCodeInvalidDimension, "dimension must be positive")
	}
	return nil
}
