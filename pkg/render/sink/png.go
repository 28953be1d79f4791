package sink

import (
	"bytes"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale  float64
	labels bool
}

// WithScale sets the raster scale relative to page points. Scale 1 maps
// one point to one pixel; 0.5 halves the preview resolution.
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithLabels draws each placement's ref centered inside its box, even
// when images are drawn. Always on in wireframe mode.
func WithLabels() PNGOption { return func(r *pngRenderer) { r.labels = true } }

// RenderPNG rasterizes each page of the document to a PNG preview and
// returns one encoded image per page, in page order.
//
// With a non-nil opener, placements draw their source pixels resized to
// the planned size. With a nil opener, placements draw as outlined
// boxes labeled with their refs: a wireframe of the plan that needs no
// image data at all.
func RenderPNG(d sheet.Document, opener ImageOpener, opts ...PNGOption) ([][]byte, error) {
	r := pngRenderer{scale: 1.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) || math.IsInf(r.scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "png scale must be positive, got %g", r.scale)
	}
	if len(d.Pages) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "document has no pages")
	}

	out := make([][]byte, 0, len(d.Pages))
	for pi, page := range d.Pages {
		data, err := r.renderPage(page, opener)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "render page %d", pi)
		}
		out = append(out, data)
	}
	return out, nil
}

func (r *pngRenderer) renderPage(page sheet.PagePlan, opener ImageOpener) ([]byte, error) {
	w := int(math.Round(page.Size.W * r.scale))
	h := int(math.Round(page.Size.H * r.scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, pl := range page.Placements {
		x := pl.X * r.scale
		y := pl.Y * r.scale
		pw := pl.Width * r.scale
		ph := pl.Height * r.scale

		if opener != nil {
			img, err := opener.Image(pl.Ref)
			if err != nil {
				return nil, err
			}
			resized := imaging.Resize(img, int(math.Round(pw)), int(math.Round(ph)), imaging.Lanczos)
			dc.DrawImage(resized, int(math.Round(x)), int(math.Round(y)))
		} else {
			dc.SetRGB(0.93, 0.93, 0.97)
			dc.DrawRectangle(x, y, pw, ph)
			dc.Fill()
		}

		if opener == nil || r.labels {
			dc.SetRGB(0.25, 0.25, 0.3)
			dc.DrawRectangle(x, y, pw, ph)
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.DrawStringAnchored(pl.Ref, x+pw/2, y+ph/2, 0.5, 0.5)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
