package sink

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/phpdave11/gofpdf"

	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// DefaultJPEGQuality is the JPEG quality used when none is configured.
const DefaultJPEGQuality = 85

// ImageOpener supplies decoded pixels for a placement ref. source.Set
// implements it; tests can substitute fixtures.
type ImageOpener interface {
	Image(ref string) (image.Image, error)
}

// PDFOption configures PDF rendering via [RenderPDF].
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	quality int
}

// WithJPEGQuality sets the JPEG quality (1-100) used when embedding
// images. Higher is larger and sharper.
func WithJPEGQuality(q int) PDFOption { return func(r *pdfRenderer) { r.quality = q } }

// RenderPDF renders the document as a multi-page PDF. Page dimensions
// are taken from each page plan; placements are drawn at their planned
// coordinates, in points, from the top-left corner.
//
// Every image is re-encoded as JPEG before embedding. Loaders composite
// transparency onto a solid background, so the lossy format costs no
// visible fidelity while keeping output size proportional to quality
// rather than to raw pixel count.
func RenderPDF(d sheet.Document, opener ImageOpener, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{quality: DefaultJPEGQuality}
	for _, opt := range opts {
		opt(&r)
	}
	if r.quality < 1 || r.quality > 100 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "jpeg quality %d out of range 1-100", r.quality)
	}
	if opener == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pdf rendering requires an image opener")
	}
	if len(d.Pages) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "document has no pages")
	}

	first := d.Pages[0].Size
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: first.W, Ht: first.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	registered := make(map[string]bool)
	for pi, page := range d.Pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.Size.W, Ht: page.Size.H})

		for _, pl := range page.Placements {
			if !registered[pl.Ref] {
				if err := r.registerImage(pdf, opener, pl.Ref); err != nil {
					return nil, err
				}
				registered[pl.Ref] = true
			}
			pdf.ImageOptions(pl.Ref, pl.X, pl.Y, pl.Width, pl.Height, false,
				gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
		}
		if pdf.Err() {
			return nil, errors.Wrap(errors.ErrCodeRender, pdf.Error(), "render page %d", pi)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) registerImage(pdf *gofpdf.Fpdf, opener ImageOpener, ref string) error {
	img, err := opener.Image(ref)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "open image %q", ref)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "encode %q", ref)
	}

	pdf.RegisterImageOptionsReader(ref, gofpdf.ImageOptions{ImageType: "JPG"}, &buf)
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return errors.Wrap(errors.ErrCodeRender, err, "register %q", ref)
	}
	return nil
}
