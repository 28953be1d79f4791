// Package local loads images from a directory on disk.
//
// Files are processed in sorted filename order so repeated runs see the
// same input sequence. Each image is decoded, composited onto a solid
// background (transparent pixels would otherwise render black in a
// JPEG-backed PDF), and cropped to the bounding box of its visible
// pixels, matching what the downstream packer expects: rectangles with
// no empty margins.
package local

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/source"

	// Decoders beyond the stdlib PNG/JPEG/GIF set.
	_ "github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// supported extensions, lower case.
var supportedExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Loader reads all supported images from Dir.
type Loader struct {
	// Dir is the input directory.
	Dir string

	// Background is the color transparent pixels are composited onto.
	// Nil means white.
	Background color.Color

	// OnProgress, if set, is called after each file with the number of
	// files handled so far, the total, and the current filename. Used
	// by the interactive CLI progress display.
	OnProgress func(done, total int, file string)
}

// String identifies the loader by its directory in logs and hooks.
func (l *Loader) String() string { return l.Dir }

// Load decodes, flattens, and crops every supported image in the
// directory. Undecodable files are recorded as skipped; Load fails only
// when the directory itself is unreadable or the context is cancelled.
func (l *Loader) Load(ctx context.Context) (*source.Set, error) {
	files, err := l.listFiles()
	if err != nil {
		return nil, err
	}

	bg := l.Background
	if bg == nil {
		bg = color.White
	}

	set := source.NewSet()
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(l.Dir, name)
		img, err := imaging.Open(path)
		if err != nil {
			set.AddSkip(name, errors.Wrap(errors.ErrCodeDecode, err, "decode %s", name))
		} else {
			set.Add(name, Preprocess(img, bg))
		}

		if l.OnProgress != nil {
			l.OnProgress(i+1, len(files), name)
		}
	}
	return set, nil
}

func (l *Loader) listFiles() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", l.Dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExt[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Preprocess crops an image to the bounding box of its visible pixels
// and composites it onto a solid background. A fully transparent image
// keeps its full bounds rather than collapsing to nothing.
func Preprocess(img image.Image, bg color.Color) image.Image {
	nrgba := imaging.Clone(img)

	bounds := visibleBounds(nrgba)
	if bounds.Empty() {
		bounds = nrgba.Bounds()
	}
	cropped := imaging.Crop(nrgba, bounds)

	flat := imaging.New(cropped.Bounds().Dx(), cropped.Bounds().Dy(), bg)
	return imaging.Overlay(flat, cropped, image.Pt(0, 0), 1.0)
}

// visibleBounds returns the minimal rectangle around pixels with a
// non-zero alpha channel.
func visibleBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X, b.Min.Y

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px >= maxX {
				maxX = px + 1
			}
			if y < minY {
				minY = y
			}
			if y >= maxY {
				maxY = y + 1
			}
		}
	}

	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}
