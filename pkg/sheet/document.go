package sheet

import (
	"fmt"
	"math"

	"github.com/matzehuels/sheetpack/pkg/geom"
)

// aspectTol is the relative tolerance used when comparing aspect ratios.
const aspectTol = 1e-6

// Placement binds one source image to an absolute position and size on a
// page. Width and height carry the same uniform scale factor, so the
// aspect ratio of the source is preserved exactly.
type Placement struct {
	Ref    string  `json:"ref"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// Bounds returns the placement's bounding box.
func (p Placement) Bounds() geom.Rect {
	return geom.NewRect(p.X, p.Y, p.Width, p.Height)
}

// PagePlan is the complete, immutable placement layout for one output
// page. Plans are self-contained: a renderer needs nothing beyond the
// plan itself to draw the page.
type PagePlan struct {
	Size       geom.Size   `json:"size"`
	Margin     float64     `json:"margin"`
	Placements []Placement `json:"placements"`
}

// Usable returns the page area available for placements, i.e. the page
// minus its margin on all sides.
func (p PagePlan) Usable() geom.Rect {
	return geom.NewRect(0, 0, p.Size.W, p.Size.H).Inset(p.Margin)
}

// Document is the ordered sequence of page plans for one output file.
// Page order matches the order in which the packer opened pages, which
// in turn follows input order.
type Document struct {
	ID    string     `json:"id,omitempty"`
	Pages []PagePlan `json:"pages"`
}

// PlacementCount returns the total number of placements across all pages.
func (d Document) PlacementCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Placements)
	}
	return n
}

// Validate checks the document invariants against the rectangles it was
// packed from:
//
//   - conservation: every input rectangle appears in exactly one placement
//   - aspect preservation: each placement keeps its source aspect ratio
//   - packing validity: no two placements on a page overlap
//   - containment: every placement lies within its page's usable area
//
// It returns the first violation found. A valid empty document (zero
// rectangles, zero pages) passes.
func (d Document) Validate(rects []Rectangle) error {
	byRef := make(map[string]Rectangle, len(rects))
	for _, r := range rects {
		byRef[r.Ref] = r
	}

	seen := make(map[string]int, len(rects))
	for pi, page := range d.Pages {
		usable := page.Usable()
		for i, pl := range page.Placements {
			seen[pl.Ref]++

			src, ok := byRef[pl.Ref]
			if !ok {
				return fmt.Errorf("page %d: placement %q has no source rectangle", pi, pl.Ref)
			}
			if pl.Width <= 0 || pl.Height <= 0 {
				return fmt.Errorf("page %d: placement %q has non-positive size %gx%g",
					pi, pl.Ref, pl.Width, pl.Height)
			}

			want := src.AspectRatio()
			got := pl.Width / pl.Height
			if math.Abs(got-want) > aspectTol*math.Max(got, want) {
				return fmt.Errorf("page %d: placement %q distorts aspect ratio: %g != %g",
					pi, pl.Ref, got, want)
			}

			if !usable.Contains(pl.Bounds(), aspectTol) {
				return fmt.Errorf("page %d: placement %q exceeds usable area", pi, pl.Ref)
			}

			for j := 0; j < i; j++ {
				if pl.Bounds().Overlaps(page.Placements[j].Bounds()) {
					return fmt.Errorf("page %d: placements %q and %q overlap",
						pi, pl.Ref, page.Placements[j].Ref)
				}
			}
		}
	}

	for _, r := range rects {
		switch seen[r.Ref] {
		case 0:
			return fmt.Errorf("rectangle %q was dropped from the document", r.Ref)
		case 1:
			// exactly once, as required
		default:
			return fmt.Errorf("rectangle %q placed %d times", r.Ref, seen[r.Ref])
		}
	}
	if d.PlacementCount() != len(rects) {
		return fmt.Errorf("document has %d placements for %d rectangles",
			d.PlacementCount(), len(rects))
	}
	return nil
}
