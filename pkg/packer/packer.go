package packer

import (
	"github.com/matzehuels/sheetpack/pkg/errors"
	"github.com/matzehuels/sheetpack/pkg/geom"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// DefaultScaleFloor is the minimum downscale factor applied when none is
// configured. Below one tenth of natural size most images stop being
// legible on paper.
const DefaultScaleFloor = 0.1

// Options configures a packing run.
type Options struct {
	// Page is the full page size in points.
	Page geom.Size

	// Margin is the reserved border on all four sides, in points.
	Margin float64

	// ScaleFloor is the smallest acceptable downscale factor before the
	// packer gives up on the current page and opens a new one.
	// Zero means DefaultScaleFloor.
	ScaleFloor float64

	// AllowUpscale permits scale factors above 1.0. Off by default so
	// images are never enlarged beyond their natural resolution.
	AllowUpscale bool
}

// Assignment binds one rectangle to the free region it was packed into
// and the uniform scale applied to it. Coordinates are relative to the
// page's usable area; the layout emitter converts them to absolute page
// coordinates.
type Assignment struct {
	Rect   sheet.Rectangle
	Region geom.Rect
	Scale  float64
}

// PageAssignments holds the assignments of one closed page, in placement
// order.
type PageAssignments struct {
	Assignments []Assignment
}

// Plan is the packer's output: one entry per page, in the order pages
// were opened, plus the page geometry the plan was computed for.
type Plan struct {
	PageSize geom.Size
	Margin   float64
	Pages    []PageAssignments
}

// Packer assigns rectangles to pages. A Packer is stateless between
// calls to Pack; the mutable free-region list lives on the stack of a
// single Pack invocation, keeping runs deterministic and isolated.
type Packer struct {
	opts   Options
	usable geom.Size
}

// New validates the options and creates a packer.
func New(opts Options) (*Packer, error) {
	if opts.Page.W <= 0 || opts.Page.H <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPaper,
			"page size must be positive, got %gx%g", opts.Page.W, opts.Page.H)
	}
	if opts.Margin < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"margin must be non-negative, got %g", opts.Margin)
	}
	usable := geom.NewRect(0, 0, opts.Page.W, opts.Page.H).Inset(opts.Margin)
	if usable.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"margin %g leaves no usable area on a %gx%g page",
			opts.Margin, opts.Page.W, opts.Page.H)
	}
	if opts.ScaleFloor == 0 {
		opts.ScaleFloor = DefaultScaleFloor
	}
	if opts.ScaleFloor < 0 || opts.ScaleFloor > 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"scale floor must be in (0, 1], got %g", opts.ScaleFloor)
	}
	return &Packer{opts: opts, usable: usable.Size}, nil
}

// page is the mutable state of the currently open page. The free-region
// list is owned exclusively by the packer until the page closes.
type page struct {
	free        []geom.Rect
	assignments []Assignment
}

func (p *Packer) openPage() *page {
	return &page{free: []geom.Rect{geom.NewRect(0, 0, p.usable.W, p.usable.H)}}
}

// Pack partitions rects into pages and assigns each a region and scale.
// Every rectangle is placed; packing cannot fail on normalized input.
// The same input and options always produce the same plan.
func (p *Packer) Pack(rects []sheet.Rectangle) Plan {
	plan := Plan{PageSize: p.opts.Page, Margin: p.opts.Margin}
	if len(rects) == 0 {
		return plan
	}

	cur := p.openPage()
	for _, r := range rects {
		idx, scale, ok := p.findRegion(cur, r)
		if !ok && len(cur.assignments) > 0 {
			// Current page is too full; close it and retry on a fresh one.
			plan.Pages = append(plan.Pages, PageAssignments{Assignments: cur.assignments})
			cur = p.openPage()
			idx, scale, ok = p.findRegion(cur, r)
		}
		if !ok {
			// The rectangle cannot reach the scale floor even on an empty
			// page. It goes alone at the maximum scale that fits.
			full := cur.free[0]
			p.place(cur, 0, r, fitScale(r.Size, full, p.opts.AllowUpscale))
			plan.Pages = append(plan.Pages, PageAssignments{Assignments: cur.assignments})
			cur = p.openPage()
			continue
		}
		p.place(cur, idx, r, scale)
	}

	if len(cur.assignments) > 0 {
		plan.Pages = append(plan.Pages, PageAssignments{Assignments: cur.assignments})
	}
	return plan
}

// findRegion selects the free region that minimizes leftover area after
// placing r at its best fitting scale, considering only regions where
// the scale stays at or above the floor. Equal-waste candidates are
// resolved by scan order.
func (p *Packer) findRegion(pg *page, r sheet.Rectangle) (idx int, scale float64, ok bool) {
	bestWaste := 0.0
	for i, region := range pg.free {
		s := fitScale(r.Size, region, p.opts.AllowUpscale)
		if s < p.opts.ScaleFloor {
			continue
		}
		w := waste(r.Size, s, region)
		switch {
		case !ok, w < bestWaste && !almostEqual(w, bestWaste):
			idx, scale, bestWaste, ok = i, s, w, true
		case almostEqual(w, bestWaste) && scanBefore(region, pg.free[idx]):
			idx, scale = i, s
		}
	}
	return idx, scale, ok
}

// place records the assignment and replaces the consumed region with the
// guillotine strips left over, merging the free list afterwards.
func (p *Packer) place(pg *page, idx int, r sheet.Rectangle, scale float64) {
	region := pg.free[idx]
	pg.assignments = append(pg.assignments, Assignment{
		Rect:   r,
		Region: region,
		Scale:  scale,
	})

	strips := splitRegion(region, r.Size.Scaled(scale))
	pg.free = append(pg.free[:idx], pg.free[idx+1:]...)
	pg.free = append(pg.free, strips...)
	pg.free = mergeFree(pg.free)
}

// Usable returns the per-page usable area the packer lays rectangles
// into, in points.
func (p *Packer) Usable() geom.Size { return p.usable }
