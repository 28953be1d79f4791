// Package layout converts packer plans into final page plans with
// absolute page coordinates.
//
// Emission is a pure function of the plan: the packer works in
// usable-area coordinates, and this package adds margin offsets, applies
// optional centering, and clamps the result so every emitted coordinate
// lies within the page. Each page is emitted independently, so closed
// pages can be composed concurrently with packing if a caller wants to.
package layout

import (
	"math"

	"github.com/matzehuels/sheetpack/pkg/packer"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

// Options configures emission.
type Options struct {
	// Center shifts each page's placements uniformly so their collective
	// bounding box is centered in the usable area. For a page holding a
	// single image this is exactly the classic center-on-page behavior.
	Center bool
}

// Compose converts a packer plan into a document. The result satisfies
// the document invariants for the rectangles the plan was packed from:
// no overlap, containment within the usable area, and preserved aspect
// ratios.
func Compose(plan packer.Plan, opts Options) sheet.Document {
	doc := sheet.Document{Pages: make([]sheet.PagePlan, 0, len(plan.Pages))}
	for _, pg := range plan.Pages {
		doc.Pages = append(doc.Pages, composePage(plan, pg, opts))
	}
	return doc
}

func composePage(plan packer.Plan, pg packer.PageAssignments, opts Options) sheet.PagePlan {
	out := sheet.PagePlan{
		Size:       plan.PageSize,
		Margin:     plan.Margin,
		Placements: make([]sheet.Placement, 0, len(pg.Assignments)),
	}
	usable := out.Usable()

	var dx, dy float64
	if opts.Center {
		dx, dy = centerShift(pg.Assignments, usable.W, usable.H)
	}

	for _, a := range pg.Assignments {
		scaled := a.Rect.Size.Scaled(a.Scale)
		x := usable.X + a.Region.X + dx
		y := usable.Y + a.Region.Y + dy

		// Guard against float drift at the page edges.
		x = clamp(x, usable.X, usable.Right()-scaled.W)
		y = clamp(y, usable.Y, usable.Bottom()-scaled.H)

		out.Placements = append(out.Placements, sheet.Placement{
			Ref:    a.Rect.Ref,
			X:      x,
			Y:      y,
			Width:  scaled.W,
			Height: scaled.H,
			Scale:  a.Scale,
		})
	}
	return out
}

// centerShift computes the uniform translation that centers the bounding
// box of all assignments within the usable area. A uniform shift keeps
// relative positions intact, so placements cannot start overlapping.
func centerShift(assignments []packer.Assignment, usableW, usableH float64) (dx, dy float64) {
	if len(assignments) == 0 {
		return 0, 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, a := range assignments {
		scaled := a.Rect.Size.Scaled(a.Scale)
		minX = math.Min(minX, a.Region.X)
		minY = math.Min(minY, a.Region.Y)
		maxX = math.Max(maxX, a.Region.X+scaled.W)
		maxY = math.Max(maxY, a.Region.Y+scaled.H)
	}
	dx = (usableW-(maxX-minX))/2 - minX
	dy = (usableH-(maxY-minY))/2 - minY
	return dx, dy
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
