package packer

import (
	"math"

	"github.com/matzehuels/sheetpack/pkg/geom"
)

// almostEqual compares floats with a relative tolerance suitable for
// page-sized coordinate arithmetic.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// fitScale returns the largest scale that makes size fit within region,
// capped at 1.0 unless upscaling is allowed. A non-positive result means
// the region is degenerate.
func fitScale(size geom.Size, region geom.Rect, allowUpscale bool) float64 {
	s := math.Min(region.W/size.W, region.H/size.H)
	if !allowUpscale && s > 1 {
		s = 1
	}
	return s
}

// waste returns the leftover area of region after placing size scaled
// by scale.
func waste(size geom.Size, scale float64, region geom.Rect) float64 {
	return region.Area() - size.Scaled(scale).Area()
}

// scanBefore reports whether region a comes before b in top-left to
// bottom-right scan order. Used as the deterministic tie-break when two
// regions yield equal waste.
func scanBefore(a, b geom.Rect) bool {
	if !almostEqual(a.Y, b.Y) {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// splitRegion carves a placed rectangle of the given size out of the
// top-left corner of region and returns the up-to-two remaining free
// strips. The L-shaped leftover is split along the axis that keeps the
// larger strip whole (minimize the smaller area), so large follow-up
// rectangles stay placeable.
func splitRegion(region geom.Rect, placed geom.Size) []geom.Rect {
	leftoverW := region.W - placed.W
	leftoverH := region.H - placed.H

	// Maximize the larger leftover rectangle.
	splitHorizontal := placed.W*leftoverH > leftoverW*placed.H

	bottom := geom.NewRect(region.X, region.Y+placed.H, placed.W, leftoverH)
	right := geom.NewRect(region.X+placed.W, region.Y, leftoverW, region.H)
	if splitHorizontal {
		bottom.W = region.W
		right.H = placed.H
	}

	var out []geom.Rect
	if bottom.W > 1e-9 && bottom.H > 1e-9 {
		out = append(out, bottom)
	}
	if right.W > 1e-9 && right.H > 1e-9 {
		out = append(out, right)
	}
	return out
}

// mergeFree joins pairs of free regions that together form a rectangle:
// equal-width regions stacked vertically, or equal-height regions side
// by side. One pass catches the pairs produced by a single split; the
// list stays small so repeated passes are not worth their cost.
func mergeFree(free []geom.Rect) []geom.Rect {
	for i := 0; i < len(free); i++ {
		for j := i + 1; j < len(free); j++ {
			a, b := free[i], free[j]
			switch {
			case almostEqual(a.W, b.W) && almostEqual(a.X, b.X) && almostEqual(a.Bottom(), b.Y):
				a.H += b.H
			case almostEqual(a.W, b.W) && almostEqual(a.X, b.X) && almostEqual(b.Bottom(), a.Y):
				a.Y = b.Y
				a.H += b.H
			case almostEqual(a.H, b.H) && almostEqual(a.Y, b.Y) && almostEqual(a.Right(), b.X):
				a.W += b.W
			case almostEqual(a.H, b.H) && almostEqual(a.Y, b.Y) && almostEqual(b.Right(), a.X):
				a.X = b.X
				a.W += b.W
			default:
				continue
			}
			free[i] = a
			free = append(free[:j], free[j+1:]...)
			j--
		}
	}
	return free
}
