package packer

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/sheetpack/pkg/geom"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

func mustPacker(t *testing.T, opts Options) *Packer {
	t.Helper()
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func rect(ref string, w, h float64) sheet.Rectangle {
	return sheet.Rectangle{Ref: ref, Size: geom.Size{W: w, H: h}}
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero page", Options{}},
		{"negative margin", Options{Page: geom.A4, Margin: -1}},
		{"margin eats page", Options{Page: geom.A4, Margin: 500}},
		{"floor above one", Options{Page: geom.A4, ScaleFloor: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestPackEmptyInput(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.A4})
	plan := p.Pack(nil)
	if len(plan.Pages) != 0 {
		t.Errorf("empty input should produce zero pages, got %d", len(plan.Pages))
	}
}

// A single rectangle that fits at natural size is placed at the usable
// area's origin without scaling.
func TestPackSingleRectangleNaturalSize(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Size{W: 595, H: 842}, ScaleFloor: 0.1})
	plan := p.Pack([]sheet.Rectangle{rect("img", 100, 200)})

	if len(plan.Pages) != 1 || len(plan.Pages[0].Assignments) != 1 {
		t.Fatalf("want 1 page with 1 assignment, got %+v", plan.Pages)
	}
	a := plan.Pages[0].Assignments[0]
	if a.Scale != 1.0 {
		t.Errorf("scale = %g, want 1.0 (never upscale past natural size)", a.Scale)
	}
	if a.Region.X != 0 || a.Region.Y != 0 {
		t.Errorf("region at (%g,%g), want origin", a.Region.X, a.Region.Y)
	}
}

// Three half-page rectangles: two stack on the first page, the third
// opens a second page.
func TestPackHalfPageStacking(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Size{W: 595, H: 842}, ScaleFloor: 0.1})
	rects := []sheet.Rectangle{
		rect("a", 595, 421),
		rect("b", 595, 421),
		rect("c", 595, 421),
	}
	plan := p.Pack(rects)

	if len(plan.Pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(plan.Pages))
	}
	if got := len(plan.Pages[0].Assignments); got != 2 {
		t.Errorf("first page has %d assignments, want 2", got)
	}
	if got := len(plan.Pages[1].Assignments); got != 1 {
		t.Errorf("second page has %d assignments, want 1", got)
	}

	second := plan.Pages[0].Assignments[1]
	if second.Region.Y != 421 {
		t.Errorf("second rectangle stacked at y=%g, want 421", second.Region.Y)
	}
	for _, pg := range plan.Pages {
		for _, a := range pg.Assignments {
			if a.Scale != 1.0 {
				t.Errorf("assignment %q scaled to %g, want 1.0", a.Rect.Ref, a.Scale)
			}
		}
	}
}

// An oversized rectangle is downscaled to fit and still placed.
func TestPackOversizedRectangle(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Size{W: 595, H: 842}})
	plan := p.Pack([]sheet.Rectangle{rect("huge", 5950, 842)})

	if len(plan.Pages) != 1 || len(plan.Pages[0].Assignments) != 1 {
		t.Fatalf("want 1 page with 1 assignment, got %+v", plan.Pages)
	}
	a := plan.Pages[0].Assignments[0]
	want := 595.0 / 5950.0 // width is the binding dimension
	if math.Abs(a.Scale-want) > 1e-9 {
		t.Errorf("scale = %g, want %g", a.Scale, want)
	}
}

// A rectangle below the scale floor on a crowded page moves to a fresh
// page instead of shrinking into illegibility.
func TestPackScaleFloorOpensNewPage(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Size{W: 100, H: 100}, ScaleFloor: 0.5})
	rects := []sheet.Rectangle{
		rect("big", 100, 90), // leaves a 100x10 strip
		rect("tall", 50, 80), // would need scale 0.125 in the strip
	}
	plan := p.Pack(rects)

	if len(plan.Pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(plan.Pages))
	}
	a := plan.Pages[1].Assignments[0]
	if a.Scale < 0.5 {
		t.Errorf("scale %g violates floor 0.5", a.Scale)
	}
}

// A rectangle that cannot reach the floor even alone is placed alone at
// the maximum scale that fits.
func TestPackFloorWaivedOnFreshPage(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Size{W: 100, H: 100}, ScaleFloor: 0.5})
	plan := p.Pack([]sheet.Rectangle{
		rect("banner", 1000, 10),
		rect("after", 50, 50),
	})

	if len(plan.Pages) != 2 {
		t.Fatalf("want 2 pages, got %d", len(plan.Pages))
	}
	banner := plan.Pages[0].Assignments
	if len(banner) != 1 {
		t.Fatalf("banner page should hold exactly one assignment, got %d", len(banner))
	}
	if math.Abs(banner[0].Scale-0.1) > 1e-9 {
		t.Errorf("banner scale = %g, want 0.1", banner[0].Scale)
	}
}

func TestPackNeverUpscalesByDefault(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.A4})
	plan := p.Pack([]sheet.Rectangle{rect("tiny", 10, 10)})
	if s := plan.Pages[0].Assignments[0].Scale; s != 1.0 {
		t.Errorf("scale = %g, want 1.0", s)
	}
}

func TestPackUpscaleWhenConfigured(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Size{W: 100, H: 100}, AllowUpscale: true})
	plan := p.Pack([]sheet.Rectangle{rect("tiny", 10, 20)})
	if s := plan.Pages[0].Assignments[0].Scale; math.Abs(s-5.0) > 1e-9 {
		t.Errorf("scale = %g, want 5.0", s)
	}
}

// Conservation: every input rectangle lands in exactly one assignment,
// across a mix of sizes that spans several pages.
func TestPackConservation(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.A4, Margin: 20})

	var rects []sheet.Rectangle
	for i := 0; i < 40; i++ {
		w := float64(50 + (i*137)%500)
		h := float64(50 + (i*211)%700)
		rects = append(rects, rect(fmt.Sprintf("img-%02d", i), w, h))
	}

	plan := p.Pack(rects)
	seen := make(map[string]int)
	for _, pg := range plan.Pages {
		for _, a := range pg.Assignments {
			seen[a.Rect.Ref]++
		}
	}
	for _, r := range rects {
		if seen[r.Ref] != 1 {
			t.Errorf("rectangle %q placed %d times, want 1", r.Ref, seen[r.Ref])
		}
	}
}

// Packing validity: no two assignments on a page overlap, every
// assignment stays within the usable area, and the scale respects the
// floor or the rectangle sits alone on its page.
func TestPackGeometricInvariants(t *testing.T) {
	opts := Options{Page: geom.A4, Margin: 18, ScaleFloor: 0.2}
	p := mustPacker(t, opts)

	var rects []sheet.Rectangle
	for i := 0; i < 60; i++ {
		w := float64(30 + (i*97)%900)
		h := float64(30 + (i*61)%900)
		rects = append(rects, rect(fmt.Sprintf("r%d", i), w, h))
	}

	plan := p.Pack(rects)
	usable := geom.NewRect(0, 0, p.Usable().W, p.Usable().H)

	for pi, pg := range plan.Pages {
		boxes := make([]geom.Rect, len(pg.Assignments))
		for i, a := range pg.Assignments {
			scaled := a.Rect.Size.Scaled(a.Scale)
			boxes[i] = geom.NewRect(a.Region.X, a.Region.Y, scaled.W, scaled.H)

			if !usable.Contains(boxes[i], 1e-6) {
				t.Errorf("page %d: %q exceeds usable area: %+v", pi, a.Rect.Ref, boxes[i])
			}
			if a.Scale < opts.ScaleFloor && len(pg.Assignments) > 1 {
				t.Errorf("page %d: %q below floor (%g) but not alone", pi, a.Rect.Ref, a.Scale)
			}
		}
		for i := range boxes {
			for j := i + 1; j < len(boxes); j++ {
				if boxes[i].Overlaps(boxes[j]) {
					t.Errorf("page %d: %q overlaps %q", pi,
						pg.Assignments[i].Rect.Ref, pg.Assignments[j].Rect.Ref)
				}
			}
		}
	}
}

// Determinism: packing the same input twice yields identical plans.
func TestPackDeterminism(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.Letter, Margin: 36})

	var rects []sheet.Rectangle
	for i := 0; i < 25; i++ {
		rects = append(rects, rect(fmt.Sprintf("d%d", i),
			float64(40+(i*173)%400), float64(40+(i*89)%500)))
	}

	first := p.Pack(rects)
	second := p.Pack(rects)

	if len(first.Pages) != len(second.Pages) {
		t.Fatalf("page counts differ: %d vs %d", len(first.Pages), len(second.Pages))
	}
	for pi := range first.Pages {
		fa, sa := first.Pages[pi].Assignments, second.Pages[pi].Assignments
		if len(fa) != len(sa) {
			t.Fatalf("page %d: assignment counts differ", pi)
		}
		for i := range fa {
			if fa[i] != sa[i] {
				t.Errorf("page %d assignment %d differs: %+v vs %+v", pi, i, fa[i], sa[i])
			}
		}
	}
}

// Aspect preservation is structural (one scale for both axes), but the
// scaled sizes must still match the source ratio after arithmetic.
func TestPackAspectPreserved(t *testing.T) {
	p := mustPacker(t, Options{Page: geom.A5})
	rects := []sheet.Rectangle{
		rect("wide", 1200, 300),
		rect("tall", 200, 900),
		rect("square", 500, 500),
	}
	for _, pg := range p.Pack(rects).Pages {
		for _, a := range pg.Assignments {
			scaled := a.Rect.Size.Scaled(a.Scale)
			if math.Abs(scaled.AspectRatio()-a.Rect.AspectRatio()) > 1e-9 {
				t.Errorf("%q aspect drifted: %g vs %g",
					a.Rect.Ref, scaled.AspectRatio(), a.Rect.AspectRatio())
			}
		}
	}
}
