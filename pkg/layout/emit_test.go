package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/sheetpack/pkg/geom"
	"github.com/matzehuels/sheetpack/pkg/packer"
	"github.com/matzehuels/sheetpack/pkg/sheet"
)

func pack(t *testing.T, opts packer.Options, rects []sheet.Rectangle) packer.Plan {
	t.Helper()
	p, err := packer.New(opts)
	if err != nil {
		t.Fatalf("packer.New() error = %v", err)
	}
	return p.Pack(rects)
}

func TestComposeSingleImageTopLeft(t *testing.T) {
	rects := []sheet.Rectangle{{Ref: "img", Size: geom.Size{W: 100, H: 200}}}
	plan := pack(t, packer.Options{Page: geom.Size{W: 595, H: 842}}, rects)

	doc := Compose(plan, Options{})
	if len(doc.Pages) != 1 || len(doc.Pages[0].Placements) != 1 {
		t.Fatalf("unexpected document shape: %+v", doc)
	}
	pl := doc.Pages[0].Placements[0]
	if pl.X != 0 || pl.Y != 0 {
		t.Errorf("placement at (%g,%g), want (0,0) with centering off", pl.X, pl.Y)
	}
	if pl.Width != 100 || pl.Height != 200 || pl.Scale != 1.0 {
		t.Errorf("placement size %gx%g scale %g, want 100x200 at 1.0", pl.Width, pl.Height, pl.Scale)
	}
}

func TestComposeSingleImageCentered(t *testing.T) {
	rects := []sheet.Rectangle{{Ref: "img", Size: geom.Size{W: 100, H: 200}}}
	plan := pack(t, packer.Options{Page: geom.Size{W: 595, H: 842}}, rects)

	doc := Compose(plan, Options{Center: true})
	pl := doc.Pages[0].Placements[0]
	if wantX := (595.0 - 100) / 2; math.Abs(pl.X-wantX) > 1e-9 {
		t.Errorf("X = %g, want %g", pl.X, wantX)
	}
	if wantY := (842.0 - 200) / 2; math.Abs(pl.Y-wantY) > 1e-9 {
		t.Errorf("Y = %g, want %g", pl.Y, wantY)
	}
}

func TestComposeAppliesMarginOffset(t *testing.T) {
	rects := []sheet.Rectangle{{Ref: "img", Size: geom.Size{W: 100, H: 100}}}
	plan := pack(t, packer.Options{Page: geom.A4, Margin: 36}, rects)

	doc := Compose(plan, Options{})
	pl := doc.Pages[0].Placements[0]
	if pl.X != 36 || pl.Y != 36 {
		t.Errorf("placement at (%g,%g), want margin corner (36,36)", pl.X, pl.Y)
	}
	if doc.Pages[0].Margin != 36 {
		t.Errorf("page margin = %g, want 36", doc.Pages[0].Margin)
	}
}

func TestComposeCenteringKeepsInvariants(t *testing.T) {
	var rects []sheet.Rectangle
	for i := 0; i < 30; i++ {
		rects = append(rects, sheet.Rectangle{
			Ref:  fmt.Sprintf("img-%d", i),
			Size: geom.Size{W: float64(60 + (i*131)%400), H: float64(60 + (i*71)%500)},
		})
	}
	plan := pack(t, packer.Options{Page: geom.A4, Margin: 24}, rects)

	for _, center := range []bool{false, true} {
		doc := Compose(plan, Options{Center: center})
		if err := doc.Validate(rects); err != nil {
			t.Errorf("center=%v: %v", center, err)
		}
	}
}

func TestComposeCenteringIsUniformPerPage(t *testing.T) {
	rects := []sheet.Rectangle{
		{Ref: "a", Size: geom.Size{W: 200, H: 200}},
		{Ref: "b", Size: geom.Size{W: 200, H: 200}},
	}
	plan := pack(t, packer.Options{Page: geom.A4}, rects)

	plain := Compose(plan, Options{})
	centered := Compose(plan, Options{Center: true})

	pp, cp := plain.Pages[0].Placements, centered.Pages[0].Placements
	dx0, dy0 := cp[0].X-pp[0].X, cp[0].Y-pp[0].Y
	dx1, dy1 := cp[1].X-pp[1].X, cp[1].Y-pp[1].Y
	if math.Abs(dx0-dx1) > 1e-9 || math.Abs(dy0-dy1) > 1e-9 {
		t.Errorf("centering shift not uniform: (%g,%g) vs (%g,%g)", dx0, dy0, dx1, dy1)
	}
}

func TestComposeCoordinatesWithinPage(t *testing.T) {
	var rects []sheet.Rectangle
	for i := 0; i < 20; i++ {
		rects = append(rects, sheet.Rectangle{
			Ref:  fmt.Sprintf("r%d", i),
			Size: geom.Size{W: float64(100 + i*90), H: float64(100 + i*70)},
		})
	}
	plan := pack(t, packer.Options{Page: geom.Letter, Margin: 30}, rects)
	doc := Compose(plan, Options{Center: true})

	for pi, pg := range doc.Pages {
		page := geom.NewRect(0, 0, pg.Size.W, pg.Size.H)
		for _, pl := range pg.Placements {
			if !page.Contains(pl.Bounds(), 1e-6) {
				t.Errorf("page %d: %q outside page bounds: %+v", pi, pl.Ref, pl.Bounds())
			}
		}
	}
}

func TestComposeEmptyPlan(t *testing.T) {
	doc := Compose(packer.Plan{PageSize: geom.A4}, Options{})
	if len(doc.Pages) != 0 {
		t.Errorf("empty plan should compose to zero pages, got %d", len(doc.Pages))
	}
}
