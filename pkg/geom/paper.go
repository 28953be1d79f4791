package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a conversion factor from a measurement unit to PDF points
// (1/72 inch), the base unit used throughout the layout engine.
type Unit float64

// Supported measurement units.
const (
	Pt Unit = 1
	In Unit = 72
	Cm Unit = 72 / 2.54
	Mm Unit = 72 / 25.4
	Px Unit = 72.0 / 96 // pixels at 96 DPI
)

// ParseUnit resolves a unit name to its conversion factor.
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(name) {
	case "", "pt", "point", "points":
		return Pt, nil
	case "in", "inch", "inches":
		return In, nil
	case "cm":
		return Cm, nil
	case "mm":
		return Mm, nil
	case "px", "pixel", "pixels":
		return Px, nil
	}
	return 0, fmt.Errorf("unknown unit: %q (must be pt, in, cm, mm, or px)", name)
}

// ToPoints converts a value in the given unit to points.
func ToPoints(v float64, u Unit) float64 { return v * float64(u) }

// Standard paper sizes in points, portrait orientation.
var (
	A3     = Size{W: 842, H: 1191}
	A4     = Size{W: 595, H: 842}
	A5     = Size{W: 420, H: 595}
	Letter = Size{W: 612, H: 792}
	Legal  = Size{W: 612, H: 1008}
)

var paperSizes = map[string]Size{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// ParsePaper resolves a paper name ("a4", "letter", ...) or an explicit
// "WxH" pair in the given unit to a page size in points.
func ParsePaper(name string, u Unit) (Size, error) {
	if s, ok := paperSizes[strings.ToLower(name)]; ok {
		return s, nil
	}
	if w, h, ok := parseDimensions(name); ok {
		if w <= 0 || h <= 0 {
			return Size{}, fmt.Errorf("paper dimensions must be positive: %q", name)
		}
		return Size{W: ToPoints(w, u), H: ToPoints(h, u)}, nil
	}
	return Size{}, fmt.Errorf("unknown paper size: %q (must be a3, a4, a5, letter, legal, or WxH)", name)
}

// parseDimensions parses "WxH" with float components.
func parseDimensions(s string) (w, h float64, ok bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	h, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}
