// Package geom provides the rectangle geometry shared by the packer and
// the page layout emitter. All coordinates are in user units (PDF points
// unless configured otherwise), with the origin at the top-left corner
// and y growing downwards.
package geom

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Area returns the area of the size.
func (s Size) Area() float64 { return s.W * s.H }

// AspectRatio returns width divided by height.
// Height must be non-zero.
func (s Size) AspectRatio() float64 { return s.W / s.H }

// Scaled returns the size with both dimensions multiplied by f.
func (s Size) Scaled(f float64) Size { return Size{W: s.W * f, H: s.H * f} }

// FitsIn reports whether the size fits inside other without scaling.
func (s Size) FitsIn(other Size) bool { return s.W <= other.W && s.H <= other.H }

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64
	Size
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, Size: Size{W: w, H: h}}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether other lies entirely within r, allowing a
// tolerance of eps on every edge.
func (r Rect) Contains(other Rect, eps float64) bool {
	return other.X >= r.X-eps &&
		other.Y >= r.Y-eps &&
		other.Right() <= r.Right()+eps &&
		other.Bottom() <= r.Bottom()+eps
}

// Overlaps reports whether r and other share interior area. Rectangles
// that merely touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Inset returns the rectangle shrunk by m on every side. If the margin
// consumes the whole rectangle, a zero-size rectangle at the center is
// returned.
func (r Rect) Inset(m float64) Rect {
	out := NewRect(r.X+m, r.Y+m, r.W-2*m, r.H-2*m)
	if out.W < 0 {
		out.X = r.X + r.W/2
		out.W = 0
	}
	if out.H < 0 {
		out.Y = r.Y + r.H/2
		out.H = 0
	}
	return out
}
