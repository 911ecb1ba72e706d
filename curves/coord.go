package curves

import "math"

// Distances used when deciding whether two points are really the same.
const (
	// SmallDistance is the resolution below which geometry is considered
	// degenerate.
	SmallDistance = 0.001

	// CloseDistance is the snapping radius: points closer than this are
	// merged when building or colliding graphs.
	CloseDistance = 0.01

	// smallT is the difference between curve parameters considered equal.
	smallT = 1e-6
)

// Coord2 is a 2D coordinate. Path and curve geometry is computed in
// float64: intersection and healing work at tolerances well below what
// float32 can represent once coordinates leave the unit square.
type Coord2 struct {
	X, Y float64
}

// C2 is shorthand for Coord2{x, y}.
func C2(x, y float64) Coord2 {
	return Coord2{X: x, Y: y}
}

// Add returns c + o.
func (c Coord2) Add(o Coord2) Coord2 {
	return Coord2{c.X + o.X, c.Y + o.Y}
}

// Sub returns c - o.
func (c Coord2) Sub(o Coord2) Coord2 {
	return Coord2{c.X - o.X, c.Y - o.Y}
}

// Mul returns the coordinate scaled by s.
func (c Coord2) Mul(s float64) Coord2 {
	return Coord2{c.X * s, c.Y * s}
}

// Dot returns the dot product of two coordinates.
func (c Coord2) Dot(o Coord2) float64 {
	return c.X*o.X + c.Y*o.Y
}

// Magnitude returns the distance from the origin.
func (c Coord2) Magnitude() float64 {
	return math.Sqrt(c.X*c.X + c.Y*c.Y)
}

// Distance returns the distance between two coordinates.
func (c Coord2) Distance(o Coord2) float64 {
	return c.Sub(o).Magnitude()
}

// IsNearTo reports whether two coordinates are within distance of each
// other.
func (c Coord2) IsNearTo(o Coord2, distance float64) bool {
	dx := c.X - o.X
	dy := c.Y - o.Y
	return dx*dx+dy*dy < distance*distance
}

// Lerp linearly interpolates between c (t=0) and o (t=1).
func (c Coord2) Lerp(o Coord2, t float64) Coord2 {
	return Coord2{c.X + (o.X-c.X)*t, c.Y + (o.Y-c.Y)*t}
}

// minCoord and maxCoord combine coordinates componentwise.
func minCoord(a, b Coord2) Coord2 {
	return Coord2{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
}

func maxCoord(a, b Coord2) Coord2 {
	return Coord2{math.Max(a.X, b.X), math.Max(a.Y, b.Y)}
}

// Bounds is an axis-aligned bounding rectangle.
type Bounds struct {
	Min, Max Coord2
}

// Overlaps reports whether two bounds share any area. Touching edges
// count as overlapping.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{Min: minCoord(b.Min, o.Min), Max: maxCoord(b.Max, o.Max)}
}

// Width and Height of the bounds.
func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }
