package curves

// CurvePoint is one cubic bezier section of a path: two control points
// followed by the end point. The section's start point is the previous
// section's end point (or the path's start point for the first section).
type CurvePoint struct {
	Cp1, Cp2 Coord2
	End      Coord2
}

// Path is a sequence of cubic bezier sections beginning at Start. Paths
// used with GraphPath are treated as closed: the last end point is
// expected to coincide with the start point, and a closing section is
// synthesised when it does not.
type Path struct {
	Start  Coord2
	Points []CurvePoint
}

// NewPath returns a path starting at start with no sections.
func NewPath(start Coord2) *Path {
	return &Path{Start: start}
}

// CurveTo appends a cubic bezier section ending at end.
func (p *Path) CurveTo(cp1, cp2, end Coord2) *Path {
	p.Points = append(p.Points, CurvePoint{Cp1: cp1, Cp2: cp2, End: end})
	return p
}

// LineTo appends a straight section ending at end. The control points
// are placed a third and two thirds of the way along the line, so the
// section traces the line at uniform speed.
func (p *Path) LineTo(end Coord2) *Path {
	start := p.lastPoint()
	d := end.Sub(start)
	return p.CurveTo(start.Add(d.Mul(1.0/3.0)), start.Add(d.Mul(2.0/3.0)), end)
}

// Close appends a straight section back to the start point, unless the
// path already ends there.
func (p *Path) Close() *Path {
	if p.lastPoint().IsNearTo(p.Start, SmallDistance) {
		return p
	}
	return p.LineTo(p.Start)
}

func (p *Path) lastPoint() Coord2 {
	if len(p.Points) == 0 {
		return p.Start
	}
	return p.Points[len(p.Points)-1].End
}

// Curves returns the sections of the path as curves.
func (p *Path) Curves() []Curve {
	curves := make([]Curve, len(p.Points))
	start := p.Start
	for i, pt := range p.Points {
		curves[i] = Curve{Start: start, Cp1: pt.Cp1, Cp2: pt.Cp2, End: pt.End}
		start = pt.End
	}
	return curves
}

// BoundingBox returns the bounds of the path's curves. An empty path
// has zero-size bounds at its start point.
func (p *Path) BoundingBox() Bounds {
	bounds := Bounds{Min: p.Start, Max: p.Start}
	start := p.Start
	for _, pt := range p.Points {
		c := Curve{Start: start, Cp1: pt.Cp1, Cp2: pt.Cp2, End: pt.End}
		bounds = bounds.Union(c.BoundingBox())
		start = pt.End
	}
	return bounds
}

// IsClockwise reports whether the path winds clockwise. The winding is
// estimated from the anchor points alone (control points are ignored),
// which is exact for paths whose sections do not loop back on
// themselves.
func (p *Path) IsClockwise() bool {
	sum := 0.0
	last := p.Start
	for _, pt := range p.Points {
		sum += (pt.End.X - last.X) * (pt.End.Y + last.Y)
		last = pt.End
	}
	sum += (p.Start.X - last.X) * (p.Start.Y + last.Y)
	return sum > 0.0
}

// Reversed returns the path traced in the opposite direction.
func (p *Path) Reversed() *Path {
	if len(p.Points) == 0 {
		return &Path{Start: p.Start}
	}
	rev := &Path{Start: p.lastPoint(), Points: make([]CurvePoint, 0, len(p.Points))}
	for i := len(p.Points) - 1; i >= 0; i-- {
		end := p.Start
		if i > 0 {
			end = p.Points[i-1].End
		}
		rev.Points = append(rev.Points, CurvePoint{
			Cp1: p.Points[i].Cp2,
			Cp2: p.Points[i].Cp1,
			End: end,
		})
	}
	return rev
}
