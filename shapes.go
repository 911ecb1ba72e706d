package canvas

// Shape helpers return the operations for common shapes, ready to append
// to a drawing ahead of a Fill or Stroke. None of them start a new path,
// so several shapes can be combined into one path with holes under the
// even-odd winding rule.

// kappa scales a radius to the control point offset that makes four cubic
// beziers approximate a circle: 4/3 * (sqrt(2) - 1).
const kappa = 0.5522848

// Rect returns the operations for an axis-aligned rectangle between two
// corners.
func Rect(x1, y1, x2, y2 float32) []Draw {
	return []Draw{
		Move{x1, y1},
		Line{x1, y2},
		Line{x2, y2},
		Line{x2, y1},
		Line{x1, y1},
		ClosePath{},
	}
}

// Circle returns the operations for a circle, as four bezier sections.
func Circle(centerX, centerY, radius float32) []Draw {
	return Ellipse(centerX, centerY, radius, radius)
}

// Ellipse returns the operations for an axis-aligned ellipse with the
// given radii.
func Ellipse(centerX, centerY, radiusX, radiusY float32) []Draw {
	ox := radiusX * kappa
	oy := radiusY * kappa
	cx := centerX
	cy := centerY

	return []Draw{
		Move{cx + radiusX, cy},
		BezierCurve{Pt(cx+radiusX, cy+oy), Pt(cx+ox, cy+radiusY), Pt(cx, cy+radiusY)},
		BezierCurve{Pt(cx-ox, cy+radiusY), Pt(cx-radiusX, cy+oy), Pt(cx-radiusX, cy)},
		BezierCurve{Pt(cx-radiusX, cy-oy), Pt(cx-ox, cy-radiusY), Pt(cx, cy-radiusY)},
		BezierCurve{Pt(cx+ox, cy-radiusY), Pt(cx+radiusX, cy-oy), Pt(cx+radiusX, cy)},
		ClosePath{},
	}
}
