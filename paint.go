package canvas

// LineCap specifies the shape of stroked line endpoints.
type LineCap uint8

const (
	// LineCapButt ends strokes flat at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound ends strokes with a semicircle.
	LineCapRound
	// LineCapSquare ends strokes flat, half a line width past the endpoint.
	LineCapSquare
)

// String implements fmt.Stringer.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "Butt"
	case LineCapRound:
		return "Round"
	case LineCapSquare:
		return "Square"
	default:
		return "Unknown"
	}
}

// LineJoin specifies the shape of stroked line joins.
type LineJoin uint8

const (
	// LineJoinMiter joins lines with a sharp corner.
	LineJoinMiter LineJoin = iota
	// LineJoinRound joins lines with a circular arc.
	LineJoinRound
	// LineJoinBevel joins lines with a flat corner.
	LineJoinBevel
)

// String implements fmt.Stringer.
func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "Miter"
	case LineJoinRound:
		return "Round"
	case LineJoinBevel:
		return "Bevel"
	default:
		return "Unknown"
	}
}

// Fill fills the current path with the current fill colour, texture or
// gradient, using the current winding rule.
type Fill struct{}

// Stroke draws the outline of the current path with the current stroke
// colour and line settings.
type Stroke struct{}

// LineWidth sets the stroke width in canvas units.
type LineWidth struct {
	Width float32
}

// LineWidthPixels sets the stroke width in device pixels, so strokes keep
// their apparent width as the canvas transform changes.
type LineWidthPixels struct {
	Width float32
}

// SetLineJoin selects the join style for later strokes.
type SetLineJoin struct {
	Join LineJoin
}

// SetLineCap selects the cap style for later strokes.
type SetLineCap struct {
	Cap LineCap
}

// NewDashPattern clears the dash pattern so a new one can be defined with
// DashLength operations.
type NewDashPattern struct{}

// DashLength appends a dash (or gap, alternating) to the dash pattern.
type DashLength struct {
	Length float32
}

// DashOffset sets where in the dash pattern strokes begin.
type DashOffset struct {
	Offset float32
}

// StrokeColor sets the colour used by later Stroke operations.
type StrokeColor struct {
	Color Color
}

// FillColor sets the colour used by later Fill operations, replacing any
// fill texture or gradient.
type FillColor struct {
	Color Color
}

// FillTexture fills later paths with a texture, mapped so Min and Max are
// the corners of one copy of the texture.
type FillTexture struct {
	TextureId TextureId
	Min, Max  Point
}

// FillGradient fills later paths with a gradient running from Min to Max.
type FillGradient struct {
	GradientId GradientId
	Min, Max   Point
}

// FillTransform applies an extra transform to the current fill texture or
// gradient, without moving the path being filled.
type FillTransform struct {
	Transform Transform2D
}

// SetBlendMode selects how later fills and strokes composite onto the
// current layer.
type SetBlendMode struct {
	Mode BlendMode
}

func (Fill) drawOp()            {}
func (Stroke) drawOp()          {}
func (LineWidth) drawOp()       {}
func (LineWidthPixels) drawOp() {}
func (SetLineJoin) drawOp()     {}
func (SetLineCap) drawOp()      {}
func (NewDashPattern) drawOp()  {}
func (DashLength) drawOp()      {}
func (DashOffset) drawOp()      {}
func (StrokeColor) drawOp()     {}
func (FillColor) drawOp()       {}
func (FillTexture) drawOp()     {}
func (FillGradient) drawOp()    {}
func (FillTransform) drawOp()   {}
func (SetBlendMode) drawOp()    {}
