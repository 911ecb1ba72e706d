package canvas

// Paths are built as a sequence of operations rather than a standalone
// structure: NewPath begins one, Move/Line/BezierCurve extend it, and it
// stays current until the next NewPath. Fill, Stroke and Clip all act on
// the current path, so one path can be filled and stroked without being
// respecified.

// NewPath starts a new, empty path.
type NewPath struct{}

// Move starts a new subpath at a point.
type Move struct {
	X, Y float32
}

// Line adds a straight line from the current position.
type Line struct {
	X, Y float32
}

// BezierCurve adds a cubic bezier section from the current position to End,
// shaped by the two control points.
type BezierCurve struct {
	Cp1, Cp2 Point
	End      Point
}

// ClosePath closes the current subpath with a line back to where it began.
type ClosePath struct{}

func (NewPath) drawOp()     {}
func (Move) drawOp()        {}
func (Line) drawOp()        {}
func (BezierCurve) drawOp() {}
func (ClosePath) drawOp()   {}

func (NewPath) pathOp()     {}
func (Move) pathOp()        {}
func (Line) pathOp()        {}
func (BezierCurve) pathOp() {}
func (ClosePath) pathOp()   {}

// WindingRule decides which regions of a self-overlapping path count as
// inside when filling.
type WindingRule uint8

const (
	// WindingRuleNonZero fills regions whose signed crossing count is
	// non-zero, so overlapping loops in the same direction stay filled.
	WindingRuleNonZero WindingRule = iota

	// WindingRuleEvenOdd fills regions crossed an odd number of times,
	// so overlaps alternate between filled and unfilled.
	WindingRuleEvenOdd
)

// String implements fmt.Stringer.
func (w WindingRule) String() string {
	switch w {
	case WindingRuleNonZero:
		return "NonZero"
	case WindingRuleEvenOdd:
		return "EvenOdd"
	default:
		return "Unknown"
	}
}

// SetWindingRule selects the winding rule used by later Fill operations.
type SetWindingRule struct {
	Rule WindingRule
}

func (SetWindingRule) drawOp() {}
