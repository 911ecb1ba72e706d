package text

import (
	"strings"

	"github.com/gogpu/canvas"
)

// Metrics describes text laid out so far: the bounds of the glyphs around
// the layout origin and the current pen position.
type Metrics struct {
	MinX, MinY float32
	MaxX, MaxY float32

	// X, Y is where the next glyph would be placed.
	X, Y float32
}

// layoutAction is one element of a line: either a positioned glyph or a
// drawing operation slotted in between glyphs (a fill color change, say).
type layoutAction struct {
	glyph   canvas.GlyphPosition
	draw    canvas.Draw
	isGlyph bool
}

// LineLayout lays text out along a baseline. Text accumulates with
// AddText; drawing operations can be interleaved with Draw; Align shifts
// the finished line onto its anchor point; ToDrawing converts the result
// into Font DrawGlyphs operations.
//
// Positions start at the origin, so a line is normally built at (0,0) and
// aligned onto its anchor once complete.
type LineLayout struct {
	face   *Face
	shaper Shaper
	emSize float32

	pending strings.Builder
	actions []layoutAction

	xOff, yOff float32
	metrics    Metrics
	hasGlyphs  bool
}

// NewLineLayout starts an empty line in the given font and size.
func NewLineLayout(face *Face, emSize float32, shaper Shaper) *LineLayout {
	return &LineLayout{face: face, shaper: shaper, emSize: emSize}
}

// AddText appends text at the current pen position. Shaping is deferred
// until the glyphs or the pen position are needed, so consecutive calls
// shape as one run.
func (l *LineLayout) AddText(text string) {
	l.pending.WriteString(text)
}

// Draw inserts drawing operations between the glyphs laid out so far and
// those that follow.
func (l *LineLayout) Draw(ops ...canvas.Draw) {
	l.layoutPending()
	for _, op := range ops {
		l.actions = append(l.actions, layoutAction{draw: op})
	}
}

// Advance moves the pen without drawing anything.
func (l *LineLayout) Advance(dx, dy float32) {
	l.layoutPending()
	l.xOff += dx
	l.yOff += dy
}

// Measure lays out any pending text and reports the line's metrics.
func (l *LineLayout) Measure() Metrics {
	l.layoutPending()
	m := l.metrics
	m.X, m.Y = l.xOff, l.yOff
	return m
}

// Align shifts every glyph so the line sits at the anchor point with the
// requested alignment. The pen position is not adjusted: Align is meant as
// the final step before ToDrawing or ToGlyphs.
func (l *LineLayout) Align(x, y float32, align canvas.TextAlignment) {
	l.layoutPending()

	xOffset := x
	switch align {
	case canvas.AlignRight:
		xOffset = x - l.metrics.MaxX
	case canvas.AlignCenter:
		xOffset = x - (l.metrics.MaxX+l.metrics.MinX)/2
	}

	for i := range l.actions {
		a := &l.actions[i]
		if a.isGlyph {
			a.glyph.X += xOffset
			a.glyph.Y += y
			continue
		}
		// Glyph runs flushed by ContinueWithFont move with the line.
		if f, ok := a.draw.(canvas.Font); ok {
			if dg, ok := f.Op.(canvas.DrawGlyphs); ok {
				for j := range dg.Glyphs {
					dg.Glyphs[j].X += xOffset
					dg.Glyphs[j].Y += y
				}
			}
		}
	}
}

// ContinueWithFont finishes layout in the current font and returns a new
// layout that carries on from the same pen position in another font (or
// the same font at a new size). lastFont identifies the font the glyphs
// so far should render with.
func (l *LineLayout) ContinueWithFont(lastFont canvas.FontId, face *Face, emSize float32) *LineLayout {
	l.layoutPending()

	next := NewLineLayout(face, emSize, l.shaper)
	for _, op := range l.ToDrawing(lastFont) {
		next.actions = append(next.actions, layoutAction{draw: op})
	}
	next.xOff, next.yOff = l.xOff, l.yOff
	next.metrics = l.metrics
	next.hasGlyphs = l.hasGlyphs
	return next
}

// ToGlyphs lays out any pending text and returns just the glyph positions,
// discarding interleaved drawing operations.
func (l *LineLayout) ToGlyphs() []canvas.GlyphPosition {
	l.layoutPending()
	var glyphs []canvas.GlyphPosition
	for _, a := range l.actions {
		if a.isGlyph {
			glyphs = append(glyphs, a.glyph)
		}
	}
	return glyphs
}

// ToDrawing lays out any pending text and converts the line into drawing
// operations: consecutive glyphs coalesce into DrawGlyphs runs for fontId,
// interleaved with the operations added by Draw.
func (l *LineLayout) ToDrawing(fontId canvas.FontId) []canvas.Draw {
	l.layoutPending()

	var (
		out []canvas.Draw
		run []canvas.GlyphPosition
	)
	flush := func() {
		if len(run) > 0 {
			out = append(out, canvas.Font{Id: fontId, Op: canvas.DrawGlyphs{Glyphs: run}})
			run = nil
		}
	}
	for _, a := range l.actions {
		if a.isGlyph {
			run = append(run, a.glyph)
			continue
		}
		flush()
		out = append(out, a.draw)
	}
	flush()
	return out
}

// layoutPending shapes the accumulated text into glyph actions at the
// current pen position.
func (l *LineLayout) layoutPending() {
	if l.pending.Len() == 0 {
		return
	}
	pending := l.pending.String()
	l.pending.Reset()

	if l.face == nil || l.shaper == nil {
		return
	}
	run := l.shaper.Shape(pending, l.face, l.emSize)
	if len(run.Glyphs) == 0 {
		return
	}

	for _, g := range run.Glyphs {
		g.X += l.xOff
		g.Y += l.yOff
		l.actions = append(l.actions, layoutAction{glyph: g, isGlyph: true})
	}

	lastX := l.xOff
	l.xOff += run.Advance
	l.unionBounds(lastX, l.yOff+run.Descent, l.xOff, l.yOff+run.Ascent)
}

func (l *LineLayout) unionBounds(minX, minY, maxX, maxY float32) {
	if !l.hasGlyphs {
		l.metrics.MinX, l.metrics.MinY = minX, minY
		l.metrics.MaxX, l.metrics.MaxY = maxX, maxY
		l.hasGlyphs = true
		return
	}
	if minX < l.metrics.MinX {
		l.metrics.MinX = minX
	}
	if minY < l.metrics.MinY {
		l.metrics.MinY = minY
	}
	if maxX > l.metrics.MaxX {
		l.metrics.MaxX = maxX
	}
	if maxY > l.metrics.MaxY {
		l.metrics.MaxY = maxY
	}
}
