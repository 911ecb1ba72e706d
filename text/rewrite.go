package text

import (
	"github.com/gogpu/canvas"
)

// Layouter rewrites a drawing so text arrives at the renderer as
// positioned glyphs. DrawText and the BeginLineLayout / LayoutText /
// DrawLaidOutText group are consumed and replaced by Font DrawGlyphs
// operations; everything else passes through unchanged. Font definitions
// and sizes are tracked per namespace, so independent drawing sources keep
// their fonts separate.
//
// A Layouter is stateful: feed it the complete drawing stream, in order,
// from one goroutine.
type Layouter struct {
	registry *FaceRegistry
	shaper   Shaper

	namespace canvas.NamespaceId
	nsStack   []canvas.NamespaceId

	line     *LineLayout
	lineFont canvas.FontId
	hasLine  bool

	anchorX, anchorY float32
	align            canvas.TextAlignment
}

// LayouterOption configures a Layouter.
type LayouterOption func(*Layouter)

// WithShaper substitutes the shaper used to turn strings into glyphs. The
// default is a HarfBuzz shaper.
func WithShaper(s Shaper) LayouterOption {
	return func(l *Layouter) { l.shaper = s }
}

// WithRegistry shares a face registry between layouters.
func WithRegistry(r *FaceRegistry) LayouterOption {
	return func(l *Layouter) { l.registry = r }
}

// NewLayouter creates a layouter with no fonts defined.
func NewLayouter(opts ...LayouterOption) *Layouter {
	l := &Layouter{}
	for _, opt := range opts {
		opt(l)
	}
	if l.shaper == nil {
		l.shaper = NewShaper()
	}
	if l.registry == nil {
		l.registry = NewFaceRegistry()
	}
	return l
}

// Layout rewrites a batch of operations. The result is the input with text
// layout operations replaced by glyph runs.
func (l *Layouter) Layout(ops []canvas.Draw) []canvas.Draw {
	out := make([]canvas.Draw, 0, len(ops))
	for _, op := range ops {
		out = l.Append(out, op)
	}
	return out
}

// Append processes one operation, appending whatever the renderer should
// see to dst. Most operations append themselves; text layout operations
// append nothing until a completed line is ready.
func (l *Layouter) Append(dst []canvas.Draw, op canvas.Draw) []canvas.Draw {
	switch op := op.(type) {
	case canvas.Namespace:
		l.namespace = op.Id
		return append(dst, op)

	case canvas.PushState:
		l.nsStack = append(l.nsStack, l.namespace)
		return append(dst, op)

	case canvas.PopState:
		if n := len(l.nsStack); n > 0 {
			l.namespace = l.nsStack[n-1]
			l.nsStack = l.nsStack[:n-1]
		}
		return append(dst, op)

	case canvas.Font:
		return l.fontOp(dst, op)

	case canvas.BeginLineLayout:
		// Starting a new line abandons any unfinished one.
		l.dropLine()
		l.anchorX, l.anchorY = op.X, op.Y
		l.align = op.Align
		return dst

	case canvas.DrawLaidOutText:
		if !l.hasLine {
			return dst
		}
		line, fontId := l.line, l.lineFont
		l.dropLine()
		line.Align(l.anchorX, l.anchorY, l.align)
		return append(dst, line.ToDrawing(fontId)...)

	case canvas.DrawText:
		face, size, ok := l.registry.Lookup(l.namespace, op.FontId)
		if !ok {
			return dst
		}
		line := NewLineLayout(face, size, l.shaper)
		line.AddText(op.Text)
		line.Align(op.X, op.Y, canvas.AlignLeft)
		return append(dst, line.ToDrawing(op.FontId)...)

	case canvas.FillColor:
		// Keep color changes positioned between the right glyphs.
		if l.hasLine {
			l.line.Draw(op)
		}
		return append(dst, op)

	case canvas.Layer, canvas.Sprite, canvas.ClearLayer:
		// These interrupt text layout.
		l.dropLine()
		return append(dst, op)

	case canvas.ClearCanvas:
		l.registry.Clear()
		l.dropLine()
		l.namespace = canvas.GlobalNamespace
		l.nsStack = l.nsStack[:0]
		return append(dst, op)

	default:
		return append(dst, op)
	}
}

// fontOp handles Font operations: definitions and sizes update the
// registry and pass through, LayoutText accumulates into the current line,
// glyph runs pass through untouched.
func (l *Layouter) fontOp(dst []canvas.Draw, op canvas.Font) []canvas.Draw {
	switch fontOp := op.Op.(type) {
	case canvas.UseFontDefinition:
		// A redefinition invalidates any layout in progress.
		l.dropLine()
		l.registry.Define(l.namespace, op.Id, fontOp.Data)
		return append(dst, op)

	case canvas.FontSize:
		if l.hasLine && l.lineFont == op.Id {
			l.line = l.line.ContinueWithFont(op.Id, l.line.face, fontOp.Size)
		}
		l.registry.SetSize(l.namespace, op.Id, fontOp.Size)
		return append(dst, op)

	case canvas.LayoutText:
		face, size, ok := l.registry.Lookup(l.namespace, op.Id)
		if !ok {
			return dst
		}
		if !l.hasLine {
			l.line = NewLineLayout(face, size, l.shaper)
			l.lineFont = op.Id
			l.hasLine = true
		} else if l.lineFont != op.Id {
			l.line = l.line.ContinueWithFont(l.lineFont, face, size)
			l.lineFont = op.Id
		}
		l.line.AddText(fontOp.Text)
		return dst

	default:
		return append(dst, op)
	}
}

func (l *Layouter) dropLine() {
	l.line = nil
	l.hasLine = false
}
