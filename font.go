package canvas

// TextAlignment positions laid-out text relative to its anchor point.
type TextAlignment uint8

const (
	// AlignLeft puts the anchor at the left edge of the text.
	AlignLeft TextAlignment = iota
	// AlignRight puts the anchor at the right edge of the text.
	AlignRight
	// AlignCenter centres the text on the anchor.
	AlignCenter
)

// String implements fmt.Stringer.
func (a TextAlignment) String() string {
	switch a {
	case AlignLeft:
		return "Left"
	case AlignRight:
		return "Right"
	case AlignCenter:
		return "Center"
	default:
		return "Unknown"
	}
}

// GlyphPosition places one glyph from a font: glyph ID, baseline position
// and the em size to render at.
type GlyphPosition struct {
	Id     GlyphId
	X, Y   float32
	EmSize float32
}

// Font declares or uses a font resource.
type Font struct {
	Id FontId
	Op FontOp
}

func (Font) drawOp() {}

// FontOp is one operation on a font resource.
type FontOp interface {
	fontOp()
}

// UseFontDefinition associates TTF or OTF data with a font ID.
type UseFontDefinition struct {
	Data []byte
}

// FontSize sets the em size, in canvas units, used by later text
// operations with this font.
type FontSize struct {
	Size float32
}

// LayoutText appends a string to the line layout started by
// BeginLineLayout.
type LayoutText struct {
	Text string
}

// DrawGlyphs renders specific glyphs at specific positions, bypassing
// shaping and layout.
type DrawGlyphs struct {
	Glyphs []GlyphPosition
}

func (UseFontDefinition) fontOp() {}
func (FontSize) fontOp()          {}
func (LayoutText) fontOp()        {}
func (DrawGlyphs) fontOp()        {}

// DrawText lays out and renders a string at a baseline position using the
// font's current size.
type DrawText struct {
	FontId FontId
	Text   string
	X, Y   float32
}

// BeginLineLayout starts laying out a line of text at a baseline position.
// LayoutText operations append runs (possibly in several fonts and sizes);
// DrawLaidOutText renders the finished line.
type BeginLineLayout struct {
	X, Y  float32
	Align TextAlignment
}

// DrawLaidOutText renders the line assembled since BeginLineLayout.
type DrawLaidOutText struct{}

func (DrawText) drawOp()        {}
func (BeginLineLayout) drawOp() {}
func (DrawLaidOutText) drawOp() {}
