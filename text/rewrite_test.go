package text

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/canvas"
)

func newTestLayouter() *Layouter {
	return NewLayouter(WithShaper(unitShaper{advance: 5}))
}

// glyphRuns collects the DrawGlyphs runs in a rewritten drawing.
func glyphRuns(ops []canvas.Draw) []canvas.DrawGlyphs {
	var runs []canvas.DrawGlyphs
	for _, op := range ops {
		if f, ok := op.(canvas.Font); ok {
			if dg, ok := f.Op.(canvas.DrawGlyphs); ok {
				runs = append(runs, dg)
			}
		}
	}
	return runs
}

func TestLayoutDrawText(t *testing.T) {
	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.Font{Id: 1, Op: canvas.FontSize{Size: 10}},
		canvas.DrawText{FontId: 1, Text: "hi", X: 30, Y: 40},
	})

	for _, op := range out {
		if _, ok := op.(canvas.DrawText); ok {
			t.Fatal("DrawText survived layout")
		}
	}

	runs := glyphRuns(out)
	if len(runs) != 1 {
		t.Fatalf("got %d glyph runs, want 1", len(runs))
	}
	g := runs[0].Glyphs
	if len(g) != 2 {
		t.Fatalf("got %d glyphs, want 2", len(g))
	}
	if g[0].X != 30 || g[0].Y != 40 {
		t.Fatalf("first glyph at (%v, %v), want (30, 40)", g[0].X, g[0].Y)
	}
	if g[1].X != 35 {
		t.Fatalf("second glyph x = %v, want 35", g[1].X)
	}
}

func TestLayoutDrawTextUnknownFont(t *testing.T) {
	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.DrawText{FontId: 9, Text: "lost", X: 0, Y: 0},
	})
	if len(out) != 0 {
		t.Fatalf("text in an undefined font produced %d ops: %#v", len(out), out)
	}
}

func TestLayoutLineWithAlignment(t *testing.T) {
	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.Font{Id: 1, Op: canvas.FontSize{Size: 10}},
		canvas.BeginLineLayout{X: 100, Y: 20, Align: canvas.AlignRight},
		canvas.Font{Id: 1, Op: canvas.LayoutText{Text: "abcd"}},
		canvas.DrawLaidOutText{},
	})

	runs := glyphRuns(out)
	if len(runs) != 1 {
		t.Fatalf("got %d glyph runs, want 1", len(runs))
	}
	g := runs[0].Glyphs
	// Four glyphs at advance 5 span [0,20]; right-aligned at x=100 the
	// first glyph lands at 80.
	if g[0].X != 80 || g[0].Y != 20 {
		t.Fatalf("first glyph at (%v, %v), want (80, 20)", g[0].X, g[0].Y)
	}
}

func TestLayoutLineInterrupted(t *testing.T) {
	interrupts := []struct {
		name string
		op   canvas.Draw
	}{
		{"layer", canvas.Layer{Id: 2}},
		{"sprite", canvas.Sprite{Id: 2}},
		{"clear layer", canvas.ClearLayer{}},
		{"begin line", canvas.BeginLineLayout{}},
	}
	for _, tt := range interrupts {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLayouter()
			out := l.Layout([]canvas.Draw{
				canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
				canvas.BeginLineLayout{X: 0, Y: 0, Align: canvas.AlignLeft},
				canvas.Font{Id: 1, Op: canvas.LayoutText{Text: "abandoned"}},
				tt.op,
				canvas.DrawLaidOutText{},
			})
			if runs := glyphRuns(out); len(runs) != 0 {
				t.Fatalf("interrupted line still produced %d runs", len(runs))
			}
		})
	}
}

func TestLayoutFillColorInterleaved(t *testing.T) {
	red := canvas.FillColor{Color: canvas.Rgba(1, 0, 0, 1)}

	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.BeginLineLayout{},
		canvas.Font{Id: 1, Op: canvas.LayoutText{Text: "ab"}},
		red,
		canvas.Font{Id: 1, Op: canvas.LayoutText{Text: "cd"}},
		canvas.DrawLaidOutText{},
	})

	// The color change passes through immediately and is repeated between
	// the two glyph runs so the second run renders in red.
	var colors, runs int
	for _, op := range out {
		switch op.(type) {
		case canvas.FillColor:
			colors++
		case canvas.Font:
			runs++
		}
	}
	if colors != 2 {
		t.Fatalf("got %d FillColor ops, want 2", colors)
	}
	if runs < 3 {
		// Font definition plus two glyph runs.
		t.Fatalf("got %d font ops, want at least 3", runs)
	}
}

func TestLayoutNamespaceIsolation(t *testing.T) {
	ns := canvas.NewNamespaceId()

	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.Namespace{Id: ns},
		canvas.DrawText{FontId: 1, Text: "elsewhere", X: 0, Y: 0},
	})
	if runs := glyphRuns(out); len(runs) != 0 {
		t.Fatalf("font leaked across namespaces: %d runs", len(runs))
	}
}

func TestLayoutNamespaceRestoredByPopState(t *testing.T) {
	ns := canvas.NewNamespaceId()

	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.PushState{},
		canvas.Namespace{Id: ns},
		canvas.PopState{},
		canvas.DrawText{FontId: 1, Text: "ok", X: 0, Y: 0},
	})
	if runs := glyphRuns(out); len(runs) != 1 {
		t.Fatalf("got %d runs after namespace restore, want 1", len(runs))
	}
}

func TestLayoutClearCanvasForgetsFonts(t *testing.T) {
	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.ClearCanvas{Color: canvas.Rgba(0, 0, 0, 1)},
		canvas.DrawText{FontId: 1, Text: "gone", X: 0, Y: 0},
	})
	if runs := glyphRuns(out); len(runs) != 0 {
		t.Fatalf("font survived ClearCanvas: %d runs", len(runs))
	}
}

func TestLayoutFontSizeMidLine(t *testing.T) {
	l := newTestLayouter()
	out := l.Layout([]canvas.Draw{
		canvas.Font{Id: 1, Op: canvas.UseFontDefinition{Data: goregular.TTF}},
		canvas.Font{Id: 1, Op: canvas.FontSize{Size: 10}},
		canvas.BeginLineLayout{},
		canvas.Font{Id: 1, Op: canvas.LayoutText{Text: "ab"}},
		canvas.Font{Id: 1, Op: canvas.FontSize{Size: 20}},
		canvas.Font{Id: 1, Op: canvas.LayoutText{Text: "cd"}},
		canvas.DrawLaidOutText{},
	})

	runs := glyphRuns(out)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if em := runs[0].Glyphs[0].EmSize; em != 10 {
		t.Fatalf("first run em size = %v, want 10", em)
	}
	if em := runs[1].Glyphs[0].EmSize; em != 20 {
		t.Fatalf("second run em size = %v, want 20", em)
	}
	// The larger text carries on from the smaller text's pen position.
	if x := runs[1].Glyphs[0].X; x != 10 {
		t.Fatalf("second run starts at x=%v, want 10", x)
	}
}

func TestLayoutPassThrough(t *testing.T) {
	ops := []canvas.Draw{
		canvas.NewPath{},
		canvas.Move{X: 1, Y: 2},
		canvas.Line{X: 3, Y: 4},
		canvas.Fill{},
		canvas.Font{Id: 1, Op: canvas.DrawGlyphs{Glyphs: []canvas.GlyphPosition{{Id: 4, X: 1, Y: 2, EmSize: 12}}}},
	}
	l := newTestLayouter()
	out := l.Layout(ops)
	if len(out) != len(ops) {
		t.Fatalf("got %d ops, want %d", len(out), len(ops))
	}
	for i := range ops {
		if _, same := out[i].(canvas.Font); same {
			continue
		}
		if out[i] != ops[i] {
			t.Fatalf("op %d = %#v, want %#v", i, out[i], ops[i])
		}
	}
}
