package text

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"golang.org/x/image/font/gofont/goregular"
)

func TestShapeBasic(t *testing.T) {
	face, err := ParseFace(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFace: %v", err)
	}
	shaper := NewShaper()

	run := shaper.Shape("Hello", face, 16)
	if len(run.Glyphs) == 0 {
		t.Fatal("no glyphs shaped")
	}
	if run.Advance <= 0 {
		t.Fatalf("advance = %v, want > 0", run.Advance)
	}
	if run.Ascent <= 0 {
		t.Fatalf("ascent = %v, want > 0", run.Ascent)
	}
	if run.Descent > 0 {
		t.Fatalf("descent = %v, want <= 0", run.Descent)
	}

	// Left-to-right text comes out in reading order.
	for i := 1; i < len(run.Glyphs); i++ {
		if run.Glyphs[i].X < run.Glyphs[i-1].X {
			t.Fatalf("glyph %d at x=%v before glyph %d at x=%v",
				i, run.Glyphs[i].X, i-1, run.Glyphs[i-1].X)
		}
	}
	for i, g := range run.Glyphs {
		if g.EmSize != 16 {
			t.Fatalf("glyph %d em size = %v, want 16", i, g.EmSize)
		}
	}
}

func TestShapeEmpty(t *testing.T) {
	face, err := ParseFace(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFace: %v", err)
	}
	shaper := NewShaper()

	if run := shaper.Shape("", face, 16); len(run.Glyphs) != 0 {
		t.Fatalf("empty string shaped %d glyphs", len(run.Glyphs))
	}
	if run := shaper.Shape("x", nil, 16); len(run.Glyphs) != 0 {
		t.Fatalf("nil face shaped %d glyphs", len(run.Glyphs))
	}
}

func TestShapeScalesWithEmSize(t *testing.T) {
	face, err := ParseFace(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFace: %v", err)
	}
	shaper := NewShaper()

	small := shaper.Shape("width", face, 10)
	large := shaper.Shape("width", face, 20)
	if large.Advance <= small.Advance {
		t.Fatalf("advance at 20pt (%v) not larger than at 10pt (%v)",
			large.Advance, small.Advance)
	}
}

func TestSegmentRunes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []di.Direction
	}{
		{"latin", "hello world", []di.Direction{di.DirectionLTR}},
		{"hebrew", "שלום", []di.Direction{di.DirectionRTL}},
		{"mixed", "abc אבג", []di.Direction{di.DirectionLTR, di.DirectionRTL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runes := []rune(tt.text)
			segs := segmentRunes(tt.text, runes)
			if len(segs) != len(tt.want) {
				t.Fatalf("got %d segments, want %d: %+v", len(segs), len(tt.want), segs)
			}
			for i, seg := range segs {
				if seg.direction != tt.want[i] {
					t.Errorf("segment %d direction = %v, want %v", i, seg.direction, tt.want[i])
				}
			}
			// Segments must tile the rune range.
			if segs[0].start != 0 || segs[len(segs)-1].end != len(runes) {
				t.Fatalf("segments do not cover the text: %+v", segs)
			}
			for i := 1; i < len(segs); i++ {
				if segs[i].start != segs[i-1].end {
					t.Fatalf("gap between segments %d and %d: %+v", i-1, i, segs)
				}
			}
		})
	}
}
