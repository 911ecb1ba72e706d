package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/canvas"
)

// Run is one shaped piece of text. Glyph positions are relative to the run
// origin: the left end of the baseline, x growing rightward, y upward.
type Run struct {
	Glyphs []canvas.GlyphPosition

	// Advance is the pen movement along the baseline for the whole run.
	Advance float32

	// Ascent and Descent bound the run vertically around the baseline.
	// Descent is negative (below the baseline) or zero.
	Ascent  float32
	Descent float32
}

// Shaper converts a string into positioned glyphs for a face at an em
// size. Implementations must be safe for concurrent use.
type Shaper interface {
	Shape(text string, face *Face, emSize float32) Run
}

// HarfBuzzShaper shapes text with go-text/typesetting's HarfBuzz port,
// with kerning, ligatures and complex-script support. Input is split into
// direction runs with the Unicode bidi algorithm before shaping, so mixed
// LTR/RTL strings come out in visual order.
//
// The font.Face instances typesetting shapes through carry per-use glyph
// caches and are not concurrency-safe, so one is created per call around
// the shared read-only tables; HarfbuzzShaper instances are pooled for the
// same reason.
type HarfBuzzShaper struct {
	pool sync.Pool
}

// NewShaper creates a HarfBuzz-backed shaper.
func NewShaper() *HarfBuzzShaper {
	return &HarfBuzzShaper{
		pool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// Shape implements the Shaper interface.
func (s *HarfBuzzShaper) Shape(text string, face *Face, emSize float32) Run {
	if text == "" || face == nil {
		return Run{}
	}

	runes := []rune(text)
	shapeFace := font.NewFace(face.font)

	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	defer s.pool.Put(hb)

	var run Run
	for _, seg := range segmentRunes(text, runes) {
		input := shaping.Input{
			Text:      runes,
			RunStart:  seg.start,
			RunEnd:    seg.end,
			Direction: seg.direction,
			Face:      shapeFace,
			Size:      fixed.Int26_6(emSize * 64),
			Script:    seg.script,
			Language:  language.NewLanguage("en"),
		}
		output := hb.Shape(input)

		if asc := fixedToFloat(output.LineBounds.Ascent); asc > run.Ascent {
			run.Ascent = asc
		}
		if desc := fixedToFloat(output.LineBounds.Descent); desc < run.Descent {
			run.Descent = desc
		}

		for _, g := range output.Glyphs {
			run.Glyphs = append(run.Glyphs, canvas.GlyphPosition{
				Id:     canvas.GlyphId(g.GlyphID),
				X:      run.Advance + fixedToFloat(g.XOffset),
				Y:      fixedToFloat(g.YOffset),
				EmSize: emSize,
			})
			run.Advance += fixedToFloat(g.Advance)
		}
	}
	return run
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// segment is a contiguous range of runes sharing one direction and script.
type segment struct {
	start, end int
	direction  di.Direction
	script     language.Script
}

// segmentRunes splits text into runs the shaper can handle in one pass:
// the bidi algorithm supplies direction boundaries and each run takes the
// script of its first concrete character.
func segmentRunes(text string, runes []rune) []segment {
	if len(runes) == 0 {
		return nil
	}

	levels := bidiLevels(text, len(runes))
	scripts := runeScripts(runes)

	segments := make([]segment, 0, 2)
	start := 0
	for i := 1; i < len(runes); i++ {
		if levels[i] == levels[start] && scripts[i] == scripts[start] {
			continue
		}
		segments = append(segments, makeSegment(start, i, levels[start], scripts[start]))
		start = i
	}
	return append(segments, makeSegment(start, len(runes), levels[start], scripts[start]))
}

func makeSegment(start, end, level int, script language.Script) segment {
	dir := di.DirectionLTR
	if level%2 == 1 {
		dir = di.DirectionRTL
	}
	return segment{start: start, end: end, direction: dir, script: script}
}

// bidiLevels computes the embedding level of every rune. Level parity is
// all the shaper needs: even renders left-to-right, odd right-to-left.
func bidiLevels(text string, runeCount int) []int {
	levels := make([]int, runeCount)

	p := bidi.Paragraph{}
	_, _ = p.SetString(text, bidi.DefaultDirection(bidi.Neutral))
	ordering, err := p.Order()
	if err != nil {
		return levels
	}

	// Run positions are rune indices, start and end inclusive.
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		startRune, endRune := r.Pos()
		level := 0
		if r.Direction() == bidi.RightToLeft {
			level = 1
		}
		for j := startRune; j <= endRune && j < len(levels); j++ {
			levels[j] = level
		}
	}
	return levels
}

// runeScripts assigns a script to every rune, resolving Common and
// Inherited characters (spaces, digits, combining marks) to the script of
// the surrounding concrete text so punctuation does not split runs.
func runeScripts(runes []rune) []language.Script {
	scripts := make([]language.Script, len(runes))
	last := language.Latin
	for i, r := range runes {
		sc := language.LookupScript(r)
		if sc == language.Common || sc == language.Inherited {
			sc = last
		} else {
			last = sc
		}
		scripts[i] = sc
	}
	return scripts
}
