// Package text turns text drawing operations into glyph runs.
//
// The renderer only understands positioned glyphs. This package supplies
// the step in between: it parses the font data carried by
// UseFontDefinition operations, shapes strings with HarfBuzz (via
// go-text/typesetting) and rewrites DrawText and line layout operations
// into Font DrawGlyphs runs. Feed a drawing through a Layouter before
// handing it to the renderer:
//
//	layouter := text.NewLayouter()
//	renderer.Draw(layouter.Layout(ops))
//
// Fonts that fail to parse behave like any other missing resource: the
// text that uses them is dropped silently.
package text
