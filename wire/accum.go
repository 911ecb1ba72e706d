package wire

import (
	"github.com/gogpu/canvas"
)

// compactNum incrementally decodes a variable-length number: five value
// bits per character, with bit 5 set on every character except the last.
type compactNum struct {
	val   uint64
	shift uint
	done  bool
}

func (n *compactNum) feed(c byte) error {
	if n.shift >= 64 {
		return errBadNumber
	}
	g, err := decodeBase64(c)
	if err != nil {
		return err
	}
	n.val |= uint64(g&0x1f) << n.shift
	if g&0x20 == 0 {
		n.done = true
	} else {
		n.shift += 5
	}
	return nil
}

// stringAcc incrementally decodes a string: a compact byte count followed
// by that many bytes of UTF-8, unencoded. A zero count completes on the
// final count character.
type stringAcc struct {
	length compactNum
	buf    []byte
	done   bool
}

func (s *stringAcc) feed(c byte) error {
	if !s.length.done {
		if err := s.length.feed(c); err != nil {
			return err
		}
		if s.length.done && s.length.val == 0 {
			s.done = true
		}
		return nil
	}
	s.buf = append(s.buf, c)
	if uint64(len(s.buf)) >= s.length.val {
		s.done = true
	}
	return nil
}

func (s *stringAcc) text() string {
	return string(s.buf)
}

// bytesAcc incrementally decodes a byte block: a compact byte count, then
// characters packing three bytes into four. Characters accumulate until
// they can supply the full count; the surplus from the final group is
// discarded.
type bytesAcc struct {
	length compactNum
	enc    []byte
	out    []byte
	done   bool
}

func (b *bytesAcc) feed(c byte) error {
	if !b.length.done {
		if err := b.length.feed(c); err != nil {
			return err
		}
		if b.length.done && b.length.val == 0 {
			b.done = true
		}
		return nil
	}

	b.enc = append(b.enc, c)
	if uint64(len(b.enc)/4*3) < b.length.val {
		return nil
	}

	out := make([]byte, 0, len(b.enc)/4*3)
	for i := 0; i+3 < len(b.enc); i += 4 {
		c0, err := decodeBase64(b.enc[i])
		if err != nil {
			return err
		}
		c1, err := decodeBase64(b.enc[i+1])
		if err != nil {
			return err
		}
		c2, err := decodeBase64(b.enc[i+2])
		if err != nil {
			return err
		}
		c3, err := decodeBase64(b.enc[i+3])
		if err != nil {
			return err
		}
		out = append(out, c0|(c1<<6), (c1>>2)|(c2<<4), (c2>>4)|(c3<<2))
	}
	b.out = out[:b.length.val]
	b.done = true
	return nil
}

// glyphsAcc incrementally decodes a glyph list: a compact glyph count then
// a fixed-width id and position per glyph.
type glyphsAcc struct {
	count  compactNum
	buf    []byte
	glyphs []canvas.GlyphPosition
	done   bool
}

// glyphEncodedLen is the width of one glyph: a u32 id and three f32s.
const glyphEncodedLen = 24

// maxGlyphCount bounds the glyph list length so a malformed count off the
// wire cannot size an allocation or overflow the buffer-length check.
const maxGlyphCount = 1 << 20

func (g *glyphsAcc) feed(c byte) error {
	if !g.count.done {
		if err := g.count.feed(c); err != nil {
			return err
		}
		if g.count.done {
			if g.count.val > maxGlyphCount {
				return errCountTooLarge
			}
			if g.count.val == 0 {
				g.done = true
			}
		}
		return nil
	}

	g.buf = append(g.buf, c)
	if uint64(len(g.buf)) < g.count.val*glyphEncodedLen {
		return nil
	}

	p := g.buf
	glyphs := make([]canvas.GlyphPosition, 0, g.count.val)
	for i := uint64(0); i < g.count.val; i++ {
		var (
			id     uint32
			x, y   float32
			emSize float32
			err    error
		)
		if id, p, err = parseU32(p); err != nil {
			return err
		}
		if x, p, err = parseF32(p); err != nil {
			return err
		}
		if y, p, err = parseF32(p); err != nil {
			return err
		}
		if emSize, p, err = parseF32(p); err != nil {
			return err
		}
		glyphs = append(glyphs, canvas.GlyphPosition{
			Id: canvas.GlyphId(id), X: x, Y: y, EmSize: emSize,
		})
	}
	g.glyphs = glyphs
	g.done = true
	return nil
}
