package wire

import (
	"github.com/gogpu/canvas"
)

// decodeState identifies what the decoder is part-way through reading.
type decodeState uint8

const (
	stateNone decodeState = iota

	// One prefix character consumed, waiting for the operation character.
	stateNew       // 'N'
	stateLineStyle // 'L'
	stateDash      // 'D'
	stateColor     // 'C'
	stateSprite    // 's'
	stateTransform // 'T'
	stateState     // 'Z'
	stateWinding   // 'W'
	stateText      // 't'

	// Fixed-size parameters, accumulated then parsed.
	stateClearCanvas       // 'NA' colour
	stateMove              // 'm' x y
	stateLine              // 'l' x y
	stateBezierCurve       // 'c' end cp1 cp2
	stateLineWidth         // 'Lw' width
	stateLineWidthPixels   // 'Lp' width
	stateLineJoin          // 'Lj' join
	stateLineCap           // 'Lc' cap
	stateDashLength        // 'Dl' length
	stateDashOffset        // 'Do' offset
	stateColorStroke       // 'Cs' colour
	stateColorFill         // 'Cf' colour
	stateColorTransform    // 'CT' 3x3 matrix
	stateBlendMode         // 'M' mode
	stateTransformHeight   // 'Th' height
	stateTransformCenter   // 'Tc' min max
	stateTransformMultiply // 'Tm' 3x3 matrix
	stateLayerU32          // 'Nl' fixed-width layer id
	stateLayerBlendU32     // 'Nb' fixed-width layer id, mode
	stateNamespace         // 'NN' two u64 halves
	stateSpriteTranslate   // 'sTt' x y
	stateSpriteScale       // 'sTs' x y
	stateSpriteRotate      // 'sTr' degrees
	stateSpriteMatrix      // 'sTT' 3x3 matrix
	stateBeginLineLayout   // 'tl' x y alignment

	// Variable-length payloads.
	stateLayer             // 'NL' layer id
	stateLayerBlend        // 'NB' layer id, mode
	stateLayerAlpha        // 'Nt' layer id, alpha
	stateSwapLayers        // 'NX' layer id, layer id
	stateNewSprite         // 'Ns' sprite id
	stateColorTexture      // 'Ct' texture id, min max
	stateColorGradient     // 'Cg' gradient id, min max
	stateSpriteDraw        // 'sD' sprite id
	stateSpriteFilters     // 'sF' sprite id, count, filters
	stateSpriteMoveFrom    // 'sm' sprite id
	stateSpriteTransform   // 'sT' transform op
	stateDrawText          // 'tT' font id, string, x y
	stateFontOp            // 'f' font id, op
	stateFontData          // 'f<id>d' format tag
	stateFontTtf           // 'f<id>dT' bytes
	stateFontSize          // 'f<id>S' size
	stateFontLayoutText    // 'f<id>L' string
	stateFontGlyphs        // 'f<id>G' glyph positions
	stateTextureOp         // 'B' texture id, op
	stateTextureCreate     // 'B<id>N' w h format
	stateTextureSetBytes   // 'B<id>D' x y w h bytes
	stateTextureFromSprite // 'B<id>S' sprite id, region
	stateTextureDynamic    // 'B<id>s' sprite id, region, size
	stateTextureAlpha      // 'B<id>t' alpha
	stateTextureCopy       // 'B<id>C' texture id
	stateTextureFilter     // 'B<id>F' filter
	stateGradientOp        // 'G' gradient id, op
	stateGradientNew       // 'G<id>N' colour
	stateGradientStop      // 'G<id>S' pos colour
)

// Decoder is an incremental decoder for the canvas encoding. Feed it one
// character at a time; operations are returned as soon as their last
// character arrives, so a drawing can be decoded from a stream without
// framing.
//
// The zero value is ready to use. A Decoder is not safe for concurrent
// use.
type Decoder struct {
	state decodeState
	err   error

	param  []byte
	id     compactNum
	id2    compactNum
	str    stringAcc
	data   bytesAcc
	glyphs glyphsAcc
}

// NewDecoder creates a decoder at the start of a drawing.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed advances the decoder by one character. When the character completes
// an operation, the operation is returned with ok=true. Whitespace between
// operations is skipped.
//
// The first failure puts the decoder into a permanent error state: the
// failing call returns the underlying *DecodeError, and every later call
// returns a *DecodeError with code ErrInErrorState.
func (d *Decoder) Feed(c byte) (op canvas.Draw, ok bool, err error) {
	if d.err != nil {
		return nil, false, errInErrorState
	}

	op, err = d.feed(c)
	if err != nil {
		d.err = err
		return nil, false, err
	}
	return op, op != nil, nil
}

// Pending reports whether the decoder is part-way through an operation.
func (d *Decoder) Pending() bool {
	return d.state != stateNone
}

// Err returns the error that put the decoder into the error state, or nil.
func (d *Decoder) Err() error {
	return d.err
}

// emit resets to the between-operations state and returns the finished op.
func (d *Decoder) emit(op canvas.Draw) (canvas.Draw, error) {
	d.state = stateNone
	d.param = d.param[:0]
	d.id = compactNum{}
	d.id2 = compactNum{}
	d.str = stringAcc{}
	d.data = bytesAcc{}
	d.glyphs = glyphsAcc{}
	return op, nil
}

// collect accumulates a fixed-size parameter, reporting when it is full.
func (d *Decoder) collect(c byte, size int) bool {
	d.param = append(d.param, c)
	return len(d.param) >= size
}

func (d *Decoder) feed(c byte) (canvas.Draw, error) {
	switch d.state {
	case stateNone:
		return d.feedNone(c)
	case stateNew:
		return d.feedNew(c)
	case stateLineStyle:
		return d.feedLineStyle(c)
	case stateDash:
		return d.feedDash(c)
	case stateColor:
		return d.feedColor(c)
	case stateSprite:
		return d.feedSprite(c)
	case stateTransform:
		return d.feedTransform(c)
	case stateState:
		return d.feedState(c)
	case stateWinding:
		return d.feedWinding(c)
	case stateText:
		return d.feedText(c)

	case stateClearCanvas:
		if d.collect(c, 25) {
			col, _, err := parseColor(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.ClearCanvas{Color: col})
		}
	case stateMove:
		if d.collect(c, 12) {
			x, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			y, _, err := parseF32(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Move{X: x, Y: y})
		}
	case stateLine:
		if d.collect(c, 12) {
			x, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			y, _, err := parseF32(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Line{X: x, Y: y})
		}
	case stateBezierCurve:
		// The end point is serialised first, then the control points.
		if d.collect(c, 36) {
			coords, err := parseF32s(d.param, 6)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.BezierCurve{
				Cp1: canvas.Pt(coords[2], coords[3]),
				Cp2: canvas.Pt(coords[4], coords[5]),
				End: canvas.Pt(coords[0], coords[1]),
			})
		}
	case stateLineWidth:
		if d.collect(c, 6) {
			w, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.LineWidth{Width: w})
		}
	case stateLineWidthPixels:
		if d.collect(c, 6) {
			w, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.LineWidthPixels{Width: w})
		}
	case stateLineJoin:
		switch c {
		case 'M':
			return d.emit(canvas.SetLineJoin{Join: canvas.LineJoinMiter})
		case 'R':
			return d.emit(canvas.SetLineJoin{Join: canvas.LineJoinRound})
		case 'B':
			return d.emit(canvas.SetLineJoin{Join: canvas.LineJoinBevel})
		default:
			return nil, errInvalidChar(c)
		}
	case stateLineCap:
		switch c {
		case 'B':
			return d.emit(canvas.SetLineCap{Cap: canvas.LineCapButt})
		case 'R':
			return d.emit(canvas.SetLineCap{Cap: canvas.LineCapRound})
		case 'S':
			return d.emit(canvas.SetLineCap{Cap: canvas.LineCapSquare})
		default:
			return nil, errInvalidChar(c)
		}
	case stateDashLength:
		if d.collect(c, 6) {
			l, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.DashLength{Length: l})
		}
	case stateDashOffset:
		if d.collect(c, 6) {
			o, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.DashOffset{Offset: o})
		}
	case stateColorStroke:
		if d.collect(c, 25) {
			col, _, err := parseColor(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.StrokeColor{Color: col})
		}
	case stateColorFill:
		if d.collect(c, 25) {
			col, _, err := parseColor(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.FillColor{Color: col})
		}
	case stateColorTransform:
		if d.collect(c, 54) {
			m, err := parseTransform(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.FillTransform{Transform: m})
		}
	case stateBlendMode:
		if d.collect(c, 2) {
			mode, _, err := parseBlendMode(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.SetBlendMode{Mode: mode})
		}
	case stateTransformHeight:
		if d.collect(c, 6) {
			h, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.CanvasHeight{Height: h})
		}
	case stateTransformCenter:
		if d.collect(c, 24) {
			coords, err := parseF32s(d.param, 4)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.CenterRegion{
				Min: canvas.Pt(coords[0], coords[1]),
				Max: canvas.Pt(coords[2], coords[3]),
			})
		}
	case stateTransformMultiply:
		if d.collect(c, 54) {
			m, err := parseTransform(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.MultiplyTransform{Transform: m})
		}
	case stateLayerU32:
		if d.collect(c, 6) {
			id, _, err := parseU32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Layer{Id: canvas.LayerId(id)})
		}
	case stateLayerBlendU32:
		if d.collect(c, 8) {
			id, p, err := parseU32(d.param)
			if err != nil {
				return nil, err
			}
			mode, _, err := parseBlendMode(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.LayerBlend{Id: canvas.LayerId(id), Mode: mode})
		}
	case stateNamespace:
		if d.collect(c, 22) {
			hi, p, err := parseU64(d.param)
			if err != nil {
				return nil, err
			}
			lo, _, err := parseU64(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Namespace{Id: canvas.NamespaceFromU64Pair(hi, lo)})
		}
	case stateSpriteTranslate:
		if d.collect(c, 12) {
			x, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			y, _, err := parseF32(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.SpriteTransform{Transform: canvas.SpriteTranslate{X: x, Y: y}})
		}
	case stateSpriteScale:
		if d.collect(c, 12) {
			x, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			y, _, err := parseF32(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.SpriteTransform{Transform: canvas.SpriteScale{X: x, Y: y}})
		}
	case stateSpriteRotate:
		if d.collect(c, 6) {
			deg, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.SpriteTransform{Transform: canvas.SpriteRotate{Degrees: deg}})
		}
	case stateSpriteMatrix:
		if d.collect(c, 54) {
			m, err := parseTransform(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.SpriteTransform{Transform: canvas.SpriteMatrix{Transform: m}})
		}
	case stateBeginLineLayout:
		if d.collect(c, 13) {
			x, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			y, p, err := parseF32(p)
			if err != nil {
				return nil, err
			}
			var align canvas.TextAlignment
			switch p[0] {
			case 'l':
				align = canvas.AlignLeft
			case 'r':
				align = canvas.AlignRight
			case 'c':
				align = canvas.AlignCenter
			default:
				return nil, errInvalidChar(p[0])
			}
			return d.emit(canvas.BeginLineLayout{X: x, Y: y, Align: align})
		}

	case stateLayer:
		if err := d.id.feed(c); err != nil {
			return nil, err
		}
		if d.id.done {
			return d.emit(canvas.Layer{Id: canvas.LayerId(d.id.val)})
		}
	case stateLayerBlend:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		if d.collect(c, 2) {
			mode, _, err := parseBlendMode(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.LayerBlend{Id: canvas.LayerId(d.id.val), Mode: mode})
		}
	case stateLayerAlpha:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		if d.collect(c, 6) {
			alpha, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.LayerAlpha{Id: canvas.LayerId(d.id.val), Alpha: alpha})
		}
	case stateSwapLayers:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		if err := d.id2.feed(c); err != nil {
			return nil, err
		}
		if d.id2.done {
			return d.emit(canvas.SwapLayers{
				Layer1: canvas.LayerId(d.id.val),
				Layer2: canvas.LayerId(d.id2.val),
			})
		}
	case stateNewSprite:
		if err := d.id.feed(c); err != nil {
			return nil, err
		}
		if d.id.done {
			return d.emit(canvas.Sprite{Id: canvas.SpriteId(d.id.val)})
		}
	case stateColorTexture:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		if d.collect(c, 24) {
			coords, err := parseF32s(d.param, 4)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.FillTexture{
				TextureId: canvas.TextureId(d.id.val),
				Min:       canvas.Pt(coords[0], coords[1]),
				Max:       canvas.Pt(coords[2], coords[3]),
			})
		}
	case stateColorGradient:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		if d.collect(c, 24) {
			coords, err := parseF32s(d.param, 4)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.FillGradient{
				GradientId: canvas.GradientId(d.id.val),
				Min:        canvas.Pt(coords[0], coords[1]),
				Max:        canvas.Pt(coords[2], coords[3]),
			})
		}
	case stateSpriteDraw:
		if err := d.id.feed(c); err != nil {
			return nil, err
		}
		if d.id.done {
			return d.emit(canvas.DrawSprite{Id: canvas.SpriteId(d.id.val)})
		}
	case stateSpriteMoveFrom:
		if err := d.id.feed(c); err != nil {
			return nil, err
		}
		if d.id.done {
			return d.emit(canvas.MoveSpriteFrom{Id: canvas.SpriteId(d.id.val)})
		}
	case stateSpriteFilters:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		d.param = append(d.param, c)
		filters, complete, err := tryParseFilterList(d.param)
		if err != nil {
			return nil, err
		}
		if complete {
			return d.emit(canvas.DrawSpriteWithFilters{
				Id:      canvas.SpriteId(d.id.val),
				Filters: filters,
			})
		}
	case stateSpriteTransform:
		switch c {
		case 'i':
			return d.emit(canvas.SpriteTransform{Transform: canvas.SpriteIdentity{}})
		case 't':
			d.state = stateSpriteTranslate
		case 's':
			d.state = stateSpriteScale
		case 'r':
			d.state = stateSpriteRotate
		case 'T':
			d.state = stateSpriteMatrix
		default:
			return nil, errInvalidChar(c)
		}
	case stateDrawText:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		if !d.str.done {
			return nil, d.str.feed(c)
		}
		if d.collect(c, 12) {
			x, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			y, _, err := parseF32(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.DrawText{
				FontId: canvas.FontId(d.id.val),
				Text:   d.str.text(),
				X:      x,
				Y:      y,
			})
		}

	case stateFontOp:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		switch c {
		case 'd':
			d.state = stateFontData
		case 'S':
			d.state = stateFontSize
		case 'L':
			d.state = stateFontLayoutText
		case 'G':
			d.state = stateFontGlyphs
		default:
			return nil, errInvalidChar(c)
		}
	case stateFontData:
		if c != 'T' {
			return nil, errInvalidChar(c)
		}
		d.state = stateFontTtf
	case stateFontTtf:
		if err := d.data.feed(c); err != nil {
			return nil, err
		}
		if d.data.done {
			return d.emit(canvas.Font{
				Id: canvas.FontId(d.id.val),
				Op: canvas.UseFontDefinition{Data: d.data.out},
			})
		}
	case stateFontSize:
		if d.collect(c, 6) {
			size, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Font{Id: canvas.FontId(d.id.val), Op: canvas.FontSize{Size: size}})
		}
	case stateFontLayoutText:
		if err := d.str.feed(c); err != nil {
			return nil, err
		}
		if d.str.done {
			return d.emit(canvas.Font{
				Id: canvas.FontId(d.id.val),
				Op: canvas.LayoutText{Text: d.str.text()},
			})
		}
	case stateFontGlyphs:
		if err := d.glyphs.feed(c); err != nil {
			return nil, err
		}
		if d.glyphs.done {
			return d.emit(canvas.Font{
				Id: canvas.FontId(d.id.val),
				Op: canvas.DrawGlyphs{Glyphs: d.glyphs.glyphs},
			})
		}

	case stateTextureOp:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		switch c {
		case 'N':
			d.state = stateTextureCreate
		case 'X':
			return d.emit(canvas.Texture{Id: canvas.TextureId(d.id.val), Op: canvas.TextureFree{}})
		case 'D':
			d.state = stateTextureSetBytes
		case 'S':
			d.state = stateTextureFromSprite
		case 's':
			d.state = stateTextureDynamic
		case 't':
			d.state = stateTextureAlpha
		case 'C':
			d.state = stateTextureCopy
		case 'F':
			d.state = stateTextureFilter
		default:
			return nil, errInvalidChar(c)
		}
	case stateTextureCreate:
		if d.collect(c, 13) {
			w, p, err := parseU32(d.param)
			if err != nil {
				return nil, err
			}
			h, p, err := parseU32(p)
			if err != nil {
				return nil, err
			}
			if p[0] != 'r' {
				return nil, errInvalidChar(p[0])
			}
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureCreate{Width: w, Height: h, Format: canvas.TextureFormatRgba},
			})
		}
	case stateTextureSetBytes:
		if len(d.param) < 24 {
			d.param = append(d.param, c)
			return nil, nil
		}
		if err := d.data.feed(c); err != nil {
			return nil, err
		}
		if d.data.done {
			coords, err := parseU32s(d.param, 4)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureSetBytes{
					X: coords[0], Y: coords[1],
					Width: coords[2], Height: coords[3],
					Bytes: d.data.out,
				},
			})
		}
	case stateTextureFromSprite:
		if !d.id2.done {
			return nil, d.id2.feed(c)
		}
		if d.collect(c, 24) {
			coords, err := parseF32s(d.param, 4)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureSetFromSprite{
					Sprite: canvas.SpriteId(d.id2.val),
					Bounds: canvas.SpriteBounds{X: coords[0], Y: coords[1], Width: coords[2], Height: coords[3]},
				},
			})
		}
	case stateTextureDynamic:
		if !d.id2.done {
			return nil, d.id2.feed(c)
		}
		if d.collect(c, 36) {
			coords, err := parseF32s(d.param, 6)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureCreateDynamicSprite{
					Sprite:       canvas.SpriteId(d.id2.val),
					Bounds:       canvas.SpriteBounds{X: coords[0], Y: coords[1], Width: coords[2], Height: coords[3]},
					CanvasWidth:  coords[4],
					CanvasHeight: coords[5],
				},
			})
		}
	case stateTextureAlpha:
		if d.collect(c, 6) {
			alpha, _, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureFillTransparency{Alpha: alpha},
			})
		}
	case stateTextureCopy:
		if err := d.id2.feed(c); err != nil {
			return nil, err
		}
		if d.id2.done {
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureCopy{Target: canvas.TextureId(d.id2.val)},
			})
		}
	case stateTextureFilter:
		d.param = append(d.param, c)
		filter, _, complete, err := tryParseFilter(d.param)
		if err != nil {
			return nil, err
		}
		if complete {
			return d.emit(canvas.Texture{
				Id: canvas.TextureId(d.id.val),
				Op: canvas.TextureApplyFilter{Filter: filter},
			})
		}

	case stateGradientOp:
		if !d.id.done {
			return nil, d.id.feed(c)
		}
		switch c {
		case 'N':
			d.state = stateGradientNew
		case 'S':
			d.state = stateGradientStop
		default:
			return nil, errInvalidChar(c)
		}
	case stateGradientNew:
		if d.collect(c, 25) {
			col, _, err := parseColor(d.param)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Gradient{
				Id: canvas.GradientId(d.id.val),
				Op: canvas.GradientCreate{Color: col},
			})
		}
	case stateGradientStop:
		if d.collect(c, 31) {
			pos, p, err := parseF32(d.param)
			if err != nil {
				return nil, err
			}
			col, _, err := parseColor(p)
			if err != nil {
				return nil, err
			}
			return d.emit(canvas.Gradient{
				Id: canvas.GradientId(d.id.val),
				Op: canvas.GradientAddStop{Pos: pos, Color: col},
			})
		}
	}

	return nil, nil
}

// feedNone dispatches the first character of an operation.
func (d *Decoder) feedNone(c byte) (canvas.Draw, error) {
	switch c {
	// Whitespace is allowed between operations.
	case '\n', '\r', ' ':
		return nil, nil

	case 'N':
		d.state = stateNew
	case 'L':
		d.state = stateLineStyle
	case 'D':
		d.state = stateDash
	case 'C':
		d.state = stateColor
	case 's':
		d.state = stateSprite
	case 'T':
		d.state = stateTransform
	case 'Z':
		d.state = stateState
	case 'W':
		d.state = stateWinding
	case 't':
		d.state = stateText
	case 'f':
		d.state = stateFontOp
	case 'B':
		d.state = stateTextureOp
	case 'G':
		d.state = stateGradientOp

	case '.':
		return canvas.ClosePath{}, nil
	case 'F':
		return canvas.Fill{}, nil
	case 'S':
		return canvas.Stroke{}, nil
	case 'P':
		return canvas.PushState{}, nil
	case 'p':
		return canvas.PopState{}, nil

	case 'm':
		d.state = stateMove
	case 'l':
		d.state = stateLine
	case 'c':
		d.state = stateBezierCurve
	case 'M':
		d.state = stateBlendMode

	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedNew(c byte) (canvas.Draw, error) {
	switch c {
	case 'p':
		return d.emit(canvas.NewPath{})
	case 'A':
		d.state = stateClearCanvas
	case 'a':
		return d.emit(canvas.ClearAllLayers{})
	case 'C':
		return d.emit(canvas.ClearLayer{})

	case 'l':
		d.state = stateLayerU32
	case 'b':
		d.state = stateLayerBlendU32
	case 'L':
		d.state = stateLayer
	case 'B':
		d.state = stateLayerBlend
	case 't':
		d.state = stateLayerAlpha
	case 'X':
		d.state = stateSwapLayers
	case 's':
		d.state = stateNewSprite
	case 'N':
		d.state = stateNamespace

	case 'F':
		return d.emit(canvas.StartFrame{})
	case 'f':
		return d.emit(canvas.ShowFrame{})
	case 'G':
		return d.emit(canvas.ResetFrame{})

	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedLineStyle(c byte) (canvas.Draw, error) {
	switch c {
	case 'w':
		d.state = stateLineWidth
	case 'p':
		d.state = stateLineWidthPixels
	case 'j':
		d.state = stateLineJoin
	case 'c':
		d.state = stateLineCap
	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedDash(c byte) (canvas.Draw, error) {
	switch c {
	case 'n':
		return d.emit(canvas.NewDashPattern{})
	case 'l':
		d.state = stateDashLength
	case 'o':
		d.state = stateDashOffset
	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedColor(c byte) (canvas.Draw, error) {
	switch c {
	case 's':
		d.state = stateColorStroke
	case 'f':
		d.state = stateColorFill
	case 't':
		d.state = stateColorTexture
	case 'g':
		d.state = stateColorGradient
	case 'T':
		d.state = stateColorTransform
	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedSprite(c byte) (canvas.Draw, error) {
	switch c {
	case 'D':
		d.state = stateSpriteDraw
	case 'F':
		d.state = stateSpriteFilters
	case 'C':
		return d.emit(canvas.ClearSprite{})
	case 'T':
		d.state = stateSpriteTransform
	case 'm':
		d.state = stateSpriteMoveFrom
	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedTransform(c byte) (canvas.Draw, error) {
	switch c {
	case 'i':
		return d.emit(canvas.IdentityTransform{})
	case 'h':
		d.state = stateTransformHeight
	case 'c':
		d.state = stateTransformCenter
	case 'm':
		d.state = stateTransformMultiply
	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

func (d *Decoder) feedState(c byte) (canvas.Draw, error) {
	switch c {
	case 'n':
		return d.emit(canvas.Unclip{})
	case 'c':
		return d.emit(canvas.Clip{})
	case 's':
		return d.emit(canvas.Store{})
	case 'r':
		return d.emit(canvas.Restore{})
	case 'f':
		return d.emit(canvas.FreeStoredBuffer{})
	default:
		return nil, errInvalidChar(c)
	}
}

func (d *Decoder) feedWinding(c byte) (canvas.Draw, error) {
	switch c {
	case 'n':
		return d.emit(canvas.SetWindingRule{Rule: canvas.WindingRuleNonZero})
	case 'e':
		return d.emit(canvas.SetWindingRule{Rule: canvas.WindingRuleEvenOdd})
	default:
		return nil, errInvalidChar(c)
	}
}

func (d *Decoder) feedText(c byte) (canvas.Draw, error) {
	switch c {
	case 'T':
		d.state = stateDrawText
	case 'R':
		return d.emit(canvas.DrawLaidOutText{})
	case 'l':
		d.state = stateBeginLineLayout
	default:
		return nil, errInvalidChar(c)
	}
	return nil, nil
}

// parseF32s parses n consecutive f32 values.
func parseF32s(p []byte, n int) ([]float32, error) {
	out := make([]float32, n)
	var err error
	for i := 0; i < n; i++ {
		out[i], p, err = parseF32(p)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// parseU32s parses n consecutive u32 values.
func parseU32s(p []byte, n int) ([]uint32, error) {
	out := make([]uint32, n)
	var err error
	for i := 0; i < n; i++ {
		out[i], p, err = parseU32(p)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// parseColor parses a colour: a type tag then four components. Only RGBA
// colours are understood.
func parseColor(p []byte) (canvas.Color, []byte, error) {
	if len(p) < 25 {
		return canvas.Color{}, p, errBadNumber
	}
	colType := p[0]
	coords, err := parseF32s(p[1:], 4)
	if err != nil {
		return canvas.Color{}, p, err
	}
	if colType != 'R' {
		return canvas.Color{}, p, errUnknownColor
	}
	return canvas.Rgba(coords[0], coords[1], coords[2], coords[3]), p[25:], nil
}

// parseTransform parses a row-major 3x3 matrix.
func parseTransform(p []byte) (canvas.Transform2D, error) {
	coords, err := parseF32s(p, 9)
	if err != nil {
		return canvas.Transform2D{}, err
	}
	return canvas.Transform2D{
		{coords[0], coords[1], coords[2]},
		{coords[3], coords[4], coords[5]},
		{coords[6], coords[7], coords[8]},
	}, nil
}

// parseBlendMode parses a two-character blend mode code.
func parseBlendMode(p []byte) (canvas.BlendMode, []byte, error) {
	if len(p) < 2 {
		return 0, p, errBadNumber
	}
	switch p[0] {
	case 'S':
		switch p[1] {
		case 'V':
			return canvas.BlendSourceOver, p[2:], nil
		case 'I':
			return canvas.BlendSourceIn, p[2:], nil
		case 'O':
			return canvas.BlendSourceOut, p[2:], nil
		case 'A':
			return canvas.BlendSourceAtop, p[2:], nil
		}
	case 'D':
		switch p[1] {
		case 'V':
			return canvas.BlendDestinationOver, p[2:], nil
		case 'I':
			return canvas.BlendDestinationIn, p[2:], nil
		case 'O':
			return canvas.BlendDestinationOut, p[2:], nil
		case 'A':
			return canvas.BlendDestinationAtop, p[2:], nil
		}
	case 'E':
		switch p[1] {
		case 'M':
			return canvas.BlendMultiply, p[2:], nil
		case 'S':
			return canvas.BlendScreen, p[2:], nil
		case 'D':
			return canvas.BlendDarken, p[2:], nil
		case 'L':
			return canvas.BlendLighten, p[2:], nil
		}
	default:
		return 0, p, errInvalidChar(p[0])
	}
	return 0, p, errInvalidChar(p[1])
}

// tryParseFilter parses one texture filter. complete=false means more
// characters are needed.
func tryParseFilter(p []byte) (filter canvas.TextureFilter, rest []byte, complete bool, err error) {
	if len(p) == 0 {
		return nil, p, false, nil
	}
	switch p[0] {
	case 'B':
		radius, rest, ok, err := tryParseF32(p[1:])
		if !ok {
			return nil, p, false, err
		}
		return canvas.GaussianBlur{Radius: radius}, rest, true, nil
	case 'A':
		alpha, rest, ok, err := tryParseF32(p[1:])
		if !ok {
			return nil, p, false, err
		}
		return canvas.AlphaBlend{Alpha: alpha}, rest, true, nil
	case 'M':
		id, rest, ok, err := tryParseCompact(p[1:])
		if !ok {
			return nil, p, false, err
		}
		return canvas.Mask{Texture: canvas.TextureId(id)}, rest, true, nil
	case 'D':
		id, rest, ok, err := tryParseCompact(p[1:])
		if !ok {
			return nil, p, false, err
		}
		x, rest, ok, err := tryParseF32(rest)
		if !ok {
			return nil, p, false, err
		}
		y, rest, ok, err := tryParseF32(rest)
		if !ok {
			return nil, p, false, err
		}
		return canvas.DisplacementMap{Texture: canvas.TextureId(id), RadiusX: x, RadiusY: y}, rest, true, nil
	default:
		return nil, p, false, errInvalidChar(p[0])
	}
}

// maxFilterCount bounds the filter list length so a malformed count off
// the wire cannot size an allocation.
const maxFilterCount = 1 << 16

// tryParseFilterList parses a compact count followed by that many filters.
func tryParseFilterList(p []byte) (filters []canvas.TextureFilter, complete bool, err error) {
	count, rest, ok, err := tryParseCompact(p)
	if !ok {
		return nil, false, err
	}
	if count > maxFilterCount {
		return nil, false, errCountTooLarge
	}

	if count > 0 {
		filters = make([]canvas.TextureFilter, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		var filter canvas.TextureFilter
		filter, rest, ok, err = tryParseFilter(rest)
		if !ok {
			return nil, false, err
		}
		filters = append(filters, filter)
	}
	return filters, true, nil
}
