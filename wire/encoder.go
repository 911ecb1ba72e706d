package wire

import (
	"fmt"

	"github.com/gogpu/canvas"
)

// AppendDraw appends the canonical encoding of op to dst and returns the
// extended buffer. Operations are self-delimiting, so a drawing is encoded
// by appending its operations one after another.
func AppendDraw(dst []byte, op canvas.Draw) []byte {
	switch op := op.(type) {
	// Paths
	case canvas.NewPath:
		return append(dst, "Np"...)
	case canvas.Move:
		dst = append(dst, 'm')
		dst = appendF32(dst, op.X)
		return appendF32(dst, op.Y)
	case canvas.Line:
		dst = append(dst, 'l')
		dst = appendF32(dst, op.X)
		return appendF32(dst, op.Y)
	case canvas.BezierCurve:
		// The end point is serialised first, then the control points.
		dst = append(dst, 'c')
		dst = appendF32(dst, op.End.X)
		dst = appendF32(dst, op.End.Y)
		dst = appendF32(dst, op.Cp1.X)
		dst = appendF32(dst, op.Cp1.Y)
		dst = appendF32(dst, op.Cp2.X)
		return appendF32(dst, op.Cp2.Y)
	case canvas.ClosePath:
		return append(dst, '.')
	case canvas.SetWindingRule:
		if op.Rule == canvas.WindingRuleEvenOdd {
			return append(dst, "We"...)
		}
		return append(dst, "Wn"...)

	// Brush
	case canvas.Fill:
		return append(dst, 'F')
	case canvas.Stroke:
		return append(dst, 'S')
	case canvas.LineWidth:
		return appendF32(append(dst, "Lw"...), op.Width)
	case canvas.LineWidthPixels:
		return appendF32(append(dst, "Lp"...), op.Width)
	case canvas.SetLineJoin:
		switch op.Join {
		case canvas.LineJoinRound:
			return append(dst, "LjR"...)
		case canvas.LineJoinBevel:
			return append(dst, "LjB"...)
		default:
			return append(dst, "LjM"...)
		}
	case canvas.SetLineCap:
		switch op.Cap {
		case canvas.LineCapRound:
			return append(dst, "LcR"...)
		case canvas.LineCapSquare:
			return append(dst, "LcS"...)
		default:
			return append(dst, "LcB"...)
		}
	case canvas.NewDashPattern:
		return append(dst, "Dn"...)
	case canvas.DashLength:
		return appendF32(append(dst, "Dl"...), op.Length)
	case canvas.DashOffset:
		return appendF32(append(dst, "Do"...), op.Offset)
	case canvas.StrokeColor:
		return appendColor(append(dst, "Cs"...), op.Color)
	case canvas.FillColor:
		return appendColor(append(dst, "Cf"...), op.Color)
	case canvas.FillTexture:
		dst = append(dst, "Ct"...)
		dst = appendCompact(dst, uint64(op.TextureId))
		dst = appendF32(dst, op.Min.X)
		dst = appendF32(dst, op.Min.Y)
		dst = appendF32(dst, op.Max.X)
		return appendF32(dst, op.Max.Y)
	case canvas.FillGradient:
		dst = append(dst, "Cg"...)
		dst = appendCompact(dst, uint64(op.GradientId))
		dst = appendF32(dst, op.Min.X)
		dst = appendF32(dst, op.Min.Y)
		dst = appendF32(dst, op.Max.X)
		return appendF32(dst, op.Max.Y)
	case canvas.FillTransform:
		return appendTransform(append(dst, "CT"...), op.Transform)
	case canvas.SetBlendMode:
		return appendBlendMode(append(dst, 'M'), op.Mode)

	// Transform
	case canvas.IdentityTransform:
		return append(dst, "Ti"...)
	case canvas.CanvasHeight:
		return appendF32(append(dst, "Th"...), op.Height)
	case canvas.CenterRegion:
		dst = append(dst, "Tc"...)
		dst = appendF32(dst, op.Min.X)
		dst = appendF32(dst, op.Min.Y)
		dst = appendF32(dst, op.Max.X)
		return appendF32(dst, op.Max.Y)
	case canvas.MultiplyTransform:
		return appendTransform(append(dst, "Tm"...), op.Transform)

	// State
	case canvas.Unclip:
		return append(dst, "Zn"...)
	case canvas.Clip:
		return append(dst, "Zc"...)
	case canvas.Store:
		return append(dst, "Zs"...)
	case canvas.Restore:
		return append(dst, "Zr"...)
	case canvas.FreeStoredBuffer:
		return append(dst, "Zf"...)
	case canvas.PushState:
		return append(dst, 'P')
	case canvas.PopState:
		return append(dst, 'p')

	// Canvas and layers
	case canvas.ClearCanvas:
		return appendColor(append(dst, "NA"...), op.Color)
	case canvas.Layer:
		return appendCompact(append(dst, "NL"...), uint64(op.Id))
	case canvas.LayerBlend:
		dst = append(dst, "NB"...)
		dst = appendCompact(dst, uint64(op.Id))
		return appendBlendMode(dst, op.Mode)
	case canvas.LayerAlpha:
		dst = append(dst, "Nt"...)
		dst = appendCompact(dst, uint64(op.Id))
		return appendF32(dst, op.Alpha)
	case canvas.ClearLayer:
		return append(dst, "NC"...)
	case canvas.ClearAllLayers:
		return append(dst, "Na"...)
	case canvas.SwapLayers:
		dst = append(dst, "NX"...)
		dst = appendCompact(dst, uint64(op.Layer1))
		return appendCompact(dst, uint64(op.Layer2))
	case canvas.Namespace:
		hi, lo := op.Id.U64Pair()
		dst = append(dst, "NN"...)
		dst = appendU64(dst, hi)
		return appendU64(dst, lo)

	// Frames
	case canvas.StartFrame:
		return append(dst, "NF"...)
	case canvas.ShowFrame:
		return append(dst, "Nf"...)
	case canvas.ResetFrame:
		return append(dst, "NG"...)

	// Sprites
	case canvas.Sprite:
		return appendCompact(append(dst, "Ns"...), uint64(op.Id))
	case canvas.ClearSprite:
		return append(dst, "sC"...)
	case canvas.SpriteTransform:
		return appendSpriteTransform(append(dst, "sT"...), op.Transform)
	case canvas.DrawSprite:
		return appendCompact(append(dst, "sD"...), uint64(op.Id))
	case canvas.DrawSpriteWithFilters:
		dst = append(dst, "sF"...)
		dst = appendCompact(dst, uint64(op.Id))
		dst = appendCompact(dst, uint64(len(op.Filters)))
		for _, filter := range op.Filters {
			dst = appendFilter(dst, filter)
		}
		return dst
	case canvas.MoveSpriteFrom:
		return appendCompact(append(dst, "sm"...), uint64(op.Id))

	// Text
	case canvas.Font:
		dst = append(dst, 'f')
		dst = appendCompact(dst, uint64(op.Id))
		return appendFontOp(dst, op.Op)
	case canvas.DrawText:
		dst = append(dst, "tT"...)
		dst = appendCompact(dst, uint64(op.FontId))
		dst = appendString(dst, op.Text)
		dst = appendF32(dst, op.X)
		return appendF32(dst, op.Y)
	case canvas.BeginLineLayout:
		dst = append(dst, "tl"...)
		dst = appendF32(dst, op.X)
		dst = appendF32(dst, op.Y)
		switch op.Align {
		case canvas.AlignRight:
			return append(dst, 'r')
		case canvas.AlignCenter:
			return append(dst, 'c')
		default:
			return append(dst, 'l')
		}
	case canvas.DrawLaidOutText:
		return append(dst, "tR"...)

	// Textures and gradients
	case canvas.Texture:
		dst = append(dst, 'B')
		dst = appendCompact(dst, uint64(op.Id))
		return appendTextureOp(dst, op.Op)
	case canvas.Gradient:
		dst = append(dst, 'G')
		dst = appendCompact(dst, uint64(op.Id))
		return appendGradientOp(dst, op.Op)

	default:
		panic(fmt.Sprintf("wire: cannot encode %T", op))
	}
}

func appendColor(dst []byte, col canvas.Color) []byte {
	dst = append(dst, 'R')
	dst = appendF32(dst, col.R)
	dst = appendF32(dst, col.G)
	dst = appendF32(dst, col.B)
	return appendF32(dst, col.A)
}

func appendTransform(dst []byte, t canvas.Transform2D) []byte {
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			dst = appendF32(dst, t[row][col])
		}
	}
	return dst
}

func appendBlendMode(dst []byte, mode canvas.BlendMode) []byte {
	switch mode {
	case canvas.BlendSourceOver:
		return append(dst, "SV"...)
	case canvas.BlendSourceIn:
		return append(dst, "SI"...)
	case canvas.BlendSourceOut:
		return append(dst, "SO"...)
	case canvas.BlendSourceAtop:
		return append(dst, "SA"...)
	case canvas.BlendDestinationOver:
		return append(dst, "DV"...)
	case canvas.BlendDestinationIn:
		return append(dst, "DI"...)
	case canvas.BlendDestinationOut:
		return append(dst, "DO"...)
	case canvas.BlendDestinationAtop:
		return append(dst, "DA"...)
	case canvas.BlendMultiply:
		return append(dst, "EM"...)
	case canvas.BlendScreen:
		return append(dst, "ES"...)
	case canvas.BlendDarken:
		return append(dst, "ED"...)
	case canvas.BlendLighten:
		return append(dst, "EL"...)
	default:
		panic(fmt.Sprintf("wire: cannot encode blend mode %v", mode))
	}
}

func appendSpriteTransform(dst []byte, op canvas.SpriteTransformOp) []byte {
	switch op := op.(type) {
	case canvas.SpriteIdentity:
		return append(dst, 'i')
	case canvas.SpriteTranslate:
		dst = append(dst, 't')
		dst = appendF32(dst, op.X)
		return appendF32(dst, op.Y)
	case canvas.SpriteScale:
		dst = append(dst, 's')
		dst = appendF32(dst, op.X)
		return appendF32(dst, op.Y)
	case canvas.SpriteRotate:
		return appendF32(append(dst, 'r'), op.Degrees)
	case canvas.SpriteMatrix:
		return appendTransform(append(dst, 'T'), op.Transform)
	default:
		panic(fmt.Sprintf("wire: cannot encode sprite transform %T", op))
	}
}

func appendFilter(dst []byte, filter canvas.TextureFilter) []byte {
	switch filter := filter.(type) {
	case canvas.GaussianBlur:
		return appendF32(append(dst, 'B'), filter.Radius)
	case canvas.AlphaBlend:
		return appendF32(append(dst, 'A'), filter.Alpha)
	case canvas.Mask:
		return appendCompact(append(dst, 'M'), uint64(filter.Texture))
	case canvas.DisplacementMap:
		dst = append(dst, 'D')
		dst = appendCompact(dst, uint64(filter.Texture))
		dst = appendF32(dst, filter.RadiusX)
		return appendF32(dst, filter.RadiusY)
	default:
		panic(fmt.Sprintf("wire: cannot encode texture filter %T", filter))
	}
}

func appendFontOp(dst []byte, op canvas.FontOp) []byte {
	switch op := op.(type) {
	case canvas.UseFontDefinition:
		return appendBytes(append(dst, "dT"...), op.Data)
	case canvas.FontSize:
		return appendF32(append(dst, 'S'), op.Size)
	case canvas.LayoutText:
		return appendString(append(dst, 'L'), op.Text)
	case canvas.DrawGlyphs:
		dst = append(dst, 'G')
		dst = appendCompact(dst, uint64(len(op.Glyphs)))
		for _, glyph := range op.Glyphs {
			dst = appendU32(dst, uint32(glyph.Id))
			dst = appendF32(dst, glyph.X)
			dst = appendF32(dst, glyph.Y)
			dst = appendF32(dst, glyph.EmSize)
		}
		return dst
	default:
		panic(fmt.Sprintf("wire: cannot encode font op %T", op))
	}
}

func appendTextureOp(dst []byte, op canvas.TextureOp) []byte {
	switch op := op.(type) {
	case canvas.TextureCreate:
		dst = append(dst, 'N')
		dst = appendU32(dst, op.Width)
		dst = appendU32(dst, op.Height)
		return append(dst, 'r')
	case canvas.TextureFree:
		return append(dst, 'X')
	case canvas.TextureSetBytes:
		dst = append(dst, 'D')
		dst = appendU32(dst, op.X)
		dst = appendU32(dst, op.Y)
		dst = appendU32(dst, op.Width)
		dst = appendU32(dst, op.Height)
		return appendBytes(dst, op.Bytes)
	case canvas.TextureSetFromSprite:
		dst = append(dst, 'S')
		dst = appendCompact(dst, uint64(op.Sprite))
		dst = appendF32(dst, op.Bounds.X)
		dst = appendF32(dst, op.Bounds.Y)
		dst = appendF32(dst, op.Bounds.Width)
		return appendF32(dst, op.Bounds.Height)
	case canvas.TextureCreateDynamicSprite:
		dst = append(dst, 's')
		dst = appendCompact(dst, uint64(op.Sprite))
		dst = appendF32(dst, op.Bounds.X)
		dst = appendF32(dst, op.Bounds.Y)
		dst = appendF32(dst, op.Bounds.Width)
		dst = appendF32(dst, op.Bounds.Height)
		dst = appendF32(dst, op.CanvasWidth)
		return appendF32(dst, op.CanvasHeight)
	case canvas.TextureFillTransparency:
		return appendF32(append(dst, 't'), op.Alpha)
	case canvas.TextureCopy:
		return appendCompact(append(dst, 'C'), uint64(op.Target))
	case canvas.TextureApplyFilter:
		return appendFilter(append(dst, 'F'), op.Filter)
	default:
		panic(fmt.Sprintf("wire: cannot encode texture op %T", op))
	}
}

func appendGradientOp(dst []byte, op canvas.GradientOp) []byte {
	switch op := op.(type) {
	case canvas.GradientCreate:
		return appendColor(append(dst, 'N'), op.Color)
	case canvas.GradientAddStop:
		dst = append(dst, 'S')
		dst = appendF32(dst, op.Pos)
		return appendColor(dst, op.Color)
	default:
		panic(fmt.Sprintf("wire: cannot encode gradient op %T", op))
	}
}

// Encoder accumulates the encoding of a sequence of operations.
//
// The zero value is an empty encoder.
type Encoder struct {
	buf []byte
}

// EncodeDraw appends one operation.
func (e *Encoder) EncodeDraw(op canvas.Draw) {
	e.buf = AppendDraw(e.buf, op)
}

// Bytes returns the encoded stream. The slice aliases the encoder's
// buffer and is only valid until the next EncodeDraw.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// String returns the encoded stream as a string.
func (e *Encoder) String() string {
	return string(e.buf)
}

// Reset discards the buffered encoding, retaining the buffer.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeAll encodes a whole drawing as a single string.
func EncodeAll(ops []canvas.Draw) string {
	var buf []byte
	for _, op := range ops {
		buf = AppendDraw(buf, op)
	}
	return string(buf)
}
