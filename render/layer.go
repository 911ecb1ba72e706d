// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/stroke"
)

// layerHandle names a layer or sprite in the render core, independent of
// the canvas-level id it is currently bound to (SwapLayers rebinds ids
// without moving content).
type layerHandle int

const noLayer layerHandle = -1

// fillKind says what paint the next fill submits with.
type fillKind uint8

const (
	fillColor fillKind = iota
	fillTexture
	fillGradient
)

// fillState is the pending fill paint of a layer. Texture and gradient
// fills hold canvas-level ids; the plan-level texture is resolved when a
// fill is submitted so copy-on-write texture edits take effect.
type fillState struct {
	kind     fillKind
	color    canvas.Color
	texture  canvas.TextureId
	gradient canvas.GradientId
	matrix   canvas.Transform2D
	repeat   bool
}

// flatColor is the vertex color tessellated geometry carries. Texture and
// gradient fills shade in the fragment stage, so their vertices are
// opaque black.
func (f fillState) flatColor() canvas.Color {
	if f.kind == fillColor {
		return f.color
	}
	return canvas.Color{R: 0, G: 0, B: 0, A: 1}
}

// textureFillMatrix maps canvas coordinates to texture coordinates such
// that min..max covers one copy of the texture. Degenerate spans are
// nudged so the matrix stays invertible.
func textureFillMatrix(min, max canvas.Point) canvas.Transform2D {
	x1, y1, x2, y2 := min.X, min.Y, max.X, max.Y
	if x2 == x1 {
		x2 += 0.0000001
	}
	if y2 == y1 {
		y2 += 0.0000001
	}
	sx := 1 / (x2 - x1)
	sy := 1 / (y2 - y1)
	return canvas.Transform2D{
		{sx, 0, -x1 * sx},
		{0, sy, -y1 * sy},
		{0, 0, 1},
	}
}

// gradientFillMatrix maps canvas coordinates to 1D gradient positions so
// that min projects to 0 and max to 1 along the min->max axis.
func gradientFillMatrix(min, max canvas.Point) canvas.Transform2D {
	ax := max.X - min.X
	ay := max.Y - min.Y
	lenSq := ax*ax + ay*ay
	if lenSq == 0 {
		lenSq = 0.0000001
	}
	ax /= lenSq
	ay /= lenSq
	return canvas.Transform2D{
		{ax, ay, -(min.X*ax + min.Y*ay)},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// strokeSettings is the pending stroke style of a layer. Width and dash
// lengths are in canvas units.
type strokeSettings struct {
	color       canvas.Color
	width       float32
	join        canvas.LineJoin
	cap         canvas.LineCap
	dashPattern []float32
	dashOffset  float32
}

func defaultStrokeSettings() strokeSettings {
	return strokeSettings{
		color: canvas.Color{R: 0, G: 0, B: 0, A: 1},
		width: 1,
		join:  canvas.LineJoinMiter,
		cap:   canvas.LineCapButt,
	}
}

// expanderStyle converts the settings for the stroke outline expander.
func (s strokeSettings) expanderStyle() stroke.Stroke {
	style := stroke.DefaultStroke()
	style.Width = float64(s.width)
	switch s.cap {
	case canvas.LineCapRound:
		style.Cap = stroke.LineCapRound
	case canvas.LineCapSquare:
		style.Cap = stroke.LineCapSquare
	default:
		style.Cap = stroke.LineCapButt
	}
	switch s.join {
	case canvas.LineJoinRound:
		style.Join = stroke.LineJoinRound
	case canvas.LineJoinBevel:
		style.Join = stroke.LineJoinBevel
	default:
		style.Join = stroke.LineJoinMiter
	}
	return style
}

// layerState is the drawing state of a layer: everything PushState saves
// and PopState restores.
type layerState struct {
	isSprite    bool
	fill        fillState
	stroke      strokeSettings
	windingRule canvas.WindingRule
	blendMode   canvas.BlendMode

	// currentMatrix is the canvas transform last applied to this layer's
	// entity log. The transform is global across the canvas, so PopState
	// preserves it everywhere except inside sprites.
	currentMatrix canvas.Transform2D

	// spriteMatrix accumulates SpriteTransform operations and is attached
	// to the next DrawSprite entity.
	spriteMatrix canvas.Transform2D

	// scaleFactor is the number of device pixels per canvas unit under
	// currentMatrix, used to pick tessellation tolerances.
	scaleFactor     float32
	baseScaleFactor float32

	// restorePoint is the entity count captured by Store, or -1.
	restorePoint int
}

func newLayerState(isSprite bool, baseScaleFactor float32) layerState {
	return layerState{
		isSprite:        isSprite,
		fill:            fillState{kind: fillColor, color: canvas.Color{R: 0, G: 0, B: 0, A: 1}},
		stroke:          defaultStrokeSettings(),
		windingRule:     canvas.WindingRuleNonZero,
		blendMode:       canvas.BlendSourceOver,
		currentMatrix:   canvas.IdentityMatrix,
		spriteMatrix:    canvas.IdentityMatrix,
		scaleFactor:     baseScaleFactor,
		baseScaleFactor: baseScaleFactor,
		restorePoint:    -1,
	}
}

// canvasLayer is the retained content and state of one layer or sprite.
type canvasLayer struct {
	renderOrder  []renderEntity
	bounds       layerBounds
	state        layerState
	storedStates []layerState

	// blendMode and alpha control how the finished layer composites onto
	// the layers beneath it.
	blendMode canvas.BlendMode
	alpha     float32

	// Position in the declared layer order: namespaces in first-use
	// order, ids ascending within a namespace. Meaningless for sprites.
	orderNs int
	orderId canvas.LayerId

	// path is the working path; it belongs to the layer so switching
	// layers switches paths.
	path pathAccumulator

	// Markers for the last pushed paint entities, so a paint entity is
	// appended only when the effective paint changes. lastFillEntity is
	// one of the entitySet* paint entities, including entitySetDashPattern
	// for dashed strokes.
	lastFillEntity renderEntity
	lastBlendMode  canvas.BlendMode

	// modificationCount increments on every content change. Dynamic
	// textures re-render when the count of their source sprite moves.
	modificationCount uint64
}

func newCanvasLayer(isSprite bool, baseScaleFactor float32) *canvasLayer {
	return &canvasLayer{
		bounds:        undefinedBounds(),
		state:         newLayerState(isSprite, baseScaleFactor),
		blendMode:     canvas.BlendSourceOver,
		alpha:         1,
		lastBlendMode: canvas.BlendSourceOver,
	}
}

// updateTransform appends a transform entity when the active canvas
// transform differs from the one the layer's log was built under. Sprite
// layers never carry transform entities; their geometry is pre-transformed
// at submission and positioned by the DrawSprite that references them.
func (l *canvasLayer) updateTransform(active canvas.Transform2D) {
	if l.state.isSprite || l.state.currentMatrix == active {
		return
	}
	l.state.currentMatrix = active
	l.updateScaleFactor()
	l.renderOrder = append(l.renderOrder, entitySetTransform{transform: active})
}

// updateScaleFactor recomputes the pixels-per-canvas-unit estimate from
// the current matrix. The y row decides: the canvas maps its height to the
// viewport height regardless of aspect.
func (l *canvasLayer) updateScaleFactor() {
	m := l.state.currentMatrix
	rowLen := float32(math.Hypot(float64(m[1][0]), float64(m[1][1])))
	l.state.scaleFactor = rowLen * l.state.baseScaleFactor
	if l.state.scaleFactor <= 0 {
		l.state.scaleFactor = l.state.baseScaleFactor
	}
}

// pushState saves the layer's drawing state.
func (l *canvasLayer) pushState() {
	saved := l.state
	saved.stroke.dashPattern = append([]float32(nil), l.state.stroke.dashPattern...)
	l.storedStates = append(l.storedStates, saved)
}

// popState restores the most recently pushed state. The canvas transform
// is global, so the current matrix and scale factor survive the pop on
// ordinary layers; sprites keep their own coordinate space and restore
// everything.
func (l *canvasLayer) popState() {
	n := len(l.storedStates)
	if n == 0 {
		return
	}
	restored := l.storedStates[n-1]
	l.storedStates = l.storedStates[:n-1]
	if !l.state.isSprite {
		restored.currentMatrix = l.state.currentMatrix
		restored.scaleFactor = l.state.scaleFactor
		restored.baseScaleFactor = l.state.baseScaleFactor
	}
	restored.restorePoint = l.state.restorePoint
	l.state = restored
}

// modified bumps the layer's modification count.
func (l *canvasLayer) modified() {
	l.modificationCount++
}

// invalidatePaintMarkers forces the next fill or stroke to re-append its
// paint entities. Used when the tail of the entity log is rewritten and
// the markers no longer describe the last entities in it.
func (l *canvasLayer) invalidatePaintMarkers() {
	l.lastFillEntity = nil
	l.lastBlendMode = canvas.BlendMode(0xff)
}

// pathAccumulator collects path-building operations until a fill, stroke
// or clip consumes them.
type pathAccumulator struct {
	elements []stroke.PathElement
	started  bool
}

func (p *pathAccumulator) clear() {
	p.elements = p.elements[:0]
	p.started = false
}

func (p *pathAccumulator) moveTo(x, y float32) {
	p.elements = append(p.elements, stroke.MoveTo{Point: stroke.Point{X: float64(x), Y: float64(y)}})
	p.started = true
}

func (p *pathAccumulator) lineTo(x, y float32) {
	if !p.started {
		p.moveTo(0, 0)
	}
	p.elements = append(p.elements, stroke.LineTo{Point: stroke.Point{X: float64(x), Y: float64(y)}})
}

func (p *pathAccumulator) bezierTo(cp1, cp2, end canvas.Point) {
	if !p.started {
		p.moveTo(0, 0)
	}
	p.elements = append(p.elements, stroke.CubicTo{
		Control1: stroke.Point{X: float64(cp1.X), Y: float64(cp1.Y)},
		Control2: stroke.Point{X: float64(cp2.X), Y: float64(cp2.Y)},
		Point:    stroke.Point{X: float64(end.X), Y: float64(end.Y)},
	})
}

func (p *pathAccumulator) closePath() {
	if p.started {
		p.elements = append(p.elements, stroke.Close{})
	}
}

// snapshot copies the accumulated elements for a tessellation job.
func (p *pathAccumulator) snapshot() []stroke.PathElement {
	if len(p.elements) == 0 {
		return nil
	}
	return append([]stroke.PathElement(nil), p.elements...)
}

func (p *pathAccumulator) empty() bool {
	return len(p.elements) == 0
}
