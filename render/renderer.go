// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"log/slog"
	"sync"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/parallel"
	"github.com/gogpu/canvas/internal/stroke"
)

// selection names the layer or sprite that drawing operations currently
// target. It is held as a key rather than a handle so SwapLayers redirects
// the selection the same way it redirects the ids.
type selection struct {
	isSprite bool
	layer    layerKey
	sprite   spriteKey
}

// CanvasRenderer converts canvas drawing operations into render plans.
//
// Operations submitted with Draw are retained: each layer keeps a log of
// entities that Plan replays into actions for a backend. Fills, strokes
// and clips tessellate on a worker pool, so Draw returns before their
// geometry is ready; Plan waits for outstanding jobs before reading the
// logs.
//
// A renderer is driven from one goroutine. Draw, Plan and Close must not
// be called concurrently with each other; the stream a Plan returns can be
// consumed elsewhere once Plan has returned.
type CanvasRenderer struct {
	core    *renderCore
	pool    *parallel.WorkerPool
	ownPool bool
	pending sync.WaitGroup
	log     *slog.Logger

	device       DeviceHandle
	memoryLimit  int64
	warnedMemory bool
	workers      int

	// Drawing-source state, guarded by core.mu.
	namespace      canvas.NamespaceId
	sel            selection
	transform      canvas.Transform2D
	transformStack []canvas.Transform2D

	windowWidth       float32
	windowHeight      float32
	baseScaleFactor   float32
	viewportTransform canvas.Transform2D

	// Plan generation state that persists between frames.
	plan planState
}

// Option configures a CanvasRenderer.
type Option func(*CanvasRenderer)

// WithWorkers sets the number of tessellation workers. Zero or negative
// uses one worker per CPU.
func WithWorkers(n int) Option {
	return func(r *CanvasRenderer) { r.workers = n }
}

// WithDevice attaches the backend device the plans will be consumed by,
// so render target descriptions can be queried from the renderer.
func WithDevice(device DeviceHandle) Option {
	return func(r *CanvasRenderer) { r.device = device }
}

// WithGraphicsMemoryLimit sets a soft cap, in bytes, on retained vertex
// data. Plans still generate past the cap; crossing it logs a warning so
// runaway drawings are visible.
func WithGraphicsMemoryLimit(bytes int64) Option {
	return func(r *CanvasRenderer) { r.memoryLimit = bytes }
}

// NewCanvasRenderer makes an empty renderer with layer 0 of the global
// namespace selected and a 1x1 viewport. Call SetViewport before the
// first Plan so tolerances and target sizes match the window.
func NewCanvasRenderer(opts ...Option) *CanvasRenderer {
	r := &CanvasRenderer{
		core:              newRenderCore(),
		log:               canvas.Logger().With("component", "render"),
		device:            NullDeviceHandle{},
		transform:         canvas.IdentityMatrix,
		windowWidth:       1,
		windowHeight:      1,
		baseScaleFactor:   0.5,
		viewportTransform: canvas.IdentityMatrix,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = parallel.NewWorkerPool(r.workers)
	r.ownPool = true
	r.namespace = canvas.GlobalNamespace
	r.sel = selection{layer: layerKey{namespace: canvas.GlobalNamespace, layer: 0}}
	r.core.layerFor(r.sel.layer, r.baseScaleFactor)
	return r
}

// Close waits for outstanding tessellation jobs and shuts down the worker
// pool. The renderer must not be used after Close.
func (r *CanvasRenderer) Close() {
	r.pending.Wait()
	if r.ownPool && r.pool != nil {
		r.pool.Close()
	}
}

// SetViewport sets the pixel size of the window the canvas renders to.
// The canvas maps its height onto the viewport height; the scale factor
// driving tessellation tolerances follows from it.
func (r *CanvasRenderer) SetViewport(width, height float32) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.windowWidth = width
	r.windowHeight = height
	r.baseScaleFactor = height / 2
	r.viewportTransform = canvas.Scale(height/width, 1)
	for _, l := range r.core.layers {
		l.state.baseScaleFactor = r.baseScaleFactor
		l.updateScaleFactor()
	}
}

// WindowTransform returns the transform from canvas coordinates to window
// pixel coordinates (origin top left, y down), for mapping pointer events
// back onto the drawing.
func (r *CanvasRenderer) WindowTransform() canvas.Transform2D {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	w, h := r.windowWidth, r.windowHeight
	clipToPixels := canvas.Transform2D{
		{w / 2, 0, w / 2},
		{0, -h / 2, h / 2},
		{0, 0, 1},
	}
	return clipToPixels.Multiply(r.viewportTransform).Multiply(r.transform)
}

// Draw applies drawing operations to the retained canvas state, scheduling
// tessellation jobs for fills, strokes and clips.
func (r *CanvasRenderer) Draw(ops ...canvas.Draw) {
	r.core.mu.Lock()
	defer r.core.mu.Unlock()
	for _, op := range ops {
		r.applyOp(op)
	}
}

func (r *CanvasRenderer) applyOp(op canvas.Draw) {
	switch op := op.(type) {
	// Frames.
	case canvas.StartFrame:
		r.core.frameStarts++
	case canvas.ShowFrame:
		if r.core.frameStarts > 0 {
			r.core.frameStarts--
		}
	case canvas.ResetFrame:
		r.core.frameStarts = 0

	// Canvas and layers.
	case canvas.Namespace:
		r.namespace = op.Id
	case canvas.ClearCanvas:
		r.clearCanvas(op.Color)
	case canvas.Layer:
		r.sel = selection{layer: layerKey{namespace: r.namespace, layer: op.Id}}
		r.core.layerFor(r.sel.layer, r.baseScaleFactor)
	case canvas.LayerBlend:
		h := r.core.layerFor(layerKey{namespace: r.namespace, layer: op.Id}, r.baseScaleFactor)
		r.core.layers[h].blendMode = op.Mode
	case canvas.LayerAlpha:
		h := r.core.layerFor(layerKey{namespace: r.namespace, layer: op.Id}, r.baseScaleFactor)
		alpha := op.Alpha
		if alpha < 0 {
			alpha = 0
		}
		if alpha > 1 {
			alpha = 1
		}
		r.core.layers[h].alpha = alpha
	case canvas.ClearLayer:
		l, _ := r.currentLayer()
		r.core.clearLayerContents(l)
		r.reapplyTransform(l)
	case canvas.ClearAllLayers:
		for _, l := range r.core.layers {
			if l.state.isSprite {
				continue
			}
			r.core.clearLayerContents(l)
			r.reapplyTransform(l)
		}
	case canvas.SwapLayers:
		k1 := layerKey{namespace: r.namespace, layer: op.Layer1}
		k2 := layerKey{namespace: r.namespace, layer: op.Layer2}
		r.core.swapLayers(k1, k2, r.baseScaleFactor)

	// State.
	case canvas.PushState:
		r.transformStack = append(r.transformStack, r.transform)
		for _, l := range r.core.layers {
			l.pushState()
		}
	case canvas.PopState:
		if n := len(r.transformStack); n > 0 {
			saved := r.transformStack[n-1]
			r.transformStack = r.transformStack[:n-1]
			// Transform changes since the push are kept, except while
			// drawing a sprite, which has its own coordinate space.
			if r.sel.isSprite {
				r.transform = saved
			}
		}
		for _, l := range r.core.layers {
			l.popState()
		}
		l, _ := r.currentLayer()
		l.updateTransform(r.transform)
	case canvas.Store:
		l, _ := r.currentLayer()
		l.state.restorePoint = len(l.renderOrder)
	case canvas.Restore:
		r.restoreLayer()
	case canvas.FreeStoredBuffer:
		l, _ := r.currentLayer()
		l.state.restorePoint = -1
	case canvas.Clip:
		r.submitClip()
	case canvas.Unclip:
		l, _ := r.currentLayer()
		l.renderOrder = append(l.renderOrder, entityDisableClipping{})
		l.modified()

	// Transforms.
	case canvas.IdentityTransform:
		r.transform = canvas.IdentityMatrix
	case canvas.CanvasHeight:
		r.transform = canvasHeightTransform(op.Height)
	case canvas.CenterRegion:
		mid := canvas.Point{X: (op.Min.X + op.Max.X) / 2, Y: (op.Min.Y + op.Max.Y) / 2}
		p := r.transform.Transform(mid)
		r.transform = canvas.Translate(-p.X, -p.Y).Multiply(r.transform)
	case canvas.MultiplyTransform:
		r.transform = r.transform.Multiply(op.Transform)

	// Sprites.
	case canvas.Sprite:
		r.sel = selection{isSprite: true, sprite: spriteKey{namespace: r.namespace, sprite: op.Id}}
		r.core.spriteFor(r.sel.sprite, r.baseScaleFactor)
	case canvas.ClearSprite:
		if r.sel.isSprite {
			l, _ := r.currentLayer()
			r.core.clearLayerContents(l)
		}
	case canvas.SpriteTransform:
		l, _ := r.currentLayer()
		l.state.spriteMatrix = applySpriteTransform(l.state.spriteMatrix, op.Transform)
	case canvas.DrawSprite:
		r.drawSprite(op.Id, nil, 0)
	case canvas.DrawSpriteWithFilters:
		l, _ := r.currentLayer()
		filters, radius := r.convertFilters(op.Filters, r.submitScaleFactor(l), true)
		r.drawSprite(op.Id, filters, radius)
	case canvas.MoveSpriteFrom:
		r.moveSpriteFrom(op.Id)

	// Paths.
	case canvas.NewPath:
		l, _ := r.currentLayer()
		l.path.clear()
	case canvas.Move:
		l, _ := r.currentLayer()
		l.path.moveTo(op.X, op.Y)
	case canvas.Line:
		l, _ := r.currentLayer()
		l.path.lineTo(op.X, op.Y)
	case canvas.BezierCurve:
		l, _ := r.currentLayer()
		l.path.bezierTo(op.Cp1, op.Cp2, op.End)
	case canvas.ClosePath:
		l, _ := r.currentLayer()
		l.path.closePath()
	case canvas.SetWindingRule:
		l, _ := r.currentLayer()
		l.state.windingRule = op.Rule

	// Paint.
	case canvas.Fill:
		r.submitFill()
	case canvas.Stroke:
		r.submitStroke()
	case canvas.LineWidth:
		l, _ := r.currentLayer()
		l.state.stroke.width = op.Width
	case canvas.LineWidthPixels:
		l, _ := r.currentLayer()
		sf := r.submitScaleFactor(l)
		if sf <= 0 {
			sf = 1
		}
		l.state.stroke.width = op.Width / sf
	case canvas.SetLineJoin:
		l, _ := r.currentLayer()
		l.state.stroke.join = op.Join
	case canvas.SetLineCap:
		l, _ := r.currentLayer()
		l.state.stroke.cap = op.Cap
	case canvas.NewDashPattern:
		l, _ := r.currentLayer()
		l.state.stroke.dashPattern = nil
	case canvas.DashLength:
		l, _ := r.currentLayer()
		l.state.stroke.dashPattern = append(l.state.stroke.dashPattern, op.Length)
	case canvas.DashOffset:
		l, _ := r.currentLayer()
		l.state.stroke.dashOffset = op.Offset
	case canvas.StrokeColor:
		l, _ := r.currentLayer()
		l.state.stroke.color = op.Color
	case canvas.FillColor:
		l, _ := r.currentLayer()
		l.state.fill = fillState{kind: fillColor, color: op.Color}
	case canvas.FillTexture:
		l, _ := r.currentLayer()
		l.state.fill = fillState{
			kind:    fillTexture,
			texture: op.TextureId,
			matrix:  textureFillMatrix(op.Min, op.Max),
			repeat:  true,
		}
	case canvas.FillGradient:
		l, _ := r.currentLayer()
		l.state.fill = fillState{
			kind:     fillGradient,
			gradient: op.GradientId,
			matrix:   gradientFillMatrix(op.Min, op.Max),
		}
	case canvas.FillTransform:
		l, _ := r.currentLayer()
		if inv, ok := op.Transform.Invert(); ok && l.state.fill.kind != fillColor {
			l.state.fill.matrix = l.state.fill.matrix.Multiply(inv)
		}
	case canvas.SetBlendMode:
		l, _ := r.currentLayer()
		l.state.blendMode = op.Mode

	// Resources.
	case canvas.Texture:
		r.applyTextureOp(op.Id, op.Op)
	case canvas.Gradient:
		key := gradientKey{namespace: r.namespace, gradient: op.Id}
		switch g := op.Op.(type) {
		case canvas.GradientCreate:
			r.core.createGradient(key, g.Color)
		case canvas.GradientAddStop:
			r.core.addGradientStop(key, g.Pos, g.Color)
		}

	case canvas.Font, canvas.DrawText, canvas.BeginLineLayout, canvas.DrawLaidOutText:
		// Text arrives here only when no text layer turned it into paths
		// or glyph sprites first; there is nothing to rasterise.
	}
}

// currentLayer resolves the current selection, recreating the layer or
// sprite if a clear removed it.
func (r *CanvasRenderer) currentLayer() (*canvasLayer, layerHandle) {
	var h layerHandle
	if r.sel.isSprite {
		h = r.core.spriteFor(r.sel.sprite, r.baseScaleFactor)
	} else {
		h = r.core.layerFor(r.sel.layer, r.baseScaleFactor)
	}
	return r.core.layers[h], h
}

// reapplyTransform re-establishes the transform entity after a layer's log
// was emptied, so the layer keeps drawing under the active transform.
func (r *CanvasRenderer) reapplyTransform(l *canvasLayer) {
	if l.state.isSprite {
		return
	}
	l.state.currentMatrix = canvas.IdentityMatrix
	l.updateScaleFactor()
	l.updateTransform(r.transform)
}

// clearCanvas discards every layer and sprite, resets the drawing state
// and sets the background color. Texture and gradient declarations
// survive.
func (r *CanvasRenderer) clearCanvas(background canvas.Color) {
	for _, l := range r.core.layers {
		r.core.clearLayerContents(l)
	}
	r.core.layers = make(map[layerHandle]*canvasLayer)
	r.core.layerIds = make(map[layerKey]layerHandle)
	r.core.spriteIds = make(map[spriteKey]layerHandle)
	r.core.layerOrder = nil
	r.core.nsOrder = make(map[canvas.NamespaceId]int)
	r.core.background = background
	r.namespace = canvas.GlobalNamespace
	r.transform = canvas.IdentityMatrix
	r.transformStack = r.transformStack[:0]
	r.sel = selection{layer: layerKey{namespace: canvas.GlobalNamespace, layer: 0}}
	r.core.layerFor(r.sel.layer, r.baseScaleFactor)
}

// restoreLayer rolls the current layer back to the entity count captured
// by Store, releasing the resources of everything after it.
func (r *CanvasRenderer) restoreLayer() {
	l, _ := r.currentLayer()
	rp := l.state.restorePoint
	if rp < 0 || rp > len(l.renderOrder) {
		return
	}
	for _, e := range l.renderOrder[rp:] {
		r.core.freeEntityResources(e)
	}
	l.renderOrder = l.renderOrder[:rp]
	l.invalidatePaintMarkers()
	l.modified()
}

// moveSpriteFrom transfers another sprite's contents into the current
// target, leaving the source empty but still defined.
func (r *CanvasRenderer) moveSpriteFrom(id canvas.SpriteId) {
	src := r.core.spriteFor(spriteKey{namespace: r.namespace, sprite: id}, r.baseScaleFactor)
	dst, dstHandle := r.currentLayer()
	if src == dstHandle {
		return
	}
	srcLayer := r.core.layers[src]
	r.core.clearLayerContents(dst)
	dst.renderOrder = srcLayer.renderOrder
	dst.bounds = srcLayer.bounds
	dst.invalidatePaintMarkers()
	dst.modified()
	srcLayer.renderOrder = nil
	srcLayer.bounds = undefinedBounds()
	srcLayer.state.restorePoint = -1
	srcLayer.lastFillEntity = nil
	srcLayer.lastBlendMode = canvas.BlendSourceOver
	srcLayer.modified()
}

// drawSprite appends a sprite reference to the current target. With
// filters, the sprite renders through an off-screen texture first.
func (r *CanvasRenderer) drawSprite(id canvas.SpriteId, filters []TextureFilter, filterRadius float32) {
	l, _ := r.currentLayer()
	m := l.state.spriteMatrix
	if l.state.isSprite {
		// Sprite logs carry no transform entities; the active transform
		// folds into the reference instead.
		m = r.transform.Multiply(m)
	} else {
		l.updateTransform(r.transform)
	}
	if len(filters) == 0 {
		l.renderOrder = append(l.renderOrder, entityRenderSprite{
			namespace: r.namespace,
			sprite:    id,
			transform: m,
		})
	} else {
		l.renderOrder = append(l.renderOrder, entityRenderSpriteWithFilters{
			namespace:    r.namespace,
			sprite:       id,
			transform:    m,
			filters:      filters,
			filterRadius: filterRadius,
		})
	}
	l.modified()
}

// submitFill schedules tessellation of the current path as a filled shape
// on the current target.
func (r *CanvasRenderer) submitFill() {
	l, h := r.currentLayer()
	if l.path.empty() {
		return
	}
	if !l.state.isSprite {
		l.updateTransform(r.transform)
	}
	if !r.applyFillPaint(l) {
		return
	}
	r.applyBlendEntity(l)

	elements := l.path.snapshot()
	if l.state.isSprite {
		elements = transformPathElements(elements, r.transform)
	}
	red, green, blue, alpha := l.state.fill.flatColor().RGBA8()
	color := [4]uint8{red, green, blue, alpha}
	winding := l.state.windingRule
	tolerance := tessellationTolerance(r.submitScaleFactor(l))
	detailsTransform := canvas.IdentityMatrix
	if !l.state.isSprite {
		detailsTransform = r.transform
	}

	ref := r.appendTessellating(l, h)
	r.dispatch(ref, func() (renderEntity, entityDetails) {
		vertices, indices := tessellateFill(elements, winding, color, tolerance)
		entity := entityVertexBuffer{vertices: vertices, indices: indices, intent: intentDraw}
		return entity, detailsFromVertices(vertices, detailsTransform)
	})
	l.modified()
}

// submitStroke schedules tessellation of the current path's outline.
func (r *CanvasRenderer) submitStroke() {
	l, h := r.currentLayer()
	if l.path.empty() || l.state.stroke.width <= 0 {
		return
	}
	if !l.state.isSprite {
		l.updateTransform(r.transform)
	}
	r.applyStrokePaint(l)
	r.applyBlendEntity(l)

	elements := l.path.snapshot()
	if l.state.isSprite {
		elements = transformPathElements(elements, r.transform)
	}
	red, green, blue, alpha := l.state.stroke.color.RGBA8()
	color := [4]uint8{red, green, blue, alpha}
	settings := l.state.stroke
	settings.dashPattern = append([]float32(nil), settings.dashPattern...)
	tolerance := tessellationTolerance(r.submitScaleFactor(l))
	detailsTransform := canvas.IdentityMatrix
	if !l.state.isSprite {
		detailsTransform = r.transform
	}

	ref := r.appendTessellating(l, h)
	r.dispatch(ref, func() (renderEntity, entityDetails) {
		vertices, indices := tessellateStroke(elements, settings, color, tolerance)
		entity := entityVertexBuffer{vertices: vertices, indices: indices, intent: intentDraw}
		return entity, detailsFromVertices(vertices, detailsTransform)
	})
	l.modified()
}

// submitClip schedules tessellation of the current path as a clip mask.
// Draws after the clip entity are restricted to the mask until Unclip.
func (r *CanvasRenderer) submitClip() {
	l, h := r.currentLayer()
	if l.path.empty() {
		return
	}
	if !l.state.isSprite {
		l.updateTransform(r.transform)
	}

	elements := l.path.snapshot()
	if l.state.isSprite {
		elements = transformPathElements(elements, r.transform)
	}
	winding := l.state.windingRule
	tolerance := tessellationTolerance(r.submitScaleFactor(l))
	detailsTransform := canvas.IdentityMatrix
	if !l.state.isSprite {
		detailsTransform = r.transform
	}

	ref := r.appendTessellating(l, h)
	r.dispatch(ref, func() (renderEntity, entityDetails) {
		vertices, indices := tessellateFill(elements, winding, [4]uint8{255, 255, 255, 255}, tolerance)
		entity := entityVertexBuffer{vertices: vertices, indices: indices, intent: intentClip}
		return entity, detailsFromVertices(vertices, detailsTransform)
	})
	l.modified()
}

// appendTessellating reserves an entity slot for a worker job.
func (r *CanvasRenderer) appendTessellating(l *canvasLayer, h layerHandle) layerEntityRef {
	id := r.core.nextEntityId
	r.core.nextEntityId++
	l.renderOrder = append(l.renderOrder, entityTessellating{jobId: id})
	return layerEntityRef{layer: h, entityIndex: len(l.renderOrder) - 1, entityId: id}
}

// dispatch runs a tessellation job on the worker pool and stores its
// result. If the pool has shut down the job runs inline; the core lock is
// already held, so the result is stored directly.
func (r *CanvasRenderer) dispatch(ref layerEntityRef, job func() (renderEntity, entityDetails)) {
	if r.pool != nil && r.pool.IsRunning() {
		r.pending.Add(1)
		accepted := r.pool.Submit(func() {
			defer r.pending.Done()
			entity, details := job()
			r.core.storeJobResult(ref, entity, details)
		})
		if accepted {
			return
		}
		r.pending.Done()
	}
	entity, details := job()
	r.core.storeJobResultLocked(ref, entity, details)
}

// applyFillPaint appends the paint entity for the pending fill, if it
// differs from the last paint pushed to the layer. Fills against textures
// or gradients that were never declared report false and draw nothing.
func (r *CanvasRenderer) applyFillPaint(l *canvasLayer) bool {
	var desired renderEntity
	switch l.state.fill.kind {
	case fillTexture:
		entry, ok := r.core.textureEntry(textureKey{namespace: r.namespace, texture: l.state.fill.texture})
		if !ok {
			return false
		}
		desired = entitySetFillTexture{
			texture: r.core.textureForRendering(entry),
			matrix:  l.state.fill.matrix,
			repeat:  l.state.fill.repeat,
			alpha:   entry.fillAlpha,
		}
	case fillGradient:
		id, ok := r.core.gradientTexture(gradientKey{namespace: r.namespace, gradient: l.state.fill.gradient})
		if !ok {
			return false
		}
		desired = entitySetFillGradient{
			texture: id,
			matrix:  l.state.fill.matrix,
			repeat:  false,
			alpha:   1,
		}
	default:
		desired = entitySetFlatColor{}
	}
	if desired == l.lastFillEntity {
		return true
	}
	switch e := desired.(type) {
	case entitySetFillTexture:
		r.core.usedTextures[e.texture]++
	case entitySetFillGradient:
		r.core.usedTextures[e.texture]++
	}
	l.renderOrder = append(l.renderOrder, desired)
	l.lastFillEntity = desired
	return true
}

// applyStrokePaint appends the paint entity for a stroke: dashed-line
// shading when a dash pattern is set, plain vertex color otherwise.
func (r *CanvasRenderer) applyStrokePaint(l *canvasLayer) {
	if pattern := effectiveDashPattern(l.state.stroke.dashPattern); pattern != nil {
		if last, ok := l.lastFillEntity.(entitySetDashPattern); ok && dashPatternsEqual(last.pattern, pattern) {
			return
		}
		e := entitySetDashPattern{pattern: pattern}
		l.renderOrder = append(l.renderOrder, e)
		l.lastFillEntity = e
		return
	}
	if _, ok := l.lastFillEntity.(entitySetFlatColor); ok {
		return
	}
	e := entitySetFlatColor{}
	l.renderOrder = append(l.renderOrder, e)
	l.lastFillEntity = e
}

// applyBlendEntity appends a blend entity when the blend mode changed
// since the last draw on the layer.
func (r *CanvasRenderer) applyBlendEntity(l *canvasLayer) {
	if l.state.blendMode == l.lastBlendMode {
		return
	}
	l.renderOrder = append(l.renderOrder, entitySetBlendMode{mode: blendModeFor(l.state.blendMode)})
	l.lastBlendMode = l.state.blendMode
}

// applyTextureOp handles texture resource declarations. Operations on
// texture ids that were never created are ignored.
func (r *CanvasRenderer) applyTextureOp(id canvas.TextureId, op canvas.TextureOp) {
	key := textureKey{namespace: r.namespace, texture: id}
	switch op := op.(type) {
	case canvas.TextureCreate:
		if op.Width == 0 || op.Height == 0 {
			return
		}
		r.core.createTexture(key, op.Width, op.Height)
	case canvas.TextureFree:
		r.core.freeTexture(key)
	case canvas.TextureSetBytes:
		entry, ok := r.core.textureEntry(key)
		if !ok {
			return
		}
		expected := int(op.Width) * int(op.Height) * 4
		if expected == 0 || len(op.Bytes) < expected {
			return
		}
		r.core.textureForWriting(entry)
		r.core.setupActions = append(r.core.setupActions, WriteTextureData{
			Id:    entry.renderId,
			Min:   [2]uint32{op.X, op.Y},
			Max:   [2]uint32{op.X + op.Width, op.Y + op.Height},
			Bytes: append([]byte(nil), op.Bytes[:expected]...),
		})
	case canvas.TextureSetFromSprite:
		entry, ok := r.core.textureEntry(key)
		if !ok {
			return
		}
		r.core.renderTextureFromSprite(entry, spriteKey{namespace: r.namespace, sprite: op.Sprite}, op.Bounds)
	case canvas.TextureCreateDynamicSprite:
		sprite := spriteKey{namespace: r.namespace, sprite: op.Sprite}
		r.core.createDynamicTexture(key, sprite, op.Bounds, [2]float32{op.CanvasWidth, op.CanvasHeight})
	case canvas.TextureFillTransparency:
		if entry, ok := r.core.textureEntry(key); ok {
			entry.fillAlpha = op.Alpha
		}
	case canvas.TextureCopy:
		src, ok := r.core.textureEntry(key)
		if !ok {
			return
		}
		targetKey := textureKey{namespace: r.namespace, texture: op.Target}
		if old, ok := r.core.canvasTextures[targetKey]; ok {
			r.core.usedTextures[old.renderId]--
		}
		// The copy shares the source's pixels until either side is
		// written again; textureForWriting splits them then.
		clone := *src
		r.core.canvasTextures[targetKey] = &clone
		r.core.usedTextures[clone.renderId]++
	case canvas.TextureApplyFilter:
		entry, ok := r.core.textureEntry(key)
		if !ok {
			return
		}
		filters, _ := r.convertFilters([]canvas.TextureFilter{op.Filter}, 1, false)
		if len(filters) == 0 {
			return
		}
		r.core.textureForWriting(entry)
		r.core.setupActions = append(r.core.setupActions, FilterTexture{Id: entry.renderId, Filters: filters})
	}
}

// convertFilters lowers canvas texture filters to plan-level filter steps.
// scale converts canvas units to pixels at the resolution the filters run
// at. With retained set, mask and displacement textures take a reference
// that is released when the holding entity is freed. The second result is
// the largest filter reach in canvas units, for bounds inflation.
func (r *CanvasRenderer) convertFilters(filters []canvas.TextureFilter, scale float32, retained bool) ([]TextureFilter, float32) {
	if scale <= 0 {
		scale = 1
	}
	var out []TextureFilter
	var radius float32
	for _, f := range filters {
		switch f := f.(type) {
		case canvas.GaussianBlur:
			h, v := gaussianBlurSteps(f.Radius * scale)
			out = append(out, h, v)
			if f.Radius > radius {
				radius = f.Radius
			}
		case canvas.AlphaBlend:
			out = append(out, AlphaBlendFilter{Alpha: f.Alpha})
		case canvas.Mask:
			entry, ok := r.core.textureEntry(textureKey{namespace: r.namespace, texture: f.Texture})
			if !ok {
				continue
			}
			id := r.core.textureForRendering(entry)
			if retained {
				r.core.usedTextures[id]++
			}
			out = append(out, MaskFilter{Mask: id})
		case canvas.DisplacementMap:
			entry, ok := r.core.textureEntry(textureKey{namespace: r.namespace, texture: f.Texture})
			if !ok {
				continue
			}
			id := r.core.textureForRendering(entry)
			if retained {
				r.core.usedTextures[id]++
			}
			out = append(out, DisplacementMapFilter{
				Displacement: id,
				RadiusX:      f.RadiusX * scale,
				RadiusY:      f.RadiusY * scale,
			})
			if f.RadiusX > radius {
				radius = f.RadiusX
			}
			if f.RadiusY > radius {
				radius = f.RadiusY
			}
		}
	}
	return out, radius
}

// submitScaleFactor is the pixels-per-canvas-unit estimate for work
// submitted to a layer. Sprite layers pre-transform their content, so the
// active transform decides instead of the layer's tracked matrix.
func (r *CanvasRenderer) submitScaleFactor(l *canvasLayer) float32 {
	if !l.state.isSprite {
		return l.state.scaleFactor
	}
	sf := r.transform.ScaleFactor() * l.state.baseScaleFactor
	if sf <= 0 {
		sf = l.state.baseScaleFactor
	}
	return sf
}

// canvasHeightTransform maps a canvas of the given height onto the
// viewport's -1..1 range. Negative heights flip y; x keeps the positive
// scale so units stay square.
func canvasHeightTransform(height float32) canvas.Transform2D {
	if height == 0 {
		height = 1
	}
	sy := 2 / height
	sx := sy
	if sx < 0 {
		sx = -sx
	}
	return canvas.Scale(sx, sy)
}

// applySpriteTransform composes one sprite transform adjustment onto the
// current sprite matrix.
func applySpriteTransform(m canvas.Transform2D, op canvas.SpriteTransformOp) canvas.Transform2D {
	switch op := op.(type) {
	case canvas.SpriteIdentity:
		return canvas.IdentityMatrix
	case canvas.SpriteTranslate:
		return m.Multiply(canvas.Translate(op.X, op.Y))
	case canvas.SpriteScale:
		return m.Multiply(canvas.Scale(op.X, op.Y))
	case canvas.SpriteRotate:
		return m.Multiply(canvas.RotateDegrees(op.Degrees))
	case canvas.SpriteMatrix:
		return m.Multiply(op.Transform)
	default:
		return m
	}
}

// blendModeFor maps a canvas blend mode to its plan-level equivalent.
// Darken and Lighten have no plan-level blend, so they fall back to
// source-over rather than dropping the draw.
func blendModeFor(mode canvas.BlendMode) BlendMode {
	switch mode {
	case canvas.BlendSourceIn:
		return BlendModeSourceIn
	case canvas.BlendSourceOut:
		return BlendModeSourceOut
	case canvas.BlendDestinationOver:
		return BlendModeDestinationOver
	case canvas.BlendDestinationIn:
		return BlendModeDestinationIn
	case canvas.BlendDestinationOut:
		return BlendModeDestinationOut
	case canvas.BlendSourceAtop:
		return BlendModeSourceAtop
	case canvas.BlendDestinationAtop:
		return BlendModeDestinationAtop
	case canvas.BlendMultiply:
		return BlendModeMultiply
	case canvas.BlendScreen:
		return BlendModeScreen
	default:
		return BlendModeSourceOver
	}
}

// transformPathElements applies a canvas transform to path elements, used
// to bake the active transform into sprite geometry at submission.
func transformPathElements(elements []stroke.PathElement, t canvas.Transform2D) []stroke.PathElement {
	if t.IsIdentity() {
		return elements
	}
	out := make([]stroke.PathElement, len(elements))
	for i, el := range elements {
		switch e := el.(type) {
		case stroke.MoveTo:
			out[i] = stroke.MoveTo{Point: transformStrokePoint(t, e.Point)}
		case stroke.LineTo:
			out[i] = stroke.LineTo{Point: transformStrokePoint(t, e.Point)}
		case stroke.QuadTo:
			out[i] = stroke.QuadTo{
				Control: transformStrokePoint(t, e.Control),
				Point:   transformStrokePoint(t, e.Point),
			}
		case stroke.CubicTo:
			out[i] = stroke.CubicTo{
				Control1: transformStrokePoint(t, e.Control1),
				Control2: transformStrokePoint(t, e.Control2),
				Point:    transformStrokePoint(t, e.Point),
			}
		default:
			out[i] = el
		}
	}
	return out
}

func transformStrokePoint(t canvas.Transform2D, p stroke.Point) stroke.Point {
	q := t.Transform(canvas.Point{X: float32(p.X), Y: float32(p.Y)})
	return stroke.Point{X: float64(q.X), Y: float64(q.Y)}
}

func dashPatternsEqual(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
