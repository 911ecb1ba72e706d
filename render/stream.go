// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"
	"sort"

	"github.com/gogpu/canvas"
)

// planState is plan-generation bookkeeping that persists between frames:
// which shared targets exist and at what size, what the dash texture
// holds, and which background color the quad buffer carries.
type planState struct {
	viewport     Size2D
	targetsReady bool

	resolveReady   bool
	resolveTexture TextureId

	dashCreated bool
	dashPattern []float32

	backgroundReady bool
	backgroundColor canvas.Color
}

// RenderStream is one generated render plan. Actions come out in
// execution order; a backend that runs them all ends up displaying the
// canvas as of the Plan call.
type RenderStream struct {
	actions []Action
	pos     int
}

// Next returns the next action of the plan. ok is false once the stream
// is exhausted.
func (s *RenderStream) Next() (action Action, ok bool) {
	if s.pos >= len(s.actions) {
		return nil, false
	}
	action = s.actions[s.pos]
	s.pos++
	return action, true
}

// Rest returns every remaining action, consuming the stream.
func (s *RenderStream) Rest() []Action {
	rest := s.actions[s.pos:]
	s.pos = len(s.actions)
	return rest
}

// Plan waits for outstanding tessellation jobs and generates the actions
// that bring a backend up to date with the canvas. Between StartFrame and
// ShowFrame the plan carries resource work only, so partially updated
// drawings never reach the screen.
func (r *CanvasRenderer) Plan() *RenderStream {
	r.pending.Wait()

	r.core.mu.Lock()
	defer r.core.mu.Unlock()

	g := planGenerator{r: r, core: r.core, visited: make(map[layerHandle]bool)}
	g.generate()
	return &RenderStream{actions: g.actions}
}

// pipelineState tracks the transform, shader and blend mode the plan has
// most recently set, so repeated draws only emit what actually changed.
// Switching render targets resets it: target state does not carry over.
type pipelineState struct {
	transform     Matrix
	haveTransform bool
	shader        ShaderType
	haveShader    bool
	blend         BlendMode
	haveBlend     bool
}

// paintKind selects which shader family the current paint entity asks for.
type paintKind uint8

const (
	paintFlat paintKind = iota
	paintDash
	paintTexture
	paintGradient
)

// paintSelection is the shader-level paint derived from the most recent
// paint entity in a layer's log.
type paintSelection struct {
	kind    paintKind
	dash    []float32
	texture TextureId
	matrix  canvas.Transform2D
	repeat  bool
	alpha   float32
}

type planGenerator struct {
	r       *CanvasRenderer
	core    *renderCore
	actions []Action
	pipe    pipelineState
	visited map[layerHandle]bool
}

func (g *planGenerator) emit(actions ...Action) {
	g.actions = append(g.actions, actions...)
}

func (g *planGenerator) invalidatePipeline() {
	g.pipe = pipelineState{}
}

func (g *planGenerator) setTransform(m Matrix) {
	if g.pipe.haveTransform && g.pipe.transform == m {
		return
	}
	g.pipe.transform = m
	g.pipe.haveTransform = true
	g.emit(SetTransform{Transform: m})
}

func (g *planGenerator) useShader(s ShaderType) {
	if g.pipe.haveShader && g.pipe.shader == s {
		return
	}
	g.pipe.shader = s
	g.pipe.haveShader = true
	g.emit(UseShader{Shader: s})
}

func (g *planGenerator) setBlend(b BlendMode) {
	if g.pipe.haveBlend && g.pipe.blend == b {
		return
	}
	g.pipe.blend = b
	g.pipe.haveBlend = true
	g.emit(SetBlendMode{Mode: b})
}

func (g *planGenerator) generate() {
	g.emit(g.core.takePendingFrees()...)
	g.setupTargets()
	g.emit(g.core.takeSetupActions()...)

	if g.core.frameStarts > 0 {
		g.emit(g.core.freeUnusedTextures()...)
		return
	}

	// Uploads first: every tessellated entity becomes a buffer pair
	// before any draw refers to one. Sprites are walked too, since
	// texture requests and dynamic textures render them off-layer.
	order := g.core.snapshotLayerOrder()
	for _, h := range order {
		g.emit(g.core.sendVertexBuffers(h, g.visited)...)
	}
	for _, h := range g.sortedSpriteHandles() {
		g.emit(g.core.sendVertexBuffers(h, g.visited)...)
	}
	g.checkMemoryLimit()

	for _, req := range g.core.takeRequests() {
		switch req.kind {
		case requestMipMaps:
			g.emit(CreateMipMaps{Id: req.texture})
			g.core.markTextureReady(req.texture)
		case requestFromSprite:
			g.renderSpriteTexture(req)
		}
	}
	g.renderDynamicTextures()
	g.emit(g.core.freeUnusedTextures()...)

	g.emit(SelectRenderTarget{Target: mainRenderTarget})
	g.invalidatePipeline()
	g.emit(Clear{})
	for _, h := range order {
		g.renderLayer(h)
	}

	g.emit(RenderToFrameBuffer{})
	g.invalidatePipeline()
	g.setTransform(IdentityMatrix())
	g.useShader(SimpleShader{EraseMask: NoTexture, ClipMask: NoTexture})
	g.setBlend(BlendModeSourceOver)
	g.emit(DrawFrameBuffer{Source: mainRenderTarget, Region: FullFrameBufferRegion, Alpha: 1})
	if g.core.background.A > 0 && g.r.plan.backgroundReady {
		// The background fills whatever the layers left transparent.
		g.setBlend(BlendModeDestinationOver)
		g.emit(DrawTriangles{Buffer: backgroundVertexBuffer, From: 0, To: 6})
	}
	g.emit(ShowFrameBuffer{})
}

// setupTargets recreates the shared render targets when the viewport
// changed and rebuilds the background quad when the canvas color changed.
func (g *planGenerator) setupTargets() {
	p := &g.r.plan
	viewport := Size2D{Width: uint32(g.r.windowWidth), Height: uint32(g.r.windowHeight)}
	if viewport.Width < 1 {
		viewport.Width = 1
	}
	if viewport.Height < 1 {
		viewport.Height = 1
	}

	if !p.targetsReady || p.viewport != viewport {
		if p.targetsReady {
			g.emit(FreeRenderTarget{Target: mainRenderTarget})
			g.emit(FreeRenderTarget{Target: clipRenderTarget})
			g.emit(FreeTexture{Id: mainRenderTexture})
			g.emit(FreeTexture{Id: clipRenderTexture})
		}
		if p.resolveReady {
			g.emit(FreeRenderTarget{Target: resolveRenderTarget})
			g.emit(FreeTexture{Id: p.resolveTexture})
			g.core.freeTextureIds = append(g.core.freeTextureIds, p.resolveTexture)
			p.resolveReady = false
		}
		g.emit(CreateRenderTarget{
			Target:  mainRenderTarget,
			Texture: mainRenderTexture,
			Size:    viewport,
			Type:    RenderTargetMultisampledTexture,
		})
		g.emit(CreateRenderTarget{
			Target:  clipRenderTarget,
			Texture: clipRenderTexture,
			Size:    viewport,
			Type:    RenderTargetMonochromeMultisampledTexture,
		})
		p.viewport = viewport
		p.targetsReady = true
	}

	bg := g.core.background
	if bg.A > 0 && (!p.backgroundReady || bg != p.backgroundColor) {
		if p.backgroundReady {
			g.emit(FreeVertexBuffer{Id: backgroundVertexBuffer})
		}
		g.emit(CreateVertex2DBuffer{Id: backgroundVertexBuffer, Vertices: backgroundQuad(bg)})
		p.backgroundReady = true
		p.backgroundColor = bg
	}
}

// ensureResolveTarget creates the intermediate target that layers with
// transparency or a blend mode render through before compositing onto the
// main target. It lives until the viewport changes.
func (g *planGenerator) ensureResolveTarget() {
	p := &g.r.plan
	if p.resolveReady {
		return
	}
	p.resolveTexture = g.core.allocTexture()
	g.emit(CreateRenderTarget{
		Target:  resolveRenderTarget,
		Texture: p.resolveTexture,
		Size:    p.viewport,
		Type:    RenderTargetMultisampledTexture,
	})
	p.resolveReady = true
}

// ensureDashTexture bakes a dash pattern into the shared dash texture.
// Patterns swap by rewriting the texture, so a layer that alternates
// patterns between draws re-uploads each time; drawings overwhelmingly
// keep one pattern active at a time.
func (g *planGenerator) ensureDashTexture(pattern []float32) {
	p := &g.r.plan
	if !p.dashCreated {
		g.emit(Create1DTextureMono{Id: dashTexture, Length: dashTextureLength})
		p.dashCreated = true
	} else if dashPatternsEqual(pattern, p.dashPattern) {
		return
	}
	g.emit(WriteTexture1D{Id: dashTexture, Start: 0, End: dashTextureLength, Bytes: dashTexturePixels(pattern)})
	g.emit(CreateMipMaps{Id: dashTexture})
	p.dashPattern = append([]float32(nil), pattern...)
}

func (g *planGenerator) checkMemoryLimit() {
	r := g.r
	if r.memoryLimit <= 0 {
		return
	}
	if g.core.bufferBytes > r.memoryLimit {
		if !r.warnedMemory {
			r.log.Warn("graphics memory limit exceeded",
				"bufferBytes", g.core.bufferBytes,
				"limitBytes", r.memoryLimit)
			r.warnedMemory = true
		}
	} else {
		r.warnedMemory = false
	}
}

func (g *planGenerator) sortedSpriteHandles() []layerHandle {
	handles := make([]layerHandle, 0, len(g.core.spriteIds))
	for _, h := range g.core.spriteIds {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// renderLayer draws one layer into the main target. Layers with
// transparency or a blend mode render through the resolve target first and
// composite back as a single unit, so self-overlap inside the layer blends
// normally.
func (g *planGenerator) renderLayer(h layerHandle) {
	l := g.core.layers[h]
	if l == nil || len(l.renderOrder) == 0 || l.alpha <= 0 {
		return
	}
	direct := l.alpha >= 1 && l.blendMode == canvas.BlendSourceOver
	if direct {
		g.walkEntities(l, g.r.viewportTransform, mainRenderTarget, false)
		return
	}
	g.ensureResolveTarget()
	g.emit(SelectRenderTarget{Target: resolveRenderTarget})
	g.invalidatePipeline()
	g.emit(Clear{})
	g.walkEntities(l, g.r.viewportTransform, resolveRenderTarget, false)
	g.emit(SelectRenderTarget{Target: mainRenderTarget})
	g.invalidatePipeline()
	g.setBlend(blendModeFor(l.blendMode))
	g.emit(DrawFrameBuffer{Source: resolveRenderTarget, Region: FullFrameBufferRegion, Alpha: l.alpha})
}

// walkEntities replays one layer's entity log into draw actions for a
// render target. base maps the layer's coordinate space onto the target's
// clip space; inheritClip keeps the caller's clip mask active for the
// layer's draws. Stream state starts from the defaults every walk, so the
// log's own entities fully determine what each draw uses.
func (g *planGenerator) walkEntities(l *canvasLayer, base canvas.Transform2D, target RenderTargetId, inheritClip bool) {
	if l == nil {
		return
	}
	canvasTransform := canvas.IdentityMatrix
	paint := paintSelection{}
	blend := BlendModeSourceOver
	clip := inheritClip

	for _, entity := range l.renderOrder {
		switch e := entity.(type) {
		case entitySetTransform:
			canvasTransform = e.transform
		case entitySetBlendMode:
			blend = e.mode
		case entitySetFlatColor:
			paint = paintSelection{kind: paintFlat}
		case entitySetDashPattern:
			if len(e.pattern) == 0 {
				paint = paintSelection{kind: paintFlat}
			} else {
				paint = paintSelection{kind: paintDash, dash: e.pattern}
			}
		case entitySetFillTexture:
			paint = paintSelection{kind: paintTexture, texture: e.texture, matrix: e.matrix, repeat: e.repeat, alpha: e.alpha}
		case entitySetFillGradient:
			paint = paintSelection{kind: paintGradient, texture: e.texture, matrix: e.matrix, repeat: e.repeat, alpha: e.alpha}
		case entityDrawIndexed:
			if e.count == 0 {
				continue
			}
			g.setTransform(MatrixFromTransform(base.Multiply(canvasTransform)))
			g.useShader(g.shaderFor(paint, clip))
			g.setBlend(blend)
			g.emit(DrawIndexedTriangles{VertexBuffer: e.vertexBuffer, IndexBuffer: e.indexBuffer, Count: e.count})
		case entityEnableClipping:
			g.clipSideTrip(e, base.Multiply(canvasTransform), target, clip)
			clip = true
		case entityDisableClipping:
			clip = false
		case entityRenderSprite:
			g.renderSpriteInto(
				spriteKey{namespace: e.namespace, sprite: e.sprite},
				base.Multiply(canvasTransform).Multiply(e.transform),
				target, clip)
		case entityRenderSpriteWithFilters:
			g.renderFilteredSprite(e, base.Multiply(canvasTransform), target, blend)
		}
	}
}

// shaderFor builds the shader a draw needs for the active paint, wiring in
// the clip mask texture when clipping is on.
func (g *planGenerator) shaderFor(paint paintSelection, clip bool) ShaderType {
	clipMask := NoTexture
	if clip {
		clipMask = clipRenderTexture
	}
	switch paint.kind {
	case paintDash:
		g.ensureDashTexture(paint.dash)
		return DashedLineShader{DashTexture: dashTexture, EraseMask: NoTexture, ClipMask: clipMask}
	case paintTexture:
		return TextureShader{
			Texture:   paint.texture,
			Transform: MatrixFromTransform(paint.matrix),
			Repeat:    paint.repeat,
			Alpha:     paint.alpha,
			EraseMask: NoTexture,
			ClipMask:  clipMask,
		}
	case paintGradient:
		return LinearGradientShader{
			Texture:   paint.texture,
			Transform: MatrixFromTransform(paint.matrix),
			Repeat:    paint.repeat,
			Alpha:     paint.alpha,
			EraseMask: NoTexture,
			ClipMask:  clipMask,
		}
	default:
		return SimpleShader{EraseMask: NoTexture, ClipMask: clipMask}
	}
}

// clipSideTrip renders a clip path into the shared mask target and
// returns to the caller's target. The first clip of a walk replaces the
// mask; further clips intersect with it, so nested Clip calls narrow the
// region the way the canvas API promises.
func (g *planGenerator) clipSideTrip(e entityEnableClipping, full canvas.Transform2D, target RenderTargetId, intersect bool) {
	g.emit(SelectRenderTarget{Target: clipRenderTarget})
	g.invalidatePipeline()
	if !intersect {
		g.emit(Clear{Color: Rgba8{0, 0, 0, 255}})
	}
	g.setTransform(MatrixFromTransform(full))
	g.useShader(SimpleShader{EraseMask: NoTexture, ClipMask: NoTexture})
	if intersect {
		g.setBlend(BlendModeDestinationIn)
	} else {
		g.setBlend(BlendModeAllChannelAlphaSourceOver)
	}
	g.emit(DrawIndexedTriangles{VertexBuffer: e.vertexBuffer, IndexBuffer: e.indexBuffer, Count: e.count})
	g.emit(SelectRenderTarget{Target: target})
	g.invalidatePipeline()
}

// renderSpriteInto replays a sprite's entities inline into the current
// target. Cycles through self-referencing sprites render nothing.
func (g *planGenerator) renderSpriteInto(key spriteKey, base canvas.Transform2D, target RenderTargetId, clip bool) {
	h, ok := g.core.spriteIds[key]
	if !ok || g.visited[h] {
		return
	}
	g.visited[h] = true
	defer delete(g.visited, h)
	g.walkEntities(g.core.layers[h], base, target, clip)
}

// renderFilteredSprite renders a sprite into a temporary target covering
// its screen region, runs the filter chain over the texture, and blits the
// result back. The region is inflated by the filter radius so blur reach
// is not cut off at the sprite's edge.
func (g *planGenerator) renderFilteredSprite(e entityRenderSpriteWithFilters, base canvas.Transform2D, target RenderTargetId, blend BlendMode) {
	h, ok := g.core.spriteIds[spriteKey{namespace: e.namespace, sprite: e.sprite}]
	if !ok || g.visited[h] {
		return
	}
	sprite := g.core.layers[h]
	if sprite == nil || sprite.bounds.isUndefined() {
		return
	}

	full := base.Multiply(e.transform)
	region := sprite.bounds.inflate(e.filterRadius).transform(full)
	region = region.clip(layerBounds{minX: -1, minY: -1, maxX: 1, maxY: 1})
	if region.isUndefined() {
		return
	}
	pixels := region.toViewportPixels(g.r.plan.viewport).snapToPixels()
	pw := pixels.width()
	ph := pixels.height()
	if pw < 1 || ph < 1 {
		return
	}
	region = pixels.toViewportCoordinates(g.r.plan.viewport)
	size := Size2D{Width: uint32(pw), Height: uint32(ph)}

	tempTarget := g.core.allocTarget()
	tempTexture := g.core.allocTexture()
	g.emit(CreateRenderTarget{Target: tempTarget, Texture: tempTexture, Size: size, Type: RenderTargetStandard})
	g.emit(SelectRenderTarget{Target: tempTarget})
	g.invalidatePipeline()
	g.emit(Clear{})

	g.visited[h] = true
	g.walkEntities(sprite, regionTransform(region).Multiply(full), tempTarget, false)
	delete(g.visited, h)

	if len(e.filters) > 0 {
		g.emit(FilterTexture{Id: tempTexture, Filters: e.filters})
	}

	g.emit(SelectRenderTarget{Target: target})
	g.invalidatePipeline()
	g.setBlend(blend)
	g.emit(DrawFrameBuffer{
		Source: tempTarget,
		Region: FrameBufferRegion{MinX: region.minX, MinY: region.minY, MaxX: region.maxX, MaxY: region.maxY},
		Alpha:  1,
	})

	g.emit(FreeRenderTarget{Target: tempTarget})
	g.emit(FreeTexture{Id: tempTexture})
	g.core.releaseTargetImmediate(tempTarget)
	g.core.freeTextureIds = append(g.core.freeTextureIds, tempTexture)
}

// renderSpriteTexture renders a sprite region into an off-screen target
// and copies the result over the requested texture, completing a
// TextureSetFromSprite.
func (g *planGenerator) renderSpriteTexture(req textureRenderRequest) {
	size, ok := g.core.textureSizes[req.texture]
	if !ok || size.Width == 0 || size.Height == 0 {
		g.core.markTextureReady(req.texture)
		return
	}
	h, ok := g.core.spriteIds[req.sprite]
	if !ok {
		g.core.markTextureReady(req.texture)
		return
	}

	tempTarget := g.core.allocTarget()
	tempTexture := g.core.allocTexture()
	g.emit(CreateRenderTarget{Target: tempTarget, Texture: tempTexture, Size: size, Type: RenderTargetStandard})
	g.emit(SelectRenderTarget{Target: tempTarget})
	g.invalidatePipeline()
	g.emit(Clear{})

	g.visited[h] = true
	g.walkEntities(g.core.layers[h], spriteRegionTransform(req.bounds), tempTarget, false)
	delete(g.visited, h)

	g.emit(CopyTexture{Source: tempTexture, Target: req.texture})
	g.emit(CreateMipMaps{Id: req.texture})
	g.emit(FreeRenderTarget{Target: tempTarget})
	g.emit(FreeTexture{Id: tempTexture})
	g.core.releaseTargetImmediate(tempTarget)
	g.core.freeTextureIds = append(g.core.freeTextureIds, tempTexture)
	g.core.markTextureReady(req.texture)
}

// renderDynamicTextures re-renders every dynamic sprite texture whose
// source sprite or viewport changed since it was last drawn. The backing
// texture doubles as the render target's texture, so finished pixels are
// immediately sampleable.
func (g *planGenerator) renderDynamicTextures() {
	if len(g.core.dynamicStates) == 0 {
		return
	}
	ids := make([]TextureId, 0, len(g.core.dynamicStates))
	for id := range g.core.dynamicStates {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	viewport := g.r.plan.viewport
	for _, id := range ids {
		ds := g.core.dynamicStates[id]
		h, ok := g.core.spriteIds[ds.sprite]
		if !ok {
			continue
		}
		sprite := g.core.layers[h]
		if ds.rendered && ds.viewport == viewport && ds.modCount == sprite.modificationCount {
			continue
		}

		size := Size2D{
			Width:  pixelSpan(ds.canvasSize[0] * g.r.baseScaleFactor),
			Height: pixelSpan(ds.canvasSize[1] * g.r.baseScaleFactor),
		}
		if !ds.rendered {
			ds.target = g.core.allocTarget()
		} else if ds.size != size {
			g.emit(FreeRenderTarget{Target: ds.target})
		}
		if !ds.rendered || ds.size != size {
			g.emit(CreateRenderTarget{Target: ds.target, Texture: id, Size: size, Type: RenderTargetStandard})
			g.core.textureSizes[id] = size
		}

		g.emit(SelectRenderTarget{Target: ds.target})
		g.invalidatePipeline()
		g.emit(Clear{})
		g.visited[h] = true
		g.walkEntities(sprite, spriteRegionTransform(ds.bounds), ds.target, false)
		delete(g.visited, h)
		g.emit(CreateMipMaps{Id: id})

		ds.rendered = true
		ds.viewport = viewport
		ds.modCount = sprite.modificationCount
		ds.size = size
	}
}

// backgroundQuad is a full-viewport quad in clip space carrying the
// background color.
func backgroundQuad(c canvas.Color) []Vertex2D {
	r8, g8, b8, a8 := c.RGBA8()
	col := [4]uint8{r8, g8, b8, a8}
	v := func(x, y float32) Vertex2D {
		return Vertex2D{Pos: [2]float32{x, y}, Color: col}
	}
	return []Vertex2D{
		v(-1, -1), v(1, -1), v(1, 1),
		v(-1, -1), v(1, 1), v(-1, 1),
	}
}

// regionTransform maps a clip-space rectangle onto the full -1..1 range of
// a temporary render target.
func regionTransform(b layerBounds) canvas.Transform2D {
	w := b.width()
	h := b.height()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	scale := canvas.Scale(2/w, 2/h)
	return scale.Multiply(canvas.Translate(-(b.minX+b.maxX)/2, -(b.minY+b.maxY)/2))
}

// spriteRegionTransform maps a sprite-space region onto a full render
// target. The y axis flips so the rendered texture reads in row order,
// matching how uploaded textures are stored.
func spriteRegionTransform(b canvas.SpriteBounds) canvas.Transform2D {
	w := b.Width
	h := b.Height
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	scale := canvas.Scale(2/w, -2/h)
	return scale.Multiply(canvas.Translate(-(b.X + b.Width/2), -(b.Y + b.Height/2)))
}

func pixelSpan(v float32) uint32 {
	n := int(math.Ceil(float64(v)))
	if n < 1 {
		n = 1
	}
	return uint32(n)
}
