// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sort"
	"sync"

	"github.com/gogpu/canvas"
)

// Resource keys. Canvas-level ids are scoped to a namespace, so two
// drawing sources can use the same numeric ids without colliding.
type layerKey struct {
	namespace canvas.NamespaceId
	layer     canvas.LayerId
}

type spriteKey struct {
	namespace canvas.NamespaceId
	sprite    canvas.SpriteId
}

type textureKey struct {
	namespace canvas.NamespaceId
	texture   canvas.TextureId
}

type gradientKey struct {
	namespace canvas.NamespaceId
	gradient  canvas.GradientId
}

// textureState tracks whether a plan-level texture still has writes or
// renders pending before it can be sampled.
type textureState uint8

const (
	textureLoading textureState = iota
	textureReady
)

// textureEntry is the render core's view of one canvas texture.
type textureEntry struct {
	renderId       TextureId
	state          textureState
	fillAlpha      float32
	size           Size2D
	requestPending bool
}

type gradientStop struct {
	pos   float32
	color canvas.Color
}

// gradientEntry is the render core's view of one canvas gradient. Stops
// accumulate until the gradient is first used by a fill, at which point it
// bakes into a 1D texture and becomes immutable.
type gradientEntry struct {
	stops    []gradientStop
	renderId TextureId
	baked    bool
}

type requestKind uint8

const (
	requestMipMaps requestKind = iota
	requestFromSprite
)

// textureRenderRequest is deferred work that renders or finalises a
// texture during the next plan's setup phase.
type textureRenderRequest struct {
	kind    requestKind
	texture TextureId
	bounds  canvas.SpriteBounds
	sprite  spriteKey
}

// dynamicState holds the definition of a dynamic sprite texture together
// with what it was last rendered from, so each plan re-renders it only
// when the sprite or the viewport has changed.
type dynamicState struct {
	sprite     spriteKey
	bounds     canvas.SpriteBounds
	canvasSize [2]float32

	viewport Size2D
	modCount uint64
	rendered bool
	size     Size2D
	target   RenderTargetId
}

// renderCore is the retained state shared between the canvas renderer,
// the tessellation workers and the plan stream.
//
// All methods expect mu to be held by the caller, except storeJobResult,
// which locks internally because workers call it concurrently.
type renderCore struct {
	mu sync.Mutex

	layers     map[layerHandle]*canvasLayer
	nextLayer  layerHandle
	layerIds   map[layerKey]layerHandle
	spriteIds  map[spriteKey]layerHandle
	layerOrder []layerHandle
	nsOrder    map[canvas.NamespaceId]int
	background canvas.Color

	nextEntityId uint64

	// Plan-level id allocators. Vertex and index buffers share one id
	// space; a freed id becomes reusable only after its free action has
	// been emitted to the backend.
	nextBufferId     int
	freeBufferIds    []int
	pendingBufferIds []int
	nextTextureId    TextureId
	freeTextureIds   []TextureId
	nextTargetId     RenderTargetId
	freeTargetIds    []RenderTargetId

	usedTextures   map[TextureId]int
	textureSizes   map[TextureId]Size2D
	canvasTextures map[textureKey]*textureEntry
	gradients      map[gradientKey]*gradientEntry
	dynamicStates  map[TextureId]*dynamicState

	requests     []textureRenderRequest
	setupActions []Action
	pendingFrees []Action

	bufferBytes int64
	bufferSizes map[int]int64

	// frameStarts pauses presentation while positive: plans generated
	// between StartFrame and ShowFrame upload resources but draw nothing.
	frameStarts int
}

func newRenderCore() *renderCore {
	return &renderCore{
		layers:         make(map[layerHandle]*canvasLayer),
		layerIds:       make(map[layerKey]layerHandle),
		spriteIds:      make(map[spriteKey]layerHandle),
		nsOrder:        make(map[canvas.NamespaceId]int),
		nextBufferId:   firstVertexBufferId,
		nextTextureId:  firstTextureId,
		nextTargetId:   firstRenderTargetId,
		usedTextures:   make(map[TextureId]int),
		textureSizes:   make(map[TextureId]Size2D),
		canvasTextures: make(map[textureKey]*textureEntry),
		gradients:      make(map[gradientKey]*gradientEntry),
		dynamicStates:  make(map[TextureId]*dynamicState),
		bufferSizes:    make(map[int]int64),
	}
}

func (c *renderCore) layer(h layerHandle) *canvasLayer {
	return c.layers[h]
}

// ---- Id allocation ----

func (c *renderCore) allocBuffer() int {
	if n := len(c.freeBufferIds); n > 0 {
		id := c.freeBufferIds[n-1]
		c.freeBufferIds = c.freeBufferIds[:n-1]
		return id
	}
	id := c.nextBufferId
	c.nextBufferId++
	return id
}

// releaseBuffer schedules the free actions for a buffer pair. The id
// returns to the allocator once takePendingFrees has handed the actions to
// a plan, so a backend never sees a create on a live id.
func (c *renderCore) releaseBuffer(id int) {
	c.pendingFrees = append(c.pendingFrees,
		FreeVertexBuffer{Id: VertexBufferId(id)},
		FreeIndexBuffer{Id: IndexBufferId(id)},
	)
	c.pendingBufferIds = append(c.pendingBufferIds, id)
	c.bufferBytes -= c.bufferSizes[id]
	delete(c.bufferSizes, id)
}

// releaseBufferImmediate recycles an id whose free actions were emitted
// inline by the caller.
func (c *renderCore) releaseBufferImmediate(id int) {
	c.freeBufferIds = append(c.freeBufferIds, id)
	c.bufferBytes -= c.bufferSizes[id]
	delete(c.bufferSizes, id)
}

func (c *renderCore) allocTexture() TextureId {
	if n := len(c.freeTextureIds); n > 0 {
		id := c.freeTextureIds[n-1]
		c.freeTextureIds = c.freeTextureIds[:n-1]
		return id
	}
	id := c.nextTextureId
	c.nextTextureId++
	return id
}

func (c *renderCore) allocTarget() RenderTargetId {
	if n := len(c.freeTargetIds); n > 0 {
		id := c.freeTargetIds[n-1]
		c.freeTargetIds = c.freeTargetIds[:n-1]
		return id
	}
	id := c.nextTargetId
	c.nextTargetId++
	return id
}

// releaseTargetImmediate recycles a target id whose FreeRenderTarget was
// emitted inline by the caller.
func (c *renderCore) releaseTargetImmediate(id RenderTargetId) {
	c.freeTargetIds = append(c.freeTargetIds, id)
}

func (c *renderCore) takePendingFrees() []Action {
	frees := c.pendingFrees
	c.pendingFrees = nil
	c.freeBufferIds = append(c.freeBufferIds, c.pendingBufferIds...)
	c.pendingBufferIds = nil
	return frees
}

func (c *renderCore) takeSetupActions() []Action {
	actions := c.setupActions
	c.setupActions = nil
	return actions
}

func (c *renderCore) takeRequests() []textureRenderRequest {
	requests := c.requests
	c.requests = nil
	return requests
}

// ---- Layer bookkeeping ----

func (c *renderCore) namespaceOrder(ns canvas.NamespaceId) int {
	if ord, ok := c.nsOrder[ns]; ok {
		return ord
	}
	ord := len(c.nsOrder)
	c.nsOrder[ns] = ord
	return ord
}

// layerFor returns the handle bound to a layer id, creating an empty
// layer if the id is unseen. Layers render in ascending id order within a
// namespace; namespaces render in first-use order.
func (c *renderCore) layerFor(key layerKey, baseScaleFactor float32) layerHandle {
	if h, ok := c.layerIds[key]; ok {
		return h
	}
	h := c.nextLayer
	c.nextLayer++
	layer := newCanvasLayer(false, baseScaleFactor)
	layer.orderNs = c.namespaceOrder(key.namespace)
	layer.orderId = key.layer
	c.layers[h] = layer
	c.layerIds[key] = h
	c.insertOrdered(h)
	return h
}

func (c *renderCore) insertOrdered(h layerHandle) {
	l := c.layers[h]
	idx := sort.Search(len(c.layerOrder), func(i int) bool {
		o := c.layers[c.layerOrder[i]]
		if o.orderNs != l.orderNs {
			return o.orderNs > l.orderNs
		}
		return o.orderId > l.orderId
	})
	c.layerOrder = append(c.layerOrder, noLayer)
	copy(c.layerOrder[idx+1:], c.layerOrder[idx:])
	c.layerOrder[idx] = h
}

// spriteFor returns the handle bound to a sprite id, creating an empty
// sprite layer if unseen. Sprites do not take part in the layer order.
func (c *renderCore) spriteFor(key spriteKey, baseScaleFactor float32) layerHandle {
	if h, ok := c.spriteIds[key]; ok {
		return h
	}
	h := c.nextLayer
	c.nextLayer++
	c.layers[h] = newCanvasLayer(true, baseScaleFactor)
	c.spriteIds[key] = h
	return h
}

// swapLayers exchanges the content bound to two layer ids.
func (c *renderCore) swapLayers(k1, k2 layerKey, baseScaleFactor float32) {
	h1 := c.layerFor(k1, baseScaleFactor)
	h2 := c.layerFor(k2, baseScaleFactor)
	if h1 == h2 {
		return
	}
	c.layerIds[k1], c.layerIds[k2] = h2, h1
	l1, l2 := c.layers[h1], c.layers[h2]
	l1.orderNs, l2.orderNs = l2.orderNs, l1.orderNs
	l1.orderId, l2.orderId = l2.orderId, l1.orderId
	for i, h := range c.layerOrder {
		switch h {
		case h1:
			c.layerOrder[i] = h2
		case h2:
			c.layerOrder[i] = h1
		}
	}
}

// clearLayerContents discards a layer's retained entities, releasing the
// resources they hold. Drawing state survives; the caller re-establishes
// the transform entity if needed.
func (c *renderCore) clearLayerContents(l *canvasLayer) {
	for _, e := range l.renderOrder {
		c.freeEntityResources(e)
	}
	l.renderOrder = nil
	l.bounds = undefinedBounds()
	l.state.restorePoint = -1
	l.lastFillEntity = nil
	l.lastBlendMode = canvas.BlendSourceOver
	l.modified()
}

// snapshotLayerOrder copies the declared rendering order for a plan.
func (c *renderCore) snapshotLayerOrder() []layerHandle {
	return append([]layerHandle(nil), c.layerOrder...)
}

// ---- Entity resource accounting ----

// freeEntityResources releases whatever plan-level resources an entity
// holds: buffer pairs for uploaded geometry, texture references for fills
// and filters.
func (c *renderCore) freeEntityResources(e renderEntity) {
	switch e := e.(type) {
	case entityDrawIndexed:
		c.releaseBuffer(int(e.vertexBuffer))
	case entityEnableClipping:
		c.releaseBuffer(int(e.vertexBuffer))
	case entitySetFillTexture:
		c.usedTextures[e.texture]--
	case entitySetFillGradient:
		c.usedTextures[e.texture]--
	case entityRenderSpriteWithFilters:
		for _, f := range e.filters {
			switch f := f.(type) {
			case MaskFilter:
				c.usedTextures[f.Mask]--
			case DisplacementMapFilter:
				c.usedTextures[f.Displacement]--
			}
		}
	}
}

// storeJobResult replaces a tessellation placeholder with its finished
// geometry. Results for slots that were freed, truncated or reused while
// the job ran are discarded.
func (c *renderCore) storeJobResult(ref layerEntityRef, entity renderEntity, details entityDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeJobResultLocked(ref, entity, details)
}

// storeJobResultLocked is storeJobResult for callers already holding mu.
func (c *renderCore) storeJobResultLocked(ref layerEntityRef, entity renderEntity, details entityDetails) {
	layer := c.layers[ref.layer]
	if layer == nil || ref.entityIndex >= len(layer.renderOrder) {
		c.freeEntityResources(entity)
		return
	}
	slot, ok := layer.renderOrder[ref.entityIndex].(entityTessellating)
	if !ok || slot.jobId != ref.entityId {
		c.freeEntityResources(entity)
		return
	}
	layer.renderOrder[ref.entityIndex] = entity
	layer.bounds = layer.bounds.combine(details.bounds)
}

// ---- Texture resources ----

func (c *renderCore) textureEntry(key textureKey) (*textureEntry, bool) {
	e, ok := c.canvasTextures[key]
	return e, ok
}

// createTexture binds a fresh plan-level texture to a canvas texture id,
// replacing any previous binding.
func (c *renderCore) createTexture(key textureKey, width, height uint32) *textureEntry {
	if old, ok := c.canvasTextures[key]; ok {
		c.usedTextures[old.renderId]--
	}
	id := c.allocTexture()
	size := Size2D{Width: width, Height: height}
	entry := &textureEntry{renderId: id, state: textureLoading, fillAlpha: 1, size: size}
	c.canvasTextures[key] = entry
	c.usedTextures[id] = 1
	c.textureSizes[id] = size
	c.setupActions = append(c.setupActions, CreateTextureRgba{Id: id, Size: size})
	return entry
}

// createDynamicTexture binds a canvas texture id to a texture that is
// re-rendered from a sprite layer whenever the sprite or the viewport
// changes. The backing texture is allocated on first render, since its
// pixel size depends on the viewport.
func (c *renderCore) createDynamicTexture(key textureKey, sprite spriteKey, bounds canvas.SpriteBounds, canvasSize [2]float32) *textureEntry {
	if old, ok := c.canvasTextures[key]; ok {
		c.usedTextures[old.renderId]--
	}
	id := c.allocTexture()
	entry := &textureEntry{renderId: id, state: textureLoading, fillAlpha: 1, requestPending: true}
	c.canvasTextures[key] = entry
	c.usedTextures[id] = 1
	c.dynamicStates[id] = &dynamicState{sprite: sprite, bounds: bounds, canvasSize: canvasSize}
	return entry
}

// renderTextureFromSprite schedules a one-shot render of a sprite region
// into an existing texture during the next plan's setup phase.
func (c *renderCore) renderTextureFromSprite(entry *textureEntry, sprite spriteKey, bounds canvas.SpriteBounds) {
	c.textureForWriting(entry)
	entry.requestPending = true
	c.requests = append(c.requests, textureRenderRequest{
		kind:    requestFromSprite,
		texture: entry.renderId,
		bounds:  bounds,
		sprite:  sprite,
	})
}

// freeTexture releases a canvas texture binding. The plan-level texture
// survives until every entity referencing it is gone.
func (c *renderCore) freeTexture(key textureKey) {
	if entry, ok := c.canvasTextures[key]; ok {
		c.usedTextures[entry.renderId]--
		delete(c.canvasTextures, key)
	}
}

// textureForWriting prepares a texture for mutation. A texture that is
// already renderable, or that is shared with retained draws, moves to a
// fresh id first so existing entities keep their pixels (copy-on-write).
func (c *renderCore) textureForWriting(entry *textureEntry) {
	if entry.state != textureReady && c.usedTextures[entry.renderId] <= 1 {
		return
	}
	newId := c.allocTexture()
	c.usedTextures[newId] = 1
	c.usedTextures[entry.renderId]--
	c.textureSizes[newId] = entry.size
	c.setupActions = append(c.setupActions, CopyTexture{Source: entry.renderId, Target: newId})
	entry.renderId = newId
	entry.state = textureLoading
	entry.requestPending = false
}

// textureForRendering finalises a texture for sampling, scheduling a mip
// chain build if writes are still outstanding.
func (c *renderCore) textureForRendering(entry *textureEntry) TextureId {
	if entry.state == textureLoading && !entry.requestPending {
		c.requests = append(c.requests, textureRenderRequest{kind: requestMipMaps, texture: entry.renderId})
		entry.requestPending = true
	}
	return entry.renderId
}

// markTextureReady flips every canvas binding of a plan texture to ready,
// clearing its pending request. Called once the plan has emitted the
// actions that finish the texture.
func (c *renderCore) markTextureReady(id TextureId) {
	for _, entry := range c.canvasTextures {
		if entry.renderId == id {
			entry.state = textureReady
			entry.requestPending = false
		}
	}
}

// freeUnusedTextures drops every plan-level texture whose reference count
// reached zero, returning the free actions for the plan's setup phase.
func (c *renderCore) freeUnusedTextures() []Action {
	var freed []TextureId
	for id, count := range c.usedTextures {
		if count <= 0 {
			freed = append(freed, id)
		}
	}
	sort.Slice(freed, func(i, j int) bool { return freed[i] < freed[j] })

	var actions []Action
	for _, id := range freed {
		delete(c.usedTextures, id)
		delete(c.textureSizes, id)
		if ds, ok := c.dynamicStates[id]; ok {
			if ds.rendered {
				actions = append(actions, FreeRenderTarget{Target: ds.target})
				c.releaseTargetImmediate(ds.target)
			}
			delete(c.dynamicStates, id)
		}
		kept := c.requests[:0]
		for _, req := range c.requests {
			if req.texture != id {
				kept = append(kept, req)
			}
		}
		c.requests = kept
		actions = append(actions, FreeTexture{Id: id})
		c.freeTextureIds = append(c.freeTextureIds, id)
	}
	return actions
}

// ---- Gradient resources ----

// createGradient starts a new gradient definition, replacing any previous
// one bound to the key.
func (c *renderCore) createGradient(key gradientKey, initial canvas.Color) {
	if old, ok := c.gradients[key]; ok && old.baked {
		c.usedTextures[old.renderId]--
	}
	c.gradients[key] = &gradientEntry{stops: []gradientStop{{pos: 0, color: initial}}}
}

// addGradientStop extends a gradient still being defined. Stops arriving
// after the gradient baked are ignored; gradients are immutable once used.
func (c *renderCore) addGradientStop(key gradientKey, pos float32, color canvas.Color) {
	entry, ok := c.gradients[key]
	if !ok || entry.baked {
		return
	}
	entry.stops = append(entry.stops, gradientStop{pos: pos, color: color})
}

// gradientTexture returns the plan-level ramp texture for a gradient,
// baking it on first use.
func (c *renderCore) gradientTexture(key gradientKey) (TextureId, bool) {
	entry, ok := c.gradients[key]
	if !ok {
		return 0, false
	}
	if !entry.baked {
		id := c.allocTexture()
		entry.renderId = id
		entry.baked = true
		c.usedTextures[id] = 1
		c.setupActions = append(c.setupActions,
			Create1DTextureRgba{Id: id, Length: gradientTextureLength},
			WriteTexture1D{Id: id, Start: 0, End: gradientTextureLength, Bytes: bakeGradient(entry.stops)},
			CreateMipMaps{Id: id},
		)
	}
	return entry.renderId, true
}

// gradientTextureLength is the resolution of baked gradient ramps.
const gradientTextureLength = 256

// bakeGradient renders gradient stops into an RGBA byte ramp. Positions
// clamp to 0..1; the ramp holds the first stop's color before the first
// position and the last stop's color after the last.
func bakeGradient(stops []gradientStop) []byte {
	sorted := append([]gradientStop(nil), stops...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].pos < sorted[j].pos })

	bytes := make([]byte, gradientTextureLength*4)
	for i := 0; i < gradientTextureLength; i++ {
		t := float32(i) / float32(gradientTextureLength-1)
		col := gradientColorAt(sorted, t)
		r, g, b, a := col.RGBA8()
		bytes[i*4+0] = r
		bytes[i*4+1] = g
		bytes[i*4+2] = b
		bytes[i*4+3] = a
	}
	return bytes
}

func gradientColorAt(sorted []gradientStop, t float32) canvas.Color {
	if len(sorted) == 0 {
		return canvas.Color{}
	}
	if t <= sorted[0].pos {
		return sorted[0].color
	}
	for i := 1; i < len(sorted); i++ {
		if t <= sorted[i].pos {
			span := sorted[i].pos - sorted[i-1].pos
			if span <= 0 {
				return sorted[i].color
			}
			return sorted[i-1].color.Mix(sorted[i].color, (t-sorted[i-1].pos)/span)
		}
	}
	return sorted[len(sorted)-1].color
}

// ---- Geometry upload ----

// sendLayerVertexBuffer uploads one tessellated entity, rewriting the slot
// to its draw form so the upload happens exactly once. Geometry that
// tessellated to nothing becomes a missing entity instead of an empty
// buffer pair.
func (c *renderCore) sendLayerVertexBuffer(l *canvasLayer, idx int) []Action {
	vb, ok := l.renderOrder[idx].(entityVertexBuffer)
	if !ok {
		return nil
	}
	if len(vb.vertices) == 0 || len(vb.indices) == 0 {
		l.renderOrder[idx] = entityMissing{}
		return nil
	}
	id := c.allocBuffer()
	switch vb.intent {
	case intentClip:
		l.renderOrder[idx] = entityEnableClipping{
			vertexBuffer: VertexBufferId(id),
			indexBuffer:  IndexBufferId(id),
			count:        len(vb.indices),
		}
	default:
		l.renderOrder[idx] = entityDrawIndexed{
			vertexBuffer: VertexBufferId(id),
			indexBuffer:  IndexBufferId(id),
			count:        len(vb.indices),
		}
	}
	bytes := int64(len(vb.vertices))*20 + int64(len(vb.indices))*2
	c.bufferSizes[id] = bytes
	c.bufferBytes += bytes
	return []Action{
		CreateVertex2DBuffer{Id: VertexBufferId(id), Vertices: vb.vertices},
		CreateIndexBuffer{Id: IndexBufferId(id), Indices: vb.indices},
	}
}

// sendVertexBuffers walks a layer and uploads every tessellated entity,
// descending into referenced sprites. Sprite bounds fold into the parent
// under the transform active at the referencing entity. The visited set
// stops sprite reference cycles.
func (c *renderCore) sendVertexBuffers(h layerHandle, visited map[layerHandle]bool) []Action {
	if visited[h] {
		return nil
	}
	visited[h] = true
	defer delete(visited, h)

	l := c.layers[h]
	if l == nil {
		return nil
	}
	var actions []Action
	active := canvas.IdentityMatrix
	for idx := range l.renderOrder {
		switch e := l.renderOrder[idx].(type) {
		case entitySetTransform:
			active = e.transform
		case entityVertexBuffer:
			actions = append(actions, c.sendLayerVertexBuffer(l, idx)...)
		case entityRenderSprite:
			actions = append(actions, c.foldSprite(l, spriteKey{e.namespace, e.sprite}, active, e.transform, 0, visited)...)
		case entityRenderSpriteWithFilters:
			actions = append(actions, c.foldSprite(l, spriteKey{e.namespace, e.sprite}, active, e.transform, e.filterRadius, visited)...)
		}
	}
	return actions
}

func (c *renderCore) foldSprite(parent *canvasLayer, key spriteKey, active, spriteTransform canvas.Transform2D, filterRadius float32, visited map[layerHandle]bool) []Action {
	sh, ok := c.spriteIds[key]
	if !ok {
		return nil
	}
	actions := c.sendVertexBuffers(sh, visited)
	if sprite := c.layers[sh]; sprite != nil && !sprite.bounds.isUndefined() {
		folded := sprite.bounds.transform(active.Multiply(spriteTransform)).inflate(filterRadius)
		parent.bounds = parent.bounds.combine(folded)
	}
	return actions
}
