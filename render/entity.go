// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/canvas"
)

// vertexBufferIntent says what a tessellated buffer is for: drawing, or
// building a clip mask.
type vertexBufferIntent uint8

const (
	intentDraw vertexBufferIntent = iota
	intentClip
)

// renderEntity is one step in a layer's retained render log. Entities are
// appended as drawing instructions arrive and replayed every frame; slots
// are rewritten in place as tessellation completes and buffers upload.
type renderEntity interface {
	renderEntity()
}

// entityMissing marks a slot whose content was freed or discarded. It
// renders nothing but keeps later indices stable.
type entityMissing struct{}

// entityTessellating is a placeholder for a worker job that has not
// finished. The id distinguishes stale results when a slot is reused.
type entityTessellating struct {
	jobId uint64
}

// entityVertexBuffer holds tessellated geometry awaiting upload.
type entityVertexBuffer struct {
	vertices []Vertex2D
	indices  []uint16
	intent   vertexBufferIntent
}

// entityDrawIndexed draws previously uploaded buffers.
type entityDrawIndexed struct {
	vertexBuffer VertexBufferId
	indexBuffer  IndexBufferId
	count        int
}

// entityEnableClipping adds an uploaded buffer to the clip mask; later
// draws on the layer are restricted to the mask until entityDisableClipping.
type entityEnableClipping struct {
	vertexBuffer VertexBufferId
	indexBuffer  IndexBufferId
	count        int
}

type entityDisableClipping struct{}

// entitySetTransform switches the canvas transform for later entities on
// the layer.
type entitySetTransform struct {
	transform canvas.Transform2D
}

// entitySetBlendMode switches the blend mode for later draws on the layer.
type entitySetBlendMode struct {
	mode BlendMode
}

// entitySetFlatColor selects plain vertex-color shading for later draws.
type entitySetFlatColor struct{}

// entitySetDashPattern selects the dashed-line shader with the given
// pattern, in canvas units. An empty pattern reverts to flat shading.
type entitySetDashPattern struct {
	pattern []float32
}

// entitySetFillTexture selects texture shading for later draws. The
// texture id is a plan-level id with its use count already taken.
type entitySetFillTexture struct {
	texture TextureId
	matrix  canvas.Transform2D
	repeat  bool
	alpha   float32
}

// entitySetFillGradient selects gradient shading for later draws.
type entitySetFillGradient struct {
	texture TextureId
	matrix  canvas.Transform2D
	repeat  bool
	alpha   float32
}

// entityRenderSprite draws another layer's content under an extra
// transform.
type entityRenderSprite struct {
	namespace canvas.NamespaceId
	sprite    canvas.SpriteId
	transform canvas.Transform2D
}

// entityRenderSpriteWithFilters draws a sprite through an off-screen
// texture with a filter chain applied. filterRadius is the largest filter
// reach in canvas units, used to inflate bounds.
type entityRenderSpriteWithFilters struct {
	namespace    canvas.NamespaceId
	sprite       canvas.SpriteId
	transform    canvas.Transform2D
	filters      []TextureFilter
	filterRadius float32
}

func (entityMissing) renderEntity()                 {}
func (entityTessellating) renderEntity()            {}
func (entityVertexBuffer) renderEntity()            {}
func (entityDrawIndexed) renderEntity()             {}
func (entityEnableClipping) renderEntity()          {}
func (entityDisableClipping) renderEntity()         {}
func (entitySetTransform) renderEntity()            {}
func (entitySetBlendMode) renderEntity()            {}
func (entitySetFlatColor) renderEntity()            {}
func (entitySetDashPattern) renderEntity()          {}
func (entitySetFillTexture) renderEntity()          {}
func (entitySetFillGradient) renderEntity()         {}
func (entityRenderSprite) renderEntity()            {}
func (entityRenderSpriteWithFilters) renderEntity() {}

// layerEntityRef locates one entity slot for a tessellation worker. The
// entity id guards against a slot being freed and reused while the job is
// in flight.
type layerEntityRef struct {
	layer       layerHandle
	entityIndex int
	entityId    uint64
}

// entityDetails carries the layer-space bounding box of a completed
// tessellation.
type entityDetails struct {
	bounds layerBounds
}

// detailsFromVertices computes entity details for tessellated geometry.
// Vertices are in path coordinates; transform maps them into the layer's
// coordinate space.
func detailsFromVertices(vertices []Vertex2D, transform canvas.Transform2D) entityDetails {
	bounds := undefinedBounds()
	for _, v := range vertices {
		bounds = bounds.addPoint(v.Pos[0], v.Pos[1])
	}
	return entityDetails{bounds: bounds.transform(transform)}
}
