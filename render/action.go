// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "fmt"

// Action is a single low-level render instruction.
//
// A render plan is a flat []Action sequence produced by a RenderStream.
// Actions are plain value types that a GPU backend executes in order; they
// carry no callbacks and reference resources only by integer id, so a plan
// can be recorded, inspected or replayed. The action set is closed; only
// types in this package implement it.
type Action interface {
	renderAction()
}

// VertexBufferId identifies a vertex buffer in the render plan. Vertex and
// index buffers share an id space: a buffer pair used by one draw carries
// the same number.
type VertexBufferId int

// IndexBufferId identifies an index buffer in the render plan.
type IndexBufferId int

// TextureId identifies a texture in the render plan. Ids 0-2 are reserved
// for the main render texture, the clip mask and the dash pattern.
type TextureId int

// NoTexture marks an absent optional texture, for example an unused clip
// mask slot in a shader.
const NoTexture TextureId = -1

// RenderTargetId identifies an off-screen render target.
type RenderTargetId int

// Rgba8 is a color with 8 bits per channel, in R, G, B, A order.
type Rgba8 [4]uint8

// Size2D is a size in device pixels.
type Size2D struct {
	Width  uint32
	Height uint32
}

// Vertex2D is the vertex layout used by every draw in the plan: position
// and texture coordinate as float32 pairs plus an RGBA color, 20 bytes.
type Vertex2D struct {
	Pos      [2]float32
	TexCoord [2]float32
	Color    [4]uint8
}

// FrameBufferRegion selects a rectangle of a frame buffer in clip-space
// coordinates, where the full buffer spans -1..1 on both axes.
type FrameBufferRegion struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// FullFrameBufferRegion covers the entire frame buffer.
var FullFrameBufferRegion = FrameBufferRegion{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}

// RenderTargetType selects the backing store of a render target.
type RenderTargetType uint8

const (
	// RenderTargetStandard is a plain RGBA texture target.
	RenderTargetStandard RenderTargetType = iota
	// RenderTargetStandardForReading is a plain target whose texture is
	// laid out for CPU read-back.
	RenderTargetStandardForReading
	// RenderTargetMultisampled is a multisampled target that resolves on
	// demand and has no sampleable texture.
	RenderTargetMultisampled
	// RenderTargetMultisampledTexture is a multisampled target that
	// resolves into its backing texture.
	RenderTargetMultisampledTexture
	// RenderTargetMonochrome is a single-channel target, used for masks.
	RenderTargetMonochrome
	// RenderTargetMonochromeMultisampledTexture is a multisampled
	// single-channel target resolving into its backing texture.
	RenderTargetMonochromeMultisampledTexture
)

var renderTargetTypeNames = [...]string{
	"Standard",
	"StandardForReading",
	"Multisampled",
	"MultisampledTexture",
	"Monochrome",
	"MonochromeMultisampledTexture",
}

// String implements fmt.Stringer.
func (t RenderTargetType) String() string {
	if int(t) < len(renderTargetTypeNames) {
		return renderTargetTypeNames[t]
	}
	return fmt.Sprintf("RenderTargetType(%d)", uint8(t))
}

// BlendMode is the blending function applied by subsequent draws.
//
// The source-over/in/out/atop and destination-* modes follow the usual
// Porter-Duff definitions on premultiplied colors. The AllChannelAlpha
// variants apply the source alpha factor to every channel and are used
// when drawing into single-channel mask targets.
type BlendMode uint8

const (
	BlendModeSourceOver BlendMode = iota
	BlendModeSourceIn
	BlendModeSourceOut
	BlendModeDestinationOver
	BlendModeDestinationIn
	BlendModeDestinationOut
	BlendModeSourceAtop
	BlendModeDestinationAtop
	BlendModeMultiply
	BlendModeScreen
	BlendModeAllChannelAlphaSourceOver
	BlendModeAllChannelAlphaDestinationOver
)

var blendModeNames = [...]string{
	"SourceOver",
	"SourceIn",
	"SourceOut",
	"DestinationOver",
	"DestinationIn",
	"DestinationOut",
	"SourceAtop",
	"DestinationAtop",
	"Multiply",
	"Screen",
	"AllChannelAlphaSourceOver",
	"AllChannelAlphaDestinationOver",
}

// String implements fmt.Stringer.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", uint8(m))
}

// ---- Buffer actions ----

// CreateVertex2DBuffer allocates a vertex buffer and uploads its contents.
// The id must not currently be live; freed ids may be reused.
type CreateVertex2DBuffer struct {
	Id       VertexBufferId
	Vertices []Vertex2D
}

// CreateIndexBuffer allocates an index buffer and uploads its contents.
type CreateIndexBuffer struct {
	Id      IndexBufferId
	Indices []uint16
}

// FreeVertexBuffer releases a vertex buffer once the current frame's draws
// complete.
type FreeVertexBuffer struct {
	Id VertexBufferId
}

// FreeIndexBuffer releases an index buffer once the current frame's draws
// complete.
type FreeIndexBuffer struct {
	Id IndexBufferId
}

// ---- Texture actions ----

// CreateTextureRgba allocates an RGBA texture of the given size. Contents
// are undefined until written.
type CreateTextureRgba struct {
	Id   TextureId
	Size Size2D
}

// CreateTextureMono allocates a single-channel texture of the given size.
type CreateTextureMono struct {
	Id   TextureId
	Size Size2D
}

// Create1DTextureRgba allocates a one-dimensional RGBA texture, used for
// gradient ramps.
type Create1DTextureRgba struct {
	Id     TextureId
	Length uint32
}

// Create1DTextureMono allocates a one-dimensional single-channel texture,
// used for dash patterns.
type Create1DTextureMono struct {
	Id     TextureId
	Length uint32
}

// WriteTextureData uploads pixel bytes to a texture subregion. Bytes are
// RGBA8 for color textures and R8 for single-channel textures, row-major
// from Min (inclusive) to Max (exclusive).
type WriteTextureData struct {
	Id       TextureId
	Min, Max [2]uint32
	Bytes    []byte
}

// WriteTexture1D uploads pixel bytes to a span of a one-dimensional
// texture, from Start (inclusive) to End (exclusive).
type WriteTexture1D struct {
	Id         TextureId
	Start, End uint32
	Bytes      []byte
}

// CreateMipMaps generates the mip chain for a texture from its level-0
// contents.
type CreateMipMaps struct {
	Id TextureId
}

// CopyTexture copies the full contents of one texture into another. The
// target is reallocated to the source's size.
type CopyTexture struct {
	Source TextureId
	Target TextureId
}

// FilterTexture runs a filter chain over a texture's pixels in place.
type FilterTexture struct {
	Id      TextureId
	Filters []TextureFilter
}

// FreeTexture releases a texture once the current frame's draws complete.
type FreeTexture struct {
	Id TextureId
}

// ---- Render target actions ----

// CreateRenderTarget allocates a render target of the given size and kind
// and binds a backing texture to it. The backing texture is created by
// this action and can be sampled after the target is rendered (and, for
// multisampled kinds, resolved).
type CreateRenderTarget struct {
	Target  RenderTargetId
	Texture TextureId
	Size    Size2D
	Type    RenderTargetType
}

// FreeRenderTarget releases a render target. Its backing texture survives
// until freed separately.
type FreeRenderTarget struct {
	Target RenderTargetId
}

// SelectRenderTarget directs subsequent draws at an off-screen target.
// Pipeline state (transform, shader, blend mode) does not carry across
// target switches and must be re-established.
type SelectRenderTarget struct {
	Target RenderTargetId
}

// RenderToFrameBuffer directs subsequent draws at the visible frame
// buffer. As with SelectRenderTarget, pipeline state does not carry over.
type RenderToFrameBuffer struct{}

// ---- Pipeline state actions ----

// SetTransform sets the world-to-clip matrix applied to subsequent draws.
type SetTransform struct {
	Transform Matrix
}

// SetBlendMode sets the blending function for subsequent draws.
type SetBlendMode struct {
	Mode BlendMode
}

// UseShader selects the shader program for subsequent draws.
type UseShader struct {
	Shader ShaderType
}

// Clear fills the current render target with a color.
type Clear struct {
	Color Rgba8
}

// ---- Draw actions ----

// DrawTriangles draws a vertex range from a buffer as a triangle list.
type DrawTriangles struct {
	Buffer   VertexBufferId
	From, To int
}

// DrawIndexedTriangles draws Count indices from an index buffer as a
// triangle list.
type DrawIndexedTriangles struct {
	VertexBuffer VertexBufferId
	IndexBuffer  IndexBufferId
	Count        int
}

// DrawFrameBuffer blits a region of a rendered target into the current
// target, multiplying by Alpha. Multisampled sources resolve first.
type DrawFrameBuffer struct {
	Source RenderTargetId
	Region FrameBufferRegion
	Alpha  float32
}

// ShowFrameBuffer presents the visible frame buffer. Emitted last in a
// completed frame plan.
type ShowFrameBuffer struct{}

func (CreateVertex2DBuffer) renderAction() {}
func (CreateIndexBuffer) renderAction()    {}
func (FreeVertexBuffer) renderAction()     {}
func (FreeIndexBuffer) renderAction()      {}
func (CreateTextureRgba) renderAction()    {}
func (CreateTextureMono) renderAction()    {}
func (Create1DTextureRgba) renderAction()  {}
func (Create1DTextureMono) renderAction()  {}
func (WriteTextureData) renderAction()     {}
func (WriteTexture1D) renderAction()       {}
func (CreateMipMaps) renderAction()        {}
func (CopyTexture) renderAction()          {}
func (FilterTexture) renderAction()        {}
func (FreeTexture) renderAction()          {}
func (CreateRenderTarget) renderAction()   {}
func (FreeRenderTarget) renderAction()     {}
func (SelectRenderTarget) renderAction()   {}
func (RenderToFrameBuffer) renderAction()  {}
func (SetTransform) renderAction()         {}
func (SetBlendMode) renderAction()         {}
func (UseShader) renderAction()            {}
func (Clear) renderAction()                {}
func (DrawTriangles) renderAction()        {}
func (DrawIndexedTriangles) renderAction() {}
func (DrawFrameBuffer) renderAction()      {}
func (ShowFrameBuffer) renderAction()      {}

// Resources every plan may reference without creating them per frame. The
// main and clip targets are (re)created whenever the viewport changes; the
// dash texture is rewritten whenever a new dash pattern takes effect.
const (
	mainRenderTarget    RenderTargetId = 0
	clipRenderTarget    RenderTargetId = 1
	resolveRenderTarget RenderTargetId = 2

	mainRenderTexture TextureId = 0
	clipRenderTexture TextureId = 1
	dashTexture       TextureId = 2

	firstRenderTargetId = 3
	firstTextureId      = 3

	// Vertex buffer 0 carries the background quad.
	backgroundVertexBuffer VertexBufferId = 0
	firstVertexBufferId                   = 1
)

// dashTextureLength is the resolution of the 1D dash pattern texture.
const dashTextureLength = 256
