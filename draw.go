package canvas

// Draw is a single canvas drawing operation.
//
// A drawing is a []Draw: path construction, paint settings, transforms,
// clipping, layer and sprite management, resource declarations and text.
// Operations are plain value types so a drawing can be copied, compared,
// stored and replayed. The operation set is closed; only types in this
// package satisfy the interface.
type Draw interface {
	drawOp()
}

// PathOp is the subset of Draw operations that build paths: NewPath, Move,
// Line, BezierCurve and ClosePath.
type PathOp interface {
	Draw
	pathOp()
}

// ---- Frames ----

// StartFrame suspends rendering until a matching ShowFrame arrives, so a
// batch of updates appears at once. Frames nest: rendering resumes when
// every StartFrame has been balanced.
type StartFrame struct{}

// ShowFrame releases one StartFrame.
type ShowFrame struct{}

// ResetFrame discards frame state, resuming rendering regardless of how
// many StartFrames are outstanding.
type ResetFrame struct{}

// ---- Canvas and layers ----

// Namespace switches the resource namespace used by subsequent layer,
// sprite, texture, gradient and font IDs.
type Namespace struct {
	Id NamespaceId
}

// ClearCanvas discards the entire drawing, all layers and all sprites, and
// sets the background colour. Texture and gradient declarations survive;
// fonts are forgotten and must be redefined.
type ClearCanvas struct {
	Color Color
}

// Layer selects the layer that subsequent operations draw to. Layers are
// drawn in ascending ID order regardless of the order they were selected.
type Layer struct {
	Id LayerId
}

// LayerBlend sets how a layer composites onto the layers beneath it.
type LayerBlend struct {
	Id   LayerId
	Mode BlendMode
}

// LayerAlpha sets the transparency applied to a whole layer.
type LayerAlpha struct {
	Id    LayerId
	Alpha float32
}

// ClearLayer erases the contents of the current layer. The current
// transform is kept.
type ClearLayer struct{}

// ClearAllLayers erases the contents of every layer without forgetting
// layer ordering, blend modes or the current selection.
type ClearAllLayers struct{}

// SwapLayers exchanges the rendering order of two layers.
type SwapLayers struct {
	Layer1 LayerId
	Layer2 LayerId
}

// ---- State ----

// PushState saves the current transform, clip path, fill and stroke
// settings onto the state stack.
type PushState struct{}

// PopState restores the most recently pushed state. Transform changes made
// since the push are kept everywhere except inside sprites.
type PopState struct{}

// Store saves the contents of the current layer so a later Restore can
// roll back to it. Used for cheap partial redraws.
type Store struct{}

// Restore rolls the current layer back to its stored contents.
type Restore struct{}

// FreeStoredBuffer releases the buffer saved by Store without restoring it.
type FreeStoredBuffer struct{}

// Clip intersects the clipping region with the current path.
type Clip struct{}

// Unclip removes the clipping region.
type Unclip struct{}

// ---- Transforms ----

// IdentityTransform resets the canvas transform so coordinates map
// directly to the square viewport between -1 and 1.
type IdentityTransform struct{}

// CanvasHeight scales the canvas so the given height fills the viewport
// vertically, keeping the origin centred and x and y uniform.
type CanvasHeight struct {
	Height float32
}

// CenterRegion translates the canvas so the given region is centred in the
// viewport.
type CenterRegion struct {
	Min Point
	Max Point
}

// MultiplyTransform composes a transform onto the current canvas transform.
type MultiplyTransform struct {
	Transform Transform2D
}

// ---- Sprites ----

// Sprite selects (or creates) the sprite that subsequent operations draw
// to, instead of the current layer. Sprites keep their contents until
// cleared and can be rendered any number of times.
type Sprite struct {
	Id SpriteId
}

// ClearSprite erases the contents of the current sprite.
type ClearSprite struct{}

// SpriteTransform adjusts the transform applied when the current sprite is
// rendered by DrawSprite.
type SpriteTransform struct {
	Transform SpriteTransformOp
}

// DrawSprite renders a sprite onto the current layer with the current
// sprite transform.
type DrawSprite struct {
	Id SpriteId
}

// DrawSpriteWithFilters renders a sprite with texture filters applied to
// its pixels.
type DrawSpriteWithFilters struct {
	Id      SpriteId
	Filters []TextureFilter
}

// MoveSpriteFrom moves the contents of another sprite into the current
// sprite, leaving the source empty. The source keeps its identity, so
// resources bound to it stay valid.
type MoveSpriteFrom struct {
	Id SpriteId
}

func (StartFrame) drawOp()            {}
func (ShowFrame) drawOp()             {}
func (ResetFrame) drawOp()            {}
func (Namespace) drawOp()             {}
func (ClearCanvas) drawOp()           {}
func (Layer) drawOp()                 {}
func (LayerBlend) drawOp()            {}
func (LayerAlpha) drawOp()            {}
func (ClearLayer) drawOp()            {}
func (ClearAllLayers) drawOp()        {}
func (SwapLayers) drawOp()            {}
func (PushState) drawOp()             {}
func (PopState) drawOp()              {}
func (Store) drawOp()                 {}
func (Restore) drawOp()               {}
func (FreeStoredBuffer) drawOp()      {}
func (Clip) drawOp()                  {}
func (Unclip) drawOp()                {}
func (IdentityTransform) drawOp()     {}
func (CanvasHeight) drawOp()          {}
func (CenterRegion) drawOp()          {}
func (MultiplyTransform) drawOp()     {}
func (Sprite) drawOp()                {}
func (ClearSprite) drawOp()           {}
func (SpriteTransform) drawOp()       {}
func (DrawSprite) drawOp()            {}
func (DrawSpriteWithFilters) drawOp() {}
func (MoveSpriteFrom) drawOp()        {}
