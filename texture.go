package canvas

// TextureFormat describes the pixel layout of texture data supplied by
// TextureSetBytes.
type TextureFormat uint8

const (
	// TextureFormatRgba is 8 bits per channel RGBA, row-major, not
	// premultiplied.
	TextureFormatRgba TextureFormat = iota
)

// Texture declares or modifies a texture resource. Textures can be filled
// from raw bytes or rendered from sprites and are painted with FillTexture.
type Texture struct {
	Id TextureId
	Op TextureOp
}

func (Texture) drawOp() {}

// TextureOp is one operation on a texture resource.
type TextureOp interface {
	textureOp()
}

// TextureCreate allocates (or reallocates) a texture of the given size in
// pixels. Any previous contents are discarded.
type TextureCreate struct {
	Width, Height uint32
	Format        TextureFormat
}

// TextureFree releases a texture.
type TextureFree struct{}

// TextureSetBytes writes pixel data to a region of a texture.
type TextureSetBytes struct {
	X, Y          uint32
	Width, Height uint32
	Bytes         []byte
}

// TextureSetFromSprite renders a region of a sprite into a texture, once.
// Later changes to the sprite do not affect the texture.
type TextureSetFromSprite struct {
	Sprite SpriteId
	Bounds SpriteBounds
}

// TextureCreateDynamicSprite makes a texture that re-renders from a sprite
// region whenever the sprite changes or the canvas resolution changes. The
// texture size tracks CanvasWidth x CanvasHeight in canvas units.
type TextureCreateDynamicSprite struct {
	Sprite                    SpriteId
	Bounds                    SpriteBounds
	CanvasWidth, CanvasHeight float32
}

// TextureFillTransparency sets the alpha used when the texture is painted
// by FillTexture.
type TextureFillTransparency struct {
	Alpha float32
}

// TextureCopy copies the contents of this texture into another texture.
type TextureCopy struct {
	Target TextureId
}

// TextureApplyFilter runs a filter over the texture's pixels in place.
type TextureApplyFilter struct {
	Filter TextureFilter
}

func (TextureCreate) textureOp()              {}
func (TextureFree) textureOp()                {}
func (TextureSetBytes) textureOp()            {}
func (TextureSetFromSprite) textureOp()       {}
func (TextureCreateDynamicSprite) textureOp() {}
func (TextureFillTransparency) textureOp()    {}
func (TextureCopy) textureOp()                {}
func (TextureApplyFilter) textureOp()         {}

// TextureFilter is a pixel filter, applied to textures by
// TextureApplyFilter or to sprite renders by DrawSpriteWithFilters.
type TextureFilter interface {
	textureFilter()
}

// GaussianBlur blurs with the given radius in canvas units (converted to
// pixels at the resolution the filter runs at).
type GaussianBlur struct {
	Radius float32
}

// AlphaBlend multiplies every pixel's alpha.
type AlphaBlend struct {
	Alpha float32
}

// Mask multiplies by the alpha channel of another texture.
type Mask struct {
	Texture TextureId
}

// DisplacementMap offsets each pixel by an amount read from another
// texture: red displaces horizontally and green vertically, scaled to the
// given radii.
type DisplacementMap struct {
	Texture          TextureId
	RadiusX, RadiusY float32
}

func (GaussianBlur) textureFilter()    {}
func (AlphaBlend) textureFilter()      {}
func (Mask) textureFilter()            {}
func (DisplacementMap) textureFilter() {}
