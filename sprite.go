package canvas

// SpriteBounds is a rectangular region of a sprite, in the sprite's own
// coordinates.
type SpriteBounds struct {
	X, Y          float32
	Width, Height float32
}

// SpriteTransformOp is one adjustment to the current sprite transform.
// Adjustments other than SpriteIdentity compose onto the existing
// transform.
type SpriteTransformOp interface {
	spriteTransformOp()
}

// SpriteIdentity resets the sprite transform.
type SpriteIdentity struct{}

// SpriteTranslate moves sprite rendering by an offset.
type SpriteTranslate struct {
	X, Y float32
}

// SpriteScale scales sprite rendering around the origin.
type SpriteScale struct {
	X, Y float32
}

// SpriteRotate rotates sprite rendering anticlockwise, in degrees.
type SpriteRotate struct {
	Degrees float32
}

// SpriteMatrix composes an arbitrary transform onto the sprite transform.
type SpriteMatrix struct {
	Transform Transform2D
}

func (SpriteIdentity) spriteTransformOp()  {}
func (SpriteTranslate) spriteTransformOp() {}
func (SpriteScale) spriteTransformOp()     {}
func (SpriteRotate) spriteTransformOp()    {}
func (SpriteMatrix) spriteTransformOp()    {}
