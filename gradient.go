package canvas

// Gradient declares or extends a gradient resource. Gradients are painted
// with FillGradient, which positions them on the canvas.
type Gradient struct {
	Id GradientId
	Op GradientOp
}

func (Gradient) drawOp() {}

// GradientOp is one operation on a gradient resource.
type GradientOp interface {
	gradientOp()
}

// GradientCreate starts a new gradient with its initial colour at position
// 0. Any previous definition with the same ID is replaced.
type GradientCreate struct {
	Color Color
}

// GradientAddStop adds a colour stop. Positions run from 0 at the start of
// the gradient to 1 at the end; stops may be added in any order.
type GradientAddStop struct {
	Pos   float32
	Color Color
}

func (GradientCreate) gradientOp()  {}
func (GradientAddStop) gradientOp() {}
