package events

// Event is something that happened to the window displaying a canvas. The
// set is closed; only types in this package satisfy the interface.
type Event interface {
	drawEvent()
}

// Resize reports a new window size in physical pixels, along with the
// pixel density the window is displayed at.
type Resize struct {
	Width  float64
	Height float64
	Dpi    float64
}

// Redraw asks for the canvas to be rendered again, typically because the
// window contents were invalidated.
type Redraw struct{}

// Closed reports that the window has been closed.
type Closed struct{}

// NewFrame reports that a frame finished rendering and is on screen.
type NewFrame struct{}

// Scale reports a change to the window's pixel density, as when a window
// moves between monitors.
type Scale struct {
	Factor float64
}

// Focused reports the window gaining or losing input focus.
type Focused struct {
	HasFocus bool
}

// CursorMoved reports the pointer position. Window coordinates are always
// present; canvas coordinates are filled in by the publisher when the
// window transform is known.
type CursorMoved struct {
	Location Location
}

// PointerId distinguishes pointing devices when the system tracks more
// than one (mouse plus touch, multiple styluses).
type PointerId uint64

// Button is a button on a mouse or other pointing device. A device with a
// single means of input, like a pen pressed against the screen, reports
// ButtonLeft.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	ButtonOther
)

// PointerAction is what a pointer did.
type PointerAction uint8

const (
	// PointerEnter reports the pointer entering the window.
	PointerEnter PointerAction = iota
	// PointerLeave reports the pointer leaving the window.
	PointerLeave
	// PointerMove is movement with no buttons pressed.
	PointerMove
	// PointerButtonDown reports a button press.
	PointerButtonDown
	// PointerDrag is movement with a button held. Drags can move outside
	// the window bounds.
	PointerDrag
	// PointerButtonUp reports a button release.
	PointerButtonUp
	// PointerCancel reports a release that invalidates the drag it ends,
	// as with palm rejection.
	PointerCancel
)

// Location is a position in window coordinates, with the equivalent canvas
// position when the window transform is known.
type Location struct {
	WindowX, WindowY float64

	CanvasX, CanvasY float64
	HasCanvas        bool
}

// PointerState describes a pointer at the time of an event.
type PointerState struct {
	Location Location
	Buttons  []Button
}

// Pointer reports pointer input beyond simple movement.
type Pointer struct {
	Action PointerAction
	Id     PointerId
	State  PointerState
}

// KeyDown reports a key press. Key names follow the windowing layer.
type KeyDown struct {
	Key string
}

// KeyUp reports a key release.
type KeyUp struct {
	Key string
}

func (Resize) drawEvent()      {}
func (Redraw) drawEvent()      {}
func (Closed) drawEvent()      {}
func (NewFrame) drawEvent()    {}
func (Scale) drawEvent()       {}
func (Focused) drawEvent()     {}
func (CursorMoved) drawEvent() {}
func (Pointer) drawEvent()     {}
func (KeyDown) drawEvent()     {}
func (KeyUp) drawEvent()       {}
