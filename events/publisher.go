package events

import (
	"sync"

	"github.com/gogpu/canvas"
)

// Publisher fans window events out to subscribers, adding canvas
// coordinates to pointer locations along the way.
//
// The window transform maps canvas coordinates to window pixels; the
// publisher applies its inverse to CursorMoved and Pointer locations.
// Until a transform is set (or when it is singular) locations pass through
// with HasCanvas false.
//
// Publish never blocks: a subscriber that falls more than its buffer
// behind misses events. Input events are ephemeral, so dropping old ones
// is preferable to stalling the window thread.
type Publisher struct {
	mu        sync.Mutex
	subs      []chan Event
	inverse   canvas.Transform2D
	hasWindow bool
	closed    bool
}

// subscriberBuffer is how many events a subscriber can lag before events
// are dropped.
const subscriberBuffer = 64

// NewPublisher creates a publisher with no subscribers and no window
// transform.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Subscribe registers a new subscriber. The channel is closed when the
// publisher is closed.
func (p *Publisher) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(ch)
		return ch
	}
	p.subs = append(p.subs, ch)
	return ch
}

// SetWindowTransform supplies the canvas-to-window transform used to
// translate pointer locations. Passing a singular transform disables
// translation.
func (p *Publisher) SetWindowTransform(t canvas.Transform2D) {
	inverse, ok := t.Invert()

	p.mu.Lock()
	p.inverse = inverse
	p.hasWindow = ok
	p.mu.Unlock()
}

// Publish delivers an event to every subscriber, augmenting pointer
// locations with canvas coordinates.
func (p *Publisher) Publish(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	switch e := ev.(type) {
	case CursorMoved:
		e.Location = p.toCanvas(e.Location)
		ev = e
	case Pointer:
		e.State.Location = p.toCanvas(e.State.Location)
		ev = e
	}

	for _, ch := range p.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close closes every subscriber channel. Publish becomes a no-op.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for _, ch := range p.subs {
		close(ch)
	}
	p.subs = nil
}

// toCanvas fills in the canvas half of a location. Called with p.mu held.
func (p *Publisher) toCanvas(loc Location) Location {
	if !p.hasWindow {
		loc.HasCanvas = false
		return loc
	}
	pt := p.inverse.Transform(canvas.Point{X: float32(loc.WindowX), Y: float32(loc.WindowY)})
	loc.CanvasX = float64(pt.X)
	loc.CanvasY = float64(pt.Y)
	loc.HasCanvas = true
	return loc
}
