package events

import (
	"errors"
	"sync"

	"github.com/gogpu/canvas"
)

// ErrClosed is returned by Send after the drawing target is closed.
var ErrClosed = errors.New("events: drawing target is closed")

// DrawingTarget is the write end of a canvas: a FIFO channel of drawing
// operation batches. A batch sent with one call is delivered as one
// message, so multi-operation updates apply atomically; otherwise sending
// a batch is the same as sending each operation individually.
//
// Send is safe for concurrent use. Closing the target stops the consumer
// after the operations already queued.
type DrawingTarget struct {
	ch chan []canvas.Draw

	mu     sync.Mutex
	closed bool
}

// NewDrawingTarget creates a target buffering up to the given number of
// batches. A buffer of 0 makes Send rendezvous with the consumer.
func NewDrawingTarget(buffer int) *DrawingTarget {
	return &DrawingTarget{ch: make(chan []canvas.Draw, buffer)}
}

// Send queues a batch of drawing operations. The slice is taken over by
// the target; the caller must not reuse it.
func (t *DrawingTarget) Send(ops ...canvas.Draw) error {
	if len(ops) == 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.ch <- ops
	return nil
}

// Receive is the read end: one element per Send call, in send order. The
// channel is closed when the target is.
func (t *DrawingTarget) Receive() <-chan []canvas.Draw {
	return t.ch
}

// Close closes the target. Queued batches remain readable; later Sends
// fail with ErrClosed.
func (t *DrawingTarget) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	close(t.ch)
}
