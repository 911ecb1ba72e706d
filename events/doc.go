// Package events carries traffic between a windowing layer and a canvas.
//
// Events flow in from the window (resizes, redraw requests, pointer and
// keyboard input) and are republished to subscribers, with pointer
// locations translated into canvas coordinates when the window transform
// is known. Drawing operations flow the other way through a DrawingTarget,
// a closable FIFO channel of operation batches.
//
// The windowing layer itself is out of scope: this package defines the
// event vocabulary and the channels, not the event loop.
package events
