// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns canvas drawing instructions into render plans: flat
// sequences of GPU-shaped actions a backend can execute without knowing
// anything about layers, sprites or paths.
//
// # How it fits together
//
// A CanvasRenderer accepts canvas.Draw instructions through Draw and keeps
// the drawing as retained per-layer entity logs. Paths are tessellated
// into triangle lists on a worker pool as they are submitted. Plan waits
// for outstanding tessellation and emits a RenderStream: buffer uploads,
// texture setup, then the draws that rebuild the frame, ending with the
// actions that put it on screen.
//
//	renderer := render.NewCanvasRenderer(render.WithDevice(handle))
//	defer renderer.Close()
//
//	renderer.SetViewport(1920, 1080)
//	renderer.Draw(ops...)
//
//	stream := renderer.Plan()
//	for action, ok := stream.Next(); ok; action, ok = stream.Next() {
//	    backend.Execute(action)
//	}
//
// Layers draw in ascending order. A layer with transparency or a blend
// mode renders through an intermediate target and composites back as one
// unit. Between StartFrame and ShowFrame, plans carry resource work only,
// so a half-updated drawing never reaches the screen.
//
// # Devices
//
// The renderer never creates a GPU device. The host application passes
// its own through WithDevice, and the backend executing the plan uses it
// to allocate what the actions describe; DescribeRenderTarget and
// DescribeTexture translate the plan's resource types into texture
// descriptors.
//
// # Thread safety
//
// Draw and Plan lock internally and may be called from different
// goroutines, but plans are meant for a single consumer: generate a
// stream, execute it, then plan again.
package render
