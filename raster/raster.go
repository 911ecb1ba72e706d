// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster plans scanlines from a retained description of shape
// boundaries.
//
// Scenes are described as an EdgePlan: a set of shapes, each with a
// ShapeDescriptor saying how it is painted and one or more EdgeDescriptors
// tracing its boundary. Edges report where horizontal scanlines cross them,
// and the planner sweeps those crossings left to right to produce a
// ScanlinePlan per line: ordered, non-overlapping spans, each carrying the
// stack of pixel programs that paints it.
//
// The ShardScanPlanner anti-aliases by sweeping each crossing between the
// scanlines half a pixel above and below the line being planned. The
// parallelogram-shaped sliver this produces (a shard) becomes a linear
// alpha ramp over the pixels it spans, so edges fade in and out instead of
// cutting hard pixel boundaries.
//
// Planning one scanline only reads the EdgePlan, so disjoint ranges of
// scanlines can be planned from separate goroutines once Prepare has been
// called.
package raster
