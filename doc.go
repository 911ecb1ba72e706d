// Package canvas defines the drawing operations for a 2D vector canvas.
//
// A drawing is a declarative sequence of Draw operations: path
// construction, fill and stroke settings, transforms, clipping, layers,
// sprites, textures, gradients and text. A []Draw works both as a live
// protocol between a drawing source and a renderer, and as a retained
// scene description that can be replayed.
//
// The coordinate system puts (0, 0) at the centre of the viewport with y
// increasing upwards; the square from -1 to 1 fills the window. The
// CanvasHeight and CenterRegion operations set up more convenient
// coordinate spaces on top of this.
//
// Subpackages build on the operation types:
//
//   - wire serialises operations to a compact text encoding and back.
//   - curves supplies bezier arithmetic and path combining.
//   - render replays operations into layered state and generates GPU
//     instruction streams.
//   - raster plans scanline rendering for software rasterisation.
//   - text lays out strings into positioned glyphs.
//   - events carries drawing updates and user input between components.
package canvas
