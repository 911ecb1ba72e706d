// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/canvas"
)

func newTestRenderer(t *testing.T) *CanvasRenderer {
	t.Helper()
	r := NewCanvasRenderer()
	t.Cleanup(r.Close)
	return r
}

// triangleFill draws a filled triangle with the current fill settings.
func triangleFill() []canvas.Draw {
	return []canvas.Draw{
		canvas.NewPath{},
		canvas.Move{X: 0, Y: 0},
		canvas.Line{X: 0.5, Y: 0},
		canvas.Line{X: 0, Y: 0.5},
		canvas.Fill{},
	}
}

func globalLayer(t *testing.T, r *CanvasRenderer, id canvas.LayerId) *canvasLayer {
	t.Helper()
	h, ok := r.core.layerIds[layerKey{namespace: canvas.GlobalNamespace, layer: id}]
	if !ok {
		t.Fatalf("layer %d not defined", id)
	}
	return r.core.layers[h]
}

func globalSprite(t *testing.T, r *CanvasRenderer, id canvas.SpriteId) *canvasLayer {
	t.Helper()
	h, ok := r.core.spriteIds[spriteKey{namespace: canvas.GlobalNamespace, sprite: id}]
	if !ok {
		t.Fatalf("sprite %d not defined", id)
	}
	return r.core.layers[h]
}

func TestDrawFillAppendsEntities(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	if len(l.renderOrder) != 2 {
		t.Fatalf("renderOrder has %d entities, want 2: %#v", len(l.renderOrder), l.renderOrder)
	}
	if _, ok := l.renderOrder[0].(entitySetFlatColor); !ok {
		t.Errorf("renderOrder[0] = %T, want entitySetFlatColor", l.renderOrder[0])
	}
	vb, ok := l.renderOrder[1].(entityVertexBuffer)
	if !ok {
		t.Fatalf("renderOrder[1] = %T, want entityVertexBuffer", l.renderOrder[1])
	}
	if vb.intent != intentDraw {
		t.Errorf("vertex buffer intent = %v, want intentDraw", vb.intent)
	}
	if len(vb.vertices) == 0 || len(vb.indices) == 0 {
		t.Errorf("tessellation produced %d vertices, %d indices", len(vb.vertices), len(vb.indices))
	}
}

func TestDrawFillPaintDeduped(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.Draw(canvas.Fill{}) // same path, same paint
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	if len(l.renderOrder) != 3 {
		t.Fatalf("renderOrder has %d entities, want 3 (one paint, two buffers)", len(l.renderOrder))
	}
	flats := 0
	for _, e := range l.renderOrder {
		if _, ok := e.(entitySetFlatColor); ok {
			flats++
		}
	}
	if flats != 1 {
		t.Errorf("flat color entities = %d, want 1", flats)
	}
}

func TestDrawBlendEntity(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.Draw(canvas.SetBlendMode{Mode: canvas.BlendMultiply}, canvas.Fill{})
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	if len(l.renderOrder) != 4 {
		t.Fatalf("renderOrder has %d entities, want 4", len(l.renderOrder))
	}
	blend, ok := l.renderOrder[2].(entitySetBlendMode)
	if !ok {
		t.Fatalf("renderOrder[2] = %T, want entitySetBlendMode", l.renderOrder[2])
	}
	if blend.mode != BlendModeMultiply {
		t.Errorf("blend mode = %v, want BlendModeMultiply", blend.mode)
	}

	// Drawing again with the same mode appends no second blend entity.
	r.Draw(canvas.Fill{})
	r.pending.Wait()
	if len(l.renderOrder) != 5 {
		t.Errorf("renderOrder has %d entities after repeat fill, want 5", len(l.renderOrder))
	}
}

func TestDrawStrokeDashEntity(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(
		canvas.StrokeColor{Color: canvas.Color{R: 1, G: 1, B: 1, A: 1}},
		canvas.LineWidth{Width: 0.1},
		canvas.NewDashPattern{},
		canvas.DashLength{Length: 1},
		canvas.DashLength{Length: 1},
		canvas.NewPath{},
		canvas.Move{X: 0, Y: 0},
		canvas.Line{X: 1, Y: 0},
		canvas.Stroke{},
		canvas.Stroke{},
	)
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	dashes := 0
	for _, e := range l.renderOrder {
		if _, ok := e.(entitySetDashPattern); ok {
			dashes++
		}
	}
	if dashes != 1 {
		t.Errorf("dash pattern entities = %d, want 1 for repeated identical strokes", dashes)
	}

	// A fill after a dashed stroke switches the paint back.
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}}, canvas.Fill{})
	r.pending.Wait()
	last := l.renderOrder[len(l.renderOrder)-2]
	if _, ok := last.(entitySetFlatColor); !ok {
		t.Errorf("entity before fill buffer = %T, want entitySetFlatColor", last)
	}
}

func TestPopStateKeepsLayerTransform(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(
		canvas.PushState{},
		canvas.MultiplyTransform{Transform: canvas.Translate(3, 4)},
		canvas.PopState{},
	)
	want := canvas.Translate(3, 4)
	if r.transform != want {
		t.Errorf("transform after pop = %v, want %v (layers keep transform changes)", r.transform, want)
	}
}

func TestPopStateRestoresSpriteTransform(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(
		canvas.Sprite{Id: 1},
		canvas.PushState{},
		canvas.MultiplyTransform{Transform: canvas.Translate(3, 4)},
		canvas.PopState{},
	)
	if !r.transform.IsIdentity() {
		t.Errorf("transform after pop inside sprite = %v, want identity", r.transform)
	}
}

func TestStoreRestore(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.pending.Wait()

	r.Draw(canvas.Store{})
	r.Draw(canvas.Fill{})
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	if len(l.renderOrder) != 3 {
		t.Fatalf("renderOrder has %d entities before restore, want 3", len(l.renderOrder))
	}

	r.Draw(canvas.Restore{})
	if len(l.renderOrder) != 2 {
		t.Fatalf("renderOrder has %d entities after restore, want 2", len(l.renderOrder))
	}

	// Paint markers were invalidated, so the next fill re-establishes its
	// paint entity.
	r.Draw(canvas.Fill{})
	r.pending.Wait()
	if len(l.renderOrder) != 4 {
		t.Fatalf("renderOrder has %d entities after post-restore fill, want 4", len(l.renderOrder))
	}
	if _, ok := l.renderOrder[2].(entitySetFlatColor); !ok {
		t.Errorf("renderOrder[2] = %T, want entitySetFlatColor", l.renderOrder[2])
	}
}

func TestRestoreWithoutStore(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	before := len(l.renderOrder)
	r.Draw(canvas.Restore{})
	if len(l.renderOrder) != before {
		t.Errorf("restore without store changed entity count: %d -> %d", before, len(l.renderOrder))
	}
}

func TestSwapLayers(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.Draw(canvas.Layer{Id: 1})
	r.Draw(triangleFill()...)
	r.Draw(canvas.Fill{})
	r.pending.Wait()

	if n := len(globalLayer(t, r, 0).renderOrder); n != 2 {
		t.Fatalf("layer 0 has %d entities before swap, want 2", n)
	}
	if n := len(globalLayer(t, r, 1).renderOrder); n != 3 {
		t.Fatalf("layer 1 has %d entities before swap, want 3", n)
	}

	r.Draw(canvas.SwapLayers{Layer1: 0, Layer2: 1})

	if n := len(globalLayer(t, r, 0).renderOrder); n != 3 {
		t.Errorf("layer 0 has %d entities after swap, want 3", n)
	}
	if n := len(globalLayer(t, r, 1).renderOrder); n != 2 {
		t.Errorf("layer 1 has %d entities after swap, want 2", n)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	r := newTestRenderer(t)
	ns := canvas.NewNamespaceId()

	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.Draw(canvas.Namespace{Id: ns}, canvas.Layer{Id: 0})
	r.Draw(canvas.FillColor{Color: canvas.Color{G: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.pending.Wait()

	if len(r.core.layerIds) != 2 {
		t.Fatalf("layerIds has %d entries, want 2", len(r.core.layerIds))
	}
	g := r.core.layerIds[layerKey{namespace: canvas.GlobalNamespace, layer: 0}]
	n := r.core.layerIds[layerKey{namespace: ns, layer: 0}]
	if g == n {
		t.Fatalf("global and namespaced layer 0 share handle %d", g)
	}
	if len(r.core.layers[g].renderOrder) != 2 || len(r.core.layers[n].renderOrder) != 2 {
		t.Errorf("layer logs = %d and %d entities, want 2 and 2",
			len(r.core.layers[g].renderOrder), len(r.core.layers[n].renderOrder))
	}
}

func TestClearCanvas(t *testing.T) {
	r := newTestRenderer(t)
	ns := canvas.NewNamespaceId()
	r.Draw(canvas.Layer{Id: 2})
	r.Draw(triangleFill()...)
	r.Draw(canvas.Sprite{Id: 9})
	r.Draw(canvas.Namespace{Id: ns})
	r.Draw(canvas.MultiplyTransform{Transform: canvas.Scale(2, 2)})
	r.pending.Wait()

	bg := canvas.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}
	r.Draw(canvas.ClearCanvas{Color: bg})

	if r.core.background != bg {
		t.Errorf("background = %v, want %v", r.core.background, bg)
	}
	if len(r.core.layerIds) != 1 {
		t.Errorf("layerIds has %d entries after clear, want 1", len(r.core.layerIds))
	}
	if len(r.core.spriteIds) != 0 {
		t.Errorf("spriteIds has %d entries after clear, want 0", len(r.core.spriteIds))
	}
	if _, ok := r.core.layerIds[layerKey{namespace: canvas.GlobalNamespace, layer: 0}]; !ok {
		t.Errorf("global layer 0 missing after clear")
	}
	if r.namespace != canvas.GlobalNamespace {
		t.Errorf("namespace not reset to global after clear")
	}
	if !r.transform.IsIdentity() {
		t.Errorf("transform = %v after clear, want identity", r.transform)
	}
}

func TestLayerAlphaClamped(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.LayerAlpha{Id: 0, Alpha: 2.5})
	if a := globalLayer(t, r, 0).alpha; a != 1 {
		t.Errorf("alpha = %v after LayerAlpha 2.5, want 1", a)
	}
	r.Draw(canvas.LayerAlpha{Id: 0, Alpha: -0.5})
	if a := globalLayer(t, r, 0).alpha; a != 0 {
		t.Errorf("alpha = %v after LayerAlpha -0.5, want 0", a)
	}
}

func TestLineWidthPixels(t *testing.T) {
	r := newTestRenderer(t)
	r.SetViewport(1000, 1000)

	r.Draw(canvas.LineWidthPixels{Width: 5})
	l := globalLayer(t, r, 0)
	if w := l.state.stroke.width; !closeTo(w, 0.01) {
		t.Errorf("stroke width = %v for 5px at 1000px viewport, want 0.01", w)
	}

	r.Draw(canvas.LineWidth{Width: 2})
	if w := l.state.stroke.width; w != 2 {
		t.Errorf("stroke width = %v after LineWidth 2, want 2", w)
	}
}

func TestCanvasHeightTransform(t *testing.T) {
	tests := []struct {
		height float32
		want   canvas.Transform2D
	}{
		{2, canvas.Scale(1, 1)},
		{4, canvas.Scale(0.5, 0.5)},
		{-2, canvas.Scale(1, -1)},
		{0, canvas.Scale(2, 2)},
	}
	for _, tt := range tests {
		if got := canvasHeightTransform(tt.height); got != tt.want {
			t.Errorf("canvasHeightTransform(%v) = %v, want %v", tt.height, got, tt.want)
		}
	}

	r := newTestRenderer(t)
	r.Draw(canvas.CanvasHeight{Height: 4})
	if r.transform != canvas.Scale(0.5, 0.5) {
		t.Errorf("transform = %v after CanvasHeight 4, want Scale(0.5, 0.5)", r.transform)
	}
}

func TestBlendModeFor(t *testing.T) {
	tests := []struct {
		mode canvas.BlendMode
		want BlendMode
	}{
		{canvas.BlendSourceOver, BlendModeSourceOver},
		{canvas.BlendSourceIn, BlendModeSourceIn},
		{canvas.BlendSourceOut, BlendModeSourceOut},
		{canvas.BlendDestinationOver, BlendModeDestinationOver},
		{canvas.BlendDestinationIn, BlendModeDestinationIn},
		{canvas.BlendDestinationOut, BlendModeDestinationOut},
		{canvas.BlendSourceAtop, BlendModeSourceAtop},
		{canvas.BlendDestinationAtop, BlendModeDestinationAtop},
		{canvas.BlendMultiply, BlendModeMultiply},
		{canvas.BlendScreen, BlendModeScreen},
		{canvas.BlendDarken, BlendModeSourceOver},
		{canvas.BlendLighten, BlendModeSourceOver},
	}
	for _, tt := range tests {
		if got := blendModeFor(tt.mode); got != tt.want {
			t.Errorf("blendModeFor(%v) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestMoveSpriteFrom(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.Sprite{Id: 1})
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.pending.Wait()

	// Moving a sprite onto itself is a no-op.
	r.Draw(canvas.MoveSpriteFrom{Id: 1})
	if n := len(globalSprite(t, r, 1).renderOrder); n != 2 {
		t.Fatalf("sprite 1 has %d entities after self-move, want 2", n)
	}

	r.Draw(canvas.Sprite{Id: 2}, canvas.MoveSpriteFrom{Id: 1})
	if n := len(globalSprite(t, r, 2).renderOrder); n != 2 {
		t.Errorf("sprite 2 has %d entities after move, want 2", n)
	}
	if n := len(globalSprite(t, r, 1).renderOrder); n != 0 {
		t.Errorf("sprite 1 has %d entities after move, want 0", n)
	}
}

func TestSpriteTransformEntity(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.Sprite{Id: 1})
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.Draw(
		canvas.Layer{Id: 0},
		canvas.SpriteTransform{Transform: canvas.SpriteTranslate{X: 2, Y: 3}},
		canvas.DrawSprite{Id: 1},
	)
	r.pending.Wait()

	l := globalLayer(t, r, 0)
	if len(l.renderOrder) == 0 {
		t.Fatal("layer 0 has no entities after DrawSprite")
	}
	ref, ok := l.renderOrder[len(l.renderOrder)-1].(entityRenderSprite)
	if !ok {
		t.Fatalf("last entity = %T, want entityRenderSprite", l.renderOrder[len(l.renderOrder)-1])
	}
	if ref.sprite != 1 {
		t.Errorf("sprite reference id = %d, want 1", ref.sprite)
	}
	if want := canvas.Translate(2, 3); ref.transform != want {
		t.Errorf("sprite reference transform = %v, want %v", ref.transform, want)
	}
}

func TestSpriteSelfReference(t *testing.T) {
	r := newTestRenderer(t)
	r.SetViewport(100, 100)
	r.Draw(canvas.Sprite{Id: 1})
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.Draw(canvas.DrawSprite{Id: 1}) // sprite drawing itself
	r.Draw(canvas.Layer{Id: 0}, canvas.DrawSprite{Id: 1})

	draws := 0
	shows := 0
	for _, a := range r.Plan().Rest() {
		switch a.(type) {
		case DrawIndexedTriangles:
			draws++
		case ShowFrameBuffer:
			shows++
		}
	}
	if draws != 1 {
		t.Errorf("self-referencing sprite produced %d draws, want 1", draws)
	}
	if shows != 1 {
		t.Errorf("plan produced %d ShowFrameBuffer actions, want 1", shows)
	}
}

func TestClearLayerKeepsTransform(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.MultiplyTransform{Transform: canvas.Scale(2, 2)})
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}})
	r.Draw(triangleFill()...)
	r.pending.Wait()

	r.Draw(canvas.ClearLayer{})
	l := globalLayer(t, r, 0)
	if len(l.renderOrder) != 1 {
		t.Fatalf("renderOrder has %d entities after clear, want 1 (transform)", len(l.renderOrder))
	}
	tr, ok := l.renderOrder[0].(entitySetTransform)
	if !ok {
		t.Fatalf("renderOrder[0] = %T, want entitySetTransform", l.renderOrder[0])
	}
	if want := canvas.Scale(2, 2); tr.transform != want {
		t.Errorf("re-established transform = %v, want %v", tr.transform, want)
	}
}

func TestFillOnEmptyPath(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(canvas.FillColor{Color: canvas.Color{R: 1, A: 1}}, canvas.Fill{})
	r.pending.Wait()
	if n := len(globalLayer(t, r, 0).renderOrder); n != 0 {
		t.Errorf("fill on empty path appended %d entities, want 0", n)
	}
}

func TestStrokeZeroWidth(t *testing.T) {
	r := newTestRenderer(t)
	r.Draw(
		canvas.LineWidth{Width: 0},
		canvas.NewPath{},
		canvas.Move{X: 0, Y: 0},
		canvas.Line{X: 1, Y: 0},
		canvas.Stroke{},
	)
	r.pending.Wait()
	if n := len(globalLayer(t, r, 0).renderOrder); n != 0 {
		t.Errorf("zero-width stroke appended %d entities, want 0", n)
	}
}
