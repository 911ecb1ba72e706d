package text

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/go-text/typesetting/font"

	"github.com/gogpu/canvas"
)

// DefaultFontSize is the em size a font renders at before a FontSize
// operation changes it.
const DefaultFontSize float32 = 12

// Face is a parsed font ready for shaping. The underlying font tables are
// read-only, so a Face can be shared between goroutines; the lightweight
// per-call glyph caches live in the shaper instead.
type Face struct {
	font *font.Font
}

// ParseFace parses TTF or OTF data into a Face.
func ParseFace(data []byte) (*Face, error) {
	parsed, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Face{font: parsed.Font}, nil
}

// faceKey addresses a font the way the canvas does: by ID within a
// namespace.
type faceKey struct {
	namespace canvas.NamespaceId
	font      canvas.FontId
}

// FaceRegistry resolves canvas font IDs to parsed faces and their current
// em sizes. It implements the resource rules of the canvas: IDs are scoped
// to a namespace, redefining an ID replaces the face, and data that fails
// to parse leaves the ID undefined so text using it is silently dropped.
//
// FaceRegistry is safe for concurrent use.
type FaceRegistry struct {
	mu    sync.RWMutex
	faces map[faceKey]*Face
	sizes map[faceKey]float32
}

// NewFaceRegistry creates an empty registry.
func NewFaceRegistry() *FaceRegistry {
	return &FaceRegistry{
		faces: make(map[faceKey]*Face),
		sizes: make(map[faceKey]float32),
	}
}

// Define parses font data and binds it to an ID. A parse failure unbinds
// the ID.
func (r *FaceRegistry) Define(ns canvas.NamespaceId, id canvas.FontId, data []byte) {
	key := faceKey{ns, id}
	face, err := ParseFace(data)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		canvas.Logger().Debug("font data failed to parse",
			slog.String("component", "text"),
			slog.Uint64("font", uint64(id)),
			slog.String("error", err.Error()))
		delete(r.faces, key)
		delete(r.sizes, key)
		return
	}
	r.faces[key] = face
	r.sizes[key] = DefaultFontSize
}

// SetSize records the em size later text operations on this font use.
// Sizing an undefined font is remembered in case the font arrives later.
func (r *FaceRegistry) SetSize(ns canvas.NamespaceId, id canvas.FontId, size float32) {
	r.mu.Lock()
	r.sizes[faceKey{ns, id}] = size
	r.mu.Unlock()
}

// Lookup returns the face and em size bound to an ID. ok is false when the
// font was never defined (or failed to parse).
func (r *FaceRegistry) Lookup(ns canvas.NamespaceId, id canvas.FontId) (face *Face, size float32, ok bool) {
	key := faceKey{ns, id}
	r.mu.RLock()
	defer r.mu.RUnlock()
	face, ok = r.faces[key]
	if !ok {
		return nil, 0, false
	}
	size, sized := r.sizes[key]
	if !sized {
		size = DefaultFontSize
	}
	return face, size, true
}

// Clear empties the registry, as a ClearCanvas does.
func (r *FaceRegistry) Clear() {
	r.mu.Lock()
	r.faces = make(map[faceKey]*Face)
	r.sizes = make(map[faceKey]float32)
	r.mu.Unlock()
}
