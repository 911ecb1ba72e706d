package canvas

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Resource identifiers are assigned by the caller and scoped to the current
// namespace, so two independent drawing sources can share a canvas without
// coordinating IDs.

// LayerId identifies a layer. Layers render in ascending ID order.
type LayerId uint64

// SpriteId identifies a sprite.
type SpriteId uint64

// FontId identifies a font declared by a Font operation.
type FontId uint64

// TextureId identifies a texture declared by a Texture operation.
type TextureId uint64

// GradientId identifies a gradient declared by a Gradient operation.
type GradientId uint64

// GlyphId identifies a glyph within a font.
type GlyphId uint32

// NamespaceId scopes resource identifiers. Each namespace has independent
// layers, sprites, textures, gradients and fonts.
type NamespaceId struct {
	Id uuid.UUID
}

// GlobalNamespace is the namespace every drawing starts in.
var GlobalNamespace = NamespaceId{}

// NewNamespaceId creates a namespace distinct from all others.
func NewNamespaceId() NamespaceId {
	return NamespaceId{Id: uuid.New()}
}

// NamespaceFromU64Pair reassembles a namespace from the two halves of its
// UUID, most significant first.
func NamespaceFromU64Pair(hi, lo uint64) NamespaceId {
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[0:8], hi)
	binary.BigEndian.PutUint64(id[8:16], lo)
	return NamespaceId{Id: id}
}

// U64Pair splits the namespace UUID into two halves, most significant
// first.
func (n NamespaceId) U64Pair() (hi, lo uint64) {
	return binary.BigEndian.Uint64(n.Id[0:8]), binary.BigEndian.Uint64(n.Id[8:16])
}
