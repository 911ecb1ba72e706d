package canvas

// BlendMode controls how new drawing composites onto what is already on a
// layer, or how a whole layer composites onto the layers beneath it.
type BlendMode uint8

const (
	// BlendSourceOver draws on top with alpha blending. The default.
	BlendSourceOver BlendMode = iota
	// BlendSourceIn keeps the source where the destination is opaque.
	BlendSourceIn
	// BlendSourceOut keeps the source where the destination is transparent.
	BlendSourceOut
	// BlendDestinationOver draws underneath the existing content.
	BlendDestinationOver
	// BlendDestinationIn keeps the destination where the source is opaque.
	BlendDestinationIn
	// BlendDestinationOut keeps the destination where the source is transparent.
	BlendDestinationOut
	// BlendSourceAtop draws the source only where the destination is opaque.
	BlendSourceAtop
	// BlendDestinationAtop keeps the destination where the source is opaque,
	// drawing the source elsewhere.
	BlendDestinationAtop
	// BlendMultiply multiplies source and destination components.
	BlendMultiply
	// BlendScreen inverts, multiplies and inverts again, lightening.
	BlendScreen
	// BlendDarken keeps the darker of source and destination.
	BlendDarken
	// BlendLighten keeps the lighter of source and destination.
	BlendLighten
)

var blendModeNames = [...]string{
	"SourceOver",
	"SourceIn",
	"SourceOut",
	"DestinationOver",
	"DestinationIn",
	"DestinationOut",
	"SourceAtop",
	"DestinationAtop",
	"Multiply",
	"Screen",
	"Darken",
	"Lighten",
}

// String implements fmt.Stringer.
func (m BlendMode) String() string {
	if int(m) < len(blendModeNames) {
		return blendModeNames[m]
	}
	return "Unknown"
}
