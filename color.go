package canvas

import "image/color"

// Color is an RGBA colour with components in the range [0, 1]. Components
// are not premultiplied by alpha.
type Color struct {
	R, G, B, A float32
}

// Rgba creates a colour from RGBA components.
func Rgba(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// WithAlpha returns the colour with its alpha component replaced.
func (c Color) WithAlpha(alpha float32) Color {
	c.A = alpha
	return c
}

// RGBA8 returns the colour quantised to 8 bits per component.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return quantise(c.R), quantise(c.G), quantise(c.B), quantise(c.A)
}

// Color converts to the standard color.Color interface, without
// premultiplying.
func (c Color) Color() color.Color {
	r, g, b, a := c.RGBA8()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Mix linearly interpolates between two colours. t=0 returns c, t=1
// returns other.
func (c Color) Mix(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func quantise(v float32) uint8 {
	q := v * 255
	if q <= 0 {
		return 0
	}
	if q >= 255 {
		return 255
	}
	return uint8(q + 0.5)
}
