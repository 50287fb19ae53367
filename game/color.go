package game

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a straight-alpha RGBA colour with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB builds an opaque colour.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA builds a colour with alpha.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ParseHex reads "rrggbb" or "rrggbbaa", with or without a leading '#'.
func ParseHex(code string) (Color, error) {
	code = strings.TrimPrefix(code, "#")
	if len(code) != 6 && len(code) != 8 {
		return Color{}, fmt.Errorf("color: %q is not rrggbb or rrggbbaa", code)
	}
	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color: %q: %w", code, err)
	}
	if len(code) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(code string) Color {
	c, err := ParseHex(code)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// NRGBA converts c to an 8-bit non-premultiplied colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A),
	}
}

// Hex formats c as "rrggbb", or "rrggbbaa" when it is not opaque.
func (c Color) Hex() string {
	n := c.NRGBA()
	if n.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", n.R, n.G, n.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
