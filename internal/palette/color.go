package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is an opaque RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// RGB builds a Color from components in [0, 1].
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Hex parses "#RGB" or "#RRGGBB" (the leading '#' is optional).
func Hex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

// MustHex is Hex for package-level constants; it panics on malformed input.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RGB255 returns the color quantized to 8 bits per channel.
func (c Color) RGB255() (r, g, b uint8) {
	return to8(c.R), to8(c.G), to8(c.B)
}

func (c Color) String() string { return c.Hex() }

// Lerp linearly interpolates each RGB channel from a (t=0) to b (t=1).
func Lerp(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// Distance is the euclidean distance between two colors in RGB space.
func Distance(a, b Color) float64 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// Named colors, matching the palette the scenes were designed against.
var (
	Black  = MustHex("#000000")
	White  = MustHex("#ffffff")
	Gray   = MustHex("#888888")
	Blue   = MustHex("#58c4dd")
	Red    = MustHex("#fc6255")
	Green  = MustHex("#83c167")
	Yellow = MustHex("#ffff00")
	Orange = MustHex("#ff862f")
	Purple = MustHex("#9a72ac")
	Teal   = MustHex("#5cd0b3")
	Pink   = MustHex("#d147bd")
)
