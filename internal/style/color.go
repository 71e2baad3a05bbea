package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

const (
	// DefaultLightColor is used for the light theme when a payload omits a color.
	DefaultLightColor = "#FFFFFFFF"
	// DefaultDarkColor is used for the dark theme when a payload omits a color.
	DefaultDarkColor = "#000000FF"
	// Transparent is the literal keyword accepted in place of a hex color.
	Transparent = "transparent"
)

// Appearance is the host's active theme mode.
type Appearance int

const (
	AppearanceLight Appearance = iota
	AppearanceDark
)

func (a Appearance) String() string {
	if a == AppearanceDark {
		return "dark"
	}
	return "light"
}

// ParseAppearance decodes "light" or "dark" (case-insensitive).
func ParseAppearance(raw string) (Appearance, error) {
	switch fold(raw) {
	case "light":
		return AppearanceLight, nil
	case "dark":
		return AppearanceDark, nil
	default:
		return AppearanceLight, fmt.Errorf("unknown appearance %q", raw)
	}
}

// ThemeColors holds one color per appearance.
type ThemeColors struct {
	Light string
	Dark  string
}

// DefaultThemeColors returns the pair used when a payload omits a color.
func DefaultThemeColors() ThemeColors {
	return ThemeColors{Light: DefaultLightColor, Dark: DefaultDarkColor}
}

// UniformColor uses the same color for both appearances.
func UniformColor(value string) ThemeColors {
	return ThemeColors{Light: value, Dark: value}
}

// Resolve returns the raw color for the given appearance.
func (c ThemeColors) Resolve(appearance Appearance) string {
	if appearance == AppearanceDark {
		return c.Dark
	}
	return c.Light
}

// RGBA resolves and decodes the color; unparsable values become transparent.
func (c ThemeColors) RGBA(appearance Appearance) color.NRGBA {
	return ColorOrTransparent(c.Resolve(appearance))
}

// ParseColor decodes #RGB, #RRGGBB and #RRGGBBAA colors. Alpha comes last, as on the wire.
func ParseColor(raw string) (color.NRGBA, error) {
	value := strings.TrimSpace(raw)
	if value == "" || fold(value) == Transparent {
		return color.NRGBA{}, nil
	}
	if !strings.HasPrefix(value, "#") {
		return color.NRGBA{}, fmt.Errorf("color %q must start with #", raw)
	}

	hex := value[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("color %q has an invalid length", raw)
	}

	packed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", raw, err)
	}

	return color.NRGBA{
		R: uint8(packed >> 24),
		G: uint8(packed >> 16),
		B: uint8(packed >> 8),
		A: uint8(packed),
	}, nil
}

// ColorOrTransparent is ParseColor without the error.
func ColorOrTransparent(raw string) color.NRGBA {
	c, err := ParseColor(raw)
	if err != nil {
		return color.NRGBA{}
	}
	return c
}

// Hex formats an opaque color as #RRGGBB, the form terminal renderers expect.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
