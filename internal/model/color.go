package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a color token is not part of the palette.
var ErrInvalidColor = errors.New("invalid color")

// Hue is a palette family name.
type Hue string

const (
	HueTransparent Hue = "transparent"
	HueBlack       Hue = "black"
	HueWhite       Hue = "white"
	HueSlate       Hue = "slate"
	HueGray        Hue = "gray"
	HueZinc        Hue = "zinc"
	HueNeutral     Hue = "neutral"
	HueStone       Hue = "stone"
	HueRed         Hue = "red"
	HueOrange      Hue = "orange"
	HueAmber       Hue = "amber"
	HueYellow      Hue = "yellow"
	HueLime        Hue = "lime"
	HueGreen       Hue = "green"
	HueEmerald     Hue = "emerald"
	HueTeal        Hue = "teal"
	HueCyan        Hue = "cyan"
	HueSky         Hue = "sky"
	HueBlue        Hue = "blue"
	HueIndigo      Hue = "indigo"
	HueViolet      Hue = "violet"
	HuePurple      Hue = "purple"
	HueFuchsia     Hue = "fuchsia"
	HuePink        Hue = "pink"
	HueRose        Hue = "rose"
)

var shades = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 950}

// palette holds the Tailwind CSS value of every shade, indexed like shades.
var palette = map[Hue][11]string{
	HueSlate:   {"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"},
	HueGray:    {"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"},
	HueZinc:    {"#fafafa", "#f4f4f5", "#e4e4e7", "#d4d4d8", "#a1a1aa", "#71717a", "#52525b", "#3f3f46", "#27272a", "#18181b", "#09090b"},
	HueNeutral: {"#fafafa", "#f5f5f5", "#e5e5e5", "#d4d4d4", "#a3a3a3", "#737373", "#525252", "#404040", "#262626", "#171717", "#0a0a0a"},
	HueStone:   {"#fafaf9", "#f5f5f4", "#e7e5e4", "#d6d3d1", "#a8a29e", "#78716c", "#57534e", "#44403c", "#292524", "#1c1917", "#0c0a09"},
	HueRed:     {"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"},
	HueOrange:  {"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"},
	HueAmber:   {"#fffbeb", "#fef3c7", "#fde68a", "#fcd34d", "#fbbf24", "#f59e0b", "#d97706", "#b45309", "#92400e", "#78350f", "#451a03"},
	HueYellow:  {"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"},
	HueLime:    {"#f7fee7", "#ecfccb", "#d9f99d", "#bef264", "#a3e635", "#84cc16", "#65a30d", "#4d7c0f", "#3f6212", "#365314", "#1a2e05"},
	HueGreen:   {"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"},
	HueEmerald: {"#ecfdf5", "#d1fae5", "#a7f3d0", "#6ee7b7", "#34d399", "#10b981", "#059669", "#047857", "#065f46", "#064e3b", "#022c22"},
	HueTeal:    {"#f0fdfa", "#ccfbf1", "#99f6e4", "#5eead4", "#2dd4bf", "#14b8a6", "#0d9488", "#0f766e", "#115e59", "#134e4a", "#042f2e"},
	HueCyan:    {"#ecfeff", "#cffafe", "#a5f3fc", "#67e8f9", "#22d3ee", "#06b6d4", "#0891b2", "#0e7490", "#155e75", "#164e63", "#083344"},
	HueSky:     {"#f0f9ff", "#e0f2fe", "#bae6fd", "#7dd3fc", "#38bdf8", "#0ea5e9", "#0284c7", "#0369a1", "#075985", "#0c4a6e", "#082f49"},
	HueBlue:    {"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"},
	HueIndigo:  {"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"},
	HueViolet:  {"#f5f3ff", "#ede9fe", "#ddd6fe", "#c4b5fd", "#a78bfa", "#8b5cf6", "#7c3aed", "#6d28d9", "#5b21b6", "#4c1d95", "#2e1065"},
	HuePurple:  {"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87", "#3b0764"},
	HueFuchsia: {"#fdf4ff", "#fae8ff", "#f5d0fe", "#f0abfc", "#e879f9", "#d946ef", "#c026d3", "#a21caf", "#86198f", "#701a75", "#4a044e"},
	HuePink:    {"#fdf2f8", "#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#db2777", "#be185d", "#9d174d", "#831843", "#500724"},
	HueRose:    {"#fff1f2", "#ffe4e6", "#fecdd3", "#fda4af", "#fb7185", "#f43f5e", "#e11d48", "#be123c", "#9f1239", "#881337", "#4c0519"},
}

// Color is a palette token: a hue plus a shade. Black, white and transparent
// carry no shade.
// The zero value is not a valid color; use DefaultColor when none is given.
type Color struct {
	Hue   Hue
	Shade int
}

// DefaultColor is used for events that do not specify a color.
var DefaultColor = Color{Hue: HueBlue, Shade: 500}

// ParseColor parses "green-500", "bg-green-500", "black", "white" or
// "transparent".
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "bg-")

	if c := (Color{Hue: Hue(v)}); c.bare() {
		return c, nil
	}

	name, shadeStr, ok := strings.Cut(v, "-")
	if !ok {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	shade, err := strconv.Atoi(shadeStr)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c := Color{Hue: Hue(name), Shade: shade}
	if !c.Valid() {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// MustColor is ParseColor for package-level fixtures.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) bare() bool {
	return c.Hue == HueBlack || c.Hue == HueWhite || c.Hue == HueTransparent
}

func (c Color) Valid() bool {
	if c.bare() {
		return c.Shade == 0
	}
	_, ok := c.shadeIndex()
	return ok
}

func (c Color) shadeIndex() (int, bool) {
	if _, ok := palette[c.Hue]; !ok {
		return 0, false
	}
	for i, s := range shades {
		if s == c.Shade {
			return i, true
		}
	}
	return 0, false
}

func (c Color) String() string {
	if c.Shade == 0 {
		return string(c.Hue)
	}
	return string(c.Hue) + "-" + strconv.Itoa(c.Shade)
}

// Hex returns the "#rrggbb" value of the token. Transparent has no RGB
// value and reports white, the paper color of opaque surfaces.
func (c Color) Hex() string {
	switch c.Hue {
	case HueBlack:
		return "#000000"
	case HueWhite, HueTransparent:
		return "#ffffff"
	}
	i, ok := c.shadeIndex()
	if !ok {
		return "#000000"
	}
	return palette[c.Hue][i]
}

// CSS returns the value to use in a CSS color property.
func (c Color) CSS() string {
	if c.Hue == HueTransparent {
		return "transparent"
	}
	return c.Hex()
}

// Dark reports whether text on top of this color should be light.
func (c Color) Dark() bool {
	switch c.Hue {
	case HueBlack:
		return true
	case HueWhite, HueTransparent:
		return false
	}
	return c.Shade >= 500
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, c.String())
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
