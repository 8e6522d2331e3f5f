// Package frame holds the configuration model that describes how a
// screenshot is framed: frame style, theme, background and sizing.
package frame

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Config is always fully populated. It is replaced as a whole on every
// edit; use Apply to derive the next value.
type Config struct {
	Style               Style
	Theme               Theme
	Gradient            string
	BackgroundColor     string
	UseCustomBackground bool
	Padding             int
	CornerRadius        int
	ImageScale          int
	StorePreset         StorePreset
}

// Patch is a partial change-set. Nil fields keep the current value.
type Patch struct {
	Style               *Style
	Theme               *Theme
	Gradient            *string
	BackgroundColor     *string
	UseCustomBackground *bool
	Padding             *int
	CornerRadius        *int
	ImageScale          *int
	StorePreset         *StorePreset
}

func Default() Config {
	return Config{
		Style:               StyleMacOS,
		Theme:               ThemeLight,
		Gradient:            Gradients[0].Name,
		BackgroundColor:     "#1e293b",
		UseCustomBackground: false,
		Padding:             32,
		CornerRadius:        12,
		ImageScale:          100,
		StorePreset:         PresetFree,
	}
}

// Apply shallow-merges p onto c and returns the result. c is not modified.
// Range checks belong to the caller; see Clamp.
func (c Config) Apply(p Patch) Config {
	next := c
	if p.Style != nil {
		next.Style = *p.Style
	}
	if p.Theme != nil {
		next.Theme = *p.Theme
	}
	if p.Gradient != nil {
		next.Gradient = *p.Gradient
	}
	if p.BackgroundColor != nil {
		next.BackgroundColor = *p.BackgroundColor
	}
	if p.UseCustomBackground != nil {
		next.UseCustomBackground = *p.UseCustomBackground
	}
	if p.Padding != nil {
		next.Padding = *p.Padding
	}
	if p.CornerRadius != nil {
		next.CornerRadius = *p.CornerRadius
	}
	if p.ImageScale != nil {
		next.ImageScale = *p.ImageScale
	}
	if p.StorePreset != nil {
		next.StorePreset = *p.StorePreset
	}
	return next
}

// ExactSize returns the forced output size. Only phone frames honour
// store presets.
func (c Config) ExactSize() (width, height int, ok bool) {
	if c.Style != StylePhone || !c.StorePreset.Exact() {
		return 0, 0, false
	}
	return c.StorePreset.Width, c.StorePreset.Height, true
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampPadding(v int) int      { return Clamp(v, MinPadding, MaxPadding) }
func ClampCornerRadius(v int) int { return Clamp(v, MinCornerRadius, MaxCornerRadius) }
func ClampImageScale(v int) int   { return Clamp(v, MinImageScale, MaxImageScale) }

// ParseHexColor accepts #rgb and #rrggbb.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Ptr is a small helper for building patches.
func Ptr[T any](v T) *T { return &v }
