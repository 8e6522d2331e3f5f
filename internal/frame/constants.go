package frame

import (
	"fmt"
	"strings"
)

type Style int

const (
	StyleMacOS Style = iota
	StyleWindows
	StyleMinimal
	StyleBrowser
	StylePhone
	StyleTablet
)

// Styles lists every frame style in the order the TUI cycles through them.
var Styles = []Style{StyleMacOS, StyleWindows, StyleMinimal, StyleBrowser, StylePhone, StyleTablet}

var styleNames = map[Style]string{
	StyleMacOS:   "macos",
	StyleWindows: "windows",
	StyleMinimal: "minimal",
	StyleBrowser: "browser",
	StylePhone:   "phone",
	StyleTablet:  "tablet",
}

var styleLabels = map[Style]string{
	StyleMacOS:   "macOS",
	StyleWindows: "Windows",
	StyleMinimal: "Minimal",
	StyleBrowser: "Browser",
	StylePhone:   "Phone",
	StyleTablet:  "Tablet",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// Label is the human readable name shown in the TUI.
func (s Style) Label() string {
	if label, ok := styleLabels[s]; ok {
		return label
	}
	return s.String()
}

func ParseStyle(value string) (Style, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for style, name := range styleNames {
		if v == name {
			return style, nil
		}
	}
	return StyleMacOS, fmt.Errorf("unknown frame style %q", value)
}

type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return fmt.Sprintf("theme(%d)", int(t))
	}
}

func ParseTheme(value string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("unknown theme %q", value)
	}
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

const (
	MinPadding      = 8
	MaxPadding      = 64
	MinCornerRadius = 0
	MaxCornerRadius = 32
	MinImageScale   = 50
	MaxImageScale   = 100
)
