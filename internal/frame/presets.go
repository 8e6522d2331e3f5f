package frame

import (
	"fmt"
	"strings"
)

// StorePreset is a named exact output size required by an app storefront.
// The zero value is the free preset, which keeps natural sizing.
type StorePreset struct {
	ID     string
	Label  string
	Width  int
	Height int
}

// PresetFree leaves the output size to the on-screen layout.
var PresetFree = StorePreset{ID: "free", Label: "Free size"}

var StorePresets = []StorePreset{
	{ID: "appstore-69", Label: "App Store 6.9\"", Width: 1320, Height: 2868},
	{ID: "appstore-67", Label: "App Store 6.7\"", Width: 1290, Height: 2796},
	{ID: "appstore-65", Label: "App Store 6.5\"", Width: 1242, Height: 2688},
	{ID: "appstore-55", Label: "App Store 5.5\"", Width: 1242, Height: 2208},
	{ID: "playstore-phone", Label: "Play Store phone", Width: 1080, Height: 1920},
	{ID: "playstore-phone-hd", Label: "Play Store phone HD", Width: 1440, Height: 2560},
}

// Exact reports whether the preset forces an exact canvas size.
func (p StorePreset) Exact() bool {
	return p.Width > 0 && p.Height > 0
}

func (p StorePreset) String() string {
	if p.ID == "" {
		return PresetFree.ID
	}
	return p.ID
}

func LookupPreset(id string) (StorePreset, error) {
	v := strings.ToLower(strings.TrimSpace(id))
	if v == "" || v == PresetFree.ID {
		return PresetFree, nil
	}
	for _, p := range StorePresets {
		if p.ID == v {
			return p, nil
		}
	}
	return PresetFree, fmt.Errorf("unknown store preset %q", id)
}

// NextPreset cycles free -> each store preset -> free.
func NextPreset(current StorePreset) StorePreset {
	if !current.Exact() {
		return StorePresets[0]
	}
	for i, p := range StorePresets {
		if p.ID == current.ID {
			if i+1 < len(StorePresets) {
				return StorePresets[i+1]
			}
			return PresetFree
		}
	}
	return PresetFree
}
