package tui

import (
	"fmt"

	"shotframe/internal/frame"
)

// edit applies p through the session, which records the previous
// configuration for undo.
func (m *model) edit(p frame.Patch, describe func(frame.Config) string) {
	cfg, err := m.session.Edit(p)
	if err != nil {
		m.setError(err)
		return
	}
	m.setSuccess(describe(cfg))
}

func (m *model) undo() {
	cfg, changed, err := m.session.Undo()
	if err != nil {
		m.setError(err)
		return
	}
	if !changed {
		m.setSuccess("Nothing to undo")
		return
	}
	m.setSuccess(fmt.Sprintf("Undone (%d left)", m.session.UndoDepth()))
	m.logger.Debug("undo", "style", cfg.Style.String(), "undo_depth", m.session.UndoDepth())
}

func nextStyle(s frame.Style) frame.Style {
	for i, st := range frame.Styles {
		if st == s {
			return frame.Styles[(i+1)%len(frame.Styles)]
		}
	}
	return frame.Styles[0]
}

// handleConfigAction performs one configuration edit. Range clamps are
// applied here before the value reaches the model.
func (m *model) handleConfigAction(action Action) {
	cfg := m.session.Config()
	switch action {
	case ActionCycleStyle:
		m.edit(frame.Patch{Style: frame.Ptr(nextStyle(cfg.Style))}, func(c frame.Config) string {
			return "Frame: " + c.Style.Label()
		})
	case ActionToggleTheme:
		m.edit(frame.Patch{Theme: frame.Ptr(cfg.Theme.Toggle())}, func(c frame.Config) string {
			return "Theme: " + c.Theme.String()
		})
	case ActionCycleGradient:
		m.edit(frame.Patch{
			Gradient:            frame.Ptr(frame.NextGradient(cfg.Gradient)),
			UseCustomBackground: frame.Ptr(false),
		}, func(c frame.Config) string {
			return "Gradient: " + c.Gradient
		})
	case ActionToggleCustomBackground:
		m.edit(frame.Patch{UseCustomBackground: frame.Ptr(!cfg.UseCustomBackground)}, func(c frame.Config) string {
			if c.UseCustomBackground {
				return "Background: " + c.BackgroundColor
			}
			return "Background: " + c.Gradient
		})
	case ActionPaddingUp, ActionPaddingDown:
		step := paddingStep
		if action == ActionPaddingDown {
			step = -step
		}
		m.edit(frame.Patch{Padding: frame.Ptr(frame.ClampPadding(cfg.Padding + step))}, func(c frame.Config) string {
			return fmt.Sprintf("Padding: %dpx", c.Padding)
		})
	case ActionRadiusUp, ActionRadiusDown:
		step := radiusStep
		if action == ActionRadiusDown {
			step = -step
		}
		m.edit(frame.Patch{CornerRadius: frame.Ptr(frame.ClampCornerRadius(cfg.CornerRadius + step))}, func(c frame.Config) string {
			return fmt.Sprintf("Corner radius: %dpx", c.CornerRadius)
		})
	case ActionScaleUp, ActionScaleDown:
		step := scaleStep
		if action == ActionScaleDown {
			step = -step
		}
		m.edit(frame.Patch{ImageScale: frame.Ptr(frame.ClampImageScale(cfg.ImageScale + step))}, func(c frame.Config) string {
			return fmt.Sprintf("Image scale: %d%%", c.ImageScale)
		})
	case ActionCyclePreset:
		m.edit(frame.Patch{StorePreset: frame.Ptr(frame.NextPreset(cfg.StorePreset))}, func(c frame.Config) string {
			msg := "Store size: " + c.StorePreset.Label
			if c.Style != frame.StylePhone && c.StorePreset.Exact() {
				msg += " (applies to Phone frames)"
			}
			return msg
		})
	}
}

func (m *model) submitColor() {
	value := m.input
	if value != "" && value[0] != '#' {
		value = "#" + value
	}
	if _, err := frame.ParseHexColor(value); err != nil {
		m.setError(err)
		return
	}
	m.mode = ModeNormal
	m.input = ""
	m.edit(frame.Patch{
		BackgroundColor:     frame.Ptr(value),
		UseCustomBackground: frame.Ptr(true),
	}, func(c frame.Config) string {
		return "Background: " + c.BackgroundColor
	})
}
