package tui

import tea "github.com/charmbracelet/bubbletea"

var shortcuts = map[string]Action{
	"left":   ActionPrev,
	"h":      ActionPrev,
	"right":  ActionNext,
	"l":      ActionNext,
	"e":      ActionExport,
	"E":      ActionExport,
	"a":      ActionExportAll,
	"c":      ActionCopy,
	"ctrl+z": ActionUndo,
	"u":      ActionUndo,
	"f":      ActionCycleStyle,
	"t":      ActionToggleTheme,
	"g":      ActionCycleGradient,
	"b":      ActionToggleCustomBackground,
	"#":      ActionEditColor,
	"+":      ActionPaddingUp,
	"=":      ActionPaddingUp,
	"-":      ActionPaddingDown,
	"]":      ActionRadiusUp,
	"[":      ActionRadiusDown,
	".":      ActionScaleUp,
	",":      ActionScaleDown,
	"p":      ActionCyclePreset,
	"o":      ActionAddImages,
	"x":      ActionRemoveImage,
	"?":      ActionHelp,
	"q":      ActionQuit,
	"ctrl+c": ActionQuit,
}

// resolveShortcut maps a key to an action. Keys with other modifiers,
// such as alt+e, resolve to ActionNone.
func resolveShortcut(msg tea.KeyMsg) Action {
	return shortcuts[msg.String()]
}

func (m *model) handleNavigation(delta int) {
	if m.session.Len() == 0 {
		return
	}
	idx, err := m.session.Navigate(delta)
	if err != nil {
		m.setError(err)
		return
	}
	m.logger.Debug("navigate", "delta", delta, "index", idx)
}
