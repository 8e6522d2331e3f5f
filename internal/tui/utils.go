package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

var errNoPaths = errors.New("enter at least one file path")

// handleTextInput owns every key while a text field has focus, so none of
// the normal-mode shortcuts fire.
func (m *model) handleTextInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.input = ""
		m.errorMessage = ""
		return nil
	case tea.KeyEnter:
		if m.mode == ModeColorInput {
			m.submitColor()
			return nil
		}
		return m.submitPaths()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		return nil
	case tea.KeyCtrlU:
		m.input = ""
		return nil
	case tea.KeyCtrlV:
		text, err := m.paste()
		if err != nil {
			m.setError(err)
			return nil
		}
		m.input += cleanPastedText(text)
		return nil
	case tea.KeySpace:
		m.input += " "
		return nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return nil
	}
	return nil
}

func (m *model) submitPaths() tea.Cmd {
	paths := splitPaths(m.input)
	if len(paths) == 0 {
		m.setError(errNoPaths)
		return nil
	}
	m.mode = ModeNormal
	m.input = ""
	m.loading = true
	m.successMessage = "Loading..."
	m.errorMessage = ""

	load, ctx := m.loader, m.ctx
	return func() tea.Msg {
		images, err := load(ctx, paths)
		return imagesLoadedMsg{images: images, err: err}
	}
}

// cleanPastedText turns copied file lists (one per line, possibly as
// file:// URLs) into a single line.
func cleanPastedText(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(strings.TrimSpace(line), "file://")
	}
	return strings.Join(lines, " ")
}
