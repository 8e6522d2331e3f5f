package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"shotframe/internal/batch"
	"shotframe/internal/export"
	"shotframe/internal/session"
	"shotframe/internal/upload"
)

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case imagesLoadedMsg:
		m.handleImagesLoaded(msg)
		return m, nil

	case progressMsg:
		cmd := m.handleProgress(msg)
		return m, cmd

	case exportDoneMsg:
		m.handleExportDone(msg)
		return m, nil

	case tea.KeyMsg:
		if m.help {
			m.handleHelpKey(msg)
			return m, nil
		}
		var cmd tea.Cmd
		switch m.mode {
		case ModePathInput, ModeColorInput:
			cmd = m.handleTextInput(msg)
		default:
			cmd = m.handleShortcut(msg)
		}
		return m, cmd
	}
	return m, nil
}

// handleShortcut runs the action bound to msg. It is only reached when no
// text field has focus.
func (m *model) handleShortcut(msg tea.KeyMsg) tea.Cmd {
	action := resolveShortcut(msg)
	switch action {
	case ActionNone:
		return nil
	case ActionQuit:
		return tea.Quit
	case ActionHelp:
		m.help = true
		m.helpScroll = 0
		return nil
	}

	m.errorMessage = ""
	m.successMessage = ""
	if m.busy {
		m.setError(export.ErrBusy)
		return nil
	}

	switch action {
	case ActionPrev:
		m.handleNavigation(-1)
	case ActionNext:
		m.handleNavigation(1)
	case ActionExport:
		return m.startExport(export.OpSingle)
	case ActionExportAll:
		return m.startExport(export.OpBatch)
	case ActionCopy:
		return m.startExport(export.OpClipboard)
	case ActionUndo:
		m.undo()
	case ActionEditColor:
		m.mode = ModeColorInput
		m.input = m.session.Config().BackgroundColor
	case ActionAddImages:
		if m.session.Remaining() == 0 {
			m.setError(fmt.Errorf("batch is full (%d images)", batch.Capacity))
			return nil
		}
		m.mode = ModePathInput
		m.input = ""
	case ActionRemoveImage:
		img, ok, err := m.session.RemoveActive()
		if err != nil {
			m.setError(err)
		} else if ok {
			m.setSuccess("Removed " + img.Name)
		}
	default:
		m.handleConfigAction(action)
	}
	return nil
}

func (m *model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines) - m.visibleHeight()
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
}

func (m *model) handleImagesLoaded(msg imagesLoadedMsg) {
	m.loading = false
	var invalid *upload.ValidationError
	if msg.err != nil && !errors.As(msg.err, &invalid) {
		m.setError(msg.err)
		return
	}

	added := 0
	if len(msg.images) > 0 {
		n, err := m.session.AddImages(msg.images)
		if err != nil {
			m.setError(err)
			return
		}
		added = n
	}

	switch {
	case invalid != nil:
		m.setError(fmt.Errorf("added %d, skipped %s", added, invalid.Error()))
	case added < len(msg.images):
		m.setError(fmt.Errorf("batch full: added %d, dropped %d", added, len(msg.images)-added))
	default:
		m.setSuccess(fmt.Sprintf("Added %d image(s)", added))
	}
}

func (m *model) setError(err error) {
	m.successMessage = ""
	if errors.Is(err, session.ErrBusy) || errors.Is(err, export.ErrBusy) {
		m.errorMessage = "export in progress"
		return
	}
	m.errorMessage = err.Error()
}

func (m *model) setSuccess(msg string) {
	m.errorMessage = ""
	m.successMessage = msg
}
