package tui

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"shotframe/internal/batch"
	"shotframe/internal/export"
)

// startExport marks the model busy and returns the command that runs op.
// While busy, every further export trigger and edit is refused here,
// before the session sees it. Exports also wait for a pending image load,
// whose result could not be added to a busy session.
func (m *model) startExport(op export.Op) tea.Cmd {
	if m.busy {
		m.setError(export.ErrBusy)
		return nil
	}
	if m.loading {
		m.setError(errStillLoading)
		return nil
	}
	if m.session.Len() == 0 {
		m.setError(export.ErrNoImage)
		return nil
	}
	m.busy = true
	m.busyOp = op
	m.progress = export.Progress{}
	m.errorMessage = ""
	m.successMessage = ""
	m.logger.Info("export requested", "op", op.String(), "index", m.session.ActiveIndex())

	s, ctx := m.session, m.ctx
	switch op {
	case export.OpBatch:
		ch := make(chan export.Progress, batch.Capacity)
		run := func() tea.Msg {
			res, err := s.ExportAll(ctx, func(p export.Progress) { ch <- p })
			close(ch)
			return exportDoneMsg{op: op, result: res, err: err}
		}
		return tea.Batch(run, waitForProgress(ch))
	case export.OpClipboard:
		return func() tea.Msg {
			res, err := s.Copy(ctx)
			return exportDoneMsg{op: op, result: res, err: err}
		}
	default:
		return func() tea.Msg {
			res, err := s.Export(ctx)
			return exportDoneMsg{op: op, result: res, err: err}
		}
	}
}

var errStillLoading = errors.New("images are still loading")

func waitForProgress(ch <-chan export.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{progress: p, ch: ch}
	}
}

func (m *model) handleProgress(msg progressMsg) tea.Cmd {
	if m.busy && m.busyOp == export.OpBatch {
		m.progress = msg.progress
	}
	return waitForProgress(msg.ch)
}

func (m *model) handleExportDone(msg exportDoneMsg) {
	m.busy = false
	m.progress = export.Progress{}
	if msg.err != nil {
		m.logger.Error("export failed", "op", msg.op.String(), "error", msg.err)
		if errors.Is(msg.err, export.ErrClipboardUnsupported) {
			m.setError(fmt.Errorf("clipboard unavailable: install wl-copy or xclip"))
			return
		}
		m.setError(fmt.Errorf("%s failed: %w", msg.op, msg.err))
		return
	}

	res := msg.result
	switch msg.op {
	case export.OpClipboard:
		m.setSuccess(fmt.Sprintf("Copied %dx%d image to clipboard", res.Width, res.Height))
	case export.OpBatch:
		m.setSuccess(fmt.Sprintf("Exported %d image(s) to %s", len(res.Locations), m.displayDir(res.Locations)))
	default:
		if len(res.Locations) > 0 {
			m.setSuccess(fmt.Sprintf("Saved %s (%dx%d)", res.Locations[0], res.Width, res.Height))
		}
	}
}

func (m *model) displayDir(locations []string) string {
	if len(locations) > 0 {
		return filepath.Dir(locations[0])
	}
	return m.outputDir
}
