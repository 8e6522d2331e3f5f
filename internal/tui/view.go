package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shotframe/internal/batch"
	"shotframe/internal/export"
	"shotframe/internal/frame"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	activeStyle   = lipgloss.NewStyle().Reverse(true).Bold(true)
	thumbStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	inputStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("212")).Padding(0, 1)
	previewBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
)

var helpLines = []string{
	"shotframe help",
	"==============",
	"",
	"Batch:",
	"------",
	"  ←/h  →/l         Previous / next image (stops at the ends)",
	"  o                Add images by path (comma or space separated)",
	"  x                Remove the active image",
	"",
	"Export:",
	"-------",
	"  e                Export the active image as PNG",
	"  a                Export every image in order",
	"  c                Copy the active image to the clipboard",
	"",
	"Frame:",
	"------",
	"  f                Next frame style",
	"  t                Toggle light / dark frame",
	"  g                Next gradient",
	"  b                Toggle custom background colour",
	"  #                Enter a background colour",
	"  + / -            Padding",
	"  ] / [            Corner radius",
	"  . / ,            Image scale",
	"  p                Next store size (Phone frames)",
	"",
	"General:",
	"--------",
	"  Ctrl+Z / u       Undo last frame change",
	"  ?                Toggle this help screen",
	"  q / Ctrl+C       Quit",
	"",
	"Text fields:",
	"------------",
	"  Enter            Confirm",
	"  Esc              Cancel",
	"  Ctrl+V           Paste",
	"  Ctrl+U           Clear",
}

func (m model) visibleHeight() int {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}

	sidebar := panelStyle.Render(m.configView())
	content := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.batchView()),
		m.previewView(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", content)

	var b strings.Builder
	b.WriteString(titleStyle.Render("shotframe"))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.mode != ModeNormal {
		b.WriteString(m.inputView())
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func (m model) configView() string {
	cfg := m.session.Config()
	background := "gradient " + cfg.Gradient
	if cfg.UseCustomBackground {
		background = "colour " + cfg.BackgroundColor
	}
	preset := cfg.StorePreset.Label
	if cfg.StorePreset.Exact() {
		preset = fmt.Sprintf("%s %dx%d", preset, cfg.StorePreset.Width, cfg.StorePreset.Height)
		if cfg.Style != frame.StylePhone {
			preset += dimStyle.Render(" (phone only)")
		}
	}
	lines := []string{
		titleStyle.Render("Frame"),
		row("Style", cfg.Style.Label()),
		row("Theme", cfg.Theme.String()),
		row("Background", background),
		row("Padding", fmt.Sprintf("%dpx", cfg.Padding)),
		row("Radius", fmt.Sprintf("%dpx", cfg.CornerRadius)),
		row("Scale", fmt.Sprintf("%d%%", cfg.ImageScale)),
		row("Store size", preset),
		"",
		dimStyle.Render(fmt.Sprintf("undo: %d", m.session.UndoDepth())),
	}
	return strings.Join(lines, "\n")
}

func (m model) batchView() string {
	images := m.session.Images()
	header := titleStyle.Render(fmt.Sprintf("Batch %d/%d", len(images), batch.Capacity))
	if len(images) == 0 {
		return header + "\n" + dimStyle.Render("No images. Press o to add some.")
	}
	active := m.session.ActiveIndex()
	cells := make([]string, len(images))
	for i, img := range images {
		label := fmt.Sprintf(" %d %s ", i+1, truncate(img.Name, 14))
		if i == active {
			cells[i] = activeStyle.Render(label)
		} else {
			cells[i] = thumbStyle.Render(label)
		}
	}
	return header + "\n" + strings.Join(cells, " ")
}

// previewView draws an outline with the aspect ratio of the output image.
func (m model) previewView() string {
	tree, cfg, err := m.session.Snapshot()
	if err != nil {
		return ""
	}
	target := export.Target(cfg)
	w, h := target.Size(tree)

	maxW, maxH := 40, 12
	if m.width > 0 {
		maxW = max(16, min(60, m.width-50))
	}
	boxW := maxW
	boxH := int(float64(boxW) * float64(h) / float64(w) / 2)
	if boxH > maxH {
		boxH = maxH
		boxW = int(float64(boxH) * 2 * float64(w) / float64(h))
	}
	boxW, boxH = max(boxW, 8), max(boxH, 2)

	img, _ := m.session.Active()
	caption := fmt.Sprintf("%s\n%s %s\n%dx%d px", truncate(img.Name, boxW-2), cfg.Style.Label(), cfg.Theme.String(), w, h)
	box := previewBorder.
		BorderForeground(lipgloss.Color(previewColour(cfg))).
		Width(boxW).
		Height(boxH).
		Align(lipgloss.Center, lipgloss.Center).
		Render(caption)
	return box
}

func previewColour(cfg frame.Config) string {
	if cfg.UseCustomBackground {
		return cfg.BackgroundColor
	}
	g, err := frame.LookupGradient(cfg.Gradient)
	if err != nil {
		return "212"
	}
	return g.Stops[0]
}

func (m model) inputView() string {
	prompt := "Add images: "
	if m.mode == ModeColorInput {
		prompt = "Background colour: "
	}
	return inputStyle.Render(prompt + m.input + "█")
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModePathInput:
		return "PATHS"
	case ModeColorInput:
		return "COLOUR"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	status := fmt.Sprintf("Mode: %s", m.modeString())
	if n := m.session.Len(); n > 0 {
		status += fmt.Sprintf(" | Image %d/%d", m.session.ActiveIndex()+1, n)
	}
	if m.busy {
		if m.busyOp == export.OpBatch && m.progress.Total > 0 {
			status += fmt.Sprintf(" | Exporting %d/%d", m.progress.Index+1, m.progress.Total)
		} else {
			status += " | Working..."
		}
	}
	if m.successMessage != "" {
		status += " | " + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" && !m.busy {
		status += dimStyle.Render(" | ? for help | q to quit")
	}
	return status
}

func (m model) helpView() string {
	visibleHeight := m.visibleHeight()
	start := m.helpScroll
	end := start + visibleHeight
	if start >= len(helpLines) {
		start = max(0, len(helpLines)-visibleHeight)
		end = start + visibleHeight
	}
	if end > len(helpLines) {
		end = len(helpLines)
	}

	result := strings.Join(helpLines[start:end], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines))
	return result
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
