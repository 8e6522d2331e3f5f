// Package tui is the interactive terminal front end: it turns key presses
// into configuration edits, batch navigation and export runs on a session.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"shotframe/internal/batch"
	"shotframe/internal/export"
	"shotframe/internal/session"
	"shotframe/internal/upload"
)

// Loader reads and validates image files named by the user.
type Loader func(ctx context.Context, paths []string) ([]batch.Image, error)

type Options struct {
	Session *session.Session
	Loader  Loader
	// Paste reads clipboard text into a text-entry field.
	Paste     func() (string, error)
	OutputDir string
	Logger    *slog.Logger
}

type model struct {
	ctx            context.Context
	width          int
	height         int
	session        *session.Session
	loader         Loader
	paste          func() (string, error)
	outputDir      string
	logger         *slog.Logger
	mode           Mode
	help           bool
	helpScroll     int
	input          string
	busy           bool
	busyOp         export.Op
	progress       export.Progress
	loading        bool
	errorMessage   string
	successMessage string
}

type imagesLoadedMsg struct {
	images []batch.Image
	err    error
}

type exportDoneMsg struct {
	op     export.Op
	result export.Result
	err    error
}

type progressMsg struct {
	progress export.Progress
	ch       <-chan export.Progress
}

func newModel(ctx context.Context, opts Options) model {
	if opts.Loader == nil {
		opts.Loader = upload.LoadPaths
	}
	if opts.Paste == nil {
		opts.Paste = clipboard.ReadAll
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return model{
		ctx:       ctx,
		session:   opts.Session,
		loader:    opts.Loader,
		paste:     opts.Paste,
		outputDir: opts.OutputDir,
		logger:    opts.Logger,
	}
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		newModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// splitPaths accepts paths separated by commas, whitespace or newlines, as
// typed or pasted into the path field. A leading ~ expands to the home
// directory.
func splitPaths(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	home, _ := os.UserHomeDir()
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'`)
		if f == "" {
			continue
		}
		if home != "" && (f == "~" || strings.HasPrefix(f, "~/")) {
			f = filepath.Join(home, strings.TrimPrefix(f, "~"))
		}
		paths = append(paths, f)
	}
	return paths
}
