// Package session owns the state of one framing session: the current
// configuration, the image batch and the undo history. Every mutation goes
// through the Session so that edits, navigation and exports stay ordered.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"shotframe/internal/batch"
	"shotframe/internal/export"
	"shotframe/internal/frame"
	"shotframe/internal/history"
	"shotframe/internal/render"
)

// ErrBusy is returned for user edits while an export is running. Exports
// read the live configuration and batch, so edits are held off until the
// export has finished.
var ErrBusy = errors.New("export in progress")

var ErrClosed = errors.New("session closed")

type Session struct {
	mu       sync.Mutex
	config   frame.Config
	images   *batch.Store
	undo     *history.Undo
	pipeline *export.Pipeline
	logger   *slog.Logger
	busy     bool
	closed   bool
	revision uint64
}

func New(defaults frame.Config, pipeline *export.Pipeline, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		config:   defaults,
		images:   batch.New(),
		undo:     history.New(),
		pipeline: pipeline,
		logger:   logger,
	}
}

// Close drops the batch and history. Later calls fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.images = batch.New()
	s.undo = history.New()
	s.touch()
}

// touch marks the visual state as changed. Callers hold s.mu.
func (s *Session) touch() {
	s.revision++
}

// Revision increases whenever anything that affects the visual tree changes.
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Session) Config() frame.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.undo.Len()
}

func (s *Session) guard() error {
	if s.closed {
		return ErrClosed
	}
	if s.busy {
		return ErrBusy
	}
	return nil
}

// Edit records the current configuration for undo and applies p. Patches
// that change nothing are not recorded.
func (s *Session) Edit(p frame.Patch) (frame.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.config, err
	}
	next := s.config.Apply(p)
	if next == s.config {
		return s.config, nil
	}
	s.undo.Record(s.config)
	s.config = next
	s.touch()
	s.logger.Debug("config edited", "style", next.Style.String(), "undo_depth", s.undo.Len())
	return next, nil
}

// Undo restores the configuration from before the last edit. changed is
// false when the history is empty.
func (s *Session) Undo() (cfg frame.Config, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.config, false, err
	}
	prev, ok := s.undo.Pop()
	if !ok {
		return s.config, false, nil
	}
	s.config = prev
	s.touch()
	return prev, true, nil
}

// AddImages appends to the batch and reports how many were accepted. Undo
// history is not touched.
func (s *Session) AddImages(images []batch.Image) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return 0, err
	}
	added := s.images.Add(images...)
	if added > 0 {
		s.touch()
	}
	if dropped := len(images) - added; dropped > 0 {
		s.logger.Warn("batch full, images dropped", "dropped", dropped, "capacity", batch.Capacity)
	}
	return added, nil
}

func (s *Session) RemoveActive() (batch.Image, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return batch.Image{}, false, err
	}
	img, ok := s.images.RemoveActive()
	if ok {
		s.touch()
	}
	return img, ok, nil
}

func (s *Session) Navigate(delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return s.images.ActiveIndex(), err
	}
	before := s.images.ActiveIndex()
	after := s.images.Navigate(delta)
	if after != before {
		s.touch()
	}
	return after, nil
}

func (s *Session) SetActiveIndex(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}
	if s.images.SetActiveIndex(i) {
		s.touch()
	}
	return nil
}

func (s *Session) Images() []batch.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images.Images()
}

func (s *Session) Active() (batch.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images.Active()
}

func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images.Remaining()
}

// Len, ActiveIndex, Select and Snapshot make the session an export.Source.

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images.Len()
}

func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images.ActiveIndex()
}

// Select moves the active index for a running export. It skips the busy
// guard that user navigation goes through.
func (s *Session) Select(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.images.SetActiveIndex(i) {
		return false
	}
	s.touch()
	return true
}

// Snapshot renders the visual tree for the active image and current
// configuration.
func (s *Session) Snapshot() (render.Tree, frame.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images.Active()
	if !ok {
		return render.Tree{}, s.config, render.ErrNoImage
	}
	tree, err := render.Build(img.Pixels, s.config)
	return tree, s.config, err
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		if errors.Is(err, ErrBusy) {
			return export.ErrBusy
		}
		return err
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Export saves the active image.
func (s *Session) Export(ctx context.Context) (export.Result, error) {
	if err := s.begin(); err != nil {
		return export.Result{}, err
	}
	defer s.end()
	return s.pipeline.Single(ctx, s)
}

// ExportAll saves every image in batch order.
func (s *Session) ExportAll(ctx context.Context, progress func(export.Progress)) (export.Result, error) {
	if err := s.begin(); err != nil {
		return export.Result{}, err
	}
	defer s.end()
	return s.pipeline.All(ctx, s, progress)
}

// Copy puts the active image on the clipboard.
func (s *Session) Copy(ctx context.Context) (export.Result, error) {
	if err := s.begin(); err != nil {
		return export.Result{}, err
	}
	defer s.end()
	return s.pipeline.Copy(ctx, s)
}
