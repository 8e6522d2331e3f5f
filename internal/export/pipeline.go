// Package export captures the current visual tree and delivers it as a
// file, a numbered series of files, or a clipboard image.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shotframe/internal/frame"
	"shotframe/internal/raster"
	"shotframe/internal/render"
)

// PixelRatio is the fixed supersampling factor for natural-size output.
const PixelRatio = 2

const (
	// SettleDelay is waited after selecting an image in a batch export and
	// before capturing it, so the view has re-rendered the new image. A
	// capture taken earlier would bake the previous screenshot into the
	// output.
	SettleDelay = 200 * time.Millisecond

	// DownloadGap separates consecutive deliveries of a batch so that
	// downstream consumers do not drop or merge them.
	DownloadGap = 350 * time.Millisecond
)

var (
	ErrBusy    = errors.New("an export is already running")
	ErrNoImage = errors.New("no image to export")
)

// Source is the session state the pipeline reads. Select changes the
// shown image on behalf of a batch export.
type Source interface {
	Len() int
	ActiveIndex() int
	Select(i int) bool
	Snapshot() (render.Tree, frame.Config, error)
}

type Capturer interface {
	Capture(ctx context.Context, tree render.Tree, target raster.Target) ([]byte, error)
}

// Sink delivers a finished file and reports where it went.
type Sink interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

type Clipboard interface {
	WriteImage(ctx context.Context, png []byte) error
}

type Timing struct {
	Settle time.Duration
	Gap    time.Duration
}

func DefaultTiming() Timing {
	return Timing{Settle: SettleDelay, Gap: DownloadGap}
}

type Op int

const (
	OpSingle Op = iota
	OpBatch
	OpClipboard
)

func (o Op) String() string {
	switch o {
	case OpSingle:
		return "export"
	case OpBatch:
		return "export-all"
	case OpClipboard:
		return "clipboard"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

type State int

const (
	StateIdle State = iota
	StateCapturing
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Progress is reported after each delivered batch item.
type Progress struct {
	Index    int
	Total    int
	Location string
}

type Result struct {
	Op        Op
	Locations []string
	Width     int
	Height    int
}

type Options struct {
	Prefix    string
	Timing    Timing
	Clipboard Clipboard
	Logger    *slog.Logger
}

// Pipeline runs at most one export operation at a time.
type Pipeline struct {
	capturer  Capturer
	sink      Sink
	clipboard Clipboard
	prefix    string
	timing    Timing
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state State
	last  State
	op    Op
}

func New(capturer Capturer, sink Sink, opts Options) *Pipeline {
	if opts.Prefix == "" {
		opts.Prefix = "shotframe"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		capturer:  capturer,
		sink:      sink,
		clipboard: opts.Clipboard,
		prefix:    opts.Prefix,
		timing:    opts.Timing,
		logger:    opts.Logger,
		sleep:     sleepCtx,
	}
}

// Filename names the output for a 1-based batch position.
func (p *Pipeline) Filename(position int) string {
	return Filename(p.prefix, position)
}

func Filename(prefix string, position int) string {
	return fmt.Sprintf("%s-%d.png", prefix, position)
}

// Busy reports whether an operation is in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateCapturing
}

// Running returns the operation in flight, if any.
func (p *Pipeline) Running() (Op, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.op, p.state == StateCapturing
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LastOutcome is StateSucceeded or StateFailed for the most recent
// finished operation, StateIdle before the first one.
func (p *Pipeline) LastOutcome() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Pipeline) begin(op Op) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateCapturing {
		return ErrBusy
	}
	p.state = StateCapturing
	p.op = op
	return nil
}

// finish records the terminal state and returns the pipeline to idle.
func (p *Pipeline) finish(op Op, err error) {
	terminal := StateSucceeded
	if err != nil {
		terminal = StateFailed
		p.logger.Error("export failed", "op", op.String(), "error", err)
	} else {
		p.logger.Info("export finished", "op", op.String())
	}
	p.mu.Lock()
	p.last = terminal
	p.state = StateIdle
	p.mu.Unlock()
}

// Target picks exact store dimensions for phone frames with a preset, and
// the fixed pixel ratio otherwise.
func Target(cfg frame.Config) raster.Target {
	if w, h, ok := cfg.ExactSize(); ok {
		return raster.Exact(w, h)
	}
	return raster.Ratio(PixelRatio)
}

// Single captures the visual tree as it is when called and saves it under
// the active image's position.
func (p *Pipeline) Single(ctx context.Context, src Source) (res Result, err error) {
	if err := p.begin(OpSingle); err != nil {
		return Result{}, err
	}
	defer func() { p.finish(OpSingle, err) }()

	index := src.ActiveIndex()
	tree, cfg, err := src.Snapshot()
	if err != nil {
		return Result{}, noImage(err)
	}
	loc, target, err := p.captureAndSave(ctx, tree, cfg, index)
	if err != nil {
		return Result{}, err
	}
	w, h := target.Size(tree)
	return Result{Op: OpSingle, Locations: []string{loc}, Width: w, Height: h}, nil
}

// All exports every image in order and restores the active index after,
// whether or not it succeeded. If the batch shrinks underneath it the
// remaining items are skipped without error.
func (p *Pipeline) All(ctx context.Context, src Source, progress func(Progress)) (res Result, err error) {
	if err := p.begin(OpBatch); err != nil {
		return Result{}, err
	}
	defer func() { p.finish(OpBatch, err) }()

	saved := src.ActiveIndex()
	defer src.Select(saved)

	total := src.Len()
	if total == 0 {
		return Result{}, ErrNoImage
	}
	res = Result{Op: OpBatch}
	for i := 0; i < total; i++ {
		if i >= src.Len() || !src.Select(i) {
			p.logger.Warn("batch changed during export, stopping", "index", i)
			break
		}
		if err := p.sleep(ctx, p.timing.Settle); err != nil {
			return res, err
		}
		tree, cfg, err := src.Snapshot()
		if err != nil {
			p.logger.Warn("nothing to capture, stopping", "index", i, "error", err)
			break
		}
		loc, target, err := p.captureAndSave(ctx, tree, cfg, i)
		if err != nil {
			return res, err
		}
		res.Locations = append(res.Locations, loc)
		res.Width, res.Height = target.Size(tree)
		if progress != nil {
			progress(Progress{Index: i, Total: total, Location: loc})
		}
		if i < total-1 {
			if err := p.sleep(ctx, p.timing.Gap); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// Copy captures at the fixed pixel ratio and writes the PNG to the
// clipboard. Store presets are not applied.
func (p *Pipeline) Copy(ctx context.Context, src Source) (res Result, err error) {
	if err := p.begin(OpClipboard); err != nil {
		return Result{}, err
	}
	defer func() { p.finish(OpClipboard, err) }()

	if p.clipboard == nil {
		return Result{}, ErrClipboardUnsupported
	}
	tree, _, err := src.Snapshot()
	if err != nil {
		return Result{}, noImage(err)
	}
	target := raster.Ratio(PixelRatio)
	data, err := p.capturer.Capture(ctx, tree, target)
	if err != nil {
		return Result{}, fmt.Errorf("capture: %w", err)
	}
	if err := p.clipboard.WriteImage(ctx, data); err != nil {
		return Result{}, fmt.Errorf("clipboard: %w", err)
	}
	w, h := target.Size(tree)
	p.logger.Debug("copied to clipboard", "width", w, "height", h, "bytes", len(data))
	return Result{Op: OpClipboard, Width: w, Height: h}, nil
}

func (p *Pipeline) captureAndSave(ctx context.Context, tree render.Tree, cfg frame.Config, index int) (string, raster.Target, error) {
	target := Target(cfg)
	data, err := p.capturer.Capture(ctx, tree, target)
	if err != nil {
		return "", target, fmt.Errorf("capture: %w", err)
	}
	name := p.Filename(index + 1)
	loc, err := p.sink.Save(ctx, name, data)
	if err != nil {
		return "", target, fmt.Errorf("save %s: %w", name, err)
	}
	w, h := target.Size(tree)
	p.logger.Info("exported image", "index", index, "file", loc, "width", w, "height", h, "target", target.String())
	return loc, target, nil
}

func noImage(err error) error {
	if errors.Is(err, render.ErrNoImage) {
		return ErrNoImage
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
