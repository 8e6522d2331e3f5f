package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shotframe/internal/frame"
	"shotframe/internal/raster"
	"shotframe/internal/render"
)

// fakeSource identifies each image by the tree width: image i renders as
// a tree of width 100+i.
type fakeSource struct {
	mu       sync.Mutex
	n        int
	active   int
	cfg      frame.Config
	selected []int
	// onSelect runs after every Select, used to mutate the batch mid-export.
	onSelect func(s *fakeSource, i int)
}

func newFakeSource(n, active int) *fakeSource {
	return &fakeSource{n: n, active: active, cfg: frame.Default()}
}

func (s *fakeSource) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func (s *fakeSource) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == 0 {
		return -1
	}
	return s.active
}

func (s *fakeSource) Select(i int) bool {
	s.mu.Lock()
	if i < 0 || i >= s.n {
		s.mu.Unlock()
		return false
	}
	s.active = i
	s.selected = append(s.selected, i)
	hook := s.onSelect
	s.mu.Unlock()
	if hook != nil {
		hook(s, i)
	}
	return true
}

func (s *fakeSource) Snapshot() (render.Tree, frame.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n == 0 {
		return render.Tree{}, frame.Config{}, render.ErrNoImage
	}
	return render.Tree{Width: float64(100 + s.active), Height: 50}, s.cfg, nil
}

type captureCall struct {
	treeWidth float64
	target    raster.Target
}

type fakeCapturer struct {
	mu    sync.Mutex
	calls []captureCall
	err   error
	gate  chan struct{}
	enter chan struct{}
}

func (c *fakeCapturer) Capture(ctx context.Context, tree render.Tree, target raster.Target) ([]byte, error) {
	if c.enter != nil {
		c.enter <- struct{}{}
	}
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, captureCall{treeWidth: tree.Width, target: target})
	if c.err != nil {
		return nil, c.err
	}
	return []byte(fmt.Sprintf("png:%v", tree.Width)), nil
}

type fakeSink struct {
	mu    sync.Mutex
	names []string
	data  [][]byte
	err   error
}

func (s *fakeSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.names = append(s.names, name)
	s.data = append(s.data, data)
	return "/out/" + name, nil
}

type fakeClipboard struct {
	data []byte
	err  error
}

func (c *fakeClipboard) WriteImage(ctx context.Context, png []byte) error {
	if c.err != nil {
		return c.err
	}
	c.data = png
	return nil
}

func newTestPipeline(c Capturer, s Sink, clip Clipboard) *Pipeline {
	return New(c, s, Options{Prefix: "shot", Clipboard: clip})
}

func TestSingleUsesPixelRatio(t *testing.T) {
	capr, sink := &fakeCapturer{}, &fakeSink{}
	p := newTestPipeline(capr, sink, nil)
	src := newFakeSource(3, 2)

	res, err := p.Single(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, capr.calls, 1)
	assert.Equal(t, raster.Ratio(2), capr.calls[0].target)
	assert.Equal(t, []string{"shot-3.png"}, sink.names)
	assert.Equal(t, []string{"/out/shot-3.png"}, res.Locations)
	assert.Equal(t, 204, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.Equal(t, StateSucceeded, p.LastOutcome())
	assert.False(t, p.Busy())
}

func TestSingleExactPresetForPhone(t *testing.T) {
	preset, err := frame.LookupPreset("appstore-67")
	require.NoError(t, err)

	capr, sink := &fakeCapturer{}, &fakeSink{}
	p := newTestPipeline(capr, sink, nil)
	src := newFakeSource(1, 0)
	src.cfg = src.cfg.Apply(frame.Patch{Style: frame.Ptr(frame.StylePhone), StorePreset: &preset})

	res, err := p.Single(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, raster.Exact(1290, 2796), capr.calls[0].target)
	assert.Equal(t, 1290, res.Width)
	assert.Equal(t, 2796, res.Height)

	src.cfg = src.cfg.Apply(frame.Patch{StorePreset: &frame.PresetFree})
	_, err = p.Single(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, raster.Ratio(2), capr.calls[1].target)
}

func TestSingleWithoutImage(t *testing.T) {
	p := newTestPipeline(&fakeCapturer{}, &fakeSink{}, nil)
	_, err := p.Single(context.Background(), newFakeSource(0, 0))
	assert.ErrorIs(t, err, ErrNoImage)
	assert.False(t, p.Busy())
	assert.Equal(t, StateFailed, p.LastOutcome())
}

func TestCaptureFailureClearsBusy(t *testing.T) {
	capr := &fakeCapturer{err: errors.New("boom")}
	sink := &fakeSink{}
	p := newTestPipeline(capr, sink, nil)

	_, err := p.Single(context.Background(), newFakeSource(1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Empty(t, sink.names)
	assert.False(t, p.Busy())
	assert.Equal(t, StateIdle, p.State())

	capr.err = nil
	_, err = p.Single(context.Background(), newFakeSource(1, 0))
	assert.NoError(t, err, "a failed export can be retried")
}

func TestAllVisitsInOrderAndRestoresIndex(t *testing.T) {
	capr, sink := &fakeCapturer{}, &fakeSink{}
	p := newTestPipeline(capr, sink, nil)
	src := newFakeSource(3, 1)

	var progress []Progress
	res, err := p.All(context.Background(), src, func(pr Progress) { progress = append(progress, pr) })
	require.NoError(t, err)

	assert.Equal(t, []string{"shot-1.png", "shot-2.png", "shot-3.png"}, sink.names)
	assert.Equal(t, []string{"png:100", "png:101", "png:102"}, []string{string(sink.data[0]), string(sink.data[1]), string(sink.data[2])})
	assert.Equal(t, []int{0, 1, 2, 1}, src.selected)
	assert.Equal(t, 1, src.ActiveIndex())
	assert.Len(t, res.Locations, 3)
	require.Len(t, progress, 3)
	assert.Equal(t, 2, progress[2].Index)
	assert.Equal(t, 3, progress[2].Total)
}

func TestAllWaitsSettleAndGap(t *testing.T) {
	p := newTestPipeline(&fakeCapturer{}, &fakeSink{}, nil)
	p.timing = Timing{Settle: 200 * time.Millisecond, Gap: 350 * time.Millisecond}
	var waits []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, err := p.All(context.Background(), newFakeSource(3, 0), nil)
	require.NoError(t, err)

	settle, gap := 200*time.Millisecond, 350*time.Millisecond
	assert.Equal(t, []time.Duration{settle, gap, settle, gap, settle}, waits, "no gap after the last image")
}

func TestAllRestoresIndexOnFailure(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	p := newTestPipeline(&fakeCapturer{}, sink, nil)
	src := newFakeSource(3, 2)

	_, err := p.All(context.Background(), src, nil)
	require.Error(t, err)
	assert.Equal(t, 2, src.ActiveIndex())
	assert.False(t, p.Busy())
	assert.Equal(t, StateFailed, p.LastOutcome())
}

func TestAllStopsWhenBatchEmptied(t *testing.T) {
	capr, sink := &fakeCapturer{}, &fakeSink{}
	p := newTestPipeline(capr, sink, nil)
	src := newFakeSource(3, 0)
	src.onSelect = func(s *fakeSource, i int) {
		if i == 1 {
			s.mu.Lock()
			s.n = 0
			s.mu.Unlock()
		}
	}

	res, err := p.All(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"shot-1.png"}, sink.names)
	assert.Len(t, res.Locations, 1)
	assert.False(t, p.Busy())
}

func TestAllEmptyBatch(t *testing.T) {
	p := newTestPipeline(&fakeCapturer{}, &fakeSink{}, nil)
	_, err := p.All(context.Background(), newFakeSource(0, 0), nil)
	assert.ErrorIs(t, err, ErrNoImage)
	assert.False(t, p.Busy())
}

func TestCopyIgnoresPreset(t *testing.T) {
	preset, _ := frame.LookupPreset("appstore-67")
	capr, clip := &fakeCapturer{}, &fakeClipboard{}
	p := newTestPipeline(capr, &fakeSink{}, clip)
	src := newFakeSource(1, 0)
	src.cfg = src.cfg.Apply(frame.Patch{Style: frame.Ptr(frame.StylePhone), StorePreset: &preset})

	res, err := p.Copy(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, raster.Ratio(2), capr.calls[0].target)
	assert.Equal(t, []byte("png:100"), clip.data)
	assert.Equal(t, OpClipboard, res.Op)
}

func TestCopyErrors(t *testing.T) {
	p := newTestPipeline(&fakeCapturer{}, &fakeSink{}, nil)
	_, err := p.Copy(context.Background(), newFakeSource(1, 0))
	assert.ErrorIs(t, err, ErrClipboardUnsupported)

	clip := &fakeClipboard{err: errors.New("permission denied")}
	p = newTestPipeline(&fakeCapturer{}, &fakeSink{}, clip)
	_, err = p.Copy(context.Background(), newFakeSource(1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.False(t, p.Busy())
}

func TestSecondOperationRejectedWhileBusy(t *testing.T) {
	capr := &fakeCapturer{gate: make(chan struct{}), enter: make(chan struct{})}
	sink := &fakeSink{}
	p := newTestPipeline(capr, sink, &fakeClipboard{})
	src := newFakeSource(2, 0)

	done := make(chan error, 1)
	go func() {
		_, err := p.Single(context.Background(), src)
		done <- err
	}()
	<-capr.enter

	assert.True(t, p.Busy())
	op, running := p.Running()
	assert.True(t, running)
	assert.Equal(t, OpSingle, op)

	_, err := p.Single(context.Background(), src)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = p.All(context.Background(), src, nil)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = p.Copy(context.Background(), src)
	assert.ErrorIs(t, err, ErrBusy)

	close(capr.gate)
	require.NoError(t, <-done)
	assert.False(t, p.Busy())
	assert.Len(t, sink.names, 1)

	capr.enter = nil
	_, err = p.Single(context.Background(), src)
	assert.NoError(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "shotframe-3.png", Filename("shotframe", 3))
	assert.Equal(t, "shot-1.png", newTestPipeline(nil, nil, nil).Filename(1))
}
