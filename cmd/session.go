package cmd

import (
	"fmt"
	"log/slog"

	"shotframe/internal/export"
	"shotframe/internal/raster"
	"shotframe/internal/session"
)

// newSession wires the rasteriser, output directory and optionally the
// system clipboard into a session seeded from the config defaults.
func newSession(l *slog.Logger, withClipboard bool) (*session.Session, error) {
	defaults, err := cfg.FrameDefaults()
	if err != nil {
		return nil, err
	}
	r, err := raster.New()
	if err != nil {
		return nil, fmt.Errorf("rasteriser: %w", err)
	}
	opts := export.Options{
		Prefix: cfg.Output.Prefix,
		Timing: cfg.Timing(),
		Logger: l,
	}
	if withClipboard {
		opts.Clipboard = export.NewSystemClipboard()
	}
	p := export.New(r, export.DirSink{Dir: cfg.Output.Dir}, opts)
	return session.New(defaults, p, l), nil
}
