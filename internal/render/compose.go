package render

import (
	"errors"
	"fmt"
	"image"

	"shotframe/internal/frame"
)

var ErrNoImage = errors.New("no image to render")

// Build composes the background, padding and scaled frame for img.
// The canvas is the frame plus padding on every side; ImageScale shrinks
// the frame inside that area and leaves the canvas size alone.
func Build(img image.Image, cfg frame.Config) (Tree, error) {
	if img == nil || img.Bounds().Empty() {
		return Tree{}, ErrNoImage
	}
	bg, err := Background(cfg)
	if err != nil {
		return Tree{}, err
	}

	f := Frame(cfg.Style, img, cfg.Theme, cfg.CornerRadius)
	pad := float64(cfg.Padding)
	width := f.W + 2*pad
	height := f.H + 2*pad

	scale := float64(cfg.ImageScale) / 100
	if scale <= 0 {
		scale = 1
	}
	content := group((width-f.W*scale)/2, (height-f.H*scale)/2, f.W, f.H, f)
	content.Scale = scale

	return Tree{
		Width:      width,
		Height:     height,
		Background: bg,
		Content:    content,
	}, nil
}

// Background resolves the gradient or custom colour selected in cfg.
func Background(cfg frame.Config) (Paint, error) {
	if cfg.UseCustomBackground {
		c, err := frame.ParseHexColor(cfg.BackgroundColor)
		if err != nil {
			return Paint{}, fmt.Errorf("background: %w", err)
		}
		return Solid(c), nil
	}
	g, err := frame.LookupGradient(cfg.Gradient)
	if err != nil {
		return Paint{}, fmt.Errorf("background: %w", err)
	}
	p := Paint{}
	for _, stop := range g.Stops {
		c, err := frame.ParseHexColor(stop)
		if err != nil {
			return Paint{}, fmt.Errorf("gradient %s: %w", g.Name, err)
		}
		p.Stops = append(p.Stops, c)
	}
	p.Color = p.Stops[0]
	return p, nil
}
