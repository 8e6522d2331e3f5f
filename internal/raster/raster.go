// Package raster draws a render.Tree into a PNG, either at a pixel ratio of
// its logical size or into an exact canvas.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"shotframe/internal/render"
)

var ErrEmptyTree = errors.New("nothing to capture")

// Target selects the output size. Exactly one of PixelRatio or
// Width/Height is set.
type Target struct {
	PixelRatio float64
	Width      int
	Height     int
}

func Ratio(r float64) Target { return Target{PixelRatio: r} }

func Exact(width, height int) Target { return Target{Width: width, Height: height} }

func (t Target) IsExact() bool { return t.Width > 0 && t.Height > 0 }

func (t Target) String() string {
	if t.IsExact() {
		return fmt.Sprintf("%dx%d", t.Width, t.Height)
	}
	return fmt.Sprintf("%gx", t.PixelRatio)
}

// Size returns the output pixel size for tree.
func (t Target) Size(tree render.Tree) (int, int) {
	if t.IsExact() {
		return t.Width, t.Height
	}
	ratio := t.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	return int(math.Ceil(tree.Width * ratio)), int(math.Ceil(tree.Height * ratio))
}

// Rasterizer is safe for concurrent use; captures are serialised.
type Rasterizer struct {
	mu    sync.Mutex
	font  *truetype.Font
	faces map[float64]font.Face
}

func New() (*Rasterizer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return &Rasterizer{font: f, faces: make(map[float64]font.Face)}, nil
}

// Capture renders tree and returns it PNG encoded.
func (r *Rasterizer) Capture(ctx context.Context, tree render.Tree, target Target) ([]byte, error) {
	img, err := r.Draw(ctx, tree, target)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw renders tree into an image of the target size.
func (r *Rasterizer) Draw(ctx context.Context, tree render.Tree, target Target) (image.Image, error) {
	if tree.Empty() {
		return nil, ErrEmptyTree
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height := target.Size(tree)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target %s", target)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dc := gg.NewContext(width, height)

	// The background always covers the whole canvas, content is fitted and
	// centred inside it.
	fillPaint(dc, tree.Background, 0, 0, float64(width), float64(height))
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	s := math.Min(float64(width)/tree.Width, float64(height)/tree.Height)
	xf := transform{
		dx: (float64(width) - tree.Width*s) / 2,
		dy: (float64(height) - tree.Height*s) / 2,
		s:  s,
	}
	r.drawNode(dc, tree.Content, xf)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

type transform struct {
	dx, dy, s float64
}

func (t transform) apply(n render.Node) (x, y, w, h float64) {
	return t.dx + n.X*t.s, t.dy + n.Y*t.s, n.W * t.s, n.H * t.s
}

func (r *Rasterizer) drawNode(dc *gg.Context, n render.Node, xf transform) {
	x, y, w, h := xf.apply(n)
	radius := n.Radius * xf.s

	if n.Shadow > 0 {
		drawShadow(dc, x, y, w, h, radius, n.Shadow*xf.s)
	}

	switch n.Kind {
	case render.KindGroup:
		scale := n.Scale
		if scale == 0 {
			scale = 1
		}
		inner := transform{dx: x, dy: y, s: xf.s * scale}
		if n.Clip {
			dc.Push()
			dc.DrawRoundedRectangle(x, y, w, h, radius)
			dc.Clip()
		}
		for _, child := range n.Children {
			r.drawNode(dc, child, inner)
		}
		if n.Clip {
			dc.Pop()
		}
		if n.Stroke != nil {
			dc.DrawRoundedRectangle(x, y, w, h, radius)
			strokeWith(dc, n, xf.s)
		}
	case render.KindRect:
		if n.Fill != nil {
			dc.DrawRoundedRectangle(x, y, w, h, radius)
			fillPaint(dc, *n.Fill, x, y, w, h)
			dc.Fill()
		}
		if n.Stroke != nil {
			dc.DrawRoundedRectangle(x, y, w, h, radius)
			strokeWith(dc, n, xf.s)
		}
	case render.KindEllipse:
		if n.Fill != nil {
			dc.DrawEllipse(x+w/2, y+h/2, w/2, h/2)
			fillPaint(dc, *n.Fill, x, y, w, h)
			dc.Fill()
		}
	case render.KindLine:
		if n.Stroke != nil {
			dc.DrawLine(x, y, x+w, y+h)
			strokeWith(dc, n, xf.s)
		}
	case render.KindImage:
		if n.Image == nil {
			return
		}
		pw, ph := int(math.Round(w)), int(math.Round(h))
		if pw <= 0 || ph <= 0 {
			return
		}
		dc.DrawImage(scaleImage(n.Image, pw, ph), int(math.Round(x)), int(math.Round(y)))
	case render.KindText:
		dc.SetFontFace(r.face(n.FontSize * xf.s))
		dc.SetColor(n.Color)
		dc.DrawStringAnchored(n.Text, x, y, n.Align, 0.35)
	}
}

func (r *Rasterizer) face(size float64) font.Face {
	size = math.Round(size*4) / 4
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	r.faces[size] = f
	return f
}

func fillPaint(dc *gg.Context, p render.Paint, x, y, w, h float64) {
	if !p.IsGradient() {
		dc.SetColor(p.Color)
		return
	}
	g := gg.NewLinearGradient(x, y, x+w, y+h)
	last := float64(len(p.Stops) - 1)
	for i, stop := range p.Stops {
		g.AddColorStop(float64(i)/last, stop)
	}
	dc.SetFillStyle(g)
}

func strokeWith(dc *gg.Context, n render.Node, scale float64) {
	width := n.StrokeWidth * scale
	if width < 1 {
		width = 1
	}
	dc.SetLineWidth(width)
	dc.SetColor(*n.Stroke)
	dc.Stroke()
}

// drawShadow fakes a soft drop shadow with stacked translucent shapes.
func drawShadow(dc *gg.Context, x, y, w, h, radius, blur float64) {
	const layers = 8
	offset := blur / 3
	for i := layers; i >= 1; i-- {
		spread := blur * float64(i) / layers
		dc.DrawRoundedRectangle(x-spread/2, y+offset-spread/2, w+spread, h+spread, radius+spread/2)
		dc.SetRGBA(0, 0, 0, 0.035)
		dc.Fill()
	}
}

// scaleImage resamples src to w x h. Downscaling by a large factor uses
// CatmullRom, everything else the faster BiLinear kernel.
func scaleImage(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	var scaler xdraw.Scaler = xdraw.BiLinear
	if b.Dx() > 2*w || b.Dy() > 2*h {
		scaler = xdraw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
