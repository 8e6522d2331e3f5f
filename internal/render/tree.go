// Package render builds the visual tree for a framed screenshot: background,
// device or window chrome, and the screenshot itself. The tree is plain data
// in logical pixels; the raster package turns it into an image.
package render

import (
	"image"
	"image/color"
)

type Kind int

const (
	KindGroup Kind = iota
	KindRect
	KindEllipse
	KindLine
	KindImage
	KindText
)

// Paint is either a solid colour or, when Stops has two or more entries, a
// diagonal linear gradient from the top-left to the bottom-right corner.
type Paint struct {
	Color color.RGBA
	Stops []color.RGBA
}

func Solid(c color.RGBA) Paint { return Paint{Color: c} }

func (p Paint) IsGradient() bool { return len(p.Stops) >= 2 }

// Node is positioned relative to its parent. For KindLine, W and H are the
// delta from (X, Y) to the end point.
type Node struct {
	Kind   Kind
	X, Y   float64
	W, H   float64
	Radius float64

	Fill        *Paint
	Stroke      *color.RGBA
	StrokeWidth float64
	Shadow      float64

	// Scale applies to the children of a group. Zero means 1.
	Scale float64
	// Clip restricts the children of a group to its rounded bounds.
	Clip bool

	Image image.Image

	Text     string
	FontSize float64
	Color    color.RGBA
	Align    float64

	Children []Node
}

// Tree is the unit captured by the rasteriser.
type Tree struct {
	Width      float64
	Height     float64
	Background Paint
	Content    Node
}

func (t Tree) Empty() bool {
	return t.Width <= 0 || t.Height <= 0
}

func group(x, y, w, h float64, children ...Node) Node {
	return Node{Kind: KindGroup, X: x, Y: y, W: w, H: h, Children: children}
}

func rect(x, y, w, h, radius float64, fill color.RGBA) Node {
	p := Solid(fill)
	return Node{Kind: KindRect, X: x, Y: y, W: w, H: h, Radius: radius, Fill: &p}
}

func circle(cx, cy, r float64, fill color.RGBA) Node {
	p := Solid(fill)
	return Node{Kind: KindEllipse, X: cx - r, Y: cy - r, W: 2 * r, H: 2 * r, Fill: &p}
}

func line(x1, y1, x2, y2, width float64, c color.RGBA) Node {
	return Node{Kind: KindLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Stroke: &c, StrokeWidth: width}
}

func text(x, y, size float64, c color.RGBA, s string, align float64) Node {
	return Node{Kind: KindText, X: x, Y: y, FontSize: size, Color: c, Text: s, Align: align}
}
