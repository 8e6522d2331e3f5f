package render

import (
	"image"
	"image/color"

	"shotframe/internal/frame"
)

const (
	// MaxDisplayWidth and MaxDisplayHeight bound the on-screen size of a
	// screenshot inside its frame, in logical pixels.
	MaxDisplayWidth  = 960
	MaxDisplayHeight = 1200

	macTitlebar     = 36
	windowsTitlebar = 32
	browserTitlebar = 48
	phoneBezel      = 14
	tabletBezel     = 22
)

type palette struct {
	chrome    color.RGBA
	chromeAlt color.RGBA
	text      color.RGBA
	border    color.RGBA
	bezel     color.RGBA
	shadow    float64
}

var palettes = map[frame.Theme]palette{
	frame.ThemeLight: {
		chrome:    rgb(0xf3, 0xf4, 0xf6),
		chromeAlt: rgb(0xff, 0xff, 0xff),
		text:      rgb(0x37, 0x41, 0x51),
		border:    rgb(0xd1, 0xd5, 0xdb),
		bezel:     rgb(0xe5, 0xe7, 0xeb),
		shadow:    18,
	},
	frame.ThemeDark: {
		chrome:    rgb(0x2d, 0x2d, 0x30),
		chromeAlt: rgb(0x1f, 0x1f, 0x22),
		text:      rgb(0xe5, 0xe7, 0xeb),
		border:    rgb(0x3f, 0x3f, 0x46),
		bezel:     rgb(0x11, 0x18, 0x27),
		shadow:    24,
	},
}

var (
	trafficRed    = rgb(0xff, 0x5f, 0x57)
	trafficYellow = rgb(0xfe, 0xbc, 0x2e)
	trafficGreen  = rgb(0x28, 0xc8, 0x40)
)

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

// DisplaySize is the logical size a screenshot occupies inside its frame.
func DisplaySize(img image.Image) (float64, float64) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := 1.0
	if w > MaxDisplayWidth {
		scale = MaxDisplayWidth / w
	}
	if h*scale > MaxDisplayHeight {
		scale = MaxDisplayHeight / h
	}
	return w * scale, h * scale
}

// Frame returns the chrome and screenshot for style at the origin. The
// result depends only on its arguments.
func Frame(style frame.Style, img image.Image, theme frame.Theme, cornerRadius int) Node {
	pal := palettes[theme]
	radius := float64(cornerRadius)
	w, h := DisplaySize(img)

	switch style {
	case frame.StyleMacOS:
		return macOSFrame(img, w, h, radius, pal)
	case frame.StyleWindows:
		return windowsFrame(img, w, h, radius, pal)
	case frame.StyleMinimal:
		return minimalFrame(img, w, h, radius, pal)
	case frame.StyleBrowser:
		return browserFrame(img, w, h, radius, pal)
	case frame.StylePhone:
		return phoneFrame(img, w, h, radius, pal)
	case frame.StyleTablet:
		return tabletFrame(img, w, h, radius, pal)
	default:
		return minimalFrame(img, w, h, radius, pal)
	}
}

func screenshot(img image.Image, x, y, w, h float64) Node {
	return Node{Kind: KindImage, X: x, Y: y, W: w, H: h, Image: img}
}

// window wraps chrome and screenshot in a clipped, shadowed rounded box.
func window(w, h, radius float64, pal palette, children ...Node) Node {
	win := group(0, 0, w, h, children...)
	win.Radius = radius
	win.Clip = true
	win.Shadow = pal.shadow
	border := pal.border
	win.Stroke = &border
	win.StrokeWidth = 1
	return win
}

func trafficLights(y float64) []Node {
	return []Node{
		circle(20, y, 6, trafficRed),
		circle(40, y, 6, trafficYellow),
		circle(60, y, 6, trafficGreen),
	}
}

func macOSFrame(img image.Image, w, h, radius float64, pal palette) Node {
	children := []Node{rect(0, 0, w, macTitlebar, 0, pal.chrome)}
	children = append(children, trafficLights(macTitlebar/2)...)
	children = append(children,
		line(0, macTitlebar, w, macTitlebar, 1, pal.border),
		screenshot(img, 0, macTitlebar, w, h),
	)
	return window(w, h+macTitlebar, radius, pal, children...)
}

func windowsFrame(img image.Image, w, h, radius float64, pal palette) Node {
	const button = 46
	mid := float64(windowsTitlebar) / 2
	closeX := w - button/2
	maxX := w - button*1.5
	minX := w - button*2.5
	children := []Node{
		rect(0, 0, w, windowsTitlebar, 0, pal.chromeAlt),
		text(12, mid, 12, pal.text, "Screenshot", 0),
		line(minX-5, mid, minX+5, mid, 1, pal.text),
		{Kind: KindRect, X: maxX - 5, Y: mid - 5, W: 10, H: 10, Stroke: &pal.text, StrokeWidth: 1},
		line(closeX-5, mid-5, closeX+5, mid+5, 1, pal.text),
		line(closeX-5, mid+5, closeX+5, mid-5, 1, pal.text),
		screenshot(img, 0, windowsTitlebar, w, h),
	}
	return window(w, h+windowsTitlebar, radius, pal, children...)
}

func minimalFrame(img image.Image, w, h, radius float64, pal palette) Node {
	return window(w, h, radius, pal, screenshot(img, 0, 0, w, h))
}

func browserFrame(img image.Image, w, h, radius float64, pal palette) Node {
	mid := float64(browserTitlebar) / 2
	barX := 84.0
	barW := w - barX - 16
	if barW < 40 {
		barW = 40
	}
	children := []Node{rect(0, 0, w, browserTitlebar, 0, pal.chrome)}
	children = append(children, trafficLights(mid)...)
	children = append(children,
		rect(barX, mid-12, barW, 24, 12, pal.chromeAlt),
		text(barX+barW/2, mid, 12, pal.text, "localhost", 0.5),
		line(0, browserTitlebar, w, browserTitlebar, 1, pal.border),
		screenshot(img, 0, browserTitlebar, w, h),
	)
	return window(w, h+browserTitlebar, radius, pal, children...)
}

func device(img image.Image, w, h, bezel, radius float64, pal palette, details ...Node) Node {
	outerW, outerH := w+2*bezel, h+2*bezel
	screen := group(bezel, bezel, w, h, screenshot(img, 0, 0, w, h))
	screen.Radius = radius
	screen.Clip = true

	body := rect(0, 0, outerW, outerH, radius+bezel, pal.bezel)
	body.Shadow = pal.shadow
	border := pal.border
	body.Stroke = &border
	body.StrokeWidth = 1

	children := append([]Node{body, screen}, details...)
	return group(0, 0, outerW, outerH, children...)
}

func phoneFrame(img image.Image, w, h, radius float64, pal palette) Node {
	outerW := w + 2*phoneBezel
	islandW := w * 0.3
	island := rect((outerW-islandW)/2, phoneBezel+10, islandW, 22, 11, rgb(0, 0, 0))
	return device(img, w, h, phoneBezel, radius, pal, island)
}

func tabletFrame(img image.Image, w, h, radius float64, pal palette) Node {
	outerW := w + 2*tabletBezel
	camera := circle(outerW/2, tabletBezel/2, 3, pal.border)
	return device(img, w, h, tabletBezel, radius, pal, camera)
}
