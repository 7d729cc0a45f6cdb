package sink

import (
	"bytes"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/tagcloud/pkg/errors"
	"github.com/matzehuels/tagcloud/pkg/projection"
)

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithCanvasBackground sets the background color.
func WithCanvasBackground(hex string) CanvasOption {
	return func(c *Canvas) { c.bg = parseColor(hex, DefaultBackground) }
}

// WithImages shares an image loader between canvases.
func WithImages(im *Images) CanvasOption { return func(c *Canvas) { c.images = im } }

type faceKey struct {
	bold bool
	size float64
}

// Canvas paints frames onto a gg raster context. It implements the engine's
// Painter interface and is not safe for concurrent use.
type Canvas struct {
	dc     *gg.Context
	bg     colorful.Color
	images *Images

	regular, bold *text.FontSource
	faces         map[faceKey]text.Face
}

// NewCanvas creates a canvas of the given pixel size with the Go fonts
// loaded.
func NewCanvas(width, height int, opts ...CanvasOption) (*Canvas, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load regular font")
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load bold font")
	}
	c := &Canvas{
		dc:      gg.NewContext(max(width, 1), max(height, 1)),
		bg:      parseColor(DefaultBackground, DefaultBackground),
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]text.Face),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.images == nil {
		c.images = NewImages()
	}
	return c, nil
}

// Clear resizes the canvas to vp if needed and fills it with the background.
func (c *Canvas) Clear(vp projection.Viewport) {
	w, h := int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height))
	if w > 0 && h > 0 && (w != c.dc.Width() || h != c.dc.Height()) {
		if err := c.dc.Resize(w, h); err != nil {
			gg.Logger().Warn("canvas resize failed", "width", w, "height", h, "error", err)
		}
	}
	c.dc.SetColor(c.bg)
	c.dc.DrawRectangle(0, 0, float64(c.dc.Width()), float64(c.dc.Height()))
	_ = c.dc.Fill()
}

// Draw paints one item. Image items return a NOT_READY error while their
// source is loading; an image that failed to load is drawn as a placeholder.
func (c *Canvas) Draw(it projection.Item) error {
	t := it.Tag
	switch {
	case t.Text != "":
		return c.drawText(it)
	case t.Image != "":
		buf, err := c.images.Get(t.Image)
		if errors.Is(err, errors.ErrCodeNotReady) {
			return err
		}
		if err != nil {
			return c.drawPlaceholder(it)
		}
		left, top := it.Box.X-it.Box.W/2, it.Box.Y-it.Box.H/2
		c.dc.DrawImageEx(buf, gg.DrawImageOptions{
			X:             left,
			Y:             top,
			DstWidth:      it.Box.W,
			DstHeight:     it.Box.H,
			Interpolation: gg.InterpBilinear,
			Opacity:       math.Max(it.Opacity, 0.01),
			BlendMode:     gg.BlendNormal,
		})
		return nil
	case t.SVG != "":
		// Vector markup is not rasterized; SVG output embeds it instead.
		return c.drawPlaceholder(it)
	}
	return nil
}

func (c *Canvas) drawText(it projection.Item) error {
	size := math.Round(it.FontSize*2) / 2
	if size < 1 {
		return nil
	}
	c.dc.SetFont(c.face(isBold(it.Font.Weight), size))
	c.dc.SetColor(flatten(parseColor(it.Color, DefaultInk), c.bg, it.Opacity))
	c.dc.DrawStringAnchored(it.Tag.Text, it.X, it.Y, 0.5, 0.5)
	return nil
}

func (c *Canvas) drawPlaceholder(it projection.Item) error {
	c.dc.SetColor(flatten(parseColor(it.Color, DefaultInk), c.bg, it.Opacity))
	c.dc.DrawCircle(it.X, it.Y, math.Min(it.Box.W, it.Box.H)/2)
	return c.dc.Fill()
}

func (c *Canvas) face(bold bool, size float64) text.Face {
	k := faceKey{bold: bold, size: size}
	if f, ok := c.faces[k]; ok {
		return f
	}
	src := c.regular
	if bold {
		src = c.bold
	}
	f := src.Face(size)
	c.faces[k] = f
	return f
}

func isBold(weight string) bool {
	switch weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// Image returns the canvas contents.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the canvas contents as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error { return c.dc.EncodePNG(w) }

// Images returns the canvas's image loader.
func (c *Canvas) Images() *Images { return c.images }

// Close releases the raster context.
func (c *Canvas) Close() error { return c.dc.Close() }

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	canvasOpts []CanvasOption
	scale      float64
}

// WithPNGCanvasOptions passes options through to the underlying canvas.
func WithPNGCanvasOptions(opts ...CanvasOption) PNGOption {
	return func(r *pngRenderer) { r.canvasOpts = opts }
}

// WithScale sets the PNG scale factor (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG paints f once and returns the PNG encoding. Image tags are
// loaded before painting, so the result never has items missing because
// their source was still loading.
func RenderPNG(f *projection.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no frame to render")
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	scaled := scaleFrame(f, r.scale)
	vp := scaled.Viewport

	c, err := NewCanvas(int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height)), r.canvasOpts...)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	for _, it := range scaled.Items {
		if it.Tag.Text == "" && it.Tag.Image != "" {
			_, _ = c.images.Get(it.Tag.Image)
		}
	}
	c.images.Wait()

	c.Clear(vp)
	for _, it := range scaled.Items {
		if err := c.Draw(it); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func scaleFrame(f *projection.Frame, s float64) *projection.Frame {
	if s == 1 {
		return f
	}
	out := &projection.Frame{
		Viewport: projection.Viewport{Width: f.Viewport.Width * s, Height: f.Viewport.Height * s},
		Items:    make([]projection.Item, len(f.Items)),
	}
	for i, it := range f.Items {
		it.X *= s
		it.Y *= s
		it.FontSize *= s
		it.Box = projection.Box{X: it.Box.X * s, Y: it.Box.Y * s, W: it.Box.W * s, H: it.Box.H * s}
		out.Items[i] = it
	}
	return out
}
