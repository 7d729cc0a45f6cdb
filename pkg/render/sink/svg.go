package sink

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/tagcloud/pkg/projection"
)

const tagInteractionCSS = `
    .tag { transition: transform 0.2s ease; transform-origin: center; transform-box: fill-box; cursor: pointer; }
    .tag:hover { transform: scale(1.2); }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background  string
	title       string
	fontFamily  string
	interactive bool
}

func WithBackground(hex string) SVGOption { return func(r *svgRenderer) { r.background = hex } }
func WithTitle(s string) SVGOption        { return func(r *svgRenderer) { r.title = s } }
func WithInteraction() SVGOption          { return func(r *svgRenderer) { r.interactive = true } }

// WithFontFamily sets the family used for items that do not name their own.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// RenderSVG writes f as a standalone SVG document. A nil frame renders an
// empty 1x1 document.
func RenderSVG(f *projection.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{background: DefaultBackground, fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}
	if f == nil {
		f = &projection.Frame{Viewport: projection.Viewport{Width: 1, Height: 1}}
	}
	w, h := f.Viewport.Width, f.Viewport.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tagInteractionCSS)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	for _, it := range f.Items {
		renderItem(&buf, &r, it)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderItem(buf *bytes.Buffer, r *svgRenderer, it projection.Item) {
	t := it.Tag
	left, top := it.Box.X-it.Box.W/2, it.Box.Y-it.Box.H/2
	switch {
	case t.Text != "":
		family := r.fontFamily
		if it.Font.Family != "" {
			family = it.Font.Family
		}
		weight := it.Font.Weight
		if weight == "" {
			weight = "normal"
		}
		fmt.Fprintf(buf, `  <text class="tag" id="tag-%d" x="%.2f" y="%.2f" font-size="%.2f" font-family="%s" font-weight="%s" fill="%s" fill-opacity="%.3f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			t.Index, it.X, it.Y, it.FontSize, escapeXML(family), escapeXML(weight), escapeXML(inkOf(it)), it.Opacity, escapeXML(t.Text))
	case t.Image != "":
		fmt.Fprintf(buf, `  <image class="tag" id="tag-%d" href="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" opacity="%.3f"/>`+"\n",
			t.Index, escapeXML(t.Image), left, top, it.Box.W, it.Box.H, it.Opacity)
	case t.SVG != "":
		data := base64.StdEncoding.EncodeToString([]byte(t.SVG))
		fmt.Fprintf(buf, `  <image class="tag" id="tag-%d" href="data:image/svg+xml;base64,%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" opacity="%.3f"/>`+"\n",
			t.Index, data, left, top, it.Box.W, it.Box.H, it.Opacity)
	}
}

func inkOf(it projection.Item) string {
	if it.Color != "" {
		return it.Color
	}
	return DefaultInk
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
