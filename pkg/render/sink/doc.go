// Package sink provides output format renderers for tag cloud frames.
//
// # Overview
//
// A "sink" transforms a [projection.Frame] into a final output format.
// This package provides renderers for:
//
//   - SVG: Scalable vector graphics, optionally with hover styling
//   - PNG: Raster image output drawn with gg
//   - JSON: Frame data export for external tools
//
// # SVG Output
//
// [RenderSVG] writes one element per item in draw order, so the nearest tag
// ends up on top:
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithBackground("#101418"),
//	    sink.WithTitle("languages"),
//	    sink.WithInteraction(),
//	)
//
// Text tags become <text> elements. Image tags become <image> elements
// referencing the original source, and inline vector tags are embedded as
// data URIs. A tag with text is drawn as text even when it also has an icon.
//
// # PNG Output
//
// [Canvas] paints items with the Go fonts from golang.org/x/image. It is an
// engine painter: image tags return a NOT_READY error until [Images] has
// finished loading them, and the engine retries them on ResourceLoaded.
// [RenderPNG] is the one-shot form that waits for every image first.
//
// # JSON Output
//
// [RenderJSON] exports the frame, optionally with the rotation state and the
// settings that produced it:
//
//	data, err := sink.RenderJSON(frame,
//	    sink.WithJSONState(e.State()),
//	    sink.WithJSONSettings(e.Settings()),
//	)
//
// [projection.Frame]: github.com/matzehuels/tagcloud/pkg/projection#Frame
package sink
