// Package render turns projected tag cloud frames into visual output.
//
// # Overview
//
// The engine never draws. Each frame it hands a [projection.Frame] to a
// painter, and the painters and exporters live here:
//
//   - Vector output (SVG) with optional hover styling
//   - Raster output (PNG) through the pure-Go gg canvas
//   - JSON frame snapshots for external tools and the preview server
//
// All of them live in the [sink] subpackage:
//
//	e := engine.New(engine.Options{Tags: list})
//	svg := sink.RenderSVG(e.Frame(), sink.WithInteraction())
//	png, err := sink.RenderPNG(e.Frame())
//
// [sink.Canvas] is the long-lived variant used by hosts that repaint on every
// frame: it implements the engine's Painter interface and keeps its fonts and
// loaded images between frames.
//
// [projection.Frame]: github.com/matzehuels/tagcloud/pkg/projection#Frame
// [sink]: github.com/matzehuels/tagcloud/pkg/render/sink
// [sink.Canvas]: github.com/matzehuels/tagcloud/pkg/render/sink#Canvas
package render
