// Package pkg provides the libraries behind tagcloud, an interactive 3D tag
// cloud engine.
//
// # Overview
//
// A tag cloud places labels, images and inline vector icons on the surface
// of a 3D shape, spins the shape with eased momentum and draws every tag with
// a depth-based scale and opacity. The pkg directory is organized into four
// areas:
//
//  1. Model: [tags], [settings], [layout], [geom]
//  2. Simulation: [motion], [projection], [interact], [frame]
//  3. Host boundary: [engine], [input], [events], [errors]
//  4. Output and infrastructure: [render], [cache], [httputil], [observability]
//
// # Architecture
//
// One frame flows through the engine like this:
//
//	frame.Scheduler tick
//	         ↓
//	    [motion] (ease speed, integrate velocity, rotate tag positions)
//	         ↓
//	    [projection] (perspective, depth sort, hover and click overrides)
//	         ↓
//	    engine.Painter (terminal grid, gg canvas, SVG/PNG/JSON sinks)
//
// Input arrives through [input.Source] implementations supplied by the host.
// The engine resolves it with [interact] (drag velocity, hit testing,
// throttling) and reports what happened through [events].
//
// # Quick Start
//
// Run a cloud headless and export a frame:
//
//	import (
//	    "github.com/matzehuels/tagcloud/pkg/engine"
//	    "github.com/matzehuels/tagcloud/pkg/frame"
//	    "github.com/matzehuels/tagcloud/pkg/render/sink"
//	    "github.com/matzehuels/tagcloud/pkg/tags"
//	)
//
//	q := frame.NewQueue()
//	e := engine.New(engine.Options{
//	    Tags:      []tags.Tag{{Text: "go", Color: "#00add8"}},
//	    Scheduler: q,
//	})
//	for i := 0; i < 60; i++ {
//	    q.Flush()
//	}
//	svg := sink.RenderSVG(e.Frame())
//
// # Main Packages
//
// [engine] - The stateful cloud. Owns the tag store, motion model and
// scheduling, and exposes the mutation, undo/redo, option and lifecycle
// operations hosts call.
//
// [layout] - Nine placement shapes (sphere, cube, pyramid, helix, ring,
// vertical ring, cylinder, torus, plane).
//
// [settings] - The configuration record, its defaults, partial updates with
// per-field diagnostics, and TOML documents.
//
// [render/sink] - SVG, PNG and JSON output plus the gg canvas painter.
//
// [cache] - Frame and resource caches backed by files, Redis or nothing.
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/engine/...
package pkg
