package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/engine"
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/input"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

const (
	defaultWidth  = 600
	defaultHeight = 600

	// frameStep is the simulated time between headless frames.
	frameStep = 16 * time.Millisecond
	// dragSteps is how many pointer moves a scripted drag is split into.
	dragSteps = 8
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "png": true, "json": true}

type renderOpts struct {
	cloud       cloudFlags
	output      string
	format      string
	ticks       int
	clicks      []string
	drags       []string
	scale       float64
	background  string
	title       string
	interactive bool
}

// renderCommand runs a cloud without a display and writes one frame.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{ticks: 60, scale: 1, background: sink.DefaultBackground}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of a cloud to SVG, PNG or JSON",
		Example: `  tagcloud render -c cloud.toml -o cloud.svg
  tagcloud render -t go -t rust:#dea584 --shape torus --ticks 120 -o cloud.png
  tagcloud render -c cloud.toml --drag 300,300:360,320 -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd, &opts)
		},
	}

	opts.cloud.register(cmd, defaultWidth, defaultHeight)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, json")
	cmd.Flags().IntVar(&opts.ticks, "ticks", opts.ticks, "frames to simulate before rendering")
	cmd.Flags().StringArrayVar(&opts.clicks, "click", nil, "scripted click at x,y (repeatable)")
	cmd.Flags().StringArrayVar(&opts.drags, "drag", nil, "scripted drag x1,y1:x2,y2 (repeatable)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.background, "background", opts.background, "background color")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "add CSS hover effects to SVG output")

	return cmd
}

func validateFormat(f string) error {
	if !validFormats[f] {
		return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'json')", f)
	}
	return nil
}

// formatFromPath derives the format from the output extension, defaulting to svg.
func formatFromPath(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if validFormats[ext] {
		return ext
	}
	return "svg"
}

// headless is an engine driven by a frame queue and a manual clock, so a run
// is reproducible frame for frame.
type headless struct {
	engine  *engine.Engine
	queue   *frame.Queue
	clock   *frame.ManualClock
	emitter *input.Emitter
}

func newHeadless(opts engine.Options) *headless {
	h := &headless{
		queue:   frame.NewQueue(),
		clock:   frame.NewManualClock(time.Unix(0, 0)),
		emitter: input.NewEmitter(input.Pointer, input.Keyboard),
	}
	opts.Scheduler = h.queue
	opts.Clock = h.clock
	opts.Sources = append(opts.Sources, h.emitter)
	h.engine = engine.New(opts)
	return h
}

// step advances the clock by one frame and flushes the queue.
func (h *headless) step() {
	h.clock.Advance(frameStep)
	h.queue.Flush()
}

func (h *headless) run(ticks int) {
	for i := 0; i < ticks; i++ {
		h.step()
	}
}

func (h *headless) click(x, y float64) {
	h.emitter.PointerDown(x, y)
	h.emitter.PointerUp(x, y)
	h.step()
}

func (h *headless) drag(x1, y1, x2, y2 float64) {
	h.emitter.PointerDown(x1, y1)
	for i := 1; i <= dragSteps; i++ {
		t := float64(i) / dragSteps
		h.step()
		h.emitter.PointerMove(x1+(x2-x1)*t, y1+(y2-y1)*t)
	}
	h.emitter.PointerUp(x2, y2)
	h.step()
}

// parseDrag reads "x1,y1:x2,y2".
func parseDrag(s string) (x1, y1, x2, y2 float64, err error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("invalid drag %q (want x1,y1:x2,y2)", s)
	}
	if x1, y1, err = parsePoint(from); err != nil {
		return
	}
	x2, y2, err = parsePoint(to)
	return
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, list, diags, err := opts.cloud.load(cmd)
	if err != nil {
		return err
	}
	reportDiagnostics(diags)

	h := newHeadless(engine.Options{
		Settings: s,
		Tags:     list,
		Viewport: projection.Viewport{Width: opts.cloud.width, Height: opts.cloud.height},
		Logger:   logger,
		Context:  ctx,
	})
	defer h.engine.Destroy()

	clicked := 0
	_, err = h.engine.On(string(events.TagClick), func(ev events.Event) {
		clicked++
		logger.Info("tag clicked", "tag", ev.Tag.Label(), "x", ev.X, "y", ev.Y)
	})
	if err != nil {
		return err
	}

	for _, raw := range opts.drags {
		x1, y1, x2, y2, err := parseDrag(raw)
		if err != nil {
			return err
		}
		h.drag(x1, y1, x2, y2)
	}
	for _, raw := range opts.clicks {
		x, y, err := parsePoint(raw)
		if err != nil {
			return err
		}
		h.click(x, y)
	}
	h.run(opts.ticks)

	data, err := c.encodeFrame(ctx, h.engine, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d tags after %d frames", len(h.engine.Tags()), h.queue.Frames()))

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered %s", opts.format)
	printFile(opts.output)
	if clicked > 0 {
		printDetail("%d tag clicks", clicked)
	}
	return nil
}

func (c *CLI) encodeFrame(ctx context.Context, e *engine.Engine, opts *renderOpts) ([]byte, error) {
	f := e.Frame()
	switch opts.format {
	case "png":
		var sp *Spinner
		if hasImages(f) {
			sp = newSpinnerWithContext(ctx, "Loading images")
			sp.Start()
		}
		data, err := sink.RenderPNG(f,
			sink.WithScale(opts.scale),
			sink.WithPNGCanvasOptions(
				sink.WithCanvasBackground(opts.background),
				sink.WithImages(sink.NewImages(sink.WithLoader(resourceLoader()))),
			),
		)
		if sp != nil {
			sp.Stop()
			if sp.Cancelled() {
				return nil, ctx.Err()
			}
		}
		return data, err
	case "json":
		return sink.RenderJSON(f,
			sink.WithJSONInstance(e.ID()),
			sink.WithJSONState(e.State()),
			sink.WithJSONSettings(e.Settings()),
		)
	}
	svgOpts := []sink.SVGOption{sink.WithBackground(opts.background)}
	if opts.title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.title))
	}
	if opts.interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}
	if font := e.Settings().CustomFont; font != "" {
		svgOpts = append(svgOpts, sink.WithFontFamily(font))
	}
	return sink.RenderSVG(f, svgOpts...), nil
}

func hasImages(f *projection.Frame) bool {
	if f == nil {
		return false
	}
	for _, it := range f.Items {
		if it.Tag.Text == "" && it.Tag.Image != "" {
			return true
		}
	}
	return false
}
