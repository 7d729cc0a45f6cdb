package cli

import (
	"image"
	"image/draw"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/engine"
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/input"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/render/sink"
)

// windowKeys maps ebiten keys to engine key names.
var windowKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeySpace, input.KeySpace},
	{ebiten.KeyEscape, input.KeyEscape},
}

// windowGame hosts an engine in an ebiten window. The engine paints into a
// raster canvas during Update; Draw copies the canvas to the screen.
type windowGame struct {
	engine  *engine.Engine
	queue   *frame.Queue
	emitter *input.Emitter
	canvas  *sink.Canvas
	loaded  chan struct{}
	logger  *log.Logger

	rgba   *image.RGBA
	screen *ebiten.Image

	width, height int
	cursorX       int
	cursorY       int
	inside        bool
}

func (g *windowGame) Update() error {
	select {
	case <-g.loaded:
		g.engine.ResourceLoaded()
	default:
	}
	g.pointer()
	g.touches()
	g.keys()
	g.queue.Flush()
	return nil
}

func (g *windowGame) pointer() {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.emitter.PointerDown(fx, fy)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.emitter.PointerUp(fx, fy)
	case !inside && g.inside:
		g.emitter.PointerLeave()
	case inside && (x != g.cursorX || y != g.cursorY):
		g.emitter.PointerMove(fx, fy)
	}
	g.cursorX, g.cursorY, g.inside = x, y, inside
}

func (g *windowGame) touches() {
	touch := func(action input.Action, x, y int) {
		g.emitter.Emit(input.Event{Kind: input.Touch, Action: action, X: float64(x), Y: float64(y)})
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		touch(input.Down, x, y)
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		if inpututil.TouchPressDuration(id) > 1 {
			x, y := ebiten.TouchPosition(id)
			touch(input.Move, x, y)
		}
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		touch(input.Up, x, y)
	}
}

func (g *windowGame) keys() {
	for _, k := range windowKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.emitter.Key(k.name)
		}
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.emitter.Key(input.KeyUndo)
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY) {
		g.emitter.Key(input.KeyRedo)
	}
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	src := g.canvas.Image()
	b := src.Bounds()
	if g.rgba == nil || g.rgba.Bounds() != b {
		g.rgba = image.NewRGBA(b)
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImage(b.Dx(), b.Dy())
	}
	draw.Draw(g.rgba, b, src, b.Min, draw.Src)
	g.screen.WritePixels(g.rgba.Pix)
	screen.DrawImage(g.screen, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		if err := g.engine.Resize(float64(outsideWidth), float64(outsideHeight)); err != nil {
			g.logger.Warn("resize rejected", "error", err)
		}
	}
	return outsideWidth, outsideHeight
}

// windowCommand runs a cloud in a desktop window.
func (c *CLI) windowCommand() *cobra.Command {
	var cloud cloudFlags
	var background string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Spin a cloud in a desktop window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, list, diags, err := cloud.load(cmd)
			if err != nil {
				return err
			}
			reportDiagnostics(diags)
			logger := loggerFromContext(cmd.Context())

			w, h := int(cloud.width), int(cloud.height)
			loaded := make(chan struct{}, 1)
			images := sink.NewImages(sink.WithLoader(resourceLoader()), sink.WithOnLoad(func(ref string, err error) {
				if err != nil {
					logger.Warn("image failed to load", "ref", ref, "error", err)
				}
				select {
				case loaded <- struct{}{}:
				default:
				}
			}))
			canvas, err := sink.NewCanvas(w, h, sink.WithCanvasBackground(background), sink.WithImages(images))
			if err != nil {
				return err
			}
			defer canvas.Close()

			g := &windowGame{
				queue:   frame.NewQueue(),
				emitter: input.NewEmitter(input.Pointer, input.Touch, input.Keyboard),
				canvas:  canvas,
				loaded:  loaded,
				logger:  logger,
				width:   w,
				height:  h,
			}
			g.engine = engine.New(engine.Options{
				Settings:  s,
				Tags:      list,
				Painter:   canvas,
				Scheduler: g.queue,
				Sources:   []input.Source{g.emitter},
				Viewport:  projection.Viewport{Width: cloud.width, Height: cloud.height},
				Logger:    logger,
				Context:   cmd.Context(),
			})
			defer g.engine.Destroy()
			if _, err := g.engine.On(string(events.TagClick), func(ev events.Event) {
				logger.Info("tag clicked", "tag", ev.Tag.Label())
			}); err != nil {
				return err
			}

			ebiten.SetWindowTitle("tagcloud " + buildinfo.Version)
			ebiten.SetWindowSize(w, h)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetTPS(60)
			return ebiten.RunGame(g)
		},
	}

	cloud.register(cmd, defaultWidth, defaultHeight)
	cmd.Flags().StringVar(&background, "background", sink.DefaultBackground, "background color")
	return cmd
}
