package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/engine"
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/input"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/settings"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// statusLines is the height reserved below the cloud.
const statusLines = 2

// teaKeys maps bubbletea key names to engine key names.
var teaKeys = map[string]string{
	"left":   input.KeyLeft,
	"right":  input.KeyRight,
	"up":     input.KeyUp,
	"down":   input.KeyDown,
	" ":      input.KeySpace,
	"space":  input.KeySpace,
	"esc":    input.KeyEscape,
	"ctrl+z": input.KeyUndo,
	"ctrl+y": input.KeyRedo,
}

// frameMsg drives one engine frame.
type frameMsg time.Time

// playModel hosts an engine in a bubbletea program. Every engine call
// happens inside Update, so the engine only ever runs on the program's
// goroutine.
type playModel struct {
	engine  *engine.Engine
	queue   *frame.Queue
	emitter *input.Emitter
	painter *cellPainter
	fps     int

	hovered string
	status  string
}

func newPlayModel(s settings.Settings, list []tags.Tag, cols, rows, fps int, bg string, logger *log.Logger) *playModel {
	m := &playModel{
		queue:   frame.NewQueue(),
		emitter: input.NewEmitter(input.Pointer, input.Keyboard),
		painter: newCellPainter(bg),
		fps:     max(fps, 1),
		status:  "drag to spin · click a tag · ←↑↓→ nudge · space pause · ctrl+z undo · q quit",
	}
	m.engine = engine.New(engine.Options{
		Settings:  s,
		Tags:      list,
		Painter:   m.painter,
		Scheduler: m.queue,
		Sources:   []input.Source{m.emitter},
		Viewport:  projection.Viewport{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight},
		Logger:    logger,
	})
	m.listen()
	return m
}

func (m *playModel) listen() {
	on := func(name events.Name, fn events.Handler) {
		if _, err := m.engine.On(string(name), fn); err != nil {
			m.status = err.Error()
		}
	}
	on(events.TagClick, func(ev events.Event) { m.status = "clicked " + ev.Tag.Label() })
	on(events.TagHover, func(ev events.Event) { m.hovered = ev.Tag.Label() })
	on(events.TagLeave, func(events.Event) { m.hovered = "" })
	on(events.Pause, func(events.Event) { m.status = "paused" })
	on(events.Resume, func(events.Event) { m.status = "running" })
}

func (m *playModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *playModel) Init() tea.Cmd {
	return m.tick()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.queue.Flush()
		return m, m.tick()

	case tea.WindowSizeMsg:
		rows := max(msg.Height-statusLines, 1)
		if err := m.engine.Resize(float64(msg.Width)*cellWidth, float64(rows)*cellHeight); err != nil {
			m.status = err.Error()
		}

	case tea.MouseMsg:
		m.mouse(tea.MouseEvent(msg))

	case tea.KeyMsg:
		key := msg.String()
		if key == "q" || key == "ctrl+c" {
			m.engine.Destroy()
			return m, tea.Quit
		}
		if k, ok := teaKeys[key]; ok {
			m.emitter.Key(k)
		}
	}
	return m, nil
}

func (m *playModel) mouse(ev tea.MouseEvent) {
	if ev.Y >= m.painter.rows {
		m.emitter.PointerLeave()
		return
	}
	x, y := cellCenter(ev.X, ev.Y)
	switch ev.Action {
	case tea.MouseActionPress:
		if ev.Button == tea.MouseButtonLeft {
			m.emitter.PointerDown(x, y)
		}
	case tea.MouseActionRelease:
		m.emitter.PointerUp(x, y)
	case tea.MouseActionMotion:
		m.emitter.PointerMove(x, y)
	}
}

var (
	playStatusStyle = lipgloss.NewStyle().Foreground(colorDim)
	playHoverStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

func (m *playModel) View() string {
	var b strings.Builder
	b.WriteString(m.painter.String())
	b.WriteString("\n")
	if m.hovered != "" {
		b.WriteString(playHoverStyle.Render(m.hovered) + "  ")
	}
	b.WriteString(playStatusStyle.Render(fmt.Sprintf("%s · %d tags", m.status, len(m.engine.Tags()))))
	return b.String()
}

// playCommand runs a cloud in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	var cloud cloudFlags
	var fps int

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Spin a cloud in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, list, diags, err := cloud.load(cmd)
			if err != nil {
				return err
			}
			reportDiagnostics(diags)

			bg := "#000000"
			if !lipgloss.HasDarkBackground() {
				bg = "#ffffff"
			}
			cols, rows := gridSize(projection.Viewport{Width: cloud.width, Height: cloud.height})
			m := newPlayModel(s, list, cols, rows, fps, bg, loggerFromContext(cmd.Context()))
			defer m.engine.Destroy()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cloud.register(cmd, 80*cellWidth, 22*cellHeight)
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	return cmd
}
