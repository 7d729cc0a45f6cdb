package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/tagcloud/pkg/projection"
)

// A terminal cell stands for an 8x16 pixel block of the viewport.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// iconGlyph stands in for image and vector tags in the terminal.
const iconGlyph = "◆"

type cell struct {
	r     rune // 0 marks the trailing half of a wide rune
	color string
	bold  bool
}

// cellPainter draws frames into a character grid. Items are written in
// draw order, so nearer tags overwrite farther ones.
type cellPainter struct {
	cols, rows int
	cells      []cell
	bg         colorful.Color
}

func newCellPainter(bg string) *cellPainter {
	c, err := colorful.Hex(bg)
	if err != nil {
		c = colorful.Color{}
	}
	return &cellPainter{bg: c}
}

// gridSize converts a viewport to whole cells.
func gridSize(vp projection.Viewport) (cols, rows int) {
	return max(int(vp.Width/cellWidth), 1), max(int(vp.Height/cellHeight), 1)
}

// cellCenter returns the viewport point at the center of a cell.
func cellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight
}

func (p *cellPainter) Clear(vp projection.Viewport) {
	p.cols, p.rows = gridSize(vp)
	if n := p.cols * p.rows; cap(p.cells) >= n {
		p.cells = p.cells[:n]
		clear(p.cells)
	} else {
		p.cells = make([]cell, n)
	}
}

func (p *cellPainter) Draw(it projection.Item) error {
	label := it.Tag.Text
	if label == "" {
		label = iconGlyph
	}
	color := p.ink(it.Color, it.Opacity)
	bold := it.Scale > 1 || it.Font.Weight == "bold"

	row := int(math.Floor(it.Y / cellHeight))
	col := int(math.Floor(it.X/cellWidth)) - runewidth.StringWidth(label)/2
	for _, r := range label {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		p.set(col, row, cell{r: r, color: color, bold: bold})
		if w == 2 {
			p.set(col+1, row, cell{color: color, bold: bold})
		}
		col += w
	}
	return nil
}

func (p *cellPainter) set(col, row int, c cell) {
	if col < 0 || row < 0 || col >= p.cols || row >= p.rows {
		return
	}
	p.cells[row*p.cols+col] = c
}

// ink fades a tag color toward the background by opacity.
func (p *cellPainter) ink(hex string, opacity float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return p.bg.BlendRgb(c, math.Max(0, math.Min(1, opacity))).Clamped().Hex()
}

// Plain returns the grid without styling.
func (p *cellPainter) Plain() string {
	var b strings.Builder
	for y := 0; y < p.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range p.cells[y*p.cols : (y+1)*p.cols] {
			switch {
			case c.color == "":
				b.WriteByte(' ')
			case c.r != 0:
				b.WriteRune(c.r)
			}
		}
	}
	return b.String()
}

// String renders the grid with one lipgloss style per run of equal cells.
func (p *cellPainter) String() string {
	var b strings.Builder
	for y := 0; y < p.rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		line := p.cells[y*p.cols : (y+1)*p.cols]
		for i := 0; i < len(line); {
			j := i
			var run strings.Builder
			for j < len(line) && line[j].color == line[i].color && line[j].bold == line[i].bold {
				switch {
				case line[j].color == "":
					run.WriteByte(' ')
				case line[j].r != 0:
					run.WriteRune(line[j].r)
				}
				j++
			}
			if line[i].color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(line[i].color)).Bold(line[i].bold).Render(run.String()))
			}
			i = j
		}
	}
	return b.String()
}
