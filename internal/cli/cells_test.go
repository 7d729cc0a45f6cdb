package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

func textItem(text string, x, y float64) projection.Item {
	return projection.Item{Tag: tags.Tag{Text: text}, X: x, Y: y, Color: "#ffffff", Opacity: 1, Scale: 1}
}

func TestCellPainterDraw(t *testing.T) {
	vp := projection.Viewport{Width: 10 * cellWidth, Height: 2 * cellHeight}
	blank := strings.Repeat(" ", 10)

	tests := []struct {
		name string
		item projection.Item
		want string
	}{
		{"centered", textItem("go", 40, 8), "    go    \n" + blank},
		{"second row", textItem("go", 40, 24), blank + "\n    go    "},
		{"wide runes", textItem("日本", 40, 8), "   日本   \n" + blank},
		{"clipped left", textItem("gopher", 8, 8), "pher      \n" + blank},
		{"off screen", textItem("go", -100, 8), blank + "\n" + blank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newCellPainter("#000000")
			p.Clear(vp)
			if err := p.Draw(tt.item); err != nil {
				t.Fatalf("Draw() error: %v", err)
			}
			if got := p.Plain(); got != tt.want {
				t.Errorf("Plain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellPainterOverwrite(t *testing.T) {
	p := newCellPainter("#000000")
	p.Clear(projection.Viewport{Width: 10 * cellWidth, Height: cellHeight})
	_ = p.Draw(textItem("aaaa", 40, 8))
	_ = p.Draw(textItem("b", 40, 8))
	if got, want := p.Plain(), "   aaba   "; got != want {
		t.Errorf("Plain() = %q, want %q", got, want)
	}

	p.Clear(projection.Viewport{Width: 4 * cellWidth, Height: cellHeight})
	if got, want := p.Plain(), "    "; got != want {
		t.Errorf("Plain() after Clear = %q, want %q", got, want)
	}
}

func TestCellPainterIcon(t *testing.T) {
	p := newCellPainter("#000000")
	p.Clear(projection.Viewport{Width: 10 * cellWidth, Height: cellHeight})
	_ = p.Draw(projection.Item{Tag: tags.Tag{Image: "logo.png"}, X: 40, Y: 8, Color: "#ff0000", Opacity: 1})
	if !strings.Contains(p.Plain(), iconGlyph) {
		t.Errorf("Plain() = %q, want the icon glyph", p.Plain())
	}
}

func TestCellPainterInk(t *testing.T) {
	p := newCellPainter("#000000")
	tests := []struct {
		hex     string
		opacity float64
		want    string
	}{
		{"#ffffff", 1, "#ffffff"},
		{"#ffffff", 0, "#000000"},
		{"#ffffff", 3, "#ffffff"},
		{"bogus", 1, "bogus"},
	}
	for _, tt := range tests {
		if got := p.ink(tt.hex, tt.opacity); got != tt.want {
			t.Errorf("ink(%q, %v) = %q, want %q", tt.hex, tt.opacity, got, tt.want)
		}
	}
}

func TestGridSize(t *testing.T) {
	tests := []struct {
		vp         projection.Viewport
		cols, rows int
	}{
		{projection.Viewport{Width: 640, Height: 352}, 80, 22},
		{projection.Viewport{Width: 4, Height: 4}, 1, 1},
		{projection.Viewport{Width: 17, Height: 33}, 2, 2},
	}
	for _, tt := range tests {
		cols, rows := gridSize(tt.vp)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("gridSize(%v) = %d,%d, want %d,%d", tt.vp, cols, rows, tt.cols, tt.rows)
		}
	}
	if x, y := cellCenter(2, 1); x != 20 || y != 24 {
		t.Errorf("cellCenter(2, 1) = %v,%v, want 20,24", x, y)
	}
}
