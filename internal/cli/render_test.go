package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/engine"
	"github.com/matzehuels/tagcloud/pkg/projection"
	"github.com/matzehuels/tagcloud/pkg/settings"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "svg"},
		{"cloud.svg", "svg"},
		{"out/cloud.png", "png"},
		{"frame.json", "json"},
		{"cloud.pdf", "svg"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := formatFromPath(tt.path); got != tt.want {
				t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if err := validateFormat(tt.format); (err != nil) != tt.wantErr {
				t.Errorf("validateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		x, y    float64
		wantErr bool
	}{
		{"10,20", 10, 20, false},
		{"-3.5,0.25", -3.5, 0.25, false},
		{"10", 0, 0, true},
		{"a,b", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, err := parsePoint(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if x != tt.x || y != tt.y {
				t.Errorf("parsePoint(%q) = %v,%v, want %v,%v", tt.in, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestParseDrag(t *testing.T) {
	x1, y1, x2, y2, err := parseDrag("1,2:30,40")
	if err != nil {
		t.Fatalf("parseDrag() error: %v", err)
	}
	if x1 != 1 || y1 != 2 || x2 != 30 || y2 != 40 {
		t.Errorf("parseDrag() = %v,%v:%v,%v, want 1,2:30,40", x1, y1, x2, y2)
	}
	for _, bad := range []string{"1,2", "1,2:x", "a:3,4"} {
		if _, _, _, _, err := parseDrag(bad); err == nil {
			t.Errorf("parseDrag(%q) error = nil, want error", bad)
		}
	}
}

func TestParseTagFlag(t *testing.T) {
	tests := []struct {
		raw   string
		i     int
		text  string
		color string
	}{
		{"go", 0, "go", palette[0]},
		{"rust:#dea584", 1, "rust", "#dea584"},
		{"c++", 9, "c++", palette[1]},
		{"ns:key:#112233", 2, "ns:key", "#112233"},
		{"ns:key", 3, "ns:key", palette[3]},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := parseTagFlag(tt.raw, tt.i)
			if got.Text != tt.text || got.Color != tt.color {
				t.Errorf("parseTagFlag(%q) = %q %q, want %q %q", tt.raw, got.Text, got.Color, tt.text, tt.color)
			}
		})
	}
}

func TestDemoTagsAreValid(t *testing.T) {
	for _, tg := range demoTags() {
		if err := tags.Validate(tg); err != nil {
			t.Errorf("demo tag %q invalid: %v", tg.Text, err)
		}
	}
}

func TestHeadlessDrag(t *testing.T) {
	opts := engine.Options{
		Settings: settings.Defaults(),
		Tags:     demoTags(),
		Viewport: projection.Viewport{Width: 600, Height: 600},
	}
	idle := newHeadless(opts)
	dragged := newHeadless(opts)
	defer idle.engine.Destroy()
	defer dragged.engine.Destroy()

	idle.run(dragSteps + 1)
	dragged.drag(300, 300, 400, 300)

	if idle.queue.Frames() != dragged.queue.Frames() {
		t.Fatalf("frames = %d and %d, want equal", idle.queue.Frames(), dragged.queue.Frames())
	}
	if idle.engine.State().Velocity == dragged.engine.State().Velocity {
		t.Errorf("velocity after drag = %v, want it to differ from idle %v",
			dragged.engine.State().Velocity, idle.engine.State().Velocity)
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()

	tests := []struct {
		name  string
		file  string
		args  []string
		check func(t *testing.T, data []byte)
	}{
		{
			name: "svg",
			file: "cloud.svg",
			args: []string{"-t", "go:#00add8", "-t", "rust", "--title", "langs", "--ticks", "5"},
			check: func(t *testing.T, data []byte) {
				svg := string(data)
				for _, want := range []string{"<title>langs</title>", ">go</text>", ">rust</text>"} {
					if !strings.Contains(svg, want) {
						t.Errorf("svg missing %q", want)
					}
				}
			},
		},
		{
			name: "json with click",
			file: "frame.json",
			args: []string{"-t", "solo", "--shape", "plane", "--click", "300,300", "--ticks", "1"},
			check: func(t *testing.T, data []byte) {
				var out struct {
					Instance string            `json:"instance"`
					Items    []json.RawMessage `json:"items"`
					Settings settings.Settings `json:"settings"`
				}
				if err := json.Unmarshal(data, &out); err != nil {
					t.Fatalf("json.Unmarshal() error: %v", err)
				}
				if out.Instance == "" || len(out.Items) != 1 {
					t.Errorf("json instance = %q items = %d, want an instance and 1 item", out.Instance, len(out.Items))
				}
				if out.Settings.Shape != "plane" {
					t.Errorf("json shape = %q, want plane", out.Settings.Shape)
				}
			},
		},
		{
			name: "png",
			file: "cloud.png",
			args: []string{"--width", "120", "--height", "80", "--ticks", "1"},
			check: func(t *testing.T, data []byte) {
				if !strings.HasPrefix(string(data), "\x89PNG") {
					t.Errorf("png output does not start with the PNG signature")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.file)
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetArgs(append([]string{"render", "-o", out}, tt.args...))
			if err := root.ExecuteContext(t.Context()); err != nil {
				t.Fatalf("render error: %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("ReadFile() error: %v", err)
			}
			tt.check(t, data)
		})
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"render", "-f", "gif"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(t.Context()); err == nil {
		t.Error("render -f gif error = nil, want error")
	}
}
