package projection

import (
	"math"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/layout"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

type fixedOverrides map[int]Override

func (f fixedOverrides) Override(i int) (Override, bool) {
	o, ok := f[i]
	return o, ok
}

func cloud(n int) []tags.Tag {
	list := make([]tags.Tag, n)
	for i := range list {
		list[i] = tags.Tag{Index: i, Text: "tag", Color: "#ffffff"}
	}
	layout.Apply(layout.Sphere, list, 200, layout.Params{})
	return list
}

func TestPerspective(t *testing.T) {
	tests := []struct {
		name   string
		cx, z  float64
		want   float64
		wantOK bool
	}{
		{"at plane", 300, 0, 1, true},
		{"far", 300, 600, 0.5, true},
		{"near", 300, -300, 2, true},
		{"behind viewer", 300, -600, 1, false},
		{"past viewer", 300, -900, 1, false},
		{"nan", 300, math.NaN(), 1, false},
		{"inf", 300, math.Inf(1), 1, false},
		{"empty viewport", 0, 10, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Perspective(tt.cx, tt.z)
			if math.Abs(got-tt.want) > 1e-12 || ok != tt.wantOK {
				t.Errorf("Perspective(%v, %v) = %v, %v; want %v, %v", tt.cx, tt.z, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDrawOrderNonIncreasingZ(t *testing.T) {
	list := cloud(120)
	vp := Viewport{Width: 600, Height: 400}
	for step := 0; step < 20; step++ {
		r := geom.NewRotation(0.07, 0.11)
		for i := range list {
			list[i].Pos = r.Apply(list[i].Pos)
		}
		f := Project(list, nil, vp, Options{Radius: 200, FontSize: 16})
		if len(f.Items) != len(list) {
			t.Fatalf("Project() returned %d items, want %d", len(f.Items), len(list))
		}
		for i := 1; i < len(f.Items); i++ {
			if f.Items[i].Z > f.Items[i-1].Z {
				t.Fatalf("step %d: item %d z=%v after z=%v", step, i, f.Items[i].Z, f.Items[i-1].Z)
			}
		}
	}
}

func TestStableOrderForEqualDepth(t *testing.T) {
	list := []tags.Tag{
		{Index: 0, Text: "a", Color: "#ffffff"},
		{Index: 1, Text: "b", Color: "#ffffff"},
		{Index: 2, Text: "c", Color: "#ffffff"},
	}
	f := Project(list, nil, Viewport{Width: 100, Height: 100}, Options{Radius: 50, FontSize: 10})
	for i, it := range f.Items {
		if it.Tag.Index != i {
			t.Errorf("item %d has index %d, want %d", i, it.Tag.Index, i)
		}
	}
}

func TestScreenPosition(t *testing.T) {
	list := []tags.Tag{{Index: 0, Text: "a", Color: "#ffffff", Pos: geom.Vec3{X: 100, Y: -50, Z: 600}}}
	f := Project(list, nil, Viewport{Width: 600, Height: 400}, Options{Radius: 200, FontSize: 20})
	it := f.Items[0]
	if it.X != 350 || it.Y != 175 {
		t.Errorf("screen = (%v, %v), want (350, 175)", it.X, it.Y)
	}
	if it.Scale != 0.5 || it.FontSize != 10 {
		t.Errorf("scale = %v font = %v, want 0.5 and 10", it.Scale, it.FontSize)
	}
}

func TestDegenerateDepthFallsBackToCenter(t *testing.T) {
	list := []tags.Tag{
		{Index: 0, Text: "bad", Color: "#ffffff", Pos: geom.Vec3{X: 10, Y: 10, Z: -5000}},
		{Index: 1, Text: "ok", Color: "#ffffff", Pos: geom.Vec3{X: 10, Y: 10, Z: 0}},
	}
	f := Project(list, nil, Viewport{Width: 200, Height: 100}, Options{Radius: 100, FontSize: 10})
	if len(f.Items) != 2 {
		t.Fatalf("Project() returned %d items, want 2", len(f.Items))
	}
	bad, _ := f.Lookup(0)
	if !bad.Degenerate || bad.X != 100 || bad.Y != 50 || bad.Scale != 1 {
		t.Errorf("degenerate item = %+v, want center with scale 1", bad)
	}
	ok, _ := f.Lookup(1)
	if ok.Degenerate || ok.X != 110 || ok.Y != 60 {
		t.Errorf("healthy item = %+v", ok)
	}
}

func TestExcludesUndrawable(t *testing.T) {
	list := []tags.Tag{
		{Index: 0, Color: "#ffffff"},
		{Index: 1, Text: "nan", Color: "#ffffff", Pos: geom.Vec3{X: math.NaN()}},
		{Index: 2, Text: "ok", Color: "#ffffff"},
	}
	f := Project(list, nil, Viewport{Width: 100, Height: 100}, Options{Radius: 10})
	if len(f.Items) != 1 || f.Items[0].Tag.Index != 2 {
		t.Errorf("Project() items = %+v, want only index 2", f.Items)
	}
}

func TestOpacityFalloff(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{-100, 1},
		{0, 0.5},
		{100, 0.15},
		{60, 0.2},
	}
	for _, tt := range tests {
		got := depthOpacity(tt.z, 100, 0.15)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("depthOpacity(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestOverridesApply(t *testing.T) {
	list := []tags.Tag{{Index: 0, Text: "hi", Color: "#ffffff"}}
	ov := fixedOverrides{0: {Scale: 1.5, Color: "#ff0000", Opacity: 0.9}}
	f := Project(list, ov, Viewport{Width: 100, Height: 100}, Options{Radius: 10, FontSize: 10})
	it := f.Items[0]
	if it.Scale != 1.5 || it.FontSize != 15 {
		t.Errorf("scale = %v font = %v, want 1.5 and 15", it.Scale, it.FontSize)
	}
	if it.Color != "#ff0000" || it.Opacity != 0.9 {
		t.Errorf("color = %v opacity = %v", it.Color, it.Opacity)
	}
	if it.Tag.Color != "#ffffff" {
		t.Errorf("override leaked into tag content: %v", it.Tag.Color)
	}
}

func TestBoxContains(t *testing.T) {
	b := Box{X: 10, Y: 10, W: 4, H: 2}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{12, 11, true},
		{8, 9, true},
		{12.01, 10, false},
		{10, 11.5, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRuneMeasurer(t *testing.T) {
	m := RuneMeasurer{}
	w, h := m.Measure(tags.Tag{Text: "go"}, 10)
	if w != 12 || h != 12 {
		t.Errorf("Measure(go) = %v x %v, want 12 x 12", w, h)
	}
	wide, _ := m.Measure(tags.Tag{Text: "日本"}, 10)
	if wide != 24 {
		t.Errorf("Measure(日本) width = %v, want 24", wide)
	}
	iw, ih := m.Measure(tags.Tag{Image: "x.png"}, 10)
	if iw != 20 || ih != 20 {
		t.Errorf("Measure(image) = %v x %v, want 20 x 20", iw, ih)
	}
}
