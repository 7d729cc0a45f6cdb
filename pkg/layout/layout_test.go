package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

func makeTags(n int) []tags.Tag {
	list := make([]tags.Tag, n)
	for i := range list {
		list[i] = tags.Tag{Index: i, Text: "t", Color: "#ffffff"}
	}
	return list
}

func TestPositionsFiniteForAllShapes(t *testing.T) {
	for _, shape := range All {
		for _, n := range []int{0, 1, 2, 50, 500} {
			t.Run(string(shape), func(t *testing.T) {
				pts := Positions(shape, n, 200, Params{})
				if len(pts) != n {
					t.Fatalf("Positions(%s, %d) returned %d points", shape, n, len(pts))
				}
				for i, p := range pts {
					if !p.IsFinite() {
						t.Errorf("point %d = %+v is not finite", i, p)
					}
					if p.Len() > 200*math.Sqrt(3)+1e-9 {
						t.Errorf("point %d = %+v lies outside the layout bounds", i, p)
					}
				}
			})
		}
	}
}

func TestApplyEmptyIsNoop(t *testing.T) {
	for _, shape := range All {
		Apply(shape, nil, 100, Params{})
		Apply(shape, []tags.Tag{}, 100, Params{})
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	a := makeTags(37)
	b := makeTags(37)
	Apply(Torus, a, 150, Params{MajorRadius: 90})
	Apply(Torus, b, 150, Params{MajorRadius: 90})
	for i := range a {
		if a[i].Pos != b[i].Pos {
			t.Fatalf("tag %d: %+v != %+v", i, a[i].Pos, b[i].Pos)
		}
	}
}

func TestApplyDiscardsRotation(t *testing.T) {
	list := makeTags(10)
	Apply(Sphere, list, 100, Params{})
	want := list[3].Pos

	r := geom.NewRotation(0.4, 0.9)
	for i := range list {
		list[i].Pos = r.Apply(list[i].Pos)
	}
	Apply(Sphere, list, 100, Params{})
	if list[3].Pos != want {
		t.Errorf("re-layout = %+v, want %+v", list[3].Pos, want)
	}
}

func TestSphereOnSurface(t *testing.T) {
	for i, p := range Positions(Sphere, 200, 120, Params{}) {
		if math.Abs(p.Len()-120) > 1e-9 {
			t.Errorf("point %d has radius %v, want 120", i, p.Len())
		}
	}
}

func TestSphereCoverage(t *testing.T) {
	const n = 500
	pts := Positions(Sphere, n, 1, Params{})
	expected := math.Sqrt(4 * math.Pi / n)

	minNN, maxNN := math.Inf(1), 0.0
	for i, p := range pts {
		nearest := math.Inf(1)
		for j, q := range pts {
			if i == j {
				continue
			}
			angle := math.Acos(geom.Clamp(p.Dot(q), -1, 1))
			nearest = math.Min(nearest, angle)
		}
		minNN = math.Min(minNN, nearest)
		maxNN = math.Max(maxNN, nearest)
	}

	if minNN < 0.25*expected {
		t.Errorf("closest pair %.4f rad is clustered (expected spacing %.4f)", minNN, expected)
	}
	if maxNN > 2*expected {
		t.Errorf("largest nearest-neighbour gap %.4f rad too big (expected spacing %.4f)", maxNN, expected)
	}
}

func TestRingTwoTags(t *testing.T) {
	list := []tags.Tag{
		{Text: "A", Color: "#ffffff"},
		{Text: "B", Color: "#000000"},
	}
	Apply(Ring, list, 100, Params{})

	for i, tag := range list {
		if tag.Pos.Y != 0 {
			t.Errorf("tag %d Y = %v, want 0", i, tag.Pos.Y)
		}
		if math.Abs(tag.Pos.Len()-100) > 1e-9 {
			t.Errorf("tag %d radius = %v, want 100", i, tag.Pos.Len())
		}
	}
	cos := list[0].Pos.Dot(list[1].Pos) / (100 * 100)
	if math.Abs(cos+1) > 1e-9 {
		t.Errorf("tags are %v rad apart, want π", math.Acos(cos))
	}
}

func TestVerticalRingInYZPlane(t *testing.T) {
	for i, p := range Positions(VerticalRing, 12, 80, Params{}) {
		if p.X != 0 {
			t.Errorf("point %d X = %v, want 0", i, p.X)
		}
		if math.Abs(p.Len()-80) > 1e-9 {
			t.Errorf("point %d radius = %v, want 80", i, p.Len())
		}
	}
}

func TestCubeSkipsCenter(t *testing.T) {
	for _, n := range []int{1, 26, 27} {
		for i, p := range Positions(Cube, n, 90, Params{}) {
			if p.Len() < 1e-9 {
				t.Errorf("n=%d point %d sits on the exact center", n, i)
			}
		}
	}
}

func TestCubeDistinctCells(t *testing.T) {
	pts := Positions(Cube, 64, 100, Params{})
	seen := make(map[geom.Vec3]bool)
	for _, p := range pts {
		if seen[p] {
			t.Fatalf("duplicate cube cell %+v", p)
		}
		seen[p] = true
	}
}

func TestHelixSpacing(t *testing.T) {
	const n, r = 20, 100.0
	pts := Positions(Helix, n, r, Params{})
	for i := 1; i < n; i++ {
		if dy := pts[i].Y - pts[i-1].Y; math.Abs(dy-2*r/n) > 1e-9 {
			t.Errorf("step %d height = %v, want %v", i, dy, 2*r/n)
		}
	}
}

func TestTorusRadii(t *testing.T) {
	const r = 100.0
	for i, p := range Positions(Torus, 40, r, Params{}) {
		d := math.Hypot(p.X, p.Z) - DefaultMajorRatio*r
		tube := math.Hypot(d, p.Y)
		if math.Abs(tube-DefaultMinorRatio*r) > 1e-9 {
			t.Errorf("point %d tube distance = %v, want %v", i, tube, DefaultMinorRatio*r)
		}
	}
}

func TestPlaneFlat(t *testing.T) {
	for i, p := range Positions(Plane, 30, 50, Params{}) {
		if p.Y != 0 {
			t.Errorf("point %d Y = %v, want 0", i, p.Y)
		}
	}
}

func TestPyramidLevelsShrink(t *testing.T) {
	pts := Positions(Pyramid, 30, 100, Params{})
	byY := make(map[float64]float64)
	for _, p := range pts {
		byY[p.Y] = math.Max(byY[p.Y], math.Max(math.Abs(p.X), math.Abs(p.Z)))
	}
	if len(byY) != int(math.Ceil(math.Sqrt(30))) {
		t.Errorf("got %d levels, want %d", len(byY), int(math.Ceil(math.Sqrt(30))))
	}
	// Lower levels (larger Y) are wider.
	prevY, prevHalf := math.Inf(1), math.Inf(1)
	for len(byY) > 0 {
		maxY := math.Inf(-1)
		for y := range byY {
			maxY = math.Max(maxY, y)
		}
		half := byY[maxY]
		if maxY < prevY && half > prevHalf+1e-9 {
			t.Errorf("level y=%v half-width %v wider than the level below (%v)", maxY, half, prevHalf)
		}
		prevY, prevHalf = maxY, half
		delete(byY, maxY)
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in     string
		want   Shape
		wantOK bool
	}{
		{"sphere", Sphere, true},
		{"Cube", Cube, true},
		{"verticalRing", VerticalRing, true},
		{"vertical-ring", VerticalRing, true},
		{"vertical_ring", VerticalRing, true},
		{"TORUS", Torus, true},
		{"", Sphere, false},
		{"dodecahedron", Sphere, false},
	}
	for _, tt := range tests {
		got, ok := ParseShape(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseShape(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestUnknownShapeFallsBackToSphere(t *testing.T) {
	got := Positions(Shape("blob"), 10, 100, Params{})
	want := Positions(Sphere, 10, 100, Params{})
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAxisLocks(t *testing.T) {
	for _, s := range All {
		if s.LocksTilt() && s.LocksSpin() {
			t.Errorf("%s locks both axes", s)
		}
	}
	if !Ring.LocksTilt() || !Helix.LocksTilt() || !VerticalRing.LocksSpin() {
		t.Error("ring/helix must lock tilt and verticalRing must lock spin")
	}
}
