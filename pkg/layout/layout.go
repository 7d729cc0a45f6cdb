package layout

import (
	"math"

	"github.com/matzehuels/tagcloud/pkg/geom"
	"github.com/matzehuels/tagcloud/pkg/tags"
)

// Default torus proportions relative to the layout radius.
const (
	DefaultMajorRatio = 0.6
	DefaultMinorRatio = 0.3
)

// helixTurns is the number of full windings of the helix.
const helixTurns = 2

// goldenRatio is φ = (1+√5)/2.
var goldenRatio = (1 + math.Sqrt(5)) / 2

// Params carries shape-specific sub-radii. Zero values select the defaults.
type Params struct {
	MajorRadius float64
	MinorRadius float64
}

// Apply overwrites the position of every tag with its base coordinate on
// shape. An empty slice is a no-op.
func Apply(shape Shape, list []tags.Tag, radius float64, p Params) {
	if len(list) == 0 {
		return
	}
	for i, pos := range Positions(shape, len(list), radius, p) {
		list[i].Pos = pos
	}
}

// Positions returns n base coordinates for shape. Unknown shapes fall back
// to the sphere.
func Positions(shape Shape, n int, radius float64, p Params) []geom.Vec3 {
	if n <= 0 {
		return nil
	}
	switch shape {
	case Cube:
		return cube(n, radius)
	case Pyramid:
		return pyramid(n, radius)
	case Helix:
		return helix(n, radius)
	case Ring:
		return ring(n, radius)
	case VerticalRing:
		return verticalRing(n, radius)
	case Cylinder:
		return cylinder(n, radius)
	case Torus:
		return torus(n, radius, p)
	case Plane:
		return plane(n, radius)
	default:
		return sphere(n, radius)
	}
}

func sphere(n int, r float64) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		phi := math.Acos(1 - 2*float64(i)/float64(n))
		theta := float64(i) * 2 * math.Pi * goldenRatio
		sinPhi, cosPhi := math.Sincos(phi)
		sinTheta, cosTheta := math.Sincos(theta)
		out[i] = geom.Vec3{
			X: r * sinPhi * cosTheta,
			Y: r * sinPhi * sinTheta,
			Z: r * cosPhi,
		}
	}
	return out
}

// cube fills a side^3 grid. Cell offsets are odd integers in
// [-(side-1), side-1], so an odd side has an exact center cell which is
// skipped.
func cube(n int, r float64) []geom.Vec3 {
	side := int(math.Ceil(math.Cbrt(float64(n)) - 1e-9))
	if side < 1 {
		side = 1
	}
	if side%2 == 1 && side*side*side-1 < n {
		side++
	}
	step := r / float64(side)
	threshold := 0.5

	out := make([]geom.Vec3, 0, n)
	for ix := 0; ix < side && len(out) < n; ix++ {
		for iy := 0; iy < side && len(out) < n; iy++ {
			for iz := 0; iz < side && len(out) < n; iz++ {
				cx := float64(2*ix - (side - 1))
				cy := float64(2*iy - (side - 1))
				cz := float64(2*iz - (side - 1))
				if math.Abs(cx) < threshold && math.Abs(cy) < threshold && math.Abs(cz) < threshold {
					continue
				}
				out = append(out, geom.Vec3{X: cx * step, Y: cy * step, Z: cz * step})
			}
		}
	}
	return out
}

// pyramid distributes tags over ceil(sqrt(n)) square rings. Level 0 is the
// base at the bottom (Y grows downward) and receives the most tags.
func pyramid(n int, r float64) []geom.Vec3 {
	levels := int(math.Ceil(math.Sqrt(float64(n))))
	counts := make([]int, levels)
	weight := levels * (levels + 1) / 2
	assigned := 0
	for l := range counts {
		counts[l] = n * (levels - l) / weight
		assigned += counts[l]
	}
	for l := 0; assigned < n; l = (l + 1) % levels {
		counts[l]++
		assigned++
	}

	out := make([]geom.Vec3, 0, n)
	for l, k := range counts {
		half := r * (1 - float64(l)/float64(levels))
		y := 0.0
		if levels > 1 {
			y = r * (1 - 2*float64(l)/float64(levels-1))
		}
		for j := 0; j < k; j++ {
			x, z := squarePerimeter(half, float64(j)/float64(k))
			out = append(out, geom.Vec3{X: x, Y: y, Z: z})
		}
	}
	return out
}

// squarePerimeter maps t in [0,1) to a point on the boundary of the square
// [-half, half]^2, walking the four sides in order.
func squarePerimeter(half, t float64) (x, z float64) {
	s := t * 4
	side := int(s)
	f := s - float64(side)
	edge := -half + 2*half*f
	switch side {
	case 0:
		return edge, -half
	case 1:
		return half, edge
	case 2:
		return -edge, half
	default:
		return -half, -edge
	}
}

func helix(n int, r float64) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	spacing := 2 * r / float64(n)
	for i := range out {
		angle := helixTurns * 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sincos(angle)
		out[i] = geom.Vec3{
			X: r * cos,
			Y: -r + spacing*(float64(i)+0.5),
			Z: r * sin,
		}
	}
	return out
}

func ring(n int, r float64) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		out[i] = geom.Vec3{X: r * cos, Y: 0, Z: r * sin}
	}
	return out
}

func verticalRing(n int, r float64) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		out[i] = geom.Vec3{X: 0, Y: r * cos, Z: r * sin}
	}
	return out
}

func cylinder(n int, r float64) []geom.Vec3 {
	perLevel := int(math.Ceil(math.Sqrt(float64(n))))
	levels := (n + perLevel - 1) / perLevel
	out := make([]geom.Vec3, n)
	for i := range out {
		level, j := i/perLevel, i%perLevel
		// Alternate levels are offset by half a step so columns interleave.
		angle := 2*math.Pi*float64(j)/float64(perLevel) + float64(level)*math.Pi/float64(perLevel)
		y := 0.0
		if levels > 1 {
			y = -r + float64(level)*2*r/float64(levels-1)
		}
		sin, cos := math.Sincos(angle)
		out[i] = geom.Vec3{X: r * cos, Y: y, Z: r * sin}
	}
	return out
}

func torus(n int, r float64, p Params) []geom.Vec3 {
	major := p.MajorRadius
	if major <= 0 {
		major = DefaultMajorRatio * r
	}
	minor := p.MinorRadius
	if minor <= 0 {
		minor = DefaultMinorRatio * r
	}
	majorSteps := int(math.Ceil(math.Sqrt(float64(n))))
	minorSteps := (n + majorSteps - 1) / majorSteps

	out := make([]geom.Vec3, n)
	for i := range out {
		u := 2 * math.Pi * float64(i/minorSteps) / float64(majorSteps)
		v := 2 * math.Pi * float64(i%minorSteps) / float64(minorSteps)
		sinU, cosU := math.Sincos(u)
		sinV, cosV := math.Sincos(v)
		d := major + minor*cosV
		out[i] = geom.Vec3{X: d * cosU, Y: minor * sinV, Z: d * sinU}
	}
	return out
}

func plane(n int, r float64) []geom.Vec3 {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	out := make([]geom.Vec3, n)
	for i := range out {
		col, row := i%cols, i/cols
		out[i] = geom.Vec3{
			X: -r + (float64(col)+0.5)*2*r/float64(cols),
			Y: 0,
			Z: -r + (float64(row)+0.5)*2*r/float64(rows),
		}
	}
	return out
}
