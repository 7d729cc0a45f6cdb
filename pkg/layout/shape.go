// Package layout places tags on the surface of a parametric 3D shape.
//
// Layout is deterministic: the same shape, count, radius and parameters always
// produce the same coordinates. Running it discards any rotation previously
// applied to the tags.
//
// # Shapes
//
//   - sphere: golden-angle spiral, even angular coverage
//   - cube: cubic grid of side ceil(cbrt(N)) with the center cell skipped
//   - pyramid: square rings of decreasing radius stacked upward
//   - helix: two turns around a vertical cylinder
//   - ring: horizontal circle in the XZ plane
//   - verticalRing: vertical circle in the YZ plane
//   - cylinder: ceil(sqrt(N)) angular positions per level
//   - torus: major x minor grid wrapped around both circles
//   - plane: flat grid in the XZ plane
package layout

import (
	"slices"
	"strings"
)

// Shape names a placement algorithm.
type Shape string

const (
	Sphere       Shape = "sphere"
	Cube         Shape = "cube"
	Pyramid      Shape = "pyramid"
	Helix        Shape = "helix"
	Ring         Shape = "ring"
	VerticalRing Shape = "verticalRing"
	Cylinder     Shape = "cylinder"
	Torus        Shape = "torus"
	Plane        Shape = "plane"
)

// Default is used for empty or unknown shape names.
const Default = Sphere

// All lists every supported shape in documentation order.
var All = []Shape{Sphere, Cube, Pyramid, Helix, Ring, VerticalRing, Cylinder, Torus, Plane}

// Descriptions maps each shape to a one-line summary of its placement rule.
var Descriptions = map[Shape]string{
	Sphere:       "golden-angle spiral over the sphere surface",
	Cube:         "cubic grid of side ceil(cbrt(N)), center cell skipped",
	Pyramid:      "ceil(sqrt(N)) square rings shrinking toward the apex",
	Helix:        "two turns around a vertical cylinder, height step 2R/N",
	Ring:         "horizontal circle in the XZ plane, spin only",
	VerticalRing: "vertical circle in the YZ plane, tilt only",
	Cylinder:     "ceil(sqrt(N)) angular positions per stacked level",
	Torus:        "ceil(sqrt(N)) x minor grid around major/minor circles",
	Plane:        "flat grid in the XZ plane, ceil(sqrt(N)) columns",
}

// ParseShape resolves a shape name. Matching ignores case and the
// "-"/"_" separators, so "vertical-ring" resolves to VerticalRing. Unknown
// names return Default and false.
func ParseShape(name string) (Shape, bool) {
	key := normalize(name)
	for _, s := range All {
		if normalize(string(s)) == key {
			return s, true
		}
	}
	return Default, false
}

// Valid reports whether s is one of the supported shapes.
func (s Shape) Valid() bool {
	return slices.Contains(All, s)
}

// LocksTilt reports whether rotation around the horizontal axis is suppressed
// for s, keeping horizontal shapes visually planar.
func (s Shape) LocksTilt() bool {
	return s == Ring || s == Helix
}

// LocksSpin reports whether rotation around the vertical axis is suppressed
// for s.
func (s Shape) LocksSpin() bool {
	return s == VerticalRing
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}
