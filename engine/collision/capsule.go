package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Capsule is a line segment swept by a sphere.
// Capsules are values: Translate returns a moved copy.
type Capsule struct {
	Start  mgl32.Vec3
	End    mgl32.Vec3
	Radius float32
}

// NewCapsule creates a capsule from its segment endpoints and radius.
//
// Parameters:
//   - start: the bottom segment endpoint
//   - end: the top segment endpoint
//   - radius: the sweep radius
//
// Returns:
//   - Capsule: the capsule
func NewCapsule(start, end mgl32.Vec3, radius float32) Capsule {
	return Capsule{Start: start, End: end, Radius: radius}
}

// Translate returns the capsule moved by v. The segment length is preserved.
//
// Parameters:
//   - v: the offset
//
// Returns:
//   - Capsule: the moved capsule
func (c Capsule) Translate(v mgl32.Vec3) Capsule {
	c.Start = c.Start.Add(v)
	c.End = c.End.Add(v)
	return c
}

// Center returns the midpoint of the capsule's segment.
func (c Capsule) Center() mgl32.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

// Bounds returns the axis-aligned box enclosing the capsule.
func (c Capsule) Bounds() Box {
	r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	b := EmptyBox().ExpandByPoint(c.Start).ExpandByPoint(c.End)
	b.Min = b.Min.Sub(r)
	b.Max = b.Max.Add(r)
	return b
}

// IntersectsBox reports whether the capsule reaches into the box on all three axis pairs.
// The test is conservative: it may report overlap for boxes near the rounded caps.
//
// Parameters:
//   - b: the box
//
// Returns:
//   - bool: true if the capsule may touch the box
func (c Capsule) IntersectsBox(b Box) bool {
	s, e, r := c.Start, c.End, c.Radius
	return checkAxisPair(s[0], s[1], e[0], e[1], b.Min[0], b.Max[0], b.Min[1], b.Max[1], r) &&
		checkAxisPair(s[0], s[2], e[0], e[2], b.Min[0], b.Max[0], b.Min[2], b.Max[2], r) &&
		checkAxisPair(s[1], s[2], e[1], e[2], b.Min[1], b.Max[1], b.Min[2], b.Max[2], r)
}

func checkAxisPair(p1x, p1y, p2x, p2y, minx, maxx, miny, maxy, radius float32) bool {
	return (minx-p1x < radius || minx-p2x < radius) &&
		(p1x-maxx < radius || p2x-maxx < radius) &&
		(miny-p1y < radius || miny-p2y < radius) &&
		(p1y-maxy < radius || p2y-maxy < radius)
}

// intersectTriangle tests the capsule against a single triangle.
// The returned contact pushes the capsule out of the triangle along Normal by Depth.
func (c Capsule) intersectTriangle(t Triangle) (Contact, bool) {
	d1 := t.DistanceToPoint(c.Start) - c.Radius
	d2 := t.DistanceToPoint(c.End) - c.Radius

	if (d1 > 0 && d2 > 0) || (d1 < -c.Radius && d2 < -c.Radius) {
		return Contact{}, false
	}

	var delta float32
	if sum := math32.Abs(d1) + math32.Abs(d2); sum > 0 {
		delta = math32.Abs(d1 / sum)
	}
	point := lerp(c.Start, c.End, delta)
	if t.ContainsPoint(point) {
		return Contact{Normal: t.Normal(), Depth: math32.Abs(math32.Min(d1, d2))}, true
	}

	r2 := c.Radius * c.Radius
	edges := [3][2]mgl32.Vec3{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
	for _, edge := range edges {
		p1, p2 := closestPointsOnSegments(c.Start, c.End, edge[0], edge[1])
		diff := p1.Sub(p2)
		if distSq := diff.Dot(diff); distSq < r2 {
			dist := math32.Sqrt(distSq)
			if dist == 0 {
				// segment passes through the edge: fall back to the plane normal
				return Contact{Normal: t.Normal(), Depth: c.Radius}, true
			}
			return Contact{Normal: diff.Mul(1 / dist), Depth: c.Radius - dist}, true
		}
	}
	return Contact{}, false
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
