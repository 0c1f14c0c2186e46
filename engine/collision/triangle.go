package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// minTriangleArea2 is the squared doubled-area under which a triangle is treated as degenerate.
const minTriangleArea2 = 1e-12

// Triangle is a world-space triangle with its supporting plane precomputed.
// The front face winds counter-clockwise.
type Triangle struct {
	A, B, C mgl32.Vec3

	normal   mgl32.Vec3
	constant float32
	bounds   Box
}

// NewTriangle builds a Triangle from three vertices.
//
// Parameters:
//   - a, b, c: the vertices in counter-clockwise order
//
// Returns:
//   - Triangle: the triangle
//   - bool: false if the triangle is degenerate or has non-finite vertices
func NewTriangle(a, b, c mgl32.Vec3) (Triangle, bool) {
	n := c.Sub(b).Cross(a.Sub(b))
	l2 := n.Dot(n)
	if l2 < minTriangleArea2 || math32.IsNaN(l2) || math32.IsInf(l2, 0) {
		return Triangle{}, false
	}
	n = n.Mul(1 / math32.Sqrt(l2))
	return Triangle{
		A:        a,
		B:        b,
		C:        c,
		normal:   n,
		constant: -n.Dot(a),
		bounds:   EmptyBox().ExpandByPoint(a).ExpandByPoint(b).ExpandByPoint(c),
	}, true
}

// Normal returns the unit normal of the triangle's plane.
func (t Triangle) Normal() mgl32.Vec3 {
	return t.normal
}

// Bounds returns the triangle's bounding box.
func (t Triangle) Bounds() Box {
	return t.bounds
}

// DistanceToPoint returns the signed distance from p to the triangle's plane,
// positive on the front side.
//
// Parameters:
//   - p: the point
//
// Returns:
//   - float32: the signed distance
func (t Triangle) DistanceToPoint(p mgl32.Vec3) float32 {
	return t.normal.Dot(p) + t.constant
}

// ContainsPoint reports whether the projection of p onto the triangle's plane falls inside the triangle.
//
// Parameters:
//   - p: the point
//
// Returns:
//   - bool: true if inside or on an edge
func (t Triangle) ContainsPoint(p mgl32.Vec3) bool {
	v0 := t.C.Sub(t.A)
	v1 := t.B.Sub(t.A)
	v2 := p.Sub(t.A)

	dot00 := v0.Dot(v0)
	dot01 := v0.Dot(v1)
	dot02 := v0.Dot(v2)
	dot11 := v1.Dot(v1)
	dot12 := v1.Dot(v2)

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return false
	}
	inv := 1 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}

// intersectRay returns the distance along dir at which the ray hits the triangle.
// Both faces are hit.
func (t Triangle) intersectRay(origin, dir mgl32.Vec3) (float32, bool) {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < 1e-10 {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(t.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	dist := e2.Dot(q) * inv
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
