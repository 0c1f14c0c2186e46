package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing; expanding it by a point yields a box around that point.
//
// Returns:
//   - Box: the empty box
func EmptyBox() Box {
	inf := math32.Inf(1)
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box has a negative extent on any axis.
//
// Returns:
//   - bool: true if the box contains no points
func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to include p.
//
// Parameters:
//   - p: the point to include
//
// Returns:
//   - Box: the expanded box
func (b Box) ExpandByPoint(p mgl32.Vec3) Box {
	for i := range 3 {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Union returns the smallest box containing both boxes.
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - Box: the union
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

// Center returns the midpoint of the box.
//
// Returns:
//   - mgl32.Vec3: the center
func (b Box) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis.
//
// Returns:
//   - mgl32.Vec3: the size, zero for an empty box
func (b Box) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether p lies inside or on the boundary of the box.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if contained
func (b Box) ContainsPoint(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Intersects reports whether two boxes overlap (touching counts).
//
// Parameters:
//   - o: the other box
//
// Returns:
//   - bool: true if the boxes overlap
func (b Box) Intersects(o Box) bool {
	return !(o.Max[0] < b.Min[0] || o.Min[0] > b.Max[0] ||
		o.Max[1] < b.Min[1] || o.Min[1] > b.Max[1] ||
		o.Max[2] < b.Min[2] || o.Min[2] > b.Max[2])
}

// IntersectsTriangle runs a separating axis test between the box and a triangle.
//
// Parameters:
//   - ta, tb, tc: the triangle vertices
//
// Returns:
//   - bool: true if the triangle touches the box
func (b Box) IntersectsTriangle(ta, tb, tc mgl32.Vec3) bool {
	if b.IsEmpty() {
		return false
	}

	center := b.Center()
	extents := b.Max.Sub(center)

	v0 := ta.Sub(center)
	v1 := tb.Sub(center)
	v2 := tc.Sub(center)

	f0 := v1.Sub(v0)
	f1 := v2.Sub(v1)
	f2 := v0.Sub(v2)

	// cross products of the box axes with the triangle edges
	edgeAxes := [9]mgl32.Vec3{
		{0, -f0[2], f0[1]}, {0, -f1[2], f1[1]}, {0, -f2[2], f2[1]},
		{f0[2], 0, -f0[0]}, {f1[2], 0, -f1[0]}, {f2[2], 0, -f2[0]},
		{-f0[1], f0[0], 0}, {-f1[1], f1[0], 0}, {-f2[1], f2[0], 0},
	}
	if !overlapOnAxes(edgeAxes[:], v0, v1, v2, extents) {
		return false
	}

	boxAxes := [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if !overlapOnAxes(boxAxes[:], v0, v1, v2, extents) {
		return false
	}

	normal := [1]mgl32.Vec3{f0.Cross(f1)}
	return overlapOnAxes(normal[:], v0, v1, v2, extents)
}

// overlapOnAxes returns false as soon as one of the axes separates the triangle from the box.
func overlapOnAxes(axes []mgl32.Vec3, v0, v1, v2, extents mgl32.Vec3) bool {
	for _, axis := range axes {
		r := extents[0]*math32.Abs(axis[0]) + extents[1]*math32.Abs(axis[1]) + extents[2]*math32.Abs(axis[2])
		p0 := v0.Dot(axis)
		p1 := v1.Dot(axis)
		p2 := v2.Dot(axis)
		if math32.Max(-math32.Max(p0, math32.Max(p1, p2)), math32.Min(p0, math32.Min(p1, p2))) > r {
			return false
		}
	}
	return true
}

// IntersectsRay runs a slab test between the box and a ray.
//
// Parameters:
//   - origin: ray origin
//   - dir: ray direction (need not be normalized)
//
// Returns:
//   - bool: true if the ray hits the box at a non-negative distance
func (b Box) IntersectsRay(origin, dir mgl32.Vec3) bool {
	if b.IsEmpty() {
		return false
	}
	tmin := math32.Inf(-1)
	tmax := math32.Inf(1)
	for i := range 3 {
		if dir[i] == 0 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return tmax >= 0
}
