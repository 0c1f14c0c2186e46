package collision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// parallelEpsilon is the relative tolerance under which two segments are treated as parallel.
const parallelEpsilon = 1e-6

// closestPointsOnSegments returns the pair of closest points between segment p1-q1 and segment p2-q2.
// Parallel segments resolve to the segment-1 endpoint whose projection lies nearest the middle of segment 2.
func closestPointsOnSegments(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	r := q1.Sub(p1)
	s := q2.Sub(p2)
	w := p2.Sub(p1)

	a := r.Dot(s)
	b := r.Dot(r)
	c := s.Dot(s)
	d := s.Dot(w)
	e := r.Dot(w)

	if c == 0 {
		// segment 2 is a point
		t1 := float32(0)
		if b > 0 {
			t1 = mgl32.Clamp(e/b, 0, 1)
		}
		return lerp(p1, q1, t1), p2
	}

	var t1, t2 float32
	divisor := b*c - a*a
	if divisor <= parallelEpsilon*b*c {
		d1 := -d / c
		d2 := (a - d) / c
		if math32.Abs(d1-0.5) < math32.Abs(d2-0.5) {
			t1, t2 = 0, d1
		} else {
			t1, t2 = 1, d2
		}
	} else {
		t1 = (e*c - a*d) / divisor
		t2 = (t1*a - d) / c
	}

	t1 = mgl32.Clamp(t1, 0, 1)
	t2 = mgl32.Clamp(t2, 0, 1)
	return lerp(p1, q1, t1), lerp(p2, q2, t2)
}
