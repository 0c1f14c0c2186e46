package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTriangle(t *testing.T) {
	tri, ok := NewTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 1})
	require.True(t, ok)
	n := tri.Normal()
	assert.InDeltaSlice(t, []float32{0, 1, 0}, n[:], 1e-6)
	assert.InDelta(t, 2, tri.DistanceToPoint(mgl32.Vec3{5, 2, 5}), 1e-6)
	assert.InDelta(t, -1, tri.DistanceToPoint(mgl32.Vec3{0, -1, 0}), 1e-6)

	_, ok = NewTriangle(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2})
	assert.False(t, ok)
}

func TestTriangleContainsPoint(t *testing.T) {
	tri, ok := NewTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 1})
	require.True(t, ok)

	tests := []struct {
		name string
		p    mgl32.Vec3
		want bool
	}{
		{"inside", mgl32.Vec3{0.2, 0, 0.7}, true},
		{"above inside", mgl32.Vec3{0.2, 3, 0.7}, true},
		{"vertex", mgl32.Vec3{0, 0, 0}, true},
		{"outside", mgl32.Vec3{0.8, 0, 0.2}, false},
		{"far away", mgl32.Vec3{-3, 0, 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tri.ContainsPoint(tt.p))
		})
	}
}

func TestClosestPointsOnSegments(t *testing.T) {
	tests := []struct {
		name           string
		p1, q1, p2, q2 mgl32.Vec3
		want1, want2   mgl32.Vec3
	}{
		{
			name: "perpendicular",
			p1:   mgl32.Vec3{-1, 0, 0}, q1: mgl32.Vec3{1, 0, 0},
			p2: mgl32.Vec3{0.5, 1, -1}, q2: mgl32.Vec3{0.5, 1, 1},
			want1: mgl32.Vec3{0.5, 0, 0}, want2: mgl32.Vec3{0.5, 1, 0},
		},
		{
			name: "skew",
			p1:   mgl32.Vec3{0, 0, 0}, q1: mgl32.Vec3{2, 0, 0},
			p2: mgl32.Vec3{0, 1, -1}, q2: mgl32.Vec3{2, 1, 1},
			want1: mgl32.Vec3{1, 0, 0}, want2: mgl32.Vec3{1, 1, 0},
		},
		{
			name: "clamped to endpoints",
			p1:   mgl32.Vec3{0, 0, 0}, q1: mgl32.Vec3{1, 0, 0},
			p2: mgl32.Vec3{3, 1, 0}, q2: mgl32.Vec3{3, 2, 0},
			want1: mgl32.Vec3{1, 0, 0}, want2: mgl32.Vec3{3, 1, 0},
		},
		{
			name: "parallel",
			p1:   mgl32.Vec3{0, 0, 0}, q1: mgl32.Vec3{0, 1, 0},
			p2: mgl32.Vec3{1, 0.25, 0}, q2: mgl32.Vec3{1, 5, 0},
			want1: mgl32.Vec3{0, 1, 0}, want2: mgl32.Vec3{1, 1, 0},
		},
		{
			name: "point segment",
			p1:   mgl32.Vec3{0, 0, 0}, q1: mgl32.Vec3{0, 2, 0},
			p2: mgl32.Vec3{1, 1, 0}, q2: mgl32.Vec3{1, 1, 0},
			want1: mgl32.Vec3{0, 1, 0}, want2: mgl32.Vec3{1, 1, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := closestPointsOnSegments(tt.p1, tt.q1, tt.p2, tt.q2)
			assert.InDeltaSlice(t, tt.want1[:], a[:], 1e-5)
			assert.InDeltaSlice(t, tt.want2[:], b[:], 1e-5)
		})
	}
}

func TestCapsuleTranslateKeepsLength(t *testing.T) {
	c := NewCapsule(mgl32.Vec3{0, 0.35, 0}, mgl32.Vec3{0, 1, 0}, 0.66)
	moved := c.Translate(mgl32.Vec3{1, 2, 3})

	assert.Equal(t, mgl32.Vec3{1, 3, 3}, moved.End)
	assert.InDelta(t, c.End.Sub(c.Start).Len(), moved.End.Sub(moved.Start).Len(), 1e-6)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.End, "original is unchanged")
}

func TestCapsuleBoundsAndBoxTest(t *testing.T) {
	c := NewCapsule(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 0.5)
	b := c.Bounds()
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, b.Min)
	assert.Equal(t, mgl32.Vec3{0.5, 1.5, 0.5}, b.Max)

	assert.True(t, c.IntersectsBox(Box{Min: mgl32.Vec3{0.2, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}))
	assert.False(t, c.IntersectsBox(Box{Min: mgl32.Vec3{2, 0, 0}, Max: mgl32.Vec3{3, 1, 1}}))
	assert.False(t, c.IntersectsBox(Box{Min: mgl32.Vec3{-1, 3, -1}, Max: mgl32.Vec3{1, 4, 1}}))
}

func TestBoxIntersectsTriangle(t *testing.T) {
	box := Box{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}

	assert.True(t, box.IntersectsTriangle(mgl32.Vec3{-1, 0.5, -1}, mgl32.Vec3{-1, 0.5, 3}, mgl32.Vec3{3, 0.5, 3}))
	assert.False(t, box.IntersectsTriangle(mgl32.Vec3{-1, 2, -1}, mgl32.Vec3{-1, 2, 3}, mgl32.Vec3{3, 2, 3}))
	// bounding boxes overlap but the triangle misses the corner
	assert.False(t, box.IntersectsTriangle(mgl32.Vec3{0.8, 0, 2}, mgl32.Vec3{2, 0, 0.8}, mgl32.Vec3{2, 0, 2}))
	assert.False(t, EmptyBox().IntersectsTriangle(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}))
}

func TestBoxIntersectsRay(t *testing.T) {
	box := Box{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	assert.True(t, box.IntersectsRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0}))
	assert.True(t, box.IntersectsRay(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}), "origin inside")
	assert.False(t, box.IntersectsRay(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0}))
	assert.False(t, box.IntersectsRay(mgl32.Vec3{3, 5, 0}, mgl32.Vec3{0, -1, 0}))
}

func TestBoxUnionAndEmpty(t *testing.T) {
	assert.True(t, EmptyBox().IsEmpty())
	assert.Equal(t, mgl32.Vec3{}, EmptyBox().Size())

	b := EmptyBox().ExpandByPoint(mgl32.Vec3{1, 2, 3})
	assert.False(t, b.IsEmpty())
	b = b.Union(Box{Min: mgl32.Vec3{-1, 0, 0}, Max: mgl32.Vec3{0, 0, 5}})
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 5}, b.Max)
	assert.True(t, b.ContainsPoint(mgl32.Vec3{0, 1, 4}))
	assert.Equal(t, b, b.Union(EmptyBox()))
}
