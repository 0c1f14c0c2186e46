package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// floorQuad is a 20x20 floor at y=0 facing +Y.
func floorQuad() [][3]mgl32.Vec3 {
	return [][3]mgl32.Vec3{
		{{-10, 0, -10}, {-10, 0, 10}, {10, 0, 10}},
		{{-10, 0, -10}, {10, 0, 10}, {10, 0, -10}},
	}
}

// wallQuad is a wall in the plane x=1 facing -X.
func wallQuad() [][3]mgl32.Vec3 {
	return [][3]mgl32.Vec3{
		{{1, 0, -5}, {1, 0, 5}, {1, 5, 5}},
		{{1, 0, -5}, {1, 5, 5}, {1, 5, -5}},
	}
}

// floorGrid builds an n x n grid of unit quads at y=0 centered on the origin.
func floorGrid(n int) [][3]mgl32.Vec3 {
	var tris [][3]mgl32.Vec3
	half := float32(n) / 2
	for i := range n {
		for j := range n {
			x0, z0 := float32(i)-half, float32(j)-half
			x1, z1 := x0+1, z0+1
			tris = append(tris,
				[3]mgl32.Vec3{{x0, 0, z0}, {x0, 0, z1}, {x1, 0, z1}},
				[3]mgl32.Vec3{{x0, 0, z0}, {x1, 0, z1}, {x1, 0, z0}},
			)
		}
	}
	return tris
}

func playerCapsule(at mgl32.Vec3) Capsule {
	return NewCapsule(at.Add(mgl32.Vec3{0, 0.35, 0}), at.Add(mgl32.Vec3{0, 1, 0}), 0.66)
}

func newTestOctree(tris [][3]mgl32.Vec3, options ...OctreeBuilderOption) Octree {
	return NewOctree(tris, append([]OctreeBuilderOption{WithLogger(zap.NewNop())}, options...)...)
}

func TestCapsuleRestingOnFloorIsPushedUp(t *testing.T) {
	tree := newTestOctree(floorQuad())

	contact, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{2, 0, -3}))
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, contact.Normal[:], 1e-5)
	assert.InDelta(t, 0.31, contact.Depth, 1e-4)
}

func TestCapsuleAboveFloorMisses(t *testing.T) {
	tree := newTestOctree(floorQuad())

	_, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{0, 2, 0}))
	assert.False(t, ok)
}

func TestCapsuleAgainstWall(t *testing.T) {
	tree := newTestOctree(wallQuad())

	contact, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{0.5, 0, 0}))
	require.True(t, ok)
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, contact.Normal[:], 1e-5)
	assert.InDelta(t, 0.16, contact.Depth, 1e-4)

	_, ok = tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{0, 0, 0}))
	assert.False(t, ok, "capsule 1 unit from the wall is clear of it")
}

func TestCapsuleInCornerPushedOutOfBoth(t *testing.T) {
	tree := newTestOctree(append(floorQuad(), wallQuad()...))

	contact, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{0.5, 0, 0}))
	require.True(t, ok)
	assert.Greater(t, contact.Normal.Y(), float32(0))
	assert.Less(t, contact.Normal.X(), float32(0))
	assert.InDelta(t, 1, contact.Normal.Len(), 1e-5)
}

func TestCapsuleAgainstTriangleEdge(t *testing.T) {
	// a ledge ending at x=0; the capsule hangs just past the edge
	tree := newTestOctree([][3]mgl32.Vec3{
		{{-4, 0, -4}, {-4, 0, 4}, {0, 0, 4}},
		{{-4, 0, -4}, {0, 0, 4}, {0, 0, -4}},
	})

	contact, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{0.3, 0, 0}))
	require.True(t, ok)
	assert.Greater(t, contact.Normal.X(), float32(0), "pushed away from the ledge edge")
	assert.Greater(t, contact.Normal.Y(), float32(0))
	assert.Greater(t, contact.Depth, float32(0))
}

func TestEmptyOctree(t *testing.T) {
	tree := newTestOctree(nil)

	assert.Equal(t, 0, tree.TriangleCount())
	assert.True(t, tree.Bounds().IsEmpty())
	_, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{}))
	assert.False(t, ok)
	_, ok = tree.RayIntersect(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, -1, 0})
	assert.False(t, ok)
}

func TestDegenerateTrianglesAreDropped(t *testing.T) {
	tris := append(floorQuad(),
		[3]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		[3]mgl32.Vec3{{3, 3, 3}, {3, 3, 3}, {3, 3, 3}},
	)
	tree := newTestOctree(tris)
	assert.Equal(t, 2, tree.TriangleCount())
}

func TestRayIntersectFindsNearest(t *testing.T) {
	tris := floorQuad()
	// a raised platform above the floor
	tris = append(tris,
		[3]mgl32.Vec3{{1, 2, -4}, {1, 2, -2}, {3, 2, -2}},
		[3]mgl32.Vec3{{1, 2, -4}, {3, 2, -2}, {3, 2, -4}},
	)
	tree := newTestOctree(tris)

	hit, ok := tree.RayIntersect(mgl32.Vec3{2.5, 10, -3.5}, mgl32.Vec3{0, -1, 0})
	require.True(t, ok)
	assert.InDelta(t, 8, hit.Distance, 1e-4)
	assert.InDeltaSlice(t, []float32{2.5, 2, -3.5}, hit.Point[:], 1e-4)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, hit.Normal[:], 1e-5)

	hit, ok = tree.RayIntersect(mgl32.Vec3{-5, 10, 5}, mgl32.Vec3{0, -2, 0})
	require.True(t, ok)
	assert.InDelta(t, 10, hit.Distance, 1e-4)

	_, ok = tree.RayIntersect(mgl32.Vec3{-5, 10, 5}, mgl32.Vec3{0, 1, 0})
	assert.False(t, ok, "ray pointing away")

	_, ok = tree.RayIntersect(mgl32.Vec3{-5, 10, 5}, mgl32.Vec3{})
	assert.False(t, ok, "zero direction")
}

func TestBoundsCoverAllTriangles(t *testing.T) {
	tree := newTestOctree(append(floorQuad(), wallQuad()...))
	b := tree.Bounds()
	assert.Equal(t, mgl32.Vec3{-10, 0, -10}, b.Min)
	assert.Equal(t, mgl32.Vec3{10, 5, 10}, b.Max)
}

func TestLargeWorldParallelMatchesSerial(t *testing.T) {
	tris := floorGrid(60) // 7200 triangles, above the parallel threshold
	parallel := newTestOctree(tris, WithWorkers(4))
	serial := newTestOctree(tris, WithWorkers(1))

	require.Equal(t, len(tris), parallel.TriangleCount())
	require.Equal(t, serial.TriangleCount(), parallel.TriangleCount())

	capsule := playerCapsule(mgl32.Vec3{0.3, 0, 0.7})
	pc, pok := parallel.CapsuleIntersect(capsule)
	sc, sok := serial.CapsuleIntersect(capsule)
	require.True(t, pok)
	require.True(t, sok)
	assert.Equal(t, sc, pc)
	assert.Greater(t, pc.Normal.Y(), float32(0.5))
}

func TestSmallNodeCapacityStillFindsContacts(t *testing.T) {
	tree := newTestOctree(floorGrid(8), WithMaxTriangles(1), WithMaxDepth(4))
	contact, ok := tree.CapsuleIntersect(playerCapsule(mgl32.Vec3{0.5, 0, 0.25}))
	require.True(t, ok)
	assert.Greater(t, contact.Normal.Y(), float32(0.5))
}
