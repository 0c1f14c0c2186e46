package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera(WithAspect(16.0/9.0), WithFar(500))

	assert.Equal(t, mgl32.Vec3{}, c.Position())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Up())
	assert.InDelta(t, 16.0/9.0, c.Aspect(), 1e-6)
	assert.Equal(t, float32(500), c.Far())
	dir := c.WorldDirection()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, dir[:], 1e-6)
}

func TestLookAtFacesTarget(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{0, 1.8, 0}))
	c.LookAt(mgl32.Vec3{1, 1.8, 0})

	dir := c.WorldDirection()
	assert.InDeltaSlice(t, []float32{1, 0, 0}, dir[:], 1e-5)

	// the target ends up straight ahead in view space
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 1.8, 0}, c.ViewMatrix())
	assert.InDeltaSlice(t, []float32{0, 0, -1}, p[:], 1e-5)
}

func TestLookAtSelfKeepsOrientation(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{2, 2, 2}))
	before := c.Quaternion()
	c.LookAt(mgl32.Vec3{2, 2, 2})
	assert.Equal(t, before, c.Quaternion())
}

func TestSetQuaternionUpdatesView(t *testing.T) {
	c := NewCamera()
	c.SetQuaternion(mgl32.QuatRotate(math32.Pi/2, mgl32.Vec3{0, 1, 0}))

	dir := c.WorldDirection()
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, dir[:], 1e-5)
	p := mgl32.TransformCoordinate(mgl32.Vec3{-3, 0, 0}, c.ViewMatrix())
	assert.InDeltaSlice(t, []float32{0, 0, -3}, p[:], 1e-5)
}

func TestSetAspectIgnoresNonPositive(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.SetAspect(0)
	c.SetAspect(-1)
	assert.Equal(t, float32(2), c.Aspect())
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{1, 2, 3}))
	c.LookAt(mgl32.Vec3{0, 0, 0})
	want := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	assert.True(t, want.ApproxEqual(c.ViewProjectionMatrix()))
}
