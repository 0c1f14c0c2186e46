package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d of %v", i, got)
	}
}

func TestSafeNormalize(t *testing.T) {
	assertVec(t, mgl32.Vec3{0, 0, 1}, SafeNormalize(mgl32.Vec3{0, 0, 5}))
	assert.Equal(t, mgl32.Vec3{}, SafeNormalize(mgl32.Vec3{}))
	assert.Equal(t, mgl32.Vec3{}, SafeNormalize(mgl32.Vec3{math32.NaN(), 0, 0}))
}

func TestFlatDirection(t *testing.T) {
	assertVec(t, mgl32.Vec3{1, 0, 0}, FlatDirection(mgl32.Vec3{3, 7, 0}))
	assert.Equal(t, mgl32.Vec3{}, FlatDirection(mgl32.Vec3{0, -1, 0}))
}

func TestYawPitchRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
	}{
		{"identity", 0, 0},
		{"yaw only", 1.2, 0},
		{"pitch up", -0.4, 0.7},
		{"pitch down", 2.5, -1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaw, pitch := YawPitchFromQuat(QuatFromYawPitch(tt.yaw, tt.pitch))
			assert.InDelta(t, tt.yaw, yaw, tol)
			assert.InDelta(t, tt.pitch, pitch, tol)
		})
	}
}

func TestYawPitchStraightUp(t *testing.T) {
	yaw, pitch := YawPitchFromQuat(QuatFromYawPitch(0.8, math32.Pi/2))
	assert.False(t, math32.IsNaN(yaw))
	assert.InDelta(t, math32.Pi/2, pitch, 1e-3)
}

func TestCameraDirectionDefaultsToMinusZ(t *testing.T) {
	assertVec(t, mgl32.Vec3{0, 0, -1}, CameraDirection(mgl32.QuatIdent()))
	// yaw of +90° turns the camera towards -X
	assertVec(t, mgl32.Vec3{-1, 0, 0}, CameraDirection(QuatFromYawPitch(math32.Pi/2, 0)))
}

func TestLookRotationFacesTarget(t *testing.T) {
	eye := mgl32.Vec3{0, 2, 0}
	target := mgl32.Vec3{4, 2, 4}
	q := LookRotation(eye, target, WorldUp)
	assertVec(t, SafeNormalize(target.Sub(eye)), CameraDirection(q))
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := mgl32.Vec3{1, 2, 3}
	view := LookAt(eye, mgl32.Vec3{0, 0, 0}, WorldUp)
	got := mgl32.TransformCoordinate(eye, view)
	assertVec(t, mgl32.Vec3{}, got)

	// the target lies on the -Z axis of view space
	target := mgl32.TransformCoordinate(mgl32.Vec3{}, view)
	assert.InDelta(t, 0, target[0], tol)
	assert.InDelta(t, 0, target[1], tol)
	assert.Less(t, target[2], float32(0))
}

func TestBuildModelMatrixYaw(t *testing.T) {
	m := BuildModelMatrix(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, math32.Pi / 2, 0}, mgl32.Vec3{1, 1, 1})
	// local +Z maps to world +X under a +90° yaw, then translates
	assertVec(t, mgl32.Vec3{2, 0, 0}, mgl32.TransformCoordinate(mgl32.Vec3{0, 0, 1}, m))
}

func TestPerspectiveDepthRange(t *testing.T) {
	p := Perspective(math32.Pi/2, 1, 1, 100)
	near := p.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near[2]/near[3], tol)
	assert.InDelta(t, 1, far[2]/far[3], 1e-4)
}

func TestKeyCodeFromName(t *testing.T) {
	code, ok := KeyCodeFromName("KeyW")
	assert.True(t, ok)
	assert.Equal(t, uint32(KeyW), code)

	code, ok = KeyCodeFromName("space")
	assert.True(t, ok)
	assert.Equal(t, uint32(KeySpace), code)

	_, ok = KeyCodeFromName("KeyZZ")
	assert.False(t, ok)

	assert.Equal(t, "KeyF", KeyName(KeyF))
	assert.Equal(t, "", KeyName(9999))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, float32(3), Coalesce[float32](0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
}
