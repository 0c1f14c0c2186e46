package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// directionEpsilon is the squared length under which a direction is treated as degenerate.
const directionEpsilon = 1e-12

var (
	// WorldUp is the +Y axis.
	WorldUp = mgl32.Vec3{0, 1, 0}
	// cameraForward is the local look axis of a camera (-Z).
	cameraForward = mgl32.Vec3{0, 0, -1}
)

// Perspective creates a perspective projection matrix.
// Uses the WebGPU clip space depth convention [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	out := mgl32.Ident4()

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll). All matrices are column-major.
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the model matrix
func BuildModelMatrix(pos, rot, scale mgl32.Vec3) mgl32.Mat4 {
	cx, sx := math32.Cos(rot[0]), math32.Sin(rot[0])
	cy, sy := math32.Cos(rot[1]), math32.Sin(rot[1])
	cz, sz := math32.Cos(rot[2]), math32.Sin(rot[2])

	var out mgl32.Mat4

	// R = Ry * Rx * Rz, column-major
	out[0] = (cy*cz + sy*sx*sz) * scale[0]
	out[1] = (cx * sz) * scale[0]
	out[2] = (-sy*cz + cy*sx*sz) * scale[0]

	out[4] = (cy*-sz + sy*sx*cz) * scale[1]
	out[5] = (cx * cz) * scale[1]
	out[6] = (sy*sz + cy*sx*cz) * scale[1]

	out[8] = (sy * cx) * scale[2]
	out[9] = (-sx) * scale[2]
	out[10] = (cy * cx) * scale[2]

	out[12] = pos[0]
	out[13] = pos[1]
	out[14] = pos[2]
	out[15] = 1
	return out
}

// LookAt creates a view matrix that transforms world coordinates to camera space.
// A degenerate eye/center or up configuration falls back to unit axes instead of NaN.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	x, y, z := lookBasis(eye, center, up)

	var out mgl32.Mat4
	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -x.Dot(eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -y.Dot(eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -z.Dot(eye)
	out[15] = 1
	return out
}

// LookRotation returns the orientation of an object at eye whose local -Z axis points at center.
//
// Parameters:
//   - eye: object position
//   - center: point to face
//   - up: reference up vector
//
// Returns:
//   - mgl32.Quat: the world orientation
func LookRotation(eye, center, up mgl32.Vec3) mgl32.Quat {
	x, y, z := lookBasis(eye, center, up)
	return mgl32.Mat4ToQuat(mgl32.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl32.Vec4{0, 0, 0, 1})).Normalize()
}

// lookBasis returns the right, up and backward axes of a look-at frame.
func lookBasis(eye, center, up mgl32.Vec3) (x, y, z mgl32.Vec3) {
	z = SafeNormalize(eye.Sub(center))
	if z.Dot(z) == 0 {
		z = mgl32.Vec3{0, 0, 1}
	}
	x = SafeNormalize(up.Cross(z))
	if x.Dot(x) == 0 {
		x = mgl32.Vec3{1, 0, 0}
	}
	y = z.Cross(x)
	return x, y, z
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v is degenerate.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the normalized vector or zero
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l2 := v.Dot(v)
	if l2 < directionEpsilon || math32.IsNaN(l2) || math32.IsInf(l2, 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / math32.Sqrt(l2))
}

// FlatDirection projects v onto the XZ plane and normalizes it.
//
// Parameters:
//   - v: the direction to flatten
//
// Returns:
//   - mgl32.Vec3: unit horizontal direction, or zero if v is vertical
func FlatDirection(v mgl32.Vec3) mgl32.Vec3 {
	return SafeNormalize(mgl32.Vec3{v[0], 0, v[2]})
}

// QuatFromYawPitch builds an orientation from Euler angles applied in Y-X-Z order with zero roll.
//
// Parameters:
//   - yaw: rotation around +Y in radians
//   - pitch: rotation around +X in radians
//
// Returns:
//   - mgl32.Quat: the orientation
func QuatFromYawPitch(yaw, pitch float32) mgl32.Quat {
	return mgl32.QuatRotate(yaw, WorldUp).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})).Normalize()
}

// YawPitchFromQuat extracts Y-X-Z Euler yaw and pitch from an orientation, ignoring roll.
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - yaw: rotation around +Y in radians
//   - pitch: rotation around +X in radians, in [-π/2, π/2]
func YawPitchFromQuat(q mgl32.Quat) (yaw, pitch float32) {
	d := q.Rotate(cameraForward)
	pitch = math32.Asin(mgl32.Clamp(d[1], -1, 1))
	if d[0]*d[0]+d[2]*d[2] < directionEpsilon {
		// looking straight up or down: recover yaw from the local right axis
		r := q.Rotate(mgl32.Vec3{1, 0, 0})
		return math32.Atan2(-r[2], r[0]), pitch
	}
	return math32.Atan2(-d[0], -d[2]), pitch
}

// CameraDirection returns the world-space look direction of an orientation (its rotated -Z axis).
//
// Parameters:
//   - q: the orientation
//
// Returns:
//   - mgl32.Vec3: the unit look direction
func CameraDirection(q mgl32.Quat) mgl32.Vec3 {
	return q.Rotate(cameraForward)
}
