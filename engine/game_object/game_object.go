package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-player/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	name    string
	enabled atomic.Bool

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	// local-space bounds of the object's geometry
	boundsMin mgl32.Vec3
	boundsMax mgl32.Vec3
}

// GameObject defines the interface for a visible entity with a world transform.
// The player controller drives one of these as its third-person character:
// only the position and the rotation around Y are written by the controller,
// and Enabled doubles as the visibility flag.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is visible.
	//
	// Returns:
	//   - bool: true if visible
	Enabled() bool

	// SetEnabled sets whether the object is visible.
	//
	// Parameters:
	//   - enabled: true to show the object
	SetEnabled(enabled bool)

	// Position returns the object's world position.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	Position() mgl32.Vec3

	// SetPosition moves the object.
	//
	// Parameters:
	//   - p: the new world position
	SetPosition(p mgl32.Vec3)

	// Rotation returns the object's Euler rotation in radians (Y-X-Z order).
	//
	// Returns:
	//   - mgl32.Vec3: rotation around X, Y, Z
	Rotation() mgl32.Vec3

	// SetRotation sets the object's Euler rotation in radians.
	//
	// Parameters:
	//   - r: rotation around X, Y, Z
	SetRotation(r mgl32.Vec3)

	// RotationY returns the rotation around the Y axis in radians.
	//
	// Returns:
	//   - float32: the yaw angle
	RotationY() float32

	// SetRotationY sets the rotation around the Y axis, leaving X and Z untouched.
	//
	// Parameters:
	//   - ry: the yaw angle in radians
	SetRotationY(ry float32)

	// Scale returns the object's scale factors.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale sets the object's scale factors.
	//
	// Parameters:
	//   - s: the scale
	SetScale(s mgl32.Vec3)

	// Bounds returns the local-space bounding box of the object's geometry.
	//
	// Returns:
	//   - min, max: the box corners
	Bounds() (min, max mgl32.Vec3)

	// Size returns the extent of the scaled bounding box.
	//
	// Returns:
	//   - mgl32.Vec3: width, height and depth
	Size() mgl32.Vec3

	// WorldMatrix returns the model matrix built from position, rotation and scale.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// WorldDirection returns the object's facing direction: local +Z rotated into world space.
	//
	// Returns:
	//   - mgl32.Vec3: the unit facing direction
	WorldDirection() mgl32.Vec3
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new, enabled GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:    &sync.Mutex{},
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) RotationY() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation[1]
}

func (g *gameObject) SetRotationY(ry float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation[1] = ry
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) Bounds() (min, max mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.boundsMin, g.boundsMax
}

func (g *gameObject) Size() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	ext := g.boundsMax.Sub(g.boundsMin)
	return mgl32.Vec3{
		math32.Abs(ext[0] * g.scale[0]),
		math32.Abs(ext[1] * g.scale[1]),
		math32.Abs(ext[2] * g.scale[2]),
	}
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.BuildModelMatrix(g.position, g.rotation, g.scale)
}

func (g *gameObject) WorldDirection() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	m := common.BuildModelMatrix(mgl32.Vec3{}, g.rotation, mgl32.Vec3{1, 1, 1})
	return common.SafeNormalize(m.Col(2).Vec3())
}
