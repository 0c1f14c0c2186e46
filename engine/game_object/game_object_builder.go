package game_object

import "github.com/go-gl/mathgl/mgl32"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the name of the GameObject.
//
// Parameters:
//   - name: a human readable name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject starts visible.
//
// Parameters:
//   - enabled: true to show the object, false to hide it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the initial world position of the GameObject.
//
// Parameters:
//   - p: the world position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial position
func WithPosition(p mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = p
	}
}

// WithRotation sets the initial Euler rotation of the GameObject.
//
// Parameters:
//   - r: rotation around X, Y, Z in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial rotation
func WithRotation(r mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = r
	}
}

// WithScale sets the initial scale of the GameObject.
//
// Parameters:
//   - s: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the initial scale
func WithScale(s mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = s
	}
}

// WithBounds sets the local-space bounding box of the object's geometry.
// The box is typically taken from a loaded model (see loader.ImportedScene).
//
// Parameters:
//   - min: minimum corner
//   - max: maximum corner
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the bounds
func WithBounds(min, max mgl32.Vec3) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.boundsMin = min
		obj.boundsMax = max
	}
}
