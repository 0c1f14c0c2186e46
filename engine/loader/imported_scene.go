package loader

import (
	"github.com/Carmen-Shannon/oxy-player/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
)

// ImportedScene is the static geometry recovered from a model file, flattened into world space.
type ImportedScene struct {
	// Name is the scene name, or the source path when the file has none.
	Name string

	// Triangles holds every surface triangle with node transforms applied.
	Triangles [][3]mgl32.Vec3

	// Bounds encloses all triangles; empty when there are none.
	Bounds collision.Box

	// MeshCount is the number of mesh instances visited.
	MeshCount int
}

// Size returns the extent of the scene bounds.
//
// Returns:
//   - mgl32.Vec3: the size along each axis, or zero for an empty scene
func (s *ImportedScene) Size() mgl32.Vec3 {
	return s.Bounds.Size()
}
