package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-player/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfSceneExtractorImpl is the implementation of the gltfSceneExtractor interface.
type gltfSceneExtractorImpl struct {
	parser gltfParser

	// positions caches decoded POSITION accessors shared by several primitives or instances.
	positions map[int][]mgl32.Vec3
}

// gltfSceneExtractor walks the node hierarchy of a parsed document and flattens every
// triangle primitive into world space.
type gltfSceneExtractor interface {
	// ExtractTriangles collects the world-space triangles of the default scene.
	// Without a scene list, every parentless node is treated as a root.
	//
	// Returns:
	//   - [][3]mgl32.Vec3: the triangles
	//   - int: the number of mesh instances visited
	//   - error: error if accessor data is malformed
	ExtractTriangles() ([][3]mgl32.Vec3, int, error)
}

var _ gltfSceneExtractor = &gltfSceneExtractorImpl{}

// newGLTFSceneExtractor creates a new scene extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSceneExtractor: the scene extractor
func newGLTFSceneExtractor(parser gltfParser) gltfSceneExtractor {
	return &gltfSceneExtractorImpl{
		parser:    parser,
		positions: make(map[int][]mgl32.Vec3),
	}
}

func (e *gltfSceneExtractorImpl) ExtractTriangles() ([][3]mgl32.Vec3, int, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, 0, fmt.Errorf("no document loaded")
	}

	var (
		tris      [][3]mgl32.Vec3
		instances int
	)
	visiting := make([]bool, len(doc.Nodes))

	var walk func(nodeIndex int, parent mgl32.Mat4) error
	walk = func(nodeIndex int, parent mgl32.Mat4) error {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", nodeIndex)
		}
		if visiting[nodeIndex] {
			return fmt.Errorf("node %d is its own ancestor", nodeIndex)
		}
		visiting[nodeIndex] = true
		defer func() { visiting[nodeIndex] = false }()

		node := &doc.Nodes[nodeIndex]
		world := parent.Mul4(gltfNodeLocalMatrix(node))

		if node.Mesh != nil {
			meshTris, err := e.meshTriangles(*node.Mesh, world)
			if err != nil {
				return fmt.Errorf("node %d: %w", nodeIndex, err)
			}
			tris = append(tris, meshTris...)
			instances++
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range gltfRootNodes(doc) {
		if err := walk(root, mgl32.Ident4()); err != nil {
			return nil, 0, err
		}
	}
	return tris, instances, nil
}

// meshTriangles returns the triangles of every surface primitive of a mesh, transformed by world.
func (e *gltfSceneExtractorImpl) meshTriangles(meshIndex int, world mgl32.Mat4) ([][3]mgl32.Vec3, error) {
	doc := e.parser.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	// a mirroring transform reverses winding; swap two corners to keep faces pointing outward
	mirrored := world.Det() < 0

	mesh := &doc.Meshes[meshIndex]
	var out [][3]mgl32.Vec3
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		mode := gltfPrimitiveModeTriangles
		if prim.Mode != nil {
			mode = *prim.Mode
		}
		if mode != gltfPrimitiveModeTriangles && mode != gltfPrimitiveModeTriangleStrip && mode != gltfPrimitiveModeTriangleFan {
			continue
		}

		posAccessor, ok := prim.Attributes["POSITION"]
		if !ok {
			return nil, fmt.Errorf("mesh %d primitive %d has no POSITION attribute", meshIndex, primIdx)
		}
		positions, err := e.readPositions(posAccessor)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: failed to read positions: %w", meshIndex, primIdx, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = e.parser.ReadIndices(*prim.Indices)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: failed to read indices: %w", meshIndex, primIdx, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for _, corners := range gltfTriangleCorners(mode, indices) {
			var tri [3]mgl32.Vec3
			for k, idx := range corners {
				if int(idx) >= len(positions) {
					return nil, fmt.Errorf("mesh %d primitive %d: index %d out of range", meshIndex, primIdx, idx)
				}
				tri[k] = mgl32.TransformCoordinate(positions[idx], world)
			}
			if mirrored {
				tri[1], tri[2] = tri[2], tri[1]
			}
			out = append(out, tri)
		}
	}
	return out, nil
}

func (e *gltfSceneExtractorImpl) readPositions(accessorIndex int) ([]mgl32.Vec3, error) {
	if cached, ok := e.positions[accessorIndex]; ok {
		return cached, nil
	}
	positions, err := e.parser.ReadPositions(accessorIndex)
	if err != nil {
		return nil, err
	}
	e.positions[accessorIndex] = positions
	return positions, nil
}

// --- Helper Functions ---

// gltfRootNodes returns the root nodes of the default scene, falling back to the first scene
// and then to every node without a parent.
func gltfRootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			sceneIdx = *doc.Scene
		}
		return doc.Scenes[sceneIdx].Nodes
	}

	hasParent := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfNodeLocalMatrix returns a node's local transform: its matrix when present, otherwise T * R * S.
func gltfNodeLocalMatrix(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}

	m := mgl32.Ident4()
	if node.Translation != nil {
		t := node.Translation
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if node.Rotation != nil {
		r := node.Rotation
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
		m = m.Mul4(q.Mat4())
	}
	if node.Scale != nil {
		s := node.Scale
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// gltfTriangleCorners expands an index list into triangle corner triples for the given topology.
// Strip triangles alternate winding so every face keeps the orientation of the first.
func gltfTriangleCorners(mode int, indices []uint32) [][3]uint32 {
	var out [][3]uint32
	switch mode {
	case gltfPrimitiveModeTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			out = append(out, [3]uint32{indices[i], indices[i+1], indices[i+2]})
		}
	case gltfPrimitiveModeTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			if i%2 == 0 {
				out = append(out, [3]uint32{indices[i], indices[i+1], indices[i+2]})
			} else {
				out = append(out, [3]uint32{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltfPrimitiveModeTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			out = append(out, [3]uint32{indices[0], indices[i], indices[i+1]})
		}
	}
	return out
}

// gltfTriangleBounds returns the box enclosing every triangle.
func gltfTriangleBounds(tris [][3]mgl32.Vec3) collision.Box {
	b := collision.EmptyBox()
	for _, t := range tris {
		b = b.ExpandByPoint(t[0]).ExpandByPoint(t[1]).ExpandByPoint(t[2])
	}
	return b
}
