package collision

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	// boundsPadding grows the root bounds on every side so flat worlds get a non-zero extent.
	boundsPadding = 0.01

	// parallelThreshold is the triangle count above which preparation runs on the worker pool.
	parallelThreshold = 4096

	// minChunkSize is the smallest number of triangles handed to a single prep task.
	minChunkSize = 1024

	// prepQueueSize bounds the pool's task queue; chunking never produces more tasks than this.
	prepQueueSize = 256
)

// Contact describes how to push a capsule out of the world.
// Moving the capsule by Normal * Depth resolves the penetration.
type Contact struct {
	Normal mgl32.Vec3
	Depth  float32
}

// RayHit describes the nearest surface hit by a ray.
type RayHit struct {
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
}

// node is one cell of the octree. Only leaves hold triangles.
type node struct {
	box       Box
	triangles []int32
	children  []*node
}

type octree struct {
	triangles []Triangle
	root      *node
	bounds    Box

	maxDepth     int
	maxTriangles int
	workers      int
	logger       *zap.Logger
}

// Octree is a static spatial index over world triangles used for capsule and ray queries.
// It is built once and never modified, so queries are safe from multiple goroutines.
type Octree interface {
	// CapsuleIntersect resolves a capsule against the world.
	// Every triangle touching the capsule pushes a working copy of it out; the returned contact is
	// the total displacement of that copy expressed as a direction and a length.
	//
	// Parameters:
	//   - c: the capsule to test
	//
	// Returns:
	//   - Contact: the resolving normal and depth
	//   - bool: false if the capsule touches nothing
	CapsuleIntersect(c Capsule) (Contact, bool)

	// RayIntersect finds the nearest triangle hit by a ray. Both triangle faces are hit.
	//
	// Parameters:
	//   - origin: the ray origin
	//   - dir: the ray direction
	//
	// Returns:
	//   - RayHit: the nearest hit
	//   - bool: false if nothing is hit or dir is zero
	RayIntersect(origin, dir mgl32.Vec3) (RayHit, bool)

	// TriangleCount returns the number of non-degenerate triangles indexed by the tree.
	//
	// Returns:
	//   - int: the triangle count
	TriangleCount() int

	// Bounds returns the bounding box of all indexed triangles.
	//
	// Returns:
	//   - Box: the bounds, empty if the tree holds no triangles
	Bounds() Box
}

var _ Octree = &octree{}

// NewOctree builds an octree from a triangle soup. Degenerate and non-finite triangles are dropped.
// Triangle preparation for large inputs is spread over a worker pool.
//
// Parameters:
//   - triangles: world-space vertex triples in counter-clockwise order
//   - options: functional options to configure the tree
//
// Returns:
//   - Octree: the built tree
func NewOctree(triangles [][3]mgl32.Vec3, options ...OctreeBuilderOption) Octree {
	o := &octree{
		maxDepth:     16,
		maxTriangles: 8,
		workers:      runtime.NumCPU(),
		bounds:       EmptyBox(),
	}
	for _, option := range options {
		option(o)
	}
	if o.logger == nil {
		o.logger = zap.L().Named("collision")
	}

	start := time.Now()
	o.triangles = o.prepare(triangles)
	o.build()

	o.logger.Debug("octree built",
		zap.Int("input", len(triangles)),
		zap.Int("triangles", len(o.triangles)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return o
}

// prepare converts raw vertex triples into Triangles, preserving input order.
func (o *octree) prepare(raw [][3]mgl32.Vec3) []Triangle {
	prepared := make([]Triangle, len(raw))
	valid := make([]bool, len(raw))

	prepRange := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			prepared[i], valid[i] = NewTriangle(raw[i][0], raw[i][1], raw[i][2])
		}
	}

	if len(raw) <= parallelThreshold || o.workers <= 1 {
		prepRange(0, len(raw))
	} else {
		chunk := max(minChunkSize, (len(raw)+prepQueueSize-1)/prepQueueSize)
		pool := worker.NewDynamicWorkerPool(o.workers, prepQueueSize, time.Second)

		var wg sync.WaitGroup
		taskID := 0
		for lo := 0; lo < len(raw); lo += chunk {
			hi := min(lo+chunk, len(raw))
			wg.Add(1)
			l, h := lo, hi // capture for closure
			pool.SubmitTask(worker.Task{
				ID: taskID,
				Do: func() (any, error) {
					defer wg.Done()
					prepRange(l, h)
					return nil, nil
				},
			})
			taskID++
		}
		wg.Wait()
		pool.Stop()
	}

	out := prepared[:0]
	for i := range prepared {
		if valid[i] {
			out = append(out, prepared[i])
		}
	}
	return out
}

// build computes the root box and recursively splits it.
func (o *octree) build() {
	if len(o.triangles) == 0 {
		return
	}
	all := make([]int32, len(o.triangles))
	for i := range o.triangles {
		o.bounds = o.bounds.Union(o.triangles[i].Bounds())
		all[i] = int32(i)
	}

	pad := mgl32.Vec3{boundsPadding, boundsPadding, boundsPadding}
	box := Box{Min: o.bounds.Min.Sub(pad), Max: o.bounds.Max.Add(pad)}
	o.root = &node{box: box, triangles: all}
	o.split(o.root, 0)
}

// split distributes a node's triangles into its eight octants.
// Octants holding more than maxTriangles are split again until maxDepth.
func (o *octree) split(n *node, level int) {
	half := n.box.Max.Sub(n.box.Min).Mul(0.5)

	for x := range 2 {
		for y := range 2 {
			for z := range 2 {
				offset := mgl32.Vec3{float32(x) * half[0], float32(y) * half[1], float32(z) * half[2]}
				child := &node{}
				child.box.Min = n.box.Min.Add(offset)
				child.box.Max = child.box.Min.Add(half)

				for _, ti := range n.triangles {
					t := &o.triangles[ti]
					if child.box.Intersects(t.bounds) && child.box.IntersectsTriangle(t.A, t.B, t.C) {
						child.triangles = append(child.triangles, ti)
					}
				}

				if len(child.triangles) > o.maxTriangles && level < o.maxDepth {
					o.split(child, level+1)
				}
				if len(child.triangles) != 0 || len(child.children) != 0 {
					n.children = append(n.children, child)
				}
			}
		}
	}
	n.triangles = nil
}

func (o *octree) CapsuleIntersect(c Capsule) (Contact, bool) {
	if o.root == nil {
		return Contact{}, false
	}

	working := c
	candidates := o.collect(func(b Box) bool { return working.IntersectsBox(b) })

	var (
		hit  bool
		last mgl32.Vec3
	)
	for _, ti := range candidates {
		contact, ok := working.intersectTriangle(o.triangles[ti])
		if !ok {
			continue
		}
		hit = true
		last = contact.Normal
		working = working.Translate(contact.Normal.Mul(contact.Depth))
	}
	if !hit {
		return Contact{}, false
	}

	displacement := working.Center().Sub(c.Center())
	depth := displacement.Len()
	if depth == 0 || math32.IsNaN(depth) {
		return Contact{Normal: last, Depth: 0}, true
	}
	return Contact{Normal: displacement.Mul(1 / depth), Depth: depth}, true
}

func (o *octree) RayIntersect(origin, dir mgl32.Vec3) (RayHit, bool) {
	if o.root == nil || dir.Dot(dir) == 0 {
		return RayHit{}, false
	}
	dir = dir.Normalize()

	best := RayHit{Distance: math32.Inf(1)}
	found := false
	for _, ti := range o.collect(func(b Box) bool { return b.IntersectsRay(origin, dir) }) {
		t := o.triangles[ti]
		dist, ok := t.intersectRay(origin, dir)
		if !ok || dist >= best.Distance {
			continue
		}
		best = RayHit{Distance: dist, Point: origin.Add(dir.Mul(dist)), Normal: t.Normal()}
		found = true
	}
	return best, found
}

func (o *octree) TriangleCount() int {
	return len(o.triangles)
}

func (o *octree) Bounds() Box {
	return o.bounds
}

// collect gathers the indices of triangles in leaves whose box passes the filter.
// Indices are unique and ordered by first visit.
func (o *octree) collect(filter func(Box) bool) []int32 {
	var (
		out  []int32
		seen = make(map[int32]struct{})
	)
	var walk func(n *node)
	walk = func(n *node) {
		for _, child := range n.children {
			if !filter(child.box) {
				continue
			}
			if len(child.triangles) > 0 {
				for _, ti := range child.triangles {
					if _, dup := seen[ti]; dup {
						continue
					}
					seen[ti] = struct{}{}
					out = append(out, ti)
				}
				continue
			}
			walk(child)
		}
	}
	walk(o.root)
	return out
}
