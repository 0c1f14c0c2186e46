package collision

import "go.uber.org/zap"

// OctreeBuilderOption is a functional option for configuring an Octree during construction.
type OctreeBuilderOption func(*octree)

// WithMaxDepth sets the deepest level a node may be split to.
//
// Parameters:
//   - depth: the maximum split depth
//
// Returns:
//   - OctreeBuilderOption: functional option to set the depth limit
func WithMaxDepth(depth int) OctreeBuilderOption {
	return func(o *octree) {
		if depth >= 0 {
			o.maxDepth = depth
		}
	}
}

// WithMaxTriangles sets how many triangles a node may hold before it is split.
//
// Parameters:
//   - n: the per-node triangle limit
//
// Returns:
//   - OctreeBuilderOption: functional option to set the node capacity
func WithMaxTriangles(n int) OctreeBuilderOption {
	return func(o *octree) {
		if n > 0 {
			o.maxTriangles = n
		}
	}
}

// WithWorkers sets the number of workers used to prepare large triangle sets.
// A value of 1 or less prepares triangles on the calling goroutine.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - OctreeBuilderOption: functional option to set the worker count
func WithWorkers(n int) OctreeBuilderOption {
	return func(o *octree) {
		o.workers = n
	}
}

// WithLogger sets the logger used for build diagnostics.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - OctreeBuilderOption: functional option to set the logger
func WithLogger(l *zap.Logger) OctreeBuilderOption {
	return func(o *octree) {
		o.logger = l
	}
}
