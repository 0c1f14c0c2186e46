package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrUnsupportedFormat is returned for files whose extension has no backend.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *zap.Logger

	sceneCache map[string]*ImportedScene

	backend loaderBackend
}

// Loader loads and caches the static geometry of model files.
// It abstracts the file format (glTF, GLB, etc.) behind a generic backend.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the scene is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *ImportedScene: the loaded and cached scene
	//   - error: error if loading fails
	Load(path string) (*ImportedScene, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded scene
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *ImportedScene: the loaded scene
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*ImportedScene, error)

	// Get retrieves a cached scene by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *ImportedScene: the cached scene or nil
	Get(name string) *ImportedScene

	// Scenes returns a copy of the scene cache.
	//
	// Returns:
	//   - map[string]*ImportedScene: all cached scenes keyed by name
	Scenes() map[string]*ImportedScene
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		sceneCache: make(map[string]*ImportedScene),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	if l.logger == nil {
		l.logger = zap.L().Named("loader")
	}
	return l
}

func (l *loader) Load(path string) (*ImportedScene, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.store(path, imported)
	return imported, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*ImportedScene, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, ErrUnsupportedFormat
	}

	imported, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	if imported.Name == unnamedScene && name != "" {
		imported.Name = name
	}

	l.store(name, imported)
	return imported, nil
}

func (l *loader) Get(name string) *ImportedScene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sceneCache[name]
}

func (l *loader) Scenes() map[string]*ImportedScene {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*ImportedScene, len(l.sceneCache))
	for k, v := range l.sceneCache {
		result[k] = v
	}
	return result
}

// store caches a scene. A concurrent load of the same key keeps the first result.
func (l *loader) store(key string, s *ImportedScene) {
	l.mu.Lock()
	if _, ok := l.sceneCache[key]; !ok {
		l.sceneCache[key] = s
	}
	l.mu.Unlock()

	l.logger.Debug("scene loaded",
		zap.String("key", key),
		zap.String("name", s.Name),
		zap.Int("meshes", s.MeshCount),
		zap.Int("triangles", len(s.Triangles)),
	)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend != nil {
			return l.backend, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}
