package loader

import (
	"fmt"
	"io"
)

// unnamedScene names scenes that have neither a scene name nor a source path.
const unnamedScene = "unnamed_scene"

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates a glTF/GLB import: parse the document, then flatten its scene.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts its world-space geometry.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *ImportedScene: the imported scene
	//   - error: error if import fails
	Import(path string) (*ImportedScene, error)

	// ImportReader loads a glTF document from a reader and extracts its world-space geometry.
	// External buffer URIs are resolved against the working directory.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - isGLB: true if the reader provides GLB binary data, false for glTF JSON
	//
	// Returns:
	//   - *ImportedScene: the imported scene
	//   - error: error if import fails
	ImportReader(r io.Reader, isGLB bool) (*ImportedScene, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*ImportedScene, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return imp.importFromParser(parser, path)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, isGLB bool) (*ImportedScene, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}

	return imp.importFromParser(parser, "")
}

// importFromParser flattens the scene of a parser that has already loaded a document.
//
// Parameters:
//   - parser: the glTF parser that has already loaded a document
//   - fallbackPath: optional file path used as a fallback for scene naming
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackPath string) (*ImportedScene, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	tris, instances, err := newGLTFSceneExtractor(parser).ExtractTriangles()
	if err != nil {
		return nil, fmt.Errorf("scene extraction failed: %w", err)
	}

	return &ImportedScene{
		Name:      gltfExtractSceneName(doc, fallbackPath),
		Triangles: tris,
		Bounds:    gltfTriangleBounds(tris),
		MeshCount: instances,
	}, nil
}

// gltfExtractSceneName derives a scene name from the document or a file path fallback.
func gltfExtractSceneName(doc *gltfDocument, fallbackPath string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}

	if fallbackPath != "" {
		return fallbackPath
	}

	return unnamedScene
}
