package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.x")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errInvalidBufferURI   = errors.New("invalid buffer URI")
	errBufferSizeMismatch = errors.New("buffer shorter than its declared byteLength")
	errAccessorOverflow   = errors.New("accessor reads past the end of its buffer")
	errUnsupportedExt     = errors.New("unsupported required extension")
	errNoDocument         = errors.New("no document loaded")
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	baseDir  string
	document *gltfDocument
}

// gltfParser decodes a glTF or GLB container and reads geometry accessors out of it.
type gltfParser interface {
	// Parse loads a .gltf or .glb file. Binary files are recognized by extension or magic number.
	// Relative buffer URIs resolve against the file's directory.
	//
	// Parameters:
	//   - path: path to the file
	//
	// Returns:
	//   - error: error if the file cannot be read or decoded
	Parse(path string) error

	// ParseReader decodes a container from r. Relative buffer URIs resolve against the working directory.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//   - isGLB: true if the data is in GLB format
	//
	// Returns:
	//   - error: error if decoding fails
	ParseReader(r io.Reader, isGLB bool) error

	// Document returns the decoded document, or nil before a successful parse.
	Document() *gltfDocument

	// ReadPositions reads a VEC3 FLOAT accessor.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []mgl32.Vec3: one vector per element
	//   - error: error if the accessor is missing, mistyped or out of bounds
	ReadPositions(accessorIndex int) ([]mgl32.Vec3, error)

	// ReadIndices reads a SCALAR accessor of unsigned bytes, shorts or ints.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the indices widened to uint32
	//   - error: error if the accessor is missing, mistyped or out of bounds
	ReadIndices(accessorIndex int) ([]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Document() *gltfDocument {
	return p.document
}

func (p *gltfParserImpl) Parse(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	p.baseDir = filepath.Dir(path)

	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data) == gltfGLBMagic)
	return p.decode(data, isGLB)
}

func (p *gltfParserImpl) ParseReader(r io.Reader, isGLB bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return p.decode(data, isGLB)
}

// decode unwraps a GLB container if needed, then decodes the JSON and resolves every buffer.
func (p *gltfParserImpl) decode(data []byte, isGLB bool) error {
	jsonData, bin := data, []byte(nil)
	if isGLB {
		var err error
		if jsonData, bin, err = splitGLB(data); err != nil {
			return err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if err := validateDocument(&doc); err != nil {
		return err
	}
	if err := p.resolveBuffers(&doc, bin); err != nil {
		return fmt.Errorf("failed to load buffers: %w", err)
	}

	p.document = &doc
	return nil
}

// splitGLB returns the JSON chunk and the optional BIN chunk of a GLB container.
func splitGLB(data []byte) (jsonChunk, binChunk []byte, err error) {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, nil, errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, nil, errInvalidGLBVersion
	}

	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		body := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			jsonChunk = body
		case gltfGLBChunkBIN:
			if binChunk == nil {
				binChunk = body
			}
		}
	}

	if jsonChunk == nil {
		return nil, nil, errMissingJSONChunk
	}
	return jsonChunk, binChunk, nil
}

// resolveBuffers fills every buffer from its URI, or buffer 0 from the GLB BIN chunk.
func (p *gltfParserImpl) resolveBuffers(doc *gltfDocument, bin []byte) error {
	for i := range doc.Buffers {
		buf := &doc.Buffers[i]

		switch {
		case buf.URI != "":
			data, err := p.readURI(buf.URI)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			buf.data = data
		case i == 0 && bin != nil:
			buf.data = bin
		default:
			return fmt.Errorf("buffer %d has no URI and no GLB binary chunk", i)
		}

		if len(buf.data) < buf.ByteLength {
			return fmt.Errorf("buffer %d: %w", i, errBufferSizeMismatch)
		}
	}
	return nil
}

// readURI reads a base64 data URI or a file relative to the document.
func (p *gltfParserImpl) readURI(uri string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(uri, "data:"); ok {
		mediaType, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, errInvalidBufferURI
		}
		if !strings.HasSuffix(mediaType, ";base64") {
			return nil, fmt.Errorf("%w: unsupported encoding %q", errInvalidBufferURI, mediaType)
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(p.baseDir, filepath.FromSlash(uri)))
	if err != nil {
		return nil, fmt.Errorf("failed to load buffer file %q: %w", uri, err)
	}
	return data, nil
}

// accessorView is a bounds-checked window over an accessor's elements.
// Element i starts at data[offset+i*stride].
type accessorView struct {
	data   []byte
	offset int
	stride int
	count  int
}

func (v accessorView) at(i int) []byte {
	start := v.offset + i*v.stride
	return v.data[start:]
}

func (p *gltfParserImpl) ReadPositions(accessorIndex int) ([]mgl32.Vec3, error) {
	acc, view, err := p.view(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != "VEC3" || acc.ComponentType != gltfComponentTypeFloat {
		return nil, fmt.Errorf("accessor %d is not VEC3 FLOAT: type=%s, componentType=%d", accessorIndex, acc.Type, acc.ComponentType)
	}

	out := make([]mgl32.Vec3, view.count)
	for i := range out {
		b := view.at(i)
		out[i] = mgl32.Vec3{
			math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
		}
	}
	return out, nil
}

func (p *gltfParserImpl) ReadIndices(accessorIndex int) ([]uint32, error) {
	acc, view, err := p.view(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != "SCALAR" {
		return nil, fmt.Errorf("index accessor %d is not SCALAR: type=%s", accessorIndex, acc.Type)
	}

	var read func([]byte) uint32
	switch acc.ComponentType {
	case gltfComponentTypeUnsignedByte:
		read = func(b []byte) uint32 { return uint32(b[0]) }
	case gltfComponentTypeUnsignedShort:
		read = func(b []byte) uint32 { return uint32(binary.LittleEndian.Uint16(b)) }
	case gltfComponentTypeUnsignedInt:
		read = binary.LittleEndian.Uint32
	default:
		return nil, fmt.Errorf("unsupported index component type: %d", acc.ComponentType)
	}

	out := make([]uint32, view.count)
	for i := range out {
		out[i] = read(view.at(i))
	}
	return out, nil
}

// view resolves an accessor to its bytes and checks every element lies inside the buffer.
// An accessor without a buffer view reads as zeros.
func (p *gltfParserImpl) view(accessorIndex int) (*gltfAccessor, accessorView, error) {
	if p.document == nil {
		return nil, accessorView{}, errNoDocument
	}
	doc := p.document
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return nil, accessorView{}, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if acc.Sparse != nil {
		return nil, accessorView{}, fmt.Errorf("accessor %d: sparse accessors are not supported", accessorIndex)
	}

	elementSize := gltfComponentSizes[acc.ComponentType] * gltfTypeComponents[acc.Type]
	if elementSize == 0 || acc.Count < 0 {
		return nil, accessorView{}, fmt.Errorf("accessor %d has invalid layout", accessorIndex)
	}

	if acc.BufferView == nil {
		return acc, accessorView{data: make([]byte, acc.Count*elementSize), stride: elementSize, count: acc.Count}, nil
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(doc.BufferViews) {
		return nil, accessorView{}, fmt.Errorf("bufferView index %d out of range", *acc.BufferView)
	}
	bv := &doc.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil, accessorView{}, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}

	v := accessorView{
		data:   doc.Buffers[bv.Buffer].data,
		offset: bv.ByteOffset + acc.ByteOffset,
		stride: elementSize,
		count:  acc.Count,
	}
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		v.stride = *bv.ByteStride
	}
	if v.count > 0 && (v.offset < 0 || v.offset+(v.count-1)*v.stride+elementSize > len(v.data)) {
		return nil, accessorView{}, fmt.Errorf("accessor %d: %w", accessorIndex, errAccessorOverflow)
	}
	return acc, v, nil
}

// validateDocument rejects documents this loader cannot read geometry from.
func validateDocument(doc *gltfDocument) error {
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return errInvalidGLTFVersion
	}
	if len(doc.ExtensionsRequired) > 0 {
		return fmt.Errorf("%w: %s", errUnsupportedExt, strings.Join(doc.ExtensionsRequired, ", "))
	}
	return nil
}
