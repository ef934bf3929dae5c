package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Errors returned while decoding a glTF or GLB document.
var (
	ErrInvalidVersion       = errors.New("invalid glTF version: must be 2.0")
	ErrInvalidGLB           = errors.New("invalid GLB container")
	ErrMissingJSONChunk     = errors.New("GLB file missing JSON chunk")
	ErrUnsupportedExtension = errors.New("unsupported required glTF extension")
)

// supportedExtensions lists the extensions a document may require.
var supportedExtensions = map[string]bool{
	extensionUnlit: true,
}

// decodeDocument parses glTF JSON or a GLB container, detected by the magic number.
//
// Parameters:
//   - data: the file contents
//
// Returns:
//   - *gltfDocument: the parsed document
//   - []byte: the GLB binary chunk, nil for JSON documents or GLBs without one
//   - error: error if the container, JSON, version or required extensions are invalid
func decodeDocument(data []byte) (*gltfDocument, []byte, error) {
	jsonData, bin := data, []byte(nil)
	if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic {
		var err error
		if jsonData, bin, err = splitGLB(data); err != nil {
			return nil, nil, err
		}
	}

	var doc gltfDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, nil, ErrInvalidVersion
	}
	for _, ext := range doc.ExtensionsRequired {
		if !supportedExtensions[ext] {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, ext)
		}
	}
	return &doc, bin, nil
}

// splitGLB returns the JSON and BIN chunks of a GLB container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func splitGLB(data []byte) (jsonData, bin []byte, err error) {
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, nil, fmt.Errorf("%w: short header", ErrInvalidGLB)
	}
	if header.Magic != gltfGLBMagic {
		return nil, nil, fmt.Errorf("%w: bad magic 0x%X", ErrInvalidGLB, header.Magic)
	}
	if header.Version != gltfGLBVersion {
		return nil, nil, fmt.Errorf("%w: version %d", ErrInvalidGLB, header.Version)
	}
	if header.Length < 12 || int64(header.Length) > int64(len(data)) {
		return nil, nil, fmt.Errorf("%w: declares %d bytes, have %d", ErrInvalidGLB, header.Length, len(data))
	}
	r = bytes.NewReader(data[12:header.Length])

	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("%w: truncated chunk header", ErrInvalidGLB)
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return nil, nil, fmt.Errorf("%w: chunk of %d bytes exceeds file", ErrInvalidGLB, chunk.ChunkLength)
		}
		payload := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidGLB, err)
		}

		// Unknown chunk types are skipped.
		switch chunk.ChunkType {
		case gltfGLBChunkJSON:
			if jsonData == nil {
				jsonData = payload
			}
		case gltfGLBChunkBIN:
			if bin == nil {
				bin = payload
			}
		}
	}

	if jsonData == nil {
		return nil, nil, ErrMissingJSONChunk
	}
	return jsonData, bin, nil
}
