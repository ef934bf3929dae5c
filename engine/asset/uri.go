package asset

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// source is a parsed asset location.
type source struct {
	kind sourceKind
	path string // file path or http(s) URL
	data string // data URI payload
}

type sourceKind int

const (
	sourceFile sourceKind = iota
	sourceHTTP
	sourceData
)

// parseURI classifies a URI. Plain paths and file:// URLs read from disk, relative paths
// resolve against baseDir, http and https fetch over the network, data: decodes inline.
func parseURI(uri, baseDir string) (source, error) {
	if strings.HasPrefix(uri, "data:") {
		return source{kind: sourceData, data: uri}, nil
	}
	u, err := url.Parse(uri)
	if err == nil && len(u.Scheme) > 1 {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return source{kind: sourceHTTP, path: uri}, nil
		case "file":
			return source{kind: sourceFile, path: filepath.FromSlash(u.Path)}, nil
		default:
			return source{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
		}
	}
	path := uri
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	return source{kind: sourceFile, path: path}, nil
}

// decodeDataURI decodes a data URI into raw bytes and extracts the MIME type.
// Payloads without ;base64 are taken as percent-encoded text.
func decodeDataURI(uri string) ([]byte, string, error) {
	// Format: data:[<mediatype>][;base64],<data>
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}

	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, "", fmt.Errorf("malformed data URI: no comma found")
	}

	header := uri[5:commaIdx] // after "data:", before ","
	encoded := uri[commaIdx+1:]

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		text, err := url.PathUnescape(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("failed to unescape data URI: %w", err)
		}
		return []byte(text), mimeType, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, mimeType, nil
}
