package model

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURI decodes a `data:<mime>;base64,<payload>` string, or a bare
// base64 payload with no scheme, into raw bytes. File paths and network
// URLs are the Node-side resolver's job (§1 external collaborators): by
// the time bytes reach this engine, both FontSpec.src and Image.src have
// already been inlined as data URIs or handed over as an already-resolved
// path string that the embedding host reads itself. This engine only
// ever decodes the inline case.
func DecodeDataURI(src string) ([]byte, string, error) {
	if !strings.HasPrefix(src, "data:") {
		// Bare base64 payload, no MIME prefix.
		data, err := base64.StdEncoding.DecodeString(src)
		if err != nil {
			return nil, "", fmt.Errorf("decode base64 payload: %w", err)
		}
		return data, "", nil
	}
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("invalid data URI: missing comma")
	}
	header := src[len("data:"):comma]
	payload := src[comma+1:]
	mime := header
	isBase64 := false
	if idx := strings.IndexByte(header, ';'); idx >= 0 {
		mime = header[:idx]
		isBase64 = strings.Contains(header[idx:], "base64")
	}
	var data []byte
	var err error
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
	} else {
		return []byte(payload), mime, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI payload: %w", err)
	}
	return data, mime, nil
}

// IsDataURI reports whether src looks like a `data:` URI rather than an
// already-resolved filesystem path.
func IsDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}
