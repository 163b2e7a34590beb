package whiteboard

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// The persisted board format is base64(gzip(JSON(element-array))). The blob
// carries no schema version field; decoding tolerates unknown element fields
// but a shape change in the known fields has no migration path.

// Encode serializes the element list into the persisted blob format.
func Encode(elements []Element) (string, error) {
	if elements == nil {
		elements = []Element{}
	}
	raw, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshal elements: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("compress elements: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress elements: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a persisted blob back into the element list. An empty blob
// decodes to an empty board.
func Decode(blob string) ([]Element, error) {
	if blob == "" {
		return nil, nil
	}
	compressed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode board blob: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompress board blob: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress board blob: %w", err)
	}
	var elements []Element
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("unmarshal elements: %w", err)
	}
	return elements, nil
}
