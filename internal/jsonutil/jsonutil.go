package jsonutil

import (
	"bytes"
	"encoding/json"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Unmarshal decodes JSON bytes, tolerating a UTF-8 BOM and surrounding
// whitespace. Hand-edited record files pick these up on some editors.
func Unmarshal(data []byte, v any) error {
	data = bytes.TrimPrefix(bytes.TrimSpace(data), bom)
	return json.Unmarshal(data, v)
}

// MarshalNoEscape encodes v without escaping <, >, & into < etc., so
// record files stay readable when purposes mention code.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalNoEscapeIndent is MarshalNoEscape with indentation.
func MarshalNoEscapeIndent(v any, prefix, indent string) ([]byte, error) {
	compact, err := MarshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
