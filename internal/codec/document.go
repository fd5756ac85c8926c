package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"plankit/internal/plan"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", s)
	}
}

// FormatForPath picks the format from a file extension. Anything that is
// not .yaml or .yml is JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// MarshalJSON renders p as an indented JSON document.
func MarshalJSON(p plan.Plan) ([]byte, error) {
	n, err := Encode(p)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan json: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalJSON parses and validates a JSON plan document. Unknown fields
// are rejected.
func UnmarshalJSON(data []byte) (plan.Plan, error) {
	var n Node
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&n); err != nil {
		return nil, ValidationErrors{{Field: "json", Message: err.Error()}}
	}
	return Decode(n)
}

// MarshalYAML renders p as a YAML document.
func MarshalYAML(p plan.Plan) ([]byte, error) {
	n, err := Encode(p)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("marshal plan yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal plan yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML parses and validates a YAML plan document. Unknown fields
// are rejected.
func UnmarshalYAML(data []byte) (plan.Plan, error) {
	var n Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&n); err != nil {
		return nil, ValidationErrors{{Field: "yaml", Message: err.Error()}}
	}
	return Decode(n)
}

// Marshal renders p in the given format.
func Marshal(p plan.Plan, f Format) ([]byte, error) {
	if f == FormatYAML {
		return MarshalYAML(p)
	}
	return MarshalJSON(p)
}

// Unmarshal parses a document in the given format.
func Unmarshal(data []byte, f Format) (plan.Plan, error) {
	if f == FormatYAML {
		return UnmarshalYAML(data)
	}
	return UnmarshalJSON(data)
}
