package recordfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/recwatch/pkg/recwatch"
)

// Supported record output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Marshal serializes rec in the given format with fields in sorted order and
// a trailing newline. An empty format means YAML.
func Marshal(rec recwatch.Record, format string) ([]byte, error) {
	if rec == nil {
		rec = recwatch.Record{}
	}

	// sigs.k8s.io/yaml sorts map keys, which keeps output stable for diffing.
	yamlBytes, err := sigsyaml.Marshal(map[string]any(rec))
	if err != nil {
		return nil, fmt.Errorf("serializing record: %w", err)
	}

	switch format {
	case "", FormatYAML:
		return withTrailingNewline(yamlBytes), nil
	case FormatJSON:
		jsonBytes, convErr := sigsyaml.YAMLToJSON(yamlBytes)
		if convErr != nil {
			return nil, fmt.Errorf("converting record to JSON: %w", convErr)
		}

		var buf bytes.Buffer
		if indentErr := json.Indent(&buf, jsonBytes, "", "  "); indentErr != nil {
			return nil, fmt.Errorf("formatting JSON: %w", indentErr)
		}

		return withTrailingNewline(buf.Bytes()), nil
	default:
		return nil, fmt.Errorf("unsupported record format %q: must be one of yaml, json", format)
	}
}

func withTrailingNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b
}
