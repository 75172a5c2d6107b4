// Package recordfile reads, parses and writes flat records stored as YAML or
// JSON documents.
package recordfile

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/recwatch/pkg/recwatch"
)

// Load reads the record stored at path.
func Load(path string) (recwatch.Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied record path
	if err != nil {
		return nil, fmt.Errorf("reading record file %s: %w", path, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding record file %s: %w", path, err)
	}

	return rec, nil
}

// Decode parses a YAML or JSON document whose root is a mapping of scalar
// values. Field names must be strings, and numbers must be finite. An
// empty document yields an empty record. Errors name the line and column of
// the offending node.
func Decode(data []byte) (recwatch.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if len(doc.Content) == 0 {
		return recwatch.Record{}, nil
	}

	root := resolveAlias(doc.Content[0])

	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return recwatch.Record{}, nil
	}

	if root.Kind != yaml.MappingNode {
		return nil, nodeError(root, "record must be a mapping, got %s", kindName(root))
	}

	rec := make(recwatch.Record, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := resolveAlias(root.Content[i])
		valNode := resolveAlias(root.Content[i+1])

		if keyNode.Kind != yaml.ScalarNode {
			return nil, nodeError(keyNode, "field names must be scalars, got %s", kindName(keyNode))
		}

		if keyNode.ShortTag() != "!!str" {
			return nil, nodeError(keyNode, "field names must be strings, got %s %q", keyNode.ShortTag(), keyNode.Value)
		}

		key := keyNode.Value
		if _, dup := rec[key]; dup {
			return nil, nodeError(keyNode, "duplicate field %q", key)
		}

		if valNode.Kind != yaml.ScalarNode {
			return nil, nodeError(valNode, "field %q: %s values are not supported, only scalars", key, kindName(valNode))
		}

		var val any
		if err := valNode.Decode(&val); err != nil {
			return nil, nodeError(valNode, "field %q: %v", key, err)
		}

		if !isFinite(val) {
			return nil, nodeError(valNode, "field %q: non-finite number %s is not supported", key, valNode.Value)
		}

		rec[key] = val
	}

	return rec, nil
}

// ParseValue resolves s the way a plain YAML scalar would be: "2" is an int,
// "2.5" a float64, "true" a bool, "null" nil. Quoted input yields the
// unquoted string. Anything that is not a scalar, and the non-finite
// numbers .inf and .nan, are kept verbatim as strings. The empty string
// stays a string.
func ParseValue(s string) any {
	if s == "" {
		return ""
	}

	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}

	switch v.(type) {
	case map[string]any, []any:
		return s
	}

	if !isFinite(v) {
		return s
	}

	return v
}

// isFinite reports false only for float infinities and NaN.
func isFinite(v any) bool {
	f, ok := v.(float64)

	return !ok || !(math.IsInf(f, 0) || math.IsNaN(f))
}

// ParseAssignment splits a key=value assignment and resolves the value with
// ParseValue. Only the first '=' separates key from value.
func ParseAssignment(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid assignment %q: expected key=value", s)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("invalid assignment %q: empty key", s)
	}

	return key, ParseValue(raw), nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d:%d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
