package schema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON document into a Node tree.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Kind == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	return convert(&doc, 0)
}

// MustParse is like Parse but panics on error. It is meant for tests and
// package-level fixtures.
func MustParse(src string) *Node {
	n, err := Parse([]byte(src))
	if err != nil {
		panic(err)
	}
	return n
}

// maxAliasDepth bounds alias expansion so a self-referencing anchor cannot recurse forever.
const maxAliasDepth = 64

func convert(y *yaml.Node, aliasDepth int) (*Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return &Node{kind: KindNull, line: y.Line, column: y.Column}, nil
		}
		return convert(y.Content[0], aliasDepth)

	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth {
			return nil, fmt.Errorf("line %d: alias nesting too deep", y.Line)
		}
		return convert(y.Alias, aliasDepth+1)

	case yaml.MappingNode:
		n := &Node{
			kind:   KindObject,
			props:  make(map[string]*Node, len(y.Content)/2),
			line:   y.Line,
			column: y.Column,
		}
		for i := 0; i+1 < len(y.Content); i += 2 {
			keyNode, valueNode := y.Content[i], y.Content[i+1]
			key := keyNode.Value
			if _, dup := n.props[key]; dup {
				return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
			}
			value, err := convert(valueNode, aliasDepth)
			if err != nil {
				return nil, err
			}
			n.keys = append(n.keys, key)
			n.props[key] = value
		}
		return n, nil

	case yaml.SequenceNode:
		n := &Node{kind: KindArray, items: make([]*Node, 0, len(y.Content)), line: y.Line, column: y.Column}
		for _, item := range y.Content {
			value, err := convert(item, aliasDepth)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, value)
		}
		return n, nil

	case yaml.ScalarNode:
		return scalar(y), nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", y.Line, y.Kind)
}

func scalar(y *yaml.Node) *Node {
	n := &Node{line: y.Line, column: y.Column}
	switch y.ShortTag() {
	case "!!null":
		n.kind = KindNull
	case "!!bool":
		n.kind = KindBool
		if b, err := strconv.ParseBool(strings.ToLower(y.Value)); err == nil && b {
			n.text = "true"
		} else {
			n.text = "false"
		}
	case "!!int", "!!float":
		n.kind = KindNumber
		n.text = y.Value
	default:
		n.kind = KindString
		n.text = y.Value
	}
	return n
}
