// Package schema provides an ordered, immutable tree for JSON and YAML documents.
// Object keys keep their declaration order, which the generators rely on for
// stable output.
package schema

import (
	"strconv"
	"strings"
)

// Kind identifies the JSON type of a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Node is one value of a parsed document.
// A nil *Node is valid and behaves like an absent value.
type Node struct {
	kind  Kind
	text  string // scalar text for Bool, Number, String
	keys  []string
	props map[string]*Node
	items []*Node

	line   int
	column int
}

// Kind returns the node kind. A nil node reports KindNull.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsObject reports whether n is a JSON object.
func (n *Node) IsObject() bool { return n != nil && n.kind == KindObject }

// IsArray reports whether n is a JSON array.
func (n *Node) IsArray() bool { return n != nil && n.kind == KindArray }

// Line returns the 1-based source line, or 0 when unknown.
func (n *Node) Line() int {
	if n == nil {
		return 0
	}
	return n.line
}

// Column returns the 1-based source column, or 0 when unknown.
func (n *Node) Column() int {
	if n == nil {
		return 0
	}
	return n.column
}

// Get returns the value stored under key, or nil.
func (n *Node) Get(key string) *Node {
	if n == nil || n.kind != KindObject {
		return nil
	}
	return n.props[key]
}

// Has reports whether the object has key.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindObject {
		return false
	}
	_, ok := n.props[key]
	return ok
}

// Keys returns object keys in declaration order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != KindObject {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Items returns array elements.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindArray {
		return nil
	}
	out := make([]*Node, len(n.items))
	copy(out, n.items)
	return out
}

// Len returns the number of keys or elements.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.items)
	}
	return 0
}

// Str returns the scalar text of n. It is empty for objects, arrays and null.
func (n *Node) Str() string {
	if n == nil {
		return ""
	}
	return n.text
}

// Bool returns the boolean value and whether n is a boolean.
func (n *Node) Bool() (value, ok bool) {
	if n == nil || n.kind != KindBool {
		return false, false
	}
	return n.text == "true", true
}

// Ref returns the $ref string of an object node, or "".
func (n *Node) Ref() string {
	ref := n.Get("$ref")
	if ref.Kind() != KindString {
		return ""
	}
	return ref.text
}

// Strings returns the string elements of an array node. Non-string elements are skipped.
func (n *Node) Strings() []string {
	var out []string
	for _, item := range n.Items() {
		if item.kind == KindString {
			out = append(out, item.text)
		}
	}
	return out
}

// Lookup resolves a JSON pointer ("/a/b/0") relative to n.
func (n *Node) Lookup(pointer string) (*Node, bool) {
	if pointer == "" {
		return n, n != nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}
	cur := n
	for _, raw := range strings.Split(pointer[1:], "/") {
		token := strings.ReplaceAll(strings.ReplaceAll(raw, "~1", "/"), "~0", "~")
		switch cur.Kind() {
		case KindObject:
			next, ok := cur.props[token]
			if !ok {
				return nil, false
			}
			cur = next
		case KindArray:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(cur.items) {
				return nil, false
			}
			cur = cur.items[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// RewriteRefs returns a copy of n in which every $ref value starting with
// prefix has that prefix removed. Subtrees without matching refs are shared.
func (n *Node) RewriteRefs(prefix string) *Node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case KindObject:
		var out *Node
		for _, key := range n.keys {
			child := n.props[key]
			var rewritten *Node
			if key == "$ref" && child.kind == KindString && strings.HasPrefix(child.text, prefix) {
				rewritten = &Node{kind: KindString, text: strings.TrimPrefix(child.text, prefix), line: child.line, column: child.column}
			} else {
				rewritten = child.RewriteRefs(prefix)
			}
			if rewritten != child && out == nil {
				out = n.shallowCopy()
			}
			if out != nil {
				out.props[key] = rewritten
			}
		}
		if out != nil {
			return out
		}
		return n
	case KindArray:
		var out *Node
		for i, item := range n.items {
			rewritten := item.RewriteRefs(prefix)
			if rewritten != item && out == nil {
				out = n.shallowCopy()
			}
			if out != nil {
				out.items[i] = rewritten
			}
		}
		if out != nil {
			return out
		}
		return n
	}
	return n
}

func (n *Node) shallowCopy() *Node {
	c := *n
	if n.props != nil {
		c.props = make(map[string]*Node, len(n.props))
		for k, v := range n.props {
			c.props[k] = v
		}
		c.keys = append([]string(nil), n.keys...)
	}
	if n.items != nil {
		c.items = append([]*Node(nil), n.items...)
	}
	return &c
}
