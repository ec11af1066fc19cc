// Package openapi turns an OpenAPI 3 document into the route table and named
// schema set the generators work from.
package openapi

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/schema"
)

// ComponentSchemaPrefix is the reference prefix of component schemas.
const ComponentSchemaPrefix = "#/components/schemas/"

// Source is a loaded API document.
type Source struct {
	// Path is the file the document was read from, used in error messages.
	Path string
	Root *schema.Node
}

// Load reads and parses the document at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse parses a YAML or JSON document.
func Parse(path string, data []byte) (*Source, error) {
	root, err := schema.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if !root.IsObject() {
		return nil, fmt.Errorf("parse %s: document is a %s, not an object", path, root.Kind())
	}
	return &Source{Path: path, Root: root}, nil
}

// APIName derives the API name from a document path: the base name without
// its extension and without an "_openapi" or ".openapi" suffix, in PascalCase.
func APIName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, "_openapi")
	base = strings.TrimSuffix(base, ".openapi")
	return naming.Pascal(base)
}

// Resolver resolves local JSON pointer references against one document.
type Resolver struct {
	root *schema.Node
}

// NewResolver returns a resolver over root.
func NewResolver(root *schema.Node) *Resolver {
	return &Resolver{root: root}
}

// Resolve returns the node ref points at. Chains of references are followed
// until a node that is not itself a reference is reached. A chain that comes
// back to a reference already visited fails, as does any pointer that does
// not exist or is not local to the document.
func (r *Resolver) Resolve(ref string) (*schema.Node, error) {
	seen := make(map[string]bool)
	cur := ref
	for {
		if seen[cur] {
			return nil, ir.Errorf(ir.CodeUnresolvedReference, "reference cycle through %q", cur).WithSchema(ref)
		}
		seen[cur] = true

		n, err := r.lookup(cur)
		if err != nil {
			return nil, err
		}
		next := n.Ref()
		if next == "" {
			return n, nil
		}
		cur = next
	}
}

func (r *Resolver) lookup(ref string) (*schema.Node, error) {
	if !strings.HasPrefix(ref, "#") {
		return nil, ir.Errorf(ir.CodeUnresolvedReference, "cannot resolve %q: only local references are supported", ref).WithSchema(ref)
	}
	n, ok := r.root.Lookup(strings.TrimPrefix(ref, "#"))
	if !ok || n == nil {
		return nil, ir.Errorf(ir.CodeUnresolvedReference, "cannot resolve %q", ref).WithSchema(ref)
	}
	return n, nil
}

// Deref returns n itself, or the node it refers to when n is a reference.
func (r *Resolver) Deref(n *schema.Node) (*schema.Node, error) {
	if ref := n.Ref(); ref != "" {
		return r.Resolve(ref)
	}
	return n, nil
}

// refName returns the last segment of a reference.
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return unescapePointer(ref[i+1:])
	}
	return ref
}

func unescapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}
