// Package render defines the contract every target language renderer
// satisfies and the pieces they share: source emission, name allocation and
// union normalization.
package render

import (
	"context"

	"github.com/broady/apigen/client"
	"github.com/broady/apigen/sink"
	"github.com/broady/apigen/typegraph"
)

// Capabilities describes what a target language can express.
type Capabilities struct {
	// InlineUnions reports whether anonymous alternations ("A | B") can be
	// written at a use site.
	InlineUnions bool
}

// Unit is everything needed to render one API: its name, the type graph of
// its schema set and the assembled client.
type Unit struct {
	APIName string
	Graph   *typegraph.Graph
	Client  *client.Spec
}

// Target renders one API into the files of one language.
type Target interface {
	// Name returns the target identifier (e.g. "typescript").
	Name() string

	// Capabilities reports what the language can express.
	Capabilities() Capabilities

	// Generate renders u and writes the resulting files to out.
	Generate(ctx context.Context, u *Unit, out sink.OutputSink) (*Result, error)
}

// Indexer is implemented by targets that write one aggregate file over all
// successfully generated APIs, such as a TypeScript index module.
type Indexer interface {
	GenerateIndex(ctx context.Context, apiNames []string, out sink.OutputSink) (*Result, error)
}

// Result describes what a Generate call wrote.
type Result struct {
	// Files lists every written file.
	Files []OutputFile

	// TypesGenerated counts the type declarations emitted.
	TypesGenerated int
}

// OutputFile describes a generated file.
type OutputFile struct {
	// Path is the sink-relative path.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// Write writes content to out and records it in r.
func (r *Result) Write(ctx context.Context, out sink.OutputSink, path string, content []byte) error {
	if err := out.WriteFile(ctx, path, content); err != nil {
		return err
	}
	r.Files = append(r.Files, OutputFile{Path: path, Size: int64(len(content))})
	return nil
}
