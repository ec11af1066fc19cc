// Package golang renders API types as Go structs and a net/http client.
package golang

import (
	"context"
	"fmt"
	"go/token"
	"path"

	"golang.org/x/tools/imports"

	"github.com/broady/apigen/internal/validate"
	"github.com/broady/apigen/naming"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/sink"
)

// Name is the target identifier.
const Name = "go"

// Options configures the Go target, e.g. "go?package=widgets".
type Options struct {
	// Package is the package clause of the generated files.
	Package string `schema:"package" validate:"required"`

	// Comments writes schema descriptions and operation summaries as doc
	// comments.
	Comments bool `schema:"comments"`

	// Dir is the output subdirectory.
	Dir string `schema:"dir"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Package: "client", Comments: true, Dir: "go"}
}

// Generator is the Go target. It is safe for concurrent use.
type Generator struct {
	opts Options
}

var _ render.Target = (*Generator)(nil)

// New returns a generator for opts.
func New(opts Options) (*Generator, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("go: %w", err)
	}
	if !token.IsIdentifier(opts.Package) || token.IsKeyword(opts.Package) {
		return nil, fmt.Errorf("go: package %q is not a valid package name", opts.Package)
	}
	if opts.Dir != "" {
		if err := sink.ValidatePath(opts.Dir); err != nil {
			return nil, fmt.Errorf("go: dir: %w", err)
		}
	}
	return &Generator{opts: opts}, nil
}

// Parse returns a generator configured by query on top of DefaultOptions.
func Parse(query string) (*Generator, error) {
	opts := DefaultOptions()
	if err := validate.Options(query, &opts); err != nil {
		return nil, fmt.Errorf("go: %w", err)
	}
	return New(opts)
}

// Options returns the generator's options.
func (g *Generator) Options() Options { return g.opts }

// Name implements render.Target.
func (g *Generator) Name() string { return Name }

// Capabilities implements render.Target.
func (g *Generator) Capabilities() render.Capabilities {
	return render.Capabilities{InlineUnions: false}
}

// Generate writes {api}_types.go and, when u has a client, {api}_client.go.
// Both files are gofmt-formatted.
func (g *Generator) Generate(ctx context.Context, u *render.Unit, out sink.OutputSink) (*render.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clientName := exported(u.APIName) + "Client"
	names := render.NewAllocator(u.Graph, typeStyle.With(clientName, "New"+clientName))

	f, err := newTypesFile(u.Graph, names, g.opts)
	if err != nil {
		return nil, err
	}
	base := naming.Snake(u.APIName)

	src, count := f.render()
	res := &render.Result{TypesGenerated: count}
	if err := g.write(ctx, res, out, base+"_types.go", src); err != nil {
		return nil, err
	}
	if u.Client == nil {
		return res, nil
	}
	src, err = renderClient(u.Client, clientName, names, g.opts)
	if err != nil {
		return nil, err
	}
	if err := g.write(ctx, res, out, base+"_client.go", src); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) write(ctx context.Context, res *render.Result, out sink.OutputSink, file string, src []byte) error {
	formatted, err := imports.Process(file, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return fmt.Errorf("go: format %s: %w", file, err)
	}
	return res.Write(ctx, out, path.Join(g.opts.Dir, file), formatted)
}
