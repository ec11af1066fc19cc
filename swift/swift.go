// Package swift renders API types as Codable Swift and a URLSession client.
package swift

import (
	"context"
	"fmt"
	"path"

	"github.com/broady/apigen/internal/validate"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/sink"
)

// Name is the target identifier.
const Name = "swift"

// Options configures the Swift target, e.g. "swift?access_level=public".
type Options struct {
	// AccessLevel is the access modifier written on every declaration.
	AccessLevel string `schema:"access_level" validate:"oneof=internal public"`

	// Comments writes schema descriptions and operation summaries as ///
	// comments.
	Comments bool `schema:"comments"`

	// Dir is the output subdirectory.
	Dir string `schema:"dir"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{AccessLevel: "internal", Comments: true, Dir: "swift"}
}

// Generator is the Swift target. It is safe for concurrent use.
type Generator struct {
	opts Options
}

var _ render.Target = (*Generator)(nil)

// New returns a generator for opts.
func New(opts Options) (*Generator, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("swift: %w", err)
	}
	if opts.Dir != "" {
		if err := sink.ValidatePath(opts.Dir); err != nil {
			return nil, fmt.Errorf("swift: dir: %w", err)
		}
	}
	return &Generator{opts: opts}, nil
}

// Parse returns a generator configured by query on top of DefaultOptions.
func Parse(query string) (*Generator, error) {
	opts := DefaultOptions()
	if err := validate.Options(query, &opts); err != nil {
		return nil, fmt.Errorf("swift: %w", err)
	}
	return New(opts)
}

// Options returns the generator's options.
func (g *Generator) Options() Options { return g.opts }

// Name implements render.Target.
func (g *Generator) Name() string { return Name }

// Capabilities implements render.Target. Swift has no anonymous sum types,
// so every union with more than one non-null member is declared as an enum.
func (g *Generator) Capabilities() render.Capabilities {
	return render.Capabilities{InlineUnions: false}
}

// Generate writes {API}Types.swift and, when u has a client,
// {API}Client.swift.
func (g *Generator) Generate(ctx context.Context, u *render.Unit, out sink.OutputSink) (*render.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := render.NewAllocator(u.Graph, typeStyle.With(u.APIName+"Client", u.APIName+"ClientError"))

	f, err := newTypesFile(u.Graph, names, g.opts)
	if err != nil {
		return nil, err
	}
	var c *clientData
	if u.Client != nil {
		if c, err = newClientData(u.Client, names, g.opts); err != nil {
			return nil, err
		}
		f.usesAny = f.usesAny || c.usesAny
	}

	types, count := f.render()
	res := &render.Result{TypesGenerated: count}
	if err := res.Write(ctx, out, g.path(u.APIName+"Types.swift"), types); err != nil {
		return nil, err
	}
	if c == nil {
		return res, nil
	}
	content, err := c.render()
	if err != nil {
		return nil, err
	}
	if err := res.Write(ctx, out, g.path(u.APIName+"Client.swift"), content); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) path(file string) string {
	return path.Join(g.opts.Dir, file)
}
