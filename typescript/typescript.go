// Package typescript renders API types and an axios client as TypeScript.
package typescript

import (
	"context"
	"fmt"
	"path"

	"github.com/broady/apigen/internal/validate"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/sink"
)

// Name is the target identifier.
const Name = "typescript"

// Options configures the TypeScript target. Options are written as a query
// string after the target name, e.g. "typescript?inline_unions=false".
type Options struct {
	// InlineUnions writes unions as "A | B" at each use site instead of
	// declaring a named type alias.
	InlineUnions bool `schema:"inline_unions"`

	// JustTypes omits the Convert namespace of JSON helpers.
	JustTypes bool `schema:"just_types"`

	// PreferTypes declares classes with "type X = {...}" instead of
	// interfaces.
	PreferTypes bool `schema:"prefer_types"`

	// UnknownType is written for values of unconstrained type.
	UnknownType string `schema:"unknown_type" validate:"oneof=any unknown"`

	// Comments writes schema descriptions and operation summaries as JSDoc.
	Comments bool `schema:"comments"`

	// Dir is the output subdirectory.
	Dir string `schema:"dir"`
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		InlineUnions: true,
		JustTypes:    true,
		UnknownType:  "any",
		Comments:     true,
		Dir:          "ts",
	}
}

// Generator is the TypeScript target. It holds no per-render state and is
// safe for concurrent use.
type Generator struct {
	opts Options
}

var (
	_ render.Target  = (*Generator)(nil)
	_ render.Indexer = (*Generator)(nil)
)

// New returns a generator for opts.
func New(opts Options) (*Generator, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("typescript: %w", err)
	}
	if opts.Dir != "" {
		if err := sink.ValidatePath(opts.Dir); err != nil {
			return nil, fmt.Errorf("typescript: dir: %w", err)
		}
	}
	return &Generator{opts: opts}, nil
}

// Parse returns a generator configured by query on top of DefaultOptions.
func Parse(query string) (*Generator, error) {
	opts := DefaultOptions()
	if err := validate.Options(query, &opts); err != nil {
		return nil, fmt.Errorf("typescript: %w", err)
	}
	return New(opts)
}

// Options returns the generator's options.
func (g *Generator) Options() Options { return g.opts }

// Name implements render.Target.
func (g *Generator) Name() string { return Name }

// Capabilities implements render.Target.
func (g *Generator) Capabilities() render.Capabilities {
	return render.Capabilities{InlineUnions: true}
}

// Generate writes {API}Types.ts and, when u has a client, {API}Client.ts.
func (g *Generator) Generate(ctx context.Context, u *render.Unit, out sink.OutputSink) (*render.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names := render.NewAllocator(u.Graph, typeStyle)

	f, err := newTypesFile(u.Graph, names, g.opts)
	if err != nil {
		return nil, err
	}
	types, count := f.render()

	res := &render.Result{TypesGenerated: count}
	if err := res.Write(ctx, out, g.path(u.APIName+"Types.ts"), types); err != nil {
		return nil, err
	}
	if u.Client == nil {
		return res, nil
	}

	client, err := renderClient(u.Client, names, g.opts)
	if err != nil {
		return nil, err
	}
	if err := res.Write(ctx, out, g.path(u.APIName+"Client.ts"), client); err != nil {
		return nil, err
	}
	return res, nil
}

// GenerateIndex writes index.ts re-exporting every named API.
func (g *Generator) GenerateIndex(ctx context.Context, apiNames []string, out sink.OutputSink) (*render.Result, error) {
	content, err := renderIndex(apiNames)
	if err != nil {
		return nil, err
	}
	res := &render.Result{}
	if err := res.Write(ctx, out, g.path("index.ts"), content); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) path(file string) string {
	return path.Join(g.opts.Dir, file)
}
