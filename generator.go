// Package apigen generates type declarations and API clients for several
// languages from OpenAPI documents.
//
// Each document runs through one pipeline: it is loaded, its routes and
// schemas are extracted, the schemas become a type graph, and every target
// renders the graph plus the assembled client. Documents are processed
// concurrently and independently; a failed document writes nothing and does
// not stop the others.
package apigen

import (
	"context"
	"fmt"

	"github.com/broady/apigen/client"
	"github.com/broady/apigen/internal/runner"
	"github.com/broady/apigen/ir"
	"github.com/broady/apigen/openapi"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/sink"
	"github.com/broady/apigen/typegraph"
)

// GenerateResult describes a generation run.
type GenerateResult struct {
	// APIs holds one entry per input, in input order.
	APIs []APIResult

	// IndexFiles lists aggregate files written over the succeeded APIs.
	IndexFiles []string
}

// APIResult is the outcome for one input document.
type APIResult struct {
	Document string
	APIName  string

	// Files lists the paths written for this document, relative to OutDir.
	Files []string

	// TypesGenerated counts declarations across all targets.
	TypesGenerated int

	// Err is nil when the document generated.
	Err error
}

// Files returns every path written by the run, documents first.
func (r *GenerateResult) Files() []string {
	var files []string
	for _, api := range r.APIs {
		files = append(files, api.Files...)
	}
	return append(files, r.IndexFiles...)
}

// Generate runs cfg and writes files below cfg.OutDir. The result is
// returned even when some documents fail; the error combines their failures.
func Generate(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	if cfg.OutDir == "" {
		return nil, fmt.Errorf("OutDir is required")
	}
	return run(ctx, cfg, sink.NewFilesystemSink(cfg.OutDir))
}

// Check runs cfg against an in-memory comparison with cfg.OutDir and returns
// an error listing every drifted file. Nothing is written.
func Check(ctx context.Context, cfg *Config) (*GenerateResult, error) {
	if cfg.OutDir == "" {
		return nil, fmt.Errorf("OutDir is required")
	}
	check := sink.NewCheckSink(cfg.OutDir)
	res, err := run(ctx, cfg, check)
	if err != nil {
		return res, err
	}
	return res, check.Err()
}

// GenerateTo runs cfg writing into out instead of the filesystem. OutDir is
// not used.
func GenerateTo(ctx context.Context, cfg *Config, out sink.OutputSink) (*GenerateResult, error) {
	return run(ctx, cfg, out)
}

func run(ctx context.Context, cfg *Config, out sink.OutputSink) (*GenerateResult, error) {
	if cfg.OutDir == "" {
		// GenerateTo ignores OutDir, but validation still requires one.
		c := *cfg
		c.OutDir = "."
		cfg = &c
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg, err := applyConfigDefaults(cfg)
	if err != nil {
		return nil, err
	}
	if err := checkAPINames(cfg.Inputs); err != nil {
		return nil, err
	}

	p := &pipeline{cfg: cfg, out: out}
	results, runErr := runner.Run(ctx, cfg.Inputs, p.document, runner.Options{
		Jobs:       cfg.Jobs,
		Middleware: []runner.Middleware{runner.Logging(cfg.Logger)},
	})

	res := &GenerateResult{}
	for _, r := range results {
		api := APIResult{Document: r.Document, APIName: openapi.APIName(r.Document), Err: r.Err}
		if r.Report != nil {
			api.Files = r.Report.Files
			api.TypesGenerated = r.Report.TypesGenerated
		}
		res.APIs = append(res.APIs, api)
	}

	var apiNames []string
	for _, rep := range runner.Succeeded(results) {
		apiNames = append(apiNames, rep.APIName)
	}
	if len(apiNames) > 0 {
		files, err := p.index(ctx, apiNames)
		res.IndexFiles = files
		if err != nil {
			return res, err
		}
	}
	return res, runErr
}

// checkAPINames rejects inputs that would write to the same files.
func checkAPINames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		name := openapi.APIName(in)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s both produce API %s", prev, in, name)
		}
		seen[name] = in
	}
	return nil
}

type pipeline struct {
	cfg *Config
	out sink.OutputSink
}

// document generates one input. Output is staged and committed only after
// every target rendered.
func (p *pipeline) document(ctx context.Context, path string) (*runner.Report, error) {
	src, err := openapi.Load(path)
	if err != nil {
		return nil, err
	}
	doc, err := openapi.Extract(src)
	if err != nil {
		return nil, err
	}
	set, err := openapi.Collect(doc)
	if err != nil {
		return nil, ir.AnnotateDocument(err, path)
	}
	graph, err := typegraph.Build(set, typegraph.WithAttributeProducers(typegraph.Nullable))
	if err != nil {
		return nil, ir.AnnotateDocument(err, path)
	}
	apiName := openapi.APIName(path)
	spec, err := client.Assemble(apiName, doc, set)
	if err != nil {
		return nil, ir.AnnotateDocument(err, path)
	}

	stage := sink.NewStaged(p.out)
	unit := &render.Unit{APIName: apiName, Graph: graph, Client: spec}
	rep := &runner.Report{APIName: apiName}
	for _, t := range p.cfg.Targets {
		res, err := t.Generate(ctx, unit, stage)
		if err != nil {
			stage.Discard()
			return nil, fmt.Errorf("%s: %s: %w", path, t.Name(), err)
		}
		rep.TypesGenerated += res.TypesGenerated
	}
	if p.cfg.EmitIR {
		data, err := doc.MarshalDeterministic()
		if err != nil {
			stage.Discard()
			return nil, fmt.Errorf("%s: encode IR: %w", path, err)
		}
		if err := stage.WriteFile(ctx, apiName+".ir.json", append(data, '\n')); err != nil {
			stage.Discard()
			return nil, err
		}
	}

	files, err := stage.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rep.Files = files
	return rep, nil
}

// index writes the aggregate files of every target that has one.
func (p *pipeline) index(ctx context.Context, apiNames []string) ([]string, error) {
	var files []string
	for _, t := range p.cfg.Targets {
		ix, ok := t.(render.Indexer)
		if !ok {
			continue
		}
		res, err := ix.GenerateIndex(ctx, apiNames, p.out)
		if err != nil {
			return files, fmt.Errorf("%s index: %w", t.Name(), err)
		}
		for _, f := range res.Files {
			files = append(files, f.Path)
		}
	}
	return files, nil
}
