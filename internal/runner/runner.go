// Package runner generates a batch of API documents concurrently. Each
// document succeeds or fails on its own: a failure is recorded against its
// document and never stops the others.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Report describes a successfully generated document.
type Report struct {
	// APIName is the name derived from the document's file name.
	APIName string
	// Files lists the written paths, relative to the output directory.
	Files []string
	// TypesGenerated counts the declarations emitted across all targets.
	TypesGenerated int
}

// Handler generates one document.
type Handler func(ctx context.Context, doc string) (*Report, error)

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// Result is the outcome for one document.
type Result struct {
	Document string
	Report   *Report
	Err      error
}

// Options configures Run.
type Options struct {
	// Jobs bounds the number of documents processed at once. Zero means
	// GOMAXPROCS.
	Jobs int

	// Middleware wraps the handler, outermost first.
	Middleware []Middleware
}

// Run calls h for every document and returns one result per document, in
// input order. The returned error combines every document's failure, or is
// nil when all succeeded.
func Run(ctx context.Context, docs []string, h Handler, opts Options) ([]Result, error) {
	for i := len(opts.Middleware) - 1; i >= 0; i-- {
		h = opts.Middleware[i](h)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(docs))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, doc := range docs {
		results[i].Document = doc
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			results[i].Report, results[i].Err = safeCall(ctx, h, doc)
			return nil
		})
	}
	_ = g.Wait()

	var errs error
	for _, r := range results {
		errs = multierr.Append(errs, r.Err)
	}
	return results, errs
}

// safeCall turns a panic in h into an error for that document alone.
func safeCall(ctx context.Context, h Handler, doc string) (rep *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v\n%s", doc, r, debug.Stack())
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h(ctx, doc)
}

// Succeeded returns the reports of the documents that generated, in input
// order.
func Succeeded(results []Result) []*Report {
	var out []*Report
	for _, r := range results {
		if r.Err == nil && r.Report != nil {
			out = append(out, r.Report)
		}
	}
	return out
}
