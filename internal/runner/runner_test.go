package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/multierr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ok(_ context.Context, doc string) (*Report, error) {
	return &Report{APIName: strings.ToUpper(doc), Files: []string{doc + ".ts"}}, nil
}

func TestRun_IsolatesFailures(t *testing.T) {
	h := func(ctx context.Context, doc string) (*Report, error) {
		if doc == "bad" {
			return nil, errors.New("bad document")
		}
		return ok(ctx, doc)
	}
	results, err := Run(context.Background(), []string{"a", "bad", "c"}, h, Options{Jobs: 2})
	if err == nil || !strings.Contains(err.Error(), "bad document") {
		t.Fatalf("Run error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []string{"a", "bad", "c"} {
		if results[i].Document != want {
			t.Errorf("results[%d].Document = %q, want %q", i, results[i].Document, want)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy documents failed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("bad document should fail")
	}

	var names []string
	for _, r := range Succeeded(results) {
		names = append(names, r.APIName)
	}
	if strings.Join(names, ",") != "A,C" {
		t.Errorf("Succeeded = %v", names)
	}
}

func TestRun_CombinesErrors(t *testing.T) {
	h := func(_ context.Context, doc string) (*Report, error) {
		return nil, errors.New(doc + " failed")
	}
	_, err := Run(context.Background(), []string{"x", "y"}, h, Options{})
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("combined %d errors, want 2: %v", got, err)
	}
}

func TestRun_RespectsJobs(t *testing.T) {
	var running, peak atomic.Int32
	h := func(ctx context.Context, doc string) (*Report, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return ok(ctx, doc)
	}
	docs := []string{"a", "b", "c", "d", "e", "f"}
	if _, err := Run(context.Background(), docs, h, Options{Jobs: 2}); err != nil {
		t.Fatal(err)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", p)
	}
}

func TestRun_RecoversPanics(t *testing.T) {
	h := func(ctx context.Context, doc string) (*Report, error) {
		if doc == "boom" {
			panic("unexpected node")
		}
		return ok(ctx, doc)
	}
	results, err := Run(context.Background(), []string{"boom", "fine"}, h, Options{Jobs: 1})
	if err == nil || !strings.Contains(err.Error(), "panic: unexpected node") {
		t.Fatalf("Run error = %v", err)
	}
	if results[1].Err != nil {
		t.Errorf("fine failed: %v", results[1].Err)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	h := func(ctx context.Context, doc string) (*Report, error) {
		calls.Add(1)
		return ok(ctx, doc)
	}
	results, err := Run(ctx, []string{"a", "b"}, h, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("handler called %d times", calls.Load())
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: err = %v", r.Document, r.Err)
		}
	}
}

func TestRun_MiddlewareOrder(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, doc string) (*Report, error) {
				trace = append(trace, name)
				return next(ctx, doc)
			}
		}
	}
	_, err := Run(context.Background(), []string{"a"}, ok, Options{Jobs: 1, Middleware: []Middleware{mw("outer"), mw("inner")}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(trace, ",") != "outer,inner" {
		t.Errorf("trace = %v", trace)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	h := func(ctx context.Context, doc string) (*Report, error) {
		if doc == "bad.yaml" {
			return nil, errors.New("test error")
		}
		return ok(ctx, doc)
	}
	_, _ = Run(context.Background(), []string{"good.yaml", "bad.yaml"}, h, Options{Jobs: 1, Middleware: []Middleware{Logging(logger)}})

	logOutput := buf.String()
	for _, want := range []string{
		"document started",
		"document completed",
		`"api":"GOOD.YAML"`,
		"document failed",
		"test error",
		`"document":"bad.yaml"`,
	} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("expected %q in log output:\n%s", want, logOutput)
		}
	}
}
