// Command apigen generates types and API clients from OpenAPI documents.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/broady/apigen"
)

type CLI struct {
	Verbose bool `help:"Log debug output." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate types and clients from OpenAPI documents."`
	Check   CheckCmd   `cmd:"" help:"Report generated files that are missing or out of date without writing."`
	Targets TargetsCmd `cmd:"" help:"List the available targets."`
}

// Globals are handed to every command's Run.
type Globals struct {
	Logger *slog.Logger
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type TargetsCmd struct{}

func (c *TargetsCmd) Run() error {
	for _, name := range apigen.TargetNames() {
		fmt.Println(name)
	}
	return nil
}

// GenFlags are shared by gen and check.
type GenFlags struct {
	Inputs  []string `arg:"" help:"OpenAPI documents or glob patterns." name:"input"`
	Out     string   `help:"Output directory." short:"o" default:"."`
	Targets []string `help:"Target to render, with options as a query (e.g. typescript?inline_unions=false). Repeatable." short:"t" name:"target" default:"typescript"`
	Jobs    int      `help:"Documents processed at once (0: one per CPU)." short:"j" default:"0"`
	EmitIR  bool     `help:"Also write {API}.ir.json." name:"emit-ir"`
}

func (f *GenFlags) config(logger *slog.Logger) (*apigen.Config, error) {
	inputs, err := expandInputs(f.Inputs)
	if err != nil {
		return nil, err
	}
	targets, err := apigen.ParseTargets(f.Targets...)
	if err != nil {
		return nil, err
	}
	return &apigen.Config{
		Inputs:  inputs,
		OutDir:  f.Out,
		Targets: targets,
		Jobs:    f.Jobs,
		EmitIR:  f.EmitIR,
		Logger:  logger,
	}, nil
}

type GenCmd struct {
	GenFlags
}

func (c *GenCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := c.config(g.Logger)
	if err != nil {
		return err
	}
	res, err := apigen.Generate(ctx, cfg)
	if res != nil {
		failed := 0
		for _, api := range res.APIs {
			if api.Err != nil {
				failed++
			}
		}
		fmt.Fprintf(os.Stderr, "generated %d file(s) for %d of %d document(s)\n", len(res.Files()), len(res.APIs)-failed, len(res.APIs))
	}
	return err
}

type CheckCmd struct {
	GenFlags
}

func (c *CheckCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := c.config(g.Logger)
	if err != nil {
		return err
	}
	if _, err := apigen.Check(ctx, cfg); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "generated files are up to date")
	return nil
}

// expandInputs expands glob patterns. A pattern without meta characters is
// kept as is so a missing file surfaces as a load error naming it.
func expandInputs(patterns []string) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[") {
			if !seen[p] {
				seen[p] = true
				inputs = append(inputs, p)
			}
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no documents match %q", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				inputs = append(inputs, m)
			}
		}
	}
	return inputs, nil
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("apigen"),
		kong.Description("Generate types and API clients from OpenAPI documents."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err := kctx.Run(&Globals{Logger: logger})
	kctx.FatalIfErrorf(err)
}
