package apigen

import (
	"fmt"
	"slices"
	"strings"

	"github.com/broady/apigen/golang"
	"github.com/broady/apigen/render"
	"github.com/broady/apigen/swift"
	"github.com/broady/apigen/typescript"
)

// targetParsers maps target names to constructors taking an option query.
var targetParsers = map[string]func(query string) (render.Target, error){
	typescript.Name: func(q string) (render.Target, error) {
		g, err := typescript.Parse(q)
		if err != nil {
			return nil, err
		}
		return g, nil
	},
	swift.Name: func(q string) (render.Target, error) {
		g, err := swift.Parse(q)
		if err != nil {
			return nil, err
		}
		return g, nil
	},
	golang.Name: func(q string) (render.Target, error) {
		g, err := golang.Parse(q)
		if err != nil {
			return nil, err
		}
		return g, nil
	},
}

// targetAliases are accepted short names.
var targetAliases = map[string]string{
	"ts":     typescript.Name,
	"golang": golang.Name,
}

// TargetNames returns the names ParseTarget accepts, sorted.
func TargetNames() []string {
	names := make([]string, 0, len(targetParsers))
	for name := range targetParsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseTarget builds a target from a spec of the form "name" or
// "name?option=value&...", for example "typescript?inline_unions=false".
func ParseTarget(spec string) (render.Target, error) {
	name, query, _ := strings.Cut(strings.TrimSpace(spec), "?")
	name = strings.ToLower(name)
	if alias, ok := targetAliases[name]; ok {
		name = alias
	}
	parse, ok := targetParsers[name]
	if !ok {
		return nil, fmt.Errorf("unknown target %q (expected one of: %s)", name, strings.Join(TargetNames(), ", "))
	}
	t, err := parse(query)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}
	return t, nil
}

// ParseTargets parses each spec with ParseTarget. Two targets with the same
// name would write the same files, so duplicates are rejected.
func ParseTargets(specs ...string) ([]render.Target, error) {
	seen := make(map[string]bool)
	targets := make([]render.Target, 0, len(specs))
	for _, spec := range specs {
		t, err := ParseTarget(spec)
		if err != nil {
			return nil, err
		}
		if seen[t.Name()] {
			return nil, fmt.Errorf("target %s given more than once", t.Name())
		}
		seen[t.Name()] = true
		targets = append(targets, t)
	}
	return targets, nil
}
