package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// DriftKind describes how a file on disk differs from generated output.
type DriftKind string

const (
	DriftMissing DriftKind = "missing"
	DriftChanged DriftKind = "changed"
)

// Drift is one out-of-date file.
type Drift struct {
	Path string
	Kind DriftKind
}

func (d Drift) String() string { return string(d.Kind) + ": " + d.Path }

// CheckSink compares generated output against the files under Root without
// writing anything. It is safe for concurrent use.
type CheckSink struct {
	Root string

	mu    sync.Mutex
	drift []Drift
}

// NewCheckSink returns a CheckSink comparing against root.
func NewCheckSink(root string) *CheckSink {
	return &CheckSink{Root: root}
}

// WriteFile records drift when the file at path is missing or different.
func (s *CheckSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := resolve(s.Root, path)
	if err != nil {
		return err
	}
	existing, err := os.ReadFile(fullPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.record(Drift{Path: path, Kind: DriftMissing})
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	case !bytes.Equal(existing, content):
		s.record(Drift{Path: path, Kind: DriftChanged})
	}
	return nil
}

func (s *CheckSink) record(d Drift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drift = append(s.drift, d)
}

// Drift returns the recorded drift sorted by path.
func (s *CheckSink) Drift() []Drift {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.drift)
	slices.SortFunc(out, func(a, b Drift) int { return strings.Compare(a.Path, b.Path) })
	return out
}

// Err returns an error listing every drifted file, or nil.
func (s *CheckSink) Err() error {
	drift := s.Drift()
	if len(drift) == 0 {
		return nil
	}
	lines := make([]string, len(drift))
	for i, d := range drift {
		lines[i] = "  " + d.String()
	}
	return fmt.Errorf("%d generated file(s) out of date:\n%s", len(drift), strings.Join(lines, "\n"))
}
