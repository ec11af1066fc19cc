package sink

import (
	"context"
	"fmt"
)

// Staged buffers writes in memory and forwards them to a target sink only
// when Commit is called. A document pipeline writes into its own Staged sink
// so a failure halfway through rendering leaves nothing on disk.
type Staged struct {
	target OutputSink
	mem    *MemorySink
}

// NewStaged returns a Staged sink that commits into target.
func NewStaged(target OutputSink) *Staged {
	return &Staged{target: target, mem: NewMemorySink()}
}

// WriteFile buffers content for path.
func (s *Staged) WriteFile(ctx context.Context, path string, content []byte) error {
	return s.mem.WriteFile(ctx, path, content)
}

// Paths returns the staged paths in sorted order.
func (s *Staged) Paths() []string { return s.mem.Paths() }

// Get returns staged content for path, or nil.
func (s *Staged) Get(path string) []byte { return s.mem.Get(path) }

// Commit writes every staged file to the target in path order and clears the
// stage. It returns the committed paths.
func (s *Staged) Commit(ctx context.Context) ([]string, error) {
	files := s.mem.Files()
	paths := s.mem.Paths()
	for _, path := range paths {
		if err := s.target.WriteFile(ctx, path, files[path]); err != nil {
			return nil, fmt.Errorf("commit %s: %w", path, err)
		}
	}
	s.mem.Reset()
	return paths, nil
}

// Discard drops all staged files.
func (s *Staged) Discard() { s.mem.Reset() }
