// Package file provides file-backed storage adapters. The knowledge corpus
// lives in a single markdown file so it stays editable by hand.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// DefaultCorpusFile is the corpus file name inside the config directory.
const DefaultCorpusFile = "knowledge.md"

// CorpusStore is a file-backed implementation of driven.CorpusStore.
// Writes are serialised and go through a temp file rename so a crashed
// write never leaves a torn corpus behind.
type CorpusStore struct {
	mu   sync.Mutex
	path string
}

// NewCorpusStore creates a new file-backed corpus store.
// If path is empty, defaults to ~/.crewd/knowledge.md.
func NewCorpusStore(path string) (*CorpusStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".crewd", DefaultCorpusFile)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}

	return &CorpusStore{path: path}, nil
}

// Read returns the current corpus text.
func (s *CorpusStore) Read(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("reading corpus: %w", err)
	}
	return string(data), nil
}

// Write replaces the corpus text.
func (s *CorpusStore) Write(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0600); err != nil {
		return fmt.Errorf("writing corpus: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing corpus: %w", err)
	}
	return nil
}

// Path returns the corpus file path.
func (s *CorpusStore) Path() string {
	return s.path
}
