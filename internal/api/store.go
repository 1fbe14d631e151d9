package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps generated documents on disk under random names until they
// expire. Download names carry no client-controlled path components.
type Store struct {
	dir string
	ttl time.Duration

	mu    sync.Mutex
	files map[string]entry
}

type entry struct {
	suggested string
	expires   time.Time
}

// NewStore creates a store rooted at dir. Files are swept after ttl.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{
		dir:   dir,
		ttl:   ttl,
		files: make(map[string]entry),
	}, nil
}

// Put writes document bytes under a fresh random name and returns it.
// The suggested filename is kept for the download Content-Disposition.
func (s *Store) Put(data []byte, suggested string) (string, error) {
	name := uuid.NewString() + ".pptx"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}

	s.mu.Lock()
	s.files[name] = entry{suggested: suggested, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return name, nil
}

// Get returns the on-disk path and suggested filename for a stored name.
// Unknown or expired names return ok=false.
func (s *Store) Get(name string) (path, suggested string, ok bool) {
	s.mu.Lock()
	e, found := s.files[name]
	s.mu.Unlock()
	if !found || time.Now().After(e.expires) {
		return "", "", false
	}
	return filepath.Join(s.dir, name), e.suggested, true
}

// Sweep removes expired documents.
func (s *Store) Sweep() {
	now := time.Now()

	s.mu.Lock()
	var stale []string
	for name, e := range s.files {
		if now.After(e.expires) {
			stale = append(stale, name)
			delete(s.files, name)
		}
	}
	s.mu.Unlock()

	for _, name := range stale {
		os.Remove(filepath.Join(s.dir, name))
	}
}

// Run sweeps periodically until the context is canceled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
