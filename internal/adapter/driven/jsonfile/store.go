// Package jsonfile stores the services and categories documents as JSON files
// in a data directory.
package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/servicehub/internal/adapter/driven/document"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.DocumentStore   = (*Store)(nil)
	_ driven.DocumentWatcher = (*Store)(nil)
)

// Store keeps each document in <dir>/<name>.json. Every save rewrites the
// whole file atomically; Update holds a process-wide mutex so read-modify-write
// sequences from this process never interleave. Edits made by other processes
// are not coordinated.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Services reads the services document.
func (s *Store) Services(_ context.Context) ([]model.Service, error) {
	data, err := s.read(driven.DocumentServices)
	if err != nil {
		return nil, err
	}
	return document.DecodeServices(data)
}

// Categories reads the categories document.
func (s *Store) Categories(_ context.Context) ([]model.Category, error) {
	data, err := s.read(driven.DocumentCategories)
	if err != nil {
		return nil, err
	}
	return document.DecodeCategories(data)
}

// Update runs fn with exclusive write access. Saves are written to disk as
// they happen, so saves made before fn fails are kept.
func (s *Store) Update(ctx context.Context, fn func(tx driven.DocumentTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(storeTx{s: s})
}

// storeTx writes straight through to the files; the store mutex is held by
// Update for its whole lifetime.
type storeTx struct {
	s *Store
}

func (tx storeTx) Services(ctx context.Context) ([]model.Service, error) {
	return tx.s.Services(ctx)
}

func (tx storeTx) Categories(ctx context.Context) ([]model.Category, error) {
	return tx.s.Categories(ctx)
}

func (tx storeTx) SaveServices(_ context.Context, services []model.Service) error {
	data, err := document.EncodeServices(services)
	if err != nil {
		return err
	}
	return tx.s.write(driven.DocumentServices, data)
}

func (tx storeTx) SaveCategories(_ context.Context, categories []model.Category) error {
	data, err := document.EncodeCategories(categories)
	if err != nil {
		return err
	}
	return tx.s.write(driven.DocumentCategories, data)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// read returns the raw document. A missing file reads as empty.
func (s *Store) read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s document: %w", name, err)
	}
	return data, nil
}

func (s *Store) write(name string, data []byte) error {
	if err := atomic.WriteFile(s.path(name), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s document: %w", name, err)
	}
	return nil
}
