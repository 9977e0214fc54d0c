package faqrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/yanqian/semantic-faq/internal/domain/faq"
)

// FileRepository keeps the entries in a JSON document on local disk.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileRepository constructs the repository for path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// LoadAll reads the document. A missing file yields an empty collection.
func (r *FileRepository) LoadAll(context.Context) ([]faq.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []faq.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return decodeEntries(data)
}

// SaveAll replaces the document through a temp file and rename, so readers
// never see a partial write.
func (r *FileRepository) SaveAll(_ context.Context, entries []faq.Entry) error {
	payload, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}

var _ faq.Repository = (*FileRepository)(nil)
