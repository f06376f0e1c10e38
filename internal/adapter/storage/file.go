package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

// A FileKVStorage keeps all entries in one JSON document on disk.
//
// Values are stored as base64 strings by the JSON encoder. Every Set rewrites
// the document through a temporary file and a rename.
type FileKVStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileKVStorage(path string) (*FileKVStorage, error) {
	const op = "NewFileKVStorage"

	if path == "" {
		return nil, fmt.Errorf("%s: empty file path", op)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FileKVStorage{path: path}, nil
}

func (s *FileKVStorage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "FileKVStorage.Get"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	v, ok := entries[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (s *FileKVStorage) Set(ctx context.Context, key string, value []byte) error {
	const op = "FileKVStorage.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		// an unreadable document is replaced rather than blocking writes
		entries = make(map[string][]byte)
	}
	entries[key] = value

	if err := s.write(entries); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *FileKVStorage) read() (map[string][]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string][]byte), nil
		}
		return nil, err
	}

	entries := make(map[string][]byte)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("malformed storage file: %w", err)
	}
	return entries, nil
}

func (s *FileKVStorage) write(entries map[string][]byte) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
