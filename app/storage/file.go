package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSlot stores the value in <dir>/<key>.json.
type FileSlot struct {
	Path string
}

// NewFileSlot returns a slot for key under dir. The directory is created on
// first write.
func NewFileSlot(dir, key string) *FileSlot {
	return &FileSlot{Path: filepath.Join(dir, key+".json")}
}

func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return b, nil
}

// Write replaces the file through a temporary file and a rename so a reader
// never sees a partial value.
func (s *FileSlot) Write(ctx context.Context, value []byte) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0600); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.Path, err)
	}
	return nil
}

func (s *FileSlot) Close(ctx context.Context) error { return nil }
