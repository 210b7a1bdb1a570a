package docstore

import (
	"context"
	"os"
	"path/filepath"
)

// File persists the document as a local JSON file with atomic replace
type File struct {
	path string
}

// NewFile creates a file backend at path
func NewFile(path string) *File {
	return &File{path: path}
}

// Name implements Backend
func (f *File) Name() string { return "file" }

// Load implements Backend
func (f *File) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

// Save implements Backend. Writes to a temp file in the same directory and
// renames so readers never observe a torn document
func (f *File) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}
