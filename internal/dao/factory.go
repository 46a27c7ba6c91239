// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of gridbind

package dao

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileFactory implements the Factory interface over the local filesystem.
type FileFactory struct {
	root string
}

// NewFactory creates a new FileFactory resolving relative names against root.
// An empty root uses the working directory.
func NewFactory(root string) *FileFactory {
	return &FileFactory{root: root}
}

func (f *FileFactory) path(name string) string {
	if f.root == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.root, name)
}

// ReadFile returns the content of a file.
func (f *FileFactory) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(f.path(name))
}

// WriteFile replaces a file through a temp file so readers never see a
// partial write.
func (f *FileFactory) WriteFile(name string, data []byte) error {
	path := f.path(name)
	perm := os.FileMode(0600)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	return os.Rename(tmp.Name(), path)
}

// ModTime returns the last modification time of a file.
func (f *FileFactory) ModTime(name string) (time.Time, error) {
	fi, err := os.Stat(f.path(name))
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}
