package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage writes report files to the local filesystem.
type Storage struct{}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ResolvePath returns path itself, or path/defaultName when path is an
// existing directory or ends with a separator.
func (s *Storage) ResolvePath(path, defaultName string) string {
	if path == "" {
		return defaultName
	}
	if isDir(path) || os.IsPathSeparator(path[len(path)-1]) {
		return filepath.Join(path, defaultName)
	}
	return path
}

// Create opens filePath for writing, creating parent directories as needed.
func (s *Storage) Create(filePath string) (*os.File, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
