package config

import (
	"os"
	"path/filepath"
)

// ResolvePath returns p unchanged when it is absolute, otherwise p joined
// onto baseDir. The result is cleaned.
func ResolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

// EnsureParentDir creates the directory that will hold path
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
