// Package validation checks the files the pipeline reads and produces
// before a stage touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator provides file validation for pipeline inputs and artifacts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateOutputDirectory ensures output directory exists or can be created
// and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile checks that path is a readable file with a .csv extension
func (v *FileValidator) ValidateCSVFile(path string) error {
	return v.validateWithExtension(path, ".csv")
}

// ValidateExcelFile checks that path is a readable .xlsx workbook that is not
// an Excel lock file
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.validateWithExtension(path, ".xlsx"); err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}
	return nil
}

// ValidateFileSize checks that the file at path is not empty and is at most
// maxBytes long. A maxBytes of 0 disables the upper bound.
func (v *FileValidator) ValidateFileSize(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s is empty", path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		v.logger.Error("File too large",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("max", maxBytes))
		return fmt.Errorf("file %s is %d bytes, limit is %d", path, info.Size(), maxBytes)
	}
	return nil
}

func (v *FileValidator) validateWithExtension(path, want string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != want {
		v.logger.Error("Unexpected file extension",
			slog.String("file", path),
			slog.String("extension", ext),
			slog.String("expected", want))
		return fmt.Errorf("file %s has extension %q, expected %q", path, ext, want)
	}
	return nil
}
