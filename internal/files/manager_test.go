package files

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeString(s string) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestManager_WriteAtomic(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		write    func(w io.Writer) error
		wantErr  bool
		want     string
	}{
		{
			name:  "creates new file",
			write: writeString("report v1"),
			want:  "report v1",
		},
		{
			name:     "replaces existing file",
			existing: "old report",
			write:    writeString("report v2"),
			want:     "report v2",
		},
		{
			name:     "failed write keeps existing file",
			existing: "old report",
			write: func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				return errors.New("encoder failed")
			},
			wantErr: true,
			want:    "old report",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			target := filepath.Join(dir, "sales_report.xlsx")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(target, []byte(tt.existing), 0644))
			}

			err := newTestManager().WriteAtomic(target, tt.write)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			content, readErr := os.ReadFile(target)
			require.NoError(t, readErr)
			assert.Equal(t, tt.want, string(content))
			assert.Equal(t, []string{"sales_report.xlsx"}, listDir(t, dir), "no temp files left behind")
		})
	}
}

func TestManager_WriteAtomic_FailedWriteCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "report.xlsx")

	err := newTestManager().WriteAtomic(target, func(w io.Writer) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.NoFileExists(t, target)
	assert.Empty(t, listDir(t, dir))
}

func TestManager_WriteAtomic_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "monthly", "report.xlsx")

	require.NoError(t, newTestManager().WriteAtomic(target, writeString("data")))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestManager_WriteAtomic_DirectoryIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := newTestManager().WriteAtomic(filepath.Join(blocker, "report.xlsx"), writeString("data"))
	assert.Error(t, err)
}

func TestManager_FileHelpers(t *testing.T) {
	m := newTestManager()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")

	assert.False(t, m.FileExists(path))
	assert.False(t, m.FileExists(dir), "directories are not files")

	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))
	assert.True(t, m.FileExists(path))

	size, err := m.GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	data, err := m.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = m.GetFileSize(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	nested := filepath.Join(dir, "x", "y")
	require.NoError(t, m.EnsureDirectory(nested))
	require.NoError(t, m.EnsureDirectory(nested))
	assert.DirExists(t, nested)
}

func TestManager_WriteAtomic_LogsReplacement(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	target := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, m.WriteAtomic(target, writeString("first")))
	require.NoError(t, m.WriteAtomic(target, writeString("second")))

	logs := buf.String()
	assert.Equal(t, 1, strings.Count(logs, `"replaced":false`), logs)
	assert.Equal(t, 1, strings.Count(logs, `"replaced":true`), logs)
}
