package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSystemStore_Save(t *testing.T) {
	t.Run("saves file to disk", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileSystemStore(dir)

		data := bytes.NewReader([]byte("test content"))
		n, err := store.Save("1700000000000_abcdefgh.txt", data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n != 12 {
			t.Errorf("expected 12 bytes written, got %d", n)
		}

		content, err := os.ReadFile(filepath.Join(dir, "1700000000000_abcdefgh.txt"))
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}
		if string(content) != "test content" {
			t.Errorf("expected 'test content', got %q", content)
		}
	})

	t.Run("overwrites an existing name", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileSystemStore(dir)

		store.Save("same.bin", strings.NewReader("first"))
		if _, err := store.Save("same.bin", strings.NewReader("second")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, _ := os.ReadFile(filepath.Join(dir, "same.bin"))
		if string(content) != "second" {
			t.Errorf("expected overwrite, got %q", content)
		}
	})

	t.Run("saves large content", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileSystemStore(dir)

		largeContent := strings.Repeat("x", 1024*1024) // 1MB
		n, err := store.Save("large.bin", strings.NewReader(largeContent))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if n != int64(len(largeContent)) {
			t.Errorf("expected %d bytes, got %d", len(largeContent), n)
		}
	})

	t.Run("rejects names with path separators", func(t *testing.T) {
		store := NewFileSystemStore(t.TempDir())
		for _, name := range []string{"../escape.txt", "a/b.txt", `a\b.txt`, ""} {
			if _, err := store.Save(name, strings.NewReader("x")); err == nil {
				t.Errorf("expected error for stored name %q", name)
			}
		}
	})
}

func TestFileSystemStore_Open(t *testing.T) {
	t.Run("streams an existing file", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileSystemStore(dir)

		os.WriteFile(filepath.Join(dir, "stored.txt"), []byte("data"), 0644)

		rc, err := store.Open("stored.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(content) != "data" {
			t.Errorf("expected 'data', got %q", content)
		}
	})

	t.Run("errors for missing file", func(t *testing.T) {
		store := NewFileSystemStore(t.TempDir())
		if _, err := store.Open("nonexistent.txt"); err == nil {
			t.Error("expected error for nonexistent file")
		}
	})
}

func TestFileSystemStore_Delete(t *testing.T) {
	t.Run("deletes existing file", func(t *testing.T) {
		dir := t.TempDir()
		store := NewFileSystemStore(dir)

		filePath := filepath.Join(dir, "del.txt")
		os.WriteFile(filePath, []byte("data"), 0644)

		if err := store.Delete("del.txt"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filePath); !os.IsNotExist(err) {
			t.Error("expected file to be deleted")
		}
	})

	t.Run("no error for missing file", func(t *testing.T) {
		store := NewFileSystemStore(t.TempDir())
		if err := store.Delete("nonexistent.txt"); err != nil {
			t.Errorf("expected no error for missing file, got: %v", err)
		}
	})
}

func TestFileSystemStore_EnsureDir(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads", "path")
		store := NewFileSystemStore(dir)

		if err := store.EnsureDir(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Error("expected directory to exist")
		}
	})

	t.Run("idempotent for existing directory", func(t *testing.T) {
		store := NewFileSystemStore(t.TempDir())
		if err := store.EnsureDir(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
