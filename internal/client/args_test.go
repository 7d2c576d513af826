package client

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFile(t *testing.T) {
	t.Run("resolves an existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "note.txt")
		os.WriteFile(path, []byte("hello"), 0644)

		got, err := ResolveFile([]string{path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("rejects no arguments", func(t *testing.T) {
		if _, err := ResolveFile(nil); err == nil {
			t.Error("expected error for missing file argument")
		}
	})

	t.Run("rejects more than one file", func(t *testing.T) {
		dir := t.TempDir()
		a := filepath.Join(dir, "a.txt")
		b := filepath.Join(dir, "b.txt")
		os.WriteFile(a, []byte("a"), 0644)
		os.WriteFile(b, []byte("b"), 0644)

		if _, err := ResolveFile([]string{a, b}); err == nil {
			t.Error("expected error for multiple files")
		}
	})

	t.Run("rejects a missing path", func(t *testing.T) {
		_, err := ResolveFile([]string{"/no/such/file"})
		if err == nil {
			t.Fatal("expected error for missing path")
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got %T", err)
		}
	})

	t.Run("rejects a directory", func(t *testing.T) {
		if _, err := ResolveFile([]string{t.TempDir()}); err == nil {
			t.Error("expected error for directory argument")
		}
	})
}
