package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store defines the interface for file storage backends.
// This allows swapping filesystem for S3 or other backends later.
type Store interface {
	Save(storedName string, data io.Reader) (int64, error)
	Open(storedName string) (io.ReadCloser, error)
	Delete(storedName string) error
	EnsureDir() error
}

// FileSystemStore keeps uploaded files on the local filesystem under a
// single root directory, keyed by their server-generated stored name.
type FileSystemStore struct {
	basePath string
}

// NewFileSystemStore creates a new filesystem storage backend.
func NewFileSystemStore(basePath string) *FileSystemStore {
	return &FileSystemStore{basePath: basePath}
}

// EnsureDir creates the storage directory if it doesn't exist.
func (fs *FileSystemStore) EnsureDir() error {
	if err := os.MkdirAll(fs.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", fs.basePath, err)
	}
	return nil
}

// Save writes data from a reader to a file under the stored name.
// Returns the number of bytes written. An existing file with the same
// name is overwritten; name uniqueness is the caller's responsibility.
func (fs *FileSystemStore) Save(storedName string, data io.Reader) (int64, error) {
	filePath, err := fs.filePath(storedName)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	n, err := io.Copy(file, data)
	if err != nil {
		// Clean up partial file on error
		os.Remove(filePath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return n, nil
}

// Open returns a reader over the stored file's bytes.
// Fails if the file is missing or unreadable.
func (fs *FileSystemStore) Open(storedName string) (io.ReadCloser, error) {
	filePath, err := fs.filePath(storedName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", storedName, err)
	}
	return file, nil
}

// Delete removes the stored file. Missing files are not an error.
func (fs *FileSystemStore) Delete(storedName string) error {
	filePath, err := fs.filePath(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}
	return nil
}

// filePath resolves a stored name inside the root directory. Stored names
// are server-generated, but reject separators anyway so a corrupted name
// can never escape the root.
func (fs *FileSystemStore) filePath(storedName string) (string, error) {
	if storedName == "" || strings.ContainsAny(storedName, `/\`) || storedName != filepath.Base(storedName) {
		return "", fmt.Errorf("invalid stored name %q", storedName)
	}
	return filepath.Join(fs.basePath, storedName), nil
}
