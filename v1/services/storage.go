package services

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore is the storage collaborator for uploaded document files.
// Save is all-or-nothing; Delete is best-effort and reports whether the
// underlying file was actually removed.
type FileStore interface {
	Save(src io.Reader, destinationHint string) (string, error)
	Delete(storageRef string) bool
}

// LocalFileStore keeps uploads on the local filesystem under Root,
// one subdirectory per application.
type LocalFileStore struct {
	Root string
}

// NewLocalFileStore creates a file store rooted at the given directory
func NewLocalFileStore(root string) *LocalFileStore {
	return &LocalFileStore{Root: root}
}

// Save writes src to a unique path derived from the destination hint and
// returns the storage reference. A uuid prefix keeps repeated uploads of the
// same filename from clobbering each other.
func (s *LocalFileStore) Save(src io.Reader, destinationHint string) (string, error) {
	dir := filepath.Join(s.Root, filepath.Dir(destinationHint))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + "_" + filepath.Base(destinationHint)
	dest := filepath.Join(dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		// Half-written file is useless, remove it
		os.Remove(dest)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return dest, nil
}

// Delete removes the file behind a storage reference. A missing file counts
// as deleted; other failures are logged and reported as false.
func (s *LocalFileStore) Delete(storageRef string) bool {
	if storageRef == "" {
		return false
	}
	if err := os.Remove(storageRef); err != nil {
		if os.IsNotExist(err) {
			return true
		}
		slog.Warn("Failed to delete stored file", "storageRef", storageRef, "error", err)
		return false
	}
	return true
}
