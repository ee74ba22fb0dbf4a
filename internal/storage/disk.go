package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thorrak/json-dump/internal/logging"
)

// filePerm is owner read/write plus group read. No world access, no execute.
const filePerm = os.FileMode(0o640)

// DiskStore writes payloads to a flat local directory. The directory listing
// is the only index; nothing is tracked in memory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Dir returns the storage directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// SavePayload writes data to a new file under the store's directory, restricts
// its permissions, and returns the size read back from the filesystem so the
// reported size always matches what is on disk. The directory is created on
// demand. If the chmod fails after a successful write the file is left behind
// with default permissions; that narrow window is accepted and not rolled back.
func (s *DiskStore) SavePayload(ctx context.Context, objectName string, data []byte, contentType string) (int64, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, objectName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", objectName, err)
	}
	if err := os.Chmod(path, filePerm); err != nil {
		return 0, fmt.Errorf("failed to set permissions on %s: %w", objectName, err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", objectName, err)
	}

	logging.Debug("payload_written", "file", objectName, "size", fi.Size(), "content_type", contentType)
	return fi.Size(), nil
}
