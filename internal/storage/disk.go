package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore persists uploaded images and returns a reference to store on the
// owning record. Image storage internals are outside the domain core; this is
// its narrow seam.
type ImageStore interface {
	Save(ctx context.Context, dir, filename string, r io.Reader) (string, error)
}

// DiskStore writes images under a media root on local disk.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk-backed image store rooted at root.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Save writes the image to <root>/<dir>/<uuid>-<filename> and returns the
// path relative to the media root. The uuid prefix avoids collisions between
// identically named uploads.
func (s *DiskStore) Save(_ context.Context, dir, filename string, r io.Reader) (string, error) {
	rel := filepath.Join(dir, uuid.New().String()+"-"+filepath.Base(filename))
	full := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return rel, nil
}
