package storage

import (
	"os"
	"path/filepath"
)

// DiskStore persists blobs as files under a root directory. The same root is
// served over HTTP at /storage so stored keys resolve to public URLs.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &DiskStore{root: root}, nil
}

func (d *DiskStore) path(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}

func (d *DiskStore) Put(key string, data []byte) error {
	p := d.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

// Delete removes the blob. Deleting a missing key is not an error.
func (d *DiskStore) Delete(key string) error {
	err := os.Remove(d.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (d *DiskStore) Exists(key string) bool {
	_, err := os.Stat(d.path(key))
	return err == nil
}
