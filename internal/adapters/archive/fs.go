package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS keeps archive objects as files under a root directory.
type FS struct {
	root string
}

// NewFS returns a filesystem archive rooted at dir, creating it if needed.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &FS{root: dir}, nil
}

// Driver reports "fs".
func (a *FS) Driver() string { return DriverFS }

// Put writes body under key, replacing any previous file.
// The write goes to a temp file first so readers never see partial content.
func (a *FS) Put(ctx context.Context, key string, body []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	path := filepath.Join(a.root, k)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get reads the file stored under key.
func (a *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(a.root, k))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return b, err
}
