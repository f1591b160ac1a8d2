// Package local stores uploads as files in a directory on disk. The server
// serves the directory at /uploads/, matching the URLs this package hands
// out.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/social-network/internal/storage"
)

// Store writes files under dir. filepath.Base is applied to every name so
// a crafted name like "../../etc/passwd" cannot escape the directory.
type Store struct {
	dir string
}

var _ storage.Store = (*Store)(nil)

// New creates the upload directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: creating upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored in, for the file server.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Save(_ context.Context, name, _ string, data []byte) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage/local: writing %s: %w", name, err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: removing %s: %w", name, err)
	}
	return nil
}

func (s *Store) URL(name string) string {
	return "/uploads/" + strings.TrimPrefix(filepath.Base(name), "/")
}
