// Package testutil provides shared test infrastructure: an in-memory
// project tree over types.FS and deterministic clock and scheduler
// fakes for driving the coalescer without real delays.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/modsync/pkg/filesystem"
	"github.com/arthur-debert/modsync/pkg/types"
)

// SetupTree writes files into a fresh in-memory filesystem. Keys are
// paths relative to root, values are file contents.
func SetupTree(t *testing.T, root string, files map[string]string) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs
}

// ReadFile reads a file or fails the test.
func ReadFile(t *testing.T, fs types.FS, path string) string {
	t.Helper()
	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists on fs.
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
