package engine

import (
	"path/filepath"

	syncerr "github.com/arthur-debert/modsync/pkg/errors"
	"github.com/arthur-debert/modsync/pkg/paths"
)

// Summary reports what a one-shot reconciliation did.
type Summary struct {
	FilesSeen int // source files considered
	Writes    int // index files actually changed
	Errors    int // per-path failures, logged and skipped
}

// SyncTree walks the tree under root and registers every source file
// not yet declared in its index file, as if a create intent had arrived
// for each. Directories matching an ignore pattern are skipped. A
// failure on one path is logged and counted, never aborting the walk.
func (e *Engine) SyncTree(root string, ignore []string) (Summary, error) {
	var sum Summary
	if err := e.walkDir(root, ignore, &sum); err != nil {
		return sum, err
	}
	e.logger.Info().
		Int("files", sum.FilesSeen).
		Int("writes", sum.Writes).
		Int("errors", sum.Errors).
		Msg("Tree sync complete")
	return sum, nil
}

func (e *Engine) walkDir(dir string, ignore []string, sum *Summary) error {
	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return syncerr.Wrapf(err, syncerr.ErrIndexResolve, "failed to read directory %s", dir)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if matchesIgnore(entry.Name(), ignore) {
				continue
			}
			if err := e.walkDir(path, ignore, sum); err != nil {
				e.logger.Warn().Err(err).Str("dir", path).Msg("Skipping unreadable directory")
				sum.Errors++
			}
			continue
		}

		if !paths.IsSource(path) || paths.IsReserved(path) {
			continue
		}
		sum.FilesSeen++

		changed, kind, err := e.applyCreate(path)
		if err != nil {
			e.logger.Warn().Err(err).Str("file", path).Msg("Failed to register module")
			sum.Errors++
			continue
		}
		if changed {
			sum.Writes++
		}
		if kind == indexDirectory {
			if err := e.registerInParent(dir); err != nil {
				e.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to register directory in parent")
				sum.Errors++
			}
		}
	}
	return nil
}

// matchesIgnore checks a directory basename against ignore entries,
// which may be literal names or glob patterns.
func matchesIgnore(name string, ignore []string) bool {
	for _, pattern := range ignore {
		if pattern == name {
			return true
		}
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
