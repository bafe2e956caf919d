package engine

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modsync/pkg/declarations"
	syncerr "github.com/arthur-debert/modsync/pkg/errors"
	"github.com/arthur-debert/modsync/pkg/format"
	"github.com/arthur-debert/modsync/pkg/logging"
	"github.com/arthur-debert/modsync/pkg/paths"
	"github.com/arthur-debert/modsync/pkg/rules"
	"github.com/arthur-debert/modsync/pkg/types"
)

// indexKind distinguishes which index file serves a directory.
type indexKind int

const (
	indexCrateRoot indexKind = iota
	indexProgramRoot
	indexDirectory
)

// Engine applies create, delete, and rename intents to the index files
// owning the affected paths. It holds no state about the tree: every
// intent is a fresh read-modify-write cycle against the target file.
type Engine struct {
	fs        types.FS
	resolver  *rules.Resolver
	formatter format.Formatter
	root      string
	logger    zerolog.Logger
}

// New creates an Engine for the project rooted at root.
func New(fsys types.FS, resolver *rules.Resolver, formatter format.Formatter, root string) *Engine {
	return &Engine{
		fs:        fsys,
		resolver:  resolver,
		formatter: formatter,
		root:      root,
		logger:    logging.GetLogger("engine"),
	}
}

// FileCreated registers a newly created source file in its index file.
// Reserved basenames (mod.rs, lib.rs, main.rs, build.rs) are ignored
// outright. When the target is the directory's own mod.rs, the
// directory itself is additionally registered in the parent directory's
// index file if that file exists; exactly one level, never a full
// upward walk.
func (e *Engine) FileCreated(path string) error {
	if paths.IsReserved(path) {
		e.logger.Trace().Str("path", path).Msg("Reserved basename, ignoring")
		return nil
	}

	_, kind, err := e.applyCreate(path)
	if err != nil {
		return err
	}

	if kind == indexDirectory {
		if err := e.registerInParent(filepath.Dir(path)); err != nil {
			return err
		}
	}
	return nil
}

// applyCreate inserts the declaration for path into the resolved index
// file and reports whether the file changed.
func (e *Engine) applyCreate(path string) (bool, indexKind, error) {
	dir := filepath.Dir(path)
	indexPath, kind := e.resolveIndex(dir)
	rule := e.resolver.ResolveForPath(path)

	changed, err := e.insertDeclaration(indexPath, paths.Stem(path), rule)
	if err != nil {
		return false, kind, err
	}
	if changed {
		e.logger.Info().
			Str("file", path).
			Str("index", indexPath).
			Msg("Registered module")
		if rule.Fmt {
			e.triggerFormat()
		}
	}
	return changed, kind, nil
}

// registerInParent declares dir's own name in the parent directory's
// index file, when that file already exists.
func (e *Engine) registerInParent(dir string) error {
	parent := filepath.Dir(dir)
	if parent == dir {
		return nil
	}

	parentIndex, _ := e.resolveIndex(parent)
	if _, err := e.fs.Stat(parentIndex); err != nil {
		return nil
	}

	rule := e.resolver.ResolveForPath(dir)
	changed, err := e.insertDeclaration(parentIndex, filepath.Base(dir), rule)
	if err != nil {
		return err
	}
	if changed {
		e.logger.Info().
			Str("dir", dir).
			Str("index", parentIndex).
			Msg("Registered directory in parent index")
		if rule.Fmt {
			e.triggerFormat()
		}
	}
	return nil
}

// FileDeleted removes every declaration named after the deleted file's
// stem from the resolved index file. A directory-local mod.rs emptied
// of all non-blank content is itself deleted; that cascade does not
// recurse into deregistering the mod.rs from its own parent.
func (e *Engine) FileDeleted(path string) error {
	if paths.IsReserved(path) {
		return nil
	}

	dir := filepath.Dir(path)
	indexPath, kind := e.resolveIndex(dir)

	content, exists, err := e.readIndex(indexPath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	updated := declarations.Remove(content, paths.Stem(path))

	if kind == indexDirectory && strings.TrimSpace(updated) == "" {
		if err := e.fs.Remove(indexPath); err != nil {
			return syncerr.Wrapf(err, syncerr.ErrIndexDelete, "failed to delete emptied index %s", indexPath)
		}
		e.logger.Info().Str("index", indexPath).Msg("Deleted emptied index file")
		return nil
	}

	if updated == content {
		return nil
	}
	if err := e.writeIndex(indexPath, updated); err != nil {
		return err
	}
	e.logger.Info().
		Str("file", path).
		Str("index", indexPath).
		Msg("Deregistered module")

	if rule := e.resolver.ResolveForPath(path); rule.Fmt {
		e.triggerFormat()
	}
	return nil
}

// FileRenamed re-sorts the index file owning newPath when the
// applicable rule asks for alphabetical sorting. The declaration name
// itself is expected to have been rewritten by an external tool during
// the settle delay; a missed rename self-heals through the ordinary
// delete and create intents.
func (e *Engine) FileRenamed(oldPath, newPath string) error {
	e.logger.Debug().
		Str("from", oldPath).
		Str("to", newPath).
		Msg("Rename detected")

	rule := e.resolver.ResolveForPath(newPath)
	if rule.Sort != rules.SortAlpha {
		return nil
	}

	indexPath, _ := e.resolveIndex(filepath.Dir(newPath))
	content, exists, err := e.readIndex(indexPath)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	updated := e.sortContent(content)
	if updated == content {
		return nil
	}
	if err := e.writeIndex(indexPath, updated); err != nil {
		return err
	}
	e.logger.Info().Str("index", indexPath).Msg("Re-sorted index after rename")

	if rule.Fmt {
		e.triggerFormat()
	}
	return nil
}

// resolveIndex picks the index file responsible for files in dir:
// lib.rs if present, else main.rs, else the directory's own mod.rs
// (which may not exist yet).
func (e *Engine) resolveIndex(dir string) (string, indexKind) {
	lib := filepath.Join(dir, paths.CrateRootFile)
	if _, err := e.fs.Stat(lib); err == nil {
		return lib, indexCrateRoot
	}
	main := filepath.Join(dir, paths.ProgramRootFile)
	if _, err := e.fs.Stat(main); err == nil {
		return main, indexProgramRoot
	}
	return filepath.Join(dir, paths.DirIndexFile), indexDirectory
}

func (e *Engine) insertDeclaration(indexPath, name string, rule rules.Rule) (bool, error) {
	content, _, err := e.readIndex(indexPath)
	if err != nil {
		return false, err
	}

	newLines := declarations.BuildLines(name, rule)
	updated := declarations.Insert(content, newLines, name)
	if updated == content {
		return false, nil
	}
	if err := e.writeIndex(indexPath, updated); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) sortContent(content string) string {
	trailingNL := strings.HasSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	if trailingNL {
		lines = lines[:len(lines)-1]
	}
	lines = declarations.Sort(lines)
	out := strings.Join(lines, "\n")
	if trailingNL {
		out += "\n"
	}
	return out
}

// readIndex reads an index file, reporting absence as a non-error.
func (e *Engine) readIndex(indexPath string) (content string, exists bool, err error) {
	data, err := e.fs.ReadFile(indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, syncerr.Wrapf(err, syncerr.ErrIndexRead, "failed to read index %s", indexPath)
	}
	return string(data), true, nil
}

func (e *Engine) writeIndex(indexPath string, content string) error {
	if err := e.fs.WriteFile(indexPath, []byte(content), 0644); err != nil {
		return syncerr.Wrapf(err, syncerr.ErrIndexWrite, "failed to write index %s", indexPath)
	}
	return nil
}

// triggerFormat invokes the external formatter fire-and-forget:
// failures are warnings, never errors.
func (e *Engine) triggerFormat() {
	if e.formatter == nil {
		return
	}
	if res := e.formatter.Format(e.root); res == format.Failure {
		e.logger.Warn().Str("root", e.root).Msg("Formatter failed")
	}
}
