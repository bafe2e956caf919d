// Package paths holds the naming conventions of a Rust source tree:
// which basenames are reserved index or build files, what counts as a
// source file, and how module names are derived from paths.
package paths

import (
	"path/filepath"
	"strings"
)

// Index file basenames, in target resolution priority order.
const (
	CrateRootFile   = "lib.rs"  // crate root, highest priority target
	ProgramRootFile = "main.rs" // program entry
	DirIndexFile    = "mod.rs"  // per-directory index
	BuildFile       = "build.rs"
)

// SourceExt is the extension of module source files.
const SourceExt = ".rs"

// reserved basenames never tracked as modules of their own
var reserved = map[string]struct{}{
	DirIndexFile:    {},
	CrateRootFile:   {},
	ProgramRootFile: {},
	BuildFile:       {},
}

// IsReserved reports whether the basename of path is one of the special
// root/build file names that must never be declared as a module.
func IsReserved(path string) bool {
	_, ok := reserved[filepath.Base(path)]
	return ok
}

// IsSource reports whether path names a module source file.
func IsSource(path string) bool {
	return strings.HasSuffix(path, SourceExt)
}

// Stem returns the basename of path without its source extension.
// "/src/foo.rs" -> "foo", "/src/dir" -> "dir".
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
