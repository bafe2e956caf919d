// Package declarations is the pure text-transform layer over index
// files (lib.rs, main.rs, mod.rs). It locates declaration blocks,
// computes insertion points, and inserts, removes, and alphabetically
// regroups blocks while leaving every byte outside the edited region
// untouched: hand-written comments, formatting, conditional-compilation
// attributes, and the file's trailing-newline convention all survive.
//
// Declaration objects are transient. They are recomputed from the raw
// lines on every call and never persisted independently of the text.
package declarations
