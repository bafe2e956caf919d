// Package rules implements cascading rule resolution for module
// declarations.
//
// A rule file (named .modsync) is a line-oriented list of blocks
// separated by blank lines:
//
//	# shared helpers stay private
//	pattern    = utils, helpers
//	visibility = private
//
//	visibility = pub
//	sort       = alpha
//	fmt        = enabled
//
// Each block yields one Rule; the first block whose pattern matches the
// path wins, a pattern-less block serves as that file's fallback.
// Resolution walks the directory ancestry upward and stops at the first
// directory containing a rule file.
package rules
