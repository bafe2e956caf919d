package rules

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/modsync/pkg/logging"
	"github.com/arthur-debert/modsync/pkg/types"
)

// RuleFileName is the per-directory rule file consulted during resolution.
const RuleFileName = ".modsync"

// Resolver answers "what rule applies to this path?" by walking the
// directory ancestry for a rule file. Rule files are re-read and
// re-parsed on every resolution; the resolver holds no cache, so
// external edits to rule files take effect immediately.
type Resolver struct {
	fs       types.FS
	fallback func() Rule
	logger   zerolog.Logger
}

// NewResolver creates a resolver reading rule files through fs.
// fallback supplies the process-wide default rule used when no rule file
// applies; a nil fallback means the documented defaults.
func NewResolver(fs types.FS, fallback func() Rule) *Resolver {
	if fallback == nil {
		fallback = Default
	}
	return &Resolver{
		fs:       fs,
		fallback: fallback,
		logger:   logging.GetLogger("rules.resolver"),
	}
}

// ResolveForPath walks the ancestry of path upward. The first ancestor
// directory containing a rule file decides: its rules are evaluated in
// file order and the first match wins. When that file yields no
// applicable rule, or no rule file exists anywhere up to the filesystem
// root, the process-wide fallback applies.
func (r *Resolver) ResolveForPath(path string) Rule {
	dir := filepath.Dir(path)
	for {
		ruleFile := filepath.Join(dir, RuleFileName)
		data, err := r.fs.ReadFile(ruleFile)
		if err == nil {
			if rule, ok := matchRules(Parse(string(data)), path); ok {
				r.logger.Debug().
					Str("path", path).
					Str("ruleFile", ruleFile).
					Msg("Resolved rule from rule file")
				return rule
			}
			// The nearest rule file decides; no applicable rule means
			// the process-wide defaults, not a continued walk.
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	r.logger.Trace().Str("path", path).Msg("No rule file applies, using defaults")
	return r.fallback()
}

// matchRules evaluates rules in order against path. A pattern-bearing
// rule matches if any pattern is a substring of the full path or equals
// the final path segment. If no pattern-bearing rule matches, the first
// rule without patterns is the fallback for this file.
func matchRules(ruleList []Rule, path string) (Rule, bool) {
	base := filepath.Base(path)
	fallback := -1
	for i, rule := range ruleList {
		if len(rule.Patterns) == 0 {
			if fallback < 0 {
				fallback = i
			}
			continue
		}
		for _, pattern := range rule.Patterns {
			if strings.Contains(path, pattern) || pattern == base {
				return rule, true
			}
		}
	}
	if fallback >= 0 {
		return ruleList[fallback], true
	}
	return Rule{}, false
}
