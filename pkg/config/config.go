package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/modsync/pkg/errors"
	"github.com/arthur-debert/modsync/pkg/logging"
	"github.com/arthur-debert/modsync/pkg/rules"
	"github.com/arthur-debert/modsync/pkg/types"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// MODSYNC_DEBOUNCE=1s.
const EnvPrefix = "MODSYNC_"

// Config file names probed at the project root, in order.
var configFileNames = []string{".modsync.toml", "modsync.toml"}

// Settings holds the process-wide tool configuration: the coalescer
// timings, watcher ignore globs, and the default rule used when path
// resolution finds no applicable rule file.
type Settings struct {
	// Debounce is the quiet period before a scheduled flush fires
	Debounce time.Duration `toml:"debounce"`

	// RenameWindow is how long a delete is held as a rename candidate
	// before being promoted to a real deletion
	RenameWindow time.Duration `toml:"rename_window"`

	// RenameSettle is the extra pause before processing a detected
	// rename, giving an external tool time to finish its own rewrite
	RenameSettle time.Duration `toml:"rename_settle"`

	// Ignore lists directory names and glob patterns the watcher skips
	Ignore []string `toml:"ignore"`

	// Rule is the fallback declaration rule
	Rule RuleSettings `toml:"rule"`
}

// RuleSettings is the TOML shape of the default rule.
type RuleSettings struct {
	Visibility string `toml:"visibility"`
	Sort       string `toml:"sort"`
	Fmt        bool   `toml:"fmt"`
}

// DefaultRule converts the configured fallback into a rules.Rule,
// guarding each field against malformed values the same way rule-file
// parsing does.
func (s *Settings) DefaultRule() rules.Rule {
	rule := rules.Default()
	if s.Rule.Visibility == rules.VisibilityPub || s.Rule.Visibility == rules.VisibilityPrivate {
		rule.Visibility = s.Rule.Visibility
	}
	if s.Rule.Sort == rules.SortAlpha || s.Rule.Sort == rules.SortNone {
		rule.Sort = s.Rule.Sort
	}
	rule.Fmt = s.Rule.Fmt
	return rule
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"debounce":        "500ms",
		"rename_window":   "1s",
		"rename_settle":   "300ms",
		"ignore":          []string{".git", "target", "*.swp", "*~"},
		"rule.visibility": rules.VisibilityPub,
		"rule.sort":       rules.SortNone,
		"rule.fmt":        false,
	}
}

// Load builds Settings for a project by layering, in order: built-in
// defaults, the first config file found at the project root, and
// MODSYNC_* environment variables.
func Load(projectRoot string) (*Settings, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	for _, name := range configFileNames {
		path := filepath.Join(projectRoot, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded project config")
		break
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	s := &Settings{
		Debounce:     k.Duration("debounce"),
		RenameWindow: k.Duration("rename_window"),
		RenameSettle: k.Duration("rename_settle"),
		Ignore:       k.Strings("ignore"),
		Rule: RuleSettings{
			Visibility: k.String("rule.visibility"),
			Sort:       k.String("rule.sort"),
			Fmt:        k.Bool("rule.fmt"),
		},
	}
	return s, nil
}

// envKey maps MODSYNC_RULE_VISIBILITY to rule.visibility.
// The rule keys are the only nested ones, so the first underscore after
// a known section name becomes the delimiter.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if after, found := strings.CutPrefix(key, "rule_"); found {
		return "rule." + after
	}
	return key
}

// settingsFile is the marshalling shape of the starter config.
// Durations are strings ("500ms") so the emitted file stays
// hand-editable; go-toml would render time.Duration as raw
// nanosecond integers.
type settingsFile struct {
	Debounce     string       `toml:"debounce"`
	RenameWindow string       `toml:"rename_window"`
	RenameSettle string       `toml:"rename_settle"`
	Ignore       []string     `toml:"ignore"`
	Rule         RuleSettings `toml:"rule"`
}

// WriteDefault writes a starter config file holding the built-in
// defaults at path, refusing to clobber an existing one.
func WriteDefault(fsys types.FS, path string) error {
	if _, err := fsys.Stat(path); err == nil {
		return errors.Newf(errors.ErrInvalidInput, "%s already exists", path)
	}

	s := settingsFile{
		Debounce:     (500 * time.Millisecond).String(),
		RenameWindow: time.Second.String(),
		RenameSettle: (300 * time.Millisecond).String(),
		Ignore:       []string{".git", "target", "*.swp", "*~"},
		Rule: RuleSettings{
			Visibility: rules.VisibilityPub,
			Sort:       rules.SortNone,
		},
	}
	data, err := gotoml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to marshal default config")
	}
	return fsys.WriteFile(path, data, fs.FileMode(0644))
}
