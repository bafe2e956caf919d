package rules_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modsync/pkg/rules"
)

func TestParse(t *testing.T) {
	t.Run("empty_text_yields_no_rules", func(t *testing.T) {
		assert.Empty(t, rules.Parse(""))
		assert.Empty(t, rules.Parse("\n\n\n"))
	})

	t.Run("single_block_with_defaults", func(t *testing.T) {
		ruleList := rules.Parse("sort = alpha\n")
		require.Len(t, ruleList, 1)
		assert.Equal(t, rules.VisibilityPub, ruleList[0].Visibility)
		assert.Equal(t, rules.SortAlpha, ruleList[0].Sort)
		assert.False(t, ruleList[0].Fmt)
	})

	t.Run("blocks_split_on_blank_lines", func(t *testing.T) {
		text := "pattern = utils\nvisibility = private\n\nfmt = enabled\n"
		ruleList := rules.Parse(text)
		require.Len(t, ruleList, 2)
		assert.Equal(t, []string{"utils"}, ruleList[0].Patterns)
		assert.Equal(t, rules.VisibilityPrivate, ruleList[0].Visibility)
		assert.True(t, ruleList[1].Fmt)
		assert.Empty(t, ruleList[1].Patterns)
	})

	t.Run("comment_lines_skipped", func(t *testing.T) {
		text := "# helpers stay private\nvisibility = private\n"
		ruleList := rules.Parse(text)
		require.Len(t, ruleList, 1)
		assert.Equal(t, rules.VisibilityPrivate, ruleList[0].Visibility)
	})

	t.Run("unknown_keys_ignored", func(t *testing.T) {
		ruleList := rules.Parse("frobnicate = yes\nvisibility = private\n")
		require.Len(t, ruleList, 1)
		assert.Equal(t, rules.VisibilityPrivate, ruleList[0].Visibility)
	})

	t.Run("malformed_value_keeps_default", func(t *testing.T) {
		ruleList := rules.Parse("visibility = shouty\nsort = sideways\nfmt = maybe\n")
		require.Len(t, ruleList, 1)
		assert.Equal(t, rules.VisibilityPub, ruleList[0].Visibility)
		assert.Equal(t, rules.SortNone, ruleList[0].Sort)
		assert.False(t, ruleList[0].Fmt)
	})

	t.Run("pattern_list_drops_empty_segments", func(t *testing.T) {
		ruleList := rules.Parse("pattern = utils, , helpers,\n")
		require.Len(t, ruleList, 1)
		assert.Equal(t, []string{"utils", "helpers"}, ruleList[0].Patterns)
	})
}

func TestSplitConditions(t *testing.T) {
	t.Run("plain_commas_split", func(t *testing.T) {
		assert.Equal(t, []string{"unix", "windows"}, rules.SplitConditions("unix, windows"))
	})

	t.Run("nested_comma_does_not_split", func(t *testing.T) {
		conds := rules.SplitConditions(`feature="x",all(unix, width="64")`)
		require.Len(t, conds, 2)
		assert.Equal(t, `feature="x"`, conds[0])
		assert.Equal(t, `all(unix, width="64")`, conds[1])
	})

	t.Run("deeply_nested", func(t *testing.T) {
		conds := rules.SplitConditions(`any(all(unix, foo), bar), baz`)
		require.Len(t, conds, 2)
		assert.Equal(t, `any(all(unix, foo), bar)`, conds[0])
		assert.Equal(t, `baz`, conds[1])
	})

	t.Run("empty_segments_dropped", func(t *testing.T) {
		assert.Equal(t, []string{"unix"}, rules.SplitConditions(", unix ,,"))
	})

	t.Run("unbalanced_close_paren_tolerated", func(t *testing.T) {
		conds := rules.SplitConditions(`foo), bar`)
		assert.Equal(t, []string{"foo)", "bar"}, conds)
	})
}

func TestSplitConditionsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	segment := gen.RegexMatch(`[a-z]+(\([a-z]+, [a-z]+\))?`)

	properties.Property("joining split segments round-trips", prop.ForAll(
		func(segments []string) bool {
			joined := strings.Join(segments, ",")
			split := rules.SplitConditions(joined)
			var nonEmpty []string
			for _, s := range segments {
				if s != "" {
					nonEmpty = append(nonEmpty, s)
				}
			}
			if len(split) != len(nonEmpty) {
				return false
			}
			for i := range split {
				if split[i] != nonEmpty[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(segment),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
