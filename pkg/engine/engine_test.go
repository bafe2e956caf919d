package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/modsync/pkg/engine"
	"github.com/arthur-debert/modsync/pkg/format"
	"github.com/arthur-debert/modsync/pkg/rules"
	"github.com/arthur-debert/modsync/pkg/testutil"
	"github.com/arthur-debert/modsync/pkg/types"
)

func newEngine(fs types.FS) (*engine.Engine, *format.Recorder) {
	recorder := &format.Recorder{}
	resolver := rules.NewResolver(fs, nil)
	return engine.New(fs, resolver, recorder, "/proj"), recorder
}

func TestFileCreated(t *testing.T) {
	t.Run("crate_root_is_preferred_target", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":    "pub mod existing;\n",
			"src/widget.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widget.rs"))

		content := testutil.ReadFile(t, fs, "/proj/src/lib.rs")
		assert.Equal(t, "pub mod existing;\n\npub mod widget;\n", content)
	})

	t.Run("program_root_when_no_crate_root", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/main.rs":   "fn main() {}\n",
			"src/widget.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widget.rs"))

		content := testutil.ReadFile(t, fs, "/proj/src/main.rs")
		assert.Contains(t, content, "pub mod widget;")
		assert.False(t, testutil.Exists(fs, "/proj/src/mod.rs"))
	})

	t.Run("directory_index_created_on_demand", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":            "",
			"src/widgets/button.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widgets/button.rs"))

		content := testutil.ReadFile(t, fs, "/proj/src/widgets/mod.rs")
		assert.Equal(t, "pub mod button;\n", content)
	})

	t.Run("directory_registered_one_level_up", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":            "pub mod existing;\n",
			"src/widgets/button.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widgets/button.rs"))

		lib := testutil.ReadFile(t, fs, "/proj/src/lib.rs")
		assert.Contains(t, lib, "pub mod widgets;")
	})

	t.Run("no_parent_registration_without_parent_index", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/widgets/button.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widgets/button.rs"))

		assert.True(t, testutil.Exists(fs, "/proj/src/widgets/mod.rs"))
		// one level only, and only when the parent index already exists
		assert.False(t, testutil.Exists(fs, "/proj/src/mod.rs"))
	})

	t.Run("reserved_basenames_ignored", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs": "",
		})
		eng, _ := newEngine(fs)

		for _, name := range []string{"mod.rs", "lib.rs", "main.rs", "build.rs"} {
			require.NoError(t, eng.FileCreated("/proj/src/"+name))
		}
		assert.Equal(t, "", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("idempotent_for_already_declared_module", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":    "pub mod widget;\n",
			"src/widget.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widget.rs"))
		assert.Equal(t, "pub mod widget;\n", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("rule_file_controls_visibility_and_cfg", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":      "",
			"src/.modsync":    "pattern = platform\ncfg = unix, windows\n\nvisibility = private\n",
			"src/platform.rs": "",
			"src/helper.rs":   "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/platform.rs"))
		require.NoError(t, eng.FileCreated("/proj/src/helper.rs"))

		lib := testutil.ReadFile(t, fs, "/proj/src/lib.rs")
		assert.Contains(t, lib, "#[cfg(unix)]\npub mod platform;")
		assert.Contains(t, lib, "#[cfg(windows)]\npub mod platform;")
		assert.Contains(t, lib, "mod helper;")
		assert.NotContains(t, lib, "pub mod helper;")
	})

	t.Run("formatter_runs_only_when_rule_enables_it", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":    "",
			"src/.modsync":  "fmt = enabled\n",
			"src/widget.rs": "",
		})
		eng, recorder := newEngine(fs)

		require.NoError(t, eng.FileCreated("/proj/src/widget.rs"))
		assert.Equal(t, []string{"/proj"}, recorder.Calls())

		// idempotent re-create changes nothing and formats nothing
		require.NoError(t, eng.FileCreated("/proj/src/widget.rs"))
		assert.Len(t, recorder.Calls(), 1)
	})
}

func TestFileDeleted(t *testing.T) {
	t.Run("removes_declaration_from_crate_root", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs": "pub mod widget;\npub mod keep;\n",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileDeleted("/proj/src/widget.rs"))
		assert.Equal(t, "pub mod keep;\n", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("removes_all_cfg_gated_duplicates", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs": "#[cfg(unix)]\npub mod platform;\n#[cfg(windows)]\npub mod platform;\npub mod keep;\n",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileDeleted("/proj/src/platform.rs"))
		assert.Equal(t, "pub mod keep;\n", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("emptied_directory_index_is_deleted", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":            "pub mod widgets;\n",
			"src/widgets/mod.rs":    "pub mod button;\n",
			"src/widgets/button.rs": "",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileDeleted("/proj/src/widgets/button.rs"))
		assert.False(t, testutil.Exists(fs, "/proj/src/widgets/mod.rs"))

		// known asymmetry: the parent keeps its declaration; the next
		// filesystem event for that directory will reconcile it
		assert.Equal(t, "pub mod widgets;\n", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("crate_root_is_never_deleted_when_emptied", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs": "pub mod widget;\n",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileDeleted("/proj/src/widget.rs"))
		assert.True(t, testutil.Exists(fs, "/proj/src/lib.rs"))
		assert.Equal(t, "", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("missing_index_is_not_an_error", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileDeleted("/proj/src/ghost.rs"))
	})

	t.Run("index_with_other_content_survives", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/widgets/mod.rs": "pub mod button;\n\npub fn helper() {}\n",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileDeleted("/proj/src/widgets/button.rs"))
		assert.True(t, testutil.Exists(fs, "/proj/src/widgets/mod.rs"))
		content := testutil.ReadFile(t, fs, "/proj/src/widgets/mod.rs")
		assert.Contains(t, content, "pub fn helper() {}")
		assert.NotContains(t, content, "mod button;")
	})
}

func TestFileRenamed(t *testing.T) {
	t.Run("sorts_when_rule_asks_for_alpha", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":   "pub mod zeta;\npub mod alpha;\n",
			"src/.modsync": "sort = alpha\n",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileRenamed("/proj/src/old.rs", "/proj/src/alpha.rs"))
		assert.Equal(t, "pub mod alpha;\npub mod zeta;\n", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("no_sort_without_alpha_rule", func(t *testing.T) {
		content := "pub mod zeta;\npub mod alpha;\n"
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs": content,
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileRenamed("/proj/src/old.rs", "/proj/src/alpha.rs"))
		assert.Equal(t, content, testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})

	t.Run("already_sorted_file_is_not_rewritten", func(t *testing.T) {
		fs := testutil.SetupTree(t, "/proj", map[string]string{
			"src/lib.rs":   "pub mod alpha;\npub mod zeta;\n",
			"src/.modsync": "sort = alpha\n",
		})
		eng, _ := newEngine(fs)

		require.NoError(t, eng.FileRenamed("/proj/src/old.rs", "/proj/src/alpha.rs"))
		assert.Equal(t, "pub mod alpha;\npub mod zeta;\n", testutil.ReadFile(t, fs, "/proj/src/lib.rs"))
	})
}
