package paths_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/modsync/pkg/paths"
)

func TestIsReserved(t *testing.T) {
	assert.True(t, paths.IsReserved("/proj/src/mod.rs"))
	assert.True(t, paths.IsReserved("/proj/src/lib.rs"))
	assert.True(t, paths.IsReserved("/proj/src/main.rs"))
	assert.True(t, paths.IsReserved("/proj/build.rs"))
	assert.False(t, paths.IsReserved("/proj/src/widget.rs"))
	// only the basename is reserved, not a matching stem elsewhere
	assert.False(t, paths.IsReserved("/proj/src/mod_helpers.rs"))
}

func TestIsSource(t *testing.T) {
	assert.True(t, paths.IsSource("/proj/src/widget.rs"))
	assert.False(t, paths.IsSource("/proj/README.md"))
	assert.False(t, paths.IsSource("/proj/src/widget.rs.bak"))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "foo", paths.Stem("/src/foo.rs"))
	assert.Equal(t, "dir", paths.Stem("/src/dir"))
	assert.Equal(t, "a", paths.Stem("a.rs"))
}
