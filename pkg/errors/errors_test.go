package errors_test

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/modsync/pkg/errors"
)

func TestSyncError(t *testing.T) {
	t.Run("error_string_includes_code", func(t *testing.T) {
		err := errors.New(errors.ErrIndexRead, "cannot read index")
		assert.Equal(t, "[INDEX_READ] cannot read index", err.Error())
	})

	t.Run("wrapped_error_is_appended", func(t *testing.T) {
		cause := fmt.Errorf("boom")
		err := errors.Wrap(cause, errors.ErrIndexWrite, "write failed")
		assert.Equal(t, "[INDEX_WRITE] write failed: boom", err.Error())
		assert.Equal(t, cause, stderrors.Unwrap(err))
	})

	t.Run("wrapping_nil_yields_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "never happens"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "never %s", "happens"))
	})

	t.Run("errors_is_matches_on_code", func(t *testing.T) {
		err := errors.Newf(errors.ErrConfigParse, "bad value %q", "x")
		assert.True(t, stderrors.Is(err, errors.New(errors.ErrConfigParse, "")))
		assert.False(t, stderrors.Is(err, errors.New(errors.ErrConfigLoad, "")))
	})

	t.Run("errors_is_reaches_through_wrapping", func(t *testing.T) {
		err := errors.Wrap(fs.ErrNotExist, errors.ErrIndexRead, "read failed")
		assert.True(t, stderrors.Is(err, fs.ErrNotExist))
	})

	t.Run("with_detail", func(t *testing.T) {
		err := errors.New(errors.ErrWatchSetup, "setup failed").
			WithDetail("root", "/proj")
		assert.Equal(t, "/proj", err.Details["root"])
	})
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Wrap(errors.New(errors.ErrIndexDelete, "inner"), errors.ErrInternal, "outer")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
	assert.False(t, errors.IsErrorCode(fmt.Errorf("plain"), errors.ErrInternal))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrFormat, errors.GetErrorCode(errors.New(errors.ErrFormat, "")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
}
