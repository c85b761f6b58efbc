package ctxerr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesKindThroughWrapping(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cause := New(KindResourceNotFound, "open", "conf/a.hcl", fs.ErrNotExist)
	wrapped := &InitError{ContextID: "ctx-1", Err: fmt.Errorf("load: %w", cause)}

	// --- Assert ---
	require.ErrorIs(t, wrapped, ErrResourceNotFound)
	require.ErrorIs(t, wrapped, fs.ErrNotExist)
	require.NotErrorIs(t, wrapped, ErrDefinitionParse)
	require.Equal(t, KindResourceNotFound, KindOf(wrapped))

	var initErr *InitError
	require.True(t, errors.As(wrapped, &initErr))
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := Errorf(KindIllegalState, "refresh", "", "context is %s", "active")
	assert.Equal(t, "illegal state: refresh: context is active", err.Error())

	err = New(KindDefinitionParse, "decode", "a.hcl", errors.New("boom"))
	assert.Equal(t, `definition parse error: decode "a.hcl": boom`, err.Error())

	initErr := &InitError{Err: err}
	assert.Equal(t, `context initialization failed: definition parse error: decode "a.hcl": boom`, initErr.Error())
}

func TestKindOf_Unclassified(t *testing.T) {
	t.Parallel()
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, "unknown error", KindUnknown.String())
}
