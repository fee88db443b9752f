package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	err := New(CategoryConfig, SeverityFatal, "missing book source")
	require.Equal(t, "config (fatal): missing book source", err.Error())
}

func TestWrap_IncludesCause(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(cause, CategoryFileSystem, SeverityFatal, "failed to write chapter")
	require.Contains(t, err.Error(), "permission denied")
	require.Equal(t, cause, stderrors.Unwrap(err))
	require.True(t, stderrors.Is(err, cause))
}

func TestWithContext(t *testing.T) {
	err := ValidationError("bad input").WithContext("chapter", "intro.md").WithContext("line", 3)
	require.Equal(t, "intro.md", err.Context["chapter"])
	require.Equal(t, 3, err.Context["line"])
}

func TestIsCategory(t *testing.T) {
	require.True(t, IsCategory(ResolverError("boom"), CategoryResolver))
	require.False(t, IsCategory(ResolverError("boom"), CategoryConfig))
	require.False(t, IsCategory(stderrors.New("plain"), CategoryResolver))
}

func TestGetCategory(t *testing.T) {
	require.Equal(t, CategoryValidation, GetCategory(ValidationError("x")))
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	require.Equal(t, CategoryValidation, ValidationError("x").Category)
	require.Equal(t, CategoryResolver, ResolverError("x").Category)
	require.Equal(t, CategoryInternal, InternalError("x").Category)
	for _, err := range []*StdlinksError{ValidationError("x"), ResolverError("x"), InternalError("x")} {
		require.Equal(t, SeverityFatal, err.Severity)
	}
}
