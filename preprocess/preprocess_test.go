package preprocess_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osllang/osl/preprocess"
)

func TestRun_StripsLineComment_KeepsNewline(t *testing.T) {
	out, err := preprocess.Run("int a; // trailing comment\nint b;")
	require.NoError(t, err)
	assert.Equal(t, "int a; \nint b;", out)
}

func TestRun_StripsBlockComment_PreservesLineCount(t *testing.T) {
	src := "int a; /* comment\nspanning\nlines */ int b;"
	out, err := preprocess.Run(src)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestRun_UnterminatedBlockComment(t *testing.T) {
	_, err := preprocess.Run("int a; /* never closed")
	require.Error(t, err)
	var uc *preprocess.ErrUnterminatedComment
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, 1, uc.Line)
}

func TestRun_LineContinuationErased(t *testing.T) {
	out, err := preprocess.Run("int a\\\n = 1;")
	require.NoError(t, err)
	assert.Equal(t, "int a = 1;", out)
}

func TestRun_NestedBlockCommentMarkersNotSpecial(t *testing.T) {
	// OSL block comments are not nestable: the first "*/" closes the comment.
	out, err := preprocess.Run("/* outer /* inner */ rest */")
	require.NoError(t, err)
	assert.Equal(t, " rest */", out)
}
