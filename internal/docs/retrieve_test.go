package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevantMatchesTopicsByTerm(t *testing.T) {
	ix := Builtin()

	res := ix.Relevant("extrude a box 20mm tall")
	require.Contains(t, res.Topics, "ExtrudeFeatures")
	assert.NotContains(t, res.Topics, "RevolveFeatures")
}

func TestRelevantMatchesErrorsByContext(t *testing.T) {
	ix := Builtin()

	res := ix.Relevant("my revolve keeps failing")
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "ERROR 3: ASM_PATH_TANGENT", res.Errors[0].Code)
	require.NotEmpty(t, res.Practices)
}

func TestRelevantNoTerms(t *testing.T) {
	ix := Builtin()

	res := ix.Relevant("hello there")
	assert.True(t, res.Empty())
	assert.Empty(t, res.FormatContext())
}

func TestErrorSolution(t *testing.T) {
	ix := Builtin()

	ec, ok := ix.ErrorSolution("operation failed: ERROR 3: ASM_PATH_TANGENT while revolving")
	require.True(t, ok)
	assert.Equal(t, "Revolve operations", ec.Context)

	_, ok = ix.ErrorSolution("some unrelated failure")
	assert.False(t, ok)
}

func TestFormatContextSections(t *testing.T) {
	ix := Builtin()

	out := ix.Relevant("revolve this sketch profile").FormatContext()
	assert.Contains(t, out, "CAD API DOCUMENTATION:")
	assert.Contains(t, out, "## RevolveFeatures")
	assert.Contains(t, out, "### createInput")
	assert.Contains(t, out, "## COMMON API ERRORS TO AVOID:")
	assert.Contains(t, out, "## BEST PRACTICES:")
}
