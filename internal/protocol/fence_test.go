package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSingleFence(t *testing.T) {
	reply := "Here is the code:\n```python\nprint('hi')\n```\nRun it in the host."

	segments := Split(reply)
	require.Len(t, segments, 3)

	assert.False(t, segments[0].Code)
	assert.Equal(t, "Here is the code:\n", segments[0].Text)

	assert.True(t, segments[1].Code)
	assert.Equal(t, "python", segments[1].Language)
	assert.Equal(t, "print('hi')\n", segments[1].Text)

	assert.False(t, segments[2].Code)
	assert.Equal(t, "\nRun it in the host.", segments[2].Text)
}

func TestSplitFenceAtEdges(t *testing.T) {
	segments := Split("```\ncode only\n```")
	require.Len(t, segments, 1)
	assert.True(t, segments[0].Code)
	assert.Equal(t, "", segments[0].Language)
	assert.Equal(t, "\ncode only\n", segments[0].Text)
}

func TestSplitNoFence(t *testing.T) {
	segments := Split("just narrative text")
	require.Len(t, segments, 1)
	assert.False(t, segments[0].Code)
}

func TestSplitUnterminatedFence(t *testing.T) {
	segments := Split("intro\n```python\nnever closed")
	require.Len(t, segments, 2)
	assert.True(t, segments[1].Code)
	assert.Equal(t, "never closed", segments[1].Text)
}

func TestLastCodeBlock(t *testing.T) {
	reply := "First:\n```python\nfirst = 1\n```\nSecond:\n```python\nsecond = 2\n```\ndone"
	assert.Equal(t, "second = 2\n", LastCodeBlock(reply))

	assert.Equal(t, "", LastCodeBlock("no code here"))
}

func TestExtractCodePrefersPythonFence(t *testing.T) {
	reply := "```\nnot this\n```\n```python\nthis_one = True\n```"
	assert.Equal(t, "this_one = True", ExtractCode(reply))
}

func TestExtractCodeGenericFallback(t *testing.T) {
	assert.Equal(t, "x = 1", ExtractCode("```\nx = 1\n```"))
	assert.Equal(t, "", ExtractCode("plain text"))
}
