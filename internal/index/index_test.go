package index_test

import (
	"testing"

	"github.com/hanpama/gqlshape/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootIsTopLevel(t *testing.T) {
	i := index.Root()
	assert.True(t, i.IsTopLevel())
	assert.Equal(t, 0, i.Depth())
	assert.Equal(t, "0", i.String())
}

func TestNextStaysAtDepth(t *testing.T) {
	i := index.Root().Next().Next()
	assert.True(t, i.IsTopLevel())
	assert.Equal(t, "2", i.String())
}

func TestChildDescends(t *testing.T) {
	i := index.Root().Next().Child()
	assert.False(t, i.IsTopLevel())
	assert.Equal(t, 1, i.Depth())
	assert.Equal(t, "1.0", i.String())

	i = i.Next().Child()
	assert.Equal(t, "1.1.0", i.String())
	assert.Equal(t, 2, i.Depth())
}

func TestImmutability(t *testing.T) {
	root := index.Root()
	child := root.Child()
	next := child.Next()
	require.Equal(t, "0", root.String())
	require.Equal(t, "0.0", child.String())
	require.Equal(t, "0.1", next.String())

	// Advancing a sibling after a child was taken must not alias storage.
	other := child.Next().Next()
	assert.Equal(t, "0.1", next.String())
	assert.Equal(t, "0.2", other.String())
}
