package genid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, id, got)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)
}
