// Package genid tags a context with an identifier for one generation run so
// event subscribers can correlate start and finish events.
package genid

import (
	"context"
	"math/rand/v2"
)

type key struct{}

// NewContext returns a copy of parent carrying a fresh random run ID, and
// the ID itself.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int64()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the run ID from ctx.
func FromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(key{}).(int64)
	return id, ok
}
