package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. It stands in for the persistent tier when the
// configured store is "none" or --no-cache is given.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() *NullCache { return &NullCache{} }

// Get always reports a miss.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
