package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maypok86/otter"
	"github.com/zeebo/xxh3"

	"Coning/internal/calc/premium/batch"
	"Coning/internal/metrics"
)

var ErrRejected = errors.New("result table rejected by cache")

// Repository keeps processed well tables between the upload request and the
// download or chart requests that follow it.
type Repository interface {
	Put(ctx context.Context, id string, t batch.Table) error
	Get(ctx context.Context, id string) (batch.Table, bool, error)
}

type CacheResultRepository struct {
	cache otter.Cache[string, batch.Table]
}

func NewCacheResultRepository(capacity int, ttl time.Duration) (*CacheResultRepository, error) {
	cache, err := otter.MustBuilder[string, batch.Table](capacity).
		CollectStats().
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("results cache: %w", err)
	}
	return &CacheResultRepository{cache: cache}, nil
}

// ID derives a stable identifier from the uploaded bytes, so the same file
// uploaded twice maps to the same result.
func ID(content []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(content))
}

func (r *CacheResultRepository) Put(ctx context.Context, id string, t batch.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.cache.Set(id, t) {
		return ErrRejected
	}
	return nil
}

func (r *CacheResultRepository) Get(ctx context.Context, id string) (batch.Table, bool, error) {
	if err := ctx.Err(); err != nil {
		return batch.Table{}, false, err
	}
	t, ok := r.cache.Get(id)
	return t, ok, nil
}

func (r *CacheResultRepository) Stats() metrics.CacheStats {
	return r.cache.Stats()
}

func (r *CacheResultRepository) Close() {
	r.cache.Close()
}
