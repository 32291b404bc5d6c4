package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Coning/internal/calc/premium/batch"
)

func TestCacheResultRepository_PutGet(t *testing.T) {
	r, err := NewCacheResultRepository(16, time.Hour)
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	tbl := batch.Table{Columns: []string{"Well"}, Rows: []batch.Row{{"W-1"}}}
	require.NoError(t, r.Put(ctx, "abc", tbl))

	got, ok, err := r.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tbl, got)

	_, ok, err = r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, int64(1), r.Stats().Hits())
	assert.Equal(t, int64(1), r.Stats().Misses())
}

func TestCacheResultRepository_CancelledContext(t *testing.T) {
	r, err := NewCacheResultRepository(4, time.Minute)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, r.Put(ctx, "x", batch.Table{}))
	_, _, err = r.Get(ctx, "x")
	assert.Error(t, err)
}

func TestCacheResultRepository_InvalidTTL(t *testing.T) {
	_, err := NewCacheResultRepository(4, -time.Second)
	assert.Error(t, err)
}

func TestID(t *testing.T) {
	a := ID([]byte("wells"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, ID([]byte("wells")))
	assert.NotEqual(t, a, ID([]byte("wells2")))
}
