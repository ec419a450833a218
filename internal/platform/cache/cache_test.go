package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := Open(context.Background(), "redis://"+mr.Addr()+"/0", time.Minute, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func loader(calls *atomic.Int32, out string) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte(out), nil
	}
}

func TestFetch_MissThenHit(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()
	var calls atomic.Int32

	got, err := c.Fetch(ctx, "ops:epi.diseases:{}", loader(&calls, `[]`))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	got, err = c.Fetch(ctx, "ops:epi.diseases:{}", loader(&calls, `changed`))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, int32(1), calls.Load())

	stored, err := mr.Get("ops:epi.diseases:{}")
	require.NoError(t, err)
	assert.Equal(t, `[]`, stored)
	assert.Equal(t, time.Minute, mr.TTL("ops:epi.diseases:{}"))
}

func TestFetch_Expires(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()
	var calls atomic.Int32

	_, err := c.Fetch(ctx, "k", loader(&calls, "a"))
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	got, err := c.Fetch(ctx, "k", loader(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_ErrorsNotStored(t *testing.T) {
	mr, c := setupRedis(t)
	boom := errors.New("query failed")

	_, err := c.Fetch(context.Background(), "k", func(context.Context) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestFetch_RedisDown(t *testing.T) {
	mr, c := setupRedis(t)
	mr.Close()
	var calls atomic.Int32

	got, err := c.Fetch(context.Background(), "k", loader(&calls, "fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_CollapsesConcurrentMisses(t *testing.T) {
	_, c := setupRedis(t)
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Fetch(context.Background(), "shared", load)
			assert.NoError(t, err)
			assert.Equal(t, "v", string(got))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "not-a-url", time.Minute, zerolog.Nop())
	assert.Error(t, err)
}

func TestNew_DefaultTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0, zerolog.Nop())
	defer c.Close()
	assert.Equal(t, DefaultTTL, c.ttl)
}
