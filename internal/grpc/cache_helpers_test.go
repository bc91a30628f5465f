package grpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godilite/feedback-dashboard/internal/grpc/mocks"
	"github.com/godilite/feedback-dashboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/singleflight"
)

func TestAddTTLJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), addTTLJitter(0))
	for range 50 {
		assert.Positive(t, addTTLJitter(5*time.Second), "short TTLs never drop to zero")
	}

	for range 50 {
		got := addTTLJitter(10 * time.Minute)
		assert.GreaterOrEqual(t, got, 10*time.Minute-15*time.Second)
		assert.Less(t, got, 10*time.Minute+15*time.Second)
	}
}

func TestFindAndCache(t *testing.T) {
	ctx := context.Background()

	t.Run("hit and miss are counted", func(t *testing.T) {
		m := metrics.New(prometheus.NewRegistry())
		var sf singleflight.Group
		hit := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				*(dest.(*int)) = 7
				return nil
			},
		}

		v, err := FindAndCache(ctx, hit, &sf, "k", time.Minute, zaptest.NewLogger(t), m, func(context.Context) (int, error) {
			return 0, errors.New("must not fetch")
		})
		require.NoError(t, err)
		assert.Equal(t, 7, v)

		v, err = FindAndCache(ctx, &mocks.MockCacher{}, &sf, "k", time.Minute, nil, m, func(context.Context) (int, error) {
			return 9, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 9, v)

		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	})

	t.Run("cache errors fall back to fetch", func(t *testing.T) {
		var sf singleflight.Group
		broken := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				return errors.New("connection refused")
			},
		}

		v, err := FindAndCache(ctx, broken, &sf, "k", time.Minute, nil, nil, func(context.Context) (string, error) {
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", v)
	})

	t.Run("fetch errors are returned and not cached", func(t *testing.T) {
		var sf singleflight.Group
		c := &mocks.MockCacher{
			SetFunc: func(ctx context.Context, key string, value any, expiration time.Duration) error {
				t.Error("failed fetch must not be cached")
				return nil
			},
		}
		fetchErr := errors.New("bad dataset")

		_, err := FindAndCache(ctx, c, &sf, "k", time.Minute, nil, nil, func(context.Context) (int, error) {
			return 0, fetchErr
		})
		assert.ErrorIs(t, err, fetchErr)
	})

	t.Run("concurrent misses share one fetch", func(t *testing.T) {
		var sf singleflight.Group
		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := FindAndCache(ctx, &mocks.MockCacher{}, &sf, "same", time.Minute, nil, nil, func(context.Context) (int, error) {
					calls.Add(1)
					<-release
					return 1, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, 1, v)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, calls.Load(), int32(5))
		assert.GreaterOrEqual(t, calls.Load(), int32(1))
	})
}
