package report

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedAggregatorPassThroughWithoutClient(t *testing.T) {
	inner := &fakeAggregator{facts: []Aggregate{{AccountCode: "1000", EntityCode: "ENT01", Amount: amount(5)}}}
	cached := NewCachedAggregator(inner, nil, time.Minute)

	for i := 0; i < 2; i++ {
		facts, err := cached.Aggregate(context.Background(), []string{"1000"}, []string{"ENT01"}, "2024-06")
		require.NoError(t, err)
		require.Len(t, facts, 1)
	}
	require.Equal(t, 2, inner.calls, "every call must reach the backend when no cache is wired")
}

func TestCachedAggregatorServesSecondCallFromCache(t *testing.T) {
	inner := &fakeAggregator{facts: []Aggregate{{AccountCode: "1000", EntityCode: "ENT01", Amount: amount(1500)}}}
	cached := NewCachedAggregator(inner, testRedis(t), time.Minute)
	ctx := context.Background()

	first, err := cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.NoError(t, err)
	second, err := cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.NoError(t, err)

	require.Equal(t, 1, inner.calls)
	require.Equal(t, first, second)
	require.True(t, second[0].Amount.Equal(amount(1500)))
}

func TestCachedAggregatorKeysByQueryShape(t *testing.T) {
	inner := &fakeAggregator{}
	cached := NewCachedAggregator(inner, testRedis(t), time.Minute)
	ctx := context.Background()

	_, err := cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.NoError(t, err)
	_, err = cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-07")
	require.NoError(t, err)

	require.Equal(t, 2, inner.calls, "a different period must miss")
}

func TestCachedAggregatorBumpInvalidates(t *testing.T) {
	inner := &fakeAggregator{}
	cached := NewCachedAggregator(inner, testRedis(t), time.Minute)
	ctx := context.Background()

	_, err := cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.NoError(t, err)
	require.NoError(t, cached.Bump(ctx))
	_, err = cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.NoError(t, err)

	require.Equal(t, 2, inner.calls, "bumping the version must force a fresh query")
}

func TestCachedAggregatorDoesNotCacheFailures(t *testing.T) {
	inner := &fakeAggregator{err: context.DeadlineExceeded}
	cached := NewCachedAggregator(inner, testRedis(t), time.Minute)
	ctx := context.Background()

	_, err := cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.Error(t, err)

	inner.err = nil
	_, err = cached.Aggregate(ctx, []string{"1000"}, []string{"ENT01"}, "2024-06")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}
