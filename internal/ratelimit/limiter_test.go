package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int64) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, limit, time.Minute), mr
}

func TestExceededAfterLimitFailures(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		over, err := l.Exceeded(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, over)
		require.NoError(t, l.Fail(ctx, "1.2.3.4"))
	}
	over, err := l.Exceeded(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, over)

	over, err = l.Exceeded(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.False(t, over, "keys are counted independently")
}

func TestExceededDoesNotCount(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		over, err := l.Exceeded(ctx, "k")
		require.NoError(t, err)
		assert.False(t, over)
	}
	assert.False(t, mr.Exists(namespace+":k"))
}

func TestWindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "k"))
	over, _ := l.Exceeded(ctx, "k")
	require.True(t, over)
	assert.Greater(t, l.Retry(ctx, "k"), time.Duration(0))

	mr.FastForward(time.Minute + time.Second)

	over, err := l.Exceeded(ctx, "k")
	require.NoError(t, err)
	assert.False(t, over)
}

func TestExceededFailsOpenWhenRedisIsDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()

	over, err := l.Exceeded(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, over)
	assert.Error(t, l.Fail(context.Background(), "k"))
}

func TestNilLimiterNeverThrottles(t *testing.T) {
	var l *Limiter
	over, err := l.Exceeded(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, over)
	assert.NoError(t, l.Fail(context.Background(), "k"))
}
