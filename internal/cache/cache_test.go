package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T) (*Cache[string], *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)}
	return New[string]().WithClock(clk.Now), clk
}

func TestGetMissing(t *testing.T) {
	c, _ := newTestCache(t)
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestSetAndGetWithinTTL(t *testing.T) {
	c, clk := newTestCache(t)
	c.Set("hype:GME:24h", "cached", time.Minute)

	clk.Advance(59 * time.Second)
	v, ok := c.Get("hype:GME:24h")
	require.True(t, ok)
	assert.Equal(t, "cached", v)
}

func TestExpiredEntryIsEvicted(t *testing.T) {
	c, clk := newTestCache(t)
	c.Set("k", "v", time.Minute)

	clk.Advance(time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok, "entry must not be visible at expiry")
	assert.Equal(t, 0, c.Len(), "expired read should evict")
}

func TestSetOverwritesRegardlessOfRemainingTTL(t *testing.T) {
	c, clk := newTestCache(t)
	c.Set("k", "old", time.Hour)
	c.Set("k", "new", time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	clk.Advance(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "shorter ttl of the overwrite applies")
}

func TestInvalidatePrefix(t *testing.T) {
	c, _ := newTestCache(t)
	c.Set("stocktwits:sentiment:AAPL", "a", time.Minute)
	c.Set("stocktwits:sentiment:TSLA", "b", time.Minute)
	c.Set("alphavantage:news:AAPL", "c", time.Minute)

	c.Invalidate("stocktwits:")
	_, ok := c.Get("stocktwits:sentiment:AAPL")
	assert.False(t, ok)
	_, ok = c.Get("alphavantage:news:AAPL")
	assert.True(t, ok)

	c.Invalidate("")
	assert.Equal(t, 0, c.Len())
}

func TestSweep(t *testing.T) {
	c, clk := newTestCache(t)
	c.Set("short", "x", time.Second)
	c.Set("long", "y", time.Hour)

	clk.Advance(time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
}

func TestJanitorStopsWithContext(t *testing.T) {
	c := New[int]()
	c.Set("k", 1, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	c.StartJanitor(ctx, 5*time.Millisecond)
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set("k", i, time.Minute)
			c.Get("k")
		}(i)
	}
	wg.Wait()
	_, ok := c.Get("k")
	assert.True(t, ok)
}
