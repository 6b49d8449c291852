package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	ID   string `json:"id"`
	Ts   int64  `json:"ts"`
	Body string `json:"body"`
}

func (i testItem) FeedKey() FeedKey {
	return FeedKey{ID: i.ID, Timestamp: i.Ts}
}

func newTestFeed(t *testing.T, start int64) (*FeedCache[testItem], *int64) {
	t.Helper()
	st := newCacheStore(t)
	c, err := NewFeedCache[testItem](st, testScope("feed"))
	require.NoError(t, err)
	clock, now := fixedClock(start)
	c.WithClock(clock)
	return c, now
}

func feedIDs(items []testItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestFeedCacheEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	res, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestFeedCachePutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	items := []testItem{
		{ID: "a3", Ts: 300, Body: "newest"},
		{ID: "a2", Ts: 200},
		{ID: "a1", Ts: 100, Body: "oldest"},
	}
	require.NoError(t, c.Put(ctx, items, "page-2", true))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a3", "a2", "a1"}, feedIDs(res.Items))
	assert.Equal(t, "page-2", res.NextPage)
	assert.True(t, res.HasMore)
	assert.False(t, res.AllLoaded)
	assert.Equal(t, int64(100), res.OldestTs)
	assert.Equal(t, int64(300), res.NewestTs)
	assert.Equal(t, int64(1_700_000_000_000), res.CachedAtMillis)
}

func TestFeedCachePutIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	items := []testItem{{ID: "a1", Ts: 100}}
	require.NoError(t, c.Put(ctx, items, "page-2", true))
	require.NoError(t, c.Put(ctx, items, "page-2", true))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a1"}, feedIDs(res.Items))
}

func TestFeedCacheAllLoadedTerminal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	require.NoError(t, c.Put(ctx, []testItem{{ID: "a2", Ts: 200}}, "page-2", true))

	// Loading the final history page completes the feed.
	merged, err := c.Append(ctx, []testItem{{ID: "a1", Ts: 100}}, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, feedIDs(merged))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.AllLoaded)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.NextPage)

	// Complete is terminal: a later write claiming more pages cannot revive
	// backward pagination.
	require.NoError(t, c.Put(ctx, []testItem{{ID: "a3", Ts: 300}, {ID: "a2", Ts: 200}, {ID: "a1", Ts: 100}}, "page-9", true))
	res, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.AllLoaded)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.NextPage)

	// Only Clear resets the scope.
	require.NoError(t, c.Clear(ctx))
	res, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)

	require.NoError(t, c.Put(ctx, []testItem{{ID: "b1", Ts: 100}}, "page-2", true))
	res, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.AllLoaded)
	assert.True(t, res.HasMore)
}

func TestFeedCacheMergeNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	require.NoError(t, c.Put(ctx, []testItem{
		{ID: "a3", Ts: 300},
		{ID: "a2", Ts: 200},
	}, "page-2", true))

	// One genuinely new item, one already cached.
	merged, err := c.MergeNew(ctx, []testItem{
		{ID: "a4", Ts: 400},
		{ID: "a3", Ts: 300},
	}, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a4", "a3", "a2"}, feedIDs(merged))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a4", "a3", "a2"}, feedIDs(res.Items))
	assert.Equal(t, int64(200), res.OldestTs)
	assert.Equal(t, int64(400), res.NewestTs)
}

func TestFeedCacheMergeNewIntoEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	merged, err := c.MergeNew(ctx, []testItem{
		{ID: "a1", Ts: 100},
		{ID: "a2", Ts: 200},
	}, "page-2", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, feedIDs(merged), "first merge sorts newest first")

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "page-2", res.NextPage)
}

func TestFeedCacheMergeNoOpSkipsWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, now := newTestFeed(t, 1_700_000_000_000)

	require.NoError(t, c.Put(ctx, []testItem{{ID: "a1", Ts: 100}}, "page-2", true))
	before, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, before)

	// All incoming items are already cached: the stored record, including its
	// freshness timestamp, must stay byte-for-byte untouched.
	*now += time.Minute.Milliseconds()
	merged, err := c.MergeNew(ctx, []testItem{{ID: "a1", Ts: 100}}, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, feedIDs(merged))

	after, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, before.CachedAtMillis, after.CachedAtMillis, "no-op merge must not bump the timestamp")
	assert.Equal(t, before.NextPage, after.NextPage)
	assert.False(t, after.AllLoaded)
}

func TestFeedCacheEmptyAppendStillCompletes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	require.NoError(t, c.Put(ctx, []testItem{{ID: "a1", Ts: 100}}, "page-2", true))

	// The final history page overlaps the cache entirely, but its
	// hasMore=false must still enter the complete state.
	merged, err := c.Append(ctx, []testItem{{ID: "a1", Ts: 100}}, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, feedIDs(merged))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.AllLoaded)
	assert.False(t, res.HasMore)
}

func TestFeedCacheCursorPreservation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	require.NoError(t, c.Put(ctx, []testItem{{ID: "a2", Ts: 200}}, "page-2", true))

	// A head-of-feed check carries new items but no pagination cursor; the
	// stored cursor must survive so older pages stay reachable.
	_, err := c.MergeNew(ctx, []testItem{{ID: "a3", Ts: 300}}, "", true)
	require.NoError(t, err)

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "page-2", res.NextPage)
	assert.True(t, res.HasMore)

	// A merge that does carry a cursor replaces the stored one.
	_, err = c.MergeNew(ctx, []testItem{{ID: "a4", Ts: 400}}, "page-3", true)
	require.NoError(t, err)
	res, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "page-3", res.NextPage)
}

func TestFeedCacheAppendOlderPage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	require.NoError(t, c.Put(ctx, []testItem{
		{ID: "a4", Ts: 400},
		{ID: "a3", Ts: 300},
	}, "page-2", true))

	merged, err := c.Append(ctx, []testItem{
		{ID: "a2", Ts: 200},
		{ID: "a1", Ts: 100},
	}, "page-3", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a4", "a3", "a2", "a1"}, feedIDs(merged))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "page-3", res.NextPage)
	assert.True(t, res.HasMore)
	assert.Equal(t, int64(100), res.OldestTs)
	assert.Equal(t, int64(400), res.NewestTs)
}

func TestFeedCacheSortStability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	// Equal timestamps keep their relative order; timestamp 0 sorts last.
	merged, err := c.MergeNew(ctx, []testItem{
		{ID: "tie-1", Ts: 200},
		{ID: "unparseable", Ts: 0},
		{ID: "tie-2", Ts: 200},
		{ID: "newest", Ts: 300},
	}, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "tie-1", "tie-2", "unparseable"}, feedIDs(merged))
}

func TestFeedCacheIntraBatchDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	merged, err := c.MergeNew(ctx, []testItem{
		{ID: "a1", Ts: 100, Body: "first"},
		{ID: "a1", Ts: 100, Body: "dup"},
		{ID: "a1", Ts: 101, Body: "same id, new timestamp"},
	}, "", true)
	require.NoError(t, err)
	// (id, timestamp) is the identity: the exact duplicate collapses, the
	// re-timestamped one is a distinct item.
	assert.Equal(t, []string{"a1", "a1"}, feedIDs(merged))
	assert.Equal(t, int64(101), merged[0].Ts)
	assert.Equal(t, "first", merged[1].Body)
}

func TestFeedCacheCorruptItemsIsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newCacheStore(t)
	scope := testScope("feed")
	c, err := NewFeedCache[testItem](st, scope)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, []testItem{{ID: "a1", Ts: 100}}, "", true))
	require.NoError(t, st.SetString(ctx, scope.Key(fieldItems), "not json"))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)

	// A merge rebuilds the window from the incoming items.
	merged, err := c.MergeNew(ctx, []testItem{{ID: "a2", Ts: 200}}, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, feedIDs(merged))

	res, err = c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a2"}, feedIDs(res.Items))
}

func TestFeedCacheShouldCheckForNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, now := newTestFeed(t, 1_700_000_000_000)

	due, err := c.ShouldCheckForNew(ctx)
	require.NoError(t, err)
	assert.True(t, due, "first check is always due")

	due, err = c.ShouldCheckForNew(ctx)
	require.NoError(t, err)
	assert.False(t, due, "second check inside the window is throttled")

	*now += (DefaultNewCheckInterval - time.Second).Milliseconds()
	due, err = c.ShouldCheckForNew(ctx)
	require.NoError(t, err)
	assert.False(t, due)

	*now += (2 * time.Second).Milliseconds()
	due, err = c.ShouldCheckForNew(ctx)
	require.NoError(t, err)
	assert.True(t, due, "check is due again after the window elapses")
}

func TestFeedCacheCheckIntervalOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, now := newTestFeed(t, 1_700_000_000_000)
	c.WithCheckInterval(time.Second)

	due, err := c.ShouldCheckForNew(ctx)
	require.NoError(t, err)
	assert.True(t, due)

	*now += time.Second.Milliseconds()
	due, err = c.ShouldCheckForNew(ctx)
	require.NoError(t, err)
	assert.True(t, due)
}

func TestFeedCacheEmptyWindowRoundTrips(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestFeed(t, 1_700_000_000_000)

	// An upstream feed with no items at all is still a cached state, distinct
	// from empty: the scope is complete with zero items.
	require.NoError(t, c.Put(ctx, nil, "", false))

	res, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Items)
	assert.True(t, res.AllLoaded)
	assert.False(t, res.HasMore)
}
