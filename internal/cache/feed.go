// Copyright 2025 ScholarDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

// Feed field names within a scope.
const (
	fieldItems        = "items"
	fieldNextPage     = "next_page"
	fieldHasMore      = "has_more"
	fieldAllLoaded    = "all_loaded"
	fieldOldestTs     = "oldest_ts"
	fieldNewestTs     = "newest_ts"
	fieldLastNewCheck = "last_new_check"
)

// DefaultNewCheckInterval throttles background head-of-feed refreshes.
const DefaultNewCheckInterval = 5 * time.Minute

// FeedKey is the composite identity of one feed item. Items with an
// unparseable timestamp carry Timestamp 0 and sort last.
type FeedKey struct {
	ID        string
	Timestamp int64
}

// Keyed is implemented by feed item types so the cache can deduplicate and
// order them without knowing their payload shape.
type Keyed interface {
	FeedKey() FeedKey
}

// FeedResult is a cached feed read.
type FeedResult[T Keyed] struct {
	Items          []T
	CachedAtMillis int64
	NextPage       string
	HasMore        bool
	AllLoaded      bool
	OldestTs       int64
	NewestTs       int64
}

// FeedCache caches a reverse-chronological paginated feed for one scope.
//
// The scope moves through three states: empty (no record), partial (a cached
// window exists, older pages may remain upstream) and complete (all history
// loaded). Complete is terminal: once any write asserts hasMore=false the
// all-loaded flag stays set and reads report no further pages, whatever the
// stored cursor says. Only Clear resets the scope.
//
// Merge/Append read-modify-write cycles are serialized by a per-cache mutex;
// callers must use them instead of composing raw reads and writes, or
// concurrent refreshes lose updates.
type FeedCache[T Keyed] struct {
	mu            sync.Mutex
	store         *store.Store
	scope         Scope
	checkInterval time.Duration
	now           func() time.Time
}

// NewFeedCache builds a feed cache for one scope.
func NewFeedCache[T Keyed](st *store.Store, scope Scope) (*FeedCache[T], error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return &FeedCache[T]{
		store:         st,
		scope:         scope,
		checkInterval: DefaultNewCheckInterval,
		now:           time.Now,
	}, nil
}

// WithClock replaces the wall clock. Tests only.
func (c *FeedCache[T]) WithClock(now func() time.Time) *FeedCache[T] {
	c.now = now
	return c
}

// WithCheckInterval overrides the new-item check throttle window.
func (c *FeedCache[T]) WithCheckInterval(d time.Duration) *FeedCache[T] {
	c.checkInterval = d
	return c
}

// Scope returns the cache's scope.
func (c *FeedCache[T]) Scope() Scope {
	return c.scope
}

// Put unconditionally overwrites the cached feed: items, pagination cursor
// and flags. Timestamp bounds are re-derived from the given items (a full
// overwrite resets them — old pages never change, so the merged lists the
// merge/append paths pass in already cover any previously stored bounds).
// Asserting hasMore=false flips the all-loaded flag permanently.
func (c *FeedCache[T]) Put(ctx context.Context, items []T, nextPage string, hasMore bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.put(ctx, items, nextPage, hasMore)
}

// put writes the full feed record in one transaction. Callers hold c.mu.
func (c *FeedCache[T]) put(ctx context.Context, items []T, nextPage string, hasMore bool) error {
	if Disabled {
		return nil
	}
	allLoaded, _, err := c.store.GetBool(ctx, c.scope.Key(fieldAllLoaded))
	if err != nil {
		return err
	}
	if !hasMore {
		allLoaded = true
	}
	if allLoaded {
		// Terminal state: backward pagination is permanently disabled.
		hasMore = false
	}

	blob, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encode %s feed: %w", c.scope.Domain, err)
	}
	oldest, newest := timestampBounds(items)
	nowMillis := c.now().UnixMilli()

	return c.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.SetString(ctx, c.scope.Key(fieldItems), blob); err != nil {
			return err
		}
		if err := tx.SetInt64(ctx, c.scope.Key(fieldCachedAt), nowMillis); err != nil {
			return err
		}
		if err := tx.SetString(ctx, c.scope.Key(fieldNextPage), nextPage); err != nil {
			return err
		}
		if err := tx.SetBool(ctx, c.scope.Key(fieldHasMore), hasMore); err != nil {
			return err
		}
		if err := tx.SetBool(ctx, c.scope.Key(fieldAllLoaded), allLoaded); err != nil {
			return err
		}
		if err := tx.SetInt64(ctx, c.scope.Key(fieldOldestTs), oldest); err != nil {
			return err
		}
		return tx.SetInt64(ctx, c.scope.Key(fieldNewestTs), newest)
	})
}

// MergeNew folds newly published head-of-feed items into the cached window.
// Items already cached (same (id, timestamp) key) are dropped; the genuinely
// new subset is prepended and the concatenation re-sorted, stably, newest
// first. Returns the full merged sequence.
//
// A zero-new merge skips the storage write (no timestamp bump for a no-op
// fetch) unless it asserts hasMore=false for the first time, which must
// still flip the terminal flag. An empty nextPage keeps the stored cursor so
// a head-check response without pagination info cannot clobber forward
// progress already known.
func (c *FeedCache[T]) MergeNew(ctx context.Context, newItems []T, nextPage string, hasMore bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists, err := c.items(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		merged := sortFeed(dedupe(newItems, nil))
		return merged, c.put(ctx, merged, nextPage, hasMore)
	}

	fresh := dedupe(newItems, existing)
	if len(fresh) == 0 {
		if err := c.flagsOnlyWrite(ctx, hasMore); err != nil {
			return nil, err
		}
		return existing, nil
	}

	merged := sortFeed(append(fresh, existing...))
	next, err := c.preserveCursor(ctx, nextPage, hasMore)
	if err != nil {
		return nil, err
	}
	return merged, c.put(ctx, merged, next, hasMore)
}

// Append folds an older history page into the cached window: dedup, append
// after the existing sequence, stable re-sort newest first. A no-op when the
// deduplicated addition set is empty, except that a first hasMore=false
// assertion still flips the terminal flag.
func (c *FeedCache[T]) Append(ctx context.Context, newItems []T, nextPage string, hasMore bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists, err := c.items(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		merged := sortFeed(dedupe(newItems, nil))
		return merged, c.put(ctx, merged, nextPage, hasMore)
	}

	fresh := dedupe(newItems, existing)
	if len(fresh) == 0 {
		if err := c.flagsOnlyWrite(ctx, hasMore); err != nil {
			return nil, err
		}
		return existing, nil
	}

	merged := sortFeed(append(existing, fresh...))
	return merged, c.put(ctx, merged, nextPage, hasMore)
}

// flagsOnlyWrite handles the empty-addition case: storage stays untouched
// unless this call is the first to assert hasMore=false, which must still
// enter the terminal state.
func (c *FeedCache[T]) flagsOnlyWrite(ctx context.Context, hasMore bool) error {
	if hasMore {
		return nil
	}
	allLoaded, _, err := c.store.GetBool(ctx, c.scope.Key(fieldAllLoaded))
	if err != nil {
		return err
	}
	if allLoaded {
		return nil
	}
	return c.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.SetBool(ctx, c.scope.Key(fieldAllLoaded), true); err != nil {
			return err
		}
		return tx.SetBool(ctx, c.scope.Key(fieldHasMore), false)
	})
}

// preserveCursor returns the cursor to persist on a merge: the caller's when
// supplied, the stored one when the caller has none and still reports more
// pages upstream.
func (c *FeedCache[T]) preserveCursor(ctx context.Context, nextPage string, hasMore bool) (string, error) {
	if nextPage != "" || !hasMore {
		return nextPage, nil
	}
	stored, _, err := c.store.GetString(ctx, c.scope.Key(fieldNextPage))
	if err != nil {
		return "", err
	}
	return stored, nil
}

// Get returns the cached feed, or nil when nothing is cached. A corrupt item
// blob reads as a miss. Once the scope is complete, HasMore is false and the
// cursor empty regardless of what was stored.
func (c *FeedCache[T]) Get(ctx context.Context) (*FeedResult[T], error) {
	if Disabled {
		return nil, nil
	}
	cachedAt, ok, err := c.store.GetInt64(ctx, c.scope.Key(fieldCachedAt))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	blob, ok, err := c.store.GetString(ctx, c.scope.Key(fieldItems))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	items, derr := decodeSlice[T](blob)
	if derr != nil {
		log.WithFields(log.Fields{"scope": c.scope.String(), "err": derr}).
			Warn("corrupt feed record, treating as miss")
		return nil, nil
	}

	nextPage, _, err := c.store.GetString(ctx, c.scope.Key(fieldNextPage))
	if err != nil {
		return nil, err
	}
	hasMore, _, err := c.store.GetBool(ctx, c.scope.Key(fieldHasMore))
	if err != nil {
		return nil, err
	}
	allLoaded, _, err := c.store.GetBool(ctx, c.scope.Key(fieldAllLoaded))
	if err != nil {
		return nil, err
	}
	oldest, _, err := c.store.GetInt64(ctx, c.scope.Key(fieldOldestTs))
	if err != nil {
		return nil, err
	}
	newest, _, err := c.store.GetInt64(ctx, c.scope.Key(fieldNewestTs))
	if err != nil {
		return nil, err
	}

	if allLoaded {
		hasMore = false
		nextPage = ""
	}
	return &FeedResult[T]{
		Items:          items,
		CachedAtMillis: cachedAt,
		NextPage:       nextPage,
		HasMore:        hasMore,
		AllLoaded:      allLoaded,
		OldestTs:       oldest,
		NewestTs:       newest,
	}, nil
}

// ShouldCheckForNew reports whether a background head-of-feed refresh is due,
// at most once per check interval per scope. Check-and-mark is atomic: the
// last-check timestamp is advanced with a compare-and-set, so concurrent
// callers inside one window cannot double-trigger, in-process or across
// processes.
func (c *FeedCache[T]) ShouldCheckForNew(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	nowMillis := c.now().UnixMilli()
	threshold := nowMillis - c.checkInterval.Milliseconds()
	return c.store.CompareAndSetInt64(ctx, c.scope.Key(fieldLastNewCheck), threshold, nowMillis)
}

// Clear wipes the scope, returning it to the empty state. This is the only
// way out of the complete state.
func (c *FeedCache[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.store.RemovePrefix(ctx, c.scope.Prefix())
	return err
}

// items loads and decodes the cached item list. exists is false for the
// empty state; a corrupt blob also reads as empty so a merge can rebuild it.
func (c *FeedCache[T]) items(ctx context.Context) ([]T, bool, error) {
	_, ok, err := c.store.GetInt64(ctx, c.scope.Key(fieldCachedAt))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	blob, ok, err := c.store.GetString(ctx, c.scope.Key(fieldItems))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	items, derr := decodeSlice[T](blob)
	if derr != nil {
		log.WithFields(log.Fields{"scope": c.scope.String(), "err": derr}).
			Warn("corrupt feed record, rebuilding from incoming items")
		return nil, false, nil
	}
	return items, true, nil
}

// dedupe returns the members of items whose (id, timestamp) key does not
// appear in existing, preserving their relative order. Duplicates within
// items themselves are also collapsed.
func dedupe[T Keyed](items, existing []T) []T {
	seen := make(map[FeedKey]struct{}, len(existing)+len(items))
	for _, it := range existing {
		seen[it.FeedKey()] = struct{}{}
	}
	var fresh []T
	for _, it := range items {
		k := it.FeedKey()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		fresh = append(fresh, it)
	}
	return fresh
}

// sortFeed orders items newest first. Stable: ties keep their relative
// order, and timestamp-0 items (unparseable upstream timestamps) sort last.
func sortFeed[T Keyed](items []T) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].FeedKey().Timestamp > items[j].FeedKey().Timestamp
	})
	return items
}

// timestampBounds scans items for their min/max timestamps.
func timestampBounds[T Keyed](items []T) (oldest, newest int64) {
	for i, it := range items {
		ts := it.FeedKey().Timestamp
		if i == 0 {
			oldest, newest = ts, ts
			continue
		}
		if ts < oldest {
			oldest = ts
		}
		if ts > newest {
			newest = ts
		}
	}
	return oldest, newest
}
