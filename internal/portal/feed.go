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

package portal

import (
	"context"

	"github.com/26JATIN/scholardesk-sub002/internal/cache"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

// FeedService caches the announcement feed for one student session.
// Screens read the cached window first and paginate backward only while
// all-history-loaded has not been reached; head-of-feed checks go through
// ShouldCheckForNewItems so at most one fires per interval.
type FeedService struct {
	fc *cache.FeedCache[Announcement]
}

// NewFeedService builds the feed cache service for one identity and session.
func NewFeedService(st *store.Store, id Identity, sessionID string) (*FeedService, error) {
	fc, err := cache.NewFeedCache[Announcement](st, cache.Scope{
		Domain:    DomainFeed,
		Tenant:    id.Tenant,
		UserID:    id.UserID,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}
	return &FeedService{fc: fc}, nil
}

// CacheFeed overwrites the cached feed with a freshly fetched first page.
func (s *FeedService) CacheFeed(ctx context.Context, items []Announcement, nextPage string, hasMore bool) error {
	return s.fc.Put(ctx, items, nextPage, hasMore)
}

// MergeNewItems folds newly published announcements into the cached window
// and returns the merged sequence.
func (s *FeedService) MergeNewItems(ctx context.Context, items []Announcement, nextPage string, hasMore bool) ([]Announcement, error) {
	return s.fc.MergeNew(ctx, items, nextPage, hasMore)
}

// AppendToCache folds an older history page into the cached window.
func (s *FeedService) AppendToCache(ctx context.Context, items []Announcement, nextPage string, hasMore bool) ([]Announcement, error) {
	return s.fc.Append(ctx, items, nextPage, hasMore)
}

// GetCachedFeed returns the cached feed, or nil when nothing is cached.
func (s *FeedService) GetCachedFeed(ctx context.Context) (*cache.FeedResult[Announcement], error) {
	return s.fc.Get(ctx)
}

// ShouldCheckForNewItems rate-limits background head-of-feed refreshes.
func (s *FeedService) ShouldCheckForNewItems(ctx context.Context) (bool, error) {
	return s.fc.ShouldCheckForNew(ctx)
}

// ClearCache wipes the feed scope.
func (s *FeedService) ClearCache(ctx context.Context) error {
	return s.fc.Clear(ctx)
}

// Cache exposes the underlying feed cache for tests and the CLI.
func (s *FeedService) Cache() *cache.FeedCache[Announcement] {
	return s.fc
}
