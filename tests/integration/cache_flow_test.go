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

package integration

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/26JATIN/scholardesk-sub002/internal/portal"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

var flowIdentity = portal.Identity{Tenant: "campus-a", UserID: "u-1"}

// TestOfflineCacheFlow walks the whole offline-first lifecycle against a real
// store file: fill the caches online, close and reopen the store as an app
// restart would, and read everything back without touching the network.
func TestOfflineCacheFlow(t *testing.T) {
	ctx := context.Background()
	storePath := filepath.Join(t.TempDir(), "cache.scholardesk")

	t.Run("online session fills the caches", func(t *testing.T) {
		g := NewWithT(t)

		st, err := store.Create(storePath)
		g.Expect(err).NotTo(HaveOccurred())
		defer st.Close()

		svc, err := portal.NewServices(st, flowIdentity, "2025-26", portal.DefaultValidities())
		g.Expect(err).NotTo(HaveOccurred())

		g.Expect(svc.Profile.CacheProfile(ctx, portal.Profile{UserID: "u-1", Name: "A. Student", Class: "X"})).To(Succeed())
		g.Expect(svc.Attendance.CacheAttendance(ctx, portal.AttendanceSummary{TotalDays: 100, Present: 92, Percentage: 92})).To(Succeed())
		g.Expect(svc.Subjects.CacheSubjects(ctx, []portal.Subject{{Code: "MTH101", Name: "Mathematics"}})).To(Succeed())
		g.Expect(svc.Feed.CacheFeed(ctx, []portal.Announcement{
			{ID: "n2", Title: "PTM schedule", Timestamp: 200},
			{ID: "n1", Title: "Holiday notice", Timestamp: 100},
		}, "page-2", true)).To(Succeed())
	})

	t.Run("app restart reads everything offline", func(t *testing.T) {
		g := NewWithT(t)

		st, err := store.Open(storePath)
		g.Expect(err).NotTo(HaveOccurred())
		defer st.Close()

		svc, err := portal.NewServices(st, flowIdentity, "2025-26", portal.DefaultValidities())
		g.Expect(err).NotTo(HaveOccurred())

		profile, err := svc.Profile.GetCachedProfile(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(profile).NotTo(BeNil())
		g.Expect(profile.Payload.Name).To(Equal("A. Student"))
		g.Expect(profile.Fresh).To(BeTrue())

		attendance, err := svc.Attendance.GetCachedAttendance(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(attendance).NotTo(BeNil())
		g.Expect(attendance.Payload.Present).To(Equal(92))

		feed, err := svc.Feed.GetCachedFeed(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(feed).NotTo(BeNil())
		g.Expect(feed.Items).To(HaveLen(2))
		g.Expect(feed.HasMore).To(BeTrue())
		g.Expect(feed.NextPage).To(Equal("page-2"))
	})

	t.Run("feed paginates backward to completion", func(t *testing.T) {
		g := NewWithT(t)

		st, err := store.Open(storePath)
		g.Expect(err).NotTo(HaveOccurred())
		defer st.Close()

		svc, err := portal.NewServices(st, flowIdentity, "2025-26", portal.DefaultValidities())
		g.Expect(err).NotTo(HaveOccurred())

		// Head check folds in a newly published notice without losing the
		// stored cursor.
		merged, err := svc.Feed.MergeNewItems(ctx, []portal.Announcement{
			{ID: "n3", Title: "Sports day", Timestamp: 300},
		}, "", true)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(merged).To(HaveLen(3))

		feed, err := svc.Feed.GetCachedFeed(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(feed.NextPage).To(Equal("page-2"))

		// The final history page completes the feed for good.
		final, err := svc.Feed.AppendToCache(ctx, []portal.Announcement{
			{ID: "n0", Title: "Welcome", Timestamp: 50},
		}, "", false)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(final).To(HaveLen(4))

		feed, err = svc.Feed.GetCachedFeed(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(feed.AllLoaded).To(BeTrue())
		g.Expect(feed.HasMore).To(BeFalse())
		g.Expect(feed.NextPage).To(BeEmpty())

		// Newest first, oldest last.
		g.Expect(feed.Items[0].ID).To(Equal("n3"))
		g.Expect(feed.Items[3].ID).To(Equal("n0"))
	})

	t.Run("new build invalidates every domain", func(t *testing.T) {
		g := NewWithT(t)

		st, err := store.Open(storePath)
		g.Expect(err).NotTo(HaveOccurred())
		defer st.Close()

		svc, err := portal.NewServices(st, flowIdentity, "2025-26", portal.DefaultValidities())
		g.Expect(err).NotTo(HaveOccurred())

		wiped, err := svc.EnsureBuildFingerprint(ctx, "build-1")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(wiped).To(BeFalse(), "first recorded fingerprint must not wipe")

		profile, err := svc.Profile.GetCachedProfile(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(profile).NotTo(BeNil())

		wiped, err = svc.EnsureBuildFingerprint(ctx, "build-2")
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(wiped).To(BeTrue())

		profile, err = svc.Profile.GetCachedProfile(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(profile).To(BeNil())

		feed, err := svc.Feed.GetCachedFeed(ctx)
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(feed).To(BeNil(), "the wipe resets even the completed feed")
	})
}

// TestConcurrentMerges hammers one feed scope from parallel goroutines; every
// published notice must survive, exactly once.
func TestConcurrentMerges(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	st, err := store.Create(filepath.Join(t.TempDir(), "cache.scholardesk"))
	g.Expect(err).NotTo(HaveOccurred())
	defer st.Close()

	svc, err := portal.NewServices(st, flowIdentity, "2025-26", portal.DefaultValidities())
	g.Expect(err).NotTo(HaveOccurred())

	notices := []portal.Announcement{
		{ID: "n1", Timestamp: 100},
		{ID: "n2", Timestamp: 200},
		{ID: "n3", Timestamp: 300},
		{ID: "n4", Timestamp: 400},
		{ID: "n5", Timestamp: 500},
	}

	done := make(chan error, len(notices)*4)
	for i := 0; i < 4; i++ {
		go func() {
			for _, n := range notices {
				_, err := svc.Feed.MergeNewItems(ctx, []portal.Announcement{n}, "", true)
				done <- err
			}
		}()
	}
	for i := 0; i < len(notices)*4; i++ {
		g.Expect(<-done).NotTo(HaveOccurred())
	}

	feed, err := svc.Feed.GetCachedFeed(ctx)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(feed).NotTo(BeNil())
	g.Expect(feed.Items).To(HaveLen(len(notices)), "concurrent merges must not duplicate or drop items")
	g.Expect(feed.Items[0].ID).To(Equal("n5"))
	g.Expect(feed.Items[4].ID).To(Equal("n1"))
}
