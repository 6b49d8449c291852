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

// Package portal wires the generic cache engine to the school-portal data
// domains: one cache service per domain, all sharing one injected store
// handle. The store handle's lifecycle is owned by the composition root
// (CLI or app startup); services never open storage themselves.
package portal

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/26JATIN/scholardesk-sub002/internal/cache"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

// Services bundles every domain cache service for one student session.
type Services struct {
	Feed        *FeedService
	Attendance  *AttendanceService
	Timetable   *TimetableService
	Subjects    *SubjectsService
	Sessions    *SessionsService
	Profile     *ProfileService
	ReportCard  *ReportCardService
	FeeReceipts *FeeReceiptsService

	store    *store.Store
	identity Identity
}

// NewServices constructs all domain services over one store handle.
func NewServices(st *store.Store, id Identity, sessionID string, v Validities) (*Services, error) {
	feed, err := NewFeedService(st, id, sessionID)
	if err != nil {
		return nil, err
	}
	if v.FeedCheckInterval > 0 {
		feed.Cache().WithCheckInterval(v.FeedCheckInterval)
	}
	attendance, err := NewAttendanceService(st, id, sessionID, v.Attendance)
	if err != nil {
		return nil, err
	}
	timetable, err := NewTimetableService(st, id, sessionID, v.Timetable)
	if err != nil {
		return nil, err
	}
	subjects, err := NewSubjectsService(st, id, sessionID, v.Subjects)
	if err != nil {
		return nil, err
	}
	sessions, err := NewSessionsService(st, id, v.Sessions)
	if err != nil {
		return nil, err
	}
	profile, err := NewProfileService(st, id, v.Profile, v.PersonalInfo)
	if err != nil {
		return nil, err
	}
	reportCard, err := NewReportCardService(st, id, sessionID, v.ReportCard)
	if err != nil {
		return nil, err
	}
	fees, err := NewFeeReceiptsService(st, id, sessionID, v.FeeReceipts)
	if err != nil {
		return nil, err
	}
	return &Services{
		Feed:        feed,
		Attendance:  attendance,
		Timetable:   timetable,
		Subjects:    subjects,
		Sessions:    sessions,
		Profile:     profile,
		ReportCard:  reportCard,
		FeeReceipts: fees,
		store:       st,
		identity:    id,
	}, nil
}

// ClearAll wipes every cache domain for this identity, across all sessions.
// Called when the running build changed or on explicit user request.
func (s *Services) ClearAll(ctx context.Context) error {
	for _, domain := range Domains {
		prefix := cache.Scope{Domain: domain, Tenant: s.identity.Tenant, UserID: s.identity.UserID}.Prefix()
		if _, err := s.store.RemovePrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

// buildFingerprintKey is where the last-seen build fingerprint lives.
func (s *Services) buildFingerprintKey() string {
	return cache.Scope{Domain: domainMeta, Tenant: s.identity.Tenant, UserID: s.identity.UserID}.Key("build_fingerprint")
}

// EnsureBuildFingerprint compares the stored build fingerprint with the
// running one and wipes every cached domain when they differ — cached
// payload shapes are only trusted within one build. Records the new
// fingerprint either way. Returns true when a wipe happened.
func (s *Services) EnsureBuildFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	key := s.buildFingerprintKey()
	stored, ok, err := s.store.GetString(ctx, key)
	if err != nil {
		return false, err
	}
	if ok && stored == fingerprint {
		return false, nil
	}
	wiped := false
	if ok && stored != fingerprint {
		log.WithFields(log.Fields{"old": stored, "new": fingerprint}).
			Info("build changed, invalidating cached data")
		if err := s.ClearAll(ctx); err != nil {
			return false, err
		}
		wiped = true
	}
	if err := s.store.SetString(ctx, key, fingerprint); err != nil {
		return wiped, err
	}
	return wiped, nil
}
