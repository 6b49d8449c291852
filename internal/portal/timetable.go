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
	"time"

	"github.com/26JATIN/scholardesk-sub002/internal/cache"
	"github.com/26JATIN/scholardesk-sub002/internal/store"
)

// TimetableService caches the weekly timetable for one student session.
type TimetableService struct {
	tc *cache.TimedCache[Timetable]
}

func NewTimetableService(st *store.Store, id Identity, sessionID string, validity time.Duration) (*TimetableService, error) {
	tc, err := cache.NewTimedCache[Timetable](st, cache.Scope{
		Domain:    DomainTimetable,
		Tenant:    id.Tenant,
		UserID:    id.UserID,
		SessionID: sessionID,
	}, validity)
	if err != nil {
		return nil, err
	}
	return &TimetableService{tc: tc}, nil
}

func (s *TimetableService) CacheTimetable(ctx context.Context, tt Timetable) error {
	return s.tc.Put(ctx, tt)
}

func (s *TimetableService) GetCachedTimetable(ctx context.Context) (*cache.Result[Timetable], error) {
	return s.tc.Get(ctx)
}

func (s *TimetableService) ClearCache(ctx context.Context) error {
	return s.tc.Clear(ctx)
}

func (s *TimetableService) CacheAgeString(ctx context.Context) (string, bool, error) {
	return s.tc.AgeString(ctx)
}
