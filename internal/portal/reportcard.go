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

// ReportCardService caches the report card for one student session.
type ReportCardService struct {
	tc *cache.TimedCache[ReportCard]
}

func NewReportCardService(st *store.Store, id Identity, sessionID string, validity time.Duration) (*ReportCardService, error) {
	tc, err := cache.NewTimedCache[ReportCard](st, cache.Scope{
		Domain:    DomainReportCard,
		Tenant:    id.Tenant,
		UserID:    id.UserID,
		SessionID: sessionID,
	}, validity)
	if err != nil {
		return nil, err
	}
	return &ReportCardService{tc: tc}, nil
}

func (s *ReportCardService) CacheReportCard(ctx context.Context, rc ReportCard) error {
	return s.tc.Put(ctx, rc)
}

func (s *ReportCardService) GetCachedReportCard(ctx context.Context) (*cache.Result[ReportCard], error) {
	return s.tc.Get(ctx)
}

func (s *ReportCardService) ClearCache(ctx context.Context) error {
	return s.tc.Clear(ctx)
}

func (s *ReportCardService) CacheAgeString(ctx context.Context) (string, bool, error) {
	return s.tc.AgeString(ctx)
}
