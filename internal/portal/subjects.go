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

// SubjectsService caches the enrolled-subject list for one student session.
type SubjectsService struct {
	tc *cache.TimedCache[[]Subject]
}

func NewSubjectsService(st *store.Store, id Identity, sessionID string, validity time.Duration) (*SubjectsService, error) {
	tc, err := cache.NewTimedCache[[]Subject](st, cache.Scope{
		Domain:    DomainSubjects,
		Tenant:    id.Tenant,
		UserID:    id.UserID,
		SessionID: sessionID,
	}, validity)
	if err != nil {
		return nil, err
	}
	return &SubjectsService{tc: tc}, nil
}

func (s *SubjectsService) CacheSubjects(ctx context.Context, subjects []Subject) error {
	return s.tc.Put(ctx, subjects)
}

func (s *SubjectsService) GetCachedSubjects(ctx context.Context) (*cache.Result[[]Subject], error) {
	return s.tc.Get(ctx)
}

func (s *SubjectsService) ClearCache(ctx context.Context) error {
	return s.tc.Clear(ctx)
}

func (s *SubjectsService) CacheAgeString(ctx context.Context) (string, bool, error) {
	return s.tc.AgeString(ctx)
}
