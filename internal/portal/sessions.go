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

// SessionsService caches the academic-session list. Session-independent:
// the list itself names the sessions, so its scope carries no session id.
type SessionsService struct {
	tc *cache.TimedCache[[]Session]
}

func NewSessionsService(st *store.Store, id Identity, validity time.Duration) (*SessionsService, error) {
	tc, err := cache.NewTimedCache[[]Session](st, cache.Scope{
		Domain: DomainSessions,
		Tenant: id.Tenant,
		UserID: id.UserID,
	}, validity)
	if err != nil {
		return nil, err
	}
	return &SessionsService{tc: tc}, nil
}

func (s *SessionsService) CacheSessions(ctx context.Context, sessions []Session) error {
	return s.tc.Put(ctx, sessions)
}

func (s *SessionsService) GetCachedSessions(ctx context.Context) (*cache.Result[[]Session], error) {
	return s.tc.Get(ctx)
}

func (s *SessionsService) ClearCache(ctx context.Context) error {
	return s.tc.Clear(ctx)
}

func (s *SessionsService) CacheAgeString(ctx context.Context) (string, bool, error) {
	return s.tc.AgeString(ctx)
}
