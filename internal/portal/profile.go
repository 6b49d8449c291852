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

// ProfileService caches the student profile. Two records with different
// policies: the basic profile refreshes on a short window, the detailed
// personal-info record never expires once written. Both are
// session-independent.
type ProfileService struct {
	basic    *cache.TimedCache[Profile]
	personal *cache.TimedCache[PersonalInfo]
}

func NewProfileService(st *store.Store, id Identity, basicValidity, personalValidity time.Duration) (*ProfileService, error) {
	basic, err := cache.NewTimedCache[Profile](st, cache.Scope{
		Domain: DomainProfile,
		Tenant: id.Tenant,
		UserID: id.UserID,
	}, basicValidity)
	if err != nil {
		return nil, err
	}
	personal, err := cache.NewTimedCache[PersonalInfo](st, cache.Scope{
		Domain: DomainPersonal,
		Tenant: id.Tenant,
		UserID: id.UserID,
	}, personalValidity)
	if err != nil {
		return nil, err
	}
	return &ProfileService{basic: basic, personal: personal}, nil
}

func (s *ProfileService) CacheProfile(ctx context.Context, p Profile) error {
	return s.basic.Put(ctx, p)
}

func (s *ProfileService) GetCachedProfile(ctx context.Context) (*cache.Result[Profile], error) {
	return s.basic.Get(ctx)
}

func (s *ProfileService) CachePersonalInfo(ctx context.Context, info PersonalInfo) error {
	return s.personal.Put(ctx, info)
}

func (s *ProfileService) GetCachedPersonalInfo(ctx context.Context) (*cache.Result[PersonalInfo], error) {
	return s.personal.Get(ctx)
}

// ClearCache wipes both profile records.
func (s *ProfileService) ClearCache(ctx context.Context) error {
	if err := s.basic.Clear(ctx); err != nil {
		return err
	}
	return s.personal.Clear(ctx)
}

func (s *ProfileService) CacheAgeString(ctx context.Context) (string, bool, error) {
	return s.basic.AgeString(ctx)
}
