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

// FeeReceiptsService caches the paid-receipt list for one student session.
type FeeReceiptsService struct {
	tc *cache.TimedCache[[]FeeReceipt]
}

func NewFeeReceiptsService(st *store.Store, id Identity, sessionID string, validity time.Duration) (*FeeReceiptsService, error) {
	tc, err := cache.NewTimedCache[[]FeeReceipt](st, cache.Scope{
		Domain:    DomainFeeReceipts,
		Tenant:    id.Tenant,
		UserID:    id.UserID,
		SessionID: sessionID,
	}, validity)
	if err != nil {
		return nil, err
	}
	return &FeeReceiptsService{tc: tc}, nil
}

func (s *FeeReceiptsService) CacheFeeReceipts(ctx context.Context, receipts []FeeReceipt) error {
	return s.tc.Put(ctx, receipts)
}

func (s *FeeReceiptsService) GetCachedFeeReceipts(ctx context.Context) (*cache.Result[[]FeeReceipt], error) {
	return s.tc.Get(ctx)
}

func (s *FeeReceiptsService) ClearCache(ctx context.Context) error {
	return s.tc.Clear(ctx)
}

func (s *FeeReceiptsService) CacheAgeString(ctx context.Context) (string, bool, error) {
	return s.tc.AgeString(ctx)
}
